package sizing

import (
	"fmt"

	"dealeraudit/internal/masterdata/models"
	"dealeraudit/pkg/domain"
)

// Kind names one of the fixed sizing figures the engine knows how to
// compute. The set is closed: each kind carries its lookup table, the
// derived metric that feeds the lookup, and the table column used per
// installation type code.
type Kind string

const (
	KindCustomerParkingSpots    Kind = "customer_parking_spots"
	KindStaffParkingSpots       Kind = "staff_parking_spots"
	KindServiceParkingSpots     Kind = "service_parking_spots"
	KindNewVehicleExposureUnits Kind = "new_vehicle_exposure_units"
	KindUsedVehicleExposureUnits Kind = "used_vehicle_exposure_units"
	KindDemoVehicleUnits        Kind = "demo_vehicle_units"
	KindExhibitionAreaM2        Kind = "exhibition_area_m2"
	KindExhibitionVehicleUnits  Kind = "exhibition_vehicle_units"
	KindCustomerLoungeM2        Kind = "customer_lounge_m2"
	KindDeliveryAreaM2          Kind = "delivery_area_m2"
	KindPostSaleReceptionM2     Kind = "post_sale_reception_m2"
	KindWorkshopAreaM2          Kind = "workshop_area_m2"
	KindWorkshopBayUnits        Kind = "workshop_bay_units"
	KindDirectReceptionBayUnits Kind = "direct_reception_bay_units"
	KindPartsWarehouseM2        Kind = "parts_warehouse_m2"
)

// Metric selects which derived figure feeds a kind's table lookup.
type Metric int

const (
	// MetricSalesXReferential is the installation's share of the
	// dealership's referential sales volume.
	MetricSalesXReferential Metric = iota
	// MetricNumberXReferential weights that share by the dealership's
	// daily post-sale income; it drives the aftersales capacity tables.
	MetricNumberXReferential
	// MetricExhibitionCount is the installation's exhibition unit count,
	// used directly.
	MetricExhibitionCount
)

// SalesXReferential returns the installation's weighted share of the
// dealership's referential sales.
func SalesXReferential(installation *models.Installation, dealership *models.Dealership) float64 {
	return installation.SalesWeight / 100 * dealership.ReferentialSales
}

// NumberXReferential returns the post-sale volume figure: the weighted
// referential sales scaled by the dealership's daily post-sale income.
func NumberXReferential(installation *models.Installation, dealership *models.Dealership) float64 {
	return dealership.PostSaleDailyIncome * installation.SalesWeight / 100 * dealership.ReferentialSales
}

// Assignment binds a kind to its table, input metric, and the 1-based
// table column used for each participating installation type code. Codes
// absent from Columns do not participate: their computed value is null.
type Assignment struct {
	Kind    Kind
	Table   *Table
	Metric  Metric
	Columns map[string]int
}

// assignments is the full kind catalog. Column choices follow the
// capacity manual: the sales-driven tables read IP at column 2, IS at 3,
// ECO at 4 and AOH at 6; the aftersales tables skip ECO, and a few kinds
// apply to principal installations only.
var assignments = map[Kind]Assignment{
	KindCustomerParkingSpots: {
		Table:   customerParkingTable,
		Metric:  MetricSalesXReferential,
		Columns: map[string]int{"IP": 2, "IS": 3, "ECO": 4, "AOH": 6},
	},
	KindStaffParkingSpots: {
		Table:   customerParkingTable,
		Metric:  MetricSalesXReferential,
		Columns: map[string]int{"IP": 2, "IS": 3},
	},
	KindServiceParkingSpots: {
		Table:   workshopBayTable,
		Metric:  MetricNumberXReferential,
		Columns: map[string]int{"IP": 2, "IS": 3, "AOH": 6},
	},
	KindNewVehicleExposureUnits: {
		Table:   vehicleExposureTable,
		Metric:  MetricSalesXReferential,
		Columns: map[string]int{"IP": 2, "IS": 3, "ECO": 4},
	},
	KindUsedVehicleExposureUnits: {
		Table:   vehicleExposureTable,
		Metric:  MetricSalesXReferential,
		Columns: map[string]int{"IP": 2, "IS": 3},
	},
	KindDemoVehicleUnits: {
		Table:   vehicleExposureTable,
		Metric:  MetricSalesXReferential,
		Columns: map[string]int{"IP": 2},
	},
	KindExhibitionAreaM2: {
		Table:   exhibitionAreaTable,
		Metric:  MetricExhibitionCount,
		Columns: map[string]int{"IP": 2, "IS": 3, "ECO": 4},
	},
	KindExhibitionVehicleUnits: {
		Table:   exhibitionAreaTable,
		Metric:  MetricSalesXReferential,
		Columns: map[string]int{"IP": 2, "IS": 3},
	},
	KindCustomerLoungeM2: {
		Table:   customerAreaTable,
		Metric:  MetricSalesXReferential,
		Columns: map[string]int{"IP": 2, "IS": 3, "ECO": 4},
	},
	KindDeliveryAreaM2: {
		Table:   customerAreaTable,
		Metric:  MetricSalesXReferential,
		Columns: map[string]int{"IP": 2, "IS": 3},
	},
	KindPostSaleReceptionM2: {
		Table:   postSaleAreaTable,
		Metric:  MetricNumberXReferential,
		Columns: map[string]int{"IP": 2, "IS": 3, "AOH": 6},
	},
	KindWorkshopAreaM2: {
		Table:   postSaleAreaTable,
		Metric:  MetricNumberXReferential,
		Columns: map[string]int{"IP": 2, "IS": 3, "AOH": 6},
	},
	KindWorkshopBayUnits: {
		Table:   workshopBayTable,
		Metric:  MetricNumberXReferential,
		Columns: map[string]int{"IP": 2, "IS": 3, "AOH": 6},
	},
	KindDirectReceptionBayUnits: {
		Table:   workshopBayTable,
		Metric:  MetricNumberXReferential,
		Columns: map[string]int{"IP": 2, "AOH": 6},
	},
	KindPartsWarehouseM2: {
		Table:   partsWarehouseTable,
		Metric:  MetricNumberXReferential,
		Columns: map[string]int{"IP": 2, "IS": 3, "AOH": 6},
	},
}

// Kinds returns every kind the engine can compute.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(assignments))
	for kind := range assignments {
		kinds = append(kinds, kind)
	}
	return kinds
}

// Catalog binds repository criterion ids to sizing kinds. The binding is
// deployment configuration: which criterion in the scoring tree carries
// which capacity figure.
type Catalog struct {
	byCriterion map[domain.CriterionID]Assignment
}

// NewCatalog builds a catalog from criterion-to-kind bindings. Unknown
// kinds are rejected so a bad configuration fails at startup, not at
// compute time.
func NewCatalog(bindings map[domain.CriterionID]Kind) (*Catalog, error) {
	byCriterion := make(map[domain.CriterionID]Assignment, len(bindings))
	for id, kind := range bindings {
		assignment, ok := assignments[kind]
		if !ok {
			return nil, fmt.Errorf("sizing: unknown kind %q for criterion %s", kind, id)
		}
		assignment.Kind = kind
		byCriterion[id] = assignment
	}
	return &Catalog{byCriterion: byCriterion}, nil
}

// Bound reports whether a criterion has a sizing binding.
func (c *Catalog) Bound(id domain.CriterionID) bool {
	_, ok := c.byCriterion[id]
	return ok
}

// Compute produces the suggested value for every bound criterion. A nil
// entry means the installation's type code does not participate in that
// criterion, or the input fell outside every table row.
func (c *Catalog) Compute(installation *models.Installation, dealership *models.Dealership, typeCode string) map[domain.CriterionID]*float64 {
	out := make(map[domain.CriterionID]*float64, len(c.byCriterion))
	for id, assignment := range c.byCriterion {
		out[id] = compute(assignment, installation, dealership, typeCode)
	}
	return out
}

func compute(a Assignment, installation *models.Installation, dealership *models.Dealership, typeCode string) *float64 {
	column, ok := a.Columns[typeCode]
	if !ok {
		return nil
	}
	var query float64
	switch a.Metric {
	case MetricSalesXReferential:
		query = SalesXReferential(installation, dealership)
	case MetricNumberXReferential:
		query = NumberXReferential(installation, dealership)
	case MetricExhibitionCount:
		query = float64(installation.ExhibitionCount)
	}
	value, ok := a.Table.Lookup(query, column)
	if !ok {
		return nil
	}
	return &value
}
