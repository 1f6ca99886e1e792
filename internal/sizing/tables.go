package sizing

// The capacity tables. Column 1 holds the manual's reference figure and
// is never selected directly; columns 2..6 carry the per-type values
// read through Assignment.Columns.

var customerParkingTable = &Table{Rows: []Row{
	{Initial: 0, End: 100, Values: []float64{100, 6, 4, 3, 2, 2}},
	{Initial: 101, End: 250, Values: []float64{250, 10, 7, 5, 4, 3}},
	{Initial: 251, End: 500, Values: []float64{500, 16, 11, 8, 6, 5}},
	{Initial: 501, End: 1000, Values: []float64{1000, 24, 16, 12, 9, 8}},
	{Initial: 1001, End: 2500, Values: []float64{2500, 36, 24, 18, 14, 12}},
	{Initial: 2501, End: 10000, Values: []float64{10000, 50, 34, 26, 20, 17}},
}}

var vehicleExposureTable = &Table{Rows: []Row{
	{Initial: 0, End: 100, Values: []float64{100, 4, 3, 2, 2, 1}},
	{Initial: 101, End: 250, Values: []float64{250, 6, 4, 3, 2, 2}},
	{Initial: 251, End: 500, Values: []float64{500, 8, 6, 4, 3, 3}},
	{Initial: 501, End: 1000, Values: []float64{1000, 12, 8, 6, 5, 4}},
	{Initial: 1001, End: 2500, Values: []float64{2500, 16, 11, 8, 6, 5}},
	{Initial: 2501, End: 10000, Values: []float64{10000, 22, 15, 11, 9, 7}},
}}

var exhibitionAreaTable = &Table{Rows: []Row{
	{Initial: 0, End: 4, Values: []float64{4, 120, 90, 70, 55, 45}},
	{Initial: 5, End: 8, Values: []float64{8, 240, 180, 140, 110, 90}},
	{Initial: 9, End: 14, Values: []float64{14, 420, 320, 250, 195, 160}},
	{Initial: 15, End: 22, Values: []float64{22, 660, 500, 390, 305, 250}},
	{Initial: 23, End: 40, Values: []float64{40, 1100, 840, 650, 510, 420}},
}}

var customerAreaTable = &Table{Rows: []Row{
	{Initial: 0, End: 100, Values: []float64{100, 20, 15, 12, 9, 8}},
	{Initial: 101, End: 250, Values: []float64{250, 30, 22, 17, 13, 11}},
	{Initial: 251, End: 500, Values: []float64{500, 45, 33, 26, 20, 17}},
	{Initial: 501, End: 1000, Values: []float64{1000, 65, 48, 37, 29, 24}},
	{Initial: 1001, End: 2500, Values: []float64{2500, 90, 66, 51, 40, 33}},
	{Initial: 2501, End: 10000, Values: []float64{10000, 125, 92, 71, 56, 46}},
}}

var postSaleAreaTable = &Table{Rows: []Row{
	{Initial: 0, End: 50000, Values: []float64{50000, 180, 140, 110, 85, 70}},
	{Initial: 50001, End: 150000, Values: []float64{150000, 320, 250, 195, 150, 125}},
	{Initial: 150001, End: 400000, Values: []float64{400000, 560, 430, 335, 260, 215}},
	{Initial: 400001, End: 1000000, Values: []float64{1000000, 950, 730, 570, 445, 365}},
	{Initial: 1000001, End: 5000000, Values: []float64{5000000, 1600, 1230, 960, 750, 615}},
}}

var workshopBayTable = &Table{Rows: []Row{
	{Initial: 0, End: 50000, Values: []float64{50000, 3, 2, 2, 1, 1}},
	{Initial: 50001, End: 150000, Values: []float64{150000, 5, 4, 3, 2, 2}},
	{Initial: 150001, End: 400000, Values: []float64{400000, 8, 6, 5, 4, 3}},
	{Initial: 400001, End: 1000000, Values: []float64{1000000, 13, 10, 8, 6, 5}},
	{Initial: 1000001, End: 5000000, Values: []float64{5000000, 21, 16, 12, 10, 8}},
}}

var partsWarehouseTable = &Table{Rows: []Row{
	{Initial: 0, End: 50000, Values: []float64{50000, 60, 46, 36, 28, 23}},
	{Initial: 50001, End: 150000, Values: []float64{150000, 110, 85, 66, 51, 42}},
	{Initial: 150001, End: 400000, Values: []float64{400000, 195, 150, 117, 91, 75}},
	{Initial: 400001, End: 1000000, Values: []float64{1000000, 340, 260, 203, 158, 130}},
	{Initial: 1000001, End: 5000000, Values: []float64{5000000, 580, 445, 347, 271, 223}},
}}
