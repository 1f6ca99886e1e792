// Package validate wraps go-playground/validator so request shapes are
// checked before any entity is touched. Every failing field is reported;
// validation never short-circuits on the first problem.
package validate

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	dErrors "dealeraudit/pkg/domain-errors"
)

// DateLayout is the only accepted date format for audit start/end dates.
const DateLayout = "2006-01-02"

var v *validator.Validate

func init() {
	v = validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("finite", validateFinite)
}

// validateFinite rejects NaN and infinities on numeric fields. Ordinal
// numbers feed abbreviation strings and value accumulators; a NaN would
// poison every ancestor.
func validateFinite(fl validator.FieldLevel) bool {
	f := fl.Field().Float()
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Struct validates a tagged request struct and returns an accumulated
// error list, one CodeValidation entry per failing field.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "validator failure")
	}

	var list dErrors.List
	for _, fe := range fieldErrs {
		list.Addf(dErrors.CodeValidation, fieldName(fe), message(fe))
	}
	return list.Err()
}

func fieldName(fe validator.FieldError) string {
	// Strip the struct name prefix: "CreateBlockRequest.Number" -> "number".
	parts := strings.Split(fe.Namespace(), ".")
	name := parts[len(parts)-1]
	return strings.ToLower(name[:1]) + name[1:]
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "datetime":
		return "must be a date in yyyy-mm-dd format"
	case "finite":
		return "must be a finite number"
	case "min":
		return "is below the minimum of " + fe.Param()
	case "max":
		return "is above the maximum of " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "email":
		return "must be a valid email address"
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}

// Date parses a yyyy-mm-dd date, returning a field-scoped validation error
// on malformed input.
func Date(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, dErrors.NewField(dErrors.CodeValidation, field, "must be a date in yyyy-mm-dd format")
	}
	return t, nil
}
