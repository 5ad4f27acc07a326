package ledgerdelivery

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ValidAmount validates whether the field parses as a decimal amount.
// Grouping commas from the form's input mask are tolerated.
var ValidAmount validator.Func = func(fl validator.FieldLevel) bool {
	if raw, ok := fl.Field().Interface().(string); ok {
		cleaned := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
		_, err := decimal.NewFromString(cleaned)

		return err == nil
	}

	return false
}
