package handlers

import (
	"reflect"
	"sync"

	"github.com/SscSPs/avec_backend/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var registerOnce sync.Once

// RegisterValidators installs the money and committee tags on gin's validator.
// Safe to call more than once.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		err = registerOn(v)
	})
	return err
}

func registerOn(v *validator.Validate) error {
	// decimal.Decimal is a struct; expose it as a string so field tags run on it.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	validations := map[string]validator.Func{
		"positiveamount":    positiveAmount,
		"nonnegativeamount": nonNegativeAmount,
		"sharevalue":        shareValue,
		"committeerole":     committeeRole,
	}
	for tag, fn := range validations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

func fieldDecimal(fl validator.FieldLevel) (decimal.Decimal, bool) {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	return d, err == nil
}

// at most two decimal places
func isCents(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(2))
}

func positiveAmount(fl validator.FieldLevel) bool {
	d, ok := fieldDecimal(fl)
	return ok && d.IsPositive() && isCents(d)
}

func nonNegativeAmount(fl validator.FieldLevel) bool {
	d, ok := fieldDecimal(fl)
	return ok && !d.IsNegative() && isCents(d)
}

// shareValue accepts zero, which means "use the default".
func shareValue(fl validator.FieldLevel) bool {
	return nonNegativeAmount(fl)
}

func committeeRole(fl validator.FieldLevel) bool {
	_, ok := domain.ParseCommitteeRole(fl.Field().String())
	return ok
}
