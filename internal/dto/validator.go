// Package dto holds the request and response contracts of the HTTP API and
// the validator that checks incoming requests.
package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/marketplace-backend/internal/model"
)

// Validator adapts go-playground/validator to echo.Validator.
type Validator struct {
	v *validator.Validate
}

// NewValidator registers the enum rules used by the contracts:
//
//	category      product category
//	order_status  order status
//	link_status   link request status
//	role          any account role
//	signup_role   consumer or supplier
//	money         positive decimal with at most two fractional digits
//
// decimal.Decimal fields reach the rules as their exact string form.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(f reflect.Value) interface{} {
		if d, ok := f.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	rules := map[string]func(string) bool{
		"category":     func(s string) bool { return model.ProductCategory(s).Valid() },
		"order_status": func(s string) bool { return model.OrderStatus(s).Valid() },
		"link_status":  func(s string) bool { return model.LinkStatus(s).Valid() },
		"role":         func(s string) bool { return model.Role(s).Valid() },
		"signup_role": func(s string) bool {
			return model.Role(s) == model.RoleConsumer || model.Role(s) == model.RoleSupplier
		},
		"money": func(s string) bool {
			d, err := decimal.NewFromString(s)
			return err == nil && d.IsPositive() && d.Equal(d.Round(model.MoneyPlaces))
		},
	}
	for tag, ok := range rules {
		ok := ok
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return ok(fl.Field().String())
		})
	}
	return &Validator{v: v}
}

// Validate implements echo.Validator.
func (cv *Validator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}

// Message renders a validation error as a short client-facing sentence.
// Errors that did not come from the validator are returned verbatim.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "money":
		return fmt.Sprintf("%s must be a positive amount with at most two decimal places", field)
	case "category", "order_status", "link_status", "role", "signup_role":
		return fmt.Sprintf("%s has an invalid value %q", field, fmt.Sprint(fe.Value()))
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}
