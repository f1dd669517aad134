package albaran

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"albaranes/pkg/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type draftRules struct {
	CustomerID string      `json:"customerId" validate:"required"`
	Items      []itemRules `json:"items" validate:"required,min=1,dive"`
}

type itemRules struct {
	Product  string  `json:"product" validate:"required"`
	Quantity float64 `json:"quantity" validate:"gte=0"`
	Price    float64 `json:"price" validate:"gte=0"`
}

type customerRules struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
}

// ValidateDraft checks that a customer is selected and every item has a
// product and non-negative amounts.
func ValidateDraft(d *Draft) error {
	rules := draftRules{CustomerID: strings.TrimSpace(d.CustomerID)}
	for _, item := range d.Items {
		rules.Items = append(rules.Items, itemRules{
			Product:  strings.TrimSpace(item.Product),
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}
	return toValidationError(validate.Struct(rules))
}

// ValidateCustomer requires a name and a well-formed email when present.
func ValidateCustomer(c models.Customer) error {
	return toValidationError(validate.Struct(customerRules{
		Name:  strings.TrimSpace(c.Name),
		Email: strings.TrimSpace(c.Email),
	}))
}

// toValidationError reports the first failing field.
func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	fe := ve[0]
	return NewValidationError(fieldPath(fe), formatValidationError(fe))
}

// fieldPath strips the rule struct name: "draftRules.items[0].product"
// becomes "items[0].product".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if fe.Field() == "customerId" {
			return "no customer selected"
		}
		return "is required"
	case "min":
		return fmt.Sprintf("needs at least %s entries", fe.Param())
	case "gte":
		return "must not be negative"
	case "email":
		return "is not a valid email address"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
