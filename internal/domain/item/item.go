// Package item defines the Item entity and its request-schema validation.
package item

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Item is the payload accepted and echoed by POST /items/. The contract is
// presence and type only: any numeric price (zero and negative included) is
// accepted. Price is a pointer so an absent field is distinguishable from a
// zero value, and the optional fields are pointers so a response mirrors
// exactly what the client sent.
type Item struct {
	Name        string   `json:"name" validate:"required"`
	Price       *float64 `json:"price" validate:"required"`
	Description *string  `json:"description,omitempty"`
	Tax         *float64 `json:"tax,omitempty"`
}

// FieldError describes a single failed constraint on a named field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates all field errors for one request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return "validation failed: " + strings.Join(names, ", ")
}

// AsValidationError unwraps err into a *ValidationError if possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

// validate is shared; validator instances cache struct metadata.
var validate = newValidator() //nolint:gochecknoglobals // validator is safe for concurrent use

func newValidator() *validator.Validate {
	v := validator.New()
	// Report field names as they appear on the wire, not as Go identifiers.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the item against its schema constraints and returns a
// *ValidationError listing every violated field.
func (i Item) Validate() error {
	err := validate.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Message: constraintMessage(fe)})
	}
	return &ValidationError{Fields: fields}
}

func constraintMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	default:
		return fmt.Sprintf("failed %q constraint", fe.Tag())
	}
}
