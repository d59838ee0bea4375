package httpx

import (
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Bind decodes the JSON body into target and runs its validate tags.
// Both failures are reported as ErrValidation.
func Bind(r *http.Request, target any) error {
	if err := DecodeJSON(r, target); err != nil {
		if errors.Is(err, io.EOF) {
			return Validation("corpo da requisição vazio")
		}
		return Validation("JSON inválido: %v", err)
	}
	if err := validate.Struct(target); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fieldMessage(fe))
			}
			return Validation("%s", strings.Join(msgs, "; "))
		}
		return Validation("%v", err)
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " é obrigatório"
	case "gt", "gte", "min":
		return field + " deve ser maior ou igual a " + fe.Param()
	case "max", "lte":
		return field + " deve ser menor ou igual a " + fe.Param()
	case "oneof":
		return field + " deve ser um de: " + fe.Param()
	default:
		return field + " inválido (" + fe.Tag() + ")"
	}
}
