package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// SuccessFlashDuration is how long the "registered" indicator stays visible.
const SuccessFlashDuration = 3 * time.Second

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("categoria", func(fl validator.FieldLevel) bool {
		return IsCategoria(fl.Field().String())
	})
	_ = v.RegisterValidation("tamanho", func(fl validator.FieldLevel) bool {
		return IsTamanho(fl.Field().String())
	})
	return v
}

// ValidateRegistration checks the four required fields. Presence of text
// fields is checked on the trimmed value; the value itself is left as typed.
func ValidateRegistration(p NewProduct) error {
	return toValidationError(validate.Struct(p))
}

// ValidatePatch rejects slots that are set to a blank or unknown value.
func ValidatePatch(p ProductPatch) error {
	return toValidationError(validate.Struct(p))
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate product: %w", err)
	}

	ve := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		blank := strings.TrimSpace(fmt.Sprint(fe.Value())) == ""
		ve.Fields[fe.Field()] = fieldMessage(fe.Field(), blank)
	}
	return ve
}

func fieldMessage(field string, blank bool) string {
	switch field {
	case "sku":
		return "SKU é obrigatório"
	case "categoria":
		if blank {
			return "Categoria é obrigatória"
		}
		return "Categoria inválida"
	case "tamanho":
		if blank {
			return "Tamanho é obrigatório"
		}
		return "Tamanho inválido"
	case "cor":
		return "Cor é obrigatória"
	}
	return "Valor inválido"
}
