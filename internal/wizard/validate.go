package wizard

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/juntape/junta/internal/domain"
)

// FieldErrors maps JSON field names to user-facing messages
type FieldErrors map[string]string

// Validator checks drafts field by field
type Validator struct {
	v *validator.Validate
}

// NewValidator registers the json field names and the category rule
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseCategory(fl.Field().String())
		return err == nil
	})
	return &Validator{v: v}
}

// Step validates only the fields belonging to step
func (val *Validator) Step(step Step, d *Draft) FieldErrors {
	fields := step.Fields()
	if fields == nil {
		return val.All(d)
	}
	return toFieldErrors(val.v.StructPartial(d, fields...))
}

// All validates the whole draft
func (val *Validator) All(d *Draft) FieldErrors {
	return toFieldErrors(val.v.Struct(d))
}

func toFieldErrors(err error) FieldErrors {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"_": err.Error()}
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Este campo es obligatorio"
	case "min":
		return fmt.Sprintf("Debe tener al menos %s caracteres", fe.Param())
	case "max":
		return fmt.Sprintf("Debe tener como máximo %s caracteres", fe.Param())
	case "gt":
		return fmt.Sprintf("Debe ser mayor que %s", fe.Param())
	case "gte":
		return fmt.Sprintf("Debe ser al menos %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Debe ser como máximo %s", fe.Param())
	case "url":
		return "Debe ser una URL válida"
	case "category":
		return "Selecciona una categoría válida"
	case "oneof":
		return fmt.Sprintf("Debe ser uno de: %s", fe.Param())
	}
	return "Valor inválido"
}
