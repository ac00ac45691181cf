package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/licorera-api/internal/domain"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		// Reportar los campos con su nombre JSON (id_inventario, cantidad, ...).
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Struct valida s según sus tags `validate` y devuelve *domain.ValidationError
// con cada campo inválido en Missing. Devuelve nil si s es válido.
func Struct(message string, s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	verr := domain.NewValidationError(message)
	for _, fe := range ves {
		verr.Add(fieldPath(fe))
	}
	return verr
}

// fieldPath quita el nombre del struct raíz: "CreateSaleRequest.productos[0].cantidad" -> "productos[0].cantidad".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
