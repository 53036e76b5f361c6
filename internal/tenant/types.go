package tenant

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Campos del registro JSON de un inquilino.
const (
	FieldName        = "name"
	FieldEmail       = "email"
	FieldAmount      = "payment_amount"
	FieldDescription = "payment_description"
	FieldLocation    = "property_location"
)

// requiredFields en el orden en que se validan.
var requiredFields = []string{FieldName, FieldEmail, FieldAmount, FieldDescription}

// Record es una entrada cruda del tenant store, tal como vino en el JSON.
// Los números se preservan como json.Number.
type Record map[string]any

// Tenant es un inquilino ya validado. Inmutable durante la corrida.
type Tenant struct {
	Name               string
	Email              string
	PaymentAmount      decimal.Decimal
	PaymentDescription string
	PropertyLocation   string // opcional; vacío = usar placeholder
}

// Source indica de dónde leer la lista de inquilinos.
// Si Inline no está vacío, gana sobre File.
type Source struct {
	File   string
	Inline string
}

func (s Source) String() string {
	if s.Inline != "" {
		return "inline"
	}
	return s.File
}

// LoadError: el tenant store no se pudo leer o no es un array JSON.
// Es recuperable: la corrida sigue con cero inquilinos.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load tenants from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ValidationError: un registro no cumple el esquema de Tenant.
// Reason es el texto que queda en el resumen.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }
