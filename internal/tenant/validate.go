package tenant

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validate convierte un Record en Tenant.
// Los campos requeridos se revisan en orden (name, email, payment_amount,
// payment_description); un campo ausente, null o en blanco es faltante.
// Reasons: "Missing field: <campo>" y "Invalid payment_amount: <valor>".
func Validate(r Record) (Tenant, error) {
	for _, f := range requiredFields {
		if r.text(f) == "" {
			return Tenant{}, &ValidationError{Field: f, Reason: "Missing field: " + f}
		}
	}

	amount, err := parseAmount(r[FieldAmount])
	if err == nil && !amountInRange(amount) {
		err = errAmountRange
	}
	if err != nil {
		return Tenant{}, &ValidationError{
			Field:  FieldAmount,
			Reason: "Invalid payment_amount: " + rawString(r[FieldAmount]),
		}
	}

	return Tenant{
		Name:               r.text(FieldName),
		Email:              r.text(FieldEmail),
		PaymentAmount:      amount,
		PaymentDescription: r.text(FieldDescription),
		PropertyLocation:   r.text(FieldLocation),
	}, nil
}

// Name y Email son best-effort para reportar un registro inválido.
func (r Record) Name() string { return r.text(FieldName) }

func (r Record) Email() string { return r.text(FieldEmail) }

// text retorna el campo como string recortado; "" si falta o es null.
func (r Record) text(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(rawString(v))
}

// Límites de payment_amount, chequeados sobre dígitos y exponente sin
// operar con el valor ("1e2000000000" no se puede expandir a 2 decimales).
const (
	maxAmountIntDigits = 12  // hasta 999.999.999.999,99
	minAmountExponent  = -32 // más decimales que esto no es un monto
)

var errAmountRange = errors.New("amount out of range")

// amountInRange rechaza negativos y valores fuera de los límites.
func amountInRange(d decimal.Decimal) bool {
	if d.Sign() < 0 || d.Exponent() < minAmountExponent || d.Exponent() > maxAmountIntDigits {
		return false
	}
	if d.Sign() == 0 {
		return true
	}
	return int64(d.NumDigits())+int64(d.Exponent()) <= maxAmountIntDigits
}

func parseAmount(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case json.Number:
		return decimal.NewFromString(x.String())
	case string:
		return decimal.NewFromString(strings.TrimSpace(x))
	case float64:
		return decimal.NewFromFloat(x), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("not numeric: %T", v)
	}
}

// rawString reproduce el valor tal como venía en el JSON.
func rawString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
