package email

import (
	"errors"
	"fmt"
)

// TransportError es cualquier falla del transporte (conexión, TLS, auth,
// rechazo del servidor, encoding). Code viene de DiagnoseSMTP.
type TransportError struct {
	Code      string
	Temporary bool
	Err       error
}

func (e *TransportError) Error() string { return e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

// newTransportError clasifica err y lo envuelve.
func newTransportError(err error) *TransportError {
	d := DiagnoseSMTP(err)
	return &TransportError{
		Code:      d.Code,
		Temporary: d.Temporary,
		Err:       fmt.Errorf("smtp send: %w", err),
	}
}

// IsTransportError reporta si err es (o envuelve) un TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
