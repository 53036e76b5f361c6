// Package emailtest provee un email.Sender en memoria para tests.
package emailtest

import (
	"context"
	"sync"

	"github.com/dropDatabas3/rentreminder/internal/email"
)

// Sender guarda cada mensaje enviado. Si Fail tiene una entrada para el
// destinatario, retorna ese error en vez de "enviar".
type Sender struct {
	mu   sync.Mutex
	Sent []email.Message
	// Calls incluye también los envíos fallidos.
	Calls []email.Message
	Fail  map[string]error
}

func New() *Sender {
	return &Sender{Fail: map[string]error{}}
}

func (s *Sender) Send(_ context.Context, msg email.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, msg)
	if err, ok := s.Fail[msg.To]; ok {
		return err
	}
	s.Sent = append(s.Sent, msg)
	return nil
}

// Recipients retorna los destinatarios de todas las llamadas, en orden.
func (s *Sender) Recipients() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.Calls))
	for _, m := range s.Calls {
		out = append(out, m.To)
	}
	return out
}
