package email

import "context"

// Sender es la interfaz para enviar emails.
// Implementada por SMTPSender.
type Sender interface {
	// Send envía un único mensaje a un único destinatario.
	// Los errores son *TransportError.
	Send(ctx context.Context, msg Message) error
}

// Message es un email listo para enviar.
type Message struct {
	To          string
	Subject     string
	Text        string // cuerpo text/plain
	HTML        string // alternativa text/html (opcional)
	Attachments []Attachment
}

// Attachment es un archivo adjunto en memoria.
type Attachment struct {
	Name        string
	ContentType string // default application/octet-stream
	Data        []byte
}
