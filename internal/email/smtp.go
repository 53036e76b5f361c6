package email

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"strings"
	"time"

	mail "github.com/go-mail/mail"

	"github.com/dropDatabas3/rentreminder/internal/observability/logger"
	"github.com/dropDatabas3/rentreminder/internal/util"
)

// SMTPSender implementa Sender usando SMTP.
type SMTPSender struct {
	Host               string
	Port               int
	From               string
	User               string
	Pass               string
	TLSMode            string // "starttls" | "ssl" | "none"
	InsecureSkipVerify bool
	Timeout            time.Duration
}

// NewSMTPSender crea un nuevo SMTPSender con los parámetros dados.
// STARTTLS es obligatorio salvo que se cambie TLSMode.
func NewSMTPSender(host string, port int, from, user, pass string) *SMTPSender {
	return &SMTPSender{
		Host:    host,
		Port:    port,
		From:    from,
		User:    user,
		Pass:    pass,
		TLSMode: "starttls",
		Timeout: 30 * time.Second,
	}
}

// Send abre una conexión, negocia TLS, autentica y envía msg a un único
// destinatario. La conexión se cierra antes de retornar.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	log := logger.From(ctx).With(
		logger.Component("smtp_sender"),
		logger.String("host", s.Host),
		logger.Int("port", s.Port),
		logger.Email(util.MaskEmail(msg.To)),
	)

	if strings.TrimSpace(msg.To) == "" {
		return &TransportError{Code: "invalid_recipient", Err: errors.New("smtp send: empty recipient")}
	}
	if err := ctx.Err(); err != nil {
		return &TransportError{Code: "unknown", Err: err}
	}

	log.Debug("sending email",
		logger.String("subject", msg.Subject),
		logger.String("tls_mode", s.TLSMode),
		logger.Int("attachments", len(msg.Attachments)),
	)

	if err := s.dialer().DialAndSend(s.buildMessage(msg)); err != nil {
		te := newTransportError(err)
		log.Error("smtp send failed",
			logger.String("code", te.Code),
			logger.Bool("temporary", te.Temporary),
			logger.Err(err),
		)
		return te
	}

	log.Info("email sent successfully")
	return nil
}

func (s *SMTPSender) dialer() *mail.Dialer {
	d := mail.NewDialer(s.Host, s.Port, s.User, s.Pass)
	d.Timeout = s.Timeout
	d.TLSConfig = &tls.Config{
		ServerName:         s.Host,
		InsecureSkipVerify: s.InsecureSkipVerify, // sólo dev
	}

	switch s.TLSMode {
	case "ssl":
		d.SSL = true
	case "none":
		d.StartTLSPolicy = mail.NoStartTLS
	default:
		// "starttls": sin STARTTLS no mandamos credenciales
		d.StartTLSPolicy = mail.MandatoryStartTLS
	}
	return d
}

func (s *SMTPSender) buildMessage(msg Message) *mail.Message {
	m := mail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)

	// Preferimos multipart/alternative (txt + html)
	switch {
	case msg.Text != "" && msg.HTML != "":
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	case msg.HTML != "":
		m.SetBody("text/html", msg.HTML)
	default:
		m.SetBody("text/plain", msg.Text)
	}

	for _, a := range msg.Attachments {
		data := a.Data
		ct := a.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		m.Attach(a.Name,
			mail.SetHeader(map[string][]string{"Content-Type": {ct}}),
			mail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
		)
	}
	return m
}
