package email

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"net/textproto"
	"strings"

	mail "github.com/go-mail/mail"
)

// SMTPDiag clasifica un error de envío.
// El job no reintenta; Temporary sólo se registra en el log para el operador.
type SMTPDiag struct {
	Code      string // auth|tls|dial|timeout|rate_limited|invalid_recipient|rejected|network|unknown
	Temporary bool
}

// DiagnoseSMTP clasifica err según su tipo: errores de red de net, errores
// de certificado/handshake de crypto/tls y respuestas del servidor
// (*textproto.Error, que go-mail envuelve en *mail.SendError).
func DiagnoseSMTP(err error) SMTPDiag {
	if err == nil {
		return SMTPDiag{Code: "unknown"}
	}

	var se *mail.SendError
	if errors.As(err, &se) && se.Cause != nil {
		err = se.Cause
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return SMTPDiag{Code: "timeout", Temporary: true}
	}

	var dnsErr *net.DNSError
	var opErr *net.OpError
	if errors.As(err, &dnsErr) || (errors.As(err, &opErr) && opErr.Op == "dial") {
		return SMTPDiag{Code: "dial", Temporary: true}
	}

	if isTLSError(err) {
		return SMTPDiag{Code: "tls"}
	}

	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		return replyDiag(tpErr)
	}

	if errors.As(err, &ne) {
		return SMTPDiag{Code: "network", Temporary: true}
	}
	return SMTPDiag{Code: "unknown"}
}

// replyDiag mapea el código de respuesta SMTP (RFC 5321) y, para 550, el
// código extendido (RFC 3463) al principio del mensaje.
func replyDiag(e *textproto.Error) SMTPDiag {
	switch e.Code {
	case 530, 534, 535, 538:
		return SMTPDiag{Code: "auth"}
	case 454:
		return SMTPDiag{Code: "auth", Temporary: true}
	case 421, 450, 451, 452:
		return SMTPDiag{Code: "rate_limited", Temporary: true}
	case 551, 553:
		return SMTPDiag{Code: "invalid_recipient"}
	case 550:
		if strings.HasPrefix(strings.TrimSpace(e.Msg), "5.1.") {
			return SMTPDiag{Code: "invalid_recipient"}
		}
		return SMTPDiag{Code: "rejected"}
	}
	switch {
	case e.Code >= 500:
		return SMTPDiag{Code: "rejected"}
	case e.Code >= 400:
		return SMTPDiag{Code: "rate_limited", Temporary: true}
	}
	return SMTPDiag{Code: "unknown"}
}

// isTLSError: certificado inválido, handshake roto, o un servidor sin
// STARTTLS con la política obligatoria de go-mail.
func isTLSError(err error) bool {
	var (
		verifyErr  *tls.CertificateVerificationError
		recordErr  tls.RecordHeaderError
		unknownCA  x509.UnknownAuthorityError
		hostErr    x509.HostnameError
		invalidErr x509.CertificateInvalidError
	)
	switch {
	case errors.As(err, &verifyErr),
		errors.As(err, &recordErr),
		errors.As(err, &unknownCA),
		errors.As(err, &hostErr),
		errors.As(err, &invalidErr):
		return true
	}
	// go-mail no exporta un tipo para este caso, sólo el texto
	return strings.Contains(strings.ToLower(err.Error()), "does not support starttls")
}
