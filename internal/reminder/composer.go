// Package reminder arma el email de recordatorio de alquiler de un inquilino.
package reminder

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"github.com/dropDatabas3/rentreminder/internal/tenant"
)

// Subject es fijo para todos los recordatorios.
const Subject = "Rent Payment Reminder"

// Template contiene el texto fijo del recordatorio.
type Template struct {
	Currency         string // prefijo del monto, ej. "$"
	LocationFallback string // si el inquilino no tiene property_location
	LateFeeNotice    string
	ContactURL       string
	Signature        string
}

// DefaultTemplate son los textos por defecto del recordatorio.
func DefaultTemplate() Template {
	return Template{
		Currency:         "$",
		LocationFallback: "your rental property",
		LateFeeNotice:    "Payments received after the 5th of the month are subject to a late fee as described in your lease.",
		ContactURL:       "https://segundorentalservices.net/",
		Signature:        "Landlord",
	}
}

// Reminder es el email compuesto para un inquilino.
type Reminder struct {
	Subject string
	Text    string
	HTML    string
}

// md convierte el cuerpo a HTML respetando los saltos de línea.
// Sin WithUnsafe: el HTML crudo que venga en los datos del inquilino no pasa.
var md = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// Composer arma recordatorios. Es una función pura de (Template, Tenant).
type Composer struct {
	tpl Template
}

func NewComposer(tpl Template) *Composer {
	d := DefaultTemplate()
	if tpl.Currency == "" {
		tpl.Currency = d.Currency
	}
	if tpl.LocationFallback == "" {
		tpl.LocationFallback = d.LocationFallback
	}
	if tpl.Signature == "" {
		tpl.Signature = d.Signature
	}
	return &Composer{tpl: tpl}
}

// Compose no falla para un Tenant validado.
func (c *Composer) Compose(t tenant.Tenant) Reminder {
	return Reminder{
		Subject: Subject,
		Text:    c.body(t, plain),
		HTML:    renderHTML(c.body(t, escapeMarkdown)),
	}
}

// FormatAmount: prefijo de moneda + 2 decimales, ej. "$950.00".
func (c *Composer) FormatAmount(t tenant.Tenant) string {
	return c.tpl.Currency + t.PaymentAmount.StringFixed(2)
}

// body arma el cuerpo; esc se aplica sólo a los datos del inquilino.
func (c *Composer) body(t tenant.Tenant, esc func(string) string) string {
	location := strings.TrimSpace(t.PropertyLocation)
	if location == "" {
		location = c.tpl.LocationFallback
	}
	amount := esc(c.FormatAmount(t))
	location = esc(location)

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", esc(t.Name))
	fmt.Fprintf(&b, "This is a friendly reminder that your rent payment of %s for %s is due soon.\n\n", amount, location)
	b.WriteString("Payment Details:\n")
	fmt.Fprintf(&b, "Description: %s\n", esc(t.PaymentDescription))
	fmt.Fprintf(&b, "Amount: %s\n", amount)
	fmt.Fprintf(&b, "Property: %s\n\n", location)
	if c.tpl.LateFeeNotice != "" {
		fmt.Fprintf(&b, "%s\n\n", c.tpl.LateFeeNotice)
	}
	if c.tpl.ContactURL != "" {
		fmt.Fprintf(&b, "If you have any questions or need more information, please visit:\n%s\n\n", c.tpl.ContactURL)
	}
	fmt.Fprintf(&b, "Thank you!\n%s", c.tpl.Signature)
	return b.String()
}

func plain(s string) string { return s }

// mdPunct es la puntuación ASCII que CommonMark permite escapar.
const mdPunct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// escapeMarkdown antepone una barra invertida a cada signo de mdPunct: goldmark
// lo toma como literal y el renderer lo escapa para HTML.
func escapeMarkdown(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(mdPunct, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// renderHTML: si goldmark falla (no debería con texto escapado) no hay
// alternativa HTML y el email sale sólo en texto.
func renderHTML(text string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return ""
	}
	return buf.String()
}
