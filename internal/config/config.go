package config

import (
	"errors"
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/dropDatabas3/rentreminder/internal/security/secretbox"
)

// DefaultSchedule: día 1 de cada mes a las 07:00.
const DefaultSchedule = "0 7 1 * *"

type Config struct {
	// Bloque app (opcional en YAML). Si no está, queda vacío.
	App struct {
		// dev | prod
		Env string `yaml:"app_env"`
	} `yaml:"app"`

	SMTP struct {
		Host               string `yaml:"host"`
		Port               int    `yaml:"port"`
		Username           string `yaml:"username"` // default: From
		Password           string `yaml:"password"`
		PasswordEnc        string `yaml:"password_enc"` // secretbox; se descifra con SECRETBOX_MASTER_KEY
		From               string `yaml:"from"`
		TLS                string `yaml:"tls"`                  // starttls | ssl | none
		InsecureSkipVerify bool   `yaml:"insecure_skip_verify"` // sólo dev
		Timeout            string `yaml:"timeout"`
	} `yaml:"smtp"`

	Tenants struct {
		File   string `yaml:"file"`
		Inline string `yaml:"inline"` // JSON embebido; gana sobre File
	} `yaml:"tenants"`

	Reminder struct {
		Currency         string `yaml:"currency"`
		LocationFallback string `yaml:"location_fallback"`
		LateFeeNotice    string `yaml:"late_fee_notice"`
		ContactURL       string `yaml:"contact_url"`
		Signature        string `yaml:"signature"`
	} `yaml:"reminder"`

	Report struct {
		OperatorEmail string `yaml:"operator_email"`
	} `yaml:"report"`

	Log struct {
		File  string `yaml:"file"`
		Level string `yaml:"level"`
	} `yaml:"log"`

	Schedule struct {
		Cron     string `yaml:"cron"`
		Poll     string `yaml:"poll"`
		Timezone string `yaml:"timezone"`
	} `yaml:"schedule"`

	Metrics struct {
		Addr string `yaml:"addr"` // vacío = sin servidor de métricas
	} `yaml:"metrics"`

	// errores diferidos; los reporta Validate
	portErr   error
	secretErr error
}

// ConfigError es un error fatal de configuración: el proceso no debe
// contactar a ningún inquilino.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Msg)
}

// Load lee el YAML en path (opcional: "" = sólo env), aplica defaults y
// overrides por env. No valida: eso lo hace Validate, para poder
// inicializar el logger aun con una config inválida.
func Load(path string) (*Config, error) {
	var c Config
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}

		// Normalizar rutas relativas del YAML respecto a su directorio
		c.Tenants.File = relTo(filepath.Dir(path), c.Tenants.File)
	}

	// Overrides por env
	c.applyEnvOverrides()

	c.applyDefaults()

	c.decryptSecrets()

	return &c, nil
}

// decryptSecrets: la password en claro gana sobre la cifrada.
func (c *Config) decryptSecrets() {
	if c.SMTP.Password != "" || strings.TrimSpace(c.SMTP.PasswordEnc) == "" {
		return
	}
	key, err := secretbox.ParseKey(os.Getenv(secretbox.EnvVar))
	if err != nil {
		c.secretErr = err
		return
	}
	pt, err := secretbox.Decrypt(key, c.SMTP.PasswordEnc)
	if err != nil {
		c.secretErr = err
		return
	}
	c.SMTP.Password = pt
}

func (c *Config) applyDefaults() {
	if c.SMTP.Port == 0 && c.portErr == nil {
		c.SMTP.Port = 587
	}
	if c.SMTP.TLS == "" {
		c.SMTP.TLS = "starttls"
	}
	if c.SMTP.Username == "" {
		c.SMTP.Username = c.SMTP.From
	}
	if c.SMTP.Timeout == "" {
		c.SMTP.Timeout = "30s"
	}
	if c.Reminder.Currency == "" {
		c.Reminder.Currency = "$"
	}
	if c.Reminder.LocationFallback == "" {
		c.Reminder.LocationFallback = "your rental property"
	}
	if c.Reminder.LateFeeNotice == "" {
		c.Reminder.LateFeeNotice = "Payments received after the 5th of the month are subject to a late fee as described in your lease."
	}
	if c.Reminder.ContactURL == "" {
		c.Reminder.ContactURL = "https://segundorentalservices.net/"
	}
	if c.Reminder.Signature == "" {
		c.Reminder.Signature = "Landlord"
	}
	if c.Log.File == "" {
		c.Log.File = "rentreminder.log"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Schedule.Cron == "" {
		c.Schedule.Cron = DefaultSchedule
	}
	if c.Schedule.Poll == "" {
		c.Schedule.Poll = "1m"
	}
	if c.Schedule.Timezone == "" {
		c.Schedule.Timezone = "Local"
	}
}

// Validate revisa lo que es fatal antes de arrancar un batch.
// Retorna *ConfigError con el primer problema encontrado.
func (c *Config) Validate() error {
	if c.portErr != nil {
		return &ConfigError{Field: "smtp.port", Msg: c.portErr.Error()}
	}
	if c.secretErr != nil {
		return &ConfigError{Field: "smtp.password_enc", Msg: c.secretErr.Error()}
	}
	if strings.TrimSpace(c.SMTP.Host) == "" {
		return &ConfigError{Field: "smtp.host", Msg: "required (SMTP_SERVER)"}
	}
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		return &ConfigError{Field: "smtp.port", Msg: fmt.Sprintf("out of range: %d", c.SMTP.Port)}
	}
	if strings.TrimSpace(c.SMTP.From) == "" {
		return &ConfigError{Field: "smtp.from", Msg: "required (EMAIL_ADDRESS)"}
	}
	if _, err := mail.ParseAddress(c.SMTP.From); err != nil {
		return &ConfigError{Field: "smtp.from", Msg: err.Error()}
	}
	if c.SMTP.Password == "" {
		return &ConfigError{Field: "smtp.password", Msg: "required (EMAIL_PASSWORD or EMAIL_PASSWORD_ENC)"}
	}
	switch c.SMTP.TLS {
	case "starttls", "ssl", "none":
	default:
		return &ConfigError{Field: "smtp.tls", Msg: fmt.Sprintf("unknown mode %q (starttls|ssl|none)", c.SMTP.TLS)}
	}
	if _, err := time.ParseDuration(c.SMTP.Timeout); err != nil {
		return &ConfigError{Field: "smtp.timeout", Msg: err.Error()}
	}
	if strings.TrimSpace(c.Report.OperatorEmail) == "" {
		return &ConfigError{Field: "report.operator_email", Msg: "required (OPERATOR_EMAIL)"}
	}
	if _, err := mail.ParseAddress(c.Report.OperatorEmail); err != nil {
		return &ConfigError{Field: "report.operator_email", Msg: err.Error()}
	}
	if _, err := cron.ParseStandard(c.Schedule.Cron); err != nil {
		return &ConfigError{Field: "schedule.cron", Msg: err.Error()}
	}
	if d, err := time.ParseDuration(c.Schedule.Poll); err != nil || d <= 0 {
		return &ConfigError{Field: "schedule.poll", Msg: fmt.Sprintf("invalid duration %q", c.Schedule.Poll)}
	}
	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		return &ConfigError{Field: "schedule.timezone", Msg: err.Error()}
	}
	return nil
}

// SMTPTimeout retorna el timeout ya validado.
func (c *Config) SMTPTimeout() time.Duration {
	d, _ := time.ParseDuration(c.SMTP.Timeout)
	return d
}

// PollInterval retorna el intervalo de chequeo del scheduler ya validado.
func (c *Config) PollInterval() time.Duration {
	d, _ := time.ParseDuration(c.Schedule.Poll)
	return d
}

// Location retorna la zona horaria del scheduler ya validada.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// IsConfigError reporta si err es (o envuelve) un ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}
func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}

// applyEnvOverrides: pisa el YAML con variables de entorno.
// Los nombres SMTP_SERVER/SMTP_PORT/EMAIL_ADDRESS/EMAIL_PASSWORD/TENANTS_JSON
// son los del .env histórico.
func (c *Config) applyEnvOverrides() {
	// APP
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}

	// SMTP
	if v, ok := getEnvStr("SMTP_SERVER"); ok {
		c.SMTP.Host = strings.TrimSpace(v)
	}
	if v, ok := getEnvStr("SMTP_PORT"); ok {
		// a diferencia del resto, un puerto no numérico es fatal
		p, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			c.portErr = fmt.Errorf("SMTP_PORT must be an integer, got %q", v)
		} else {
			c.SMTP.Port = p
		}
	}
	if v, ok := getEnvStr("EMAIL_ADDRESS"); ok {
		c.SMTP.From = strings.TrimSpace(v)
	}
	if v, ok := getEnvStr("EMAIL_PASSWORD"); ok {
		c.SMTP.Password = v
	}
	if v, ok := getEnvStr("EMAIL_PASSWORD_ENC"); ok {
		c.SMTP.PasswordEnc = v
	}
	if v, ok := getEnvStr("SMTP_USERNAME"); ok {
		c.SMTP.Username = strings.TrimSpace(v)
	}
	if v, ok := getEnvStr("SMTP_TLS"); ok {
		c.SMTP.TLS = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := getEnvBool("SMTP_INSECURE_SKIP_VERIFY"); ok {
		c.SMTP.InsecureSkipVerify = v
	}
	if v, ok := getEnvStr("SMTP_TIMEOUT"); ok {
		c.SMTP.Timeout = v
	}

	// TENANTS
	if v, ok := getEnvStr("TENANTS_JSON"); ok {
		c.Tenants.Inline = v
	}
	if v, ok := getEnvStr("TENANTS_FILE"); ok {
		c.Tenants.File = v
	}

	// REMINDER
	if v, ok := getEnvStr("REMINDER_CONTACT_URL"); ok {
		c.Reminder.ContactURL = v
	}
	if v, ok := getEnvStr("REMINDER_SIGNATURE"); ok {
		c.Reminder.Signature = v
	}

	// REPORT
	if v, ok := getEnvStr("OPERATOR_EMAIL"); ok {
		c.Report.OperatorEmail = strings.TrimSpace(v)
	}

	// LOG
	if v, ok := getEnvStr("LOG_FILE"); ok {
		c.Log.File = v
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}

	// SCHEDULE
	if v, ok := getEnvStr("SCHEDULE_CRON"); ok {
		c.Schedule.Cron = v
	}
	if v, ok := getEnvStr("SCHEDULE_POLL"); ok {
		c.Schedule.Poll = v
	}
	if v, ok := getEnvStr("SCHEDULE_TZ"); ok {
		c.Schedule.Timezone = v
	}

	// METRICS
	if v, ok := getEnvStr("METRICS_ADDR"); ok {
		c.Metrics.Addr = v
	}
}

func relTo(base, p string) string {
	p = strings.TrimSpace(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}
