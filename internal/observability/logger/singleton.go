package logger

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
)

var (
	once      sync.Once
	instance  *zap.Logger
	closeSink = func() {}

	// stderr es reemplazable en tests.
	stderr io.Writer = os.Stderr
)

// Init inicializa el logger singleton con la configuración dada.
// Es idempotente: solo la primera llamada tiene efecto.
// Debe llamarse al inicio de la aplicación (main.go).
func Init(cfg Config) {
	once.Do(func() {
		instance, closeSink = build(cfg)
	})
}

// L retorna el logger singleton.
// Si Init() no fue llamado, crea un logger por defecto (dev, info).
func L() *zap.Logger {
	if instance == nil {
		Init(Config{Env: "dev", Level: "info"})
	}
	return instance
}

// With retorna un logger con campos adicionales.
func With(fields ...zap.Field) *zap.Logger {
	return L().With(fields...)
}

// Sync flushea cualquier buffer pendiente.
// Debe llamarse antes de leer el archivo de log (reporte) y con defer en main.go.
func Sync() error {
	if instance != nil {
		return instance.Sync()
	}
	return nil
}

// Close flushea y cierra el archivo de log.
func Close() {
	_ = Sync()
	closeSink()
}
