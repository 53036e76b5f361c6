package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config configura el logger.
type Config struct {
	// Env define el entorno: "dev" (consola con colores) o "prod" (JSON).
	// Default: "dev"
	Env string

	// Level define el nivel mínimo de log: "debug", "info", "warn", "error".
	// Default: "info"
	Level string

	// FilePath es el archivo de log de corridas. Se abre en modo append y
	// siempre usa formato consola legible, sin colores.
	// Vacío = sin archivo.
	FilePath string

	// ServiceName es el nombre del servicio para incluir en logs.
	// Opcional.
	ServiceName string

	// Version es la versión del servicio.
	// Opcional.
	Version string
}

// build construye el logger según la configuración.
// El cleanup cierra el archivo de log (si hay).
func build(cfg Config) (*zap.Logger, func()) {
	level := zap.NewAtomicLevelAt(parseLevel(cfg.Level))

	var stderrCore zapcore.Core
	if strings.ToLower(cfg.Env) == "prod" {
		stderrCore = prodCore(level)
	} else {
		stderrCore = devCore(level)
	}

	cores := []zapcore.Core{stderrCore}
	cleanup := func() {}

	if p := strings.TrimSpace(cfg.FilePath); p != "" {
		// zap.Open abre con O_APPEND|O_CREATE
		ws, closeFile, err := zap.Open(p)
		if err == nil {
			cores = append(cores, fileCore(ws, level))
			cleanup = closeFile
		} else {
			// Sin archivo seguimos con stderr; el error queda registrado abajo.
			defer func() {
				zap.New(stderrCore).Warn("cannot open log file", zap.String("path", p), zap.Error(err))
			}()
		}
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.DPanicLevel))

	// Agregar campos base si están configurados
	if cfg.ServiceName != "" {
		l = l.With(zap.String("service", cfg.ServiceName))
	}
	if cfg.Version != "" {
		l = l.With(zap.String("version", cfg.Version))
	}

	return l, cleanup
}

// devCore construye el core de desarrollo: consola con colores a stderr.
func devCore(level zap.AtomicLevel) zapcore.Core {
	enc := zap.NewDevelopmentEncoderConfig()

	// Colores para el nivel
	enc.EncodeLevel = zapcore.CapitalColorLevelEncoder

	// Tiempo legible
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")

	// Caller más corto
	enc.EncodeCaller = zapcore.ShortCallerEncoder

	return zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(zapcore.AddSync(stderr)), level)
}

// prodCore construye el core de producción en JSON.
func prodCore(level zap.AtomicLevel) zapcore.Core {
	enc := zap.NewProductionEncoderConfig()

	// Tiempo ISO8601
	enc.EncodeTime = zapcore.ISO8601TimeEncoder

	// Caller
	enc.EncodeCaller = zapcore.ShortCallerEncoder

	return zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.Lock(zapcore.AddSync(stderr)), level)
}

// fileCore: una línea por evento, timestamp ISO8601 + nivel + mensaje + campos.
// Es lo que recibe el operador adjunto en el reporte de log.
func fileCore(ws zapcore.WriteSyncer, level zap.AtomicLevel) zapcore.Core {
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	enc.EncodeCaller = zapcore.ShortCallerEncoder
	enc.StacktraceKey = ""
	return zapcore.NewCore(zapcore.NewConsoleEncoder(enc), ws, level)
}

// parseLevel convierte un string a zapcore.Level.
func parseLevel(lvl string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
