package logger

import (
	"time"

	"go.uber.org/zap"
)

// =================================================================================
// CAMPOS ESTÁNDAR - CORRIDA
// =================================================================================

// RunID crea un campo para el ID de la corrida.
func RunID(v string) zap.Field {
	return zap.String("run_id", v)
}

// Tenant crea un campo para el nombre del inquilino.
func Tenant(v string) zap.Field {
	return zap.String("tenant", v)
}

// Email crea un campo para el email (usar enmascarado en prod).
func Email(v string) zap.Field {
	return zap.String("email", v)
}

// Reason crea un campo para el motivo de un fallo.
func Reason(v string) zap.Field {
	return zap.String("reason", v)
}

// Duration crea un campo para la duración de una operación.
func Duration(v time.Duration) zap.Field {
	return zap.Duration("duration", v)
}

// =================================================================================
// CAMPOS ESTÁNDAR - SISTEMA
// =================================================================================

// Component crea un campo para el componente/módulo.
func Component(v string) zap.Field {
	return zap.String("component", v)
}

// Op crea un campo para la operación actual.
func Op(v string) zap.Field {
	return zap.String("op", v)
}

// Path crea un campo para una ruta de archivo.
func Path(v string) zap.Field {
	return zap.String("path", v)
}

// Err crea un campo para un error.
func Err(err error) zap.Field {
	return zap.Error(err)
}

// =================================================================================
// CAMPOS ESTÁNDAR - DATOS
// =================================================================================

// Count crea un campo para un conteo.
func Count(v int) zap.Field {
	return zap.Int("count", v)
}

// String crea un campo string genérico.
func String(key, v string) zap.Field {
	return zap.String(key, v)
}

// Int crea un campo int genérico.
func Int(key string, v int) zap.Field {
	return zap.Int(key, v)
}

// Bool crea un campo bool genérico.
func Bool(key string, v bool) zap.Field {
	return zap.Bool(key, v)
}

// Time crea un campo de tiempo genérico.
func Time(key string, v time.Time) zap.Field {
	return zap.Time(key, v)
}
