// Package logger provides a singleton Zap logger with context-based scoping.
//
// # Design Decisions
//
//   - Singleton: Una sola instancia global inicializada con Init().
//   - Context Scoping: cada corrida del job lleva su propio logger "scoped"
//     (run_id) propagado por contexto, sin crear un nuevo core.
//   - Environments: "dev" usa consola con colores, "prod" usa JSON en stderr.
//   - Archivo de log: si Config.FilePath está seteado, cada evento se agrega
//     (append) al archivo en formato legible. Ese archivo es el que se envía
//     al operador al final de cada corrida.
//
// # Usage
//
// Inicialización (una vez en main.go):
//
//	logger.Init(logger.Config{
//	    Env:      cfg.App.Env,
//	    Level:    cfg.Log.Level,
//	    FilePath: cfg.Log.File,
//	})
//	defer logger.Close()
//
// En el job (con contexto):
//
//	log := logger.From(ctx)
//	log.Info("reminder sent", logger.Tenant(name))
package logger
