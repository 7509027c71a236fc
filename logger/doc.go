// Package logger provides structured logging for fileflow using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers carrying structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
//
// # Usage
//
//	logger.Init(logger.Config{ServiceName: "fileflow", Level: "debug"})
//	log := logger.WithComponent("dag")
//	log.Info("task up to date", logger.Fields(logger.FieldTask, "clean"))
package logger
