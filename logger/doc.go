// Package logger provides structured logging for iocapture using zerolog.
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
//	log := logger.Get("capture")
//	log.Info("schema locked", logger.Fields("operation", sig, "inputs", 2))
package logger
