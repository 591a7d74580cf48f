// Package logging provides structured logging for hm2prom.
//
// This package wraps go.uber.org/zap to provide consistent, structured
// logging across the exporter.
//
// # Features
//
//   - JSON output for production (machine-parsable)
//   - Console output for development (human-readable)
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Optional rotating log file via lumberjack
//   - Thread-safe for concurrent use
//
// # Configuration
//
// Logging is configured via the LoggingConfig in config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//	  file:
//	    path: ""         # empty disables file output
//	    max_size: 100    # megabytes
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("starting exporter", "port", 9110)
//	logger.Error("fetch failed", "error", err)
//
// # Security
//
// Never log secrets such as the MQTT password.
package logging
