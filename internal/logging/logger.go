package logging

import (
	"go.uber.org/zap"
)

// New builds the process-wide structured logger. Production config with
// ISO8601 timestamps so log lines line up with booking timestamps.
func New(service string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.InitialFields = map[string]interface{}{
		"service": service,
	}

	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
