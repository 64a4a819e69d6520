package logger

import (
	"go.uber.org/zap"
)

// New builds the process logger. The handle is constructed once at process
// start and injected into every component that needs it.
func New(env string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stdout"}
	return cfg.Build()
}
