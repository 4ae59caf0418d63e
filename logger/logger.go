package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the application logger. The development config gets colored,
// human-readable output; anything else gets production JSON.
func New(env string) (*zap.Logger, error) {
	var zapConfig zap.Config

	if env == "development" || env == "" {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	return zapConfig.Build()
}
