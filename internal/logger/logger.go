package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pageza/cookbook/backend/config"
)

// New builds the application logger for the given environment. Production
// gets JSON output at info level, everything else the console encoder at debug.
func New(env config.Environment) (*zap.Logger, error) {
	var cfg zap.Config
	if env.IsProduction() {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	log, err := cfg.Build(zap.Fields(zap.String("env", string(env))))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return log, nil
}

// Sync flushes buffered entries. Errors from syncing stderr on some
// platforms are expected and ignored.
func Sync(log *zap.Logger) {
	_ = log.Sync()
}
