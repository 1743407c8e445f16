package logger

import (
	"go-erp/internal/config"
	"go-erp/internal/store"

	"go.uber.org/zap"
)

// NewLogger builds the process logger and tees warn+ entries into the
// store's events collection.
func NewLogger(cfg *config.Config, st *store.Store) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Environment == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	// Important: Enable Caller to get Function Name
	zapConfig.EncoderConfig.FunctionKey = "func"

	baseLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	storeWriter := NewStoreLogWriter(st)
	finalCore := NewStoreCore(baseLogger.Core(), storeWriter)

	return zap.New(finalCore, zap.AddCaller()), nil
}
