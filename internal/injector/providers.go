package injector

import (
	"fmt"

	"github.com/google/wire"

	"github.com/zeusync/cardhouse/internal/config"
	"github.com/zeusync/cardhouse/internal/core/observability/log"
	"github.com/zeusync/cardhouse/internal/core/sandbox"
)

var ProviderSet = wire.NewSet(ProvideLogger, ProvideOptions, ProvideSandbox)

// ProvideLogger builds the process logger described by cfg.Log. The cleanup
// flushes buffered entries.
func ProvideLogger(cfg config.Config) (log.Log, func(), error) {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	var logger *log.Logger
	if cfg.Log.Development {
		logger = log.NewDevelopment(level)
	} else {
		logger = log.New(level)
	}
	return logger, func() { _ = logger.Sync() }, nil
}

func ProvideOptions(cfg config.Config) sandbox.Options {
	return cfg.Sandbox()
}

func ProvideSandbox(opts sandbox.Options, logger log.Log) (*sandbox.Sandbox, func(), error) {
	s, err := sandbox.New(opts, logger)
	if err != nil {
		return nil, nil, err
	}
	return s, s.Close, nil
}
