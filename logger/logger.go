package logger

import "go.uber.org/zap"

// L is the process-wide logger. It defaults to a no-op logger so tests
// and tools that never call Init still log safely.
var L = zap.NewNop()

// Init replaces L with a production logger writing JSON to stdout.
func Init() error {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stdout"}

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	L = l
	return nil
}
