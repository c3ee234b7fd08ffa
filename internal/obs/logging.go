// Package obs contains observability utilities such as logging.
package obs

import "go.uber.org/zap"

// Logger is the global structured logger used by the service.
//
// Logger defaults to a no-op logger so library code and tests can log
// without initialization; InitLogger swaps in the real one at boot.
var Logger = zap.NewNop()

// InitLogger initializes the global Logger with a JSON encoder at info level.
func InitLogger() {
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	l, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	Logger = l
}
