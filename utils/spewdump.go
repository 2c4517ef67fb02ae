package utils

import (
	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"
)

var spewConfig *spew.ConfigState

func init() {
	spewConfig = spew.NewDefaultConfig()
	spewConfig.DisableCapacities = true
	spewConfig.DisablePointerAddresses = true
	spewConfig.MaxDepth = 6
}

func SDump(a ...interface{}) string {
	return spewConfig.Sdump(a...)
}

// LogDump writes a deep dump of the values at debug level.
func LogDump(log *zap.SugaredLogger, msg string, a ...interface{}) {
	if log.Desugar().Core().Enabled(zap.DebugLevel) {
		log.Debugf("%s\n%s", msg, spewConfig.Sdump(a...))
	}
}
