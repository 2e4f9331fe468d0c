package app

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	TimezoneName   = "GMT+3"
	timezoneOffset = 3 * 60 * 60
)

var timezoneOnce sync.Once

// ApplyDefaultTimezone sets the process-wide local timezone to GMT+3.
// Only the first call has an effect; it must run before the server accepts requests.
func ApplyDefaultTimezone(logger *zap.Logger) {
	timezoneOnce.Do(func() {
		time.Local = time.FixedZone(TimezoneName, timezoneOffset)
		logger.Info("application running in GMT+3 timezone", zap.String("now", time.Now().String()))
	})
}
