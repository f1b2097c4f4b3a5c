package env

import (
	"github.com/flarewatcher/flarewatcher/internal/config/settings"
)

func (s *Source) readUpdate() (settings settings.Update, err error) {
	settings.DetectionPeriod, err = s.env.Duration("IP_DETECTION_PERIOD")
	return settings, err
}
