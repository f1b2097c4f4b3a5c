package settings

import (
	"errors"
	"fmt"
	"time"

	"github.com/qdm12/gosettings"
	"github.com/qdm12/gotree"
)

type Update struct {
	// DetectionPeriod is how often the public IP address is
	// resolved and compared against the last observation.
	DetectionPeriod time.Duration
}

func (u *Update) setDefaults() {
	const defaultDetectionPeriod = 30 * time.Second
	u.DetectionPeriod = gosettings.DefaultNumber(u.DetectionPeriod, defaultDetectionPeriod)
}

func (u Update) mergeWith(other Update) (merged Update) {
	merged.DetectionPeriod = gosettings.MergeWithNumber(u.DetectionPeriod, other.DetectionPeriod)
	return merged
}

var ErrDetectionPeriodTooShort = errors.New("detection period is too short")

func (u Update) Validate() (err error) {
	const minDetectionPeriod = time.Second
	if u.DetectionPeriod < minDetectionPeriod {
		return fmt.Errorf("%w: %s must be at least %s",
			ErrDetectionPeriodTooShort, u.DetectionPeriod, minDetectionPeriod)
	}
	return nil
}

func (u Update) String() string {
	return u.toLinesNode().String()
}

func (u Update) toLinesNode() *gotree.Node {
	node := gotree.New("Update")
	node.Appendf("IP detection period: %s", u.DetectionPeriod)
	return node
}
