package event

import (
	"fmt"

	"github.com/wagoodman/go-partybus"
)

const (
	WalkStarted      partybus.EventType = "walk-started-event"
	ThrottleAdjusted partybus.EventType = "throttle-adjusted-event"
)

// WalkDescription is the source of a WalkStarted event.
type WalkDescription struct {
	RepositoryID string
	Path         string
}

func (d WalkDescription) String() string {
	return fmt.Sprintf("%s:%s", d.RepositoryID, d.Path)
}
