package nexus

import (
	"github.com/anchore/go-logger"
	"github.com/wagoodman/go-partybus"

	"github.com/sonatype/nexus-public-sub016/internal/bus"
	"github.com/sonatype/nexus-public-sub016/internal/log"
)

// SetLogger sets the logger used by every walker package. A nil logger discards all output.
func SetLogger(l logger.Logger) {
	log.Set(l)
}

// SetBus sets the bus walk progress and throttle adjustments are published on.
func SetBus(b *partybus.Bus) {
	if b == nil {
		bus.SetPublisher(nil)
		return
	}
	bus.SetPublisher(b)
}
