package parsers

import (
	"fmt"

	"github.com/wagoodman/go-partybus"
	"github.com/wagoodman/go-progress"

	"github.com/sonatype/nexus-public-sub016/pkg/event"
	"github.com/sonatype/nexus-public-sub016/pkg/walker"
)

type ErrBadPayload struct {
	Type  partybus.EventType
	Field string
	Value interface{}
}

func (e *ErrBadPayload) Error() string {
	return fmt.Sprintf("event='%s' has bad event payload field='%v': '%+v'", string(e.Type), e.Field, e.Value)
}

func newPayloadErr(t partybus.EventType, field string, value interface{}) error {
	return &ErrBadPayload{
		Type:  t,
		Field: field,
		Value: value,
	}
}

func checkEventType(actual, expected partybus.EventType) error {
	if actual != expected {
		return newPayloadErr(expected, "Type", actual)
	}
	return nil
}

func ParseWalkStarted(e partybus.Event) (*event.WalkDescription, progress.StagedProgressable, error) {
	if err := checkEventType(e.Type, event.WalkStarted); err != nil {
		return nil, nil, err
	}

	description, ok := e.Source.(event.WalkDescription)
	if !ok {
		return nil, nil, newPayloadErr(e.Type, "Source", e.Source)
	}

	prog, ok := e.Value.(progress.StagedProgressable)
	if !ok {
		return nil, nil, newPayloadErr(e.Type, "Value", e.Value)
	}

	return &description, prog, nil
}

func ParseThrottleAdjusted(e partybus.Event) (*walker.FixedRateThrottleController, *walker.ThrottleStats, error) {
	if err := checkEventType(e.Type, event.ThrottleAdjusted); err != nil {
		return nil, nil, err
	}

	controller, ok := e.Source.(*walker.FixedRateThrottleController)
	if !ok {
		return nil, nil, newPayloadErr(e.Type, "Source", e.Source)
	}

	stats, ok := e.Value.(walker.ThrottleStats)
	if !ok {
		return nil, nil, newPayloadErr(e.Type, "Value", e.Value)
	}

	return controller, &stats, nil
}
