package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wagoodman/go-partybus"
	"github.com/wagoodman/go-progress"

	"github.com/sonatype/nexus-public-sub016/pkg/event"
	"github.com/sonatype/nexus-public-sub016/pkg/walker"
)

func TestParseWalkStarted(t *testing.T) {
	prog := progress.StagedProgressable(&struct {
		progress.Stager
		*progress.Manual
	}{
		Stager: &progress.Stage{},
		Manual: progress.NewManual(-1),
	})

	tests := []struct {
		name    string
		event   partybus.Event
		wantErr require.ErrorAssertionFunc
	}{
		{
			name: "valid",
			event: partybus.Event{
				Type:   event.WalkStarted,
				Source: event.WalkDescription{RepositoryID: "releases", Path: "/"},
				Value:  prog,
			},
			wantErr: require.NoError,
		},
		{
			name: "wrong type",
			event: partybus.Event{
				Type:   event.ThrottleAdjusted,
				Source: event.WalkDescription{RepositoryID: "releases", Path: "/"},
				Value:  prog,
			},
			wantErr: require.Error,
		},
		{
			name: "bad source",
			event: partybus.Event{
				Type:   event.WalkStarted,
				Source: "releases",
				Value:  prog,
			},
			wantErr: require.Error,
		},
		{
			name: "bad value",
			event: partybus.Event{
				Type:   event.WalkStarted,
				Source: event.WalkDescription{RepositoryID: "releases", Path: "/"},
				Value:  42,
			},
			wantErr: require.Error,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			desc, p, err := ParseWalkStarted(test.event)
			test.wantErr(t, err)
			if err != nil {
				var payloadErr *ErrBadPayload
				assert.ErrorAs(t, err, &payloadErr)
				return
			}
			assert.Equal(t, "releases", desc.RepositoryID)
			assert.NotNil(t, p)
		})
	}
}

func TestParseThrottleAdjusted(t *testing.T) {
	controller, err := walker.NewFixedRateThrottleController(10, walker.NewFibonacciSequence(0))
	require.NoError(t, err)

	c, stats, err := ParseThrottleAdjusted(partybus.Event{
		Type:   event.ThrottleAdjusted,
		Source: controller,
		Value:  controller.Stats(),
	})
	require.NoError(t, err)
	assert.Same(t, controller, c)
	assert.Equal(t, 10, stats.LimiterTPS)

	_, _, err = ParseThrottleAdjusted(partybus.Event{
		Type:   event.ThrottleAdjusted,
		Source: controller,
		Value:  "nope",
	})
	assert.Error(t, err)
}
