package walker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContext_Defaults(t *testing.T) {
	wc, err := NewContext(context.Background(), newRepository(t), Request{Path: "/"})
	require.NoError(t, err)

	assert.Equal(t, DepthFirst, wc.Order())
	assert.False(t, wc.ProcessCollections())
	assert.Empty(t, wc.Processors())
	assert.Equal(t, Affirmative(), wc.Filter())
	assert.Equal(t, NoThrottle(), wc.ThrottleController())
	assert.Nil(t, wc.Comparator())
	assert.NotNil(t, wc.Result().Attributes)
	assert.False(t, wc.IsStopped())
}

func TestNewContext_Options(t *testing.T) {
	repo := newRepository(t)
	throttle := &fakeThrottle{}

	tests := []struct {
		name    string
		request Request
		options []ContextOption
		wantErr require.ErrorAssertionFunc
		assert  func(t *testing.T, wc *Context)
	}{
		{
			name:    "order",
			options: []ContextOption{WithOrder(BreadthFirst)},
			wantErr: require.NoError,
			assert: func(t *testing.T, wc *Context) {
				assert.Equal(t, BreadthFirst, wc.Order())
			},
		},
		{
			name:    "bad order",
			options: []ContextOption{WithOrder(Order(42))},
			wantErr: require.Error,
		},
		{
			name:    "nil processor",
			options: []ContextOption{WithProcessors(nil)},
			wantErr: require.Error,
		},
		{
			name:    "nil options are ignored",
			options: []ContextOption{nil, WithProcessCollections(true)},
			wantErr: require.NoError,
			assert: func(t *testing.T, wc *Context) {
				assert.True(t, wc.ProcessCollections())
			},
		},
		{
			name:    "throttle controller from request",
			request: Request{Attributes: map[string]interface{}{ThrottleControllerKey: throttle}},
			wantErr: require.NoError,
			assert: func(t *testing.T, wc *Context) {
				assert.Same(t, throttle, wc.ThrottleController())
			},
		},
		{
			name:    "explicit throttle controller wins",
			request: Request{Attributes: map[string]interface{}{ThrottleControllerKey: "not a controller"}},
			options: []ContextOption{WithThrottleController(throttle)},
			wantErr: require.NoError,
			assert: func(t *testing.T, wc *Context) {
				assert.Same(t, throttle, wc.ThrottleController())
			},
		},
		{
			name:    "bad throttle controller attribute",
			request: Request{Attributes: map[string]interface{}{ThrottleControllerKey: "not a controller"}},
			wantErr: require.Error,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			wc, err := NewContext(context.Background(), repo, test.request, test.options...)
			test.wantErr(t, err)
			if test.assert != nil {
				test.assert(t, wc)
			}
		})
	}
}

func TestNewContext_RequiresRepository(t *testing.T) {
	_, err := NewContext(context.Background(), nil, Request{})
	assert.Error(t, err)
}

func TestContext_Stop(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")

	wc := mustContext(t, context.Background(), newRepository(t), "/")
	wc.Stop(nil)
	assert.True(t, wc.IsStopped())
	assert.NoError(t, wc.StopCause())

	wc.Stop(first)
	wc.Stop(second)
	assert.True(t, wc.IsStopped())
	assert.Equal(t, first, wc.StopCause())
}

func TestContext_IsStoppedObservesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	wc := mustContext(t, ctx, newRepository(t), "/")

	assert.False(t, wc.IsStopped())
	cancel()
	assert.True(t, wc.IsStopped())
	assert.ErrorIs(t, wc.StopCause(), ErrWalkCanceled)
	assert.ErrorIs(t, wc.StopCause(), context.Canceled)

	wc.Stop(errBoom)
	assert.ErrorIs(t, wc.StopCause(), ErrWalkCanceled, "cause is never overwritten")
}

func TestParseOrder(t *testing.T) {
	tests := []struct {
		input   string
		want    Order
		wantErr require.ErrorAssertionFunc
	}{
		{input: "", want: DepthFirst, wantErr: require.NoError},
		{input: "depth-first", want: DepthFirst, wantErr: require.NoError},
		{input: "BREADTH_FIRST", want: BreadthFirst, wantErr: require.NoError},
		{input: "bfs", want: BreadthFirst, wantErr: require.NoError},
		{input: "sideways", want: DepthFirst, wantErr: require.Error},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			got, err := ParseOrder(test.input)
			test.wantErr(t, err)
			assert.Equal(t, test.want, got)
		})
	}

	assert.Equal(t, "breadth-first", BreadthFirst.String())
}
