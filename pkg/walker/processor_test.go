package walker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseProcessor(t *testing.T) {
	p := &BaseProcessor{}
	assert.True(t, p.IsActive())
	assert.NoError(t, p.BeforeWalk(nil))
	assert.NoError(t, p.ProcessItem(nil, nil))
	assert.NoError(t, p.AfterWalk(nil))

	p.Deactivate()
	assert.False(t, p.IsActive())
}

func TestFilesOnly(t *testing.T) {
	rec := &recorder{}
	wc := mustContext(t, context.Background(), newRepository(t, "/A/x", "/B/"), "/",
		WithProcessCollections(true),
		WithProcessors(FilesOnly(rec)),
	)
	require.NoError(t, NewDefaultWalker().Walk(wc))

	assert.Equal(t, []string{"item:/A/x"}, itemEvents(rec.events))
	assert.Contains(t, rec.events, "enter:/B")
}
