package processor

import (
	"github.com/sonatype/nexus-public-sub016/internal/log"
	"github.com/sonatype/nexus-public-sub016/pkg/storage"
	"github.com/sonatype/nexus-public-sub016/pkg/walker"
)

// Logging traces every boundary of a walk.
type Logging struct {
	walker.BaseProcessor
}

func NewLogging() *Logging {
	return &Logging{}
}

func (l *Logging) BeforeWalk(ctx *walker.Context) error {
	log.WithFields("repository", ctx.Repository().ID(), "path", ctx.Request().Path).Trace("walk starting")
	return nil
}

func (l *Logging) OnCollectionEnter(_ *walker.Context, collection *storage.Collection) error {
	log.Tracef("entering collection=%q", collection.Path())
	return nil
}

func (l *Logging) ProcessItem(_ *walker.Context, item storage.Item) error {
	switch i := item.(type) {
	case *storage.Leaf:
		log.Tracef("processing leaf=%q size=%d type=%q", i.Path(), i.Size, i.ContentType)
	default:
		log.Tracef("processing item=%q", i.Path())
	}
	return nil
}

func (l *Logging) OnCollectionExit(_ *walker.Context, collection *storage.Collection) error {
	log.Tracef("leaving collection=%q", collection.Path())
	return nil
}

func (l *Logging) AfterWalk(ctx *walker.Context) error {
	result := ctx.Result()
	log.WithFields("repository", ctx.Repository().ID(), "collections", result.CollectionCount).Trace("walk finished")
	return nil
}
