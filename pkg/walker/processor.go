package walker

import (
	"github.com/sonatype/nexus-public-sub016/pkg/storage"
)

// Processor is invoked at the boundaries of a walk. Any returned error stops the walk with that error as its cause.
type Processor interface {
	BeforeWalk(ctx *Context) error
	OnCollectionEnter(ctx *Context, collection *storage.Collection) error
	// ProcessItem receives leaves, and also collections when the walk processes collections.
	ProcessItem(ctx *Context, item storage.Item) error
	OnCollectionExit(ctx *Context, collection *storage.Collection) error
	AfterWalk(ctx *Context) error
	// IsActive reports whether the processor should still be invoked. Once false it must stay false.
	IsActive() bool
}

// BaseProcessor is a no-op Processor meant to be embedded, overriding only the callbacks of interest.
type BaseProcessor struct {
	inactive bool
}

func (p *BaseProcessor) BeforeWalk(*Context) error                             { return nil }
func (p *BaseProcessor) OnCollectionEnter(*Context, *storage.Collection) error { return nil }
func (p *BaseProcessor) ProcessItem(*Context, storage.Item) error              { return nil }
func (p *BaseProcessor) OnCollectionExit(*Context, *storage.Collection) error  { return nil }
func (p *BaseProcessor) AfterWalk(*Context) error                              { return nil }

func (p *BaseProcessor) IsActive() bool {
	return !p.inactive
}

// Deactivate permanently removes the processor from the rest of the walk.
func (p *BaseProcessor) Deactivate() {
	p.inactive = true
}

type filesOnly struct {
	Processor
}

// FilesOnly wraps a processor so that ProcessItem only ever receives leaves.
func FilesOnly(p Processor) Processor {
	return filesOnly{Processor: p}
}

func (p filesOnly) ProcessItem(ctx *Context, item storage.Item) error {
	if storage.IsCollection(item) {
		return nil
	}
	return p.Processor.ProcessItem(ctx, item)
}
