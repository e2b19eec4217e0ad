package processor

import (
	"github.com/sonatype/nexus-public-sub016/pkg/storage"
	"github.com/sonatype/nexus-public-sub016/pkg/walker"
)

// CountsAttribute is the Result attribute a Counting processor publishes its Counts under after the walk.
const CountsAttribute = "processor.counts"

type Counts struct {
	Collections int
	Items       int
	Leaves      int
	Bytes       int64
}

// Counting tallies the collections and items a walk passes through.
type Counting struct {
	walker.BaseProcessor
	Counts Counts
}

func NewCounting() *Counting {
	return &Counting{}
}

func (c *Counting) BeforeWalk(*walker.Context) error {
	c.Counts = Counts{}
	return nil
}

func (c *Counting) OnCollectionEnter(*walker.Context, *storage.Collection) error {
	c.Counts.Collections++
	return nil
}

func (c *Counting) ProcessItem(_ *walker.Context, item storage.Item) error {
	c.Counts.Items++
	if leaf, ok := item.(*storage.Leaf); ok {
		c.Counts.Leaves++
		c.Counts.Bytes += leaf.Size
	}
	return nil
}

func (c *Counting) AfterWalk(ctx *walker.Context) error {
	ctx.Result().Attributes[CountsAttribute] = c.Counts
	return nil
}
