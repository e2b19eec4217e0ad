package nexus

import (
	"github.com/anchore/go-collections"

	"github.com/sonatype/nexus-public-sub016/pkg/processor"
	"github.com/sonatype/nexus-public-sub016/pkg/walker"
)

const (
	CountTag  = "count"
	LogTag    = "log"
	RecordTag = "record"
	// StockTag is carried by every processor of the registry.
	StockTag = "stock"
)

// Processors returns fresh instances of the stock processors, tagged by the names configuration refers to them by.
func Processors() []collections.TaggedValue[walker.Processor] {
	return []collections.TaggedValue[walker.Processor]{
		taggedProcessor(processor.NewCounting(), CountTag),
		taggedProcessor(processor.NewLogging(), LogTag),
		taggedProcessor(processor.NewPathRecorder(), RecordTag),
	}
}

func taggedProcessor(p walker.Processor, tags ...string) collections.TaggedValue[walker.Processor] {
	return collections.NewTaggedValue[walker.Processor](p, append(tags, StockTag)...)
}

func allProcessorTags() []string {
	return collections.TaggedValueSet[walker.Processor]{}.Join(Processors()...).Tags()
}

// SelectProcessors returns fresh processors matching the given tags, ordered by the tags and without duplicates.
func SelectProcessors(tags ...string) []walker.Processor {
	available := Processors()
	var selected []walker.Processor
	taken := make(map[int]bool)
	for _, tag := range tags {
		for i, p := range available {
			if taken[i] || !p.HasTag(tag) {
				continue
			}
			taken[i] = true
			selected = append(selected, p.Value)
		}
	}
	return selected
}
