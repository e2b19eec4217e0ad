package nexus

import (
	"context"

	"github.com/sonatype/nexus-public-sub016/pkg/file"
	"github.com/sonatype/nexus-public-sub016/pkg/storage"
	"github.com/sonatype/nexus-public-sub016/pkg/walker"
)

// Walk walks the repository from the given path (the root when empty) with a DefaultWalker. The result is returned
// even when the walk fails, reflecting how far it got.
func Walk(ctx context.Context, repository storage.Repository, path string, options ...Option) (*walker.Result, error) {
	var cfg config
	if err := applyOptions(&cfg, options...); err != nil {
		return nil, err
	}

	wc, err := walker.NewContext(ctx, repository, walker.Request{
		Path:      file.Path(path),
		LocalOnly: cfg.LocalOnly,
	}, cfg.contextOptions()...)
	if err != nil {
		return nil, err
	}

	err = walker.NewDefaultWalker().Walk(wc)
	return wc.Result(), err
}
