package cases

import (
	"context"
	"io"
	"log"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ihavespoons/smellbench/internal/excerpt"
	"github.com/ihavespoons/smellbench/internal/smell"
	"github.com/ihavespoons/smellbench/internal/source"
)

// Builder turns normalized detector records into cases
type Builder struct {
	resolver *source.Resolver
	cache    *source.Cache
	maxLines int
	workers  int
	logger   *log.Logger

	// OnRecord is called once per processed record, from worker goroutines
	OnRecord func()
}

// BuilderConfig contains configuration for a Builder
type BuilderConfig struct {
	// MaxLines caps every excerpt
	MaxLines int
	// Workers bounds concurrent extractions; defaults to GOMAXPROCS
	Workers int
	// Logger receives per-record diagnostics; nil discards them
	Logger *log.Logger
}

// NewBuilder creates a builder resolving files with resolver and reading
// them through cache.
func NewBuilder(resolver *source.Resolver, cache *source.Cache, config BuilderConfig) *Builder {
	maxLines := config.MaxLines
	if maxLines <= 0 {
		maxLines = excerpt.DefaultMaxLines
	}
	workers := config.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Builder{
		resolver: resolver,
		cache:    cache,
		maxLines: maxLines,
		workers:  workers,
		logger:   logger,
	}
}

type outcome struct {
	c    *Case
	skip SkipReason
}

// Build extracts a case per record and writes them to w in input order.
// Records without a line number, a resolvable file or readable content are
// skipped and counted; they never abort the batch.
func (b *Builder) Build(ctx context.Context, records []smell.Record, w *Writer) (*BuildStats, error) {
	outcomes := make([]outcome, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c, skip, err := b.buildOne(&records[i])
			if err != nil {
				return err
			}
			outcomes[i] = outcome{c: c, skip: skip}
			if b.OnRecord != nil {
				b.OnRecord()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := newBuildStats(len(records))
	for _, o := range outcomes {
		if o.c == nil {
			stats.Skipped[o.skip]++
			continue
		}
		if err := w.Write(o.c); err != nil {
			return stats, err
		}
		stats.Written++
		stats.ByStrategy[o.c.ExcerptStrategy]++
	}
	return stats, nil
}

func (b *Builder) buildOne(r *smell.Record) (*Case, SkipReason, error) {
	if !r.HasLine() {
		return nil, SkipNoLine, nil
	}

	path, ok, err := b.resolver.Resolve(r.Package, r.OuterClass)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		b.logger.Printf("no source for %s.%s (%s)", r.Package, r.OuterClass, r.CaseID)
		return nil, SkipNoFile, nil
	}

	text, codec, err := b.cache.Load(path)
	if err != nil {
		b.logger.Printf("skipping %s: %v", path, err)
		return nil, SkipUnreadable, nil
	}

	res := excerpt.Extract(excerpt.Hint{
		Text:         text,
		ReportedLine: *r.LineNumber,
		TypeName:     r.ClassName,
		MaxLines:     b.maxLines,
	})
	if res.Strategy.IsFallback() {
		b.logger.Printf("%s: %s at line %d of %s (%s)", r.CaseID, res.Strategy, *r.LineNumber, path, codec)
	}

	metrics := r.Metrics
	if metrics == nil {
		metrics = smell.Metrics{}
	}

	return &Case{
		CaseID:          r.CaseID,
		Project:         r.Project,
		FilePath:        path,
		Package:         r.Package,
		ClassName:       r.ClassName,
		SmellType:       r.SmellType,
		DetectorReason:  r.DetectorReason,
		Metrics:         metrics,
		CodeExcerpt:     res.Excerpt,
		ExcerptStrategy: res.Strategy,
	}, "", nil
}
