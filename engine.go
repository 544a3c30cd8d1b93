package cwelookup

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// ErrNoSource is returned when the engine has no resolver for an identifier
var ErrNoSource = errors.New("no resolver configured")

// Resolver looks up the weaknesses associated with one canonical key
type Resolver interface {
	// Name identifies the source in reports and logs
	Name() string
	// Resolve never returns an error. Lookup failures are reported as a
	// failed Result so they stay local to their identifier.
	Resolve(ctx context.Context, key string) Result
}

// Sources groups the resolvers an engine can dispatch to. Snapshot and Direct
// are alternatives for CVEs selected by the configured Mode.
type Sources struct {
	Snapshot Resolver
	Direct   Resolver
	Advisory Resolver
}

// Stats summarises a batch
type Stats struct {
	Identifiers int `json:"identifiers" yaml:"identifiers"`
	Entries     int `json:"entries" yaml:"entries"`
	Resolved    int `json:"resolved" yaml:"resolved"`
	Unknown     int `json:"unknown" yaml:"unknown"`
	Missing     int `json:"missing" yaml:"missing"`
	Failed      int `json:"failed" yaml:"failed"`
}

// Batch is the ordered outcome of one ResolveBatch call
type Batch struct {
	RunID   string   `json:"run_id" yaml:"run_id"`
	Mode    Mode     `json:"mode" yaml:"mode"`
	Results []Result `json:"results" yaml:"results"`
	Stats   *Stats   `json:"stats" yaml:"stats"`
}

// Values flattens the batch into the ordered output sequence
func (b *Batch) Values() []string {
	values := make([]string, 0, len(b.Results))
	for _, r := range b.Results {
		values = append(values, r.Values()...)
	}
	return values
}

// Engine resolves batches of identifiers
type Engine struct {
	config  *Config
	sources Sources
	logger  *zap.Logger
}

// NewEngine creates an engine for the given configuration and sources
func NewEngine(config *Config, sources Sources, logger *zap.Logger) *Engine {
	if config == nil {
		config = NewConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		config:  config,
		sources: sources,
		logger:  logger,
	}
}

// Mode returns the resolution mode used for CVE identifiers
func (e *Engine) Mode() Mode {
	return e.config.Mode
}

func (e *Engine) cveResolver() Resolver {
	if e.config.Mode == ModeDirect {
		return e.sources.Direct
	}
	return e.sources.Snapshot
}

func (e *Engine) resolverFor(kind Kind) (Resolver, error) {
	var r Resolver
	if kind == KindAdvisory {
		r = e.sources.Advisory
	} else {
		r = e.cveResolver()
	}
	if r == nil {
		return nil, fmt.Errorf("%w for %s identifiers in %s mode", ErrNoSource, kind, e.config.Mode)
	}
	return r, nil
}

// ResolveBatch resolves every identifier and returns the results in input
// order. Individual lookup failures are kept in their slot; an error is only
// returned when the batch cannot run at all.
func (e *Engine) ResolveBatch(ctx context.Context, ids []string) (*Batch, error) {
	identifiers := make([]Identifier, len(ids))
	resolvers := make([]Resolver, len(ids))
	for i, raw := range ids {
		identifiers[i] = ParseIdentifier(raw)
		r, err := e.resolverFor(identifiers[i].Kind)
		if err != nil {
			return nil, err
		}
		resolvers[i] = r
	}

	batch := &Batch{
		RunID:   uuid.NewString(),
		Mode:    e.config.Mode,
		Results: make([]Result, len(ids)),
	}
	e.logger.Info("resolving batch",
		zap.String("run_id", batch.RunID),
		zap.Stringer("mode", batch.Mode),
		zap.Int("identifiers", len(ids)))

	limit := e.config.Concurrency
	if limit < 1 {
		limit = 1
	}
	memo := newMemo()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range identifiers {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			batch.Results[i] = e.resolve(gctx, identifiers[i], resolvers[i], memo)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("resolving batch: %w", err)
	}

	batch.Stats = summarize(batch.Results)
	e.logger.Info("batch resolved",
		zap.String("run_id", batch.RunID),
		zap.Int("entries", batch.Stats.Entries),
		zap.Int("unknown", batch.Stats.Unknown),
		zap.Int("missing", batch.Stats.Missing),
		zap.Int("failed", batch.Stats.Failed))
	return batch, nil
}

func (e *Engine) resolve(ctx context.Context, id Identifier, r Resolver, memo *memo) Result {
	key := id.Key()
	result, cached := memo.do(key, func() Result {
		return r.Resolve(ctx, key)
	})
	if result.Status == StatusMissing && e.config.MissingAsUnknown {
		result = Unknown()
	}
	result.ID = id.Raw
	result.Key = key
	result.Kind = id.Kind
	result.Source = r.Name()

	fields := []zap.Field{
		zap.String("id", id.Raw),
		zap.String("key", key),
		zap.String("source", result.Source),
		zap.Stringer("status", result.Status),
		zap.Bool("cached", cached),
	}
	if result.Status == StatusFailed {
		e.logger.Warn("lookup failed", append(fields, zap.Error(result.Err))...)
	} else {
		e.logger.Debug("lookup done", append(fields, zap.Strings("weaknesses", result.Weaknesses))...)
	}
	return result
}

func summarize(results []Result) *Stats {
	stats := &Stats{Identifiers: len(results)}
	for _, r := range results {
		stats.Entries += len(r.Values())
		switch r.Status {
		case StatusResolved:
			stats.Resolved++
		case StatusUnknown:
			stats.Unknown++
		case StatusMissing:
			stats.Missing++
		case StatusFailed:
			stats.Failed++
		}
	}
	return stats
}

// memo holds the results of one batch. Concurrent lookups of the same key
// share a single resolver call.
type memo struct {
	group   singleflight.Group
	mu      sync.Mutex
	results map[string]Result
}

func newMemo() *memo {
	return &memo{results: make(map[string]Result)}
}

func (m *memo) get(key string) (Result, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.results[key]
	return r, ok
}

// do returns the stored result for key or runs resolve once for it. The
// boolean is false only for the call that actually resolved the key.
func (m *memo) do(key string, resolve func() Result) (Result, bool) {
	if r, ok := m.get(key); ok {
		return r, true
	}
	ran := false
	v, _, _ := m.group.Do(key, func() (interface{}, error) {
		// a flight for key may have completed since the first check
		if r, ok := m.get(key); ok {
			return r, nil
		}
		ran = true
		r := resolve()
		m.mu.Lock()
		m.results[key] = r
		m.mu.Unlock()
		return r, nil
	})
	return v.(Result), !ran
}
