// Package service decodes value envelopes and normalizes them, one document
// at a time or as a bounded concurrent batch.
package service

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chainview/chainview/engine/infra/monitoring"
	"github.com/chainview/chainview/engine/normalizer"
	"github.com/chainview/chainview/engine/value"
	"github.com/chainview/chainview/engine/value/envelope"
	"github.com/chainview/chainview/pkg/config"
	"github.com/chainview/chainview/pkg/logger"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
)

const (
	defaultMaxItems    = 256
	defaultConcurrency = 8
)

// Options configures a Service. A zero CacheSize disables result caching.
type Options struct {
	Normalizer  normalizer.Options
	MaxItems    int
	Concurrency int
	CacheSize   int
	Metrics     *monitoring.NormalizeMetrics
}

// OptionsFromConfig builds Options from the process configuration.
func OptionsFromConfig(cfg *config.Config, metrics *monitoring.NormalizeMetrics) Options {
	return Options{
		Normalizer: normalizer.Options{
			MaxDepth:    cfg.Normalizer.MaxDepth,
			StrictDepth: cfg.Normalizer.StrictDepth,
		},
		MaxItems:    cfg.Batch.MaxItems,
		Concurrency: cfg.Batch.Concurrency,
		CacheSize:   cfg.Cache.Size,
		Metrics:     metrics,
	}
}

type cacheKey [sha256.Size]byte

type cachedResult struct {
	kind string
	out  any
}

// Service is safe for concurrent use. Results served from the cache are
// shared between callers and must not be mutated.
type Service struct {
	normalizer  *normalizer.Normalizer
	maxItems    int
	concurrency int
	cache       *lru.Cache[cacheKey, cachedResult]
	metrics     *monitoring.NormalizeMetrics
}

func New(opts Options) *Service {
	if opts.MaxItems <= 0 {
		opts.MaxItems = defaultMaxItems
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	s := &Service{
		normalizer:  normalizer.New(opts.Normalizer),
		maxItems:    opts.MaxItems,
		concurrency: opts.Concurrency,
		metrics:     opts.Metrics,
	}
	if opts.CacheSize > 0 {
		// lru.New only fails for a non-positive size.
		s.cache, _ = lru.New[cacheKey, cachedResult](opts.CacheSize)
	}
	return s
}

// CacheLen reports the number of cached documents.
func (s *Service) CacheLen() int {
	if s.cache == nil {
		return 0
	}
	return s.cache.Len()
}

// MaxItems returns the batch item limit.
func (s *Service) MaxItems() int {
	return s.maxItems
}

// Normalize decodes one envelope document and normalizes the result.
func (s *Service) Normalize(ctx context.Context, raw []byte) (any, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		s.metrics.RecordDocument(ctx, value.KindOpaque.String(), monitoring.OutcomeCanceled, time.Since(start))
		return nil, err
	}
	var key cacheKey
	if s.cache != nil {
		key = sha256.Sum256(raw)
		if hit, ok := s.cache.Get(key); ok {
			s.metrics.RecordDocument(ctx, hit.kind, monitoring.OutcomeCached, time.Since(start))
			return hit.out, nil
		}
	}
	node, err := envelope.Parse(raw)
	if err != nil {
		s.metrics.RecordDocument(ctx, value.KindOpaque.String(), monitoring.OutcomeInvalid, time.Since(start))
		return nil, err
	}
	kind := normalizer.Classify(node).String()
	out, err := s.normalizeNode(ctx, node, start)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Add(key, cachedResult{kind: kind, out: out})
	}
	return out, nil
}

// NormalizeValue normalizes an already decoded tree.
func (s *Service) NormalizeValue(ctx context.Context, node any) (any, error) {
	return s.normalizeNode(ctx, node, time.Now())
}

func (s *Service) normalizeNode(ctx context.Context, node any, start time.Time) (any, error) {
	kind := normalizer.Classify(node).String()
	out, err := s.normalizer.Normalize(node)
	if err != nil {
		outcome := monitoring.OutcomeInvalid
		if errors.Is(err, normalizer.ErrDepthExceeded) {
			outcome = monitoring.OutcomeDepthExceeded
		}
		s.metrics.RecordDocument(ctx, kind, outcome, time.Since(start))
		logger.FromContext(ctx).Debug("Normalization failed", "kind", kind, "error", err)
		return nil, err
	}
	s.metrics.RecordDocument(ctx, kind, monitoring.OutcomeOK, time.Since(start))
	return out, nil
}

// Batch normalizes docs concurrently and returns results in input order.
// The first failing document cancels the rest and is reported as *ItemError.
func (s *Service) Batch(ctx context.Context, docs [][]byte) ([]any, error) {
	if len(docs) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(docs) > s.maxItems {
		return nil, fmt.Errorf("%w: %d items, limit %d", ErrBatchTooLarge, len(docs), s.maxItems)
	}
	s.metrics.RecordBatch(ctx, len(docs))
	results := make([]any, len(docs))
	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(min(s.concurrency, len(docs)))
	for idx := range docs {
		group.Go(func() (err error) {
			defer recoverItem(groupCtx, idx, &err)
			out, err := s.Normalize(groupCtx, docs[idx])
			if err != nil {
				return &ItemError{Index: idx, Err: err}
			}
			mu.Lock()
			results[idx] = out
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Debug("Batch normalized", "items", len(docs))
	return results, nil
}

func recoverItem(ctx context.Context, idx int, err *error) {
	if r := recover(); r != nil {
		logger.FromContext(ctx).Error("Recovered panic while normalizing batch item", "index", idx, "error", r)
		*err = &ItemError{Index: idx, Err: fmt.Errorf("%w: %v", ErrItemPanic, r)}
	}
}
