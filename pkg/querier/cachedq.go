package querier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v2"
	"go.uber.org/zap"

	"github.com/darkclainer/dictui/pkg/dictionary"
)

type CachedConfig struct {
	Path     string
	InMemory bool
	// TTL of cached lookup, zero means that results never expire
	TTL time.Duration
}

// Enabled reports whether cache should be used at all
func (c *CachedConfig) Enabled() bool {
	return c.Path != "" || c.InMemory
}

// Cached remembers successful lookups of underlying querier.
// Failed lookups are never cached, so the next search hits remote again.
type Cached struct {
	querier Querier
	storage *Storage
	ttl     time.Duration
	logger  *zap.Logger
}

func NewCached(querier Querier, storage *Storage, conf *CachedConfig, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{
		querier: querier,
		storage: storage,
		ttl:     conf.TTL,
		logger:  logger,
	}
}

func (c *Cached) Lookup(ctx context.Context, word string) (dictionary.LookupResult, error) {
	cached, err := c.storage.GetLookup(word)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, badger.ErrKeyNotFound) {
		c.logger.Warn("cache read failed", zap.String("word", word), zap.Error(err))
	}
	result, err := c.querier.Lookup(ctx, word)
	if err != nil {
		return nil, err
	}
	if err := c.storage.PutLookup(word, result, c.ttl); err != nil {
		c.logger.Warn("cache write failed", zap.String("word", word), zap.Error(err))
	}
	return result, nil
}

func (c *Cached) Close(ctx context.Context) error {
	var errs []string
	if closeErr := c.querier.Close(ctx); closeErr != nil {
		errs = append(errs, fmt.Sprintf("querier close failed: %s", closeErr))
	}
	if closeErr := c.storage.Close(); closeErr != nil {
		errs = append(errs, fmt.Sprintf("storage close failed: %s", closeErr))
	}
	if len(errs) != 0 {
		return fmt.Errorf("while closing next errors happened: %s", strings.Join(errs, " AND "))
	}
	return nil
}
