package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/darkclainer/dictui/pkg/dictionary"
	"github.com/darkclainer/dictui/pkg/notification"
	"github.com/darkclainer/dictui/pkg/querier"
)

const DefaultTerm = "hello"

var ErrEmptyTerm = errors.New("search term is empty")

// Policy decides which of concurrently running lookups is displayed
type Policy string

const (
	// PolicyLastResolved displays whatever lookup resolved last, even if it was issued earlier
	PolicyLastResolved Policy = "last-resolved"
	// PolicyLatestIssued drops results of lookups superseded by a newer search
	PolicyLatestIssued Policy = "latest-issued"
)

type Config struct {
	DefaultTerm string
	Policy      Policy
}

func (c *Config) validate() error {
	switch c.Policy {
	case "":
		c.Policy = PolicyLastResolved
	case PolicyLastResolved, PolicyLatestIssued:
	default:
		return fmt.Errorf("unknown policy: %s", c.Policy)
	}
	if c.DefaultTerm == "" {
		c.DefaultTerm = DefaultTerm
	}
	return nil
}

// Request describes issued search
type Request struct {
	Seq  uint64
	Term string
	// Done is closed when lookup is resolved and applied (or dropped)
	Done <-chan struct{}
}

// Controller owns state of current search. All state transitions happen under its mutex.
type Controller struct {
	q      querier.Querier
	banner *notification.Banner
	logger *zap.Logger
	conf   Config

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
	state  State
}

func New(q querier.Querier, banner *notification.Banner, logger *zap.Logger, conf *Config) (*Controller, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if banner == nil {
		banner = notification.NewBanner(logger, notification.DefaultDelay)
	}
	var c Config
	if conf != nil {
		c = *conf
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		q:      q,
		banner: banner,
		logger: logger,
		conf:   c,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Start performs initial search of default term
func (c *Controller) Start() Request {
	return c.Search(c.conf.DefaultTerm)
}

// Search starts lookup of term in background. Previous lookups are not cancelled.
func (c *Controller) Search(term string) Request {
	done := make(chan struct{})
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		close(done)
		return Request{Term: term, Done: done}
	}
	c.state.Issued++
	seq := c.state.Issued
	c.state.Term = term
	c.state.Status = StatusLoading
	c.state.Error = ""
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		defer close(done)
		c.lookup(seq, term)
	}()
	return Request{Seq: seq, Term: term, Done: done}
}

func (c *Controller) lookup(seq uint64, term string) {
	logger := c.logger.With(
		zap.String("request_id", uuid.New().String()),
		zap.Uint64("seq", seq),
		zap.String("term", term),
	)
	if strings.TrimSpace(term) == "" {
		c.fail(logger, seq, ErrEmptyTerm)
		return
	}
	started := time.Now()
	result, err := c.q.Lookup(c.ctx, term)
	logger = logger.With(zap.Duration("duration", time.Since(started)))
	if err != nil {
		c.fail(logger, seq, err)
		return
	}
	c.resolve(logger, seq, result)
}

func (c *Controller) resolve(logger *zap.Logger, seq uint64, result dictionary.LookupResult) {
	definitions := dictionary.Flatten(result)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stale(seq) {
		logger.Debug("lookup result dropped, newer search was issued")
		return
	}
	c.state.Status = StatusLoaded
	c.state.Result = result
	c.state.Definitions = definitions
	c.state.Definition = nil
	if len(definitions) != 0 {
		first := definitions[0]
		c.state.Definition = &first
	}
	c.state.Resolved = seq
	logger.Info("lookup resolved", zap.Int("definitions", len(definitions)))
}

// fail keeps displayed definitions untouched and shows the error in banner
func (c *Controller) fail(logger *zap.Logger, seq uint64, err error) {
	message := err.Error()

	c.mu.Lock()
	if c.stale(seq) {
		c.mu.Unlock()
		logger.Debug("lookup failure dropped, newer search was issued", zap.Error(err))
		return
	}
	c.state.Status = StatusFailed
	c.state.Error = message
	c.state.Resolved = seq
	c.mu.Unlock()

	logger.Warn("lookup failed",
		zap.Error(err),
		zap.Stringer("kind", querier.KindOf(err)),
	)
	c.banner.Show(message, notification.SeverityDanger)
}

func (c *Controller) stale(seq uint64) bool {
	return c.conf.Policy == PolicyLatestIssued && seq != c.state.Issued
}

// State returns snapshot of current state together with visible notification
func (c *Controller) State() State {
	c.mu.Lock()
	state := c.state
	c.mu.Unlock()
	if msg, ok := c.banner.Current(); ok {
		state.Notification = &msg
	}
	return state
}

func (c *Controller) Banner() *notification.Banner {
	return c.banner
}

// Wait blocks until all issued lookups are resolved
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels in-flight lookups, waits for them and removes visible notification.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.cancel()
	c.wg.Wait()
	c.banner.Stop()
}
