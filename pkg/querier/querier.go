package querier

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/gammazero/workerpool"
	"golang.org/x/time/rate"

	"github.com/darkclainer/dictui/pkg/dictionary"
)

const (
	DefaultBaseURL = "https://api.dictionaryapi.dev/api/v2/entries/en"
	defaultTimeout = 10 * time.Second
)

type Config struct {
	// ExtraHeader specifies what header will be added to each request
	ExtraHeader map[string]string
	// Timeout specifies maximum wait time for each lookup
	Timeout time.Duration
	// BaseURL is prefix to which looked up word is appended
	BaseURL string
	// RateLimit limits outgoing requests per second, zero means no limit
	RateLimit float64
	Burst     int
	// MaxWorkers specifies how many worker decode response bodies
	// Zero value mean that it will be equal to number of logical CPU
	MaxWorkers int
}

type Remote struct {
	client  *http.Client
	config  *Config
	pool    *workerpool.WorkerPool
	p       Parser
	limiter *rate.Limiter
}

func NewRemote(client *http.Client, p Parser, config *Config) *Remote {
	if client == nil {
		client = &http.Client{}
	}
	if p == nil {
		p = &JSONParser{}
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	if config.MaxWorkers < 1 { // nolint:gomnd // if number not specified
		config.MaxWorkers = runtime.NumCPU()
	}
	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		if config.Burst < 1 {
			config.Burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), config.Burst)
	}
	return &Remote{
		client:  client,
		config:  config,
		pool:    workerpool.New(config.MaxWorkers),
		p:       p,
		limiter: limiter,
	}
}

// Lookup queries dictionary for word. Any failure except ErrEmptyWord is *LookupError.
func (q *Remote) Lookup(ctx context.Context, word string) (dictionary.LookupResult, error) {
	if strings.TrimSpace(word) == "" {
		return nil, ErrEmptyWord
	}
	ctx, cancel := context.WithTimeout(ctx, q.config.Timeout)
	defer cancel()

	response, err := q.get(ctx, word)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	var result dictionary.LookupResult
	// decoding happens in pool to bound cpu usage under many lookups
	q.pool.SubmitWait(func() {
		result, err = q.p.ParseLookup(response.Body)
	})
	if err != nil {
		return nil, &LookupError{Kind: KindParse, Word: word, Err: err}
	}
	return result, nil
}

func (q *Remote) get(ctx context.Context, word string) (*http.Response, error) {
	if q.limiter != nil {
		if err := q.limiter.Wait(ctx); err != nil {
			return nil, &LookupError{Kind: KindNetwork, Word: word, Err: err}
		}
	}
	request, err := q.newRequest(ctx, q.newLookupURL(word))
	if err != nil {
		return nil, &LookupError{Kind: KindNetwork, Word: word, Err: fmt.Errorf("can not assemble request: %w", err)}
	}
	response, err := q.client.Do(request)
	if err != nil {
		return nil, &LookupError{Kind: KindNetwork, Word: word, Err: err}
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		response.Body.Close()
		return nil, &LookupError{
			Kind:       KindStatus,
			Word:       word,
			StatusCode: response.StatusCode,
			Err:        fmt.Errorf("unexpected response code: %d", response.StatusCode),
		}
	}
	return response, nil
}

// newLookupURL appends word to base url without any escaping
func (q *Remote) newLookupURL(word string) string {
	return strings.TrimSuffix(q.config.BaseURL, "/") + "/" + word
}

func (q *Remote) newRequest(ctx context.Context, urlRequest string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlRequest, nil)
	if err != nil {
		return nil, fmt.Errorf("can not form request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for key, value := range q.config.ExtraHeader {
		req.Header.Add(key, value)
	}
	return req, nil
}

func (q *Remote) Close(ctx context.Context) error {
	q.client.CloseIdleConnections()
	q.pool.StopWait()
	return nil
}
