package controller

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/darkclainer/dictui/pkg/dictionary"
	"github.com/darkclainer/dictui/pkg/mocks"
	"github.com/darkclainer/dictui/pkg/notification"
	"github.com/darkclainer/dictui/pkg/querier"
)

func newResult(word string, definitions ...string) dictionary.LookupResult {
	meaning := &dictionary.Meaning{PartOfSpeech: "noun"}
	for _, d := range definitions {
		meaning.Definitions = append(meaning.Definitions, &dictionary.Definition{Definition: d})
	}
	return dictionary.LookupResult{{Word: word, Meanings: []*dictionary.Meaning{meaning}}}
}

func newTestController(t *testing.T, q querier.Querier, delay time.Duration, policy Policy) *Controller {
	logger := zaptest.NewLogger(t)
	c, err := New(q, notification.NewBanner(logger, delay), logger, &Config{Policy: policy})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func wait(t *testing.T, r Request) {
	select {
	case <-r.Done:
	case <-time.After(5 * time.Second):
		t.Fatalf("search %q was not resolved in time", r.Term)
	}
}

func TestControllerStart(t *testing.T) {
	q := &mocks.Querier{}
	q.On("Lookup", mock.Anything, DefaultTerm).Return(newResult("hello", "A greeting.", "Used to attract attention."), nil)
	c := newTestController(t, q, time.Hour, "")

	wait(t, c.Start())
	q.AssertExpectations(t)

	state := c.State()
	assert.Equal(t, DefaultTerm, state.Term)
	assert.Equal(t, StatusLoaded, state.Status)
	assert.False(t, state.Loading())
	require.NotNil(t, state.Definition)
	assert.Equal(t, dictionary.FlattenedDefinition{Definition: "A greeting.", Example: dictionary.NoExample}, *state.Definition)
	assert.Len(t, state.Definitions, 2)
	assert.Nil(t, state.Notification)
}

func TestControllerSearchLoading(t *testing.T) {
	release := make(chan struct{})
	q := &mocks.Querier{}
	q.On("Lookup", mock.Anything, "slow").
		Run(func(mock.Arguments) { <-release }).
		Return(newResult("slow", "s"), nil)
	c := newTestController(t, q, time.Hour, "")

	r := c.Search("slow")
	state := c.State()
	assert.True(t, state.Loading())
	assert.Equal(t, "slow", state.Term)
	assert.Equal(t, uint64(1), state.Issued)

	close(release)
	wait(t, r)
	assert.Equal(t, StatusLoaded, c.State().Status)
}

func TestControllerFailureKeepsDefinitions(t *testing.T) {
	q := &mocks.Querier{}
	q.On("Lookup", mock.Anything, "hello").Return(newResult("hello", "A greeting."), nil)
	q.On("Lookup", mock.Anything, "asdfxyz").
		Return(nil, &querier.LookupError{Kind: querier.KindStatus, StatusCode: http.StatusNotFound, Word: "asdfxyz"})
	c := newTestController(t, q, time.Hour, "")

	wait(t, c.Search("hello"))
	before := c.State()

	wait(t, c.Search("asdfxyz"))
	state := c.State()
	assert.Equal(t, StatusFailed, state.Status)
	assert.False(t, state.Loading())
	assert.Equal(t, "HTTP error! status: 404", state.Error)
	assert.Equal(t, before.Definition, state.Definition)
	assert.Equal(t, before.Definitions, state.Definitions)

	require.NotNil(t, state.Notification)
	assert.Equal(t, "HTTP error! status: 404", state.Notification.Text)
	assert.Equal(t, notification.SeverityDanger, state.Notification.Severity)
}

func TestControllerNewSearchClearsError(t *testing.T) {
	release := make(chan struct{})
	q := &mocks.Querier{}
	q.On("Lookup", mock.Anything, "broken").Return(nil, errors.New("boom"))
	q.On("Lookup", mock.Anything, "hello").
		Run(func(mock.Arguments) { <-release }).
		Return(newResult("hello", "A greeting."), nil)
	c := newTestController(t, q, time.Hour, "")

	wait(t, c.Search("broken"))
	assert.Equal(t, "boom", c.State().Error)

	c.Search("hello")
	assert.Empty(t, c.State().Error)
	close(release)
	c.Wait()
	assert.Equal(t, StatusLoaded, c.State().Status)
}

func TestControllerEmptyTerm(t *testing.T) {
	q := &mocks.Querier{}
	c := newTestController(t, q, time.Hour, "")

	for _, term := range []string{"", "  "} {
		wait(t, c.Search(term))
		state := c.State()
		assert.Equal(t, StatusFailed, state.Status)
		assert.Equal(t, ErrEmptyTerm.Error(), state.Error)
		require.NotNil(t, state.Notification)
	}
	q.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
}

func TestControllerNotificationAutoDismiss(t *testing.T) {
	const delay = 50 * time.Millisecond
	q := &mocks.Querier{}
	q.On("Lookup", mock.Anything, "broken").Return(nil, errors.New("boom"))
	c := newTestController(t, q, delay, "")

	wait(t, c.Search("broken"))
	require.NotNil(t, c.State().Notification)
	assert.Eventually(t, func() bool {
		return c.State().Notification == nil
	}, 20*delay, delay/5)
	assert.Equal(t, "boom", c.State().Error)
}

func TestControllerNotificationManualClose(t *testing.T) {
	q := &mocks.Querier{}
	q.On("Lookup", mock.Anything, "broken").Return(nil, errors.New("boom"))
	c := newTestController(t, q, time.Hour, "")

	wait(t, c.Search("broken"))
	state := c.State()
	require.NotNil(t, state.Notification)
	assert.True(t, c.Banner().Close(state.Notification.ID))
	assert.Nil(t, c.State().Notification)
}

func TestControllerRace(t *testing.T) {
	testCases := map[string]struct {
		policy   Policy
		expected string
	}{
		"last resolved wins": {
			policy:   PolicyLastResolved,
			expected: "slow definition",
		},
		"latest issued wins": {
			policy:   PolicyLatestIssued,
			expected: "fast definition",
		},
	}
	for name := range testCases {
		tc := testCases[name]
		t.Run(name, func(t *testing.T) {
			release := make(chan struct{})
			q := &mocks.Querier{}
			q.On("Lookup", mock.Anything, "slow").
				Run(func(mock.Arguments) { <-release }).
				Return(newResult("slow", "slow definition"), nil)
			q.On("Lookup", mock.Anything, "fast").Return(newResult("fast", "fast definition"), nil)
			c := newTestController(t, q, time.Hour, tc.policy)

			slow := c.Search("slow")
			fast := c.Search("fast")
			wait(t, fast)
			require.NotNil(t, c.State().Definition)
			assert.Equal(t, "fast definition", c.State().Definition.Definition)

			close(release)
			wait(t, slow)
			state := c.State()
			require.NotNil(t, state.Definition)
			assert.Equal(t, tc.expected, state.Definition.Definition)
			assert.Equal(t, "fast", state.Term)
		})
	}
}

func TestControllerWithRemote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/hello":
			_, _ = w.Write([]byte(`[{"word":"hello","meanings":[{"partOfSpeech":"noun","definitions":[` +
				`{"definition":"A greeting.","example":"She gave a cheerful hello."},{"definition":"Second."}]}]}]`))
		case "/broken":
			_, _ = w.Write([]byte(`not json`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()
	remote := querier.NewRemote(server.Client(), nil, &querier.Config{BaseURL: server.URL})
	defer remote.Close(context.TODO())
	c := newTestController(t, remote, time.Hour, "")

	wait(t, c.Search("hello"))
	state := c.State()
	require.NotNil(t, state.Definition)
	assert.Equal(t, dictionary.Flatten(state.Result)[0], *state.Definition)
	assert.Equal(t, "She gave a cheerful hello.", state.Definition.Example)

	wait(t, c.Search("oops"))
	assert.Equal(t, "HTTP error! status: 500", c.State().Error)

	wait(t, c.Search("broken"))
	state = c.State()
	assert.Contains(t, state.Error, "malformed response")
	assert.Equal(t, "A greeting.", state.Definition.Definition)
}

func TestControllerClosed(t *testing.T) {
	q := &mocks.Querier{}
	c, err := New(q, nil, nil, nil)
	require.NoError(t, err)
	c.Close()

	r := c.Search("hello")
	wait(t, r)
	assert.Equal(t, uint64(0), r.Seq)
	q.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
}

func TestNewUnknownPolicy(t *testing.T) {
	_, err := New(&mocks.Querier{}, nil, nil, &Config{Policy: "random"})
	assert.Error(t, err)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "loaded", StatusLoaded.String())
	text, err := StatusFailed.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "failed", string(text))
	assert.Equal(t, "status(42)", Status(42).String())
}
