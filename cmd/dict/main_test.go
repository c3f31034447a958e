package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkclainer/dictui/pkg/dictionary"
)

func newDictionaryServer(t *testing.T) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/hello":
			_, _ = w.Write([]byte(`[{"word":"hello","meanings":[{"partOfSpeech":"noun","definitions":[` +
				`{"definition":"A greeting.","example":"Hello!"},{"definition":"Second."}]}]}]`))
		case "/rare":
			_, _ = w.Write([]byte(`[{"word":"rare","meanings":[]}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRun(t *testing.T) {
	server := newDictionaryServer(t)
	testCases := map[string]struct {
		args   []string
		code   int
		stdout string
		stderr string
	}{
		"default word": {
			args:   []string{"--base-url", server.URL},
			stdout: "Definition: A greeting.\nExample: Hello!\n",
		},
		"all definitions": {
			args:   []string{"--base-url", server.URL, "-a", "-w", "hello"},
			stdout: "Definition: A greeting.\nExample: Hello!\n\nDefinition: Second.\nExample: " + dictionary.NoExample + "\n",
		},
		"positional word": {
			args:   []string{"--base-url", server.URL, "rare"},
			stdout: "No definitions found for rare\n",
		},
		"not found": {
			args:   []string{"--base-url", server.URL, "-w", "asdfxyz"},
			code:   codeLookupError,
			stderr: "can not look up word asdfxyz: HTTP error! status: 404\n",
		},
		"bad flag": {
			args: []string{"--unknown"},
			code: codeErrorArgs,
		},
	}
	for name := range testCases {
		tc := testCases[name]
		t.Run(name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tc.args, &stdout, &stderr)
			assert.Equal(t, tc.code, code)
			if tc.stdout != "" || tc.code == 0 {
				assert.Equal(t, tc.stdout, stdout.String())
			}
			if tc.stderr != "" {
				assert.Equal(t, tc.stderr, stderr.String())
			}
		})
	}
}

func TestRunJSON(t *testing.T) {
	server := newDictionaryServer(t)
	var stdout, stderr bytes.Buffer
	code := run([]string{"--base-url", server.URL, "-j", "-a"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var definitions []dictionary.FlattenedDefinition
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &definitions))
	assert.Equal(t, []dictionary.FlattenedDefinition{
		{Definition: "A greeting.", Example: "Hello!"},
		{Definition: "Second.", Example: dictionary.NoExample},
	}, definitions)
}
