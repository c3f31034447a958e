package controller

import (
	"fmt"

	"github.com/darkclainer/dictui/pkg/dictionary"
	"github.com/darkclainer/dictui/pkg/notification"
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusFailed
)

var statusNames = map[Status]string{
	StatusIdle:    "idle",
	StatusLoading: "loading",
	StatusLoaded:  "loaded",
	StatusFailed:  "failed",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// State is a snapshot of what should be displayed
type State struct {
	Term   string `json:"term"`
	Status Status `json:"status"`
	// Error holds message of the last failed lookup, it is reset by a new search
	Error string `json:"error,omitempty"`
	// Definition is the first of Definitions, nil when there is nothing to show
	Definition   *dictionary.FlattenedDefinition  `json:"definition,omitempty"`
	Definitions  []dictionary.FlattenedDefinition `json:"definitions"`
	Result       dictionary.LookupResult          `json:"-"`
	Notification *notification.Message            `json:"notification,omitempty"`
	// Issued and Resolved are sequence numbers of last issued and last applied lookups
	Issued   uint64 `json:"issued"`
	Resolved uint64 `json:"resolved"`
}

func (s State) Loading() bool {
	return s.Status == StatusLoading
}
