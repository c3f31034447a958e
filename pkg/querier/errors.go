package querier

import (
	"errors"
	"fmt"
)

var ErrEmptyWord = errors.New("empty word")

type Kind int

const (
	// KindNetwork means that request failed on transport level
	KindNetwork Kind = iota + 1
	// KindStatus means that remote answered with non 2xx status
	KindStatus
	// KindParse means that response body is malformed
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindStatus:
		return "status"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// LookupError is returned by Remote for any failed lookup.
// Its message is suitable to be shown to the user as is.
type LookupError struct {
	Kind       Kind
	Word       string
	StatusCode int
	Err        error
}

func (e *LookupError) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
	case KindNetwork:
		return fmt.Sprintf("network error: %s", e.Err)
	case KindParse:
		return fmt.Sprintf("malformed response: %s", e.Err)
	default:
		return fmt.Sprintf("lookup failed: %s", e.Err)
	}
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// KindOf returns kind of lookup error or zero if err is not LookupError
func KindOf(err error) Kind {
	var lookupErr *LookupError
	if errors.As(err, &lookupErr) {
		return lookupErr.Kind
	}
	return 0
}
