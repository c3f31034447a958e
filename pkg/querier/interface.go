package querier

import (
	"context"

	"github.com/darkclainer/dictui/pkg/dictionary"
)

//go:generate go run github.com/vektra/mockery/cmd/mockery -name Querier -output ../mocks/

type Querier interface {
	Lookup(ctx context.Context, word string) (dictionary.LookupResult, error)
	Close(ctx context.Context) error
}
