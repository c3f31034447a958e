package querier

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/darkclainer/dictui/pkg/dictionary"
)

type Parser interface {
	ParseLookup(body io.Reader) (dictionary.LookupResult, error)
}

// JSONParser decodes body of dictionary API response.
type JSONParser struct{}

func (p *JSONParser) ParseLookup(body io.Reader) (dictionary.LookupResult, error) {
	var result dictionary.LookupResult
	if err := json.NewDecoder(body).Decode(&result); err != nil {
		return nil, fmt.Errorf("can not decode lookup result: %w", err)
	}
	return result, nil
}
