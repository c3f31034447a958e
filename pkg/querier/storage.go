package querier

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v2"

	"github.com/darkclainer/dictui/pkg/dictionary"
)

type keyType byte

const (
	lookupKey keyType = iota + 1
)

// Storage keeps lookup results in badger
type Storage struct {
	DB *badger.DB
}

// OpenStorage opens badger database according to config.
// InMemory has priority over Path.
func OpenStorage(conf *CachedConfig) (*Storage, error) {
	var opts badger.Options
	switch {
	case conf.InMemory:
		opts = badger.DefaultOptions("").WithInMemory(true)
	case conf.Path != "":
		opts = badger.DefaultOptions(conf.Path)
	default:
		return nil, errors.New("either cached path or inmemory must be specified")
	}
	db, err := badger.Open(opts.WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("can not open badger: %w", err)
	}
	return &Storage{DB: db}, nil
}

// GetLookup returns badger.ErrKeyNotFound if word was not cached
func (s *Storage) GetLookup(word string) (dictionary.LookupResult, error) {
	var result dictionary.LookupResult
	err := s.DB.View(func(txn *badger.Txn) error {
		item, err := txn.Get(marshalKey(word, lookupKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &result)
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PutLookup saves result for word, ttl less or equal to zero means forever
func (s *Storage) PutLookup(word string, result dictionary.LookupResult, ttl time.Duration) error {
	value, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("can not marshal lookup result: %w", err)
	}
	return s.DB.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(marshalKey(word, lookupKey), value)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
}

func (s *Storage) Close() error {
	return s.DB.Close()
}

func marshalKey(k string, t keyType) []byte {
	result := make([]byte, 0, len(k)+1)
	result = append(result, byte(t))
	return append(result, []byte(k)...)
}
