package kv

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// Open abre o badger no diretório informado; path vazio abre em memória.
func Open(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return db, nil
}
