/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package storage provides the key-value medium tool state is persisted to,
// and a debounced manager that keeps one value in sync with it.
package storage

import (
	"errors"

	"go.uber.org/zap"
)

// ErrNotFound is returned by a Backend when a key holds no value.
var ErrNotFound = errors.New("key not found")

// Backend is a durable string key-value medium. Implementations may fail;
// Store absorbs those failures.
type Backend interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Close() error
}

// Store is the best-effort view of a Backend: reads and writes never
// return errors. Failures are logged and treated as a missing value or a
// dropped write, leaving callers to carry on in memory.
type Store struct {
	backend Backend
	logger  *zap.Logger
}

func NewStore(backend Backend, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Store{
		backend: backend,
		logger:  logger,
	}
}

// Get returns the stored value and whether one was found.
func (s *Store) Get(key string) (string, bool) {
	value, err := s.backend.Get(key)
	switch {
	case err == nil:
		return value, true
	case errors.Is(err, ErrNotFound):
		return "", false
	default:
		s.logger.Warn("storage read failed", zap.String("key", key), zap.Error(err))
		return "", false
	}
}

// Set writes value under key and reports whether the write landed.
func (s *Store) Set(key, value string) bool {
	if err := s.backend.Set(key, value); err != nil {
		s.logger.Warn("storage write failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Close releases the underlying backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
