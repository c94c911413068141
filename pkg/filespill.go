// Package pkg provides utilities shared by spruce commands.
package pkg

import (
	"bufio"
	"encoding/gob"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// ErrSpillClosed is returned when appending to a closed spill.
var ErrSpillClosed = errors.New("spill is closed")

// FileSpill is an append-only, gob encoded log of items kept on disk, so a
// run over many files does not hold every rewritten source in memory until
// it is written or patched. Items are read back in append order.
type FileSpill[T any] interface {
	Len() uint64
	Path() string
	Append(item T) error
	// Range decodes every item in append order. It may be called before or
	// after Close.
	Range(fn func(index uint64, item T) error) error
	// Close flushes pending items and releases the file. It is idempotent.
	Close() error
	// Remove closes the spill and deletes its backing file.
	Remove() error
}

type fileSpill[T any] struct {
	mu      sync.Mutex
	path    string
	file    *os.File
	writer  *bufio.Writer
	encoder *gob.Encoder
	length  uint64
}

// DefaultSpillDir returns the directory spills are created in when none is
// configured.
func DefaultSpillDir() string {
	return filepath.Join(os.TempDir(), "spruce")
}

// NewFileSpill creates a spill for items of type T in dir. An empty dir
// means DefaultSpillDir.
func NewFileSpill[T any](dir string) (FileSpill[T], error) {
	if dir == "" {
		dir = DefaultSpillDir()
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		slog.Error("Failed to create spill directory", "path", dir, "error", err)
		return nil, fmt.Errorf("create spill directory: %w", err)
	}

	file, err := os.CreateTemp(dir, "spill-*.gob")
	if err != nil {
		slog.Error("Failed to create spill file", "dir", dir, "error", err)
		return nil, fmt.Errorf("create spill file: %w", err)
	}

	writer := bufio.NewWriter(file)

	slog.Debug("Created spill", "path", file.Name())

	return &fileSpill[T]{
		path:    file.Name(),
		file:    file,
		writer:  writer,
		encoder: gob.NewEncoder(writer),
	}, nil
}

func (s *fileSpill[T]) Len() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.length
}

func (s *fileSpill[T]) Path() string {
	return s.path
}

func (s *fileSpill[T]) Append(item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return ErrSpillClosed
	}

	if err := s.encoder.Encode(item); err != nil {
		slog.Error("Failed to encode spilled item", "path", s.path, "index", s.length, "error", err)
		return fmt.Errorf("encode item %d: %w", s.length, err)
	}

	s.length++

	return nil
}

func (s *fileSpill[T]) Range(fn func(index uint64, item T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file != nil {
		if err := s.writer.Flush(); err != nil {
			return fmt.Errorf("flush spill: %w", err)
		}
	}

	file, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open spill: %w", err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			slog.Warn("Failed to close spill reader", "path", s.path, "error", err)
		}
	}()

	decoder := gob.NewDecoder(bufio.NewReader(file))

	for i := range s.length {
		var item T

		if err := decoder.Decode(&item); err != nil {
			slog.Error("Failed to decode spilled item", "path", s.path, "index", i, "error", err)
			return fmt.Errorf("decode item %d: %w", i, err)
		}

		if err := fn(i, item); err != nil {
			return err
		}
	}

	return nil
}

func (s *fileSpill[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closeLocked()
}

func (s *fileSpill[T]) closeLocked() error {
	if s.file == nil {
		return nil
	}

	flushErr := s.writer.Flush()
	closeErr := s.file.Close()
	s.file = nil

	if err := errors.Join(flushErr, closeErr); err != nil {
		return fmt.Errorf("close spill: %w", err)
	}

	slog.Debug("Closed spill", "path", s.path, "items", s.length)

	return nil
}

func (s *fileSpill[T]) Remove() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	closeErr := s.closeLocked()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Join(closeErr, fmt.Errorf("remove spill: %w", err))
	}

	return closeErr
}
