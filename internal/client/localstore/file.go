package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

const lockRetry = 50 * time.Millisecond

// FileKV keeps every key in one JSON object on disk. A sibling lock file
// guards it against concurrent CLI processes.
type FileKV struct {
	path string
	lock *flock.Flock
	mu   sync.Mutex
}

func NewFileKV(path string) *FileKV {
	return &FileKV{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

func (f *FileKV) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	var found bool

	err := f.withLock(ctx, func() error {
		data, err := f.load()
		if err != nil {
			return err
		}

		value, found = data[key]

		return nil
	})

	return value, found, err
}

func (f *FileKV) Set(ctx context.Context, key, value string) error {
	return f.withLock(ctx, func() error {
		data, err := f.load()
		if err != nil {
			return err
		}

		data[key] = value

		return f.save(data)
	})
}

func (f *FileKV) Delete(ctx context.Context, key string) error {
	return f.withLock(ctx, func() error {
		data, err := f.load()
		if err != nil {
			return err
		}

		if _, ok := data[key]; !ok {
			return nil
		}

		delete(data, key)

		return f.save(data)
	})
}

func (f *FileKV) Close() error {
	return f.lock.Close()
}

func (f *FileKV) withLock(ctx context.Context, fn func() error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	locked, err := f.lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return errors.New("could not acquire file lock")
	}
	defer func() { _ = f.lock.Unlock() }()

	return fn()
}

// load treats a missing or unreadable file as empty.
func (f *FileKV) load() (map[string]string, error) {
	data := map[string]string{}

	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return data, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if len(raw) == 0 {
		return data, nil
	}

	if err := json.Unmarshal(raw, &data); err != nil {
		return map[string]string{}, nil
	}

	return data, nil
}

func (f *FileKV) save(data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	tmpFile := f.path + ".tmp"
	if err := os.WriteFile(tmpFile, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpFile, f.path); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}
