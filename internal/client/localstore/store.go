package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"serenity/internal/config"
	"serenity/internal/core/domain"

	"go.uber.org/zap"
)

const (
	KeyToken   = "serenity-token"
	KeyTheme   = "serenity-theme"
	KeyCity    = "serenity-city"
	KeyTodos   = "serenity-todos"
	KeyHistory = "serenity-history"
)

// Store exposes the durable client keys with their defaults applied.
type Store struct {
	kv     KV
	logger *zap.Logger
}

func New(kv KV, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Store{kv: kv, logger: logger}
}

// Open builds the store selected by the client configuration.
func Open(cfg *config.ClientConfig, logger *zap.Logger) (*Store, error) {
	var kv KV

	switch cfg.StoreDriver {
	case config.StoreMemory:
		kv = NewMemoryKV()
	case config.StoreFile:
		if err := ensureDir(cfg.StorePath); err != nil {
			return nil, err
		}

		kv = NewFileKV(cfg.StorePath)
	case config.StoreSQLite, "":
		if err := ensureDir(cfg.StorePath); err != nil {
			return nil, err
		}

		var logWriter io.Writer
		if cfg.Verbose {
			logWriter = os.Stderr
		}

		sqliteKV, err := NewSQLiteKV(cfg.StorePath, logWriter)
		if err != nil {
			return nil, err
		}

		kv = sqliteKV
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	return New(kv, logger), nil
}

func (s *Store) Close() error {
	return s.kv.Close()
}

func (s *Store) Token(ctx context.Context) (string, error) {
	token, _, err := s.kv.Get(ctx, KeyToken)
	return token, err
}

func (s *Store) SetToken(ctx context.Context, token string) error {
	return s.kv.Set(ctx, KeyToken, token)
}

func (s *Store) ClearToken(ctx context.Context) error {
	return s.kv.Delete(ctx, KeyToken)
}

func (s *Store) Theme(ctx context.Context) (string, error) {
	return s.stringOr(ctx, KeyTheme, domain.DefaultTheme)
}

func (s *Store) SetTheme(ctx context.Context, theme string) error {
	return s.kv.Set(ctx, KeyTheme, theme)
}

func (s *Store) City(ctx context.Context) (string, error) {
	return s.stringOr(ctx, KeyCity, domain.DefaultCity)
}

func (s *Store) SetCity(ctx context.Context, city string) error {
	return s.kv.Set(ctx, KeyCity, city)
}

// Todos loads the guest todo list. A corrupt value loads as empty.
func (s *Store) Todos(ctx context.Context) ([]domain.Todo, error) {
	todos, err := loadList[domain.Todo](ctx, s, KeyTodos)
	if err != nil {
		return nil, err
	}

	for i := range todos {
		todos[i].Normalize()
	}

	return todos, nil
}

func (s *Store) SaveTodos(ctx context.Context, todos []domain.Todo) error {
	return s.saveList(ctx, KeyTodos, todos)
}

// History loads the local history log. A corrupt value loads as empty.
func (s *Store) History(ctx context.Context) ([]domain.HistoryEntry, error) {
	return loadList[domain.HistoryEntry](ctx, s, KeyHistory)
}

func (s *Store) SaveHistory(ctx context.Context, entries []domain.HistoryEntry) error {
	return s.saveList(ctx, KeyHistory, entries)
}

func (s *Store) stringOr(ctx context.Context, key, fallback string) (string, error) {
	value, found, err := s.kv.Get(ctx, key)
	if err != nil {
		return "", err
	}

	if !found || strings.TrimSpace(value) == "" {
		return fallback, nil
	}

	return value, nil
}

func loadList[T any](ctx context.Context, s *Store, key string) ([]T, error) {
	raw, found, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if !found || raw == "" {
		return []T{}, nil
	}

	var list []T
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		s.logger.Warn("Discarding corrupt local data", zap.String("key", key), zap.Error(err))
		return []T{}, nil
	}

	if list == nil {
		list = []T{}
	}

	return list, nil
}

func (s *Store) saveList(ctx context.Context, key string, list any) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}

	return s.kv.Set(ctx, key, string(raw))
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}

	return nil
}
