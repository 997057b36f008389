package syncer

import (
	"context"
	"errors"
	"fmt"

	"serenity/internal/client/remote"
	"serenity/internal/core/domain"
	"serenity/internal/core/model/request"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrNoBackend is returned by session actions when the client runs without
// a backend.
var ErrNoBackend = errors.New("no backend configured")

// deleteAll issues one delete per todo concurrently and waits for all of
// them. The first failure is returned.
func (o *Orchestrator) deleteAll(ctx context.Context, todos []domain.Todo) error {
	var g errgroup.Group

	for _, todo := range todos {
		g.Go(func() error {
			if err := o.remote.DeleteTodo(ctx, todo.ID); err != nil {
				return fmt.Errorf("deleting %s: %w", todo.ID, err)
			}

			return nil
		})
	}

	return g.Wait()
}

// Register creates an account, starts the session and pulls server state.
func (o *Orchestrator) Register(ctx context.Context, email, password, name string) (domain.User, error) {
	return o.startSession(ctx, "register", func(ctx context.Context) (domain.User, error) {
		return o.remote.Register(ctx, request.SignUpRequest{Email: email, Password: password, Name: name})
	})
}

func (o *Orchestrator) Login(ctx context.Context, email, password string) (domain.User, error) {
	return o.startSession(ctx, "login", func(ctx context.Context) (domain.User, error) {
		return o.remote.Login(ctx, request.LoginRequest{Email: email, Password: password})
	})
}

func (o *Orchestrator) startSession(ctx context.Context, action string, auth func(context.Context) (domain.User, error)) (domain.User, error) {
	if !o.caps.HasBackend {
		return domain.User{}, ErrNoBackend
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	user, err := auth(ctx)
	if err != nil {
		o.logger.Info("Authentication failed", zap.String("action", action), zap.Error(err))
		return domain.User{}, err
	}

	o.state.User = &user
	o.state.Online = true
	o.logger.Info("Session started", zap.String("action", action), zap.String("user_id", user.ID))

	if err := o.fullSync(ctx); err != nil {
		o.logger.Warn("Initial sync failed", zap.Error(err))
	}

	o.refresh()

	return user, nil
}

// Logout ends the session. The token is cleared even when the backend
// cannot be told.
func (o *Orchestrator) Logout(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	var err error
	if o.caps.HasBackend {
		if o.state.Online {
			err = o.remote.Logout(ctx)
		} else {
			err = o.remote.ClearToken(ctx)
		}
	}

	o.state.User = nil
	o.refresh()

	if err != nil {
		o.logger.Warn("Logout did not reach the backend", zap.Error(err))
	}

	return err
}

// Restore resumes the session of a persisted token. When the backend cannot
// be reached the token is kept and the client stays offline. Any other
// failure clears it.
func (o *Orchestrator) Restore(ctx context.Context) (bool, error) {
	if !o.caps.HasBackend {
		return false, nil
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	restored, err := o.restore(ctx)
	o.refresh()

	return restored, err
}

func (o *Orchestrator) restore(ctx context.Context) (bool, error) {
	found, err := o.remote.LoadToken(ctx)
	if err != nil || !found {
		return false, err
	}

	user, err := o.remote.Me(ctx)
	if err != nil {
		o.logger.Info("Session restore failed", zap.Error(err))

		if errors.Is(err, remote.ErrUnavailable) {
			o.state.Online = false
			return false, err
		}

		if clearErr := o.remote.ClearToken(ctx); clearErr != nil {
			o.logger.Error("Failed to clear token", zap.Error(clearErr))
		}

		return false, err
	}

	o.state.User = &user
	o.state.Online = true

	if err := o.fullSync(ctx); err != nil {
		o.logger.Warn("Sync after restore failed", zap.Error(err))
	}

	return true, nil
}

// SetOnline records connectivity. Coming back online with a session
// triggers a full sync, and a kept token is resumed first when there is no
// session yet.
func (o *Orchestrator) SetOnline(ctx context.Context, online bool) Result {
	o.mu.Lock()
	defer o.mu.Unlock()

	was := o.state.Online
	o.state.Online = online

	if was == online {
		return ok(domain.Todo{}, "")
	}

	if !online {
		o.refresh()
		return ok(domain.Todo{}, noticeOffline)
	}

	if !o.caps.HasBackend {
		o.refresh()
		return ok(domain.Todo{}, "")
	}

	if o.state.User == nil {
		restored, err := o.restore(ctx)
		if err != nil {
			o.logger.Debug("No session resumed on reconnect", zap.Error(err))
		}

		o.refresh()

		if !restored {
			return ok(domain.Todo{}, "")
		}

		return ok(domain.Todo{}, noticeBackOnline)
	}

	if err := o.fullSync(ctx); err != nil {
		o.logger.Warn("Sync after reconnect failed", zap.Error(err))
	}

	o.refresh()

	return ok(domain.Todo{}, noticeBackOnline)
}

// FullSync replaces the local todo list, history and preferences with the
// server's copies. Nothing is replaced unless every fetch succeeded.
func (o *Orchestrator) FullSync(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	err := o.fullSync(ctx)
	if err != nil {
		o.logger.Warn("Full sync failed", zap.Error(err))
	}

	o.refresh()

	return err
}

func (o *Orchestrator) fullSync(ctx context.Context) error {
	if !o.useRemote() {
		return nil
	}

	var (
		todos   []domain.Todo
		entries []domain.HistoryEntry
		profile domain.User
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		todos, err = o.remote.Todos(gctx)
		return err
	})

	if o.caps.TracksHistory {
		g.Go(func() (err error) {
			entries, err = o.remote.History(gctx)
			return err
		})
	}

	g.Go(func() (err error) {
		profile, err = o.remote.Profile(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		o.handleRemoteError(ctx, err)
		return fmt.Errorf("full sync: %w", err)
	}

	o.state.Todos = todos
	if o.caps.TracksHistory {
		o.setHistory(entries)
	}

	o.state.User = &profile
	o.applyPreferences(ctx, profile.Preferences)

	if err := o.store.SaveTodos(ctx, o.state.Todos); err != nil {
		o.logger.Error("Failed to save todos", zap.Error(err))
	}

	if o.caps.TracksHistory {
		if err := o.store.SaveHistory(ctx, o.state.History); err != nil {
			o.logger.Error("Failed to save history", zap.Error(err))
		}
	}

	o.logger.Info("Full sync completed", zap.Int("todos", len(todos)), zap.Int("history", len(o.state.History)))

	return nil
}

func (o *Orchestrator) applyPreferences(ctx context.Context, prefs domain.Preferences) {
	o.state.Theme = valueOr(prefs.Theme, domain.DefaultTheme)
	o.state.City = valueOr(prefs.City, domain.DefaultCity)

	if err := o.store.SetTheme(ctx, o.state.Theme); err != nil {
		o.logger.Error("Failed to save theme", zap.Error(err))
	}

	if err := o.store.SetCity(ctx, o.state.City); err != nil {
		o.logger.Error("Failed to save city", zap.Error(err))
	}
}

// SetTheme stores the theme locally and pushes it when a session is active.
func (o *Orchestrator) SetTheme(ctx context.Context, theme string) Result {
	return o.setPreference(ctx, "theme", theme, o.store.SetTheme, func(s *State) { s.Theme = theme },
		request.PreferencesRequest{Theme: theme})
}

func (o *Orchestrator) SetCity(ctx context.Context, city string) Result {
	return o.setPreference(ctx, "city", city, o.store.SetCity, func(s *State) { s.City = city },
		request.PreferencesRequest{City: city})
}

func (o *Orchestrator) setPreference(
	ctx context.Context,
	name, value string,
	save func(context.Context, string) error,
	apply func(*State),
	req request.PreferencesRequest,
) Result {
	return o.run(ctx, name, func(ctx context.Context) Result {
		if value == "" {
			return failed(fmt.Errorf("%s is required", name))
		}

		apply(&o.state)

		if err := save(ctx, value); err != nil {
			o.logger.Error("Failed to save preference", zap.String("preference", name), zap.Error(err))
		}

		res := ok(domain.Todo{}, noticePreferences)

		if o.useRemote() {
			if _, err := o.remote.UpdatePreferences(ctx, req); err != nil {
				o.handleRemoteError(ctx, err)
				res = fallback(domain.Todo{}, noticePrefsFallback, err)
			}
		}

		o.refresh()

		return res
	})
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}
