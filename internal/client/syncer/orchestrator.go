// Package syncer keeps the client's todo list, history log and preferences
// consistent with the backend while guaranteeing that every action succeeds
// locally when the backend cannot be reached.
package syncer

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"serenity/internal/client/remote"
	"serenity/internal/core/domain"
	"serenity/internal/core/history"
	"serenity/internal/core/model/request"
	"serenity/internal/core/port"
	"serenity/internal/core/service"
	"serenity/pkg/tracing"

	"go.uber.org/zap"
)

// Remote is the subset of the backend client the orchestrator drives.
type Remote interface {
	LoadToken(ctx context.Context) (bool, error)
	ClearToken(ctx context.Context) error
	Register(ctx context.Context, req request.SignUpRequest) (domain.User, error)
	Login(ctx context.Context, req request.LoginRequest) (domain.User, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (domain.User, error)
	Profile(ctx context.Context) (domain.User, error)
	Todos(ctx context.Context) ([]domain.Todo, error)
	CreateTodo(ctx context.Context, req request.CreateTodoRequest) (domain.Todo, error)
	UpdateTodo(ctx context.Context, id string, req request.UpdateTodoRequest) (domain.Todo, error)
	DeleteTodo(ctx context.Context, id string) error
	History(ctx context.Context) ([]domain.HistoryEntry, error)
	UpdatePreferences(ctx context.Context, req request.PreferencesRequest) (domain.Preferences, error)
	Weather(ctx context.Context, city string) (domain.Weather, error)
	Forecast(ctx context.Context, city string) (domain.Forecast, error)
	RandomQuote(ctx context.Context) (domain.Quote, error)
}

// Store is the durable local state.
type Store interface {
	Todos(ctx context.Context) ([]domain.Todo, error)
	SaveTodos(ctx context.Context, todos []domain.Todo) error
	History(ctx context.Context) ([]domain.HistoryEntry, error)
	SaveHistory(ctx context.Context, entries []domain.HistoryEntry) error
	Theme(ctx context.Context) (string, error)
	SetTheme(ctx context.Context, theme string) error
	City(ctx context.Context) (string, error)
	SetCity(ctx context.Context, city string) error
}

// Renderer is told about every state change.
type Renderer interface {
	Refresh(state State)
}

type Option func(*Orchestrator)

// WithWeatherProvider sets the provider queried when there is no session.
func WithWeatherProvider(provider port.WeatherProvider) Option {
	return func(o *Orchestrator) { o.weather = provider }
}

func WithQuotes(quotes port.QuoteService) Option {
	return func(o *Orchestrator) { o.quotes = quotes }
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// Orchestrator owns State. Actions are serialized by mu, network round trip
// included.
type Orchestrator struct {
	mu sync.Mutex

	remote   Remote
	store    Store
	renderer Renderer
	logger   *zap.Logger
	caps     Capabilities
	weather  port.WeatherProvider
	quotes   port.QuoteService
	now      func() time.Time

	state  State
	log    *history.Log
	lastID int64
}

func New(remote Remote, store Store, renderer Renderer, logger *zap.Logger, caps Capabilities, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}

	o := &Orchestrator{
		remote:   remote,
		store:    store,
		renderer: renderer,
		logger:   logger,
		caps:     caps,
		quotes:   service.NewQuoteService(LocalQuotes),
		now:      time.Now,
		state: State{
			Todos:   []domain.Todo{},
			History: []domain.HistoryEntry{},
			Theme:   domain.DefaultTheme,
			City:    domain.DefaultCity,
		},
		log: history.NewLog(nil),
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.remote == nil {
		o.caps.HasBackend = false
	}

	return o
}

// Bootstrap loads the persisted state. Corrupt lists come back empty from
// the store, so only storage failures are reported.
func (o *Orchestrator) Bootstrap(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	todos, err := o.store.Todos(ctx)
	if err != nil {
		return err
	}

	theme, err := o.store.Theme(ctx)
	if err != nil {
		return err
	}

	city, err := o.store.City(ctx)
	if err != nil {
		return err
	}

	o.state.Todos = todos
	o.state.Theme = theme
	o.state.City = city

	if o.caps.TracksHistory {
		entries, err := o.store.History(ctx)
		if err != nil {
			return err
		}

		o.setHistory(entries)
	}

	o.refresh()

	return nil
}

// State returns a copy of the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.state.clone()
}

func (o *Orchestrator) Capabilities() Capabilities {
	return o.caps
}

func (o *Orchestrator) useRemote() bool {
	return o.state.User != nil && o.state.Online && o.caps.HasBackend
}

func (o *Orchestrator) run(ctx context.Context, action string, fn func(context.Context) Result) Result {
	o.mu.Lock()
	defer o.mu.Unlock()

	var res Result
	_ = tracing.ClientSpanWrapper(ctx, action, o.state.Online, func(ctx context.Context) error {
		res = fn(ctx)
		return res.Err
	})

	fields := []zap.Field{zap.String("action", action), zap.Stringer("result", res.Kind)}

	switch res.Kind {
	case LocalFallback:
		o.logger.Warn("Remote call failed, applied locally", append(fields, zap.Error(res.Err))...)
	case Failed:
		o.logger.Info("Action rejected", append(fields, zap.Error(res.Err))...)
	default:
		o.logger.Debug("Action completed", fields...)
	}

	return res
}

// Add creates a todo. An empty priority means medium and an empty category
// means general.
func (o *Orchestrator) Add(ctx context.Context, text, priority, category string) Result {
	return o.run(ctx, "add", func(ctx context.Context) Result {
		todo := domain.Todo{Text: text, Category: category}
		todo.Normalize()

		if todo.Text == "" {
			return failed(domain.ErrEmptyText)
		}

		parsed, err := domain.ParsePriority(priority)
		if err != nil {
			return failed(err)
		}
		todo.Priority = parsed

		res := ok(todo, noticeAdded)

		if o.useRemote() {
			created, err := o.remote.CreateTodo(ctx, request.CreateTodoRequest{
				Text:     todo.Text,
				Priority: string(todo.Priority),
				Category: todo.Category,
			})
			if err == nil {
				res.Todo = created
			} else {
				o.handleRemoteError(ctx, err)
				res = fallback(o.stampLocal(todo), noticeAddFallback, err)
			}
		} else {
			res.Todo = o.stampLocal(todo)
		}

		o.state.Todos = append([]domain.Todo{res.Todo}, o.state.Todos...)
		o.persist(ctx)

		return res
	})
}

func (o *Orchestrator) stampLocal(todo domain.Todo) domain.Todo {
	now := o.now()

	todo.ID = o.nextLocalID(now)
	todo.CreatedAt = now

	return todo
}

// nextLocalID returns "local-<unix nanos>", bumped when the clock has not
// moved since the previous id.
func (o *Orchestrator) nextLocalID(now time.Time) string {
	id := now.UnixNano()
	if id <= o.lastID {
		id = o.lastID + 1
	}
	o.lastID = id

	return "local-" + strconv.FormatInt(id, 10)
}

// Toggle flips the completed flag. The pending to completed transition is
// recorded in the history log.
func (o *Orchestrator) Toggle(ctx context.Context, id string) Result {
	return o.run(ctx, "toggle", func(ctx context.Context) Result {
		i := o.state.find(id)
		if i < 0 {
			return failed(domain.ErrTodoNotFound)
		}

		now := o.now()
		todo := o.state.Todos[i]
		wasCompleted := todo.Completed

		todo.Completed = !todo.Completed
		todo.UpdatedAt = now

		notice := ""
		if todo.Completed {
			notice = noticeCompleted
		}
		res := ok(todo, notice)

		if o.useRemote() {
			completed := todo.Completed
			updated, err := o.remote.UpdateTodo(ctx, id, request.UpdateTodoRequest{Completed: &completed})
			if err == nil {
				res.Todo = updated
			} else {
				o.handleRemoteError(ctx, err)
				res = fallback(todo, noticeUpdateFallback, err)
			}
		}

		o.state.Todos[i] = res.Todo

		if !wasCompleted && res.Todo.Completed && o.caps.TracksHistory {
			o.record(res.Todo, now, now)
		}

		o.persist(ctx)

		return res
	})
}

// Delete removes a todo. The local removal happens whether or not the
// backend accepted it.
func (o *Orchestrator) Delete(ctx context.Context, id string) Result {
	return o.run(ctx, "delete", func(ctx context.Context) Result {
		i := o.state.find(id)
		if i < 0 {
			return failed(domain.ErrTodoNotFound)
		}

		todo := o.state.Todos[i]
		res := ok(todo, noticeDeleted)

		if o.useRemote() {
			if err := o.remote.DeleteTodo(ctx, id); err != nil {
				o.handleRemoteError(ctx, err)
				res = fallback(todo, noticeDeleteFallback, err)
			}
		}

		o.state.Todos = append(o.state.Todos[:i:i], o.state.Todos[i+1:]...)
		o.persist(ctx)

		return res
	})
}

// ClearCompleted removes every completed todo. Completions the history log
// does not know about yet are recorded first. Remote deletes run
// concurrently and the batch counts as failed when any of them fails.
func (o *Orchestrator) ClearCompleted(ctx context.Context) Result {
	return o.run(ctx, "clear", func(ctx context.Context) Result {
		now := o.now()

		var completed []domain.Todo
		kept := make([]domain.Todo, 0, len(o.state.Todos))

		for _, todo := range o.state.Todos {
			if todo.Completed {
				completed = append(completed, todo)
				continue
			}

			kept = append(kept, todo)
		}

		if o.caps.TracksHistory {
			for _, todo := range completed {
				o.record(todo, todo.LastTouched(now), now)
			}
		}

		res := ok(domain.Todo{}, fmt.Sprintf(noticeCleared, len(completed)))

		if o.useRemote() && len(completed) > 0 {
			if err := o.deleteAll(ctx, completed); err != nil {
				o.handleRemoteError(ctx, err)
				res = fallback(domain.Todo{}, noticeClearFallback, err)
			}
		}

		o.state.Todos = kept
		o.persist(ctx)

		return res
	})
}

func (o *Orchestrator) record(todo domain.Todo, completedAt, now time.Time) {
	if entry, added := o.log.Record(todo, completedAt, now); added {
		o.state.History = o.log.Entries()
		o.logger.Debug("History entry recorded",
			zap.String("todo_id", entry.OriginalTodoID),
			zap.Int64("time_to_complete", entry.TimeToComplete))
	}
}

func (o *Orchestrator) setHistory(entries []domain.HistoryEntry) {
	o.log = history.NewLog(entries)
	o.state.History = o.log.Entries()
}

// handleRemoteError drops the session when the backend rejected the token.
func (o *Orchestrator) handleRemoteError(ctx context.Context, err error) {
	if !remote.IsAuthError(err) || o.state.User == nil {
		return
	}

	o.logger.Warn(noticeSessionExpired, zap.Error(err))
	o.dropSession(ctx)
}

func (o *Orchestrator) dropSession(ctx context.Context) {
	o.state.User = nil

	if o.remote == nil {
		return
	}

	if err := o.remote.ClearToken(ctx); err != nil {
		o.logger.Error("Failed to clear token", zap.Error(err))
	}
}

func (o *Orchestrator) persist(ctx context.Context) {
	if err := o.store.SaveTodos(ctx, o.state.Todos); err != nil {
		o.logger.Error("Failed to save todos", zap.Error(err))
	}

	if o.caps.TracksHistory {
		if err := o.store.SaveHistory(ctx, o.state.History); err != nil {
			o.logger.Error("Failed to save history", zap.Error(err))
		}
	}

	o.refresh()
}

func (o *Orchestrator) refresh() {
	if o.renderer != nil {
		o.renderer.Refresh(o.state.clone())
	}
}

