package syncer

import "serenity/internal/core/domain"

type Kind int

const (
	// OK means the action completed on the path it was meant to take.
	OK Kind = iota
	// LocalFallback means the remote call failed and the mutation was
	// applied to local state only.
	LocalFallback
	// Failed means nothing was mutated.
	Failed
)

func (k Kind) String() string {
	switch k {
	case OK:
		return "ok"
	case LocalFallback:
		return "local-fallback"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of one orchestrator action. Err carries the remote
// failure on LocalFallback and the reason on Failed.
type Result struct {
	Kind   Kind
	Todo   domain.Todo
	Notice string
	Err    error
}

func ok(todo domain.Todo, notice string) Result {
	return Result{Kind: OK, Todo: todo, Notice: notice}
}

func fallback(todo domain.Todo, notice string, err error) Result {
	return Result{Kind: LocalFallback, Todo: todo, Notice: notice, Err: err}
}

func failed(err error) Result {
	return Result{Kind: Failed, Notice: err.Error(), Err: err}
}

const (
	noticeAdded          = "Task added successfully!"
	noticeCompleted      = "Task completed!"
	noticeDeleted        = "Task deleted"
	noticeCleared        = "%d completed tasks cleared"
	noticePreferences    = "Preferences saved"
	noticeAddFallback    = "Failed to add task - saved locally"
	noticeUpdateFallback = "Update failed - saved locally"
	noticeDeleteFallback = "Delete failed - removed locally"
	noticeClearFallback  = "Clear failed - removed locally"
	noticePrefsFallback  = "Preferences saved locally"
	noticeBackOnline     = "Back online - syncing data..."
	noticeOffline        = "You are offline - changes will sync when reconnected"
	noticeSessionExpired = "Session expired - continuing offline"
)

// Capabilities selects which parts of the sync behaviour are active.
type Capabilities struct {
	HasBackend    bool
	TracksHistory bool
}

// State is the client's working set. Only the orchestrator mutates it;
// callers receive copies.
type State struct {
	User    *domain.User
	Online  bool
	Todos   []domain.Todo
	History []domain.HistoryEntry
	Theme   string
	City    string
}

func (s State) clone() State {
	out := s

	if s.User != nil {
		user := *s.User
		out.User = &user
	}

	out.Todos = append([]domain.Todo{}, s.Todos...)
	out.History = append([]domain.HistoryEntry{}, s.History...)

	return out
}

// LoggedIn reports whether a session is active.
func (s State) LoggedIn() bool {
	return s.User != nil
}

func (s State) find(id string) int {
	for i, todo := range s.Todos {
		if todo.ID == id {
			return i
		}
	}

	return -1
}
