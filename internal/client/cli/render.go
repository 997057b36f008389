package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"serenity/internal/client/syncer"
	"serenity/internal/core/domain"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	doneStyle    = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	panelStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)

	priorityStyles = map[domain.Priority]lipgloss.Style{
		domain.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		domain.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		domain.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}

	boxChecked   = "☑"
	boxUnchecked = "☐"
)

// Renderer prints state and action outcomes. In live mode every state
// change redraws the todo list.
type Renderer struct {
	mu   sync.Mutex
	out  io.Writer
	live bool
}

func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

func (r *Renderer) SetLive(live bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.live = live
}

func (r *Renderer) Refresh(state syncer.State) {
	r.mu.Lock()
	live := r.live
	r.mu.Unlock()

	if live {
		r.Todos(state)
	}
}

func (r *Renderer) println(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintln(r.out, s)
}

func (r *Renderer) Todos(state syncer.State) {
	lines := []string{titleStyle.Render("Tasks") + " " + mutedStyle.Render(statusLine(state))}

	if len(state.Todos) == 0 {
		lines = append(lines, mutedStyle.Render("Nothing to do. Add a task to get started."))
	}

	for _, todo := range state.Todos {
		lines = append(lines, todoLine(todo))
	}

	r.println(panelStyle.Render(strings.Join(lines, "\n")))
}

func todoLine(todo domain.Todo) string {
	box := boxUnchecked
	text := todo.Text

	if todo.Completed {
		box = boxChecked
		text = doneStyle.Render(text)
	}

	priority := priorityStyles[todo.Priority.OrDefault()].Render(string(todo.Priority.OrDefault()))
	line := fmt.Sprintf("%s %s  %s %s", box, text, priority, mutedStyle.Render("#"+todo.Category))

	if todo.DueDate != nil {
		line += mutedStyle.Render(" due " + todo.DueDate.Local().Format(time.DateOnly))
	}

	return line + "  " + mutedStyle.Render(todo.ID)
}

func statusLine(state syncer.State) string {
	mode := "guest"
	if state.User != nil {
		mode = state.User.Email
	}

	network := "offline"
	if state.Online {
		network = "online"
	}

	return fmt.Sprintf("(%s, %s, theme %s)", mode, network, state.Theme)
}

// Result prints the outcome notice. Failed results are returned as errors.
func (r *Renderer) Result(res syncer.Result) error {
	switch res.Kind {
	case syncer.Failed:
		if res.Err == nil {
			return errors.New(res.Notice)
		}

		return res.Err
	case syncer.LocalFallback:
		r.println(warningStyle.Render("! " + res.Notice))
	default:
		if res.Notice != "" {
			r.println(successStyle.Render("✔ " + res.Notice))
		}
	}

	return nil
}

func (r *Renderer) Notice(msg string) {
	if msg != "" {
		r.println(warningStyle.Render("• " + msg))
	}
}

func (r *Renderer) Error(err error) {
	r.println(errorStyle.Render("✖ " + err.Error()))
}

func (r *Renderer) Weather(w domain.Weather) {
	lines := []string{
		titleStyle.Render(fmt.Sprintf("%s, %s", w.City, w.Country)),
		fmt.Sprintf("%d°C  %s", w.Temperature, w.Description),
		mutedStyle.Render(fmt.Sprintf("humidity %d%%  wind %d km/h", w.Humidity, w.WindSpeed)),
	}

	r.println(panelStyle.Render(strings.Join(lines, "\n")))
}

func (r *Renderer) Forecast(f domain.Forecast) {
	lines := []string{titleStyle.Render(fmt.Sprintf("Forecast for %s, %s", f.City, f.Country))}

	for _, item := range f.Forecast {
		lines = append(lines, fmt.Sprintf("%s  %3d°C  %s", mutedStyle.Render(item.Date), item.Temperature, item.Description))
	}

	r.println(panelStyle.Render(strings.Join(lines, "\n")))
}

func (r *Renderer) Quote(q domain.Quote) {
	r.println(panelStyle.Render(fmt.Sprintf("“%s”\n%s", q.Text, mutedStyle.Render("- "+q.Author))))
}

func (r *Renderer) Stats(todos domain.TodoStats, hist domain.HistoryStats, tracksHistory bool) {
	lines := []string{
		titleStyle.Render("Progress"),
		fmt.Sprintf("%d pending  %d completed  %d total", todos.Pending, todos.Completed, todos.Total),
		progressBar(todos.Completed, todos.Total, 28),
		mutedStyle.Render(fmt.Sprintf("pending by priority: %d high, %d medium, %d low",
			todos.PriorityStats.High, todos.PriorityStats.Medium, todos.PriorityStats.Low)),
	}

	if tracksHistory {
		avg := time.Duration(hist.AverageTimeToComplete) * time.Millisecond
		lines = append(lines,
			"",
			titleStyle.Render("History"),
			fmt.Sprintf("%d today  %d this week  %d this month  %d all time", hist.Today, hist.ThisWeek, hist.ThisMonth, hist.Total),
			mutedStyle.Render("average time to complete "+formatDuration(avg)),
		)
	}

	r.println(panelStyle.Render(strings.Join(lines, "\n")))
}

func (r *Renderer) History(groups []domain.DayGroup) {
	if len(groups) == 0 {
		r.println(mutedStyle.Render("No completed tasks yet."))
		return
	}

	var lines []string
	for _, group := range groups {
		lines = append(lines, titleStyle.Render(group.Day))

		for _, entry := range group.Entries {
			lines = append(lines, fmt.Sprintf("  %s %s  %s",
				boxChecked, entry.Text, mutedStyle.Render("in "+formatDuration(entry.Duration()))))
		}
	}

	r.println(panelStyle.Render(strings.Join(lines, "\n")))
}

func progressBar(done, total, width int) string {
	if total == 0 {
		total = 1
	}

	filled := done * width / total
	if filled > width {
		filled = width
	}

	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + fmt.Sprintf("] %d/%d", done, total)
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return d.Round(time.Second).String()
	case d < 24*time.Hour:
		return d.Round(time.Minute).String()
	default:
		days := int(d / (24 * time.Hour))
		return fmt.Sprintf("%dd%s", days, (d % (24 * time.Hour)).Round(time.Hour))
	}
}
