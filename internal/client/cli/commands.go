package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"serenity/internal/client/syncer"

	"github.com/spf13/cobra"
)

type appFunc func() *App

// resolveID accepts a todo id or its 1-based position in the list.
func resolveID(state syncer.State, arg string) string {
	for _, todo := range state.Todos {
		if todo.ID == arg {
			return arg
		}
	}

	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(state.Todos) {
		return state.Todos[n-1].ID
	}

	return arg
}

func newListCommand(app appFunc) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			a.renderer.Todos(a.sync.State())
			return nil
		},
	}
}

func newAddCommand(app appFunc) *cobra.Command {
	var priority, category string

	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx, cancel := a.action(cmd.Context())
			defer cancel()

			res := a.sync.Add(ctx, strings.Join(args, " "), priority, category)

			return a.renderer.Result(res)
		},
	}

	cmd.Flags().StringVarP(&priority, "priority", "p", "", "low, medium or high")
	cmd.Flags().StringVarP(&category, "category", "c", "", "task category")

	return cmd
}

func newToggleCommand(app appFunc) *cobra.Command {
	return &cobra.Command{
		Use:     "toggle <id|position>",
		Aliases: []string{"done"},
		Short:   "Mark a task completed or pending",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx, cancel := a.action(cmd.Context())
			defer cancel()

			res := a.sync.Toggle(ctx, resolveID(a.sync.State(), args[0]))

			return a.renderer.Result(res)
		},
	}
}

func newDeleteCommand(app appFunc) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id|position>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx, cancel := a.action(cmd.Context())
			defer cancel()

			res := a.sync.Delete(ctx, resolveID(a.sync.State(), args[0]))

			return a.renderer.Result(res)
		},
	}
}

func newClearCommand(app appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove completed tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx, cancel := a.action(cmd.Context())
			defer cancel()

			return a.renderer.Result(a.sync.ClearCompleted(ctx))
		},
	}
}

func newStatsCommand(app appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task and completion statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			a.renderer.Stats(a.sync.TodoStats(), a.sync.HistoryStats(time.Now()), a.sync.Capabilities().TracksHistory)
			return nil
		},
	}
}

func newHistoryCommand(app appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show completed tasks by day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if !a.sync.Capabilities().TracksHistory {
				return errors.New("history tracking is disabled")
			}

			a.renderer.History(a.sync.HistoryByDay(time.Local))
			return nil
		},
	}
}

func newLoginCommand(app appFunc) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and sync",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			in := cmd.InOrStdin()
			reader := bufio.NewReader(in)
			out := cmd.OutOrStdout()

			var err error
			if email == "" {
				if email, err = promptLine(reader, out, "Email"); err != nil {
					return err
				}
			}

			password, err := promptPassword(in, reader, out)
			if err != nil {
				return err
			}

			ctx, cancel := a.action(cmd.Context())
			defer cancel()

			user, err := a.sync.Login(ctx, email, password)
			if err != nil {
				return err
			}

			a.renderer.Notice(fmt.Sprintf("Signed in as %s", user.Email))
			a.renderer.Todos(a.sync.State())

			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")

	return cmd
}

func newRegisterCommand(app appFunc) *cobra.Command {
	var email, name string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			in := cmd.InOrStdin()
			reader := bufio.NewReader(in)
			out := cmd.OutOrStdout()

			var err error
			if email == "" {
				if email, err = promptLine(reader, out, "Email"); err != nil {
					return err
				}
			}

			password, err := promptPassword(in, reader, out)
			if err != nil {
				return err
			}

			ctx, cancel := a.action(cmd.Context())
			defer cancel()

			user, err := a.sync.Register(ctx, email, password, name)
			if err != nil {
				return err
			}

			a.renderer.Notice(fmt.Sprintf("Welcome, %s", valueOr(user.Name, user.Email)))

			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&name, "name", "n", "", "display name")

	return cmd
}

func newLogoutCommand(app appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx, cancel := a.action(cmd.Context())
			defer cancel()

			if err := a.sync.Logout(ctx); err != nil {
				a.logger.Debug("Logout was local only")
			}

			a.renderer.Notice("Signed out")

			return nil
		},
	}
}

func newSyncCommand(app appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Replace local data with the server copy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if !a.sync.State().LoggedIn() {
				return errors.New("sign in to sync")
			}

			ctx, cancel := a.action(cmd.Context())
			defer cancel()

			if err := a.sync.FullSync(ctx); err != nil {
				return err
			}

			a.renderer.Todos(a.sync.State())

			return nil
		},
	}
}

func newStatusCommand(app appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session and connectivity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			state := a.sync.State()

			fmt.Fprintln(cmd.OutOrStdout(), statusLine(state))
			fmt.Fprintf(cmd.OutOrStdout(), "city %s, %d tasks\n", state.City, len(state.Todos))

			return nil
		},
	}
}

func newThemeCommand(app appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "theme [name]",
		Short: "Show or set the theme",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), a.sync.State().Theme)
				return nil
			}

			ctx, cancel := a.action(cmd.Context())
			defer cancel()

			return a.renderer.Result(a.sync.SetTheme(ctx, strings.TrimSpace(args[0])))
		},
	}
}

func newCityCommand(app appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "city [name]",
		Short: "Show or set the weather city",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), a.sync.State().City)
				return nil
			}

			ctx, cancel := a.action(cmd.Context())
			defer cancel()

			return a.renderer.Result(a.sync.SetCity(ctx, strings.Join(args, " ")))
		},
	}
}

func newWeatherCommand(app appFunc) *cobra.Command {
	var forecast bool

	cmd := &cobra.Command{
		Use:   "weather [city]",
		Short: "Show the weather",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			city := strings.Join(args, " ")

			ctx, cancel := a.action(cmd.Context())
			defer cancel()

			if forecast {
				f, err := a.sync.Forecast(ctx, city)
				if err != nil {
					return err
				}

				a.renderer.Forecast(f)
				return nil
			}

			w, err := a.sync.Weather(ctx, city)
			if err != nil {
				return err
			}

			a.renderer.Weather(w)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&forecast, "forecast", "f", false, "show the next 24 hours")

	return cmd
}

func newQuoteCommand(app appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "quote",
		Short: "Show an inspirational quote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx, cancel := a.action(cmd.Context())
			defer cancel()

			q, err := a.sync.Quote(ctx)
			if err != nil {
				return err
			}

			a.renderer.Quote(q)
			return nil
		},
	}
}

func newWatchCommand(app appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep the list on screen and sync when the API comes back",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if !a.cfg.HasBackend {
				return errors.New("watch needs a backend")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a.renderer.Todos(a.sync.State())
			a.renderer.SetLive(true)

			NewWatcher(a.remote, a.sync, a.cfg.OnlineCheckInterval, a.cfg.RequestTimeout, a.renderer.Notice).Run(ctx)

			return nil
		},
	}
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}
