package cli

import (
	"path/filepath"
	"time"

	"serenity/internal/adapter/logging"
	"serenity/internal/config"

	"github.com/spf13/cobra"
)

type options struct {
	configPath  string
	apiURL      string
	storeDriver string
	storePath   string
	timeout     time.Duration
	noBackend   bool
	noHistory   bool
	verbose     bool
}

// load applies the config file and then any flag given on the command line.
func (o *options) load(cmd *cobra.Command) (*config.ClientConfig, error) {
	path := o.configPath
	if path == "" {
		path = filepath.Join(config.DefaultDir(), "config.yaml")
	}

	cfg, err := config.LoadClientConfig(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()

	if flags.Changed("api-url") {
		cfg.APIURL = o.apiURL
	}

	if flags.Changed("store") {
		cfg.StoreDriver = o.storeDriver
	}

	if flags.Changed("store-path") {
		cfg.StorePath = o.storePath
	}

	if flags.Changed("timeout") {
		cfg.RequestTimeout = o.timeout
	}

	if o.noBackend {
		cfg.HasBackend = false
	}

	if o.noHistory {
		cfg.TracksHistory = false
	}

	if o.verbose {
		cfg.Verbose = true
	}

	return cfg, cfg.Validate()
}

// NewRootCommand builds the serenity command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	var app *App
	current := func() *App { return app }

	root := &cobra.Command{
		Use:           "serenity",
		Short:         "Serenity productivity dashboard",
		Long:          "Tasks, completion history, weather and quotes. Works offline and syncs with the Serenity API when signed in.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}

			logger, err := logging.NewClientLogger(cfg.Verbose)
			if err != nil {
				return err
			}

			app, err = NewApp(cfg, cmd.OutOrStdout(), logger)
			if err != nil {
				return err
			}

			return app.Start(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app == nil {
				return nil
			}

			return app.Close()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.serenity/config.yaml)")
	flags.StringVar(&opts.apiURL, "api-url", "", "Serenity API base URL")
	flags.StringVar(&opts.storeDriver, "store", "", "local store driver: sqlite, file or memory")
	flags.StringVar(&opts.storePath, "store-path", "", "local store location")
	flags.DurationVar(&opts.timeout, "timeout", 0, "per request timeout")
	flags.BoolVar(&opts.noBackend, "no-backend", false, "never contact the API")
	flags.BoolVar(&opts.noHistory, "no-history", false, "do not keep a completion history")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(
		newListCommand(current),
		newAddCommand(current),
		newToggleCommand(current),
		newDeleteCommand(current),
		newClearCommand(current),
		newStatsCommand(current),
		newHistoryCommand(current),
		newLoginCommand(current),
		newRegisterCommand(current),
		newLogoutCommand(current),
		newSyncCommand(current),
		newStatusCommand(current),
		newThemeCommand(current),
		newCityCommand(current),
		newWeatherCommand(current),
		newQuoteCommand(current),
		newWatchCommand(current),
	)

	return root
}
