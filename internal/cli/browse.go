package cli

import (
	"fmt"
	"net/url"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rebelice/datalist/internal/app"
	"github.com/rebelice/datalist/internal/bookmarks"
	"github.com/rebelice/datalist/internal/config"
	"github.com/rebelice/datalist/internal/fetch"
	"github.com/rebelice/datalist/internal/history"
	"github.com/rebelice/datalist/internal/logging"
)

func newBrowseCmd() *cobra.Command {
	var (
		dataURL  string
		id       string
		bookmark string
		params   []string
		resume   bool
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Open the terminal browser on a data provider",
		Example: `  datalist browse --url http://localhost:8080/api/users
  datalist browse --url 'http://localhost:8080/api/{table}' --param '{table}=orders'
  datalist browse --bookmark "open orders"
  datalist browse --resume`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if dataURL != "" {
				cfg.Provider.DataURL = dataURL
			}
			if id != "" {
				cfg.Provider.ID = id
			}
			replacers, err := parseParams(params)
			if err != nil {
				return err
			}
			if replacers != nil {
				cfg.Provider.DynamicURL = true
			}
			if cfg.Provider.DataURL == "" {
				return fmt.Errorf("no data URL: pass --url or set provider.data_url")
			}
			return runBrowse(cfg, replacers, bookmark, resume)
		},
	}

	cmd.Flags().StringVar(&dataURL, "url", "", "Data URL of the provider (overrides config)")
	cmd.Flags().StringVar(&id, "id", "", "Provider ID, used as the history key")
	cmd.Flags().StringVar(&bookmark, "bookmark", "", "Open a bookmark by ID or name")
	cmd.Flags().StringArrayVar(&params, "param", nil, "URL template replacement as key=value (repeatable)")
	cmd.Flags().BoolVar(&resume, "resume", false, "Resume at the last visited location")
	return cmd
}

func runBrowse(cfg *config.Config, replacers map[string]string, bookmark string, resume bool) error {
	logPath, err := cachePath("datalist.log")
	if err != nil {
		return err
	}
	// bubbletea owns the terminal, so the browser logs to a file
	log, err := logging.NewFile(logPath, logging.Options{Level: cfg.General.LogLevel, Format: "json"})
	if err != nil {
		return err
	}
	defer log.Close()

	client, err := fetch.NewClient(cfg.Fetch, fetch.KeyringToken, log)
	if err != nil {
		return err
	}

	opts := app.Options{
		Config:    cfg,
		Logger:    log,
		Fetcher:   client,
		Replacers: replacers,
	}

	configDir, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to locate config directory: %w", err)
	}
	marks, err := bookmarks.NewManager(configDir)
	if err != nil {
		log.Warn().Err(err).Msg("bookmarks are disabled")
	} else {
		opts.Bookmarks = marks
	}

	if opts.ExportDir, err = cachePath("exports"); err != nil {
		return err
	}

	if cfg.History.Persist {
		path := cfg.History.Path
		if path == "" {
			if path, err = cachePath("history.db"); err != nil {
				return err
			}
		}
		visits, err := history.NewStore(path)
		if err != nil {
			return err
		}
		defer visits.Close()
		opts.Visits = visits

		if resume {
			last, err := visits.Last()
			if err != nil {
				return err
			}
			if last != nil {
				if opts.Start, err = url.Parse(last.Location); err != nil {
					return fmt.Errorf("invalid stored location: %w", err)
				}
			}
		}
	} else if resume {
		return fmt.Errorf("--resume needs history.persist")
	}

	if bookmark != "" {
		if opts.Bookmarks == nil {
			return fmt.Errorf("bookmarks are not available")
		}
		b, err := opts.Bookmarks.Get(bookmark)
		if err != nil {
			return err
		}
		if opts.Start, err = url.Parse(b.Location); err != nil {
			return fmt.Errorf("invalid bookmark location: %w", err)
		}
		if err := opts.Bookmarks.RecordUsage(b.ID); err != nil {
			log.Warn().Err(err).Msg("failed to record bookmark usage")
		}
	}

	a, err := app.New(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.MouseEnabled {
		progOpts = append(progOpts, tea.WithMouseCellMotion())
	}

	log.Info().Str("provider", cfg.Provider.ID).Str("location", a.Location().String()).Msg("browser started")
	if _, err := tea.NewProgram(a, progOpts...).Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
