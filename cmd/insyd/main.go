package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/DavidGamba/go-getoptions"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/nhle/insyd/internal/app"
	"github.com/nhle/insyd/internal/backend"
	"github.com/nhle/insyd/internal/credential"
	"github.com/nhle/insyd/internal/event"
	"github.com/nhle/insyd/internal/feed"
	"github.com/nhle/insyd/internal/logging"
	"github.com/nhle/insyd/internal/model"
	"github.com/nhle/insyd/internal/mutation"
	"github.com/nhle/insyd/internal/store"
	appsync "github.com/nhle/insyd/internal/sync"
)

// commandLineOptionValues represents the values of the command-line options
// that were passed on the command line when insyd was invoked.
type commandLineOptionValues struct {
	Config     string
	Offline    bool
	Filter     string
	History    bool
	Limit      int
	SetToken   string
	ClearToken bool
}

func parseCommandLine(args []string, stderr io.Writer) (*commandLineOptionValues, bool) {
	optionValues := &commandLineOptionValues{}
	opt := getoptions.New()

	// Define the command-line options.
	opt.Bool("help", false, opt.Alias("h", "?"))
	opt.StringVar(&optionValues.Config, "config", model.DefaultConfigPath(),
		opt.Alias("c"),
		opt.Description("the path to the configuration file"))
	opt.BoolVar(&optionValues.Offline, "offline", false,
		opt.Description("print the cached feed snapshot and exit"))
	opt.StringVar(&optionValues.Filter, "filter", "all",
		opt.Description("category to show with --offline (all, like, comment, follow, post, message)"))
	opt.BoolVar(&optionValues.History, "history", false,
		opt.Description("print recorded event submissions and exit"))
	opt.IntVar(&optionValues.Limit, "limit", 20,
		opt.Description("maximum number of submissions shown by --history"))
	opt.StringVar(&optionValues.SetToken, "set-token", "",
		opt.Description("store the API token in the system keyring"))
	opt.BoolVar(&optionValues.ClearToken, "clear-token", false,
		opt.Description("remove the API token from the system keyring"))

	// Parse the command line, handling requests for help and usage errors.
	_, err := opt.Parse(args)
	if opt.Called("help") {
		fmt.Fprint(stderr, opt.Help())
		return nil, false
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n\n", err)
		fmt.Fprint(stderr, opt.Help(getoptions.HelpSynopsis))
		return nil, false
	}

	return optionValues, true
}

func main() {
	// Parse the command-line.
	optionValues, ok := parseCommandLine(os.Args[1:], os.Stderr)
	if !ok {
		os.Exit(2)
	}

	if err := run(optionValues); err != nil {
		fmt.Fprintf(os.Stderr, "insyd: %v\n", err)
		os.Exit(1)
	}
}

func run(opts *commandLineOptionValues) error {
	vault := credential.NewVault()

	switch {
	case opts.SetToken != "":
		if err := vault.SetToken(opts.SetToken); err != nil {
			return err
		}
		fmt.Println("API token stored.")
		return nil
	case opts.ClearToken:
		if err := vault.ClearToken(); err != nil {
			return err
		}
		fmt.Println("API token removed.")
		return nil
	}

	// Read in the configuration file.
	cfg, err := model.LoadConfig(opts.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	if opts.Offline || opts.History {
		return runCacheReport(cfg, opts, os.Stdout)
	}

	// Initialize logging. The terminal belongs to the UI, so entries go
	// to a file.
	log, closer, err := logging.New(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer closer.Close()

	token, err := vault.Token()
	if err != nil {
		log.WithError(err).Warn("keyring unavailable, sending requests without a token")
	}

	return runTUI(cfg, token, log)
}

func runTUI(cfg *model.AppConfig, token string, log *logrus.Logger) error {
	client := backend.New(backend.Config{
		BaseURL: cfg.API.BaseURL,
		Token:   token,
		Timeout: cfg.RequestTimeout(),
	})

	var cache store.Store
	if cfg.Cache.Enabled {
		s, err := store.NewSQLiteStore(cfg.Cache.Path)
		if err != nil {
			log.WithError(err).Warn("local cache disabled")
		} else {
			defer s.Close()
			cache = s
		}
	}

	feedStore := feed.NewStore()

	pollCfg := appsync.Config{
		Fetcher:  client,
		UserID:   cfg.Session.UserID,
		Interval: cfg.PollInterval(),
		Log:      log,
	}
	var remover mutation.SnapshotRemover
	submitOpts := []event.Option{event.WithLogger(log)}
	if cache != nil {
		pollCfg.Sink = cache
		remover = cache
		submitOpts = append(submitOpts, event.WithRecorder(cache))
	}

	poller := appsync.New(feedStore, pollCfg)
	defer poller.Wait()
	defer poller.Stop()

	log.WithFields(logrus.Fields{
		"user_id":  cfg.Session.UserID,
		"base_url": cfg.API.BaseURL,
		"interval": cfg.PollInterval(),
	}).Info("starting session")

	root := app.New(app.Deps{
		Config:      cfg,
		Feed:        feedStore,
		Poller:      poller,
		Coordinator: mutation.NewCoordinator(client, feedStore, feed.NewTracker(), remover, log),
		Submitter:   event.NewSubmitter(client, cfg.Session.UserID, submitOpts...),
		Log:         log,
	})

	if _, err := tea.NewProgram(root, tea.WithAltScreen()).Run(); err != nil {
		return errors.Wrap(err, "running terminal UI")
	}
	return nil
}

func runCacheReport(cfg *model.AppConfig, opts *commandLineOptionValues, w io.Writer) error {
	s, err := store.NewSQLiteStore(cfg.Cache.Path)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()

	if opts.History {
		subs, err := s.ListSubmissions(ctx, opts.Limit)
		if err != nil {
			return err
		}
		return printHistory(w, subs)
	}

	sel, err := model.ParseFilter(opts.Filter)
	if err != nil {
		return err
	}
	snap, err := s.LoadSnapshot(ctx, cfg.Session.UserID)
	if err != nil {
		return err
	}
	return printSnapshot(w, snap, sel)
}
