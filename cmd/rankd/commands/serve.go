package commands

import (
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/rankd/am"
	"github.com/teranos/rankd/errors"
	"github.com/teranos/rankd/logger"
	"github.com/teranos/rankd/server"
	"github.com/teranos/rankd/version"
)

// ServeCmd runs the language server
var ServeCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server"},
	Short:   "Run the completion language server",
	Long: `Run the completion language server.

With --stdio a single editor session is served over stdin and stdout; logs go
to stderr. Otherwise WebSocket clients connect to ws://<server.address>/lsp,
and Prometheus metrics are exposed on server.metrics_path.`,
	RunE: runServe,
}

var (
	serveStdio     bool
	serveAddress   string
	serveDBPath    string
	serveNoHistory bool
)

func init() {
	ServeCmd.Flags().BoolVar(&serveStdio, "stdio", false, "Serve one session over stdin/stdout")
	ServeCmd.Flags().StringVar(&serveAddress, "address", "", "WebSocket listen address (overrides server.address)")
	ServeCmd.Flags().StringVar(&serveDBPath, "db-path", "", "Selection history database (overrides database.path)")
	ServeCmd.Flags().BoolVar(&serveNoHistory, "no-history", false, "Disable the selection history provider")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if serveAddress != "" {
		cfg.Server.Address = serveAddress
	}
	if serveNoHistory {
		cfg.Ranking.History.Enabled = false
	}

	var database *sql.DB
	if cfg.Ranking.History.Enabled {
		database, err = openDatabase(cfg, serveDBPath)
		if err != nil {
			return err
		}
		defer database.Close()
	}

	log := logger.ComponentLogger("server")
	srv, err := server.New(cfg, database, log)
	if err != nil {
		return errors.Wrap(err, "failed to create server")
	}

	if cfg.Server.Watch {
		stop, err := watchConfig(srv)
		if err != nil {
			log.Warnw("Config watching disabled", "error", err)
		} else {
			defer stop()
		}
	}

	if serveStdio {
		err := srv.ServeStdio()
		if stopErr := srv.Stop(); err == nil {
			err = stopErr
		}
		return err
	}

	printBanner(cfg)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		log.Infow("Received signal, shutting down", "signal", sig.String())
		return srv.Stop()
	case err := <-errChan:
		srv.Stop()
		return err
	}
}

// watchConfig reloads the engine when the active config file changes.
// Flag overrides given on the command line are re-applied after each reload.
func watchConfig(srv *server.Server) (func(), error) {
	path := am.GetViper().ConfigFileUsed()
	if path == "" {
		return nil, errors.New("no config file in use")
	}

	watcher, err := am.NewConfigWatcher(path, logger.ComponentLogger("am"))
	if err != nil {
		return nil, err
	}
	watcher.OnReload(func(cfg *am.Config) error {
		if serveAddress != "" {
			cfg.Server.Address = serveAddress
		}
		if serveNoHistory {
			cfg.Ranking.History.Enabled = false
		}
		return srv.Reconfigure(cfg)
	})
	watcher.Start()
	return func() { watcher.Stop() }, nil
}

func printBanner(cfg *am.Config) {
	pterm.DefaultHeader.WithFullWidth().Printf("rankd %s", version.Get().Short())
	pterm.Info.Printf("LSP:     ws://%s%s\n", cfg.Server.Address, server.LSPPath)
	if cfg.Server.MetricsPath != "" {
		pterm.Info.Printf("Metrics: http://%s%s\n", cfg.Server.Address, cfg.Server.MetricsPath)
	}
	if cfg.Ranking.History.Enabled {
		pterm.Info.Printf("History: %s\n", cfg.GetDatabasePath())
	} else {
		pterm.Warning.Println("Selection history disabled")
	}
	pterm.Println()
}
