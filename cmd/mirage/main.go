// mirage CLI - spec-first mock server for API development
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/getmockd/mirage/pkg/config"
	"github.com/getmockd/mirage/pkg/document"
	"github.com/getmockd/mirage/pkg/logging"
	"github.com/getmockd/mirage/pkg/resolve"
	"github.com/getmockd/mirage/pkg/server"
	"github.com/getmockd/mirage/pkg/spec"
)

// Build-time variables set via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type serveFlags struct {
	configPath string
	specPath   string
	addr       string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	flags := &serveFlags{}

	root := &cobra.Command{
		Use:   "mirage",
		Short: "Serve mock responses from an OpenAPI-style specification",
		Long: `mirage turns a declarative API description into a running HTTP server
that answers every declared operation with author-supplied examples or
schema-generated values, with optional per-route latency and flakiness.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags)
		},
	}

	root.Flags().StringVarP(&flags.configPath, "config", "c", "", "path to a server config file")
	root.Flags().StringVarP(&flags.specPath, "spec", "s", "", "path to the API specification (YAML or JSON)")
	root.Flags().StringVarP(&flags.addr, "addr", "a", "", "listen address (default \":4280\")")
	root.Flags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.Flags().StringVar(&flags.logFormat, "log-format", "", "log format: text, json")

	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mirage %s (commit %s, built %s)\n", version, commit, buildDate)
		},
	}
}

func runServe(cmd *cobra.Command, flags *serveFlags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	if cfg.Spec == "" {
		return fmt.Errorf("no specification file given (use --spec or the config file)")
	}

	log := logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.Logging.Level),
		Format: logging.ParseFormat(cfg.Logging.Format),
	})

	doc, err := document.LoadFile(cfg.Spec)
	if err != nil {
		return err
	}
	indexed, err := spec.Build(doc)
	if err != nil {
		return fmt.Errorf("failed to index specification: %w", err)
	}
	log.Info("specification loaded",
		"spec", cfg.Spec,
		"title", indexed.Title,
		"version", indexed.Version,
		"operations", indexed.OperationCount(),
	)

	opts, err := resolverOptions(cfg)
	if err != nil {
		return err
	}
	resolver := resolve.New(indexed, opts...)

	srv := server.New(cfg.Addr, resolver, server.WithLogger(log))
	if err := srv.Start(); err != nil {
		return err
	}

	// Block until interrupted, then drain.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

// loadConfig merges the optional config file with CLI flags; flags win.
func loadConfig(flags *serveFlags) (*config.Config, error) {
	cfg := config.Default()
	if flags.configPath != "" {
		loaded, err := config.LoadFromFile(flags.configPath)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}

	if flags.specPath != "" {
		cfg.Spec = flags.specPath
	}
	if flags.addr != "" {
		cfg.Addr = flags.addr
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Logging.Format = flags.logFormat
	}
	return &cfg, nil
}

// resolverOptions converts global chaos defaults into resolver options.
func resolverOptions(cfg *config.Config) ([]resolve.Option, error) {
	var opts []resolve.Option

	delay, err := cfg.Chaos.ParsedDelay()
	if err != nil {
		return nil, err
	}
	if delay > 0 {
		opts = append(opts, resolve.WithDefaultDelay(delay))
	}

	if f := cfg.Chaos.Flaky; f != nil && f.Probability > 0 {
		status := f.Status
		if status == 0 {
			status = 500
		}
		opts = append(opts, resolve.WithDefaultFlaky(&spec.Flaky{
			Probability: f.Probability,
			Status:      status,
		}))
	}
	return opts, nil
}
