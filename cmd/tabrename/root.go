package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/haukened/tabrename/internal/titles/common/log"
	"github.com/haukened/tabrename/internal/titles/config"
)

// loadConfig reads the environment configuration. It can be replaced in tests.
var loadConfig = config.Load

// cli carries the persistent flags and the application built from them.
type cli struct {
	backend   string
	storePath string
	strict    bool
	app       *Application
}

// run executes one command line. The store is closed even when the command
// fails.
func run(args []string, in io.Reader, out, errOut io.Writer) error {
	c := &cli{}
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	err := root.Execute()
	return errors.Join(err, c.teardown())
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Rename browser tab titles by per-domain rules",
		Long: `tabrename keeps a set of per-domain title rules and applies them.

Each rule names a domain, a search pattern (plain text, or a regular
expression when prefixed with "regex:") and a replacement. The first
occurrence of the pattern in a page title is replaced.

Configuration is read from TABRENAME_* environment variables; the flags
below override the store settings.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.PersistentFlags().StringVar(&c.backend, "backend", "", "store backend: memory, bolt or sqlite")
	root.PersistentFlags().StringVar(&c.storePath, "store", "", "database file for the bolt and sqlite backends")
	root.PersistentFlags().BoolVar(&c.strict, "strict", false, "only match a domain against the host or its dot-bounded suffix")

	root.AddCommand(
		c.addCmd(),
		c.removeCmd(),
		c.listCmd(),
		c.sortCmd(),
		c.importCmd(),
		c.exportCmd(),
		c.rewriteCmd(),
		c.menuCmd(),
		c.rebuildCacheCmd(),
	)
	return root
}

// setup loads configuration, applies flag overrides and builds the application.
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.StoreBackend = c.backend
	}
	if flags.Changed("store") {
		cfg.StorePath = c.storePath
	}
	if flags.Changed("strict") {
		cfg.StrictMatch = c.strict
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	if err := log.Configure(cfg.Env, cfg.LogLevel); err != nil {
		return fmt.Errorf("logging configuration error: %w", err)
	}
	log.Debug(map[string]any{
		"version":       version,
		"env":           cfg.Env,
		"log_level":     cfg.LogLevel,
		"store_backend": cfg.StoreBackend,
		"cache_size":    cfg.CacheSize,
		"strict_match":  cfg.StrictMatch,
	}, "Starting tabrename")

	app, err := buildApplication(cfg)
	if err != nil {
		return err
	}
	c.app = app
	return nil
}

func (c *cli) teardown() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}
