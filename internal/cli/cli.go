// Package cli implements layoutctl, the operator tool for inspecting and
// moving stored storefront layouts.
package cli

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"storefront-layout-backend/internal/app"
	"storefront-layout-backend/internal/config"
	"storefront-layout-backend/internal/repository"
	"storefront-layout-backend/internal/sections"
	"storefront-layout-backend/internal/service"
	"storefront-layout-backend/pkg/logger"
)

// StoreOpener connects to the layout repository described by cfg.
type StoreOpener func(ctx context.Context, cfg *config.Config) (repository.LayoutRepository, io.Closer, error)

// CLI holds state shared by all commands.
type CLI struct {
	out       io.Writer
	cfg       *config.Config
	openStore StoreOpener
	registry  *sections.Registry

	storeDriver string
	verbose     bool
}

func New(out io.Writer, cfg *config.Config) *CLI {
	if cfg == nil {
		cfg = config.New()
	}
	return &CLI{
		out:       out,
		cfg:       cfg,
		openStore: openConfiguredStore,
		registry:  sections.DefaultRegistry(),
	}
}

// WithStoreOpener replaces how commands reach the repository.
func (c *CLI) WithStoreOpener(open StoreOpener) *CLI {
	c.openStore = open
	return c
}

func openConfiguredStore(ctx context.Context, cfg *config.Config) (repository.LayoutRepository, io.Closer, error) {
	store, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return store.Repository, store, nil
}

// RootCommand builds the command tree.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "layoutctl",
		Short:         "Inspect, export and import storefront layouts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Logger.SetOutput(cmd.ErrOrStderr())
			if c.verbose {
				logger.Logger.SetLevel(logrus.DebugLevel)
			} else {
				logger.Logger.SetLevel(logrus.WarnLevel)
			}
			if c.storeDriver != "" {
				c.cfg.StoreDriver = c.storeDriver
			}
		},
	}

	root.SetOut(c.out)
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&c.storeDriver, "store", "", "layout store: postgres, mongo or memory (default from STORE_DRIVER)")

	root.AddCommand(c.cssCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.templatesCommand())

	return root
}

// withStore opens the repository, runs fn with a layout store over it and
// closes the connection afterwards.
func (c *CLI) withStore(ctx context.Context, fn func(*service.LayoutStore) error) error {
	repo, closer, err := c.openStore(ctx, c.cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closer == nil {
			return
		}
		if err := closer.Close(); err != nil {
			logger.Error(err, "Failed to close layout store", nil)
		}
	}()

	return fn(service.NewLayoutStore(repo, nil, c.registry))
}
