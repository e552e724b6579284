package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yungbote/infinitetutor-backend/internal/app"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "infinitetutor",
		Short:         "InfiniteTutor learning backend",
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("load .env: %w", err)
			}
			return nil
		},
		RunE: runServe,
	}
	app.RegisterFlags(root.PersistentFlags())

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE:  runMigrate,
	})
	return root
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := app.LoadConfig(cmd.Flags())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	log, err := app.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, log, cfg)
	if err != nil {
		log.Error("init app failed", "error", err)
		return err
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil {
		log.Error("server failed", "error", err)
		return err
	}
	log.Info("server stopped")
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := app.LoadConfig(cmd.Flags())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	log, err := app.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	defer log.Sync()

	if err := app.Migrate(log, cfg); err != nil {
		log.Error("migration failed", "error", err)
		return err
	}
	return nil
}
