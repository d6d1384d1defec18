package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/johncarpenter/rakuten-mcp/internal/config"
	"github.com/johncarpenter/rakuten-mcp/internal/mcp"
	"github.com/johncarpenter/rakuten-mcp/internal/tools"
)

type serveFlags struct {
	envFile string
	logPath string
	debug   bool
}

func newServeCmd() *cobra.Command {
	var f serveFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), f, os.Stdin, os.Stdout)
		},
	}

	cmd.Flags().StringVar(&f.envFile, "env-file", "", "dotenv file to load (default: {project root}/.env)")
	cmd.Flags().StringVarP(&f.logPath, "log", "l", "", "also write diagnostics to this file")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "log every request and tool call")

	// stdout carries the protocol; keep cobra's own output off it.
	cmd.SetOut(os.Stderr)
	cmd.SetErr(os.Stderr)
	return cmd
}

func runServe(ctx context.Context, f serveFlags, in io.Reader, out io.Writer) error {
	cfg, err := config.Load(f.envFile)
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	if f.logPath != "" {
		cfg.LogPath = f.logPath
	}
	if f.debug {
		cfg.Debug = true
	}

	logger, closeLog := newLogger(cfg.LogPath)
	defer closeLog()

	reg := mcp.NewRegistry()
	if err := tools.Register(reg, cfg); err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	srv := mcp.NewServer(reg, mcp.Options{
		Logger: logger,
		Debug:  cfg.Debug,
	})
	srv.SetIO(in, out)

	logger.Printf("rakuten-mcp %s serving %d tools (project root %s)", version, reg.Len(), cfg.ProjectRoot)
	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// newLogger returns a logger writing to stderr and, if path is set, to path.
func newLogger(path string) (*log.Logger, func()) {
	var w io.Writer = os.Stderr
	closeFn := func() {}

	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			log.New(os.Stderr, "", log.LstdFlags).Printf("warning: cannot open log %q: %v", path, err)
		} else {
			w = io.MultiWriter(os.Stderr, f)
			closeFn = func() { f.Close() }
		}
	}

	return log.New(w, "", log.LstdFlags|log.Lmicroseconds), closeFn
}
