package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/jwtly10/litpage"
	"github.com/jwtly10/litpage/internal/config"
	iLsp "github.com/jwtly10/litpage/internal/lsp"
	"github.com/jwtly10/litpage/internal/lsp/server"
	"github.com/jwtly10/litpage/internal/transformer"
)

// getLogFile returns a log file for the lsp server to write to.
//
// During development (-debug flag) uses persistent log for easy access.
func getLogFile(debug bool) (*os.File, error) {
	if debug {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		logDir := filepath.Join(homeDir, ".litpage")
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, err
		}
		return os.OpenFile(filepath.Join(logDir, "litpage-ls.log"),
			os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	}

	return os.CreateTemp("", "litpage-ls-*.log")
}

func main() {
	var debug bool
	var configPath string
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.StringVar(&configPath, "config", "", "Config file (default ./litpage.yaml)")
	flag.Parse()

	logFile, err := getLogFile(debug)
	if err != nil {
		slog.Error("failed to setup logging", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	// stdout carries the protocol, logs never go there
	var handler slog.Handler
	if debug {
		handler = slog.NewTextHandler(io.MultiWriter(os.Stderr, logFile), &slog.HandlerOptions{
			Level:     slog.LevelDebug,
			AddSource: true,
		})
	} else {
		handler = slog.NewTextHandler(logFile, &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: true,
		})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	slog.Info("starting litpage-ls", "version", litpage.Version, "logfile", logFile.Name())

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	o := server.Options{
		DocService: iLsp.DocumentServiceOptions{
			Transform: transformer.TransformOptions{
				SourceRoot: cfg.SourceDir,
				MaxFiles:   cfg.MaxFiles,
				NoBackup:   true,
				Site:       cfg.SiteOptions(),
				Render:     cfg.RenderOptions(nil),
			},
		},
	}
	if cfg.BaseDir != "" {
		o.DocService.Transform.SourceRoot = cfg.SourcePath()
	}

	s, err := server.NewServer(o)
	if err != nil {
		slog.Error("failed to create server", "error", err)
		return
	}

	ctx := context.Background()

	<-jsonrpc2.NewConn(
		ctx,
		jsonrpc2.NewBufferedStream(server.NewStdRWC(), jsonrpc2.VSCodeObjectCodec{}),
		jsonrpc2.HandlerWithError(s.Handle),
	).DisconnectNotify()
}
