package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rvachev/artel/internal/api"
	"github.com/rvachev/artel/internal/catalog"
	"github.com/rvachev/artel/internal/composer"
	"github.com/rvachev/artel/internal/config"
	"github.com/rvachev/artel/internal/genai"
	"github.com/rvachev/artel/internal/intent"
	"github.com/rvachev/artel/internal/pipeline"
	"github.com/rvachev/artel/internal/storage"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the artel server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running artel server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return stopServer()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show artel system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus()
	},
}

func pidFilePath(dataDir string) string {
	return filepath.Join(dataDir, "artel.pid")
}

func writePIDFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
}

func readPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

func removePIDFile(path string) {
	os.Remove(path)
}

func runServer() error {
	fmt.Fprintf(os.Stderr, "artel version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Initialize structured logging.
	logLevel := slog.LevelInfo
	if strings.EqualFold(cfg.Log.Level, "debug") {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	// Ensure API token exists in the secrets store.
	if _, err := config.GetAPIToken(config.NewKeychain()); err != nil {
		return fmt.Errorf("initializing API token: %w", err)
	}
	slog.Info("API bearer token available")

	// Write PID file. Check if server is already running via health endpoint.
	pidPath := pidFilePath(cfg.Storage.DataDir)
	healthURL := fmt.Sprintf("http://127.0.0.1:%d/health", cfg.Server.Port)
	healthClient := &http.Client{Timeout: 2 * time.Second}
	if resp, err := healthClient.Get(healthURL); err == nil {
		resp.Body.Close()
		if pid, pidErr := readPIDFile(pidPath); pidErr == nil {
			printWarning("artel is already running (PID %d)", pid)
			return fmt.Errorf("server already running (PID %d)", pid)
		}
		printWarning("artel is already running on port %d", cfg.Server.Port)
		return fmt.Errorf("server already running on port %d", cfg.Server.Port)
	}
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer removePIDFile(pidPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load the catalog. A missing or malformed catalog stops the server.
	store, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	slog.Info("catalog loaded", "path", cfg.Catalog.Path, "artworks", store.Len())

	// Select and probe the generation provider.
	engine, err := genai.Select(genai.SelectConfig{
		Provider:    cfg.GenAI.Provider,
		APIKey:      cfg.GenAI.APIKey,
		GeminiURL:   cfg.GenAI.BaseURL,
		GeminiModel: cfg.GenAI.GeminiModel,
		OpenAIModel: cfg.GenAI.OpenAIModel,
	})
	if err != nil {
		return err
	}
	if !engine.IsReady(ctx) {
		printWarning("generation provider %s is not reachable; chat will degrade to fallback replies", engine.Name())
	} else {
		slog.Info("generation provider ready", "provider", engine.Name())
	}

	// Open the interaction log.
	logStore, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := logStore.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: closing storage: %v\n", err)
		}
	}()

	// Build the chat pipeline.
	timeout, err := time.ParseDuration(cfg.GenAI.Timeout)
	if err != nil {
		slog.Warn("invalid generation timeout, using default 30s", "value", cfg.GenAI.Timeout, "error", err)
		timeout = 30 * time.Second
	}
	extractor := intent.NewExtractor(engine, store.AvailableFilters(), timeout)
	assistant := pipeline.New(store, extractor, composer.New(store), logStore, cfg.Recommend.Limit)

	// Retrieve API token for bearer auth on admin endpoints.
	apiToken, err := config.GetAPIToken(config.NewKeychain())
	if err != nil {
		return fmt.Errorf("getting API token: %w", err)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: api.NewRouter(store, assistant, logStore, apiToken),
	}

	// Build and start MCP server (stdio transport in a goroutine).
	mcpSrv := api.NewMCPServer(api.MCPDeps{
		Store: store,
		Limit: cfg.Recommend.Limit,
	})
	stdioSrv := server.NewStdioServer(mcpSrv)
	go func() {
		if err := stdioSrv.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("MCP stdio server error", "error", err)
		}
	}()
	slog.Info("MCP server started (stdio transport)")

	// Start server in a goroutine.
	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stderr, "artel listening on %s\n", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for signal or server error.
	select {
	case <-ctx.Done():
		fmt.Fprintln(os.Stderr, "shutting down...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	// Graceful shutdown with timeout.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func stopServer() error {
	cfg, err := config.Load()
	if err != nil {
		printError("could not load config: %v", err)
		return err
	}

	pidPath := pidFilePath(cfg.Storage.DataDir)
	pid, err := readPIDFile(pidPath)
	if err != nil {
		printError("artel is not running (no PID file)")
		return fmt.Errorf("not running: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		printError("could not find process %d", pid)
		return err
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		printError("could not stop artel (PID %d): %v", pid, err)
		removePIDFile(pidPath)
		return err
	}

	printSuccess("Sent stop signal to artel (PID %d)", pid)
	return nil
}

func showStatus() error {
	cfg, err := config.Load()
	if err != nil {
		// Still show partial status even if config fails.
		printError("config error: %v", err)
		return nil
	}

	serverURL := fmt.Sprintf("http://127.0.0.1:%d", cfg.Server.Port)
	client := &http.Client{Timeout: 2 * time.Second}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Probe the server, the generation provider, and the catalog
	// concurrently; none of them depends on another.
	var (
		serverUp     bool
		providerUp   bool
		providerName string
		catalogCount int
	)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		resp, err := client.Get(serverURL + "/health")
		if err != nil {
			return nil
		}
		resp.Body.Close()
		serverUp = resp.StatusCode == http.StatusOK
		return nil
	})

	g.Go(func() error {
		engine, err := genai.Select(genai.SelectConfig{
			Provider:    cfg.GenAI.Provider,
			APIKey:      cfg.GenAI.APIKey,
			GeminiURL:   cfg.GenAI.BaseURL,
			GeminiModel: cfg.GenAI.GeminiModel,
			OpenAIModel: cfg.GenAI.OpenAIModel,
		})
		if err != nil {
			return nil
		}
		providerName = engine.Name()
		providerUp = engine.IsReady(gctx)
		return nil
	})

	g.Go(func() error {
		store, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return nil
		}
		catalogCount = store.Len()
		return nil
	})

	g.Wait()

	if serverUp {
		printStatus("Server", "running on port %d", cfg.Server.Port)
	} else {
		printStatus("Server", "stopped")
	}
	if providerName == "" {
		printStatus("Provider", "misconfigured (%s)", cfg.GenAI.Provider)
	} else if providerUp {
		printStatus("Provider", "%s reachable", providerName)
	} else {
		printStatus("Provider", "%s not reachable", providerName)
	}
	if catalogCount > 0 {
		printStatus("Catalog", "%d artworks (%s)", catalogCount, cfg.Catalog.Path)
	} else {
		printStatus("Catalog", "not loadable (%s)", cfg.Catalog.Path)
	}
	printStatus("Data dir", "%s", cfg.Storage.DataDir)
	return nil
}
