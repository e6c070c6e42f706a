package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	clientcmd "github.com/rzbill/tixid/internal/cmd/client"
	serverrun "github.com/rzbill/tixid/internal/cmd/server"
	cfgpkg "github.com/rzbill/tixid/internal/config"
	pebblestore "github.com/rzbill/tixid/internal/storage/pebble"
	logpkg "github.com/rzbill/tixid/pkg/log"
)

func main() {
	// Respect TIXID_LOG_LEVEL for both CLI and server start output
	level := os.Getenv("TIXID_LOG_LEVEL")
	parsed, err := logpkg.ParseLevel(level)
	if err != nil || level == "" {
		parsed = logpkg.InfoLevel
	}
	logger := logpkg.NewLogger(
		logpkg.WithLevel(parsed),
		logpkg.WithFormatter(&logpkg.TextFormatter{}),
		logpkg.WithOutput(logpkg.NewConsoleOutput()),
	)

	// Redirect standard library logs (used by Pebble) to our logger
	logpkg.RedirectStdLog(logger)

	rootCmd := clientcmd.NewRoot(apiURL)
	rootCmd.Short = "tixid ID allocator"
	rootCmd.Long = "tixid allocates time-ordered 64-bit IDs, ticket numbers and order numbers. This CLI runs the server and talks to it."

	// server start
	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	serverStartCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start tixid server (gRPC and HTTP)",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			dataDir, _ := cmd.Flags().GetString("data-dir")
			grpcAddr, _ := cmd.Flags().GetString("grpc")
			httpAddr, _ := cmd.Flags().GetString("http")
			fsyncMode, _ := cmd.Flags().GetString("fsync")
			fsyncIntervalMs, _ := cmd.Flags().GetInt("fsync-interval-ms")
			logLevel, _ := cmd.Flags().GetString("log-level")
			logFormat, _ := cmd.Flags().GetString("log-format")

			mode, err := pebblestore.ParseFsyncMode(fsyncMode)
			if err != nil {
				return fmt.Errorf("invalid --fsync; use always|interval|never")
			}
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if logLevel != "" {
				_ = os.Setenv("TIXID_LOG_LEVEL", logLevel)
			}
			if logFormat != "" {
				_ = os.Setenv("TIXID_LOG_FORMAT", logFormat)
			}
			if err := serverrun.Run(ctx, serverrun.Options{
				DataDir:       dataDir,
				GRPCAddr:      grpcAddr,
				HTTPAddr:      httpAddr,
				Fsync:         mode,
				FsyncInterval: time.Duration(fsyncIntervalMs) * time.Millisecond,
				Config:        cfg,
			}); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			// brief delay to allow logs flush
			time.Sleep(100 * time.Millisecond)
			return nil
		},
	}
	serverStartCmd.Flags().String("data-dir", "", "Data directory (default: $TIXID_DATA_DIR, else an OS-specific application data directory)")
	serverStartCmd.Flags().String("grpc", ":50051", "gRPC listen address")
	serverStartCmd.Flags().String("http", ":8080", "HTTP listen address")
	serverStartCmd.Flags().String("fsync", "always", "Fsync mode for the issuance ledger: always|interval|never")
	serverStartCmd.Flags().Int("fsync-interval-ms", 5, "When --fsync=interval, group-commit window in ms (default 5)")
	serverStartCmd.Flags().String("log-level", os.Getenv("TIXID_LOG_LEVEL"), "Log level: debug|info|warn|error")
	serverStartCmd.Flags().String("log-format", os.Getenv("TIXID_LOG_FORMAT"), "Log format: text|json (default text)")
	addConfigFlags(serverStartCmd)
	serverCmd.AddCommand(serverStartCmd)
	rootCmd.AddCommand(serverCmd)

	// config show
	configCmd := &cobra.Command{Use: "config", Short: "Configuration commands"}
	configShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(cfg)
		},
	}
	addConfigFlags(configShowCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", os.Getenv("TIXID_CONFIG"), "Config file (YAML or JSON)")
	cmd.Flags().Int64("worker-id", 0, "Worker id 0..31 (overrides config and TIXID_WORKER_ID)")
	cmd.Flags().Int64("datacenter-id", 0, "Datacenter id 0..31 (overrides config and TIXID_DATACENTER_ID)")
}

// resolveConfig applies defaults, then the config file, then TIXID_* env, then flags.
func resolveConfig(cmd *cobra.Command) (cfgpkg.Config, error) {
	cfg := cfgpkg.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := cfgpkg.Load(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if err := cfgpkg.FromEnv(&cfg); err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("worker-id") {
		cfg.WorkerID, _ = cmd.Flags().GetInt64("worker-id")
	}
	if cmd.Flags().Changed("datacenter-id") {
		cfg.DatacenterID, _ = cmd.Flags().GetInt64("datacenter-id")
	}
	return cfg, nil
}

func apiURL() string {
	if v := os.Getenv("TIXID_HTTP"); v != "" {
		return v
	}
	return "http://127.0.0.1:8080"
}
