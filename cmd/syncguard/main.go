// Package main provides the syncguard binary: a one-shot front-end for
// the conflict engine that diffs two record snapshots and reports the
// detected conflicts, their resolution, and the engine audit state.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/kimhsiao/syncguard/internal/config"
	"github.com/kimhsiao/syncguard/internal/conflict"
	"github.com/kimhsiao/syncguard/internal/logging"
	"github.com/kimhsiao/syncguard/internal/models"
)

// Version is set at build time.
var Version = "0.1.0"

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "syncguard",
		Short: "Offline-first sync conflict engine",
		Long: `Syncguard detects and resolves divergences between a locally cached
record and its remotely authoritative counterpart. Given two JSON
snapshots it reports the differing fields, classifies their severity,
and applies the configured resolution strategy.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(detectCmd())
	cmd.AddCommand(versionCmd())
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the syncguard version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("syncguard v%s\n", Version)
		},
	}
}

// report is the JSON document detect prints to stdout.
type report struct {
	Conflicts     []*models.Conflict    `json:"conflicts"`
	Stats         models.ConflictStats  `json:"stats"`
	History       []models.HistoryEntry `json:"history"`
	Notifications []models.Notification `json:"notifications"`
}

func detectCmd() *cobra.Command {
	var (
		localPath  string
		remotePath string
		entityType string
		entityID   string
		category   string
		configPath string
		strategy   string
	)

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Diff two snapshots and resolve the resulting conflict",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(localPath, remotePath, entityType, entityID, category, configPath, strategy)
		},
	}

	cmd.Flags().StringVar(&localPath, "local", "", "path to the local snapshot (JSON object)")
	cmd.Flags().StringVar(&remotePath, "remote", "", "path to the remote snapshot (JSON object)")
	cmd.Flags().StringVar(&entityType, "entity-type", "", "entity type of the compared record")
	cmd.Flags().StringVar(&entityID, "entity-id", "", "entity id of the compared record")
	cmd.Flags().StringVar(&category, "category", string(models.CategoryCustom), "conflict category (attendance|user|settings|sync_metadata|custom)")
	cmd.Flags().StringVar(&configPath, "config", "", "path to a syncguard YAML config file")
	cmd.Flags().StringVar(&strategy, "resolve", "", "resolution strategy to apply after detection")

	_ = cmd.MarkFlagRequired("local")
	_ = cmd.MarkFlagRequired("remote")
	_ = cmd.MarkFlagRequired("entity-type")
	_ = cmd.MarkFlagRequired("entity-id")

	return cmd
}

func runDetect(localPath, remotePath, entityType, entityID, category, configPath, strategy string) error {
	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.LoadFromFile(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	local, err := loadSnapshot(localPath)
	if err != nil {
		return err
	}
	remote, err := loadSnapshot(remotePath)
	if err != nil {
		return err
	}

	logger := logging.New(os.Stderr, logging.ParseLevel(cfg.LogLevel))
	engine := conflict.NewManager(cfg.EngineConfig(), logger)

	conflicts := engine.Detect(local, remote, entityType, entityID, models.ConflictCategory(category))

	if strategy != "" {
		for _, c := range conflicts {
			if !c.Metadata.Resolved {
				engine.Resolve(c.Metadata.ID, models.ResolutionStrategy(strategy))
			}
		}
	}

	out := report{
		Conflicts:     engine.Conflicts(),
		Stats:         engine.Stats(),
		History:       engine.History(),
		Notifications: engine.Notifications(),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// loadSnapshot reads one record snapshot from a JSON file.
func loadSnapshot(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}

	var snapshot map[string]any
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	return snapshot, nil
}
