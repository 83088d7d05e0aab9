// Package cmd implements the raidtally CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/raidtally/raidtally/internal/config"
	"github.com/raidtally/raidtally/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagDBPath string
	flagRealm  int
	flagYear   int
	flagQuiet  bool
)

var rootCmd = &cobra.Command{
	Use:   "raidtally",
	Short: "WoW combat log statistics CLI",
	Long:  "Process World of Warcraft combat logs: encounters, damage and healing totals, per-player breakdowns.",
	RunE:  runReport,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Database path (default from config)")
	rootCmd.PersistentFlags().IntVarP(&flagRealm, "realm", "r", 0, "Realm id (default from config)")
	rootCmd.PersistentFlags().IntVarP(&flagYear, "year", "y", 0, "Year the combat log was recorded (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// loadSettings merges the config file with command line overrides.
func loadSettings() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if flagRealm != 0 {
		cfg.General.RealmID = flagRealm
	}
	if flagYear != 0 {
		cfg.General.LogYear = flagYear
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	return cfg, nil
}

// openStore opens the database named by the merged settings.
func openStore(cfg config.Config) (*store.Store, error) {
	st, err := store.Open(config.DBPath(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return st, nil
}
