package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"status-pulse-backend/config"
	"status-pulse-backend/internal/db"
	"status-pulse-backend/internal/kv"
	"status-pulse-backend/internal/store"
)

const defaultConfigPath = "./config/config.yaml"

var rootCmd = &cobra.Command{
	Use:   "statusd",
	Short: "System Pulse status dashboard",
	Long: `statusd records daily availability reports for monitored systems and turns
them into day-by-day status timelines.

Run "statusd serve" for the HTTP API or "statusd timeline" for a terminal report.`,
	SilenceUsage: true,
}

func main() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().String("config", defaultConfigPath, "path to the YAML config file")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(timelineCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	_ = viper.BindEnv("config", "CONFIG_PATH")
	viper.SetDefault("config", defaultConfigPath)
}

// loadConfig reads the configured file. A missing default file falls back to
// built-in defaults; a missing file that was asked for explicitly is an error.
func loadConfig(logger *log.Logger) (*config.Config, error) {
	configPath := viper.GetString("config")
	cfg, err := config.Load(configPath)
	if errors.Is(err, fs.ErrNotExist) && configPath == defaultConfigPath {
		logger.Printf("no config file at %s, using defaults", configPath)
		return config.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from %s: %w", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)
	return cfg, nil
}

// openStore connects to the database and loads the record store from it.
func openStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (store.Store, func(), error) {
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	logger.Println("database initialized successfully")

	closeDB := func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			sqlDB.Close()
		}
	}

	s := store.Open(ctx, kv.New(gormDB), store.Options{SeedDefaults: cfg.Store.SeedDefaults})
	logger.Println("record store initialized")
	return s, closeDB, nil
}
