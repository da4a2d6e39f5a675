package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/modmap/internal/config"
	"github.com/zjrosen/modmap/internal/log"
)

const localConfigPath = ".modmap/config.yaml"

var (
	version    = "dev"
	cfgFile    string
	cfg        config.Config
	configErr  error
	logCleanup func()
)

var rootCmd = &cobra.Command{
	Use:   "modmap",
	Short: "Map module namespaces onto asset directories",
	Long: `modmap keeps a table of module namespaces, each pointing at a directory
(or single script) under your asset root, and turns files back into the
module paths a browser-side loader requests.

Namespaces are read from the config file and registered in the order they
are listed. A file belongs to the first namespace whose directory is a
prefix of the file's real path.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .modmap/config.yaml, then ~/.config/modmap/config.yaml)")
	rootCmd.PersistentFlags().String("base-path", "",
		"public root for namespaces without a base_url (overrides config)")
	rootCmd.PersistentFlags().String("asset-root", "",
		"directory relative paths are resolved against (overrides config)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false,
		"write a debug log (see log.file in config)")
}

func initConfig() {
	// Bind flags to viper
	_ = viper.BindPFlag("base_path", rootCmd.PersistentFlags().Lookup("base-path"))
	_ = viper.BindPFlag("asset_root", rootCmd.PersistentFlags().Lookup("asset-root"))
	_ = viper.BindPFlag("log.debug", rootCmd.PersistentFlags().Lookup("debug"))

	defaults := config.Defaults()
	viper.SetDefault("base_path", defaults.BasePath)
	viper.SetDefault("asset_root", defaults.AssetRoot)
	viper.SetDefault("log.debug", defaults.Log.Debug)
	viper.SetDefault("log.file", defaults.Log.File)
	viper.SetDefault("log.level", defaults.Log.Level)

	viper.SetEnvPrefix("MODMAP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("log.debug", "MODMAP_LOG_DEBUG", "MODMAP_DEBUG")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .modmap/config.yaml (current directory)
		// 2. ~/.config/modmap/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "modmap"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// Only the search path may come up empty. A file named with --config
		// must exist.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			configErr = fmt.Errorf("reading config: %w", err)
			return
		}
		// No config file anywhere - continue with defaults
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		configErr = fmt.Errorf("decoding config: %w", err)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	if cfg.Log.Debug {
		cleanup, err := log.InitWithTeaLog(cfg.Log.File, "modmap")
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		logCleanup = cleanup
		log.SetMinLevel(log.ParseLevel(cfg.Log.Level))
	}

	log.Debug(log.CatCLI, "Running command", "command", cmd.Name(), "config", viper.ConfigFileUsed())
	return nil
}

func teardown(cmd *cobra.Command, args []string) {
	if logCleanup != nil {
		logCleanup()
		logCleanup = nil
	}
}

// loadedConfig returns the decoded config, or the error that prevented
// reading it.
func loadedConfig() (config.Config, error) {
	if configErr != nil {
		return config.Config{}, configErr
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	if viper.ConfigFileUsed() == "" {
		log.Warn(log.CatConfig, "No config file found, using defaults")
	}
	return cfg, nil
}

// writableConfigPath is where config changes are saved: the file that was
// loaded, or .modmap/config.yaml when none was.
func writableConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if used := viper.ConfigFileUsed(); used != "" {
		if _, err := os.Stat(used); err == nil {
			return used
		}
	}
	return localConfigPath
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
