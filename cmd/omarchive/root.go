package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aretw0/omarchive"
	"github.com/aretw0/omarchive/pkg/adapters/fs"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "omarchive",
	Short: "Build open metadata archives from content packs",
	Long: `omarchive turns YAML content packs into open metadata archives.
Types and instances are checked as they are added, dependency archives are
imported so their types can be extended, and generated GUIDs are kept stable
across rebuilds in an identifier map next to the pack.

Settings are read from flags, OMARCHIVE_* environment variables and the
nearest .omarchive.yaml, in that order.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(); err != nil {
			return err
		}

		level := slog.LevelInfo
		if viper.GetBool("verbose") {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is the nearest "+omarchive.ConfigFile+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() error {
	viper.SetDefault("dependency_pattern", fs.DefaultPattern)
	viper.SetEnvPrefix("OMARCHIVE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		root, err := omarchive.FindRoot(wd)
		if err != nil {
			// No project: flags and environment only.
			return nil
		}
		viper.SetConfigFile(filepath.Join(root, omarchive.ConfigFile))
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && (errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// configPath returns a path setting. Paths taken from the config file are
// resolved against the file's directory.
func configPath(cmd *cobra.Command, key string) string {
	p := viper.GetString(key)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	if f := cmd.Flags().Lookup(strings.ReplaceAll(key, "_", "-")); f != nil && f.Changed {
		return p
	}
	if os.Getenv("OMARCHIVE_"+strings.ToUpper(key)) != "" {
		return p
	}
	if used := viper.ConfigFileUsed(); used != "" && viper.InConfig(key) {
		return filepath.Join(filepath.Dir(used), p)
	}
	return p
}
