package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aretw0/omarchive"
	"github.com/aretw0/omarchive/pkg/adapters/fs"
	"github.com/aretw0/omarchive/pkg/adapters/lifecycle"
	"github.com/aretw0/omarchive/pkg/content"
)

var buildWatch bool

var buildCmd = &cobra.Command{
	Use:   "build <pack.yaml>",
	Short: "Generate an archive from a content pack",
	Long: `Build applies a content pack to a fresh type registry and writes the archive.

Dependency archives found under --dependency-dir are imported first, so the
pack can extend, patch and reference their types. With --watch the pack's
directory is observed and the archive is rebuilt after every change.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		packPath := args[0]
		res, err := build(ctx, cmd, packPath)
		if !buildWatch {
			if err != nil {
				return err
			}
			fmt.Printf("Generated %s (%s)\n", res.Output, res.Archive.Properties.GUID)
			return nil
		}
		if err != nil {
			slog.Error("build failed", "pack", packPath, "error", err)
		}
		return watch(ctx, cmd, packPath)
	},
}

func build(ctx context.Context, cmd *cobra.Command, packPath string) (*omarchive.Result, error) {
	opts := []omarchive.Option{omarchive.WithLogger(slog.Default())}
	if out := configPath(cmd, "output"); out != "" {
		opts = append(opts, omarchive.WithOutput(out))
	}
	if dir := configPath(cmd, "guid_map_dir"); dir != "" {
		opts = append(opts, omarchive.WithGUIDMapDir(dir))
	}
	if dir := configPath(cmd, "dependency_dir"); dir != "" {
		opts = append(opts, omarchive.WithDependencyDir(dir, viper.GetString("dependency_pattern")))
	}
	return omarchive.Generate(ctx, packPath, opts...)
}

// watch rebuilds the pack after each burst of changes in its directory until
// ctx ends. Builds run one at a time; a failed build is logged and the loop
// carries on.
func watch(ctx context.Context, cmd *cobra.Command, packPath string) error {
	dir := filepath.Dir(packPath)
	changes, err := fs.Watch(ctx, fs.WatchConfig{
		Dir:     dir,
		Pattern: viper.GetString("watch_pattern"),
		Logger:  slog.Default(),
	})
	if err != nil {
		return err
	}

	src := lifecycle.NewSource(changes)
	if err := src.Start(ctx); err != nil {
		return err
	}
	slog.Info("watching for changes", "dir", dir)

	for event := range src.Events() {
		change, ok := event.(fs.ChangeEvent)
		if !ok || ownOutput(cmd, dir, packPath, change.Paths) {
			continue
		}
		slog.Debug("rebuilding", "reason", change.String())
		res, err := build(ctx, cmd, packPath)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			slog.Error("build failed", "pack", packPath, "error", err)
			continue
		}
		fmt.Printf("Generated %s (%s)\n", res.Output, res.Archive.Properties.GUID)
	}
	return nil
}

// ownOutput reports whether paths only name the archive the pack builds, so
// writing it does not trigger another build.
func ownOutput(cmd *cobra.Command, dir, packPath string, paths []string) bool {
	out := configPath(cmd, "output")
	if out == "" {
		pack, err := content.Load(packPath)
		if err != nil {
			return false
		}
		out = filepath.Join(dir, pack.Archive.Name+".json")
	}
	rel, err := filepath.Rel(dir, out)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, p := range paths {
		if p != rel {
			return false
		}
	}
	return len(paths) > 0
}

func init() {
	flags := buildCmd.Flags()
	flags.StringP("output", "o", "", "Archive file to write; .json, .yaml or .yml (default <dir of pack>/<name>.json)")
	flags.String("guid-map-dir", "", "Directory of the identifier map (default the pack's directory)")
	flags.String("dependency-dir", "", "Directory of dependency archives")
	flags.String("dependency-pattern", fs.DefaultPattern, "Pattern selecting dependency archives under --dependency-dir")
	flags.String("watch-pattern", "**/*.{yaml,yml,json}", "Pattern selecting the files --watch reacts to")
	flags.BoolVarP(&buildWatch, "watch", "w", false, "Rebuild whenever the pack's directory changes")

	for _, name := range []string{"output", "guid-map-dir", "dependency-dir", "dependency-pattern", "watch-pattern"} {
		_ = viper.BindPFlag(strings.ReplaceAll(name, "-", "_"), flags.Lookup(name))
	}
	rootCmd.AddCommand(buildCmd)
}
