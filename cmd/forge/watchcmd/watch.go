// Package watchcmd implements `forge watch`: the same config-to-Compiler
// wiring as build, but through Watch instead of Run, printing one JSON
// line per completed rebuild until interrupted.
package watchcmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/buildforge/compiler/internal/cache"
	"github.com/buildforge/compiler/internal/compilation"
	"github.com/buildforge/compiler/internal/compiler"
	"github.com/buildforge/compiler/internal/config"
	"github.com/buildforge/compiler/internal/contract"
	"github.com/buildforge/compiler/internal/logging"
	"github.com/buildforge/compiler/internal/vfs"
)

var cfgPath string

// Cmd represents the `forge watch` command.
var Cmd = &cobra.Command{
	Use:           "watch",
	Short:         "Rebuild on file changes from a CUE config",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfgPath == "" {
			return fmt.Errorf("missing required flag: --config")
		}
		opts, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		fs := vfs.NewOS()
		newComp := func(compiler.CompileParams) contract.Compilation {
			return compilation.New("main")
		}
		c := compiler.New(opts.Context(), opts, cache.NewMemory(), fs, fs, fs, newComp, nil)
		c.SetLogger(logging.NewFactory(os.Stderr))

		enc := json.NewEncoder(os.Stdout)
		c.Hooks.Done.Tap("forge-watch-report", func(_ context.Context, stats *contract.Stats) error {
			return enc.Encode(summarize(stats))
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		w, err := c.Watch(ctx, opts.WatchConfig())
		if err != nil {
			return err
		}
		defer func() { _ = w.Close(context.Background()) }()

		<-ctx.Done()
		return nil
	},
}

func init() {
	Cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to config file (.cue)")
}

func summarize(stats *contract.Stats) map[string]any {
	out := map[string]any{"ok": true}
	if stats == nil {
		return out
	}
	if stats.Err != nil {
		out["ok"] = false
		out["error"] = stats.Err.Error()
		return out
	}
	if stats.Compilation != nil {
		out["assets"] = len(stats.Compilation.GetAssets())
	}
	return out
}
