// Package build implements `forge build`: load a CUE config, construct
// a Compiler wired to a minimal in-process Compilation (no module graph
// — that collaborator is out of scope per spec.md §1), run it once, and
// print a single JSON summary line, mirroring the pack's run.Cmd "one
// JSON line on stdout" convention.
package build

import (
	"encoding/json"
	"fmt"
	"os"

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

// Cmd represents the `forge build` command.
var Cmd = &cobra.Command{
	Use:           "build",
	Short:         "Run a single build from a CUE config",
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
		c := newCompiler(opts)

		var summary map[string]any
		var runErr error
		done := make(chan struct{})
		c.Run(cmd.Context(), func(err error, stats *contract.Stats) {
			summary = summarize(err, stats)
			runErr = err
			close(done)
		})
		<-done

		if encErr := json.NewEncoder(os.Stdout).Encode(summary); encErr != nil {
			return encErr
		}
		return runErr
	},
}

func init() {
	Cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to config file (.cue)")
}

func newCompiler(opts *compiler.Options) *compiler.Compiler {
	fs := vfs.NewOS()
	newComp := func(compiler.CompileParams) contract.Compilation {
		return compilation.New("main")
	}
	c := compiler.New(opts.Context(), opts, cache.NewMemory(), fs, fs, fs, newComp, nil)
	c.SetLogger(logging.NewFactory(os.Stderr))
	return c
}

func summarize(err error, stats *contract.Stats) map[string]any {
	out := map[string]any{"ok": err == nil}
	if err != nil {
		out["error"] = err.Error()
		return out
	}
	if stats != nil && stats.Compilation != nil {
		out["assets"] = len(stats.Compilation.GetAssets())
	}
	return out
}
