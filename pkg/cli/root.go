// Package cli is the jsynth command line.
package cli

import (
	"os"

	"github.com/funvibe/jsynth/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	appName    = "jsynth"
	appVersion = "0.1.0"
)

// globalOptions are the flags shared by every subcommand.
type globalOptions struct {
	profilePath string
	verbose     bool
	noColor     bool
}

func (g *globalOptions) logger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if g.verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = !g.verbose
	return cfg.Build()
}

// profile loads the profile named by --profile, or jsynth.yaml from the
// working directory or its parents, or the defaults.
func (g *globalOptions) profile() (*config.Profile, error) {
	path := g.profilePath
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		if path, err = config.FindProfile(wd); err != nil {
			return nil, err
		}
	}
	if path == "" {
		return config.DefaultProfile(), nil
	}
	return config.LoadProfile(path)
}

// NewRootCmd returns the jsynth command tree.
func NewRootCmd() *cobra.Command {
	g := &globalOptions{}

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "JavaScript and WebAssembly program synthesizer for engine fuzzing",
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().StringVarP(&g.profilePath, "profile", "p", "", "generation profile (default: jsynth.yaml if present)")
	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "V", false, "log every applied strategy")
	cmd.PersistentFlags().BoolVar(&g.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		newGenerateCmd(g),
		newStrategiesCmd(g),
		newSamplesCmd(g),
		newReplayCmd(g),
	)
	return cmd
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		cmd.PrintErrln(colorize(cmd.ErrOrStderr(), false, colorRed, "error: ")+err.Error())
		return 1
	}
	return 0
}
