package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/funvibe/jsynth/internal/archive"
	"github.com/funvibe/jsynth/internal/pipeline"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	seed        int64
	samples     int
	strategy    string
	outputDir   string
	archivePath string
	showIR      bool
}

func newGenerateCmd(g *globalOptions) *cobra.Command {
	o := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate JavaScript samples",
		Long: `Generate JavaScript samples.

Each sample is generated from its own seed: --seed for the first sample,
then seed+1, seed+2 and so on. Without --seed the profile's seed or the
current time is used. --strategy applies one catalog strategy to an empty
program instead of weighted random generation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := g.profile()
			if err != nil {
				return err
			}
			if o.strategy != "" {
				if err := checkStrategy(o.strategy); err != nil {
					return err
				}
			}
			seed := o.seed
			if !cmd.Flags().Changed("seed") {
				seed = time.Now().UnixNano()
				if profile.Seed != nil {
					seed = *profile.Seed
				}
			}
			log, err := g.logger()
			if err != nil {
				return err
			}
			defer log.Sync()

			var store *archive.Store
			if o.archivePath != "" {
				if store, err = archive.Open(cmd.Context(), o.archivePath); err != nil {
					return err
				}
				defer store.Close()
			}
			if o.outputDir != "" {
				if err := os.MkdirAll(o.outputDir, 0o755); err != nil {
					return err
				}
			}

			p := pipeline.Standard(store)
			for i := 0; i < o.samples; i++ {
				ctx := pipeline.NewPipelineContext(cmd.Context(), seed+int64(i), profile)
				ctx.Logger = log
				ctx.Strategy = o.strategy
				ctx = p.Run(ctx)
				if ctx.Failed() {
					return errors.Wrapf(ctx.Errors[0], "seed %d", ctx.Seed)
				}
				if err := o.emit(cmd, g, ctx); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().Int64VarP(&o.seed, "seed", "s", 0, "seed of the first sample")
	cmd.Flags().IntVarP(&o.samples, "samples", "n", 1, "number of samples")
	cmd.Flags().StringVar(&o.strategy, "strategy", "", "apply a single strategy by name")
	cmd.Flags().StringVarP(&o.outputDir, "output", "o", "", "write samples as <id>.js into this directory")
	cmd.Flags().StringVar(&o.archivePath, "archive", "", "store samples in this SQLite archive")
	cmd.Flags().BoolVar(&o.showIR, "ir", false, "print the IR listing instead of JavaScript")
	return cmd
}

func (o *generateOptions) emit(cmd *cobra.Command, g *globalOptions, ctx *pipeline.PipelineContext) error {
	text := ctx.JS
	ext := ".js"
	if o.showIR {
		text = ctx.IR
		ext = ".ir"
	}
	if o.outputDir != "" {
		return os.WriteFile(filepath.Join(o.outputDir, ctx.ID+ext), []byte(text), 0o644)
	}
	out := cmd.OutOrStdout()
	header := fmt.Sprintf("// sample %s seed %d", ctx.ID, ctx.Seed)
	if _, err := fmt.Fprintln(out, colorize(out, g.noColor, colorDim, header)); err != nil {
		return err
	}
	_, err := fmt.Fprint(out, text)
	return err
}
