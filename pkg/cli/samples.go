package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/funvibe/jsynth/internal/archive"
	"github.com/funvibe/jsynth/internal/config"
	"github.com/funvibe/jsynth/internal/pipeline"
	"github.com/spf13/cobra"
)

const defaultArchive = "jsynth.db"

func newSamplesCmd(g *globalOptions) *cobra.Command {
	var path string
	var limit int
	cmd := &cobra.Command{
		Use:   "samples",
		Short: "List the newest archived samples",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := archive.Open(cmd.Context(), path)
			if err != nil {
				return err
			}
			defer store.Close()

			list, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, sm := range list {
				strategy := sm.Strategy
				if strategy == "" {
					strategy = "-"
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%d\t%s\n",
					sm.ID, sm.Seed, strategy, sm.Instructions, sm.Modules,
					colorize(out, g.noColor, colorDim, sm.CreatedAt.Format(time.RFC3339)))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&path, "archive", defaultArchive, "SQLite archive")
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "number of samples")
	return cmd
}

func newReplayCmd(g *globalOptions) *cobra.Command {
	var path string
	var regenerate, showIR bool
	cmd := &cobra.Command{
		Use:   "replay <id>",
		Short: "Print an archived sample",
		Long: `Print an archived sample.

With --regenerate the sample is generated again from its stored seed,
strategy and profile, and the command fails if the result differs from the
archived program.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := archive.Open(cmd.Context(), path)
			if err != nil {
				return err
			}
			defer store.Close()

			sm, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if regenerate {
				profile, err := config.ParseProfile([]byte(sm.Profile), "sample "+sm.ID)
				if err != nil {
					return err
				}
				ctx := pipeline.NewPipelineContext(cmd.Context(), sm.Seed, profile)
				ctx.Strategy = sm.Strategy
				ctx = pipeline.Standard(nil).Run(ctx)
				if ctx.Failed() {
					return ctx.Errors[0]
				}
				if ctx.JS != sm.JS {
					return fmt.Errorf("sample %s does not reproduce from seed %d", sm.ID, sm.Seed)
				}
			}
			text := sm.JS
			if showIR {
				text = sm.IR
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), text)
			return err
		},
	}
	cmd.Flags().StringVar(&path, "archive", defaultArchive, "SQLite archive")
	cmd.Flags().BoolVar(&regenerate, "regenerate", false, "regenerate from the seed and compare")
	cmd.Flags().BoolVar(&showIR, "ir", false, "print the IR listing instead of JavaScript")
	return cmd
}
