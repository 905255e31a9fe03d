package cli

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/funvibe/jsynth/internal/strategies"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"
)

func newStrategiesCmd(g *globalOptions) *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:   "strategies",
		Short: "List the strategy catalog with the profile's weights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := g.profile()
			if err != nil {
				return err
			}
			cat, err := strategies.Default().WithWeights(profile.Weights)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			total := 0
			for _, e := range cat.Entries() {
				total += e.Weight
			}
			for _, e := range cat.Entries() {
				if group != "" && e.Group != group {
					continue
				}
				share := 100 * float64(e.Weight) / float64(total)
				fmt.Fprintf(tw, "%s\t%s\t%d\t%.1f%%\n",
					e.Name, colorize(out, g.noColor, groupColors[e.Group], e.Group), e.Weight, share)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&group, "group", "g", "", "only list strategies of this group")
	return cmd
}

// checkStrategy returns an error naming the closest catalog strategies
// when name is not one of them.
func checkStrategy(name string) error {
	names := strategies.Default().Names()
	for _, n := range names {
		if n == name {
			return nil
		}
	}
	if s := suggest(name, names); len(s) > 0 {
		return fmt.Errorf("unknown strategy %q, did you mean %s?", name, strings.Join(s, " or "))
	}
	return fmt.Errorf("unknown strategy %q, see `%s strategies`", name, appName)
}

// suggest returns up to three candidates close to target: fuzzy
// subsequence matches first, then small edit distances.
func suggest(target string, candidates []string) []string {
	ranks := fuzzy.RankFindFold(target, candidates)
	sort.Sort(ranks)
	var out []string
	for _, r := range ranks {
		out = append(out, r.Target)
	}
	if len(out) == 0 {
		lower := strings.ToLower(target)
		type scored struct {
			name string
			dist int
		}
		var near []scored
		for _, c := range candidates {
			if d := fuzzy.LevenshteinDistance(lower, strings.ToLower(c)); d <= 3 {
				near = append(near, scored{c, d})
			}
		}
		sort.SliceStable(near, func(i, j int) bool { return near[i].dist < near[j].dist })
		for _, n := range near {
			out = append(out, n.name)
		}
	}
	if len(out) > 3 {
		out = out[:3]
	}
	return out
}
