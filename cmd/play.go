package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/algoquest/internal/app"
	"github.com/abhisek/algoquest/internal/dataset"
	"github.com/abhisek/algoquest/internal/screen"
	"github.com/abhisek/algoquest/internal/screens/visualize"
	"github.com/abhisek/algoquest/internal/steps"
)

var playCmd = &cobra.Command{
	Use:   "play <algorithm>",
	Short: "Open an algorithm straight in the visualizer",
	Long: "Open an algorithm straight in the visualizer.\n\n" +
		"Algorithms: linear-search, binary-search, bubble-sort, selection-sort, insertion-sort.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		alg, data, target, err := algorithmInput(cmd, args[0])
		if err != nil {
			return err
		}
		delay, _ := cmd.Flags().GetDuration("delay")

		opts := app.Options{
			Start: func(deps screen.Deps) screen.Screen {
				if delay > 0 {
					deps.Delay = func(steps.Algorithm) time.Duration { return delay }
				}
				return visualize.New(alg, visualize.Options{Deps: deps, Data: data, Target: target})
			},
		}
		return runTUI(cmd, opts)
	},
}

// algorithmInput resolves the algorithm name and the --data and --target
// flags shared by play and steps. Nil data and target mean the sample.
func algorithmInput(cmd *cobra.Command, name string) (steps.Algorithm, []int, *int, error) {
	alg, err := steps.Lookup(name)
	if err != nil {
		return steps.Algorithm{}, nil, nil, err
	}

	var data []int
	if raw, _ := cmd.Flags().GetString("data"); raw != "" {
		if data, err = dataset.Parse(raw); err != nil {
			return alg, nil, nil, fmt.Errorf("--data: %w", err)
		}
	}

	var target *int
	if cmd.Flags().Changed("target") {
		if !alg.NeedsTarget {
			return alg, nil, nil, fmt.Errorf("%s does not take a target", alg.Name)
		}
		v, _ := cmd.Flags().GetInt("target")
		if err := dataset.Check([]int{v}); err != nil {
			return alg, nil, nil, fmt.Errorf("--target: %w", err)
		}
		target = &v
	}
	return alg, data, target, nil
}

func addAlgorithmFlags(c *cobra.Command) {
	c.Flags().String("data", "", "Comma-separated integers to run on (default: the algorithm's sample)")
	c.Flags().Int("target", 0, "Value to search for (search algorithms only)")
}

func init() {
	addAlgorithmFlags(playCmd)
	playCmd.Flags().Duration("delay", 0, "Step delay, e.g. 300ms (default: per algorithm kind)")
}
