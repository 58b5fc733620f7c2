package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/algoquest/internal/dataset"
	"github.com/abhisek/algoquest/internal/steps"
)

var stepsCmd = &cobra.Command{
	Use:   "steps <algorithm>",
	Short: "Print every step an algorithm takes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		alg, data, target, err := algorithmInput(cmd, args[0])
		if err != nil {
			return err
		}
		if data == nil {
			data = slices.Clone(alg.Sample)
		}
		t := alg.SampleTarget
		if target != nil {
			t = *target
		}

		h, err := alg.Generate(data, t)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(h)
		}
		printHistory(out, alg, h, t)
		return nil
	},
}

// printHistory writes one line per frame, bracketing highlighted values.
func printHistory(w io.Writer, alg steps.Algorithm, h *steps.History, target int) {
	for i := 0; i < h.Len(); i++ {
		f := h.Frame(i)
		cells := make([]string, len(f.Values))
		for j, v := range f.Values {
			switch tag := f.Markers[j]; tag {
			case steps.TagNormal:
				cells[j] = fmt.Sprint(v)
			default:
				cells[j] = fmt.Sprintf("%d:%s", v, tag)
			}
		}
		fmt.Fprintf(w, "%4d  %s\n", i, strings.Join(cells, "  "))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, steps.Describe(alg, h, target))
	if alg.Kind == steps.KindSort {
		fmt.Fprintln(w, "Result:", dataset.Format(h.Last().Values))
	}
}

func init() {
	addAlgorithmFlags(stepsCmd)
	stepsCmd.Flags().Bool("json", false, "Print the full step history as JSON")
}
