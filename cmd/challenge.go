package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/algoquest/internal/challenge"
	"github.com/abhisek/algoquest/internal/content"
)

var challengeCmd = &cobra.Command{
	Use:   "challenge",
	Short: "List and run coding challenges",
}

var challengeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available challenges",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := content.Load()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, ch := range cat.Challenges {
			fmt.Fprintf(out, "%-20s  %-8s  %3d XP  %s\n", ch.ID, ch.Difficulty, ch.XPReward, ch.Title)
		}
		return nil
	},
}

var challengeRunCmd = &cobra.Command{
	Use:   "run <id> <solution.lua>",
	Short: "Check a Lua solution against a challenge's test cases",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnvironment(cmd, nil)
		if err != nil {
			return err
		}
		defer env.Close()

		ch, ok := env.catalog.Challenge(args[0])
		if !ok {
			return fmt.Errorf("unknown challenge %q", args[0])
		}
		src, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("read solution: %w", err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		res, err := challenge.NewRunner().Run(ctx, ch, string(src))
		var ce *challenge.CompileError
		if errors.As(err, &ce) {
			fmt.Fprintln(cmd.OutOrStdout(), ce.Error())
			return nil
		}
		if err != nil {
			return err
		}

		printResult(cmd.OutOrStdout(), ch, res)

		awards, err := env.learner.RecordChallenge(cmd.Context(), ch, res.Solved())
		if err != nil {
			env.logger.Warn("record challenge", "challenge", ch.ID, "error", err)
		}
		for _, a := range awards {
			fmt.Fprintf(cmd.OutOrStdout(), "★ Achievement unlocked: %s (+%d XP)\n", a.Title, a.XPReward)
		}
		return nil
	},
}

func printResult(w io.Writer, ch content.Challenge, res *challenge.Result) {
	for _, c := range res.Cases {
		mark := "✓"
		if !c.Passed {
			mark = "✗"
		}
		input := challenge.Format(c.Input)
		if c.Target != nil {
			input += fmt.Sprintf(" target %d", *c.Target)
		}
		fmt.Fprintf(w, "%s case %d  %s\n", mark, c.Index+1, input)
		switch {
		case c.Err != "":
			fmt.Fprintf(w, "    error: %s\n", c.Err)
		case !c.Passed:
			fmt.Fprintf(w, "    want %s, got %s\n", c.Want, c.Got)
			fmt.Fprintf(w, "    diff %s\n", c.Diff)
		}
	}
	if res.Solved() {
		fmt.Fprintf(w, "\nSolved %s! %d/%d cases passed.\n", ch.Title, res.Passed, res.Total)
		return
	}
	fmt.Fprintf(w, "\n%d/%d cases passed.\n", res.Passed, res.Total)
}

func init() {
	challengeCmd.AddCommand(challengeListCmd)
	challengeCmd.AddCommand(challengeRunCmd)
}
