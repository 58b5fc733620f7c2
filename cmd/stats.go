package cmd

import (
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/abhisek/algoquest/internal/learner"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnvironment(cmd, nil)
		if err != nil {
			return err
		}
		defer env.Close()

		ctx := cmd.Context()
		profile, err := env.learner.EnsureProfile(ctx, "")
		if err != nil {
			return err
		}
		progress, err := env.learner.Progress(ctx)
		if err != nil {
			return err
		}
		statuses, err := env.learner.Statuses(ctx)
		if err != nil {
			return err
		}
		last, err := env.learner.LastSnapshot(ctx)
		if err != nil {
			return err
		}
		unlocked := 0
		for _, s := range statuses {
			if s.Unlocked {
				unlocked++
			}
		}

		p := message.NewPrinter(language.English)
		w := cmd.OutOrStdout()
		cur, span := learner.LevelProgress(progress.XP)
		p.Fprintf(w, "%s, level %d\n", profile.Name, learner.Level(progress.XP))
		p.Fprintf(w, "  XP              %d (%d/%d to next level)\n", progress.XP, cur, span)
		p.Fprintf(w, "  Streak          %d days\n", progress.StreakDays)
		p.Fprintf(w, "  Visualizations  %d (%d sorts, %d searches)\n", progress.VisualizationsRun, progress.SortsRun, progress.SearchesRun)
		p.Fprintf(w, "  Tutorials       %d\n", progress.TutorialsCompleted)
		p.Fprintf(w, "  Challenges      %d solved\n", progress.ChallengesSolved)
		p.Fprintf(w, "  Stack / queue   %d / %d operations\n", progress.StackOps, progress.QueueOps)
		p.Fprintf(w, "  Achievements    %d of %d unlocked\n", unlocked, len(statuses))
		if last != nil {
			p.Fprintf(w, "  Last saved      %s\n", last.Timestamp.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}
