package tutor

import (
	"fmt"
	"strings"

	"github.com/abhisek/algoquest/internal/challenge"
	"github.com/abhisek/algoquest/internal/steps"
)

const explainSystemPrompt = `You are a friendly tutor helping a beginner understand classic searching and sorting algorithms by watching them run step by step. Be concrete: refer to the actual values and positions you are given. Positions are 0-based.`

const hintSystemPrompt = `You are a tutor reviewing a beginner's Lua solution to a small algorithm exercise. Lua lists are 1-based but the exercise reports positions 0-based. Never write the full solution; point at the mistake.`

func buildExplainMessage(in ExplainInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Algorithm: %s (%s)\n", in.Algorithm.Title, in.Algorithm.Kind)
	if in.Target != nil {
		fmt.Fprintf(&b, "Target: %d\n", *in.Target)
	}
	fmt.Fprintf(&b, "Step %d of %d\n", in.Frame.Index+1, in.Total)
	if in.Previous != nil {
		fmt.Fprintf(&b, "\nPrevious step:\n%s", describeFrame(*in.Previous))
	}
	fmt.Fprintf(&b, "\nCurrent step:\n%s", describeFrame(in.Frame))

	b.WriteString(`
Instructions:
1. Explain what happened between the previous step and the current one, naming the values involved.
2. Say why the algorithm made that move.
3. Predict the next step in one sentence.`)
	return b.String()
}

// describeFrame lists the values with their highlight tags, leaving
// untagged elements bare.
func describeFrame(f steps.Frame) string {
	var b strings.Builder
	b.WriteString("Values: ")
	for i, v := range f.Values {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d", v)
		if i < len(f.Markers) && f.Markers[i] != steps.TagNormal {
			fmt.Fprintf(&b, " [%s]", f.Markers[i])
		}
	}
	b.WriteString("\n")
	return b.String()
}

func buildHintMessage(in HintInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Exercise: %s\n%s\n", in.Challenge.Title, strings.TrimSpace(in.Challenge.Prompt))
	fmt.Fprintf(&b, "Signature: %s\n", in.Challenge.Signature)
	fmt.Fprintf(&b, "\nLearner's code:\n```lua\n%s\n```\n", strings.TrimSpace(in.Source))

	b.WriteString("\nFailing cases:\n")
	if len(in.Failures) == 0 {
		b.WriteString("None\n")
	}
	for _, f := range in.Failures {
		b.WriteString("- ")
		b.WriteString(describeFailure(f))
		b.WriteString("\n")
	}

	b.WriteString(`
Instructions:
Give one hint that would help the learner fix the most likely mistake, and name the concept behind it.`)
	return b.String()
}

func describeFailure(f challenge.CaseResult) string {
	in := challenge.Format(f.Input)
	if f.Target != nil {
		in += fmt.Sprintf(", target %d", *f.Target)
	}
	if f.Err != "" {
		return fmt.Sprintf("input %s: error %q", in, f.Err)
	}
	return fmt.Sprintf("input %s: want %s, got %s", in, f.Want, f.Got)
}
