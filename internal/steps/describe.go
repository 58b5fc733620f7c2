package steps

import "fmt"

// Describe summarizes how a run ended in one sentence.
func Describe(alg Algorithm, h *History, target int) string {
	total := h.Len()
	switch h.Outcome.Kind {
	case OutcomeFound:
		return fmt.Sprintf("%s found %d at index %d after %d checks.",
			alg.Title, target, h.Outcome.Index, h.Count(TagChecking))
	case OutcomeNotFound:
		return fmt.Sprintf("%s did not find %d; %d checks ruled out every element.",
			alg.Title, target, h.Count(TagChecking))
	case OutcomeSorted:
		n := h.Comparisons()
		noun := "comparisons"
		if n == 1 {
			noun = "comparison"
		}
		return fmt.Sprintf("%s sorted %d values in %d steps with %d %s.",
			alg.Title, len(h.Last().Values), total, n, noun)
	}
	return fmt.Sprintf("%s finished after %d steps.", alg.Title, total)
}
