package advisor

import (
	"fmt"
	"strings"

	"github.com/abhisek/coursematch/internal/results"
)

const systemPrompt = `You are a warm, practical guidance counselor helping a senior high school student choose a college course. You explain assessment results in plain language. Never invent courses, scores or requirements that are not in the data you are given.`

// maxCourses caps how many ranked courses go into the prompt.
const maxCourses = 5

func buildUserMessage(rec *results.Record) string {
	var b strings.Builder

	if c, ok := rec.Confidence(); ok {
		fmt.Fprintf(&b, "Assessment confidence: %.0f%%\n", c)
	} else {
		b.WriteString("Assessment confidence: unknown\n")
	}

	b.WriteString("\nTraits discovered:\n")
	traits := rec.TraitSummary()
	if len(traits) == 0 {
		b.WriteString("None\n")
	}
	for _, t := range traits {
		fmt.Fprintf(&b, "- %s (%d)\n", t.Name, t.Count)
	}

	b.WriteString("\nRecommended courses, best match first:\n")
	for i, c := range rec.Courses() {
		if i == maxCourses {
			break
		}
		fmt.Fprintf(&b, "%d. %s: %.0f%% match\n", c.Rank, c.Name, c.Score)
		if c.Description != "" {
			fmt.Fprintf(&b, "   %s\n", c.Description)
		}
		if len(c.Traits) > 0 {
			names := make([]string, len(c.Traits))
			for j, t := range c.Traits {
				names[j] = t.Name
			}
			fmt.Fprintf(&b, "   Matched traits: %s\n", strings.Join(names, ", "))
		}
		if c.MinimumGWA != nil {
			fmt.Fprintf(&b, "   Minimum GWA: %.2f\n", *c.MinimumGWA)
		}
		if c.RecommendedStrand != "" {
			fmt.Fprintf(&b, "   Recommended strand: %s\n", c.RecommendedStrand)
		}
	}

	b.WriteString("\nExplain these results to the student.")
	return b.String()
}
