// Package agents holds the four specialized phase agents of the generation
// workflow: researcher, editor, stylist and reviewer. Each one wraps the LLM
// caller with its own prompt discipline and local failure recovery.
package agents

import (
	"context"
	"log"
	"strings"

	"github.com/Divas-Gupta30/marco-agent/internal/llm"
	"github.com/Divas-Gupta30/marco-agent/internal/model"
)

// SearchFunc retrieves the top chunks for a free-text query from the content
// store. Injected as a function so the workflow can run against mocks.
type SearchFunc func(ctx context.Context, query string, max int) ([]model.SourceChunk, error)

// Researcher analyzes a section's requirements and gathers supporting
// chunks. It never fails: any error degrades to an empty source list so the
// downstream phases still run.
type Researcher struct {
	LLM        llm.Caller
	Search     SearchFunc
	MaxResults int
}

// ResearchResult carries the narrative analysis plus retrieved sources.
type ResearchResult struct {
	Analysis string
	Sources  []model.SourceChunk
}

func (r *Researcher) Analyze(ctx context.Context, section model.Section, variables []string) ResearchResult {
	var res ResearchResult

	analysis, err := r.LLM.Invoke(ctx, researchPrompt(section, variables))
	if err != nil {
		log.Println("researcher: analysis call failed:", err)
	} else {
		res.Analysis = analysis
	}

	max := r.MaxResults
	if max <= 0 {
		max = 15
	}
	query := strings.TrimSpace(section.Title + " " + strings.Join(variables, " "))
	sources, err := r.Search(ctx, query, max)
	if err != nil {
		log.Println("researcher: source search failed:", err)
		return res
	}
	res.Sources = sources
	return res
}
