package workflow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Divas-Gupta30/marco-agent/internal/agents"
	"github.com/Divas-Gupta30/marco-agent/internal/llm"
	"github.com/Divas-Gupta30/marco-agent/internal/model"
	"github.com/Divas-Gupta30/marco-agent/internal/style"
)

func fixedCaller(n int) llm.Caller {
	return llm.CallerFunc(func(_ context.Context, _ string) (string, error) {
		return strings.Repeat("a", n), nil
	})
}

func fixedSearch(n int) agents.SearchFunc {
	return func(_ context.Context, _ string, _ int) ([]model.SourceChunk, error) {
		out := make([]model.SourceChunk, n)
		for i := range out {
			out[i] = model.SourceChunk{Content: "texto", Source: "fuente", Score: 0.9}
		}
		return out, nil
	}
}

func newWorkflow(caller llm.Caller, search agents.SearchFunc) *Workflow {
	return &Workflow{
		Researcher: &agents.Researcher{LLM: caller, Search: search, MaxResults: 15},
		Editor:     &agents.Editor{LLM: caller},
		Stylist:    &agents.Stylist{LLM: caller, Guide: style.Default()},
		Reviewer:   &agents.Reviewer{LLM: caller},
	}
}

func testSection() model.Section {
	return model.Section{ID: "section_1", Number: "2.1", Title: "Definiciones conceptuales", Level: 2}
}

func TestRunHappyPathCompletesInFourAttempts(t *testing.T) {
	wf := newWorkflow(fixedCaller(900), fixedSearch(6))

	piece, stats, err := wf.Run(context.Background(), testSection(), []string{"motivación"})
	require.NoError(t, err)

	// research, draft, style, review
	assert.Equal(t, 4, stats.Attempts)
	assert.Equal(t, StateCompleted, stats.FinalState)

	assert.True(t, piece.Approved)
	assert.Equal(t, 0.95, piece.QualityScore)
	assert.Equal(t, 0.85, piece.CoherenceScore)
	assert.Equal(t, 0.80, piece.OriginalityScore)
	assert.Equal(t, "workflow_completo", piece.CreatedBy)
	assert.Len(t, piece.Content, 900)
}

func TestRunCapsFinalSourcesAtFive(t *testing.T) {
	wf := newWorkflow(fixedCaller(900), fixedSearch(9))

	piece, _, err := wf.Run(context.Background(), testSection(), nil)
	require.NoError(t, err)
	assert.Len(t, piece.Sources, 5)
	assert.Equal(t, 5, piece.SourcesCount)
}

func TestRunShortContentExhaustsAttempts(t *testing.T) {
	// 100-char responses: the three-pass draft stays under the partial
	// threshold, review keeps rejecting, nothing qualifies for fallback.
	wf := newWorkflow(fixedCaller(100), fixedSearch(2))

	_, stats, err := wf.Run(context.Background(), testSection(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, DefaultMaxAttempts, stats.Attempts)
}

func TestRunMediumContentForcedCompletion(t *testing.T) {
	// 600-char responses: review rejects every cycle (styled text < 800),
	// but the consolidated draft is substantial, so the run is accepted
	// once attempts run out.
	wf := newWorkflow(fixedCaller(600), fixedSearch(2))

	piece, stats, err := wf.Run(context.Background(), testSection(), nil)
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, stats.FinalState)
	assert.True(t, piece.Approved)
	assert.Greater(t, len(piece.Content), partialMinChars)
}

func TestRunRecoversFromEarlyFailures(t *testing.T) {
	// The first four LLM calls fail: the research analysis degrades and the
	// whole first draft attempt collapses to the error marker. The retry
	// must still converge.
	calls := 0
	caller := llm.CallerFunc(func(_ context.Context, _ string) (string, error) {
		calls++
		if calls <= 4 {
			return "", errors.New("model unavailable")
		}
		return strings.Repeat("b", 900), nil
	})
	wf := newWorkflow(caller, fixedSearch(3))

	piece, stats, err := wf.Run(context.Background(), testSection(), nil)
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, stats.FinalState)
	assert.Equal(t, 5, stats.Attempts)
	// error marker + recovered draft + styled text, never overwritten
	assert.Equal(t, 3, stats.Contents)
	assert.True(t, piece.Approved)
}

func TestRunAbsorbsTwoFailedCallsWithoutExtraAttempts(t *testing.T) {
	// First two LLM calls fail: the research analysis and the first draft
	// pass both degrade inside their phases, so the attempt count matches
	// the clean run.
	calls := 0
	caller := llm.CallerFunc(func(_ context.Context, _ string) (string, error) {
		calls++
		if calls <= 2 {
			return "", errors.New("timeout")
		}
		return strings.Repeat("c", 900), nil
	})
	wf := newWorkflow(caller, fixedSearch(2))

	_, stats, err := wf.Run(context.Background(), testSection(), nil)
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, stats.FinalState)
	assert.Equal(t, 4, stats.Attempts)
	assert.LessOrEqual(t, stats.Attempts, DefaultMaxAttempts)
}

func TestRunEndToEndFixedResponse(t *testing.T) {
	wf := newWorkflow(fixedCaller(1000), fixedSearch(3))
	section := model.Section{ID: "section_2", Number: "2.1", Title: "Definitions", Level: 2}

	piece, _, err := wf.Run(context.Background(), section, []string{"Var A", "Var B"})
	require.NoError(t, err)
	assert.True(t, piece.Approved)
	assert.Equal(t, 0.85, piece.CoherenceScore)
	assert.Equal(t, 3, piece.SourcesCount)
	assert.Equal(t, []string{"Var A", "Var B"}, piece.Variables)
	assert.Equal(t, "Definitions", piece.SectionTitle)
}

func TestRunLogGrowsByOnePerContentPhase(t *testing.T) {
	wf := newWorkflow(fixedCaller(900), fixedSearch(1))

	_, stats, err := wf.Run(context.Background(), testSection(), nil)
	require.NoError(t, err)
	// one draft entry plus one style entry
	assert.Equal(t, 2, stats.Contents)
}

func TestTransitionSequence(t *testing.T) {
	assert.Equal(t, StateDrafting, Transition(StateInitializing, OutcomeOK, nil))
	assert.Equal(t, StateDrafting, Transition(StateResearching, OutcomeOK, nil))
	assert.Equal(t, StateStyling, Transition(StateDrafting, OutcomeOK, nil))
	assert.Equal(t, StateReviewing, Transition(StateStyling, OutcomeOK, nil))
}

func TestTransitionFailureOutcomes(t *testing.T) {
	assert.Equal(t, StateDrafting, Transition(StateDrafting, OutcomeFailedRetry, nil))
	assert.Equal(t, StateStyling, Transition(StateDrafting, OutcomeFailedAdvance, nil))
	assert.Equal(t, StateReviewing, Transition(StateStyling, OutcomeFailedAdvance, nil))
}

func TestTransitionReviewRouting(t *testing.T) {
	route := func(problems ...string) State {
		return Transition(StateReviewing, OutcomeOK, &model.ReviewResult{Problems: problems})
	}

	assert.Equal(t, StateCompleted,
		Transition(StateReviewing, OutcomeOK, &model.ReviewResult{Approved: true}))
	assert.Equal(t, StateDrafting, Transition(StateReviewing, OutcomeOK, nil))

	assert.Equal(t, StateDrafting, route(agents.ProblemCoherence))
	assert.Equal(t, StateStyling, route(agents.ProblemFormatting))
	assert.Equal(t, StateResearching, route(agents.ProblemVariables))

	// coherence outranks the others regardless of list order
	assert.Equal(t, StateDrafting, route(agents.ProblemFormatting, agents.ProblemCoherence))
	assert.Equal(t, StateDrafting, route(agents.ProblemVariables, agents.ProblemCoherence))

	// unknown or free-text problems fall back to the editor, and matching
	// is exact: a tag embedded in a sentence does not count
	assert.Equal(t, StateDrafting, route("algo inesperado"))
	assert.Equal(t, StateDrafting, route("problema de formato_apa en tablas"))
	assert.Equal(t, StateDrafting, route())
}

func TestTransitionRoutingIsDeterministic(t *testing.T) {
	problems := []string{agents.ProblemVariables, agents.ProblemFormatting}
	first := Transition(StateReviewing, OutcomeOK, &model.ReviewResult{Problems: problems})
	for i := 0; i < 20; i++ {
		assert.Equal(t, first,
			Transition(StateReviewing, OutcomeOK, &model.ReviewResult{Problems: problems}))
	}
	assert.Equal(t, StateStyling, first)
}

func TestTerminalStates(t *testing.T) {
	assert.True(t, StateCompleted.Terminal())
	assert.True(t, StateError.Terminal())
	assert.False(t, StateDrafting.Terminal())
	assert.False(t, StateReviewing.Terminal())
}

func TestOrchestratorContinuesPastFailedSections(t *testing.T) {
	wf := newWorkflow(fixedCaller(100), fixedSearch(1))
	good := newWorkflow(fixedCaller(900), fixedSearch(1))

	sections := []model.Section{
		{ID: "s1", Number: "2.1", Title: "Primera"},
		{ID: "s2", Number: "2.2", Title: "Segunda"},
	}

	// the short-content workflow exhausts on everything
	resBad := (&Orchestrator{Workflow: wf}).ProcessAll(context.Background(), sections, nil)
	assert.Empty(t, resBad.Processed)
	assert.Len(t, resBad.Errors, 2)
	assert.Equal(t, 0.0, resBad.Summary.SuccessRate)

	resGood := (&Orchestrator{Workflow: good}).ProcessAll(context.Background(), sections, nil)
	assert.Len(t, resGood.Processed, 2)
	assert.Empty(t, resGood.Errors)
	assert.Equal(t, 1.0, resGood.Summary.SuccessRate)
	assert.Equal(t, 2, resGood.Summary.TotalSections)
	assert.Equal(t, 4, resGood.Summary.TotalContents)
}
