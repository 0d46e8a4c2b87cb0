// Package workflow sequences the four phase agents over one section,
// bounding retries and deciding terminal success or failure.
package workflow

import (
	"github.com/Divas-Gupta30/marco-agent/internal/agents"
	"github.com/Divas-Gupta30/marco-agent/internal/model"
)

// State of the machine. INITIALIZING and RESEARCHING both run the research
// phase; the latter only exists as a rerouting target after review.
type State string

const (
	StateInitializing State = "inicializando"
	StateResearching  State = "investigando"
	StateDrafting     State = "editando_fondo"
	StateStyling      State = "redactando_forma"
	StateReviewing    State = "supervisando"
	StateCompleted    State = "completado"
	StateError        State = "error"
)

// Terminal reports whether the machine stops at s.
func (s State) Terminal() bool { return s == StateCompleted || s == StateError }

// Outcome of one phase execution. Phase failure with a substantial draft
// already in hand advances heuristically instead of retrying.
type Outcome int

const (
	// OutcomeOK: the phase completed; advance along the normal sequence
	// (or route on the review verdict).
	OutcomeOK Outcome = iota
	// OutcomeFailedRetry: the phase failed with no substantial content;
	// stay in the same state and burn an attempt.
	OutcomeFailedRetry
	// OutcomeFailedAdvance: the phase failed but the active draft is long
	// enough to keep going; advance to the next state in sequence.
	OutcomeFailedAdvance
)

// Transition is the single place state changes are decided. The review
// verdict is only consulted when leaving REVIEWING.
func Transition(s State, o Outcome, review *model.ReviewResult) State {
	switch o {
	case OutcomeFailedRetry:
		return s
	case OutcomeFailedAdvance:
		return nextInSequence(s)
	}

	switch s {
	case StateInitializing, StateResearching:
		return StateDrafting
	case StateDrafting:
		return StateStyling
	case StateStyling:
		return StateReviewing
	case StateReviewing:
		if review == nil {
			return StateDrafting
		}
		if review.Approved {
			return StateCompleted
		}
		return routeProblems(review.Problems)
	}
	return StateError
}

func nextInSequence(s State) State {
	switch s {
	case StateInitializing, StateResearching:
		return StateDrafting
	case StateDrafting:
		return StateStyling
	case StateStyling:
		return StateReviewing
	default:
		return s
	}
}

// routeProblems maps supervisor problem tags to the agent that should rerun.
// Priority follows the tag order below; anything unrecognized goes back to
// the editor.
func routeProblems(problems []string) State {
	routes := []struct {
		tag  string
		next State
	}{
		{agents.ProblemCoherence, StateDrafting},
		{agents.ProblemFormatting, StateStyling},
		{agents.ProblemVariables, StateResearching},
	}
	for _, r := range routes {
		for _, p := range problems {
			if p == r.tag {
				return r.next
			}
		}
	}
	return StateDrafting
}
