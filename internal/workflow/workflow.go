package workflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/Divas-Gupta30/marco-agent/internal/agents"
	"github.com/Divas-Gupta30/marco-agent/internal/model"
)

// ErrExhausted is returned when the attempt ceiling is hit without approval
// and the active draft is too short for the fallback acceptance rule.
var ErrExhausted = errors.New("workflow exhausted")

const (
	// partialMinChars is the minimal-length threshold: drafts above it
	// survive phase failures and qualify for fallback acceptance.
	partialMinChars = 500

	// DefaultMaxAttempts bounds the loop when the caller sets nothing.
	DefaultMaxAttempts = 8

	maxFinalSources = 5

	// Static finalize scores; they are illustrative defaults, not computed.
	finalCoherence   = 0.85
	finalOriginality = 0.80
)

// Context is the per-run state threaded through the phases. Phases receive
// it by value and return the updated copy; nothing mutates it through an
// alias. Log is append-only: the most recent entry is the active draft.
type Context struct {
	Section     model.Section
	Variables   []string
	Sources     []model.SourceChunk
	Log         []string
	State       State
	Attempts    int
	MaxAttempts int
}

// ActiveDraft is the latest content log entry, or "" before drafting.
func (c Context) ActiveDraft() string {
	if len(c.Log) == 0 {
		return ""
	}
	return c.Log[len(c.Log)-1]
}

// RunStats summarizes one finished (or failed) run.
type RunStats struct {
	Section    string `json:"seccion_procesada"`
	FinalState State  `json:"estado_final"`
	Attempts   int    `json:"intentos_realizados"`
	Contents   int    `json:"contenidos_generados"`
	Sources    int    `json:"fuentes_utilizadas"`
	Variables  int    `json:"variables_cubiertas"`
}

// Workflow wires the four agents into the state machine.
type Workflow struct {
	Researcher *agents.Researcher
	Editor     *agents.Editor
	Stylist    *agents.Stylist
	Reviewer   *agents.Reviewer

	MaxAttempts int
}

// Run processes one section to a final ContentPiece. It fails only with
// ErrExhausted; every phase-level error is degraded or advanced past
// according to the heuristics below.
func (w *Workflow) Run(ctx context.Context, section model.Section, variables []string) (model.ContentPiece, RunStats, error) {
	wc := Context{
		Section:     section,
		Variables:   variables,
		State:       StateInitializing,
		MaxAttempts: w.MaxAttempts,
	}
	if wc.MaxAttempts <= 0 {
		wc.MaxAttempts = DefaultMaxAttempts
	}

	for !wc.State.Terminal() && wc.Attempts < wc.MaxAttempts {
		log.Printf("workflow: section %q state=%s attempt %d/%d",
			section.Title, wc.State, wc.Attempts+1, wc.MaxAttempts)

		var (
			outcome Outcome
			review  *model.ReviewResult
		)
		switch wc.State {
		case StateInitializing, StateResearching:
			wc, outcome = w.researchPhase(ctx, wc)
		case StateDrafting:
			wc, outcome = w.draftPhase(ctx, wc)
		case StateStyling:
			wc, outcome = w.stylePhase(ctx, wc)
		case StateReviewing:
			wc, review, outcome = w.reviewPhase(ctx, wc)
		default:
			wc.State = StateError
			continue
		}

		wc.State = Transition(wc.State, outcome, review)
		wc.Attempts++
	}

	stats := RunStats{
		Section:    section.Title,
		FinalState: wc.State,
		Attempts:   wc.Attempts,
		Contents:   len(wc.Log),
		Sources:    len(wc.Sources),
		Variables:  len(wc.Variables),
	}

	if wc.State == StateCompleted {
		return w.finalize(wc), stats, nil
	}
	if len(wc.ActiveDraft()) > partialMinChars {
		// Substantial content without formal approval: accept rather
		// than throw the whole run away.
		log.Printf("workflow: section %q incomplete but substantial, forcing completion", section.Title)
		wc.State = StateCompleted
		stats.FinalState = StateCompleted
		return w.finalize(wc), stats, nil
	}
	return model.ContentPiece{}, stats, fmt.Errorf(
		"%w: %d attempts, final state %s", ErrExhausted, wc.Attempts, wc.State)
}

// researchPhase fills the available sources. The researcher degrades
// internally, so this phase always advances.
func (w *Workflow) researchPhase(ctx context.Context, wc Context) (Context, Outcome) {
	res := w.Researcher.Analyze(ctx, wc.Section, wc.Variables)
	wc.Sources = res.Sources
	log.Printf("workflow: research done, %d sources", len(wc.Sources))
	return wc, OutcomeOK
}

// draftPhase appends one consolidated draft entry. A fully failed draft
// leaves the error marker in the log and applies the failure heuristic.
func (w *Workflow) draftPhase(ctx context.Context, wc Context) (Context, Outcome) {
	res := w.Editor.Draft(ctx, wc.Section, wc.Sources, wc.Variables)
	wc.Log = append(wc.Log, res.Content)
	if !res.OK {
		return wc, w.failureOutcome(wc)
	}
	log.Printf("workflow: draft done, %d passes, %d words", res.Passes, res.WordCount)
	return wc, OutcomeOK
}

// stylePhase appends the styled (or, on failure, the original) text as a new
// log entry; history is never overwritten.
func (w *Workflow) stylePhase(ctx context.Context, wc Context) (Context, Outcome) {
	if len(wc.Log) == 0 {
		log.Println("workflow: nothing to style, rerouting to draft")
		wc.State = StateDrafting
		return wc, OutcomeFailedRetry
	}
	res := w.Stylist.Improve(ctx, wc.ActiveDraft())
	wc.Log = append(wc.Log, res.Content)
	if !res.OK {
		return wc, w.failureOutcome(wc)
	}
	return wc, OutcomeOK
}

func (w *Workflow) reviewPhase(ctx context.Context, wc Context) (Context, *model.ReviewResult, Outcome) {
	review := w.Reviewer.Review(ctx, wc.ActiveDraft(), wc.Section, wc.Variables)
	if review.Approved {
		log.Println("workflow: content approved by supervisor")
	} else {
		log.Printf("workflow: content rejected: %v", review.Problems)
	}
	return wc, &review, OutcomeOK
}

// failureOutcome applies the phase-failure heuristic: with substantial
// partial content the machine moves on; otherwise it retries the state.
func (w *Workflow) failureOutcome(wc Context) Outcome {
	if len(wc.ActiveDraft()) > partialMinChars {
		log.Println("workflow: phase failed but partial content found, continuing")
		return OutcomeFailedAdvance
	}
	log.Println("workflow: phase failed, retrying current state")
	return OutcomeFailedRetry
}

// finalize converts the active draft into the approved ContentPiece.
func (w *Workflow) finalize(wc Context) model.ContentPiece {
	content := wc.ActiveDraft()

	sources := make([]string, 0, maxFinalSources)
	for _, s := range wc.Sources {
		if len(sources) == maxFinalSources {
			break
		}
		sources = append(sources, s.Source)
	}

	return model.ContentPiece{
		ID:           uuid.NewString(),
		SectionID:    wc.Section.ID,
		SectionTitle: wc.Section.Title,
		ContentType:  model.ContentParagraph,
		Content:      content,
		Sources:      sources,
		Variables:    wc.Variables,
		QualityScore: 0.95,
		CreatedBy:    "workflow_completo",

		Approved:         true,
		WordCount:        len(strings.Fields(content)),
		SourcesCount:     len(sources),
		CoherenceScore:   finalCoherence,
		OriginalityScore: finalOriginality,
	}
}
