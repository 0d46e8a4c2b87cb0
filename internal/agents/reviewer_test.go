package agents

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Divas-Gupta30/marco-agent/internal/llm"
	"github.com/Divas-Gupta30/marco-agent/internal/model"
)

func critiqueCaller(text string, err error) llm.Caller {
	return llm.CallerFunc(func(_ context.Context, _ string) (string, error) {
		return text, err
	})
}

func TestReviewApprovesAtThreshold(t *testing.T) {
	r := &Reviewer{LLM: critiqueCaller("APROBADO: SÍ", nil)}

	res := r.Review(context.Background(), strings.Repeat("x", ApproveMinChars), model.Section{}, nil)
	assert.True(t, res.Approved)
	assert.Equal(t, 0.95, res.Score)
	assert.Empty(t, res.Problems)
	assert.Equal(t, "APROBADO: SÍ", res.Critique)
}

func TestReviewRejectsJustBelowThreshold(t *testing.T) {
	r := &Reviewer{LLM: critiqueCaller("APROBADO: NO", nil)}

	res := r.Review(context.Background(), strings.Repeat("x", ApproveMinChars-1), model.Section{}, nil)
	assert.False(t, res.Approved)
	assert.Equal(t, 0.3, res.Score)
	assert.Contains(t, res.Problems, ProblemTooShort)
	assert.Equal(t, "editor_fondo", res.RerunPhase)
}

func TestReviewVerdictIgnoresCritiqueFailure(t *testing.T) {
	// The LLM critique is informational; its failure must not flip the
	// length-based verdict either way.
	r := &Reviewer{LLM: critiqueCaller("", errors.New("model down"))}

	long := r.Review(context.Background(), strings.Repeat("x", 1000), model.Section{}, nil)
	assert.True(t, long.Approved)
	assert.Empty(t, long.Critique)

	short := r.Review(context.Background(), "breve", model.Section{}, nil)
	assert.False(t, short.Approved)
}
