package agents

import (
	"context"
	"log"

	"github.com/Divas-Gupta30/marco-agent/internal/llm"
	"github.com/Divas-Gupta30/marco-agent/internal/style"
)

// Stylist normalizes academic style and consolidates citations without
// adding facts. The guide is loaded once at construction; callers pass
// style.Default() when the exemplar source is unavailable.
type Stylist struct {
	LLM   llm.Caller
	Guide style.Guide
}

// StyleResult carries the (possibly unchanged) text and whether the
// improvement call actually succeeded.
type StyleResult struct {
	Content string
	OK      bool
}

// Improve returns the restyled text, or the original unchanged with OK=false
// when the call fails. Failure never aborts the workflow.
func (s *Stylist) Improve(ctx context.Context, content string) StyleResult {
	improved, err := s.LLM.Invoke(ctx, stylePrompt(content, s.Guide.Format()))
	if err != nil {
		log.Println("stylist: improvement call failed:", err)
		return StyleResult{Content: content, OK: false}
	}
	if improved == "" {
		return StyleResult{Content: content, OK: false}
	}
	return StyleResult{Content: improved, OK: true}
}
