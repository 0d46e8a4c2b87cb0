package agents

import (
	"context"
	"log"
	"strings"

	"github.com/Divas-Gupta30/marco-agent/internal/llm"
	"github.com/Divas-Gupta30/marco-agent/internal/model"
)

// ErrorMarker replaces the consolidated draft when every generation pass
// fails; the review phase rejects it on the next loop.
const ErrorMarker = "Error: No se pudo generar contenido en esta sección."

// Editor produces the substantive draft in three specialized passes.
type Editor struct {
	LLM llm.Caller
}

// DraftResult is one consolidated draft plus bookkeeping about the passes.
type DraftResult struct {
	Content   string
	Passes    int // passes that produced non-empty text
	WordCount int
	OK        bool // false when every pass failed or came back empty
}

// Draft runs the principal, comparative and variable-connection passes and
// concatenates every non-empty output with blank lines. The phase completes
// even on total failure, substituting ErrorMarker.
func (e *Editor) Draft(ctx context.Context, section model.Section, sources []model.SourceChunk, variables []string) DraftResult {
	modes := []string{modePrincipal, modeComparativo, modeVariables}

	var pieces []string
	for _, mode := range modes {
		out, err := e.LLM.Invoke(ctx, draftPrompt(mode, section, sources, variables))
		if err != nil {
			log.Printf("editor: %s pass failed: %v", mode, err)
			continue
		}
		out = strings.TrimSpace(out)
		if out == "" {
			continue
		}
		pieces = append(pieces, out)
	}

	consolidated := strings.Join(pieces, "\n\n")
	if strings.TrimSpace(consolidated) == "" {
		log.Println("editor: no pass produced content")
		return DraftResult{Content: ErrorMarker, Passes: 0, OK: false}
	}
	return DraftResult{
		Content:   consolidated,
		Passes:    len(pieces),
		WordCount: len(strings.Fields(consolidated)),
		OK:        true,
	}
}
