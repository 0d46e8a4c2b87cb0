package workflow

import (
	"context"
	"log"

	"github.com/Divas-Gupta30/marco-agent/internal/model"
)

// SectionResult is one successfully processed section.
type SectionResult struct {
	Section model.Section      `json:"section"`
	Piece   model.ContentPiece `json:"content"`
	Stats   RunStats           `json:"stats"`
}

// SectionError records a section whose workflow exhausted.
type SectionError struct {
	Section string `json:"section"`
	Index   int    `json:"index"`
	Err     string `json:"error"`
}

// Summary aggregates a whole orchestrator pass.
type Summary struct {
	TotalSections int     `json:"total_secciones"`
	Succeeded     int     `json:"secciones_exitosas"`
	Failed        int     `json:"secciones_con_error"`
	SuccessRate   float64 `json:"tasa_exito"`
	TotalContents int     `json:"total_contenidos_generados"`
}

// Results is everything a multi-section run produced.
type Results struct {
	Processed []SectionResult `json:"secciones_procesadas"`
	Errors    []SectionError  `json:"errores"`
	Summary   Summary         `json:"estadisticas_generales"`
}

// Orchestrator runs the workflow over an ordered section list. Sections are
// independent and strictly sequential; one exhausted section does not stop
// the rest.
type Orchestrator struct {
	Workflow *Workflow
}

func (o *Orchestrator) ProcessAll(ctx context.Context, sections []model.Section, variables []string) Results {
	log.Printf("orchestrator: processing %d sections", len(sections))

	var res Results
	for i, section := range sections {
		log.Printf("orchestrator: section %d/%d: %s", i+1, len(sections), section.Title)

		piece, stats, err := o.Workflow.Run(ctx, section, variables)
		if err != nil {
			log.Printf("orchestrator: section %q failed: %v", section.Title, err)
			res.Errors = append(res.Errors, SectionError{
				Section: section.Title,
				Index:   i + 1,
				Err:     err.Error(),
			})
			continue
		}
		res.Processed = append(res.Processed, SectionResult{
			Section: section,
			Piece:   piece,
			Stats:   stats,
		})
	}

	res.Summary = summarize(res)
	return res
}

func summarize(res Results) Summary {
	s := Summary{
		Succeeded:     len(res.Processed),
		Failed:        len(res.Errors),
		TotalSections: len(res.Processed) + len(res.Errors),
	}
	if s.TotalSections > 0 {
		s.SuccessRate = float64(s.Succeeded) / float64(s.TotalSections)
	}
	for _, p := range res.Processed {
		s.TotalContents += p.Stats.Contents
	}
	return s
}
