package model

import "time"

// Section is one entry of the theoretical-framework outline. Sections are
// parsed once at startup from the numbered index file and never deleted
// during a run; only Content is filled in as the workflow produces text.
type Section struct {
	ID       string   `json:"id"`
	Number   string   `json:"number"` // outline numbering, e.g. "2.1.3"
	Title    string   `json:"title"`
	Level    int      `json:"level"` // 1 for "2", 2 for "2.1", ...
	ParentID string   `json:"parent_id,omitempty"`
	Content  string   `json:"content,omitempty"`

	// Variable labels and citations associated with this section.
	Variables []string `json:"variables,omitempty"`
	Citations []string `json:"citations,omitempty"`
}

// SourceChunk is one ranked retrieval hit from the content store.
type SourceChunk struct {
	Content string  `json:"content"`
	Source  string  `json:"source"`
	Score   float64 `json:"score"`
}

// Content type tags for ContentPiece.
const (
	ContentParagraph = "paragraph"
	ContentTable     = "table"
	ContentFigure    = "figure"
)

// ContentPiece is a finished unit of generated content. Pieces are immutable
// after creation; a new piece supersedes an old one, it is never edited.
type ContentPiece struct {
	ID           string   `json:"id"`
	SectionID    string   `json:"section_id"`
	SectionTitle string   `json:"section_title"`
	ContentType  string   `json:"content_type"`
	Content      string   `json:"content"`
	Sources      []string `json:"sources"`
	Variables    []string `json:"variables"`
	QualityScore float64  `json:"quality_score"`
	CreatedBy    string   `json:"created_by"`

	Approved         bool    `json:"approved"`
	WordCount        int     `json:"word_count"`
	SourcesCount     int     `json:"sources_count"`
	CoherenceScore   float64 `json:"coherencia_score"`
	OriginalityScore float64 `json:"originalidad_score"`
}

// ReviewResult is the supervisor's verdict on the active draft. The Critique
// field carries the raw LLM evaluation; it is informational only, the
// Approved flag comes from the length heuristic.
type ReviewResult struct {
	Approved     bool     `json:"aprobado"`
	Score        float64  `json:"calificacion_general"`
	Problems     []string `json:"problemas"`
	Suggestions  []string `json:"sugerencias"`
	Strengths    []string `json:"areas_fuertes"`
	Improvements []string `json:"areas_mejora"`
	RerunPhase   string   `json:"agente_sugerido_revision,omitempty"`
	Critique     string   `json:"critique,omitempty"`
}

// RunRecord is one row of persisted workflow run history.
type RunRecord struct {
	ID        int       `json:"id"`
	Section   string    `json:"section"`
	State     string    `json:"state"`
	Attempts  int       `json:"attempts"`
	Chars     int       `json:"chars"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"created_at"`
}
