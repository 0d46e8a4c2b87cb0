// Package style builds the writing guide the stylist agent embeds in its
// prompt: paragraph openers, transition phrases and citation conventions
// mined from an exemplar document, with a hard-coded fallback.
package style

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Divas-Gupta30/marco-agent/internal/ingestion"
)

// Guide is the structured style reference consumed by the stylist prompt.
type Guide struct {
	IntroTemplates []string
	ParagraphRules []string
	Transitions    []string
	CitationRules  []string
	Tone           []string
}

var (
	citationPattern = regexp.MustCompile(`\([A-ZÁÉÍÓÚ][\p{L}.&,\s]+,?\s+\d{4}\)`)

	knownTransitions = []string{
		"Por otro lado", "Sin embargo", "En este sentido", "De manera similar",
		"En contraste", "Asimismo", "Por tanto", "En consecuencia",
		"Cabe señalar que", "Es importante destacar que", "En relación con",
		"Respecto a", "Con respecto a", "Finalmente", "De este modo",
	}
)

// Default returns the built-in guide used when no exemplar is available.
func Default() Guide {
	return Guide{
		IntroTemplates: []string{
			"El presente análisis aborda la problemática de {tema} desde una perspectiva {enfoque}.",
			"En el contexto de {area}, resulta fundamental examinar {aspecto_especifico}.",
			"La literatura especializada en {campo} ha evidenciado la relevancia de {concepto}.",
			"Diversos estudios han demostrado que {fenomeno} constituye un factor determinante en {contexto}.",
		},
		ParagraphRules: []string{
			"Iniciar con una oración temática clara",
			"Desarrollar la idea con evidencia empírica",
			"Incluir citas de autoridad académica",
			"Conectar con el párrafo anterior y siguiente",
			"Concluir con síntesis o transición",
		},
		Transitions: knownTransitions,
		CitationRules: []string{
			"Integrar citas como parte natural del discurso",
			"Variar las formas de introducir las citas",
			"Contextualizar cada cita en el argumento",
			"Usar citas para apoyar, no reemplazar el análisis",
		},
		Tone: []string{
			"Usar tercera persona impersonal",
			"Emplear vocabulario académico preciso",
			"Construir oraciones complejas pero claras",
			"Mantener objetividad y rigor científico",
		},
	}
}

// Load extracts a guide from an exemplar document (PDF or text). Any failure
// is the caller's cue to fall back to Default.
func Load(path string) (Guide, error) {
	text, err := ingestion.ExtractText(path)
	if err != nil {
		return Guide{}, fmt.Errorf("loading style exemplar: %w", err)
	}
	return FromExemplar(text), nil
}

// FromExemplar mines writing patterns out of exemplar text. Sections the
// exemplar cannot supply (rules, tone) come from the default guide.
func FromExemplar(text string) Guide {
	g := Default()

	if starters := extractStarters(text); len(starters) > 0 {
		g.IntroTemplates = starters
	}
	if transitions := extractTransitions(text); len(transitions) > 0 {
		g.Transitions = transitions
	}
	if citations := citationPattern.FindAllString(text, 5); len(citations) > 0 {
		g.CitationRules = append(g.CitationRules,
			"Ejemplos de citas del documento de referencia: "+strings.Join(citations, "; "))
	}
	return g
}

// extractStarters takes the first sentence of each substantial paragraph.
func extractStarters(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(p)
		if len(p) < 50 {
			continue
		}
		first, _, _ := strings.Cut(p, ".")
		first = strings.TrimSpace(first)
		if len(first) > 10 {
			if len(first) > 100 {
				first = first[:100]
			}
			out = append(out, first)
		}
		if len(out) == 10 {
			break
		}
	}
	return out
}

func extractTransitions(text string) []string {
	var out []string
	for _, t := range knownTransitions {
		if strings.Contains(text, t) {
			out = append(out, t)
		}
	}
	return out
}

// Format renders the guide as the prompt block the stylist sends to the LLM.
func (g Guide) Format() string {
	var sb strings.Builder
	sb.WriteString("**FORMAS DE INICIAR PÁRRAFOS:**\n")
	for _, t := range firstN(g.IntroTemplates, 3) {
		sb.WriteString("- " + t + "\n")
	}
	sb.WriteString("\n**FRASES DE TRANSICIÓN ACADÉMICAS:**\n")
	sb.WriteString("- " + strings.Join(firstN(g.Transitions, 8), ", ") + "\n")
	sb.WriteString("\n**ESTRUCTURA DE PÁRRAFOS:**\n")
	for _, t := range g.ParagraphRules {
		sb.WriteString("- " + t + "\n")
	}
	sb.WriteString("\n**INTEGRACIÓN DE CITAS:**\n")
	for _, t := range g.CitationRules {
		sb.WriteString("- " + t + "\n")
	}
	sb.WriteString("\n**TONO ACADÉMICO:**\n")
	for _, t := range g.Tone {
		sb.WriteString("- " + t + "\n")
	}
	return sb.String()
}

func firstN(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
