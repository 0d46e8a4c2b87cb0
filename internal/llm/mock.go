package llm

import (
	"context"
	"strings"
)

// Mock is a placeholder Caller for local runs without a model server. It
// returns canned academic filler long enough to pass the review threshold.
type Mock struct{}

func (Mock) Invoke(_ context.Context, prompt string) (string, error) {
	var sb strings.Builder
	sb.WriteString("La literatura especializada ha evidenciado la relevancia del tema abordado. ")
	sb.WriteString("Diversos autores coinciden en que el fenómeno estudiado presenta múltiples dimensiones ")
	sb.WriteString("que requieren un análisis integrador. En este sentido, los hallazgos disponibles ")
	sb.WriteString("sugieren relaciones consistentes entre las variables consideradas.\n\n")
	for sb.Len() < 900 {
		sb.WriteString("Asimismo, cabe señalar que la evidencia empírica reciente respalda la pertinencia ")
		sb.WriteString("de los marcos conceptuales adoptados, lo cual fortalece la coherencia del argumento. ")
	}
	return sb.String(), nil
}
