package agents

import (
	"fmt"
	"strings"

	"github.com/Divas-Gupta30/marco-agent/internal/model"
)

// Prompt builders for each specialized agent. The prompts are Spanish
// academic instructions because the generated document is a Spanish marco
// teórico; the decision logic around them stays language-agnostic.

func researchPrompt(section model.Section, variables []string) string {
	return fmt.Sprintf(`Como investigador académico especializado, realiza un análisis exhaustivo para desarrollar la siguiente sección del marco teórico:

**Sección:** %s
**Nivel:** %d
**Variables relacionadas:** %s

**ANÁLISIS REQUERIDO:**
1. Conceptos fundamentales con definiciones académicas precisas
2. Teorías principales, clásicas y contemporáneas
3. Variables específicas que requieren fundamentación
4. Metodologías de investigación relevantes
5. Gaps de investigación identificados

Sugiere términos de búsqueda específicos e identifica autores y estudios clave.

GENERA UN ANÁLISIS ACADÉMICO EXHAUSTIVO Y DETALLADO:`,
		section.Title, section.Level, joinOr(variables, "No especificadas"))
}

// Draft pass modes. Each pass gets its own specialization so the
// concatenated result covers theory, critique and variable linkage.
const (
	modePrincipal   = "principal"
	modeComparativo = "comparativo"
	modeVariables   = "variables"
)

func draftPrompt(mode string, section model.Section, sources []model.SourceChunk, variables []string) string {
	switch mode {
	case modeComparativo:
		return fmt.Sprintf(`Como editor académico, desarrolla un ANÁLISIS COMPARATIVO extenso para:

**SECCIÓN:** %s
**VARIABLES:** %s

**INSTRUCCIONES (800-1000 palabras):**
1. Comparación entre diferentes enfoques teóricos
2. Análisis de ventajas y limitaciones
3. Contrastes metodológicos y debates contemporáneos
4. Una tabla comparativa de enfoques en formato Markdown
5. Síntesis integradora

GENERA EL ANÁLISIS COMPARATIVO:`,
			section.Title, strings.Join(variables, ", "))
	case modeVariables:
		return fmt.Sprintf(`Como editor académico, desarrolla las CONEXIONES CON VARIABLES INDEPENDIENTES para:

**SECCIÓN:** %s
**VARIABLES INDEPENDIENTES:** %s

**INSTRUCCIONES (600-800 palabras):**
1. Relación directa del tema con cada variable independiente
2. Interacciones, mediadores y moderadores identificados en la literatura
3. Implicaciones teóricas y prácticas de esas relaciones

GENERA LAS CONEXIONES CON VARIABLES:`,
			section.Title, strings.Join(variables, ", "))
	default: // principal
		return fmt.Sprintf(`Como editor académico especializado, desarrolla contenido PRINCIPAL extenso y detallado para:

**SECCIÓN:** %s
**VARIABLES INDEPENDIENTES:** %s

**FUENTES DISPONIBLES:**
%s

**INSTRUCCIONES (1200-1500 palabras):**
1. Introducción conceptual completa con definiciones múltiples
2. Desarrollo histórico del concepto y teorías fundamentales
3. Estado actual de la investigación y debates
4. Basar las citas ÚNICAMENTE en las fuentes disponibles, sin inventar referencias
5. Al menos una tabla clasificatoria en formato Markdown

GENERA CONTENIDO ACADÉMICO PRINCIPAL EXTENSO Y DETALLADO:`,
			section.Title, strings.Join(variables, ", "), sourcesBlock(sources, 8, 400))
	}
}

func stylePrompt(content, styleExamples string) string {
	return fmt.Sprintf(`Como redactor académico especializado, mejora el estilo del siguiente texto basándote en los EJEMPLOS DE ESTILO ACADÉMICO proporcionados. Produce ÚNICAMENTE el texto académico mejorado.

**EJEMPLOS DE ESTILO ACADÉMICO DE REFERENCIA:**
%s

**TEXTO A MEJORAR:**
%s

**INSTRUCCIONES:**
- Emula el estilo académico profesional de los ejemplos
- Elimina duplicaciones y consolida referencias en una sola sección
- Usa vocabulario académico formal y transiciones apropiadas
- Mantén todo el contenido sustantivo original
- NO inventes información nueva

RESPONDE ÚNICAMENTE CON EL TEXTO ACADÉMICO MEJORADO:`, styleExamples, content)
}

func reviewPrompt(content string, section model.Section, variables []string) string {
	excerpt := content
	if len(excerpt) > 2000 {
		excerpt = excerpt[:2000] + "..."
	}
	return fmt.Sprintf(`Como supervisor académico, revisa el siguiente contenido para un marco teórico:

**SECCIÓN:** %s
**VARIABLES INDEPENDIENTES:** %s

**CONTENIDO A REVISAR:**
%s

**CRITERIOS DE EVALUACIÓN:**
1. Rigor académico y profundidad conceptual
2. Coherencia narrativa y estructura lógica
3. Relevancia para variables independientes
4. Calidad de citas y referencias
5. Claridad y estilo académico

**RESPONDE EN ESTE FORMATO:**
APROBADO: [SÍ/NO]
CALIFICACIÓN: [0.0-1.0]
PROBLEMAS: [lista separada por comas]
SUGERENCIAS: [lista separada por comas]`,
		section.Title, strings.Join(variables, ", "), excerpt)
}

// sourcesBlock renders up to maxSources truncated chunks for a prompt.
func sourcesBlock(sources []model.SourceChunk, maxSources, maxChars int) string {
	if len(sources) == 0 {
		return "No hay fuentes específicas disponibles. Basar el contenido en conocimiento del dominio SIN inventar citas."
	}
	var sb strings.Builder
	for i, s := range sources {
		if i == maxSources {
			break
		}
		content := s.Content
		if len(content) > maxChars {
			content = content[:maxChars] + "..."
		}
		fmt.Fprintf(&sb, "Fuente %d (%s): %s\n", i+1, s.Source, content)
	}
	return sb.String()
}

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}
