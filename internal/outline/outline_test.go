package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOutline = `
2 Marco Teórico
2.1 Definiciones conceptuales
2.1.1 Motivación intrínseca
2.1.2 Motivación extrínseca
2.2 Teorías principales
3 Metodología

Notas sueltas sin numeración
`

func TestParseTextLevelsAndParents(t *testing.T) {
	sections, err := ParseText(sampleOutline)
	require.NoError(t, err)
	require.Len(t, sections, 6)

	assert.Equal(t, "2", sections[0].Number)
	assert.Equal(t, 1, sections[0].Level)
	assert.Empty(t, sections[0].ParentID)

	assert.Equal(t, "2.1", sections[1].Number)
	assert.Equal(t, "Definiciones conceptuales", sections[1].Title)
	assert.Equal(t, 2, sections[1].Level)
	assert.Equal(t, sections[0].ID, sections[1].ParentID)

	assert.Equal(t, "2.1.1", sections[2].Number)
	assert.Equal(t, 3, sections[2].Level)
	assert.Equal(t, sections[1].ID, sections[2].ParentID)

	// 2.2 attaches to 2, not to 2.1.2
	assert.Equal(t, sections[0].ID, sections[4].ParentID)
}

func TestParseTextRejectsUnnumberedInput(t *testing.T) {
	_, err := ParseText("solo texto\nsin estructura")
	assert.Error(t, err)
}

func TestRangeIncludesDescendants(t *testing.T) {
	sections, err := ParseText(sampleOutline)
	require.NoError(t, err)

	scoped, err := Range(sections, "2.1")
	require.NoError(t, err)
	require.Len(t, scoped, 3)
	assert.Equal(t, "2.1", scoped[0].Number)
	assert.Equal(t, "2.1.1", scoped[1].Number)
	assert.Equal(t, "2.1.2", scoped[2].Number)

	leaf, err := Range(sections, "3")
	require.NoError(t, err)
	assert.Len(t, leaf, 1)

	_, err = Range(sections, "9.9")
	assert.Error(t, err)
}

func TestByNumber(t *testing.T) {
	sections, err := ParseText(sampleOutline)
	require.NoError(t, err)

	sec, ok := ByNumber(sections, "2.2")
	assert.True(t, ok)
	assert.Equal(t, "Teorías principales", sec.Title)

	_, ok = ByNumber(sections, "5")
	assert.False(t, ok)
}
