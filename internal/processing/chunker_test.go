package processing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkTextSplitsParagraphs(t *testing.T) {
	text := "Primer párrafo del documento.\n\nSegundo párrafo.\n\n\n\nTercero."

	chunks := ChunkText(text, 1000, 200)
	require.Len(t, chunks, 3)
	assert.Equal(t, "Primer párrafo del documento.", chunks[0])
	assert.Equal(t, "Tercero.", chunks[2])
}

func TestChunkTextSkipsBlankParagraphs(t *testing.T) {
	chunks := ChunkText("uno\n\n   \n\ndos", 1000, 200)
	assert.Equal(t, []string{"uno", "dos"}, chunks)
}

func TestChunkTextWindowsLongParagraphs(t *testing.T) {
	long := strings.Repeat("a", 2500)

	chunks := ChunkText(long, 1000, 200)
	// stride 800: windows at 0, 800 and a final short one at 1600
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 1000)
	assert.Len(t, chunks[1], 1000)
	assert.Len(t, chunks[2], 900)

	// consecutive windows overlap by 200 chars
	assert.Equal(t, long[800:1800], chunks[1])
}

func TestChunkTextDefaultsOnBadParameters(t *testing.T) {
	long := strings.Repeat("b", 1500)

	assert.NotEmpty(t, ChunkText(long, 0, 0))
	assert.NotEmpty(t, ChunkText(long, 100, 100)) // overlap >= max gets clamped
}
