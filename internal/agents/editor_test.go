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

func seqCaller(outputs ...interface{}) llm.Caller {
	i := 0
	return llm.CallerFunc(func(_ context.Context, _ string) (string, error) {
		defer func() { i++ }()
		switch v := outputs[i].(type) {
		case string:
			return v, nil
		case error:
			return "", v
		}
		return "", nil
	})
}

func TestDraftConcatenatesThreePasses(t *testing.T) {
	e := &Editor{LLM: seqCaller("Contenido principal.", "Análisis comparativo.", "Conexión con variables.")}

	res := e.Draft(context.Background(), model.Section{Title: "Motivación"}, nil, []string{"v1"})
	assert.True(t, res.OK)
	assert.Equal(t, 3, res.Passes)
	assert.Equal(t,
		"Contenido principal.\n\nAnálisis comparativo.\n\nConexión con variables.",
		res.Content)
	assert.Equal(t, len(strings.Fields(res.Content)), res.WordCount)
}

func TestDraftSkipsFailedAndEmptyPasses(t *testing.T) {
	e := &Editor{LLM: seqCaller("Primera parte.", errors.New("timeout"), "   ")}

	res := e.Draft(context.Background(), model.Section{Title: "Motivación"}, nil, nil)
	assert.True(t, res.OK)
	assert.Equal(t, 1, res.Passes)
	assert.Equal(t, "Primera parte.", res.Content)
}

func TestDraftTotalFailureYieldsErrorMarker(t *testing.T) {
	boom := errors.New("model down")
	e := &Editor{LLM: seqCaller(boom, boom, boom)}

	res := e.Draft(context.Background(), model.Section{Title: "Motivación"}, nil, nil)
	assert.False(t, res.OK)
	assert.Equal(t, 0, res.Passes)
	assert.Equal(t, ErrorMarker, res.Content)
}
