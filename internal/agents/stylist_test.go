package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Divas-Gupta30/marco-agent/internal/style"
)

func TestImproveReturnsRestyledText(t *testing.T) {
	s := &Stylist{
		LLM:   critiqueCaller("Texto mejorado con estilo académico.", nil),
		Guide: style.Default(),
	}
	res := s.Improve(context.Background(), "texto original")
	assert.True(t, res.OK)
	assert.Equal(t, "Texto mejorado con estilo académico.", res.Content)
}

func TestImproveKeepsOriginalOnFailure(t *testing.T) {
	s := &Stylist{LLM: critiqueCaller("", errors.New("timeout")), Guide: style.Default()}

	res := s.Improve(context.Background(), "texto original")
	assert.False(t, res.OK)
	assert.Equal(t, "texto original", res.Content)
}

func TestImproveKeepsOriginalOnEmptyResponse(t *testing.T) {
	s := &Stylist{LLM: critiqueCaller("", nil), Guide: style.Default()}

	res := s.Improve(context.Background(), "texto original")
	assert.False(t, res.OK)
	assert.Equal(t, "texto original", res.Content)
}
