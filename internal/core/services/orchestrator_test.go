package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexrag/internal/core/domain"
)

func TestOrchestrator_Run(t *testing.T) {
	s := newTestStack(t)
	s.index(t, "1", contractText)
	orch := NewOrchestrator(s.retriever, s.generator, 2, 0)

	state, err := orch.Run(context.Background(), "What damages were awarded?", "1")

	require.NoError(t, err)
	assert.Equal(t, domain.StageDone, state.Stage)
	assert.Equal(t, []string{"1"}, state.DocIDs)
	assert.NotEmpty(t, state.Answer)
	assert.LessOrEqual(t, len(state.Passages), 2)
	assert.Equal(t, 1, s.llm.callCount())
}

func TestOrchestrator_Run_NoPassagesFallsBack(t *testing.T) {
	s := newTestStack(t)
	orch := NewOrchestrator(s.retriever, s.generator, 0, 0)

	state, err := orch.Run(context.Background(), "q", "missing")

	require.NoError(t, err)
	assert.Equal(t, domain.StageDone, state.Stage)
	assert.Equal(t, FallbackAnswer, state.Answer)
	assert.Zero(t, s.llm.callCount())
}

func TestOrchestrator_RetrieveErrorIsTerminal(t *testing.T) {
	s := newTestStack(t)
	s.index(t, "1", contractText)
	s.embedder.embedErr = errors.New("down")
	orch := NewOrchestrator(s.retriever, s.generator, 0, 0)

	state, err := orch.Run(context.Background(), "q", "1")

	require.Error(t, err)
	assert.Equal(t, domain.StageRetrieve, state.Stage)
	assert.Empty(t, state.Answer)
	assert.Zero(t, s.llm.callCount())
}

func TestOrchestrator_GenerateErrorLeavesAnswerEmpty(t *testing.T) {
	s := newTestStack(t)
	s.index(t, "1", contractText)
	s.llm.chatErr = errors.New("overloaded")
	orch := NewOrchestrator(s.retriever, s.generator, 0, 0)

	state, err := orch.Run(context.Background(), "court damages", "1")

	assert.ErrorIs(t, err, domain.ErrGeneration)
	assert.Equal(t, domain.StageGenerate, state.Stage)
	assert.NotEmpty(t, state.Passages)
	assert.Empty(t, state.Answer)
	assert.Equal(t, 1, s.llm.callCount(), "no retries")
}

func TestOrchestrator_RunMany(t *testing.T) {
	s := newTestStack(t)
	s.index(t, "A", contractText)
	s.index(t, "B", hearingText)
	orch := NewOrchestrator(s.retriever, s.generator, 0, 1)

	state, err := orch.RunMany(context.Background(), "what did the court order", []string{"A", "B"})

	require.NoError(t, err)
	assert.Equal(t, domain.StageDone, state.Stage)
	require.Len(t, state.Passages, 2)
	assert.Equal(t, "A", state.Passages[0].DocID)
	assert.Equal(t, "B", state.Passages[1].DocID)
	assert.Contains(t, s.llm.lastMessages()[0].Content, "[Document A]")
}

func TestOrchestrator_UnknownStage(t *testing.T) {
	orch := NewOrchestrator(nil, nil, 0, 0)

	_, err := orch.run(context.Background(), &domain.QueryState{Stage: "bogus"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
