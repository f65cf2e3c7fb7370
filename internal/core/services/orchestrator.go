package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/lexrag/internal/core/domain"
	"github.com/custodia-labs/lexrag/internal/logger"
)

// Orchestrator drives a question through retrieval and generation.
type Orchestrator struct {
	retriever *Retriever
	generator *AnswerGenerator
	k         int
	kPerDoc   int
}

// NewOrchestrator creates an orchestrator. Non-positive k values use the
// retriever defaults.
func NewOrchestrator(retriever *Retriever, generator *AnswerGenerator, k, kPerDoc int) *Orchestrator {
	return &Orchestrator{
		retriever: retriever,
		generator: generator,
		k:         k,
		kPerDoc:   kPerDoc,
	}
}

// Run answers question from a single document.
func (o *Orchestrator) Run(ctx context.Context, question, docID string) (*domain.QueryState, error) {
	return o.run(ctx, &domain.QueryState{
		Question: question,
		DocIDs:   []string{docID},
		Stage:    domain.StageRetrieve,
	})
}

// RunMany answers question from several documents.
func (o *Orchestrator) RunMany(ctx context.Context, question string, docIDs []string) (*domain.QueryState, error) {
	return o.run(ctx, &domain.QueryState{
		Question: question,
		DocIDs:   docIDs,
		Stage:    domain.StageRetrieve,
	})
}

// run steps the state until done. The first error stops the run and the
// state keeps whatever was set before it.
func (o *Orchestrator) run(ctx context.Context, state *domain.QueryState) (*domain.QueryState, error) {
	for state.Stage != domain.StageDone {
		if err := o.step(ctx, state); err != nil {
			return state, err
		}
	}
	return state, nil
}

func (o *Orchestrator) step(ctx context.Context, state *domain.QueryState) error {
	switch state.Stage {
	case domain.StageRetrieve:
		var (
			passages []domain.ScoredPassage
			err      error
		)
		if len(state.DocIDs) == 1 {
			passages, err = o.retriever.Retrieve(ctx, state.Question, state.DocIDs[0], o.k)
		} else {
			passages, err = o.retriever.RetrieveMany(ctx, state.Question, state.DocIDs, o.kPerDoc)
		}
		if err != nil {
			return err
		}
		state.Passages = passages
		state.Stage = domain.StageGenerate
		logger.Debug("Stage %s -> %s with %d passages", domain.StageRetrieve, domain.StageGenerate, len(passages))

	case domain.StageGenerate:
		answer, err := o.generator.Generate(ctx, state.Question, state.ContextPassages())
		if err != nil {
			return err
		}
		state.Answer = answer
		state.Stage = domain.StageDone
		logger.Debug("Stage %s -> %s", domain.StageGenerate, domain.StageDone)

	default:
		return fmt.Errorf("%w: unknown query stage %q", domain.ErrInvalidInput, state.Stage)
	}
	return nil
}
