package service

import (
	"context"
	"fmt"
	"time"

	"stock-insight-engine/internal/engine/dto"
	"stock-insight-engine/internal/engine/repository"
	"stock-insight-engine/internal/entity"
	"stock-insight-engine/pkg/metrics"
)

// ModelProvider is one trained model family the orchestrator can invoke.
// Implementations declare their own horizon capability; the orchestrator
// never branches on family beyond selecting a provider and applying the
// declared clamp.
type ModelProvider interface {
	Family() entity.ModelType
	MaxHorizon() int
	// ClampHorizon maps a requested step count into what the family can
	// actually serve. Callers must not assume the result equals the request.
	ClampHorizon(requested int) int
	Infer(ctx context.Context, symbol string, sentimentType entity.SentimentType, trainingSize, horizon int) (*dto.InferenceResponse, error)
}

// inferenceModelProvider serves one family over the shared inference
// backend.
type inferenceModelProvider struct {
	family       entity.ModelType
	maxHorizon   int
	fixedHorizon bool
	bounded      bool
	repo         repository.InferenceRepository
}

func (p *inferenceModelProvider) Family() entity.ModelType {
	return p.family
}

func (p *inferenceModelProvider) MaxHorizon() int {
	return p.maxHorizon
}

func (p *inferenceModelProvider) ClampHorizon(requested int) int {
	if p.fixedHorizon {
		return p.maxHorizon
	}
	if !p.bounded {
		return requested
	}
	if requested < 1 {
		return 1
	}
	if requested > p.maxHorizon {
		return p.maxHorizon
	}
	return requested
}

func (p *inferenceModelProvider) Infer(ctx context.Context, symbol string, sentimentType entity.SentimentType, trainingSize, horizon int) (*dto.InferenceResponse, error) {
	start := time.Now()
	out, err := p.repo.Predict(ctx, dto.InferencePayload{
		Symbol:           symbol,
		ModelType:        string(p.family),
		SentimentType:    string(sentimentType),
		NumCSVs:          trainingSize,
		PredictionLength: horizon,
	})
	metrics.InferenceLatency.WithLabelValues(string(p.family)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.InferenceErrors.WithLabelValues(string(p.family)).Inc()
		return nil, err
	}

	// The horizon contract: exactly `horizon` steps come back. A longer
	// sequence is trimmed; a shorter one is a provider fault.
	if len(out.Predictions) < horizon {
		metrics.InferenceErrors.WithLabelValues(string(p.family)).Inc()
		return nil, fmt.Errorf("%w: %s returned %d of %d requested steps",
			repository.ErrInference, p.family, len(out.Predictions), horizon)
	}
	out.Predictions = out.Predictions[:horizon]
	return out, nil
}

// ProviderRegistry holds one provider per model family.
type ProviderRegistry struct {
	providers map[entity.ModelType]ModelProvider
}

// NewProviderRegistry builds the registry over the shared inference
// backend. TIMESNET only ships 3-step saved models; TRANSFORMER supports
// 1..3 steps; the recurrent and convolutional families take the requested
// step count as-is (request validation caps it at a month of daily steps).
func NewProviderRegistry(repo repository.InferenceRepository) *ProviderRegistry {
	registry := &ProviderRegistry{providers: make(map[entity.ModelType]ModelProvider)}
	for _, family := range []entity.ModelType{entity.ModelLSTM, entity.ModelGRU, entity.ModelCNN, entity.ModelRNN} {
		registry.register(&inferenceModelProvider{family: family, maxHorizon: 30, repo: repo})
	}
	registry.register(&inferenceModelProvider{family: entity.ModelTimesNet, maxHorizon: 3, fixedHorizon: true, repo: repo})
	registry.register(&inferenceModelProvider{family: entity.ModelTransformer, maxHorizon: 3, bounded: true, repo: repo})
	return registry
}

func (r *ProviderRegistry) register(p ModelProvider) {
	r.providers[p.Family()] = p
}

// Get returns the provider for a family.
func (r *ProviderRegistry) Get(family entity.ModelType) (ModelProvider, bool) {
	p, ok := r.providers[family]
	return p, ok
}
