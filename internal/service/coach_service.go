package service

import (
	"context"
	"encoding/json"

	"github.com/lachdunc/health-coach/internal/domain"
	"github.com/lachdunc/health-coach/internal/llm"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CoachService produces the natural-language training recommendation
// from recent health context.
type CoachService interface {
	Recommend(ctx context.Context) (*domain.CoachRecommendation, error)
}

type coachService struct {
	contextService ContextService
	llmClient      llm.CoachLLM
	lookbackDays   int
}

// NewCoachService creates a new CoachService.
func NewCoachService(contextService ContextService, llmClient llm.CoachLLM, lookbackDays int) CoachService {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	return &coachService{
		contextService: contextService,
		llmClient:      llmClient,
		lookbackDays:   lookbackDays,
	}
}

func (s *coachService) Recommend(ctx context.Context) (*domain.CoachRecommendation, error) {
	tracer := otel.Tracer("health-coach-api/coach")
	ctx, span := tracer.Start(ctx, "CoachService.Recommend",
		trace.WithAttributes(attribute.Int("coach.lookback_days", s.lookbackDays)),
	)
	defer span.End()

	healthCtx, err := s.contextService.Build(ctx, s.lookbackDays)
	if err != nil {
		return nil, err
	}

	if inJSON, err := json.Marshal(healthCtx); err == nil {
		span.SetAttributes(attribute.String("langfuse.observation.input", string(inJSON)))
	}

	text, err := s.llmClient.Recommend(ctx, healthCtx)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("langfuse.observation.output", text))

	return &domain.CoachRecommendation{
		Recommendation: text,
		Context:        *healthCtx,
	}, nil
}
