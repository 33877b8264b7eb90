package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/dentalops/pricing-engine/internal/domain/entities"
	"github.com/dentalops/pricing-engine/internal/domain/repositories"
	apperrors "github.com/dentalops/pricing-engine/pkg/errors"
	"github.com/dentalops/pricing-engine/pkg/money"
)

// FixedCostInput is the payload for recording a monthly fixed cost.
type FixedCostInput struct {
	Category         string  `json:"category"`
	Concept          string  `json:"concept"`
	AmountMajorUnits float64 `json:"amount_pesos"`
}

// FixedCostService records and aggregates monthly fixed costs
type FixedCostService struct {
	repo repositories.FixedCostRepository
}

// NewFixedCostService creates a new fixed cost service
func NewFixedCostService(repo repositories.FixedCostRepository) *FixedCostService {
	return &FixedCostService{repo: repo}
}

// Create records a fixed-cost line
func (s *FixedCostService) Create(ctx context.Context, clinicID string, input FixedCostInput) (*entities.FixedCostLine, error) {
	concept := strings.TrimSpace(input.Concept)
	if concept == "" {
		return nil, apperrors.NewValidationError("concept is required")
	}
	if input.AmountMajorUnits < 0 {
		return nil, apperrors.NewValidationError("amount cannot be negative")
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = "general"
	}

	line := &entities.FixedCostLine{
		ID:          uuid.New().String(),
		ClinicID:    clinicID,
		Category:    category,
		Concept:     concept,
		AmountCents: money.ToCents(input.AmountMajorUnits),
	}
	if err := s.repo.Create(ctx, line); err != nil {
		return nil, err
	}
	return line, nil
}

// List returns all recorded lines plus the monthly total.
func (s *FixedCostService) List(ctx context.Context, clinicID string) ([]*entities.FixedCostLine, entities.FixedCostSummary, error) {
	lines, err := s.repo.List(ctx, clinicID)
	if err != nil {
		return nil, entities.FixedCostSummary{}, err
	}
	summary, err := s.repo.Summary(ctx, clinicID)
	if err != nil {
		return nil, entities.FixedCostSummary{}, err
	}
	return lines, summary, nil
}
