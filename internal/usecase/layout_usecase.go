package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/societyledger/internal/domain"
)

// LayoutUseCase generates wing layouts and persists the resulting flats.
type LayoutUseCase struct {
	flatRepo FlatRepository
	formats  []domain.LayoutFormat
	metrics  Metrics
	logger   zerolog.Logger
}

// NewLayoutUseCase creates a new LayoutUseCase.
func NewLayoutUseCase(flatRepo FlatRepository, metrics Metrics, logger zerolog.Logger) *LayoutUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &LayoutUseCase{
		flatRepo: flatRepo,
		formats:  domain.LayoutFormats,
		metrics:  metrics,
		logger:   logger,
	}
}

// LayoutInput carries the raw user-supplied layout parameters.
type LayoutInput struct {
	TotalFloors   string
	UnitsPerFloor string
	Format        string
}

// Formats returns the supported numbering schemes.
func (uc *LayoutUseCase) Formats() []domain.LayoutFormat {
	out := make([]domain.LayoutFormat, len(uc.formats))
	copy(out, uc.formats)
	return out
}

// Preview generates a layout without storing anything.
func (uc *LayoutUseCase) Preview(input LayoutInput) (*domain.Layout, error) {
	return domain.GenerateLayout(input.TotalFloors, input.UnitsPerFloor, input.Format, uc.formats)
}

// Apply generates a layout and creates a default record for each flat of the wing.
func (uc *LayoutUseCase) Apply(ctx context.Context, society, wing string, input LayoutInput) (*domain.Layout, error) {
	wing = strings.TrimSpace(wing)
	if strings.TrimSpace(society) == "" || wing == "" {
		return nil, domain.ErrInvalidFlatKey
	}

	layout, err := uc.Preview(input)
	if err != nil {
		return nil, err
	}

	flats := layout.Records(society, wing, time.Now().UTC())
	if err := uc.flatRepo.CreateMany(ctx, flats); err != nil {
		return nil, err
	}

	uc.metrics.FlatsLaidOut(len(flats))
	uc.logger.Info().
		Str("society", society).
		Str("wing", wing).
		Str("format", string(layout.Format.Type)).
		Int("flats", len(flats)).
		Msg("wing laid out")

	return layout, nil
}
