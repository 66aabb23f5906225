package tracker

import (
	"context"

	"github.com/spboyer/kcal/internal/models"
)

//go:generate go tool mockgen -source=estimator.go -destination=estimator_mock_test.go -package=tracker

// Estimator produces a nutrition record for a non-empty food description.
// *estimator.Client satisfies it.
type Estimator interface {
	Estimate(ctx context.Context, description string) (*models.NutritionRecord, error)
}
