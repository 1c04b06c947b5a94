package workers

import (
	"context"

	"estatehub_backend/internal/logger"
)

type PromotionExpirer interface {
	ExpirePromotions(ctx context.Context) (int64, error)
}

// PromotionWorker clears featured and premium flags once their paid period ends.
type PromotionWorker struct {
	properties PromotionExpirer
}

func NewPromotionWorker(properties PromotionExpirer) *PromotionWorker {
	return &PromotionWorker{properties: properties}
}

func (w *PromotionWorker) Name() string { return "promotion_expiry" }

func (w *PromotionWorker) Run(ctx context.Context) error {
	n, err := w.properties.ExpirePromotions(ctx)
	if n > 0 {
		logger.Info("expired promotions", "properties", n)
	}
	return err
}
