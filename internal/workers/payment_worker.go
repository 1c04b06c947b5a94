package workers

import (
	"context"
	"time"

	"estatehub_backend/internal/logger"
)

type PaymentReconciler interface {
	ReconcilePending(ctx context.Context, minAge time.Duration) (int, error)
}

// PaymentWorker re-polls PhonePe for transactions whose callback never arrived.
type PaymentWorker struct {
	payments PaymentReconciler
	minAge   time.Duration
}

func NewPaymentWorker(payments PaymentReconciler, minAge time.Duration) *PaymentWorker {
	if minAge <= 0 {
		minAge = 5 * time.Minute
	}
	return &PaymentWorker{payments: payments, minAge: minAge}
}

func (w *PaymentWorker) Name() string { return "payment_reconcile" }

func (w *PaymentWorker) Run(ctx context.Context) error {
	settled, err := w.payments.ReconcilePending(ctx, w.minAge)
	if settled > 0 {
		logger.Info("reconciled pending transactions", "settled", settled)
	}
	return err
}
