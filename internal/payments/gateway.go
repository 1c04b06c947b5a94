package payments

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"estatehub_backend/internal/models"
)

// GatewayError is returned when a gateway answers but refuses the request.
type GatewayError struct {
	Gateway models.PaymentGateway
	Code    string
	Message string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Gateway, e.Code, e.Message)
}

// PhonePe response codes. Anything not listed keeps the transaction pending.
const (
	PhonePeCodeSuccess         = "PAYMENT_SUCCESS"
	PhonePeCodePending         = "PAYMENT_PENDING"
	PhonePeCodeError           = "PAYMENT_ERROR"
	PhonePeCodeDeclined        = "PAYMENT_DECLINED"
	PhonePeCodeTimedOut        = "TIMED_OUT"
	PhonePeCodeNotFound        = "TRANSACTION_NOT_FOUND"
	PhonePeCodeAuthFailed      = "AUTHORIZATION_FAILED"
	PhonePeCodePaymentInitiate = "PAYMENT_INITIATED"
)

// StatusFromPhonePeCode maps a PhonePe code onto the local state machine.
func StatusFromPhonePeCode(code string) models.TransactionStatus {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case PhonePeCodeSuccess:
		return models.TransactionStatusSuccess
	case PhonePeCodeError, PhonePeCodeDeclined, PhonePeCodeTimedOut, PhonePeCodeNotFound, PhonePeCodeAuthFailed:
		return models.TransactionStatusFailed
	default:
		return models.TransactionStatusPending
	}
}

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
