package dto

import "estatehub_backend/internal/models"

// CreatePaymentRequest: Amount is optional; when sent it must equal the package price.
type CreatePaymentRequest struct {
	PackageID  string `json:"packageId" validate:"required,objectid"`
	PropertyID string `json:"propertyId" validate:"required,objectid"`
	Amount     *int64 `json:"amount" validate:"omitempty,gt=0"`
}

type RazorpayOrderResponse struct {
	OrderID               string `json:"orderId"`
	Amount                int64  `json:"amount"`
	Currency              string `json:"currency"`
	KeyID                 string `json:"keyId"`
	MerchantTransactionID string `json:"merchantTransactionId"`
}

type PhonePeOrderResponse struct {
	RedirectURL           string `json:"redirectUrl"`
	MerchantTransactionID string `json:"merchantTransactionId"`
}

type VerifyRazorpayRequest struct {
	OrderID               string `json:"razorpay_order_id" validate:"required"`
	PaymentID             string `json:"razorpay_payment_id" validate:"required"`
	Signature             string `json:"razorpay_signature" validate:"required,hexadecimal"`
	MerchantTransactionID string `json:"merchantTransactionId" validate:"required"`
}

type PhonePeCallbackRequest struct {
	Response string `json:"response"`
}

type TransactionQuery struct {
	Status   models.TransactionStatus `form:"status" validate:"omitempty,oneof=pending success failed"`
	Gateway  models.PaymentGateway    `form:"gateway" validate:"omitempty,gateway"`
	Page     int                      `form:"page"`
	PageSize int                      `form:"page_size"`
}
