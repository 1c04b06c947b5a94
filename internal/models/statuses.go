package models

type UserStatus string
type UserType string
type PropertyStatus string
type ApprovalStatus string
type TransactionStatus string
type PaymentGateway string
type PackageType string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"

	UserTypeBuyer  UserType = "buyer"
	UserTypeSeller UserType = "seller"
	UserTypeAgent  UserType = "agent"
	UserTypeAdmin  UserType = "admin"

	PropertyStatusActive   PropertyStatus = "active"
	PropertyStatusInactive PropertyStatus = "inactive"

	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"

	TransactionStatusPending TransactionStatus = "pending"
	TransactionStatusSuccess TransactionStatus = "success"
	TransactionStatusFailed  TransactionStatus = "failed"

	GatewayRazorpay PaymentGateway = "razorpay"
	GatewayPhonePe  PaymentGateway = "phonepe"

	PackageTypeFeatured PackageType = "featured"
	PackageTypePremium  PackageType = "premium"
)

func (t UserType) Valid() bool {
	switch t {
	case UserTypeBuyer, UserTypeSeller, UserTypeAgent, UserTypeAdmin:
		return true
	}
	return false
}

func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalStatusPending, ApprovalStatusApproved, ApprovalStatusRejected:
		return true
	}
	return false
}

func (g PaymentGateway) Valid() bool {
	return g == GatewayRazorpay || g == GatewayPhonePe
}

// Terminal reports whether no further transition is allowed.
func (s TransactionStatus) Terminal() bool {
	return s == TransactionStatusSuccess || s == TransactionStatusFailed
}
