package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"estatehub_backend/internal/email"
	"estatehub_backend/internal/logger"
	"estatehub_backend/internal/models"
	"estatehub_backend/internal/payments"
	"estatehub_backend/internal/repositories"
	"estatehub_backend/internal/services/dto"
	"estatehub_backend/pkg/apperrors"

	"github.com/google/uuid"
)

const (
	merchantTransactionIDLen = 34
	reconcileBatchSize       = 100
)

// PaymentOptions carries the URLs and currency the gateways need.
type PaymentOptions struct {
	Currency    string
	SiteURL     string
	CallbackURL string
	RedirectURL func(merchantTransactionID string) string
}

type PaymentService struct {
	transactions repositories.TransactionRepository
	packages     repositories.PackageRepository
	properties   repositories.PropertyRepository
	users        repositories.UserRepository
	promoter     *PropertyService
	razorpay     *payments.RazorpayClient
	phonepe      *payments.PhonePeClient
	mailer       email.Sender
	opts         PaymentOptions
	now          func() time.Time
}

func NewPaymentService(
	transactions repositories.TransactionRepository,
	packages repositories.PackageRepository,
	properties repositories.PropertyRepository,
	users repositories.UserRepository,
	promoter *PropertyService,
	razorpay *payments.RazorpayClient,
	phonepe *payments.PhonePeClient,
	mailer email.Sender,
	opts PaymentOptions,
) *PaymentService {
	if opts.Currency == "" {
		opts.Currency = "INR"
	}
	if mailer == nil {
		mailer = email.NoopSender{}
	}
	return &PaymentService{
		transactions: transactions,
		packages:     packages,
		properties:   properties,
		users:        users,
		promoter:     promoter,
		razorpay:     razorpay,
		phonepe:      phonepe,
		mailer:       mailer,
		opts:         opts,
		now:          time.Now,
	}
}

// NewMerchantTransactionID is "MT" followed by a dashless UUID, at most 34 characters.
func NewMerchantTransactionID() string {
	id := "MT" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if len(id) > merchantTransactionIDLen {
		id = id[:merchantTransactionIDLen]
	}
	return id
}

// ============================================
// Create
// ============================================

func (s *PaymentService) CreateRazorpayOrder(ctx context.Context, actor Actor, req *dto.CreatePaymentRequest) (*dto.RazorpayOrderResponse, error) {
	if !s.razorpay.Configured() {
		return nil, apperrors.ErrGatewayNotConfigured
	}
	tx, err := s.openTransaction(ctx, actor, req, models.GatewayRazorpay)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	order, err := s.razorpay.CreateOrder(tx.MerchantTransactionID, tx.Amount, map[string]string{
		"packageId":  tx.PackageID.Hex(),
		"propertyId": tx.PropertyID.Hex(),
		"userId":     tx.UserID.Hex(),
	})
	logger.PaymentLog(string(models.GatewayRazorpay), "create_order", tx.MerchantTransactionID, time.Since(start), err)
	if err != nil {
		s.failOpen(ctx, tx, err)
		return nil, apperrors.ExternalServiceError(err, apperrors.DomainPayment, "Failed to create Razorpay order")
	}

	if err := s.transactions.SetGatewayOrderID(ctx, tx.MerchantTransactionID, order.OrderID); err != nil {
		return nil, mapRepoErr(err, "store gateway order id", apperrors.ErrTransactionNotFound, nil)
	}

	return &dto.RazorpayOrderResponse{
		OrderID:               order.OrderID,
		Amount:                order.Amount,
		Currency:              order.Currency,
		KeyID:                 order.KeyID,
		MerchantTransactionID: tx.MerchantTransactionID,
	}, nil
}

func (s *PaymentService) CreatePhonePePayment(ctx context.Context, actor Actor, req *dto.CreatePaymentRequest) (*dto.PhonePeOrderResponse, error) {
	if !s.phonepe.Configured() {
		return nil, apperrors.ErrGatewayNotConfigured
	}
	tx, err := s.openTransaction(ctx, actor, req, models.GatewayPhonePe)
	if err != nil {
		return nil, err
	}

	redirect := ""
	if s.opts.RedirectURL != nil {
		redirect = s.opts.RedirectURL(tx.MerchantTransactionID)
	}

	start := time.Now()
	res, err := s.phonepe.Pay(ctx, &payments.PayRequest{
		MerchantTransactionID: tx.MerchantTransactionID,
		MerchantUserID:        tx.UserID.Hex(),
		Amount:                tx.Amount,
		RedirectURL:           redirect,
		CallbackURL:           s.opts.CallbackURL,
	})
	logger.PaymentLog(string(models.GatewayPhonePe), "pay", tx.MerchantTransactionID, time.Since(start), err)
	if err != nil {
		s.failOpen(ctx, tx, err)
		return nil, apperrors.ExternalServiceError(err, apperrors.DomainPayment, "Failed to initiate PhonePe payment")
	}

	return &dto.PhonePeOrderResponse{
		RedirectURL:           res.RedirectURL,
		MerchantTransactionID: tx.MerchantTransactionID,
	}, nil
}

// openTransaction validates the package and property and inserts a pending
// transaction. The amount always comes from the package.
func (s *PaymentService) openTransaction(ctx context.Context, actor Actor, req *dto.CreatePaymentRequest, gateway models.PaymentGateway) (*models.Transaction, error) {
	pkg, err := s.packages.FindByID(ctx, req.PackageID)
	if err != nil {
		return nil, mapRepoErr(err, "get package", apperrors.ErrPackageNotFound, nil)
	}
	if !pkg.IsActive {
		return nil, apperrors.ErrPackageNotFound
	}
	if req.Amount != nil && *req.Amount != pkg.Price {
		return nil, apperrors.ErrInvalidPaymentAmount
	}

	prop, err := s.properties.FindByID(ctx, req.PropertyID)
	if err != nil {
		return nil, mapRepoErr(err, "get property", apperrors.ErrPropertyNotFound, nil)
	}
	if prop.OwnerID != actor.ID && !actor.IsAdmin() {
		return nil, apperrors.ErrNotPropertyOwner
	}

	tx := &models.Transaction{
		UserID:                actor.ID,
		PackageID:             pkg.ID,
		PropertyID:            prop.ID,
		Amount:                pkg.Price,
		Gateway:               gateway,
		MerchantTransactionID: NewMerchantTransactionID(),
		Status:                models.TransactionStatusPending,
	}
	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, mapRepoErr(err, "create transaction", nil, nil)
	}

	logger.CtxInfo(ctx, "transaction opened",
		"merchant_transaction_id", tx.MerchantTransactionID,
		"gateway", gateway,
		"amount", tx.Amount,
	)
	return tx, nil
}

func (s *PaymentService) failOpen(ctx context.Context, tx *models.Transaction, cause error) {
	reason := cause.Error()
	var gwErr *payments.GatewayError
	if errors.As(cause, &gwErr) {
		reason = gwErr.Code
	}
	if _, _, err := s.transactions.Transition(ctx, tx.MerchantTransactionID, models.TransactionStatusFailed,
		repositories.TransitionPatch{FailureReason: reason}); err != nil {
		logger.CtxWithError(ctx, "failed to mark transaction failed", err, "merchant_transaction_id", tx.MerchantTransactionID)
	}
}

// ============================================
// Verify / status / callback
// ============================================

// VerifyRazorpay checks the checkout signature and settles the transaction.
func (s *PaymentService) VerifyRazorpay(ctx context.Context, actor Actor, req *dto.VerifyRazorpayRequest) (*models.Transaction, error) {
	if !s.razorpay.Configured() {
		return nil, apperrors.ErrGatewayNotConfigured
	}
	tx, err := s.ownTransaction(ctx, actor, req.MerchantTransactionID)
	if err != nil {
		return nil, err
	}
	if tx.Gateway != models.GatewayRazorpay {
		return nil, apperrors.ErrTransactionNotFound
	}
	if tx.Status.Terminal() {
		return tx, nil
	}

	// A signature for some other order says nothing about this transaction.
	if tx.GatewayOrderID != "" && tx.GatewayOrderID != req.OrderID {
		logger.CtxWarn(ctx, "razorpay verify for foreign order",
			"merchant_transaction_id", tx.MerchantTransactionID,
			"order_id", req.OrderID,
		)
		return nil, apperrors.ErrInvalidPaymentSignature
	}

	ok, err := s.razorpay.VerifySignature(req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		return nil, apperrors.ValidationError(map[string]string{"signature": err.Error()})
	}

	if !ok {
		if _, err := s.apply(ctx, tx.MerchantTransactionID, models.TransactionStatusFailed, repositories.TransitionPatch{
			GatewayPaymentID: req.PaymentID,
			FailureReason:    "signature mismatch",
		}); err != nil {
			return nil, err
		}
		return nil, apperrors.ErrInvalidPaymentSignature
	}

	return s.apply(ctx, tx.MerchantTransactionID, models.TransactionStatusSuccess, repositories.TransitionPatch{
		GatewayOrderID:   req.OrderID,
		GatewayPaymentID: req.PaymentID,
	})
}

// PhonePeStatus polls the gateway for a pending transaction and returns the local state.
func (s *PaymentService) PhonePeStatus(ctx context.Context, actor Actor, mtid string) (*models.Transaction, error) {
	if !s.phonepe.Configured() {
		return nil, apperrors.ErrGatewayNotConfigured
	}
	tx, err := s.ownTransaction(ctx, actor, mtid)
	if err != nil {
		return nil, err
	}
	if tx.Gateway != models.GatewayPhonePe {
		return nil, apperrors.ErrTransactionNotFound
	}
	if tx.Status.Terminal() {
		return tx, nil
	}
	return s.pollPhonePe(ctx, tx)
}

func (s *PaymentService) pollPhonePe(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	start := time.Now()
	res, err := s.phonepe.Status(ctx, tx.MerchantTransactionID)
	logger.PaymentLog(string(models.GatewayPhonePe), "status", tx.MerchantTransactionID, time.Since(start), err)
	if err != nil {
		return nil, apperrors.ExternalServiceError(err, apperrors.DomainPayment, "Failed to fetch PhonePe status")
	}

	to := payments.StatusFromPhonePeCode(res.Code)
	if to == models.TransactionStatusPending {
		return tx, nil
	}
	if to == models.TransactionStatusSuccess && res.State.Amount != 0 && res.State.Amount != tx.Amount {
		logger.CtxWarn(ctx, "phonepe amount mismatch",
			"merchant_transaction_id", tx.MerchantTransactionID,
			"expected", tx.Amount,
			"got", res.State.Amount,
		)
		to = models.TransactionStatusFailed
		res.Code = "AMOUNT_MISMATCH"
	}
	return s.apply(ctx, tx.MerchantTransactionID, to, phonePePatch(to, res.Code, res.State))
}

// HandlePhonePeCallback applies a server-to-server callback. Whatever it
// returns, the caller answers the gateway with 200; failures are kept in the
// dead-letter collection.
func (s *PaymentService) HandlePhonePeCallback(ctx context.Context, xVerify, response string) error {
	err := s.handleCallback(ctx, xVerify, response)
	if err != nil {
		s.deadLetter(ctx, models.GatewayPhonePe, response, err)
	}
	return err
}

func (s *PaymentService) handleCallback(ctx context.Context, xVerify, response string) error {
	if !s.phonepe.Configured() {
		return errors.New("phonepe not configured")
	}
	if !s.phonepe.VerifyCallback(xVerify, response) {
		return payments.ErrInvalidChecksum
	}
	payload, err := payments.DecodeCallback(response)
	if err != nil {
		return err
	}

	mtid := payload.Data.MerchantTransactionID
	tx, err := s.transactions.FindByMerchantID(ctx, mtid)
	if err != nil {
		return fmt.Errorf("callback for %q: %w", mtid, err)
	}

	to := payments.StatusFromPhonePeCode(payload.Code)
	if to == models.TransactionStatusPending {
		return nil
	}
	if to == models.TransactionStatusSuccess && payload.Data.Amount != tx.Amount {
		if _, err := s.apply(ctx, mtid, models.TransactionStatusFailed, repositories.TransitionPatch{FailureReason: "AMOUNT_MISMATCH"}); err != nil {
			return err
		}
		return fmt.Errorf("callback amount %d does not match %d", payload.Data.Amount, tx.Amount)
	}

	_, err = s.apply(ctx, mtid, to, phonePePatch(to, payload.Code, payload.Data))
	return err
}

func phonePePatch(to models.TransactionStatus, code string, state payments.PaymentState) repositories.TransitionPatch {
	patch := repositories.TransitionPatch{GatewayPaymentID: state.TransactionID}
	if to == models.TransactionStatusFailed {
		patch.FailureReason = code
	}
	return patch
}

func (s *PaymentService) deadLetter(ctx context.Context, gateway models.PaymentGateway, payload string, cause error) {
	logger.CtxWithError(ctx, "payment callback not applied", cause, "gateway", gateway)
	if err := s.transactions.RecordWebhookFailure(ctx, &models.WebhookFailure{
		Gateway: gateway,
		Payload: payload,
		Reason:  cause.Error(),
	}); err != nil {
		logger.CtxWithError(ctx, "failed to record webhook failure", err, "gateway", gateway)
	}
}

// ============================================
// Reconciliation
// ============================================

// ReconcilePending polls PhonePe for pending transactions older than minAge.
// It returns how many reached a terminal state.
func (s *PaymentService) ReconcilePending(ctx context.Context, minAge time.Duration) (int, error) {
	if !s.phonepe.Configured() {
		return 0, nil
	}
	pending, err := s.transactions.ListPendingOlderThan(ctx, models.GatewayPhonePe, s.now().Add(-minAge), reconcileBatchSize)
	if err != nil {
		return 0, err
	}

	settled := 0
	for i := range pending {
		if ctx.Err() != nil {
			return settled, ctx.Err()
		}
		tx, err := s.pollPhonePe(ctx, &pending[i])
		if err != nil {
			logger.CtxWithError(ctx, "reconcile poll failed", err, "merchant_transaction_id", pending[i].MerchantTransactionID)
			continue
		}
		if tx.Status.Terminal() {
			settled++
		}
	}
	return settled, nil
}

// ============================================
// Settlement
// ============================================

// apply runs the compare-and-set transition and, on the first move to
// success, promotes the property and mails a receipt.
func (s *PaymentService) apply(ctx context.Context, mtid string, to models.TransactionStatus, patch repositories.TransitionPatch) (*models.Transaction, error) {
	tx, changed, err := s.transactions.Transition(ctx, mtid, to, patch)
	if err != nil {
		return nil, mapRepoErr(err, "transition transaction", apperrors.ErrTransactionNotFound, nil)
	}
	if !changed {
		return tx, nil
	}

	logger.CtxInfo(ctx, "transaction settled", "merchant_transaction_id", mtid, "status", tx.Status)
	if tx.Status == models.TransactionStatusSuccess {
		s.fulfil(ctx, tx)
	}
	return tx, nil
}

func (s *PaymentService) fulfil(ctx context.Context, tx *models.Transaction) {
	pkg, err := s.packages.FindByID(ctx, tx.PackageID.Hex())
	if err != nil {
		logger.CtxWithError(ctx, "paid package missing", err, "merchant_transaction_id", tx.MerchantTransactionID)
		return
	}
	prop, err := s.properties.FindByID(ctx, tx.PropertyID.Hex())
	if err != nil {
		logger.CtxWithError(ctx, "paid property missing", err, "merchant_transaction_id", tx.MerchantTransactionID)
		return
	}

	until, err := s.promoter.ApplyPromotion(ctx, prop, pkg.Type, pkg.DurationDays)
	if err != nil {
		logger.CtxWithError(ctx, "apply promotion failed", err, "merchant_transaction_id", tx.MerchantTransactionID)
		return
	}

	s.sendReceipt(ctx, tx, pkg, prop, until)
}

func (s *PaymentService) sendReceipt(ctx context.Context, tx *models.Transaction, pkg *models.Package, prop *models.Property, until time.Time) {
	user, err := s.users.FindByID(ctx, tx.UserID.Hex())
	if err != nil {
		logger.CtxWithError(ctx, "receipt recipient missing", err, "merchant_transaction_id", tx.MerchantTransactionID)
		return
	}

	paidAt := s.now()
	if tx.CompletedAt != nil {
		paidAt = *tx.CompletedAt
	}
	data := email.ReceiptData{
		UserName:              user.Name,
		PackageName:           pkg.Name,
		PropertyTitle:         prop.Title,
		Amount:                tx.Amount,
		Currency:              s.opts.Currency,
		Gateway:               string(tx.Gateway),
		MerchantTransactionID: tx.MerchantTransactionID,
		PaidAt:                paidAt,
		PromotedUntil:         until,
		SiteURL:               s.opts.SiteURL,
	}

	go func() {
		mctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), mailTimeout)
		defer cancel()
		if err := s.mailer.SendReceipt(mctx, user.Email, data); err != nil {
			logger.CtxWithError(mctx, "receipt email failed", err, "merchant_transaction_id", data.MerchantTransactionID)
		}
	}()
}

// ============================================
// Listing
// ============================================

func (s *PaymentService) ListMine(ctx context.Context, actor Actor, q *dto.TransactionQuery) ([]models.Transaction, int64, error) {
	uid := actor.ID
	list, total, err := s.transactions.List(ctx, repositories.TransactionFilter{
		UserID:   &uid,
		Status:   q.Status,
		Gateway:  q.Gateway,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	return list, total, mapRepoErr(err, "list own transactions", nil, nil)
}

func (s *PaymentService) AdminList(ctx context.Context, q *dto.TransactionQuery) ([]models.Transaction, int64, error) {
	list, total, err := s.transactions.List(ctx, repositories.TransactionFilter{
		Status:   q.Status,
		Gateway:  q.Gateway,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	return list, total, mapRepoErr(err, "list transactions", nil, nil)
}

func (s *PaymentService) ownTransaction(ctx context.Context, actor Actor, mtid string) (*models.Transaction, error) {
	tx, err := s.transactions.FindByMerchantID(ctx, mtid)
	if err != nil {
		return nil, mapRepoErr(err, "get transaction", apperrors.ErrTransactionNotFound, nil)
	}
	if tx.UserID != actor.ID && !actor.IsAdmin() {
		return nil, apperrors.ErrTransactionNotFound
	}
	return tx, nil
}
