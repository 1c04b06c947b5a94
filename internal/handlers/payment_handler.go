package handlers

import (
	"estatehub_backend/internal/auth"
	"estatehub_backend/internal/logger"
	"estatehub_backend/internal/middleware"
	"estatehub_backend/internal/services"
	"estatehub_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

const headerXVerify = "X-VERIFY"

type PaymentHandler struct {
	*BaseHandler
	payments *services.PaymentService
	limiter  *middleware.RateLimiter
}

func NewPaymentHandler(base *BaseHandler, payments *services.PaymentService, limiter *middleware.RateLimiter) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler: base,
		payments:    payments,
		limiter:     limiter,
	}
}

func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	pay := rg.Group("/payments")

	// The gateway calls this without a user token.
	pay.POST("/phonepe/callback", h.PhonePeCallback)

	authed := pay.Group("")
	authed.Use(h.Authenticated())
	{
		authed.POST("/razorpay/create", h.createChain(h.CreateRazorpay)...)
		authed.POST("/razorpay/verify", h.VerifyRazorpay)
		authed.POST("/phonepe/create", h.createChain(h.CreatePhonePe)...)
		authed.POST("/phonepe/transaction", h.createChain(h.CreatePhonePe)...)
		authed.GET("/phonepe/status/:mtid", h.PhonePeStatus)
		authed.GET("/my", h.ListMine)
	}

	admin := rg.Group("/admin/transactions")
	admin.Use(h.Authenticated(), middleware.RequirePermission(auth.PermPaymentsRead))
	admin.GET("", h.AdminList)
}

// createChain guards the order-creating endpoints with the role check and the rate limiter.
func (h *PaymentHandler) createChain(handler gin.HandlerFunc) []gin.HandlerFunc {
	chain := []gin.HandlerFunc{middleware.RequirePermission(auth.PermPromote)}
	if h.limiter != nil {
		chain = append(chain, h.limiter.Middleware())
	}
	return append(chain, handler)
}

// ============================================
// Razorpay
// ============================================

func (h *PaymentHandler) CreateRazorpay(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	var req dto.CreatePaymentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	order, err := h.payments.CreateRazorpayOrder(c.Request.Context(), actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondCreated(c, order)
}

func (h *PaymentHandler) VerifyRazorpay(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	var req dto.VerifyRazorpayRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	tx, err := h.payments.VerifyRazorpay(c.Request.Context(), actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, tx)
}

// ============================================
// PhonePe
// ============================================

func (h *PaymentHandler) CreatePhonePe(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	var req dto.CreatePaymentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	order, err := h.payments.CreatePhonePePayment(c.Request.Context(), actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondCreated(c, order)
}

func (h *PaymentHandler) PhonePeStatus(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	tx, err := h.payments.PhonePeStatus(c.Request.Context(), actor, c.Param("mtid"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, tx)
}

// PhonePeCallback always answers 200 so the gateway does not retry into a
// failing handler. Rejected callbacks end up in the dead-letter collection
// and the reconciliation job settles the transaction later.
func (h *PaymentHandler) PhonePeCallback(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.PhonePeCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.CtxWithError(ctx, "Unreadable PhonePe callback body", err)
	}

	if err := h.payments.HandlePhonePeCallback(ctx, c.GetHeader(headerXVerify), req.Response); err != nil {
		logger.CtxWithError(ctx, "PhonePe callback not applied", err)
	}
	respondMessage(c, "Callback received")
}

// ============================================
// History
// ============================================

func (h *PaymentHandler) ListMine(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	var q dto.TransactionQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}
	q.Page, q.PageSize = normalizePage(q.Page, q.PageSize)

	list, total, err := h.payments.ListMine(c.Request.Context(), actor, &q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondPage(c, list, q.Page, q.PageSize, total)
}

func (h *PaymentHandler) AdminList(c *gin.Context) {
	var q dto.TransactionQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}
	q.Page, q.PageSize = normalizePage(q.Page, q.PageSize)

	list, total, err := h.payments.AdminList(c.Request.Context(), &q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondPage(c, list, q.Page, q.PageSize, total)
}
