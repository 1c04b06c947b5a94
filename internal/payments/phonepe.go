package payments

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"estatehub_backend/internal/models"
)

const (
	phonePePayPath    = "/pg/v1/pay"
	phonePeStatusPath = "/pg/v1/status"
	checksumSeparator = "###"
)

type PhonePeConfig struct {
	MerchantID string
	SaltKey    string
	SaltIndex  string
	BaseURL    string
}

type PaymentInstrument struct {
	Type string `json:"type"`
}

// PayRequest is the JSON document that is base64-encoded into the pay call.
type PayRequest struct {
	MerchantID            string            `json:"merchantId"`
	MerchantTransactionID string            `json:"merchantTransactionId"`
	MerchantUserID        string            `json:"merchantUserId"`
	Amount                int64             `json:"amount"`
	RedirectURL           string            `json:"redirectUrl"`
	RedirectMode          string            `json:"redirectMode"`
	CallbackURL           string            `json:"callbackUrl"`
	MobileNumber          string            `json:"mobileNumber,omitempty"`
	PaymentInstrument     PaymentInstrument `json:"paymentInstrument"`
}

type phonePeResponse struct {
	Success bool            `json:"success"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type payData struct {
	MerchantTransactionID string `json:"merchantTransactionId"`
	InstrumentResponse    struct {
		Type         string `json:"type"`
		RedirectInfo struct {
			URL    string `json:"url"`
			Method string `json:"method"`
		} `json:"redirectInfo"`
	} `json:"instrumentResponse"`
}

// PaymentState is the transaction part of status and callback responses.
type PaymentState struct {
	MerchantID            string `json:"merchantId"`
	MerchantTransactionID string `json:"merchantTransactionId"`
	TransactionID         string `json:"transactionId"`
	Amount                int64  `json:"amount"`
	State                 string `json:"state"`
	ResponseCode          string `json:"responseCode"`
}

type PayResult struct {
	RedirectURL           string `json:"redirectUrl"`
	MerchantTransactionID string `json:"merchantTransactionId"`
}

type StatusResult struct {
	Code    string
	Message string
	State   PaymentState
}

// CallbackPayload is the decoded "response" field of a server-to-server callback.
type CallbackPayload struct {
	Success bool         `json:"success"`
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Data    PaymentState `json:"data"`
}

var ErrInvalidChecksum = errors.New("phonepe: checksum mismatch")

type PhonePeClient struct {
	cfg  PhonePeConfig
	http *http.Client
}

// NewPhonePeClient uses an http.Client with the given timeout and no retries.
func NewPhonePeClient(cfg PhonePeConfig, timeout time.Duration) *PhonePeClient {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &PhonePeClient{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}
}

func (c *PhonePeClient) Configured() bool {
	return c != nil && c.cfg.MerchantID != "" && c.cfg.SaltKey != "" && c.cfg.SaltIndex != ""
}

func (c *PhonePeClient) MerchantID() string {
	return c.cfg.MerchantID
}

// checksum is hex(sha256(data + saltKey)) + "###" + saltIndex.
func (c *PhonePeClient) checksum(data string) string {
	sum := sha256.Sum256([]byte(data + c.cfg.SaltKey))
	return hex.EncodeToString(sum[:]) + checksumSeparator + c.cfg.SaltIndex
}

// PayChecksum signs a base64 pay payload.
func (c *PhonePeClient) PayChecksum(base64Payload string) string {
	return c.checksum(base64Payload + phonePePayPath)
}

func (c *PhonePeClient) statusPath(merchantTransactionID string) string {
	return fmt.Sprintf("%s/%s/%s", phonePeStatusPath, c.cfg.MerchantID, merchantTransactionID)
}

func (c *PhonePeClient) StatusChecksum(merchantTransactionID string) string {
	return c.checksum(c.statusPath(merchantTransactionID))
}

// CallbackChecksum is the X-VERIFY PhonePe sends with a callback body.
func (c *PhonePeClient) CallbackChecksum(base64Response string) string {
	return c.checksum(base64Response)
}

func (c *PhonePeClient) VerifyCallback(xVerify, base64Response string) bool {
	if xVerify == "" || base64Response == "" {
		return false
	}
	return constantTimeEqual(c.CallbackChecksum(base64Response), strings.TrimSpace(xVerify))
}

// EncodePayRequest fills merchant defaults and returns the base64 payload.
func (c *PhonePeClient) EncodePayRequest(req *PayRequest) (string, error) {
	req.MerchantID = c.cfg.MerchantID
	if req.RedirectMode == "" {
		req.RedirectMode = "REDIRECT"
	}
	if req.PaymentInstrument.Type == "" {
		req.PaymentInstrument.Type = "PAY_PAGE"
	}
	raw, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Pay initiates a hosted payment and returns the page to redirect the browser to.
func (c *PhonePeClient) Pay(ctx context.Context, req *PayRequest) (*PayResult, error) {
	payload, err := c.EncodePayRequest(req)
	if err != nil {
		return nil, fmt.Errorf("phonepe encode payload: %w", err)
	}

	body, _ := json.Marshal(map[string]string{"request": payload})
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+phonePePayPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-VERIFY", c.PayChecksum(payload))

	resp, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &GatewayError{Gateway: models.GatewayPhonePe, Code: resp.Code, Message: resp.Message}
	}

	var data payData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("phonepe parse pay data: %w", err)
	}
	if data.InstrumentResponse.RedirectInfo.URL == "" {
		return nil, &GatewayError{Gateway: models.GatewayPhonePe, Code: resp.Code, Message: "response without redirect url"}
	}

	return &PayResult{
		RedirectURL:           data.InstrumentResponse.RedirectInfo.URL,
		MerchantTransactionID: req.MerchantTransactionID,
	}, nil
}

// Status asks PhonePe for the current state of a transaction. A non-success
// answer is still returned as a result; its Code drives the state machine.
func (c *PhonePeClient) Status(ctx context.Context, merchantTransactionID string) (*StatusResult, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+c.statusPath(merchantTransactionID), nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-VERIFY", c.StatusChecksum(merchantTransactionID))
	httpReq.Header.Set("X-MERCHANT-ID", c.cfg.MerchantID)

	resp, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}

	result := &StatusResult{Code: resp.Code, Message: resp.Message}
	if len(resp.Data) > 0 && string(resp.Data) != "null" {
		if err := json.Unmarshal(resp.Data, &result.State); err != nil {
			return nil, fmt.Errorf("phonepe parse status data: %w", err)
		}
	}
	return result, nil
}

// DecodeCallback decodes the base64 "response" field of a callback.
func DecodeCallback(base64Response string) (*CallbackPayload, error) {
	raw, err := base64.StdEncoding.DecodeString(base64Response)
	if err != nil {
		return nil, fmt.Errorf("phonepe callback base64: %w", err)
	}
	var payload CallbackPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("phonepe callback json: %w", err)
	}
	return &payload, nil
}

func (c *PhonePeClient) do(req *http.Request) (*phonePeResponse, error) {
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("phonepe request: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("phonepe read body: %w", err)
	}

	var out phonePeResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("phonepe parse response (status %d): %w", res.StatusCode, err)
	}
	if out.Code == "" && res.StatusCode >= 400 {
		out.Code = fmt.Sprintf("HTTP_%d", res.StatusCode)
	}
	return &out, nil
}
