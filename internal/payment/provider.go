// Package payment talks to the hosted checkout provider.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"memberhub-backend/internal/config"
	"memberhub-backend/internal/logger"
	"memberhub-backend/internal/metrics"
)

type CheckoutRequest struct {
	ApplicationID string `json:"client_reference_id"`
	PlanID        string `json:"plan_id"`
	PlanName      string `json:"description"`
	AmountCents   int64  `json:"amount"`
	Currency      string `json:"currency"`
	CustomerEmail string `json:"customer_email"`
	SuccessURL    string `json:"success_url"`
	CancelURL     string `json:"cancel_url"`
}

type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type sessionStatus struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

type Provider interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	VerifyPayment(ctx context.Context, sessionID string) (bool, error)
}

// HTTPProvider calls the provider's REST API with an OAuth2 client-credentials token.
type HTTPProvider struct {
	baseURL string
	oauth   *clientcredentials.Config
	timeout time.Duration
}

func NewHTTPProvider(cfg config.PaymentConfig) *HTTPProvider {
	return &HTTPProvider{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		oauth: &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
		},
		timeout: time.Duration(cfg.TimeoutSecs) * time.Second,
	}
}

func (p *HTTPProvider) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	var session CheckoutSession
	if err := p.do(ctx, http.MethodPost, "/checkout/sessions", body, &session); err != nil {
		return nil, err
	}
	if session.ID == "" || session.URL == "" {
		return nil, fmt.Errorf("payment provider returned an incomplete session")
	}
	return &session, nil
}

func (p *HTTPProvider) VerifyPayment(ctx context.Context, sessionID string) (bool, error) {
	var st sessionStatus
	if err := p.do(ctx, http.MethodGet, "/checkout/sessions/"+url.PathEscape(sessionID), nil, &st); err != nil {
		return false, err
	}
	return st.PaymentStatus == "paid" || st.Status == "paid", nil
}

func (p *HTTPProvider) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := p.oauth.Client(ctx)
	if p.timeout > 0 {
		client.Timeout = p.timeout
	}

	logger.ExternalServiceCall("payment", method+" "+path)
	start := time.Now()
	resp, err := client.Do(req)
	if err == nil && resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		resp.Body.Close()
		err = fmt.Errorf("payment provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	metrics.RecordExternalCall("payment", method, time.Since(start), err)
	logger.ExternalServiceResult("payment", method+" "+path, err)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return json.NewDecoder(resp.Body).Decode(out)
}
