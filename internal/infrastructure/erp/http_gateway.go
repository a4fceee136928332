package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/stockledger/backend/internal/domain/erpsync"
	"github.com/stockledger/backend/internal/infrastructure/config"
)

// maxResponseSize is the maximum allowed response size from the ERP endpoint (10MB)
const maxResponseSize = 10 * 1024 * 1024

// HTTPGateway implements erpsync.Gateway against an HTTP ERP endpoint.
//
// With no base URL configured the gateway runs in disabled mode: every
// operation succeeds immediately with GatewayStatusDisabled and no network
// activity. Configured gateways retry transient failures with exponential
// backoff before surfacing ErrEndpointUnavailable.
type HTTPGateway struct {
	cfg        config.ErpConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPGateway creates a new HTTPGateway from the ERP configuration
func NewHTTPGateway(cfg config.ErpConfig, logger *zap.Logger) *HTTPGateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPGateway{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.Named("erp"),
	}
}

// Enabled reports whether an ERP endpoint is configured
func (g *HTTPGateway) Enabled() bool {
	return g.cfg.Enabled()
}

// ExportBalances pushes a balance snapshot to POST /inventory/sync
func (g *HTTPGateway) ExportBalances(ctx context.Context, snapshot erpsync.BalanceSnapshot) (*erpsync.ExportResult, error) {
	if !g.Enabled() {
		return &erpsync.ExportResult{Status: erpsync.GatewayStatusDisabled}, nil
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("erp: failed to encode snapshot: %w", err)
	}

	body, err := g.doRequest(ctx, http.MethodPost, "/inventory/sync", payload)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Accepted int    `json:"accepted"`
		Message  string `json:"message"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", erpsync.ErrInvalidResponse, err)
	}

	transmitted := resp.Accepted
	if transmitted == 0 {
		transmitted = len(snapshot.Entries)
	}
	return &erpsync.ExportResult{
		Status:      erpsync.GatewayStatusOK,
		Transmitted: transmitted,
		Checkpoint:  snapshot.Checkpoint,
		Message:     resp.Message,
	}, nil
}

// ImportOpenOrders pulls open purchase orders from GET /purchase-orders/open
func (g *HTTPGateway) ImportOpenOrders(ctx context.Context) (*erpsync.ImportResult, error) {
	if !g.Enabled() {
		return &erpsync.ImportResult{Status: erpsync.GatewayStatusDisabled}, nil
	}

	body, err := g.doRequest(ctx, http.MethodGet, "/purchase-orders/open", nil)
	if err != nil {
		return nil, err
	}

	var orders []erpsync.ErpOrder
	if err := json.Unmarshal(body, &orders); err != nil {
		return nil, fmt.Errorf("%w: %v", erpsync.ErrInvalidResponse, err)
	}

	return &erpsync.ImportResult{
		Status: erpsync.GatewayStatusOK,
		Orders: orders,
	}, nil
}

// doRequest performs an HTTP request with bounded retry. Transient failures
// (connection errors, 5xx, 429) back off exponentially; 4xx responses other
// than 429 fail immediately since retrying cannot change the outcome.
func (g *HTTPGateway) doRequest(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var lastErr error
	delay := g.cfg.RetryBaseDelay

	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		body, retryable, err := g.attempt(ctx, method, path, payload)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}

		g.logger.Warn("ERP request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}

	return nil, fmt.Errorf("%w: %v", erpsync.ErrEndpointUnavailable, lastErr)
}

// attempt performs a single HTTP exchange and reports whether a failure is
// worth retrying
func (g *HTTPGateway) attempt(ctx context.Context, method, path string, payload []byte) ([]byte, bool, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.cfg.BaseURL+path, reader)
	if err != nil {
		return nil, false, fmt.Errorf("erp: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if g.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, true, fmt.Errorf("erp: failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, true, fmt.Errorf("erp: HTTP %d", resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, false, fmt.Errorf("erp: HTTP %d", resp.StatusCode)
	}

	return body, false, nil
}

// Ensure HTTPGateway implements the gateway port
var _ erpsync.Gateway = (*HTTPGateway)(nil)
