package erpsync

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Gateway errors
// ---------------------------------------------------------------------------

var (
	// ErrEndpointUnavailable indicates the ERP endpoint is configured but could
	// not be reached within the gateway's retry budget
	ErrEndpointUnavailable = errors.New("erpsync: endpoint unavailable")
	// ErrInvalidResponse indicates the ERP endpoint returned a payload the
	// gateway could not interpret
	ErrInvalidResponse = errors.New("erpsync: invalid endpoint response")
)

// ---------------------------------------------------------------------------
// Gateway status
// ---------------------------------------------------------------------------

// GatewayStatus describes the outcome mode of a gateway operation
type GatewayStatus string

const (
	// GatewayStatusOK indicates the operation reached the ERP endpoint
	GatewayStatusOK GatewayStatus = "OK"
	// GatewayStatusDisabled indicates no ERP endpoint is configured. This is a
	// first-class result, not an error: callers can branch on it to tell
	// "sync is disabled" apart from "sync succeeded with zero records".
	GatewayStatusDisabled GatewayStatus = "DISABLED"
)

// IsDisabled returns true for the disabled/no-op mode
func (s GatewayStatus) IsDisabled() bool {
	return s == GatewayStatusDisabled
}

// ---------------------------------------------------------------------------
// Wire payloads
// ---------------------------------------------------------------------------

// BalanceRecord is one entry of the export payload
type BalanceRecord struct {
	ItemCode      string          `json:"item_code"`
	ItemName      string          `json:"item_name,omitempty"`
	LocationCode  string          `json:"location_code"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitOfMeasure string          `json:"unit_of_measure,omitempty"`
}

// BalanceSnapshot is a point-in-time view of all projected balances. It is
// built once, before any network call, so a slow or retried export can never
// observe a half-updated ledger. The checkpoint token makes re-sending the
// same snapshot idempotent (overwrite-by-item-code semantics on the ERP side).
type BalanceSnapshot struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Checkpoint  string          `json:"checkpoint"`
	Entries     []BalanceRecord `json:"entries"`
}

// ExportResult is the outcome of a balance export
type ExportResult struct {
	Status      GatewayStatus `json:"status"`
	Transmitted int           `json:"transmitted"`
	Checkpoint  string        `json:"checkpoint,omitempty"`
	Message     string        `json:"message,omitempty"`
}

// ErpOrderLine is one line of an ERP-reported purchase order
type ErpOrderLine struct {
	ItemCode        string          `json:"item_code"`
	ItemName        string          `json:"item_name,omitempty"`
	Description     string          `json:"description,omitempty"`
	OrderedQuantity decimal.Decimal `json:"ordered_quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price,omitempty"`
}

// ErpOrder is a purchase order as reported by the ERP endpoint
type ErpOrder struct {
	ErpOrderID   string         `json:"erp_order_id"`
	OrderNumber  string         `json:"order_number"`
	SupplierName string         `json:"supplier_name"`
	Status       string         `json:"status"`
	ExpectedDate *time.Time     `json:"expected_date,omitempty"`
	Notes        string         `json:"notes,omitempty"`
	Lines        []ErpOrderLine `json:"lines"`
}

// ImportResult is the outcome of an open-order import
type ImportResult struct {
	Status GatewayStatus `json:"status"`
	Orders []ErpOrder    `json:"orders"`
}

// ---------------------------------------------------------------------------
// Gateway port
// ---------------------------------------------------------------------------

// Gateway is the port to the external ERP endpoint. Implementations must be
// safe for concurrent use, carry explicit timeouts on every network call, and
// retry transient failures with bounded backoff before surfacing
// ErrEndpointUnavailable. When no endpoint is configured both operations are
// no-ops that succeed with GatewayStatusDisabled.
type Gateway interface {
	// ExportBalances pushes a point-in-time balance snapshot to the ERP.
	// Re-sending an unchanged snapshot with the same checkpoint has no
	// additional external effect.
	ExportBalances(ctx context.Context, snapshot BalanceSnapshot) (*ExportResult, error)
	// ImportOpenOrders pulls the open purchase orders from the ERP
	ImportOpenOrders(ctx context.Context) (*ImportResult, error)
	// Enabled reports whether an endpoint is configured
	Enabled() bool
}
