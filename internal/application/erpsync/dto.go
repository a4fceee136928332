package erpsync

import (
	"time"
)

// ExportOutcome summarizes one balance export
type ExportOutcome struct {
	Status      string `json:"status"` // OK, DISABLED, FAILED
	Transmitted int    `json:"transmitted"`
	Checkpoint  string `json:"checkpoint,omitempty"`
	Error       string `json:"error,omitempty"`
}

// ImportOutcome summarizes one open-order import
type ImportOutcome struct {
	Status   string   `json:"status"` // OK, DISABLED, FAILED
	Fetched  int      `json:"fetched"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}

// ReconciliationResult is the structured outcome of one reconciliation cycle.
// Export and import are reported independently so a partial cycle is visible
// as such instead of collapsing into a single error.
type ReconciliationResult struct {
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Export     ExportOutcome `json:"export"`
	Import     ImportOutcome `json:"import"`
}

// SyncStatusResponse reports the gateway mode and reconciliation checkpoints
type SyncStatusResponse struct {
	Enabled              bool       `json:"enabled"`
	LastExportCheckpoint string     `json:"last_export_checkpoint,omitempty"`
	LastExportAt         *time.Time `json:"last_export_at,omitempty"`
	LastImportAt         *time.Time `json:"last_import_at,omitempty"`
	ImportedOrderCount   int64      `json:"imported_order_count"`
	CycleInProgress      bool       `json:"cycle_in_progress"`
}

const (
	outcomeOK       = "OK"
	outcomeDisabled = "DISABLED"
	outcomeFailed   = "FAILED"
)
