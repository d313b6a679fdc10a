// Package queue defines message payloads exchanged over the message broker.
package queue

// RoutineGeneratedEvent is published after a weekly plan is persisted.
// It carries enough information for downstream consumers to log or run
// analytics without querying the primary database.
type RoutineGeneratedEvent struct {
	UserID      uint64 `json:"user_id"`
	Days        int    `json:"days"`
	Items       int    `json:"items"`
	SkinType    string `json:"skin_type"`
	GeneratedAt string `json:"generated_at"`
}

// ProductScannedEvent is published after a scanner analysis is audited.
type ProductScannedEvent struct {
	UserID      uint64 `json:"user_id"`
	AnalysisID  uint64 `json:"analysis_id"`
	ProductName string `json:"product_name"`
	Verdict     string `json:"verdict"`
	ScannedAt   string `json:"scanned_at"`
}
