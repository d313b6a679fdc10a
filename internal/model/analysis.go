package model

import "time"

// AIAnalysis is the append-only audit record of one scanner
// invocation.  Every scan writes a row before the user acts on the
// result, successful or eventually discarded.  FullResponse keeps the
// raw model output for traceability.
type AIAnalysis struct {
	ID            uint64    // ai_analyses.id
	UserID        uint64    // ai_analyses.user_id
	ImageURL      string    // ai_analyses.image_url
	ParsedProduct *string   // ai_analyses.parsed_product (nullable)
	Purpose       *string   // ai_analyses.purpose (nullable)
	WhenToUse     *string   // ai_analyses.when_to_use (nullable)
	Compatibility *string   // ai_analyses.compatibility (nullable)
	AltSuggestion *string   // ai_analyses.alt_suggestion (nullable, JSON)
	FullResponse  string    // ai_analyses.full_response (raw model JSON)
	CreatedAt     time.Time // ai_analyses.created_at
}
