package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/rbarbosa/glowroutine/internal/ai"
	"github.com/rbarbosa/glowroutine/internal/model"
	"github.com/rbarbosa/glowroutine/internal/queue"
	"github.com/rbarbosa/glowroutine/internal/repository"
	"github.com/rbarbosa/glowroutine/internal/storage"
)

// ScannerService analyzes product photos against the user's profile
// and promotes accepted results into products and routine items.
type ScannerService struct {
	Profiles *repository.ProfileRepo
	Products *repository.ProductRepo
	Routines *repository.RoutineRepo
	Analyses *repository.AnalysisRepo
	Blobs    storage.BlobStore
	Chat     ChatClient

	// PublicBaseURL prefixes stored photo keys so the model can fetch
	// the image over HTTP, e.g. "https://app.example.com".
	PublicBaseURL string
}

func NewScannerService(profiles *repository.ProfileRepo, products *repository.ProductRepo, routines *repository.RoutineRepo, analyses *repository.AnalysisRepo, blobs storage.BlobStore, chat ChatClient, publicBaseURL string) *ScannerService {
	return &ScannerService{
		Profiles:      profiles,
		Products:      products,
		Routines:      routines,
		Analyses:      analyses,
		Blobs:         blobs,
		Chat:          chat,
		PublicBaseURL: publicBaseURL,
	}
}

// Scan stores the uploaded image, runs the model analysis and records
// an audit row.  The audit row is written even when the reply fails to
// decode, with the raw payload preserved, so every model invocation
// remains traceable.  On decode failure the returned analysis carries
// the audit record and err unwraps to *ai.DecodeError.
func (s *ScannerService) Scan(ctx context.Context, userID uint64, mimeType string, image io.Reader) (*model.AIAnalysis, *ai.ProductAnalysis, error) {
	profile, err := s.Profiles.GetByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	key, err := s.Blobs.Save(ctx, "scans", mimeType, image)
	if err != nil {
		return nil, nil, err
	}
	imageURL := s.PublicBaseURL + "/public/photos/" + key

	raw, err := s.Chat.CompleteJSON(ctx,
		ai.ScanPrompt(profile),
		[]ai.Part{ai.TextPart(ai.ScanUserMessage), ai.ImagePart(imageURL)},
		1500)
	if err != nil {
		return nil, nil, err
	}

	result, parseErr := ai.ParseProductAnalysis(raw)

	audit := &model.AIAnalysis{
		UserID:       userID,
		ImageURL:     imageURL,
		FullResponse: raw,
	}
	if parseErr == nil {
		audit.ParsedProduct = strPtr(result.ProductName)
		audit.Purpose = strPtr(result.Purpose)
		audit.WhenToUse = strPtr(result.WhenToUse)
		audit.Compatibility = strPtr(string(result.Compatibility))
		if result.RecommendedAlternative != nil {
			if alt, err := json.Marshal(result.RecommendedAlternative); err == nil {
				audit.AltSuggestion = strPtr(string(alt))
			}
		}
	} else {
		var de *ai.DecodeError
		if errors.As(parseErr, &de) {
			audit.FullResponse = de.Raw
		}
	}
	if err := s.Analyses.Create(ctx, audit); err != nil {
		return nil, nil, err
	}
	if parseErr != nil {
		slog.Warn("scan reply failed to decode", "user_id", userID, "analysis_id", audit.ID, "error", parseErr)
		return audit, nil, parseErr
	}

	_ = queue.PublishProductScanned(ctx, queue.ProductScannedEvent{
		UserID:      userID,
		AnalysisID:  audit.ID,
		ProductName: result.ProductName,
		Verdict:     string(result.Compatibility),
		ScannedAt:   time.Now().UTC().Format(time.RFC3339),
	})
	slog.Info("product scanned", "user_id", userID, "analysis_id", audit.ID, "verdict", result.Compatibility)
	return audit, result, nil
}

// AddToRoutine promotes an audited scan into an owned product plus a
// routine item appended to today's matching slot.  Products the model
// marked "avoid" are refused.  "both" products land in the morning
// routine.
func (s *ScannerService) AddToRoutine(ctx context.Context, userID, analysisID uint64) (*model.RoutineItem, error) {
	audit, err := s.Analyses.GetByID(ctx, userID, analysisID)
	if err != nil {
		return nil, err
	}
	result, err := ai.ParseProductAnalysis(audit.FullResponse)
	if err != nil {
		return nil, ErrAnalysisUnusable
	}
	if result.Compatibility == model.SuitabilityAvoid {
		return nil, ErrAvoidProduct
	}

	suit := result.Compatibility
	product := &model.Product{
		UserID:      userID,
		Name:        result.ProductName,
		Category:    result.ProductType,
		KeyActives:  result.KeyActives,
		Notes:       strPtr(result.Purpose),
		Suitability: &suit,
	}
	productID, err := s.Products.Create(ctx, product)
	if err != nil {
		return nil, err
	}

	period := model.PeriodNight
	if result.WhenToUse == "morning" || result.WhenToUse == "both" {
		period = model.PeriodMorning
	}
	day := int(time.Now().UTC().Weekday())
	routine, err := s.Routines.GetOrCreate(ctx, userID, day, period)
	if err != nil {
		return nil, err
	}

	notes := result.Instructions
	if result.Reason != "" {
		notes += "\n\n" + result.Reason
	}
	item, err := s.Routines.AppendItem(ctx, routine.ID, &productID, result.RoutineStepType, notes)
	if err != nil {
		return nil, err
	}
	slog.Info("scan promoted to routine", "user_id", userID, "analysis_id", analysisID, "routine_id", routine.ID, "item_id", item.ID)
	return item, nil
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
