package service

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/tilerun/territory-backend-go/internal/anticheat"
	"github.com/tilerun/territory-backend-go/internal/claim"
	"github.com/tilerun/territory-backend-go/internal/models"
	"github.com/tilerun/territory-backend-go/internal/repository"
)

// maxResolveAttempts bounds the re-resolve loop when a concurrent claim
// invalidates our snapshot
const maxResolveAttempts = 3

// OwnershipStore is the persistence contract for tile ownership
type OwnershipStore interface {
	Snapshot(tileIDs []string) (map[string]models.TileOwnership, error)
	ApplyUpdates(updates []models.TileUpdate, snapshot map[string]models.TileOwnership) error
}

// TraceStore is the persistence contract for submitted traces
type TraceStore interface {
	Save(trace models.Trace, verdict models.Verdict) error
}

// ClaimService runs the full run-to-territory pipeline: validate the trace,
// buffer it into a claim polygon, resolve the touched tiles against a
// consistent ownership snapshot, and commit the deltas with per-tile
// optimistic guards.
type ClaimService struct {
	ownership OwnershipStore
	traces    TraceStore
}

// NewClaimService creates a new claim service
func NewClaimService(ownership OwnershipStore, traces TraceStore) *ClaimService {
	return &ClaimService{ownership: ownership, traces: traces}
}

// SubmitTrace processes one submitted activity for the given user. The
// verdict is always returned; the claim result is nil when validation
// rejected the trace. Rejected traces are persisted too, for audit.
func (s *ClaimService) SubmitTrace(userID string, sub models.TraceSubmission) (models.Verdict, *models.ClaimResult, error) {
	trace := models.Trace{
		ID:       uuid.NewString(),
		UserID:   userID,
		Activity: models.ActivityType(sub.ActivityType),
		Samples:  sub.Samples,
	}

	// Fail fast: no geometry work is spent on invalid traces
	verdict := anticheat.Validate(trace)
	if !verdict.Valid {
		if err := s.traces.Save(trace, verdict); err != nil {
			return verdict, nil, fmt.Errorf("failed to persist rejected trace: %w", err)
		}
		log.Printf("[ClaimService] Rejected trace %s (user=%s, errors=%v)", trace.ID, userID, verdict.Errors)
		return verdict, nil, nil
	}

	shape := claim.BuildShape(trace)

	result, err := s.resolveWithRetry(shape.TouchedTiles, userID)
	if err != nil {
		return verdict, nil, err
	}

	if err := s.traces.Save(trace, verdict); err != nil {
		return verdict, nil, fmt.Errorf("failed to persist trace: %w", err)
	}

	log.Printf("[ClaimService] Trace %s claimed %d tiles (%d flipped) for user %s",
		trace.ID, len(result.TouchedTiles), len(result.FlippedTiles()), userID)
	return verdict, result, nil
}

// DryRunValidate runs validation only, without touching ownership or storage
func (s *ClaimService) DryRunValidate(userID string, sub models.TraceSubmission) models.Verdict {
	return anticheat.Validate(models.Trace{
		UserID:   userID,
		Activity: models.ActivityType(sub.ActivityType),
		Samples:  sub.Samples,
	})
}

// resolveWithRetry resolves the touched tiles against a fresh snapshot,
// re-reading and re-resolving whenever a guarded commit detects that a
// concurrent claim moved one of our tiles.
func (s *ClaimService) resolveWithRetry(touched []string, claimantID string) (*models.ClaimResult, error) {
	for attempt := 1; attempt <= maxResolveAttempts; attempt++ {
		snapshot, err := s.ownership.Snapshot(touched)
		if err != nil {
			return nil, fmt.Errorf("failed to read ownership snapshot: %w", err)
		}

		result := claim.Resolve(touched, claimantID, snapshot)

		err = s.ownership.ApplyUpdates(result.Updates, snapshot)
		if err == nil {
			return &result, nil
		}
		if !errors.Is(err, repository.ErrOwnershipConflict) {
			return nil, fmt.Errorf("failed to apply ownership updates: %w", err)
		}

		log.Printf("[ClaimService] Ownership conflict on attempt %d/%d, re-resolving", attempt, maxResolveAttempts)
	}

	return nil, fmt.Errorf("claim contention: gave up after %d attempts", maxResolveAttempts)
}
