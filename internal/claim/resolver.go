package claim

import "github.com/tilerun/territory-backend-go/internal/models"

// Resolve applies a claim's touched tiles against one consistent ownership
// snapshot and returns the resulting ownership deltas. It is a pure function:
// the snapshot is never mutated and no tile interacts with another, so the
// processing order (touched-tile discovery order) only determines the order
// of the returned updates.
//
// Per tile:
//   - unclaimed: the claimant takes it at strength 1 (flipped)
//   - owned by the claimant: strength rises by 1 (no upper bound)
//   - owned by a rival: the rival's strength drops by 1; at zero the tile
//     transfers to the claimant at strength 1 (flipped), otherwise the
//     rival's reduced holding is reported
func Resolve(touchedTiles []string, claimantID string, snapshot map[string]models.TileOwnership) models.ClaimResult {
	result := models.ClaimResult{
		TouchedTiles: touchedTiles,
		Updates:      make([]models.TileUpdate, 0, len(touchedTiles)),
	}

	for _, tileID := range touchedTiles {
		current, exists := snapshot[tileID]

		var update models.TileUpdate
		switch {
		case !exists || current.Unclaimed():
			update = models.TileUpdate{
				TileID:   tileID,
				OwnerID:  claimantID,
				Strength: 1,
				Flipped:  true,
			}

		case current.OwnerID == claimantID:
			update = models.TileUpdate{
				TileID:   tileID,
				OwnerID:  claimantID,
				Strength: current.Strength + 1,
				Flipped:  false,
			}

		default:
			remaining := current.Strength - 1
			if remaining <= 0 {
				update = models.TileUpdate{
					TileID:   tileID,
					OwnerID:  claimantID,
					Strength: 1,
					Flipped:  true,
				}
			} else {
				update = models.TileUpdate{
					TileID:   tileID,
					OwnerID:  current.OwnerID,
					Strength: remaining,
					Flipped:  false,
				}
			}
		}

		result.Updates = append(result.Updates, update)
	}

	return result
}
