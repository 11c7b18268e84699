package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tilerun/territory-backend-go/internal/models"
	"github.com/tilerun/territory-backend-go/internal/tile"
)

// ErrOwnershipConflict reports that a tile changed between the snapshot read
// and the guarded write. The caller must re-read the snapshot and re-resolve
// the claim, since resolution decisions depend on the snapshot read at call
// time.
var ErrOwnershipConflict = errors.New("repository: tile ownership changed since snapshot")

// OwnershipRepository handles database operations for tile ownership
type OwnershipRepository struct {
	db *sql.DB
}

// NewOwnershipRepository creates a new ownership repository
func NewOwnershipRepository(db *sql.DB) *OwnershipRepository {
	return &OwnershipRepository{db: db}
}

// Snapshot reads the current ownership of the given tiles. Tiles without a
// row are simply absent from the map, which resolution treats as unclaimed.
func (r *OwnershipRepository) Snapshot(tileIDs []string) (map[string]models.TileOwnership, error) {
	snapshot := make(map[string]models.TileOwnership, len(tileIDs))
	if len(tileIDs) == 0 {
		return snapshot, nil
	}

	placeholders := strings.Repeat("?,", len(tileIDs))
	placeholders = placeholders[:len(placeholders)-1]
	query := fmt.Sprintf(
		"SELECT tile_id, COALESCE(owner_id, ''), strength FROM tile_ownership WHERE tile_id IN (%s)",
		placeholders,
	)

	args := make([]interface{}, len(tileIDs))
	for i, id := range tileIDs {
		args[i] = id
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ownership snapshot: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var o models.TileOwnership
		if err := rows.Scan(&o.TileID, &o.OwnerID, &o.Strength); err != nil {
			return nil, fmt.Errorf("failed to scan ownership row: %w", err)
		}
		snapshot[o.TileID] = o
	}

	return snapshot, rows.Err()
}

// ApplyUpdates commits a claim's tile updates atomically. Every write is
// guarded against the snapshot the resolution was computed from: an existing
// row must still carry the snapshot's owner and strength, and an insert must
// not race another first claim. Any guard miss rolls the whole claim back
// and returns ErrOwnershipConflict.
func (r *OwnershipRepository) ApplyUpdates(updates []models.TileUpdate, snapshot map[string]models.TileOwnership) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	updateStmt, err := tx.Prepare(`
		UPDATE tile_ownership
		SET owner_id = ?, strength = ?, flip_count = flip_count + ?, updated_at = CURRENT_TIMESTAMP
		WHERE tile_id = ? AND COALESCE(owner_id, '') = ? AND strength = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare update: %w", err)
	}
	defer updateStmt.Close()

	insertStmt, err := tx.Prepare(`
		INSERT INTO tile_ownership (tile_id, owner_id, strength, flip_count, center_lat, center_lng)
		VALUES (?, ?, ?, 1, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer insertStmt.Close()

	for _, u := range updates {
		prev, exists := snapshot[u.TileID]
		if exists {
			flipDelta := 0
			if u.Flipped {
				flipDelta = 1
			}
			res, err := updateStmt.Exec(u.OwnerID, u.Strength, flipDelta, u.TileID, prev.OwnerID, prev.Strength)
			if err != nil {
				return fmt.Errorf("failed to update tile %s: %w", u.TileID, err)
			}
			affected, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to read rows affected: %w", err)
			}
			if affected == 0 {
				return ErrOwnershipConflict
			}
			continue
		}

		center, err := tile.Center(u.TileID)
		if err != nil {
			return fmt.Errorf("failed to locate tile %s: %w", u.TileID, err)
		}
		if _, err := insertStmt.Exec(u.TileID, u.OwnerID, u.Strength, center.Lat, center.Lng); err != nil {
			// A unique constraint hit means another claim created the row
			// after our snapshot
			if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "constraint") {
				return ErrOwnershipConflict
			}
			return fmt.Errorf("failed to insert tile %s: %w", u.TileID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ownership updates: %w", err)
	}
	return nil
}

// TilesInBounds retrieves currently owned tiles, optionally filtered by a
// bounding box over tile centers and by owner. Limited to 10000 tiles.
func (r *OwnershipRepository) TilesInBounds(filter models.TerritoryFilter) ([]models.TileOwnership, error) {
	query := `SELECT tile_id, COALESCE(owner_id, ''), strength FROM tile_ownership`

	conditions := []string{"strength > 0"}
	var args []interface{}

	if filter.MinLat != 0 || filter.MaxLat != 0 || filter.MinLng != 0 || filter.MaxLng != 0 {
		conditions = append(conditions, "center_lat >= ?", "center_lat <= ?", "center_lng >= ?", "center_lng <= ?")
		args = append(args, filter.MinLat, filter.MaxLat, filter.MinLng, filter.MaxLng)
	}
	if filter.OwnerID != "" {
		conditions = append(conditions, "owner_id = ?")
		args = append(args, filter.OwnerID)
	}

	query += " WHERE " + strings.Join(conditions, " AND ")
	query += " ORDER BY tile_id LIMIT 10000"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tiles: %w", err)
	}
	defer rows.Close()

	var tiles []models.TileOwnership
	for rows.Next() {
		var o models.TileOwnership
		if err := rows.Scan(&o.TileID, &o.OwnerID, &o.Strength); err != nil {
			return nil, fmt.Errorf("failed to scan tile: %w", err)
		}
		tiles = append(tiles, o)
	}

	return tiles, rows.Err()
}

// SummaryFor aggregates a user's current holdings
func (r *OwnershipRepository) SummaryFor(ownerID string) (models.TerritorySummary, error) {
	summary := models.TerritorySummary{OwnerID: ownerID}

	err := r.db.QueryRow(
		"SELECT COUNT(*), COALESCE(SUM(strength), 0) FROM tile_ownership WHERE owner_id = ? AND strength > 0",
		ownerID,
	).Scan(&summary.TilesHeld, &summary.TotalStrength)
	if err != nil {
		return summary, fmt.Errorf("failed to query territory summary: %w", err)
	}

	return summary, nil
}
