package models

// TileOwnership is the contest state of a single tile.
// OwnerID is empty iff Strength is 0 (unclaimed); absence from a snapshot
// also means unclaimed. Rows are never deleted once created — a tile that
// drops back to strength 0 keeps its row as a claim-history anchor.
type TileOwnership struct {
	TileID   string `json:"tileId" db:"tile_id"`
	OwnerID  string `json:"ownerId,omitempty" db:"owner_id"`
	Strength int    `json:"strength" db:"strength"`
}

// Unclaimed reports whether the tile currently has no owner
func (o TileOwnership) Unclaimed() bool {
	return o.OwnerID == "" || o.Strength <= 0
}

// TileUpdate is one ownership delta produced by resolving a claim.
// Flipped marks a tile whose owner changed in this operation, including a
// first claim on a previously unclaimed tile.
type TileUpdate struct {
	TileID   string `json:"tileId"`
	OwnerID  string `json:"ownerId"`
	Strength int    `json:"strength"`
	Flipped  bool   `json:"flipped"`
}

// ClaimResult is the full output of resolving one validated trace against
// an ownership snapshot. Updates follow touched-tile discovery order.
type ClaimResult struct {
	TouchedTiles []string     `json:"touchedTiles"`
	Updates      []TileUpdate `json:"updates"`
}

// FlippedTiles returns the tiles whose owner changed in this claim
func (r ClaimResult) FlippedTiles() []string {
	var tiles []string
	for _, u := range r.Updates {
		if u.Flipped {
			tiles = append(tiles, u.TileID)
		}
	}
	return tiles
}

// TerritoryFilter selects tiles for territory queries
type TerritoryFilter struct {
	MinLat  float64 `form:"minLat"`
	MaxLat  float64 `form:"maxLat"`
	MinLng  float64 `form:"minLng"`
	MaxLng  float64 `form:"maxLng"`
	OwnerID string  `form:"ownerId"`
}

// TerritorySummary aggregates a user's current holdings
type TerritorySummary struct {
	OwnerID       string `json:"ownerId"`
	TilesHeld     int    `json:"tilesHeld"`
	TotalStrength int    `json:"totalStrength"`
}
