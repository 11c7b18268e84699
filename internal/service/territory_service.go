package service

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/tilerun/territory-backend-go/internal/models"
	"github.com/tilerun/territory-backend-go/internal/tile"
)

// TerritoryStore is the read-side persistence contract for territory queries
type TerritoryStore interface {
	TilesInBounds(filter models.TerritoryFilter) ([]models.TileOwnership, error)
	SummaryFor(ownerID string) (models.TerritorySummary, error)
}

// TerritoryService answers territory queries over the ownership table
type TerritoryService struct {
	store TerritoryStore
}

// NewTerritoryService creates a new territory service
func NewTerritoryService(store TerritoryStore) *TerritoryService {
	return &TerritoryService{store: store}
}

// GetTiles retrieves currently owned tiles matching the filter
func (s *TerritoryService) GetTiles(filter models.TerritoryFilter) ([]models.TileOwnership, error) {
	return s.store.TilesInBounds(filter)
}

// GetTilesGeoJSON retrieves owned tiles as a GeoJSON FeatureCollection of
// tile polygons, with owner and strength as feature properties
func (s *TerritoryService) GetTilesGeoJSON(filter models.TerritoryFilter) (*geojson.FeatureCollection, error) {
	tiles, err := s.store.TilesInBounds(filter)
	if err != nil {
		return nil, err
	}

	fc := geojson.NewFeatureCollection()
	for _, t := range tiles {
		ring, err := tile.Polygon(t.TileID)
		if err != nil {
			return nil, fmt.Errorf("stored tile %s is invalid: %w", t.TileID, err)
		}

		feature := geojson.NewFeature(orb.Polygon{ring})
		feature.ID = t.TileID
		feature.Properties["tileId"] = t.TileID
		feature.Properties["ownerId"] = t.OwnerID
		feature.Properties["strength"] = t.Strength
		fc.Append(feature)
	}

	return fc, nil
}

// GetSummary aggregates a user's current holdings
func (s *TerritoryService) GetSummary(ownerID string) (models.TerritorySummary, error) {
	return s.store.SummaryFor(ownerID)
}
