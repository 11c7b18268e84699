package claim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilerun/territory-backend-go/internal/models"
)

func TestResolveFirstClaim(t *testing.T) {
	result := Resolve([]string{"wx4g0ec"}, "U1", map[string]models.TileOwnership{})

	require.Len(t, result.Updates, 1)
	assert.Equal(t, models.TileUpdate{
		TileID:   "wx4g0ec",
		OwnerID:  "U1",
		Strength: 1,
		Flipped:  true,
	}, result.Updates[0])
}

func TestResolveReinforceOwnTile(t *testing.T) {
	snapshot := map[string]models.TileOwnership{
		"wx4g0ec": {TileID: "wx4g0ec", OwnerID: "U1", Strength: 3},
	}

	result := Resolve([]string{"wx4g0ec"}, "U1", snapshot)

	require.Len(t, result.Updates, 1)
	assert.Equal(t, models.TileUpdate{
		TileID:   "wx4g0ec",
		OwnerID:  "U1",
		Strength: 4,
		Flipped:  false,
	}, result.Updates[0])
}

func TestResolveContestFlipsAtZero(t *testing.T) {
	snapshot := map[string]models.TileOwnership{
		"wx4g0ec": {TileID: "wx4g0ec", OwnerID: "U1", Strength: 1},
	}

	result := Resolve([]string{"wx4g0ec"}, "U2", snapshot)

	require.Len(t, result.Updates, 1)
	assert.Equal(t, models.TileUpdate{
		TileID:   "wx4g0ec",
		OwnerID:  "U2",
		Strength: 1,
		Flipped:  true,
	}, result.Updates[0])
}

func TestResolveContestWeakensDefender(t *testing.T) {
	snapshot := map[string]models.TileOwnership{
		"wx4g0ec": {TileID: "wx4g0ec", OwnerID: "U1", Strength: 2},
	}

	result := Resolve([]string{"wx4g0ec"}, "U2", snapshot)

	require.Len(t, result.Updates, 1)
	// The surviving owner's reduced holding is reported, not the claimant's
	assert.Equal(t, models.TileUpdate{
		TileID:   "wx4g0ec",
		OwnerID:  "U1",
		Strength: 1,
		Flipped:  false,
	}, result.Updates[0])
}

func TestResolveZeroStrengthRowIsUnclaimed(t *testing.T) {
	// A persisted row at strength 0 is equivalent to an absent row
	snapshot := map[string]models.TileOwnership{
		"wx4g0ec": {TileID: "wx4g0ec", OwnerID: "", Strength: 0},
	}

	result := Resolve([]string{"wx4g0ec"}, "U2", snapshot)

	require.Len(t, result.Updates, 1)
	assert.Equal(t, "U2", result.Updates[0].OwnerID)
	assert.Equal(t, 1, result.Updates[0].Strength)
	assert.True(t, result.Updates[0].Flipped)
}

func TestResolvePreservesDiscoveryOrder(t *testing.T) {
	touched := []string{"wx4g0ec", "wx4g0ef", "wx4g0e9"}
	snapshot := map[string]models.TileOwnership{
		"wx4g0ef": {TileID: "wx4g0ef", OwnerID: "U1", Strength: 5},
	}

	result := Resolve(touched, "U2", snapshot)

	require.Len(t, result.Updates, 3)
	assert.Equal(t, touched, result.TouchedTiles)
	for i, u := range result.Updates {
		assert.Equal(t, touched[i], u.TileID)
	}

	flipped := result.FlippedTiles()
	assert.Equal(t, []string{"wx4g0ec", "wx4g0e9"}, flipped)
}

func TestResolveDoesNotMutateSnapshot(t *testing.T) {
	snapshot := map[string]models.TileOwnership{
		"wx4g0ec": {TileID: "wx4g0ec", OwnerID: "U1", Strength: 2},
	}

	Resolve([]string{"wx4g0ec"}, "U2", snapshot)

	assert.Equal(t, 2, snapshot["wx4g0ec"].Strength)
	assert.Equal(t, "U1", snapshot["wx4g0ec"].OwnerID)
}
