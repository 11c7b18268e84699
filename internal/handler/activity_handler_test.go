package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilerun/territory-backend-go/internal/middleware"
	"github.com/tilerun/territory-backend-go/internal/models"
	"github.com/tilerun/territory-backend-go/internal/service"
)

type memoryOwnershipStore struct {
	state map[string]models.TileOwnership
}

func (m *memoryOwnershipStore) Snapshot(tileIDs []string) (map[string]models.TileOwnership, error) {
	snapshot := make(map[string]models.TileOwnership)
	for _, id := range tileIDs {
		if o, ok := m.state[id]; ok {
			snapshot[id] = o
		}
	}
	return snapshot, nil
}

func (m *memoryOwnershipStore) ApplyUpdates(updates []models.TileUpdate, snapshot map[string]models.TileOwnership) error {
	for _, u := range updates {
		m.state[u.TileID] = models.TileOwnership{TileID: u.TileID, OwnerID: u.OwnerID, Strength: u.Strength}
	}
	return nil
}

type memoryTraceStore struct {
	saved int
}

func (m *memoryTraceStore) Save(trace models.Trace, verdict models.Verdict) error {
	m.saved = m.saved + 1
	return nil
}

func activityTestRouter(traces service.TraceStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := service.NewClaimService(&memoryOwnershipStore{state: make(map[string]models.TileOwnership)}, traces)
	h := NewActivityHandler(svc)

	r := gin.New()
	// Inject a fixed identity instead of running the JWT middleware
	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, "U1")
	})
	r.POST("/activities", h.Submit)
	r.POST("/activities/validate", h.Validate)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func runSubmission() models.TraceSubmission {
	const degPerMeterLat = 1.0 / 111194.93
	return models.TraceSubmission{
		ActivityType: "run",
		Samples: []models.GPSSample{
			{Lat: 39.9, Lng: 116.4, TimestampMs: 0},
			{Lat: 39.9 + 1000*degPerMeterLat, Lng: 116.4, TimestampMs: 300_000},
		},
	}
}

func TestSubmitValidActivity(t *testing.T) {
	traces := &memoryTraceStore{}
	r := activityTestRouter(traces)

	w := postJSON(t, r, "/activities", runSubmission())

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Verdict models.Verdict     `json:"verdict"`
			Claim   models.ClaimResult `json:"claim"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Data.Verdict.Valid)
	assert.NotEmpty(t, resp.Data.Claim.TouchedTiles)
	assert.Equal(t, 1, traces.saved)
}

func TestSubmitRejectedActivity(t *testing.T) {
	traces := &memoryTraceStore{}
	r := activityTestRouter(traces)

	// Sustained 30 m/s is a vehicle, not a run
	const degPerMeterLat = 1.0 / 111194.93
	sub := models.TraceSubmission{ActivityType: "run"}
	for i := 0; i <= 7; i++ {
		sub.Samples = append(sub.Samples, models.GPSSample{
			Lat:         39.9 + float64(i)*300*degPerMeterLat,
			Lng:         116.4,
			TimestampMs: int64(i) * 10_000,
		})
	}

	w := postJSON(t, r, "/activities", sub)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), string(models.ErrVehicleSpeedDetected))
	assert.Equal(t, 1, traces.saved, "rejected traces are persisted for audit")
}

func TestSubmitMalformedPayload(t *testing.T) {
	r := activityTestRouter(&memoryTraceStore{})

	req := httptest.NewRequest(http.MethodPost, "/activities", bytes.NewBufferString("not json"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidateDryRun(t *testing.T) {
	traces := &memoryTraceStore{}
	r := activityTestRouter(traces)

	w := postJSON(t, r, "/activities/validate", runSubmission())

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"valid":true`)
	assert.Equal(t, 0, traces.saved, "dry-run validation must not persist anything")
}
