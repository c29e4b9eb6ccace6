package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-cost/core/engine"
	"fleet-cost/core/inventory"
	"fleet-cost/core/types"
)

func testServer() *Server {
	fleet := []types.Instance{
		{Region: "us-east-1", InstanceID: "i-123", Type: "m5.large", State: "running",
			LaunchTime: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
			Tags:       map[string]string{"Team": "web"}},
		{Region: "eu-west-1", InstanceID: "i-0eu001", Type: "c5.xlarge", State: "running",
			LaunchTime: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
			Tags:       map[string]string{"Team": "data-eng"}},
		{Region: "us-west-2", InstanceID: "i-0not01", Type: "r5.large", State: "running",
			LaunchTime: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)},
	}
	eng := engine.New(inventory.NewStaticSource(fleet),
		engine.WithReference(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)))
	return NewServer(eng, "test")
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), into))
}

func TestHealth(t *testing.T) {
	rec := do(t, testServer(), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestVersionReportsReferenceDate(t *testing.T) {
	rec := do(t, testServer(), http.MethodGet, "/version", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Version   string `json:"version"`
		Reference string `json:"reference"`
	}
	decode(t, rec, &body)
	assert.Equal(t, "test", body.Version)
	assert.Equal(t, "2025-12-01", body.Reference)
}

func TestCostsQuery(t *testing.T) {
	body := `{
		"start": "2025-09-01",
		"end": "2025-09-03",
		"granularity": "DAILY",
		"groupBy": ["REGION"]
	}`
	rec := do(t, testServer(), http.MethodPost, "/api/v1/costs", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Periods []types.PeriodResult `json:"periods"`
		Meta    responseMeta         `json:"meta"`
	}
	decode(t, rec, &resp)
	require.Len(t, resp.Periods, 2)
	for _, p := range resp.Periods {
		assert.Greater(t, p.Total.Amount, 0.0)
		assert.Equal(t, "USD", p.Total.Unit)
		assert.NotEmpty(t, p.Groups)
	}
}

func TestCostsQueryWithFilter(t *testing.T) {
	body := `{
		"start": "2025-09-01",
		"end": "2025-09-03",
		"groupBy": ["REGION"],
		"filter": {"dimension": {"key": "REGION", "values": ["eu-west-1"]}}
	}`
	rec := do(t, testServer(), http.MethodPost, "/api/v1/costs", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Periods []types.PeriodResult `json:"periods"`
	}
	decode(t, rec, &resp)
	for _, p := range resp.Periods {
		for _, g := range p.Groups {
			assert.Equal(t, "eu-west-1", g.Keys[0])
		}
	}
}

func TestCostsRejectsUnknownFilterDimension(t *testing.T) {
	body := `{
		"start": "2025-09-01",
		"end": "2025-09-03",
		"filter": {"dimension": {"key": "SERVICE", "values": ["AmazonEC2"]}}
	}`
	rec := do(t, testServer(), http.MethodPost, "/api/v1/costs", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorEnvelope
	decode(t, rec, &resp)
	assert.Equal(t, "FILTER_ERROR", resp.Error.Type)
}

func TestCostsRejectsAmbiguousFilterNode(t *testing.T) {
	body := `{
		"start": "2025-09-01",
		"end": "2025-09-03",
		"filter": {
			"dimension": {"key": "REGION", "values": ["us-east-1"]},
			"tag": {"key": "Team"}
		}
	}`
	rec := do(t, testServer(), http.MethodPost, "/api/v1/costs", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCostsRejectsMissingDates(t *testing.T) {
	rec := do(t, testServer(), http.MethodPost, "/api/v1/costs", `{"start": "2025-09-01"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummaryEndpoint(t *testing.T) {
	rec := do(t, testServer(), http.MethodGet,
		"/api/v1/costs/summary?start=2025-09-01&end=2025-09-08", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp engine.SummaryResult
	decode(t, rec, &resp)
	assert.Len(t, resp.Periods, 7)
	assert.Greater(t, resp.Total.Amount, 0.0)
}

func TestSummaryRequiresRange(t *testing.T) {
	rec := do(t, testServer(), http.MethodGet, "/api/v1/costs/summary", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBreakdownEndpoint(t *testing.T) {
	rec := do(t, testServer(), http.MethodGet,
		"/api/v1/costs/breakdown?start=2025-09-01&end=2025-09-03&groupBy=TAG:Team", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp engine.BreakdownResult
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.Rows)

	values := map[string]bool{}
	for _, row := range resp.Rows {
		values[row.Keys[0]] = true
	}
	assert.True(t, values["web"])
	assert.True(t, values[types.UntaggedKey], "untagged instance must appear as %s", types.UntaggedKey)
}

func TestAttributionEndpointIdentity(t *testing.T) {
	rec := do(t, testServer(), http.MethodGet,
		"/api/v1/costs/attribution?start=2025-09-01&end=2025-09-08&tagKey=Team", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp engine.AttributionResult
	decode(t, rec, &resp)
	assert.Equal(t, "Team", resp.TagKey)
	assert.InDelta(t, resp.Total.Amount,
		resp.Attributed.Amount+resp.Unaccounted.Amount, 1e-5)
	assert.Greater(t, resp.Unaccounted.Amount, 0.0, "the untagged instance is unaccounted")
	assert.Less(t, resp.CoveragePercent, 100.0)
}

func TestAttributionRequiresTagKey(t *testing.T) {
	rec := do(t, testServer(), http.MethodGet,
		"/api/v1/costs/attribution?start=2025-09-01&end=2025-09-08", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDimensionValuesEndpoint(t *testing.T) {
	rec := do(t, testServer(), http.MethodGet,
		"/api/v1/dimensions/region?start=2025-09-01&end=2025-09-08", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Values []string `json:"values"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, []string{"eu-west-1", "us-east-1", "us-west-2"}, resp.Values)
}

func TestDimensionValuesUnknownKey(t *testing.T) {
	rec := do(t, testServer(), http.MethodGet,
		"/api/v1/dimensions/service?start=2025-09-01&end=2025-09-08", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTagValuesEndpoint(t *testing.T) {
	rec := do(t, testServer(), http.MethodGet, "/api/v1/tags/Team", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Values []string `json:"values"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, []string{"data-eng", "web"}, resp.Values)
}
