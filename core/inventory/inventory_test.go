package inventory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-cost/core/types"
	"fleet-cost/internal/errors"
)

func TestFileSourceLoadsInventory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	payload := `[
		{
			"region": "us-east-1",
			"instanceId": "i-123",
			"type": "m5.large",
			"state": "running",
			"launchTime": "2025-08-01T00:00:00Z",
			"tags": {"Team": "web"}
		}
	]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	instances, err := NewFileSource(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, instances, 1)

	inst := instances[0]
	assert.Equal(t, "i-123", inst.InstanceID)
	assert.Equal(t, "m5.large", inst.Type)
	assert.True(t, inst.IsRunning())
	assert.Equal(t, "web", inst.Tag("Team"))
}

func TestFileSourceMissingFile(t *testing.T) {
	_, err := NewFileSource("/nonexistent/inventory.json").Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInventory), "got %v", err)
}

func TestFileSourceMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileSource(path).Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInventory), "got %v", err)
}

func TestStaticSourceReturnsFixedFleet(t *testing.T) {
	fleet := []types.Instance{{InstanceID: "i-abc", Type: "t3.large"}}
	got, err := NewStaticSource(fleet).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fleet, got)
}

func TestSyntheticSourceIsDeterministic(t *testing.T) {
	base := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

	first, err := NewSyntheticSource(40, "fleet", base).Load(context.Background())
	require.NoError(t, err)
	second, err := NewSyntheticSource(40, "fleet", base).Load(context.Background())
	require.NoError(t, err)

	require.Equal(t, first, second, "same count and namespace must yield the same fleet")
	require.Len(t, first, 40)

	ids := map[string]bool{}
	for _, inst := range first {
		assert.False(t, ids[inst.InstanceID], "duplicate id %s", inst.InstanceID)
		ids[inst.InstanceID] = true

		assert.True(t, inst.LaunchTime.Before(base))
		assert.False(t, inst.LaunchTime.Before(base.AddDate(0, 0, -90)))
		assert.Contains(t, syntheticRegions, inst.Region)
		assert.Contains(t, syntheticTypes, inst.Type)
	}
}

func TestSyntheticNamespacesAreIndependent(t *testing.T) {
	base := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

	a, err := NewSyntheticSource(10, "alpha", base).Load(context.Background())
	require.NoError(t, err)
	b, err := NewSyntheticSource(10, "beta", base).Load(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, a[0].InstanceID, b[0].InstanceID)
}
