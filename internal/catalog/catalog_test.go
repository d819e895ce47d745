package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoriesAreUniqueAndComplete(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range All() {
		require.NotEmpty(t, c.ID)
		assert.False(t, seen[c.ID], "duplicate id %s", c.ID)
		seen[c.ID] = true
		assert.NotEmpty(t, c.StatPath, c.ID)
		assert.NotEmpty(t, c.DetailKey, c.ID)
		assert.NotEmpty(t, c.TitleFa, c.ID)
		assert.Greater(t, c.Defaults.Daily, 0.0, c.ID)
	}
	assert.Equal(t, IDs()[0], "traffic-deaths")
	assert.Len(t, IDs(), len(All()))
}

func TestLookup(t *testing.T) {
	c, ok := Lookup("pollution-deaths")
	require.True(t, ok)
	assert.Equal(t, []string{"air_pollution", "deaths"}, c.StatPath)
	assert.Equal(t, "air_pollution_deaths", c.DetailKey)
	assert.True(t, c.Comparable)

	_, ok = Lookup("missing")
	assert.False(t, ok)
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	all[0].ID = "changed"
	assert.Equal(t, "traffic-deaths", All()[0].ID)
}

func TestDefaultStatistics(t *testing.T) {
	stats := DefaultStatistics()
	require.Len(t, stats, len(IDs()))
	assert.Equal(t, "traffic-deaths", stats[0].ID)
	assert.Equal(t, 60.0, stats[0].Daily)
	assert.Equal(t, 1800.0, stats[0].Monthly)
	assert.Equal(t, int64(0), stats[0].Current)
}

func TestJurisdictionNameFa(t *testing.T) {
	assert.Equal(t, "آلمان", JurisdictionNameFa("Germany"))
	assert.Equal(t, "Canada", JurisdictionNameFa("Canada"))
}
