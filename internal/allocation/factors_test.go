package allocation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTables_Resolve(t *testing.T) {
	tables := DefaultTables()

	t.Run("known keys", func(t *testing.T) {
		m, err := tables.Resolve("hotel", "elegant", "summer")
		require.NoError(t, err)
		assert.Equal(t, 1.2, m.Venue)
		assert.Equal(t, 1.2, m.Season)
		assert.Equal(t, 1.3, m.Style.Multiplier("dress"))
		assert.Equal(t, 1.0, m.Style.Multiplier("rings"))
	})

	t.Run("keys are case insensitive", func(t *testing.T) {
		m, err := tables.Resolve(" Hotel", "ELEGANT", "Summer ")
		require.NoError(t, err)
		assert.Equal(t, 1.2, m.Venue)
	})

	t.Run("unknown venue falls back to neutral", func(t *testing.T) {
		m, err := tables.Resolve("igloo", "elegant", "summer")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrConfigNotFound))

		var notFound *ConfigNotFoundError
		require.True(t, errors.As(err, &notFound))
		assert.Equal(t, KindVenueType, notFound.Kind)
		assert.Equal(t, "igloo", notFound.Key)

		assert.Equal(t, 1.0, m.Venue)
		assert.Equal(t, 1.2, m.Season)
	})

	t.Run("every miss is reported", func(t *testing.T) {
		m, err := tables.Resolve("igloo", "gothic", "monsoon")
		require.Error(t, err)
		assert.Equal(t, NeutralMultipliers(), m)
		assert.Contains(t, err.Error(), `venue_type "igloo"`)
		assert.Contains(t, err.Error(), `style "gothic"`)
		assert.Contains(t, err.Error(), `season "monsoon"`)
	})
}

func TestTables_SingleLookups(t *testing.T) {
	tables := DefaultTables()

	v, err := tables.VenueMultiplier("castle")
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)

	_, err = tables.SeasonMultiplier("")
	assert.ErrorIs(t, err, ErrConfigNotFound)

	p, err := tables.StyleProfile("classic")
	require.NoError(t, err)
	assert.Empty(t, p)
}
