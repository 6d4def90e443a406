package uuid

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	id := New()
	assert.True(t, IsValid(id))
	assert.Equal(t, byte('7'), id[14], "version nibble")

	created, ok := CreatedAt(id)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now(), created, 5*time.Second)
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := New()
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestParse(t *testing.T) {
	id := New()

	got, err := Parse(strings.ToUpper(id))
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = Parse("not-a-uuid")
	assert.Error(t, err)
	assert.False(t, IsValid(""))
}

func TestCreatedAt_RejectsV4(t *testing.T) {
	_, ok := CreatedAt("3f2b8c1e-4d5a-4b6c-9d7e-8f9a0b1c2d3e")
	assert.False(t, ok)

	_, ok = CreatedAt("garbage")
	assert.False(t, ok)
}
