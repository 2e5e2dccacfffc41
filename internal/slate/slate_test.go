package slate

import (
	"testing"

	"github.com/Falloutization/royalty/pkg/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlate_SetGet(t *testing.T) {
	s := New()

	_, ok := s.Get("asker")
	assert.False(t, ok)

	s.Set("asker", "Empire")
	v, ok := s.Get("asker")
	require.True(t, ok)
	assert.Equal(t, "Empire", v)
	assert.True(t, s.Exists("asker"))

	_, ok = s.Get("")
	assert.False(t, ok, "empty key is never set")
}

func TestSlate_TypedGetters(t *testing.T) {
	s := FromMap(map[string]any{
		"acceptColonists": true,
		"permitShuttle":   "true",
		"minAge":          "14",
		"requireCount":    int64(2),
		"overrideMass":    250,
		"faction":         &core.Faction{ID: 1},
	})

	tests := []struct {
		name string
		got  func() (any, bool)
		want any
		ok   bool
	}{
		{"bool", func() (any, bool) { return s.GetBool("acceptColonists") }, true, true},
		{"bool from string", func() (any, bool) { return s.GetBool("permitShuttle") }, true, true},
		{"bool unset", func() (any, bool) { return s.GetBool("acceptChildren") }, false, false},
		{"bool wrong type", func() (any, bool) { return s.GetBool("faction") }, false, false},
		{"int from string", func() (any, bool) { return s.GetInt("minAge") }, 14, true},
		{"int from int64", func() (any, bool) { return s.GetInt("requireCount") }, 2, true},
		{"float from int", func() (any, bool) { return s.GetFloat("overrideMass") }, 250.0, true},
		{"float unset", func() (any, bool) { return s.GetFloat("nope") }, 0.0, false},
		{"string from bool", func() (any, bool) { return s.GetString("acceptColonists") }, "true", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.got()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookup(t *testing.T) {
	faction := &core.Faction{ID: 3, Name: "Outlanders"}
	pawns := []*core.Pawn{{ID: 1}, {ID: 2}}
	s := FromMap(map[string]any{"faction": faction, "pawns": pawns})

	f, ok := Lookup[*core.Faction](s, "faction")
	require.True(t, ok)
	assert.Same(t, faction, f)

	p, ok := Lookup[[]*core.Pawn](s, "pawns")
	require.True(t, ok)
	assert.Len(t, p, 2)

	_, ok = Lookup[*core.Thing](s, "faction")
	assert.False(t, ok, "wrong type")

	_, ok = Lookup[*core.Faction](s, "missing")
	assert.False(t, ok)
}
