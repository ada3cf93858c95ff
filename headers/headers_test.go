package headers

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFieldLine(t *testing.T) {
	testCases := []struct {
		name    string
		lines   []string
		key     string
		want    string
		wantErr bool
	}{
		{"single", []string{"Host: localhost:42069"}, "host", "localhost:42069", false},
		{"extra whitespace", []string{"Host:   localhost:42069   "}, "Host", "localhost:42069", false},
		{"leading whitespace", []string{"   Host: localhost"}, "HOST", "localhost", false},
		{"repeated field", []string{"Accept: text/html", "Accept: application/json"}, "accept", "text/html, application/json", false},
		{"empty line", []string{""}, "", "", true},
		{"space before colon", []string{"Host : localhost"}, "", "", true},
		{"non token name", []string{"H©st: localhost"}, "", "", true},
		{"folded value", []string{" part2"}, "", "", true},
		{"control char in value", []string{"X-Bad: a\x07b"}, "", "", true},
		{"null in value", []string{"X-Bad: a\x00b"}, "", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHeaders()
			var err error
			for _, line := range tc.lines {
				if err = h.ParseFieldLine([]byte(line)); err != nil {
					break
				}
			}
			if tc.wantErr {
				require.ErrorIs(t, err, ErrMalformedHeader)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, h.Get(tc.key))
		})
	}
}

func TestHeadersMethods(t *testing.T) {
	t.Run("Add, Set and Get", func(t *testing.T) {
		h := NewHeaders()
		h.Add("X-Custom", "one")
		h.Add("x-custom", "two")
		assert.Equal(t, "one, two", h.Get("X-CUSTOM"))

		h.Set("X-Custom", "three")
		assert.Equal(t, "three", h.Get("x-custom"))

		h.Add("Empty", "")
		assert.True(t, h.Has("empty"))
		assert.False(t, h.Has("missing"))
	})

	t.Run("invalid fields are dropped", func(t *testing.T) {
		h := NewHeaders()
		h.Add("Bad Name", "v")
		h.Set("X-Split", "a\r\nInjected: 1")
		assert.Equal(t, 0, h.Size())
	})

	t.Run("Remove and Size", func(t *testing.T) {
		h := NewHeaders()
		h.Add("A", "1")
		h.Add("B", "2")
		h.Add("A", "3")
		assert.Equal(t, 2, h.Size())

		h.Remove("a")
		h.Remove("missing")
		assert.Equal(t, 1, h.Size())
		assert.Equal(t, "", h.Get("A"))
	})

	t.Run("All is ordered", func(t *testing.T) {
		h := NewHeaders()
		h.Add("Zeta", "z")
		h.Add("alpha", "a")
		h.Add("Mid", "m")

		keys := slices.Collect(maps.Keys(maps.Collect(h.All())))
		slices.Sort(keys)
		var ordered []string
		for k := range h.All() {
			ordered = append(ordered, k)
		}
		assert.Equal(t, keys, ordered)
	})

	t.Run("Clone is independent", func(t *testing.T) {
		h := NewHeaders()
		h.Add("A", "1")
		c := h.Clone()
		c.Set("A", "2")
		assert.Equal(t, "1", h.Get("A"))
		assert.Equal(t, "2", c.Get("A"))
	})
}
