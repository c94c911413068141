package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"single segment", "11", false},
		{"two segments", "1.22", false},
		{"many segments", "1.2.3.4.5", false},
		{"leading zeros", "01.002", false},
		{"empty", "", true},
		{"trailing dot", "1.", true},
		{"leading dot", ".1", true},
		{"double dot", "1..2", true},
		{"letters", "1.2a", true},
		{"prefix", "v1.2", true},
		{"negative", "-1", true},
		{"spaces", " 1.2", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseVersion(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidVersionFormat)
				assert.True(t, v.IsZero())

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.input, v.String())
		})
	}
}

func TestVersionCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"7", "11", -1},
		{"11", "7", 1},
		{"1.2", "1.2.0", 0},
		{"11", "11.0", 0},
		{"11.2", "11", 1},
		{"1.9", "1.10", -1},
		{"1.22", "1.21.9", 1},
		{"2", "1.99.99", 1},
		{"1.0.0.1", "1", 1},
		{"010", "10", 0},
	}

	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			a := MustParseVersion(tt.a)
			b := MustParseVersion(tt.b)

			assert.Equal(t, tt.want, a.Compare(b))
			assert.Equal(t, -tt.want, b.Compare(a), "antisymmetric")
			assert.Equal(t, tt.want == 0, a.Equal(b))
			assert.Equal(t, tt.want < 0, a.Less(b))
		})
	}
}

func TestVersionTotalOrder(t *testing.T) {
	raw := []string{"1", "1.0", "1.0.1", "1.2", "1.10", "2", "7", "11", "11.0.0", "11.2"}

	versions := make([]Version, 0, len(raw))
	for _, r := range raw {
		versions = append(versions, MustParseVersion(r))
	}

	for _, a := range versions {
		assert.Equal(t, 0, a.Compare(a), "reflexive %s", a)

		for _, b := range versions {
			for _, c := range versions {
				if a.Compare(b) <= 0 && b.Compare(c) <= 0 {
					assert.LessOrEqual(t, a.Compare(c), 0, "transitive %s <= %s <= %s", a, b, c)
				}
			}
		}
	}
}

func TestMustParseVersionPanics(t *testing.T) {
	assert.Panics(t, func() { MustParseVersion("x.y") })
}

func TestMinVersion(t *testing.T) {
	assert.True(t, MinVersion().IsZero())

	lowest := MinVersion(MustParseVersion("15"), MustParseVersion("4"), MustParseVersion("11"))
	assert.Equal(t, "4", lowest.String())
}

func TestVersionTextRoundTrip(t *testing.T) {
	var payload struct {
		Target Version `json:"target"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"target":"1.22"}`), &payload))
	assert.True(t, payload.Target.Equal(MustParseVersion("1.22.0")))

	err := json.Unmarshal([]byte(`{"target":"1.x"}`), &payload)
	require.ErrorIs(t, err, ErrInvalidVersionFormat)
}
