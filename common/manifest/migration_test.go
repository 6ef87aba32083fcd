package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func step(from, to, name string) Migration {
	return Migration{From: mustDataVersion(from), To: mustDataVersion(to), Name: name}
}

func names(path []Migration) []string {
	out := make([]string, len(path))
	for i, m := range path {
		out[i] = m.Name
	}
	return out
}

func TestMigrationPath(t *testing.T) {
	steps := []Migration{
		step("1.0", "1.1", "hop-1.1"),
		step("1.1", "1.2", "hop-1.2"),
		step("1.2", "1.1", "back-1.1"),
		step("1.1", "1.0", "back-1.0"),
		step("1.2", "1.0", "back-direct"),
	}

	tests := []struct {
		name     string
		from, to string
		want     []string
	}{
		{"SingleHop", "1.0", "1.1", []string{"hop-1.1"}},
		{"TwoHopsForward", "1.0", "1.2", []string{"hop-1.1", "hop-1.2"}},
		{"BackwardPrefersDirect", "1.2", "1.0", []string{"back-direct"}},
		{"BackwardSingle", "1.2", "1.1", []string{"back-1.1"}},
		{"SameVersion", "1.1", "1.1", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := MigrationPath(mustDataVersion(tt.from), mustDataVersion(tt.to), steps)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, path)
				return
			}
			assert.Equal(t, tt.want, names(path))
		})
	}
}

func TestMigrationPathPrefersLongestStride(t *testing.T) {
	// Two ways forward from 1.0; the farther-reaching step wins at each hop.
	steps := []Migration{
		step("1.0", "1.1", "short"),
		step("1.0", "1.2", "long"),
		step("1.2", "1.3", "tail"),
	}
	path, err := MigrationPath(mustDataVersion("1.0"), mustDataVersion("1.3"), steps)
	require.NoError(t, err)
	assert.Equal(t, []string{"long", "tail"}, names(path))
}

func TestMigrationPathIgnoresOvershoot(t *testing.T) {
	// The 1.0 -> 1.3 step overshoots a 1.2 target and must not be taken.
	steps := []Migration{
		step("1.0", "1.3", "too-far"),
		step("1.0", "1.1", "ok-1"),
		step("1.1", "1.2", "ok-2"),
	}
	path, err := MigrationPath(mustDataVersion("1.0"), mustDataVersion("1.2"), steps)
	require.NoError(t, err)
	assert.Equal(t, []string{"ok-1", "ok-2"}, names(path))
}

func TestMigrationPathDisconnected(t *testing.T) {
	steps := []Migration{
		step("1.0", "1.1", "hop-1.1"),
		// Nothing connects 1.1 to 2.0.
		step("2.0", "2.1", "hop-2.1"),
	}
	_, err := MigrationPath(mustDataVersion("1.0"), mustDataVersion("2.1"), steps)
	assert.ErrorIs(t, err, ErrNoMigrationPath)

	// Wrong direction only: forward target with only backward steps.
	_, err = MigrationPath(mustDataVersion("1.1"), mustDataVersion("1.2"), []Migration{step("1.1", "1.0", "down")})
	assert.ErrorIs(t, err, ErrNoMigrationPath)
}

func TestMigrationString(t *testing.T) {
	assert.Equal(t, "hop-1.1 (1.0 -> 1.1)", step("1.0", "1.1", "hop-1.1").String())
}
