package manifest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWaveStart(t *testing.T) {
	t1 := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(24 * time.Hour)
	u := Update{Waves: []Wave{
		{Bound: 512, Start: t1},
		{Bound: 1024, Start: t2},
	}}

	tests := []struct {
		name string
		seed uint32
		want time.Time
	}{
		{"FirstWave", 0, t1},
		{"FirstWaveUpperEdge", 511, t1},
		{"BoundBelongsToNextWave", 512, t2},
		{"SecondWaveUpperEdge", 1023, t2},
		{"PastLastBound", 1024, time.Time{}},
		{"MaxSeed", MaxSeed - 1, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, u.WaveStart(tt.seed))
		})
	}
}

func TestWaveStartNoWaves(t *testing.T) {
	u := Update{}
	assert.True(t, u.WaveStart(0).IsZero(), "an update without waves is open to the whole fleet")
}

func TestReady(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	u := Update{Waves: []Wave{{Bound: 1024, Start: start}}}

	assert.False(t, u.Ready(100, start.Add(-time.Minute)))
	assert.True(t, u.Ready(100, start))
	assert.True(t, u.Ready(100, start.Add(time.Minute)))
	// Seeds past the last bound never wait.
	assert.True(t, u.Ready(1500, start.Add(-time.Hour)))
}

func TestValidateWaves(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		waves   []Wave
		wantErr error
	}{
		{
			name: "Valid",
			waves: []Wave{
				{Bound: 256, Start: start},
				{Bound: 1024, Start: start.Add(time.Hour)},
			},
		},
		{
			name:  "EqualStartsAllowed",
			waves: []Wave{{Bound: 256, Start: start}, {Bound: 1024, Start: start}},
		},
		{
			name:    "BoundTooLarge",
			waves:   []Wave{{Bound: MaxSeed, Start: start}},
			wantErr: ErrInvalidBound,
		},
		{
			name:    "DuplicateBound",
			waves:   []Wave{{Bound: 256, Start: start}, {Bound: 256, Start: start.Add(time.Hour)}},
			wantErr: ErrWaveOrderingViolation,
		},
		{
			name:    "DecreasingStart",
			waves:   []Wave{{Bound: 256, Start: start}, {Bound: 1024, Start: start.Add(-time.Hour)}},
			wantErr: ErrWaveOrderingViolation,
		},
		{
			name:    "ZeroStart",
			waves:   []Wave{{Bound: 256, Start: time.Time{}}},
			wantErr: ErrMissingStartTime,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateWaves(tt.waves)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
