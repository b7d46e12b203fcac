package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkshop_ValidArtistIDs(t *testing.T) {
	tests := []struct {
		name    string
		artists []string
		want    []string
	}{
		{
			name:    "placeholders removed",
			artists: []string{"", "TBA", "real_artist_1"},
			want:    []string{"real_artist_1"},
		},
		{
			name:    "all placeholder variants",
			artists: []string{"", "TBA", "tba", "N/A", "n/a"},
			want:    nil,
		},
		{
			name:    "all real",
			artists: []string{"artist_a", "artist_b"},
			want:    []string{"artist_a", "artist_b"},
		},
		{
			name:    "empty list",
			artists: nil,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Workshop{ArtistIDs: tt.artists}
			assert.Equal(t, tt.want, w.ValidArtistIDs())
		})
	}
}

func TestSameSchedule(t *testing.T) {
	a := []TimeEntry{{Year: 2026, Month: 9, Day: 12, StartTime: "18:00", EndTime: "20:00"}}
	b := []TimeEntry{{Year: 2026, Month: 9, Day: 12, StartTime: "18:00", EndTime: "20:00"}}
	c := []TimeEntry{{Year: 2026, Month: 9, Day: 13, StartTime: "18:00", EndTime: "20:00"}}

	assert.True(t, SameSchedule(a, b))
	assert.False(t, SameSchedule(a, c))
	assert.False(t, SameSchedule(a, nil))
	// Order matters: a reordered list counts as a schedule change.
	two := append(append([]TimeEntry{}, a[0]), c[0])
	swapped := []TimeEntry{c[0], a[0]}
	assert.False(t, SameSchedule(two, swapped))
}
