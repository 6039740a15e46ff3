package targeting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerr "github.com/saeidalz13/battleship-cpu/internal/error"
	mb "github.com/saeidalz13/battleship-cpu/models/battleship"
)

func excludeCells(cells ...mb.Coordinates) func(mb.Coordinates) bool {
	set := make(map[mb.Coordinates]struct{}, len(cells))
	for _, c := range cells {
		set[c] = struct{}{}
	}
	return func(c mb.Coordinates) bool {
		_, prs := set[c]
		return prs
	}
}

func TestTrackerDiscovery(t *testing.T) {
	hit := mb.NewCoordinates(5, 5)

	tests := []struct {
		name       string
		hit        mb.Coordinates
		tried      []mb.Coordinates
		misses     []mb.Coordinates
		expected   mb.Coordinates
		expectedOk bool
	}{
		{name: "up first", hit: hit, expected: mb.NewCoordinates(4, 5), expectedOk: true},
		{name: "up tried", hit: hit, tried: []mb.Coordinates{{Row: 4, Col: 5}}, expected: mb.NewCoordinates(6, 5), expectedOk: true},
		{
			name:       "up and down resolved",
			hit:        hit,
			tried:      []mb.Coordinates{{Row: 4, Col: 5}},
			misses:     []mb.Coordinates{{Row: 6, Col: 5}},
			expected:   mb.NewCoordinates(5, 4),
			expectedOk: true,
		},
		{
			name:       "only right open",
			hit:        hit,
			misses:     []mb.Coordinates{{Row: 4, Col: 5}, {Row: 6, Col: 5}, {Row: 5, Col: 4}},
			expected:   mb.NewCoordinates(5, 6),
			expectedOk: true,
		},
		{
			name:       "corner skips out of bound",
			hit:        mb.NewCoordinates(0, 0),
			expected:   mb.NewCoordinates(1, 0),
			expectedOk: true,
		},
		{
			name:       "boxed in",
			hit:        hit,
			misses:     []mb.Coordinates{{Row: 4, Col: 5}, {Row: 6, Col: 5}, {Row: 5, Col: 4}, {Row: 5, Col: 6}},
			expectedOk: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			view := mb.NewAttackGrid(mb.GridSize)
			view.Set(test.hit, mb.CellHit)
			for _, m := range test.misses {
				view.Set(m, mb.CellMiss)
			}

			tracker := NewTracker(mb.GridSize)
			tracker.RecordHit(test.hit)
			require.Equal(t, mb.OrientationUnknown, tracker.Orientation())

			candidate, ok := tracker.NextCandidate(view, excludeCells(test.tried...))
			require.Equal(t, test.expectedOk, ok)
			if ok {
				assert.Equal(t, test.expected, candidate)
			}
		})
	}
}

func TestTrackerDiscoveryIsDeterministic(t *testing.T) {
	view := mb.NewAttackGrid(mb.GridSize)
	exclude := excludeCells(mb.NewCoordinates(2, 7))

	var first mb.Coordinates
	for i := 0; i < 10; i++ {
		tracker := NewTracker(mb.GridSize)
		tracker.RecordHit(mb.NewCoordinates(3, 7))

		candidate, ok := tracker.NextCandidate(view, exclude)
		require.True(t, ok)
		if i == 0 {
			first = candidate
		}
		assert.Equal(t, first, candidate)
	}
	assert.Equal(t, mb.NewCoordinates(4, 7), first)
}

func TestTrackerExtension(t *testing.T) {
	tests := []struct {
		name                string
		hits                []mb.Coordinates
		misses              []mb.Coordinates
		expectedOrientation mb.Orientation
		expected            mb.Coordinates
		expectedOk          bool
	}{
		{
			name:                "horizontal low end",
			hits:                []mb.Coordinates{{Row: 5, Col: 5}, {Row: 5, Col: 6}},
			expectedOrientation: mb.OrientationHorizontal,
			expected:            mb.NewCoordinates(5, 4),
			expectedOk:          true,
		},
		{
			name:                "horizontal high end after low miss",
			hits:                []mb.Coordinates{{Row: 5, Col: 5}, {Row: 5, Col: 6}},
			misses:              []mb.Coordinates{{Row: 5, Col: 4}},
			expectedOrientation: mb.OrientationHorizontal,
			expected:            mb.NewCoordinates(5, 7),
			expectedOk:          true,
		},
		{
			name:                "horizontal both ends miss",
			hits:                []mb.Coordinates{{Row: 5, Col: 5}, {Row: 5, Col: 6}},
			misses:              []mb.Coordinates{{Row: 5, Col: 4}, {Row: 5, Col: 7}},
			expectedOrientation: mb.OrientationHorizontal,
			expectedOk:          false,
		},
		{
			name:                "vertical hit out of order",
			hits:                []mb.Coordinates{{Row: 4, Col: 2}, {Row: 3, Col: 2}, {Row: 5, Col: 2}},
			expectedOrientation: mb.OrientationVertical,
			expected:            mb.NewCoordinates(2, 2),
			expectedOk:          true,
		},
		{
			name:                "edge of grid and miss",
			hits:                []mb.Coordinates{{Row: 0, Col: 0}, {Row: 0, Col: 1}},
			misses:              []mb.Coordinates{{Row: 0, Col: 2}},
			expectedOrientation: mb.OrientationHorizontal,
			expectedOk:          false,
		},
		{
			name:                "bottom edge extends up",
			hits:                []mb.Coordinates{{Row: 9, Col: 4}, {Row: 8, Col: 4}},
			expectedOrientation: mb.OrientationVertical,
			expected:            mb.NewCoordinates(7, 4),
			expectedOk:          true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			view := mb.NewAttackGrid(mb.GridSize)
			tracker := NewTracker(mb.GridSize)
			for _, h := range test.hits {
				view.Set(h, mb.CellHit)
				tracker.RecordHit(h)
			}
			for _, m := range test.misses {
				view.Set(m, mb.CellMiss)
			}

			assert.Equal(t, test.expectedOrientation, tracker.Orientation())

			candidate, ok := tracker.NextCandidate(view, nil)
			require.Equal(t, test.expectedOk, ok)
			if ok {
				assert.Equal(t, test.expected, candidate)
			}
		})
	}
}

func TestTrackerExtensionCandidatesAreOnlyTheEnds(t *testing.T) {
	view := mb.NewAttackGrid(mb.GridSize)
	tracker := NewTracker(mb.GridSize)
	for _, h := range []mb.Coordinates{{Row: 5, Col: 5}, {Row: 5, Col: 6}} {
		view.Set(h, mb.CellHit)
		tracker.RecordHit(h)
	}

	seen := make([]mb.Coordinates, 0, 2)
	for {
		candidate, ok := tracker.NextCandidate(view, excludeCells(seen...))
		if !ok {
			break
		}
		seen = append(seen, candidate)
	}
	assert.Equal(t, []mb.Coordinates{{Row: 5, Col: 4}, {Row: 5, Col: 7}}, seen)
}

func TestTrackerOrientationLocks(t *testing.T) {
	tracker := NewTracker(mb.GridSize)
	tracker.RecordHit(mb.NewCoordinates(5, 5))
	tracker.RecordHit(mb.NewCoordinates(5, 6))
	require.Equal(t, mb.OrientationHorizontal, tracker.Orientation())

	// an off-axis hit does not flip a locked orientation
	tracker.RecordHit(mb.NewCoordinates(6, 5))
	assert.Equal(t, mb.OrientationHorizontal, tracker.Orientation())

	// recording the same hit twice is a no-op
	tracker.RecordHit(mb.NewCoordinates(5, 6))
	assert.Len(t, tracker.Component(), 3)
}

func TestTrackerNonCollinearFallsBackToDiscovery(t *testing.T) {
	view := mb.NewAttackGrid(mb.GridSize)
	tracker := NewTracker(mb.GridSize)
	for _, h := range []mb.Coordinates{{Row: 5, Col: 5}, {Row: 6, Col: 6}} {
		view.Set(h, mb.CellHit)
		tracker.RecordHit(h)
	}
	view.Set(mb.NewCoordinates(4, 5), mb.CellMiss)
	view.Set(mb.NewCoordinates(6, 5), mb.CellMiss)
	view.Set(mb.NewCoordinates(5, 4), mb.CellMiss)
	view.Set(mb.NewCoordinates(5, 6), mb.CellMiss)

	assert.Equal(t, mb.OrientationUnknown, tracker.Orientation())

	candidate, ok := tracker.NextCandidate(view, nil)
	require.True(t, ok)
	assert.Equal(t, mb.NewCoordinates(7, 6), candidate)
}

func TestTrackerRecordSink(t *testing.T) {
	tests := []struct {
		name            string
		hits            int
		sunkLength      int
		expectedRemoved int
		expectedFleet   []int
		expectedErr     error
	}{
		{name: "reported length", hits: 2, sunkLength: 3, expectedRemoved: 3, expectedFleet: []int{5, 4, 3, 2}},
		{name: "length longer than the component", hits: 2, sunkLength: 5, expectedRemoved: 5, expectedFleet: []int{4, 3, 3, 2}},
		{name: "reported length not afloat", hits: 2, sunkLength: 6, expectedFleet: mb.StandardFleet, expectedErr: cerr.ErrShipLengthNotInFleet},
		{name: "length unresolved", hits: 3, expectedFleet: mb.StandardFleet, expectedErr: cerr.ErrShipLengthNotInFleet},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ledger := mb.NewFleet(mb.StandardFleet)
			tracker := NewTracker(mb.GridSize)
			for i := 0; i < test.hits; i++ {
				tracker.RecordHit(mb.NewCoordinates(1, i))
			}

			removed, err := tracker.RecordSink(test.sunkLength, ledger)
			if test.expectedErr != nil {
				require.ErrorIs(t, err, test.expectedErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, test.expectedRemoved, removed)
			}

			assert.Equal(t, test.expectedFleet, ledger.Remaining())
			assert.False(t, tracker.Active())
			assert.Equal(t, mb.OrientationUnknown, tracker.Orientation())
		})
	}
}

func TestTrackerRelease(t *testing.T) {
	tracker := NewTracker(mb.GridSize)
	tracker.RecordHit(mb.NewCoordinates(2, 2))
	tracker.RecordHit(mb.NewCoordinates(3, 2))

	released := tracker.Release()
	assert.Equal(t, []mb.Coordinates{{Row: 2, Col: 2}, {Row: 3, Col: 2}}, released)
	assert.False(t, tracker.Active())
	assert.Equal(t, mb.OrientationUnknown, tracker.Orientation())

	_, ok := tracker.NextCandidate(mb.NewAttackGrid(mb.GridSize), nil)
	assert.False(t, ok)
}
