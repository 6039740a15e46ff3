package battleship

import (
	"errors"
	"math/rand/v2"
	"reflect"
	"testing"

	cerr "github.com/saeidalz13/battleship-cpu/internal/error"
)

func TestPlaceShip(t *testing.T) {
	tests := []struct {
		name        string
		origin      Coordinates
		orientation Orientation
		length      int
		expectErr   bool
	}{
		{name: "horizontal fits", origin: NewCoordinates(0, 0), orientation: OrientationHorizontal, length: 5},
		{name: "vertical fits", origin: NewCoordinates(5, 9), orientation: OrientationVertical, length: 5},
		{name: "runs off right edge", origin: NewCoordinates(0, 7), orientation: OrientationHorizontal, length: 4, expectErr: true},
		{name: "runs off bottom edge", origin: NewCoordinates(8, 0), orientation: OrientationVertical, length: 3, expectErr: true},
		{name: "overlaps existing ship", origin: NewCoordinates(3, 2), orientation: OrientationVertical, length: 2, expectErr: true},
		{name: "zero length", origin: NewCoordinates(9, 9), orientation: OrientationVertical, length: 0, expectErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			grid := NewDefenceGrid(GridSize)
			if _, err := grid.PlaceShip(NewCoordinates(3, 1), OrientationHorizontal, 3); err != nil {
				t.Fatal(err)
			}

			ship, err := grid.PlaceShip(test.origin, test.orientation, test.length)
			if test.expectErr {
				if err == nil {
					t.Fatalf("expected error placing ship at %+v", test.origin)
				}
				if len(grid.Ships()) != 1 {
					t.Fatalf("expected ships: %d\tgot: %d", 1, len(grid.Ships()))
				}
				return
			}

			if err != nil {
				t.Fatal(err)
			}
			if len(ship.Cells()) != test.length {
				t.Fatalf("expected cells: %d\tgot: %d", test.length, len(ship.Cells()))
			}
			if ship.Cells()[0] != test.origin {
				t.Fatalf("expected first cell: %+v\tgot: %+v", test.origin, ship.Cells()[0])
			}
		})
	}
}

func TestApplyShot(t *testing.T) {
	grid := NewDefenceGrid(GridSize)
	if _, err := grid.PlaceShip(NewCoordinates(2, 2), OrientationHorizontal, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := grid.PlaceShip(NewCoordinates(6, 6), OrientationVertical, 3); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name            string
		shot            Coordinates
		expectedOutcome ShotOutcome
		expectedLength  int
		expectedCells   []Coordinates
		expectedAllSunk bool
	}{
		{name: "miss", shot: NewCoordinates(0, 0), expectedOutcome: OutcomeMiss},
		{name: "repeat miss", shot: NewCoordinates(0, 0), expectedOutcome: OutcomeRepeat},
		{name: "out of bound", shot: NewCoordinates(10, 0), expectedOutcome: OutcomeOut},
		{name: "negative out of bound", shot: NewCoordinates(0, -1), expectedOutcome: OutcomeOut},
		{name: "hit", shot: NewCoordinates(2, 2), expectedOutcome: OutcomeHit},
		{name: "repeat hit", shot: NewCoordinates(2, 2), expectedOutcome: OutcomeRepeat},
		{
			name:            "sink destroyer",
			shot:            NewCoordinates(2, 3),
			expectedOutcome: OutcomeSunk,
			expectedLength:  2,
			expectedCells:   []Coordinates{{Row: 2, Col: 2}, {Row: 2, Col: 3}},
		},
		{name: "hit cruiser", shot: NewCoordinates(8, 6), expectedOutcome: OutcomeHit},
		{name: "hit cruiser again", shot: NewCoordinates(6, 6), expectedOutcome: OutcomeHit},
		{
			name:            "sink cruiser",
			shot:            NewCoordinates(7, 6),
			expectedOutcome: OutcomeSunk,
			expectedLength:  3,
			expectedCells:   []Coordinates{{Row: 6, Col: 6}, {Row: 7, Col: 6}, {Row: 8, Col: 6}},
			expectedAllSunk: true,
		},
	}

	// Sequential: every case depends on the shots before it
	for _, test := range tests {
		result := grid.ApplyShot(test.shot)
		if result.Outcome != test.expectedOutcome {
			t.Fatalf("%s: expected outcome: %s\tgot: %s", test.name, test.expectedOutcome, result.Outcome)
		}
		if result.SunkLength != test.expectedLength {
			t.Fatalf("%s: expected sunk length: %d\tgot: %d", test.name, test.expectedLength, result.SunkLength)
		}
		if test.expectedCells != nil && !reflect.DeepEqual(result.SunkCells, test.expectedCells) {
			t.Fatalf("%s: expected sunk cells: %v\tgot: %v", test.name, test.expectedCells, result.SunkCells)
		}
		if grid.AllSunk() != test.expectedAllSunk {
			t.Fatalf("%s: expected all sunk: %t\tgot: %t", test.name, test.expectedAllSunk, grid.AllSunk())
		}
	}
}

func TestPlaceFleet(t *testing.T) {
	for seed := uint64(0); seed < 25; seed++ {
		grid := NewDefenceGrid(GridSize)
		if err := grid.PlaceFleet(StandardFleet, rand.New(rand.NewPCG(seed, seed+1))); err != nil {
			t.Fatal(err)
		}

		if len(grid.Ships()) != len(StandardFleet) {
			t.Fatalf("expected ships: %d\tgot: %d", len(StandardFleet), len(grid.Ships()))
		}

		shipCells := 0
		for _, row := range grid.PositionCodes() {
			for _, code := range row {
				if code >= PositionStateDefenceShip {
					shipCells++
				}
			}
		}
		if shipCells != 17 {
			t.Fatalf("expected ship cells: %d\tgot: %d", 17, shipCells)
		}
	}
}

func TestPlaceFleetDoesNotFit(t *testing.T) {
	grid := NewDefenceGrid(3)
	if err := grid.PlaceFleet([]int{3, 3, 3, 3}, rand.New(rand.NewPCG(1, 2))); err == nil {
		t.Fatal("expected placement error for an oversized fleet")
	}
	if len(grid.Ships()) != 0 {
		t.Fatalf("expected an empty grid after failed placement, got %d ships", len(grid.Ships()))
	}
}

func TestPlaceShips(t *testing.T) {
	valid := []ShipPlacement{
		{Origin: NewCoordinates(0, 0), Orientation: OrientationHorizontal, Length: 5},
		{Origin: NewCoordinates(2, 0), Orientation: OrientationVertical, Length: 4},
		{Origin: NewCoordinates(2, 2), Orientation: OrientationHorizontal, Length: 3},
		{Origin: NewCoordinates(4, 4), Orientation: OrientationVertical, Length: 3},
		{Origin: NewCoordinates(9, 8), Orientation: OrientationHorizontal, Length: 2},
	}
	withShip := func(i int, p ShipPlacement) []ShipPlacement {
		placements := append([]ShipPlacement(nil), valid...)
		placements[i] = p
		return placements
	}

	tests := []struct {
		name        string
		placements  []ShipPlacement
		expectedErr error
	}{
		{name: "whole fleet placed", placements: valid},
		{name: "missing ship", placements: valid[:4], expectedErr: cerr.ErrInvalidShipPlacement},
		{name: "length not in fleet", placements: withShip(4, ShipPlacement{Origin: NewCoordinates(9, 0), Orientation: OrientationHorizontal, Length: 6}), expectedErr: cerr.ErrInvalidShipPlacement},
		{name: "overlapping ships", placements: withShip(3, ShipPlacement{Origin: NewCoordinates(0, 4), Orientation: OrientationVertical, Length: 3}), expectedErr: cerr.ErrInvalidShipPlacement},
		{name: "off the grid", placements: withShip(4, ShipPlacement{Origin: NewCoordinates(9, 9), Orientation: OrientationHorizontal, Length: 2}), expectedErr: cerr.ErrInvalidShipPlacement},
		{name: "no orientation", placements: withShip(4, ShipPlacement{Origin: NewCoordinates(9, 0), Length: 2}), expectedErr: cerr.ErrInvalidShipPlacement},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			grid := NewDefenceGrid(GridSize)
			err := grid.PlaceShips(test.placements, StandardFleet)

			if test.expectedErr != nil {
				if !errors.Is(err, test.expectedErr) {
					t.Fatalf("expected error: %v\tgot: %v", test.expectedErr, err)
				}
				if len(grid.Ships()) != 0 {
					t.Fatalf("expected an empty grid after failed placement, got %d ships", len(grid.Ships()))
				}
				return
			}

			if err != nil {
				t.Fatal(err)
			}
			if len(grid.Ships()) != len(StandardFleet) {
				t.Fatalf("expected ships: %d\tgot: %d", len(StandardFleet), len(grid.Ships()))
			}
			for i, ship := range grid.Ships() {
				if ship.Cells()[0] != test.placements[i].Origin {
					t.Fatalf("expected origin: %+v\tgot: %+v", test.placements[i].Origin, ship.Cells()[0])
				}
			}
		})
	}
}
