package geo

import (
	"encoding/json"
	"fmt"
	"math"

	"go-typefight/pkg/constants"

	"gonum.org/v1/gonum/spatial/r2"
)

// Position is a point in the arena, which is centered at the origin.
// It marshals as a [x, y] pair.
type Position r2.Vec

// Random is the source of uniform values in [0, 1) used to place spawns
type Random interface {
	Float64() float64
}

func NewPosition(x float64, y float64) Position {
	return Position{X: x, Y: y}
}

// Vec returns the position as a gonum vector
func (p Position) Vec() r2.Vec {
	return r2.Vec(p)
}

// Norm returns the distance from the origin
func (p Position) Norm() float64 {
	return r2.Norm(p.Vec())
}

// RandomBoundaryPosition picks the left or right edge with equal odds and a
// uniform height along it.
func RandomBoundaryPosition(rng Random) Position {
	x := constants.ArenaHalfWidth
	if rng.Float64() < 0.5 {
		x = -constants.ArenaHalfWidth
	}
	y := rng.Float64()*2*constants.ArenaHalfHeight - constants.ArenaHalfHeight
	return NewPosition(x, y)
}

// TowardOrigin moves the position along the straight line to the origin.
// A fraction of 0 keeps it in place, 1 lands on the origin.
func (p Position) TowardOrigin(fraction float64) Position {
	return Position(r2.Scale(1-fraction, p.Vec()))
}

// Outward pushes each coordinate away from the origin by distance, keeping its sign.
// Coordinates sitting on an axis stay there.
func (p Position) Outward(distance float64) Position {
	push := r2.Vec{X: sign(p.X) * distance, Y: sign(p.Y) * distance}
	return Position(r2.Add(p.Vec(), push))
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

func (p *Position) UnmarshalJSON(data []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("position must be an [x, y] pair: %w", err)
	}
	if math.IsNaN(pair[0]) || math.IsNaN(pair[1]) {
		return fmt.Errorf("position contains NaN")
	}
	p.X, p.Y = pair[0], pair[1]
	return nil
}
