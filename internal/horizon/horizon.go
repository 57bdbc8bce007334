// Package horizon buckets placed use cases into the three-horizon roadmap.
package horizon

import (
	"github.com/hyperengineering/compass/internal/types"
)

// Grid thresholds. Impact gates inclusion; feasibility sub-divides.
const (
	impactGate    = 0.5
	horizon1Floor = 2.0 / 3.0
	horizon2Floor = 1.0 / 3.0
)

// DefaultPlacement is the grid center used for use cases the user has not
// placed yet. It is applied at read time only, never persisted.
var DefaultPlacement = types.Placement{X: 0.5, Y: 0.5}

// Bucketize splits use cases into three feasibility tiers, keeping only those
// whose impact coordinate is at least 0.5. Use cases without a placement
// resolve to the grid center. Within each horizon the original relative order
// is preserved, so identical inputs always produce identical output.
func Bucketize(useCases []types.UseCase, placements map[int]types.Placement) types.Horizons {
	var h types.Horizons
	for _, u := range useCases {
		p, ok := placements[u.ID]
		if !ok {
			p = DefaultPlacement
		}
		if p.Y < impactGate {
			continue
		}
		switch {
		case p.X >= horizon1Floor:
			h.Horizon1 = append(h.Horizon1, u)
		case p.X >= horizon2Floor:
			h.Horizon2 = append(h.Horizon2, u)
		default:
			h.Horizon3 = append(h.Horizon3, u)
		}
	}
	return h
}
