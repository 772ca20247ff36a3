package pool

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/stitts-dev/nfl-stacker/internal/models"
)

// projectionProxy estimates mean and ceiling points from salary.
func projectionProxy(salary int, pos models.Position, cfg ProxyConfig) (projection, ceiling float64) {
	projection = float64(salary) * cfg.PointsPerDollar * cfg.Multipliers.For(pos)
	return projection, projection * cfg.CeilingMultiplier
}

type rankedRow struct {
	id     uuid.UUID
	pos    models.Position
	salary int
}

// ownershipProxy assigns every row a proxy ownership from its within-position salary rank.
// The top salary gets OwnershipTop, each rank below loses OwnershipStep, clamped to the
// configured band. Tied salaries share their average rank.
func ownershipProxy(rows []rankedRow, cfg ProxyConfig) map[uuid.UUID]float64 {
	byPos := make(map[models.Position][]rankedRow)
	for _, r := range rows {
		byPos[r.pos] = append(byPos[r.pos], r)
	}

	out := make(map[uuid.UUID]float64, len(rows))
	for _, group := range byPos {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].salary > group[j].salary
		})

		for i := 0; i < len(group); {
			j := i
			for j < len(group) && group[j].salary == group[i].salary {
				j++
			}
			// ranks are 1-based: positions i+1 .. j
			rank := float64(i+1+j) / 2.0
			own := cfg.OwnershipTop - (rank-1)*cfg.OwnershipStep
			own = math.Max(cfg.OwnershipMin, math.Min(cfg.OwnershipMax, own))
			for k := i; k < j; k++ {
				out[group[k].id] = own
			}
			i = j
		}
	}
	return out
}

// forcedLow reports whether a proxied player belongs to the contrarian subset whose
// ownership gets pushed down. Selection hashes the synthetic id so it does not depend
// on input row order.
func forcedLow(id uuid.UUID, share float64) bool {
	if share <= 0 {
		return false
	}
	if share >= 1 {
		return true
	}
	bucket := uint16(id[0])<<8 | uint16(id[1])
	return float64(bucket) < share*65536
}
