package optimizer

import (
	"fmt"

	"github.com/stitts-dev/nfl-stacker/internal/models"
)

// PositionConstraint defines constraints for a specific position
type PositionConstraint struct {
	Position    models.Position
	MinRequired int
	MaxAllowed  int
}

// LineupConstraints holds all constraints for lineup validation
type LineupConstraints struct {
	RosterSize          int
	FlexTotal           int // RB + WR + TE
	PositionConstraints map[models.Position]PositionConstraint
	MinSalary           int
	MaxSalary           int
	CumOwnershipCap     float64
	LowOwnedThreshold   float64
	MinLowOwned         int
	Sub10Threshold      float64
	MinSub10Owned       int
}

// NewLineupConstraints returns the DraftKings classic shape with the configured
// salary band and ownership gate.
func NewLineupConstraints(cfg LineupConfig) *LineupConstraints {
	return &LineupConstraints{
		RosterSize: 9,
		FlexTotal:  7,
		PositionConstraints: map[models.Position]PositionConstraint{
			models.PositionQB:  {Position: models.PositionQB, MinRequired: 1, MaxAllowed: 1},
			models.PositionRB:  {Position: models.PositionRB, MinRequired: 2, MaxAllowed: 3},
			models.PositionWR:  {Position: models.PositionWR, MinRequired: 3, MaxAllowed: 4},
			models.PositionTE:  {Position: models.PositionTE, MinRequired: 1, MaxAllowed: 2},
			models.PositionDST: {Position: models.PositionDST, MinRequired: 1, MaxAllowed: 1},
		},
		MinSalary:         cfg.MinSalary,
		MaxSalary:         cfg.MaxSalary,
		CumOwnershipCap:   cfg.CumOwnershipCap,
		LowOwnedThreshold: cfg.LowOwnedThreshold,
		MinLowOwned:       cfg.MinLowOwned,
		Sub10Threshold:    cfg.Sub10Threshold,
		MinSub10Owned:     cfg.MinSub10Owned,
	}
}

// fillOrder is the order minimums are topped up in while filling.
var fillOrder = []models.Position{models.PositionTE, models.PositionDST, models.PositionRB, models.PositionWR}

// flexOrder is the order FLEX-eligible positions are offered once minimums are met.
var flexOrder = []models.Position{models.PositionRB, models.PositionWR, models.PositionTE}

// NeededPositions returns the positions a partial lineup may still take. Unmet
// minimums come first; once every minimum is met any FLEX-eligible position
// below its maximum is offered.
func (lc *LineupConstraints) NeededPositions(counts map[models.Position]int) []models.Position {
	needed := make([]models.Position, 0, len(fillOrder))
	for _, pos := range fillOrder {
		if counts[pos] < lc.PositionConstraints[pos].MinRequired {
			needed = append(needed, pos)
		}
	}
	if len(needed) > 0 {
		return needed
	}

	flexUsed := 0
	for _, pos := range flexOrder {
		flexUsed += counts[pos]
	}
	if flexUsed >= lc.FlexTotal {
		return needed
	}
	for _, pos := range flexOrder {
		if counts[pos] < lc.PositionConstraints[pos].MaxAllowed {
			needed = append(needed, pos)
		}
	}
	return needed
}

// ValidateLineup performs comprehensive lineup validation
func (lc *LineupConstraints) ValidateLineup(lineup models.Lineup) error {
	if err := lc.validatePositions(lineup); err != nil {
		return err
	}
	if err := lc.validateSalary(lineup); err != nil {
		return err
	}
	return lc.validateOwnership(lineup)
}

func (lc *LineupConstraints) validatePositions(lineup models.Lineup) error {
	if len(lineup.Players) != lc.RosterSize {
		return fmt.Errorf("%w: lineup has %d players, want %d", ErrRosterShape, len(lineup.Players), lc.RosterSize)
	}

	seen := make(map[string]bool, len(lineup.Players))
	for _, p := range lineup.Players {
		if seen[p.Name] {
			return fmt.Errorf("%w: %s appears twice", ErrRosterShape, p.Name)
		}
		seen[p.Name] = true
	}

	positionCounts := lineup.PositionCounts()
	for position, constraint := range lc.PositionConstraints {
		count := positionCounts[position]
		if count < constraint.MinRequired {
			return fmt.Errorf("%w: position %s requires at least %d players, got %d", ErrRosterShape, position, constraint.MinRequired, count)
		}
		if count > constraint.MaxAllowed {
			return fmt.Errorf("%w: position %s allows at most %d players, got %d", ErrRosterShape, position, constraint.MaxAllowed, count)
		}
	}

	flex := positionCounts[models.PositionRB] + positionCounts[models.PositionWR] + positionCounts[models.PositionTE]
	if flex != lc.FlexTotal {
		return fmt.Errorf("%w: RB+WR+TE is %d, want %d", ErrRosterShape, flex, lc.FlexTotal)
	}
	return nil
}

func (lc *LineupConstraints) validateSalary(lineup models.Lineup) error {
	total := lineup.TotalSalary()
	if total > lc.MaxSalary {
		return fmt.Errorf("%w: lineup exceeds salary cap: %d > %d", ErrSalaryBand, total, lc.MaxSalary)
	}
	if total < lc.MinSalary {
		return fmt.Errorf("%w: lineup leaves too much salary on table: %d < %d", ErrSalaryBand, total, lc.MinSalary)
	}
	return nil
}

func (lc *LineupConstraints) validateOwnership(lineup models.Lineup) error {
	total := lineup.TotalOwnership()
	if total > lc.CumOwnershipCap {
		return fmt.Errorf("%w: cumulative ownership %.1f > %.1f", ErrOwnershipGate, total, lc.CumOwnershipCap)
	}

	low, sub10 := 0, 0
	for _, p := range lineup.Players {
		if p.Ownership < lc.LowOwnedThreshold {
			low++
		}
		if p.Ownership < lc.Sub10Threshold {
			sub10++
		}
	}
	if low < lc.MinLowOwned {
		return fmt.Errorf("%w: %d players under %.0f%% owned, need %d", ErrOwnershipGate, low, lc.LowOwnedThreshold, lc.MinLowOwned)
	}
	if sub10 < lc.MinSub10Owned {
		return fmt.Errorf("%w: %d players under %.0f%% owned, need %d", ErrOwnershipGate, sub10, lc.Sub10Threshold, lc.MinSub10Owned)
	}
	return nil
}
