package optimizer

import (
	"fmt"
	"sort"

	"github.com/stitts-dev/nfl-stacker/internal/models"
)

// PositionSlot represents a position slot in a lineup
type PositionSlot struct {
	SlotName         string
	AllowedPositions []models.Position
}

// ClassicSlots is the DraftKings NFL classic upload order.
var ClassicSlots = []PositionSlot{
	{SlotName: "QB", AllowedPositions: []models.Position{models.PositionQB}},
	{SlotName: "RB", AllowedPositions: []models.Position{models.PositionRB}},
	{SlotName: "RB", AllowedPositions: []models.Position{models.PositionRB}},
	{SlotName: "WR", AllowedPositions: []models.Position{models.PositionWR}},
	{SlotName: "WR", AllowedPositions: []models.Position{models.PositionWR}},
	{SlotName: "WR", AllowedPositions: []models.Position{models.PositionWR}},
	{SlotName: "TE", AllowedPositions: []models.Position{models.PositionTE}},
	{SlotName: "FLEX", AllowedPositions: flexPositions()},
	{SlotName: "DST", AllowedPositions: []models.Position{models.PositionDST}},
}

func flexPositions() []models.Position {
	out := make([]models.Position, 0, len(models.Positions))
	for _, pos := range models.Positions {
		if pos.IsFlexEligible() {
			out = append(out, pos)
		}
	}
	return out
}

// SlotNames returns the upload header row.
func SlotNames() []string {
	names := make([]string, len(ClassicSlots))
	for i, s := range ClassicSlots {
		names[i] = s.SlotName
	}
	return names
}

// AssignSlots orders a lineup into ClassicSlots. Within a position the highest
// salaries take the fixed slots and the best-paid leftover RB, WR or TE takes FLEX.
func AssignSlots(lineup models.Lineup) ([9]models.Player, error) {
	var out [9]models.Player
	if len(lineup.Players) != len(ClassicSlots) {
		return out, fmt.Errorf("%w: cannot slot %d players", ErrRosterShape, len(lineup.Players))
	}

	byPos := make(map[models.Position][]models.Player, len(models.Positions))
	for _, p := range lineup.Players {
		byPos[p.Position] = append(byPos[p.Position], p)
	}
	for _, group := range byPos {
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].Salary != group[j].Salary {
				return group[i].Salary > group[j].Salary
			}
			return group[i].Name < group[j].Name
		})
	}

	taken := make(map[models.Position]int, len(models.Positions))
	flexIdx := -1
	for i, slot := range ClassicSlots {
		if len(slot.AllowedPositions) > 1 {
			flexIdx = i
			continue
		}
		pos := slot.AllowedPositions[0]
		group := byPos[pos]
		if taken[pos] >= len(group) {
			return out, fmt.Errorf("%w: no %s for slot %d", ErrRosterShape, pos, i+1)
		}
		out[i] = group[taken[pos]]
		taken[pos]++
	}

	var flex *models.Player
	for _, pos := range ClassicSlots[flexIdx].AllowedPositions {
		group := byPos[pos]
		for k := taken[pos]; k < len(group); k++ {
			candidate := group[k]
			if flex == nil || candidate.Salary > flex.Salary || (candidate.Salary == flex.Salary && candidate.Name < flex.Name) {
				flex = &candidate
			}
		}
	}
	if flex == nil {
		return out, fmt.Errorf("%w: no FLEX-eligible player left", ErrRosterShape)
	}
	out[flexIdx] = *flex
	return out, nil
}
