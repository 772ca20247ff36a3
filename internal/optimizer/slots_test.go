package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/nfl-stacker/internal/models"
)

func TestAssignSlots(t *testing.T) {
	slots, err := AssignSlots(validLineup())
	require.NoError(t, err)

	got := make([]string, len(slots))
	for i, p := range slots {
		got[i] = p.Name
	}
	assert.Equal(t, []string{
		"KC QB", "BUF RB1", "KC RB1", "KC WR1", "KC WR2", "KC WR3", "KC TE", "KC RB2", "KC DST",
	}, got)
	assert.Equal(t, []string{"QB", "RB", "RB", "WR", "WR", "WR", "TE", "FLEX", "DST"}, SlotNames())
	assert.Equal(t, []models.Position{models.PositionRB, models.PositionWR, models.PositionTE}, ClassicSlots[7].AllowedPositions)
}

func TestAssignSlots_Errors(t *testing.T) {
	short := validLineup()
	short.Players = short.Players[:8]
	_, err := AssignSlots(short)
	assert.ErrorIs(t, err, ErrRosterShape)

	noFlex := validLineup()
	noFlex.Players[8] = models.Player{Name: "BUF QB", Team: "BUF", Position: models.PositionQB, Salary: 5200}
	_, err = AssignSlots(noFlex)
	assert.ErrorIs(t, err, ErrRosterShape)
}
