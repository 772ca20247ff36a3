package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePosition(t *testing.T) {
	for raw, want := range map[string]Position{
		"qb": PositionQB, " RB ": PositionRB, "WR": PositionWR, "TE": PositionTE,
		"DST": PositionDST, "D/ST": PositionDST, "def": PositionDST,
	} {
		got, err := ParsePosition(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParsePosition("K")
	assert.Error(t, err)
}

func TestPlayerID_Deterministic(t *testing.T) {
	a := PlayerID("Josh Allen", "BUF", PositionQB)
	assert.Equal(t, a, PlayerID(" Josh Allen ", "buf", PositionQB))
	assert.NotEqual(t, a, PlayerID("Josh Allen", "JAX", PositionQB))
	assert.NotEqual(t, a, PlayerID("Josh Allen", "BUF", PositionRB))
}

func TestCompositeScore(t *testing.T) {
	// 20 + 0.35*(32-20) - 0.03*10
	assert.InDelta(t, 23.9, CompositeScore(20, 32, 10, 0.35, 0.03), 1e-9)
}

func TestPassCatcherNames(t *testing.T) {
	roles := TeamRoles{Team: "CIN", QB1: "Joe Burrow", WR1: "Ja'Marr Chase", WR2: "Tee Higgins", TE1: "", SlotWR: "Tee Higgins"}
	assert.Equal(t, []string{"Ja'Marr Chase", "Tee Higgins"}, roles.PassCatcherNames())
}

func TestGameOpponent(t *testing.T) {
	g := GameEnvironment{GameID: "g1", HomeTeam: "KC", AwayTeam: "BAL"}
	opp, ok := g.Opponent("KC")
	assert.True(t, ok)
	assert.Equal(t, "BAL", opp)
	opp, ok = g.Opponent("BAL")
	assert.True(t, ok)
	assert.Equal(t, "KC", opp)
	_, ok = g.Opponent("DEN")
	assert.False(t, ok)
}

func TestLineupAggregates(t *testing.T) {
	l := Lineup{Players: []Player{
		{ID: PlayerID("E", "X", PositionQB), Name: "E", Position: PositionQB, Salary: 7000, Ownership: 10, Projection: 20},
		{ID: PlayerID("C", "X", PositionWR), Name: "C", Position: PositionWR, Salary: 6000, Ownership: 5, Projection: 15},
		{ID: PlayerID("A", "X", PositionWR), Name: "A", Position: PositionWR, Salary: 5000, Ownership: 3, Projection: 12},
		{ID: PlayerID("D", "Y", PositionTE), Name: "D", Position: PositionTE, Salary: 4000, Ownership: 2, Projection: 8},
		{ID: PlayerID("B", "Z", PositionRB), Name: "B", Position: PositionRB, Salary: 5500, Ownership: 8, Projection: 14},
		{ID: PlayerID("F", "Z", PositionRB), Name: "F", Position: PositionRB, Salary: 4500, Ownership: 4, Projection: 11},
	}}

	assert.Equal(t, 32000, l.TotalSalary())
	assert.InDelta(t, 32.0, l.TotalOwnership(), 1e-9)
	assert.InDelta(t, 80.0, l.TotalProjection(), 1e-9)
	assert.Equal(t, 2, l.PositionCounts()[PositionWR])
	assert.Equal(t, "A|B|C|D|E", l.CoreKey())
}

func TestBlueprintDescription(t *testing.T) {
	bp := StackBlueprint{
		QB:        PlayerRef{Name: "Patrick Mahomes"},
		Catchers:  []PlayerRef{{Name: "Travis Kelce"}, {Name: "Rashee Rice"}},
		BringBack: PlayerRef{Name: "Zay Flowers"},
	}
	assert.Equal(t, "Patrick Mahomes + Travis Kelce/Rashee Rice + Zay Flowers", bp.Description())
}
