package pool

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/nfl-stacker/internal/models"
	"github.com/stitts-dev/nfl-stacker/pkg/logger"
	"github.com/stitts-dev/nfl-stacker/pkg/utils"
)

func quietLog() *logrus.Entry {
	return logrus.NewEntry(logger.Discard())
}

func billsInputs() Inputs {
	return Inputs{
		Salaries: []SalaryRow{
			{Name: "Josh Allen", Team: "BUF", Position: "QB", Salary: 8000, ExternalID: "1001"},
			{Name: "Backup QB", Team: "BUF", Position: "QB", Salary: 4000},
			{Name: "James Cook", Team: "BUF", Position: "RB", Salary: 6500},
			{Name: "Stefon Diggs", Team: "HOU", Position: "WR", Salary: 7000},
			{Name: "Khalil Shakir", Team: "BUF", Position: "WR", Salary: 5000},
			{Name: "Dalton Kincaid", Team: "BUF", Position: "TE", Salary: 2500},
			{Name: "Bills", Team: "BUF", Position: "DST", Salary: 3000},
			{Name: "Tyler Bass", Team: "BUF", Position: "K", Salary: 4500},
		},
		Projections: []ProjectionRow{
			{Name: "Josh Allen", Team: "BUF", Position: "QB", Projection: 24, Ceiling: 36},
		},
		Ownership: []OwnershipRow{
			{Name: "Josh Allen", Ownership: 18},
			{Name: "James Cook", Team: "BUF", Ownership: 10},
		},
		Injuries: []InjuryRow{
			{Name: "Stefon Diggs", Status: "Out"},
			{Name: "Khalil Shakir", Status: "Questionable"},
		},
	}
}

func TestBuild_FiltersAndJoins(t *testing.T) {
	p, err := Build(billsInputs(), DefaultConfig(), quietLog())
	require.NoError(t, err)

	stats := p.Stats()
	assert.Equal(t, 8, stats.Rows)
	assert.Equal(t, 1, stats.Unsupported)
	assert.Equal(t, 1, stats.Injured)
	assert.Equal(t, 2, stats.BelowFloor)
	assert.Equal(t, 4, stats.Eligible)
	require.Equal(t, 4, p.Len())

	allen, ok := p.Lookup("Josh Allen", "BUF")
	require.True(t, ok)
	assert.Equal(t, "1001", allen.ExternalID)
	assert.Equal(t, models.SourceInput, allen.ProjectionSource)
	assert.Equal(t, models.SourceInput, allen.OwnershipSource)
	assert.InDelta(t, 27.66, allen.Composite, 1e-9)

	cook, ok := p.Lookup("James Cook", "buf")
	require.True(t, ok)
	assert.Equal(t, models.SourceProxy, cook.ProjectionSource)
	assert.InDelta(t, 26.0, cook.Projection, 1e-9)
	assert.InDelta(t, 41.6, cook.Ceiling, 1e-9)
	assert.InDelta(t, 10.0, cook.Ownership, 1e-9)
	assert.InDelta(t, 31.16, cook.Composite, 1e-9)

	shakir, ok := p.Lookup("Khalil Shakir", "BUF")
	require.True(t, ok)
	assert.InDelta(t, 22.0, shakir.Projection, 1e-9)
	// WR rank 2 behind the injured Diggs: ranks are taken over the whole salary file
	if forcedLow(shakir.ID, DefaultConfig().Proxy.ForcedLowShare) {
		assert.InDelta(t, 10.5*0.3, shakir.Ownership, 1e-9)
	} else {
		assert.InDelta(t, 10.5, shakir.Ownership, 1e-9)
	}

	_, ok = p.Lookup("Stefon Diggs", "HOU")
	assert.False(t, ok)
	_, ok = p.Lookup("Dalton Kincaid", "BUF")
	assert.False(t, ok)

	names := make([]string, 0, p.Len())
	for _, player := range p.Players() {
		names = append(names, player.Name)
	}
	assert.Equal(t, []string{"James Cook", "Josh Allen", "Khalil Shakir", "Bills"}, names)

	got, ok := p.Get(allen.ID)
	require.True(t, ok)
	assert.Equal(t, allen, got)
	_, ok = p.Get(uuid.New())
	assert.False(t, ok)
}

func TestBuild_InjuryMatchedOnTeam(t *testing.T) {
	in := Inputs{
		Salaries: []SalaryRow{
			{Name: "Mike Williams", Team: "NYJ", Position: "WR", Salary: 4000},
			{Name: "Mike Williams", Team: "LAC", Position: "WR", Salary: 4200},
		},
		Injuries: []InjuryRow{{Name: "Mike Williams", Team: "LAC", Status: "IR"}},
	}

	p, err := Build(in, DefaultConfig(), quietLog())
	require.NoError(t, err)
	require.Equal(t, 1, p.Len())
	assert.Equal(t, "NYJ", p.Players()[0].Team)
}

func TestBuild_DataIntegrity(t *testing.T) {
	dup := Inputs{Salaries: []SalaryRow{
		{Name: "Travis Kelce", Team: "KC", Position: "TE", Salary: 7000},
		{Name: "Travis Kelce", Team: "KC", Position: "TE", Salary: 7100},
	}}
	_, err := Build(dup, DefaultConfig(), quietLog())
	assert.ErrorIs(t, err, utils.ErrDuplicatePlayer)

	free := Inputs{Salaries: []SalaryRow{{Name: "Free Agent", Team: "KC", Position: "WR", Salary: 0}}}
	_, err = Build(free, DefaultConfig(), quietLog())
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	own := billsInputs()
	own.Ownership = append(own.Ownership, OwnershipRow{Name: "Bills", Ownership: 140})
	_, err = Build(own, DefaultConfig(), quietLog())
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestBuild_IndependentOfRowOrder(t *testing.T) {
	in := billsInputs()
	first, err := Build(in, DefaultConfig(), quietLog())
	require.NoError(t, err)

	reversed := billsInputs()
	for i, j := 0, len(reversed.Salaries)-1; i < j; i, j = i+1, j-1 {
		reversed.Salaries[i], reversed.Salaries[j] = reversed.Salaries[j], reversed.Salaries[i]
	}
	second, err := Build(reversed, DefaultConfig(), quietLog())
	require.NoError(t, err)

	assert.Equal(t, first.Players(), second.Players())
}

func TestOwnershipProxy_RanksAndClamp(t *testing.T) {
	cfg := DefaultConfig().Proxy
	rows := []rankedRow{
		{id: uuid.New(), pos: models.PositionWR, salary: 8000},
		{id: uuid.New(), pos: models.PositionWR, salary: 7000},
		{id: uuid.New(), pos: models.PositionWR, salary: 7000},
		{id: uuid.New(), pos: models.PositionWR, salary: 4000},
		{id: uuid.New(), pos: models.PositionRB, salary: 5000},
	}
	own := ownershipProxy(rows, cfg)

	assert.InDelta(t, 12.0, own[rows[0].id], 1e-9)
	assert.InDelta(t, 9.75, own[rows[1].id], 1e-9)
	assert.InDelta(t, 9.75, own[rows[2].id], 1e-9)
	assert.InDelta(t, 7.5, own[rows[3].id], 1e-9)
	assert.InDelta(t, 12.0, own[rows[4].id], 1e-9)

	deep := make([]rankedRow, 10)
	for i := range deep {
		deep[i] = rankedRow{id: uuid.New(), pos: models.PositionTE, salary: 9000 - i*100}
	}
	own = ownershipProxy(deep, cfg)
	assert.InDelta(t, 2.0, own[deep[9].id], 1e-9)
}

func TestForcedLow_Share(t *testing.T) {
	id := models.PlayerID("Anyone", "ANY", models.PositionWR)
	assert.False(t, forcedLow(id, 0))
	assert.True(t, forcedLow(id, 1))

	hits := 0
	for i := 0; i < 1000; i++ {
		if forcedLow(models.PlayerID(fmt.Sprintf("Player %d", i), "TST", models.PositionWR), 0.3) {
			hits++
		}
	}
	assert.InDelta(t, 300, hits, 60)
}

func TestProjectionProxy(t *testing.T) {
	proj, ceil := projectionProxy(7000, models.PositionQB, DefaultConfig().Proxy)
	assert.InDelta(t, 33.6, proj, 1e-9)
	assert.InDelta(t, 53.76, ceil, 1e-9)
}

func TestSalaryFloors_For(t *testing.T) {
	f := DefaultConfig().SalaryFloors
	assert.Equal(t, 4800, f.For(models.PositionQB))
	assert.Equal(t, 4100, f.For(models.PositionRB))
	assert.Equal(t, 3100, f.For(models.PositionWR))
	assert.Equal(t, 2600, f.For(models.PositionTE))
	assert.Equal(t, 0, f.For(models.PositionDST))
}
