package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/nfl-stacker/internal/export"
)

var roster = []struct {
	suffix string
	pos    string
	salary int
}{
	{"QB", "QB", 5200},
	{"RB1", "RB", 5000},
	{"RB2", "RB", 4200},
	{"WR1", "WR", 5400},
	{"WR2", "WR", 4600},
	{"WR3", "WR", 3800},
	{"TE", "TE", 4000},
	{"DST", "DST", 3000},
}

func writeSlate(t *testing.T, dir string, teams ...string) {
	t.Helper()
	var salaries, ownership, roles strings.Builder
	salaries.WriteString("Position,Name,ID,Salary,TeamAbbrev\n")
	ownership.WriteString("name,team,own\n")
	roles.WriteString("team,qb1,wr1,wr2,te1\n")
	id := 1000
	for _, team := range teams {
		for _, r := range roster {
			id++
			fmt.Fprintf(&salaries, "%s,%s %s,%d,%d,%s\n", r.pos, team, r.suffix, id, r.salary, team)
			fmt.Fprintf(&ownership, "%s %s,%s,3\n", team, r.suffix, team)
		}
		fmt.Fprintf(&roles, "%s,%[1]s QB,%[1]s WR1,%[1]s WR2,%[1]s TE\n", team)
	}

	var games strings.Builder
	games.WriteString("game_id,home_team,away_team,ou,spread_home,venue_roof,proe_home,proe_away\n")
	for i := 0; i+1 < len(teams); i += 2 {
		fmt.Fprintf(&games, "%s@%s,%[2]s,%[1]s,50.5,-2,dome,2,2\n", teams[i], teams[i+1])
	}

	for name, body := range map[string]string{
		"dk_salaries.csv":   salaries.String(),
		"ownership.csv":     ownership.String(),
		"roles.csv":         roles.String(),
		"weekly_inputs.csv": games.String(),
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestRunBuild_WritesReports(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeSlate(t, in, "KC", "BUF", "DAL", "PHI")

	cfgPath := filepath.Join(t.TempDir(), "weights.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("lineup:\n  min_salary: 30000\n"), 0o600))

	err := runBuild([]string{"--input", in, "--out", out, "--config", cfgPath, "--lineups", "10", "--log-level", "error"})
	require.NoError(t, err)

	upload := readCSV(t, filepath.Join(out, export.UploadFile))
	assert.Equal(t, []string{"QB", "RB", "RB", "WR", "WR", "WR", "TE", "FLEX", "DST"}, upload[0])
	assert.Len(t, upload, 8, "header plus the seven tier A lineups")
	assert.Regexp(t, `^(KC|BUF|DAL|PHI) QB \(\d+\)$`, upload[1][0])

	edges := readCSV(t, filepath.Join(out, export.EdgeScoresFile))
	assert.Len(t, edges, 3)

	for _, name := range []string{export.StacksFile, export.LineupsFile, export.ExposureFile} {
		_, err := os.Stat(filepath.Join(out, name))
		assert.NoError(t, err, name)
	}
}

func TestRunBuild_RequiresInput(t *testing.T) {
	assert.EqualError(t, runBuild(nil), "--input is required")
	assert.NoError(t, runBuild([]string{"--help"}))
}

func TestRunBuild_MissingTables(t *testing.T) {
	err := runBuild([]string{"--input", t.TempDir(), "--out", t.TempDir(), "--log-level", "error"})
	assert.ErrorContains(t, err, "failed to load slate")
}
