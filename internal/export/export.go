package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/nfl-stacker/internal/models"
	"github.com/stitts-dev/nfl-stacker/internal/optimizer"
	"github.com/stitts-dev/nfl-stacker/internal/pipeline"
)

// Output file names written by WriteDir.
const (
	EdgeScoresFile = "edge_scores.csv"
	StacksFile     = "stacks.csv"
	LineupsFile    = "lineups.csv"
	UploadFile     = "dk_upload.csv"
	ExposureFile   = "exposure.csv"
)

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func writeAll(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

// WriteEdgeScores writes scored games in the order given.
func WriteEdgeScores(w io.Writer, games []models.ScoredGame) error {
	header := []string{
		"game_id", "home_team", "away_team", "ou", "spread_home", "wind_mph", "venue_roof",
		"total_score", "spread_score", "proe_pace_score", "venue_weather_score",
		"concentration_score", "ownership_penalty", "edge_score", "tier",
	}
	rows := make([][]string, 0, len(games))
	for _, g := range games {
		rows = append(rows, []string{
			g.GameID, g.HomeTeam, g.AwayTeam,
			optFloat(g.Total), optFloat(g.HomeSpread), optFloat(g.WindMPH), g.Venue,
			ftoa(g.SubScores.Total), ftoa(g.SubScores.Spread), ftoa(g.SubScores.PROEPace),
			ftoa(g.SubScores.VenueWeather), ftoa(g.SubScores.Concentration), ftoa(g.SubScores.OwnershipPenalty),
			ftoa(g.EdgeScore), string(g.Tier),
		})
	}
	return writeAll(w, header, rows)
}

// WriteStacks writes one row per stack blueprint.
func WriteStacks(w io.Writer, blueprints []models.StackBlueprint) error {
	header := []string{"game_id", "tier", "edge_score", "qb", "qb_team", "stack", "bringback", "bringback_team"}
	rows := make([][]string, 0, len(blueprints))
	for _, bp := range blueprints {
		catchers := make([]string, 0, len(bp.Catchers))
		for _, c := range bp.Catchers {
			catchers = append(catchers, c.Name)
		}
		rows = append(rows, []string{
			bp.GameID, string(bp.Tier), ftoa(bp.EdgeScore),
			bp.QB.Name, bp.QBTeam, strings.Join(catchers, "|"),
			bp.BringBack.Name, bp.BringBack.Team,
		})
	}
	return writeAll(w, header, rows)
}

// WriteLineups writes the readable lineup sheet: totals followed by each player's
// name, position, team and salary in upload slot order.
func WriteLineups(w io.Writer, lineups []models.RankedLineup) error {
	header := []string{"rank", "score", "salary", "ownership", "projection", "game_id", "tier", "shell", "stack"}
	for i := range optimizer.ClassicSlots {
		p := fmt.Sprintf("p%d_", i+1)
		header = append(header, p+"name", p+"pos", p+"team", p+"sal")
	}

	rows := make([][]string, 0, len(lineups))
	for _, l := range lineups {
		slots, err := optimizer.AssignSlots(l.Lineup)
		if err != nil {
			return fmt.Errorf("failed to format lineup %d: %w", l.Rank, err)
		}
		row := []string{
			strconv.Itoa(l.Rank), ftoa(l.Score), strconv.Itoa(l.TotalSalary),
			ftoa(l.TotalOwnership), ftoa(l.TotalProjection()),
			l.GameID, string(l.Tier), l.Shell, l.Stack,
		}
		for _, p := range slots {
			row = append(row, p.Name, string(p.Position), p.Team, strconv.Itoa(p.Salary))
		}
		rows = append(rows, row)
	}
	return writeAll(w, header, rows)
}

// UploadCell formats a player for the DraftKings upload sheet.
func UploadCell(p models.Player) string {
	if p.ExternalID != "" {
		return fmt.Sprintf("%s (%s)", p.Name, p.ExternalID)
	}
	return p.Name
}

// WriteUpload writes the DraftKings NFL classic upload sheet.
func WriteUpload(w io.Writer, lineups []models.RankedLineup) error {
	rows := make([][]string, 0, len(lineups))
	for _, l := range lineups {
		slots, err := optimizer.AssignSlots(l.Lineup)
		if err != nil {
			return fmt.Errorf("failed to format lineup %d: %w", l.Rank, err)
		}
		row := make([]string, len(slots))
		for i, p := range slots {
			row[i] = UploadCell(p)
		}
		rows = append(rows, row)
	}
	return writeAll(w, optimizer.SlotNames(), rows)
}

// WriteExposure writes per-player exposure.
func WriteExposure(w io.Writer, report optimizer.ExposureReport) error {
	header := []string{"player", "team", "pos", "count", "pct"}
	rows := make([][]string, 0, len(report.PlayerExposures))
	for _, pe := range report.PlayerExposures {
		rows = append(rows, []string{
			pe.PlayerName, pe.Team, string(pe.Position), strconv.Itoa(pe.Count), ftoa(pe.Percentage),
		})
	}
	return writeAll(w, header, rows)
}

// WriteDir writes every output sheet for a run into dir, creating it if needed.
func WriteDir(dir string, res *pipeline.Result, log *logrus.Entry) error {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{EdgeScoresFile, func(w io.Writer) error { return WriteEdgeScores(w, res.ScoredGames) }},
		{StacksFile, func(w io.Writer) error { return WriteStacks(w, res.Blueprints) }},
		{LineupsFile, func(w io.Writer) error { return WriteLineups(w, res.Lineups) }},
		{UploadFile, func(w io.Writer) error { return WriteUpload(w, res.Lineups) }},
		{ExposureFile, func(w io.Writer) error { return WriteExposure(w, res.Exposure) }},
	}
	for _, f := range files {
		if err := writeFile(filepath.Join(dir, f.name), f.write); err != nil {
			return err
		}
	}

	log.WithFields(logrus.Fields{
		"dir":     dir,
		"lineups": len(res.Lineups),
		"games":   len(res.ScoredGames),
		"stacks":  len(res.Blueprints),
	}).Info("Wrote run outputs")
	return nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	if err := write(f); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}
