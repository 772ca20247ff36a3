package ingest

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/nfl-stacker/internal/pipeline"
	"github.com/stitts-dev/nfl-stacker/pkg/utils"
)

// File names tried, in order, for each table inside an input directory.
var (
	SalaryFiles     = []string{"dk_salaries.csv", "DKSalaries.csv", "salaries.csv"}
	ProjectionFiles = []string{"projections.csv"}
	OwnershipFiles  = []string{"ownership.csv"}
	InjuryFiles     = []string{"injuries.csv", "nfl-injury-report.csv"}
	GameFiles       = []string{"weekly_inputs.csv", "games.csv"}
	RoleFiles       = []string{"roles.csv", "depth_charts.csv"}
)

// LoadDir reads a slate from a directory. Salaries, games and roles must exist;
// projections, ownership and injuries are optional.
func LoadDir(dir string, log *logrus.Entry) (pipeline.Inputs, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	var in pipeline.Inputs
	var err error

	if in.Players.Salaries, err = loadRequired(dir, SalaryFiles, ReadSalaries); err != nil {
		return in, err
	}
	if in.Games, err = loadRequired(dir, GameFiles, ReadGames); err != nil {
		return in, err
	}
	if in.Roles, err = loadRequired(dir, RoleFiles, ReadRoles); err != nil {
		return in, err
	}
	if in.Players.Projections, err = loadOptional(dir, ProjectionFiles, ReadProjections); err != nil {
		return in, err
	}
	if in.Players.Ownership, err = loadOptional(dir, OwnershipFiles, ReadOwnership); err != nil {
		return in, err
	}
	if in.Players.Injuries, err = loadOptional(dir, InjuryFiles, ReadInjuries); err != nil {
		return in, err
	}

	log.WithFields(logrus.Fields{
		"dir":         dir,
		"salaries":    len(in.Players.Salaries),
		"projections": len(in.Players.Projections),
		"ownership":   len(in.Players.Ownership),
		"injuries":    len(in.Players.Injuries),
		"games":       len(in.Games),
		"roles":       len(in.Roles),
	}).Info("Loaded slate inputs")
	return in, nil
}

func find(dir string, names []string) (string, bool) {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if st, err := os.Stat(path); err == nil && !st.IsDir() {
			return path, true
		}
	}
	return "", false
}

func loadRequired[T any](dir string, names []string, read func(io.Reader) ([]T, error)) ([]T, error) {
	path, ok := find(dir, names)
	if !ok {
		return nil, fmt.Errorf("%w: none of %v in %s", utils.ErrNotFound, names, dir)
	}
	return readFile(path, read)
}

func loadOptional[T any](dir string, names []string, read func(io.Reader) ([]T, error)) ([]T, error) {
	path, ok := find(dir, names)
	if !ok {
		return nil, nil
	}
	return readFile(path, read)
}

func readFile[T any](path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", utils.ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return rows, nil
}
