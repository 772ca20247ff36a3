package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stitts-dev/nfl-stacker/internal/models"
	"github.com/stitts-dev/nfl-stacker/internal/optimizer"
	"github.com/stitts-dev/nfl-stacker/internal/pipeline"
	applog "github.com/stitts-dev/nfl-stacker/pkg/logger"
	"github.com/stitts-dev/nfl-stacker/pkg/utils"
)

// Store persists runs and their lineups.
type Store struct {
	db  *gorm.DB
	log *logrus.Entry
}

func dialectorFor(url string) (gorm.Dialector, bool) {
	switch {
	case url == ":memory:", strings.HasPrefix(url, "file:"):
		return sqlite.Open(url), true
	case strings.HasPrefix(url, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(url, "sqlite://")), true
	default:
		return postgres.Open(url), false
	}
}

// Open connects to postgres, or to sqlite for ":memory:", "file:" and "sqlite://"
// URLs, and migrates the schema.
func Open(url string, isDevelopment bool) (*Store, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty database url", utils.ErrInvalidInput)
	}
	logLevel := logger.Error
	if isDevelopment {
		logLevel = logger.Info
	}

	dialector, isSQLite := dialectorFor(url)
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	if isSQLite {
		// each sqlite connection to :memory: is its own database
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db, log: applog.WithService("store")}
	if err := s.Migrate(); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"sqlite": isSQLite,
	}).Info("Database connection established successfully")
	return s, nil
}

// WithLogger replaces the store's log entry.
func (s *Store) WithLogger(entry *logrus.Entry) *Store {
	if entry != nil {
		s.log = entry
	}
	return s
}

// Migrate creates or updates the run tables.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&RunRecord{}, &LineupRecord{}, &LineupPlayerRecord{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// HealthCheck pings the database.
func (s *Store) HealthCheck(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func toJSON(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal run field: %w", err)
	}
	return data, nil
}

// NewRunRecord flattens a pipeline result into its persisted form. Players are
// stored in upload slot order.
func NewRunRecord(res *pipeline.Result, cfg pipeline.Config) (*RunRecord, error) {
	rec := &RunRecord{
		ID:         res.RunID,
		Seed:       res.Seed,
		Requested:  res.Requested(),
		Built:      len(res.Lineups),
		Shortfall:  res.Shortfall(),
		Candidates: res.Candidates,
		Games:      len(res.ScoredGames),
		Blueprints: len(res.Blueprints),
		DurationMS: res.Duration.Milliseconds(),
		StartedAt:  res.StartedAt,
		Lineups:    make([]LineupRecord, 0, len(res.Lineups)),
	}

	var err error
	if rec.Config, err = toJSON(cfg); err != nil {
		return nil, err
	}
	if rec.Tiers, err = toJSON(res.Tiers); err != nil {
		return nil, err
	}
	if rec.ScoredGames, err = toJSON(res.ScoredGames); err != nil {
		return nil, err
	}
	if rec.Summary, err = toJSON(res.Exposure.Summary); err != nil {
		return nil, err
	}

	for _, l := range res.Lineups {
		lr := LineupRecord{
			RunID:          res.RunID,
			Rank:           l.Rank,
			Score:          l.Score,
			TotalSalary:    l.TotalSalary,
			TotalOwnership: l.TotalOwnership,
			GameID:         l.GameID,
			Tier:           string(l.Tier),
			Shell:          l.Shell,
			Stack:          l.Stack,
			CoreKey:        l.CoreKey(),
		}
		players := l.Players
		names := make([]string, len(players))
		if slots, err := optimizer.AssignSlots(l.Lineup); err == nil {
			players = slots[:]
			names = optimizer.SlotNames()
		}
		for i, p := range players {
			lr.Players = append(lr.Players, playerRecord(i, names[i], p))
		}
		rec.Lineups = append(rec.Lineups, lr)
	}
	return rec, nil
}

func playerRecord(slot int, slotName string, p models.Player) LineupPlayerRecord {
	return LineupPlayerRecord{
		Slot:       slot,
		SlotName:   slotName,
		PlayerID:   p.ID,
		ExternalID: p.ExternalID,
		Name:       p.Name,
		Team:       p.Team,
		Position:   string(p.Position),
		Salary:     p.Salary,
		Projection: p.Projection,
		Ownership:  p.Ownership,
		Composite:  p.Composite,
	}
}

// SaveRun stores a run with all of its lineups in one transaction.
func (s *Store) SaveRun(ctx context.Context, res *pipeline.Result, cfg pipeline.Config) error {
	rec, err := NewRunRecord(res, cfg)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to save run %s: %w", res.RunID, err)
	}
	s.log.WithFields(logrus.Fields{
		"run_id":  res.RunID.String(),
		"lineups": len(rec.Lineups),
	}).Debug("Run persisted")
	return nil
}

// GetRun loads a run with its lineups ordered by rank and players by slot.
func (s *Store) GetRun(ctx context.Context, id uuid.UUID) (*RunRecord, error) {
	var rec RunRecord
	err := s.db.WithContext(ctx).
		Preload("Lineups", func(db *gorm.DB) *gorm.DB { return db.Order("rank ASC") }).
		Preload("Lineups.Players", func(db *gorm.DB) *gorm.DB { return db.Order("slot ASC") }).
		First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: run %s", utils.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", id, err)
	}
	return &rec, nil
}

// ListRuns returns run headers, newest first, without lineups.
func (s *Store) ListRuns(ctx context.Context, limit, offset int) ([]RunRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	runs := make([]RunRecord, 0)
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// DeleteRun removes a run and its lineups.
func (s *Store) DeleteRun(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lineupIDs []uint
		if err := tx.Model(&LineupRecord{}).Where("run_id = ?", id).Pluck("id", &lineupIDs).Error; err != nil {
			return err
		}
		if len(lineupIDs) > 0 {
			if err := tx.Where("lineup_id IN ?", lineupIDs).Delete(&LineupPlayerRecord{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("run_id = ?", id).Delete(&LineupRecord{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&RunRecord{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: run %s", utils.ErrNotFound, id)
		}
		return nil
	})
}
