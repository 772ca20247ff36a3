package store

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RunRecord is one persisted lineup build.
type RunRecord struct {
	ID          uuid.UUID      `gorm:"type:varchar(36);primaryKey" json:"id"`
	Seed        int64          `json:"seed"`
	Requested   int            `json:"requested"`
	Built       int            `json:"built"`
	Shortfall   int            `json:"shortfall"`
	Candidates  int            `json:"candidates"`
	Games       int            `json:"games"`
	Blueprints  int            `json:"blueprints"`
	DurationMS  int64          `json:"duration_ms"`
	Config      datatypes.JSON `json:"config"`
	Tiers       datatypes.JSON `json:"tiers"`
	ScoredGames datatypes.JSON `json:"scored_games"`
	Summary     datatypes.JSON `json:"summary"`
	StartedAt   time.Time      `json:"started_at"`
	CreatedAt   time.Time      `json:"created_at"`

	Lineups []LineupRecord `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE" json:"lineups,omitempty"`
}

func (RunRecord) TableName() string { return "lineup_runs" }

// LineupRecord is one ranked lineup of a run.
type LineupRecord struct {
	ID             uint      `gorm:"primaryKey" json:"-"`
	RunID          uuid.UUID `gorm:"type:varchar(36);index" json:"run_id"`
	Rank           int       `json:"rank"`
	Score          float64   `json:"score"`
	TotalSalary    int       `json:"total_salary"`
	TotalOwnership float64   `json:"total_ownership"`
	GameID         string    `json:"game_id"`
	Tier           string    `gorm:"type:varchar(1)" json:"tier"`
	Shell          string    `gorm:"type:varchar(8)" json:"shell"`
	Stack          string    `json:"stack"`
	CoreKey        string    `json:"core_key"`

	Players []LineupPlayerRecord `gorm:"foreignKey:LineupID;constraint:OnDelete:CASCADE" json:"players"`
}

func (LineupRecord) TableName() string { return "lineups" }

// LineupPlayerRecord is one roster slot of a stored lineup.
type LineupPlayerRecord struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	LineupID   uint      `gorm:"index" json:"-"`
	Slot       int       `json:"slot"`
	SlotName   string    `json:"slot_name"`
	PlayerID   uuid.UUID `gorm:"type:varchar(36)" json:"player_id"`
	ExternalID string    `json:"external_id,omitempty"`
	Name       string    `json:"name"`
	Team       string    `json:"team"`
	Position   string    `json:"position"`
	Salary     int       `json:"salary"`
	Projection float64   `json:"projection"`
	Ownership  float64   `json:"ownership"`
	Composite  float64   `json:"composite"`
}

func (LineupPlayerRecord) TableName() string { return "lineup_players" }
