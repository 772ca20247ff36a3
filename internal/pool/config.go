package pool

import (
	"fmt"

	"github.com/stitts-dev/nfl-stacker/internal/models"
	"github.com/stitts-dev/nfl-stacker/pkg/utils"
)

// SalaryFloors removes traditionally unplayable cheap options per position.
type SalaryFloors struct {
	QB  int `mapstructure:"qb" json:"qb"`
	RB  int `mapstructure:"rb" json:"rb"`
	WR  int `mapstructure:"wr" json:"wr"`
	TE  int `mapstructure:"te" json:"te"`
	DST int `mapstructure:"dst" json:"dst"`
}

// For returns the floor that applies to a position.
func (f SalaryFloors) For(pos models.Position) int {
	switch pos {
	case models.PositionQB:
		return f.QB
	case models.PositionRB:
		return f.RB
	case models.PositionWR:
		return f.WR
	case models.PositionTE:
		return f.TE
	case models.PositionDST:
		return f.DST
	}
	return 0
}

// PositionMultipliers scale the salary-based projection proxy per position.
type PositionMultipliers struct {
	QB  float64 `mapstructure:"qb" json:"qb"`
	RB  float64 `mapstructure:"rb" json:"rb"`
	WR  float64 `mapstructure:"wr" json:"wr"`
	TE  float64 `mapstructure:"te" json:"te"`
	DST float64 `mapstructure:"dst" json:"dst"`
}

// For returns the multiplier for a position.
func (m PositionMultipliers) For(pos models.Position) float64 {
	switch pos {
	case models.PositionQB:
		return m.QB
	case models.PositionRB:
		return m.RB
	case models.PositionWR:
		return m.WR
	case models.PositionTE:
		return m.TE
	case models.PositionDST:
		return m.DST
	}
	return 1
}

// ProxyConfig controls the substitutes used when projection or ownership data is absent.
type ProxyConfig struct {
	PointsPerDollar   float64             `mapstructure:"points_per_dollar" json:"points_per_dollar"`
	CeilingMultiplier float64             `mapstructure:"ceiling_multiplier" json:"ceiling_multiplier"`
	Multipliers       PositionMultipliers `mapstructure:"multipliers" json:"multipliers"`
	OwnershipTop      float64             `mapstructure:"ownership_top" json:"ownership_top"`
	OwnershipStep     float64             `mapstructure:"ownership_step" json:"ownership_step"`
	OwnershipMin      float64             `mapstructure:"ownership_min" json:"ownership_min"`
	OwnershipMax      float64             `mapstructure:"ownership_max" json:"ownership_max"`
	ForcedLowShare    float64             `mapstructure:"forced_low_share" json:"forced_low_share"`
	ForcedLowFactor   float64             `mapstructure:"forced_low_factor" json:"forced_low_factor"`
}

// Config drives the player pool build.
type Config struct {
	SalaryFloors        SalaryFloors `mapstructure:"salary_floors" json:"salary_floors"`
	Beta                float64      `mapstructure:"beta" json:"beta"`
	Gamma               float64      `mapstructure:"gamma" json:"gamma"`
	UnavailableStatuses []string     `mapstructure:"unavailable_statuses" json:"unavailable_statuses"`
	Proxy               ProxyConfig  `mapstructure:"proxy" json:"proxy"`
}

// DefaultUnavailableStatuses are injury designations that remove a player from the slate.
var DefaultUnavailableStatuses = []string{
	"Out", "IR", "IR-R", "NFI-R", "PUP-R",
	"Reserve-CEL", "Reserve-Ex", "Reserve-Ret", "Reserve-Sus",
}

// DefaultConfig returns the classic-slate defaults.
func DefaultConfig() Config {
	return Config{
		SalaryFloors:        SalaryFloors{QB: 4800, RB: 4100, WR: 3100, TE: 2600, DST: 0},
		Beta:                0.35,
		Gamma:               0.03,
		UnavailableStatuses: append([]string(nil), DefaultUnavailableStatuses...),
		Proxy: ProxyConfig{
			PointsPerDollar:   0.004,
			CeilingMultiplier: 1.6,
			Multipliers:       PositionMultipliers{QB: 1.2, RB: 1.0, WR: 1.1, TE: 0.9, DST: 0.8},
			OwnershipTop:      12,
			OwnershipStep:     1.5,
			OwnershipMin:      2,
			OwnershipMax:      12,
			ForcedLowShare:    0.30,
			ForcedLowFactor:   0.3,
		},
	}
}

// Validate rejects negative weights and floors.
func (c Config) Validate() error {
	f := c.SalaryFloors
	if f.QB < 0 || f.RB < 0 || f.WR < 0 || f.TE < 0 || f.DST < 0 {
		return fmt.Errorf("%w: salary floors must be non-negative", utils.ErrInvalidInput)
	}
	if c.Beta < 0 || c.Gamma < 0 {
		return fmt.Errorf("%w: beta and gamma must be non-negative", utils.ErrInvalidInput)
	}
	px := c.Proxy
	if px.PointsPerDollar <= 0 || px.CeilingMultiplier < 1 {
		return fmt.Errorf("%w: projection proxy needs a positive rate and a ceiling multiplier of at least 1", utils.ErrInvalidInput)
	}
	if px.OwnershipMin > px.OwnershipMax || px.ForcedLowShare < 0 || px.ForcedLowShare > 1 {
		return fmt.Errorf("%w: ownership proxy bounds are inconsistent", utils.ErrInvalidInput)
	}
	return nil
}
