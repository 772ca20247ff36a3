package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Position is a classic NFL roster position.
type Position string

const (
	PositionQB  Position = "QB"
	PositionRB  Position = "RB"
	PositionWR  Position = "WR"
	PositionTE  Position = "TE"
	PositionDST Position = "DST"
)

// Positions lists every supported position in roster order.
var Positions = []Position{PositionQB, PositionRB, PositionWR, PositionTE, PositionDST}

// ParsePosition normalizes salary-file position labels.
func ParsePosition(raw string) (Position, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "QB":
		return PositionQB, nil
	case "RB":
		return PositionRB, nil
	case "WR":
		return PositionWR, nil
	case "TE":
		return PositionTE, nil
	case "DST", "D/ST", "DEF", "D":
		return PositionDST, nil
	default:
		return "", fmt.Errorf("unsupported position %q", raw)
	}
}

// IsPassCatcher reports whether the position can sit in a QB stack.
func (p Position) IsPassCatcher() bool {
	return p == PositionWR || p == PositionTE
}

// IsFlexEligible reports whether the position can fill the FLEX slot.
func (p Position) IsFlexEligible() bool {
	return p == PositionRB || p == PositionWR || p == PositionTE
}

// playerNamespace seeds the deterministic player ids so the same slate always
// produces the same identifiers.
var playerNamespace = uuid.MustParse("6f1c2a9e-3b7d-4c55-9a0e-d1f3b2c4e5a6")

// PlayerID derives the stable synthetic identifier for a player.
func PlayerID(name, team string, position Position) uuid.UUID {
	key := strings.Join([]string{strings.TrimSpace(name), strings.ToUpper(strings.TrimSpace(team)), string(position)}, "|")
	return uuid.NewSHA1(playerNamespace, []byte(key))
}

// Player is one priced, projected player in the slate. Immutable once the pool is built.
type Player struct {
	ID               uuid.UUID `json:"id"`
	ExternalID       string    `json:"external_id,omitempty"`
	Name             string    `json:"name"`
	Team             string    `json:"team"`
	Position         Position  `json:"position"`
	Salary           int       `json:"salary"`
	Projection       float64   `json:"projection"`
	Ceiling          float64   `json:"ceiling"`
	Ownership        float64   `json:"ownership"`
	Composite        float64   `json:"composite"`
	ProjectionSource string    `json:"projection_source"`
	OwnershipSource  string    `json:"ownership_source"`
}

// Data sources recorded on a player.
const (
	SourceInput = "input"
	SourceProxy = "proxy"
)

// CompositeScore blends mean, upside and chalk into one ranking number.
func CompositeScore(projection, ceiling, ownership, beta, gamma float64) float64 {
	return projection + beta*(ceiling-projection) - gamma*ownership
}

// Ref returns the lightweight reference used by stack blueprints.
func (p Player) Ref() PlayerRef {
	return PlayerRef{ID: p.ID, Name: p.Name, Team: p.Team, Position: p.Position}
}

func (p Player) String() string {
	return fmt.Sprintf("%s %s (%s) $%d", p.Position, p.Name, p.Team, p.Salary)
}

// PlayerRef identifies a player without carrying pricing data.
type PlayerRef struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Team     string    `json:"team"`
	Position Position  `json:"position"`
}
