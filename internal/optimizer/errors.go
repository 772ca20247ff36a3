package optimizer

import "errors"

// Soft failures. An attempt that returns one of these is discarded and the search
// moves on to the next blueprint.
var (
	ErrUnresolvedPlayer = errors.New("stack player not in pool")
	ErrFillStuck        = errors.New("no candidate for needed positions")
	ErrRosterShape      = errors.New("roster shape violated")
	ErrSalaryBand       = errors.New("salary outside band")
	ErrOwnershipGate    = errors.New("ownership gate failed")
	ErrDuplicateCore    = errors.New("core five already used")
)

// Rejection reasons reported to observers.
const (
	ReasonUnresolved = "unresolved_player"
	ReasonFillStuck  = "fill_stuck"
	ReasonShape      = "roster_shape"
	ReasonSalary     = "salary_band"
	ReasonOwnership  = "ownership_gate"
	ReasonDuplicate  = "duplicate_core"
	ReasonOther      = "other"
)

// RejectReason maps an assembler error to a short label.
func RejectReason(err error) string {
	switch {
	case errors.Is(err, ErrUnresolvedPlayer):
		return ReasonUnresolved
	case errors.Is(err, ErrFillStuck):
		return ReasonFillStuck
	case errors.Is(err, ErrRosterShape):
		return ReasonShape
	case errors.Is(err, ErrSalaryBand):
		return ReasonSalary
	case errors.Is(err, ErrOwnershipGate):
		return ReasonOwnership
	case errors.Is(err, ErrDuplicateCore):
		return ReasonDuplicate
	}
	return ReasonOther
}
