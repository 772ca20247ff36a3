package optimizer

import (
	"math"
	"math/rand"

	"github.com/stitts-dev/nfl-stacker/internal/models"
)

// Shell is the shape of the correlated core: pass-catchers from the QB's team versus
// bring-backs from the opponent.
type Shell string

const (
	Shell3v1 Shell = "3v1"
	Shell3v0 Shell = "3v0"
	Shell4v1 Shell = "4v1"
	Shell2v1 Shell = "2v1"
)

type shellShare struct {
	shell Shell
	share float64
}

// pickShell draws a shell from the configured mix. 3v0 is only on the table for
// lopsided spreads or windy games.
func pickShell(rng *rand.Rand, bp models.StackBlueprint, mix ShellMix) Shell {
	spread := 0.0
	if bp.HomeSpread != nil {
		spread = math.Abs(*bp.HomeSpread)
	}
	wind := 0.0
	if bp.WindMPH != nil {
		wind = *bp.WindMPH
	}

	options := []shellShare{{Shell3v1, mix.ThreeOne}}
	if spread >= mix.BlowoutSpread || wind >= mix.WindCutoff {
		options = append(options, shellShare{Shell3v0, mix.ThreeZero})
	}
	options = append(options, shellShare{Shell4v1, mix.FourOne}, shellShare{Shell2v1, mix.TwoOne})

	total := 0.0
	for _, o := range options {
		total += o.share
	}
	if total <= 0 {
		return Shell3v1
	}

	x := rng.Float64() * total
	acc := 0.0
	for _, o := range options {
		acc += o.share
		if x <= acc {
			return o.shell
		}
	}
	return Shell3v1
}

// seedRefs lists the blueprint players a shell starts from, in construction order.
// A 4v1 with no spare teammate falls back to 3v1.
func seedRefs(bp models.StackBlueprint, shell Shell) ([]models.PlayerRef, Shell) {
	refs := []models.PlayerRef{bp.QB}
	switch shell {
	case Shell3v0:
		return append(refs, bp.Catchers...), shell
	case Shell2v1:
		if len(bp.Catchers) > 0 {
			refs = append(refs, bp.Catchers[0])
		}
		return append(refs, bp.BringBack), shell
	case Shell4v1:
		if len(bp.Extras) == 0 {
			return seedRefs(bp, Shell3v1)
		}
		refs = append(refs, bp.Catchers...)
		refs = append(refs, bp.Extras[0])
		return append(refs, bp.BringBack), shell
	default:
		refs = append(refs, bp.Catchers...)
		return append(refs, bp.BringBack), Shell3v1
	}
}
