package assistant

import (
	"math"

	"github.com/cogitex/rfbooking/models"
)

// SpecTolerance is the relative band within which an equipment description's
// value satisfies an extracted constraint. ±10% was chosen over exact-match
// so "2.4 GHz" requests still surface "2.45 GHz ISM band" instruments.
const SpecTolerance = 0.10

// FilterBySpecs keeps equipment whose description either satisfies every
// extracted constraint within tolerance or does not mention the parameter at
// all (unknown never disqualifies). An item is dropped only on an explicit
// mismatch. Empty specs returns the catalog unchanged; order is preserved.
func FilterBySpecs(catalog []models.Equipment, specs []Spec) []models.Equipment {
	if len(specs) == 0 {
		return catalog
	}
	out := make([]models.Equipment, 0, len(catalog))
	for _, eq := range catalog {
		if matchesAll(eq.Description, specs) {
			out = append(out, eq)
		}
	}
	return out
}

func matchesAll(description string, specs []Spec) bool {
	mined := ExtractSpecs(description)
	for _, want := range specs {
		mismatch := false
		satisfied := false
		for _, have := range mined {
			if have.Param != want.Param {
				continue
			}
			if withinTolerance(have.Value, want.Value) {
				satisfied = true
				break
			}
			mismatch = true
		}
		if mismatch && !satisfied {
			return false
		}
	}
	return true
}

func withinTolerance(have, want float64) bool {
	if want == 0 {
		return have == 0
	}
	return math.Abs(have-want) <= SpecTolerance*math.Abs(want)
}
