package pricing

import (
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/Simplici0/valley.works/internal/catalog"
)

// Formula maps an input item's base normal-quality price to an output price.
type Formula func(basePrice int) int

type formulaEntry struct {
	fn Formula
	// artisan marks outputs that are artisan goods, so the artisan
	// profession multiplier applies to them.
	artisan bool
}

// The registry is a closed table; there is no expression evaluation.
var formulas = map[string]formulaEntry{
	"smoked_fish": {fn: func(base int) int { return floorMul(base, 1.5) }},
	"roe":         {fn: func(base int) int { return 30 + floorDiv(base, 2) }},
	// Input is the roe price, not the fish price.
	"aged_roe": {fn: func(base int) int { return base * 2 }, artisan: true},
	"wine":     {fn: func(base int) int { return base * 3 }, artisan: true},
	"juice":    {fn: func(base int) int { return floorMul(base, 2.25) }, artisan: true},
	"jelly":    {fn: func(base int) int { return 2*base + 50 }, artisan: true},
	"pickles":  {fn: func(base int) int { return 2*base + 50 }, artisan: true},
	// Sold per batch of five inputs.
	"dried": {fn: func(base int) int { return floorMul(base, 7.5) }, artisan: true},
}

func canonicalFormula(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
}

// ComputeViaFormula applies the named formula to inputBasePrice. The second
// result is false, and a warning is logged, when the name is not registered;
// callers must treat that as "no price", never as zero.
func ComputeViaFormula(name string, inputBasePrice int) (int, bool) {
	e, ok := formulas[canonicalFormula(name)]
	if !ok {
		slog.Warn("unknown price formula", "formula", name)
		return 0, false
	}
	return e.fn(inputBasePrice), true
}

// HasFormula reports whether name is registered.
func HasFormula(name string) bool {
	_, ok := formulas[canonicalFormula(name)]
	return ok
}

// FormulaNames returns the registered formula names, sorted.
func FormulaNames() []string {
	names := make([]string, 0, len(formulas))
	for name := range formulas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FormulaPrice prices a formula output for a player: the formula result,
// raised by the artisan multiplier when the output is an artisan good and
// artisan is active, then scaled to the output quality tier.
func FormulaPrice(name string, inputBasePrice int, q catalog.Quality, ctx Context) (int, bool) {
	price, ok := ComputeViaFormula(name, inputBasePrice)
	if !ok {
		return 0, false
	}
	if formulas[canonicalFormula(name)].artisan && ctx.Has(Artisan) {
		price = ApplyProfessionMultiplier(price, Artisan)
	}
	return ApplyQualityMultiplier(price, q), true
}

func floorDiv(a, b int) int {
	return int(math.Floor(float64(a) / float64(b)))
}
