// Package pricing computes sale prices of catalog items under quality tiers
// and player professions, prices derived goods through named formulas, and
// measures the profit of processing steps.
package pricing

import (
	"fmt"
	"math"
	"strings"

	"github.com/Simplici0/valley.works/internal/catalog"
)

// Profession is a player skill flag that can unlock a higher price bucket.
type Profession string

const (
	Tiller         Profession = "tiller"
	Artisan        Profession = "artisan"
	Rancher        Profession = "rancher"
	Angler         Profession = "angler"
	BearsKnowledge Profession = "bears-knowledge"
)

// Professions lists every recognised profession.
var Professions = []Profession{Tiller, Artisan, Rancher, Angler, BearsKnowledge}

// ParseProfession resolves a profession name, case-insensitively. Underscores
// and camel case spellings of bears-knowledge are accepted.
func ParseProfession(raw string) (Profession, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "_", "-")
	if s == "bearsknowledge" {
		s = string(BearsKnowledge)
	}
	for _, p := range Professions {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown profession %q", raw)
}

var qualityMultipliers = map[catalog.Quality]float64{
	catalog.QualityNormal:  1,
	catalog.QualitySilver:  1.25,
	catalog.QualityGold:    1.5,
	catalog.QualityIridium: 2,
}

var professionMultipliers = map[Profession]float64{
	Tiller:  1.1,
	Rancher: 1.1,
	Artisan: 1.4,
	Angler:  1.5,
}

// QualityMultiplier returns the price multiplier of tier q; unknown tiers are 1.
func QualityMultiplier(q catalog.Quality) float64 {
	if m, ok := qualityMultipliers[q]; ok {
		return m
	}
	return 1
}

// ApplyQualityMultiplier returns floor(basePrice * multiplier(q)).
func ApplyQualityMultiplier(basePrice int, q catalog.Quality) int {
	return floorMul(basePrice, QualityMultiplier(q))
}

// ApplyProfessionMultiplier returns floor(basePrice * multiplier(p)). Unknown
// professions, and those without a multiplier, leave the price unchanged.
func ApplyProfessionMultiplier(basePrice int, p Profession) int {
	m, ok := professionMultipliers[p]
	if !ok {
		return basePrice
	}
	return floorMul(basePrice, m)
}

// GenerateQualities builds a full quality set from a normal-quality price.
func GenerateQualities(normal int) catalog.QualitySet {
	silver := ApplyQualityMultiplier(normal, catalog.QualitySilver)
	gold := ApplyQualityMultiplier(normal, catalog.QualityGold)
	iridium := ApplyQualityMultiplier(normal, catalog.QualityIridium)
	return catalog.QualitySet{
		Normal:  normal,
		Silver:  &silver,
		Gold:    &gold,
		Iridium: &iridium,
	}
}

func floorMul(v int, m float64) int {
	return int(math.Floor(float64(v) * m))
}
