// Package catalog holds the item and recipe data model and the read-only
// name index the engine resolves against.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCategory is returned when a category selector names no known category.
var ErrUnknownCategory = errors.New("unknown item category")

// ErrUnknownQuality is returned when a quality tier name is not recognised.
var ErrUnknownQuality = errors.New("unknown quality tier")

// Category groups items for category-wide recipes and profession pricing.
type Category string

const (
	CategoryCrop          Category = "crop"
	CategoryFruit         Category = "fruit"
	CategoryAnimalProduct Category = "animal-product"
	CategoryFish          Category = "fish"
	CategoryArtisanGood   Category = "artisan-good"
	CategoryProcessed     Category = "processed"
)

// Categories lists every known category in declaration order.
var Categories = []Category{
	CategoryCrop,
	CategoryFruit,
	CategoryAnimalProduct,
	CategoryFish,
	CategoryArtisanGood,
	CategoryProcessed,
}

// ParseCategory resolves a category name, case-insensitively.
func ParseCategory(raw string) (Category, error) {
	want := strings.ToLower(strings.TrimSpace(raw))
	for _, c := range Categories {
		if string(c) == want {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, raw)
}

// Quality is an item instance's quality tier.
type Quality string

const (
	QualityNormal  Quality = "normal"
	QualitySilver  Quality = "silver"
	QualityGold    Quality = "gold"
	QualityIridium Quality = "iridium"
)

// Qualities lists the tiers in ascending order.
var Qualities = []Quality{QualityNormal, QualitySilver, QualityGold, QualityIridium}

// Rank returns the tier's position in ascending order, or -1 when unknown.
func (q Quality) Rank() int {
	for i, t := range Qualities {
		if t == q {
			return i
		}
	}
	return -1
}

// ParseQuality resolves a tier name. An empty string means normal.
func ParseQuality(raw string) (Quality, error) {
	want := Quality(strings.ToLower(strings.TrimSpace(raw)))
	if want == "" {
		return QualityNormal, nil
	}
	if want.Rank() < 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownQuality, raw)
	}
	return want, nil
}

// QualitySet holds the sale price of an item per quality tier. Only Normal is
// required; higher tiers are nil when the catalog does not define them.
type QualitySet struct {
	Normal  int  `json:"normal" yaml:"normal"`
	Silver  *int `json:"silver,omitempty" yaml:"silver,omitempty"`
	Gold    *int `json:"gold,omitempty" yaml:"gold,omitempty"`
	Iridium *int `json:"iridium,omitempty" yaml:"iridium,omitempty"`
}

// Get returns the price for q and whether the tier is defined.
func (s QualitySet) Get(q Quality) (int, bool) {
	var p *int
	switch q {
	case QualityNormal:
		return s.Normal, true
	case QualitySilver:
		p = s.Silver
	case QualityGold:
		p = s.Gold
	case QualityIridium:
		p = s.Iridium
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// BucketKey names one price category within an item's PriceTable.
type BucketKey string

const (
	BucketBase                 BucketKey = "base"
	BucketTiller               BucketKey = "tiller"
	BucketArtisan              BucketKey = "artisan"
	BucketRancher              BucketKey = "rancher"
	BucketAngler               BucketKey = "angler"
	BucketBearsKnowledge       BucketKey = "bearsKnowledge"
	BucketBearsKnowledgeTiller BucketKey = "bearsKnowledgeTiller"
)

// PriceTable maps price categories to quality sets. The base bucket is
// always expected to be present.
type PriceTable map[BucketKey]QualitySet

// Base returns the base bucket. A catalog row without one yields a zero set.
func (p PriceTable) Base() QualitySet {
	return p[BucketBase]
}

// AgingDurations holds cask aging days needed to reach each tier. Zero means
// the tier is not reachable by aging.
type AgingDurations struct {
	Silver  float64 `json:"silver,omitempty" yaml:"silver,omitempty"`
	Gold    float64 `json:"gold,omitempty" yaml:"gold,omitempty"`
	Iridium float64 `json:"iridium,omitempty" yaml:"iridium,omitempty"`
}

// Days returns the aging duration for the target tier.
func (a AgingDurations) Days(target Quality) (float64, bool) {
	var d float64
	switch target {
	case QualitySilver:
		d = a.Silver
	case QualityGold:
		d = a.Gold
	case QualityIridium:
		d = a.Iridium
	}
	return d, d > 0
}

// Item is one catalog entry. Name is unique across the catalog.
type Item struct {
	Name         string          `json:"name" yaml:"name"`
	Description  string          `json:"description,omitempty" yaml:"description,omitempty"`
	Category     Category        `json:"category" yaml:"category"`
	IsBase       bool            `json:"base" yaml:"base"`
	Prices       PriceTable      `json:"prices" yaml:"prices"`
	Color        string          `json:"color,omitempty" yaml:"color,omitempty"`
	SpriteRef    string          `json:"spritePath,omitempty" yaml:"spritePath,omitempty"`
	DaysToMature float64         `json:"daysToMature,omitempty" yaml:"daysToMature,omitempty"`
	DaysToRegrow float64         `json:"daysToRegrow,omitempty" yaml:"daysToRegrow,omitempty"`
	Forageable   bool            `json:"forageable,omitempty" yaml:"forageable,omitempty"`
	Aging        *AgingDurations `json:"agingDurationsByQuality,omitempty" yaml:"agingDurationsByQuality,omitempty"`
}

// BasePrice is the normal-quality price of the base bucket.
func (it Item) BasePrice() int {
	return it.Prices.Base().Normal
}
