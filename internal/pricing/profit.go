package pricing

import "github.com/Simplici0/valley.works/internal/catalog"

// Processor describes a production facility.
type Processor struct {
	Name string `json:"name"`
	// NormalizesPerInput is set for processors that turn each input unit into
	// output independently, so gold per day is also divided by input quantity.
	NormalizesPerInput bool `json:"normalizesPerInput"`
}

var processors = []Processor{
	{Name: "Keg"},
	{Name: "Preserves Jar"},
	{Name: "Dehydrator", NormalizesPerInput: true},
	{Name: "Mill"},
	{Name: "Oil Maker"},
	{Name: "Mayonnaise Machine"},
	{Name: "Cheese Press"},
	{Name: "Cask"},
	{Name: "Fish Smoker"},
	{Name: "Fish Pond"},
}

// Processors returns the known processors.
func Processors() []Processor {
	out := make([]Processor, len(processors))
	copy(out, processors)
	return out
}

// NormalizesPerInput reports the gold-per-day policy of a processor. Unknown
// processors do not normalize.
func NormalizesPerInput(processor string) bool {
	for _, p := range processors {
		if p.Name == processor {
			return p.NormalizesPerInput
		}
	}
	return false
}

// ComputeDelta is outputPrice*outputQuantity - inputPrice*inputQuantity.
func ComputeDelta(outputPrice, outputQuantity, inputPrice, inputQuantity int) int {
	return outputPrice*outputQuantity - inputPrice*inputQuantity
}

// GoldPerDay divides delta by processingDays (1 when absent or <= 0) and, when
// normalizeByInput is set, by inputQuantity. The signed value is returned;
// suppressing losses is up to the caller.
func GoldPerDay(delta int, processingDays float64, inputQuantity int, normalizeByInput bool) float64 {
	days := processingDays
	if days <= 0 {
		days = 1
	}
	v := float64(delta) / days
	if normalizeByInput && inputQuantity > 0 {
		v /= float64(inputQuantity)
	}
	return v
}

// AgingOption is one cask aging target for an item.
type AgingOption struct {
	Target     catalog.Quality `json:"target"`
	Price      int             `json:"price"`
	Delta      int             `json:"delta"`
	Days       float64         `json:"days"`
	GoldPerDay float64         `json:"goldPerDay"`
}

// AgingOptions lists the tiers strictly above current that the item can be
// aged to, with the price gain over current and the gain per aging day.
func AgingOptions(item catalog.Item, bucket catalog.QualitySet, current catalog.Quality) []AgingOption {
	if item.Aging == nil {
		return nil
	}
	from := PriceFor(bucket, current)
	var out []AgingOption
	for _, q := range catalog.Qualities {
		if q.Rank() <= current.Rank() {
			continue
		}
		days, ok := item.Aging.Days(q)
		if !ok {
			continue
		}
		price := PriceFor(bucket, q)
		delta := price - from
		out = append(out, AgingOption{
			Target:     q,
			Price:      price,
			Delta:      delta,
			Days:       days,
			GoldPerDay: GoldPerDay(delta, days, 1, false),
		})
	}
	return out
}
