// Package economy prices every step of an item's derivation tree and ranks
// the production chains by gold per day.
package economy

import (
	"sort"

	"github.com/Simplici0/valley.works/internal/catalog"
	"github.com/Simplici0/valley.works/internal/pricing"
	"github.com/Simplici0/valley.works/internal/recipes"
)

// Options are the caller's selections for one analysis.
type Options struct {
	// Quality is the tier of the root item being processed.
	Quality  catalog.Quality
	Context  pricing.Context
	MaxDepth int
}

// Step is one priced processing step: Input turned into Output by Processor.
type Step struct {
	Input          string            `json:"input"`
	Output         string            `json:"output"`
	Processor      string            `json:"processor"`
	Depth          int               `json:"depth"`
	Resolved       bool              `json:"resolved"`
	Sprite         string            `json:"sprite,omitempty"`
	InputPrice     int               `json:"inputPrice"`
	InputQuantity  int               `json:"inputQuantity"`
	OutputQuality  catalog.Quality   `json:"outputQuality"`
	OutputQuantity int               `json:"outputQuantity"`
	ProcessingDays float64           `json:"processingDays"`
	Bucket         catalog.BucketKey `json:"bucket,omitempty"`
	// Aged is true when the output is the input item aged to a higher tier.
	Aged bool `json:"aged,omitempty"`
	// PriceKnown is false when the output has no catalog entry, no registered
	// formula and no aging duration; the price fields below are then zero.
	PriceKnown  bool    `json:"priceKnown"`
	OutputPrice int     `json:"outputPrice"`
	Delta       int     `json:"delta"`
	GoldPerDay  float64 `json:"goldPerDay"`
}

// Profitable reports whether the step has a known, positive gold per day.
func (s Step) Profitable() bool {
	return s.PriceKnown && s.GoldPerDay > 0
}

// DefaultOptions analyzes a normal-quality item to the default tree depth
// with no professions.
func DefaultOptions() Options {
	return Options{Quality: catalog.QualityNormal, MaxDepth: recipes.DefaultMaxDepth}
}

// Analyze expands root into a derivation tree of opts.MaxDepth levels and
// prices every step. A depth of zero or less yields no steps. The root is
// sold at opts.Quality; each later step consumes its parent's output at the
// quality that step produced.
func Analyze(root catalog.Item, recipeSet []catalog.Recipe, index *catalog.Index, opts Options) []Step {
	quality := opts.Quality
	if quality == "" {
		quality = catalog.QualityNormal
	}

	tree := recipes.DerivationTree(root, recipeSet, index, opts.MaxDepth)

	// prices[d] is the price of the input consumed at depth d+1 on the branch
	// being walked; prices[0] is the root.
	prices := []int{pricing.SalePrice(root, quality, opts.Context)}

	var steps []Step
	recipes.Walk(root, tree, func(input catalog.Item, n recipes.Node, depth int) bool {
		prices = prices[:depth]
		step := priceStep(input, prices[depth-1], n, opts.Context)
		step.Depth = depth
		steps = append(steps, step)

		prices = append(prices, step.OutputPrice)
		return true
	})
	return steps
}

func priceStep(input catalog.Item, inputPrice int, n recipes.Node, ctx pricing.Context) Step {
	p := n.Product
	step := Step{
		Input:          input.Name,
		Output:         n.ResolvedName,
		Processor:      p.Processor,
		Resolved:       n.Resolved(),
		Sprite:         n.ResolvedSprite,
		InputPrice:     inputPrice,
		InputQuantity:  p.InputQuantity(),
		OutputQuality:  p.Quality(),
		OutputQuantity: p.Quantity(),
		ProcessingDays: p.ProcessingDays,
	}

	// Outputs are never foraged.
	outCtx := pricing.Context{Professions: ctx.Professions}

	switch {
	case n.Item != nil:
		key, bucket := pricing.SelectPriceBucket(*n.Item, outCtx)
		step.Bucket = key
		step.OutputPrice = pricing.PriceFor(bucket, step.OutputQuality)
		step.PriceKnown = true
	case p.PriceFormula != "":
		step.OutputPrice, step.PriceKnown = pricing.FormulaPrice(p.PriceFormula, input.BasePrice(), step.OutputQuality, outCtx)
	case input.Aging != nil:
		// Cask output: the same item sold at a higher tier.
		if days, ok := input.Aging.Days(step.OutputQuality); ok {
			key, bucket := pricing.SelectPriceBucket(input, outCtx)
			step.Bucket = key
			step.OutputPrice = pricing.PriceFor(bucket, step.OutputQuality)
			step.ProcessingDays = days
			step.Aged = true
			step.PriceKnown = true
		}
	}

	if step.PriceKnown {
		step.Delta = pricing.ComputeDelta(step.OutputPrice, step.OutputQuantity, step.InputPrice, step.InputQuantity)
		step.GoldPerDay = pricing.GoldPerDay(step.Delta, step.ProcessingDays, step.InputQuantity, pricing.NormalizesPerInput(step.Processor))
	}
	return step
}

// Rank orders steps for display: priced steps first, then by gold per day
// descending, ties broken by output name and then depth.
func Rank(steps []Step) []Step {
	out := make([]Step, len(steps))
	copy(out, steps)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.PriceKnown != b.PriceKnown {
			return a.PriceKnown
		}
		if a.GoldPerDay != b.GoldPerDay {
			return a.GoldPerDay > b.GoldPerDay
		}
		if a.Output != b.Output {
			return a.Output < b.Output
		}
		return a.Depth < b.Depth
	})
	return out
}

// Best returns the most profitable step, if any step is profitable.
func Best(steps []Step) (Step, bool) {
	ranked := Rank(steps)
	if len(ranked) == 0 || !ranked[0].Profitable() {
		return Step{}, false
	}
	return ranked[0], true
}
