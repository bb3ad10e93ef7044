package pricing

import "github.com/Simplici0/valley.works/internal/catalog"

// Context carries the caller-held state that affects pricing. It is passed
// explicitly on every call; the package keeps no selection state.
type Context struct {
	Professions []Profession
	// Foraged is true when the item instance was gathered rather than grown.
	Foraged bool
}

// Has reports whether profession p is active.
func (c Context) Has(p Profession) bool {
	for _, active := range c.Professions {
		if active == p {
			return true
		}
	}
	return false
}

// categoryProfessions maps categories to the profession that owns a
// dedicated price bucket for them.
var categoryProfessions = map[catalog.Category]Profession{
	catalog.CategoryFish:          Angler,
	catalog.CategoryAnimalProduct: Rancher,
	catalog.CategoryArtisanGood:   Artisan,
	catalog.CategoryProcessed:     Artisan,
}

var professionBuckets = map[Profession]catalog.BucketKey{
	Tiller:  catalog.BucketTiller,
	Artisan: catalog.BucketArtisan,
	Rancher: catalog.BucketRancher,
	Angler:  catalog.BucketAngler,
}

// Berries stay tiller-eligible even when foraged.
var tillerBerries = map[string]bool{
	"Salmonberry": true,
	"Blackberry":  true,
}

func tillerApplies(item catalog.Item, ctx Context) bool {
	if item.Category != catalog.CategoryCrop && item.Category != catalog.CategoryFruit {
		return false
	}
	if item.Forageable && ctx.Foraged {
		return tillerBerries[item.Name]
	}
	return true
}

// BucketFor returns the price category the item should be sold under, before
// any fallback for missing buckets. First match wins:
//  1. the category's own profession bucket, when that profession is active;
//  2. for foraged forageables with bears-knowledge, the combined
//     bears-knowledge+tiller bucket when tiller applies, else bears-knowledge;
//  3. tiller, for crops and fruit it applies to;
//  4. base.
func BucketFor(item catalog.Item, ctx Context) catalog.BucketKey {
	if p, ok := categoryProfessions[item.Category]; ok && ctx.Has(p) {
		return professionBuckets[p]
	}
	if item.Forageable && ctx.Foraged && ctx.Has(BearsKnowledge) {
		if ctx.Has(Tiller) && tillerApplies(item, ctx) {
			return catalog.BucketBearsKnowledgeTiller
		}
		return catalog.BucketBearsKnowledge
	}
	if ctx.Has(Tiller) && tillerApplies(item, ctx) {
		return catalog.BucketTiller
	}
	return catalog.BucketBase
}

// SelectPriceBucket returns the bucket key actually used and its quality set.
// A selected bucket missing from the item's prices falls back to base.
func SelectPriceBucket(item catalog.Item, ctx Context) (catalog.BucketKey, catalog.QualitySet) {
	key := BucketFor(item, ctx)
	if set, ok := item.Prices[key]; ok {
		return key, set
	}
	return catalog.BucketBase, item.Prices.Base()
}

// PriceFor returns the bucket's price for q, or the normal price when the
// bucket does not define q.
func PriceFor(bucket catalog.QualitySet, q catalog.Quality) int {
	if p, ok := bucket.Get(q); ok {
		return p
	}
	return bucket.Normal
}

// SalePrice is PriceFor applied to the selected bucket.
func SalePrice(item catalog.Item, q catalog.Quality, ctx Context) int {
	_, bucket := SelectPriceBucket(item, ctx)
	return PriceFor(bucket, q)
}
