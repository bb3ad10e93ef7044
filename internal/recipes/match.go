// Package recipes resolves which recipes apply to an item and expands the
// products they make into derivation trees.
package recipes

import "github.com/Simplici0/valley.works/internal/catalog"

// Matches reports whether a recipe base selects item. A name selector matches
// the exact, case-sensitive item name; a category selector matches the item's
// category. Nothing else matches.
func Matches(base catalog.RecipeBase, item catalog.Item) bool {
	switch base.Kind {
	case catalog.BaseByName:
		return base.Name == item.Name
	case catalog.BaseByCategory:
		return base.Category == item.Category
	}
	return false
}

// RecipesFor returns the recipes whose base selects item, in catalog order.
func RecipesFor(item catalog.Item, recipes []catalog.Recipe) []catalog.Recipe {
	var out []catalog.Recipe
	for _, r := range recipes {
		if Matches(r.Base, item) {
			out = append(out, r)
		}
	}
	return out
}
