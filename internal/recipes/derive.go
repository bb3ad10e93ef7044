package recipes

import "github.com/Simplici0/valley.works/internal/catalog"

// DefaultMaxDepth bounds derivation trees when the caller has no preference.
const DefaultMaxDepth = 3

// Product is a recipe product resolved against a concrete input item.
type Product struct {
	Product        catalog.RecipeProduct `json:"product"`
	ResolvedName   string                `json:"resolvedName"`
	ResolvedSprite string                `json:"resolvedSprite,omitempty"`
}

// Node is one step of a derivation tree. Item is nil when ResolvedName has no
// catalog entry; such nodes are always leaves.
type Node struct {
	Item           *catalog.Item         `json:"item"`
	Product        catalog.RecipeProduct `json:"product"`
	ResolvedName   string                `json:"resolvedName"`
	ResolvedSprite string                `json:"resolvedSprite,omitempty"`
	Children       []Node                `json:"children,omitempty"`
}

// Resolved reports whether the node's output exists in the catalog.
func (n Node) Resolved() bool {
	return n.Item != nil
}

// ImmediateProducts lists every product of every recipe that matches item, in
// recipe order then declaration order. Nothing is deduplicated.
func ImmediateProducts(item catalog.Item, recipes []catalog.Recipe) []Product {
	var out []Product
	for _, r := range recipes {
		if !Matches(r.Base, item) {
			continue
		}
		for _, p := range r.Products {
			out = append(out, resolveProduct(p, item.Name))
		}
	}
	return out
}

func resolveProduct(p catalog.RecipeProduct, inputName string) Product {
	name := p.Name
	if p.NameTemplate != "" {
		name = ResolveName(p.NameTemplate, inputName)
	}

	sprite := p.StaticSprite
	if p.SpriteTemplate != "" {
		sprite = ResolveSpriteSlug(p.SpriteTemplate, inputName)
	}

	return Product{Product: p, ResolvedName: name, ResolvedSprite: sprite}
}

// DerivationTree expands ImmediateProducts recursively. A product is expanded
// only when its resolved name is a catalog item, when maxDepth allows, and
// when that item is not already on the path from the root. maxDepth <= 0
// yields no nodes.
func DerivationTree(item catalog.Item, recipes []catalog.Recipe, index *catalog.Index, maxDepth int) []Node {
	onPath := map[string]bool{item.Name: true}
	return expand(item, recipes, index, maxDepth, onPath)
}

func expand(item catalog.Item, recipes []catalog.Recipe, index *catalog.Index, depth int, onPath map[string]bool) []Node {
	if depth <= 0 {
		return nil
	}

	products := ImmediateProducts(item, recipes)
	nodes := make([]Node, 0, len(products))
	for _, p := range products {
		node := Node{
			Product:        p.Product,
			ResolvedName:   p.ResolvedName,
			ResolvedSprite: p.ResolvedSprite,
		}

		derived, ok := index.Lookup(p.ResolvedName)
		if ok {
			node.Item = &derived
			if !onPath[derived.Name] {
				onPath[derived.Name] = true
				node.Children = expand(derived, recipes, index, depth-1, onPath)
				delete(onPath, derived.Name)
			}
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// Walk visits every node depth-first, passing the node's input item and its
// depth (1 for immediate products). Returning false skips the node's children.
func Walk(root catalog.Item, nodes []Node, fn func(input catalog.Item, n Node, depth int) bool) {
	walk(root, nodes, 1, fn)
}

func walk(input catalog.Item, nodes []Node, depth int, fn func(catalog.Item, Node, int) bool) {
	for _, n := range nodes {
		if !fn(input, n, depth) || n.Item == nil {
			continue
		}
		walk(*n.Item, n.Children, depth+1, fn)
	}
}
