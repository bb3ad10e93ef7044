package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// BaseKind tags which variant a RecipeBase holds.
type BaseKind uint8

const (
	// BaseByName selects exactly one item by name.
	BaseByName BaseKind = iota + 1
	// BaseByCategory selects every item of a category.
	BaseByCategory
)

// RecipeBase is the input selector of a recipe: either a literal item name or
// an item category. The zero value selects nothing.
type RecipeBase struct {
	Kind     BaseKind
	Name     string
	Category Category
}

// ByName returns a selector for a single named item.
func ByName(name string) RecipeBase {
	return RecipeBase{Kind: BaseByName, Name: name}
}

// ByCategory returns a selector for every item of category c.
func ByCategory(c Category) RecipeBase {
	return RecipeBase{Kind: BaseByCategory, Category: c}
}

func (b RecipeBase) String() string {
	switch b.Kind {
	case BaseByName:
		return b.Name
	case BaseByCategory:
		return "category:" + string(b.Category)
	}
	return "<none>"
}

type categorySelector struct {
	Category Category `json:"category" yaml:"category"`
}

// MarshalJSON encodes a name selector as a bare string and a category
// selector as {"category": ...}.
func (b RecipeBase) MarshalJSON() ([]byte, error) {
	switch b.Kind {
	case BaseByName:
		return json.Marshal(b.Name)
	case BaseByCategory:
		return json.Marshal(categorySelector{Category: b.Category})
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts either a bare item name or {"category": ...}.
func (b *RecipeBase) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("recipe base: empty selector")
	}
	switch data[0] {
	case '"':
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return fmt.Errorf("recipe base: %w", err)
		}
		*b = ByName(name)
		return nil
	case '{':
		var sel categorySelector
		if err := json.Unmarshal(data, &sel); err != nil {
			return fmt.Errorf("recipe base: %w", err)
		}
		if sel.Category == "" {
			return fmt.Errorf("recipe base: object selector without category")
		}
		*b = ByCategory(sel.Category)
		return nil
	}
	return fmt.Errorf("recipe base: unsupported selector %s", data)
}

// MarshalYAML mirrors MarshalJSON.
func (b RecipeBase) MarshalYAML() (any, error) {
	switch b.Kind {
	case BaseByName:
		return b.Name, nil
	case BaseByCategory:
		return categorySelector{Category: b.Category}, nil
	}
	return nil, nil
}

// UnmarshalYAML accepts a scalar item name or a mapping with a category key.
func (b *RecipeBase) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var name string
		if err := value.Decode(&name); err != nil {
			return fmt.Errorf("recipe base: %w", err)
		}
		*b = ByName(name)
		return nil
	case yaml.MappingNode:
		var sel categorySelector
		if err := value.Decode(&sel); err != nil {
			return fmt.Errorf("recipe base: %w", err)
		}
		if sel.Category == "" {
			return fmt.Errorf("recipe base: line %d: mapping without category", value.Line)
		}
		*b = ByCategory(sel.Category)
		return nil
	}
	return fmt.Errorf("recipe base: line %d: unsupported node", value.Line)
}

// Ingredient is one input of a recipe product.
type Ingredient struct {
	Name     string `json:"name" yaml:"name"`
	Quantity int    `json:"quantity" yaml:"quantity"`
}

// RecipeProduct is one output a processor makes from a recipe's base.
// Exactly one of Name and NameTemplate is authoritative; a template is only
// meaningful on a category recipe.
type RecipeProduct struct {
	Name           string       `json:"name,omitempty" yaml:"name,omitempty"`
	NameTemplate   string       `json:"nameTemplate,omitempty" yaml:"nameTemplate,omitempty"`
	Processor      string       `json:"processor" yaml:"processor"`
	ProcessingDays float64      `json:"processingDays,omitempty" yaml:"processingDays,omitempty"`
	Ingredients    []Ingredient `json:"ingredients,omitempty" yaml:"ingredients,omitempty"`
	OutputQuantity int          `json:"outputQuantity,omitempty" yaml:"outputQuantity,omitempty"`
	OutputQuality  Quality      `json:"outputQuality,omitempty" yaml:"outputQuality,omitempty"`
	PriceFormula   string       `json:"priceFormula,omitempty" yaml:"priceFormula,omitempty"`
	SpriteTemplate string       `json:"spriteTemplate,omitempty" yaml:"spriteTemplate,omitempty"`
	StaticSprite   string       `json:"staticSprite,omitempty" yaml:"staticSprite,omitempty"`
}

// Quantity is the number of outputs per batch, defaulting to 1.
func (p RecipeProduct) Quantity() int {
	if p.OutputQuantity <= 0 {
		return 1
	}
	return p.OutputQuantity
}

// Quality is the output tier, defaulting to normal.
func (p RecipeProduct) Quality() Quality {
	if p.OutputQuality == "" {
		return QualityNormal
	}
	return p.OutputQuality
}

// InputQuantity is the amount of the limiting (first) ingredient consumed per
// batch, defaulting to 1 when no ingredients are declared.
func (p RecipeProduct) InputQuantity() int {
	if len(p.Ingredients) == 0 || p.Ingredients[0].Quantity <= 0 {
		return 1
	}
	return p.Ingredients[0].Quantity
}

// Recipe attaches products to a base selector.
type Recipe struct {
	Base     RecipeBase      `json:"base" yaml:"base"`
	Products []RecipeProduct `json:"products" yaml:"products"`
}
