// Package store persists the item and recipe catalogs and player pricing
// profiles in SQLite. The pricing engine never touches it; the service loads
// a catalog from here once and indexes it in memory.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/Simplici0/valley.works/internal/catalog"
)

// Store wraps a SQLite connection.
type Store struct {
	db *sqlx.DB
}

// New wraps an open database whose schema is already migrated.
func New(db *sql.DB) *Store {
	return &Store{db: sqlx.NewDb(db, "sqlite")}
}

type itemRow struct {
	Name         string         `db:"name"`
	Description  string         `db:"description"`
	Category     string         `db:"category"`
	IsBase       bool           `db:"is_base"`
	Color        string         `db:"color"`
	SpriteRef    string         `db:"sprite_ref"`
	DaysToMature float64        `db:"days_to_mature"`
	DaysToRegrow float64        `db:"days_to_regrow"`
	Forageable   bool           `db:"forageable"`
	PricesJSON   string         `db:"prices_json"`
	AgingJSON    sql.NullString `db:"aging_json"`
}

type recipeRow struct {
	BaseKind     string `db:"base_kind"`
	BaseValue    string `db:"base_value"`
	ProductsJSON string `db:"products_json"`
}

// Items returns the stored items in catalog order. Rows whose price JSON
// cannot be decoded are skipped with a warning.
func (s *Store) Items() ([]catalog.Item, error) {
	var rows []itemRow
	err := s.db.Select(&rows, `
		SELECT name, description, category, is_base, color, sprite_ref,
			days_to_mature, days_to_regrow, forageable, prices_json, aging_json
		FROM items
		ORDER BY position, name
	`)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}

	items := make([]catalog.Item, 0, len(rows))
	for _, r := range rows {
		it := catalog.Item{
			Name:         r.Name,
			Description:  r.Description,
			Category:     catalog.Category(r.Category),
			IsBase:       r.IsBase,
			Color:        r.Color,
			SpriteRef:    r.SpriteRef,
			DaysToMature: r.DaysToMature,
			DaysToRegrow: r.DaysToRegrow,
			Forageable:   r.Forageable,
		}
		if err := json.Unmarshal([]byte(r.PricesJSON), &it.Prices); err != nil {
			slog.Warn("skipping item with unreadable prices", "item", r.Name, "error", err)
			continue
		}
		if r.AgingJSON.Valid && r.AgingJSON.String != "" {
			var aging catalog.AgingDurations
			if err := json.Unmarshal([]byte(r.AgingJSON.String), &aging); err != nil {
				slog.Warn("ignoring unreadable aging durations", "item", r.Name, "error", err)
			} else {
				it.Aging = &aging
			}
		}
		items = append(items, it)
	}
	return items, nil
}

// Recipes returns the stored recipes in catalog order.
func (s *Store) Recipes() ([]catalog.Recipe, error) {
	var rows []recipeRow
	if err := s.db.Select(&rows, `SELECT base_kind, base_value, products_json FROM recipes ORDER BY position, id`); err != nil {
		return nil, fmt.Errorf("query recipes: %w", err)
	}

	recipes := make([]catalog.Recipe, 0, len(rows))
	for _, r := range rows {
		var rec catalog.Recipe
		switch r.BaseKind {
		case BaseKindName:
			rec.Base = catalog.ByName(r.BaseValue)
		case BaseKindCategory:
			rec.Base = catalog.ByCategory(catalog.Category(r.BaseValue))
		default:
			slog.Warn("skipping recipe with unknown base kind", "kind", r.BaseKind)
			continue
		}
		if err := json.Unmarshal([]byte(r.ProductsJSON), &rec.Products); err != nil {
			slog.Warn("skipping recipe with unreadable products", "base", rec.Base.String(), "error", err)
			continue
		}
		recipes = append(recipes, rec)
	}
	return recipes, nil
}

// Digest returns the digest of the last imported catalog, or "" when none
// has been imported.
func (s *Store) Digest() (string, error) {
	var digest string
	err := s.db.Get(&digest, `SELECT digest FROM catalog_meta WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query catalog digest: %w", err)
	}
	return digest, nil
}

// Catalog loads items, recipes and digest together.
func (s *Store) Catalog() (catalog.Catalog, error) {
	var c catalog.Catalog
	var err error
	if c.Items, err = s.Items(); err != nil {
		return c, err
	}
	if c.Recipes, err = s.Recipes(); err != nil {
		return c, err
	}
	if c.Digest, err = s.Digest(); err != nil {
		return c, err
	}
	return c, nil
}

// Recipe base kinds as stored in recipes.base_kind.
const (
	BaseKindName     = "name"
	BaseKindCategory = "category"
)

// BaseColumns splits a recipe base into its stored kind and value.
func BaseColumns(b catalog.RecipeBase) (kind, value string, err error) {
	switch b.Kind {
	case catalog.BaseByName:
		return BaseKindName, b.Name, nil
	case catalog.BaseByCategory:
		return BaseKindCategory, string(b.Category), nil
	}
	return "", "", fmt.Errorf("recipe base %s has no selector", b)
}
