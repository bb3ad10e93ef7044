package seed

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Simplici0/valley.works/internal/catalog"
	"github.com/Simplici0/valley.works/internal/store"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
	Deletes int
	// Skipped is true when the stored catalog already has the same digest.
	Skipped bool
}

// Run imports a catalog into the database in an idempotent way. Items are
// upserted by name, items absent from the catalog are removed, and recipes
// are replaced wholesale to keep their order. A catalog whose digest matches
// the last import is not re-imported.
func Run(db *sql.DB, c catalog.Catalog) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	current, err := storedDigest(tx)
	if err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if c.Digest != "" && current == c.Digest {
		_ = tx.Rollback()
		return Stats{Skipped: true}, nil
	}

	if err := upsertItems(tx, c.Items, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := replaceRecipes(tx, c.Recipes, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := saveDigest(tx, c.Digest); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func storedDigest(tx *sql.Tx) (string, error) {
	var digest string
	err := tx.QueryRow(`SELECT digest FROM catalog_meta WHERE id = 1`).Scan(&digest)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query catalog digest: %w", err)
	}
	return digest, nil
}

func upsertItems(tx *sql.Tx, items []catalog.Item, stats *Stats) error {
	existing := map[string]bool{}
	rows, err := tx.Query(`SELECT name FROM items`)
	if err != nil {
		return fmt.Errorf("query existing items: %w", err)
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return fmt.Errorf("scan item name: %w", err)
		}
		existing[name] = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterate items: %w", err)
	}
	rows.Close()

	// A name defined twice keeps the position of its first definition and
	// the contents of its last, as catalog.NewIndex does.
	positions := map[string]int{}
	for _, it := range items {
		if _, ok := positions[it.Name]; !ok {
			positions[it.Name] = len(positions)
		}
	}

	seen := map[string]bool{}
	for _, it := range items {
		prices, err := json.Marshal(it.Prices)
		if err != nil {
			return fmt.Errorf("encode prices of %s: %w", it.Name, err)
		}
		var aging sql.NullString
		if it.Aging != nil {
			b, err := json.Marshal(it.Aging)
			if err != nil {
				return fmt.Errorf("encode aging of %s: %w", it.Name, err)
			}
			aging = sql.NullString{String: string(b), Valid: true}
		}

		if _, err := tx.Exec(`
			INSERT INTO items (
				name, position, description, category, is_base, color, sprite_ref,
				days_to_mature, days_to_regrow, forageable, prices_json, aging_json
			)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET
				position = excluded.position,
				description = excluded.description,
				category = excluded.category,
				is_base = excluded.is_base,
				color = excluded.color,
				sprite_ref = excluded.sprite_ref,
				days_to_mature = excluded.days_to_mature,
				days_to_regrow = excluded.days_to_regrow,
				forageable = excluded.forageable,
				prices_json = excluded.prices_json,
				aging_json = excluded.aging_json,
				updated_at = CURRENT_TIMESTAMP
		`, it.Name, positions[it.Name], it.Description, string(it.Category), it.IsBase, it.Color, it.SpriteRef,
			it.DaysToMature, it.DaysToRegrow, it.Forageable, string(prices), aging); err != nil {
			return fmt.Errorf("upsert item %s: %w", it.Name, err)
		}

		switch {
		case seen[it.Name]:
		case existing[it.Name]:
			stats.Updates++
		default:
			stats.Inserts++
		}
		seen[it.Name] = true
	}

	for name := range existing {
		if seen[name] {
			continue
		}
		if _, err := tx.Exec(`DELETE FROM items WHERE name = ?`, name); err != nil {
			return fmt.Errorf("delete stale item %s: %w", name, err)
		}
		stats.Deletes++
	}
	return nil
}

func replaceRecipes(tx *sql.Tx, recipes []catalog.Recipe, stats *Stats) error {
	result, err := tx.Exec(`DELETE FROM recipes`)
	if err != nil {
		return fmt.Errorf("clear recipes: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil {
		stats.Deletes += int(n)
	}

	for pos, r := range recipes {
		kind, value, err := store.BaseColumns(r.Base)
		if err != nil {
			return fmt.Errorf("recipe %d: %w", pos, err)
		}
		products, err := json.Marshal(r.Products)
		if err != nil {
			return fmt.Errorf("encode products of recipe %d: %w", pos, err)
		}
		if _, err := tx.Exec(`
			INSERT INTO recipes (position, base_kind, base_value, products_json)
			VALUES (?, ?, ?, ?)
		`, pos, kind, value, string(products)); err != nil {
			return fmt.Errorf("insert recipe %d: %w", pos, err)
		}
		stats.Inserts++
	}
	return nil
}

func saveDigest(tx *sql.Tx, digest string) error {
	if _, err := tx.Exec(`
		INSERT INTO catalog_meta (id, digest) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET digest = excluded.digest, imported_at = CURRENT_TIMESTAMP
	`, digest); err != nil {
		return fmt.Errorf("save catalog digest: %w", err)
	}
	return nil
}
