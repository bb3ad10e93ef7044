package store

import (
	"errors"
	"testing"

	"github.com/Simplici0/valley.works/internal/catalog"
	"github.com/Simplici0/valley.works/internal/db"
	"github.com/Simplici0/valley.works/internal/migrations"
	"github.com/Simplici0/valley.works/internal/pricing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	database, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := migrations.Up(database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return New(database)
}

func TestCatalogRoundTripThroughTables(t *testing.T) {
	s := newTestStore(t)

	_, err := s.db.Exec(`
		INSERT INTO items (name, position, category, is_base, forageable, prices_json, aging_json)
		VALUES
			('Starfruit Wine', 1, 'artisan-good', FALSE, FALSE, '{"base":{"normal":2250,"iridium":4500}}', '{"iridium":56}'),
			('Starfruit', 0, 'fruit', TRUE, FALSE, '{"base":{"normal":750},"tiller":{"normal":825}}', NULL),
			('Broken', 2, 'crop', TRUE, FALSE, 'not json', NULL)
	`)
	if err != nil {
		t.Fatalf("seed items: %v", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO recipes (position, base_kind, base_value, products_json)
		VALUES
			(1, 'name', 'Starfruit Wine', '[{"name":"Iridium Starfruit Wine","processor":"Cask"}]'),
			(0, 'category', 'fruit', '[{"nameTemplate":"{input} Wine","processor":"Keg","priceFormula":"wine"}]')
	`)
	if err != nil {
		t.Fatalf("seed recipes: %v", err)
	}
	if _, err := s.db.Exec(`INSERT INTO catalog_meta (id, digest) VALUES (1, 'abc')`); err != nil {
		t.Fatalf("seed digest: %v", err)
	}

	c, err := s.Catalog()
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if len(c.Items) != 2 {
		t.Fatalf("items = %d, want 2 (broken row skipped)", len(c.Items))
	}
	if c.Items[0].Name != "Starfruit" || !c.Items[0].IsBase || c.Items[0].Prices[catalog.BucketTiller].Normal != 825 {
		t.Fatalf("first item = %+v", c.Items[0])
	}
	if c.Items[1].Aging == nil || c.Items[1].Aging.Iridium != 56 {
		t.Fatalf("aging not decoded: %+v", c.Items[1])
	}
	if len(c.Recipes) != 2 || c.Recipes[0].Base != catalog.ByCategory(catalog.CategoryFruit) {
		t.Fatalf("recipes = %+v", c.Recipes)
	}
	if c.Recipes[1].Products[0].Name != "Iridium Starfruit Wine" {
		t.Fatalf("second recipe = %+v", c.Recipes[1])
	}
	if c.Digest != "abc" {
		t.Fatalf("digest = %q, want abc", c.Digest)
	}
}

func TestDigestEmptyBeforeImport(t *testing.T) {
	s := newTestStore(t)
	digest, err := s.Digest()
	if err != nil || digest != "" {
		t.Fatalf("Digest = (%q, %v), want empty", digest, err)
	}
}

func TestBaseColumns(t *testing.T) {
	kind, value, err := BaseColumns(catalog.ByName("Milk"))
	if err != nil || kind != BaseKindName || value != "Milk" {
		t.Fatalf("BaseColumns(name) = (%q, %q, %v)", kind, value, err)
	}
	kind, value, err = BaseColumns(catalog.ByCategory(catalog.CategoryFish))
	if err != nil || kind != BaseKindCategory || value != "fish" {
		t.Fatalf("BaseColumns(category) = (%q, %q, %v)", kind, value, err)
	}
	if _, _, err := BaseColumns(catalog.RecipeBase{}); err == nil {
		t.Fatalf("expected error for empty base")
	}
}

func TestProfileLifecycle(t *testing.T) {
	s := newTestStore(t)

	created, err := s.CreateProfile(Profile{
		Professions: []pricing.Profession{pricing.Tiller, pricing.Artisan},
	})
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	if created.ID == "" || created.Quality != catalog.QualityNormal {
		t.Fatalf("created = %+v", created)
	}

	got, err := s.Profile(created.ID)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if len(got.Professions) != 2 || got.Professions[1] != pricing.Artisan {
		t.Fatalf("professions = %v", got.Professions)
	}

	got.Quality = catalog.QualityGold
	got.Foraged = true
	got.Professions = nil
	if err := s.UpdateProfile(got); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	again, err := s.Profile(created.ID)
	if err != nil {
		t.Fatalf("Profile after update: %v", err)
	}
	if again.Quality != catalog.QualityGold || !again.Foraged || len(again.Professions) != 0 {
		t.Fatalf("updated profile = %+v", again)
	}
	if ctx := again.Context(); !ctx.Foraged {
		t.Fatalf("Context() lost foraged flag")
	}
}

func TestProfileNotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Profile("not-a-uuid"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("Profile(bad id) err = %v", err)
	}
	if _, err := s.Profile("6f1c2a3e-8d4b-4c5a-9e7f-0a1b2c3d4e5f"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("Profile(unknown id) err = %v", err)
	}
	if err := s.UpdateProfile(Profile{ID: "6f1c2a3e-8d4b-4c5a-9e7f-0a1b2c3d4e5f"}); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("UpdateProfile(unknown id) err = %v", err)
	}
}
