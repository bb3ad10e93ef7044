package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog is a loaded item and recipe dataset plus a digest of its source bytes.
type Catalog struct {
	Items   []Item
	Recipes []Recipe
	Digest  string
}

type itemsFile struct {
	Items []Item `json:"items" yaml:"items"`
}

type recipesFile struct {
	Recipes []Recipe `json:"recipes" yaml:"recipes"`
}

var catalogExts = []string{".json", ".yaml", ".yml"}

// Load reads items.{json,yaml,yml} and recipes.{json,yaml,yml} from dir.
func Load(dir string) (Catalog, error) {
	var c Catalog

	itemsPath, err := findCatalogFile(dir, "items")
	if err != nil {
		return c, err
	}
	recipesPath, err := findCatalogFile(dir, "recipes")
	if err != nil {
		return c, err
	}

	itemsRaw, err := os.ReadFile(itemsPath)
	if err != nil {
		return c, fmt.Errorf("read item catalog: %w", err)
	}
	recipesRaw, err := os.ReadFile(recipesPath)
	if err != nil {
		return c, fmt.Errorf("read recipe catalog: %w", err)
	}

	if c.Items, err = DecodeItems(filepath.Ext(itemsPath), itemsRaw); err != nil {
		return c, fmt.Errorf("%s: %w", filepath.Base(itemsPath), err)
	}
	if c.Recipes, err = DecodeRecipes(filepath.Ext(recipesPath), recipesRaw); err != nil {
		return c, fmt.Errorf("%s: %w", filepath.Base(recipesPath), err)
	}

	sum := sha256.New()
	sum.Write(itemsRaw)
	sum.Write(recipesRaw)
	c.Digest = hex.EncodeToString(sum.Sum(nil))
	return c, nil
}

// DecodeItems parses an item catalog encoded as JSON or YAML, chosen by ext.
func DecodeItems(ext string, raw []byte) ([]Item, error) {
	var f itemsFile
	if err := decode(ext, raw, &f); err != nil {
		return nil, err
	}
	return f.Items, nil
}

// DecodeRecipes parses a recipe catalog encoded as JSON or YAML, chosen by ext.
func DecodeRecipes(ext string, raw []byte) ([]Recipe, error) {
	var f recipesFile
	if err := decode(ext, raw, &f); err != nil {
		return nil, err
	}
	return f.Recipes, nil
}

func decode(ext string, raw []byte, out any) error {
	switch strings.ToLower(ext) {
	case ".json":
		return json.Unmarshal(raw, out)
	case ".yaml", ".yml":
		return yaml.Unmarshal(raw, out)
	}
	return fmt.Errorf("unsupported catalog format %q", ext)
}

func findCatalogFile(dir, name string) (string, error) {
	for _, ext := range catalogExts {
		p := filepath.Join(dir, name+ext)
		_, err := os.Stat(p)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("stat %s: %w", p, err)
		}
	}
	return "", fmt.Errorf("no %s catalog in %s", name, dir)
}
