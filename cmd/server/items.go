package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/patrickmn/go-cache"

	"github.com/Simplici0/valley.works/internal/catalog"
	"github.com/Simplici0/valley.works/internal/economy"
	"github.com/Simplici0/valley.works/internal/pricing"
	"github.com/Simplici0/valley.works/internal/recipes"
	"github.com/Simplici0/valley.works/internal/store"
)

// depthLimit caps the tree depth a client can request.
const depthLimit = 8

const maxSuggestions = 3

func (s *server) handleItemsList(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("category"))
	if raw == "" {
		writeJSON(w, http.StatusOK, s.index.Items())
		return
	}

	category, err := catalog.ParseCategory(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	items := s.index.ByCategory(category)
	if items == nil {
		items = []catalog.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

type itemDetail struct {
	catalog.Item
	// Recipes lists the recipes the item is an input of.
	Recipes []catalog.Recipe `json:"recipes"`
}

func (s *server) handleItemDetail(w http.ResponseWriter, r *http.Request) {
	item, ok := s.itemFromPath(w, r)
	if !ok {
		return
	}
	matched := recipes.RecipesFor(item, s.recipes)
	if matched == nil {
		matched = []catalog.Recipe{}
	}
	writeJSON(w, http.StatusOK, itemDetail{Item: item, Recipes: matched})
}

type productRow struct {
	recipes.Product
	// Priceable is true when the product has a catalog entry or a registered
	// price formula.
	Priceable bool `json:"priceable"`
}

type productsResponse struct {
	Item     string       `json:"item"`
	Products []productRow `json:"products"`
}

func (s *server) handleItemProducts(w http.ResponseWriter, r *http.Request) {
	item, ok := s.itemFromPath(w, r)
	if !ok {
		return
	}
	products := recipes.ImmediateProducts(item, s.recipes)
	rows := make([]productRow, 0, len(products))
	for _, p := range products {
		_, inCatalog := s.index.Lookup(p.ResolvedName)
		rows = append(rows, productRow{
			Product:   p,
			Priceable: inCatalog || pricing.HasFormula(p.Product.PriceFormula),
		})
	}
	writeJSON(w, http.StatusOK, productsResponse{Item: item.Name, Products: rows})
}

type treeResponse struct {
	Item  string         `json:"item"`
	Depth int            `json:"depth"`
	Nodes []recipes.Node `json:"nodes"`
}

func (s *server) handleItemTree(w http.ResponseWriter, r *http.Request) {
	item, ok := s.itemFromPath(w, r)
	if !ok {
		return
	}
	depth, err := s.depthParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, treeResponse{Item: item.Name, Depth: depth, Nodes: s.tree(item, depth)})
}

// tree returns the derivation tree of item, cached per item and depth. The
// catalog is immutable while serving, so entries only expire by TTL.
func (s *server) tree(item catalog.Item, depth int) []recipes.Node {
	key := item.Name + "|" + strconv.Itoa(depth)
	if cached, found := s.trees.Get(key); found {
		return cached.([]recipes.Node)
	}
	nodes := recipes.DerivationTree(item, s.recipes, s.index, depth)
	if nodes == nil {
		nodes = []recipes.Node{}
	}
	s.trees.Set(key, nodes, cache.DefaultExpiration)
	return nodes
}

type priceResponse struct {
	Item        string            `json:"item"`
	Quality     catalog.Quality   `json:"quality"`
	Bucket      catalog.BucketKey `json:"bucket"`
	Price       int               `json:"price"`
	PriceLabel  string            `json:"priceLabel"`
	Professions []string          `json:"professions"`
	Foraged     bool              `json:"foraged"`
}

func (s *server) handleItemPrice(w http.ResponseWriter, r *http.Request) {
	item, ok := s.itemFromPath(w, r)
	if !ok {
		return
	}
	quality, ctx, err := s.selections(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key, bucket := pricing.SelectPriceBucket(item, ctx)
	price := pricing.PriceFor(bucket, quality)
	writeJSON(w, http.StatusOK, priceResponse{
		Item:        item.Name,
		Quality:     quality,
		Bucket:      key,
		Price:       price,
		PriceLabel:  goldLabel(price),
		Professions: professionNames(ctx.Professions),
		Foraged:     ctx.Foraged,
	})
}

type chainRow struct {
	economy.Step
	DeltaLabel string `json:"deltaLabel"`
}

type chainsResponse struct {
	Item    string          `json:"item"`
	Quality catalog.Quality `json:"quality"`
	Depth   int             `json:"depth"`
	// Best is the most profitable step, absent when no step makes a profit.
	Best  *chainRow  `json:"best,omitempty"`
	Steps []chainRow `json:"steps"`
}

func (s *server) handleItemChains(w http.ResponseWriter, r *http.Request) {
	item, ok := s.itemFromPath(w, r)
	if !ok {
		return
	}
	quality, ctx, err := s.selections(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	depth, err := s.depthParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	steps := economy.Rank(economy.Analyze(item, s.recipes, s.index, economy.Options{
		Quality:  quality,
		Context:  ctx,
		MaxDepth: depth,
	}))
	resp := chainsResponse{Item: item.Name, Quality: quality, Depth: depth, Steps: make([]chainRow, 0, len(steps))}
	for _, step := range steps {
		resp.Steps = append(resp.Steps, chainRow{Step: step, DeltaLabel: goldLabel(step.Delta)})
	}
	if best, ok := economy.Best(steps); ok {
		resp.Best = &chainRow{Step: best, DeltaLabel: goldLabel(best.Delta)}
	}
	writeJSON(w, http.StatusOK, resp)
}

type agingResponse struct {
	Item    string                `json:"item"`
	Quality catalog.Quality       `json:"quality"`
	Bucket  catalog.BucketKey     `json:"bucket"`
	Price   int                   `json:"price"`
	Options []pricing.AgingOption `json:"options"`
}

func (s *server) handleItemAging(w http.ResponseWriter, r *http.Request) {
	item, ok := s.itemFromPath(w, r)
	if !ok {
		return
	}
	quality, ctx, err := s.selections(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key, bucket := pricing.SelectPriceBucket(item, ctx)
	options := pricing.AgingOptions(item, bucket, quality)
	if options == nil {
		options = []pricing.AgingOption{}
	}
	writeJSON(w, http.StatusOK, agingResponse{
		Item:    item.Name,
		Quality: quality,
		Bucket:  key,
		Price:   pricing.PriceFor(bucket, quality),
		Options: options,
	})
}

// itemFromPath resolves the {name} URL parameter, answering 404 with close
// matches when the catalog has no such item.
func (s *server) itemFromPath(w http.ResponseWriter, r *http.Request) (catalog.Item, bool) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item name")
		return catalog.Item{}, false
	}
	item, ok := s.index.Lookup(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error:       fmt.Sprintf("item %q not found", name),
			Suggestions: suggest(name, s.index.Names()),
		})
		return catalog.Item{}, false
	}
	return item, true
}

// suggest returns up to maxSuggestions names within a small edit distance of
// name, nearest first.
func suggest(name string, names []string) []string {
	type candidate struct {
		name     string
		distance int
	}

	needle := strings.ToLower(name)
	limit := len(needle)/3 + 1
	if limit < 2 {
		limit = 2
	}

	var candidates []candidate
	for _, n := range names {
		d := levenshtein.ComputeDistance(needle, strings.ToLower(n))
		if d <= limit {
			candidates = append(candidates, candidate{name: n, distance: d})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].name < candidates[j].name
	})

	out := make([]string, 0, maxSuggestions)
	for _, c := range candidates {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, c.name)
	}
	return out
}

// depthParam returns the requested tree depth, or the configured default when
// the request names none. An explicit 0 is kept and yields no products.
func (s *server) depthParam(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("depth"))
	if raw == "" {
		return s.maxDepth, nil
	}
	depth, err := strconv.Atoi(raw)
	if err != nil || depth < 0 || depth > depthLimit {
		return 0, fmt.Errorf("depth must be an integer between 0 and %d", depthLimit)
	}
	return depth, nil
}

// selections starts from the caller's saved profile, if any, and applies the
// quality, professions and foraged query parameters on top of it.
func (s *server) selections(r *http.Request) (catalog.Quality, pricing.Context, error) {
	quality := catalog.QualityNormal
	var ctx pricing.Context

	if id, ok := s.sessions.profileID(r); ok && s.store != nil {
		profile, err := s.store.Profile(id)
		switch {
		case err == nil:
			quality = profile.Quality
			ctx = profile.Context()
		case errors.Is(err, store.ErrProfileNotFound):
		default:
			log.Printf("load profile %s: %v", id, err)
		}
	}

	q := r.URL.Query()
	if q.Has("quality") {
		parsed, err := catalog.ParseQuality(q.Get("quality"))
		if err != nil {
			return "", pricing.Context{}, err
		}
		quality = parsed
	}
	if q.Has("professions") {
		professions, err := parseProfessions(q.Get("professions"))
		if err != nil {
			return "", pricing.Context{}, err
		}
		ctx.Professions = professions
	}
	if q.Has("foraged") {
		foraged, err := strconv.ParseBool(q.Get("foraged"))
		if err != nil {
			return "", pricing.Context{}, fmt.Errorf("foraged must be a boolean")
		}
		ctx.Foraged = foraged
	}
	return quality, ctx, nil
}

func parseProfessions(raw string) ([]pricing.Profession, error) {
	var out []pricing.Profession
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		p, err := pricing.ParseProfession(part)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func professionNames(professions []pricing.Profession) []string {
	names := make([]string, len(professions))
	for i, p := range professions {
		names[i] = string(p)
	}
	return names
}

func goldLabel(amount int) string {
	return humanize.Comma(int64(amount)) + "g"
}
