package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/patrickmn/go-cache"

	"github.com/Simplici0/valley.works/internal/catalog"
	"github.com/Simplici0/valley.works/internal/config"
	"github.com/Simplici0/valley.works/internal/db"
	"github.com/Simplici0/valley.works/internal/migrations"
	"github.com/Simplici0/valley.works/internal/seed"
	"github.com/Simplici0/valley.works/internal/store"
)

type server struct {
	store    *store.Store
	index    *catalog.Index
	recipes  []catalog.Recipe
	sessions *sessionSigner
	trees    *cache.Cache
	maxDepth int
}

func main() {
	cfg := config.Load()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(database); err != nil {
			log.Fatalf("failed to run database migrations: %v", err)
		}
	}
	version, err := migrations.Version(database)
	if err != nil {
		log.Fatalf("failed to read schema version: %v", err)
	}
	log.Printf("database schema at version %d", version)

	files, err := catalog.Load(cfg.DataDir)
	if err != nil {
		log.Fatalf("failed to read catalog files: %v", err)
	}
	stats, err := seed.Run(database, files)
	if err != nil {
		log.Fatalf("failed to import catalog: %v", err)
	}
	if stats.Skipped {
		log.Printf("catalog %.12s already imported", files.Digest)
	} else {
		log.Printf("catalog imported: %d inserts, %d updates, %d deletes", stats.Inserts, stats.Updates, stats.Deletes)
	}

	st := store.New(database)
	stored, err := st.Catalog()
	if err != nil {
		log.Fatalf("failed to load catalog: %v", err)
	}

	srv := newServer(st, stored, cfg)
	log.Printf("serving %d items and %d recipes", srv.index.Len(), len(srv.recipes))

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.routes()); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func newServer(st *store.Store, c catalog.Catalog, cfg config.Config) *server {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &server{
		store:    st,
		index:    catalog.NewIndex(c.Items),
		recipes:  c.Recipes,
		sessions: newSessionSigner(cfg.SessionSecret),
		trees:    cache.New(ttl, 2*ttl),
		maxDepth: cfg.MaxDepth,
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/items", s.handleItemsList)
	r.Route("/items/{name}", func(r chi.Router) {
		r.Get("/", s.handleItemDetail)
		r.Get("/products", s.handleItemProducts)
		r.Get("/tree", s.handleItemTree)
		r.Get("/price", s.handleItemPrice)
		r.Get("/chains", s.handleItemChains)
		r.Get("/aging", s.handleItemAging)
	})
	r.Get("/processors", s.handleProcessors)
	r.Get("/formulas", s.handleFormulas)
	r.Post("/profile", s.handleProfileCreate)
	r.Get("/profile", s.handleProfileGet)
	r.Put("/profile", s.handleProfileUpdate)
	return r
}

type errorResponse struct {
	Error       string   `json:"error"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
