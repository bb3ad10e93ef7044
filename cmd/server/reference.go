package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Simplici0/valley.works/internal/catalog"
	"github.com/Simplici0/valley.works/internal/pricing"
)

func (s *server) handleProcessors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, pricing.Processors())
}

type formulaRow struct {
	Name string `json:"name"`
	// Price and Qualities are filled in when the request names an input
	// base price.
	Price     *int                `json:"price,omitempty"`
	Qualities *catalog.QualitySet `json:"qualities,omitempty"`
}

// handleFormulas lists the registered price formulas. With ?base=N each
// formula is evaluated for an input whose normal price is N, along with the
// per-tier prices of that result.
func (s *server) handleFormulas(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("base"))
	base := -1
	if raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "base must be a non-negative integer")
			return
		}
		base = n
	}

	names := pricing.FormulaNames()
	rows := make([]formulaRow, 0, len(names))
	for _, name := range names {
		row := formulaRow{Name: name}
		if base >= 0 {
			if price, ok := pricing.ComputeViaFormula(name, base); ok {
				qualities := pricing.GenerateQualities(price)
				row.Price = &price
				row.Qualities = &qualities
			}
		}
		rows = append(rows, row)
	}
	writeJSON(w, http.StatusOK, rows)
}
