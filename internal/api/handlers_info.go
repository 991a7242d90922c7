package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/blauwers/receiptd/internal/interp"
	"github.com/blauwers/receiptd/internal/ledger"
)

// handleListPrinters reports the configured inventory with live queue
// depths. Agent URLs and keys stay out of the response.
func (s *Server) handleListPrinters(w http.ResponseWriter, r *http.Request) {
	printers := make([]map[string]any, 0, len(s.printers))
	for _, p := range s.printers {
		printers = append(printers, map[string]any{
			"name":        p.Name,
			"mode":        p.Mode,
			"width":       p.Width,
			"queue_depth": s.spooler.QueueDepth(p.Name),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"printers": printers})
}

func (s *Server) handleListActions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"actions": interp.Actions()})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.ledger == nil {
		jsonError(w, "print history unavailable", http.StatusServiceUnavailable)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := s.ledger.Recent(r.Context(), limit)
	if err != nil {
		jsonError(w, "failed to read history: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []ledger.Entry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"history": entries})
}
