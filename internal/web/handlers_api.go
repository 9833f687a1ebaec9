package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/emiliopalmerini/rightcount/internal/domain"
)

// reservedKeys are the payload fields of POST /api/set that are not pattern
// counts. Everything else numeric is treated as a pattern; the server does
// not require a fixed pattern list.
var reservedKeys = map[string]struct{}{
	"day":            {},
	"source_id":      {},
	"workstation_id": {},
	"secret":         {},
	"total_messages": {},
	"count":          {},
	"right_count":    {},
}

func (s *Server) handleSet(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	if s.secret != "" {
		secret, _ := payload["secret"].(string)
		if secret != s.secret {
			http.Error(w, "invalid secret", http.StatusUnauthorized)
			return
		}
	}

	day, _ := payload["day"].(string)
	if _, err := time.Parse("2006-01-02", day); err != nil {
		http.Error(w, "day must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	sourceID, _ := payload["source_id"].(string)
	if sourceID == "" {
		// Older uploaders used the workstation wording.
		sourceID, _ = payload["workstation_id"].(string)
	}
	if sourceID == "" {
		http.Error(w, "source_id is required", http.StatusBadRequest)
		return
	}

	patterns := make(map[string]int64)
	for key, value := range payload {
		if _, reserved := reservedKeys[key]; reserved {
			continue
		}
		if n, ok := asInt64(value); ok {
			patterns[key] = n
		}
	}

	// Legacy uploaders sent the two original counters as fixed fields.
	if n, ok := asInt64(payload["count"]); ok {
		patterns["absolutely"] = n
	}
	if n, ok := asInt64(payload["right_count"]); ok {
		patterns["right"] = n
	}

	totalMessages, _ := asInt64(payload["total_messages"])

	dc := domain.DayCount{
		Day:           day,
		WorkstationID: sourceID,
		Patterns:      patterns,
		TotalMessages: totalMessages,
	}
	if err := s.repo.Upsert(r.Context(), dc); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, "ok", 0)
}

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	today := time.Now().UTC().Format("2006-01-02")

	records, err := s.repo.GetDay(r.Context(), today)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := map[string]any{"total_messages": int64(0)}
	for _, totals := range domain.AggregateByDay(records) {
		for name, count := range totals.Patterns {
			response[name] = count
		}
		response["total_messages"] = totals.TotalMessages
	}

	writeJSON(w, response, time.Minute)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	records, err := s.repo.GetAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	history := make([]map[string]any, 0)
	for _, totals := range domain.AggregateByDay(records) {
		history = append(history, dayEntry(totals.Day, totals.Patterns, totals.TotalMessages))
	}

	writeJSON(w, history, 5*time.Minute)
}

func (s *Server) handleBySource(w http.ResponseWriter, r *http.Request) {
	records, err := s.repo.GetAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	bySource := make(map[string][]map[string]any)
	for _, rec := range records {
		bySource[rec.WorkstationID] = append(bySource[rec.WorkstationID],
			dayEntry(rec.Day, rec.Patterns, rec.TotalMessages))
	}

	ids := make([]string, 0, len(bySource))
	for id := range bySource {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	response := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		response = append(response, map[string]any{
			"source_id": id,
			"history":   bySource[id],
		})
	}

	writeJSON(w, response, time.Minute)
}

// dayEntry flattens one day's counts into the wire shape: pattern names as
// top-level fields next to day and total_messages.
func dayEntry(day string, patterns map[string]int64, totalMessages int64) map[string]any {
	entry := make(map[string]any, len(patterns)+2)
	for name, count := range patterns {
		entry[name] = count
	}
	entry["day"] = day
	entry["total_messages"] = totalMessages
	return entry
}

// asInt64 accepts the integral numbers a JSON decode produces.
func asInt64(v any) (int64, bool) {
	f, ok := v.(float64)
	if !ok || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}

func writeJSON(w http.ResponseWriter, v any, maxAge time.Duration) {
	w.Header().Set("Content-Type", "application/json")
	if maxAge > 0 {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(maxAge.Seconds())))
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
