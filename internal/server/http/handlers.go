package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	logpkg "github.com/rzbill/snowflake/pkg/log"
	"github.com/rzbill/snowflake/pkg/snowflake"
)

// maxBatch caps a single batch request at one millisecond's sequence space.
const maxBatch = 4096

type idResponse struct {
	ID        string `json:"id"`
	Timestamp uint64 `json:"timestamp"`
	Node      uint16 `json:"node"`
	Sequence  uint16 `json:"sequence"`
}

func toIDResponse(id snowflake.ID) idResponse {
	ts, node, seq := snowflake.Parse(uint64(id))
	return idResponse{ID: id.String(), Timestamp: ts, Node: node, Sequence: seq}
}

// handleHealth mints a probe ID; a clock stuck behind the last commit
// reports not_serving.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if _, err := s.gen.Next(); err != nil {
		writeError(w, http.StatusServiceUnavailable, "not_serving")
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id, err := s.gen.Next()
	if err != nil {
		s.writeGenerateError(w, err)
		return
	}
	writeJSON(w, toIDResponse(id))
}

type batchReq struct {
	Count int `json:"count"`
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req batchReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Count < 1 || req.Count > maxBatch {
		writeError(w, http.StatusBadRequest, "count must be between 1 and 4096")
		return
	}
	ids := make([]string, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		id, err := s.gen.Next()
		if err != nil {
			s.writeGenerateError(w, err)
			return
		}
		ids = append(ids, id.String())
	}
	writeJSON(w, map[string]any{"ids": ids})
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	raw := r.URL.Query().Get("id")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "missing id query parameter")
		return
	}
	id, err := snowflake.ParseString(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be a decimal uint64")
		return
	}
	writeJSON(w, toIDResponse(id))
}

// writeGenerateError maps generator errors onto HTTP statuses: a regressed
// clock is a transient service condition, an exhausted sequence means the
// generator is saturated.
func (s *Server) writeGenerateError(w http.ResponseWriter, err error) {
	s.logger.Warn("generate failed", logpkg.Err(err))
	switch {
	case errors.Is(err, snowflake.ErrClockMovedBackwards):
		writeError(w, http.StatusServiceUnavailable, "clock moved backwards")
	case errors.Is(err, snowflake.ErrSequenceOverflow):
		writeError(w, http.StatusTooManyRequests, "sequence overflow")
	default:
		writeError(w, http.StatusInternalServerError, "generate failed")
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeJSON writes a JSON response with the given data.
func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}
