package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/SeezeAI/seeze-engine/engine/domain"
	"github.com/SeezeAI/seeze-engine/engine/extract"
	"github.com/SeezeAI/seeze-engine/pkg/fn"
	"github.com/SeezeAI/seeze-engine/pkg/metrics"
)

func newMux(engine *extract.Engine, reg *metrics.Registry, batchWorkers int) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("POST /api/extract", handleExtract(engine, reg))
	mux.HandleFunc("POST /api/extract/batch", handleExtractBatch(engine, reg, batchWorkers))
	mux.Handle("GET /metrics", reg.Handler())
	return mux
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// ExtractRequest is the JSON body for POST /api/extract.
type ExtractRequest struct {
	Text string `json:"text"`
}

// ExtractResponse is the JSON response for POST /api/extract.
type ExtractResponse struct {
	Success bool           `json:"success"`
	Info    *domain.Result `json:"extracted_info,omitempty"`
	Input   string         `json:"input_text,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// BatchRequest is the JSON body for POST /api/extract/batch.
type BatchRequest struct {
	Texts []string `json:"texts"`
}

// BatchResponse is the JSON response for POST /api/extract/batch. Results
// are index-aligned with the request texts.
type BatchResponse struct {
	Success bool            `json:"success"`
	Results []domain.Result `json:"results"`
}

func handleExtract(engine *extract.Engine, reg *metrics.Registry) http.HandlerFunc {
	total := reg.Counter("extractions_total", "Total extraction requests.")
	misses := reg.Counter("extraction_misses_total", "Extractions with no field resolved.")
	latency := reg.Histogram("extraction_seconds", "Extraction latency.", nil)

	return func(w http.ResponseWriter, r *http.Request) {
		var req ExtractRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, ExtractResponse{Error: "invalid request body"})
			return
		}
		if req.Text == "" {
			writeJSON(w, http.StatusBadRequest, ExtractResponse{Error: "text is required"})
			return
		}

		start := time.Now()
		res := engine.Extract(req.Text)
		latency.Since(start)
		total.Inc()
		if !res.HasMake() && !res.HasModel() && !res.HasTrim() {
			misses.Inc()
		}

		writeJSON(w, http.StatusOK, ExtractResponse{
			Success: true,
			Info:    &res,
			Input:   req.Text,
		})
	}
}

func handleExtractBatch(engine *extract.Engine, reg *metrics.Registry, workers int) http.HandlerFunc {
	total := reg.Counter("batch_extractions_total", "Total listings extracted via batch.")
	latency := reg.Histogram("batch_seconds", "Batch extraction latency.", nil)

	return func(w http.ResponseWriter, r *http.Request) {
		var req BatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, ExtractResponse{Error: "invalid request body"})
			return
		}
		if len(req.Texts) == 0 {
			writeJSON(w, http.StatusBadRequest, ExtractResponse{Error: "texts is required"})
			return
		}

		start := time.Now()
		results := fn.ParMap(req.Texts, workers, engine.Extract)
		latency.Since(start)
		total.Add(int64(len(req.Texts)))

		writeJSON(w, http.StatusOK, BatchResponse{Success: true, Results: results})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
