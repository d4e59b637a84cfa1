// Package reconcile's HTTP handlers expose the engine to scraper processes.
//
// Routes:
//
//	POST /reconcile — run one reconciliation batch for one employer
//	POST /sweep     — run the expiration sweep on demand
package reconcile

import (
	"encoding/json"
	"log"
	"net/http"

	"carejobs/reconciler-service/internal/model"
)

// Handler exposes the engine over HTTP for scraper processes.
type Handler struct {
	svc *Service
}

// NewHandler returns a configured Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts all reconciler routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/reconcile", h.handleReconcile)
	mux.HandleFunc("/sweep", h.handleSweep)
}

// reconcileRequest is the batch payload a scraper posts after a run.
type reconcileRequest struct {
	Employer model.EmployerInput `json:"employer"`
	Jobs     []model.JobInput    `json:"jobs"`
}

func (h *Handler) handleReconcile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req reconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Employer.EmployerSlug == "" || req.Employer.EmployerName == "" {
		jsonError(w, "employer.employerSlug and employer.employerName are required", http.StatusBadRequest)
		return
	}

	res, err := h.svc.SaveJobs(r.Context(), req.Employer, req.Jobs)
	if err != nil {
		log.Printf("[reconciler] batch failed for employer %s: %v", req.Employer.EmployerSlug, err)
		jsonError(w, "reconciliation failed", http.StatusInternalServerError)
		return
	}

	jsonOK(w, res)
}

func (h *Handler) handleSweep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	n, err := h.svc.SweepExpired(r.Context())
	if err != nil {
		log.Printf("[reconciler] sweep failed: %v", err)
		jsonError(w, "sweep failed", http.StatusInternalServerError)
		return
	}

	jsonOK(w, map[string]int{"deactivated": n})
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
