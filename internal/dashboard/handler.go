package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	svc      Service
	validate *validator.Validate
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc, validate: validator.New()}
}

type ReloadRequest struct {
	Source string `json:"source"`
}

func (h *Handler) GetCohort(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Current())
}

func (h *Handler) ReloadCohort(w http.ResponseWriter, r *http.Request) {
	var req ReloadRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	st, err := h.svc.Reload(r.Context(), req.Source)
	if err != nil {
		if errors.Is(err, ErrUnknownSource) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Reload failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	var in PredictInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(in); err != nil {
		http.Error(w, "Please enter valid values: sleep 3-12 hours, exercise 0-100%, social 1-6 score", http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Predict(in))
}

func (h *Handler) GetPresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Presets())
}

func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Policy())
}

func (h *Handler) GetSources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"sources": h.svc.Sources()})
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.Report(r.Context())
	if err != nil {
		http.Error(w, "Report failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="cohort_report.pdf"`)
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/cohort", h.GetCohort)
	r.Post("/cohort/reload", h.ReloadCohort)
	r.Get("/cohort/report.pdf", h.GetReport)
	r.Get("/sources", h.GetSources)
	r.Post("/predict", h.Predict)
	r.Get("/predict/presets", h.GetPresets)
	r.Get("/policy", h.GetPolicy)
}
