package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"coop-reconciliation/internal/domain"
	"coop-reconciliation/internal/export"
	"coop-reconciliation/internal/usecase"
)

// ReportService is what the handler needs from the report use case.
type ReportService interface {
	Generate(ctx context.Context, req usecase.ReportRequest) (*domain.ReportBundle, error)
	Invalidate(tenantID string)
}

type ReportHandler struct {
	reports ReportService
	log     logrus.FieldLogger
}

func NewReportHandler(reports ReportService, log logrus.FieldLogger) *ReportHandler {
	return &ReportHandler{reports: reports, log: log}
}

// Routes mounts the report endpoints.
//
//	GET    /healthz
//	GET    /tenants/{tenantID}/report?start=YYYY-MM-DD&end=YYYY-MM-DD[&format=xlsx]
//	DELETE /tenants/{tenantID}/report/cache
func (h *ReportHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/tenants/{tenantID}/report", func(r chi.Router) {
		r.Get("/", h.HandleGetReport)
		r.Delete("/cache", h.HandleInvalidate)
	})
	return r
}

func (h *ReportHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	log := h.log.WithFields(logrus.Fields{"tenant_id": tenantID, "request_id": middleware.GetReqID(r.Context())})

	q := r.URL.Query()
	start, err := parseQueryDate(q.Get("start"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "start must be YYYY-MM-DD")
		return
	}
	end, err := parseQueryDate(q.Get("end"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "end must be YYYY-MM-DD")
		return
	}

	bundle, err := h.reports.Generate(r.Context(), usecase.ReportRequest{TenantID: tenantID, Start: start, End: end})
	if errors.Is(err, usecase.ErrInvalidRequest) {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		log.WithError(err).Error("report generation failed")
		h.writeError(w, http.StatusInternalServerError, "report generation failed")
		return
	}

	if q.Get("format") == "xlsx" {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename=report-"+bundle.ID+".xlsx")
		if err := export.Write(w, bundle); err != nil {
			log.WithError(err).Error("failed to write workbook")
		}
		return
	}
	h.writeJSON(w, http.StatusOK, bundle)
}

func (h *ReportHandler) HandleInvalidate(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	h.reports.Invalidate(tenantID)
	h.log.WithField("tenant_id", tenantID).Info("report cache invalidated")
	w.WriteHeader(http.StatusNoContent)
}

func parseQueryDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.DateOnly, s)
}

func (h *ReportHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.WithError(err).Error("failed to write response")
	}
}

func (h *ReportHandler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
