package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gym-club-management/internal/domain/model"
	"gym-club-management/internal/usecase"
)

type planCreateRequest struct {
	Type           string            `json:"type"`
	WeeklyQuota    model.WeeklyQuota `json:"weeklyQuota"` // null means unlimited
	PriceCents     int64             `json:"priceCents"`
	DurationMonths int               `json:"durationMonths"`
}

func (s *Server) handlePlanCreate(w http.ResponseWriter, r *http.Request) {
	var req planCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	p, err := s.planUC.Create(r.Context(), req.Type, req.WeeklyQuota, req.PriceCents, req.DurationMonths)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPlanResponse(p))
}

func (s *Server) handlePlanList(w http.ResponseWriter, r *http.Request) {
	// Unpaged listing serves the enrollment screens; the catalog stays small.
	if r.URL.Query().Get("page") == "" {
		plans, err := s.planUC.ListAll(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPlanResponses(plans))
		return
	}
	page, size := paging(r)
	plans, err := s.planUC.List(r.Context(), page, size)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanResponses(plans))
}

func (s *Server) handlePlanGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid plan id")
		return
	}
	p, err := s.planUC.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanResponse(p))
}

func (s *Server) handlePlanGetByType(w http.ResponseWriter, r *http.Request) {
	p, err := s.planUC.GetByType(r.Context(), chi.URLParam(r, "type"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanResponse(p))
}

type planUpdateRequest struct {
	Type           *string            `json:"type"`
	WeeklyQuota    *model.WeeklyQuota `json:"weeklyQuota"`
	PriceCents     *int64             `json:"priceCents"`
	DurationMonths *int               `json:"durationMonths"`
}

func (s *Server) handlePlanUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid plan id")
		return
	}
	var req planUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	p, err := s.planUC.Update(r.Context(), id, usecase.PlanUpdate{
		Type:           req.Type,
		WeeklyQuota:    req.WeeklyQuota,
		PriceCents:     req.PriceCents,
		DurationMonths: req.DurationMonths,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanResponse(p))
}

type planPriceRequest struct {
	PriceCents int64 `json:"priceCents"`
}

func (s *Server) handlePlanUpdatePrice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid plan id")
		return
	}
	var req planPriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	p, err := s.planUC.UpdatePrice(r.Context(), id, req.PriceCents)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanResponse(p))
}

func (s *Server) handlePlanDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid plan id")
		return
	}
	if err := s.planUC.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
