package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"gym-club-management/internal/domain/model"
	"gym-club-management/internal/infra/metrics"
	"gym-club-management/internal/usecase"
)

const dateLayout = "2006-01-02"

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// paging reads zero-based ?page= and ?size= query parameters.
func paging(r *http.Request) (page, size int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	size, _ = strconv.Atoi(r.URL.Query().Get("size"))
	if page < 0 {
		page = 0
	}
	if size <= 0 || size > 200 {
		size = 20
	}
	return page, size
}

type adherentCreateRequest struct {
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	Email              string `json:"email"`
	PhoneNumber        string `json:"phoneNumber"`
	DateOfBirth        string `json:"dateOfBirth"` // YYYY-MM-DD
	Address            string `json:"address"`
	City               string `json:"city"`
	PostalCode         string `json:"postalCode"`
	Country            string `json:"country"`
	MedicalCertificate []byte `json:"medicalCertificate,omitempty"`
	Photo              []byte `json:"photo,omitempty"`
}

func (s *Server) handleAdherentCreate(w http.ResponseWriter, r *http.Request) {
	var req adherentCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	dob, err := time.Parse(dateLayout, req.DateOfBirth)
	if err != nil {
		badRequest(w, "dateOfBirth must be YYYY-MM-DD")
		return
	}

	a, err := s.adherentUC.Create(r.Context(), usecase.NewAdherentInput{
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Email:              req.Email,
		PhoneNumber:        req.PhoneNumber,
		DateOfBirth:        dob,
		Address:            req.Address,
		City:               req.City,
		PostalCode:         req.PostalCode,
		Country:            req.Country,
		MedicalCertificate: req.MedicalCertificate,
		Photo:              req.Photo,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	metrics.IncAdherentRegistered()
	writeJSON(w, http.StatusCreated, toAdherentResponse(a))
}

func (s *Server) handleAdherentList(w http.ResponseWriter, r *http.Request) {
	page, size := paging(r)
	adherents, err := s.adherentUC.List(r.Context(), page, size)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAdherentResponses(adherents))
}

func (s *Server) handleAdherentListActive(w http.ResponseWriter, r *http.Request) {
	adherents, err := s.adherentUC.ListActive(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAdherentResponses(adherents))
}

func (s *Server) handleAdherentSearch(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		badRequest(w, "name query parameter is required")
		return
	}
	adherents, err := s.adherentUC.SearchByName(r.Context(), name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAdherentResponses(adherents))
}

func (s *Server) handleAdherentListByStatus(w http.ResponseWriter, r *http.Request) {
	status, err := model.ParseAdherentStatus(chi.URLParam(r, "status"))
	if err != nil {
		badRequest(w, "unknown status")
		return
	}
	adherents, err := s.adherentUC.ListByStatus(r.Context(), status)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAdherentResponses(adherents))
}

func (s *Server) handleAdherentGetByEmail(w http.ResponseWriter, r *http.Request) {
	a, err := s.adherentUC.GetByEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAdherentResponse(a))
}

// adherentFromPath loads the adherent addressed by {id}, enforcing that a
// USER token only reaches its own row. Writes the error response itself.
func (s *Server) adherentIDFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid adherent id")
		return 0, false
	}
	if !canAccessAdherent(ClaimsFrom(r.Context()), id) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return 0, false
	}
	return id, true
}

func (s *Server) handleAdherentGet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.adherentIDFromPath(w, r)
	if !ok {
		return
	}
	a, err := s.adherentUC.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAdherentResponse(a))
}

type adherentUpdateRequest struct {
	FirstName          *string `json:"firstName"`
	LastName           *string `json:"lastName"`
	PhoneNumber        *string `json:"phoneNumber"`
	DateOfBirth        *string `json:"dateOfBirth"`
	Address            *string `json:"address"`
	City               *string `json:"city"`
	PostalCode         *string `json:"postalCode"`
	Country            *string `json:"country"`
	MedicalCertificate []byte  `json:"medicalCertificate,omitempty"`
	Photo              []byte  `json:"photo,omitempty"`
}

func (req adherentUpdateRequest) toUpdate() (usecase.AdherentUpdate, error) {
	upd := usecase.AdherentUpdate{
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		PhoneNumber:        req.PhoneNumber,
		Address:            req.Address,
		City:               req.City,
		PostalCode:         req.PostalCode,
		Country:            req.Country,
		MedicalCertificate: req.MedicalCertificate,
		Photo:              req.Photo,
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse(dateLayout, *req.DateOfBirth)
		if err != nil {
			return upd, errors.New("dateOfBirth must be YYYY-MM-DD")
		}
		upd.DateOfBirth = &dob
	}
	return upd, nil
}

func (s *Server) handleAdherentUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid adherent id")
		return
	}
	var req adherentUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	upd, err := req.toUpdate()
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	a, err := s.adherentUC.Update(r.Context(), id, upd)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAdherentResponse(a))
}

type suspendRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) handleAdherentSuspend(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid adherent id")
		return
	}
	var req suspendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	a, err := s.adherentUC.Suspend(r.Context(), id, req.Reason)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAdherentResponse(a))
}

func (s *Server) handleAdherentReactivate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid adherent id")
		return
	}
	a, err := s.adherentUC.Reactivate(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAdherentResponse(a))
}

func (s *Server) handleAdherentDeactivate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid adherent id")
		return
	}
	if err := s.adherentUC.Deactivate(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ===== Subscription linkage =====

type assignSubscriptionRequest struct {
	PlanID         int64  `json:"planId"`
	StartDate      string `json:"startDate,omitempty"` // YYYY-MM-DD, empty starts today
	DurationMonths int    `json:"durationMonths,omitempty"`
}

func (s *Server) handleSubscriptionAssign(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid adherent id")
		return
	}
	var req assignSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	var start time.Time
	if req.StartDate != "" {
		start, err = time.Parse(dateLayout, req.StartDate)
		if err != nil {
			badRequest(w, "startDate must be YYYY-MM-DD")
			return
		}
	}
	a, err := s.adherentUC.AssignSubscription(r.Context(), id, req.PlanID, start, req.DurationMonths)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAdherentResponse(a))
}

func (s *Server) handleSubscriptionLink(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid adherent id")
		return
	}
	subID, err := pathID(r, "subID")
	if err != nil {
		badRequest(w, "invalid subscription id")
		return
	}
	a, err := s.adherentUC.AssignSubscriptionByID(r.Context(), id, subID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAdherentResponse(a))
}

func (s *Server) handleSubscriptionUnlink(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid adherent id")
		return
	}
	a, err := s.adherentUC.RemoveSubscription(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAdherentResponse(a))
}

func (s *Server) handleSubscriptionGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid subscription id")
		return
	}
	sub, err := s.subUC.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSubscriptionResponse(sub))
}

type rescheduleRequest struct {
	StartDate      *string `json:"startDate"` // YYYY-MM-DD
	DurationMonths *int    `json:"durationMonths"`
}

// The end date is always re-derived from start + duration, never set directly.
func (s *Server) handleSubscriptionReschedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid subscription id")
		return
	}
	var req rescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	var start *time.Time
	if req.StartDate != nil {
		parsed, err := time.Parse(dateLayout, *req.StartDate)
		if err != nil {
			badRequest(w, "startDate must be YYYY-MM-DD")
			return
		}
		start = &parsed
	}
	sub, err := s.subUC.Reschedule(r.Context(), id, start, req.DurationMonths)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSubscriptionResponse(sub))
}

// ===== Membership checks =====

func (s *Server) handleHasActiveSubscription(w http.ResponseWriter, r *http.Request) {
	id, ok := s.adherentIDFromPath(w, r)
	if !ok {
		return
	}
	active, err := s.adherentUC.HasActiveSubscription(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"hasActiveSubscription": active})
}

func (s *Server) handleEligibleForSession(w http.ResponseWriter, r *http.Request) {
	id, ok := s.adherentIDFromPath(w, r)
	if !ok {
		return
	}
	eligible, err := s.adherentUC.EligibleForSession(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"eligible": eligible})
}

func (s *Server) handleWeeklySessionLimit(w http.ResponseWriter, r *http.Request) {
	id, ok := s.adherentIDFromPath(w, r)
	if !ok {
		return
	}
	limit, err := s.adherentUC.WeeklySessionLimit(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]model.WeeklyQuota{"weeklySessionLimit": limit})
}

// ===== Medical certificate =====

type certificateRequest struct {
	Certificate []byte `json:"certificate"`
}

func (s *Server) handleCertificateUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid adherent id")
		return
	}
	var req certificateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	a, err := s.adherentUC.UpdateMedicalCertificate(r.Context(), id, req.Certificate)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAdherentResponse(a))
}

func (s *Server) handleCertificateValid(w http.ResponseWriter, r *http.Request) {
	id, ok := s.adherentIDFromPath(w, r)
	if !ok {
		return
	}
	valid, err := s.adherentUC.MedicalCertificateValid(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": valid})
}

// ===== Session booking =====

func (s *Server) handleSessionBook(w http.ResponseWriter, r *http.Request) {
	id, ok := s.adherentIDFromPath(w, r)
	if !ok {
		return
	}
	sub, err := s.subUC.BookSession(r.Context(), id)
	if err != nil {
		metrics.IncSessionBooking("refused")
		writeDomainError(w, err)
		return
	}
	metrics.IncSessionBooking("booked")
	writeJSON(w, http.StatusOK, toSubscriptionResponse(sub))
}

func (s *Server) handleSessionCancel(w http.ResponseWriter, r *http.Request) {
	id, ok := s.adherentIDFromPath(w, r)
	if !ok {
		return
	}
	sub, err := s.subUC.CancelSession(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	metrics.IncSessionBooking("cancelled")
	writeJSON(w, http.StatusOK, toSubscriptionResponse(sub))
}

type remainingSessionsResponse struct {
	Unlimited bool `json:"unlimited"`
	Remaining int  `json:"remaining"` // meaningless when unlimited
}

func (s *Server) handleSessionsRemaining(w http.ResponseWriter, r *http.Request) {
	id, ok := s.adherentIDFromPath(w, r)
	if !ok {
		return
	}
	remaining, bounded, err := s.subUC.RemainingWeeklySessions(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, remainingSessionsResponse{
		Unlimited: !bounded,
		Remaining: remaining,
	})
}
