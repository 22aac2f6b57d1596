package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"gym-club-management/internal/domain"
	"gym-club-management/internal/domain/model"
	"gym-club-management/internal/infra/logging"
	"gym-club-management/internal/infra/metrics"
	red "gym-club-management/internal/infra/redis"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token      string `json:"token"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	AdherentID *int64 `json:"adherentId,omitempty"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request, role model.Role) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		badRequest(w, "username and password are required")
		return
	}

	acc, err := s.authUC.Register(r.Context(), req.Username, req.Password, role)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{
		Username:   acc.Username,
		Role:       string(acc.Role),
		AdherentID: acc.AdherentID,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	s.register(w, r, model.RoleUser)
}

func (s *Server) handleAdminRegister(w http.ResponseWriter, r *http.Request) {
	s.register(w, r, model.RoleAdmin)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	if s.limiter != nil {
		key := red.LoginKey(r.RemoteAddr, req.Username)
		allowed, err := s.limiter.Allow(r.Context(), key, s.cfg.Auth.LoginLimit, s.cfg.Auth.LoginWindow)
		if err != nil {
			// Throttling is advisory; a redis hiccup must not lock everyone out.
			logging.With(r.Context(), &s.log).Warn().Err(err).Msg("login rate limiter unavailable")
		} else if !allowed {
			metrics.IncLoginAttempt("throttled")
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many login attempts"})
			return
		}
	}

	acc, err := s.authUC.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.IncLoginAttempt("failed")
		}
		writeDomainError(w, err)
		return
	}

	token, err := s.auth.Mint(w, acc)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	metrics.IncLoginAttempt("success")
	writeJSON(w, http.StatusOK, authResponse{
		Token:      token,
		Username:   acc.Username,
		Role:       string(acc.Role),
		AdherentID: acc.AdherentID,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

// ===== /api/profile =====

type profileResponse struct {
	Username string            `json:"username"`
	Role     string            `json:"role"`
	Adherent *adherentResponse `json:"adherent"`
}

func (s *Server) handleProfileGet(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFrom(r.Context())
	resp := profileResponse{Username: claims.Subject, Role: claims.Role}
	if claims.AdherentID != nil {
		a, err := s.adherentUC.Get(r.Context(), *claims.AdherentID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		ar := toAdherentResponse(a)
		resp.Adherent = &ar
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFrom(r.Context())
	if claims.AdherentID == nil {
		badRequest(w, "account has no member profile")
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
	// Members edit contact details only; documents go through the admin route.
	upd.MedicalCertificate = nil
	upd.Photo = nil

	a, err := s.adherentUC.Update(r.Context(), *claims.AdherentID, upd)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAdherentResponse(a))
}

type passwordChangeRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (s *Server) handleProfilePassword(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFrom(r.Context())
	var req passwordChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if err := s.authUC.ChangePassword(r.Context(), claims.Subject, req.CurrentPassword, req.NewPassword); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
