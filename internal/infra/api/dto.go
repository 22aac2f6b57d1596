package api

import (
	"time"

	"gym-club-management/internal/domain/model"
)

// Response DTOs. Binary columns (certificate, photo) are never inlined; the
// payload carries presence flags instead.

type planResponse struct {
	ID             int64             `json:"id"`
	Type           string            `json:"type"`
	WeeklyQuota    model.WeeklyQuota `json:"weeklyQuota"` // null means unlimited
	PriceCents     int64             `json:"priceCents"`
	DurationMonths int               `json:"durationMonths"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

func toPlanResponse(p *model.Plan) planResponse {
	return planResponse{
		ID:             p.ID,
		Type:           p.Type,
		WeeklyQuota:    p.WeeklyQuota,
		PriceCents:     p.PriceCents,
		DurationMonths: p.DurationMonths,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toPlanResponses(plans []*model.Plan) []planResponse {
	out := make([]planResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, toPlanResponse(p))
	}
	return out
}

type subscriptionResponse struct {
	ID                 int64             `json:"id"`
	PlanID             int64             `json:"planId"`
	PlanType           string            `json:"planType"`
	WeeklyQuota        model.WeeklyQuota `json:"weeklyQuota"`
	StartDate          *time.Time        `json:"startDate"`
	EndDate            *time.Time        `json:"endDate"`
	DurationMonths     int               `json:"durationMonths"`
	PriceCents         int64             `json:"priceCents"`
	WeeklySessionsUsed int               `json:"weeklySessionsUsed"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

func toSubscriptionResponse(s *model.Subscription) *subscriptionResponse {
	if s == nil {
		return nil
	}
	return &subscriptionResponse{
		ID:                 s.ID,
		PlanID:             s.PlanID,
		PlanType:           s.PlanType,
		WeeklyQuota:        s.WeeklyQuota,
		StartDate:          s.StartDate,
		EndDate:            s.EndDate,
		DurationMonths:     s.DurationMonths,
		PriceCents:         s.PriceCents,
		WeeklySessionsUsed: s.WeeklySessionsUsed,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

type adherentResponse struct {
	ID                    int64                 `json:"id"`
	FirstName             string                `json:"firstName"`
	LastName              string                `json:"lastName"`
	Email                 string                `json:"email"`
	PhoneNumber           string                `json:"phoneNumber,omitempty"`
	DateOfBirth           time.Time             `json:"dateOfBirth"`
	Address               string                `json:"address,omitempty"`
	City                  string                `json:"city,omitempty"`
	PostalCode            string                `json:"postalCode,omitempty"`
	Country               string                `json:"country,omitempty"`
	Status                model.AdherentStatus  `json:"status"`
	SuspendedReason       *string               `json:"suspendedReason,omitempty"`
	SuspendedAt           *time.Time            `json:"suspendedAt,omitempty"`
	HasMedicalCertificate bool                  `json:"hasMedicalCertificate"`
	HasPhoto              bool                  `json:"hasPhoto"`
	Subscription          *subscriptionResponse `json:"subscription"`
	CreatedAt             time.Time             `json:"createdAt"`
	UpdatedAt             time.Time             `json:"updatedAt"`
}

func toAdherentResponse(a *model.Adherent) adherentResponse {
	return adherentResponse{
		ID:                    a.ID,
		FirstName:             a.FirstName,
		LastName:              a.LastName,
		Email:                 a.Email,
		PhoneNumber:           a.PhoneNumber,
		DateOfBirth:           a.DateOfBirth,
		Address:               a.Address,
		City:                  a.City,
		PostalCode:            a.PostalCode,
		Country:               a.Country,
		Status:                a.Status,
		SuspendedReason:       a.SuspendedReason,
		SuspendedAt:           a.SuspendedAt,
		HasMedicalCertificate: len(a.MedicalCertificate) > 0,
		HasPhoto:              len(a.Photo) > 0,
		Subscription:          toSubscriptionResponse(a.CurrentSubscription),
		CreatedAt:             a.CreatedAt,
		UpdatedAt:             a.UpdatedAt,
	}
}

func toAdherentResponses(adherents []*model.Adherent) []adherentResponse {
	out := make([]adherentResponse, 0, len(adherents))
	for _, a := range adherents {
		out = append(out, toAdherentResponse(a))
	}
	return out
}
