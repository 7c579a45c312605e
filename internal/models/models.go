package models

import (
	"time"
)

const (
	ReceptionInProgress = "in_progress"
	ReceptionClosed     = "closed"
)

type PVZ struct {
	ID               string    `json:"id" db:"id"`
	RegistrationDate time.Time `json:"registrationDate" db:"registration_date"`
	City             string    `json:"city" db:"city"`
}

type Reception struct {
	ID       string    `json:"id" db:"id"`
	DateTime time.Time `json:"dateTime" db:"date_time"`
	PVZID    string    `json:"pvzId" db:"pvz_id"`
	Status   string    `json:"status" db:"status"`
}

type Product struct {
	ID          string    `json:"id" db:"id"`
	DateTime    time.Time `json:"dateTime" db:"date_time"`
	Type        string    `json:"type" db:"type"`
	ReceptionID string    `json:"receptionId" db:"reception_id"`
}

type User struct {
	ID       string `json:"id" db:"id"`
	Email    string `json:"email,omitempty" db:"email"`
	Password string `json:"-" db:"password"`
	Role     string `json:"role" db:"role"`
}

// PVZFilter carries GET /pvz query parameters. The date range applies to
// receptions and only when both bounds are present.
type PVZFilter struct {
	StartDate time.Time `form:"startDate" time_format:"2006-01-02T15:04:05Z07:00"`
	EndDate   time.Time `form:"endDate" time_format:"2006-01-02T15:04:05Z07:00"`
	Page      int       `form:"page" binding:"omitempty,gte=1"`
	Limit     int       `form:"limit" binding:"omitempty,gte=1,lte=30"`
}

func (f PVZFilter) HasDateRange() bool {
	return !f.StartDate.IsZero() && !f.EndDate.IsZero()
}

type ReceptionItem struct {
	Reception *Reception `json:"reception"`
	Products  []*Product `json:"products"`
}

type PVZListItem struct {
	PVZ        *PVZ             `json:"pvz"`
	Receptions []*ReceptionItem `json:"receptions"`
}
