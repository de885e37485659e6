// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Contact filter values
const (
	ContactFilterAll       = "all"
	ContactFilterWithEmail = "with_email"
	ContactFilterWithPhone = "with_phone"
)

// Deal status filter values, mapped onto HubSpot deal stages.
const (
	DealFilterAll     = "all"
	DealFilterPaid    = "paid"
	DealFilterPending = "pending"
	DealFilterOverdue = "overdue"
)

const (
	DealStageClosedWon  = "closedwon"
	DealStageClosedLost = "closedlost"
)

// Contact is a HubSpot contact mirrored into the local database.
type Contact struct {
	ID         string `json:"id" db:"id"`
	FirstName  string `json:"firstName" db:"first_name"`
	LastName   string `json:"lastName" db:"last_name"`
	Email      string `json:"email" db:"email"`
	Phone      string `json:"phone" db:"phone"`
	Company    string `json:"company" db:"company"`
	JobTitle   string `json:"jobTitle" db:"job_title"`
	HubSpotURL string `json:"hubspotUrl" db:"-"`
}

type ContactStats struct {
	WithEmail   int `json:"withEmail" db:"with_email"`
	WithPhone   int `json:"withPhone" db:"with_phone"`
	WithCompany int `json:"withCompany" db:"with_company"`
}

type ContactPage struct {
	Items []Contact    `json:"items"`
	Total int          `json:"total"`
	Stats ContactStats `json:"stats"`
}

// Deal is a HubSpot deal mirrored into the local database.
type Deal struct {
	ID         string     `json:"id" db:"id"`
	DealName   string     `json:"dealname" db:"dealname"`
	Amount     float64    `json:"amount" db:"amount"`
	DealStage  string     `json:"dealstage" db:"dealstage"`
	CreateDate *time.Time `json:"createdate,omitempty" db:"createdate"`
	CloseDate  *time.Time `json:"closedate,omitempty" db:"closedate"`
	Pipeline   string     `json:"pipeline" db:"pipeline"`
	SyncedAt   time.Time  `json:"synced_at" db:"synced_at"`
}

// DealProperties mirrors the HubSpot object shape the orders screen reads.
type DealProperties struct {
	DealName   string  `json:"dealname"`
	Amount     string  `json:"amount"`
	DealStage  string  `json:"dealstage"`
	CreateDate *string `json:"createdate"`
	CloseDate  *string `json:"closedate"`
	Pipeline   string  `json:"pipeline"`
}

type DealResult struct {
	ID         string         `json:"id"`
	Properties DealProperties `json:"properties"`
}

type DealsResponse struct {
	Results    []DealResult `json:"results"`
	Pagination Pagination   `json:"pagination"`
}

type SyncStartedResponse struct {
	Message string   `json:"message"`
	Status  string   `json:"status"`
	Items   []string `json:"items"`
}

type SyncStatus struct {
	Deals        int    `json:"deals"`
	Contacts     int    `json:"contacts"`
	TotalRecords int    `json:"total_records"`
	ContactsSync string `json:"contacts_last_synced,omitempty"`
	DealsSync    string `json:"deals_last_synced,omitempty"`
	Running      bool   `json:"running"`
}
