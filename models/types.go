// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Order status ids as stored by the legacy CMS.
const (
	OrderStatusCommitted = 1
	OrderStatusCancelled = 2
)

// Mailshot status values
const (
	MailshotDraft   = "Draft"
	MailshotSending = "Sending"
	MailshotSent    = "Sent"
	MailshotFailed  = "Failed"
)

// Pagination is the envelope used by page-numbered list endpoints.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// Request types

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateUserRequest struct {
	Username     string `json:"username" validate:"required,max=64"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	FirstName    string `json:"first_name" validate:"required"`
	LastName     string `json:"last_name" validate:"required"`
	JobTitle     string `json:"job_title"`
	RoleID       int    `json:"role_id"`
	DepartmentID int    `json:"department_id"`
}

type CreateOrderRequest struct {
	PurchaserID     int     `json:"purchaser_id" validate:"required,min=1"`
	PurchaserTypeID int     `json:"purchaser_type_id" validate:"required,min=1"`
	OrderTotal      float64 `json:"order_total" validate:"min=0"`
	StatusID        int     `json:"status_id" validate:"required,oneof=1 2"`
}

type CreateEventRequest struct {
	Name             string    `json:"name" validate:"required"`
	StartDate        time.Time `json:"start_date" validate:"required"`
	EndDate          time.Time `json:"end_date" validate:"required,gtefield=StartDate"`
	LocationBuilding string    `json:"location_building"`
	City             string    `json:"city"`
	Address          string    `json:"address"`
	TypeID           int       `json:"type_id" validate:"required"`
	StatusID         int       `json:"status_id"`
	StandardPrice    *float64  `json:"standard_price" validate:"omitempty,min=0"`
}

type CreateLocationRequest struct {
	Name           string   `json:"name" validate:"required"`
	ParentID       *string  `json:"parent_id"`
	FriendlyName   string   `json:"friendly_name"`
	LocationTypeID int      `json:"location_type_id" validate:"required"`
	LocationCode   string   `json:"location_code"`
	Nationality    string   `json:"nationality"`
	Latitude       *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude      *float64 `json:"longitude" validate:"omitempty,longitude"`
	Archived       bool     `json:"archived"`
}

type CreatePopupRequest struct {
	Title           string     `json:"title" validate:"required"`
	Content         string     `json:"content"`
	ImageURL        string     `json:"image_url" validate:"omitempty,url"`
	TargetURL       string     `json:"target_url" validate:"omitempty,url"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	IsActive        *bool      `json:"is_active"`
	TargetDomains   string     `json:"target_domains"`
	TargetCountries string     `json:"target_countries"`
}

type CreateBannerRequest struct {
	Name      string `json:"name" validate:"required"`
	ImageURL  string `json:"image_url" validate:"required,url"`
	TargetURL string `json:"target_url" validate:"required,url"`
	Weight    int    `json:"weight" validate:"min=0"`
	IsActive  *bool  `json:"is_active"`
}

type CreateMailshotRequest struct {
	Title    string     `json:"title" validate:"required"`
	Subject  string     `json:"subject" validate:"required"`
	Content  string     `json:"content" validate:"required"`
	SendDate *time.Time `json:"send_date"`
}

type CreateTemplateRequest struct {
	Title   string `json:"title"`
	Content string `json:"content" validate:"required"`
	Domains int    `json:"domains"`
	Mode    int    `json:"mode"`
}

type CreateBenchmarkStatRequest struct {
	DeptID       int       `json:"dept_id" validate:"required"`
	Month        time.Time `json:"month" validate:"required"`
	CollectionID int       `json:"collection_id" validate:"required"`
	StatTotal    int       `json:"stat_total" validate:"min=0"`
	ProgTotal    int       `json:"prog_total" validate:"min=0"`
}

// Response types

type LoginResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

type MessageResponse struct {
	Message string `json:"message"`
	Status  string `json:"status,omitempty"`
}

type DebugInfo struct {
	DatabaseType   string `json:"db_type"`
	CampaignCount  int    `json:"db_count"`
	SnapshotKind   string `json:"snapshot_backend"`
	SnapshotExists bool   `json:"snapshot_exists"`
}

// Domain types

type User struct {
	ID             string     `json:"id" db:"id"`
	Username       string     `json:"username" db:"username"`
	Email          string     `json:"email" db:"email"`
	HashedPassword string     `json:"-" db:"hashed_password"`
	FirstName      string     `json:"first_name" db:"first_name"`
	LastName       string     `json:"last_name" db:"last_name"`
	JobTitle       string     `json:"job_title" db:"job_title"`
	RoleID         int        `json:"role_id" db:"role_id"`
	DepartmentID   int        `json:"department_id" db:"department_id"`
	Status         bool       `json:"status" db:"status"`
	LastLogin      *time.Time `json:"last_login,omitempty" db:"last_login"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

type Order struct {
	ID              string    `json:"id" db:"id"`
	PurchaserID     int       `json:"purchaser_id" db:"purchaser_id"`
	PurchaserTypeID int       `json:"purchaser_type_id" db:"purchaser_type_id"`
	OrderTotal      float64   `json:"order_total" db:"order_total"`
	Timestamp       time.Time `json:"timestamp" db:"ordered_at"`
	StatusID        int       `json:"status_id" db:"status_id"`
	StatusLabel     string    `json:"status_label" db:"-"`
}

// OrderStatusLabel is the display label for an order status id.
func OrderStatusLabel(statusID int) string {
	if statusID == OrderStatusCommitted {
		return "Committed"
	}
	return "Cancelled"
}

type Event struct {
	ID               string    `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	StartDate        time.Time `json:"start_date" db:"start_date"`
	EndDate          time.Time `json:"end_date" db:"end_date"`
	LocationBuilding string    `json:"location_building,omitempty" db:"location_building"`
	City             string    `json:"city,omitempty" db:"city"`
	Address          string    `json:"address,omitempty" db:"address"`
	TypeID           int       `json:"type_id" db:"type_id"`
	StatusID         int       `json:"status_id" db:"status_id"`
	StandardPrice    *float64  `json:"standard_price,omitempty" db:"standard_price"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// LegacyEvent is one row of the external event signup feed.
type LegacyEvent struct {
	ID       string `json:"id"`
	Product  string `json:"product"`
	Venue    string `json:"venue"`
	Audience string `json:"audience"`
	Brand    string `json:"brand"`
	Platform string `json:"platform"`
	Signups  int    `json:"signups"`
	Date     string `json:"date"`
}

type GeoLocation struct {
	ID             string        `json:"id" db:"id"`
	Name           string        `json:"name" db:"name"`
	ParentID       *string       `json:"parent_id,omitempty" db:"parent_id"`
	FriendlyName   string        `json:"friendly_name,omitempty" db:"friendly_name"`
	LocationTypeID int           `json:"location_type_id" db:"location_type_id"`
	LocationCode   string        `json:"location_code,omitempty" db:"location_code"`
	Nationality    string        `json:"nationality,omitempty" db:"nationality"`
	Latitude       *float64      `json:"latitude,omitempty" db:"latitude"`
	Longitude      *float64      `json:"longitude,omitempty" db:"longitude"`
	Archived       bool          `json:"archived" db:"archived"`
	Children       []GeoLocation `json:"children,omitempty" db:"-"`
}

type MarketingPopup struct {
	ID              string     `json:"id" db:"id"`
	Title           string     `json:"title" db:"title"`
	Content         string     `json:"content,omitempty" db:"content"`
	ImageURL        string     `json:"image_url,omitempty" db:"image_url"`
	TargetURL       string     `json:"target_url,omitempty" db:"target_url"`
	StartDate       *time.Time `json:"start_date,omitempty" db:"start_date"`
	EndDate         *time.Time `json:"end_date,omitempty" db:"end_date"`
	IsActive        bool       `json:"is_active" db:"is_active"`
	TargetDomains   string     `json:"target_domains,omitempty" db:"target_domains"`
	TargetCountries string     `json:"target_countries,omitempty" db:"target_countries"`
}

type SplashBanner struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	ImageURL  string    `json:"image_url" db:"image_url"`
	TargetURL string    `json:"target_url" db:"target_url"`
	Weight    int       `json:"weight" db:"weight"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Mailshot struct {
	ID           string     `json:"id" db:"id"`
	Title        string     `json:"title" db:"title"`
	Subject      string     `json:"subject" db:"subject"`
	Content      string     `json:"content" db:"content"`
	Status       string     `json:"status" db:"status"`
	SendDate     *time.Time `json:"send_date,omitempty" db:"send_date"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	TotalSent    int        `json:"total_sent" db:"total_sent"`
	TotalOpened  int        `json:"total_opened" db:"total_opened"`
	TotalClicked int        `json:"total_clicked" db:"total_clicked"`
}

type PageTemplate struct {
	ID         string    `json:"id" db:"id"`
	Title      string    `json:"title" db:"title"`
	Content    string    `json:"content" db:"content"`
	Mode       int       `json:"mode" db:"mode"`
	Domains    int       `json:"domains" db:"domains"`
	Archived   bool      `json:"archived" db:"archived"`
	CreatedBy  string    `json:"created_by,omitempty" db:"created_by"`
	CreatedOn  time.Time `json:"created_on" db:"created_on"`
	ModifiedOn time.Time `json:"modified_on" db:"modified_on"`
}

// BenchmarkStat is one department's benchmark counts for a month.
type BenchmarkStat struct {
	ID           string    `json:"id" db:"id"`
	DeptID       int       `json:"dept_id" db:"dept_id"`
	Month        time.Time `json:"month" db:"month"`
	CollectionID int       `json:"collection_id" db:"collection_id"`
	StatTotal    int64     `json:"stat_total" db:"stat_total"`
	ProgTotal    int64     `json:"prog_total" db:"prog_total"`
}

// BenchmarkAgg is one month of sitewide benchmark totals for a collection.
type BenchmarkAgg struct {
	Month        time.Time `json:"month" db:"month"`
	CollectionID int       `json:"collection_id" db:"collection_id"`
	StatTotal    int64     `json:"stat_total" db:"stat_total"`
	ProgTotal    int64     `json:"-" db:"prog_total"`
	Aggregate    float64   `json:"aggregate" db:"-"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
