package model

import "time"

type Status string

const (
	StatusSubmitted  Status = "Submitted"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusClosed     Status = "Closed"
)

// AllowedStatuses is the canonical status set. Status changes outside this set
// are rejected before they reach the store.
var AllowedStatuses = map[Status]bool{
	StatusSubmitted:  true,
	StatusInProgress: true,
	StatusCompleted:  true,
	StatusClosed:     true,
}

func (s Status) Valid() bool {
	return AllowedStatuses[s]
}

type Submission struct {
	ID              int64      `json:"id" db:"id"`
	CreatedBy       string     `json:"created_by" db:"created_by"`
	Status          Status     `json:"status" db:"status"`
	SubmittedData   []byte     `json:"-" db:"submitted_data"`
	CreatedDate     time.Time  `json:"created_date" db:"created_date"`
	LastUpdatedBy   *string    `json:"last_updated_by,omitempty" db:"last_updated_by"`
	LastUpdatedDate *time.Time `json:"last_updated_date,omitempty" db:"last_updated_date"`
}

type SubmissionSummary struct {
	ID              int64      `json:"id"`
	CreatedBy       string     `json:"created_by"`
	Status          Status     `json:"status"`
	IncidentType    string     `json:"incident_type,omitempty"`
	Location        string     `json:"location,omitempty"`
	CreatedDate     time.Time  `json:"created_date"`
	LastUpdatedDate *time.Time `json:"last_updated_date,omitempty"`
}

type SubmissionFilter struct {
	CreatedBy string
	Status    Status
	FromUTC   *time.Time
	ToUTC     *time.Time
}

type MonthlyCount struct {
	Month     int `json:"month"`
	New       int `json:"new"`
	Completed int `json:"completed"`
}

type DashboardOverview struct {
	Year           int            `json:"year"`
	TotalNew       int            `json:"total_new"`
	TotalCompleted int            `json:"total_completed"`
	Monthly        []MonthlyCount `json:"monthly"`
}
