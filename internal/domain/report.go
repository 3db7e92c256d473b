package domain

import "time"

// ReportStatus enumerates workflow stages for a defect report.
type ReportStatus string

const (
	ReportStatusPending    ReportStatus = "Pending"
	ReportStatusAssigned   ReportStatus = "Assigned"
	ReportStatusInProgress ReportStatus = "In Progress"
	ReportStatusResolved   ReportStatus = "Resolved"
	ReportStatusClosed     ReportStatus = "Closed"
)

// ValidReportStatus reports whether s is one of the enumerated stages.
func ValidReportStatus(s ReportStatus) bool {
	switch s {
	case ReportStatusPending, ReportStatusAssigned, ReportStatusInProgress,
		ReportStatusResolved, ReportStatusClosed:
		return true
	}
	return false
}

// RiskLevel classifies defect severity.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "Low"
	RiskLevelMedium RiskLevel = "Medium"
	RiskLevelHigh   RiskLevel = "High"
)

// ValidRiskLevel reports whether r is one of the enumerated levels.
func ValidRiskLevel(r RiskLevel) bool {
	switch r {
	case RiskLevelLow, RiskLevelMedium, RiskLevelHigh:
		return true
	}
	return false
}

// Comment is one entry in a report's discussion thread.
type Comment struct {
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
}

// Report is a single track-defect observation record.
type Report struct {
	ID          string
	DefectType  string
	Location    string
	ReportDate  time.Time
	RiskLevel   RiskLevel
	Description string
	ImageURL    *string
	Status      ReportStatus
	AssignedTo  *string
	ReportedBy  *string
	DueDate     *time.Time
	Comments    []Comment
}

// ReportStats holds the dashboard counters.
type ReportStats struct {
	Pending  int64
	Resolved int64
	HighRisk int64
}

// ReportPieStats holds the per-status breakdown for the pie chart.
type ReportPieStats struct {
	Pending    int64
	Resolved   int64
	InProgress int64
}
