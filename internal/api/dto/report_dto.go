package dto

import (
	"time"

	"github.com/spec-kit/inspection-service/internal/domain"
)

// CreateReportRequest payload. Optional fields absent from the body take
// schema defaults.
type CreateReportRequest struct {
	DefectType  string               `json:"defectType"`
	Location    string               `json:"location"`
	ReportDate  *time.Time           `json:"reportDate"`
	RiskLevel   domain.RiskLevel     `json:"riskLevel"`
	Description string               `json:"description"`
	ImageURL    *string              `json:"imageUrl"`
	Status      *domain.ReportStatus `json:"status"`
	AssignedTo  *string              `json:"assignedTo"`
	ReportedBy  *string              `json:"reportedBy"`
	DueDate     *time.Time           `json:"dueDate"`
}

// UpdateReportRequest payload; only supplied fields are overwritten.
type UpdateReportRequest struct {
	DefectType  *string              `json:"defectType"`
	Location    *string              `json:"location"`
	ReportDate  *time.Time           `json:"reportDate"`
	RiskLevel   *domain.RiskLevel    `json:"riskLevel"`
	Description *string              `json:"description"`
	ImageURL    *string              `json:"imageUrl"`
	Status      *domain.ReportStatus `json:"status"`
	AssignedTo  *string              `json:"assignedTo"`
	ReportedBy  *string              `json:"reportedBy"`
	DueDate     *time.Time           `json:"dueDate"`
}

// UpdateReportStatusRequest payload.
type UpdateReportStatusRequest struct {
	Status domain.ReportStatus `json:"status"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Text      string     `json:"text"`
	Author    string     `json:"author"`
	Timestamp *time.Time `json:"timestamp"`
}

// CommentResponse is one thread entry.
type CommentResponse struct {
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
}

// ReportResponse is the full report document.
type ReportResponse struct {
	ID          string              `json:"id"`
	DefectType  string              `json:"defectType"`
	Location    string              `json:"location"`
	ReportDate  time.Time           `json:"reportDate"`
	RiskLevel   domain.RiskLevel    `json:"riskLevel"`
	Description string              `json:"description"`
	ImageURL    *string             `json:"imageUrl"`
	Status      domain.ReportStatus `json:"status"`
	AssignedTo  *string             `json:"assignedTo"`
	ReportedBy  *string             `json:"reportedBy"`
	DueDate     *time.Time          `json:"dueDate"`
	Comments    []CommentResponse   `json:"comments"`
}

// ReportStatsResponse is the dashboard counter set.
type ReportStatsResponse struct {
	Pending  int64 `json:"pending"`
	Resolved int64 `json:"resolved"`
	HighRisk int64 `json:"highRisk"`
}

// ReportPieStatsResponse is the pie chart breakdown.
type ReportPieStatsResponse struct {
	Pending    int64 `json:"pending"`
	Resolved   int64 `json:"resolved"`
	InProgress int64 `json:"inprogress"`
}
