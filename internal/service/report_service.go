package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/inspection-service/internal/domain"
	"github.com/spec-kit/inspection-service/internal/media"
	"github.com/spec-kit/inspection-service/internal/repository"
	apperrors "github.com/spec-kit/inspection-service/pkg/util"
)

// CleanupQueue accepts media public ids whose remote delete failed, for later
// retry.
type CleanupQueue interface {
	Enqueue(ctx context.Context, publicID string) error
}

// ReportService coordinates the defect report lifecycle.
type ReportService struct {
	reports repository.ReportRepository
	host    media.Host
	cleanup CleanupQueue
	logger  *zap.Logger
	folder  string
}

// ReportDependencies bundles collaborators for the report service.
type ReportDependencies struct {
	ReportRepo repository.ReportRepository
	MediaHost  media.Host
	Cleanup    CleanupQueue
	Logger     *zap.Logger
	Folder     string
}

// ReportCreateInput describes a report creation payload. Optional fields stay
// nil when absent.
type ReportCreateInput struct {
	DefectType  string
	Location    string
	ReportDate  *time.Time
	RiskLevel   domain.RiskLevel
	Description string
	ImageURL    *string
	Status      *domain.ReportStatus
	AssignedTo  *string
	ReportedBy  *string
	DueDate     *time.Time
}

// ReportUpdateInput describes a partial report update.
type ReportUpdateInput struct {
	DefectType  *string
	Location    *string
	ReportDate  *time.Time
	RiskLevel   *domain.RiskLevel
	Description *string
	ImageURL    *string
	Status      *domain.ReportStatus
	AssignedTo  *string
	ReportedBy  *string
	DueDate     *time.Time
}

// CommentInput describes a comment to append.
type CommentInput struct {
	Text      string
	Author    string
	Timestamp *time.Time
}

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	return &ReportService{
		reports: deps.ReportRepo,
		host:    deps.MediaHost,
		cleanup: deps.Cleanup,
		logger:  deps.Logger,
		folder:  deps.Folder,
	}
}

// ListReports returns every report, newest first.
func (s *ReportService) ListReports(ctx context.Context) ([]domain.Report, error) {
	return s.reports.ListAll(ctx)
}

// GetReport fetches a single report by id.
func (s *ReportService) GetReport(ctx context.Context, id string) (*domain.Report, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, mapReportErr(err, id)
	}
	return report, nil
}

// CreateReport validates and stores a new report, applying schema defaults.
func (s *ReportService) CreateReport(ctx context.Context, input ReportCreateInput) (*domain.Report, error) {
	if strings.TrimSpace(input.DefectType) == "" {
		return nil, apperrors.NewValidationError("defectType is required", nil)
	}
	if strings.TrimSpace(input.Location) == "" {
		return nil, apperrors.NewValidationError("location is required", nil)
	}
	if input.RiskLevel == "" {
		return nil, apperrors.NewValidationError("riskLevel is required", nil)
	}
	if !domain.ValidRiskLevel(input.RiskLevel) {
		return nil, apperrors.NewValidationError("invalid riskLevel", map[string]any{"riskLevel": input.RiskLevel})
	}

	status := domain.ReportStatusPending
	if input.Status != nil {
		if !domain.ValidReportStatus(*input.Status) {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *input.Status})
		}
		status = *input.Status
	}

	reportDate := time.Now().UTC()
	if input.ReportDate != nil {
		reportDate = *input.ReportDate
	}

	report := &domain.Report{
		DefectType:  input.DefectType,
		Location:    input.Location,
		ReportDate:  reportDate,
		RiskLevel:   input.RiskLevel,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		Status:      status,
		AssignedTo:  input.AssignedTo,
		ReportedBy:  input.ReportedBy,
		DueDate:     input.DueDate,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// UpdateReport overwrites only the supplied fields.
func (s *ReportService) UpdateReport(ctx context.Context, id string, input ReportUpdateInput) (*domain.Report, error) {
	if input.RiskLevel != nil && !domain.ValidRiskLevel(*input.RiskLevel) {
		return nil, apperrors.NewValidationError("invalid riskLevel", map[string]any{"riskLevel": *input.RiskLevel})
	}
	if input.Status != nil && !domain.ValidReportStatus(*input.Status) {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *input.Status})
	}

	patch := repository.ReportPatch{
		DefectType:  input.DefectType,
		Location:    input.Location,
		ReportDate:  input.ReportDate,
		RiskLevel:   input.RiskLevel,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		Status:      input.Status,
		AssignedTo:  input.AssignedTo,
		ReportedBy:  input.ReportedBy,
		DueDate:     input.DueDate,
	}
	report, err := s.reports.Update(ctx, id, patch)
	if err != nil {
		return nil, mapReportErr(err, id)
	}
	return report, nil
}

// UpdateStatus sets only the workflow stage.
func (s *ReportService) UpdateStatus(ctx context.Context, id string, status domain.ReportStatus) (*domain.Report, error) {
	if !domain.ValidReportStatus(status) {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}
	report, err := s.reports.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, mapReportErr(err, id)
	}
	return report, nil
}

// AddComment appends one comment to the report's thread.
func (s *ReportService) AddComment(ctx context.Context, id string, input CommentInput) (*domain.Report, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, apperrors.NewValidationError("text is required", nil)
	}
	timestamp := time.Now().UTC()
	if input.Timestamp != nil {
		timestamp = *input.Timestamp
	}
	comment := domain.Comment{
		Text:      input.Text,
		Author:    input.Author,
		Timestamp: timestamp,
	}
	report, err := s.reports.AppendComment(ctx, id, comment)
	if err != nil {
		return nil, mapReportErr(err, id)
	}
	return report, nil
}

// DeleteReport removes a report and best-effort deletes its stored image. A
// media host failure never fails the report delete; it is logged and queued
// for retry.
func (s *ReportService) DeleteReport(ctx context.Context, id string) error {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return mapReportErr(err, id)
	}
	if err := s.reports.Delete(ctx, id); err != nil {
		return mapReportErr(err, id)
	}

	if report.ImageURL == nil {
		return nil
	}
	publicID := media.PublicIDFromURL(*report.ImageURL, s.folder)
	if publicID == "" {
		return nil
	}
	if err := s.host.Destroy(ctx, publicID); err != nil {
		s.logger.Error("media cleanup failed",
			zap.String("report_id", id),
			zap.String("public_id", publicID),
			zap.Error(err),
		)
		if s.cleanup != nil {
			if qErr := s.cleanup.Enqueue(ctx, publicID); qErr != nil {
				s.logger.Error("media cleanup enqueue failed",
					zap.String("public_id", publicID), zap.Error(qErr))
			}
		}
	}
	return nil
}

// Stats returns the dashboard counters.
func (s *ReportService) Stats(ctx context.Context) (*domain.ReportStats, error) {
	return s.reports.Stats(ctx)
}

// PieStats returns the per-status breakdown.
func (s *ReportService) PieStats(ctx context.Context) (*domain.ReportPieStats, error) {
	return s.reports.PieStats(ctx)
}

func mapReportErr(err error, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("report", map[string]any{"id": id})
	}
	return err
}
