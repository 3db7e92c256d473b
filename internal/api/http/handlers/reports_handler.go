package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/inspection-service/internal/api/dto"
	"github.com/spec-kit/inspection-service/internal/domain"
	"github.com/spec-kit/inspection-service/internal/service"
	apperrors "github.com/spec-kit/inspection-service/pkg/util"
)

// ReportsHandler serves the report endpoints; the /reports/* and /defects/*
// route families both land here.
type ReportsHandler struct {
	service *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{service: reportService}
}

// List GET /api/reports.
func (h *ReportsHandler) List(c *fiber.Ctx) error {
	reports, err := h.service.ListReports(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.ReportResponse, 0, len(reports))
	for i := range reports {
		items = append(items, reportResponse(&reports[i]))
	}
	return c.JSON(items)
}

// Get GET /api/reports/:id.
func (h *ReportsHandler) Get(c *fiber.Ctx) error {
	report, err := h.service.GetReport(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(reportResponse(report))
}

// Create POST /api/reports.
func (h *ReportsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	report, err := h.service.CreateReport(c.UserContext(), service.ReportCreateInput{
		DefectType:  req.DefectType,
		Location:    req.Location,
		ReportDate:  req.ReportDate,
		RiskLevel:   req.RiskLevel,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Status:      req.Status,
		AssignedTo:  req.AssignedTo,
		ReportedBy:  req.ReportedBy,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(reportResponse(report))
}

// Update PUT /api/reports/:id.
func (h *ReportsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	report, err := h.service.UpdateReport(c.UserContext(), c.Params("id"), service.ReportUpdateInput{
		DefectType:  req.DefectType,
		Location:    req.Location,
		ReportDate:  req.ReportDate,
		RiskLevel:   req.RiskLevel,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Status:      req.Status,
		AssignedTo:  req.AssignedTo,
		ReportedBy:  req.ReportedBy,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(reportResponse(report))
}

// UpdateStatus PUT /api/defects/:id/status.
func (h *ReportsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateReportStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	report, err := h.service.UpdateStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(reportResponse(report))
}

// AddComment POST /api/defects/:id/comments.
func (h *ReportsHandler) AddComment(c *fiber.Ctx) error {
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	report, err := h.service.AddComment(c.UserContext(), c.Params("id"), service.CommentInput{
		Text:      req.Text,
		Author:    req.Author,
		Timestamp: req.Timestamp,
	})
	if err != nil {
		return err
	}
	return c.JSON(reportResponse(report))
}

// Delete DELETE /api/reports/:id.
func (h *ReportsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteReport(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "report deleted"})
}

// Stats GET /api/reports/stats.
func (h *ReportsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.ReportStatsResponse{
		Pending:  stats.Pending,
		Resolved: stats.Resolved,
		HighRisk: stats.HighRisk,
	})
}

// PieStats GET /api/reports/stats/pie.
func (h *ReportsHandler) PieStats(c *fiber.Ctx) error {
	stats, err := h.service.PieStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.ReportPieStatsResponse{
		Pending:    stats.Pending,
		Resolved:   stats.Resolved,
		InProgress: stats.InProgress,
	})
}

func reportResponse(report *domain.Report) dto.ReportResponse {
	comments := make([]dto.CommentResponse, 0, len(report.Comments))
	for _, comment := range report.Comments {
		comments = append(comments, dto.CommentResponse{
			Text:      comment.Text,
			Author:    comment.Author,
			Timestamp: comment.Timestamp,
		})
	}
	return dto.ReportResponse{
		ID:          report.ID,
		DefectType:  report.DefectType,
		Location:    report.Location,
		ReportDate:  report.ReportDate,
		RiskLevel:   report.RiskLevel,
		Description: report.Description,
		ImageURL:    report.ImageURL,
		Status:      report.Status,
		AssignedTo:  report.AssignedTo,
		ReportedBy:  report.ReportedBy,
		DueDate:     report.DueDate,
		Comments:    comments,
	}
}
