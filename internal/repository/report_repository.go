package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/inspection-service/internal/domain"
)

// ReportPatch carries the fields of a partial report update. Nil fields are
// left untouched.
type ReportPatch struct {
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

// ReportRepository encapsulates defect report persistence.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	ListAll(ctx context.Context) ([]domain.Report, error)
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	Update(ctx context.Context, id string, patch ReportPatch) (*domain.Report, error)
	UpdateStatus(ctx context.Context, id string, status domain.ReportStatus) (*domain.Report, error)
	AppendComment(ctx context.Context, id string, comment domain.Comment) (*domain.Report, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	Stats(ctx context.Context) (*domain.ReportStats, error)
	PieStats(ctx context.Context) (*domain.ReportPieStats, error)
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository instantiates repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

const reportColumns = `id, defect_type, location, report_date, risk_level, description,
       image_url, status, assigned_to, reported_by, due_date, comments`

func (r *reportRepository) Create(ctx context.Context, report *domain.Report) error {
	const query = `
        INSERT INTO reports (defect_type, location, report_date, risk_level, description, image_url, status, assigned_to, reported_by, due_date)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, comments`
	var comments []byte
	if err := r.pool.QueryRow(ctx, query,
		report.DefectType,
		report.Location,
		report.ReportDate,
		report.RiskLevel,
		report.Description,
		report.ImageURL,
		report.Status,
		report.AssignedTo,
		report.ReportedBy,
		report.DueDate,
	).Scan(&report.ID, &comments); err != nil {
		return err
	}
	return json.Unmarshal(comments, &report.Comments)
}

func (r *reportRepository) ListAll(ctx context.Context) ([]domain.Report, error) {
	query := fmt.Sprintf(`SELECT %s FROM reports ORDER BY report_date DESC`, reportColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReports(rows)
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	query := fmt.Sprintf(`SELECT %s FROM reports WHERE id=$1`, reportColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *reportRepository) Update(ctx context.Context, id string, patch ReportPatch) (*domain.Report, error) {
	sets := []string{}
	args := []any{}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	if patch.DefectType != nil {
		add("defect_type", *patch.DefectType)
	}
	if patch.Location != nil {
		add("location", *patch.Location)
	}
	if patch.ReportDate != nil {
		add("report_date", *patch.ReportDate)
	}
	if patch.RiskLevel != nil {
		add("risk_level", *patch.RiskLevel)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.ImageURL != nil {
		add("image_url", *patch.ImageURL)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.AssignedTo != nil {
		add("assigned_to", *patch.AssignedTo)
	}
	if patch.ReportedBy != nil {
		add("reported_by", *patch.ReportedBy)
	}
	if patch.DueDate != nil {
		add("due_date", *patch.DueDate)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE reports SET %s WHERE id=$%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), reportColumns)
	return r.fetchSingle(ctx, query, args...)
}

func (r *reportRepository) UpdateStatus(ctx context.Context, id string, status domain.ReportStatus) (*domain.Report, error) {
	query := fmt.Sprintf(`UPDATE reports SET status=$1 WHERE id=$2 RETURNING %s`, reportColumns)
	return r.fetchSingle(ctx, query, status, id)
}

func (r *reportRepository) AppendComment(ctx context.Context, id string, comment domain.Comment) (*domain.Report, error) {
	payload, err := json.Marshal([]domain.Comment{comment})
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`UPDATE reports SET comments = comments || $1::jsonb WHERE id=$2 RETURNING %s`, reportColumns)
	return r.fetchSingle(ctx, query, payload, id)
}

func (r *reportRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM reports WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *reportRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM reports`)
	return err
}

func (r *reportRepository) Stats(ctx context.Context) (*domain.ReportStats, error) {
	const query = `
        SELECT COUNT(*) FILTER (WHERE status <> 'Resolved'),
               COUNT(*) FILTER (WHERE status = 'Resolved'),
               COUNT(*) FILTER (WHERE risk_level = 'High')
        FROM reports`
	var stats domain.ReportStats
	if err := r.pool.QueryRow(ctx, query).Scan(&stats.Pending, &stats.Resolved, &stats.HighRisk); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *reportRepository) PieStats(ctx context.Context) (*domain.ReportPieStats, error) {
	const query = `
        SELECT COUNT(*) FILTER (WHERE status = 'Pending'),
               COUNT(*) FILTER (WHERE status = 'Resolved'),
               COUNT(*) FILTER (WHERE status = 'In Progress')
        FROM reports`
	var stats domain.ReportPieStats
	if err := r.pool.QueryRow(ctx, query).Scan(&stats.Pending, &stats.Resolved, &stats.InProgress); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *reportRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Report, error) {
	var report domain.Report
	var comments []byte
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&report.ID,
		&report.DefectType,
		&report.Location,
		&report.ReportDate,
		&report.RiskLevel,
		&report.Description,
		&report.ImageURL,
		&report.Status,
		&report.AssignedTo,
		&report.ReportedBy,
		&report.DueDate,
		&comments,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(comments, &report.Comments); err != nil {
		return nil, err
	}
	return &report, nil
}

func scanReports(rows pgx.Rows) ([]domain.Report, error) {
	var result []domain.Report
	for rows.Next() {
		var report domain.Report
		var comments []byte
		if err := rows.Scan(
			&report.ID,
			&report.DefectType,
			&report.Location,
			&report.ReportDate,
			&report.RiskLevel,
			&report.Description,
			&report.ImageURL,
			&report.Status,
			&report.AssignedTo,
			&report.ReportedBy,
			&report.DueDate,
			&comments,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(comments, &report.Comments); err != nil {
			return nil, err
		}
		result = append(result, report)
	}
	return result, rows.Err()
}
