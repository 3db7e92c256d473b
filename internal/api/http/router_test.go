package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/inspection-service/internal/api/http/handlers"
	"github.com/spec-kit/inspection-service/internal/config"
	"github.com/spec-kit/inspection-service/internal/domain"
	"github.com/spec-kit/inspection-service/internal/observability"
	"github.com/spec-kit/inspection-service/internal/persistence"
	"github.com/spec-kit/inspection-service/internal/repository"
	"github.com/spec-kit/inspection-service/internal/service"
)

// memReportRepo is an in-memory ReportRepository for wire-level tests.
type memReportRepo struct {
	mu      sync.Mutex
	seq     int
	reports map[string]domain.Report
}

func newMemReportRepo() *memReportRepo {
	return &memReportRepo{reports: map[string]domain.Report{}}
}

func (m *memReportRepo) Create(_ context.Context, report *domain.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	report.ID = "r-" + strconv.Itoa(m.seq)
	if report.Comments == nil {
		report.Comments = []domain.Comment{}
	}
	m.reports[report.ID] = *report
	return nil
}

func (m *memReportRepo) ListAll(_ context.Context) ([]domain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Report, 0, len(m.reports))
	for _, r := range m.reports {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReportDate.After(out[j].ReportDate) })
	return out, nil
}

func (m *memReportRepo) GetByID(_ context.Context, id string) (*domain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &r, nil
}

func (m *memReportRepo) Update(_ context.Context, id string, patch repository.ReportPatch) (*domain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if patch.DefectType != nil {
		r.DefectType = *patch.DefectType
	}
	if patch.Location != nil {
		r.Location = *patch.Location
	}
	if patch.ReportDate != nil {
		r.ReportDate = *patch.ReportDate
	}
	if patch.RiskLevel != nil {
		r.RiskLevel = *patch.RiskLevel
	}
	if patch.Description != nil {
		r.Description = *patch.Description
	}
	if patch.ImageURL != nil {
		r.ImageURL = patch.ImageURL
	}
	if patch.Status != nil {
		r.Status = *patch.Status
	}
	if patch.AssignedTo != nil {
		r.AssignedTo = patch.AssignedTo
	}
	if patch.ReportedBy != nil {
		r.ReportedBy = patch.ReportedBy
	}
	if patch.DueDate != nil {
		r.DueDate = patch.DueDate
	}
	m.reports[id] = r
	return &r, nil
}

func (m *memReportRepo) UpdateStatus(_ context.Context, id string, status domain.ReportStatus) (*domain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	r.Status = status
	m.reports[id] = r
	return &r, nil
}

func (m *memReportRepo) AppendComment(_ context.Context, id string, comment domain.Comment) (*domain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	r.Comments = append(append([]domain.Comment{}, r.Comments...), comment)
	m.reports[id] = r
	return &r, nil
}

func (m *memReportRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reports[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.reports, id)
	return nil
}

func (m *memReportRepo) DeleteAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = map[string]domain.Report{}
	return nil
}

func (m *memReportRepo) Stats(_ context.Context) (*domain.ReportStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &domain.ReportStats{}
	for _, r := range m.reports {
		if r.Status == domain.ReportStatusResolved {
			stats.Resolved++
		} else {
			stats.Pending++
		}
		if r.RiskLevel == domain.RiskLevelHigh {
			stats.HighRisk++
		}
	}
	return stats, nil
}

func (m *memReportRepo) PieStats(_ context.Context) (*domain.ReportPieStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &domain.ReportPieStats{}
	for _, r := range m.reports {
		switch r.Status {
		case domain.ReportStatusPending:
			stats.Pending++
		case domain.ReportStatusResolved:
			stats.Resolved++
		case domain.ReportStatusInProgress:
			stats.InProgress++
		}
	}
	return stats, nil
}

// memUserRepo is an in-memory UserRepository.
type memUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]domain.User{}}
}

func (m *memUserRepo) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	user.ID = "u-" + strconv.Itoa(m.seq)
	user.CreatedAt = time.Now().UTC()
	m.users[user.ID] = *user
	return nil
}

func (m *memUserRepo) ListAll(_ context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *memUserRepo) ListByRole(_ context.Context, role domain.UserRole) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.User{}
	for _, u := range m.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &u, nil
}

func (m *memUserRepo) EmailInUse(_ context.Context, email, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, u := range m.users {
		if u.Email == email && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUserRepo) Update(_ context.Context, id string, patch repository.UserPatch) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if patch.Department != nil {
		u.Department = patch.Department
	}
	if patch.Expertise != nil {
		u.Expertise = *patch.Expertise
	}
	if patch.PhoneNumber != nil {
		u.PhoneNumber = patch.PhoneNumber
	}
	if patch.Avatar != nil {
		u.Avatar = patch.Avatar
	}
	if patch.IsActive != nil {
		u.IsActive = *patch.IsActive
	}
	m.users[id] = u
	return &u, nil
}

func (m *memUserRepo) SetActive(_ context.Context, id string, isActive bool) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	u.IsActive = isActive
	if isActive {
		now := time.Now().UTC()
		u.LastActive = &now
	} else {
		u.LastActive = nil
	}
	m.users[id] = u
	return &u, nil
}

func (m *memUserRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.users, id)
	return nil
}

func (m *memUserRepo) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

// stubHost is a media host that always succeeds.
type stubHost struct{}

func (stubHost) UploadImage(context.Context, io.Reader, string) (string, error) {
	return "https://res.host.com/demo/cgr_track_inspector/new.jpg", nil
}

func (stubHost) UploadBase64(context.Context, string) (string, error) {
	return "https://res.host.com/demo/cgr_track_inspector/new.jpg", nil
}

func (stubHost) Destroy(context.Context, string) error { return nil }

func newTestApp(t *testing.T) (*fiber.App, *memReportRepo, *memUserRepo) {
	t.Helper()
	reportRepo := newMemReportRepo()
	userRepo := newMemUserRepo()
	logger := zap.NewNop()
	mediaCfg := config.MediaConfig{
		Folder:         "cgr_track_inspector",
		MaxWidth:       1200,
		AllowedFormats: []string{"jpg", "jpeg", "png"},
	}

	reportService := service.NewReportService(service.ReportDependencies{
		ReportRepo: reportRepo,
		MediaHost:  stubHost{},
		Logger:     logger,
		Folder:     mediaCfg.Folder,
	})
	userService := service.NewUserService(service.UserDependencies{
		UserRepo:   userRepo,
		BcryptCost: bcrypt.MinCost,
	})
	mediaService := service.NewMediaService(stubHost{}, mediaCfg)
	seedService := service.NewSeedService(reportRepo, userRepo, bcrypt.MinCost, logger)

	app := fiber.New()
	RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)
	RegisterRoutes(app, RouteConfig{
		Health:  handlers.NewHealthHandler("test", "dev", &persistence.Postgres{}, &persistence.Redis{}),
		Reports: handlers.NewReportsHandler(reportService),
		Users:   handlers.NewUsersHandler(userService),
		Uploads: handlers.NewUploadsHandler(mediaService),
		Seed:    handlers.NewSeedHandler(seedService),
	})
	return app, reportRepo, userRepo
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload any) (*http.Response, map[string]any) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	decoded := map[string]any{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 && raw[0] == '{' {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func TestCreateReportScenario(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/reports", map[string]any{
		"defectType": "Rail Crack",
		"location":   "Sector A-12",
		"riskLevel":  "High",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if body["status"] != "Pending" {
		t.Fatalf("expected default status Pending, got %v", body["status"])
	}
	if body["id"] == "" || body["id"] == nil {
		t.Fatal("expected generated id")
	}
	if body["reportDate"] == nil {
		t.Fatal("expected reportDate to be set")
	}
}

func TestListReportsNewestFirst(t *testing.T) {
	app, _, _ := newTestApp(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, offset := range []time.Duration{48 * time.Hour, 0, 24 * time.Hour} {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/reports", map[string]any{
			"defectType": "Defect " + strconv.Itoa(i),
			"location":   "Sector " + strconv.Itoa(i),
			"riskLevel":  "Low",
			"reportDate": base.Add(offset).Format(time.RFC3339),
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create %d failed with %d", i, resp.StatusCode)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/reports", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	raw, _ := io.ReadAll(resp.Body)
	var reports []map[string]any
	if err := json.Unmarshal(raw, &reports); err != nil {
		t.Fatalf("expected plain list body, got %s", raw)
	}
	if len(reports) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(reports))
	}
	var prev time.Time
	for i, r := range reports {
		reportDate, err := time.Parse(time.RFC3339, r["reportDate"].(string))
		if err != nil {
			t.Fatalf("parse reportDate %v: %v", r["reportDate"], err)
		}
		if i > 0 && reportDate.After(prev) {
			t.Fatalf("reports not newest-first: %v after %v", reportDate, prev)
		}
		prev = reportDate
	}
}

func TestReportRoundTripKeepsFields(t *testing.T) {
	app, _, _ := newTestApp(t)

	payload := map[string]any{
		"defectType":  "Rail Crack",
		"location":    "Sector A-12",
		"riskLevel":   "High",
		"description": "transverse crack at the joint",
		"status":      "Assigned",
		"assignedTo":  "Maintenance Crew B",
		"reportedBy":  "Inspector Team 3",
		"imageUrl":    "https://host/cgr_track_inspector/abc123.jpg",
	}
	resp, created := doJSON(t, app, http.MethodPost, "/api/reports", payload)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	resp, fetched := doJSON(t, app, http.MethodGet, "/api/reports/"+created["id"].(string), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	for key, want := range payload {
		if fetched[key] != want {
			t.Fatalf("field %q changed: sent %v, got %v", key, want, fetched[key])
		}
	}
}

func TestStatsRouteNotShadowedByID(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/api/reports/stats", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	for _, key := range []string{"pending", "resolved", "highRisk"} {
		if _, ok := body[key]; !ok {
			t.Fatalf("stats body missing %q: %v", key, body)
		}
	}

	resp, body = doJSON(t, app, http.MethodGet, "/api/reports/stats/pie", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if _, ok := body["inprogress"]; !ok {
		t.Fatalf("pie body missing inprogress: %v", body)
	}
}

func TestResolveMovesStatsCounters(t *testing.T) {
	app, _, _ := newTestApp(t)

	_, created := doJSON(t, app, http.MethodPost, "/api/reports", map[string]any{
		"defectType": "Rail Crack",
		"location":   "Sector A-12",
		"riskLevel":  "High",
	})
	id := created["id"].(string)

	_, before := doJSON(t, app, http.MethodGet, "/api/reports/stats", nil)

	resp, _ := doJSON(t, app, http.MethodPut, "/api/defects/"+id+"/status", map[string]any{
		"status": "Resolved",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	_, after := doJSON(t, app, http.MethodGet, "/api/reports/stats", nil)
	if after["resolved"].(float64) != before["resolved"].(float64)+1 {
		t.Fatalf("resolved not incremented: before %v after %v", before, after)
	}
	if after["pending"].(float64) != before["pending"].(float64)-1 {
		t.Fatalf("pending not decremented: before %v after %v", before, after)
	}
}

func TestGetUnknownReportReturnsMessageEnvelope(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/api/reports/missing", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if body["message"] != "report not found" {
		t.Fatalf("unexpected error body %v", body)
	}
}

func TestDefectAliasRoutes(t *testing.T) {
	app, _, _ := newTestApp(t)

	_, created := doJSON(t, app, http.MethodPost, "/api/defects", map[string]any{
		"defectType": "Weld Defect",
		"location":   "Sector B-01",
		"riskLevel":  "Medium",
	})
	id := created["id"].(string)

	resp, body := doJSON(t, app, http.MethodPost, "/api/defects/"+id+"/comments", map[string]any{
		"text":   "scheduled for grinding",
		"author": "Joseph",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	comments := body["comments"].([]any)
	if len(comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(comments))
	}

	resp, _ = doJSON(t, app, http.MethodGet, "/api/defects/"+id, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 via defects alias, got %d", resp.StatusCode)
	}
}

func TestDuplicateUserEmailReturns400(t *testing.T) {
	app, _, userRepo := newTestApp(t)

	payload := map[string]any{
		"name":     "Joseph Banda",
		"email":    "joseph.banda@example.com",
		"role":     "engineer",
		"password": "secret-pass",
	}
	resp, _ := doJSON(t, app, http.MethodPost, "/api/users", payload)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	resp, body := doJSON(t, app, http.MethodPost, "/api/users", payload)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate email, got %d", resp.StatusCode)
	}
	if body["message"] != "email already in use" {
		t.Fatalf("unexpected error body %v", body)
	}
	count, _ := userRepo.Count(context.Background())
	if count != 1 {
		t.Fatalf("expected user count unchanged at 1, got %d", count)
	}
}

func TestUserResponsesNeverCarryPassword(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/users", map[string]any{
		"name":     "Grace Phiri",
		"email":    "grace.phiri@example.com",
		"role":     "inspector",
		"password": "secret-pass",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if _, ok := body["password"]; ok {
		t.Fatal("password leaked in create response")
	}
	if _, ok := body["passwordHash"]; ok {
		t.Fatal("password hash leaked in create response")
	}
}

func TestMaintenanceEndpointFiltersEngineers(t *testing.T) {
	app, _, _ := newTestApp(t)

	for _, u := range []map[string]any{
		{"name": "A", "email": "a@example.com", "role": "engineer", "password": "x1234567"},
		{"name": "B", "email": "b@example.com", "role": "inspector", "password": "x1234567"},
	} {
		if resp, _ := doJSON(t, app, http.MethodPost, "/api/users", u); resp.StatusCode != http.StatusCreated {
			t.Fatalf("seed user failed with %d", resp.StatusCode)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/users/maintenance", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var users []map[string]any
	if err := json.Unmarshal(raw, &users); err != nil {
		t.Fatalf("expected plain list body, got %s", raw)
	}
	if len(users) != 1 || users[0]["role"] != "engineer" {
		t.Fatalf("expected only engineer accounts, got %s", raw)
	}
}

func TestBase64UploadRequiresPayload(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/upload/base64", map[string]any{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if body["message"] == nil {
		t.Fatalf("expected message envelope, got %v", body)
	}

	resp, body = doJSON(t, app, http.MethodPost, "/api/upload/base64", map[string]any{
		"image": "data:image/png;base64,AAAA",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body["imageUrl"] == "" || body["imageUrl"] == nil {
		t.Fatalf("expected imageUrl, got %v", body)
	}
}

func TestSeedResetsReportsAndSeedsUsersOnce(t *testing.T) {
	app, reportRepo, userRepo := newTestApp(t)

	doJSON(t, app, http.MethodPost, "/api/reports", map[string]any{
		"defectType": "Old", "location": "Old", "riskLevel": "Low",
	})

	resp, body := doJSON(t, app, http.MethodPost, "/api/seed", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body["reports"].(float64) != 5 {
		t.Fatalf("expected 5 fixture reports, got %v", body["reports"])
	}
	if body["users"].(float64) != 3 {
		t.Fatalf("expected 3 fixture users, got %v", body["users"])
	}
	reports, _ := reportRepo.ListAll(context.Background())
	if len(reports) != 5 {
		t.Fatalf("expected exactly fixture reports, got %d", len(reports))
	}

	// Second seed must not duplicate users.
	_, body = doJSON(t, app, http.MethodPost, "/api/seed", nil)
	if body["users"].(float64) != 0 {
		t.Fatalf("expected no new users on reseed, got %v", body["users"])
	}
	count, _ := userRepo.Count(context.Background())
	if count != 3 {
		t.Fatalf("expected 3 users after reseed, got %d", count)
	}
}
