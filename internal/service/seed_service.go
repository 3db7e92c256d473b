package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/inspection-service/internal/auth"
	"github.com/spec-kit/inspection-service/internal/domain"
	"github.com/spec-kit/inspection-service/internal/repository"
)

// SeedService resets the report collection with fixtures. Development aid
// only; destructive on reports.
type SeedService struct {
	reports    repository.ReportRepository
	users      repository.UserRepository
	bcryptCost int
	logger     *zap.Logger
}

// NewSeedService constructs the service.
func NewSeedService(reports repository.ReportRepository, users repository.UserRepository, bcryptCost int, logger *zap.Logger) *SeedService {
	return &SeedService{reports: reports, users: users, bcryptCost: bcryptCost, logger: logger}
}

// SeedResult summarizes what was inserted.
type SeedResult struct {
	Reports int
	Users   int
}

// Seed clears all reports and inserts the fixture set. Fixture users are
// inserted only when the user collection is empty.
func (s *SeedService) Seed(ctx context.Context) (*SeedResult, error) {
	if err := s.reports.DeleteAll(ctx); err != nil {
		return nil, err
	}

	reports := sampleReports()
	for i := range reports {
		if err := s.reports.Create(ctx, &reports[i]); err != nil {
			return nil, err
		}
	}
	result := &SeedResult{Reports: len(reports)}

	count, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		users, err := s.sampleUsers()
		if err != nil {
			return nil, err
		}
		for i := range users {
			if err := s.users.Create(ctx, &users[i]); err != nil {
				return nil, err
			}
		}
		result.Users = len(users)
	}

	s.logger.Info("seeded fixtures",
		zap.Int("reports", result.Reports), zap.Int("users", result.Users))
	return result, nil
}

func sampleReports() []domain.Report {
	now := time.Now().UTC()
	inspector := "Inspector Team 3"
	crew := "Maintenance Crew B"
	due := now.Add(72 * time.Hour)
	return []domain.Report{
		{
			DefectType:  "Rail Crack",
			Location:    "Sector A-12, KM 48.3",
			ReportDate:  now.Add(-96 * time.Hour),
			RiskLevel:   domain.RiskLevelHigh,
			Description: "Transverse crack on the inner rail head, visible at surface level.",
			Status:      domain.ReportStatusPending,
			ReportedBy:  &inspector,
		},
		{
			DefectType:  "Loose Fastening",
			Location:    "Sector B-04, KM 12.7",
			ReportDate:  now.Add(-72 * time.Hour),
			RiskLevel:   domain.RiskLevelMedium,
			Description: "Several clips missing over a 15m stretch.",
			Status:      domain.ReportStatusAssigned,
			AssignedTo:  &crew,
			DueDate:     &due,
		},
		{
			DefectType:  "Ballast Degradation",
			Location:    "Sector C-09, KM 71.1",
			ReportDate:  now.Add(-48 * time.Hour),
			RiskLevel:   domain.RiskLevelLow,
			Description: "Fouled ballast with poor drainage after heavy rain.",
			Status:      domain.ReportStatusInProgress,
			AssignedTo:  &crew,
		},
		{
			DefectType:  "Weld Defect",
			Location:    "Sector A-03, KM 5.9",
			ReportDate:  now.Add(-24 * time.Hour),
			RiskLevel:   domain.RiskLevelHigh,
			Description: "Misaligned thermite weld causing wheel impact noise.",
			Status:      domain.ReportStatusPending,
			ReportedBy:  &inspector,
		},
		{
			DefectType:  "Sleeper Damage",
			Location:    "Sector D-17, KM 33.4",
			ReportDate:  now.Add(-12 * time.Hour),
			RiskLevel:   domain.RiskLevelMedium,
			Description: "Two cracked concrete sleepers under the joint.",
			Status:      domain.ReportStatusResolved,
		},
	}
}

func (s *SeedService) sampleUsers() ([]domain.User, error) {
	hash, err := auth.HashPassword("changeme123", s.bcryptCost)
	if err != nil {
		return nil, err
	}
	ops := "Operations"
	maint := "Maintenance"
	return []domain.User{
		{
			Name:         "Amina Diallo",
			Email:        "amina.diallo@example.com",
			Role:         domain.RoleAdmin,
			Department:   &ops,
			Expertise:    []string{"planning"},
			IsActive:     true,
			PasswordHash: hash,
		},
		{
			Name:         "Joseph Banda",
			Email:        "joseph.banda@example.com",
			Role:         domain.RoleEngineer,
			Department:   &maint,
			Expertise:    []string{"welding", "track geometry"},
			IsActive:     true,
			PasswordHash: hash,
		},
		{
			Name:         "Grace Phiri",
			Email:        "grace.phiri@example.com",
			Role:         domain.RoleInspector,
			Department:   &ops,
			Expertise:    []string{"ultrasonic testing"},
			IsActive:     true,
			PasswordHash: hash,
		},
	}, nil
}
