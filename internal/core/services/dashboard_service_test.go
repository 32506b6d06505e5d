package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/thetpaing-dev/grant_portal_app/internal/apperrors"
	"github.com/thetpaing-dev/grant_portal_app/internal/core/domain"
	portssvc "github.com/thetpaing-dev/grant_portal_app/internal/core/ports/services"
	"github.com/thetpaing-dev/grant_portal_app/internal/core/services"
)

type DashboardServiceTestSuite struct {
	suite.Suite
	mockProgramRepo *MockProgramRepository
	service         portssvc.DashboardSvcFacade
}

func (suite *DashboardServiceTestSuite) SetupTest() {
	suite.mockProgramRepo = new(MockProgramRepository)
	suite.service = services.NewDashboardService(suite.mockProgramRepo)
}

func programAt(id string, status domain.ProgramStatus, createdAt time.Time) domain.Program {
	return domain.Program{
		ProgramID: id,
		Status:    status,
		AuditFields: domain.AuditFields{
			CreatedAt: createdAt,
		},
	}
}

func (suite *DashboardServiceTestSuite) TestSummaryForUser_CountsPartitionTotal() {
	ctx := context.Background()
	base := time.Now()
	programs := []domain.Program{
		programAt("prog-1", domain.StatusPaymentCompleted, base.Add(-1*time.Hour)),
		programAt("prog-2", domain.StatusRejected, base.Add(-2*time.Hour)),
		programAt("prog-3", domain.StatusDraft, base.Add(-3*time.Hour)),
		programAt("prog-4", domain.StatusUnderReview, base.Add(-4*time.Hour)),
		programAt("prog-5", domain.StatusQuery, base.Add(-5*time.Hour)),
		programAt("prog-6", domain.StatusPaymentInProgress, base.Add(-6*time.Hour)),
	}

	suite.mockProgramRepo.On("ListProgramsByOwner", ctx, applicantActor.UserID).Return(programs, nil).Once()

	summary, err := suite.service.SummaryForUser(ctx, applicantActor.UserID, applicantActor)

	suite.Require().NoError(err)
	suite.Equal(6, summary.Total)
	suite.Equal(1, summary.Completed)
	suite.Equal(1, summary.Rejected)
	suite.Equal(4, summary.Pending)
	suite.Equal(summary.Total, summary.Completed+summary.Rejected+summary.Pending)
}

func (suite *DashboardServiceTestSuite) TestSummaryForUser_RecentIsNewestFirstCappedAtFive() {
	ctx := context.Background()
	base := time.Now()
	// stored order is not creation order
	programs := []domain.Program{
		programAt("prog-3", domain.StatusDraft, base.Add(-3*time.Hour)),
		programAt("prog-1", domain.StatusDraft, base.Add(-1*time.Hour)),
		programAt("prog-6", domain.StatusDraft, base.Add(-6*time.Hour)),
		programAt("prog-2", domain.StatusDraft, base.Add(-2*time.Hour)),
		programAt("prog-5", domain.StatusDraft, base.Add(-5*time.Hour)),
		programAt("prog-4", domain.StatusDraft, base.Add(-4*time.Hour)),
		programAt("prog-7", domain.StatusDraft, base.Add(-7*time.Hour)),
	}

	suite.mockProgramRepo.On("ListProgramsByOwner", ctx, applicantActor.UserID).Return(programs, nil).Once()

	summary, err := suite.service.SummaryForUser(ctx, applicantActor.UserID, applicantActor)

	suite.Require().NoError(err)
	suite.Require().Len(summary.Recent, 5)
	for i, want := range []string{"prog-1", "prog-2", "prog-3", "prog-4", "prog-5"} {
		suite.Equal(want, summary.Recent[i].ProgramID)
	}
}

func (suite *DashboardServiceTestSuite) TestSummaryForUser_EmptySet() {
	ctx := context.Background()

	suite.mockProgramRepo.On("ListProgramsByOwner", ctx, applicantActor.UserID).Return([]domain.Program{}, nil).Once()

	summary, err := suite.service.SummaryForUser(ctx, applicantActor.UserID, applicantActor)

	suite.Require().NoError(err)
	suite.Equal(0, summary.Total)
	suite.Empty(summary.Recent)
}

func (suite *DashboardServiceTestSuite) TestSummaryForUser_HiddenFromOtherApplicants() {
	ctx := context.Background()

	_, err := suite.service.SummaryForUser(ctx, "someone-else", applicantActor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *DashboardServiceTestSuite) TestSummaryForUser_StaffMayViewAnyUser() {
	ctx := context.Background()

	suite.mockProgramRepo.On("ListProgramsByOwner", ctx, applicantActor.UserID).Return([]domain.Program{}, nil).Once()

	_, err := suite.service.SummaryForUser(ctx, applicantActor.UserID, officerActor)

	suite.Require().NoError(err)
}

func (suite *DashboardServiceTestSuite) TestSummaryAll_StaffOnly() {
	ctx := context.Background()
	base := time.Now()
	programs := []domain.Program{
		programAt("prog-1", domain.StatusPaymentCompleted, base),
		programAt("prog-2", domain.StatusUnderReviewByMMK, base),
	}

	suite.mockProgramRepo.On("ListPrograms", ctx).Return(programs, nil).Once()

	summary, err := suite.service.SummaryAll(ctx, adminActor)
	suite.Require().NoError(err)
	suite.Equal(2, summary.Total)
	suite.Equal(1, summary.Completed)
	suite.Equal(1, summary.Pending)

	_, err = suite.service.SummaryAll(ctx, applicantActor)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func TestDashboardServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DashboardServiceTestSuite))
}
