package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/thetpaing-dev/grant_portal_app/internal/apperrors"
	"github.com/thetpaing-dev/grant_portal_app/internal/core/domain"
	portssvc "github.com/thetpaing-dev/grant_portal_app/internal/core/ports/services"
	"github.com/thetpaing-dev/grant_portal_app/internal/core/services"
	"github.com/thetpaing-dev/grant_portal_app/internal/dto"
)

type ProgramServiceTestSuite struct {
	suite.Suite
	mockProgramRepo *MockProgramRepository
	mockBudgetSvc   *MockBudgetService
	service         portssvc.ProgramSvcFacade
}

func (suite *ProgramServiceTestSuite) SetupTest() {
	suite.mockProgramRepo = new(MockProgramRepository)
	suite.mockBudgetSvc = new(MockBudgetService)
	suite.service = services.NewProgramService(suite.mockProgramRepo, suite.mockBudgetSvc, services.NewKeyedMutex())
}

func validCreateRequest() dto.CreateProgramRequest {
	return dto.CreateProgramRequest{
		Name:      "Community Health Grant",
		Budget:    decimal.NewFromInt(500),
		Recipient: "Village Clinic",
	}
}

// --- CreateProgram ---

func (suite *ProgramServiceTestSuite) TestCreateProgram_ApplicantSuccess() {
	ctx := context.Background()
	req := validCreateRequest()

	suite.mockBudgetSvc.On("CheckReservation", ctx, applicantActor.UserID, req.Budget, true).Return(nil).Once()
	suite.mockProgramRepo.On("SaveProgram", ctx,
		mock.MatchedBy(func(p domain.Program) bool {
			return p.OwnerUserID == applicantActor.UserID &&
				p.Status == domain.StatusDraft &&
				p.Budget.Equal(req.Budget) &&
				p.ProgramID != ""
		}),
		mock.MatchedBy(func(c domain.StatusChange) bool {
			return c.Status == domain.StatusDraft && c.ChangedBy == applicantActor.UserID
		}),
	).Return(nil).Once()

	program, err := suite.service.CreateProgram(ctx, req, applicantActor)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusDraft, program.Status)
	suite.Equal(applicantActor.UserID, program.OwnerUserID)
	suite.mockProgramRepo.AssertExpectations(suite.T())
	suite.mockBudgetSvc.AssertExpectations(suite.T())
}

func (suite *ProgramServiceTestSuite) TestCreateProgram_RejectsNonPositiveBudget() {
	ctx := context.Background()
	req := validCreateRequest()
	req.Budget = decimal.Zero

	_, err := suite.service.CreateProgram(ctx, req, applicantActor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)
	suite.mockProgramRepo.AssertNotCalled(suite.T(), "SaveProgram", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ProgramServiceTestSuite) TestCreateProgram_RejectsBlankName() {
	ctx := context.Background()
	req := validCreateRequest()
	req.Name = "   "

	_, err := suite.service.CreateProgram(ctx, req, applicantActor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ProgramServiceTestSuite) TestCreateProgram_InsufficientBudget() {
	ctx := context.Background()
	req := validCreateRequest()

	suite.mockBudgetSvc.On("CheckReservation", ctx, applicantActor.UserID, req.Budget, true).
		Return(apperrors.ErrInsufficientBudget).Once()

	_, err := suite.service.CreateProgram(ctx, req, applicantActor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientBudget)
	suite.mockProgramRepo.AssertNotCalled(suite.T(), "SaveProgram", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ProgramServiceTestSuite) TestCreateProgram_ApplicantMayNotCreateForOthers() {
	ctx := context.Background()
	req := validCreateRequest()
	req.OwnerUserID = "someone-else"

	_, err := suite.service.CreateProgram(ctx, req, applicantActor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *ProgramServiceTestSuite) TestCreateProgram_StaffRequiresExplicitOwner() {
	ctx := context.Background()
	req := validCreateRequest()

	_, err := suite.service.CreateProgram(ctx, req, officerActor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ProgramServiceTestSuite) TestCreateProgram_StaffBypassesBudgetCheck() {
	ctx := context.Background()
	req := validCreateRequest()
	req.OwnerUserID = applicantActor.UserID

	// enforced=false: the staff-created program is recorded even when the
	// owner's remaining budget would not cover it.
	suite.mockBudgetSvc.On("CheckReservation", ctx, applicantActor.UserID, req.Budget, false).Return(nil).Once()
	suite.mockProgramRepo.On("SaveProgram", ctx, mock.MatchedBy(func(p domain.Program) bool {
		return p.OwnerUserID == applicantActor.UserID && p.CreatedBy == officerActor.UserID
	}), mock.Anything).Return(nil).Once()

	program, err := suite.service.CreateProgram(ctx, req, officerActor)

	suite.Require().NoError(err)
	suite.Equal(applicantActor.UserID, program.OwnerUserID)
	suite.mockBudgetSvc.AssertExpectations(suite.T())
}

func (suite *ProgramServiceTestSuite) TestCreateProgram_StaffEnforcementOption() {
	ctx := context.Background()
	req := validCreateRequest()
	req.OwnerUserID = applicantActor.UserID

	suite.service = services.NewProgramService(suite.mockProgramRepo, suite.mockBudgetSvc,
		services.NewKeyedMutex(), services.WithStaffBudgetEnforcement(true))

	suite.mockBudgetSvc.On("CheckReservation", ctx, applicantActor.UserID, req.Budget, true).
		Return(apperrors.ErrInsufficientBudget).Once()

	_, err := suite.service.CreateProgram(ctx, req, officerActor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientBudget)
}

// --- Reads ---

func (suite *ProgramServiceTestSuite) TestGetProgramByID_OwnerAndStaffMayRead() {
	ctx := context.Background()
	program := &domain.Program{ProgramID: "prog-1", OwnerUserID: applicantActor.UserID, Status: domain.StatusDraft}

	suite.mockProgramRepo.On("FindProgramByID", ctx, "prog-1").Return(program, nil).Twice()

	got, err := suite.service.GetProgramByID(ctx, "prog-1", applicantActor)
	suite.Require().NoError(err)
	suite.Equal("prog-1", got.ProgramID)

	_, err = suite.service.GetProgramByID(ctx, "prog-1", officerActor)
	suite.Require().NoError(err)
}

func (suite *ProgramServiceTestSuite) TestGetProgramByID_HiddenFromOtherApplicants() {
	ctx := context.Background()
	program := &domain.Program{ProgramID: "prog-1", OwnerUserID: "someone-else"}

	suite.mockProgramRepo.On("FindProgramByID", ctx, "prog-1").Return(program, nil).Once()

	_, err := suite.service.GetProgramByID(ctx, "prog-1", applicantActor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *ProgramServiceTestSuite) TestListProgramsByUser_SelfOnly() {
	ctx := context.Background()

	suite.mockProgramRepo.On("ListProgramsByOwner", ctx, applicantActor.UserID).
		Return([]domain.Program{{ProgramID: "prog-1"}}, nil).Once()

	programs, err := suite.service.ListProgramsByUser(ctx, applicantActor.UserID, applicantActor)
	suite.Require().NoError(err)
	suite.Len(programs, 1)

	_, err = suite.service.ListProgramsByUser(ctx, "someone-else", applicantActor)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *ProgramServiceTestSuite) TestListAllPrograms_StaffOnly() {
	ctx := context.Background()

	suite.mockProgramRepo.On("ListPrograms", ctx).Return([]domain.Program{{ProgramID: "prog-1"}, {ProgramID: "prog-2"}}, nil).Once()

	programs, err := suite.service.ListAllPrograms(ctx, adminActor)
	suite.Require().NoError(err)
	suite.Len(programs, 2)

	_, err = suite.service.ListAllPrograms(ctx, applicantActor)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

// --- UpdateProgramFields ---

func (suite *ProgramServiceTestSuite) TestUpdateProgramFields_ApplicantEditsOwnDraft() {
	ctx := context.Background()
	program := &domain.Program{
		ProgramID:   "prog-1",
		Name:        "Old Name",
		Budget:      decimal.NewFromInt(500),
		OwnerUserID: applicantActor.UserID,
		Status:      domain.StatusDraft,
	}
	newName := "New Name"

	suite.mockProgramRepo.On("FindProgramByID", ctx, "prog-1").Return(program, nil).Once()
	suite.mockProgramRepo.On("UpdateProgramFields", ctx, mock.MatchedBy(func(p domain.Program) bool {
		return p.Name == newName && p.Budget.Equal(decimal.NewFromInt(500))
	})).Return(nil).Once()

	updated, err := suite.service.UpdateProgramFields(ctx, "prog-1", dto.UpdateProgramRequest{Name: &newName}, applicantActor)

	suite.Require().NoError(err)
	suite.Equal(newName, updated.Name)
}

func (suite *ProgramServiceTestSuite) TestUpdateProgramFields_ApplicantMayNotEditSubmitted() {
	ctx := context.Background()
	program := &domain.Program{ProgramID: "prog-1", OwnerUserID: applicantActor.UserID, Status: domain.StatusUnderReview}
	newName := "New Name"

	suite.mockProgramRepo.On("FindProgramByID", ctx, "prog-1").Return(program, nil).Once()

	_, err := suite.service.UpdateProgramFields(ctx, "prog-1", dto.UpdateProgramRequest{Name: &newName}, applicantActor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockProgramRepo.AssertNotCalled(suite.T(), "UpdateProgramFields", mock.Anything, mock.Anything)
}

func (suite *ProgramServiceTestSuite) TestUpdateProgramFields_BudgetLockedAfterDraft() {
	ctx := context.Background()
	program := &domain.Program{ProgramID: "prog-1", OwnerUserID: applicantActor.UserID, Status: domain.StatusUnderReview, Budget: decimal.NewFromInt(500)}
	newBudget := decimal.NewFromInt(900)

	suite.mockProgramRepo.On("FindProgramByID", ctx, "prog-1").Return(program, nil).Once()

	_, err := suite.service.UpdateProgramFields(ctx, "prog-1", dto.UpdateProgramRequest{Budget: &newBudget}, officerActor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ProgramServiceTestSuite) TestUpdateProgramFields_BudgetIncreaseRechecksReservation() {
	ctx := context.Background()
	program := &domain.Program{ProgramID: "prog-1", OwnerUserID: applicantActor.UserID, Status: domain.StatusDraft, Budget: decimal.NewFromInt(500)}
	newBudget := decimal.NewFromInt(800)

	suite.mockProgramRepo.On("FindProgramByID", ctx, "prog-1").Return(program, nil).Once()
	// only the delta needs headroom
	suite.mockBudgetSvc.On("CheckReservation", ctx, applicantActor.UserID, decimal.NewFromInt(300), true).
		Return(apperrors.ErrInsufficientBudget).Once()

	_, err := suite.service.UpdateProgramFields(ctx, "prog-1", dto.UpdateProgramRequest{Budget: &newBudget}, applicantActor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientBudget)
	suite.mockProgramRepo.AssertNotCalled(suite.T(), "UpdateProgramFields", mock.Anything, mock.Anything)
}

func (suite *ProgramServiceTestSuite) TestUpdateProgramFields_BudgetDecreaseSkipsCheck() {
	ctx := context.Background()
	program := &domain.Program{ProgramID: "prog-1", OwnerUserID: applicantActor.UserID, Status: domain.StatusDraft, Budget: decimal.NewFromInt(500)}
	newBudget := decimal.NewFromInt(200)

	suite.mockProgramRepo.On("FindProgramByID", ctx, "prog-1").Return(program, nil).Once()
	suite.mockProgramRepo.On("UpdateProgramFields", ctx, mock.MatchedBy(func(p domain.Program) bool {
		return p.Budget.Equal(newBudget)
	})).Return(nil).Once()

	updated, err := suite.service.UpdateProgramFields(ctx, "prog-1", dto.UpdateProgramRequest{Budget: &newBudget}, applicantActor)

	suite.Require().NoError(err)
	suite.True(updated.Budget.Equal(newBudget))
	suite.mockBudgetSvc.AssertNotCalled(suite.T(), "CheckReservation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ProgramServiceTestSuite) TestUpdateProgramFields_TerminalProgramIsFrozen() {
	ctx := context.Background()
	program := &domain.Program{ProgramID: "prog-1", OwnerUserID: applicantActor.UserID, Status: domain.StatusRejected}
	newName := "New Name"

	suite.mockProgramRepo.On("FindProgramByID", ctx, "prog-1").Return(program, nil).Once()

	_, err := suite.service.UpdateProgramFields(ctx, "prog-1", dto.UpdateProgramRequest{Name: &newName}, adminActor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- DeleteProgram ---

func (suite *ProgramServiceTestSuite) TestDeleteProgram_ApplicantWithdrawsOwnDraft() {
	ctx := context.Background()
	program := &domain.Program{ProgramID: "prog-1", OwnerUserID: applicantActor.UserID, Status: domain.StatusDraft}

	suite.mockProgramRepo.On("FindProgramByID", ctx, "prog-1").Return(program, nil).Once()
	suite.mockProgramRepo.On("DeleteProgram", ctx, "prog-1").Return(nil).Once()

	err := suite.service.DeleteProgram(ctx, "prog-1", applicantActor)

	suite.Require().NoError(err)
	suite.mockProgramRepo.AssertExpectations(suite.T())
}

func (suite *ProgramServiceTestSuite) TestDeleteProgram_ApplicantCannotWithdrawLate() {
	ctx := context.Background()
	program := &domain.Program{ProgramID: "prog-1", OwnerUserID: applicantActor.UserID, Status: domain.StatusCompleteCanSendToMMK}

	suite.mockProgramRepo.On("FindProgramByID", ctx, "prog-1").Return(program, nil).Once()

	err := suite.service.DeleteProgram(ctx, "prog-1", applicantActor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockProgramRepo.AssertNotCalled(suite.T(), "DeleteProgram", mock.Anything, mock.Anything)
}

func (suite *ProgramServiceTestSuite) TestDeleteProgram_OfficerMayNotDelete() {
	ctx := context.Background()
	program := &domain.Program{ProgramID: "prog-1", OwnerUserID: applicantActor.UserID, Status: domain.StatusDraft}

	suite.mockProgramRepo.On("FindProgramByID", ctx, "prog-1").Return(program, nil).Once()

	err := suite.service.DeleteProgram(ctx, "prog-1", officerActor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *ProgramServiceTestSuite) TestDeleteProgram_AdminMayDeleteAnything() {
	ctx := context.Background()
	program := &domain.Program{ProgramID: "prog-1", OwnerUserID: applicantActor.UserID, Status: domain.StatusPaymentCompleted}

	suite.mockProgramRepo.On("FindProgramByID", ctx, "prog-1").Return(program, nil).Once()
	suite.mockProgramRepo.On("DeleteProgram", ctx, "prog-1").Return(nil).Once()

	err := suite.service.DeleteProgram(ctx, "prog-1", adminActor)

	suite.Require().NoError(err)
}

func TestProgramServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProgramServiceTestSuite))
}
