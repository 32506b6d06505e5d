package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/thetpaing-dev/grant_portal_app/internal/apperrors"
	"github.com/thetpaing-dev/grant_portal_app/internal/core/domain"
	portssvc "github.com/thetpaing-dev/grant_portal_app/internal/core/ports/services"
	"github.com/thetpaing-dev/grant_portal_app/internal/core/services"
)

type QueryServiceTestSuite struct {
	suite.Suite
	mockQueryRepo   *MockQueryRepository
	mockRemarkRepo  *MockRemarkRepository
	mockProgramRepo *MockProgramRepository
	mockWorkflowSvc *MockWorkflowService
	service         portssvc.QuerySvcFacade
}

func (suite *QueryServiceTestSuite) SetupTest() {
	suite.mockQueryRepo = new(MockQueryRepository)
	suite.mockRemarkRepo = new(MockRemarkRepository)
	suite.mockProgramRepo = new(MockProgramRepository)
	suite.mockWorkflowSvc = new(MockWorkflowService)
	suite.service = services.NewQueryService(
		suite.mockQueryRepo,
		suite.mockRemarkRepo,
		suite.mockProgramRepo,
		suite.mockWorkflowSvc,
		services.NewKeyedMutex(),
	)
}

// --- RaiseQuery ---

func (suite *QueryServiceTestSuite) TestRaiseQuery_MovesProgramIntoQueryStatus() {
	ctx := context.Background()
	program := &domain.Program{ProgramID: "prog-1", OwnerUserID: applicantActor.UserID, Status: domain.StatusUnderReview}

	suite.mockProgramRepo.On("FindProgramByID", ctx, "prog-1").Return(program, nil).Once()
	suite.mockQueryRepo.On("CountUnanswered", ctx, "prog-1").Return(0, nil).Once()
	suite.mockQueryRepo.On("SaveQuery", ctx, mock.MatchedBy(func(q domain.Query) bool {
		return q.ProgramID == "prog-1" && q.Question == "Missing receipts?" && q.RaisedBy == officerActor.UserID && !q.Answered
	})).Return(nil).Once()
	suite.mockWorkflowSvc.On("ChangeStatus", ctx, "prog-1", domain.StatusQuery, officerActor, (*domain.PaymentDetails)(nil)).
		Return(&domain.Program{ProgramID: "prog-1", Status: domain.StatusQuery}, nil).Once()

	query, err := suite.service.RaiseQuery(ctx, "prog-1", "Missing receipts?", officerActor)

	suite.Require().NoError(err)
	suite.Equal("prog-1", query.ProgramID)
	suite.mockWorkflowSvc.AssertExpectations(suite.T())
}

func (suite *QueryServiceTestSuite) TestRaiseQuery_AfterAnswerDoesNotRewindStatus() {
	ctx := context.Background()
	program := &domain.Program{ProgramID: "prog-1", OwnerUserID: applicantActor.UserID, Status: domain.StatusQueryAnswered}

	suite.mockProgramRepo.On("FindProgramByID", ctx, "prog-1").Return(program, nil).Once()
	suite.mockQueryRepo.On("CountUnanswered", ctx, "prog-1").Return(0, nil).Once()
	suite.mockQueryRepo.On("SaveQuery", ctx, mock.Anything).Return(nil).Once()

	_, err := suite.service.RaiseQuery(ctx, "prog-1", "One more thing", officerActor)

	suite.Require().NoError(err)
	suite.mockWorkflowSvc.AssertNotCalled(suite.T(), "ChangeStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *QueryServiceTestSuite) TestRaiseQuery_RejectsEmptyQuestion() {
	ctx := context.Background()

	_, err := suite.service.RaiseQuery(ctx, "prog-1", "  ", officerActor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrEmptyQuery)
	suite.mockProgramRepo.AssertNotCalled(suite.T(), "FindProgramByID", mock.Anything, mock.Anything)
}

func (suite *QueryServiceTestSuite) TestRaiseQuery_ApplicantsMayNotRaise() {
	ctx := context.Background()

	_, err := suite.service.RaiseQuery(ctx, "prog-1", "Why?", applicantActor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *QueryServiceTestSuite) TestRaiseQuery_RejectedOutsideReviewStatuses() {
	ctx := context.Background()
	program := &domain.Program{ProgramID: "prog-1", Status: domain.StatusDraft}

	suite.mockProgramRepo.On("FindProgramByID", ctx, "prog-1").Return(program, nil).Once()

	_, err := suite.service.RaiseQuery(ctx, "prog-1", "Why?", officerActor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockQueryRepo.AssertNotCalled(suite.T(), "SaveQuery", mock.Anything, mock.Anything)
}

func (suite *QueryServiceTestSuite) TestRaiseQuery_OnlyOnePendingAtATime() {
	ctx := context.Background()
	program := &domain.Program{ProgramID: "prog-1", Status: domain.StatusQuery}

	suite.mockProgramRepo.On("FindProgramByID", ctx, "prog-1").Return(program, nil).Once()

	_, err := suite.service.RaiseQuery(ctx, "prog-1", "Why?", officerActor)

	// QUERY status itself means a query is outstanding
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *QueryServiceTestSuite) TestRaiseQuery_PendingQueryBlocksSecond() {
	ctx := context.Background()
	program := &domain.Program{ProgramID: "prog-1", Status: domain.StatusUnderReview}

	suite.mockProgramRepo.On("FindProgramByID", ctx, "prog-1").Return(program, nil).Once()
	suite.mockQueryRepo.On("CountUnanswered", ctx, "prog-1").Return(1, nil).Once()

	_, err := suite.service.RaiseQuery(ctx, "prog-1", "Why?", officerActor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrQueryAlreadyPending)
	suite.mockQueryRepo.AssertNotCalled(suite.T(), "SaveQuery", mock.Anything, mock.Anything)
}

// --- AnswerQuery ---

func (suite *QueryServiceTestSuite) TestAnswerQuery_MovesProgramToQueryAnswered() {
	ctx := context.Background()
	query := &domain.Query{QueryID: "query-1", ProgramID: "prog-1", Question: "Missing receipts?"}
	program := &domain.Program{ProgramID: "prog-1", OwnerUserID: applicantActor.UserID, Status: domain.StatusQuery}

	suite.mockQueryRepo.On("FindQueryByID", ctx, "query-1").Return(query, nil).Once()
	suite.mockProgramRepo.On("FindProgramByID", ctx, "prog-1").Return(program, nil).Once()
	suite.mockQueryRepo.On("MarkAnswered", ctx, "query-1", "Attached now", applicantActor.UserID, mock.Anything).
		Return(nil).Once()
	suite.mockWorkflowSvc.On("ChangeStatus", ctx, "prog-1", domain.StatusQueryAnswered, applicantActor, (*domain.PaymentDetails)(nil)).
		Return(&domain.Program{ProgramID: "prog-1", Status: domain.StatusQueryAnswered}, nil).Once()

	answered, err := suite.service.AnswerQuery(ctx, "query-1", "Attached now", applicantActor)

	suite.Require().NoError(err)
	suite.True(answered.Answered)
	suite.Equal("Attached now", answered.Answer)
	suite.Equal(applicantActor.UserID, answered.AnsweredBy)
	suite.NotNil(answered.AnsweredAt)
	suite.mockWorkflowSvc.AssertExpectations(suite.T())
}

func (suite *QueryServiceTestSuite) TestAnswerQuery_RejectsEmptyAnswer() {
	ctx := context.Background()

	_, err := suite.service.AnswerQuery(ctx, "query-1", "", applicantActor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrEmptyAnswer)
}

func (suite *QueryServiceTestSuite) TestAnswerQuery_OtherApplicantForbidden() {
	ctx := context.Background()
	query := &domain.Query{QueryID: "query-1", ProgramID: "prog-1"}
	program := &domain.Program{ProgramID: "prog-1", OwnerUserID: "someone-else", Status: domain.StatusQuery}

	suite.mockQueryRepo.On("FindQueryByID", ctx, "query-1").Return(query, nil).Once()
	suite.mockProgramRepo.On("FindProgramByID", ctx, "prog-1").Return(program, nil).Once()

	_, err := suite.service.AnswerQuery(ctx, "query-1", "Answer", applicantActor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockQueryRepo.AssertNotCalled(suite.T(), "MarkAnswered",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *QueryServiceTestSuite) TestAnswerQuery_AlreadyAnswered() {
	ctx := context.Background()
	query := &domain.Query{QueryID: "query-1", ProgramID: "prog-1"}
	program := &domain.Program{ProgramID: "prog-1", OwnerUserID: applicantActor.UserID, Status: domain.StatusQueryAnswered}

	suite.mockQueryRepo.On("FindQueryByID", ctx, "query-1").Return(query, nil).Once()
	suite.mockProgramRepo.On("FindProgramByID", ctx, "prog-1").Return(program, nil).Once()
	suite.mockQueryRepo.On("MarkAnswered", ctx, "query-1", "Again", applicantActor.UserID, mock.Anything).
		Return(apperrors.ErrAlreadyAnswered).Once()

	_, err := suite.service.AnswerQuery(ctx, "query-1", "Again", applicantActor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAlreadyAnswered)
	suite.mockWorkflowSvc.AssertNotCalled(suite.T(), "ChangeStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *QueryServiceTestSuite) TestAnswerQuery_StaffMayAnswerToo() {
	ctx := context.Background()
	query := &domain.Query{QueryID: "query-1", ProgramID: "prog-1"}
	program := &domain.Program{ProgramID: "prog-1", OwnerUserID: applicantActor.UserID, Status: domain.StatusQuery}

	suite.mockQueryRepo.On("FindQueryByID", ctx, "query-1").Return(query, nil).Once()
	suite.mockProgramRepo.On("FindProgramByID", ctx, "prog-1").Return(program, nil).Once()
	suite.mockQueryRepo.On("MarkAnswered", ctx, "query-1", "Clarified internally", officerActor.UserID, mock.Anything).
		Return(nil).Once()
	suite.mockWorkflowSvc.On("ChangeStatus", ctx, "prog-1", domain.StatusQueryAnswered, officerActor, (*domain.PaymentDetails)(nil)).
		Return(&domain.Program{ProgramID: "prog-1", Status: domain.StatusQueryAnswered}, nil).Once()

	answered, err := suite.service.AnswerQuery(ctx, "query-1", "Clarified internally", officerActor)

	suite.Require().NoError(err)
	suite.Equal(officerActor.UserID, answered.AnsweredBy)
}

// --- Remarks ---

func (suite *QueryServiceTestSuite) TestAddRemark_AnyStatus() {
	ctx := context.Background()
	program := &domain.Program{ProgramID: "prog-1", OwnerUserID: applicantActor.UserID, Status: domain.StatusPaymentCompleted}

	suite.mockProgramRepo.On("FindProgramByID", ctx, "prog-1").Return(program, nil).Once()
	suite.mockRemarkRepo.On("SaveRemark", ctx, mock.MatchedBy(func(r domain.Remark) bool {
		return r.ProgramID == "prog-1" && r.Text == "Looks good" &&
			r.AuthorID == officerActor.UserID && r.AuthorRole == domain.RoleOfficer
	})).Return(nil).Once()

	remark, err := suite.service.AddRemark(ctx, "prog-1", "Looks good", officerActor)

	suite.Require().NoError(err)
	suite.Equal("Looks good", remark.Text)
}

func (suite *QueryServiceTestSuite) TestAddRemark_RejectsEmptyText() {
	ctx := context.Background()

	_, err := suite.service.AddRemark(ctx, "prog-1", " ", officerActor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrEmptyRemark)
}

func (suite *QueryServiceTestSuite) TestAddRemark_OtherApplicantForbidden() {
	ctx := context.Background()
	program := &domain.Program{ProgramID: "prog-1", OwnerUserID: "someone-else"}

	suite.mockProgramRepo.On("FindProgramByID", ctx, "prog-1").Return(program, nil).Once()

	_, err := suite.service.AddRemark(ctx, "prog-1", "Hello", applicantActor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

// --- Listings ---

func (suite *QueryServiceTestSuite) TestListQueries_OwnerMayRead() {
	ctx := context.Background()
	program := &domain.Program{ProgramID: "prog-1", OwnerUserID: applicantActor.UserID}

	suite.mockProgramRepo.On("FindProgramByID", ctx, "prog-1").Return(program, nil).Once()
	suite.mockQueryRepo.On("ListQueriesByProgram", ctx, "prog-1").
		Return([]domain.Query{{QueryID: "query-1"}, {QueryID: "query-2"}}, nil).Once()

	queries, err := suite.service.ListQueries(ctx, "prog-1", applicantActor)

	suite.Require().NoError(err)
	suite.Len(queries, 2)
}

func (suite *QueryServiceTestSuite) TestListRemarks_HiddenFromOtherApplicants() {
	ctx := context.Background()
	program := &domain.Program{ProgramID: "prog-1", OwnerUserID: "someone-else"}

	suite.mockProgramRepo.On("FindProgramByID", ctx, "prog-1").Return(program, nil).Once()

	_, err := suite.service.ListRemarks(ctx, "prog-1", applicantActor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRemarkRepo.AssertNotCalled(suite.T(), "ListRemarksByProgram", mock.Anything, mock.Anything)
}

func TestQueryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(QueryServiceTestSuite))
}
