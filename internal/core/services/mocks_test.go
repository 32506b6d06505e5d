package services_test

import (
	"context"
	"io"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/thetpaing-dev/grant_portal_app/internal/core/domain"
)

// --- Mock ProgramRepository ---

type MockProgramRepository struct {
	mock.Mock
}

func (m *MockProgramRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	return nil, args.Error(1)
}

func (m *MockProgramRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockProgramRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockProgramRepository) SaveProgram(ctx context.Context, program domain.Program, initial domain.StatusChange) error {
	args := m.Called(ctx, program, initial)
	return args.Error(0)
}

func (m *MockProgramRepository) FindProgramByID(ctx context.Context, programID string) (*domain.Program, error) {
	args := m.Called(ctx, programID)
	var program *domain.Program
	if args.Get(0) != nil {
		program = args.Get(0).(*domain.Program)
	}
	return program, args.Error(1)
}

func (m *MockProgramRepository) ListProgramsByOwner(ctx context.Context, ownerUserID string) ([]domain.Program, error) {
	args := m.Called(ctx, ownerUserID)
	var programs []domain.Program
	if args.Get(0) != nil {
		programs = args.Get(0).([]domain.Program)
	}
	return programs, args.Error(1)
}

func (m *MockProgramRepository) ListPrograms(ctx context.Context) ([]domain.Program, error) {
	args := m.Called(ctx)
	var programs []domain.Program
	if args.Get(0) != nil {
		programs = args.Get(0).([]domain.Program)
	}
	return programs, args.Error(1)
}

func (m *MockProgramRepository) FindStatusHistory(ctx context.Context, programID string) ([]domain.StatusChange, error) {
	args := m.Called(ctx, programID)
	var history []domain.StatusChange
	if args.Get(0) != nil {
		history = args.Get(0).([]domain.StatusChange)
	}
	return history, args.Error(1)
}

func (m *MockProgramRepository) UpdateProgramFields(ctx context.Context, program domain.Program) error {
	args := m.Called(ctx, program)
	return args.Error(0)
}

func (m *MockProgramRepository) UpdateProgramStatus(ctx context.Context, programID string, expectedCurrent domain.ProgramStatus, change domain.StatusChange, payment *domain.PaymentDetails) error {
	args := m.Called(ctx, programID, expectedCurrent, change, payment)
	return args.Error(0)
}

func (m *MockProgramRepository) DeleteProgram(ctx context.Context, programID string) error {
	args := m.Called(ctx, programID)
	return args.Error(0)
}

// --- Mock BudgetRepository ---

type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) FindAccountByUser(ctx context.Context, userID string) (*domain.BudgetAccount, error) {
	args := m.Called(ctx, userID)
	var account *domain.BudgetAccount
	if args.Get(0) != nil {
		account = args.Get(0).(*domain.BudgetAccount)
	}
	return account, args.Error(1)
}

func (m *MockBudgetRepository) SumReservedBudget(ctx context.Context, userID string) (decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockBudgetRepository) UpsertTotalBudget(ctx context.Context, account domain.BudgetAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// --- Mock QueryRepository ---

type MockQueryRepository struct {
	mock.Mock
}

func (m *MockQueryRepository) FindQueryByID(ctx context.Context, queryID string) (*domain.Query, error) {
	args := m.Called(ctx, queryID)
	var query *domain.Query
	if args.Get(0) != nil {
		query = args.Get(0).(*domain.Query)
	}
	return query, args.Error(1)
}

func (m *MockQueryRepository) ListQueriesByProgram(ctx context.Context, programID string) ([]domain.Query, error) {
	args := m.Called(ctx, programID)
	var queries []domain.Query
	if args.Get(0) != nil {
		queries = args.Get(0).([]domain.Query)
	}
	return queries, args.Error(1)
}

func (m *MockQueryRepository) CountUnanswered(ctx context.Context, programID string) (int, error) {
	args := m.Called(ctx, programID)
	return args.Int(0), args.Error(1)
}

func (m *MockQueryRepository) CountByProgram(ctx context.Context, programID string) (int, error) {
	args := m.Called(ctx, programID)
	return args.Int(0), args.Error(1)
}

func (m *MockQueryRepository) SaveQuery(ctx context.Context, query domain.Query) error {
	args := m.Called(ctx, query)
	return args.Error(0)
}

func (m *MockQueryRepository) MarkAnswered(ctx context.Context, queryID string, answer string, answeredBy string, answeredAt time.Time) error {
	args := m.Called(ctx, queryID, answer, answeredBy, answeredAt)
	return args.Error(0)
}

// --- Mock RemarkRepository ---

type MockRemarkRepository struct {
	mock.Mock
}

func (m *MockRemarkRepository) SaveRemark(ctx context.Context, remark domain.Remark) error {
	args := m.Called(ctx, remark)
	return args.Error(0)
}

func (m *MockRemarkRepository) ListRemarksByProgram(ctx context.Context, programID string) ([]domain.Remark, error) {
	args := m.Called(ctx, programID)
	var remarks []domain.Remark
	if args.Get(0) != nil {
		remarks = args.Get(0).([]domain.Remark)
	}
	return remarks, args.Error(1)
}

// --- Mock DocumentRepository ---

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error) {
	args := m.Called(ctx, documentID)
	var doc *domain.Document
	if args.Get(0) != nil {
		doc = args.Get(0).(*domain.Document)
	}
	return doc, args.Error(1)
}

func (m *MockDocumentRepository) ListDocumentsByProgram(ctx context.Context, programID string, docType *domain.DocumentType) ([]domain.Document, error) {
	args := m.Called(ctx, programID, docType)
	var docs []domain.Document
	if args.Get(0) != nil {
		docs = args.Get(0).([]domain.Document)
	}
	return docs, args.Error(1)
}

func (m *MockDocumentRepository) FindBySlot(ctx context.Context, programID string, slotName string) (*domain.Document, error) {
	args := m.Called(ctx, programID, slotName)
	var doc *domain.Document
	if args.Get(0) != nil {
		doc = args.Get(0).(*domain.Document)
	}
	return doc, args.Error(1)
}

func (m *MockDocumentRepository) SaveDocument(ctx context.Context, doc domain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) ReplaceSlotDocument(ctx context.Context, doc domain.Document) (*domain.Document, error) {
	args := m.Called(ctx, doc)
	var retired *domain.Document
	if args.Get(0) != nil {
		retired = args.Get(0).(*domain.Document)
	}
	return retired, args.Error(1)
}

func (m *MockDocumentRepository) DeleteDocument(ctx context.Context, documentID string) error {
	args := m.Called(ctx, documentID)
	return args.Error(0)
}

// --- Mock FileStore ---

type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Save(ctx context.Context, storedFilename string, contents io.Reader) error {
	args := m.Called(ctx, storedFilename, contents)
	return args.Error(0)
}

func (m *MockFileStore) Open(ctx context.Context, storedFilename string) (io.ReadCloser, error) {
	args := m.Called(ctx, storedFilename)
	var rc io.ReadCloser
	if args.Get(0) != nil {
		rc = args.Get(0).(io.ReadCloser)
	}
	return rc, args.Error(1)
}

func (m *MockFileStore) Remove(ctx context.Context, storedFilename string) error {
	args := m.Called(ctx, storedFilename)
	return args.Error(0)
}

// --- Mock WorkflowService ---

type MockWorkflowService struct {
	mock.Mock
}

func (m *MockWorkflowService) ChangeStatus(ctx context.Context, programID string, target domain.ProgramStatus, actor domain.Actor, payment *domain.PaymentDetails) (*domain.Program, error) {
	args := m.Called(ctx, programID, target, actor, payment)
	var program *domain.Program
	if args.Get(0) != nil {
		program = args.Get(0).(*domain.Program)
	}
	return program, args.Error(1)
}

func (m *MockWorkflowService) GetStatusHistory(ctx context.Context, programID string, actor domain.Actor) ([]domain.StatusChange, error) {
	args := m.Called(ctx, programID, actor)
	var history []domain.StatusChange
	if args.Get(0) != nil {
		history = args.Get(0).([]domain.StatusChange)
	}
	return history, args.Error(1)
}

// --- Mock BudgetService ---

type MockBudgetService struct {
	mock.Mock
}

func (m *MockBudgetService) SetTotalBudget(ctx context.Context, userID string, amount decimal.Decimal, actor domain.Actor) (*domain.UserBudget, error) {
	args := m.Called(ctx, userID, amount, actor)
	var budget *domain.UserBudget
	if args.Get(0) != nil {
		budget = args.Get(0).(*domain.UserBudget)
	}
	return budget, args.Error(1)
}

func (m *MockBudgetService) GetUserBudget(ctx context.Context, userID string, actor domain.Actor) (*domain.UserBudget, error) {
	args := m.Called(ctx, userID, actor)
	var budget *domain.UserBudget
	if args.Get(0) != nil {
		budget = args.Get(0).(*domain.UserBudget)
	}
	return budget, args.Error(1)
}

func (m *MockBudgetService) CheckReservation(ctx context.Context, userID string, amount decimal.Decimal, enforced bool) error {
	args := m.Called(ctx, userID, amount, enforced)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of portsrepo.UserRepositoryFacade
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshTokenDetails(ctx context.Context, userID string, tokenHash string, expiryTime time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiryTime)
	return args.Error(0)
}

func (m *MockUserRepository) ClearRefreshTokenDetails(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	args := m.Called(ctx, userID, deletedAt, deletedBy)
	return args.Error(0)
}

// --- Shared actors ---

var (
	applicantActor = domain.Actor{UserID: "user-applicant", Role: domain.RoleApplicant}
	officerActor   = domain.Actor{UserID: "user-officer", Role: domain.RoleOfficer}
	adminActor     = domain.Actor{UserID: "user-admin", Role: domain.RoleAdmin}
)
