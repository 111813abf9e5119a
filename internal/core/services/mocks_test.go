package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/avec_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Shared helpers ---

func txFrom(args mock.Arguments) pgx.Tx {
	if v := args.Get(0); v != nil {
		return v.(pgx.Tx)
	}
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// expectTx sets up Begin/Commit on m and tolerates the deferred Rollback.
func expectTx(m *mock.Mock, commit bool) {
	m.On("Begin", mock.Anything).Return(nil, nil).Once()
	if commit {
		m.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	}
	m.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
}

// --- Mock TransactionManager ---

type mockTxManager struct {
	mock.Mock
}

func (m *mockTxManager) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	return txFrom(args), args.Error(1)
}

func (m *mockTxManager) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *mockTxManager) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock CycleRepository ---

type MockCycleRepository struct {
	mockTxManager
}

func (m *MockCycleRepository) FindCycleByID(ctx context.Context, cycleID int64) (*domain.Cycle, error) {
	args := m.Called(ctx, cycleID)
	var cycle *domain.Cycle
	if args.Get(0) != nil {
		cycle = args.Get(0).(*domain.Cycle)
	}
	return cycle, args.Error(1)
}

func (m *MockCycleRepository) ListCycles(ctx context.Context, filter domain.CycleFilter) ([]domain.Cycle, error) {
	args := m.Called(ctx, filter)
	var cycles []domain.Cycle
	if args.Get(0) != nil {
		cycles = args.Get(0).([]domain.Cycle)
	}
	return cycles, args.Error(1)
}

func (m *MockCycleRepository) ListCyclesEndingBetween(ctx context.Context, from, to time.Time) ([]domain.Cycle, error) {
	args := m.Called(ctx, from, to)
	var cycles []domain.Cycle
	if args.Get(0) != nil {
		cycles = args.Get(0).([]domain.Cycle)
	}
	return cycles, args.Error(1)
}

func (m *MockCycleRepository) SaveCycle(ctx context.Context, tx pgx.Tx, cycle domain.Cycle) (*domain.Cycle, error) {
	args := m.Called(ctx, tx, cycle)
	var saved *domain.Cycle
	if args.Get(0) != nil {
		saved = args.Get(0).(*domain.Cycle)
	}
	return saved, args.Error(1)
}

func (m *MockCycleRepository) FindCycleByIDForUpdate(ctx context.Context, tx pgx.Tx, cycleID int64) (*domain.Cycle, error) {
	args := m.Called(ctx, tx, cycleID)
	var cycle *domain.Cycle
	if args.Get(0) != nil {
		cycle = args.Get(0).(*domain.Cycle)
	}
	return cycle, args.Error(1)
}

func (m *MockCycleRepository) UpdateCycle(ctx context.Context, tx pgx.Tx, cycle domain.Cycle) error {
	args := m.Called(ctx, tx, cycle)
	return args.Error(0)
}

func (m *MockCycleRepository) DeleteCycle(ctx context.Context, tx pgx.Tx, cycleID int64) error {
	args := m.Called(ctx, tx, cycleID)
	return args.Error(0)
}

func (m *MockCycleRepository) CountActiveGroups(ctx context.Context, tx pgx.Tx, cycleID int64) (int, error) {
	args := m.Called(ctx, tx, cycleID)
	return args.Int(0), args.Error(1)
}

// --- Mock GroupRepository ---

type MockGroupRepository struct {
	mockTxManager
}

func (m *MockGroupRepository) FindGroupByID(ctx context.Context, groupID int64) (*domain.Group, error) {
	args := m.Called(ctx, groupID)
	var group *domain.Group
	if args.Get(0) != nil {
		group = args.Get(0).(*domain.Group)
	}
	return group, args.Error(1)
}

func (m *MockGroupRepository) ListGroups(ctx context.Context, filter domain.GroupFilter) ([]domain.Group, error) {
	args := m.Called(ctx, filter)
	var groups []domain.Group
	if args.Get(0) != nil {
		groups = args.Get(0).([]domain.Group)
	}
	return groups, args.Error(1)
}

func (m *MockGroupRepository) SaveGroup(ctx context.Context, tx pgx.Tx, group domain.Group) (*domain.Group, error) {
	args := m.Called(ctx, tx, group)
	var saved *domain.Group
	if args.Get(0) != nil {
		saved = args.Get(0).(*domain.Group)
	}
	return saved, args.Error(1)
}

func (m *MockGroupRepository) FindGroupByIDForUpdate(ctx context.Context, tx pgx.Tx, groupID int64) (*domain.Group, error) {
	args := m.Called(ctx, tx, groupID)
	var group *domain.Group
	if args.Get(0) != nil {
		group = args.Get(0).(*domain.Group)
	}
	return group, args.Error(1)
}

func (m *MockGroupRepository) UpdateGroup(ctx context.Context, tx pgx.Tx, group domain.Group) error {
	args := m.Called(ctx, tx, group)
	return args.Error(0)
}

func (m *MockGroupRepository) DeleteGroup(ctx context.Context, tx pgx.Tx, groupID int64) error {
	args := m.Called(ctx, tx, groupID)
	return args.Error(0)
}

func (m *MockGroupRepository) FindMembership(ctx context.Context, tx pgx.Tx, groupID, userID int64) (*domain.Membership, error) {
	args := m.Called(ctx, tx, groupID, userID)
	var membership *domain.Membership
	if args.Get(0) != nil {
		membership = args.Get(0).(*domain.Membership)
	}
	return membership, args.Error(1)
}

func (m *MockGroupRepository) ListMembers(ctx context.Context, groupID int64) ([]domain.Membership, error) {
	args := m.Called(ctx, groupID)
	var members []domain.Membership
	if args.Get(0) != nil {
		members = args.Get(0).([]domain.Membership)
	}
	return members, args.Error(1)
}

func (m *MockGroupRepository) SaveMembership(ctx context.Context, tx pgx.Tx, membership domain.Membership) (*domain.Membership, error) {
	args := m.Called(ctx, tx, membership)
	var saved *domain.Membership
	if args.Get(0) != nil {
		saved = args.Get(0).(*domain.Membership)
	}
	return saved, args.Error(1)
}

func (m *MockGroupRepository) DeleteMembership(ctx context.Context, tx pgx.Tx, groupID, userID int64) error {
	args := m.Called(ctx, tx, groupID, userID)
	return args.Error(0)
}

func (m *MockGroupRepository) SetCommitteeRole(ctx context.Context, tx pgx.Tx, groupID int64, role domain.CommitteeRole, userID int64) error {
	args := m.Called(ctx, tx, groupID, role, userID)
	return args.Error(0)
}

// --- Mock TransactionRepository ---

type MockTransactionRepository struct {
	mockTxManager
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	var txn *domain.Transaction
	if args.Get(0) != nil {
		txn = args.Get(0).(*domain.Transaction)
	}
	return txn, args.Error(1)
}

func (m *MockTransactionRepository) ListGroupTransactions(ctx context.Context, groupID int64, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	args := m.Called(ctx, groupID, filter)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	return txns, args.Error(1)
}

func (m *MockTransactionRepository) ListSharePurchases(ctx context.Context, tx pgx.Tx, groupID int64) ([]domain.Transaction, error) {
	args := m.Called(ctx, tx, groupID)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	return txns, args.Error(1)
}

func (m *MockTransactionRepository) ListMemberTransactions(ctx context.Context, groupID, userID int64) ([]domain.Transaction, error) {
	args := m.Called(ctx, groupID, userID)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	return txns, args.Error(1)
}

func (m *MockTransactionRepository) ListOverdueTransactions(ctx context.Context, now time.Time, limit int) ([]domain.Transaction, error) {
	args := m.Called(ctx, now, limit)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	return txns, args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, tx pgx.Tx, txn domain.Transaction) (*domain.Transaction, error) {
	args := m.Called(ctx, tx, txn)
	var saved *domain.Transaction
	if args.Get(0) != nil {
		saved = args.Get(0).(*domain.Transaction)
	}
	return saved, args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionByIDForUpdate(ctx context.Context, tx pgx.Tx, transactionID int64) (*domain.Transaction, error) {
	args := m.Called(ctx, tx, transactionID)
	var txn *domain.Transaction
	if args.Get(0) != nil {
		txn = args.Get(0).(*domain.Transaction)
	}
	return txn, args.Error(1)
}

func (m *MockTransactionRepository) UpdateTransactionState(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	args := m.Called(ctx, tx, txn)
	return args.Error(0)
}

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID int64) (*domain.User, error) {
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

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	args := m.Called(ctx, googleID)
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

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	var saved *domain.User
	if args.Get(0) != nil {
		saved = args.Get(0).(*domain.User)
	}
	return saved, args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID int64, tokenHash *string, expiry *time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiry)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePasswordHash(ctx context.Context, userID int64, passwordHash string, at time.Time) error {
	args := m.Called(ctx, userID, passwordHash, at)
	return args.Error(0)
}

// --- Mock MeetingRepository ---

type MockMeetingRepository struct {
	mock.Mock
}

func (m *MockMeetingRepository) SaveMeeting(ctx context.Context, meeting domain.Meeting) (*domain.Meeting, error) {
	args := m.Called(ctx, meeting)
	var saved *domain.Meeting
	if args.Get(0) != nil {
		saved = args.Get(0).(*domain.Meeting)
	}
	return saved, args.Error(1)
}

func (m *MockMeetingRepository) ListMeetings(ctx context.Context, groupID int64, limit, offset int) ([]domain.Meeting, error) {
	args := m.Called(ctx, groupID, limit, offset)
	var meetings []domain.Meeting
	if args.Get(0) != nil {
		meetings = args.Get(0).([]domain.Meeting)
	}
	return meetings, args.Error(1)
}

// --- Mock FormationRepository ---

type MockFormationRepository struct {
	mock.Mock
}

func (m *MockFormationRepository) SaveModule(ctx context.Context, module domain.FormationModule) (*domain.FormationModule, error) {
	args := m.Called(ctx, module)
	var saved *domain.FormationModule
	if args.Get(0) != nil {
		saved = args.Get(0).(*domain.FormationModule)
	}
	return saved, args.Error(1)
}

func (m *MockFormationRepository) FindModuleByID(ctx context.Context, moduleID int64) (*domain.FormationModule, error) {
	args := m.Called(ctx, moduleID)
	var module *domain.FormationModule
	if args.Get(0) != nil {
		module = args.Get(0).(*domain.FormationModule)
	}
	return module, args.Error(1)
}

func (m *MockFormationRepository) ListModules(ctx context.Context, groupID int64) ([]domain.FormationModule, error) {
	args := m.Called(ctx, groupID)
	var modules []domain.FormationModule
	if args.Get(0) != nil {
		modules = args.Get(0).([]domain.FormationModule)
	}
	return modules, args.Error(1)
}

func (m *MockFormationRepository) MarkModuleCompleted(ctx context.Context, module domain.FormationModule) error {
	args := m.Called(ctx, module)
	return args.Error(0)
}

// --- Mock EvaluationRepository ---

type MockEvaluationRepository struct {
	mock.Mock
}

func (m *MockEvaluationRepository) SaveEvaluation(ctx context.Context, evaluation domain.CommunityEvaluation) (*domain.CommunityEvaluation, error) {
	args := m.Called(ctx, evaluation)
	var saved *domain.CommunityEvaluation
	if args.Get(0) != nil {
		saved = args.Get(0).(*domain.CommunityEvaluation)
	}
	return saved, args.Error(1)
}

func (m *MockEvaluationRepository) FindEvaluationByID(ctx context.Context, evaluationID int64) (*domain.CommunityEvaluation, error) {
	args := m.Called(ctx, evaluationID)
	var evaluation *domain.CommunityEvaluation
	if args.Get(0) != nil {
		evaluation = args.Get(0).(*domain.CommunityEvaluation)
	}
	return evaluation, args.Error(1)
}

func (m *MockEvaluationRepository) ListEvaluations(ctx context.Context, filter domain.EvaluationFilter) ([]domain.CommunityEvaluation, error) {
	args := m.Called(ctx, filter)
	var evaluations []domain.CommunityEvaluation
	if args.Get(0) != nil {
		evaluations = args.Get(0).([]domain.CommunityEvaluation)
	}
	return evaluations, args.Error(1)
}

// --- Mock ReportingRepository ---

type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) CountByPhase(ctx context.Context) ([]domain.PhaseCount, error) {
	args := m.Called(ctx)
	var counts []domain.PhaseCount
	if args.Get(0) != nil {
		counts = args.Get(0).([]domain.PhaseCount)
	}
	return counts, args.Error(1)
}

func (m *MockReportingRepository) SumGroupTotals(ctx context.Context) (*domain.SupervisionDashboard, error) {
	args := m.Called(ctx)
	var dashboard *domain.SupervisionDashboard
	if args.Get(0) != nil {
		dashboard = args.Get(0).(*domain.SupervisionDashboard)
	}
	return dashboard, args.Error(1)
}

func (m *MockReportingRepository) SumTransactionsByType(ctx context.Context, since time.Time, groupID *int64) ([]domain.TypeTotal, error) {
	args := m.Called(ctx, since, groupID)
	var totals []domain.TypeTotal
	if args.Get(0) != nil {
		totals = args.Get(0).([]domain.TypeTotal)
	}
	return totals, args.Error(1)
}

// --- Mock Outbox and Locker ---

type MockOutbox struct {
	mock.Mock
}

func (m *MockOutbox) InsertEvent(ctx context.Context, tx pgx.Tx, event domain.OutboxEvent) error {
	args := m.Called(ctx, tx, event)
	return args.Error(0)
}

type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) Acquire(ctx context.Context, id int64) bool {
	args := m.Called(ctx, id)
	return args.Bool(0)
}

func (m *MockLocker) Release(ctx context.Context, id int64) {
	m.Called(ctx, id)
}

// eventOfType matches an outbox event by its type.
func eventOfType(eventType string) any {
	return mock.MatchedBy(func(e domain.OutboxEvent) bool { return e.EventType == eventType })
}
