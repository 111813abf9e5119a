package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/avec_backend/internal/core/domain"
	portssvc "github.com/SscSPs/avec_backend/internal/core/ports/services"
	"github.com/SscSPs/avec_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

// --- Mock CycleService ---
type MockCycleService struct {
	mock.Mock
}

func (m *MockCycleService) GetCycleByID(ctx context.Context, actor domain.Actor, cycleID int64) (*domain.Cycle, error) {
	args := m.Called(ctx, actor, cycleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cycle), args.Error(1)
}
func (m *MockCycleService) ListCycles(ctx context.Context, actor domain.Actor, params dto.ListCyclesParams) ([]domain.Cycle, error) {
	args := m.Called(ctx, actor, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Cycle), args.Error(1)
}
func (m *MockCycleService) IsReadyForSharing(ctx context.Context, actor domain.Actor, cycleID int64) (bool, error) {
	args := m.Called(ctx, actor, cycleID)
	return args.Bool(0), args.Error(1)
}
func (m *MockCycleService) CreateCycle(ctx context.Context, actor domain.Actor, req dto.CreateCycleRequest) (*domain.Cycle, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cycle), args.Error(1)
}
func (m *MockCycleService) UpdateCycle(ctx context.Context, actor domain.Actor, cycleID int64, req dto.UpdateCycleRequest) (*domain.Cycle, error) {
	args := m.Called(ctx, actor, cycleID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cycle), args.Error(1)
}
func (m *MockCycleService) DeleteCycle(ctx context.Context, actor domain.Actor, cycleID int64) error {
	return m.Called(ctx, actor, cycleID).Error(0)
}
func (m *MockCycleService) AdvancePhase(ctx context.Context, actor domain.Actor, cycleID int64) (*domain.Cycle, error) {
	args := m.Called(ctx, actor, cycleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cycle), args.Error(1)
}

var _ portssvc.CycleSvcFacade = (*MockCycleService)(nil)

// --- Mock GroupService ---
type MockGroupService struct {
	mock.Mock
}

func (m *MockGroupService) GetGroupByID(ctx context.Context, actor domain.Actor, groupID int64) (*domain.Group, error) {
	args := m.Called(ctx, actor, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}
func (m *MockGroupService) ListGroups(ctx context.Context, actor domain.Actor, params dto.ListGroupsParams) ([]domain.Group, error) {
	args := m.Called(ctx, actor, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Group), args.Error(1)
}
func (m *MockGroupService) CreateGroup(ctx context.Context, actor domain.Actor, req dto.CreateGroupRequest) (*domain.Group, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}
func (m *MockGroupService) UpdateGroup(ctx context.Context, actor domain.Actor, groupID int64, req dto.UpdateGroupRequest) (*domain.Group, error) {
	args := m.Called(ctx, actor, groupID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}
func (m *MockGroupService) DeleteGroup(ctx context.Context, actor domain.Actor, groupID int64) error {
	return m.Called(ctx, actor, groupID).Error(0)
}

var _ portssvc.GroupSvcFacade = (*MockGroupService)(nil)

// --- Mock MembershipService ---
type MockMembershipService struct {
	mock.Mock
}

func (m *MockMembershipService) AddMember(ctx context.Context, actor domain.Actor, groupID, userID int64) (*domain.Membership, error) {
	args := m.Called(ctx, actor, groupID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}
func (m *MockMembershipService) RemoveMember(ctx context.Context, actor domain.Actor, groupID, userID int64) error {
	return m.Called(ctx, actor, groupID, userID).Error(0)
}
func (m *MockMembershipService) AssignCommitteeRole(ctx context.Context, actor domain.Actor, groupID int64, role domain.CommitteeRole, userID int64) (*domain.Group, error) {
	args := m.Called(ctx, actor, groupID, role, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}
func (m *MockMembershipService) ListMembers(ctx context.Context, actor domain.Actor, groupID int64) ([]domain.Membership, error) {
	args := m.Called(ctx, actor, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Membership), args.Error(1)
}

var _ portssvc.MembershipSvcFacade = (*MockMembershipService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetTransactionByID(ctx context.Context, actor domain.Actor, transactionID int64) (*domain.Transaction, error) {
	args := m.Called(ctx, actor, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) ListGroupTransactions(ctx context.Context, actor domain.Actor, groupID int64, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, actor, groupID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}
func (m *MockLedgerService) CreateTransaction(ctx context.Context, actor domain.Actor, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) ApproveTransaction(ctx context.Context, actor domain.Actor, transactionID int64) (*domain.Transaction, error) {
	args := m.Called(ctx, actor, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) RejectTransaction(ctx context.Context, actor domain.Actor, transactionID int64, reason string) (*domain.Transaction, error) {
	args := m.Called(ctx, actor, transactionID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) CompleteTransaction(ctx context.Context, actor domain.Actor, transactionID int64) (*domain.Transaction, error) {
	args := m.Called(ctx, actor, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock CapitalService ---
type MockCapitalService struct {
	mock.Mock
}

func (m *MockCapitalService) GetGroupCapital(ctx context.Context, actor domain.Actor, groupID int64) (*domain.GroupCapital, error) {
	args := m.Called(ctx, actor, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GroupCapital), args.Error(1)
}
func (m *MockCapitalService) TotalShares(ctx context.Context, actor domain.Actor, groupID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, actor, groupID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockCapitalService) MemberShares(ctx context.Context, actor domain.Actor, groupID, userID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, actor, groupID, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

var _ portssvc.CapitalSvcFacade = (*MockCapitalService)(nil)

// --- Mock SharingService ---
type MockSharingService struct {
	mock.Mock
}

func (m *MockSharingService) PreviewSharing(ctx context.Context, actor domain.Actor, groupID int64) (*domain.SharingPlan, error) {
	args := m.Called(ctx, actor, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SharingPlan), args.Error(1)
}
func (m *MockSharingService) ExecuteSharing(ctx context.Context, actor domain.Actor, groupID int64) (*domain.SharingPlan, error) {
	args := m.Called(ctx, actor, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SharingPlan), args.Error(1)
}

var _ portssvc.SharingSvcFacade = (*MockSharingService)(nil)

// --- Mock MeetingService ---
type MockMeetingService struct {
	mock.Mock
}

func (m *MockMeetingService) CreateMeeting(ctx context.Context, actor domain.Actor, groupID int64, req dto.CreateMeetingRequest) (*domain.Meeting, error) {
	args := m.Called(ctx, actor, groupID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Meeting), args.Error(1)
}
func (m *MockMeetingService) ListMeetings(ctx context.Context, actor domain.Actor, groupID int64, params dto.ListMeetingsParams) ([]domain.Meeting, error) {
	args := m.Called(ctx, actor, groupID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Meeting), args.Error(1)
}

var _ portssvc.MeetingSvcFacade = (*MockMeetingService)(nil)

// --- Mock FormationService ---
type MockFormationService struct {
	mock.Mock
}

func (m *MockFormationService) CreateModule(ctx context.Context, actor domain.Actor, groupID int64, req dto.CreateFormationModuleRequest) (*domain.FormationModule, error) {
	args := m.Called(ctx, actor, groupID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FormationModule), args.Error(1)
}
func (m *MockFormationService) ListModules(ctx context.Context, actor domain.Actor, groupID int64) ([]domain.FormationModule, error) {
	args := m.Called(ctx, actor, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FormationModule), args.Error(1)
}
func (m *MockFormationService) GetModule(ctx context.Context, actor domain.Actor, groupID, moduleID int64) (*domain.FormationModule, error) {
	args := m.Called(ctx, actor, groupID, moduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FormationModule), args.Error(1)
}
func (m *MockFormationService) CompleteModule(ctx context.Context, actor domain.Actor, groupID, moduleID int64) (*domain.FormationModule, error) {
	args := m.Called(ctx, actor, groupID, moduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FormationModule), args.Error(1)
}

var _ portssvc.FormationSvcFacade = (*MockFormationService)(nil)

// --- Mock EvaluationService ---
type MockEvaluationService struct {
	mock.Mock
}

func (m *MockEvaluationService) CreateEvaluation(ctx context.Context, actor domain.Actor, req dto.CreateEvaluationRequest) (*domain.CommunityEvaluation, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CommunityEvaluation), args.Error(1)
}
func (m *MockEvaluationService) GetEvaluation(ctx context.Context, actor domain.Actor, evaluationID int64) (*domain.CommunityEvaluation, error) {
	args := m.Called(ctx, actor, evaluationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CommunityEvaluation), args.Error(1)
}
func (m *MockEvaluationService) ListEvaluations(ctx context.Context, actor domain.Actor, params dto.ListEvaluationsParams) ([]domain.CommunityEvaluation, error) {
	args := m.Called(ctx, actor, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CommunityEvaluation), args.Error(1)
}

var _ portssvc.EvaluationSvcFacade = (*MockEvaluationService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) GetMemberAccountBook(ctx context.Context, actor domain.Actor, groupID, userID int64) (*domain.MemberAccountBook, error) {
	args := m.Called(ctx, actor, groupID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MemberAccountBook), args.Error(1)
}
func (m *MockReportingService) GetSupervisionDashboard(ctx context.Context, actor domain.Actor) (*domain.SupervisionDashboard, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SupervisionDashboard), args.Error(1)
}
func (m *MockReportingService) GetTransactionStats(ctx context.Context, actor domain.Actor, period domain.StatsPeriod, groupID *int64) (*domain.TransactionStats, error) {
	args := m.Called(ctx, actor, period, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionStats), args.Error(1)
}
func (m *MockReportingService) GetAlerts(ctx context.Context, actor domain.Actor) (*domain.Alerts, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Alerts), args.Error(1)
}

var _ portssvc.ReportingSvcFacade = (*MockReportingService)(nil)

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) ListUsers(ctx context.Context, actor domain.Actor, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, actor, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserService) CreateUser(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) UpdateUser(ctx context.Context, actor domain.Actor, userID int64, req dto.UpdateUserRequest) (*domain.User, error) {
	args := m.Called(ctx, actor, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) UpdateProfile(ctx context.Context, actor domain.Actor, req dto.UpdateProfileRequest) (*domain.User, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) ChangePassword(ctx context.Context, actor domain.Actor, req dto.ChangePasswordRequest) error {
	return m.Called(ctx, actor, req).Error(0)
}
func (m *MockUserService) UpdateRefreshToken(ctx context.Context, userID int64, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	return m.Called(ctx, userID, refreshTokenHash, refreshTokenExpiryTime).Error(0)
}
func (m *MockUserService) ClearRefreshToken(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}
func (m *MockUserService) FindOrCreateGoogleUser(ctx context.Context, info domain.GoogleUserInfo) (*domain.User, error) {
	args := m.Called(ctx, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

// --- Mock TokenService ---
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}
func (m *MockTokenService) GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}
func (m *MockTokenService) ValidateAndParseRefreshToken(ctx context.Context, userID int64, refreshTokenString string) (*domain.User, error) {
	args := m.Called(ctx, userID, refreshTokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

var _ portssvc.TokenSvcFacade = (*MockTokenService)(nil)

// --- Mock GoogleOAuthService ---
type MockGoogleOAuthService struct {
	mock.Mock
}

func (m *MockGoogleOAuthService) GenerateStateString(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
func (m *MockGoogleOAuthService) GetGoogleLoginURL(ctx context.Context, state string) string {
	return m.Called(ctx, state).String(0)
}
func (m *MockGoogleOAuthService) ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth2.Token), args.Error(1)
}
func (m *MockGoogleOAuthService) GetUserInfo(ctx context.Context, token *oauth2.Token) (*domain.GoogleUserInfo, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GoogleUserInfo), args.Error(1)
}
func (m *MockGoogleOAuthService) ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error) {
	args := m.Called(ctx, idTokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*idtoken.Payload), args.Error(1)
}

var _ portssvc.GoogleOAuthHandlerSvcFacade = (*MockGoogleOAuthService)(nil)
