package handlers_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"time"

	"github.com/SscSPs/avec_backend/internal/core/domain"
	portssvc "github.com/SscSPs/avec_backend/internal/core/ports/services"
	"github.com/SscSPs/avec_backend/internal/handlers"
	"github.com/SscSPs/avec_backend/internal/middleware"
	"github.com/SscSPs/avec_backend/internal/platform/config"
	"github.com/SscSPs/avec_backend/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const testJWTSecret = "test-secret-key-that-is-long-enough"

// routerSuite wires the real routes over mocked services.
type routerSuite struct {
	suite.Suite
	router *gin.Engine

	cycles     *MockCycleService
	groups     *MockGroupService
	members    *MockMembershipService
	ledger     *MockLedgerService
	capital    *MockCapitalService
	sharing    *MockSharingService
	meetings   *MockMeetingService
	formation  *MockFormationService
	evaluation *MockEvaluationService
	reporting  *MockReportingService
	users      *MockUserService
	tokens     *MockTokenService
	googleAuth *MockGoogleOAuthService
}

func (suite *routerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.cycles = new(MockCycleService)
	suite.groups = new(MockGroupService)
	suite.members = new(MockMembershipService)
	suite.ledger = new(MockLedgerService)
	suite.capital = new(MockCapitalService)
	suite.sharing = new(MockSharingService)
	suite.meetings = new(MockMeetingService)
	suite.formation = new(MockFormationService)
	suite.evaluation = new(MockEvaluationService)
	suite.reporting = new(MockReportingService)
	suite.users = new(MockUserService)
	suite.tokens = new(MockTokenService)
	suite.googleAuth = new(MockGoogleOAuthService)

	container := &portssvc.ServiceContainer{
		Cycle:              suite.cycles,
		Group:              suite.groups,
		Membership:         suite.members,
		Ledger:             suite.ledger,
		Capital:            suite.capital,
		Sharing:            suite.sharing,
		Meeting:            suite.meetings,
		Formation:          suite.formation,
		Evaluation:         suite.evaluation,
		Reporting:          suite.reporting,
		User:               suite.users,
		TokenService:       suite.tokens,
		GoogleOAuthHandler: suite.googleAuth,
	}
	cfg := &config.Config{
		JWTSecret:      testJWTSecret,
		IsProduction:   true,
		LoginRateLimit: "1000-M",
		APIRateLimit:   "1000-M",
	}

	suite.router = gin.New()
	suite.router.Use(middleware.StructuredLoggingMiddleware(slog.Default()))
	suite.Require().NoError(handlers.RegisterRoutes(suite.router, cfg, container))
}

// generateTestToken creates a signed access token for the given caller.
func (suite *routerSuite) generateTestToken(actor domain.Actor) string {
	token, err := utils.GenerateJWT(actor.UserID, string(actor.Role), testJWTSecret, time.Hour, "avec-test")
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return token
}

// do serves a request, authenticated as actor unless actor is nil.
func (suite *routerSuite) do(method, url string, body any, actor *domain.Actor) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if actor != nil {
		req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(*actor))
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *routerSuite) decodeError(w *httptest.ResponseRecorder) string {
	var resp handlers.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func (suite *routerSuite) assertStatus(w *httptest.ResponseRecorder, status int) {
	suite.Require().Equal(status, w.Code, "body: %s", w.Body.String())
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var (
	admin       = domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	facilitator = domain.Actor{UserID: 5, Role: domain.RoleFacilitator}
	supervisor  = domain.Actor{UserID: 2, Role: domain.RoleSupervisor}
	member      = domain.Actor{UserID: 11, Role: domain.RoleMember}
)

