package handler_test

import (
	"context"
	"time"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/dto"
)

// --- Manual Mocks ---

type MockAccountService struct {
	RegisterFunc      func(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	LoginFunc         func(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	GetProfileFunc    func(ctx context.Context, identity domain.AccountIdentity) (*dto.UserProfileResponse, error)
	UpdateProfileFunc func(ctx context.Context, identity domain.AccountIdentity, req dto.UpdateProfileRequest) (*dto.UserProfileResponse, error)
	DeleteAccountFunc func(ctx context.Context, identity domain.AccountIdentity) error
	ListAccountsFunc  func(ctx context.Context, page dto.Pagination) (*dto.UserListResponse, error)
}

func (m *MockAccountService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	panic("MockAccountService.RegisterFunc not implemented")
}
func (m *MockAccountService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	panic("MockAccountService.LoginFunc not implemented")
}
func (m *MockAccountService) GetProfile(ctx context.Context, identity domain.AccountIdentity) (*dto.UserProfileResponse, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, identity)
	}
	panic("MockAccountService.GetProfileFunc not implemented")
}
func (m *MockAccountService) UpdateProfile(ctx context.Context, identity domain.AccountIdentity, req dto.UpdateProfileRequest) (*dto.UserProfileResponse, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, identity, req)
	}
	panic("MockAccountService.UpdateProfileFunc not implemented")
}
func (m *MockAccountService) DeleteAccount(ctx context.Context, identity domain.AccountIdentity) error {
	if m.DeleteAccountFunc != nil {
		return m.DeleteAccountFunc(ctx, identity)
	}
	panic("MockAccountService.DeleteAccountFunc not implemented")
}
func (m *MockAccountService) ListAccounts(ctx context.Context, page dto.Pagination) (*dto.UserListResponse, error) {
	if m.ListAccountsFunc != nil {
		return m.ListAccountsFunc(ctx, page)
	}
	panic("MockAccountService.ListAccountsFunc not implemented")
}

// MockAuthService resolves "Bearer <role>-<accountID>" style tokens used by the router tests.
type MockAuthService struct {
	ValidateFunc     func(ctx context.Context, credential string) (domain.AccountIdentity, error)
	RefreshTokenFunc func(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
}

func (m *MockAuthService) Authenticate(ctx context.Context, identifier, secret string) (*dto.TokenResponse, *domain.Account, error) {
	panic("MockAuthService.Authenticate not implemented")
}
func (m *MockAuthService) IssueTokens(ctx context.Context, account *domain.Account) (*dto.TokenResponse, error) {
	panic("MockAuthService.IssueTokens not implemented")
}
func (m *MockAuthService) Validate(ctx context.Context, credential string) (domain.AccountIdentity, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, credential)
	}
	panic("MockAuthService.ValidateFunc not implemented")
}
func (m *MockAuthService) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	panic("MockAuthService.ValidateJWT not implemented")
}
func (m *MockAuthService) CreateJWT(ctx context.Context, account *domain.Account, ttl time.Duration, tokenType string) (string, error) {
	panic("MockAuthService.CreateJWT not implemented")
}
func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, refreshToken)
	}
	panic("MockAuthService.RefreshTokenFunc not implemented")
}

type MockQuestionService struct {
	ListQuestionsFunc  func(ctx context.Context) ([]dto.QuestionResponse, error)
	GetQuestionFunc    func(ctx context.Context, id string) (*dto.QuestionResponse, error)
	CreateQuestionFunc func(ctx context.Context, req dto.QuestionRequest) (*dto.QuestionResponse, error)
	UpdateQuestionFunc func(ctx context.Context, id string, req dto.QuestionRequest) (*dto.QuestionResponse, error)
	DeleteQuestionFunc func(ctx context.Context, id string) error
}

func (m *MockQuestionService) ListQuestions(ctx context.Context) ([]dto.QuestionResponse, error) {
	if m.ListQuestionsFunc != nil {
		return m.ListQuestionsFunc(ctx)
	}
	panic("MockQuestionService.ListQuestionsFunc not implemented")
}
func (m *MockQuestionService) GetQuestion(ctx context.Context, id string) (*dto.QuestionResponse, error) {
	if m.GetQuestionFunc != nil {
		return m.GetQuestionFunc(ctx, id)
	}
	panic("MockQuestionService.GetQuestionFunc not implemented")
}
func (m *MockQuestionService) CreateQuestion(ctx context.Context, req dto.QuestionRequest) (*dto.QuestionResponse, error) {
	if m.CreateQuestionFunc != nil {
		return m.CreateQuestionFunc(ctx, req)
	}
	panic("MockQuestionService.CreateQuestionFunc not implemented")
}
func (m *MockQuestionService) UpdateQuestion(ctx context.Context, id string, req dto.QuestionRequest) (*dto.QuestionResponse, error) {
	if m.UpdateQuestionFunc != nil {
		return m.UpdateQuestionFunc(ctx, id, req)
	}
	panic("MockQuestionService.UpdateQuestionFunc not implemented")
}
func (m *MockQuestionService) DeleteQuestion(ctx context.Context, id string) error {
	if m.DeleteQuestionFunc != nil {
		return m.DeleteQuestionFunc(ctx, id)
	}
	panic("MockQuestionService.DeleteQuestionFunc not implemented")
}
func (m *MockQuestionService) QuestionSet(ctx context.Context) ([]*domain.Question, error) {
	panic("MockQuestionService.QuestionSet not implemented")
}

type MockAttemptService struct {
	StartFunc   func(ctx context.Context, identity domain.AccountIdentity) (*dto.AttemptResponse, error)
	CurrentFunc func(ctx context.Context, identity domain.AccountIdentity) (*dto.AttemptResponse, error)
	GetFunc     func(ctx context.Context, identity domain.AccountIdentity, attemptID string) (*dto.AttemptResponse, error)
	SelectFunc  func(ctx context.Context, identity domain.AccountIdentity, attemptID string, option int) (*dto.AttemptResponse, error)
	AdvanceFunc func(ctx context.Context, identity domain.AccountIdentity, attemptID string) (*dto.AttemptResponse, error)
	RetreatFunc func(ctx context.Context, identity domain.AccountIdentity, attemptID string) (*dto.AttemptResponse, error)
	GoToFunc    func(ctx context.Context, identity domain.AccountIdentity, attemptID string, position int) (*dto.AttemptResponse, error)
	FinishFunc  func(ctx context.Context, identity domain.AccountIdentity, attemptID string) (*dto.FinishResponse, error)
	AbandonFunc func(ctx context.Context, identity domain.AccountIdentity) error
}

func (m *MockAttemptService) Start(ctx context.Context, identity domain.AccountIdentity) (*dto.AttemptResponse, error) {
	if m.StartFunc != nil {
		return m.StartFunc(ctx, identity)
	}
	panic("MockAttemptService.StartFunc not implemented")
}
func (m *MockAttemptService) Current(ctx context.Context, identity domain.AccountIdentity) (*dto.AttemptResponse, error) {
	if m.CurrentFunc != nil {
		return m.CurrentFunc(ctx, identity)
	}
	panic("MockAttemptService.CurrentFunc not implemented")
}
func (m *MockAttemptService) Get(ctx context.Context, identity domain.AccountIdentity, attemptID string) (*dto.AttemptResponse, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, identity, attemptID)
	}
	panic("MockAttemptService.GetFunc not implemented")
}
func (m *MockAttemptService) Select(ctx context.Context, identity domain.AccountIdentity, attemptID string, option int) (*dto.AttemptResponse, error) {
	if m.SelectFunc != nil {
		return m.SelectFunc(ctx, identity, attemptID, option)
	}
	panic("MockAttemptService.SelectFunc not implemented")
}
func (m *MockAttemptService) Advance(ctx context.Context, identity domain.AccountIdentity, attemptID string) (*dto.AttemptResponse, error) {
	if m.AdvanceFunc != nil {
		return m.AdvanceFunc(ctx, identity, attemptID)
	}
	panic("MockAttemptService.AdvanceFunc not implemented")
}
func (m *MockAttemptService) Retreat(ctx context.Context, identity domain.AccountIdentity, attemptID string) (*dto.AttemptResponse, error) {
	if m.RetreatFunc != nil {
		return m.RetreatFunc(ctx, identity, attemptID)
	}
	panic("MockAttemptService.RetreatFunc not implemented")
}
func (m *MockAttemptService) GoTo(ctx context.Context, identity domain.AccountIdentity, attemptID string, position int) (*dto.AttemptResponse, error) {
	if m.GoToFunc != nil {
		return m.GoToFunc(ctx, identity, attemptID, position)
	}
	panic("MockAttemptService.GoToFunc not implemented")
}
func (m *MockAttemptService) Finish(ctx context.Context, identity domain.AccountIdentity, attemptID string) (*dto.FinishResponse, error) {
	if m.FinishFunc != nil {
		return m.FinishFunc(ctx, identity, attemptID)
	}
	panic("MockAttemptService.FinishFunc not implemented")
}
func (m *MockAttemptService) Abandon(ctx context.Context, identity domain.AccountIdentity) error {
	if m.AbandonFunc != nil {
		return m.AbandonFunc(ctx, identity)
	}
	panic("MockAttemptService.AbandonFunc not implemented")
}
func (m *MockAttemptService) ActiveCount() int { return 0 }
func (m *MockAttemptService) Shutdown()        {}

type MockLeaderboardService struct {
	TopResultsFunc func(ctx context.Context, n int) ([]domain.LeaderboardEntry, error)
}

func (m *MockLeaderboardService) TopResults(ctx context.Context, n int) ([]domain.LeaderboardEntry, error) {
	if m.TopResultsFunc != nil {
		return m.TopResultsFunc(ctx, n)
	}
	panic("MockLeaderboardService.TopResultsFunc not implemented")
}
func (m *MockLeaderboardService) Invalidate(ctx context.Context) {}

type MockResultService struct {
	MyResultsFunc     func(ctx context.Context, identity domain.AccountIdentity, limit int) ([]dto.ResultResponse, error)
	ExportResultsFunc func(ctx context.Context) ([]byte, string, string, error)
}

func (m *MockResultService) MyResults(ctx context.Context, identity domain.AccountIdentity, limit int) ([]dto.ResultResponse, error) {
	if m.MyResultsFunc != nil {
		return m.MyResultsFunc(ctx, identity, limit)
	}
	panic("MockResultService.MyResultsFunc not implemented")
}
func (m *MockResultService) ExportResults(ctx context.Context) ([]byte, string, string, error) {
	if m.ExportResultsFunc != nil {
		return m.ExportResultsFunc(ctx)
	}
	panic("MockResultService.ExportResultsFunc not implemented")
}

type MockResultRecorder struct {
	RetryPendingFunc func(ctx context.Context, identity domain.AccountIdentity) (int, int, error)
}

func (m *MockResultRecorder) Record(ctx context.Context, identity domain.AccountIdentity, result *domain.Result) (*domain.Result, error) {
	panic("MockResultRecorder.Record not implemented")
}
func (m *MockResultRecorder) RetryPending(ctx context.Context, identity domain.AccountIdentity) (int, int, error) {
	if m.RetryPendingFunc != nil {
		return m.RetryPendingFunc(ctx, identity)
	}
	panic("MockResultRecorder.RetryPendingFunc not implemented")
}
func (m *MockResultRecorder) SweepOnce(ctx context.Context) (int, error) { return 0, nil }
func (m *MockResultRecorder) RunSweeper(ctx context.Context)             {}

type MockHealthChecker struct {
	PingFunc func(ctx context.Context) error
}

func (m *MockHealthChecker) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}
