package service

import (
	"context"
	"sync"

	"quiz-arena/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockQuestionRepository ---
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) ListQuestions(ctx context.Context) ([]*domain.Question, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetQuestionByID(ctx context.Context, id string) (*domain.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) FindQuestionByText(ctx context.Context, text string) (*domain.Question, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) CreateQuestion(ctx context.Context, question *domain.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) UpdateQuestion(ctx context.Context, question *domain.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) DeleteQuestion(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuestionRepository) CountQuestions(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// --- MockAccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) GetAccountByID(ctx context.Context, id string) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) GetAccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) SoftDeleteAccount(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, limit, offset int) ([]*domain.Account, int, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Account), args.Int(1), args.Error(2)
}

// --- MockResultRepository ---
type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) CreateResult(ctx context.Context, result *domain.Result) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockResultRepository) TopResults(ctx context.Context, limit int) ([]*domain.Result, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Result), args.Error(1)
}

func (m *MockResultRepository) ListResultsByAccount(ctx context.Context, accountID string, limit int) ([]*domain.Result, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Result), args.Error(1)
}

func (m *MockResultRepository) ListAllResults(ctx context.Context) ([]*domain.Result, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Result), args.Error(1)
}

// --- MockTransactionManager runs fn directly ---
type MockTransactionManager struct{}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- MockEmailService ---
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendWelcome(ctx context.Context, toEmail, username, idempotencyKey string) error {
	args := m.Called(ctx, toEmail, username, idempotencyKey)
	return args.Error(0)
}

// --- MockLeaderboardService ---
type MockLeaderboardService struct {
	mock.Mock
}

func (m *MockLeaderboardService) TopResults(ctx context.Context, n int) ([]domain.LeaderboardEntry, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LeaderboardEntry), args.Error(1)
}

func (m *MockLeaderboardService) Invalidate(ctx context.Context) {
	m.Called(ctx)
}

// --- fakeRecorder captures what the attempt service records ---
type fakeRecorder struct {
	mu       sync.Mutex
	recorded []domain.Result
	err      error
}

func (f *fakeRecorder) Record(ctx context.Context, identity domain.AccountIdentity, result *domain.Result) (*domain.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := *result
	r.AccountID = identity.AccountID
	r.Username = identity.Username
	r.Email = identity.Email
	f.recorded = append(f.recorded, r)
	if f.err != nil {
		return &r, f.err
	}
	return &r, nil
}

func (f *fakeRecorder) RetryPending(ctx context.Context, identity domain.AccountIdentity) (int, int, error) {
	return 0, 0, nil
}

func (f *fakeRecorder) SweepOnce(ctx context.Context) (int, error) { return 0, nil }

func (f *fakeRecorder) RunSweeper(ctx context.Context) {}

func (f *fakeRecorder) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.recorded)
}

// --- fakeExporter ---
type fakeExporter struct {
	rows int
	err  error
}

func (f *fakeExporter) Export(results []*domain.Result) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.rows = len(results)
	return []byte("exported"), nil
}

func (f *fakeExporter) ContentType() string   { return "text/plain" }
func (f *fakeExporter) FileExtension() string { return "txt" }

func sampleQuestions(n int) []*domain.Question {
	out := make([]*domain.Question, 0, n)
	for i := 0; i < n; i++ {
		q := domain.NewQuestion("Question "+domain.OptionLabel(i%domain.OptionCount),
			[domain.OptionCount]string{"a", "b", "c", "d"}, i%domain.OptionCount)
		q.ID = "q" + string(rune('0'+i))
		out = append(out, q)
	}
	return out
}
