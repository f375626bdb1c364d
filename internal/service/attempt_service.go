package service

import (
	"context"
	"sync"
	"time"

	"quiz-arena/internal/cache"
	"quiz-arena/internal/config"
	"quiz-arena/internal/domain"
	"quiz-arena/internal/dto"
	"quiz-arena/internal/logger"
	"quiz-arena/internal/util"

	"go.uber.org/zap"
)

const timeoutRecordDeadline = 30 * time.Second

// AttemptService hosts in-memory attempts, at most one Active per account.
type AttemptService interface {
	Start(ctx context.Context, identity domain.AccountIdentity) (*dto.AttemptResponse, error)
	// Current returns the caller's active attempt, or the retained finished one.
	Current(ctx context.Context, identity domain.AccountIdentity) (*dto.AttemptResponse, error)
	// Get returns NOT_FOUND for attempts owned by someone else.
	Get(ctx context.Context, identity domain.AccountIdentity, attemptID string) (*dto.AttemptResponse, error)
	Select(ctx context.Context, identity domain.AccountIdentity, attemptID string, option int) (*dto.AttemptResponse, error)
	Advance(ctx context.Context, identity domain.AccountIdentity, attemptID string) (*dto.AttemptResponse, error)
	Retreat(ctx context.Context, identity domain.AccountIdentity, attemptID string) (*dto.AttemptResponse, error)
	GoTo(ctx context.Context, identity domain.AccountIdentity, attemptID string, position int) (*dto.AttemptResponse, error)
	// Finish submits the attempt. The response carries the result even when it could not be stored.
	Finish(ctx context.Context, identity domain.AccountIdentity, attemptID string) (*dto.FinishResponse, error)
	// Abandon drops the caller's active attempt without producing a result.
	Abandon(ctx context.Context, identity domain.AccountIdentity) error
	ActiveCount() int
	// Shutdown stops every countdown and waits for the countdown goroutines to exit.
	Shutdown()
}

type finishOutcome struct {
	result     domain.Result
	persisted  bool
	persistErr string
}

// attemptSession guards one attempt. mu serialises the owner's requests and the countdown.
type attemptSession struct {
	mu       sync.Mutex
	attempt  *domain.Attempt
	identity domain.AccountIdentity
	timer    *countdown
	outcome  *finishOutcome
	evict    *time.Timer
	// abandoned is set under mu; a finish or edit that raced Abandon sees it and reports NOT_FOUND.
	abandoned bool
}

type attemptServiceImpl struct {
	questions QuestionService
	recorder  ResultRecorder
	accounts  domain.AccountRepository // optional; rejects deleted accounts at start
	cache     domain.Cache             // optional; holds a best-effort active-attempt marker
	cfg       config.QuizConfig

	mu        sync.RWMutex
	byAccount map[string]*attemptSession
	byID      map[string]*attemptSession

	baseCtx   context.Context
	cancelAll context.CancelFunc
	wg        sync.WaitGroup
}

func NewAttemptService(
	questions QuestionService,
	recorder ResultRecorder,
	accounts domain.AccountRepository,
	c domain.Cache,
	cfg config.QuizConfig,
) AttemptService {
	if cfg.TimeLimit <= 0 {
		cfg.TimeLimit = domain.DefaultTimeBudget
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	baseCtx, cancel := context.WithCancel(context.Background())
	return &attemptServiceImpl{
		questions: questions,
		recorder:  recorder,
		accounts:  accounts,
		cache:     c,
		cfg:       cfg,
		byAccount: make(map[string]*attemptSession),
		byID:      make(map[string]*attemptSession),
		baseCtx:   baseCtx,
		cancelAll: cancel,
	}
}

func requireIdentity(identity domain.AccountIdentity) error {
	if identity.IsZero() {
		return domain.NewUnauthorizedError("authentication required")
	}
	return nil
}

func (s *attemptServiceImpl) Start(ctx context.Context, identity domain.AccountIdentity) (*dto.AttemptResponse, error) {
	appLogger := logger.Get()
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	identity, err := liveIdentity(ctx, s.accounts, identity)
	if err != nil {
		return nil, err
	}
	if s.hasActive(identity.AccountID) {
		return nil, domain.NewInvalidStateError("an attempt is already in progress")
	}

	set, err := s.questions.QuestionSet(ctx)
	if err != nil {
		return nil, err
	}
	questions := make([]domain.Question, 0, len(set))
	for _, q := range set {
		questions = append(questions, *q)
	}

	attempt, err := domain.StartAttempt(identity.AccountID, questions, s.cfg.TimeLimit, time.Now())
	if err != nil {
		return nil, err
	}
	attempt.ID = util.NewULID()
	sess := &attemptSession{attempt: attempt, identity: identity}

	s.mu.Lock()
	if prev := s.byAccount[identity.AccountID]; prev != nil {
		prev.mu.Lock()
		active := prev.attempt.State() == domain.AttemptActive
		prev.mu.Unlock()
		if active {
			s.mu.Unlock()
			return nil, domain.NewInvalidStateError("an attempt is already in progress")
		}
		delete(s.byID, prev.attempt.ID)
		if prev.evict != nil {
			prev.evict.Stop()
		}
	}
	s.byAccount[identity.AccountID] = sess
	s.byID[attempt.ID] = sess
	// The countdown is armed while the registry lock is held so Shutdown cannot miss it.
	s.startCountdown(sess)
	s.mu.Unlock()

	s.setMarker(ctx, identity.AccountID, attempt.ID)
	appLogger.Info("Attempt started",
		zap.String("attemptID", attempt.ID),
		zap.String("accountID", identity.AccountID),
		zap.Int("questions", attempt.Len()))

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return toAttemptResponse(sess), nil
}

func (s *attemptServiceImpl) hasActive(accountID string) bool {
	s.mu.RLock()
	sess := s.byAccount[accountID]
	s.mu.RUnlock()
	if sess == nil {
		return false
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.attempt.State() == domain.AttemptActive
}

func (s *attemptServiceImpl) lookup(identity domain.AccountIdentity, attemptID string) (*attemptSession, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	s.mu.RLock()
	sess := s.byID[attemptID]
	s.mu.RUnlock()
	if sess == nil || sess.identity.AccountID != identity.AccountID {
		return nil, domain.NewAttemptNotFoundError(attemptID)
	}
	return sess, nil
}

func (s *attemptServiceImpl) Current(ctx context.Context, identity domain.AccountIdentity) (*dto.AttemptResponse, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	s.mu.RLock()
	sess := s.byAccount[identity.AccountID]
	s.mu.RUnlock()
	if sess == nil {
		return nil, domain.NewNotFoundError("no attempt in progress")
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return toAttemptResponse(sess), nil
}

func (s *attemptServiceImpl) Get(ctx context.Context, identity domain.AccountIdentity, attemptID string) (*dto.AttemptResponse, error) {
	sess, err := s.lookup(identity, attemptID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return toAttemptResponse(sess), nil
}

// mutate runs op on the attempt under its lock and returns the resulting view.
func (s *attemptServiceImpl) mutate(identity domain.AccountIdentity, attemptID string, op func(a *domain.Attempt) error) (*dto.AttemptResponse, error) {
	sess, err := s.lookup(identity, attemptID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.abandoned {
		return nil, domain.NewAttemptNotFoundError(attemptID)
	}
	if err := op(sess.attempt); err != nil {
		return nil, err
	}
	return toAttemptResponse(sess), nil
}

func (s *attemptServiceImpl) Select(ctx context.Context, identity domain.AccountIdentity, attemptID string, option int) (*dto.AttemptResponse, error) {
	return s.mutate(identity, attemptID, func(a *domain.Attempt) error { return a.SelectOption(option) })
}

func (s *attemptServiceImpl) Advance(ctx context.Context, identity domain.AccountIdentity, attemptID string) (*dto.AttemptResponse, error) {
	return s.mutate(identity, attemptID, (*domain.Attempt).Advance)
}

func (s *attemptServiceImpl) Retreat(ctx context.Context, identity domain.AccountIdentity, attemptID string) (*dto.AttemptResponse, error) {
	return s.mutate(identity, attemptID, (*domain.Attempt).Retreat)
}

func (s *attemptServiceImpl) GoTo(ctx context.Context, identity domain.AccountIdentity, attemptID string, position int) (*dto.AttemptResponse, error) {
	return s.mutate(identity, attemptID, func(a *domain.Attempt) error { return a.GoTo(position) })
}

func (s *attemptServiceImpl) Finish(ctx context.Context, identity domain.AccountIdentity, attemptID string) (*dto.FinishResponse, error) {
	sess, err := s.lookup(identity, attemptID)
	if err != nil {
		return nil, err
	}
	return s.finishAttempt(ctx, sess, domain.FinishSubmitted)
}

// finishAttempt is the single path from Active to Finished, used by submit and by the countdown.
// The countdown is cancelled first; the engine rejects a second Finish, so only one caller records.
func (s *attemptServiceImpl) finishAttempt(ctx context.Context, sess *attemptSession, reason domain.FinishReason) (*dto.FinishResponse, error) {
	appLogger := logger.Get()
	sess.timer.stop()

	sess.mu.Lock()
	if sess.abandoned {
		sess.mu.Unlock()
		return nil, domain.NewAttemptNotFoundError(sess.attempt.ID)
	}
	result, err := sess.attempt.Finish(reason, time.Now())
	if err != nil {
		sess.mu.Unlock()
		return nil, err
	}
	result.ID = util.NewULID()
	identity := sess.identity
	attemptID := sess.attempt.ID
	sess.mu.Unlock()

	s.clearMarker(ctx, identity.AccountID)

	// Recording may block on retries; the attempt lock is not held.
	recorded, recErr := s.recorder.Record(ctx, identity, result)
	outcome := &finishOutcome{persisted: recErr == nil}
	if recorded != nil {
		outcome.result = *recorded
	} else {
		outcome.result = *result
		outcome.result.Username = identity.Username
		outcome.result.Email = identity.Email
	}
	if recErr != nil {
		outcome.persistErr = recErr.Error()
		appLogger.Warn("Attempt finished but result not stored",
			zap.String("attemptID", attemptID),
			zap.String("reason", string(reason)),
			zap.Error(recErr))
	} else {
		appLogger.Info("Attempt finished",
			zap.String("attemptID", attemptID),
			zap.String("reason", string(reason)),
			zap.Int("score", outcome.result.Score))
	}

	sess.mu.Lock()
	sess.outcome = outcome
	resp := &dto.FinishResponse{
		Attempt:      *toAttemptResponse(sess),
		Result:       toResultResponse(&outcome.result),
		Persisted:    outcome.persisted,
		PersistError: outcome.persistErr,
	}
	sess.mu.Unlock()

	s.scheduleEviction(sess)
	return resp, nil
}

func (s *attemptServiceImpl) scheduleEviction(sess *attemptSession) {
	retention := s.cfg.FinishedRetention
	if retention <= 0 {
		s.remove(sess)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byID[sess.attempt.ID] == sess {
		sess.evict = time.AfterFunc(retention, func() { s.remove(sess) })
	}
}

func (s *attemptServiceImpl) remove(sess *attemptSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byAccount[sess.identity.AccountID] == sess {
		delete(s.byAccount, sess.identity.AccountID)
	}
	if s.byID[sess.attempt.ID] == sess {
		delete(s.byID, sess.attempt.ID)
	}
}

func (s *attemptServiceImpl) Abandon(ctx context.Context, identity domain.AccountIdentity) error {
	if err := requireIdentity(identity); err != nil {
		return err
	}
	s.mu.RLock()
	sess := s.byAccount[identity.AccountID]
	s.mu.RUnlock()
	if sess == nil {
		return domain.NewNotFoundError("no attempt in progress")
	}

	sess.mu.Lock()
	if sess.attempt.State() != domain.AttemptActive {
		sess.mu.Unlock()
		return domain.NewInvalidStateError("attempt is already finished").WithContext("attemptID", sess.attempt.ID)
	}
	sess.abandoned = true
	sess.timer.stop()
	sess.mu.Unlock()

	s.remove(sess)
	s.clearMarker(ctx, identity.AccountID)
	logger.Get().Info("Attempt abandoned", zap.String("attemptID", sess.attempt.ID), zap.String("accountID", identity.AccountID))
	return nil
}

func (s *attemptServiceImpl) ActiveCount() int {
	s.mu.RLock()
	sessions := make([]*attemptSession, 0, len(s.byAccount))
	for _, sess := range s.byAccount {
		sessions = append(sessions, sess)
	}
	s.mu.RUnlock()

	n := 0
	for _, sess := range sessions {
		sess.mu.Lock()
		if sess.attempt.State() == domain.AttemptActive {
			n++
		}
		sess.mu.Unlock()
	}
	return n
}

func (s *attemptServiceImpl) Shutdown() {
	s.mu.Lock()
	s.cancelAll()
	for _, sess := range s.byID {
		if sess.evict != nil {
			sess.evict.Stop()
		}
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *attemptServiceImpl) setMarker(ctx context.Context, accountID, attemptID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, cache.ActiveAttemptKey(accountID), attemptID, s.cfg.TimeLimit); err != nil {
		logger.Get().Warn("Failed to set active attempt marker", zap.String("accountID", accountID), zap.Error(err))
	}
}

func (s *attemptServiceImpl) clearMarker(ctx context.Context, accountID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(context.WithoutCancel(ctx), cache.ActiveAttemptKey(accountID)); err != nil {
		logger.Get().Warn("Failed to clear active attempt marker", zap.String("accountID", accountID), zap.Error(err))
	}
}

// toAttemptResponse must be called with sess.mu held.
func toAttemptResponse(sess *attemptSession) *dto.AttemptResponse {
	a := sess.attempt
	resp := &dto.AttemptResponse{
		ID:               a.ID,
		State:            string(a.State()),
		Position:         a.Position(),
		TotalQuestions:   a.Len(),
		Answered:         a.Answered(),
		RemainingSeconds: ceilSeconds(a.Remaining()),
		TimeLimitSeconds: ceilSeconds(a.Budget()),
		StartedAt:        a.StartedAt,
		Selections:       a.Selections(),
	}

	if a.State() == domain.AttemptActive {
		q := a.Questions()[a.Position()]
		options := make([]dto.OptionView, 0, domain.OptionCount)
		for i, text := range q.Options {
			options = append(options, dto.OptionView{Label: domain.OptionLabel(i), Text: text})
		}
		resp.Current = &dto.AttemptQuestionView{
			Index:    a.Position(),
			ID:       q.ID,
			Question: q.Text,
			Options:  options,
			Selected: resp.Selections[a.Position()],
		}
		return resp
	}

	finishedAt := a.FinishedAt()
	resp.FinishedAt = &finishedAt
	resp.FinishReason = string(a.FinishReason())
	for i, q := range a.Questions() {
		resp.Review = append(resp.Review, dto.QuestionReview{
			Index:         i,
			QuestionID:    q.ID,
			Question:      q.Text,
			Selected:      resp.Selections[i],
			CorrectOption: q.CorrectOption,
			Correct:       resp.Selections[i] == q.CorrectOption,
		})
	}
	if sess.outcome != nil {
		r := toResultResponse(&sess.outcome.result)
		resp.Result = &r
	} else if computed := a.Result(); computed != nil {
		r := toResultResponse(computed)
		resp.Result = &r
	}
	return resp
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}
