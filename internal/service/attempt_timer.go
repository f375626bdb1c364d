package service

import (
	"context"
	"sync"
	"time"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/logger"

	"go.uber.org/zap"
)

// countdown drives one attempt's time budget. stop is idempotent.
type countdown struct {
	cancel   context.CancelFunc
	stopOnce sync.Once
	done     chan struct{}
}

func (c *countdown) stop() {
	if c == nil {
		return
	}
	c.stopOnce.Do(c.cancel)
}

// startCountdown ticks the attempt every TickInterval and finishes it with
// FinishTimeout when the budget reaches zero.
func (s *attemptServiceImpl) startCountdown(sess *attemptSession) {
	ctx, cancel := context.WithCancel(s.baseCtx)
	cd := &countdown{cancel: cancel, done: make(chan struct{})}
	sess.timer = cd
	tick := s.cfg.TickInterval

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(cd.done)
		defer cd.stop()

		ticker := time.NewTicker(tick)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			sess.mu.Lock()
			if ctx.Err() != nil {
				sess.mu.Unlock()
				return
			}
			expired, err := sess.attempt.Tick(tick)
			sess.mu.Unlock()
			if err != nil {
				return
			}
			if !expired {
				continue
			}

			recordCtx, cancelRecord := context.WithTimeout(context.Background(), timeoutRecordDeadline)
			_, err = s.finishAttempt(recordCtx, sess, domain.FinishTimeout)
			cancelRecord()
			if err != nil && !domain.HasCode(err, domain.CodeInvalidState) && !domain.HasCode(err, domain.CodeNotFound) {
				logger.Get().Error("Timed-out attempt could not be finished",
					zap.String("attemptID", sess.attempt.ID), zap.Error(err))
			}
			return
		}
	}()
}
