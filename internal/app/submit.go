package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var submissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "order_submissions_total",
	Help: "Order submission attempts by mode and outcome.",
}, []string{"mode", "outcome"})

func submitMode(post bool) string {
	if post {
		return "posted"
	}
	return "draft"
}

func (s *appService) SubmissionState() SubmissionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SubmitOrder snapshots the draft and sends it once. While the request is in
// flight, and until the confirmed draft resets, further calls fail with
// ErrSubmissionPending. A failed submission leaves the draft untouched.
func (s *appService) SubmitOrder(ctx context.Context, post bool) (*SubmitResult, error) {
	mode := submitMode(post)

	s.mu.Lock()
	if s.state != SubmissionIdle {
		s.mu.Unlock()
		submissionsTotal.WithLabelValues(mode, "pending").Inc()
		return nil, ErrSubmissionPending
	}
	sub, err := s.draft.Submission(s.opts.Now(), post)
	if err != nil {
		s.mu.Unlock()
		submissionsTotal.WithLabelValues(mode, "invalid").Inc()
		return nil, err
	}
	s.state = SubmissionInFlight
	gen := s.generation
	s.mu.Unlock()

	err = s.orders.CreateOrder(ctx, sub)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = SubmissionIdle
		submissionsTotal.WithLabelValues(mode, "failed").Inc()
		log.Printf("order submission failed: %v", err)
		return nil, fmt.Errorf("failed to submit order: %w", err)
	}
	submissionsTotal.WithLabelValues(mode, "ok").Inc()
	log.Printf("order submitted: %s, %d lines, total %s", mode, len(sub.Lines), sub.TotalNet.StringFixed(2))

	result := &SubmitResult{Posted: post, Lines: len(sub.Lines), TotalNet: sub.TotalNet, ResetAfter: s.opts.ConfirmDelay}
	switch {
	case gen != s.generation:
		// The draft was reset while the request was in flight.
		s.state = SubmissionIdle
		result.ResetAfter = 0
	case s.opts.ConfirmDelay <= 0:
		s.state = SubmissionConfirmed
		s.resetLocked()
	default:
		s.state = SubmissionConfirmed
		s.resetTimer = time.AfterFunc(s.opts.ConfirmDelay, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.generation == gen {
				s.resetLocked()
			}
		})
	}
	return result, nil
}
