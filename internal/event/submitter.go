package event

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/nhle/insyd/internal/backend"
	"github.com/nhle/insyd/internal/logging"
	"github.com/nhle/insyd/internal/model"
)

const (
	// SuccessMessage is shown after the backend accepts an event.
	SuccessMessage = "Event sent successfully!"

	// FallbackMessage is shown when a failure carries no server message.
	FallbackMessage = "Failed to send event. Please try again."
)

// ErrSubmitInFlight is returned when the form already has a submission in
// flight.
var ErrSubmitInFlight = errors.New("submission already in progress")

// SubmissionError reports an event the backend did not accept. Message is
// what the user is shown.
type SubmissionError struct {
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submitting event: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// Creator posts a new event to the backend.
type Creator interface {
	CreateEvent(ctx context.Context, draft model.EventDraft) (*backend.EventResponse, error)
}

// Recorder keeps a history of submissions.
type Recorder interface {
	RecordSubmission(ctx context.Context, sub model.Submission) error
}

// Submitter sends forms as events on behalf of a fixed source user.
type Submitter struct {
	client       Creator
	sourceUserID string
	now          func() time.Time
	recorder     Recorder
	log          logrus.FieldLogger
}

// Option configures a Submitter.
type Option func(*Submitter)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Submitter) { s.now = now }
}

// WithRecorder records every submission outcome.
func WithRecorder(r Recorder) Option {
	return func(s *Submitter) { s.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Submitter) { s.log = log }
}

// NewSubmitter creates a Submitter sending as sourceUserID.
func NewSubmitter(client Creator, sourceUserID string, opts ...Option) *Submitter {
	s := &Submitter{
		client:       client,
		sourceUserID: sourceUserID,
		now:          time.Now,
		log:          logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithField("component", "event")
	return s
}

// Submit posts the form once. On success the content is cleared and the
// status is set to SuccessMessage, which is also returned. On failure the
// content is kept, the status is set to the server's message or
// FallbackMessage, and a *SubmissionError is returned. Category and target
// are never changed. If ctx is cancelled the form is left as it was.
func (s *Submitter) Submit(ctx context.Context, form *Form) (string, error) {
	values, ok := form.begin()
	if !ok {
		return "", ErrSubmitInFlight
	}

	at := s.now()
	draft := model.NewEventDraft(
		values.Category,
		s.sourceUserID,
		values.TargetUserID,
		values.Content,
		at,
	)

	log := s.log.WithFields(logrus.Fields{
		"type":   draft.Type,
		"target": draft.TargetUserID,
	})

	resp, err := s.client.CreateEvent(ctx, draft)

	if ctx.Err() != nil {
		form.abandon()
		log.Debug("submission abandoned after session end")
		if err == nil {
			err = ctx.Err()
		}
		return "", err
	}

	sub := model.Submission{
		Type:         draft.Type,
		TargetUserID: draft.TargetUserID,
		Content:      draft.Data.Content,
		SubmittedAt:  at,
	}

	if err != nil {
		msg := strings.TrimSpace(backend.ServerMessage(err))
		if msg == "" {
			msg = FallbackMessage
		}
		form.settle(msg, false)

		if apiErr, ok := backend.AsAPIError(err); ok {
			sub.StatusCode = apiErr.StatusCode
		}
		sub.Message = msg
		s.record(ctx, sub)

		log.WithError(err).WithField("status", sub.StatusCode).Warn("event submission failed")
		return msg, &SubmissionError{Message: msg, Err: err}
	}

	form.settle(SuccessMessage, true)

	sub.StatusCode = resp.StatusCode
	sub.Message = SuccessMessage
	sub.Succeeded = true
	s.record(ctx, sub)

	log.WithField("status", resp.StatusCode).Info("event submitted")
	return SuccessMessage, nil
}

func (s *Submitter) record(ctx context.Context, sub model.Submission) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordSubmission(ctx, sub); err != nil {
		s.log.WithError(err).Warn("unable to record submission")
	}
}
