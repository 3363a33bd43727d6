package booking

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/coachwave/backend/internal/models"
)

// Step is the wizard position. A draft only moves forward through validated
// submissions and backward through explicit Back calls.
type Step string

const (
	StepDetails   Step = "details"
	StepDatetime  Step = "datetime"
	StepReview    Step = "review"
	StepSubmitted Step = "submitted"
)

var ErrWrongStep = errors.New("operation not valid for current step")

type Details struct {
	Title       string `json:"title" validate:"required"`
	SessionType string `json:"session_type" validate:"required,oneof=video phone chat in-person"`
	Description string `json:"description" validate:"max=1000"`
	Location    string `json:"location" validate:"required_if=SessionType in-person"`
}

type Schedule struct {
	ScheduledStart time.Time `json:"scheduled_start"`
	ScheduledEnd   time.Time `json:"scheduled_end"`
}

// Draft accumulates booking fields across wizard steps. It lives only in the
// draft store; nothing is persisted until Submit succeeds.
type Draft struct {
	ID        string    `json:"id"`
	ClientID  int64     `json:"client_id"`
	CoachID   int64     `json:"coach_id"`
	Step      Step      `json:"step"`
	Details   Details   `json:"details"`
	Schedule  Schedule  `json:"schedule"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateSessionInput struct {
	ClientID       int64
	CoachID        int64
	Title          string
	Description    *string
	SessionType    string
	Location       *string
	ScheduledStart time.Time
	ScheduledEnd   time.Time
}

type SessionCreator interface {
	CreateSession(ctx context.Context, input CreateSessionInput) (*models.Session, error)
}

type Wizard struct {
	validate *validator.Validate
	creator  SessionCreator
}

func NewWizard(creator SessionCreator) *Wizard {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Wizard{validate: v, creator: creator}
}

// SubmitDetails gates details -> datetime. On validation failure the draft
// stays at details and the error names the offending field.
func (w *Wizard) SubmitDetails(draft *Draft, input Details) error {
	if draft.Step != StepDetails {
		return ErrWrongStep
	}

	input.Title = strings.TrimSpace(input.Title)
	input.SessionType = strings.TrimSpace(input.SessionType)
	input.Description = strings.TrimSpace(input.Description)
	input.Location = strings.TrimSpace(input.Location)

	if err := w.validate.Struct(input); err != nil {
		return fieldErrorFrom(err)
	}

	draft.Details = input
	draft.Step = StepDatetime
	return nil
}

// SubmitSchedule gates datetime -> review on the interval invariant.
func (w *Wizard) SubmitSchedule(draft *Draft, input Schedule) error {
	if draft.Step != StepDatetime {
		return ErrWrongStep
	}
	if fieldErr := ValidateInterval(input.ScheduledStart, input.ScheduledEnd); fieldErr != nil {
		return fieldErr
	}
	draft.Schedule = input
	draft.Step = StepReview
	return nil
}

// Back moves one step toward details. It never re-validates already-entered
// steps and is a no-op at the first step. Submitted drafts are terminal.
func (w *Wizard) Back(draft *Draft) error {
	switch draft.Step {
	case StepReview:
		draft.Step = StepDatetime
	case StepDatetime:
		draft.Step = StepDetails
	case StepDetails:
	default:
		return ErrWrongStep
	}
	return nil
}

// Submit finalizes a reviewed draft through the session creator. On failure
// the draft stays at review so the caller can retry without re-entering data.
func (w *Wizard) Submit(ctx context.Context, draft *Draft) (*models.Session, error) {
	if draft.Step != StepReview {
		return nil, ErrWrongStep
	}

	input := CreateSessionInput{
		ClientID:       draft.ClientID,
		CoachID:        draft.CoachID,
		Title:          draft.Details.Title,
		SessionType:    draft.Details.SessionType,
		ScheduledStart: draft.Schedule.ScheduledStart,
		ScheduledEnd:   draft.Schedule.ScheduledEnd,
	}
	if draft.Details.Description != "" {
		description := draft.Details.Description
		input.Description = &description
	}
	if draft.Details.Location != "" {
		location := draft.Details.Location
		input.Location = &location
	}

	session, err := w.creator.CreateSession(ctx, input)
	if err != nil {
		return nil, err
	}

	draft.Step = StepSubmitted
	return session, nil
}

func fieldErrorFrom(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return err
	}

	first := validationErrs[0]
	fieldErr := &FieldError{Field: first.Field()}
	switch first.Tag() {
	case "required", "required_if":
		fieldErr.Code = CodeRequired
		fieldErr.Message = first.Field() + " is required"
	case "max":
		fieldErr.Code = CodeTooLong
		fieldErr.Message = first.Field() + " must be at most " + first.Param() + " characters"
	default:
		fieldErr.Code = CodeInvalidValue
		fieldErr.Message = first.Field() + " is invalid"
	}
	return fieldErr
}
