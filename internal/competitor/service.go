package competitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/ChenteAlv/oh-sansi-back/internal/messaging"
	"github.com/ChenteAlv/oh-sansi-back/internal/user"
)

// Age eligibility window, inclusive, measured against the current date.
const (
	MinAge = 9
	MaxAge = 18
)

const birthDateLayout = "2006-01-02"

var ErrDuplicateRegistration = errors.New("a competitor with this email or CI is already registered")

// ValidationError reports the first field that failed registration validation.
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Detail)
}

type Service interface {
	Register(ctx context.Context, input RegisterInput) (*RegistrationResult, error)
}

type service struct {
	repo     Repository
	events   messaging.Producer
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo Repository, events messaging.Producer, logger *slog.Logger) Service {
	return NewServiceWithClock(repo, events, logger, time.Now)
}

// NewServiceWithClock injects the reference clock used for age eligibility.
func NewServiceWithClock(repo Repository, events messaging.Producer, logger *slog.Logger, now func() time.Time) Service {
	s := &service{
		repo:     repo,
		events:   events,
		validate: validator.New(),
		logger:   logger,
		now:      now,
	}
	// Age rule runs after required+datetime on the same field, so an
	// unparsable date is reported as a date error, not an age error.
	_ = s.validate.RegisterValidation("competitor_age", func(fl validator.FieldLevel) bool {
		birth, err := time.Parse(birthDateLayout, fl.Field().String())
		if err != nil {
			return true
		}
		age := ageAt(birth, s.now())
		return age >= MinAge && age <= MaxAge
	})
	return s
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*RegistrationResult, error) {
	if err := s.validate.Struct(input); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return nil, validationError(fieldErrs[0])
		}
		return nil, err
	}

	// Pre-check is an optimization; the unique constraints decide under races.
	exists, err := s.repo.ExistsByEmailOrCI(ctx, input.Email, input.CI)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateRegistration
	}

	birthDate, err := time.Parse(birthDateLayout, input.BirthDate)
	if err != nil {
		return nil, &ValidationError{Field: "birthDate", Detail: "must be a valid date in YYYY-MM-DD format"}
	}

	u := &user.User{
		Name:    input.Name,
		Surname: input.Surname,
		Email:   input.Email,
		// Bootstrap credential: the CI verbatim, rotated through the
		// password endpoint after first login.
		Password: input.CI,
	}
	c := &Competitor{
		CI:         input.CI,
		BirthDate:  birthDate,
		SchoolID:   input.SchoolID,
		ProvinceID: input.ProvinceID,
	}

	if err := s.repo.CreateWithUser(ctx, u, c); err != nil {
		if isIntegrityViolation(err) {
			return nil, ErrDuplicateRegistration
		}
		return nil, err
	}

	s.publishRegistered(ctx, c)

	return &RegistrationResult{
		Competitor: c,
		Credentials: Credentials{
			Email:    input.Email,
			Password: input.CI,
		},
	}, nil
}

// publishRegistered is best effort; a messaging outage never fails the registration.
func (s *service) publishRegistered(ctx context.Context, c *Competitor) {
	if s.events == nil {
		return
	}
	event := RegisteredEvent{
		CompetitorID: c.ID,
		UserID:       c.UserID,
		SchoolID:     c.SchoolID,
		ProvinceID:   c.ProvinceID,
	}
	if c.User != nil {
		event.Email = c.User.Email
	}
	if err := s.events.Publish(ctx, fmt.Sprintf("%d", c.ID), event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish competitor registered event",
			"competitor_id", c.ID, "error", err)
	}
}

func isIntegrityViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.IntegrityViolation()
}

// ageAt computes full calendar years between birth and ref.
func ageAt(birth, ref time.Time) int {
	age := ref.Year() - birth.Year()
	if ref.Month() < birth.Month() || (ref.Month() == birth.Month() && ref.Day() < birth.Day()) {
		age--
	}
	return age
}

// validationError maps the first failing field to a caller-facing message.
func validationError(fe validator.FieldError) *ValidationError {
	field := jsonField(fe.StructField())

	switch fe.Tag() {
	case "required":
		return &ValidationError{Field: field, Detail: "is required"}
	case "min", "max":
		switch field {
		case "name", "surname":
			return &ValidationError{Field: field, Detail: "must be between 2 and 50 characters"}
		case "ci":
			return &ValidationError{Field: field, Detail: "must be between 5 and 20 characters"}
		}
	case "email":
		return &ValidationError{Field: field, Detail: "must be a valid email address"}
	case "datetime":
		return &ValidationError{Field: field, Detail: "must be a valid date in YYYY-MM-DD format"}
	case "competitor_age":
		return &ValidationError{
			Field:  field,
			Detail: fmt.Sprintf("age must be between %d and %d years", MinAge, MaxAge),
		}
	case "gt":
		return &ValidationError{Field: field, Detail: "must be a positive integer"}
	}
	return &ValidationError{Field: field, Detail: "is invalid"}
}

func jsonField(structField string) string {
	switch structField {
	case "Name":
		return "name"
	case "Surname":
		return "surname"
	case "Email":
		return "email"
	case "CI":
		return "ci"
	case "BirthDate":
		return "birthDate"
	case "SchoolID":
		return "schoolId"
	case "ProvinceID":
		return "provinceId"
	}
	return structField
}
