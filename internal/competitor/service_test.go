package competitor_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChenteAlv/oh-sansi-back/internal/competitor"
	"github.com/ChenteAlv/oh-sansi-back/internal/user"
)

type fakeRepo struct {
	exists    bool
	createErr error

	createdUsers       []*user.User
	createdCompetitors []*competitor.Competitor
}

func (f *fakeRepo) ExistsByEmailOrCI(ctx context.Context, email, ci string) (bool, error) {
	return f.exists, nil
}

func (f *fakeRepo) CreateWithUser(ctx context.Context, u *user.User, c *competitor.Competitor) error {
	if f.createErr != nil {
		return f.createErr
	}
	u.ID = len(f.createdUsers) + 1
	u.Role = &user.Role{ID: 1, Name: user.RoleCompetitor}
	c.ID = len(f.createdCompetitors) + 1
	c.UserID = u.ID
	c.User = u
	f.createdUsers = append(f.createdUsers, u)
	f.createdCompetitors = append(f.createdCompetitors, c)
	return nil
}

func (f *fakeRepo) GetByUserID(ctx context.Context, userID int) (*competitor.Competitor, error) {
	return nil, competitor.ErrCompetitorNotFound
}

// Reference date for every age check in this file.
var referenceDate = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(repo *fakeRepo) competitor.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return competitor.NewServiceWithClock(repo, nil, logger, func() time.Time { return referenceDate })
}

func validInput() competitor.RegisterInput {
	return competitor.RegisterInput{
		Name:       "Valeria",
		Surname:    "Condori",
		Email:      "valeria.condori@example.com",
		CI:         "9876543",
		BirthDate:  "2010-01-01", // age 14 at the reference date
		SchoolID:   3,
		ProvinceID: 2,
	}
}

func TestRegister_Success(t *testing.T) {
	repo := &fakeRepo{}
	service := newTestService(repo)

	result, err := service.Register(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, "valeria.condori@example.com", result.Credentials.Email)
	// The bootstrap password is the CI, verbatim.
	assert.Equal(t, "9876543", result.Credentials.Password)

	require.Len(t, repo.createdUsers, 1)
	require.Len(t, repo.createdCompetitors, 1)
	assert.Equal(t, "9876543", repo.createdUsers[0].Password)
	assert.Equal(t, user.RoleCompetitor, result.Competitor.User.Role.Name)
	assert.Equal(t, "9876543", result.Competitor.CI)
	assert.Equal(t, 3, result.Competitor.SchoolID)
	assert.Equal(t, time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC), result.Competitor.BirthDate)
}

func TestRegister_AgeEligibility(t *testing.T) {
	cases := []struct {
		name      string
		birthDate string
		wantErr   bool
	}{
		{"AgeFourteen", "2010-01-01", false},
		{"ExactlyNineToday", "2015-06-01", false},
		{"ExactlyEighteenToday", "2006-06-01", false},
		{"EighteenBirthdayPassed", "2006-05-31", false},
		{"EighteenBirthdayNotYetReached", "2005-06-02", false},
		{"NineteenToday", "2005-06-01", true},
		{"EightTurnsNineTomorrow", "2015-06-02", true},
		{"TooYoung", "2017-01-01", true},
		{"TooOld", "2000-01-01", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeRepo{}
			service := newTestService(repo)

			input := validInput()
			input.BirthDate = tc.birthDate

			_, err := service.Register(context.Background(), input)
			if tc.wantErr {
				var vErr *competitor.ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, "birthDate", vErr.Field)
				assert.Contains(t, vErr.Detail, "age must be between 9 and 18")
				assert.Empty(t, repo.createdUsers)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestRegister_Validation(t *testing.T) {
	cases := []struct {
		name      string
		mutate    func(*competitor.RegisterInput)
		wantField string
	}{
		{"MissingName", func(in *competitor.RegisterInput) { in.Name = "" }, "name"},
		{"NameTooShort", func(in *competitor.RegisterInput) { in.Name = "A" }, "name"},
		{"SurnameTooShort", func(in *competitor.RegisterInput) { in.Surname = "B" }, "surname"},
		{"InvalidEmail", func(in *competitor.RegisterInput) { in.Email = "not-an-email" }, "email"},
		{"CITooShort", func(in *competitor.RegisterInput) { in.CI = "123" }, "ci"},
		{"InvalidBirthDate", func(in *competitor.RegisterInput) { in.BirthDate = "01/01/2010" }, "birthDate"},
		{"MissingSchool", func(in *competitor.RegisterInput) { in.SchoolID = 0 }, "schoolId"},
		{"MissingProvince", func(in *competitor.RegisterInput) { in.ProvinceID = 0 }, "provinceId"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeRepo{}
			service := newTestService(repo)

			input := validInput()
			tc.mutate(&input)

			_, err := service.Register(context.Background(), input)
			var vErr *competitor.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.wantField, vErr.Field)
			assert.Empty(t, repo.createdUsers)
		})
	}
}

func TestRegister_FailFastReportsFirstField(t *testing.T) {
	repo := &fakeRepo{}
	service := newTestService(repo)

	input := validInput()
	input.Name = ""
	input.Email = "broken"
	input.CI = "1"

	_, err := service.Register(context.Background(), input)
	var vErr *competitor.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "name", vErr.Field)
}

func TestRegister_Duplicate(t *testing.T) {
	repo := &fakeRepo{exists: true}
	service := newTestService(repo)

	_, err := service.Register(context.Background(), validInput())
	assert.ErrorIs(t, err, competitor.ErrDuplicateRegistration)
	assert.Empty(t, repo.createdUsers)
	assert.Empty(t, repo.createdCompetitors)
}

func TestRegister_CreateErrorPropagates(t *testing.T) {
	storeErr := errors.New("connection reset")
	repo := &fakeRepo{createErr: storeErr}
	service := newTestService(repo)

	_, err := service.Register(context.Background(), validInput())
	assert.ErrorIs(t, err, storeErr)
}
