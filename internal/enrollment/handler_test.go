package enrollment_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChenteAlv/oh-sansi-back/internal/competitor"
	"github.com/ChenteAlv/oh-sansi-back/internal/db"
	"github.com/ChenteAlv/oh-sansi-back/internal/enrollment"
	"github.com/ChenteAlv/oh-sansi-back/internal/testdb"
	"github.com/ChenteAlv/oh-sansi-back/internal/user"
)

func TestEnrollmentEndpoints_Shared(t *testing.T) {
	gin.SetMode(gin.TestMode)

	pgContainer := testdb.SetupSharedPostgres(t)
	defer pgContainer.Cleanup(t)

	pgContainer.RunMigrations(t,
		(*user.Role)(nil),
		(*user.User)(nil),
		(*competitor.Region)(nil),
		(*competitor.Province)(nil),
		(*competitor.School)(nil),
		(*competitor.Competitor)(nil),
		(*enrollment.Level)(nil),
		(*enrollment.Grade)(nil),
		(*enrollment.Category)(nil),
		(*enrollment.Area)(nil),
		(*enrollment.Call)(nil),
		(*enrollment.Tutor)(nil),
		(*enrollment.Enrollment)(nil),
		(*enrollment.TutorEnrollment)(nil),
	)

	ctx := context.Background()
	require.NoError(t, db.SeedRoles(ctx, pgContainer.DB, user.RoleCompetitor, user.RoleTutor))

	insert := func(t *testing.T, model interface{}) {
		t.Helper()
		_, err := pgContainer.DB.NewInsert().Model(model).Exec(ctx)
		require.NoError(t, err)
	}

	// Static geography and classification rows shared by all subtests.
	region := &competitor.Region{Name: "La Paz"}
	insert(t, region)
	province := &competitor.Province{Name: "Murillo", RegionID: region.ID}
	insert(t, province)
	school := &competitor.School{Name: "Unidad Educativa Bolivar"}
	insert(t, school)

	level := &enrollment.Level{Name: "Secondary"}
	insert(t, level)
	grade := &enrollment.Grade{Name: "2nd grade", LevelID: level.ID}
	insert(t, grade)
	category := &enrollment.Category{Name: "Senior", MinGradeID: grade.ID}
	insert(t, category)
	area := &enrollment.Area{Name: "Physics"}
	insert(t, area)
	call := &enrollment.Call{Name: "Oh! SanSi 2026"}
	insert(t, call)

	// Create handler ONCE and reuse across all subtests
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	competitorRepo := competitor.NewRepository(pgContainer.DB)
	repo := enrollment.NewRepository(pgContainer.DB)
	service := enrollment.NewService(competitorRepo, repo)
	handler := enrollment.NewHandler(service, logger, nil)
	router := gin.New()
	handler.RegisterRoutes(router)

	get := func(t *testing.T, path string) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	roleID := func(t *testing.T, name string) int {
		t.Helper()
		role := new(user.Role)
		require.NoError(t, pgContainer.DB.NewSelect().Model(role).Where("name = ?", name).Scan(ctx))
		return role.ID
	}

	seedCompetitor := func(t *testing.T, email, ci string) *competitor.Competitor {
		t.Helper()
		u := &user.User{
			Name:     "Andres",
			Surname:  "Flores",
			Email:    email,
			Password: ci,
			RoleID:   roleID(t, user.RoleCompetitor),
		}
		insert(t, u)
		c := &competitor.Competitor{
			UserID:     u.ID,
			CI:         ci,
			BirthDate:  time.Date(2012, 8, 15, 0, 0, 0, 0, time.UTC),
			SchoolID:   school.ID,
			ProvinceID: province.ID,
		}
		insert(t, c)
		return c
	}

	seedTutor := func(t *testing.T, email, first, last string) *enrollment.Tutor {
		t.Helper()
		u := &user.User{
			Name:     first,
			Surname:  last,
			Email:    email,
			Password: "irrelevant",
			RoleID:   roleID(t, user.RoleTutor),
		}
		insert(t, u)
		tutor := &enrollment.Tutor{UserID: u.ID}
		insert(t, tutor)
		return tutor
	}

	cleanup := func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB,
			"users", "competitors", "tutors", "enrollments", "tutor_enrollments")
	}

	t.Run("Submissions_CompetitorNotFound", func(t *testing.T) {
		cleanup(t)

		w := get(t, "/competitors/12345/submissions")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "competitor not found")
	})

	t.Run("Submissions_GroupedByEnrollment", func(t *testing.T) {
		cleanup(t)

		comp := seedCompetitor(t, "andres.flores@example.com", "5550123")
		tutorA := seedTutor(t, "tutor.a@example.com", "Carla", "Vargas")
		tutorB := seedTutor(t, "tutor.b@example.com", "Hugo", "Paredes")

		first := &enrollment.Enrollment{
			CompetitorID: comp.ID,
			Date:         time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			Status:       "Approved",
		}
		insert(t, first)
		second := &enrollment.Enrollment{
			CompetitorID: comp.ID,
			Date:         time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			Status:       enrollment.StatusPending,
		}
		insert(t, second)

		approvedAt := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
		insert(t, &enrollment.TutorEnrollment{
			EnrollmentID: first.ID, TutorID: tutorA.ID,
			Approved: true, ApprovalDate: &approvedAt,
		})
		insert(t, &enrollment.TutorEnrollment{
			EnrollmentID: second.ID, TutorID: tutorB.ID,
		})
		insert(t, &enrollment.TutorEnrollment{
			EnrollmentID: first.ID, TutorID: tutorB.ID,
		})

		w := get(t, "/competitors/"+itoa(comp.UserID)+"/submissions")
		require.Equal(t, http.StatusOK, w.Code)

		var groups []enrollment.SubmissionGroup
		require.NoError(t, json.NewDecoder(w.Body).Decode(&groups))
		require.Len(t, groups, 2)

		assert.Equal(t, first.ID, groups[0].EnrollmentID)
		assert.Equal(t, "Approved", groups[0].Status)
		require.Len(t, groups[0].Tutors, 2)
		assert.Equal(t, "Carla", groups[0].Tutors[0].FirstName)
		assert.Equal(t, "Vargas", groups[0].Tutors[0].LastName)
		assert.True(t, groups[0].Tutors[0].Approved)
		assert.Equal(t, "Hugo", groups[0].Tutors[1].FirstName)
		assert.False(t, groups[0].Tutors[1].Approved)

		assert.Equal(t, second.ID, groups[1].EnrollmentID)
		require.Len(t, groups[1].Tutors, 1)
		assert.Equal(t, "Hugo", groups[1].Tutors[0].FirstName)
	})

	t.Run("Submissions_EmptyForCompetitorWithoutRecords", func(t *testing.T) {
		cleanup(t)

		comp := seedCompetitor(t, "andres.flores@example.com", "5550123")

		w := get(t, "/competitors/"+itoa(comp.UserID)+"/submissions")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("Enrollments_NewestFirstWithRejection", func(t *testing.T) {
		cleanup(t)

		comp := seedCompetitor(t, "andres.flores@example.com", "5550123")
		tutor := seedTutor(t, "tutor.a@example.com", "Carla", "Vargas")

		older := &enrollment.Enrollment{
			CompetitorID: comp.ID,
			AreaID:       &area.ID,
			CategoryID:   &category.ID,
			CallID:       &call.ID,
			Date:         time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			Status:       "Rejected",
		}
		insert(t, older)
		newer := &enrollment.Enrollment{
			CompetitorID: comp.ID,
			Date:         time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC),
		}
		insert(t, newer)

		reasonID := 5
		insert(t, &enrollment.TutorEnrollment{
			EnrollmentID:      older.ID,
			TutorID:           tutor.ID,
			RejectionReasonID: &reasonID,
		})

		w := get(t, "/competitors/"+itoa(comp.UserID)+"/enrollments")
		require.Equal(t, http.StatusOK, w.Code)

		var views []enrollment.View
		require.NoError(t, json.NewDecoder(w.Body).Decode(&views))
		require.Len(t, views, 2)

		// Newest enrollment first; no relations means display fallbacks.
		assert.Equal(t, newer.ID, views[0].ID)
		assert.Equal(t, "Not assigned", views[0].Area)
		assert.Equal(t, "Not specified", views[0].Grade)
		assert.Equal(t, enrollment.StatusPending, views[0].Status)
		assert.Nil(t, views[0].Rejection)

		assert.Equal(t, older.ID, views[1].ID)
		assert.Equal(t, "Physics", views[1].Area)
		assert.Equal(t, "Senior", views[1].Category)
		assert.Equal(t, "2nd grade", views[1].Grade)
		assert.Equal(t, "Secondary", views[1].Level)
		assert.Equal(t, "Oh! SanSi 2026", views[1].Call)
		assert.Equal(t, "Rejected", views[1].Status)
		require.NotNil(t, views[1].Rejection)
		assert.Equal(t, "Competitor already enrolled in this area", *views[1].Rejection)
	})

	t.Run("Enrollments_CompetitorNotFound", func(t *testing.T) {
		cleanup(t)

		w := get(t, "/competitors/12345/enrollments")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("RejectionReasons_List", func(t *testing.T) {
		w := get(t, "/rejection-reasons")
		require.Equal(t, http.StatusOK, w.Code)

		var reasons []enrollment.RejectionReason
		require.NoError(t, json.NewDecoder(w.Body).Decode(&reasons))
		require.Len(t, reasons, 6)
		assert.Equal(t, 1, reasons[0].ID)
		assert.Equal(t, 7, reasons[5].ID)
	})
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
