package enrollment

import (
	"context"

	"github.com/uptrace/bun"
)

type Repository interface {
	TutorEnrollmentsByCompetitor(ctx context.Context, competitorID int) ([]TutorEnrollment, error)
	EnrollmentsByCompetitor(ctx context.Context, competitorID int) ([]Enrollment, error)
}

type repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) Repository {
	return &repository{db: db}
}

// TutorEnrollmentsByCompetitor returns every tutor decision attached to the
// competitor's enrollments, with the parent enrollment and the tutor's user
// profile loaded. Insertion order is kept so grouping stays stable.
func (r *repository) TutorEnrollmentsByCompetitor(ctx context.Context, competitorID int) ([]TutorEnrollment, error) {
	var records []TutorEnrollment
	err := r.db.NewSelect().
		Model(&records).
		Relation("Enrollment").
		Relation("Tutor").
		Relation("Tutor.User").
		Join("JOIN enrollments AS e ON e.id = te.enrollment_id").
		Where("e.competitor_id = ?", competitorID).
		Order("te.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// EnrollmentsByCompetitor returns the competitor's enrollments with the full
// classification chain and tutor decisions, newest first.
func (r *repository) EnrollmentsByCompetitor(ctx context.Context, competitorID int) ([]Enrollment, error) {
	var enrollments []Enrollment
	err := r.db.NewSelect().
		Model(&enrollments).
		Relation("Area").
		Relation("Category").
		Relation("Category.MinGrade").
		Relation("Category.MinGrade.Level").
		Relation("Call").
		Relation("TutorEnrollments").
		Where("e.competitor_id = ?", competitorID).
		Order("e.date DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}
