package enrollment

import (
	"context"

	"github.com/ChenteAlv/oh-sansi-back/internal/competitor"
)

type Service interface {
	CompetitorSubmissions(ctx context.Context, userID int) ([]SubmissionGroup, error)
	CompetitorEnrollments(ctx context.Context, userID int) ([]View, error)
}

type service struct {
	competitors competitor.Repository
	repo        Repository
}

func NewService(competitors competitor.Repository, repo Repository) Service {
	return &service{
		competitors: competitors,
		repo:        repo,
	}
}

// CompetitorSubmissions groups the tutor decisions of the competitor owned by
// userID by enrollment, in first-seen order.
func (s *service) CompetitorSubmissions(ctx context.Context, userID int) ([]SubmissionGroup, error) {
	comp, err := s.competitors.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.TutorEnrollmentsByCompetitor(ctx, comp.ID)
	if err != nil {
		return nil, err
	}

	return groupSubmissions(records), nil
}

// CompetitorEnrollments returns the competitor's enrollments as display rows,
// newest first, with rejection detail resolved.
func (s *service) CompetitorEnrollments(ctx context.Context, userID int) ([]View, error) {
	comp, err := s.competitors.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	enrollments, err := s.repo.EnrollmentsByCompetitor(ctx, comp.ID)
	if err != nil {
		return nil, err
	}

	views := make([]View, 0, len(enrollments))
	for _, e := range enrollments {
		views = append(views, buildView(e))
	}
	return views, nil
}

// groupSubmissions folds tutor decisions into per-enrollment groups. Group
// order is the first occurrence of each enrollment id in the input, so two
// calls over unchanged data produce identical output.
func groupSubmissions(records []TutorEnrollment) []SubmissionGroup {
	groups := make([]SubmissionGroup, 0, len(records))
	index := make(map[int]int, len(records))

	for _, rec := range records {
		i, seen := index[rec.EnrollmentID]
		if !seen {
			group := SubmissionGroup{
				EnrollmentID: rec.EnrollmentID,
				Tutors:       []TutorDecision{},
			}
			if rec.Enrollment != nil {
				group.Date = rec.Enrollment.Date
				group.Status = rec.Enrollment.Status
				if group.Status == "" {
					group.Status = StatusPending
				}
			}
			groups = append(groups, group)
			i = len(groups) - 1
			index[rec.EnrollmentID] = i
		}

		decision := TutorDecision{
			Approved:     rec.Approved,
			ApprovalDate: rec.ApprovalDate,
		}
		if rec.Tutor != nil && rec.Tutor.User != nil {
			decision.FirstName = rec.Tutor.User.Name
			decision.LastName = rec.Tutor.User.Surname
		}
		groups[i].Tutors = append(groups[i].Tutors, decision)
	}

	return groups
}

func buildView(e Enrollment) View {
	view := View{
		ID:         e.ID,
		Area:       "Not assigned",
		Category:   "Not assigned",
		Grade:      "Not specified",
		Level:      "Not specified",
		Call:       "Not assigned",
		Date:       e.Date,
		Status:     StatusPending,
		StatusDate: e.StatusDate,
		Rejection:  rejectionFor(e),
	}

	if e.Area != nil {
		view.Area = e.Area.Name
	}
	if e.Category != nil {
		view.Category = e.Category.Name
		if e.Category.MinGrade != nil {
			view.Grade = e.Category.MinGrade.Name
			if e.Category.MinGrade.Level != nil {
				view.Level = e.Category.MinGrade.Level.Name
			}
		}
	}
	if e.Call != nil {
		view.Call = e.Call.Name
	}
	if e.Status != "" {
		view.Status = e.Status
	}

	return view
}

// rejectionFor resolves the first unapproved tutor decision that carries a
// reason id or free text. Nil when the enrollment has no qualifying record.
func rejectionFor(e Enrollment) *string {
	for _, te := range e.TutorEnrollments {
		if te.Approved {
			continue
		}
		if te.RejectionReasonID == nil && te.RejectionDescription == nil {
			continue
		}

		if te.RejectionReasonID != nil {
			text := ""
			if te.RejectionDescription != nil {
				text = *te.RejectionDescription
			}
			message, ok := DescribeRejectionReason(*te.RejectionReasonID, text)
			if !ok {
				message = "Reason unspecified"
			}
			return &message
		}

		// Free text without a reason id. The approval flow always records
		// id 7 alongside a description, but tolerate legacy rows.
		return te.RejectionDescription
	}
	return nil
}
