package enrollment

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/ChenteAlv/oh-sansi-back/internal/user"
)

// StatusPending is the default enrollment status when none was recorded.
const StatusPending = "Pending"

type Level struct {
	bun.BaseModel `bun:"table:levels,alias:lv"`

	ID   int    `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"name,notnull" json:"name"`
}

type Grade struct {
	bun.BaseModel `bun:"table:grades,alias:g"`

	ID      int    `bun:"id,pk,autoincrement" json:"id"`
	Name    string `bun:"name,notnull" json:"name"`
	LevelID int    `bun:"level_id,notnull" json:"levelId"`

	Level *Level `bun:"rel:belongs-to,join:level_id=id" json:"level,omitempty"`
}

type Category struct {
	bun.BaseModel `bun:"table:categories,alias:cat"`

	ID         int    `bun:"id,pk,autoincrement" json:"id"`
	Name       string `bun:"name,notnull" json:"name"`
	MinGradeID int    `bun:"min_grade_id,notnull" json:"minGradeId"`

	MinGrade *Grade `bun:"rel:belongs-to,join:min_grade_id=id" json:"minGrade,omitempty"`
}

type Area struct {
	bun.BaseModel `bun:"table:areas,alias:a"`

	ID   int    `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"name,notnull" json:"name"`
}

// Call is a named competition edition enrollments are submitted under.
type Call struct {
	bun.BaseModel `bun:"table:calls,alias:cl"`

	ID   int    `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"name,notnull" json:"name"`
}

type Tutor struct {
	bun.BaseModel `bun:"table:tutors,alias:t"`

	ID     int `bun:"id,pk,autoincrement" json:"id"`
	UserID int `bun:"user_id,notnull" json:"userId"`

	User *user.User `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
}

// Enrollment registers a competitor into one area and category under a call.
// Enrollments are written by the enrollment intake flow and only read here.
type Enrollment struct {
	bun.BaseModel `bun:"table:enrollments,alias:e"`

	ID           int        `bun:"id,pk,autoincrement" json:"id"`
	CompetitorID int        `bun:"competitor_id,notnull" json:"competitorId"`
	AreaID       *int       `bun:"area_id" json:"areaId"`
	CategoryID   *int       `bun:"category_id" json:"categoryId"`
	CallID       *int       `bun:"call_id" json:"callId"`
	Date         time.Time  `bun:"date,notnull" json:"date"`
	Status       string     `bun:"status" json:"status"`
	StatusDate   *time.Time `bun:"status_date" json:"statusDate"`

	Area             *Area             `bun:"rel:belongs-to,join:area_id=id" json:"area,omitempty"`
	Category         *Category         `bun:"rel:belongs-to,join:category_id=id" json:"category,omitempty"`
	Call             *Call             `bun:"rel:belongs-to,join:call_id=id" json:"call,omitempty"`
	TutorEnrollments []TutorEnrollment `bun:"rel:has-many,join:id=enrollment_id" json:"tutorEnrollments,omitempty"`
}

// TutorEnrollment is one tutor's approval decision on one enrollment.
type TutorEnrollment struct {
	bun.BaseModel `bun:"table:tutor_enrollments,alias:te"`

	ID                   int        `bun:"id,pk,autoincrement" json:"id"`
	EnrollmentID         int        `bun:"enrollment_id,notnull" json:"enrollmentId"`
	TutorID              int        `bun:"tutor_id,notnull" json:"tutorId"`
	Approved             bool       `bun:"approved,notnull,default:false" json:"approved"`
	ApprovalDate         *time.Time `bun:"approval_date" json:"approvalDate"`
	RejectionReasonID    *int       `bun:"rejection_reason_id" json:"rejectionReasonId"`
	RejectionDescription *string    `bun:"rejection_description" json:"rejectionDescription"`

	Enrollment *Enrollment `bun:"rel:belongs-to,join:enrollment_id=id" json:"enrollment,omitempty"`
	Tutor      *Tutor      `bun:"rel:belongs-to,join:tutor_id=id" json:"tutor,omitempty"`
}

// TutorDecision is one tutor's entry inside a submission group.
type TutorDecision struct {
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Approved     bool       `json:"approved"`
	ApprovalDate *time.Time `json:"approvalDate"`
}

// SubmissionGroup aggregates the tutor decisions of one enrollment.
type SubmissionGroup struct {
	EnrollmentID int             `json:"enrollmentId"`
	Date         time.Time       `json:"date"`
	Status       string          `json:"status"`
	Tutors       []TutorDecision `json:"tutors"`
}

// View is the flattened per-enrollment status row, with display fallbacks
// applied for missing relations.
type View struct {
	ID         int        `json:"id"`
	Area       string     `json:"area"`
	Category   string     `json:"category"`
	Grade      string     `json:"grade"`
	Level      string     `json:"level"`
	Call       string     `json:"call"`
	Date       time.Time  `json:"date"`
	Status     string     `json:"status"`
	StatusDate *time.Time `json:"statusDate"`
	Rejection  *string    `json:"rejection"`
}
