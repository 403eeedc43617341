package competitor

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/ChenteAlv/oh-sansi-back/internal/user"
)

type Region struct {
	bun.BaseModel `bun:"table:regions,alias:rg"`

	ID   int    `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"name,notnull" json:"name"`
}

type Province struct {
	bun.BaseModel `bun:"table:provinces,alias:pv"`

	ID       int    `bun:"id,pk,autoincrement" json:"id"`
	Name     string `bun:"name,notnull" json:"name"`
	RegionID int    `bun:"region_id,notnull" json:"regionId"`

	Region *Region `bun:"rel:belongs-to,join:region_id=id" json:"region,omitempty"`
}

type School struct {
	bun.BaseModel `bun:"table:schools,alias:sc"`

	ID   int    `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"name,notnull" json:"name"`
}

// Competitor is owned 1:1 by a User. CI is the national identity document
// number and must be unique across all competitors.
type Competitor struct {
	bun.BaseModel `bun:"table:competitors,alias:c"`

	ID         int       `bun:"id,pk,autoincrement" json:"id"`
	UserID     int       `bun:"user_id,unique,notnull" json:"userId"`
	CI         string    `bun:"ci,unique,notnull" json:"ci"`
	BirthDate  time.Time `bun:"birth_date,notnull" json:"birthDate"`
	SchoolID   int       `bun:"school_id,notnull" json:"schoolId"`
	ProvinceID int       `bun:"province_id,notnull" json:"provinceId"`

	User     *user.User `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	School   *School    `bun:"rel:belongs-to,join:school_id=id" json:"school,omitempty"`
	Province *Province  `bun:"rel:belongs-to,join:province_id=id" json:"province,omitempty"`
}

// RegisterInput is the request body for competitor registration. Fields are
// validated in declaration order; the first violation is reported.
type RegisterInput struct {
	Name       string `json:"name" validate:"required,min=2,max=50"`
	Surname    string `json:"surname" validate:"required,min=2,max=50"`
	Email      string `json:"email" validate:"required,email"`
	CI         string `json:"ci" validate:"required,min=5,max=20"`
	BirthDate  string `json:"birthDate" validate:"required,datetime=2006-01-02,competitor_age"`
	SchoolID   int    `json:"schoolId" validate:"required,gt=0"`
	ProvinceID int    `json:"provinceId" validate:"required,gt=0"`
}

// Credentials echoes the login pair back to the caller. The password is the
// competitor's CI until changed through the password endpoint.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegistrationResult struct {
	Competitor  *Competitor `json:"competitor"`
	Credentials Credentials `json:"credentials"`
}

// RegisteredEvent is published after a successful registration.
type RegisteredEvent struct {
	CompetitorID int    `json:"competitorId"`
	UserID       int    `json:"userId"`
	Email        string `json:"email"`
	SchoolID     int    `json:"schoolId"`
	ProvinceID   int    `json:"provinceId"`
}
