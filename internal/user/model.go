package user

import "github.com/uptrace/bun"

// RoleCompetitor is the role assigned to every account created through
// competitor registration.
const RoleCompetitor = "Competitor"

// RoleTutor marks accounts that approve or reject enrollments.
const RoleTutor = "Tutor"

type Role struct {
	bun.BaseModel `bun:"table:roles,alias:r"`

	ID   int    `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"name,unique,notnull" json:"name"`
}

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID       int    `bun:"id,pk,autoincrement" json:"id"`
	Name     string `bun:"name,notnull" json:"name"`
	Surname  string `bun:"surname,notnull" json:"surname"`
	Email    string `bun:"email,unique,notnull" json:"email"`
	Password string `bun:"password,notnull" json:"-"` // Never expose password in JSON
	RoleID   int    `bun:"role_id,notnull" json:"roleId"`

	Role *Role `bun:"rel:belongs-to,join:role_id=id" json:"role,omitempty"`
}
