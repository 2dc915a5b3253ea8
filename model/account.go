package model

import (
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleEmployee:
		return RoleEmployee, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) Valid() bool {
	return r == RoleEmployee || r == RoleAdmin
}

// AdminRole is only meaningful when Role is RoleAdmin. The zero value means none.
type AdminRole string

const (
	AdminRoleNone       AdminRole = ""
	AdminRoleEditor     AdminRole = "editor"
	AdminRoleSuperadmin AdminRole = "superadmin"
)

func ParseAdminRole(s string) (AdminRole, error) {
	switch AdminRole(strings.ToLower(strings.TrimSpace(s))) {
	case AdminRoleNone:
		return AdminRoleNone, nil
	case AdminRoleEditor:
		return AdminRoleEditor, nil
	case AdminRoleSuperadmin:
		return AdminRoleSuperadmin, nil
	}
	return "", fmt.Errorf("unknown admin role %q", s)
}

// Field names a profile attribute that must be unique across all accounts.
type Field string

const (
	FieldEmail      Field = "email"
	FieldUsername   Field = "username"
	FieldEmployeeID Field = "employeeId"
	FieldNationalID Field = "nationalId"
)

// UniqueFields lists the unique profile fields in the order they are checked.
var UniqueFields = []Field{FieldEmail, FieldUsername, FieldEmployeeID, FieldNationalID}

// Column returns the storage column backing the field.
func (f Field) Column() string {
	switch f {
	case FieldEmail:
		return "email"
	case FieldUsername:
		return "username"
	case FieldEmployeeID:
		return "employee_id"
	case FieldNationalID:
		return "national_id"
	}
	return ""
}

type UserAccount struct {
	ID           string    `gorm:"primaryKey;column:id;size:64" db:"id" json:"uid"`
	FirstName    string    `gorm:"size:100" db:"first_name" json:"firstName"`
	LastName     string    `gorm:"size:100" db:"last_name" json:"lastName"`
	Email        string    `gorm:"size:255;not null;uniqueIndex:idx_user_accounts_email" db:"email" json:"email"`
	Username     string    `gorm:"size:100;not null;uniqueIndex:idx_user_accounts_username" db:"username" json:"username"`
	EmployeeID   string    `gorm:"column:employee_id;size:64;not null;uniqueIndex:idx_user_accounts_employee_id" db:"employee_id" json:"employeeId"`
	NationalID   string    `gorm:"column:national_id;size:64;not null;uniqueIndex:idx_user_accounts_national_id" db:"national_id" json:"nic"`
	Role         Role      `gorm:"column:role;size:16;not null;index" db:"role" json:"type"`
	AdminRole    AdminRole `gorm:"column:admin_role;size:16" db:"admin_role" json:"adminRole,omitempty"`
	ProfileImage string    `gorm:"size:512" db:"profile_image" json:"profileImage"`
	IsActive     bool      `gorm:"not null;default:true" db:"is_active" json:"isActive"`
	CreatedBy    string    `gorm:"size:64" db:"created_by" json:"createdBy"`
	CreatedAt    time.Time `gorm:"not null;<-:create" db:"created_at" json:"createdAt"`
}

func (UserAccount) TableName() string {
	return "user_accounts"
}

func (u *UserAccount) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Value returns the value of a unique field.
func (u *UserAccount) Value(f Field) string {
	switch f {
	case FieldEmail:
		return u.Email
	case FieldUsername:
		return u.Username
	case FieldEmployeeID:
		return u.EmployeeID
	case FieldNationalID:
		return u.NationalID
	}
	return ""
}
