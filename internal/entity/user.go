package entity

import "github.com/koinonia-app/backend/pkg/enum"

type GlobalRole string

var (
	RoleSuperAdmin = enum.New(GlobalRole("super_admin"))
	RoleAdmin      = enum.New(GlobalRole("admin"))
	RolePro        = enum.New(GlobalRole("pro"))
	RoleMember     = enum.New(GlobalRole("member"))
)

var GlobalAdminRoles = []GlobalRole{RoleSuperAdmin, RoleAdmin}

type User struct {
	Base

	Name      string `gorm:"unique"`
	Role      GlobalRole
	AvatarURL string

	// Coins is the settled balance. It is only credited when a coin
	// transaction is approved, never at issue time. Signed because admin
	// adjustments can deduct.
	Coins int64

	IsNewUser bool
}
