package entity

import (
	"time"

	"github.com/abi-lab/backend/pkg/enum"
)

type Role string

var (
	RoleMember   = enum.New(Role("member"))
	RoleApprover = enum.New(Role("approver"))
	RoleAdmin    = enum.New(Role("admin"))
)

var roleRanks = map[Role]int{
	RoleMember:   0,
	RoleApprover: 1,
	RoleAdmin:    2,
}

// AtLeast reports whether r has the authority of other. Roles are totally
// ordered: member < approver < admin.
func (r Role) AtLeast(other Role) bool {
	rank, ok := roleRanks[r]
	if !ok {
		return false
	}

	return rank >= roleRanks[other]
}

type Profile struct {
	UserID      string `gorm:"primaryKey"`
	DisplayName string
	AvatarURL   string
	JobTitle    string
	Company     string
	Role        Role `gorm:"default:member"`

	Reputation    int `gorm:"not null;default:0"`
	CurrentStreak int `gorm:"not null;default:0"`
	LongestStreak int `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
