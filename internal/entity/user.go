package entity

import (
	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users"`

	BasicEntity
	TenantID  *int    `json:"tenant_id"  bun:"tenant_id"`
	Email     *string `json:"email"      bun:"email"`
	Password  *string `json:"password"   bun:"password"`
	Role      *string `json:"role"       bun:"role"`
	FullName  *string `json:"full_name"  bun:"full_name"`
	BadgeCode *string `json:"badge_code" bun:"badge_code"`
	Phone     *string `json:"phone"      bun:"phone"`
}
