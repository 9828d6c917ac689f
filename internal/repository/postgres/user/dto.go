package user

import (
	"time"

	"github.com/uptrace/bun"
)

type Filter struct {
	Limit  *int
	Offset *int
	Page   *int
	Search *string
}

type SignInRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type AuthClaims struct {
	ID       int
	TenantId int
	Role     string
	Type     string
}

type RefreshTokenRequest struct {
	AccessToken  string `json:"access_token" form:"access_token"`
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

type GetListResponse struct {
	ID        int     `json:"id"`
	Email     *string `json:"email"`
	FullName  *string `json:"full_name"`
	Role      *string `json:"role"`
	Phone     *string `json:"phone"`
	BadgeCode *string `json:"badge_code"`
}

type GetDetailByIdResponse struct {
	ID        int     `json:"id"`
	Email     *string `json:"email"`
	FullName  *string `json:"full_name"`
	Role      *string `json:"role"`
	Phone     *string `json:"phone"`
	BadgeCode *string `json:"badge_code"`
}

type CreateRequest struct {
	Email    *string `json:"email" form:"email"`
	Password *string `json:"password" form:"password"`
	Role     *string `json:"role" form:"role"`
	FullName *string `json:"full_name" form:"full_name"`
	Phone    *string `json:"phone" form:"phone"`
}

type CreateResponse struct {
	bun.BaseModel `bun:"table:users"`

	ID        int       `json:"id" bun:"-"`
	TenantID  int       `json:"-" bun:"tenant_id"`
	Email     *string   `json:"email" bun:"email"`
	Password  *string   `json:"-" bun:"password"`
	Role      *string   `json:"role" bun:"role"`
	FullName  *string   `json:"full_name" bun:"full_name"`
	Phone     *string   `json:"phone" bun:"phone"`
	BadgeCode *string   `json:"badge_code" bun:"badge_code"`
	CreatedAt time.Time `json:"-" bun:"created_at"`
	CreatedBy int       `json:"-" bun:"created_by"`
}

type UpdateRequest struct {
	ID       int     `json:"id" form:"id"`
	Email    *string `json:"email" form:"email"`
	Password *string `json:"password" form:"password"`
	Role     *string `json:"role" form:"role"`
	FullName *string `json:"full_name" form:"full_name"`
	Phone    *string `json:"phone" form:"phone"`
}

type BadgeResponse struct {
	ID        int     `json:"id"`
	FullName  *string `json:"full_name"`
	BadgeCode *string `json:"badge_code"`
}
