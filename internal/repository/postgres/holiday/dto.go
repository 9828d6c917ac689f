package holiday

import (
	"time"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/uptrace/bun"
)

type Filter struct {
	Year *int
}

type GetListResponse struct {
	ID     int        `json:"id"`
	Day    *date.Date `json:"day"`
	Name   *string    `json:"name"`
	IsPaid bool       `json:"is_paid"`
}

type CreateRequest struct {
	Day    *date.Date `json:"day" form:"day"`
	Name   *string    `json:"name" form:"name"`
	IsPaid *bool      `json:"is_paid" form:"is_paid"`
}

type CreateResponse struct {
	bun.BaseModel `bun:"table:holidays"`

	ID        int       `json:"id" bun:"-"`
	TenantID  int       `json:"-" bun:"tenant_id"`
	Day       string    `json:"day" bun:"day"`
	Name      *string   `json:"name" bun:"name"`
	IsPaid    bool      `json:"is_paid" bun:"is_paid"`
	CreatedAt time.Time `json:"-" bun:"created_at"`
	CreatedBy int       `json:"-" bun:"created_by"`
}
