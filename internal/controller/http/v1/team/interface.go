package team

import (
	"context"

	"taskact/backend/internal/repository/postgres/user"
)

type Team interface {
	GetList(ctx context.Context, filter user.Filter) ([]user.GetListResponse, int, error)
	GetDetailById(ctx context.Context, id int) (user.GetDetailByIdResponse, error)
	Create(ctx context.Context, request user.CreateRequest) (user.CreateResponse, error)
	UpdateColumns(ctx context.Context, request user.UpdateRequest) error
	Delete(ctx context.Context, id int) error
	GetBadgeById(ctx context.Context, id int) (user.BadgeResponse, error)
	GetBadgeList(ctx context.Context) ([]user.BadgeResponse, error)
}
