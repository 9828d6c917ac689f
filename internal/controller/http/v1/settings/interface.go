package settings

import (
	"context"

	"taskact/backend/internal/repository/postgres/settings"
)

type Settings interface {
	GetSettings(ctx context.Context) (settings.GetSettingsResponse, error)
	UpdateSettings(ctx context.Context, request settings.UpdateSettingsRequest) error
	GetRules(ctx context.Context) (settings.GetRulesResponse, error)
	UpdateRules(ctx context.Context, request settings.UpdateRulesRequest) error
}
