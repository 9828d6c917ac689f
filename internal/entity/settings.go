package entity

import (
	"github.com/uptrace/bun"
)

type AttendanceSettings struct {
	bun.BaseModel `bun:"table:attendance_settings"`

	BasicEntity
	TenantID        *int     `json:"tenant_id" bun:"tenant_id"`
	GeofenceEnabled *bool    `json:"geofence_enabled" bun:"geofence_enabled"`
	RadiusMeters    *float64 `json:"radius_meters" bun:"radius_meters"`
	FullDayHours    *float64 `json:"full_day_hours" bun:"full_day_hours"`
	WorkingDays     []bool   `json:"working_days" bun:"working_days,type:jsonb"`
}

type OfficeLocation struct {
	bun.BaseModel `bun:"table:office_locations"`

	BasicEntity
	TenantID  *int     `json:"tenant_id" bun:"tenant_id"`
	Name      *string  `json:"name" bun:"name"`
	Latitude  *float64 `json:"latitude" bun:"latitude"`
	Longitude *float64 `json:"longitude" bun:"longitude"`
	Address   *string  `json:"address" bun:"address"`
	Position  *int     `json:"position" bun:"position"`
}
