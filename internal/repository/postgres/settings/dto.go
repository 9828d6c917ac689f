package settings

type OfficeRequest struct {
	Name      *string  `json:"name" form:"name"`
	Latitude  *float64 `json:"latitude" form:"latitude"`
	Longitude *float64 `json:"longitude" form:"longitude"`
	Address   *string  `json:"address" form:"address"`
}

type UpdateSettingsRequest struct {
	GeofenceEnabled *bool           `json:"geofence_enabled" form:"geofence_enabled"`
	RadiusMeters    *float64        `json:"radius_meters" form:"radius_meters"`
	Offices         []OfficeRequest `json:"offices" form:"offices"`
}

type OfficeResponse struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   *string `json:"address"`
}

type GetSettingsResponse struct {
	GeofenceEnabled bool             `json:"geofence_enabled"`
	RadiusMeters    float64          `json:"radius_meters"`
	Offices         []OfficeResponse `json:"offices"`
}

type UpdateRulesRequest struct {
	FullDayHours *float64 `json:"full_day_hours" form:"full_day_hours"`
	WorkingDays  []bool   `json:"working_days" form:"working_days"`
}

type GetRulesResponse struct {
	FullDayHours float64 `json:"full_day_hours"`
	WorkingDays  []bool  `json:"working_days"`
}
