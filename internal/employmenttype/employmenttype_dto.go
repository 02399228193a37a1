package employmenttype

type ScheduleEntryRequest struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	TimeIn    string `json:"time_in"`
	TimeOut   string `json:"time_out"`
	IsRestDay bool   `json:"is_rest_day"`
}

type CreateEmploymentTypeRequest struct {
	Name                     string                 `json:"name" binding:"required"`
	RequiresTimeTracking     *bool                  `json:"requires_time_tracking"`
	HoursProportional        bool                   `json:"hours_proportional"`
	GracePeriodMinutes       int                    `json:"grace_period_minutes"`
	UnpaidBreakMinutes       int                    `json:"unpaid_break_minutes"`
	OvertimeThresholdMinutes int                    `json:"overtime_threshold_minutes"`
	OvertimeCapMinutes       int                    `json:"overtime_cap_minutes"`
	OvertimeMultiplier       string                 `json:"overtime_multiplier"`
	NightWindowStart         string                 `json:"night_window_start"`
	NightWindowEnd           string                 `json:"night_window_end"`
	NightDiffMultiplier      string                 `json:"night_diff_multiplier"`
	Schedule                 []ScheduleEntryRequest `json:"schedule" binding:"required"`
}

type UpdateEmploymentTypeRequest = CreateEmploymentTypeRequest

type ScheduleEntryResponse struct {
	Weekday   int    `json:"weekday"`
	TimeIn    string `json:"time_in,omitempty"`
	TimeOut   string `json:"time_out,omitempty"`
	IsRestDay bool   `json:"is_rest_day"`
}

type EmploymentTypeResponse struct {
	ID                       string                  `json:"id"`
	Name                     string                  `json:"name"`
	RequiresTimeTracking     bool                    `json:"requires_time_tracking"`
	HoursProportional        bool                    `json:"hours_proportional"`
	GracePeriodMinutes       int                     `json:"grace_period_minutes"`
	UnpaidBreakMinutes       int                     `json:"unpaid_break_minutes"`
	OvertimeThresholdMinutes int                     `json:"overtime_threshold_minutes"`
	OvertimeCapMinutes       int                     `json:"overtime_cap_minutes"`
	OvertimeMultiplier       string                  `json:"overtime_multiplier"`
	NightWindowStart         string                  `json:"night_window_start"`
	NightWindowEnd           string                  `json:"night_window_end"`
	NightDiffMultiplier      string                  `json:"night_diff_multiplier"`
	Schedule                 []ScheduleEntryResponse `json:"schedule"`
}

type ScheduleWindowResponse struct {
	Date                 string `json:"date"`
	TimeIn               string `json:"time_in,omitempty"`
	TimeOut              string `json:"time_out,omitempty"`
	IsRestDay            bool   `json:"is_rest_day"`
	RequiresTimeTracking bool   `json:"requires_time_tracking"`
}
