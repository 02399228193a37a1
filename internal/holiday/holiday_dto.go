package holiday

type CreateHolidayRequest struct {
	Name       string `json:"name" binding:"required"`
	Type       string `json:"type" binding:"required"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
	Multiplier string `json:"multiplier"`
}

type UpdateHolidayRequest = CreateHolidayRequest

type HolidayResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Multiplier string `json:"multiplier"`
}

// HolidayDayResponse is one expanded calendar day of a (possibly
// multi-day) holiday, as listed by the month calendar endpoint.
type HolidayDayResponse struct {
	Date       string `json:"date"`
	HolidayID  string `json:"holiday_id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Multiplier string `json:"multiplier"`
}
