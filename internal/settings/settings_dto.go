package settings

type UpdateSettingsRequest struct {
	RegularHolidayMultiplier string `json:"regular_holiday_multiplier"`
	SpecialHolidayMultiplier string `json:"special_holiday_multiplier"`
	GrossPayFormula          string `json:"gross_pay_formula"`
	TotalDeductionsFormula   string `json:"total_deductions_formula"`
	NetPayFormula            string `json:"net_pay_formula"`
}

type SettingsResponse struct {
	RegularHolidayMultiplier string `json:"regular_holiday_multiplier"`
	SpecialHolidayMultiplier string `json:"special_holiday_multiplier"`
	GrossPayFormula          string `json:"gross_pay_formula"`
	TotalDeductionsFormula   string `json:"total_deductions_formula"`
	NetPayFormula            string `json:"net_pay_formula"`
}
