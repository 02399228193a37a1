package statistics

type MonthStatisticsResponse struct {
	Year            int    `json:"year"`
	Month           int    `json:"month"`
	MonthName       string `json:"month_name"`
	TotalAmount     string `json:"total_amount"`
	TotalDaysWorked int    `json:"total_days_worked"`
	TotalAbsences   int    `json:"total_absences"`
	EmployeeCount   int    `json:"employee_count"`
}
