package employee

type CreateEmployeeRequest struct {
	FullName         string `json:"full_name" binding:"required"`
	EmployeeNumber   string `json:"employee_number"`
	EmploymentTypeID string `json:"employment_type_id" binding:"required,uuid"`
	DailyRate        string `json:"daily_rate" binding:"required"`
	SSSContribution  string `json:"sss_contribution"`
	PhilHealth       string `json:"philhealth_contribution"`
	PagIbig          string `json:"pagibig_contribution"`
	HireDate         string `json:"hire_date" binding:"required"`
}

type UpdateEmployeeRequest struct {
	FullName         string `json:"full_name" binding:"required"`
	EmploymentTypeID string `json:"employment_type_id" binding:"required,uuid"`
	DailyRate        string `json:"daily_rate" binding:"required"`
	SSSContribution  string `json:"sss_contribution"`
	PhilHealth       string `json:"philhealth_contribution"`
	PagIbig          string `json:"pagibig_contribution"`
	HireDate         string `json:"hire_date" binding:"required"`
}

type EmployeeResponse struct {
	ID               string `json:"id"`
	EmployeeNumber   string `json:"employee_number"`
	FullName         string `json:"full_name"`
	EmploymentTypeID string `json:"employment_type_id"`
	DailyRate        string `json:"daily_rate"`
	SSSContribution  string `json:"sss_contribution"`
	PhilHealth       string `json:"philhealth_contribution"`
	PagIbig          string `json:"pagibig_contribution"`
	Status           string `json:"status"`
	HireDate         string `json:"hire_date"`
}
