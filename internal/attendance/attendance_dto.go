package attendance

type UpsertAttendanceRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Date       string `json:"date" binding:"required"`
	TimeIn     string `json:"time_in"`
	TimeOut    string `json:"time_out"`
}

type EditAttendanceRequest struct {
	TimeIn  string `json:"time_in"`
	TimeOut string `json:"time_out"`
}

type ToggleAttendanceRequest struct {
	Present bool `json:"present"`
}

type RevertAttendanceRequest struct {
	LogID string `json:"log_id"`
}

type AttendanceResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	TimeIn     string `json:"time_in"`
	TimeOut    string `json:"time_out"`
	Source     string `json:"source"`
	Present    bool   `json:"present"`
}

type AttendanceLogResponse struct {
	ID        string `json:"id"`
	TimeIn    string `json:"time_in"`
	TimeOut   string `json:"time_out"`
	Source    string `json:"source"`
	Action    string `json:"action"`
	ChangedBy string `json:"changed_by,omitempty"`
	CreatedAt string `json:"created_at"`
}

type ImportSkip struct {
	Row            int    `json:"row"`
	EmployeeNumber string `json:"employee_number,omitempty"`
	Reason         string `json:"reason"`
}

type ImportResult struct {
	Imported         int          `json:"imported"`
	Skipped          []ImportSkip `json:"skipped"`
	RecomputedMonths int          `json:"recomputed_months"`
}
