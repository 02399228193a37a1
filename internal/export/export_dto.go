package export

type RequestPayslipRequest struct {
	SummaryID   string `json:"summary_id" binding:"required,uuid"`
	RequestedBy string `json:"requested_by"`
}
