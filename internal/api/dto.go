package api

import (
	"github.com/ablecalc/able-calculator/internal/domain"
	"github.com/ablecalc/able-calculator/internal/rates"
)

// CalculateRequest is the body of POST /api/calculate. Input fields sit at
// the top level, using the scenario file's snake_case names.
type CalculateRequest struct {
	Label      string `json:"label,omitempty"`
	UsePlanMax bool   `json:"use_state_plan_max,omitempty"`
	domain.CalculationInput
}

// CalculateResponse is a projection report plus the history ID it was
// recorded under, if any.
type CalculateResponse struct {
	RunID string `json:"run_id,omitempty"`
	*domain.ProjectionReport
}

// StateSummaryDTO is one entry of GET /api/states.
type StateSummaryDTO struct {
	Code string          `json:"code"`
	Name string          `json:"name"`
	Plan domain.PlanInfo `json:"plan"`
}

// StateDTO is the full state table returned by GET /api/states/{code}.
type StateDTO struct {
	StateSummaryDTO
	Brackets map[domain.FilingStatus][]domain.TaxBracket `json:"brackets,omitempty"`
	Benefits map[domain.FilingStatus]domain.StateBenefit `json:"benefits,omitempty"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// StateSummaries lists every state in tables, sorted by code.
func StateSummaries(tables *rates.Tables) []StateSummaryDTO {
	states := make([]StateSummaryDTO, 0, len(tables.States))
	for _, code := range tables.StateCodes() {
		states = append(states, toStateSummary(code, tables.State(code)))
	}
	return states
}

func toStateSummary(code string, st *rates.StateTable) StateSummaryDTO {
	return StateSummaryDTO{Code: code, Name: st.Name, Plan: st.Plan}
}

func toStateDTO(code string, st *rates.StateTable) StateDTO {
	return StateDTO{
		StateSummaryDTO: toStateSummary(code, st),
		Brackets:        st.Brackets,
		Benefits:        st.Benefits,
	}
}
