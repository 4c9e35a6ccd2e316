package http

import (
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
)

type EmployeeHandler interface {
	Roster(w http.ResponseWriter, r *http.Request)
	RefreshRoster(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	rosterService employee.RosterService
}

func NewEmployeeHandler(rosterService employee.RosterService) EmployeeHandler {
	return &employeeHandlerImpl{
		rosterService: rosterService,
	}
}

// Roster implements EmployeeHandler
func (h *employeeHandlerImpl) Roster(w http.ResponseWriter, r *http.Request) {
	roster, err := h.rosterService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, roster)
}

// RefreshRoster implements EmployeeHandler
func (h *employeeHandlerImpl) RefreshRoster(w http.ResponseWriter, r *http.Request) {
	if err := h.rosterService.Refresh(r.Context()); err != nil {
		response.HandleError(w, err)
		return
	}

	roster, err := h.rosterService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee roster refreshed", roster)
}
