package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"platecheck/internal/bootstrap/logging"
	domainquality "platecheck/internal/domain/quality"
	"platecheck/internal/domain/session"
	"platecheck/internal/errs"
	"platecheck/internal/ports"
	"platecheck/internal/usecase/quality"
)

type handler struct {
	svc      *quality.Service
	settings Settings
}

type errorResponse struct {
	Error string `json:"error"`
}

type sessionResponse struct {
	Role               string `json:"role"`
	SelectedBranch     string `json:"selected_branch,omitempty"`
	AdminAuthenticated bool   `json:"admin_authenticated"`
}

type checkResponse struct {
	ID          uint64 `json:"id"`
	Branch      string `json:"branch"`
	ChefName    string `json:"chef_name"`
	DishName    string `json:"dish_name"`
	Score       int    `json:"score"`
	Notes       string `json:"notes,omitempty"`
	CreatedAt   string `json:"created_at"`
	SubmittedBy string `json:"submitted_by,omitempty"`
}

type submitResponse struct {
	Check        checkResponse `json:"check"`
	Mirrored     bool          `json:"mirrored"`
	MirrorNotice string        `json:"mirror_notice,omitempty"`
}

type reportResponse struct {
	TotalChecks       int `json:"total_checks"`
	BestBranchByCount struct {
		Branch string `json:"branch"`
		Count  int    `json:"count"`
	} `json:"best_branch_by_count"`
	BestAvgBranch struct {
		Branch      string  `json:"branch"`
		Avg         float64 `json:"avg"`
		Count       int     `json:"count"`
		SmallSample bool    `json:"small_sample"`
	} `json:"best_avg_branch"`
	TopChef struct {
		Chef  string  `json:"chef"`
		Avg   float64 `json:"avg"`
		Count int     `json:"count"`
	} `json:"top_chef"`
	TopDishByCount struct {
		Dish  string `json:"dish"`
		Count int    `json:"count"`
	} `json:"top_dish_by_count"`
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireRole blocks every downstream surface until the session picked a
// role. Hard precondition, not a hint.
func (h *handler) requireRole(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state := stateFromContext(r.Context())
		if state == nil || !state.HasRole() {
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "select a branch or headquarters role first"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *handler) sessionState(w http.ResponseWriter, r *http.Request) {
	writeSessionState(w, stateFromContext(r.Context()))
}

func (h *handler) selectRole(w http.ResponseWriter, r *http.Request) {
	state := stateFromContext(r.Context())

	var body struct {
		Role   string `json:"role"`
		Branch string `json:"branch"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	var err error
	switch body.Role {
	case string(session.RoleBranch):
		err = state.SelectBranch(body.Branch, h.settings.Branches)
	case string(session.RoleHeadquarters):
		err = state.SelectHeadquarters()
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "role must be \"branch\" or \"headquarters\""})
		return
	}

	if errors.Is(err, session.ErrRoleAlreadySet) {
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		return
	}
	if errors.Is(err, session.ErrUnknownBranch) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		h.internalError(w, r, err, "select role")
		return
	}

	writeSessionState(w, state)
}

func (h *handler) logout(w http.ResponseWriter, r *http.Request) {
	state := stateFromContext(r.Context())
	state.Logout()
	writeSessionState(w, state)
}

func (h *handler) adminLogin(w http.ResponseWriter, r *http.Request) {
	state := stateFromContext(r.Context())

	var body struct {
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	if !state.LoginAdmin(body.Password, h.settings.AdminPassword) {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "wrong admin password"})
		return
	}
	writeSessionState(w, state)
}

func (h *handler) adminLogout(w http.ResponseWriter, r *http.Request) {
	state := stateFromContext(r.Context())
	state.LogoutAdmin()
	writeSessionState(w, state)
}

func (h *handler) submitCheck(w http.ResponseWriter, r *http.Request) {
	state := stateFromContext(r.Context())

	var body struct {
		Branch   string `json:"branch"`
		ChefName string `json:"chef_name"`
		DishName string `json:"dish_name"`
		Score    int    `json:"score"`
		Notes    string `json:"notes"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	input := quality.SubmitCheckInput{
		Branch:   body.Branch,
		ChefName: body.ChefName,
		DishName: body.DishName,
		Score:    body.Score,
		Notes:    body.Notes,
	}
	switch state.Role() {
	case session.RoleBranch:
		input.SubmittedBy = domainquality.SubmittedByBranch
		// Branch sessions submit for their own branch only.
		input.Branch = state.SelectedBranch()
	case session.RoleHeadquarters:
		input.SubmittedBy = domainquality.SubmittedByMeta
	}

	result, err := h.svc.SubmitCheck(r.Context(), input)
	if errors.Is(err, domainquality.ErrValidation) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if errors.Is(err, domainquality.ErrDuplicate) {
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		h.internalError(w, r, err, "submit check")
		return
	}

	writeJSON(w, http.StatusCreated, submitResponse{
		Check:        mapCheckResponse(result.Check),
		Mirrored:     result.Mirrored,
		MirrorNotice: result.MirrorNotice,
	})
}

func (h *handler) listChecks(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Snapshot(r.Context())
	if err != nil {
		h.internalError(w, r, err, "list checks")
		return
	}

	out := make([]checkResponse, 0, len(items))
	for _, item := range items {
		out = append(out, mapCheckResponse(item))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) report(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.BuildReport(r.Context())
	if err != nil {
		h.internalError(w, r, err, "build report")
		return
	}

	var out reportResponse
	out.TotalChecks = report.TotalChecks
	out.BestBranchByCount.Branch = report.BestBranchByCount.Branch
	out.BestBranchByCount.Count = report.BestBranchByCount.Count
	out.BestAvgBranch.Branch = report.BestAvgBranch.Branch
	out.BestAvgBranch.Avg = report.BestAvgBranch.Avg
	out.BestAvgBranch.Count = report.BestAvgBranch.Count
	out.BestAvgBranch.SmallSample = report.BestAvgBranch.SmallSample
	out.TopChef.Chef = report.TopChef.Chef
	out.TopChef.Avg = report.TopChef.Avg
	out.TopChef.Count = report.TopChef.Count
	out.TopDishByCount.Dish = report.TopDishByCount.Dish
	out.TopDishByCount.Count = report.TopDishByCount.Count

	writeJSON(w, http.StatusOK, out)
}

func (h *handler) insight(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Question string `json:"question"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	answer, err := h.svc.Insight(r.Context(), body.Question)
	if errors.Is(err, ports.ErrAssistantNotConfigured) {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "insight assistant is not configured"})
		return
	}
	if err != nil {
		h.internalError(w, r, err, "ask insight")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

func (h *handler) insightPing(w http.ResponseWriter, r *http.Request) {
	answer, err := h.svc.InsightPing(r.Context())
	if errors.Is(err, ports.ErrAssistantNotConfigured) {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "insight assistant is not configured"})
		return
	}
	if err != nil {
		h.internalError(w, r, err, "ping insight")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

func (h *handler) internalError(w http.ResponseWriter, r *http.Request, err error, op string) {
	logging.Error(r.Context(), op+" failed", slog.Any("err", errs.Loggable(err)))
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: op + " failed"})
}

func mapCheckResponse(item quality.CheckItem) checkResponse {
	return checkResponse{
		ID:          item.ID,
		Branch:      item.Branch,
		ChefName:    item.ChefName,
		DishName:    item.DishName,
		Score:       item.Score,
		Notes:       item.Notes,
		CreatedAt:   item.CreatedAt,
		SubmittedBy: item.SubmittedBy,
	}
}

func writeSessionState(w http.ResponseWriter, state *session.State) {
	writeJSON(w, http.StatusOK, sessionResponse{
		Role:               string(state.Role()),
		SelectedBranch:     state.SelectedBranch(),
		AdminAuthenticated: state.AdminAuthenticated(),
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
