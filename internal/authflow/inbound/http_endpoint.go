package inbound

import (
	"github.com/passgate/passgate/internal/authflow/usecase"
	"github.com/passgate/passgate/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the passwordless sign-in flow.
type HTTPEndpoint struct {
	uc uc
}

// SubmitEmail starts the sign-in flow for an email address.
// @Summary Submit email
// @Description Validates the email and issues a demo one-time code. The response echoes the code since no email is actually sent.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body SubmitEmailRequest true "Email payload"
// @Success 200 {object} router.successResponse{data=StateResponse} "Flow state after submission"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/email [post]
func (h *HTTPEndpoint) SubmitEmail(r *router.Request) (any, error) {
	var req SubmitEmailRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	st, err := h.uc.SubmitEmail(r.Context(), usecase.SubmitEmailInput{Email: req.Email})
	if err != nil {
		return nil, err
	}

	return newStateResponse(st), nil
}

// SubmitCode verifies a submitted one-time code.
// @Summary Submit one-time code
// @Description Verifies the code; a correct code yields a session and a signed session token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body SubmitCodeRequest true "Code payload"
// @Success 200 {object} router.successResponse{data=StateResponse} "Flow state after verification"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "No code entry in progress"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/otp [post]
func (h *HTTPEndpoint) SubmitCode(r *router.Request) (any, error) {
	var req SubmitCodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.SubmitCode(r.Context(), usecase.SubmitCodeInput{Code: req.Code})
	if err != nil {
		return nil, err
	}

	resp := newStateResponse(out.State)
	resp.SessionToken = out.SessionToken

	return resp, nil
}

// Resend reissues the one-time code for the pending identity.
// @Summary Resend code
// @Description Replaces the pending code, resets the attempt budget, and restarts the countdown.
// @Tags Auth
// @Produce json
// @Success 200 {object} router.successResponse{data=StateResponse} "Flow state after reissue"
// @Failure 422 {object} router.errorResponse "No code entry in progress"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/resend [post]
func (h *HTTPEndpoint) Resend(r *router.Request) (any, error) {
	st, err := h.uc.Resend(r.Context())
	if err != nil {
		return nil, err
	}

	return newStateResponse(st), nil
}

// Back abandons the code entry screen and returns to the email form.
// @Summary Back to email form
// @Description Clears the pending code and countdown and returns to the email form.
// @Tags Auth
// @Produce json
// @Success 200 {object} router.successResponse{data=StateResponse} "Flow state after going back"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/back [post]
func (h *HTTPEndpoint) Back(r *router.Request) (any, error) {
	st, err := h.uc.Back(r.Context())
	if err != nil {
		return nil, err
	}

	return newStateResponse(st), nil
}

// Logout ends the authenticated session.
// @Summary Logout
// @Description Ends the session and returns to the email form.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} router.successResponse{data=StateResponse} "Flow state after logout"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/logout [post]
func (h *HTTPEndpoint) Logout(r *router.Request) (any, error) {
	st, err := h.uc.Logout(r.Context())
	if err != nil {
		return nil, err
	}

	return newStateResponse(st), nil
}

// State returns the current flow state.
// @Summary Current flow state
// @Description Returns a read-only snapshot of the sign-in flow.
// @Tags Auth
// @Produce json
// @Success 200 {object} router.successResponse{data=StateResponse} "Current flow state"
// @Router /api/v1/auth/state [get]
func (h *HTTPEndpoint) State(_ *router.Request) (any, error) {
	return newStateResponse(h.uc.Snapshot()), nil
}
