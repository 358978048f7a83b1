package httpapi

import (
	"net/http"
	"strings"

	"github.com/Lion-ishimwe/rightseat-sub001/internal/auth"
	"github.com/Lion-ishimwe/rightseat-sub001/internal/portal"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expires_in"`
	User      *portal.User `json:"user"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := a.portal.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		// One message for every failure mode so probing reveals nothing.
		writeError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, expiresIn, err := auth.IssueToken(user.ID)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}

	actor := auth.Principal{UserID: user.ID, CompanyID: user.CompanyID, Email: user.Email, Role: user.Role}
	a.audit(r, actor, "auth.login", "user", user.ID, nil, nil)

	respond(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresIn: expiresIn,
		User:      user,
	})
}

type meResponse struct {
	User     *portal.User     `json:"user"`
	Employee *portal.Employee `json:"employee,omitempty"`
	Perms    []string         `json:"permissions"`
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	p, ok := a.principal(w, r)
	if !ok {
		return
	}
	_, user, employee, err := a.portal.Identify(r.Context(), p.UserID)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	respond(w, http.StatusOK, meResponse{
		User:     user,
		Employee: employee,
		Perms:    a.policy.Permissions(p.Role),
	})
}
