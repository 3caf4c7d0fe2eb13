package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/cbonnaire/tidyquest/internal/auth"
	"github.com/cbonnaire/tidyquest/internal/middleware"
	"github.com/cbonnaire/tidyquest/internal/model"
	"github.com/cbonnaire/tidyquest/internal/store"
)

const sessionMaxAge = 30 * 24 * 60 * 60 // seconds, matches the session TTL

type AuthHandler struct {
	users       *store.UserStore
	sessions    *store.SessionStore
	invitations *store.InvitationStore
	rankings    *store.RankingStore
	logger      *slog.Logger
}

func NewAuthHandler(us *store.UserStore, ss *store.SessionStore, is *store.InvitationStore, rs *store.RankingStore, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{users: us, sessions: ss, invitations: is, rankings: rs, logger: logger}
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, r *http.Request, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
}

// Register creates an account from a single-use invitation code and
// signs the new user in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code     string `json:"code"`
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if req.Code == "" || req.Email == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "code, email, and name are required")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	invitation, err := h.invitations.GetByCode(req.Code)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check invitation")
		return
	}
	if invitation == nil {
		writeError(w, http.StatusBadRequest, "invitation code is invalid or expired")
		return
	}
	if invitation.Email != "" && !strings.EqualFold(invitation.Email, req.Email) {
		writeError(w, http.StatusBadRequest, "invitation was issued for a different email")
		return
	}

	existing, err := h.users.GetByEmail(req.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check email")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	user, err := h.users.Create(req.Email, req.Name, string(hash), invitation.Role)
	if err != nil {
		h.logger.Error("create user", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	if err := h.invitations.MarkUsed(invitation.ID); err != nil {
		h.logger.Error("mark invitation used", "id", invitation.ID, "error", err)
	}
	if err := h.rankings.Ensure(user.ID); err != nil {
		h.logger.Error("seed ranking entry", "user_id", user.ID, "error", err)
	}

	sess, err := h.sessions.Create(user.ID)
	if err != nil {
		h.logger.Error("create session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	h.setSessionCookie(w, r, sess.Token, sessionMaxAge)

	writeJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := h.users.PasswordHash(req.Email)
	if err != nil {
		h.logger.Error("login lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	// Same response for unknown email and wrong password.
	if hash == "" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "incorrect email or password")
		return
	}

	user, err := h.users.GetByEmail(req.Email)
	if err != nil || user == nil {
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	sess, err := h.sessions.Create(user.ID)
	if err != nil {
		h.logger.Error("create session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	h.setSessionCookie(w, r, sess.Token, sessionMaxAge)

	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if ac, ok := auth.FromContext(r.Context()); ok {
		if err := h.sessions.Delete(ac.SessionID); err != nil {
			h.logger.Error("delete session", "error", err)
		}
	}
	h.setSessionCookie(w, r, "", -1)
	w.WriteHeader(http.StatusNoContent)
}

// CreateInvitation issues a registration code. Admin only.
func (h *AuthHandler) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Role == "" {
		req.Role = model.RoleMember
	}
	if req.Role != model.RoleMember && req.Role != model.RoleAdmin {
		writeError(w, http.StatusBadRequest, "role must be member or admin")
		return
	}

	creatorID := auth.UserID(r.Context())
	invitation, err := h.invitations.Create(strings.ToLower(strings.TrimSpace(req.Email)), req.Role, &creatorID)
	if err != nil {
		h.logger.Error("create invitation", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create invitation")
		return
	}

	writeJSON(w, http.StatusCreated, invitation)
}

func (h *AuthHandler) ListInvitations(w http.ResponseWriter, r *http.Request) {
	invitations, err := h.invitations.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list invitations")
		return
	}
	if invitations == nil {
		invitations = []model.Invitation{}
	}
	writeJSON(w, http.StatusOK, invitations)
}
