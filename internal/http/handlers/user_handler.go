package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/alexedwards/argon2id"

	"github.com/diagnosis/taipei-trip/internal/domain"
	"github.com/diagnosis/taipei-trip/internal/http/middleware"
	"github.com/diagnosis/taipei-trip/internal/http/response"
	"github.com/diagnosis/taipei-trip/internal/platform/auth"
	"github.com/diagnosis/taipei-trip/internal/repo/postgres"
	"github.com/diagnosis/taipei-trip/internal/utils"
	"github.com/diagnosis/taipei-trip/pkg/logger"
)

type UserHandler struct {
	Users  postgres.UsersRepo
	Tokens *auth.TokenIssuer
}

func NewUserHandler(users postgres.UsersRepo, tokens *auth.TokenIssuer) *UserHandler {
	return &UserHandler{Users: users, Tokens: tokens}
}

func (h *UserHandler) signup(w http.ResponseWriter, r *http.Request) {
	var in domain.SignupReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Fail(w, http.StatusBadRequest, "invalid json")
		return
	}
	if in.Name == "" || in.Password == "" || !utils.IsValidEmail(in.Email) {
		response.Fail(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	email := utils.NormalizeEmail(in.Email)
	hash, err := argon2id.CreateHash(in.Password, argon2id.DefaultParams)
	if err != nil {
		response.Err(w, r, domain.Wrap(domain.KindInternal, "failed to hash password", err))
		return
	}

	u, err := h.Users.Create(r.Context(), in.Name, email, hash)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	token, err := h.Tokens.Issue(u.ID, u.Name, u.Email)
	if err != nil {
		response.Err(w, r, domain.Wrap(domain.KindInternal, "failed to issue token", err))
		return
	}

	logger.InfoContext(r.Context(), "user signed up", "user_id", u.ID)
	response.JSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *UserHandler) signin(w http.ResponseWriter, r *http.Request) {
	var in domain.SigninReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Email == "" || in.Password == "" {
		response.Fail(w, http.StatusBadRequest, "email and password are required")
		return
	}

	u, err := h.Users.FindByEmail(r.Context(), utils.NormalizeEmail(in.Email))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	if u == nil {
		response.Fail(w, http.StatusBadRequest, "email or password is incorrect")
		return
	}

	ok, _ := argon2id.ComparePasswordAndHash(in.Password, u.PasswordHash)
	if !ok {
		response.Fail(w, http.StatusBadRequest, "email or password is incorrect")
		return
	}

	token, err := h.Tokens.Issue(u.ID, u.Name, u.Email)
	if err != nil {
		response.Err(w, r, domain.Wrap(domain.KindInternal, "failed to issue token", err))
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *UserHandler) me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Identity(r)
	response.Data(w, map[string]interface{}{
		"id":    claims.ID,
		"name":  claims.Name,
		"email": claims.Email,
	})
}
