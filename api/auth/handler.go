package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/fleetsense/autocare/api/httpx"
	"github.com/fleetsense/autocare/core/logger"
	"github.com/fleetsense/autocare/core/model"
	"github.com/fleetsense/autocare/core/storage"
)

const minPasswordLen = 8

// Handler serves registration, login and profile lookups.
type Handler struct {
	users  storage.UserRepository
	issuer *Issuer
	log    logger.Logger
}

// NewHandler creates the auth handler.
func NewHandler(users storage.UserRepository, issuer *Issuer, log logger.Logger) *Handler {
	return &Handler{users: users, issuer: issuer, log: log}
}

// Routes registers the public endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
}

// ProtectedRoutes registers the endpoints requiring a token.
func (h *Handler) ProtectedRoutes(r chi.Router) {
	r.Get("/profile", h.profile)
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type sessionResponse struct {
	Token string           `json:"token"`
	User  model.PublicUser `json:"user"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		httpx.Error(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	if len(req.Password) < minPasswordLen {
		httpx.Error(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "could not hash password")
		return
	}
	user, err := h.users.Create(r.Context(), model.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(req.Name),
	})
	if errors.Is(err, storage.ErrDuplicate) {
		httpx.Error(w, http.StatusConflict, "email already registered")
		return
	}
	if err != nil {
		h.log.Errorf("register: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "could not create account")
		return
	}
	token, err := h.issuer.Sign(user)
	if err != nil {
		h.log.Errorf("sign token: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	h.log.Infof("registered user %s", user.ID)
	httpx.RespondJSON(w, http.StatusCreated, sessionResponse{Token: token, User: user.Public()})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if errors.Is(err, storage.ErrNotFound) {
		httpx.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		h.log.Errorf("login lookup: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "could not log in")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		httpx.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, err := h.issuer.Sign(user)
	if err != nil {
		h.log.Errorf("sign token: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	httpx.RespondJSON(w, http.StatusOK, sessionResponse{Token: token, User: user.Public()})
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(r.Context(), UserID(r.Context()))
	if errors.Is(err, storage.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "account not found")
		return
	}
	if err != nil {
		h.log.Errorf("profile lookup: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "could not load profile")
		return
	}
	httpx.RespondJSON(w, http.StatusOK, user.Public())
}
