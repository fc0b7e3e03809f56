package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/cleberfit/diariodecarga/internal/auth"
	"github.com/cleberfit/diariodecarga/internal/middleware"
	"github.com/cleberfit/diariodecarga/internal/telemetry/metrics"
	"github.com/cleberfit/diariodecarga/internal/telemetry/tracing"
	"github.com/cleberfit/diariodecarga/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// SessionCookieName is the cookie the frontend sends back on every request.
const SessionCookieName = "session_token"

//go:generate mockgen -source=$GOFILE -destination=users_mocks_test.go -package=users_test

type usersRepo interface {
	Create(ctx context.Context, nome, email, passwordHash string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

type LoginResponse struct {
	Success bool      `json:"success"`
	User    LoginUser `json:"user"`
	Message string    `json:"message"`
}

type LoginUser struct {
	Nome  string `json:"nome"`
	Email string `json:"email"`
}

type Handler struct {
	repo        usersRepo
	authService *auth.Service
	metrics     *metrics.Manager
}

func NewHandler(
	repo usersRepo,
	authService *auth.Service,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		repo:        repo,
		authService: authService,
		metrics:     metricsManager,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	loginRateLimitAllowedPerMin int,
	metricsManager *metrics.Manager,
) {
	authRouter := mainRouter.PathPrefix("/api").Subrouter()
	authRouter.
		HandleFunc("/cadastro", handler.handleCadastro).
		Methods("POST", "OPTIONS").Name("cadastro")
	authRouter.
		HandleFunc("/login", handler.handleLogin).
		Methods("POST", "OPTIONS").Name("login")
	authRouter.
		HandleFunc("/logout", handler.handleLogout).
		Methods("GET", "POST", "OPTIONS").Name("logout")

	// rate limit the auth endpoints to prevent abuse
	authRouter.Use(middleware.RateLimit(rateLimiter, "auth", loginRateLimitAllowedPerMin, metricsManager))
}

func (handler *Handler) handleCadastro(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.cadastro")
	defer span.End()

	type cadastroRequest struct {
		Nome  string `json:"nome"`
		Email string `json:"email"`
		Senha string `json:"senha"`
	}

	var req cadastroRequest
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Errorf("cadastro, unmarshal json params: %s", err)
			pkg.WriteJSONError(w, "Dados incompletos.", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("cadastro failed, parse form error: %s", err)
			pkg.WriteJSONError(w, "Erro no servidor.", http.StatusInternalServerError)
			return
		}
		req = cadastroRequest{
			Nome:  r.Form.Get("nome"),
			Email: r.Form.Get("email"),
			Senha: r.Form.Get("senha"),
		}
	}

	if req.Nome == "" || req.Email == "" || req.Senha == "" {
		pkg.WriteJSONError(w, "Dados incompletos.", http.StatusBadRequest)
		return
	}

	passwordHash, err := pkg.HashPassword(req.Senha)
	if err != nil {
		log.Errorf("cadastro failed, hash password: %s", err)
		pkg.WriteJSONError(w, "Erro ao cadastrar.", http.StatusInternalServerError)
		return
	}

	user, err := handler.repo.Create(ctx, req.Nome, req.Email, passwordHash)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			pkg.WriteJSONError(w, "Email já existe.", http.StatusConflict)
			return
		}
		log.Errorf("cadastro failed for [%s]: %s", req.Email, err)
		pkg.WriteJSONError(w, "Erro ao cadastrar.", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterRegistrations.Inc()
	log.Debugf("new user registered: %d [%s]", user.ID, user.Email)
	pkg.WriteJSONResponseOK(w, `{"success":true,"message":"Cadastro realizado!"}`)
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.login")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	type loginRequest struct {
		Email string `json:"email"`
		Senha string `json:"senha"`
	}

	var req loginRequest
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Errorf("login, unmarshal json params: %s", err)
			pkg.WriteJSONError(w, "Dados incompletos.", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("login failed, parse form error: %s", err)
			pkg.WriteJSONError(w, "Erro no servidor.", http.StatusInternalServerError)
			return
		}
		req = loginRequest{
			Email: r.Form.Get("email"),
			Senha: r.Form.Get("senha"),
		}
	}

	if req.Email == "" || req.Senha == "" {
		pkg.WriteJSONError(w, "Dados incompletos.", http.StatusBadRequest)
		return
	}

	user, err := handler.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			log.Tracef("[email] failed login attempt for: %s", req.Email)
			pkg.WriteJSONError(w, "Credenciais inválidas.", http.StatusUnauthorized)
			return
		}
		log.Errorf("login failed for [%s]: %s", req.Email, err)
		pkg.WriteJSONError(w, "Erro no servidor.", http.StatusInternalServerError)
		return
	}

	if !pkg.CheckPasswordHash(req.Senha, user.PasswordHash) {
		log.Tracef("[password] failed login attempt for: %s", req.Email)
		pkg.WriteJSONError(w, "Credenciais inválidas.", http.StatusUnauthorized)
		return
	}

	token, err := handler.authService.Login(ctx, user.ID, time.Now())
	if err != nil {
		log.Errorf("login failed, generate token error: %s", err)
		pkg.WriteJSONError(w, "Erro no servidor.", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(auth.DefaultTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	resp := LoginResponse{
		Success: true,
		User: LoginUser{
			Nome:  user.Nome,
			Email: user.Email,
		},
		Message: "Logado!",
	}
	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("login, marshal response: %s", err)
		pkg.WriteJSONError(w, "Erro no servidor.", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterLogins.Inc()
	log.Tracef("new login success: %d", user.ID)
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

// handleLogout destroys the session behind the cookie, when there is one.
// It always reports success, logging out twice is fine.
func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.logout")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if _, err := handler.authService.Logout(ctx, cookie.Value); err != nil {
			log.Errorf("logout, destroy session: %s", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	pkg.WriteJSONResponseOK(w, `{"success":true}`)
}
