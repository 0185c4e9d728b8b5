package handler

import (
	"context"  // provides context with cancellation for DB calls
	"errors"   // errors.Is against repository sentinels
	"net/http" // HTTP status codes and primitives
	"net/url"
	"strings" // string manipulation utilities
	"time"    // timeouts for DB calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/restaurant-reservation/internal/config"     // app configuration
	"github.com/iliyamo/restaurant-reservation/internal/model"      // user roles
	"github.com/iliyamo/restaurant-reservation/internal/notify"     // reset emails
	"github.com/iliyamo/restaurant-reservation/internal/repository" // DB repositories
	"github.com/iliyamo/restaurant-reservation/internal/utils"      // helper functions (hashing, token issuing)
)

// resetTokenTTL bounds how long a password reset link stays valid.
const resetTokenTTL = time.Hour

// recoveryMessage is returned whether or not the email is registered.
const recoveryMessage = "Si el correo está registrado, recibirás un enlace para restablecer tu contraseña"

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Resets *repository.ResetTokenRepo
	Email  notify.EmailSender
	Log    logrus.FieldLogger
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, r *repository.ResetTokenRepo, email notify.EmailSender, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Resets: r, Email: email, Log: log}
}

// ----- DTOs -----

type registerReq struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type recoverReq struct {
	Email string `json:"email"`
}
type resetReq struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// Handle dispatches POST /api/auth on the action query parameter.
func (h *AuthHandler) Handle(c echo.Context) error {
	switch c.QueryParam("action") {
	case "register":
		return h.Register(c)
	case "login":
		return h.Login(c)
	case "solicitar_recuperacion":
		return h.RequestReset(c)
	case "restablecer":
		return h.ResetPassword(c)
	default:
		return fail(c, http.StatusNotFound, "Acción no válida")
	}
}

const msgPasswordTooLong = "La contraseña no puede superar 72 caracteres"

// Register creates a customer account.  Any role sent by the client is
// ignored; admins are created from the command line.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Datos inválidos")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if blank(req.FirstName, req.LastName, req.Email, req.Password, req.Phone) {
		return fail(c, http.StatusBadRequest, "Todos los campos son obligatorios")
	}
	if !strings.Contains(req.Email, "@") {
		return fail(c, http.StatusBadRequest, "Email inválido")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, model.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      model.RoleCustomer,
	}, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return fail(c, http.StatusConflict, "El email ya está registrado")
		}
		if errors.Is(err, utils.ErrPasswordTooLong) {
			return fail(c, http.StatusBadRequest, msgPasswordTooLong)
		}
		return writeError(c, h.Log, err)
	}
	return ok(c, http.StatusCreated, echo.Map{"message": "Usuario registrado correctamente", "id": uid})
}

// Login verifies credentials and issues an access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Datos inválidos")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if blank(req.Email, req.Password) {
		return fail(c, http.StatusBadRequest, "Email y contraseña son obligatorios")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusUnauthorized, "Credenciales inválidas")
		}
		return writeError(c, h.Log, err)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, "Credenciales inválidas")
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return ok(c, http.StatusOK, echo.Map{
		"message":    "Inicio de sesión exitoso",
		"token":      access.Token,
		"user_id":    u.ID,
		"rol":        u.Role,
		"expires_at": access.Exp,
	})
}

// RequestReset starts password recovery.  The response is identical for
// known and unknown emails.
func (h *AuthHandler) RequestReset(c echo.Context) error {
	var req recoverReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Datos inválidos")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return fail(c, http.StatusBadRequest, "El email es obligatorio")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.sendReset(ctx, email); err != nil {
		h.Log.WithError(err).Warn("password reset request failed")
	}
	return ok(c, http.StatusOK, echo.Map{"message": recoveryMessage})
}

func (h *AuthHandler) sendReset(ctx context.Context, email string) error {
	u, err := h.Users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	tok, err := utils.NewResetToken(resetTokenTTL)
	if err != nil {
		return err
	}
	if err := h.Resets.Store(ctx, u.ID, utils.HashToken(tok.Raw), tok.Exp); err != nil {
		return err
	}
	link, err := resetLink(h.Cfg.ResetURLBase, tok.Raw)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	return h.Email.SendEmail(ctx, notify.PasswordResetEmail(name, u.Email, link))
}

func resetLink(base, raw string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", raw)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ResetPassword consumes a reset token and stores the new password.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Datos inválidos")
	}
	if blank(req.Token, req.Password) {
		return fail(c, http.StatusBadRequest, "Token y contraseña son obligatorios")
	}
	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if errors.Is(err, utils.ErrPasswordTooLong) {
		return fail(c, http.StatusBadRequest, msgPasswordTooLong)
	}
	if err != nil {
		return writeError(c, h.Log, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tx, err := h.Resets.DB.BeginTx(ctx, nil)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	now := time.Now()
	userID, err := h.Resets.ConsumeTx(ctx, tx, utils.HashToken(strings.TrimSpace(req.Token)), now)
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, http.StatusBadRequest, "Token inválido o expirado")
	}
	if err != nil {
		return writeError(c, h.Log, err)
	}
	if err := h.Users.UpdatePasswordTx(ctx, tx, userID, hash); err != nil {
		return writeError(c, h.Log, err)
	}
	if err := h.Resets.RevokeAllForUser(ctx, tx, userID, now); err != nil {
		return writeError(c, h.Log, err)
	}
	if err := tx.Commit(); err != nil {
		return writeError(c, h.Log, err)
	}
	committed = true
	return ok(c, http.StatusOK, echo.Map{"message": "Contraseña actualizada correctamente"})
}

// blank reports whether any value is empty after trimming.
func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}
