package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/prudvivenkat/agriconnect/internal/config"
	"github.com/prudvivenkat/agriconnect/internal/mailer"
	"github.com/prudvivenkat/agriconnect/internal/model"
	"github.com/prudvivenkat/agriconnect/internal/repository"
	"github.com/prudvivenkat/agriconnect/internal/service"
	"github.com/prudvivenkat/agriconnect/internal/utils"
)

// AuthHandler bundles dependencies for registration, OTP
// verification, login, token refresh and profile management.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
	OTP    *service.OTPService
	CSRF   *repository.CSRFStore
	Mail   *mailer.Mailer
}

func NewAuthHandler(cfg config.Config, users *repository.UserRepo, tokens *repository.TokenRepo, otp *service.OTPService, csrf *repository.CSRFStore, mail *mailer.Mailer) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Tokens: tokens, OTP: otp, CSRF: csrf, Mail: mail}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}
type verifyOTPReq struct {
	Contact     string `json:"contact"`
	ContactType string `json:"contact_type"`
	Code        string `json:"otp_code"`
}
type resendOTPReq struct {
	Contact     string `json:"contact"`
	ContactType string `json:"contact_type"`
}
type loginReq struct {
	Identifier string `json:"identifier"` // email or phone
	Password   string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}
type updateProfileReq struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
}
type changePasswordReq struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	CSRFToken       string `json:"csrf_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID       uint64  `json:"id"`
	Name     string  `json:"name"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty"`
	Role     string  `json:"role"`
	Verified bool    `json:"verified"`
}
type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
var phoneRe = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

func toUserPart(u *model.User) userPart {
	return userPart{ID: u.ID, Name: u.Name, Phone: u.Phone, Email: u.Email, Role: u.Role, Verified: u.IsVerified}
}

// Register creates an unverified account and issues an OTP on the
// preferred contact channel (phone when given, email otherwise). The
// code is mailed when an email address and SMTP account exist.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)

	if req.Name == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and password required"})
	}
	if len(req.Password) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 8 characters"})
	}
	if !model.ValidRole(req.Role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}
	if req.Phone == "" && req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone or email required"})
	}
	if req.Email != "" && !emailRe.MatchString(req.Email) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email"})
	}
	if req.Phone != "" && !phoneRe.MatchString(req.Phone) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid phone"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var phone, email *string
	if req.Phone != "" {
		phone = &req.Phone
	}
	if req.Email != "" {
		email = &req.Email
	}

	taken, err := h.Users.ContactTaken(ctx, phone, email)
	if err != nil {
		return serviceError(c, err)
	}
	if taken {
		return c.JSON(http.StatusConflict, echo.Map{"error": "phone or email already registered"})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return serviceError(c, err)
	}
	uid, err := h.Users.Create(ctx, req.Name, phone, email, hash, req.Role)
	if err != nil {
		return serviceError(c, err)
	}

	contact, contactType := req.Phone, model.ContactPhone
	if contact == "" {
		contact, contactType = req.Email, model.ContactEmail
	}
	code, err := h.OTP.Issue(ctx, contact, contactType)
	if err != nil {
		return serviceError(c, err)
	}

	msg := "registered; verify with the code sent to " + contactType
	if req.Email != "" && h.Mail != nil {
		if err := h.Mail.SendOTP(req.Email, code); err != nil {
			c.Logger().Warnf("otp mail to user %d failed: %v", uid, err)
			msg = "registered; verification code could not be emailed, use resend"
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"user_id":      uid,
		"contact":      contact,
		"contact_type": contactType,
		"message":      msg,
	})
}

// VerifyOTP consumes a code, marks the account verified and returns a
// token pair.
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req verifyOTPReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Contact == "" || req.Code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "contact and otp_code required"})
	}
	if req.ContactType == "" {
		req.ContactType = model.ContactPhone
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ok, err := h.OTP.Verify(ctx, req.Contact, req.ContactType, req.Code)
	if err != nil {
		return serviceError(c, err)
	}
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired code"})
	}

	var u *model.User
	if req.ContactType == model.ContactEmail {
		u, err = h.Users.GetByEmail(ctx, req.Contact)
	} else {
		u, err = h.Users.GetByPhone(ctx, req.Contact)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no account for contact"})
		}
		return serviceError(c, err)
	}
	if err := h.Users.MarkVerified(ctx, u.ID); err != nil {
		return serviceError(c, err)
	}
	u.IsVerified = true

	return h.issuePair(c, ctx, u, http.StatusOK)
}

// ResendOTP issues a fresh code, replacing the previous one.
func (h *AuthHandler) ResendOTP(c echo.Context) error {
	var req resendOTPReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Contact == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "contact required"})
	}
	if req.ContactType == "" {
		req.ContactType = model.ContactPhone
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	code, err := h.OTP.Issue(ctx, req.Contact, req.ContactType)
	if err != nil {
		return serviceError(c, err)
	}
	msg := "code sent"
	if req.ContactType == model.ContactEmail && h.Mail != nil {
		if err := h.Mail.SendOTP(req.Contact, code); err != nil {
			c.Logger().Warnf("otp mail failed: %v", err)
			msg = "code issued but could not be emailed"
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": msg})
}

// Login verifies credentials against an email address or phone number
// and returns a token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Identifier = strings.TrimSpace(req.Identifier)
	if req.Identifier == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "identifier and password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var u *model.User
	var err error
	if strings.Contains(req.Identifier, "@") {
		u, err = h.Users.GetByEmail(ctx, strings.ToLower(req.Identifier))
	} else {
		u, err = h.Users.GetByPhone(ctx, req.Identifier)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return serviceError(c, err)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	return h.issuePair(c, ctx, u, http.StatusOK)
}

// Refresh rotates a refresh token: the presented token is revoked and
// a new pair is issued.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hash := utils.HashRefreshRaw(req.RefreshToken)
	uid, err := h.Tokens.Lookup(ctx, hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		return serviceError(c, err)
	}
	if err := h.Tokens.Revoke(ctx, hash); err != nil {
		return serviceError(c, err)
	}

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return serviceError(c, err)
	}
	return h.issuePair(c, ctx, u, http.StatusOK)
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toUserPart(u))
}

// UpdateProfile changes name and contact details.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Email != nil && !emailRe.MatchString(*req.Email) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email"})
	}
	if req.Phone != nil && !phoneRe.MatchString(*req.Phone) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid phone"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.UpdateProfile(ctx, uid, req.Name, req.Phone, req.Email); err != nil {
		return serviceError(c, err)
	}
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toUserPart(u))
}

// CSRFToken issues a short-lived single-use token for sensitive
// profile operations.
func (h *AuthHandler) CSRFToken(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	token, err := utils.RandomHex(32)
	if err != nil {
		return serviceError(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.CSRF.Issue(ctx, uid, token); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"csrf_token": token})
}

// ChangePassword requires the current password plus a live CSRF
// token, then revokes every outstanding refresh token.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.NewPassword) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 8 characters"})
	}
	if req.CSRFToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "csrf_token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ok, err := h.CSRF.Consume(ctx, uid, req.CSRFToken)
	if err != nil {
		return serviceError(c, err)
	}
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid or expired csrf token"})
	}

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return serviceError(c, err)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.CurrentPassword) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "current password incorrect"})
	}

	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return serviceError(c, err)
	}
	if err := h.Users.UpdatePassword(ctx, uid, hash); err != nil {
		return serviceError(c, err)
	}
	if err := h.Tokens.RevokeAllForUser(ctx, uid); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password changed"})
}

func (h *AuthHandler) issuePair(c echo.Context, ctx context.Context, u *model.User, status int) error {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return serviceError(c, err)
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return serviceError(c, err)
	}
	if err := h.Tokens.Store(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(status, authResp{
		User:    toUserPart(u),
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	})
}
