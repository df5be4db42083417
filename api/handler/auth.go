package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskdesk/api/transport"
	"github.com/fastygo/taskdesk/domain"
	"github.com/fastygo/taskdesk/pkg/httpcontext"
	authUC "github.com/fastygo/taskdesk/usecase/auth"
	profileUC "github.com/fastygo/taskdesk/usecase/profile"
)

type AuthHandler struct {
	baseHandler
	auth    *authUC.UseCase
	profile *profileUC.UseCase
}

func NewAuthHandler(auth *authUC.UseCase, profile *profileUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger, authErrorShape),
		auth:        auth,
		profile:     profile,
	}
}

// @Summary Register a new account
// @Tags auth
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(ctx *fasthttp.RequestCtx) {
	var req transport.RegisterRequest
	if err := decode(ctx, &req); err != nil {
		h.respondError(ctx, err)
		return
	}
	if err := transport.Validate(req); err != nil {
		h.respondFailure(ctx, http.StatusBadRequest, domain.ErrCodeInvalid, registrationProblem(err))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.auth.Register(stdCtx, authUC.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	}); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, transport.NewMessage("", "Registered successfully"))
}

// @Summary Issue a session token
// @Tags auth
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if err := decode(ctx, &req); err != nil {
		h.respondError(ctx, err)
		return
	}
	if err := transport.Validate(req); err != nil {
		h.respondError(ctx, domain.ErrInvalidCredentials)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.auth.Login(stdCtx, req.Email, req.Password, string(ctx.Request.Header.UserAgent()))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.LoginResponse{
		Message: "Login successful",
		Token:   result.Token,
		User:    result.User,
	})
}

// @Summary Current user
// @Tags auth
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(ctx *fasthttp.RequestCtx) {
	claims := h.claims(ctx)
	if claims == nil {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.profile.GetProfile(stdCtx, claims.User.ID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, user.Public())
}

// @Summary Select the dashboard profession
// @Tags auth
// @Router /api/auth/profession [put]
func (h *AuthHandler) SelectProfession(ctx *fasthttp.RequestCtx) {
	claims := h.claims(ctx)
	if claims == nil {
		return
	}

	var req transport.ProfessionRequest
	if err := decode(ctx, &req); err != nil {
		h.respondError(ctx, err)
		return
	}
	if err := transport.Validate(req); err != nil {
		h.respondFailure(ctx, http.StatusBadRequest, domain.ErrCodeInvalid, "Please select a profession to continue")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.profile.SelectProfession(stdCtx, claims.User.ID, req.Profession)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	public := user.Public()
	token, err := h.auth.Reissue(stdCtx, claims.SessionID, public)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.ProfessionResponse{Token: token, User: public})
}

// @Summary Revoke the current session
// @Tags auth
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	claims := h.claims(ctx)
	if claims == nil {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.auth.Logout(stdCtx, claims.SessionID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewMessage("", "Logged out"))
}

func (h *AuthHandler) claims(ctx *fasthttp.RequestCtx) *domain.Claims {
	claims := httpcontext.Claims(ctx)
	if claims == nil {
		h.respondError(ctx, domain.ErrUnauthorized)
	}
	return claims
}

// registrationProblem turns validator output into the message the
// registration form displays.
func registrationProblem(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.ErrFieldsRequired.Message
	}
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return domain.ErrFieldsRequired.Message
		}
	}
	switch fieldErrs[0].Field() {
	case "Email":
		return "Email is invalid"
	case "Password":
		return "Password is too long"
	default:
		return "Full name is too long"
	}
}
