// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/csemotors/internal/platform/apperr"
	"github.com/taibuivan/csemotors/internal/platform/constants"
	"github.com/taibuivan/csemotors/internal/platform/ctxutil"
	"github.com/taibuivan/csemotors/internal/platform/metrics"
	"github.com/taibuivan/csemotors/internal/platform/middleware"
	requestutil "github.com/taibuivan/csemotors/internal/platform/request"
	"github.com/taibuivan/csemotors/internal/platform/sec"
	"github.com/taibuivan/csemotors/internal/session"
	"github.com/taibuivan/csemotors/internal/web/view"
)

// Visitor-facing success messages.
const (
	RegisteredMessage      = "Registration successful. Please log in."
	AccountUpdatedMessage  = "Account updated successfully."
	PasswordUpdatedMessage = "Password updated successfully."
)

const updateAccountPath = "/account/update-account"

// TokenIssuer signs bearer tokens. [sec.TokenService] implements it.
type TokenIssuer interface {
	Issue(claims sec.AuthClaims) (string, error)
}

// Sessions is the slice of [session.Manager] the handlers drive.
type Sessions interface {
	middleware.Sessions
	Login(writer http.ResponseWriter, request *http.Request, snapshot session.Snapshot, token string) error
	Refresh(writer http.ResponseWriter, request *http.Request, snapshot session.Snapshot, token string) error
}

// Handler implements the /account pages.
type Handler struct {
	service  *Service
	sessions Sessions
	tokens   TokenIssuer
	renderer *view.Renderer
}

// NewHandler constructs a [Handler].
func NewHandler(service *Service, sessions Sessions, tokens TokenIssuer, renderer *view.Renderer) *Handler {
	return &Handler{
		service:  service,
		sessions: sessions,
		tokens:   tokens,
		renderer: renderer,
	}
}

// RegisterRoutes mounts the account routes.
//
// # Endpoints
//   - GET/POST /login            : login form / authenticate
//   - GET/POST /register         : registration form / create account
//   - GET      /logout           : end the session
//   - GET      /                 : account management (login required)
//   - GET/POST /update-account   : profile form / update (login required)
//   - POST     /change-password  : password change (login required)
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/login", handler.loginView)
	router.Post("/login", handler.login)
	router.Get("/register", handler.registerView)
	router.Post("/register", handler.register)
	router.Get("/logout", handler.logout)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.CheckLogin(handler.sessions))
		protected.Get("/", handler.managementView)
		protected.Get("/update-account", handler.updateView)
		protected.Post("/update-account", handler.update)
		protected.Post("/change-password", handler.changePassword)
	})
}

// # Login

func (handler *Handler) loginView(writer http.ResponseWriter, request *http.Request) {
	handler.renderer.Render(writer, request, http.StatusOK, view.PageLogin, view.Page{Title: "Login"})
}

// login handles POST /account/login.
//
// # Flow
//  1. Validate the form; failures re-render with 400.
//  2. Authenticate; a mismatch re-renders the generic message with 400 and sets no cookie.
//  3. Issue the token and start the session, then redirect to the account page.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	if err := requestutil.ParseForm(writer, request); err != nil {
		handler.renderer.Invalid(writer, request, view.PageLogin, view.Page{Title: "Login"}, err)
		return
	}

	email := requestutil.Form(request, FieldEmail)
	password := requestutil.RawForm(request, FieldPassword)
	page := view.Page{Title: "Login", Form: map[string]string{FieldEmail: email}}

	// 1. Boundary validation
	if err := loginRules(email, password); err != nil {
		metrics.RecordLogin("invalid")
		handler.renderer.Invalid(writer, request, view.PageLogin, page, err)
		return
	}

	// 2. Credential check
	account, err := handler.service.Authenticate(request.Context(), email, password)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeUnauthorized) {
			metrics.RecordLogin("failure")
			ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "login_failed")
			page.ErrorMessages = []string{CredentialsMessage}
			handler.renderer.Render(writer, request, http.StatusBadRequest, view.PageLogin, page)
			return
		}
		metrics.RecordLogin("error")
		handler.renderer.Error(writer, request, err)
		return
	}

	// 3. Token and session, created together
	token, err := handler.tokens.Issue(account.Claims())
	if err != nil {
		handler.renderer.Error(writer, request, apperr.Internal(err))
		return
	}
	if err := handler.sessions.Login(writer, request, account.Snapshot(), token); err != nil {
		handler.renderer.Error(writer, request, apperr.Internal(err))
		return
	}

	metrics.RecordLogin("success")
	ctxutil.GetLogger(request.Context()).InfoContext(request.Context(), "login_succeeded",
		slog.Int("account_id", account.ID),
		slog.String("role", string(account.Role)),
	)
	http.Redirect(writer, request, constants.AccountPath, http.StatusFound)
}

// logout handles GET /account/logout.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	if err := handler.sessions.Logout(writer, request); err != nil {
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "logout_failed", slog.Any("error", err))
	}
	http.Redirect(writer, request, "/", http.StatusFound)
}

// # Registration

func (handler *Handler) registerView(writer http.ResponseWriter, request *http.Request) {
	handler.renderer.Render(writer, request, http.StatusOK, view.PageRegister, view.Page{Title: "Register"})
}

// register handles POST /account/register. The password is never echoed back.
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	if err := requestutil.ParseForm(writer, request); err != nil {
		handler.renderer.Invalid(writer, request, view.PageRegister, view.Page{Title: "Register"}, err)
		return
	}

	input := RegisterInput{
		FirstName: requestutil.Form(request, FieldFirstName),
		LastName:  requestutil.Form(request, FieldLastName),
		Email:     requestutil.Form(request, FieldEmail),
		Password:  requestutil.RawForm(request, FieldPassword),
	}
	page := view.Page{
		Title: "Register",
		Form: map[string]string{
			FieldFirstName: input.FirstName,
			FieldLastName:  input.LastName,
			FieldEmail:     input.Email,
		},
	}

	if err := registrationRules(input); err != nil {
		metrics.RecordRegistration("invalid")
		handler.renderer.Invalid(writer, request, view.PageRegister, page, err)
		return
	}

	if _, err := handler.service.Register(request.Context(), input); err != nil {
		if apperr.HasCode(err, apperr.CodeConflict) {
			metrics.RecordRegistration("duplicate")
		} else {
			metrics.RecordRegistration("error")
		}
		handler.renderer.Invalid(writer, request, view.PageRegister, page, err)
		return
	}

	metrics.RecordRegistration("success")
	handler.flash(writer, request, constants.FlashMessage, RegisteredMessage)
	http.Redirect(writer, request, constants.LoginPath, http.StatusFound)
}

// # Account Management

func (handler *Handler) managementView(writer http.ResponseWriter, request *http.Request) {
	handler.renderer.Render(writer, request, http.StatusOK, view.PageAccount, view.Page{Title: "Account Management"})
}

func (handler *Handler) updateView(writer http.ResponseWriter, request *http.Request) {
	account, err := handler.service.Get(request.Context(), handler.sessions.Current(request).ID)
	if err != nil {
		handler.renderer.Error(writer, request, err)
		return
	}
	handler.renderer.Render(writer, request, http.StatusOK, view.PageUpdateAccount, view.Page{
		Title: "Update Account",
		Form:  profileForm(account.FirstName, account.LastName, account.Email),
	})
}

// update handles POST /account/update-account.
//
// On success the session snapshot and the token are both refreshed so the
// header and later role checks see the new name and email.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	page := view.Page{Title: "Update Account"}
	if err := requestutil.ParseForm(writer, request); err != nil {
		handler.renderer.Invalid(writer, request, view.PageUpdateAccount, page, err)
		return
	}

	input := ProfileInput{
		FirstName: requestutil.Form(request, FieldFirstName),
		LastName:  requestutil.Form(request, FieldLastName),
		Email:     requestutil.Form(request, FieldEmail),
	}
	page.Form = profileForm(input.FirstName, input.LastName, input.Email)

	if err := profileRules(input); err != nil {
		handler.renderer.Invalid(writer, request, view.PageUpdateAccount, page, err)
		return
	}

	account, err := handler.service.UpdateProfile(request.Context(), handler.sessions.Current(request).ID, input)
	if err != nil {
		handler.renderer.Invalid(writer, request, view.PageUpdateAccount, page, err)
		return
	}

	token, err := handler.tokens.Issue(account.Claims())
	if err != nil {
		handler.renderer.Error(writer, request, apperr.Internal(err))
		return
	}
	if err := handler.sessions.Refresh(writer, request, account.Snapshot(), token); err != nil {
		handler.renderer.Error(writer, request, apperr.Internal(err))
		return
	}

	handler.flash(writer, request, constants.FlashMessage, AccountUpdatedMessage)
	http.Redirect(writer, request, updateAccountPath, http.StatusFound)
}

// changePassword handles POST /account/change-password.
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	current := handler.sessions.Current(request)
	page := view.Page{
		Title: "Update Account",
		Form:  profileForm(current.FirstName, current.LastName, current.Email),
	}

	if err := requestutil.ParseForm(writer, request); err != nil {
		handler.renderer.Invalid(writer, request, view.PageUpdateAccount, page, err)
		return
	}

	password := requestutil.RawForm(request, FieldPassword)
	if err := changePasswordRules(password); err != nil {
		handler.renderer.Invalid(writer, request, view.PageUpdateAccount, page, err)
		return
	}

	if err := handler.service.ChangePassword(request.Context(), current.ID, password); err != nil {
		handler.renderer.Invalid(writer, request, view.PageUpdateAccount, page, err)
		return
	}

	handler.flash(writer, request, constants.FlashMessage, PasswordUpdatedMessage)
	http.Redirect(writer, request, updateAccountPath, http.StatusFound)
}

// # Helpers

func (handler *Handler) flash(writer http.ResponseWriter, request *http.Request, key, message string) {
	if err := handler.sessions.AddFlash(writer, request, key, message); err != nil {
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "flash_store_failed", slog.Any("error", err))
	}
}

func profileForm(firstName, lastName, email string) map[string]string {
	return map[string]string{
		FieldFirstName: firstName,
		FieldLastName:  lastName,
		FieldEmail:     email,
	}
}
