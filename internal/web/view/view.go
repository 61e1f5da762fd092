// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package view renders server-side HTML pages.

Every page is the shared layout plus one page template. The layout is parsed
once and cloned per page so each page's "content" block stays its own.

The Renderer is also the single top-level error mapping layer: handlers and
middleware hand any error to [Renderer.Error], which picks the status and the
visitor-facing message.
*/
package view

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/taibuivan/csemotors/internal/platform/apperr"
	"github.com/taibuivan/csemotors/internal/platform/constants"
	"github.com/taibuivan/csemotors/internal/platform/ctxutil"
	"github.com/taibuivan/csemotors/internal/session"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page template names.
const (
	PageHome              = "home.html"
	PageError             = "error.html"
	PageLogin             = "account/login.html"
	PageRegister          = "account/register.html"
	PageAccount           = "account/management.html"
	PageUpdateAccount     = "account/update.html"
	PageClassification    = "inventory/classification.html"
	PageVehicleDetail     = "inventory/detail.html"
	PageInventory         = "inventory/management.html"
	PageAddClassification = "inventory/add-classification.html"
	PageAddVehicle        = "inventory/add-vehicle.html"
	PageEditVehicle       = "inventory/edit.html"
	PageDeleteVehicle     = "inventory/delete.html"
)

var pageNames = []string{
	PageHome, PageError,
	PageLogin, PageRegister, PageAccount, PageUpdateAccount,
	PageClassification, PageVehicleDetail, PageInventory,
	PageAddClassification, PageAddVehicle, PageEditVehicle, PageDeleteVehicle,
}

// Visitor-facing error page messages.
const (
	GenericErrorMessage  = "Oh no! Something went wrong. Please try a different route."
	PageNotFoundMessage  = "Ooops! The page can't be found."
	genericErrorTitle    = "Server Error"
	pageNotFoundResource = "Page"
)

// NavItem is one classification link in the site navigation.
type NavItem struct {
	ID   int
	Name string
}

// NavSource loads the navigation. It runs on every render so new
// classifications appear immediately.
type NavSource func(ctx context.Context) ([]NavItem, error)

// Sessions is the slice of [session.Manager] the renderer reads.
type Sessions interface {
	Current(request *http.Request) session.View
	PopFlashes(request *http.Request) (map[string][]string, error)
}

// Page is the model handed to every template.
type Page struct {
	Title string
	// Errors lists field failures in rule order.
	Errors []apperr.FieldError
	// Form carries submitted values back into inputs. Passwords never go here.
	Form map[string]string
	// Data is the page-specific model.
	Data any

	// Filled by the renderer.
	Nav           []NavItem
	Session       session.View
	Messages      []string
	ErrorMessages []string
}

// Renderer renders pages and error pages.
type Renderer struct {
	pages    map[string]*template.Template
	nav      NavSource
	sessions Sessions
	logger   *slog.Logger
}

// NewRenderer parses every page template.
func NewRenderer(nav NavSource, sessions Sessions, logger *slog.Logger) (*Renderer, error) {
	layout, err := template.New("layout.html").Funcs(funcs()).ParseFS(templateFS, "templates/layout.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("view_parse_layout_failed: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		page, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("view_clone_layout_failed: %s: %w", name, err)
		}
		if _, err := page.ParseFS(templateFS, "templates/"+name); err != nil {
			return nil, fmt.Errorf("view_parse_page_failed: %s: %w", name, err)
		}
		pages[name] = page
	}

	return &Renderer{
		pages:    pages,
		nav:      nav,
		sessions: sessions,
		logger:   logger,
	}, nil
}

// Static serves the embedded css, js and images.
func Static() http.Handler {
	root, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServerFS(root)
}

// # Rendering

// Render writes page name with status. Flashes are consumed here, so a
// message is shown by exactly one page.
func (renderer *Renderer) Render(writer http.ResponseWriter, request *http.Request, status int, name string, page Page) {
	if err := renderer.compose(request, &page); err != nil {
		renderer.Error(writer, request, apperr.Internal(err))
		return
	}
	renderer.write(writer, request, status, name, page)
}

// Invalid re-renders a form after a failed submission. Validation errors
// fill the field list; any other client error becomes a page-level message.
func (renderer *Renderer) Invalid(writer http.ResponseWriter, request *http.Request, name string, page Page, err error) {
	appError := apperr.As(err)
	if appError == nil || appError.HTTPStatus >= http.StatusInternalServerError {
		renderer.Error(writer, request, err)
		return
	}

	if appError.Code == apperr.CodeValidation && len(appError.Details) > 0 {
		page.Errors = appError.Details
	} else {
		page.ErrorMessages = append(page.ErrorMessages, appError.Message)
	}
	renderer.Render(writer, request, appError.HTTPStatus, name, page)
}

// # Error Mapping

// Error maps err to the error page.
//
// # Flow
//  1. NOT_FOUND renders its own message with 404.
//  2. Other client errors render their message with their status.
//  3. Everything else renders [GenericErrorMessage] with 500 and logs the
//     route and the cause.
func (renderer *Renderer) Error(writer http.ResponseWriter, request *http.Request, err error) {
	status := http.StatusInternalServerError
	title := genericErrorTitle
	message := GenericErrorMessage

	appError := apperr.As(err)
	if appError != nil && appError.HTTPStatus < http.StatusInternalServerError {
		status = appError.HTTPStatus
		title = fmt.Sprintf("%d %s", status, http.StatusText(status))
		message = appError.Message
	} else {
		var cause any = err
		if appError != nil && appError.Cause != nil {
			cause = appError.Cause
		}
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "request_failed",
			slog.String("route", request.URL.Path),
			slog.Any("error", cause),
		)
	}

	page := Page{Title: title, Data: message}
	if composeErr := renderer.compose(request, &page); composeErr != nil {
		ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "error_page_nav_failed",
			slog.Any("error", composeErr),
		)
	}
	renderer.write(writer, request, status, PageError, page)
}

// NotFound is the fallback handler for unmatched routes.
func (renderer *Renderer) NotFound(writer http.ResponseWriter, request *http.Request) {
	notFound := apperr.NotFound(pageNotFoundResource)
	notFound.Message = PageNotFoundMessage
	renderer.Error(writer, request, notFound)
}

// # Internals

// compose fills the shared chrome: navigation, session view and flashes.
func (renderer *Renderer) compose(request *http.Request, page *Page) error {
	page.Session = renderer.sessions.Current(request)

	flashes, err := renderer.sessions.PopFlashes(request)
	if err != nil {
		ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "flash_pop_failed", slog.Any("error", err))
	}
	page.Messages = append(page.Messages, flashes[constants.FlashMessage]...)
	page.ErrorMessages = append(page.ErrorMessages, flashes[constants.FlashError]...)

	nav, err := renderer.nav(request.Context())
	if err != nil {
		return fmt.Errorf("view_nav_failed: %w", err)
	}
	page.Nav = nav
	return nil
}

func (renderer *Renderer) write(writer http.ResponseWriter, request *http.Request, status int, name string, page Page) {
	tmpl, ok := renderer.pages[name]
	if !ok {
		renderer.logger.ErrorContext(request.Context(), "template_not_found", slog.String("template", name))
		http.Error(writer, GenericErrorMessage, http.StatusInternalServerError)
		return
	}

	var buffer bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buffer, "layout", page); err != nil {
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "template_render_failed",
			slog.String("template", name),
			slog.Any("error", err),
		)
		http.Error(writer, GenericErrorMessage, http.StatusInternalServerError)
		return
	}

	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	writer.WriteHeader(status)
	_, _ = buffer.WriteTo(writer)
}
