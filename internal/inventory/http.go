// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package inventory

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/csemotors/internal/platform/apperr"
	"github.com/taibuivan/csemotors/internal/platform/constants"
	"github.com/taibuivan/csemotors/internal/platform/ctxutil"
	"github.com/taibuivan/csemotors/internal/platform/middleware"
	requestutil "github.com/taibuivan/csemotors/internal/platform/request"
	"github.com/taibuivan/csemotors/internal/platform/respond"
	"github.com/taibuivan/csemotors/internal/platform/sec"
	"github.com/taibuivan/csemotors/internal/web/view"
)

// Visitor-facing success messages.
const (
	ClassificationAddedMessage = "Classification added successfully."
	VehicleAddedMessage        = "Vehicle added successfully."
	VehicleUpdatedMessage      = "Vehicle updated successfully."
	VehicleDeletedMessage      = "Vehicle deleted successfully."
)

const managementPath = "/inv/"

// errIntentional backs the route that exercises the error page.
var errIntentional = errors.New("intentional_error_route")

// Handler implements the /inv pages.
type Handler struct {
	service  *Service
	sessions middleware.Sessions
	verifier middleware.TokenVerifier
	renderer *view.Renderer
	now      func() time.Time
}

// NewHandler constructs a [Handler].
func NewHandler(service *Service, sessions middleware.Sessions, verifier middleware.TokenVerifier, renderer *view.Renderer) *Handler {
	return &Handler{
		service:  service,
		sessions: sessions,
		verifier: verifier,
		renderer: renderer,
		now:      time.Now,
	}
}

// RegisterRoutes mounts the inventory routes.
//
// # Endpoints
//   - GET      /type/{classificationId}           : classification grid
//   - GET      /detail/{invId}                    : vehicle detail
//   - GET      /trigger-error                     : always fails with 500
//   - GET      /                                  : management view (staff)
//   - GET/POST /add-classification                : form / create (staff)
//   - GET/POST /add-vehicle                       : form / create (staff)
//   - GET      /getInventory/{classificationId}   : JSON listing (staff)
//   - GET      /edit/{invId}, POST /update        : edit form / update (staff)
//   - GET      /delete/{invId}, POST /delete      : confirmation / delete (staff)
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/type/{classificationId}", handler.listing)
	router.Get("/detail/{invId}", handler.detail)
	router.Get("/trigger-error", handler.triggerError)

	router.Group(func(staff chi.Router) {
		staff.Use(middleware.CheckInventoryAccess(handler.sessions, handler.verifier))

		staff.Get("/", handler.management)
		staff.Get("/add-classification", handler.addClassificationView)
		staff.Post("/add-classification", handler.addClassification)
		staff.Get("/add-vehicle", handler.addVehicleView)
		staff.Post("/add-vehicle", handler.addVehicle)
		staff.Get("/getInventory/{classificationId}", handler.inventoryJSON)
		staff.Get("/edit/{invId}", handler.editView)
		staff.Post("/update", handler.update)
		staff.Get("/delete/{invId}", handler.deleteView)
		staff.Post("/delete", handler.delete)
	})
}

// # Public Pages

func (handler *Handler) listing(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "classificationId", "Classification")
	if err != nil {
		handler.renderer.Error(writer, request, err)
		return
	}

	listing, err := handler.service.Listing(request.Context(), id)
	if err != nil {
		handler.renderer.Error(writer, request, err)
		return
	}

	handler.renderer.Render(writer, request, http.StatusOK, view.PageClassification, view.Page{
		Title: view.Title(listing.Classification.Name) + " Vehicles",
		Data:  listing,
	})
}

func (handler *Handler) detail(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "invId", "Vehicle")
	if err != nil {
		handler.renderer.Error(writer, request, err)
		return
	}

	vehicle, err := handler.service.Vehicle(request.Context(), id)
	if err != nil {
		handler.renderer.Error(writer, request, err)
		return
	}

	handler.renderer.Render(writer, request, http.StatusOK, view.PageVehicleDetail, view.Page{
		Title: fmt.Sprintf("%d %s %s", vehicle.Year, vehicle.Make, vehicle.Model),
		Data:  vehicle,
	})
}

func (handler *Handler) triggerError(writer http.ResponseWriter, request *http.Request) {
	handler.renderer.Error(writer, request, apperr.Internal(errIntentional))
}

// # Management

func (handler *Handler) management(writer http.ResponseWriter, request *http.Request) {
	classifications, err := handler.service.Classifications(request.Context())
	if err != nil {
		handler.renderer.Error(writer, request, err)
		return
	}
	handler.renderer.Render(writer, request, http.StatusOK, view.PageInventory, view.Page{
		Title: "Vehicle Management",
		Data:  classifications,
	})
}

// inventoryJSON serves the vehicles of one classification to the management script.
func (handler *Handler) inventoryJSON(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "classificationId", "Classification")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	listing, err := handler.service.Listing(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, listing.Vehicles)
}

func (handler *Handler) addClassificationView(writer http.ResponseWriter, request *http.Request) {
	handler.renderer.Render(writer, request, http.StatusOK, view.PageAddClassification, view.Page{Title: "Add New Classification"})
}

func (handler *Handler) addClassification(writer http.ResponseWriter, request *http.Request) {
	staff, err := requestutil.RequiredClaims(request)
	if err != nil {
		handler.renderer.Error(writer, request, err)
		return
	}

	page := view.Page{Title: "Add New Classification"}
	if err := requestutil.ParseForm(writer, request); err != nil {
		handler.renderer.Invalid(writer, request, view.PageAddClassification, page, err)
		return
	}

	raw := requestutil.Form(request, FieldClassificationName)
	page.Form = map[string]string{FieldClassificationName: raw}

	name, err := classificationRules(raw)
	if err != nil {
		handler.renderer.Invalid(writer, request, view.PageAddClassification, page, err)
		return
	}

	classification, err := handler.service.AddClassification(request.Context(), name)
	if err != nil {
		handler.renderer.Invalid(writer, request, view.PageAddClassification, page, err)
		return
	}

	handler.audit(request, staff, "classification_added", slog.Int("classification_id", classification.ID))
	handler.flash(writer, request, ClassificationAddedMessage)
	http.Redirect(writer, request, managementPath, http.StatusFound)
}

func (handler *Handler) addVehicleView(writer http.ResponseWriter, request *http.Request) {
	handler.renderVehicleForm(writer, request, http.StatusOK, view.PageAddVehicle, view.Page{Title: "Add New Vehicle"})
}

func (handler *Handler) addVehicle(writer http.ResponseWriter, request *http.Request) {
	staff, err := requestutil.RequiredClaims(request)
	if err != nil {
		handler.renderer.Error(writer, request, err)
		return
	}

	page := view.Page{Title: "Add New Vehicle"}
	if err := requestutil.ParseForm(writer, request); err != nil {
		handler.invalidVehicleForm(writer, request, view.PageAddVehicle, page, err)
		return
	}

	page.Form = submittedVehicle(request)
	vehicle, err := vehicleRules(page.Form, handler.now().Year())
	if err != nil {
		handler.invalidVehicleForm(writer, request, view.PageAddVehicle, page, err)
		return
	}

	if err := handler.service.AddVehicle(request.Context(), vehicle); err != nil {
		handler.invalidVehicleForm(writer, request, view.PageAddVehicle, page, err)
		return
	}

	handler.audit(request, staff, "vehicle_added", slog.Int("inv_id", vehicle.ID))
	handler.flash(writer, request, VehicleAddedMessage)
	http.Redirect(writer, request, managementPath, http.StatusFound)
}

func (handler *Handler) editView(writer http.ResponseWriter, request *http.Request) {
	vehicle, err := handler.vehicleFromPath(request)
	if err != nil {
		handler.renderer.Error(writer, request, err)
		return
	}

	handler.renderVehicleForm(writer, request, http.StatusOK, view.PageEditVehicle, view.Page{
		Title: fmt.Sprintf("Edit %s %s", vehicle.Make, vehicle.Model),
		Form:  vehicleForm(vehicle),
	})
}

// update handles POST /inv/update. Failures re-render the edit form with
// the submitted values.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	staff, err := requestutil.RequiredClaims(request)
	if err != nil {
		handler.renderer.Error(writer, request, err)
		return
	}

	if err := requestutil.ParseForm(writer, request); err != nil {
		handler.renderer.Error(writer, request, err)
		return
	}

	id, err := strconv.Atoi(requestutil.Form(request, FieldID))
	if err != nil || id <= 0 {
		handler.renderer.Error(writer, request, apperr.NotFound("Vehicle"))
		return
	}

	form := submittedVehicle(request)
	form[FieldID] = strconv.Itoa(id)
	page := view.Page{
		Title: fmt.Sprintf("Edit %s %s", form[FieldMake], form[FieldModel]),
		Form:  form,
	}

	vehicle, err := vehicleRules(form, handler.now().Year())
	if err != nil {
		handler.invalidVehicleForm(writer, request, view.PageEditVehicle, page, err)
		return
	}
	vehicle.ID = id

	if err := handler.service.UpdateVehicle(request.Context(), vehicle); err != nil {
		if apperr.IsNotFound(err) {
			handler.renderer.Error(writer, request, err)
			return
		}
		handler.invalidVehicleForm(writer, request, view.PageEditVehicle, page, err)
		return
	}

	handler.audit(request, staff, "vehicle_updated", slog.Int("inv_id", id))
	handler.flash(writer, request, VehicleUpdatedMessage)
	http.Redirect(writer, request, managementPath, http.StatusFound)
}

func (handler *Handler) deleteView(writer http.ResponseWriter, request *http.Request) {
	vehicle, err := handler.vehicleFromPath(request)
	if err != nil {
		handler.renderer.Error(writer, request, err)
		return
	}

	handler.renderer.Render(writer, request, http.StatusOK, view.PageDeleteVehicle, view.Page{
		Title: fmt.Sprintf("Delete %s %s", vehicle.Make, vehicle.Model),
		Data:  vehicle,
	})
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	staff, err := requestutil.RequiredClaims(request)
	if err != nil {
		handler.renderer.Error(writer, request, err)
		return
	}

	if err := requestutil.ParseForm(writer, request); err != nil {
		handler.renderer.Error(writer, request, err)
		return
	}

	id, err := strconv.Atoi(requestutil.Form(request, FieldID))
	if err != nil || id <= 0 {
		handler.renderer.Error(writer, request, apperr.NotFound("Vehicle"))
		return
	}

	if err := handler.service.DeleteVehicle(request.Context(), id); err != nil {
		handler.renderer.Error(writer, request, err)
		return
	}

	handler.audit(request, staff, "vehicle_deleted", slog.Int("inv_id", id))
	handler.flash(writer, request, VehicleDeletedMessage)
	http.Redirect(writer, request, managementPath, http.StatusFound)
}

// # Helpers

func (handler *Handler) vehicleFromPath(request *http.Request) (*Vehicle, error) {
	id, err := requestutil.IntParam(request, "invId", "Vehicle")
	if err != nil {
		return nil, err
	}
	return handler.service.Vehicle(request.Context(), id)
}

// renderVehicleForm renders a vehicle form with the classification select filled.
func (handler *Handler) renderVehicleForm(writer http.ResponseWriter, request *http.Request, status int, name string, page view.Page) {
	classifications, err := handler.service.Classifications(request.Context())
	if err != nil {
		handler.renderer.Error(writer, request, err)
		return
	}
	page.Data = classifications
	handler.renderer.Render(writer, request, status, name, page)
}

func (handler *Handler) invalidVehicleForm(writer http.ResponseWriter, request *http.Request, name string, page view.Page, cause error) {
	classifications, err := handler.service.Classifications(request.Context())
	if err != nil {
		handler.renderer.Error(writer, request, err)
		return
	}
	page.Data = classifications
	handler.renderer.Invalid(writer, request, name, page, cause)
}

// audit records a completed staff write against the account named by the
// verified token, which is the identity the access gate authorized.
func (handler *Handler) audit(request *http.Request, staff *sec.AuthClaims, action string, attrs ...any) {
	attrs = append([]any{
		slog.String("action", action),
		slog.Int("staff_id", staff.AccountID),
		slog.String("staff_role", string(staff.Role)),
	}, attrs...)
	ctxutil.GetLogger(request.Context()).InfoContext(request.Context(), "inventory_changed", attrs...)
}

func (handler *Handler) flash(writer http.ResponseWriter, request *http.Request, message string) {
	if err := handler.sessions.AddFlash(writer, request, constants.FlashMessage, message); err != nil {
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "flash_store_failed", slog.Any("error", err))
	}
}

func submittedVehicle(request *http.Request) map[string]string {
	form := make(map[string]string, len(vehicleFields))
	for _, field := range vehicleFields {
		form[field] = requestutil.Form(request, field)
	}
	return form
}
