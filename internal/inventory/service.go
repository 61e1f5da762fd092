// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/csemotors/internal/platform/apperr"
	"github.com/taibuivan/csemotors/internal/platform/dberr"
	"github.com/taibuivan/csemotors/internal/platform/validate"
)

// ClassificationExistsMessage is shown when a classification name is taken.
const ClassificationExistsMessage = "Classification already exists."

// Service implements the inventory use cases.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

// # Classifications

// Classifications returns every classification ordered by name. The site
// navigation is built from this list on every page render.
func (service *Service) Classifications(context context.Context) ([]Classification, error) {
	classifications, err := service.repository.ListClassifications(context)
	if err != nil {
		return nil, fmt.Errorf("inventory_list_classifications_failed: %w", err)
	}
	return classifications, nil
}

// Classification returns one classification.
func (service *Service) Classification(context context.Context, id int) (*Classification, error) {
	return service.repository.GetClassification(context, id)
}

// AddClassification stores a new classification under its normalized name.
//
// # Returns
//   - The stored [*Classification].
//   - [apperr.Conflict] with [ClassificationExistsMessage] if the name is taken.
func (service *Service) AddClassification(context context.Context, name string) (*Classification, error) {
	classification := &Classification{Name: NormalizeClassificationName(name)}

	if err := service.repository.CreateClassification(context, classification); err != nil {
		if apperr.HasCode(err, apperr.CodeConflict) || dberr.IsUniqueViolation(err) {
			return nil, apperr.Conflict(ClassificationExistsMessage)
		}
		return nil, fmt.Errorf("inventory_add_classification_failed: %w", err)
	}

	service.logger.InfoContext(context, "classification_added",
		slog.Int("classification_id", classification.ID),
		slog.String("name", classification.Name),
	)
	return classification, nil
}

// # Vehicles

// ListingPage is the model of a classification grid.
type ListingPage struct {
	Classification Classification
	Vehicles       []Vehicle
}

// Listing returns a classification and its vehicles.
//
// # Returns
//   - [apperr.NotFound] if the classification does not exist. An existing
//     classification without vehicles is not an error.
func (service *Service) Listing(context context.Context, classificationID int) (*ListingPage, error) {
	classification, err := service.Classification(context, classificationID)
	if err != nil {
		return nil, err
	}

	vehicles, err := service.repository.ListByClassification(context, classificationID)
	if err != nil {
		return nil, fmt.Errorf("inventory_listing_failed: %w", err)
	}
	return &ListingPage{Classification: *classification, Vehicles: vehicles}, nil
}

// Vehicle returns one vehicle with its classification name.
func (service *Service) Vehicle(context context.Context, id int) (*Vehicle, error) {
	return service.repository.GetVehicle(context, id)
}

// AddVehicle stores a new vehicle. The classification must exist.
func (service *Service) AddVehicle(context context.Context, vehicle *Vehicle) error {
	if err := service.checkClassification(context, vehicle.ClassificationID); err != nil {
		return err
	}
	applyImageDefaults(vehicle)

	if err := service.repository.CreateVehicle(context, vehicle); err != nil {
		return fmt.Errorf("inventory_add_vehicle_failed: %w", err)
	}

	service.logger.InfoContext(context, "vehicle_added", slog.Int("inv_id", vehicle.ID))
	return nil
}

// UpdateVehicle replaces every editable field of an existing vehicle.
//
// # Returns
//   - [apperr.NotFound] if the vehicle does not exist.
func (service *Service) UpdateVehicle(context context.Context, vehicle *Vehicle) error {
	if err := service.checkClassification(context, vehicle.ClassificationID); err != nil {
		return err
	}
	applyImageDefaults(vehicle)

	if err := service.repository.UpdateVehicle(context, vehicle); err != nil {
		if apperr.IsNotFound(err) {
			return err
		}
		return fmt.Errorf("inventory_update_vehicle_failed: %w", err)
	}

	service.logger.InfoContext(context, "vehicle_updated", slog.Int("inv_id", vehicle.ID))
	return nil
}

// DeleteVehicle removes a vehicle permanently.
func (service *Service) DeleteVehicle(context context.Context, id int) error {
	if err := service.repository.DeleteVehicle(context, id); err != nil {
		if apperr.IsNotFound(err) {
			return err
		}
		return fmt.Errorf("inventory_delete_vehicle_failed: %w", err)
	}

	service.logger.InfoContext(context, "vehicle_deleted", slog.Int("inv_id", id))
	return nil
}

// checkClassification turns a dangling classification reference into a
// field error instead of a foreign key failure.
func (service *Service) checkClassification(context context.Context, id int) error {
	_, err := service.Classification(context, id)
	switch {
	case err == nil:
		return nil
	case apperr.IsNotFound(err):
		return validate.RequiredError(FieldClassificationID, classificationRequiredMessage)
	default:
		return fmt.Errorf("inventory_check_classification_failed: %w", err)
	}
}

func applyImageDefaults(vehicle *Vehicle) {
	if vehicle.Image == "" {
		vehicle.Image = DefaultImage
	}
	if vehicle.Thumbnail == "" {
		vehicle.Thumbnail = DefaultThumbnail
	}
}
