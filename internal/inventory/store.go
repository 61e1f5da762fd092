// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package inventory

import "context"

// Repository defines the data access contract for classifications and vehicles.
type Repository interface {
	// ListClassifications returns every classification ordered by name.
	ListClassifications(ctx context.Context) ([]Classification, error)

	// GetClassification returns one classification.
	//
	// Returns [apperr.NotFound] if it does not exist.
	GetClassification(ctx context.Context, id int) (*Classification, error)

	// CreateClassification inserts a classification and sets its ID.
	//
	// Returns [apperr.Conflict] if the name is taken.
	CreateClassification(ctx context.Context, classification *Classification) error

	// ListByClassification returns the vehicles of one classification ordered by ID.
	ListByClassification(ctx context.Context, classificationID int) ([]Vehicle, error)

	// GetVehicle returns one vehicle with its classification name.
	//
	// Returns [apperr.NotFound] if it does not exist.
	GetVehicle(ctx context.Context, id int) (*Vehicle, error)

	// CreateVehicle inserts a vehicle and sets its ID.
	CreateVehicle(ctx context.Context, vehicle *Vehicle) error

	// UpdateVehicle replaces every editable column of a vehicle.
	UpdateVehicle(ctx context.Context, vehicle *Vehicle) error

	// DeleteVehicle removes a vehicle permanently.
	DeleteVehicle(ctx context.Context, id int) error
}
