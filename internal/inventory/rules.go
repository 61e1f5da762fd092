// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package inventory

import (
	"strconv"

	"github.com/taibuivan/csemotors/internal/platform/validate"
)

// Form field names shared by templates, rules and handlers.
const (
	FieldClassificationName = "classification_name"
	FieldClassificationID   = "classification_id"
	FieldID                 = "inv_id"
	FieldMake               = "inv_make"
	FieldModel              = "inv_model"
	FieldYear               = "inv_year"
	FieldDescription        = "inv_description"
	FieldImage              = "inv_image"
	FieldThumbnail          = "inv_thumbnail"
	FieldPrice              = "inv_price"
	FieldMiles              = "inv_miles"
	FieldColor              = "inv_color"
	FieldTransmission       = "inv_transmission"
)

const (
	classificationRequiredMessage = "Classification is required."
	minClassificationName         = 3
	maxClassificationName         = 30
	maxMakeModel                  = 50
	minVehicleYear                = 1900
)

// vehicleFields lists the submitted vehicle form keys echoed back on re-render.
var vehicleFields = []string{
	FieldClassificationID, FieldMake, FieldModel, FieldYear, FieldDescription,
	FieldImage, FieldThumbnail, FieldPrice, FieldMiles, FieldColor, FieldTransmission,
}

// classificationRules validates and normalizes a new classification name.
func classificationRules(name string) (string, error) {
	v := &validate.Validator{}
	v.Required(FieldClassificationName, name, "Classification name is required.")
	if !v.Fails(FieldClassificationName) {
		normalized := NormalizeClassificationName(name)
		v.MinLen(FieldClassificationName, normalized, minClassificationName, "Must be at least 3 characters.")
		v.MaxLen(FieldClassificationName, normalized, maxClassificationName, "Must be at most 30 characters.")
	}
	if err := v.Err(); err != nil {
		return "", err
	}
	return NormalizeClassificationName(name), nil
}

// vehicleRules coerces a submitted vehicle form.
//
// The year must fall in [1900, currentYear+1]. Price and mileage must not be
// negative; a blank mileage means zero.
func vehicleRules(form map[string]string, currentYear int) (*Vehicle, error) {
	v := &validate.Validator{}

	vehicle := &Vehicle{
		Make:         form[FieldMake],
		Model:        form[FieldModel],
		Description:  form[FieldDescription],
		Image:        form[FieldImage],
		Thumbnail:    form[FieldThumbnail],
		Color:        form[FieldColor],
		Transmission: form[FieldTransmission],
	}

	v.Required(FieldMake, vehicle.Make, "Make is required.")
	v.MaxLen(FieldMake, vehicle.Make, maxMakeModel, "Make must be at most 50 characters.")
	v.Required(FieldModel, vehicle.Model, "Model is required.")
	v.MaxLen(FieldModel, vehicle.Model, maxMakeModel, "Model must be at most 50 characters.")

	vehicle.Year = v.Int(FieldYear, form[FieldYear], "Valid year required.")
	if !v.Fails(FieldYear) {
		v.Range(FieldYear, vehicle.Year, minVehicleYear, currentYear+1, "Valid year required.")
	}

	vehicle.Price = v.Float(FieldPrice, form[FieldPrice], "Price must be a positive number.")
	if !v.Fails(FieldPrice) {
		v.Custom(FieldPrice, vehicle.Price < 0, "Price must be a positive number.")
	}

	vehicle.Miles = v.OptionalInt(FieldMiles, form[FieldMiles], "Mileage must be a whole number.")
	if !v.Fails(FieldMiles) {
		v.Custom(FieldMiles, vehicle.Miles < 0, "Mileage cannot be negative.")
	}

	vehicle.ClassificationID = v.Int(FieldClassificationID, form[FieldClassificationID], classificationRequiredMessage)
	if !v.Fails(FieldClassificationID) {
		v.Custom(FieldClassificationID, vehicle.ClassificationID <= 0, classificationRequiredMessage)
	}

	if err := v.Err(); err != nil {
		return nil, err
	}
	return vehicle, nil
}

// vehicleForm renders a stored vehicle back into form values.
func vehicleForm(vehicle *Vehicle) map[string]string {
	return map[string]string{
		FieldID:               strconv.Itoa(vehicle.ID),
		FieldClassificationID: strconv.Itoa(vehicle.ClassificationID),
		FieldMake:             vehicle.Make,
		FieldModel:            vehicle.Model,
		FieldYear:             strconv.Itoa(vehicle.Year),
		FieldDescription:      vehicle.Description,
		FieldImage:            vehicle.Image,
		FieldThumbnail:        vehicle.Thumbnail,
		FieldPrice:            strconv.FormatFloat(vehicle.Price, 'f', 2, 64),
		FieldMiles:            strconv.Itoa(vehicle.Miles),
		FieldColor:            vehicle.Color,
		FieldTransmission:     vehicle.Transmission,
	}
}
