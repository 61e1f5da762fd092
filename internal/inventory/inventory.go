// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package inventory implements the vehicle catalogue: classifications,
// vehicle listings and the staff management pages.
//
// # Architecture
//
//   - inventory.go: entities and name normalization
//   - store.go / store_postgres.go / store_memory.go: persistence
//   - service.go: use cases
//   - rules.go: per-route form validation and coercion
//   - http.go: public pages, staff pages and the JSON listing
package inventory

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Default image paths used when a vehicle form leaves them blank.
const (
	DefaultImage     = "/images/vehicles/no-image.svg"
	DefaultThumbnail = "/images/vehicles/no-image-tn.svg"
)

// Classification groups vehicles, e.g. "suv" or "truck".
//
// Names are stored lowercase and are unique.
type Classification struct {
	ID   int    `json:"classification_id"`
	Name string `json:"classification_name"`
}

// Vehicle is one inventory listing.
//
// # Rules
//   - Year is at least 1900 and at most next year.
//   - Price and Miles are never negative.
//   - ClassificationID always references an existing classification.
type Vehicle struct {
	ID               int     `json:"inv_id"`
	Make             string  `json:"inv_make"`
	Model            string  `json:"inv_model"`
	Year             int     `json:"inv_year"`
	Description      string  `json:"inv_description"`
	Image            string  `json:"inv_image"`
	Thumbnail        string  `json:"inv_thumbnail"`
	Price            float64 `json:"inv_price"`
	Miles            int     `json:"inv_miles"`
	Color            string  `json:"inv_color"`
	Transmission     string  `json:"inv_transmission"`
	ClassificationID int     `json:"classification_id"`

	// ClassificationName is filled by single-vehicle lookups only.
	ClassificationName string `json:"classification_name,omitempty"`
}

var nameFold = cases.Lower(language.Und)

// NormalizeClassificationName trims and lowercases a classification name.
func NormalizeClassificationName(name string) string {
	return nameFold.String(norm.NFC.String(strings.TrimSpace(name)))
}
