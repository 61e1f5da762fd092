// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package inventory

import (
	"context"
	"sort"
	"sync"

	"github.com/taibuivan/csemotors/internal/platform/apperr"
)

// MemoryRepository is an in-process [Repository] for the memory storage
// driver and for tests. It keeps the foreign key and name uniqueness rules
// of the database schema.
type MemoryRepository struct {
	mu                 sync.RWMutex
	classifications    map[int]Classification
	vehicles           map[int]Vehicle
	nextClassification int
	nextVehicle        int
}

// NewMemoryRepository creates a [MemoryRepository] holding the given
// classification names, in order.
func NewMemoryRepository(names ...string) *MemoryRepository {
	repository := &MemoryRepository{
		classifications:    make(map[int]Classification),
		vehicles:           make(map[int]Vehicle),
		nextClassification: 1,
		nextVehicle:        1,
	}
	for _, name := range names {
		_ = repository.CreateClassification(context.Background(), &Classification{Name: NormalizeClassificationName(name)})
	}
	return repository
}

// # Classifications

func (repository *MemoryRepository) ListClassifications(_ context.Context) ([]Classification, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	classifications := make([]Classification, 0, len(repository.classifications))
	for _, classification := range repository.classifications {
		classifications = append(classifications, classification)
	}
	sort.Slice(classifications, func(i, j int) bool {
		return classifications[i].Name < classifications[j].Name
	})
	return classifications, nil
}

func (repository *MemoryRepository) GetClassification(_ context.Context, id int) (*Classification, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	classification, ok := repository.classifications[id]
	if !ok {
		return nil, apperr.NotFound("Classification")
	}
	return &classification, nil
}

func (repository *MemoryRepository) CreateClassification(_ context.Context, classification *Classification) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, existing := range repository.classifications {
		if NormalizeClassificationName(existing.Name) == NormalizeClassificationName(classification.Name) {
			return apperr.Conflict("A record with the same value already exists.")
		}
	}

	classification.ID = repository.nextClassification
	repository.nextClassification++
	repository.classifications[classification.ID] = *classification
	return nil
}

// # Vehicles

func (repository *MemoryRepository) ListByClassification(_ context.Context, classificationID int) ([]Vehicle, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	vehicles := []Vehicle{}
	for _, vehicle := range repository.vehicles {
		if vehicle.ClassificationID == classificationID {
			vehicle.ClassificationName = ""
			vehicles = append(vehicles, vehicle)
		}
	}
	sort.Slice(vehicles, func(i, j int) bool { return vehicles[i].ID < vehicles[j].ID })
	return vehicles, nil
}

func (repository *MemoryRepository) GetVehicle(_ context.Context, id int) (*Vehicle, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	vehicle, ok := repository.vehicles[id]
	if !ok {
		return nil, apperr.NotFound("Vehicle")
	}
	vehicle.ClassificationName = repository.classifications[vehicle.ClassificationID].Name
	return &vehicle, nil
}

func (repository *MemoryRepository) CreateVehicle(_ context.Context, vehicle *Vehicle) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if err := repository.checkClassification(vehicle.ClassificationID); err != nil {
		return err
	}

	vehicle.ID = repository.nextVehicle
	repository.nextVehicle++
	repository.vehicles[vehicle.ID] = *vehicle
	return nil
}

func (repository *MemoryRepository) UpdateVehicle(_ context.Context, vehicle *Vehicle) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.vehicles[vehicle.ID]; !ok {
		return apperr.NotFound("Vehicle")
	}
	if err := repository.checkClassification(vehicle.ClassificationID); err != nil {
		return err
	}

	repository.vehicles[vehicle.ID] = *vehicle
	return nil
}

func (repository *MemoryRepository) DeleteVehicle(_ context.Context, id int) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.vehicles[id]; !ok {
		return apperr.NotFound("Vehicle")
	}
	delete(repository.vehicles, id)
	return nil
}

// checkClassification must be called with the lock held.
func (repository *MemoryRepository) checkClassification(id int) error {
	if _, ok := repository.classifications[id]; !ok {
		return apperr.ValidationError("Referenced record does not exist.")
	}
	return nil
}
