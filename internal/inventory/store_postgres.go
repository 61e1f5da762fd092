// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/csemotors/internal/platform/apperr"
	"github.com/taibuivan/csemotors/internal/platform/database/schema"
	"github.com/taibuivan/csemotors/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a PostgreSQL [Repository].
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var (
	selectClassification = fmt.Sprintf(`SELECT %s FROM %s`,
		strings.Join(schema.Classification.Columns(), ", "),
		schema.Classification.Table,
	)

	selectVehicle = fmt.Sprintf(`SELECT %s FROM %s`,
		strings.Join(schema.Inventory.Columns(), ", "),
		schema.Inventory.Table,
	)
)

type scanner interface {
	Scan(dest ...any) error
}

func vehicleTargets(vehicle *Vehicle) []any {
	return []any{
		&vehicle.ID,
		&vehicle.Make,
		&vehicle.Model,
		&vehicle.Year,
		&vehicle.Description,
		&vehicle.Image,
		&vehicle.Thumbnail,
		&vehicle.Price,
		&vehicle.Miles,
		&vehicle.Color,
		&vehicle.Transmission,
		&vehicle.ClassificationID,
	}
}

func scanVehicle(row scanner) (*Vehicle, error) {
	vehicle := &Vehicle{}
	if err := row.Scan(vehicleTargets(vehicle)...); err != nil {
		return nil, err
	}
	return vehicle, nil
}

// # Classifications

func (repository *PostgresRepository) ListClassifications(context context.Context) ([]Classification, error) {
	query := fmt.Sprintf(`%s ORDER BY %s`, selectClassification, schema.Classification.Name)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_classifications")
	}

	classifications, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Classification, error) {
		var classification Classification
		err := row.Scan(&classification.ID, &classification.Name)
		return classification, err
	})
	if err != nil {
		return nil, dberr.Wrap(err, "scan_classifications")
	}
	return classifications, nil
}

func (repository *PostgresRepository) GetClassification(context context.Context, id int) (*Classification, error) {
	query := fmt.Sprintf(`%s WHERE %s = $1`, selectClassification, schema.Classification.ID)

	classification := &Classification{}
	err := repository.db.QueryRow(context, query, id).Scan(&classification.ID, &classification.Name)
	if err != nil {
		return nil, dberr.WrapAs(err, "get_classification", "Classification")
	}
	return classification, nil
}

func (repository *PostgresRepository) CreateClassification(context context.Context, classification *Classification) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1) RETURNING %s;`,
		schema.Classification.Table,
		schema.Classification.Name,
		schema.Classification.ID,
	)

	if err := repository.db.QueryRow(context, query, classification.Name).Scan(&classification.ID); err != nil {
		return dberr.Wrap(err, "insert_classification")
	}
	return nil
}

// # Vehicles

func (repository *PostgresRepository) ListByClassification(context context.Context, classificationID int) ([]Vehicle, error) {
	query := fmt.Sprintf(`%s WHERE %s = $1 ORDER BY %s`,
		selectVehicle,
		schema.Inventory.ClassificationID,
		schema.Inventory.ID,
	)

	rows, err := repository.db.Query(context, query, classificationID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_vehicles_by_classification")
	}

	vehicles, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Vehicle, error) {
		vehicle, err := scanVehicle(row)
		if err != nil {
			return Vehicle{}, err
		}
		return *vehicle, nil
	})
	if err != nil {
		return nil, dberr.Wrap(err, "scan_vehicles")
	}
	return vehicles, nil
}

// GetVehicle joins the classification so the detail page can show the body style.
func (repository *PostgresRepository) GetVehicle(context context.Context, id int) (*Vehicle, error) {
	query := fmt.Sprintf(`
		SELECT %s, c.%s
		FROM %s i
		JOIN %s c ON c.%s = i.%s
		WHERE i.%s = $1
	`,
		strings.Join(schema.Qualified("i", schema.Inventory.Columns()), ", "),
		schema.Classification.Name,
		schema.Inventory.Table,
		schema.Classification.Table,
		schema.Classification.ID,
		schema.Inventory.ClassificationID,
		schema.Inventory.ID,
	)

	vehicle := &Vehicle{}
	targets := append(vehicleTargets(vehicle), &vehicle.ClassificationName)
	if err := repository.db.QueryRow(context, query, id).Scan(targets...); err != nil {
		return nil, dberr.WrapAs(err, "get_vehicle", "Vehicle")
	}
	return vehicle, nil
}

// editableColumns lists every column written by insert and update, in
// [vehicleValues] order.
var editableColumns = []string{
	schema.Inventory.Make,
	schema.Inventory.Model,
	schema.Inventory.Year,
	schema.Inventory.Description,
	schema.Inventory.Image,
	schema.Inventory.Thumbnail,
	schema.Inventory.Price,
	schema.Inventory.Miles,
	schema.Inventory.Color,
	schema.Inventory.Transmission,
	schema.Inventory.ClassificationID,
}

func vehicleValues(vehicle *Vehicle) []any {
	return []any{
		vehicle.Make,
		vehicle.Model,
		vehicle.Year,
		vehicle.Description,
		vehicle.Image,
		vehicle.Thumbnail,
		vehicle.Price,
		vehicle.Miles,
		vehicle.Color,
		vehicle.Transmission,
		vehicle.ClassificationID,
	}
}

func placeholders(from, count int) string {
	marks := make([]string, count)
	for i := range marks {
		marks[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(marks, ", ")
}

func (repository *PostgresRepository) CreateVehicle(context context.Context, vehicle *Vehicle) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING %s;`,
		schema.Inventory.Table,
		strings.Join(editableColumns, ", "),
		placeholders(1, len(editableColumns)),
		schema.Inventory.ID,
	)

	if err := repository.db.QueryRow(context, query, vehicleValues(vehicle)...).Scan(&vehicle.ID); err != nil {
		return dberr.Wrap(err, "insert_vehicle")
	}
	return nil
}

func (repository *PostgresRepository) UpdateVehicle(context context.Context, vehicle *Vehicle) error {
	assignments := make([]string, len(editableColumns))
	for i, column := range editableColumns {
		assignments[i] = fmt.Sprintf("%s = $%d", column, i+2)
	}

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $1;`,
		schema.Inventory.Table,
		strings.Join(assignments, ", "),
		schema.Inventory.ID,
	)

	args := append([]any{vehicle.ID}, vehicleValues(vehicle)...)
	tag, err := repository.db.Exec(context, query, args...)
	if err != nil {
		return dberr.Wrap(err, "update_vehicle")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Vehicle")
	}
	return nil
}

func (repository *PostgresRepository) DeleteVehicle(context context.Context, id int) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1;`, schema.Inventory.Table, schema.Inventory.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_vehicle")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Vehicle")
	}
	return nil
}
