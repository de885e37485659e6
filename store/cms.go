// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/danielhkuo/keystone-adops/models"
)

// ErrParentNotFound is returned when a location names a missing parent.
var ErrParentNotFound = errors.New("parent location not found")

// Orders

// ListOrders returns orders newest first. statusID 0 means any status.
func (s *Store) ListOrders(ctx context.Context, statusID, offset, limit int) ([]models.Order, error) {
	query := `SELECT id, purchaser_id, purchaser_type_id, order_total, ordered_at, status_id FROM orders`
	args := []any{}
	if statusID != 0 {
		query += ` WHERE status_id = ?`
		args = append(args, statusID)
	}
	query += ` ORDER BY ordered_at DESC, id LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	orders := []models.Order{}
	if err := s.selectAll(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	for i := range orders {
		orders[i].StatusLabel = models.OrderStatusLabel(orders[i].StatusID)
	}
	return orders, nil
}

func (s *Store) CreateOrder(ctx context.Context, o models.Order) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO orders (id, purchaser_id, purchaser_type_id, order_total, ordered_at, status_id)
		VALUES (:id, :purchaser_id, :purchaser_type_id, :order_total, :ordered_at, :status_id)
	`, o)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// Events

func (s *Store) ListEvents(ctx context.Context, offset, limit int) ([]models.Event, error) {
	events := []models.Event{}
	err := s.selectAll(ctx, &events, `SELECT * FROM events ORDER BY start_date DESC, id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *Store) GetEvent(ctx context.Context, id string) (models.Event, error) {
	var e models.Event
	if err := s.get(ctx, &e, `SELECT * FROM events WHERE id = ?`, id); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

func (s *Store) CreateEvent(ctx context.Context, e models.Event) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO events (id, name, start_date, end_date, location_building, city, address,
			type_id, status_id, standard_price, created_at, updated_at)
		VALUES (:id, :name, :start_date, :end_date, :location_building, :city, :address,
			:type_id, :status_id, :standard_price, :created_at, :updated_at)
	`, e)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// Geo locations

const locationColumns = `id, name, parent_id, friendly_name, location_type_id, location_code,
	nationality, latitude, longitude, archived`

// ListLocations returns the children of parentID, or the top level when
// parentID is nil.
func (s *Store) ListLocations(ctx context.Context, parentID *string) ([]models.GeoLocation, error) {
	locs := []models.GeoLocation{}
	var err error
	if parentID == nil {
		err = s.selectAll(ctx, &locs, `SELECT `+locationColumns+` FROM geo_locations WHERE parent_id IS NULL ORDER BY name, id`)
	} else {
		err = s.selectAll(ctx, &locs, `SELECT `+locationColumns+` FROM geo_locations WHERE parent_id = ? ORDER BY name, id`, *parentID)
	}
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return locs, nil
}

func (s *Store) GetLocation(ctx context.Context, id string) (models.GeoLocation, error) {
	var loc models.GeoLocation
	if err := s.get(ctx, &loc, `SELECT `+locationColumns+` FROM geo_locations WHERE id = ?`, id); err != nil {
		return models.GeoLocation{}, err
	}
	return loc, nil
}

func (s *Store) CreateLocation(ctx context.Context, loc models.GeoLocation) error {
	if loc.ParentID != nil {
		if _, err := s.GetLocation(ctx, *loc.ParentID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return ErrParentNotFound
			}
			return err
		}
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO geo_locations (`+locationColumns+`)
		VALUES (:id, :name, :parent_id, :friendly_name, :location_type_id, :location_code,
			:nationality, :latitude, :longitude, :archived)
	`, loc)
	if err != nil {
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

// LocationTree loads every location and nests children under their parents.
// Rows whose parent is missing are treated as roots.
func (s *Store) LocationTree(ctx context.Context) ([]models.GeoLocation, error) {
	var all []models.GeoLocation
	if err := s.selectAll(ctx, &all, `SELECT `+locationColumns+` FROM geo_locations`); err != nil {
		return nil, fmt.Errorf("load locations: %w", err)
	}
	return BuildTree(all), nil
}

// BuildTree nests a flat location list. Siblings are ordered by name.
func BuildTree(flat []models.GeoLocation) []models.GeoLocation {
	byID := make(map[string]int, len(flat))
	for i, loc := range flat {
		byID[loc.ID] = i
	}

	children := make(map[string][]string)
	var roots []string
	for _, loc := range flat {
		if loc.ParentID != nil {
			if _, ok := byID[*loc.ParentID]; ok && *loc.ParentID != loc.ID {
				children[*loc.ParentID] = append(children[*loc.ParentID], loc.ID)
				continue
			}
		}
		roots = append(roots, loc.ID)
	}

	visited := make(map[string]bool, len(flat))
	var build func(id string) models.GeoLocation
	build = func(id string) models.GeoLocation {
		visited[id] = true
		node := flat[byID[id]]
		node.Children = nil
		for _, childID := range children[id] {
			if visited[childID] {
				continue
			}
			node.Children = append(node.Children, build(childID))
		}
		sortByName(node.Children)
		return node
	}

	tree := make([]models.GeoLocation, 0, len(roots))
	for _, id := range roots {
		tree = append(tree, build(id))
	}
	sortByName(tree)
	return tree
}

func sortByName(locs []models.GeoLocation) {
	sort.SliceStable(locs, func(i, j int) bool {
		if locs[i].Name != locs[j].Name {
			return locs[i].Name < locs[j].Name
		}
		return locs[i].ID < locs[j].ID
	})
}
