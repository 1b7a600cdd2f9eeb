package gradebook

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// SQLStore persists the gradebook over database/sql (sqlite or postgres).
// Adjustments ride along as a JSON document, same as the submission store's
// answer payloads.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) UpsertCategory(ctx context.Context, c Category) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO gb_categories (id,course_id,name,weight)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (id) DO UPDATE SET course_id=EXCLUDED.course_id, name=EXCLUDED.name, weight=EXCLUDED.weight`,
		c.ID, c.CourseID, c.Name, c.Weight)
	return err
}

func (s *SQLStore) UpsertItem(ctx context.Context, it Item) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO gb_items (id,course_id,title,min_grade,max_grade,weight,category_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET course_id=EXCLUDED.course_id, title=EXCLUDED.title,
			min_grade=EXCLUDED.min_grade, max_grade=EXCLUDED.max_grade,
			weight=EXCLUDED.weight, category_id=EXCLUDED.category_id`,
		it.ID, it.CourseID, it.Title, it.MinGrade, it.MaxGrade, it.Weight, it.CategoryID)
	return err
}

func (s *SQLStore) GetItem(ctx context.Context, id string) (Item, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,course_id,title,min_grade,max_grade,weight,category_id FROM gb_items WHERE id=$1`, id)
	return scanItem(row)
}

func (s *SQLStore) ListItems(ctx context.Context, courseID string) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,course_id,title,min_grade,max_grade,weight,category_id FROM gb_items WHERE course_id=$1 ORDER BY id`,
		courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

type rowScanner interface{ Scan(dest ...any) error }

func scanItem(r rowScanner) (Item, error) {
	var it Item
	var weight sql.NullFloat64
	var category sql.NullString
	if err := r.Scan(&it.ID, &it.CourseID, &it.Title, &it.MinGrade, &it.MaxGrade, &weight, &category); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Item{}, ErrItemNotFound
		}
		return Item{}, err
	}
	if weight.Valid {
		it.Weight = &weight.Float64
	}
	it.CategoryID = category.String
	return it, nil
}

func (s *SQLStore) loadOrInit(ctx context.Context, itemID, userID string) (UserGrade, error) {
	if _, err := s.GetItem(ctx, itemID); err != nil {
		return UserGrade{}, err
	}
	g, err := s.GetUserGrade(ctx, itemID, userID)
	if errors.Is(err, ErrGradeNotFound) {
		return UserGrade{ItemID: itemID, UserID: userID}, nil
	}
	return g, err
}

func (s *SQLStore) save(ctx context.Context, g UserGrade) (UserGrade, error) {
	adjJSON, err := json.Marshal(g.Adjustments)
	if err != nil {
		return UserGrade{}, err
	}
	g.UpdatedAt = time.Now().Unix()
	_, err = s.db.ExecContext(ctx, `INSERT INTO user_grades (item_id,user_id,base_grade,adjustments_json,is_overridden,override_grade,updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (item_id,user_id) DO UPDATE SET base_grade=EXCLUDED.base_grade,
			adjustments_json=EXCLUDED.adjustments_json, is_overridden=EXCLUDED.is_overridden,
			override_grade=EXCLUDED.override_grade, updated_at=EXCLUDED.updated_at`,
		g.ItemID, g.UserID, g.BaseGrade, string(adjJSON), g.IsOverridden, g.OverrideGrade, g.UpdatedAt)
	if err != nil {
		return UserGrade{}, err
	}
	return g, nil
}

func (s *SQLStore) PutBaseGrade(ctx context.Context, itemID, userID string, grade *float64) (UserGrade, error) {
	g, err := s.loadOrInit(ctx, itemID, userID)
	if err != nil {
		return UserGrade{}, err
	}
	g.BaseGrade = grade
	return s.save(ctx, g)
}

func (s *SQLStore) AddAdjustment(ctx context.Context, itemID, userID string, adj Adjustment) (UserGrade, error) {
	g, err := s.loadOrInit(ctx, itemID, userID)
	if err != nil {
		return UserGrade{}, err
	}
	g.Adjustments = append(g.Adjustments, adj)
	return s.save(ctx, g)
}

func (s *SQLStore) SetAdjustmentActive(ctx context.Context, itemID, userID string, index int, active bool) (UserGrade, error) {
	g, err := s.loadOrInit(ctx, itemID, userID)
	if err != nil {
		return UserGrade{}, err
	}
	if index < 0 || index >= len(g.Adjustments) {
		return UserGrade{}, ErrBadAdjustment
	}
	g.Adjustments[index].Active = active
	return s.save(ctx, g)
}

func (s *SQLStore) RemoveAdjustment(ctx context.Context, itemID, userID string, index int) (UserGrade, error) {
	g, err := s.loadOrInit(ctx, itemID, userID)
	if err != nil {
		return UserGrade{}, err
	}
	if index < 0 || index >= len(g.Adjustments) {
		return UserGrade{}, ErrBadAdjustment
	}
	g.Adjustments = append(g.Adjustments[:index], g.Adjustments[index+1:]...)
	return s.save(ctx, g)
}

func (s *SQLStore) SetOverride(ctx context.Context, itemID, userID string, grade float64) (UserGrade, error) {
	g, err := s.loadOrInit(ctx, itemID, userID)
	if err != nil {
		return UserGrade{}, err
	}
	g.IsOverridden = true
	g.OverrideGrade = &grade
	return s.save(ctx, g)
}

func (s *SQLStore) ClearOverride(ctx context.Context, itemID, userID string) (UserGrade, error) {
	g, err := s.loadOrInit(ctx, itemID, userID)
	if err != nil {
		return UserGrade{}, err
	}
	g.IsOverridden = false
	g.OverrideGrade = nil
	return s.save(ctx, g)
}

func (s *SQLStore) GetUserGrade(ctx context.Context, itemID, userID string) (UserGrade, error) {
	row := s.db.QueryRowContext(ctx, `SELECT item_id,user_id,base_grade,adjustments_json,is_overridden,override_grade,updated_at
		FROM user_grades WHERE item_id=$1 AND user_id=$2`, itemID, userID)
	var g UserGrade
	var base, override sql.NullFloat64
	var adjJSON string
	if err := row.Scan(&g.ItemID, &g.UserID, &base, &adjJSON, &g.IsOverridden, &override, &g.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return UserGrade{}, ErrGradeNotFound
		}
		return UserGrade{}, err
	}
	if base.Valid {
		g.BaseGrade = &base.Float64
	}
	if override.Valid {
		g.OverrideGrade = &override.Float64
	}
	if adjJSON != "" {
		if err := json.Unmarshal([]byte(adjJSON), &g.Adjustments); err != nil {
			g.Adjustments = nil
		}
	}
	return g, nil
}

func (s *SQLStore) ListUserGrades(ctx context.Context, courseID, userID string) ([]GradedItem, error) {
	items, err := s.ListItems(ctx, courseID)
	if err != nil {
		return nil, err
	}
	out := make([]GradedItem, 0, len(items))
	for _, it := range items {
		gi := GradedItem{Item: it}
		if it.CategoryID != "" {
			var c Category
			var weight sql.NullFloat64
			err := s.db.QueryRowContext(ctx,
				`SELECT id,course_id,name,weight FROM gb_categories WHERE id=$1`, it.CategoryID).
				Scan(&c.ID, &c.CourseID, &c.Name, &weight)
			if err == nil {
				if weight.Valid {
					c.Weight = &weight.Float64
				}
				gi.Category = &c
			} else if !errors.Is(err, sql.ErrNoRows) {
				return nil, err
			}
		}
		g, err := s.GetUserGrade(ctx, it.ID, userID)
		if errors.Is(err, ErrGradeNotFound) {
			g = UserGrade{ItemID: it.ID, UserID: userID}
		} else if err != nil {
			return nil, err
		}
		gi.Grade = g
		out = append(out, gi)
	}
	return out, nil
}
