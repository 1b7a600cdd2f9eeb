package gradebook

import (
	"context"
	"errors"
	"sync"
)

// Category groups gradebook items under a shared weight.
type Category struct {
	ID       string   `json:"id"`
	CourseID string   `json:"course_id"`
	Name     string   `json:"name"`
	Weight   *float64 `json:"weight"` // percent; nil = unweighted
}

// Item is one weighted, gradable unit of coursework.
type Item struct {
	ID         string   `json:"id"`
	CourseID   string   `json:"course_id"`
	Title      string   `json:"title"`
	MinGrade   float64  `json:"min_grade"`
	MaxGrade   float64  `json:"max_grade"`
	Weight     *float64 `json:"weight"`                // percent; nil = unweighted
	CategoryID string   `json:"category_id,omitempty"` // empty = uncategorized
}

// UserGrade is one learner's grade record for one item. Mutations never
// recompute anything: the correct grade is derived on read via the weighting
// engine.
type UserGrade struct {
	ItemID        string       `json:"item_id"`
	UserID        string       `json:"user_id"`
	BaseGrade     *float64     `json:"base_grade"`
	Adjustments   []Adjustment `json:"adjustments,omitempty"`
	IsOverridden  bool         `json:"is_overridden,omitempty"`
	OverrideGrade *float64     `json:"override_grade,omitempty"`
	UpdatedAt     int64        `json:"updated_at,omitempty"`
}

// GradedItem joins a user grade with its item and category for weighting.
type GradedItem struct {
	Item     Item      `json:"item"`
	Category *Category `json:"category,omitempty"`
	Grade    UserGrade `json:"grade"`
}

// Weighting returns the engine's view of this entry.
func (gi GradedItem) Weighting() ItemGrade {
	ig := ItemGrade{
		BaseGrade:     gi.Grade.BaseGrade,
		Adjustments:   gi.Grade.Adjustments,
		IsOverridden:  gi.Grade.IsOverridden,
		OverrideGrade: gi.Grade.OverrideGrade,
		ItemWeight:    gi.Item.Weight,
	}
	if gi.Category != nil {
		ig.CategoryWeight = gi.Category.Weight
	}
	return ig
}

var (
	ErrItemNotFound  = errors.New("gradebook item not found")
	ErrGradeNotFound = errors.New("user grade not found")
	ErrBadAdjustment = errors.New("adjustment index out of range")
)

// Store persists gradebook structure and per-user grades.
type Store interface {
	UpsertCategory(ctx context.Context, c Category) error
	UpsertItem(ctx context.Context, it Item) error
	GetItem(ctx context.Context, id string) (Item, error)
	ListItems(ctx context.Context, courseID string) ([]Item, error)

	PutBaseGrade(ctx context.Context, itemID, userID string, grade *float64) (UserGrade, error)
	AddAdjustment(ctx context.Context, itemID, userID string, adj Adjustment) (UserGrade, error)
	SetAdjustmentActive(ctx context.Context, itemID, userID string, index int, active bool) (UserGrade, error)
	RemoveAdjustment(ctx context.Context, itemID, userID string, index int) (UserGrade, error)
	SetOverride(ctx context.Context, itemID, userID string, grade float64) (UserGrade, error)
	ClearOverride(ctx context.Context, itemID, userID string) (UserGrade, error)

	GetUserGrade(ctx context.Context, itemID, userID string) (UserGrade, error)
	ListUserGrades(ctx context.Context, courseID, userID string) ([]GradedItem, error)
}

// FinalGradeFor reads a learner's graded items for one course and rolls them
// up. Items the learner has no grade record for are included with a nil base
// grade, which the engine skips.
func FinalGradeFor(ctx context.Context, s Store, courseID, userID string) (FinalGrade, error) {
	entries, err := s.ListUserGrades(ctx, courseID, userID)
	if err != nil {
		return FinalGrade{}, err
	}
	items := make([]ItemGrade, 0, len(entries))
	for _, e := range entries {
		items = append(items, e.Weighting())
	}
	return ComputeFinalGrade(items), nil
}

// memoryStore is the offline/test implementation.
type memoryStore struct {
	mu         sync.RWMutex
	categories map[string]Category
	items      map[string]Item
	grades     map[string]UserGrade // itemID|userID
}

func NewInMemoryStore() Store {
	return &memoryStore{
		categories: map[string]Category{},
		items:      map[string]Item{},
		grades:     map[string]UserGrade{},
	}
}

func gradeKey(itemID, userID string) string { return itemID + "|" + userID }

func (m *memoryStore) UpsertCategory(_ context.Context, c Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[c.ID] = c
	return nil
}

func (m *memoryStore) UpsertItem(_ context.Context, it Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[it.ID] = it
	return nil
}

func (m *memoryStore) GetItem(_ context.Context, id string) (Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.items[id]
	if !ok {
		return Item{}, ErrItemNotFound
	}
	return it, nil
}

func (m *memoryStore) ListItems(_ context.Context, courseID string) ([]Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Item
	for _, it := range m.items {
		if it.CourseID == courseID {
			out = append(out, it)
		}
	}
	return out, nil
}

// loadOrInit returns the grade record, creating an empty one on first touch.
func (m *memoryStore) loadOrInit(itemID, userID string) (UserGrade, error) {
	if _, ok := m.items[itemID]; !ok {
		return UserGrade{}, ErrItemNotFound
	}
	g, ok := m.grades[gradeKey(itemID, userID)]
	if !ok {
		g = UserGrade{ItemID: itemID, UserID: userID}
	}
	return g, nil
}

func (m *memoryStore) save(g UserGrade) UserGrade {
	m.grades[gradeKey(g.ItemID, g.UserID)] = g
	return g
}

func (m *memoryStore) PutBaseGrade(_ context.Context, itemID, userID string, grade *float64) (UserGrade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, err := m.loadOrInit(itemID, userID)
	if err != nil {
		return UserGrade{}, err
	}
	g.BaseGrade = grade
	return m.save(g), nil
}

func (m *memoryStore) AddAdjustment(_ context.Context, itemID, userID string, adj Adjustment) (UserGrade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, err := m.loadOrInit(itemID, userID)
	if err != nil {
		return UserGrade{}, err
	}
	g.Adjustments = append(g.Adjustments, adj)
	return m.save(g), nil
}

func (m *memoryStore) SetAdjustmentActive(_ context.Context, itemID, userID string, index int, active bool) (UserGrade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, err := m.loadOrInit(itemID, userID)
	if err != nil {
		return UserGrade{}, err
	}
	if index < 0 || index >= len(g.Adjustments) {
		return UserGrade{}, ErrBadAdjustment
	}
	g.Adjustments[index].Active = active
	return m.save(g), nil
}

func (m *memoryStore) RemoveAdjustment(_ context.Context, itemID, userID string, index int) (UserGrade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, err := m.loadOrInit(itemID, userID)
	if err != nil {
		return UserGrade{}, err
	}
	if index < 0 || index >= len(g.Adjustments) {
		return UserGrade{}, ErrBadAdjustment
	}
	g.Adjustments = append(g.Adjustments[:index], g.Adjustments[index+1:]...)
	return m.save(g), nil
}

func (m *memoryStore) SetOverride(_ context.Context, itemID, userID string, grade float64) (UserGrade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, err := m.loadOrInit(itemID, userID)
	if err != nil {
		return UserGrade{}, err
	}
	g.IsOverridden = true
	g.OverrideGrade = &grade
	return m.save(g), nil
}

func (m *memoryStore) ClearOverride(_ context.Context, itemID, userID string) (UserGrade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, err := m.loadOrInit(itemID, userID)
	if err != nil {
		return UserGrade{}, err
	}
	g.IsOverridden = false
	g.OverrideGrade = nil
	return m.save(g), nil
}

func (m *memoryStore) GetUserGrade(_ context.Context, itemID, userID string) (UserGrade, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.grades[gradeKey(itemID, userID)]
	if !ok {
		return UserGrade{}, ErrGradeNotFound
	}
	return g, nil
}

func (m *memoryStore) ListUserGrades(_ context.Context, courseID, userID string) ([]GradedItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []GradedItem
	for _, it := range m.items {
		if it.CourseID != courseID {
			continue
		}
		gi := GradedItem{Item: it}
		if it.CategoryID != "" {
			if c, ok := m.categories[it.CategoryID]; ok {
				cc := c
				gi.Category = &cc
			}
		}
		if g, ok := m.grades[gradeKey(it.ID, userID)]; ok {
			gi.Grade = g
		} else {
			gi.Grade = UserGrade{ItemID: it.ID, UserID: userID}
		}
		out = append(out, gi)
	}
	return out, nil
}
