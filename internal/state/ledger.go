// Package state holds the budget ledger as an explicit value.
//
// Operations never mutate their input: each takes a Ledger and returns the
// next one, leaving ownership of the current state with the caller.
package state

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"spendwise/internal/core"
	"spendwise/internal/validate"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownGroup    = errors.New("unknown category group")
	ErrDuplicateID     = errors.New("duplicate id")
)

// Ledger is a snapshot of everything the budget screens show.
type Ledger struct {
	ID           string // shared by every snapshot derived from the same New call
	Categories   []core.Category
	Groups       []core.CategoryGroup
	Transactions []core.Transaction
	Month        core.Month // month currently selected for display
	Revision     int64      // bumped by every successful change
}

// Env supplies identifiers and timestamps to ledger operations.
type Env struct {
	NewID   func() string
	Now     func() time.Time
	OwnerID string
}

// DefaultEnv generates UUIDs and reads the system clock.
func DefaultEnv(ownerID string) Env {
	return Env{NewID: uuid.NewString, Now: time.Now, OwnerID: ownerID}
}

// CategoryInput is the raw form data for creating or editing a category.
type CategoryInput struct {
	Name    string
	Budget  string
	GroupID string
}

// New returns an empty ledger showing month.
func New(month core.Month) Ledger {
	return Ledger{ID: uuid.NewString(), Month: month}
}

func (l Ledger) next() Ledger {
	l.Revision++
	return l
}

// Category returns the category with id.
func (l Ledger) Category(id string) (core.Category, bool) {
	i := l.categoryIndex(id)
	if i < 0 {
		return core.Category{}, false
	}
	return l.Categories[i], true
}

func (l Ledger) categoryIndex(id string) int {
	return slices.IndexFunc(l.Categories, func(c core.Category) bool { return c.ID == id })
}

func (l Ledger) groupIndex(id string) int {
	return slices.IndexFunc(l.Groups, func(g core.CategoryGroup) bool { return g.ID == id })
}

func (l Ledger) checkGroup(id string) error {
	if id != "" && l.groupIndex(id) < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownGroup, id)
	}
	return nil
}

// AddCategory validates in and appends a new category.
func AddCategory(l Ledger, env Env, in CategoryInput) (Ledger, core.Category, error) {
	if err := validate.CheckUpdate(in.Name, in.Budget); err != nil {
		return l, core.Category{}, err
	}
	if err := l.checkGroup(in.GroupID); err != nil {
		return l, core.Category{}, err
	}
	budget, _ := validate.ParseBudget(in.Budget)

	now := env.Now()
	c := core.Category{
		ID:        env.NewID(),
		Name:      strings.TrimSpace(in.Name),
		Budget:    budget,
		GroupID:   in.GroupID,
		OwnerID:   env.OwnerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if l.categoryIndex(c.ID) >= 0 {
		return l, core.Category{}, fmt.Errorf("%w: %s", ErrDuplicateID, c.ID)
	}

	out := l.next()
	out.Categories = append(slices.Clone(l.Categories), c)
	return out, c, nil
}

// PutCategory inserts or replaces an already built category, as done when
// importing existing data.
func PutCategory(l Ledger, c core.Category) (Ledger, error) {
	if err := c.Validate(); err != nil {
		return l, err
	}
	if c.ID == "" {
		return l, fmt.Errorf("%w: empty category id", ErrNotFound)
	}
	if err := l.checkGroup(c.GroupID); err != nil {
		return l, err
	}
	out := l.next()
	out.Categories = slices.Clone(l.Categories)
	if i := l.categoryIndex(c.ID); i >= 0 {
		out.Categories[i] = c
	} else {
		out.Categories = append(out.Categories, c)
	}
	return out, nil
}

// UpdateCategory replaces name, budget and group of an existing category.
func UpdateCategory(l Ledger, env Env, id string, in CategoryInput) (Ledger, core.Category, error) {
	i := l.categoryIndex(id)
	if i < 0 {
		return l, core.Category{}, fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	if err := validate.CheckUpdate(in.Name, in.Budget); err != nil {
		return l, core.Category{}, err
	}
	if err := l.checkGroup(in.GroupID); err != nil {
		return l, core.Category{}, err
	}
	budget, _ := validate.ParseBudget(in.Budget)

	c := l.Categories[i]
	c.Name = strings.TrimSpace(in.Name)
	c.Budget = budget
	c.GroupID = in.GroupID
	c.UpdatedAt = env.Now()

	out := l.next()
	out.Categories = slices.Clone(l.Categories)
	out.Categories[i] = c
	return out, c, nil
}

// DeleteCategory removes a category no transaction refers to.
func DeleteCategory(l Ledger, id string) (Ledger, error) {
	i := l.categoryIndex(id)
	if i < 0 {
		return l, fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	if err := validate.CheckDelete(id, l.Transactions); err != nil {
		return l, fmt.Errorf("delete category %s: %w", id, err)
	}
	out := l.next()
	out.Categories = slices.Delete(slices.Clone(l.Categories), i, i+1)
	return out, nil
}

// AddGroup appends a new, expanded category group.
func AddGroup(l Ledger, env Env, name string) (Ledger, core.CategoryGroup, error) {
	now := env.Now()
	g := core.CategoryGroup{
		ID:        env.NewID(),
		Name:      strings.TrimSpace(name),
		OwnerID:   env.OwnerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := g.Validate(); err != nil {
		return l, core.CategoryGroup{}, err
	}
	out := l.next()
	out.Groups = append(slices.Clone(l.Groups), g)
	return out, g, nil
}

// ToggleGroup flips the collapsed flag of a group.
func ToggleGroup(l Ledger, env Env, id string) (Ledger, error) {
	i := l.groupIndex(id)
	if i < 0 {
		return l, fmt.Errorf("group %s: %w", id, ErrNotFound)
	}
	out := l.next()
	out.Groups = slices.Clone(l.Groups)
	out.Groups[i].Collapsed = !out.Groups[i].Collapsed
	out.Groups[i].UpdatedAt = env.Now()
	return out, nil
}

// DeleteGroup removes a group; its categories become ungrouped.
func DeleteGroup(l Ledger, env Env, id string) (Ledger, error) {
	i := l.groupIndex(id)
	if i < 0 {
		return l, fmt.Errorf("group %s: %w", id, ErrNotFound)
	}
	out := l.next()
	out.Groups = slices.Delete(slices.Clone(l.Groups), i, i+1)
	out.Categories = slices.Clone(l.Categories)
	for j := range out.Categories {
		if out.Categories[j].GroupID == id {
			out.Categories[j].GroupID = ""
			out.Categories[j].UpdatedAt = env.Now()
		}
	}
	return out, nil
}

// AddTransaction records tx against an existing category. An empty ID is
// filled from env.
func AddTransaction(l Ledger, env Env, tx core.Transaction) (Ledger, core.Transaction, error) {
	if tx.ID == "" {
		tx.ID = env.NewID()
	}
	if err := tx.Validate(); err != nil {
		return l, core.Transaction{}, err
	}
	if l.categoryIndex(tx.CategoryID) < 0 {
		return l, core.Transaction{}, fmt.Errorf("%w: %s", ErrUnknownCategory, tx.CategoryID)
	}
	if slices.ContainsFunc(l.Transactions, func(t core.Transaction) bool { return t.ID == tx.ID }) {
		return l, core.Transaction{}, fmt.Errorf("%w: %s", ErrDuplicateID, tx.ID)
	}
	out := l.next()
	out.Transactions = append(slices.Clone(l.Transactions), tx)
	return out, tx, nil
}

// DeleteTransaction removes the transaction with id.
func DeleteTransaction(l Ledger, id string) (Ledger, error) {
	i := slices.IndexFunc(l.Transactions, func(t core.Transaction) bool { return t.ID == id })
	if i < 0 {
		return l, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	out := l.next()
	out.Transactions = slices.Delete(slices.Clone(l.Transactions), i, i+1)
	return out, nil
}

// SelectMonth changes the displayed month.
func SelectMonth(l Ledger, m core.Month) Ledger {
	if l.Month == m {
		return l
	}
	out := l.next()
	out.Month = m
	return out
}

func NextMonth(l Ledger) Ledger { return SelectMonth(l, l.Month.Next()) }

func PrevMonth(l Ledger) Ledger { return SelectMonth(l, l.Month.Prev()) }
