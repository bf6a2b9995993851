// Package metrics implements the metrics aggregation engine: row classification,
// per-project deduplication and the aggregate functions used by every chart.
// All functions are pure and deterministic; nothing here performs I/O.
package metrics

import (
	"strings"
	"time"
)

// TransactionType is the kind of a transaction row.
type TransactionType string

// Known transaction types. Unknown values returned by the API are preserved as-is.
const (
	TypeXP    TransactionType = "xp"
	TypeUp    TransactionType = "up"
	TypeDown  TransactionType = "down"
	TypeLevel TransactionType = "level"
)

// Row is the normalized shape of a transaction or progress record.
// Missing numeric fields are zero, a missing grade is nil and a missing
// timestamp is the zero time.
type Row struct {
	Amount    int64
	Grade     *float64
	Path      string
	CreatedAt time.Time
	Type      TransactionType
	IsDone    *bool
}

// HasGrade reports whether the row carries a grade.
func (r Row) HasGrade() bool {
	return r.Grade != nil
}

// GradeOr returns the grade, or fallback when the row is not graded.
func (r Row) GradeOr(fallback float64) float64 {
	if r.Grade == nil {
		return fallback
	}

	return *r.Grade
}

// NewTransaction builds a transaction row.
func NewTransaction(txType TransactionType, path string, amount int64, createdAt time.Time) Row {
	return Row{
		Amount:    amount,
		Path:      path,
		CreatedAt: createdAt,
		Type:      txType,
	}
}

// NewProgress builds a progress row. A nil grade means "not graded".
func NewProgress(path string, grade *float64, createdAt time.Time) Row {
	return Row{
		Grade:     grade,
		Path:      path,
		CreatedAt: createdAt,
	}
}

// Grade returns a pointer to g, for building progress rows inline.
func Grade(g float64) *float64 {
	return &g
}

// ProjectKey returns the identity of the project a row belongs to.
func ProjectKey(r Row) string {
	return r.Path
}

// UserAttrs holds the optional profile attributes of a user.
type UserAttrs struct {
	FirstName string `json:"firstName,omitempty" yaml:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"  yaml:"lastName,omitempty"`
}

// UserIdentity identifies the signed-in user.
type UserIdentity struct {
	ID    int64     `json:"id"    yaml:"id"`
	Login string    `json:"login" yaml:"login"`
	Attrs UserAttrs `json:"attrs" yaml:"attrs"`
}

// DisplayName returns "first last" when either name is set, else the login.
func (u UserIdentity) DisplayName() string {
	if u.Attrs.FirstName == "" && u.Attrs.LastName == "" {
		return u.Login
	}

	return strings.TrimSpace(u.Attrs.FirstName + " " + u.Attrs.LastName)
}
