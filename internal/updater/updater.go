// Package updater rewrites bracket-tagged image URLs stored in a table.
package updater

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/loganlanou/prjimages/internal/naming"
)

var ErrFetch = errors.New("failed to fetch rows")

// Row is one record of the target table: its identifier and the value of
// the URL column being rewritten. Value is empty when the column is null.
type Row struct {
	ID    string
	Value string
}

// Table is the remote capability the updater needs. Implementations must
// treat table and field as identifiers, never as free-form SQL or filters.
type Table interface {
	FetchAll(ctx context.Context, table, field string) ([]Row, error)
	UpdateField(ctx context.Context, table, id, field, value string) error
}

// Target names the column to rewrite and the rule that rewrites it.
type Target struct {
	Table     string
	Field     string
	Transform naming.Rule
}

var (
	ProjectImages = Target{
		Table:     "project_images",
		Field:     "image_url",
		Transform: naming.TransformURL,
	}
	FeaturedImages = Target{
		Table:     "projects",
		Field:     "featured_image_url",
		Transform: naming.TransformFeaturedURL,
	}
)

type Option func(*Updater)

// WithDryRun computes the new values without writing them.
func WithDryRun(dryRun bool) Option {
	return func(u *Updater) { u.dryRun = dryRun }
}

type Updater struct {
	table  Table
	dryRun bool
}

func New(table Table, opts ...Option) *Updater {
	u := &Updater{table: table}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Run fetches every row of target once and writes back only the values the
// rule changes, one row at a time.
//
// The returned error is non-nil only when the fetch fails, in which case no
// write was attempted. A failed write is logged, recorded in the result and
// the remaining rows are still processed.
func (u *Updater) Run(ctx context.Context, target Target) (*Result, error) {
	rows, err := u.table.FetchAll(ctx, target.Table, target.Field)
	if err != nil {
		slog.Error("failed to fetch rows", "table", target.Table, "error", err)
		return nil, fmt.Errorf("%w from %s: %w", ErrFetch, target.Table, err)
	}

	result := &Result{Table: target.Table, Total: len(rows), DryRun: u.dryRun}
	if len(rows) == 0 {
		slog.Info("no images found", "table", target.Table)
		return result, nil
	}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if row.Value == "" {
			continue
		}

		newValue := target.Transform(row.Value)
		if newValue == row.Value {
			result.Unchanged++
			continue
		}

		if u.dryRun {
			slog.Info("would update row", "table", target.Table, "id", row.ID, "from", row.Value, "to", newValue)
			result.Updated++
			continue
		}

		if err := u.update(ctx, target, row.ID, newValue); err != nil {
			result.Errors = append(result.Errors, RowError{ID: row.ID, Err: err})
			continue
		}

		slog.Info("updated row", "table", target.Table, "id", row.ID, "from", row.Value, "to", newValue)
		result.Updated++
	}

	return result, nil
}

// update isolates a single write. A panic inside the table implementation
// is turned into an error for this row only.
func (u *Updater) update(ctx context.Context, target Target, id, value string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected error: %v", r)
			slog.Error("unexpected error updating row", "table", target.Table, "id", id, "error", err)
		}
	}()

	if err := u.table.UpdateField(ctx, target.Table, id, target.Field, value); err != nil {
		slog.Error("error updating row", "table", target.Table, "id", id, "error", err)
		return err
	}
	return nil
}
