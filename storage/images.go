package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/loganlanou/prjimages/internal/updater"
)

var ErrUnknownColumn = errors.New("unknown table or column")

// columns lists the URL columns that may be read and rewritten. Table and
// column names are interpolated into SQL, so nothing outside this list is
// ever accepted.
var columns = map[string]map[string]bool{
	"projects":       {"featured_image_url": true},
	"project_images": {"image_url": true},
}

var _ updater.Table = (*Storage)(nil)

func checkColumn(table, field string) error {
	if !columns[table][field] {
		return fmt.Errorf("%w: %s.%s", ErrUnknownColumn, table, field)
	}
	return nil
}

// FetchAll returns id and field for every row of table.
func (s *Storage) FetchAll(ctx context.Context, table, field string) ([]updater.Row, error) {
	if err := checkColumn(table, field); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT id, %s FROM %s ORDER BY created_at, id", field, table))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var result []updater.Row
	for rows.Next() {
		var id string
		var value sql.NullString
		if err := rows.Scan(&id, &value); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		result = append(result, updater.Row{ID: id, Value: value.String})
	}
	return result, rows.Err()
}

// UpdateField sets field on the row with the given id. Updating a row that
// does not exist is an error.
func (s *Storage) UpdateField(ctx context.Context, table, id, field, value string) error {
	if err := checkColumn(table, field); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, fmt.Sprintf("UPDATE %s SET %s = ? WHERE id = ?", table, field), value, id)
	if err != nil {
		return fmt.Errorf("failed to update %s %s: %w", table, id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", table, id, sql.ErrNoRows)
	}
	return nil
}

type Project struct {
	ID               string
	Title            string
	FeaturedImageURL sql.NullString
}

type ProjectImage struct {
	ID           string
	ProjectID    string
	ImageURL     sql.NullString
	AltText      sql.NullString
	DisplayOrder int64
}

func (s *Storage) CreateProject(ctx context.Context, p Project) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO projects (id, title, featured_image_url) VALUES (?, ?, ?)",
		p.ID, p.Title, p.FeaturedImageURL)
	if err != nil {
		return fmt.Errorf("failed to create project %s: %w", p.ID, err)
	}
	return nil
}

func (s *Storage) CreateProjectImage(ctx context.Context, img ProjectImage) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO project_images (id, project_id, image_url, alt_text, display_order) VALUES (?, ?, ?, ?, ?)",
		img.ID, img.ProjectID, img.ImageURL, img.AltText, img.DisplayOrder)
	if err != nil {
		return fmt.Errorf("failed to create project image %s: %w", img.ID, err)
	}
	return nil
}

func (s *Storage) GetProjectImage(ctx context.Context, id string) (ProjectImage, error) {
	var img ProjectImage
	err := s.db.QueryRowContext(ctx,
		"SELECT id, project_id, image_url, alt_text, display_order FROM project_images WHERE id = ?", id,
	).Scan(&img.ID, &img.ProjectID, &img.ImageURL, &img.AltText, &img.DisplayOrder)
	if err != nil {
		return ProjectImage{}, fmt.Errorf("failed to get project image %s: %w", id, err)
	}
	return img, nil
}

func (s *Storage) GetProject(ctx context.Context, id string) (Project, error) {
	var p Project
	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, featured_image_url FROM projects WHERE id = ?", id,
	).Scan(&p.ID, &p.Title, &p.FeaturedImageURL)
	if err != nil {
		return Project{}, fmt.Errorf("failed to get project %s: %w", id, err)
	}
	return p, nil
}
