package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var seedExtensions = []string{"jpg", "jpeg", "png", "webp"}

// SeedStats counts what Seed inserted.
type SeedStats struct {
	Projects int
	Images   int
}

// Seed fills the database with n fake projects whose image URLs still use the
// bracket naming, so the rewrite commands have something to work on locally.
// Roughly one image in five is already in the rewritten form.
func (s *Storage) Seed(ctx context.Context, faker *gofakeit.Faker, n int) (SeedStats, error) {
	var stats SeedStats

	for i := 1; i <= n; i++ {
		projectID := ulid.Make().String()
		cover := fmt.Sprintf("/images/[prj%d]%s.%s", i, slugWord(faker), faker.RandomString(seedExtensions))

		if err := s.CreateProject(ctx, Project{
			ID:               projectID,
			Title:            faker.BookTitle(),
			FeaturedImageURL: sql.NullString{String: cover, Valid: true},
		}); err != nil {
			return stats, err
		}
		stats.Projects++

		images := faker.Number(1, 6)
		for j := 0; j < images; j++ {
			name := fmt.Sprintf("%03d.%s", faker.Number(1, 999), faker.RandomString(seedExtensions))

			url := fmt.Sprintf("/images/projects/[prj%d]%s", i, name)
			if faker.Number(1, 5) == 1 {
				url = fmt.Sprintf("prj%d-%s", i, name)
			}
			if faker.Bool() {
				url += fmt.Sprintf("?v=%d", faker.Number(1, 9))
			}

			if err := s.CreateProjectImage(ctx, ProjectImage{
				ID:           uuid.NewString(),
				ProjectID:    projectID,
				ImageURL:     sql.NullString{String: url, Valid: true},
				AltText:      sql.NullString{String: faker.Phrase(), Valid: true},
				DisplayOrder: int64(j),
			}); err != nil {
				return stats, err
			}
			stats.Images++
		}
	}

	return stats, nil
}

func slugWord(faker *gofakeit.Faker) string {
	return strings.ToLower(strings.ReplaceAll(faker.Noun(), " ", "-"))
}
