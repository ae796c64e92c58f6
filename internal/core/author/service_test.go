package author

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/collections-api/internal/platform/apperr"
	"github.com/taibuivan/collections-api/pkg/pagination"
	"github.com/taibuivan/collections-api/pkg/pointer"
)

type memoryRepository struct {
	authors map[string]*Author
	nextID  int64
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{authors: map[string]*Author{}}
}

func (repo *memoryRepository) List(_ context.Context, limit, offset int) ([]*Author, int, error) {
	all := make([]*Author, 0, len(repo.authors))
	for _, a := range repo.authors {
		all = append(all, a)
	}
	if offset >= len(all) {
		return []*Author{}, len(all), nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], len(all), nil
}

func (repo *memoryRepository) FindByExternalID(_ context.Context, externalID string) (*Author, error) {
	a, ok := repo.authors[externalID]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *a
	return &clone, nil
}

func (repo *memoryRepository) SlugTaken(_ context.Context, slug, excludeExternalID string) (bool, error) {
	for _, a := range repo.authors {
		if a.Slug == slug && a.ExternalID != excludeExternalID {
			return true, nil
		}
	}
	return false, nil
}

func (repo *memoryRepository) Insert(_ context.Context, a *Author) error {
	repo.nextID++
	a.ID = repo.nextID
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	clone := *a
	repo.authors[a.ExternalID] = &clone
	return nil
}

func (repo *memoryRepository) Update(_ context.Context, a *Author) error {
	if _, ok := repo.authors[a.ExternalID]; !ok {
		return ErrNotFound
	}
	clone := *a
	repo.authors[a.ExternalID] = &clone
	return nil
}

func (repo *memoryRepository) UpdateImageURL(_ context.Context, externalID, imageURL string) (*Author, error) {
	a, ok := repo.authors[externalID]
	if !ok {
		return nil, ErrNotFound
	}
	a.ImageURL = &imageURL
	clone := *a
	return &clone, nil
}

type recordingListener struct {
	changed []int64
}

func (listener *recordingListener) AuthorChanged(_ context.Context, authorID int64) {
	listener.changed = append(listener.changed, authorID)
}

func newTestService() (*Service, *memoryRepository) {
	service, repo, _ := newListeningService()
	return service, repo
}

func newListeningService() (*Service, *memoryRepository, *recordingListener) {
	repo := newMemoryRepository()
	listener := &recordingListener{}
	return NewService(repo, listener, slog.New(slog.NewTextHandler(io.Discard, nil))), repo, listener
}

/*
TestService_Create_DerivesSlug checks that a missing slug is built from the name.
*/
func TestService_Create_DerivesSlug(t *testing.T) {
	service, _ := newTestService()

	author, err := service.Create(context.Background(), CreateInput{Name: "Walter Bowls"})
	require.NoError(t, err)

	assert.Equal(t, "walter-bowls", author.Slug)
	assert.NotEmpty(t, author.ExternalID)
	assert.True(t, author.Active)
}

func TestService_Create_DuplicateSlug(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	_, err := service.Create(ctx, CreateInput{Name: "Walter Bowls"})
	require.NoError(t, err)

	_, err = service.Create(ctx, CreateInput{Name: "Another", Slug: pointer.To("walter-bowls")})
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
}

func TestService_Create_InvalidImageURL(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Create(context.Background(), CreateInput{Name: "Jane", ImageURL: pointer.To("not a url")})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestService_Update_Slug covers the update uniqueness rules: keeping the own slug
is fine, taking another author's slug is a conflict.
*/
func TestService_Update_Slug(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	first, err := service.Create(ctx, CreateInput{Name: "First Author"})
	require.NoError(t, err)
	second, err := service.Create(ctx, CreateInput{Name: "Second Author"})
	require.NoError(t, err)

	updated, err := service.Update(ctx, UpdateInput{
		ExternalID: first.ExternalID,
		Name:       "First Author",
		Slug:       pointer.To(first.Slug),
		Bio:        pointer.To("Writes about food."),
	})
	require.NoError(t, err)
	assert.Equal(t, "Writes about food.", *updated.Bio)

	_, err = service.Update(ctx, UpdateInput{
		ExternalID: first.ExternalID,
		Name:       "First Author",
		Slug:       pointer.To(second.Slug),
	})
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
}

func TestService_Update_RequiresExternalID(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Update(context.Background(), UpdateInput{Name: "Nobody"})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

func TestService_Update_NotFound(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Update(context.Background(), UpdateInput{ExternalID: "missing", Name: "Nobody"})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestService_UpdateImageURL(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	created, err := service.Create(ctx, CreateInput{Name: "Jane Doe", Bio: pointer.To("bio")})
	require.NoError(t, err)

	updated, err := service.UpdateImageURL(ctx, ImageURLInput{
		ExternalID: created.ExternalID,
		ImageURL:   "https://cdn.example.com/jane.png",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/jane.png", *updated.ImageURL)
	assert.Equal(t, "bio", *updated.Bio)
	assert.Equal(t, created.Slug, updated.Slug)
}

func TestService_EditsNotifyListener(t *testing.T) {
	service, _, listener := newListeningService()
	ctx := context.Background()

	created, err := service.Create(ctx, CreateInput{Name: "Jane Doe"})
	require.NoError(t, err)
	assert.Empty(t, listener.changed)

	_, err = service.Update(ctx, UpdateInput{ExternalID: created.ExternalID, Name: "Jane Q. Doe"})
	require.NoError(t, err)
	_, err = service.UpdateImageURL(ctx, ImageURLInput{ExternalID: created.ExternalID, ImageURL: "https://cdn.example.com/jane.png"})
	require.NoError(t, err)
	assert.Equal(t, []int64{created.ID, created.ID}, listener.changed)

	// Failed edits stay silent.
	_, err = service.Update(ctx, UpdateInput{ExternalID: "missing", Name: "Nobody"})
	require.Error(t, err)
	assert.Len(t, listener.changed, 2)
}

func TestService_List(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	for _, name := range []string{"A One", "B Two", "C Three"} {
		_, err := service.Create(ctx, CreateInput{Name: name})
		require.NoError(t, err)
	}

	authors, total, err := service.List(ctx, pagination.New(2, 2))
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, authors, 1)
}
