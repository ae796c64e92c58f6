package collection

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/collections-api/internal/core/category"
	"github.com/taibuivan/collections-api/internal/platform/apperr"
	"github.com/taibuivan/collections-api/internal/platform/sec"
	"github.com/taibuivan/collections-api/pkg/pagination"
	"github.com/taibuivan/collections-api/pkg/pointer"
)

var curator = sec.Actor{UserID: "u-1", Username: "curator@example.com"}

type fixture struct {
	service   *Service
	store     *memoryStore
	publisher *recordingPublisher
	reporter  *recordingReporter
	cache     *memoryCache
	clock     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newMemoryStore()
	store.addAuthor("author-a", "Walter")
	store.addAuthor("author-b", "Rosa")

	f := &fixture{
		store:     store,
		publisher: &recordingPublisher{},
		reporter:  &recordingReporter{},
		cache:     newMemoryCache(),
		clock:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	f.service = NewService(Dependencies{
		Collections:  memoryCollections{store},
		Stories:      memoryStories{store},
		Partnerships: memoryPartnerships{store},
		Authors:      memoryAuthors{store},
		Partners:     memoryPartners{store},
		Labels:       store,
		Categories:   store,
		Tx:           directTx{},
		Events:       f.publisher,
		Reporter:     f.reporter,
		Cache:        f.cache,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, Settings{LabelsLimit: 1})
	f.service.now = func() time.Time { return f.clock }

	return f
}

func (f *fixture) create(t *testing.T, slug string, status Status) *Collection {
	t.Helper()
	c, err := f.service.Create(context.Background(), CreateInput{
		Slug:             slug,
		Title:            slug,
		Status:           status,
		AuthorExternalID: "author-a",
	}, curator)
	require.NoError(t, err)
	return c
}

func updateFrom(c *Collection, status Status) UpdateInput {
	return UpdateInput{
		ExternalID:       c.ExternalID,
		Slug:             c.Slug,
		Title:            c.Title,
		Status:           status,
		AuthorExternalID: "author-a",
	}
}

// # Create

func TestService_Create_Defaults(t *testing.T) {
	f := newFixture(t)

	c, err := f.service.Create(context.Background(), CreateInput{
		Slug:             "walter-bowls",
		Title:            "walter bowls",
		AuthorExternalID: "author-a",
	}, curator)
	require.NoError(t, err)

	assert.Equal(t, StatusDraft, c.Status)
	assert.Equal(t, category.LanguageEN, c.Language)
	assert.Nil(t, c.PublishedAt)
	require.Len(t, c.Authors, 1)
	assert.Equal(t, "author-a", c.Authors[0].ExternalID)
	assert.Empty(t, c.Stories)
	assert.NotEmpty(t, c.ExternalID)

	// Drafts are not announced.
	assert.Empty(t, f.publisher.events)
}

func TestService_Create_PublishedStampsAndNotifies(t *testing.T) {
	f := newFixture(t)

	c := f.create(t, "summer-reads", StatusPublished)

	require.NotNil(t, c.PublishedAt)
	assert.Equal(t, f.clock, *c.PublishedAt)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, EventCollectionCreated, f.publisher.events[0].detailType)
	event, ok := f.publisher.events[0].detail.(Event)
	require.True(t, ok)
	assert.Equal(t, c.ExternalID, event.Collection.ExternalID)
	assert.Equal(t, "new", event.ObjectVersion)
}

func TestService_Create_SlugConflict(t *testing.T) {
	f := newFixture(t)
	f.create(t, "walter-bowls", "")

	_, err := f.service.Create(context.Background(), CreateInput{
		Slug:             "walter-bowls",
		Title:            "another",
		AuthorExternalID: "author-b",
	}, curator)
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
}

func TestService_Create_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input CreateInput
	}{
		{"missing_title", CreateInput{Slug: "a", AuthorExternalID: "author-a"}},
		{"bad_slug", CreateInput{Slug: "Not A Slug", Title: "t", AuthorExternalID: "author-a"}},
		{"missing_author", CreateInput{Slug: "a", Title: "t"}},
		{"bad_status", CreateInput{Slug: "a", Title: "t", Status: "deleted", AuthorExternalID: "author-a"}},
		{"bad_language", CreateInput{Slug: "a", Title: "t", Language: "FR", AuthorExternalID: "author-a"}},
		{"bad_image", CreateInput{Slug: "a", Title: "t", ImageURL: pointer.To("nope"), AuthorExternalID: "author-a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.service.Create(context.Background(), tt.input, curator)
			assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
		})
	}
}

func TestService_Create_UnknownAuthor(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), CreateInput{
		Slug: "x", Title: "x", AuthorExternalID: "missing",
	}, curator)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

// # Labels

func TestService_LabelCeiling(t *testing.T) {
	f := newFixture(t)
	f.store.addLabel("label-1", "food")
	f.store.addLabel("label-2", "travel")

	_, err := f.service.Create(context.Background(), CreateInput{
		Slug: "too-many", Title: "t", AuthorExternalID: "author-a",
		LabelExternalIDs: []string{"label-1", "label-2"},
	}, curator)
	require.True(t, apperr.HasCode(err, apperr.CodeValidation))
	assert.Contains(t, err.Error(), "2 given")
	assert.Contains(t, err.Error(), "at most 1")

	c, err := f.service.Create(context.Background(), CreateInput{
		Slug: "just-right", Title: "t", AuthorExternalID: "author-a",
		LabelExternalIDs: []string{"label-1"},
	}, curator)
	require.NoError(t, err)
	require.Len(t, c.Labels, 1)
	assert.Equal(t, "food", c.Labels[0].Name)
}

func TestService_Create_UnknownLabel(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), CreateInput{
		Slug: "x", Title: "x", AuthorExternalID: "author-a",
		LabelExternalIDs: []string{"missing"},
	}, curator)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestService_Update_WithoutLabelsClearsThem(t *testing.T) {
	f := newFixture(t)
	f.store.addLabel("label-1", "food")

	c, err := f.service.Create(context.Background(), CreateInput{
		Slug: "labelled", Title: "t", AuthorExternalID: "author-a",
		LabelExternalIDs: []string{"label-1"},
	}, curator)
	require.NoError(t, err)
	require.Len(t, c.Labels, 1)

	updated, err := f.service.Update(context.Background(), updateFrom(c, StatusDraft), curator)
	require.NoError(t, err)
	assert.Empty(t, updated.Labels)
}

// # Update

func TestService_Update_Slugs(t *testing.T) {
	f := newFixture(t)
	first := f.create(t, "first", "")
	second := f.create(t, "second", "")

	// Own unchanged slug.
	_, err := f.service.Update(context.Background(), updateFrom(first, StatusDraft), curator)
	require.NoError(t, err)

	input := updateFrom(second, StatusDraft)
	input.Slug = "first"
	_, err = f.service.Update(context.Background(), input, curator)
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
}

func TestService_Update_WalterBowls(t *testing.T) {
	f := newFixture(t)
	c := f.create(t, "walter-bowls", "")
	require.Nil(t, c.PublishedAt)

	published, err := f.service.Update(context.Background(), updateFrom(c, StatusPublished), curator)
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	firstStamp := *published.PublishedAt
	assert.Equal(t, f.clock, firstStamp)

	f.clock = f.clock.Add(time.Hour)
	input := updateFrom(published, StatusPublished)
	input.Title = "walter bowls, revisited"

	again, err := f.service.Update(context.Background(), input, curator)
	require.NoError(t, err)
	assert.Equal(t, "walter bowls, revisited", again.Title)
	require.NotNil(t, again.PublishedAt)
	assert.True(t, firstStamp.Equal(*again.PublishedAt))

	require.Len(t, f.publisher.events, 2)
	assert.Equal(t, EventCollectionUpdated, f.publisher.events[1].detailType)
}

func TestService_Update_RepublishAfterArchive(t *testing.T) {
	f := newFixture(t)
	c := f.create(t, "seasonal", StatusPublished)

	archived, err := f.service.Update(context.Background(), updateFrom(c, StatusArchived), curator)
	require.NoError(t, err)
	assert.Equal(t, f.clock, *archived.PublishedAt)

	f.clock = f.clock.Add(24 * time.Hour)
	republished, err := f.service.Update(context.Background(), updateFrom(archived, StatusPublished), curator)
	require.NoError(t, err)
	assert.Equal(t, f.clock, *republished.PublishedAt)
}

func TestService_Update_KeepsOptionalText(t *testing.T) {
	f := newFixture(t)
	c, err := f.service.Create(context.Background(), CreateInput{
		Slug: "x", Title: "x", AuthorExternalID: "author-a",
		Excerpt: pointer.To("short"), Intro: pointer.To("long"),
	}, curator)
	require.NoError(t, err)

	input := updateFrom(c, StatusDraft)
	input.AuthorExternalID = "author-b"
	updated, err := f.service.Update(context.Background(), input, curator)
	require.NoError(t, err)

	assert.Equal(t, "short", *updated.Excerpt)
	assert.Equal(t, "long", *updated.Intro)
	require.Len(t, updated.Authors, 1)
	assert.Equal(t, "author-b", updated.Authors[0].ExternalID)
}

func TestService_Update_IABChildNeedsParent(t *testing.T) {
	f := newFixture(t)
	f.store.addIAB("iab-parent", "Food")
	f.store.addIAB("iab-child", "Baking")
	c := f.create(t, "bread", "")

	input := updateFrom(c, StatusDraft)
	input.IABChildCategoryExternalID = pointer.To("iab-child")
	updated, err := f.service.Update(context.Background(), input, curator)
	require.NoError(t, err)
	assert.Nil(t, updated.IABChildCategory)
	assert.Nil(t, updated.IABChildCategoryID)

	input.IABParentCategoryExternalID = pointer.To("iab-parent")
	updated, err = f.service.Update(context.Background(), input, curator)
	require.NoError(t, err)
	require.NotNil(t, updated.IABParentCategory)
	require.NotNil(t, updated.IABChildCategory)
	assert.Equal(t, "Baking", updated.IABChildCategory.Name)

	// Omitting both disconnects them.
	updated, err = f.service.Update(context.Background(), updateFrom(updated, StatusDraft), curator)
	require.NoError(t, err)
	assert.Nil(t, updated.IABParentCategory)
	assert.Nil(t, updated.IABChildCategory)
}

func TestService_Update_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Update(context.Background(), UpdateInput{Slug: "x", Title: "x", Status: StatusDraft}, curator)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = f.service.Update(context.Background(), UpdateInput{
		ExternalID: "missing", Slug: "x", Title: "x", Status: StatusDraft, AuthorExternalID: "author-a",
	}, curator)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestService_ErrorPrecedence(t *testing.T) {
	f := newFixture(t)
	f.store.addLabel("label-1", "food")
	f.store.addLabel("label-2", "travel")
	taken := f.create(t, "taken", "")
	other := f.create(t, "other", "")
	tooMany := []string{"label-1", "label-2"}

	// A duplicate slug wins over the label ceiling and bad fields.
	_, err := f.service.Create(context.Background(), CreateInput{
		Slug: "taken", Title: "", AuthorExternalID: "author-a", LabelExternalIDs: tooMany,
	}, curator)
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))

	input := updateFrom(other, StatusDraft)
	input.Slug = taken.Slug
	input.LabelExternalIDs = tooMany
	_, err = f.service.Update(context.Background(), input, curator)
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))

	// An unknown collection wins over everything else.
	input.ExternalID = "missing"
	input.Status = ""
	_, err = f.service.Update(context.Background(), input, curator)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	// With no conflict the ceiling still applies.
	input = updateFrom(other, StatusDraft)
	input.LabelExternalIDs = tooMany
	_, err = f.service.Update(context.Background(), input, curator)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

// # Events

func TestService_PublishFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("bus down")

	c, err := f.service.Create(context.Background(), CreateInput{
		Slug: "live", Title: "live", Status: StatusPublished, AuthorExternalID: "author-a",
	}, curator)
	require.NoError(t, err)
	require.NotNil(t, c)

	require.Len(t, f.reporter.errs, 1)
	assert.Equal(t, EventCollectionCreated, f.reporter.tags[0]["event_type"])
	assert.Equal(t, c.ExternalID, f.reporter.tags[0]["collection_id"])
}

func TestNewEvent_EmptyRelationsAreObjects(t *testing.T) {
	published := time.Unix(1700000000, 0)
	c := &Collection{
		ExternalID:  "c-1",
		Slug:        "walter-bowls",
		Status:      StatusPublished,
		Language:    category.LanguageEN,
		PublishedAt: &published,
		Stories: []Story{{
			ExternalID: "s-1", URL: "https://example.com", SortOrder: 2, FromPartner: true,
			Authors: []StoryAuthor{{Name: "Ada", SortOrder: 1}},
		}},
	}

	raw, err := json.Marshal(NewEvent(EventCollectionUpdated, c))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "collection_updated", decoded["eventType"])

	collection := decoded["collection"].(map[string]any)
	assert.Equal(t, map[string]any{}, collection["curationCategory"])
	assert.Equal(t, map[string]any{}, collection["IABParentCategory"])
	assert.Equal(t, map[string]any{}, collection["partnership"])
	assert.Equal(t, float64(1700000000), collection["publishedAt"])
	assert.Equal(t, []any{}, collection["authors"])

	story := collection["stories"].([]any)[0].(map[string]any)
	assert.Equal(t, "s-1", story["collection_story_id"])
	assert.Equal(t, true, story["is_from_partner"])
	assert.Equal(t, float64(2), story["sort_order"])
}

// # Search

func TestService_Search_RequiresFilter(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.service.Search(context.Background(), SearchFilter{}, pagination.New(1, 10))
	require.True(t, apperr.HasCode(err, apperr.CodeValidation))
	assert.Contains(t, apperr.As(err).Details[0].Message, "At least one filter")
}

func TestService_Search_ByStatus(t *testing.T) {
	f := newFixture(t)
	f.create(t, "one", StatusPublished)
	f.create(t, "two", "")

	found, total, err := f.service.Search(context.Background(), SearchFilter{Status: StatusPublished}, pagination.New(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "one", found[0].Slug)

	_, _, err = f.service.Search(context.Background(), SearchFilter{Status: "gone"}, pagination.New(1, 10))
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

func slugsOf(collections []*Collection) []string {
	slugs := make([]string, 0, len(collections))
	for _, c := range collections {
		slugs = append(slugs, c.Slug)
	}
	return slugs
}

func TestService_Search_ByAuthor(t *testing.T) {
	f := newFixture(t)
	f.create(t, "walter-only", "")
	_, err := f.service.Create(context.Background(), CreateInput{
		Slug: "rosa-only", Title: "r", AuthorExternalID: "author-b",
	}, curator)
	require.NoError(t, err)

	// A second byline that does not match hides the collection.
	shared := f.create(t, "shared", "")
	f.store.authorLinks[shared.ID] = append(f.store.authorLinks[shared.ID], f.store.authors["author-b"].ID)

	found, total, err := f.service.Search(context.Background(), SearchFilter{Author: "WALT"}, pagination.New(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, []string{"walter-only"}, slugsOf(found))

	found, _, err = f.service.Search(context.Background(), SearchFilter{Author: "rosa"}, pagination.New(1, 10))
	require.NoError(t, err)
	assert.Equal(t, []string{"rosa-only"}, slugsOf(found))

	// "a" is in both names, so every byline of every collection matches.
	found, total, err = f.service.Search(context.Background(), SearchFilter{Author: "a"}, pagination.New(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"shared", "rosa-only", "walter-only"}, slugsOf(found))
}

func TestService_Search_ByLabels(t *testing.T) {
	f := newFixture(t)
	f.store.addLabel("label-1", "food")
	f.store.addLabel("label-2", "travel")

	for slug, labelID := range map[string]string{"food-guide": "label-1", "travel-guide": "label-2"} {
		_, err := f.service.Create(context.Background(), CreateInput{
			Slug: slug, Title: slug, AuthorExternalID: "author-a",
			LabelExternalIDs: []string{labelID},
		}, curator)
		require.NoError(t, err)
	}
	f.create(t, "plain", "")

	found, total, err := f.service.Search(context.Background(), SearchFilter{LabelExternalIDs: []string{"label-1"}}, pagination.New(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, []string{"food-guide"}, slugsOf(found))

	found, total, err = f.service.Search(context.Background(), SearchFilter{LabelExternalIDs: []string{"label-1", "label-2"}}, pagination.New(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.ElementsMatch(t, []string{"food-guide", "travel-guide"}, slugsOf(found))

	found, total, err = f.service.Search(context.Background(), SearchFilter{LabelExternalIDs: []string{"label-9"}}, pagination.New(1, 10))
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, found)
}

func TestService_Search_MostRecentlyUpdatedFirst(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, "a", "")
	f.create(t, "b", "")
	f.create(t, "c", "")

	_, err := f.service.Update(context.Background(), updateFrom(a, StatusDraft), curator)
	require.NoError(t, err)

	found, total, err := f.service.Search(context.Background(), SearchFilter{Status: StatusDraft}, pagination.New(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"a", "c", "b"}, slugsOf(found))

	found, total, err = f.service.Search(context.Background(), SearchFilter{Status: StatusDraft}, pagination.New(2, 2))
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"b"}, slugsOf(found))

	found, total, err = f.service.Search(context.Background(), SearchFilter{Status: StatusDraft}, pagination.New(5, 2))
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Empty(t, found)
}

// # Image

func TestService_UpdateImageURL_TouchesOnlyImage(t *testing.T) {
	f := newFixture(t)
	f.store.addLabel("label-1", "food")

	before, err := f.service.Create(context.Background(), CreateInput{
		Slug: "pictured", Title: "Pictured", Status: StatusPublished,
		Excerpt: pointer.To("short"), Intro: pointer.To("long"),
		ImageURL:         pointer.To("https://cdn.example.com/old.jpg"),
		AuthorExternalID: "author-a",
		LabelExternalIDs: []string{"label-1"},
	}, curator)
	require.NoError(t, err)
	events := len(f.publisher.events)

	after, err := f.service.UpdateImageURL(context.Background(), ImageURLInput{
		ExternalID: before.ExternalID,
		ImageURL:   "https://cdn.example.com/new.jpg",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/new.jpg", *after.ImageURL)
	assert.Equal(t, before.Slug, after.Slug)
	assert.Equal(t, before.Title, after.Title)
	assert.Equal(t, before.Excerpt, after.Excerpt)
	assert.Equal(t, before.Intro, after.Intro)
	assert.Equal(t, before.Status, after.Status)
	assert.Equal(t, before.Language, after.Language)
	assert.Equal(t, before.PublishedAt, after.PublishedAt)
	assert.Equal(t, before.Authors, after.Authors)
	assert.Equal(t, before.Labels, after.Labels)
	assert.Len(t, f.publisher.events, events)

	_, err = f.service.UpdateImageURL(context.Background(), ImageURLInput{ExternalID: before.ExternalID, ImageURL: "nope"})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = f.service.UpdateImageURL(context.Background(), ImageURLInput{ExternalID: "missing", ImageURL: "https://cdn.example.com/x.jpg"})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

// # Delete

func TestService_Delete_ReturnsSnapshot(t *testing.T) {
	f := newFixture(t)
	c := f.create(t, "short-lived", "")
	_, err := f.service.CreateStory(context.Background(), CreateStoryInput{
		CollectionExternalID: c.ExternalID, URL: "https://example.com/a", Title: "a", Excerpt: "a", Publisher: "p",
	})
	require.NoError(t, err)

	snapshot, err := f.service.Delete(context.Background(), c.ExternalID, curator)
	require.NoError(t, err)
	assert.Len(t, snapshot.Stories, 1)

	_, err = f.service.Get(context.Background(), c.ExternalID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	assert.Empty(t, f.store.stories)
}
