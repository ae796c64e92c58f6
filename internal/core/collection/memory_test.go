package collection

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/collections-api/internal/core/author"
	"github.com/taibuivan/collections-api/internal/core/category"
	"github.com/taibuivan/collections-api/internal/core/label"
	"github.com/taibuivan/collections-api/internal/core/partner"
	"github.com/taibuivan/collections-api/pkg/pointer"
)

// memoryStore backs every in-memory repository of the service tests.
type memoryStore struct {
	nextID int64

	collections  map[int64]*Collection
	authorLinks  map[int64][]int64
	labelLinks   map[int64][]int64
	stories      map[int64]*Story
	partnerships map[int64]*Partnership

	authors  map[string]*author.Author
	partners map[string]*partner.Partner
	labels   map[string]*label.Label
	curation map[string]*category.CurationCategory
	iab      map[string]*category.IABCategory

	slugReads int
	ticks     int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		collections:  map[int64]*Collection{},
		authorLinks:  map[int64][]int64{},
		labelLinks:   map[int64][]int64{},
		stories:      map[int64]*Story{},
		partnerships: map[int64]*Partnership{},
		authors:      map[string]*author.Author{},
		partners:     map[string]*partner.Partner{},
		labels:       map[string]*label.Label{},
		curation:     map[string]*category.CurationCategory{},
		iab:          map[string]*category.IABCategory{},
	}
}

func (store *memoryStore) id() int64 {
	store.nextID++
	return store.nextID
}

// tick is a strictly increasing clock standing in for NOW().
func (store *memoryStore) tick() time.Time {
	store.ticks++
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(store.ticks) * time.Second)
}

func (store *memoryStore) addAuthor(externalID, name string) *author.Author {
	a := &author.Author{ID: store.id(), ExternalID: externalID, Name: name, Slug: strings.ToLower(name), Active: true}
	store.authors[externalID] = a
	return a
}

func (store *memoryStore) addPartner(externalID, name, url string) *partner.Partner {
	p := &partner.Partner{ID: store.id(), ExternalID: externalID, Name: name, Slug: strings.ToLower(name), URL: url}
	store.partners[externalID] = p
	return p
}

func (store *memoryStore) addLabel(externalID, name string) *label.Label {
	l := &label.Label{ID: store.id(), ExternalID: externalID, Name: name}
	store.labels[externalID] = l
	return l
}

func (store *memoryStore) addIAB(externalID, name string) *category.IABCategory {
	c := &category.IABCategory{ID: store.id(), ExternalID: externalID, Name: name, Slug: strings.ToLower(name)}
	store.iab[externalID] = c
	return c
}

// hydrate assembles the aggregate the way the SQL read does.
func (store *memoryStore) hydrate(row *Collection) *Collection {
	c := *row
	c.Authors = []author.Author{}
	c.Labels = []label.Label{}
	c.Stories = []Story{}
	c.CurationCategory, c.IABParentCategory, c.IABChildCategory, c.Partnership = nil, nil, nil, nil

	for _, id := range store.authorLinks[c.ID] {
		for _, a := range store.authors {
			if a.ID == id {
				c.Authors = append(c.Authors, *a)
			}
		}
	}
	for _, id := range store.labelLinks[c.ID] {
		for _, l := range store.labels {
			if l.ID == id {
				c.Labels = append(c.Labels, *l)
			}
		}
	}
	for _, s := range store.stories {
		if s.CollectionID == c.ID {
			c.Stories = append(c.Stories, *s)
		}
	}
	sort.Slice(c.Stories, func(i, j int) bool { return c.Stories[i].SortOrder < c.Stories[j].SortOrder })

	for _, cat := range store.curation {
		if c.CurationCategoryID != nil && cat.ID == *c.CurationCategoryID {
			c.CurationCategory = cat
		}
	}
	for _, cat := range store.iab {
		if c.IABParentCategoryID != nil && cat.ID == *c.IABParentCategoryID {
			c.IABParentCategory = cat
		}
		if c.IABChildCategoryID != nil && cat.ID == *c.IABChildCategoryID {
			c.IABChildCategory = cat
		}
	}
	for _, p := range store.partnerships {
		if p.CollectionID == c.ID {
			c.Partnership = store.hydratePartnership(p)
		}
	}
	return &c
}

func (store *memoryStore) hydratePartnership(row *Partnership) *Partnership {
	p := *row
	if c, ok := store.collections[p.CollectionID]; ok {
		p.CollectionExternalID = c.ExternalID
		p.CollectionSlug = c.Slug
	}
	p.resolve()
	return &p
}

// # Collections

type memoryCollections struct{ *memoryStore }

func (repo memoryCollections) FindByExternalID(_ context.Context, externalID string) (*Collection, error) {
	for _, c := range repo.collections {
		if c.ExternalID == externalID {
			return repo.hydrate(c), nil
		}
	}
	return nil, ErrNotFound
}

func (repo memoryCollections) FindBySlug(_ context.Context, slug string) (*Collection, error) {
	repo.slugReads++
	for _, c := range repo.collections {
		if c.Slug == slug {
			return repo.hydrate(c), nil
		}
	}
	return nil, ErrNotFound
}

func (repo memoryCollections) SlugTaken(_ context.Context, slug, excludeExternalID string) (bool, error) {
	for _, c := range repo.collections {
		if c.Slug == slug && c.ExternalID != excludeExternalID {
			return true, nil
		}
	}
	return false, nil
}

func (repo memoryCollections) Insert(_ context.Context, c *Collection) error {
	c.ID = repo.id()
	c.CreatedAt = repo.tick()
	c.UpdatedAt = c.CreatedAt
	row := *c
	repo.collections[c.ID] = &row
	return nil
}

func (repo memoryCollections) Update(_ context.Context, c *Collection) error {
	if _, ok := repo.collections[c.ID]; !ok {
		return ErrNotFound
	}
	row := *c
	row.UpdatedAt = repo.tick()
	repo.collections[c.ID] = &row
	return nil
}

func (repo memoryCollections) UpdateImageURL(_ context.Context, collectionID int64, imageURL string) error {
	c, ok := repo.collections[collectionID]
	if !ok {
		return ErrNotFound
	}
	c.ImageURL = &imageURL
	c.UpdatedAt = repo.tick()
	return nil
}

func (repo memoryCollections) SetAuthors(_ context.Context, collectionID int64, authorIDs []int64) error {
	repo.authorLinks[collectionID] = append([]int64(nil), authorIDs...)
	return nil
}

func (repo memoryCollections) ClearLabels(_ context.Context, collectionID int64) error {
	delete(repo.labelLinks, collectionID)
	return nil
}

func (repo memoryCollections) AddLabels(_ context.Context, collectionID int64, labelIDs []int64, _ string, _ time.Time) error {
	repo.labelLinks[collectionID] = append(repo.labelLinks[collectionID], labelIDs...)
	return nil
}

// Search mirrors the SQL: title ILIKE, exact status, every linked author
// matching, any label matching, most recently updated first.
func (repo memoryCollections) Search(_ context.Context, filter SearchFilter, limit, offset int) ([]*Collection, int, error) {
	var out []*Collection
	for _, c := range repo.collections {
		if filter.Title != "" && !containsFold(c.Title, filter.Title) {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.Author != "" && !repo.everyAuthorMatches(c.ID, filter.Author) {
			continue
		}
		if len(filter.LabelExternalIDs) > 0 && !repo.anyLabelMatches(c.ID, filter.LabelExternalIDs) {
			continue
		}
		out = append(out, repo.hydrate(c))
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return page(out, limit, offset), len(out), nil
}

func (repo memoryCollections) everyAuthorMatches(collectionID int64, name string) bool {
	for _, id := range repo.authorLinks[collectionID] {
		for _, a := range repo.authors {
			if a.ID == id && !containsFold(a.Name, name) {
				return false
			}
		}
	}
	return true
}

func (repo memoryCollections) anyLabelMatches(collectionID int64, externalIDs []string) bool {
	for _, id := range repo.labelLinks[collectionID] {
		for _, externalID := range externalIDs {
			if l, ok := repo.labels[externalID]; ok && l.ID == id {
				return true
			}
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func (repo memoryCollections) SlugsByAuthor(_ context.Context, authorID int64) ([]string, error) {
	var slugs []string
	for collectionID, ids := range repo.authorLinks {
		for _, id := range ids {
			if id == authorID {
				slugs = append(slugs, repo.collections[collectionID].Slug)
			}
		}
	}
	return slugs, nil
}

func (repo memoryCollections) SlugsByPartner(_ context.Context, partnerID int64) ([]string, error) {
	var slugs []string
	for _, p := range repo.partnerships {
		if p.Partner.ID == partnerID {
			slugs = append(slugs, repo.collections[p.CollectionID].Slug)
		}
	}
	return slugs, nil
}

func (repo memoryCollections) ListPublished(_ context.Context, language category.Language, limit, offset int) ([]*Collection, int, error) {
	var out []*Collection
	for _, c := range repo.collections {
		if c.Status == StatusPublished && c.Language == language {
			out = append(out, repo.hydrate(c))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		left, right := pointer.Val(out[i].PublishedAt), pointer.Val(out[j].PublishedAt)
		if !left.Equal(right) {
			return left.After(right)
		}
		return out[i].ID > out[j].ID
	})
	return page(out, limit, offset), len(out), nil
}

func (repo memoryCollections) Delete(_ context.Context, collectionID int64) error {
	for id, s := range repo.stories {
		if s.CollectionID == collectionID {
			delete(repo.stories, id)
		}
	}
	for id, p := range repo.partnerships {
		if p.CollectionID == collectionID {
			delete(repo.partnerships, id)
		}
	}
	delete(repo.authorLinks, collectionID)
	delete(repo.labelLinks, collectionID)
	delete(repo.collections, collectionID)
	return nil
}

func page(items []*Collection, limit, offset int) []*Collection {
	if offset >= len(items) {
		return []*Collection{}
	}
	return items[offset:min(offset+limit, len(items))]
}

// # Stories

type memoryStories struct{ *memoryStore }

func (repo memoryStories) FindByExternalID(_ context.Context, externalID string) (*Story, error) {
	for _, s := range repo.stories {
		if s.ExternalID == externalID {
			story := *s
			if c, ok := repo.collections[s.CollectionID]; ok {
				story.CollectionExternalID = c.ExternalID
				story.CollectionSlug = c.Slug
			}
			return &story, nil
		}
	}
	return nil, ErrStoryNotFound
}

func (repo memoryStories) URLTaken(_ context.Context, collectionID int64, url, excludeExternalID string) (bool, error) {
	for _, s := range repo.stories {
		if s.CollectionID == collectionID && s.URL == url && s.ExternalID != excludeExternalID {
			return true, nil
		}
	}
	return false, nil
}

func (repo memoryStories) Insert(_ context.Context, s *Story) error {
	s.ID = repo.id()
	row := *s
	repo.stories[s.ID] = &row
	return nil
}

func (repo memoryStories) Update(_ context.Context, s *Story) error {
	row := *s
	repo.stories[s.ID] = &row
	return nil
}

func (repo memoryStories) UpdateSortOrder(_ context.Context, storyID int64, sortOrder int) error {
	repo.stories[storyID].SortOrder = sortOrder
	return nil
}

func (repo memoryStories) UpdateImageURL(_ context.Context, storyID int64, imageURL string) error {
	repo.stories[storyID].ImageURL = &imageURL
	return nil
}

func (repo memoryStories) ReplaceAuthors(_ context.Context, storyID int64, authors []StoryAuthor) error {
	repo.stories[storyID].Authors = append([]StoryAuthor{}, authors...)
	return nil
}

func (repo memoryStories) Delete(_ context.Context, storyID int64) error {
	delete(repo.stories, storyID)
	return nil
}

func (repo memoryStories) ClearFromPartner(_ context.Context, collectionID int64) error {
	for _, s := range repo.stories {
		if s.CollectionID == collectionID {
			s.FromPartner = false
		}
	}
	return nil
}

// # Partnerships

type memoryPartnerships struct{ *memoryStore }

func (repo memoryPartnerships) FindByExternalID(_ context.Context, externalID string) (*Partnership, error) {
	for _, p := range repo.partnerships {
		if p.ExternalID == externalID {
			return repo.hydratePartnership(p), nil
		}
	}
	return nil, ErrPartnershipNotFound
}

func (repo memoryPartnerships) FindByCollectionExternalID(_ context.Context, collectionExternalID string) (*Partnership, error) {
	for _, p := range repo.partnerships {
		if c, ok := repo.collections[p.CollectionID]; ok && c.ExternalID == collectionExternalID {
			return repo.hydratePartnership(p), nil
		}
	}
	return nil, ErrPartnershipNotFound
}

func (repo memoryPartnerships) Insert(_ context.Context, p *Partnership) error {
	p.ID = repo.id()
	row := *p
	repo.partnerships[p.ID] = &row
	return nil
}

func (repo memoryPartnerships) Update(_ context.Context, p *Partnership) error {
	row := *p
	repo.partnerships[p.ID] = &row
	return nil
}

func (repo memoryPartnerships) UpdateImageURL(_ context.Context, partnershipID int64, imageURL string) error {
	repo.partnerships[partnershipID].Overrides.ImageURL = &imageURL
	return nil
}

func (repo memoryPartnerships) Delete(_ context.Context, partnershipID int64) error {
	delete(repo.partnerships, partnershipID)
	return nil
}

// # Shared entities

type memoryAuthors struct{ *memoryStore }

func (repo memoryAuthors) FindByExternalID(_ context.Context, externalID string) (*author.Author, error) {
	if a, ok := repo.authors[externalID]; ok {
		return a, nil
	}
	return nil, author.ErrNotFound
}

type memoryPartners struct{ *memoryStore }

func (repo memoryPartners) FindByExternalID(_ context.Context, externalID string) (*partner.Partner, error) {
	if p, ok := repo.partners[externalID]; ok {
		return p, nil
	}
	return nil, partner.ErrNotFound
}

func (store *memoryStore) FindByExternalIDs(_ context.Context, externalIDs []string) ([]*label.Label, error) {
	out := make([]*label.Label, 0, len(externalIDs))
	for _, id := range externalIDs {
		if l, ok := store.labels[id]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func (store *memoryStore) FindCurationByExternalID(_ context.Context, externalID string) (*category.CurationCategory, error) {
	if c, ok := store.curation[externalID]; ok {
		return c, nil
	}
	return nil, category.ErrCurationNotFound
}

func (store *memoryStore) FindIABByExternalID(_ context.Context, externalID string) (*category.IABCategory, error) {
	if c, ok := store.iab[externalID]; ok {
		return c, nil
	}
	return nil, category.ErrIABNotFound
}

// # Infrastructure fakes

type directTx struct{}

func (directTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type publishedEvent struct {
	detailType string
	detail     any
}

type recordingPublisher struct {
	err    error
	events []publishedEvent
}

func (publisher *recordingPublisher) Publish(_ context.Context, detailType string, detail any) error {
	publisher.events = append(publisher.events, publishedEvent{detailType: detailType, detail: detail})
	return publisher.err
}

type recordingReporter struct {
	errs []error
	tags []map[string]string
}

func (reporter *recordingReporter) Report(_ context.Context, err error, tags map[string]string) {
	reporter.errs = append(reporter.errs, err)
	reporter.tags = append(reporter.tags, tags)
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]*Collection
	failGet bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]*Collection{}}
}

func (cache *memoryCache) Get(_ context.Context, slug string) (*Collection, error) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	if cache.failGet {
		return nil, errors.New("cache unavailable")
	}
	return cache.entries[slug], nil
}

func (cache *memoryCache) Set(_ context.Context, c *Collection) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.entries[c.Slug] = c
	return nil
}

func (cache *memoryCache) Delete(_ context.Context, slugs ...string) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	for _, slug := range slugs {
		delete(cache.entries, slug)
	}
	return nil
}
