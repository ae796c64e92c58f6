package collection

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/collections-api/pkg/slice"
)

// Event types sent to the bus.
const (
	EventCollectionCreated = "collection_created"
	EventCollectionUpdated = "collection_updated"

	// eventObjectVersion marks the payload schema revision.
	eventObjectVersion = "new"
)

// # Payload

// Event is the bus payload for a collection write. Absent single relations
// are encoded as empty objects and timestamps as epoch seconds.
type Event struct {
	EventType     string          `json:"eventType"`
	ObjectVersion string          `json:"object_version"`
	Collection    eventCollection `json:"collection"`
}

type eventCollection struct {
	ExternalID        string           `json:"externalId"`
	Slug              string           `json:"slug"`
	Title             string           `json:"title"`
	Excerpt           *string          `json:"excerpt"`
	Intro             *string          `json:"intro"`
	ImageURL          *string          `json:"imageUrl"`
	Status            Status           `json:"status"`
	Language          string           `json:"language"`
	PublishedAt       *int64           `json:"publishedAt"`
	CreatedAt         int64            `json:"createdAt"`
	UpdatedAt         int64            `json:"updatedAt"`
	Authors           []eventAuthor    `json:"authors"`
	Stories           []eventStory     `json:"stories"`
	Labels            []eventLabel     `json:"labels"`
	CurationCategory  eventCategory    `json:"curationCategory"`
	IABParentCategory eventIABCategory `json:"IABParentCategory"`
	IABChildCategory  eventIABChild    `json:"IABChildCategory"`
	Partnership       eventPartnership `json:"partnership"`
}

type eventAuthor struct {
	ID       string  `json:"collection_author_id"`
	Name     string  `json:"name"`
	Slug     string  `json:"slug"`
	Bio      *string `json:"bio"`
	ImageURL *string `json:"image_url"`
	Active   bool    `json:"active"`
}

type eventStory struct {
	ID          string             `json:"collection_story_id"`
	URL         string             `json:"url"`
	Title       string             `json:"title"`
	Excerpt     string             `json:"excerpt"`
	ImageURL    *string            `json:"image_url"`
	Publisher   string             `json:"publisher"`
	Authors     []eventStoryAuthor `json:"authors"`
	FromPartner bool               `json:"is_from_partner"`
	SortOrder   int                `json:"sort_order"`
}

type eventStoryAuthor struct {
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

type eventLabel struct {
	ID   string `json:"collection_label_id"`
	Name string `json:"name"`
}

type eventCategory struct {
	ID   string `json:"collection_curation_category_id,omitempty"`
	Name string `json:"name,omitempty"`
	Slug string `json:"slug,omitempty"`
}

type eventIABCategory struct {
	ID   string `json:"collection_iab_parent_category_id,omitempty"`
	Name string `json:"name,omitempty"`
	Slug string `json:"slug,omitempty"`
}

type eventIABChild struct {
	ID   string `json:"collection_iab_child_category_id,omitempty"`
	Name string `json:"name,omitempty"`
	Slug string `json:"slug,omitempty"`
}

type eventPartnership struct {
	ID       string          `json:"collection_partnership_id,omitempty"`
	Name     string          `json:"name,omitempty"`
	URL      string          `json:"url,omitempty"`
	ImageURL *string         `json:"image_url,omitempty"`
	Blurb    *string         `json:"blurb,omitempty"`
	Type     PartnershipType `json:"type,omitempty"`
}

// NewEvent flattens the aggregate into the bus payload.
func NewEvent(eventType string, c *Collection) Event {
	payload := eventCollection{
		ExternalID:  c.ExternalID,
		Slug:        c.Slug,
		Title:       c.Title,
		Excerpt:     c.Excerpt,
		Intro:       c.Intro,
		ImageURL:    c.ImageURL,
		Status:      c.Status,
		Language:    string(c.Language),
		PublishedAt: epochSeconds(c.PublishedAt),
		CreatedAt:   c.CreatedAt.Unix(),
		UpdatedAt:   c.UpdatedAt.Unix(),
		Authors:     make([]eventAuthor, 0, len(c.Authors)),
		Stories:     make([]eventStory, 0, len(c.Stories)),
		Labels:      make([]eventLabel, 0, len(c.Labels)),
	}

	for _, a := range c.Authors {
		payload.Authors = append(payload.Authors, eventAuthor{
			ID: a.ExternalID, Name: a.Name, Slug: a.Slug, Bio: a.Bio, ImageURL: a.ImageURL, Active: a.Active,
		})
	}

	for _, s := range c.Stories {
		payload.Stories = append(payload.Stories, eventStory{
			ID:          s.ExternalID,
			URL:         s.URL,
			Title:       s.Title,
			Excerpt:     s.Excerpt,
			ImageURL:    s.ImageURL,
			Publisher:   s.Publisher,
			FromPartner: s.FromPartner,
			SortOrder:   s.SortOrder,
			Authors: slice.Map(s.Authors, func(a StoryAuthor) eventStoryAuthor {
				return eventStoryAuthor{Name: a.Name, SortOrder: a.SortOrder}
			}),
		})
	}

	for _, l := range c.Labels {
		payload.Labels = append(payload.Labels, eventLabel{ID: l.ExternalID, Name: l.Name})
	}

	if c.CurationCategory != nil {
		payload.CurationCategory = eventCategory{
			ID: c.CurationCategory.ExternalID, Name: c.CurationCategory.Name, Slug: c.CurationCategory.Slug,
		}
	}
	if c.IABParentCategory != nil {
		payload.IABParentCategory = eventIABCategory{
			ID: c.IABParentCategory.ExternalID, Name: c.IABParentCategory.Name, Slug: c.IABParentCategory.Slug,
		}
	}
	if c.IABChildCategory != nil {
		payload.IABChildCategory = eventIABChild{
			ID: c.IABChildCategory.ExternalID, Name: c.IABChildCategory.Name, Slug: c.IABChildCategory.Slug,
		}
	}
	if p := c.Partnership; p != nil {
		payload.Partnership = eventPartnership{
			ID: p.ExternalID, Name: p.Name, URL: p.URL, ImageURL: p.ImageURL, Blurb: p.Blurb, Type: p.Type,
		}
	}

	return Event{
		EventType:     eventType,
		ObjectVersion: eventObjectVersion,
		Collection:    payload,
	}
}

func epochSeconds(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	seconds := t.Unix()
	return &seconds
}

/*
notify publishes the aggregate when it is published or archived.

The write has already committed, so delivery failures are logged and sent to
the error tracker but never returned.
*/
func (service *Service) notify(ctx context.Context, eventType string, c *Collection) {
	if !c.Status.notifiable() {
		return
	}

	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), service.publishTimeout)
	defer cancel()

	if err := service.events.Publish(publishCtx, eventType, NewEvent(eventType, c)); err != nil {
		service.logger.ErrorContext(ctx, "event_publish_failed",
			slog.String("event_type", eventType),
			slog.String("external_id", c.ExternalID),
			slog.String("error", err.Error()),
		)
		service.reporter.Report(ctx, err, map[string]string{
			"event_type":    eventType,
			"collection_id": c.ExternalID,
		})
	}
}
