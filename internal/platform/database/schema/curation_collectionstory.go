package schema

// CollectionStoryTable represents the 'curation.collectionstory' table
type CollectionStoryTable struct {
	Table        string
	ID           string
	ExternalID   string
	CollectionID string
	URL          string
	Title        string
	Excerpt      string
	ImageURL     string
	Publisher    string
	SortOrder    string
	FromPartner  string
	CreatedAt    string
	UpdatedAt    string
}

// CollectionStory is the schema definition for curation.collectionstory
var CollectionStory = CollectionStoryTable{
	Table:        "curation.collectionstory",
	ID:           "id",
	ExternalID:   "externalid",
	CollectionID: "collectionid",
	URL:          "url",
	Title:        "title",
	Excerpt:      "excerpt",
	ImageURL:     "imageurl",
	Publisher:    "publisher",
	SortOrder:    "sortorder",
	FromPartner:  "frompartner",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

func (t CollectionStoryTable) Columns() []string {
	return []string{t.ID, t.ExternalID, t.CollectionID, t.URL, t.Title, t.Excerpt, t.ImageURL, t.Publisher, t.SortOrder, t.FromPartner, t.CreatedAt, t.UpdatedAt}
}
