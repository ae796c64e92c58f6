package schema

// CollectionTable represents the 'curation.collection' table
type CollectionTable struct {
	Table               string
	ID                  string
	ExternalID          string
	Slug                string
	Title               string
	Excerpt             string
	Intro               string
	ImageURL            string
	Status              string
	Language            string
	PublishedAt         string
	CurationCategoryID  string
	IABParentCategoryID string
	IABChildCategoryID  string
	CreatedAt           string
	UpdatedAt           string
}

// Collection is the schema definition for curation.collection
var Collection = CollectionTable{
	Table:               "curation.collection",
	ID:                  "id",
	ExternalID:          "externalid",
	Slug:                "slug",
	Title:               "title",
	Excerpt:             "excerpt",
	Intro:               "intro",
	ImageURL:            "imageurl",
	Status:              "status",
	Language:            "language",
	PublishedAt:         "publishedat",
	CurationCategoryID:  "curationcategoryid",
	IABParentCategoryID: "iabparentcategoryid",
	IABChildCategoryID:  "iabchildcategoryid",
	CreatedAt:           "createdat",
	UpdatedAt:           "updatedat",
}

func (t CollectionTable) Columns() []string {
	return []string{t.ID, t.ExternalID, t.Slug, t.Title, t.Excerpt, t.Intro, t.ImageURL, t.Status, t.Language, t.PublishedAt, t.CurationCategoryID, t.IABParentCategoryID, t.IABChildCategoryID, t.CreatedAt, t.UpdatedAt}
}
