package schema

// CollectionAuthorTable represents the 'curation.collectionauthor' table
type CollectionAuthorTable struct {
	Table      string
	ID         string
	ExternalID string
	Name       string
	Slug       string
	Bio        string
	ImageURL   string
	Active     string
	CreatedAt  string
	UpdatedAt  string
}

// CollectionAuthor is the schema definition for curation.collectionauthor
var CollectionAuthor = CollectionAuthorTable{
	Table:      "curation.collectionauthor",
	ID:         "id",
	ExternalID: "externalid",
	Name:       "name",
	Slug:       "slug",
	Bio:        "bio",
	ImageURL:   "imageurl",
	Active:     "active",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
}

func (t CollectionAuthorTable) Columns() []string {
	return []string{t.ID, t.ExternalID, t.Name, t.Slug, t.Bio, t.ImageURL, t.Active, t.CreatedAt, t.UpdatedAt}
}
