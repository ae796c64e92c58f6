package schema

// CollectionPartnerTable represents the 'curation.collectionpartner' table
type CollectionPartnerTable struct {
	Table      string
	ID         string
	ExternalID string
	Name       string
	Slug       string
	URL        string
	ImageURL   string
	Blurb      string
	CreatedAt  string
	UpdatedAt  string
}

// CollectionPartner is the schema definition for curation.collectionpartner
var CollectionPartner = CollectionPartnerTable{
	Table:      "curation.collectionpartner",
	ID:         "id",
	ExternalID: "externalid",
	Name:       "name",
	Slug:       "slug",
	URL:        "url",
	ImageURL:   "imageurl",
	Blurb:      "blurb",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
}

func (t CollectionPartnerTable) Columns() []string {
	return []string{t.ID, t.ExternalID, t.Name, t.Slug, t.URL, t.ImageURL, t.Blurb, t.CreatedAt, t.UpdatedAt}
}
