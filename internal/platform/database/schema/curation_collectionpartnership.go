package schema

// CollectionPartnershipTable represents the 'curation.collectionpartnership' table
type CollectionPartnershipTable struct {
	Table        string
	ID           string
	ExternalID   string
	CollectionID string
	PartnerID    string
	Type         string
	Name         string
	URL          string
	ImageURL     string
	Blurb        string
	CreatedAt    string
	UpdatedAt    string
}

// CollectionPartnership is the schema definition for curation.collectionpartnership
var CollectionPartnership = CollectionPartnershipTable{
	Table:        "curation.collectionpartnership",
	ID:           "id",
	ExternalID:   "externalid",
	CollectionID: "collectionid",
	PartnerID:    "collectionpartnerid",
	Type:         "type",
	Name:         "name",
	URL:          "url",
	ImageURL:     "imageurl",
	Blurb:        "blurb",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

func (t CollectionPartnershipTable) Columns() []string {
	return []string{t.ID, t.ExternalID, t.CollectionID, t.PartnerID, t.Type, t.Name, t.URL, t.ImageURL, t.Blurb, t.CreatedAt, t.UpdatedAt}
}
