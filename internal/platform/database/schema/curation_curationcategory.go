package schema

// CurationCategoryTable represents the 'curation.curationcategory' table
type CurationCategoryTable struct {
	Table      string
	ID         string
	ExternalID string
	Name       string
	Slug       string
	CreatedAt  string
	UpdatedAt  string
}

// CurationCategory is the schema definition for curation.curationcategory
var CurationCategory = CurationCategoryTable{
	Table:      "curation.curationcategory",
	ID:         "id",
	ExternalID: "externalid",
	Name:       "name",
	Slug:       "slug",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
}
