package schema

// IABCategoryTable represents the 'curation.iabcategory' table
type IABCategoryTable struct {
	Table      string
	ID         string
	ExternalID string
	Name       string
	Slug       string
	ParentID   string
	CreatedAt  string
	UpdatedAt  string
}

// IABCategory is the schema definition for curation.iabcategory
var IABCategory = IABCategoryTable{
	Table:      "curation.iabcategory",
	ID:         "id",
	ExternalID: "externalid",
	Name:       "name",
	Slug:       "slug",
	ParentID:   "parentid",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
}
