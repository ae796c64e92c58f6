package schema

// CollectionLabelTable represents the 'curation.collectionlabel' table
type CollectionLabelTable struct {
	Table        string
	CollectionID string
	LabelID      string
	CreatedBy    string
	CreatedAt    string
}

// CollectionLabel is the schema definition for curation.collectionlabel
var CollectionLabel = CollectionLabelTable{
	Table:        "curation.collectionlabel",
	CollectionID: "collectionid",
	LabelID:      "labelid",
	CreatedBy:    "createdby",
	CreatedAt:    "createdat",
}
