package schema

// LabelTable represents the 'curation.label' table
type LabelTable struct {
	Table      string
	ID         string
	ExternalID string
	Name       string
	CreatedBy  string
	UpdatedBy  string
	CreatedAt  string
	UpdatedAt  string
}

// Label is the schema definition for curation.label
var Label = LabelTable{
	Table:      "curation.label",
	ID:         "id",
	ExternalID: "externalid",
	Name:       "name",
	CreatedBy:  "createdby",
	UpdatedBy:  "updatedby",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
}

func (t LabelTable) Columns() []string {
	return []string{t.ID, t.ExternalID, t.Name, t.CreatedBy, t.UpdatedBy, t.CreatedAt, t.UpdatedAt}
}
