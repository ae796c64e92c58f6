package label

import "time"

// Label is a globally named tag attached to collections. Once linked to any
// collection its name is frozen.
type Label struct {
	ID         int64     `json:"-"`
	ExternalID string    `json:"externalId"`
	Name       string    `json:"name"`
	CreatedBy  string    `json:"createdBy"`
	UpdatedBy  *string   `json:"updatedBy"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type CreateInput struct {
	Name string `json:"name"`
}

type UpdateInput struct {
	ExternalID string `json:"externalId"`
	Name       string `json:"name"`
}

const (
	FieldExternalID = "externalId"
	FieldName       = "name"
)
