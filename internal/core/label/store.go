package label

import "context"

type Repository interface {
	List(context context.Context) ([]*Label, error)
	FindByExternalID(context context.Context, externalID string) (*Label, error)
	// FindByExternalIDs returns the labels that exist among externalIDs, in no particular order.
	FindByExternalIDs(context context.Context, externalIDs []string) ([]*Label, error)
	NameTaken(context context.Context, name, excludeExternalID string) (bool, error)
	// InUse reports whether the label is linked to at least one collection.
	InUse(context context.Context, labelID int64) (bool, error)
	Insert(context context.Context, label *Label) error
	Update(context context.Context, label *Label) error
}
