package category

import "context"

type Repository interface {
	ListCuration(context context.Context) ([]*CurationCategory, error)
	// ListIAB returns every IAB category as a flat list, roots first.
	ListIAB(context context.Context) ([]*IABCategory, error)
	FindCurationByExternalID(context context.Context, externalID string) (*CurationCategory, error)
	FindIABByExternalID(context context.Context, externalID string) (*IABCategory, error)
}
