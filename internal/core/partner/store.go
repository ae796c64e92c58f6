package partner

import "context"

// Repository is the persistence contract for partners.
type Repository interface {
	List(context context.Context, limit, offset int) ([]*Partner, int, error)
	FindByExternalID(context context.Context, externalID string) (*Partner, error)
	SlugTaken(context context.Context, slug, excludeExternalID string) (bool, error)
	Insert(context context.Context, partner *Partner) error
	Update(context context.Context, partner *Partner) error
	UpdateImageURL(context context.Context, externalID, imageURL string) (*Partner, error)
}
