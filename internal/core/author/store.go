package author

import "context"

type Repository interface {
	List(context context.Context, limit, offset int) ([]*Author, int, error)
	FindByExternalID(context context.Context, externalID string) (*Author, error)
	// SlugTaken reports whether another author (excluding excludeExternalID) owns slug.
	SlugTaken(context context.Context, slug, excludeExternalID string) (bool, error)
	Insert(context context.Context, author *Author) error
	Update(context context.Context, author *Author) error
	UpdateImageURL(context context.Context, externalID, imageURL string) (*Author, error)
}
