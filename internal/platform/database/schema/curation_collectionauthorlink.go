package schema

// CollectionAuthorLinkTable represents the 'curation.collectionauthorlink' table
type CollectionAuthorLinkTable struct {
	Table        string
	CollectionID string
	AuthorID     string
}

// CollectionAuthorLink is the schema definition for curation.collectionauthorlink
var CollectionAuthorLink = CollectionAuthorLinkTable{
	Table:        "curation.collectionauthorlink",
	CollectionID: "collectionid",
	AuthorID:     "collectionauthorid",
}
