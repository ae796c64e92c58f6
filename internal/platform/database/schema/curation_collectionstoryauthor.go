package schema

// CollectionStoryAuthorTable represents the 'curation.collectionstoryauthor' table
type CollectionStoryAuthorTable struct {
	Table     string
	ID        string
	StoryID   string
	Name      string
	SortOrder string
}

// CollectionStoryAuthor is the schema definition for curation.collectionstoryauthor
var CollectionStoryAuthor = CollectionStoryAuthorTable{
	Table:     "curation.collectionstoryauthor",
	ID:        "id",
	StoryID:   "collectionstoryid",
	Name:      "name",
	SortOrder: "sortorder",
}
