package schema

// ResourceClassTable represents the 'resource_class' table
type ResourceClassTable struct {
	Table        string
	ID           string
	VocabularyID string
	LocalName    string
	Label        string
}

// ResourceClass is the schema definition for resource_class
var ResourceClass = ResourceClassTable{
	Table:        "resource_class",
	ID:           "id",
	VocabularyID: "vocabulary_id",
	LocalName:    "local_name",
	Label:        "label",
}
