package schema

// PropertyTable represents the 'property' table
type PropertyTable struct {
	Table        string
	ID           string
	VocabularyID string
	LocalName    string
	Label        string
}

// Property is the schema definition for property
var Property = PropertyTable{
	Table:        "property",
	ID:           "id",
	VocabularyID: "vocabulary_id",
	LocalName:    "local_name",
	Label:        "label",
}
