package schema

// VocabularyTable represents the 'vocabulary' table
type VocabularyTable struct {
	Table  string
	ID     string
	Prefix string
}

// Vocabulary is the schema definition for vocabulary
var Vocabulary = VocabularyTable{
	Table:  "vocabulary",
	ID:     "id",
	Prefix: "prefix",
}
