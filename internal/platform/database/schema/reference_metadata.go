package schema

// ReferenceMetadataTable represents the 'reference_metadata' table
type ReferenceMetadataTable struct {
	Table      string
	ID         string
	ResourceID string
	ValueID    string
	Field      string
	Lang       string
	IsPublic   string
	Text       string
}

// ReferenceMetadata is the schema definition for reference_metadata
var ReferenceMetadata = ReferenceMetadataTable{
	Table:      "reference_metadata",
	ID:         "id",
	ResourceID: "resource_id",
	ValueID:    "value_id",
	Field:      "field",
	Lang:       "lang",
	IsPublic:   "is_public",
	Text:       "text",
}
