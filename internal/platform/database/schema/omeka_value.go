package schema

// ValueTable represents the 'value' table
type ValueTable struct {
	Table           string
	ID              string
	ResourceID      string
	PropertyID      string
	ValueResourceID string
	Type            string
	Lang            string
	Value           string
	URI             string
	IsPublic        string
}

// Value is the schema definition for value
var Value = ValueTable{
	Table:           "value",
	ID:              "id",
	ResourceID:      "resource_id",
	PropertyID:      "property_id",
	ValueResourceID: "value_resource_id",
	Type:            "type",
	Lang:            "lang",
	Value:           "value",
	URI:             "uri",
	IsPublic:        "is_public",
}
