package schema

// ResourceTemplateTable represents the 'resource_template' table
type ResourceTemplateTable struct {
	Table                 string
	ID                    string
	Label                 string
	TitlePropertyID       string
	DescriptionPropertyID string
}

// ResourceTemplate is the schema definition for resource_template
var ResourceTemplate = ResourceTemplateTable{
	Table:                 "resource_template",
	ID:                    "id",
	Label:                 "label",
	TitlePropertyID:       "title_property_id",
	DescriptionPropertyID: "description_property_id",
}
