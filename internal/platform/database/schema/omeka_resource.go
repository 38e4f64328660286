package schema

// ResourceTable represents the 'resource' table
type ResourceTable struct {
	Table              string
	ID                 string
	OwnerID            string
	ResourceClassID    string
	ResourceTemplateID string
	Title              string
	IsPublic           string
	ResourceType       string
}

// Resource is the schema definition for resource
var Resource = ResourceTable{
	Table:              "resource",
	ID:                 "id",
	OwnerID:            "owner_id",
	ResourceClassID:    "resource_class_id",
	ResourceTemplateID: "resource_template_id",
	Title:              "title",
	IsPublic:           "is_public",
	ResourceType:       "resource_type",
}
