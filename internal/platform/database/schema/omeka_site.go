package schema

// SiteTable represents the 'site' table
type SiteTable struct {
	Table string
	ID    string
	Slug  string
}

// Site is the schema definition for site
var Site = SiteTable{
	Table: "site",
	ID:    "id",
	Slug:  "slug",
}
