package schema

// SiteItemSetTable represents the 'site_item_set' table
type SiteItemSetTable struct {
	Table     string
	SiteID    string
	ItemSetID string
}

// SiteItemSet is the schema definition for site_item_set
var SiteItemSet = SiteItemSetTable{
	Table:     "site_item_set",
	SiteID:    "site_id",
	ItemSetID: "item_set_id",
}
