package schema

// ItemSiteTable represents the 'item_site' table
type ItemSiteTable struct {
	Table  string
	ItemID string
	SiteID string
}

// ItemSite is the schema definition for item_site
var ItemSite = ItemSiteTable{
	Table:  "item_site",
	ItemID: "item_id",
	SiteID: "site_id",
}
