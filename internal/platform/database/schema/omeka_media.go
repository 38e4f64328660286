package schema

// MediaTable represents the 'media' table
type MediaTable struct {
	Table  string
	ID     string
	ItemID string
}

// Media is the schema definition for media
var Media = MediaTable{
	Table:  "media",
	ID:     "id",
	ItemID: "item_id",
}
