package schema

// ItemItemSetTable represents the 'item_item_set' table
type ItemItemSetTable struct {
	Table     string
	ItemID    string
	ItemSetID string
}

// ItemItemSet is the schema definition for item_item_set
var ItemItemSet = ItemItemSetTable{
	Table:     "item_item_set",
	ItemID:    "item_id",
	ItemSetID: "item_set_id",
}
