// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns the SQL builders touch.
//
// The Omeka tables (resource, value, property, ...) belong to the host
// platform; reference_metadata is the only table this service owns.
package schema

// # Resource Types

// Discriminator values stored in resource.resource_type.
const (
	ResourceTypeItem    = `Omeka\Entity\Item`
	ResourceTypeItemSet = `Omeka\Entity\ItemSet`
	ResourceTypeMedia   = `Omeka\Entity\Media`
)
