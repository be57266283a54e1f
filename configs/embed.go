// Package configs embeds the default box catalog and its JSON schema so the
// service can start without files on disk.
package configs

import _ "embed"

// BoxesSchema is the JSON schema for the box catalog
//
//go:embed schemas/boxes.schema.json
var BoxesSchema []byte

// DefaultBoxes is the catalog shipped with the service
//
//go:embed boxes.json
var DefaultBoxes []byte
