// Package schemas embeds the JSON Schemas for user-supplied files.
package schemas

import _ "embed"

// BuildDefinition is the schema for build definition files.
//
//go:embed build_definition.schema.json
var BuildDefinition string
