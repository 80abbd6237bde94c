package schema

import "encoding/json"

// Request names an inbound fleet command.
type Request string

const (
	RequestColor  Request = "color"
	RequestRGB    Request = "rgb"
	RequestPower  Request = "power"
	RequestEffect Request = "effect"
	RequestFade   Request = "fade"
)

const target = `"target": {"type": "string", "minLength": 1, "maxLength": 64}`

const brightness = `"brightness": {"type": "integer", "minimum": 0, "maximum": 100}`

const channel = `{"type": "integer", "minimum": 0, "maximum": 255}`

var requests = map[Request]json.RawMessage{
	RequestColor: json.RawMessage(`{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"properties": {
			` + target + `,
			"color": {"type": "string", "minLength": 1},
			` + brightness + `
		},
		"required": ["color"],
		"additionalProperties": false
	}`),
	RequestRGB: json.RawMessage(`{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"properties": {
			` + target + `,
			"r": ` + channel + `,
			"g": ` + channel + `,
			"b": ` + channel + `,
			` + brightness + `
		},
		"required": ["r", "g", "b"],
		"additionalProperties": false
	}`),
	RequestPower: json.RawMessage(`{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"properties": {
			` + target + `,
			"on": {"type": "boolean"}
		},
		"required": ["on"],
		"additionalProperties": false
	}`),
	RequestEffect: json.RawMessage(`{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"properties": {
			` + target + `,
			"effect": {"type": "string", "minLength": 1},
			"speed": {"type": "integer", "minimum": 0, "maximum": 100}
		},
		"required": ["effect"],
		"additionalProperties": false
	}`),
	RequestFade: json.RawMessage(`{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"properties": {
			` + target + `,
			"color": {"type": "string", "minLength": 1},
			"duration_seconds": {"type": "integer", "minimum": 1, "maximum": 7200}
		},
		"required": ["duration_seconds"],
		"additionalProperties": false
	}`),
}
