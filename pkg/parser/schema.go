package parser

// scriptSchema は入力台本ドキュメントの JSON Schema です。
// dialogue の要素は型付きオブジェクトと "話者: セリフ" 形式のレガシー文字列の
// 両方を受け付けます。
const scriptSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["panels"],
	"properties": {
		"title": { "type": "string" },
		"description": { "type": "string" },
		"panels": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"index": { "type": "integer", "minimum": 1 },
					"importance": { "type": "integer" },
					"content": { "type": "string" },
					"page": { "type": "integer", "minimum": 1 },
					"dialogue": {
						"type": "array",
						"items": {
							"oneOf": [
								{ "type": "string" },
								{
									"type": "object",
									"required": ["text"],
									"properties": {
										"speaker": { "type": "string" },
										"text": { "type": "string" },
										"type": { "enum": ["speech", "thought", "narration"] }
									}
								}
							]
						}
					},
					"narration": { "type": "array", "items": { "type": "string" } },
					"sfx": { "type": "array", "items": { "type": "string" } }
				}
			}
		}
	}
}`
