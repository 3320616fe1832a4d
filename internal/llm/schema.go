package llm

import "github.com/santhosh-tekuri/jsonschema/v5"

var AnalysisSchema = jsonschema.MustCompileString("analysis.json", `{
	"type": "object",
	"additionalProperties": false,
	"required": ["summary", "key_points", "topics", "sentiment", "reading_time_minutes"],
	"properties": {
		"summary": {"type": "string", "minLength": 1},
		"key_points": {"type": "array", "items": {"type": "string"}},
		"topics": {"type": "array", "items": {"type": "string"}},
		"sentiment": {"enum": ["positive", "negative", "neutral", "mixed"]},
		"reading_time_minutes": {"type": "integer", "minimum": 0},
		"comments_summary": {"type": ["string", "null"]}
	}
}`)

var ImageSchema = jsonschema.MustCompileString("image.json", `{
	"type": "object",
	"additionalProperties": false,
	"required": ["description", "objects", "relevance"],
	"properties": {
		"description": {"type": "string", "minLength": 1},
		"objects": {"type": "array", "items": {"type": "string"}},
		"relevance": {"type": "string"}
	}
}`)

var DigestSchema = jsonschema.MustCompileString("digest.json", `{
	"type": "object",
	"additionalProperties": false,
	"required": ["overall_summary", "top_themes", "articles", "ai_insights"],
	"properties": {
		"overall_summary": {"type": "string", "minLength": 1},
		"top_themes": {"type": "array", "maxItems": 5, "items": {"type": "string"}},
		"articles": {
			"type": "array",
			"items": {
				"type": "object",
				"additionalProperties": false,
				"required": ["article_id", "title", "summary", "url"],
				"properties": {
					"article_id": {"type": "string"},
					"title": {"type": "string"},
					"image_url": {"type": ["string", "null"]},
					"summary": {"type": "string"},
					"highlights": {"type": "array", "items": {"type": "string"}},
					"url": {"type": "string"}
				}
			}
		},
		"ai_insights": {"type": "string"}
	}
}`)
