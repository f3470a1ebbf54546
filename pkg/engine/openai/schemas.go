package openai

// DefaultCapabilitySchemas returns tool definitions for the capability
// set the pipeline roles reference: file reading, content search, path
// matching, and checklist recording. Engines that host their own
// capabilities ignore these; OpenAI-compatible endpoints need them
// declared on each request.
func DefaultCapabilitySchemas() []map[string]interface{} {
	return []map[string]interface{}{
		functionSchema("Read", "Read a file from the workspace.", map[string]interface{}{
			"file_path": map[string]interface{}{
				"type":        "string",
				"description": "Absolute path of the file to read",
			},
		}, []string{"file_path"}),
		functionSchema("Grep", "Search file contents with a regular expression.", map[string]interface{}{
			"pattern": map[string]interface{}{
				"type":        "string",
				"description": "Regular expression to search for",
			},
			"path": map[string]interface{}{
				"type":        "string",
				"description": "Directory to search in",
			},
		}, []string{"pattern"}),
		functionSchema("Glob", "Find files matching a glob pattern.", map[string]interface{}{
			"pattern": map[string]interface{}{
				"type":        "string",
				"description": "Glob pattern to match file paths against",
			},
		}, []string{"pattern"}),
		functionSchema("TodoWrite", "Record the implementation checklist.", map[string]interface{}{
			"todos": map[string]interface{}{
				"type":        "array",
				"description": "Ordered checklist items",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"content": map[string]interface{}{
							"type":        "string",
							"description": "What this step does",
						},
						"status": map[string]interface{}{
							"type": "string",
							"enum": []string{"pending", "in_progress", "completed"},
						},
					},
					"required": []string{"content"},
				},
			},
		}, []string{"todos"}),
		functionSchema("Write", "Create or overwrite a file in the workspace.", map[string]interface{}{
			"file_path": map[string]interface{}{
				"type":        "string",
				"description": "Absolute path of the file to write",
			},
			"content": map[string]interface{}{
				"type":        "string",
				"description": "Complete file contents",
			},
		}, []string{"file_path", "content"}),
		functionSchema("Edit", "Replace an exact string in a file.", map[string]interface{}{
			"file_path": map[string]interface{}{
				"type":        "string",
				"description": "Absolute path of the file to edit",
			},
			"old_string": map[string]interface{}{
				"type":        "string",
				"description": "Exact text to replace",
			},
			"new_string": map[string]interface{}{
				"type":        "string",
				"description": "Replacement text",
			},
		}, []string{"file_path", "old_string", "new_string"}),
	}
}

func functionSchema(name, description string, properties map[string]interface{}, required []string) map[string]interface{} {
	return map[string]interface{}{
		"type": "function",
		"function": map[string]interface{}{
			"name":        name,
			"description": description,
			"parameters": map[string]interface{}{
				"type":       "object",
				"properties": properties,
				"required":   required,
			},
		},
	}
}
