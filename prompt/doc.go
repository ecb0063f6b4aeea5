// Package prompt provides prompt template loading and rendering.
//
// Prompts are plain text files with Go template syntax, searched in
// project override directories first and falling back to templates
// embedded in the binary:
//
//	loader := prompt.NewLoader(projectDir)
//	p, err := loader.LoadWithVars("generate-recipe", map[string]any{
//	    "Request": "lemon cake",
//	})
//
// Shipped templates: generate-recipe, revise-recipe.
package prompt
