package snippets

import "embed"

//go:embed defaults.yaml
var defaultsFS embed.FS

// Defaults returns the built-in snippet library shipped with the tool.
// Installations can point snippets_path at their own file instead.
func Defaults() (*Library, error) {
	return LoadFS(defaultsFS, "defaults.yaml")
}
