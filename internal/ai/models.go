package ai

import (
	"fmt"
	"sort"
)

// ModelMap maps the display names exposed to clients onto the backend model
// identifiers LM Studio expects. Keys are what the HTTP API and CLI accept.
var ModelMap = map[string]string{
	"Hermes LLama 3.1 8B":                 "hermes-3-llama-3.1-8b",
	"Hermes LLama 3.2 3B":                 "hermes-3-llama-3.2-3b",
	"IBM Granite 3.1 8B":                  "granite-3.1-8b-instruct",
	"HuggingFace - Mistral Nemo Instruct": "mistral-nemo-instruct-2407",
	"LM Studio - LLama3.2 3B":             "llama-3.2-3b-instruct",
	"QWEN 2.5 Instruct":                   "qwen2.5-14b-instruct",
}

// DefaultModel is used when a request names no model or an unknown one.
const DefaultModel = "hermes-3-llama-3.1-8b"

// ResolveModel maps a display name to its backend identifier. Unknown or
// empty names fall back to DefaultModel rather than failing: model choice
// is a preference, not a contract.
func ResolveModel(displayName string) string {
	if backend, ok := ModelMap[displayName]; ok {
		return backend
	}
	return DefaultModel
}

// ModelNames returns the accepted display names in stable order.
func ModelNames() []string {
	names := make([]string, 0, len(ModelMap))
	for name := range ModelMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ModelChoices renders the display-to-backend mapping for help output.
func ModelChoices() string {
	s := ""
	for _, name := range ModelNames() {
		s += fmt.Sprintf("  %s -> %s\n", name, ModelMap[name])
	}
	return s
}
