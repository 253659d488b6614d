// Package snippets holds the library of canned text fragments that
// report entries can reference by id instead of repeating long prose.
package snippets

import (
	"fmt"
	"io/fs"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// UnknownSnippetError reports a reference to a snippet id that is not
// in the library.
type UnknownSnippetError struct {
	ID string
}

func (e *UnknownSnippetError) Error() string {
	return fmt.Sprintf("unknown snippet id: %s", e.ID)
}

// Library is an immutable id -> text mapping, loaded once per invocation.
type Library struct {
	entries map[string]string
}

type libraryFile struct {
	Snippets map[string]string `yaml:"snippets"`
}

// Load reads a snippet library from a YAML file of the form:
//
//	snippets:
//	  relative-paths: |
//	    Please use relative paths throughout...
func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snippets: %w", err)
	}
	return parse(data)
}

// LoadFS reads a snippet library from an fs.FS, used for the embedded
// default library.
func LoadFS(fsys fs.FS, path string) (*Library, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read snippets: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Library, error) {
	var f libraryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse snippets: %w", err)
	}
	if f.Snippets == nil {
		f.Snippets = map[string]string{}
	}
	return &Library{entries: f.Snippets}, nil
}

// New builds a library directly from a map. Used in tests and by callers
// that assemble snippets programmatically.
func New(entries map[string]string) *Library {
	m := make(map[string]string, len(entries))
	for k, v := range entries {
		m[k] = v
	}
	return &Library{entries: m}
}

// Resolve returns the prose for a snippet id.
func (l *Library) Resolve(id string) (string, error) {
	text, ok := l.entries[id]
	if !ok {
		return "", &UnknownSnippetError{ID: id}
	}
	return text, nil
}

// IDs returns all snippet ids in sorted order.
func (l *Library) IDs() []string {
	ids := make([]string, 0, len(l.entries))
	for id := range l.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of snippets in the library.
func (l *Library) Len() int {
	return len(l.entries)
}
