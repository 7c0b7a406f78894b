// SPDX-License-Identifier: MPL-2.0

package transform

import (
	"log/slog"
	"strings"

	"github.com/treesync/treesync/internal/scope"
	"github.com/treesync/treesync/pkg/fsys"
	"github.com/treesync/treesync/pkg/instance"
)

type (
	// Rule maps a file name suffix to the kind of node it produces.
	Rule struct {
		// Suffix is matched against the end of the file name, e.g. ".server.lua".
		Suffix string
		// Kind is the node kind produced. Empty means the file yields no node.
		Kind instance.Kind
		// Format names the data format for data-file rules, empty otherwise.
		Format string

		build builder
	}

	// builder turns file text into the properties of the new node.
	builder func(file fsys.File, text string) ([]instance.Property, error)

	// Option configures a Transformer.
	Option func(*Transformer)

	// Transformer turns files into nodes using a fixed rule table.
	Transformer struct {
		fs      fsys.Filesystem
		factory instance.Factory
		logger  *slog.Logger
	}
)

// rules are checked in order; the first matching suffix wins, so longer
// suffixes come before the ones they end with.
var rules = []Rule{
	{Suffix: ".meta.json"},
	{Suffix: ".server.lua", Kind: instance.KindScript, build: scriptSource},
	{Suffix: ".client.lua", Kind: instance.KindLocalScript, build: scriptSource},
	{Suffix: ".lua", Kind: instance.KindModuleScript, build: scriptSource},
	{Suffix: ".txt", Kind: instance.KindStringValue, build: stringValue},
	{Suffix: ".json", Kind: instance.KindModuleScript, Format: FormatJSON, build: dataModule(FormatJSON)},
	{Suffix: ".toml", Kind: instance.KindModuleScript, Format: FormatTOML, build: dataModule(FormatTOML)},
	{Suffix: ".yaml", Kind: instance.KindModuleScript, Format: FormatYAML, build: dataModule(FormatYAML)},
	{Suffix: ".yml", Kind: instance.KindModuleScript, Format: FormatYAML, build: dataModule(FormatYAML)},
}

// Rules returns a copy of the rule table in match order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(t *Transformer) {
		if l != nil {
			t.logger = l
		}
	}
}

// New returns a Transformer reading files from fs and creating nodes with factory.
func New(fs fsys.Filesystem, factory instance.Factory, opts ...Option) *Transformer {
	t := &Transformer{
		fs:      fs,
		factory: factory,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Match returns the rule for a file name.
func Match(name string) (Rule, bool) {
	for _, r := range rules {
		if strings.HasSuffix(name, r.Suffix) {
			return r, true
		}
	}
	return Rule{}, false
}

// Transform turns file into a node, or returns nil when no rule produces one.
// The node is named after the file without its matched suffix unless
// nameOverride is non-empty. Its Source is the file path.
func (t *Transformer) Transform(file fsys.File, id scope.ID, nameOverride string) (*instance.Node, error) {
	r, ok := Match(file.Name)
	if !ok || r.Kind == "" {
		t.logger.Debug("no node for file", "path", file.Path, "scope", id)
		return nil, nil
	}

	text, err := t.fs.ReadText(file.Path)
	if err != nil {
		return nil, err
	}

	props, err := r.build(file, text)
	if err != nil {
		return nil, err
	}

	name := nameOverride
	if name == "" {
		name = strings.TrimSuffix(file.Name, r.Suffix)
	}
	props = append([]instance.Property{instance.String(instance.PropName, name)}, props...)

	n, err := t.factory.Create(r.Kind, props...)
	if err != nil {
		return nil, err
	}
	n.SetSource(file.Path)

	t.logger.Debug("transformed file", "path", file.Path, "kind", r.Kind, "name", name, "scope", id)
	return n, nil
}

func scriptSource(_ fsys.File, text string) ([]instance.Property, error) {
	return []instance.Property{instance.String(instance.PropSource, text)}, nil
}

func stringValue(_ fsys.File, text string) ([]instance.Property, error) {
	return []instance.Property{instance.String(instance.PropValue, text)}, nil
}

func dataModule(format string) builder {
	return func(file fsys.File, text string) ([]instance.Property, error) {
		v, err := decodeData(format, file.Path, []byte(text))
		if err != nil {
			return nil, &DataFileError{Path: file.Path, Format: format, Cause: err}
		}
		table, err := EncodeLua(v)
		if err != nil {
			return nil, &DataFileError{Path: file.Path, Format: format, Cause: err}
		}
		return []instance.Property{instance.String(instance.PropSource, "return "+table+"\n")}, nil
	}
}
