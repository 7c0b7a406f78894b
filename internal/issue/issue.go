// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"

	"github.com/treesync/treesync/internal/reconcile"
	"github.com/treesync/treesync/internal/transform"
	"github.com/treesync/treesync/pkg/cueutil"
	"github.com/treesync/treesync/pkg/fsys"
	"github.com/treesync/treesync/pkg/instance"
	"github.com/treesync/treesync/pkg/metadata"
)

type Id int

const (
	DirectoryNotFoundId Id = iota + 1
	FilesystemErrorId
	MetadataParseErrorId
	MetadataSchemaErrorId
	UnsupportedKindId
	PropertyAssignmentId
	DataFileErrorId
	EmptyInitScriptId
	InvalidIgnorePatternId
	ConfigLoadFailedId
	FileTooLargeId
)

type MarkdownMsg string

type Issue struct {
	id    Id          // ID used to lookup the issue
	mdMsg MarkdownMsg // Markdown text that will be rendered
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the issue with the glamour style at stylePath ("dark",
// "light", "notty" or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	directoryNotFoundIssue = &Issue{
		id: DirectoryNotFoundId,
		mdMsg: `
# Project directory not found!

The path you gave does not exist or is not a directory.

## Things you can try:
- Check the path for typos
- Run the command from inside the project:
~~~
$ cd /path/to/project
$ treesync build
~~~`,
	}

	filesystemErrorIssue = &Issue{
		id: FilesystemErrorId,
		mdMsg: `
# A file could not be read!

An entry disappeared or became unreadable while the tree was being built.
Nothing was produced: a build is all or nothing.

## Things you can try:
- Check the permissions of the file named above
- Make sure no other tool is rewriting the project, then build again`,
	}

	metadataParseErrorIssue = &Issue{
		id: MetadataParseErrorId,
		mdMsg: `
# Invalid init.meta.json!

The metadata file is not valid JSON. Comments and trailing commas are not allowed.

## Example of a valid metadata file:
~~~json
{
  "kind": "Model",
  "properties": {
    "Size": 3
  }
}
~~~`,
	}

	metadataSchemaErrorIssue = &Issue{
		id: MetadataSchemaErrorId,
		mdMsg: `
# init.meta.json has an unexpected shape!

A metadata file may only contain:
- ` + "`kind`" + `: the node kind, a string
- ` + "`properties`" + `: an object of property names to strings, numbers or booleans

Null values, arrays and nested objects are not supported as property values.`,
	}

	unsupportedKindIssue = &Issue{
		id: UnsupportedKindId,
		mdMsg: `
# Unknown node kind!

The kind named in a metadata file is not registered, or it is abstract.

## Things you can try:
- List the kinds that can be created:
~~~
$ treesync kinds
~~~
- Check the spelling: kind names are case-sensitive`,
	}

	propertyAssignmentIssue = &Issue{
		id: PropertyAssignmentId,
		mdMsg: `
# Invalid property!

A property does not exist on the node's kind, or its value has the wrong type.
Values are never converted: ` + "`\"3\"`" + ` is not accepted where a number is expected.

## Things you can try:
- List the properties of each kind with their types:
~~~
$ treesync kinds
~~~`,
	}

	dataFileErrorIssue = &Issue{
		id: DataFileErrorId,
		mdMsg: `
# A data file could not be decoded!

JSON, TOML and YAML files are turned into modules that return their data.
The file named above could not be parsed.

## Things you can try:
- Validate the file with a linter for its format
- Rename it to another extension if it is not meant to become a module`,
	}

	emptyInitScriptIssue = &Issue{
		id: EmptyInitScriptId,
		mdMsg: `
# Init script produced nothing!

A directory's init script must turn into a node, because it becomes the directory itself.`,
	}

	invalidIgnorePatternIssue = &Issue{
		id: InvalidIgnorePatternId,
		mdMsg: `
# Invalid ignore pattern!

Ignore patterns are doublestar globs matched against paths relative to the project root.

## Examples:
~~~cue
ignore: ["**/*.spec.lua", "Packages", "**/.git"]
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Things you can try:
- Print the configuration treesync is using:
~~~
$ treesync config show
~~~
- Write a fresh default configuration:
~~~
$ treesync config init
~~~`,
	}

	fileTooLargeIssue = &Issue{
		id: FileTooLargeId,
		mdMsg: `
# File too large!

An init.meta.json file may be at most 5 MiB.

## Things you can try:
- Keep only ` + "`kind`" + ` and a few properties in the metadata file
- Move large data into a data file such as ` + "`data.json`" + `, which becomes a module`,
	}

	issues = map[Id]*Issue{
		directoryNotFoundIssue.Id():    directoryNotFoundIssue,
		filesystemErrorIssue.Id():      filesystemErrorIssue,
		metadataParseErrorIssue.Id():   metadataParseErrorIssue,
		metadataSchemaErrorIssue.Id():  metadataSchemaErrorIssue,
		unsupportedKindIssue.Id():      unsupportedKindIssue,
		propertyAssignmentIssue.Id():   propertyAssignmentIssue,
		dataFileErrorIssue.Id():        dataFileErrorIssue,
		emptyInitScriptIssue.Id():      emptyInitScriptIssue,
		invalidIgnorePatternIssue.Id(): invalidIgnorePatternIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		fileTooLargeIssue.Id():         fileTooLargeIssue,
	}

	// classes map error sentinels to issues, most specific first.
	classes = []struct {
		target error
		id     Id
	}{
		{target: fsys.ErrNotDirectory, id: DirectoryNotFoundId},
		{target: metadata.ErrParse, id: MetadataParseErrorId},
		{target: metadata.ErrSchema, id: MetadataSchemaErrorId},
		{target: instance.ErrUnsupportedKind, id: UnsupportedKindId},
		{target: instance.ErrPropertyAssignment, id: PropertyAssignmentId},
		{target: transform.ErrDataFile, id: DataFileErrorId},
		{target: reconcile.ErrEmptyInit, id: EmptyInitScriptId},
		{target: reconcile.ErrInvalidIgnore, id: InvalidIgnorePatternId},
		{target: cueutil.ErrFileTooLarge, id: FileTooLargeId},
		{target: fsys.ErrFilesystem, id: FilesystemErrorId},
	}
)

// Values returns every issue ordered by id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}

// Classify returns the issue that explains err, or nil when none applies.
// An ActionableError tagged with an issue id takes precedence over the
// sentinels in its chain.
func Classify(err error) *Issue {
	if err == nil {
		return nil
	}

	var ae *ActionableError
	if errors.As(err, &ae) && ae.Issue != 0 {
		return Get(ae.Issue)
	}

	for _, c := range classes {
		if errors.Is(err, c.target) {
			return Get(c.id)
		}
	}
	return nil
}
