// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Id selects an entry in the troubleshooting catalog. The zero value never
// matches an entry, so callers use it to mean "no catalog help".
type Id int

const (
	PathNotFoundId Id = iota + 1
	WheelInvalidId
	LibraryNotFoundId
	BasenameClashId
	LibDirExistsId
	HeaderSpaceExhaustedId
	RecordUpdateFailedId
	ConfigLoadFailedId
	DelocationFailedId
)

// MarkdownMsg is terminal-renderable markdown.
type MarkdownMsg string

// HttpLink is a URL shown to the user, never fetched.
type HttpLink string

// Issue is one catalog entry: markdown describing a failure class, its
// common causes, and what to try next. Entries may carry reference links,
// appended as a "See also" section when rendered.
type Issue struct {
	id      Id
	mdMsg   MarkdownMsg
	seeAlso []HttpLink
}

func (i *Issue) Id() Id { return i.id }

func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

// SeeAlso returns a copy of the entry's reference links.
func (i *Issue) SeeAlso() []HttpLink { return slices.Clone(i.seeAlso) }

// Render produces the styled terminal text for the entry. stylePath is a
// glamour style name or JSON style file path; "" selects the notty style.
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.seeAlso) > 0 {
		md += "\n\n## See also:\n"
		for _, link := range i.seeAlso {
			md += "- <" + string(link) + ">\n"
		}
	}
	return render(md, stylePath)
}

// render is stubbed in tests to exercise failure paths.
var render = glamour.Render

var catalog = []*Issue{
	{
		id: PathNotFoundId,
		mdMsg: `
# Path not found!

The tree or wheel you asked us to process does not exist.

## Things you can try:
- Check the path for typos
- Use an absolute path:
~~~
$ delocate wheel /full/path/to/package-1.0-cp312-macosx_11_0_arm64.whl
~~~

- List what a directory actually contains:
~~~
$ ls -la /path/to/tree
~~~`,
	},
	{
		id: WheelInvalidId,
		mdMsg: `
# Invalid wheel!

The file exists but could not be opened as a wheel archive.

## Common causes:
- The file is not a zip archive (wheels are zip files)
- The download was truncated or corrupted
- The file is an sdist (.tar.gz), not a wheel

## Things you can try:
- Verify the archive:
~~~
$ unzip -l package-1.0-cp312-macosx_11_0_arm64.whl
~~~

- Re-download the wheel:
~~~
$ pip download --only-binary :all: package
~~~`,
		seeAlso: []HttpLink{
			"https://packaging.python.org/en/latest/specifications/binary-distribution-format/",
		},
	},
	{
		id: LibraryNotFoundId,
		mdMsg: `
# Library not found!

A binary in the tree links against a library that does not exist on this
machine, so there is nothing to copy.

## Common causes:
- The library was present at build time but has since been removed
- An @rpath entry that only resolves inside the build environment
- A dependency installed under a different prefix (brew vs macports)

## Things you can try:
- Install the missing library and retry
- Inspect what the binary actually links against:
~~~
$ delocate listdeps --all /path/to/tree
~~~

- If the library is expected to exist on end-user machines, exclude its
  prefix in your config:
~~~cue
exclude_prefixes: ["/usr/lib", "/System", "/opt/expected"]
~~~`,
		seeAlso: []HttpLink{
			"https://developer.apple.com/library/archive/documentation/DeveloperTools/Conceptual/DynamicLibraries/100-Articles/RunpathDependentLibraries.html",
		},
	},
	{
		id: BasenameClashId,
		mdMsg: `
# Library name clash!

Two different required libraries share the same file name, so they cannot
both be copied into the flat library directory.

## Things you can try:
- Rebuild one of the libraries under a distinct name
- Check whether both copies are really needed, or one is a stale duplicate:
~~~
$ delocate listdeps --depending /path/to/tree
~~~

- Exclude the prefix of the copy that should stay external`,
	},
	{
		id: LibDirExistsId,
		mdMsg: `
# Library directory already exists!

The wheel already contains the directory that vendored libraries would be
copied into. It was probably processed once before.

## Things you can try:
- Use the original wheel instead of an already-processed one
- Pick a different directory name:
~~~
$ delocate wheel --lib-sdir .vendored package-1.0-cp312-macosx_11_0_arm64.whl
~~~`,
	},
	{
		id: HeaderSpaceExhaustedId,
		mdMsg: `
# Not enough header room!

A rewritten install name is longer than the original and the Mach-O header
has no padding left to hold it.

## Things you can try:
- Relink the binary with extra header padding:
~~~
$ ld ... -headerpad_max_install_names
~~~
  (or pass ` + "`-Wl,-headerpad_max_install_names`" + ` to the compiler driver)

- Use a shorter library directory name:
~~~
$ delocate wheel --lib-sdir .d package-1.0-cp312-macosx_11_0_arm64.whl
~~~`,
	},
	{
		id: RecordUpdateFailedId,
		mdMsg: `
# Failed to update the wheel record!

The wheel was modified but its RECORD file could not be rewritten, which
would leave the archive inconsistent.

## Common causes:
- The wheel has no .dist-info directory
- The wheel has more than one .dist-info directory
- The RECORD file is missing or malformed

## Things you can try:
- Inspect the wheel layout:
~~~
$ unzip -l package-1.0-cp312-macosx_11_0_arm64.whl | grep dist-info
~~~

- Repack the wheel from its source tree with the wheel tool and retry`,
	},
	{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the delocate configuration file.

## Configuration file locations:
- Linux: ~/.config/delocate/config.cue
- macOS: ~/Library/Application Support/delocate/config.cue
- Windows: %APPDATA%\delocate\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ delocate config init
~~~

- Check the configuration syntax
- Remove the config file to use defaults:
~~~
$ rm ~/.config/delocate/config.cue
~~~

## Example configuration:
~~~cue
lib_sdir: ".dylibs"

exclude_prefixes: [
    "/usr/lib",
    "/System",
]

ui: {
  color_scheme: "auto"
  verbose: false
}
~~~`,
	},
	{
		id: DelocationFailedId,
		mdMsg: `
# Delocation failed!

The operation could not be completed.

## Things you can try:
- Re-run with the full error chain visible:
~~~
$ delocate --verbose wheel package-1.0-cp312-macosx_11_0_arm64.whl
~~~

- Check that every path involved is readable and writable
- Inspect what the binaries link against:
~~~
$ delocate listdeps --all /path/to/tree
~~~`,
	},
}

var issues = func() map[Id]*Issue {
	m := make(map[Id]*Issue, len(catalog))
	for _, entry := range catalog {
		m[entry.id] = entry
	}
	return m
}()

// Get returns the catalog entry for id, nil when there is none.
func Get(id Id) *Issue {
	return issues[id]
}

// Values returns every catalog entry in unspecified order.
func Values() []*Issue {
	return maps.Values(issues)
}
