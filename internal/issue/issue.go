// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Id identifies a troubleshooting card.
type Id int

const (
	BuildFailedId Id = iota + 1
	GitRootNotFoundId
	ExecutableNotFoundId
	ProfileParseErrorId
	ConfigLoadFailedId
)

// MarkdownMsg is the markdown body of a card.
type MarkdownMsg string

// HttpLink points at external documentation.
type HttpLink string

// Issue is a terminal-rendered troubleshooting card for one of the failure
// classes that halts a benchmark sweep.
type Issue struct {
	id       Id
	mdMsg    MarkdownMsg // markdown text that will be rendered
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the card's markdown (plus any links) for the terminal.
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.extLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.extLinks {
			extraMd += "- " + string(link) + "\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	buildFailedIssue = &Issue{
		id: BuildFailedId,
		mdMsg: `
# Decoder build failed!

The release build of the fusion-blossom executable exited non-zero. A build
failure invalidates every downstream benchmark run, so the sweep was halted.

## Things you can try:
- Inspect the compiler output above for the failing crate or feature
- Build manually from the project root:
~~~
$ cargo build --release
~~~

- If you build out-of-band, tell fbbench to skip compilation:
~~~
$ export MANUALLY_COMPILE_QEC=TRUE
~~~

- If you enabled the unsafe-pointer feature, verify it still compiles:
~~~
$ cargo build --release --features unsafe_pointer
~~~`,
	}

	gitRootNotFoundIssue = &Issue{
		id: GitRootNotFoundId,
		mdMsg: `
# Project root not found!

fbbench locates the fusion-blossom checkout with git, and the lookup failed.

## Things you can try:
- Run fbbench from inside the fusion-blossom repository:
~~~
$ git rev-parse --show-toplevel
~~~

- Or pin the root explicitly in your config file:
~~~cue
project_root: "/path/to/fusion-blossom"
~~~`,
	}

	executableNotFoundIssue = &Issue{
		id: ExecutableNotFoundId,
		mdMsg: `
# Benchmark executable not found!

The compiled decoder was not found at its fixed build-output location
(` + "`<root>/target/release/fusion_blossom`" + `).

## Things you can try:
- Let fbbench compile it (unset MANUALLY_COMPILE_QEC)
- Build it yourself from the project root:
~~~
$ cargo build --release
~~~`,
	}

	profileParseErrorIssue = &Issue{
		id: ProfileParseErrorId,
		mdMsg: `
# Failed to parse a profile log!

A captured profile log is not valid newline-delimited JSON.

## Expected shape:
- Line 1: partition config, e.g. ` + "`{\"vertex_num\": 4, \"partitions\": [[0,2],[2,4]], \"fusions\": [[0,1]]}`" + `
- Line 2: the benchmark configuration object
- Lines 3+: one JSON record per round, until a blank line or EOF

## Things you can try:
- Check the reported line number in the error message
- Re-run the benchmark with stderr kept separate, so panics don't
  interleave with the log:
~~~
$ fbbench run -d 5 -p 0.01 --out run.log
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the fbbench configuration file.

## Configuration file locations:
- Linux: ~/.config/fbbench/config.cue
- macOS: ~/Library/Application Support/fbbench/config.cue
- Windows: %APPDATA%\fbbench\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ fbbench config init
~~~

- Check the configuration syntax, or remove the file to use defaults

## Example configuration:
~~~cue
skip_begin_profiles: 5
project_root: "/home/user/fusion-blossom"

build: {
	enable_unsafe_pointer: true
}
~~~`,
	}

	issues = map[Id]*Issue{
		buildFailedIssue.Id():        buildFailedIssue,
		gitRootNotFoundIssue.Id():    gitRootNotFoundIssue,
		executableNotFoundIssue.Id(): executableNotFoundIssue,
		profileParseErrorIssue.Id():  profileParseErrorIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
	}
)

// Values returns every registered card.
func Values() []*Issue {
	return maps.Values(issues)
}

// Get looks up a card by id.
func Get(id Id) *Issue {
	return issues[id]
}
