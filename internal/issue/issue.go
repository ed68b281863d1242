// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Id identifies a catalog entry. Zero means no entry.
type Id int

const (
	ConfigParseFailedId Id = iota + 1
	PayloadNotFoundId
	ToolNotConfiguredId
	ToolNotFoundId
	LibraryPathsUnsetId
	ManifestParseFailedId
	SpawnFailedId
	AppIdUnsetId
	InvalidSettingsId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

// Render renders the issue as terminal Markdown. stylePath is a glamour
// style name ("dark", "light", "notty", ...) or a path to a style file.
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	links := append(slices.Clone(i.docLinks), i.extLinks...)
	if len(links) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range links {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	configParseFailedIssue = &Issue{
		id: ConfigParseFailedId,
		mdMsg: `
# A title configuration file was skipped

One of the files in your configuration directory could not be parsed.
The launch continued without it.

## Search locations (in load order):
1. ~/.config/boson.d/*.toml
2. data/*.toml next to the boson binary

## Things you can try:
- List the directories boson reads:
~~~
$ boson config paths
~~~
- Check the file for TOML syntax errors
- Make sure every override table is keyed by a numeric title id:
~~~toml
[override.2379780]
compat_type = "Love"
~~~
- Valid compat_type values are DeferProton, ForceNative, Electron and Love`,
	}

	payloadNotFoundIssue = &Issue{
		id: PayloadNotFoundId,
		mdMsg: `
# Electron payload not found!

The title is configured as Electron but no application payload was found in its install directory.

## Locations checked (in order):
1. resources/app.asar.unpacked
2. resources/app
3. app.asar
4. resources/app.asar

## Things you can try:
- Verify the game files from the Steam client
- Point boson at the payload explicitly:
~~~
BOSON_LOAD_PATH=resources/app %command%
~~~
- If the title is not an Electron app, change its compat_type`,
		extLinks: []HttpLink{"https://www.electronjs.org/docs/latest/tutorial/asar-archives"},
	}

	toolNotConfiguredIssue = &Issue{
		id: ToolNotConfiguredId,
		mdMsg: `
# No compatibility tool configured!

The title delegates to a compatibility tool but no tool directory is set.

## Things you can try:
- Set compat_tool_dir for the title:
~~~toml
[override.123456]
compat_type = "DeferProton"
compat_tool_dir = "Proton - Experimental"
~~~
- Or set it once for every title in the [default] table`,
	}

	toolNotFoundIssue = &Issue{
		id: ToolNotFoundId,
		mdMsg: `
# Compatibility tool not found!

The configured compat_tool_dir does not exist in any Steam library or in compatibilitytools.d.

## Things you can try:
- Install the tool from the Steam client (for example Proton - Experimental)
- Check the exact directory name, it is case sensitive
- Custom builds belong in ~/.steam/root/compatibilitytools.d/`,
		extLinks: []HttpLink{"https://github.com/ValveSoftware/Proton"},
	}

	libraryPathsUnsetIssue = &Issue{
		id: LibraryPathsUnsetId,
		mdMsg: `
# Steam library paths are not set!

STEAM_COMPAT_LIBRARY_PATHS is missing, so compatibility tools cannot be located.
Steam sets it when it starts a compatibility tool.

## Things you can try:
- Launch the title from the Steam client rather than from a shell
- When testing by hand, export it yourself:
~~~
$ STEAM_COMPAT_LIBRARY_PATHS=~/.steam/steam/steamapps boson run /path/to/game.exe
~~~`,
	}

	manifestParseFailedIssue = &Issue{
		id: ManifestParseFailedId,
		mdMsg: `
# Compatibility tool manifest is unreadable

The tool's toolmanifest.vdf could not be parsed, so the title was started without the tool.

## Things you can try:
- Reinstall or verify the compatibility tool
- Check that toolmanifest.vdf has a "manifest" section with a "commandline" key`,
	}

	spawnFailedIssue = &Issue{
		id: SpawnFailedId,
		mdMsg: `
# Failed to start the title!

The operating system refused to start the composed command.

## Common causes:
- The wrapper (electron, love) is not installed or not in PATH
- The game executable lost its executable bit
- The install path points at the wrong file

## Things you can try:
- Inspect the resolved configuration:
~~~
$ boson config show <title id>
~~~
- Run with --verbose to see the final command line`,
	}

	appIdUnsetIssue = &Issue{
		id: AppIdUnsetId,
		mdMsg: `
# Title id unknown!

Neither SteamAppId nor STEAM_COMPAT_APP_ID is set, so boson cannot look up the title configuration.

## Things you can try:
- Launch the title from the Steam client
- Pass the id explicitly:
~~~
$ boson run --title-id 2379780 /path/to/game
~~~`,
	}

	invalidSettingsIssue = &Issue{
		id: InvalidSettingsId,
		mdMsg: `
# Invalid settings!

~/.config/boson/settings.toml or a BOSON_* environment variable holds an invalid value.

## Example settings:
~~~toml
[log]
level = "info"      # debug, info, warn, error
format = "text"     # text, json, logfmt
timestamps = false
~~~`,
	}

	issues = map[Id]*Issue{
		configParseFailedIssue.Id():   configParseFailedIssue,
		payloadNotFoundIssue.Id():     payloadNotFoundIssue,
		toolNotConfiguredIssue.Id():   toolNotConfiguredIssue,
		toolNotFoundIssue.Id():        toolNotFoundIssue,
		libraryPathsUnsetIssue.Id():   libraryPathsUnsetIssue,
		manifestParseFailedIssue.Id(): manifestParseFailedIssue,
		spawnFailedIssue.Id():         spawnFailedIssue,
		appIdUnsetIssue.Id():          appIdUnsetIssue,
		invalidSettingsIssue.Id():     invalidSettingsIssue,
	}
)

func Get(id Id) *Issue {
	return issues[id]
}
