package runtime

// Runtime is the command an installed MCP server is launched with.
type Runtime string

const (
	// NPX represents the 'npx' Node package runner (Node Package Execute) for NodeJS packages.
	NPX Runtime = "npx"

	// Docker represents containers started with 'docker run'.
	Docker Runtime = "docker"
)
