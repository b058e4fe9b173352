// Package runtime provides the execution context for stashwalk.
//
// It encapsulates shared dependencies and configuration needed by actions,
// such as the git client, console, logger, and repository root path.
package runtime
