// Package prompt provides a yes/no confirmation for destructive commands.
//
// The prompt renders on stderr so stdout stays free for command output.
package prompt
