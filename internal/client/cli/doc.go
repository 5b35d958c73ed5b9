// Package cli implements the interactive storekeeper shell: a small REPL
// over the session service, with localized prompts and messages.
package cli
