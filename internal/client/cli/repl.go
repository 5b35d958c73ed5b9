package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	msg(id string, args ...any) string
	printHelp()
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	ShowProfile(ctx context.Context) error
	UpdateProfile(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	UploadAvatar(ctx context.Context) error
	SwitchLanguage(ctx context.Context, code string) error
}

// runREPL starts a simple read–eval–print loop for the storekeeper CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate
//	  - lang [code]    — switch the UI language
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - profile | me   — show the current user
//	  - update         — edit profile fields
//	  - passwd         — change the account password
//	  - avatar         — upload a profile picture
//	  - lang [code]    — switch the UI language
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers print
// their own messages. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("sk %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			a.printHelp()

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "profile", "me":
			_ = a.ShowProfile(ctx)

		case "update":
			_ = a.UpdateProfile(ctx)

		case "passwd":
			_ = a.ChangePassword(ctx)

		case "avatar":
			_ = a.UploadAvatar(ctx)

		case "lang":
			code := ""
			if len(args) > 0 {
				code = args[0]
			}
			_ = a.SwitchLanguage(ctx, code)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn(a.msg("msg.bye"))
			return

		default:
			printlnFn(a.msg("msg.unknown_command", cmd))
		}
	}
}
