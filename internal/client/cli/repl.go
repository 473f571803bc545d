package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// commandContext scopes one command. Ctrl-C cancels the running command
// instead of the whole program.
var commandContext = func(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt)
}

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	isAdmin(ctx context.Context) bool
	flush(ctx context.Context)

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error

	Open(ctx context.Context, args []string) error
	Storage(ctx context.Context, args []string) error
	Admin(ctx context.Context) error

	List(ctx context.Context) error
	Upload(ctx context.Context, args []string) error
	Rename(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
	View(ctx context.Context, args []string) error
	Link(ctx context.Context, args []string) error
	Fetch(ctx context.Context, args []string) error

	Users(ctx context.Context) error
	SetRole(ctx context.Context, args []string) error
	DeleteUser(ctx context.Context, args []string) error
}

const (
	helpSignedOut = "Available commands: register, login, fetch, exit"
	helpSignedIn  = "Available commands: whoami, storage [id], open <view>, (l)ist, upload, rename, delete, download, view, link, fetch, logout, exit"
	helpAdmin     = "Admin commands: admin, users, setrole <id> <role>, deluser <id>"
)

// runREPL starts a simple read–eval–print loop for the mycloud CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a' with the remaining tokens as arguments.
// Errors are printed in red and the loop moves on. After every command a
// navigation requested meanwhile (login landing, forced logout) is applied.
// The loop exits on EOF or when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("mycloud %s > ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}

		cctx, cancel := commandContext(ctx)
		if err := dispatch(cctx, a, cmd, args); err != nil {
			printError(err)
		}
		cancel()

		a.flush(ctx)
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "help":
		if !a.isLoggedIn(ctx) {
			printlnFn(helpSignedOut)
			return nil
		}
		printlnFn(helpSignedIn)
		if a.isAdmin(ctx) {
			printlnFn(helpAdmin)
		}
		return nil

	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "logout":
		return a.Logout(ctx)
	case "whoami":
		return a.WhoAmI(ctx)

	case "open":
		return a.Open(ctx, args)
	case "storage":
		return a.Storage(ctx, args)
	case "admin":
		return a.Admin(ctx)

	case "l", "list":
		return a.List(ctx)
	case "upload":
		return a.Upload(ctx, args)
	case "rename":
		return a.Rename(ctx, args)
	case "delete":
		return a.Delete(ctx, args)
	case "download":
		return a.Download(ctx, args)
	case "view":
		return a.View(ctx, args)
	case "link":
		return a.Link(ctx, args)
	case "fetch":
		return a.Fetch(ctx, args)

	case "users":
		return a.Users(ctx)
	case "setrole":
		return a.SetRole(ctx, args)
	case "deluser":
		return a.DeleteUser(ctx, args)

	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}
