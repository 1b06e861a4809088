package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. App satisfies it.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Describe(ctx context.Context) error
	Passwd(ctx context.Context) error
	AddPlace(ctx context.Context) error
	Places(ctx context.Context) error
	Visit(ctx context.Context, args []string) error
	Visits(ctx context.Context, args []string) error
	DeleteVisit(ctx context.Context, args []string) error
	EditVisit(ctx context.Context, args []string) error
	Visited(ctx context.Context, args []string) error
	Stats(ctx context.Context, args []string) error
	Ping(ctx context.Context) error
}

const (
	helpAnonymous = "Available commands: register, login, ping, exit"
	helpSignedIn  = "Available commands: whoami, describe, passwd, add-place, places, visit [place-id], " +
		"visits [all|mine|user <id>|place <id>|recent <n>], edit-visit <id>, delete-visit <id>, visited <place-id> [user-id], " +
		"stats <place-id>, ping, logout, exit"
)

// signedInOnly lists commands that need a session.
var signedInOnly = map[string]bool{
	"whoami": true, "describe": true, "passwd": true, "add-place": true, "places": true,
	"visit": true, "visits": true, "edit-visit": true, "delete-visit": true, "visited": true, "stats": true, "logout": true,
}

// runREPL reads commands from reader until EOF or "exit"/"quit". Command
// errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("vk %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if signedInOnly[cmd] && !a.isLoggedIn() {
			printlnFn("Please login first")
			continue
		}

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpAnonymous)
			}
		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "whoami":
			cmdErr = a.Whoami(ctx)
		case "describe":
			cmdErr = a.Describe(ctx)
		case "passwd":
			cmdErr = a.Passwd(ctx)
		case "add-place":
			cmdErr = a.AddPlace(ctx)
		case "places":
			cmdErr = a.Places(ctx)
		case "visit":
			cmdErr = a.Visit(ctx, args)
		case "visits":
			cmdErr = a.Visits(ctx, args)
		case "edit-visit":
			cmdErr = a.EditVisit(ctx, args)
		case "delete-visit":
			cmdErr = a.DeleteVisit(ctx, args)
		case "visited":
			cmdErr = a.Visited(ctx, args)
		case "stats":
			cmdErr = a.Stats(ctx, args)
		case "ping":
			cmdErr = a.Ping(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
	}
}
