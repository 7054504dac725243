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
	Route() Route
	Navigate(ctx context.Context, r Route) error
	Show(ctx context.Context) error
	SetField(field, value string) error
	PickDate(value string) error
	Save(ctx context.Context) error
	Acknowledge() error
	Revert(ctx context.Context) error
	Ping(ctx context.Context) error
}

// runREPL reads commands line by line and dispatches them to a. Errors
// returned by handlers are printed and the loop continues. The loop exits on
// scanner EOF, on "exit" or "quit", or when ctx is done.
//
// Commands
//
//	help                 show available commands
//	home                 open the home screen
//	publications         open the feed
//	profile              open the profile form
//	show                 render the current screen again
//	set <field> [value]  edit a profile field (first_name, last_name, email, birth_date, age)
//	datepick YYYY-MM-DD  set the birth date from a calendar date
//	save                 save the profile
//	ok                   dismiss the save confirmation
//	revert               discard edits and load the stored profile
//	ping                 check the server connection
//	exit | quit          leave the program
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("gb (%s)> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			printHelp(a.Route())

		case "home":
			err = a.Navigate(ctx, RouteHome)
		case "publications", "pubs":
			err = a.Navigate(ctx, RoutePublications)
		case "profile":
			err = a.Navigate(ctx, RouteProfile)

		case "show":
			err = a.Show(ctx)

		case "set":
			if len(args) == 0 {
				printlnFn("Usage: set <field> [value]")
				continue
			}
			err = a.SetField(args[0], strings.Join(args[1:], " "))

		case "datepick":
			if len(args) != 1 {
				printlnFn("Usage: datepick YYYY-MM-DD")
				continue
			}
			err = a.PickDate(args[0])

		case "save":
			err = a.Save(ctx)
		case "ok":
			err = a.Acknowledge()
		case "revert":
			err = a.Revert(ctx)

		case "ping":
			err = a.Ping(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}

func printHelp(r Route) {
	printlnFn("Routes: home, publications, profile. Other: show, ping, exit")
	if r == RouteProfile {
		printlnFn("Profile: set <field> [value], datepick YYYY-MM-DD, save, ok, revert")
		printlnFn("Fields: first_name, last_name, email, birth_date, age")
	}
}
