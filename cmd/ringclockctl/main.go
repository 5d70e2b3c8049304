// ringclockctl reads and sets a running ringclock server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/acolita/ringclock/internal/adapters/realdialog"
	"github.com/acolita/ringclock/internal/client"
	"github.com/acolita/ringclock/internal/logging"
	"github.com/acolita/ringclock/internal/ports"
	flag "github.com/spf13/pflag"
)

const usage = `Usage: ringclockctl [flags] <command> [args]

Commands:
  time                 print the current clock time
  sync                 reset the clock to the server's wall-clock time
  adjust [h m s]       set the clock; "-" keeps a component, no args opens a form
  watch                print every reading pushed by the server

Flags:
`

func main() {
	var (
		server     string
		jsonOut    bool
		debug      bool
		accessible bool
	)

	fs := flag.NewFlagSet("ringclockctl", flag.ContinueOnError)
	fs.StringVarP(&server, "server", "s", envOr("RINGCLOCK_SERVER", client.DefaultServer), "ringclock server URL")
	fs.BoolVar(&jsonOut, "json", false, "Print readings as JSON")
	fs.BoolVar(&debug, "debug", false, "Log HTTP retries")
	fs.BoolVar(&accessible, "accessible", false, "Use line prompts instead of a full-screen form")
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	level := "warn"
	if debug {
		level = "debug"
	}
	logging.Setup(level, "text")

	c, err := client.New(server)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &cli{
		client:  c,
		dialog:  realdialog.New(realdialog.WithAccessible(accessible)),
		out:     os.Stdout,
		jsonOut: jsonOut,
	}
	if err := app.run(ctx, fs.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) {
			fs.Usage()
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var errUsage = errors.New("invalid usage")

type cli struct {
	client  *client.Client
	dialog  ports.DialogProvider
	out     io.Writer
	jsonOut bool
}

func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "time":
		r, err := c.client.Time(ctx)
		if err != nil {
			return err
		}
		return c.print(r)
	case "sync":
		r, err := c.client.Sync(ctx)
		if err != nil {
			return err
		}
		return c.print(r)
	case "adjust":
		return c.adjust(ctx, rest)
	case "watch":
		return c.client.Watch(ctx, c.print)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func (c *cli) adjust(ctx context.Context, args []string) error {
	var h, m, s int
	switch len(args) {
	case 0:
		current, err := c.client.Time(ctx)
		if err != nil {
			return err
		}
		data, err := c.dialog.AdjustTimeForm(ports.TimeFormData{
			Hour:   current.Hour,
			Minute: current.Minute,
			Second: current.Second,
		})
		if err != nil {
			return fmt.Errorf("adjust form: %w", err)
		}
		if !data.Confirmed {
			fmt.Fprintln(c.out, "Cancelled.")
			return nil
		}
		h, m, s = data.Hour, data.Minute, data.Second
	case 3:
		var err error
		if h, err = parseArg("hour", args[0]); err != nil {
			return err
		}
		if m, err = parseArg("minute", args[1]); err != nil {
			return err
		}
		if s, err = parseArg("second", args[2]); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: adjust takes no arguments or exactly three", errUsage)
	}

	r, err := c.client.Adjust(ctx, h, m, s)
	if err != nil {
		return err
	}
	return c.print(r)
}

// parseArg parses a component argument. "-" keeps the current value.
func parseArg(name, s string) (int, error) {
	if s == "-" {
		return -1, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer or -, got %q", errUsage, name, s)
	}
	return v, nil
}

func (c *cli) print(r client.Reading) error {
	if c.jsonOut {
		return json.NewEncoder(c.out).Encode(r)
	}
	_, err := fmt.Fprintln(c.out, r.Display)
	return err
}
