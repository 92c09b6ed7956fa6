// Command rollcall is a dev harness around the attendance pipeline: it
// generates the displayable QR code, registers students, runs scan attempts
// against image files standing in for a camera, and exports records.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/hostelhq/rollcall/internal/app"
	"github.com/hostelhq/rollcall/internal/capture"
	"github.com/hostelhq/rollcall/internal/config"
	"github.com/hostelhq/rollcall/internal/export"
	"github.com/hostelhq/rollcall/internal/logging"
	"github.com/hostelhq/rollcall/internal/roster"

	_ "modernc.org/sqlite"
)

const usage = `usage: rollcall <command> [flags]

commands:
  generate   render a fresh attendance QR code to a PNG file
  register   add a student to the roster
  login      start a student or admin session
  logout     end the active session
  scan       run a scan attempt over image files (camera stand-in)
  export     write all attendance records as CSV
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewTextLogger(os.Stderr, slog.LevelInfo)

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rollcall: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := run(ctx, a, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "rollcall: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, a *app.App, command string, args []string) error {
	switch command {
	case "generate":
		return runGenerate(a, args)
	case "register":
		return runRegister(ctx, a, args)
	case "login":
		return runLogin(ctx, a, args)
	case "logout":
		return a.Roster.Logout(ctx)
	case "scan":
		return runScan(ctx, a, args)
	case "export":
		return runExport(ctx, a, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func runGenerate(a *app.App, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	out := fs.String("o", "attendance-qr.png", "output PNG path")
	_ = fs.Parse(args)

	png, err := a.GenerateDailyCode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, png, 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", *out)
	return nil
}

func runRegister(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "student name")
	register := fs.String("register", "", "register number")
	room := fs.String("room", "", "room number")
	year := fs.String("year", "", "year of study")
	_ = fs.Parse(args)

	st, err := a.Roster.RegisterStudent(ctx, roster.Registration{
		Name:           *name,
		RegisterNumber: *register,
		RoomNumber:     *room,
		Year:           *year,
	})
	if err != nil {
		return err
	}
	fmt.Printf("registered %s (%s)\n", st.Name, st.RegisterNumber)
	return nil
}

func runLogin(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	register := fs.String("register", "", "student register number")
	admin := fs.Bool("admin", false, "log in as administrator")
	password := fs.String("password", "", "admin password")
	_ = fs.Parse(args)

	if *admin {
		user, err := a.Roster.LoginAdmin(ctx, *password)
		if err != nil {
			return err
		}
		fmt.Printf("logged in as %s\n", user.Name)
		return nil
	}

	user, err := a.Roster.Login(ctx, *register)
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s (%s)\n", user.Name, user.RegisterNumber)
	return nil
}

func runScan(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	frames := fs.String("frames", "", "glob of image files to sample as camera frames")
	_ = fs.Parse(args)

	paths, err := filepath.Glob(*frames)
	if err != nil {
		return err
	}
	sort.Strings(paths)

	rec, err := a.ScanAndMark(ctx, capture.NewFileDevice(paths...))
	if err != nil {
		return err
	}
	fmt.Printf("attendance marked for %s at %s\n", rec.RegisterNumber, rec.Timestamp.Format("15:04:05"))
	return nil
}

func runExport(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("o", "", "output CSV path (default derived from today)")
	_ = fs.Parse(args)

	path := *out
	if path == "" {
		path = export.Filename(time.Now())
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := a.ExportCSV(ctx, f); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
