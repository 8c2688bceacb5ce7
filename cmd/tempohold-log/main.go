// Command tempohold-log is a tool for viewing and analyzing tempo hold trace files.
//
// Trace files are created by tempohold when started with the -trace flag.
//
// Usage:
//
//	tempohold-log <command> [flags] <file.tlog>
//
// Commands:
//
//	view     View trace file in human-readable format
//	export   Export trace file to JSONL, CSV or SQLite
//	filter   Filter trace file and write to new file
//	stats    Show statistics about the trace file
//
// Examples:
//
//	# View all events
//	tempohold-log view session.tlog
//
//	# View only decisions of one mapping
//	tempohold-log view -mapping gear -kind decision session.tlog
//
//	# Export to SQLite for ad-hoc queries
//	tempohold-log export -format sqlite -o session.db session.tlog
//
//	# Keep one mapping in a new trace file
//	tempohold-log filter -mapping gear -o gear.tlog session.tlog
//
//	# Show statistics
//	tempohold-log stats session.tlog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tempohold/tempohold-go/cmd/tempohold-log/commands"
)

const usage = `tempohold-log - Tempo Hold Trace Analyzer

Usage:
  tempohold-log <command> [flags] <file.tlog>

Commands:
  view     View trace file in human-readable format
  export   Export trace file to JSONL, CSV or SQLite
  filter   Filter trace file and write to new file
  stats    Show statistics about the trace file

Use "tempohold-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// newFlagSet returns a flag set whose usage text follows the common layout.
func newFlagSet(name, summary string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `tempohold-log %s - %s

Usage:
  tempohold-log %s [flags] <file.tlog>

Flags:
`, name, summary, name)
		fs.PrintDefaults()
	}
	return fs
}

// parsePath parses args and returns the single positional trace file path.
func parsePath(fs *flag.FlagSet, args []string) string {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func runView(args []string) {
	fs := newFlagSet("view", "View trace file in human-readable format")
	mapping := fs.String("mapping", "", "Filter by mapping ID")
	instance := fs.String("instance", "", "Filter by instance ID prefix")
	kind := fs.String("kind", "", "Filter by kind (input, decision, timer, output, diagnostic)")

	path := parsePath(fs, args)

	filter := commands.ViewFilter{
		MappingID:  *mapping,
		InstanceID: *instance,
	}
	if *kind != "" {
		k, err := commands.ParseKindFlag(*kind)
		if err != nil {
			fatal(err)
		}
		filter.Kind = &k
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fatal(err)
	}
}

func runExport(args []string) {
	fs := newFlagSet("export", "Export trace file to JSONL, CSV or SQLite")
	format := fs.String("format", "jsonl", "Output format (jsonl, csv, sqlite)")
	output := fs.String("o", "", "Output file (default: stdout, required for sqlite)")

	path := parsePath(fs, args)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fatal(err)
	}
}

func runFilter(args []string) {
	fs := newFlagSet("filter", "Filter trace file and write to new file")
	var opts commands.FilterOptions
	fs.StringVar(&opts.Output, "o", "", "Output file (required)")
	fs.StringVar(&opts.MappingID, "mapping", "", "Filter by mapping ID")
	fs.StringVar(&opts.InstanceID, "instance", "", "Filter by instance ID prefix")
	fs.StringVar(&opts.Kind, "kind", "", "Filter by kind (input, decision, timer, output, diagnostic)")
	fs.StringVar(&opts.TimeStart, "time-start", "", "Keep events at or after this time (RFC3339)")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "Keep events before this time (RFC3339)")

	path := parsePath(fs, args)

	if opts.Output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file required (-o)")
		fs.Usage()
		os.Exit(1)
	}

	n, err := commands.RunFilter(path, opts)
	if err != nil {
		fatal(err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %d events to %s\n", n, opts.Output)
}

func runStats(args []string) {
	fs := newFlagSet("stats", "Show statistics about the trace file")
	path := parsePath(fs, args)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fatal(err)
	}
}
