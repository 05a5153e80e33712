// Command stagger-trace replays a stagger script and prints the delay every
// node emitted.
//
// Usage:
//
//	stagger-trace [flags] <script.yaml>
//
// Flags:
//
//	-format text|json|cbor   output format (default text)
//	-o file                  write to file instead of stdout
//	-debug                   print tree debug output to stderr
//
// Examples:
//
//	# Show the cascade of a script
//	stagger-trace testdata/cascade.yaml
//
//	# Export as JSON lines
//	stagger-trace -format json testdata/cascade.yaml
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/phanxgames/stagger"
)

const usage = `stagger-trace - replay a stagger script

Usage:
  stagger-trace [flags] <script.yaml>

Flags:
`

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "stagger-trace: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("stagger-trace", flag.ContinueOnError)
	fs.SetOutput(stderr)
	format := fs.String("format", "text", "output format: text, json or cbor")
	output := fs.String("o", "", "output file (default stdout)")
	debug := fs.Bool("debug", false, "print tree debug output to stderr")
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("expected exactly one script file")
	}

	write, err := writerFor(*format)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	script, err := stagger.LoadScript(data)
	if err != nil {
		return err
	}

	rec := &stagger.Recorder{}
	if *debug {
		err = script.RunDebug(rec)
	} else {
		err = script.Run(rec)
	}
	if err != nil {
		return err
	}

	if *output == "" {
		return write(rec, stdout)
	}
	f, err := os.Create(*output)
	if err != nil {
		return err
	}
	if err := write(rec, f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writerFor(format string) (func(*stagger.Recorder, io.Writer) error, error) {
	switch format {
	case "text":
		return (*stagger.Recorder).WriteText, nil
	case "json":
		return (*stagger.Recorder).WriteJSON, nil
	case "cbor":
		return (*stagger.Recorder).WriteCBOR, nil
	default:
		return nil, fmt.Errorf("unknown format %q (want text, json or cbor)", format)
	}
}
