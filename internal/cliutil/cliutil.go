// Package cliutil holds the flag.FlagSet scaffolding shared by every
// cmd/ tool, grounded on the repeated flag.FlagSet boilerplate
// across cmd/*/main.go (stdlib flag throughout; argument parsing itself
// is out of scope, so the plain stdlib choice is kept rather than
// introducing cobra/pflag).
package cliutil

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	tabkit "github.com/tabkit/tabkit"
	"github.com/tabkit/tabkit/internal/locale"
)

// CommonFlags bundles the locale/format flags nearly every CORE tool
// exposes (null values, encoding, delimiter, blanks,
// no-inference), registered onto a caller-owned *flag.FlagSet so each
// cmd/ binary can add its own flags alongside these.
type CommonFlags struct {
	Delimiter   string
	Encoding    string
	NullValues  string
	Blanks          bool
	NoInference     bool
	NoLeadingZeroes bool
	SkipLines       int
	Verbose         bool

	RunID string
}

// Register adds the common flags to fs and returns the struct that will
// hold their parsed values once fs.Parse runs.
func Register(fs *flag.FlagSet) *CommonFlags {
	c := &CommonFlags{RunID: uuid.NewString()}
	fs.StringVar(&c.Delimiter, "delimiter", "", "field delimiter (default: auto-detect)")
	fs.StringVar(&c.Encoding, "encoding", "", "input character encoding (default: utf-8)")
	fs.StringVar(&c.NullValues, "null-value", "", "comma-separated additional null-value spellings")
	fs.BoolVar(&c.Blanks, "blanks", false, "do not treat common null strings as null, only the empty string")
	fs.BoolVar(&c.NoInference, "no-inference", false, "disable type inference, treat every column as text")
	fs.BoolVar(&c.NoLeadingZeroes, "no-leading-zeroes", false, "treat a numeric-looking value starting with 0 as text, not a number")
	fs.IntVar(&c.SkipLines, "skip-lines", 0, "number of leading lines to ignore before the header")
	fs.BoolVar(&c.Verbose, "v", false, "print diagnostics to stderr")
	return c
}

// DelimiterByte resolves the -delimiter flag to a single byte, defaulting
// to 0 (auto-detect) when unset; "tab"/"\t" are accepted spellings for a
// literal tab.
func (c *CommonFlags) DelimiterByte() byte {
	switch c.Delimiter {
	case "":
		return 0
	case "tab", `\t`:
		return '\t'
	default:
		return c.Delimiter[0]
	}
}

// LocaleContext builds a *locale.Context from the common flags layered
// onto locale.Default().
func (c *CommonFlags) LocaleContext() *locale.Context {
	ctx := locale.Default()
	ctx.Blanks = c.Blanks
	ctx.NoInference = c.NoInference
	ctx.NoLeadingZeroes = c.NoLeadingZeroes
	if c.NullValues != "" {
		ctx.NullValues = append(ctx.NullValues, splitComma(c.NullValues)...)
	}
	return ctx
}

func splitComma(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return out
}

// Logf prints a diagnostic line to stderr when -v is set, grounded on the
// teacher's plain fmt.Fprintf(os.Stderr, ...) idiom (no logging framework
// anywhere in the example pack's CLI surfaces).
func (c *CommonFlags) Logf(format string, args ...any) {
	if !c.Verbose {
		return
	}
	fmt.Fprintf(os.Stderr, "[%s] "+format+"\n", append([]any{c.RunID[:8]}, args...)...)
}

// ExitCode maps a tabkit.Error's Kind to a process exit code. Exit code 0
// is success; 1 is a generic failure (including non-tabkit errors); 2-9
// map to the specific error kinds so scripts can branch on cause.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var e *tabkit.Error
	if !asTabkitError(err, &e) {
		return 1
	}
	switch e.Kind {
	case tabkit.IoError:
		return 2
	case tabkit.EncodingError:
		return 3
	case tabkit.ShapeError:
		return 4
	case tabkit.FieldSizeLimit:
		return 5
	case tabkit.ColumnIdentifierError:
		return 6
	case tabkit.FormatError:
		return 7
	case tabkit.JoinError:
		return 8
	case tabkit.ValueError:
		return 9
	default:
		return 1
	}
}

func asTabkitError(err error, target **tabkit.Error) bool {
	type unwrapper interface{ Unwrap() error }
	for err != nil {
		if e, ok := err.(*tabkit.Error); ok {
			*target = e
			return true
		}
		u, ok := err.(unwrapper)
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// Fail prints err to stderr and returns the process exit code for it,
// leaving the caller to actually os.Exit (kept out of this function so
// tests can call it without terminating the test binary).
func Fail(prog string, err error) int {
	fmt.Fprintf(os.Stderr, "%s: %v\n", prog, err)
	return ExitCode(err)
}
