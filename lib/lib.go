/*package lib contains the glue between mpmdump's command line and the packages
that do the actual work: config parsing, the bodies of each mode, and error
reporting. Decoding lives in lib/dumpio.
*/
package lib

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

var (
	// Version is the version of the software.
	Version = "0.1.0"
)

// OpenLogFile redirects the standard logger to fileName. The returned Closer
// must be closed when the program is done logging. An empty fileName leaves
// the logger alone.
func OpenLogFile(fileName string) (io.Closer, error) {
	if fileName == "" {
		return io.NopCloser(nil), nil
	}

	f, err := os.Create(fileName)
	if err != nil {
		return nil, fmt.Errorf("Could not create the log file %s: %w",
			fileName, err)
	}
	log.SetOutput(f)
	return f, nil
}

// PrintHelp prints a description of mpmdump's command line.
func PrintHelp(wr io.Writer) {
	fmt.Fprintf(wr, `mpmdump %s reads the binary dumps written by the MPM solver.

Usage:
    mpmdump <mode> [config file] [--<Arg1> <Value1>] [--<Arg2> <Value2>]

Modes:
    help       Print this message.
    example    Print an example config file.
    check      Check that every configured dump is readable.
    grid       Print the dimensions, spacing, and positive velocity indices
               of each velocity-grid dump.
    particles  Decode each particle dump without printing anything.
    stats      Print summary statistics of every dump.
    compress   Write a .zst copy of every dump.
    confirm    Check that every .zst copy matches its dump.

Every config variable can be set on the command line. Valid modes are %s.
`, Version, strings.Join(ModeNames(), ", "))
}
