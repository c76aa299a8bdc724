package lib

/* error.go contains functions related to error reporting. Nothing below the
main package should call these; they are for turning the errors returned by
lib's subpackages into an exit status. */

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"
)

// exit is swapped out by tests.
var exit = os.Exit

// ExternalErrorf reports an error to the log and kills the program. It should
// be used when an error is something a user could reasonably be expected to
// fix through changes in configuration/data/environment, like a missing or
// truncated dump. It has the same signature as the fmt.*printf() functions.
func ExternalErrorf(format string, a ...interface{}) {
	log.Printf("mpmdump exited early with the following error:\n"+format, a...)
	exit(1)
}

// InternalErrorf reports an error to stderr along with a stack trace and
// kills the program. It should be used when the error requires a code dive to
// fix. It has the same signature as the fmt.*printf() functions.
func InternalErrorf(format string, a ...interface{}) {
	log.Println("mpmdump exited early with the following internal error:")
	fmt.Fprintf(os.Stderr, format, a...)
	fmt.Fprintf(os.Stderr, "\n\n")
	debug.PrintStack()
	exit(1)
}
