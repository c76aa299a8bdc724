package lib

/* check.go contains the core functions of mpmdump's "check" mode. */

import (
	"fmt"
	"log"

	"github.com/phil-mansfield/mpmdump/lib/dumpio"
)

// Check runs the "check" mode on the provided Args: every configured dump must
// exist, must not be a directory, and must have a header that agrees with its
// size. Depending on strictness, Check either crashes upon encountering an
// error or logs a warning and keeps going. If Check completes, it returns true
// if all tests passed and false otherwise.
func Check(args *Args, strictness CheckStrictness) bool {
	ok := true
	report := func(err error) {
		ok = false
		if strictness == CrashOnError {
			ExternalErrorf("%s", err.Error())
		} else {
			log.Printf("Warning: %s", err.Error())
		}
	}

	if len(args.GridFiles)+len(args.ParticleFiles) == 0 {
		report(fmt.Errorf("No dump files are configured."))
	}

	for _, fileName := range args.GridFiles {
		if _, err := dumpio.ReadGridHeader(fileName); err != nil {
			report(err)
		}
	}
	for _, fileName := range args.ParticleFiles {
		if _, err := dumpio.ReadParticleHeader(fileName); err != nil {
			report(err)
		}
	}

	return ok
}
