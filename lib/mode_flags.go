package lib

import (
	"fmt"
	"sort"
	"strings"
)

// Mode is the mode mpmdump is being run in.
type Mode int

const (
	HelpMode Mode = iota
	ExampleMode
	CheckMode
	GridMode
	ParticlesMode
	StatsMode
	CompressMode
	ConfirmMode
)

var modeNames = map[string]Mode{
	"help":      HelpMode,
	"example":   ExampleMode,
	"check":     CheckMode,
	"grid":      GridMode,
	"particles": ParticlesMode,
	"stats":     StatsMode,
	"compress":  CompressMode,
	"confirm":   ConfirmMode,
}

// ParseMode converts the name of a mode into a Mode.
func ParseMode(name string) (Mode, error) {
	mode, ok := modeNames[name]
	if !ok {
		return HelpMode, fmt.Errorf("You attempted to run mpmdump in the "+
			"mode '%s', but the only valid modes are %s.",
			name, strings.Join(ModeNames(), ", "))
	}
	return mode, nil
}

// ModeNames returns the names of every mode in sorted order.
func ModeNames() []string {
	names := make([]string, 0, len(modeNames))
	for name := range modeNames {
		names = append(names, "'"+name+"'")
	}
	sort.Strings(names)
	return names
}

func (mode Mode) String() string {
	for name, m := range modeNames {
		if m == mode {
			return name
		}
	}
	return fmt.Sprintf("Mode(%d)", int(mode))
}

// CheckStrictness indicates how functions related to the "check" mode
// should behave when they encounter an error.
type CheckStrictness int

const (
	CrashOnError CheckStrictness = iota
	WarnOnError
)
