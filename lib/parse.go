package lib

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/mpmdump/lib/compress"
	"github.com/phil-mansfield/mpmdump/lib/format"
)

const (
	// DefaultGridFile and DefaultParticleFile are the dumps read when nothing
	// else is configured.
	DefaultGridFile     = "v_0003.bin"
	DefaultParticleFile = "particles_0002.txt"

	ExampleConfigFile = `[MPMDump]

#######################
# Required Parameters #
#######################

# None. With an empty config file, mpmdump reads the two dumps below from the
# working directory.

#######################
# Optional Parameters #
#######################

# A single velocity-grid dump and a single particle dump. Either may end in
# .zst, in which case it is decompressed before being read.
# GridFile = v_0003.bin
# ParticleFile = particles_0002.txt

# To read many snapshots at once, give file formats and a snapshot sequence.
# Variables are written as {verb,snapshot}, and the sequence can add and
# remove ranges. When either format is set, GridFile and ParticleFile are
# ignored.
# GridFormat = out/v_{%04d,snapshot}.bin
# ParticleFormat = out/particles_{%04d,snapshot}.txt
# Snapshots = 0..100 - 63

# zstd level used by the compress mode. Must be in [1, 22]. Default is 1.
# CompressLevel = 1

# Number of dumps compressed/confirmed at once. -1 uses every core.
# Threads = 1

# Write log output to this file instead of stderr.
# LogFile = mpmdump.log
`
)

// DumpConfig holds the variables of the [MPMDump] config section.
type DumpConfig struct {
	GridFile, ParticleFile     string
	GridFormat, ParticleFormat string
	Snapshots                  string
	CompressLevel              int
	Threads                    int
	LogFile                    string
}

// RawArgs stores the unprocessed values which the user assigned to each config
// variable.
type RawArgs struct {
	MPMDump DumpConfig
}

// Args stores configuration information. It is a post-processed version of
// RawArgs.
type Args struct {
	// Snaps is empty unless a snapshot sequence was given.
	Snaps         []int
	GridFiles     []string
	ParticleFiles []string
	CompressLevel int
	Threads       int
	LogFile       string
}

// DefaultRawArgs returns the RawArgs used when a variable isn't set anywhere.
func DefaultRawArgs() *RawArgs {
	return &RawArgs{DumpConfig{
		GridFile:      DefaultGridFile,
		ParticleFile:  DefaultParticleFile,
		CompressLevel: compress.DefaultLevel,
		Threads:       1,
	}}
}

// ParseCommandLine parses the command line arguments (without the program
// name) and returns the mode mpmdump is being run in, the name of the config
// file, and any arguments which were set. Expects that the arguments are
// presented in the order:
// $ mpmdump <mode> [config file] [--<Arg1> <Value1>] [--<Arg2> <Value2>]
// The config file name is empty if none was given.
func ParseCommandLine(argv []string) (
	mode Mode, configFile string, args *RawArgs, err error,
) {
	if len(argv) == 0 {
		return HelpMode, "", nil, fmt.Errorf("No mode was given. Run " +
			"'mpmdump help' for a list of modes.")
	}

	mode, err = ParseMode(argv[0])
	if err != nil {
		return HelpMode, "", nil, err
	}

	rest := argv[1:]
	if len(rest) > 0 && !strings.HasPrefix(rest[0], "-") {
		configFile, rest = rest[0], rest[1:]
	}

	args = &RawArgs{}
	fs := newFlagSet(&args.MPMDump)
	if err = fs.Parse(rest); err != nil {
		return HelpMode, "", nil, err
	}
	if fs.NArg() > 0 {
		return HelpMode, "", nil, fmt.Errorf("Unexpected argument '%s'. "+
			"The config file must come directly after the mode.", fs.Arg(0))
	}

	return mode, configFile, args, nil
}

// newFlagSet creates flags for every config variable. All flags default to
// zero values so that Overwrite can tell which ones were set.
func newFlagSet(con *DumpConfig) *flag.FlagSet {
	fs := flag.NewFlagSet("mpmdump", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&con.GridFile, "GridFile", "", "Velocity-grid dump.")
	fs.StringVar(&con.ParticleFile, "ParticleFile", "", "Particle dump.")
	fs.StringVar(&con.GridFormat, "GridFormat", "",
		"File format for velocity-grid dumps.")
	fs.StringVar(&con.ParticleFormat, "ParticleFormat", "",
		"File format for particle dumps.")
	fs.StringVar(&con.Snapshots, "Snapshots", "",
		"Sequence format of snapshots.")
	fs.IntVar(&con.CompressLevel, "CompressLevel", 0, "zstd level.")
	fs.IntVar(&con.Threads, "Threads", 0, "Number of threads.")
	fs.StringVar(&con.LogFile, "LogFile", "", "Log file.")

	return fs
}

// ParseConfigFile parses arguments from a config file. An empty file name
// returns the defaults.
func ParseConfigFile(fileName string) (*RawArgs, error) {
	args := DefaultRawArgs()
	if fileName == "" {
		return args, nil
	}
	if err := gcfg.ReadFileInto(args, fileName); err != nil {
		return nil, fmt.Errorf("Could not parse the config file %s: %w",
			fileName, err)
	}
	return args, nil
}

// Overwrite arguments in arg1 which have been set to non-default values in
// arg2.
func (arg1 *RawArgs) Overwrite(arg2 *RawArgs) {
	c1, c2 := &arg1.MPMDump, &arg2.MPMDump

	overwriteString(&c1.GridFile, c2.GridFile)
	overwriteString(&c1.ParticleFile, c2.ParticleFile)
	overwriteString(&c1.GridFormat, c2.GridFormat)
	overwriteString(&c1.ParticleFormat, c2.ParticleFormat)
	overwriteString(&c1.Snapshots, c2.Snapshots)
	overwriteString(&c1.LogFile, c2.LogFile)
	if c2.CompressLevel != 0 {
		c1.CompressLevel = c2.CompressLevel
	}
	if c2.Threads != 0 {
		c1.Threads = c2.Threads
	}
}

func overwriteString(s1 *string, s2 string) {
	if s2 != "" {
		*s1 = s2
	}
}

// Process converts the raw user input to a format which is more useful for
// internal functions. Very simple validation will be done here, but nothing
// which requires interacting with external files.
func (raw *RawArgs) Process() (*Args, error) {
	con := &raw.MPMDump
	args := &Args{
		CompressLevel: con.CompressLevel,
		Threads:       con.Threads,
		LogFile:       con.LogFile,
	}

	if con.CompressLevel < compress.MinLevel ||
		con.CompressLevel > compress.MaxLevel {
		return nil, fmt.Errorf("CompressLevel is %d, but it must be in "+
			"[%d, %d].", con.CompressLevel, compress.MinLevel, compress.MaxLevel)
	} else if con.Threads != -1 && con.Threads < 1 {
		return nil, fmt.Errorf("Threads is %d, but it must be positive or "+
			"-1.", con.Threads)
	}

	hasFormat := con.GridFormat != "" || con.ParticleFormat != ""
	if con.Snapshots != "" {
		if !hasFormat {
			return nil, fmt.Errorf("Snapshots is set, but neither " +
				"GridFormat nor ParticleFormat is.")
		}
		snaps, err := format.ExpandSequenceFormat(con.Snapshots)
		if err != nil {
			return nil, fmt.Errorf("The Snapshots format string, '%s', is "+
				"not valid. %s", con.Snapshots, err.Error())
		}
		args.Snaps = snaps
	} else if hasFormat {
		return nil, fmt.Errorf("A file format is set, but Snapshots isn't.")
	}

	gridFile, particleFile := con.GridFile, con.ParticleFile
	if hasFormat {
		gridFile, particleFile = "", ""
	}

	var err error
	args.GridFiles, err = fileNames(gridFile, con.GridFormat, args.Snaps)
	if err != nil {
		return nil, err
	}
	args.ParticleFiles, err = fileNames(
		particleFile, con.ParticleFormat, args.Snaps,
	)
	if err != nil {
		return nil, err
	}

	return args, nil
}

// fileNames returns the files given by a format string if it is set and the
// single named file otherwise.
func fileNames(fileName, fileFormat string, snaps []int) ([]string, error) {
	if fileFormat != "" {
		return format.ExpandFileFormats(fileFormat, snaps)
	} else if fileName != "" {
		return []string{fileName}, nil
	}
	return []string{}, nil
}
