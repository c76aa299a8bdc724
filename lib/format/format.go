/*package format handles mpmdump's miniature formatting languages for dump
files, e.g:

   GridFormat = out/v_{%04d,snapshot}.bin
   ParticleFormat = out/particles_{%04d,snapshot}.txt
   Snapshots = 0..100 - 63

File format strings are a combination of fixed text and variables. Fixed text is
always the same, and variables change from file to file. Variables are written
as {verb,rule}. "verb" is a printf() integer verb (e.g. %d, %04d) that specifies
how the variable should be printed. "rule" specifies what values the variable
takes on. The only rule is "snapshot": the variable is equal to the snapshot
currently being read.

Sequence formats are a generic way to specify non-contiguous sequences of
natural numbers. They consist of a series of n tokens separated by "+" or "-".
Each token can be either a number or two numbers separted by "..". E.g.:

  100
  0..100
  0..10 + 100
  0..100 - 63 - 10..20

All the additions are applied before any of the removals, so 1, 2, 3, 15, 16, 17
can be written as 1..17 - 4..14. This is useful for skipping snapshots the
solver never finished writing.

All spaces around "-", "+", and "," symbols are ignored.
*/
package format

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	// Any expanded formats which would have more than BigNumber elements are
	// assumed to be bugs.
	BigNumber = 1 << 20
)

// ExpandSequenceFormat expands a sequence format string into a sorted sequence
// of integers.
func ExpandSequenceFormat(format string) ([]int, error) {
	tok, err := tokeniseSequenceFormat(format)
	if err != nil {
		return nil, err
	}
	adds, subs, err := addsSubsSequenceFormat(tok)
	if err != nil {
		return nil, err
	}

	m := map[int]bool{}
	for i := range adds {
		for _, n := range parseSequenceFormatToken(adds[i]) {
			if m[n] {
				return nil, fmt.Errorf("The number %d is added more than "+
					"once.", n)
			}
			m[n] = true
			if len(m) > BigNumber {
				return nil, fmt.Errorf("This sequence would have more than "+
					"%d elements, which is almost certainly a bug.", BigNumber)
			}
		}
	}

	for i := range subs {
		for _, n := range parseSequenceFormatToken(subs[i]) {
			if !m[n] {
				return nil, fmt.Errorf("The number %d is removed more times "+
					"than it was added.", n)
			}
			delete(m, n)
		}
	}

	out := make([]int, 0, len(m))
	for n := range m {
		out = append(out, n)
	}
	sort.Ints(out)

	return out, nil
}

// tokeniseSequenceFormat splits a sequence format string into numbers, ranges,
// and the operators between them.
func tokeniseSequenceFormat(format string) ([]string, error) {
	clean := strings.ReplaceAll(format, "+", " + ")
	clean = strings.ReplaceAll(clean, "-", " - ")

	tok := strings.Fields(clean)
	if len(tok) == 0 {
		return nil, fmt.Errorf("The format string is empty.")
	}
	return tok, nil
}

// addsSubsSequenceFormat sorts tokens into the ones being added to the
// sequence and the ones being removed from it.
func addsSubsSequenceFormat(tok []string) (adds, subs []string, err error) {
	if len(tok) == 0 {
		return nil, nil, fmt.Errorf("The format string is empty.")
	}

	// A leading "+" may be dropped.
	adds, subs = []string{}, []string{}
	start := 0
	if tok[0] != "+" && tok[0] != "-" {
		if err := isSequenceFormatToken(tok[0]); err != nil {
			return nil, nil, fmt.Errorf("Element number 1, '%s', cannot be "+
				"parsed because %s", tok[0], err.Error())
		}
		adds = append(adds, tok[0])
		start = 1
	}

	for i := start; i < len(tok); i += 2 {
		if tok[i] != "-" && tok[i] != "+" {
			return nil, nil, fmt.Errorf("Element number %d, '%s', should be "+
				"a '-' or '+', but isn't.", i+1, tok[i])
		} else if i+1 >= len(tok) {
			return nil, nil, fmt.Errorf("The format string ends in a "+
				"trailing '%s'.", tok[i])
		} else if err := isSequenceFormatToken(tok[i+1]); err != nil {
			return nil, nil, fmt.Errorf("Element number %d, '%s', cannot be "+
				"parsed because %s", i+2, tok[i+1], err.Error())
		}

		if tok[i] == "+" {
			adds = append(adds, tok[i+1])
		} else {
			subs = append(subs, tok[i+1])
		}
	}

	return adds, subs, nil
}

// isSequenceFormatToken returns a nil error if tok is a valid number or range
// and an error describing the problem otherwise. The error message is written
// to follow the word "because".
func isSequenceFormatToken(tok string) error {
	if len(tok) == 0 {
		return fmt.Errorf("the token is empty.")
	}

	bounds := strings.Split(tok, "..")
	switch len(bounds) {
	case 1:
		if _, err := strconv.Atoi(bounds[0]); err != nil {
			return fmt.Errorf("'%s' is not an integer.", bounds[0])
		}
		return nil
	case 2:
		start, err := strconv.Atoi(bounds[0])
		if err != nil {
			return fmt.Errorf("'%s' is not an integer.", bounds[0])
		}
		end, err := strconv.Atoi(bounds[1])
		if err != nil {
			return fmt.Errorf("'%s' is not an integer.", bounds[1])
		}
		if end < start {
			return fmt.Errorf("lower bound %d is larger than upper bound %d.",
				start, end)
		}
		if end-start >= BigNumber {
			return fmt.Errorf("the range %d..%d has more than %d elements.",
				start, end, BigNumber)
		}
		return nil
	}
	return fmt.Errorf("it has more than one '..'.")
}

// parseSequenceFormatToken expands a single token into its numbers. It
// assumes isSequenceFormatToken has already accepted tok.
func parseSequenceFormatToken(tok string) []int {
	bounds := strings.Split(tok, "..")

	switch len(bounds) {
	case 1:
		n, _ := strconv.Atoi(tok)
		return []int{n}
	case 2:
		start, _ := strconv.Atoi(bounds[0])
		end, _ := strconv.Atoi(bounds[1])
		out := make([]int, 0, end-start+1)
		for n := start; n <= end; n++ {
			out = append(out, n)
		}
		return out
	}

	panic(fmt.Sprintf("Internal error: invalid sequence format token, "+
		"'%s', passed isSequenceFormatToken().", tok))
}

// ExpandFileFormat returns the file name that format gives for a snapshot.
func ExpandFileFormat(format string, snapshot int) (string, error) {
	starts, ends, err := startsEndsFormatString(format)
	if err != nil {
		return "", err
	}

	sb := &strings.Builder{}
	prev := 0
	for i := range starts {
		sb.WriteString(format[prev:starts[i]])

		s, err := expandVariable(format[starts[i]+1:ends[i]-1], snapshot)
		if err != nil {
			return "", fmt.Errorf("The file format '%s' has an invalid "+
				"variable at index %d: %s", format, starts[i], err.Error())
		}
		sb.WriteString(s)
		prev = ends[i]
	}
	sb.WriteString(format[prev:])

	return sb.String(), nil
}

// ExpandFileFormats expands format for every snapshot in snaps.
func ExpandFileFormats(format string, snaps []int) ([]string, error) {
	out := make([]string, len(snaps))
	for i, snap := range snaps {
		var err error
		if out[i], err = ExpandFileFormat(format, snap); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// expandVariable expands the text inside a single {verb,rule} pair.
func expandVariable(v string, snapshot int) (string, error) {
	tok := strings.Split(v, ",")
	if len(tok) != 2 {
		return "", fmt.Errorf("'{%s}' should contain a formatting verb "+
			"(e.g. '%%04d'), a comma, and a rule (e.g. 'snapshot').", v)
	}

	verb, rule := strings.TrimSpace(tok[0]), strings.TrimSpace(tok[1])
	if !isIntVerb(verb) {
		return "", fmt.Errorf("'%s' is not a printf() integer verb like "+
			"'%%d' or '%%04d'.", verb)
	} else if rule != "snapshot" {
		return "", fmt.Errorf("'%s' is not a valid rule. The only valid "+
			"rule is 'snapshot'.", rule)
	}

	return fmt.Sprintf(verb, snapshot), nil
}

// isIntVerb returns true for %d, %4d, %04d, %-4d, and the like.
func isIntVerb(verb string) bool {
	if len(verb) < 2 || verb[0] != '%' || verb[len(verb)-1] != 'd' {
		return false
	}
	flags := verb[1 : len(verb)-1]
	flags = strings.TrimLeft(flags, "-+0 ")
	for _, c := range flags {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// startsEndsFormatString returns the indices of the '{' that starts each
// format variable and the indices just past the matching '}'.
func startsEndsFormatString(format string) (starts, ends []int, err error) {
	starts, ends = []int{}, []int{}
	nestedLevel := 0

	ending := "Make sure variables in file formats are enclosed in " +
		"matching { ... } pairs."

	for i := range format {
		if format[i] == '{' {
			nestedLevel++
			starts = append(starts, i)
		} else if format[i] == '}' {
			nestedLevel--
			ends = append(ends, i+1)
		}

		if nestedLevel > 1 {
			end := len(starts) - 1
			return nil, nil, fmt.Errorf("The file format '%s' has nested "+
				"'{' characters at indices %d and %d. %s",
				format, starts[end-1], starts[end], ending)
		} else if nestedLevel < 0 {
			return nil, nil, fmt.Errorf("The file format '%s' has a '}' "+
				"that doesn't come after a '{' at index %d. %s",
				format, i, ending)
		}
	}

	if len(ends) != len(starts) {
		return nil, nil, fmt.Errorf("The file format '%s' has a '{' "+
			"without a matching '}' at index %d. %s",
			format, starts[len(starts)-1], ending)
	}

	return starts, ends, nil
}
