/*package format handles beamdpr's miniature formatting language for lists of
input files, e.g:

   beam_{%02d,0..15 - 7}.egsphsp1

expands to beam_00.egsphsp1, beam_01.egsphsp1, ..., beam_15.egsphsp1, with
beam_07.egsphsp1 skipped. This is convenient for combining the per-job
outputs of a BEAMnrc run where a few jobs failed.

The exact rules are as follows:
File list patterns are a combination of fixed text and variables. Fixed text
is always the same, and variables change from file to file. Variables are
written as {verb,sequence}. "verb" is a printf() integer verb (e.g. %03d)
that specifies how the variable should be printed, and "sequence" is a
sequence format giving the values the variable takes on. If a pattern has
several variables, every combination is produced, with the first variable
changing slowest. A pattern without variables expands to itself.

Sequence formats are a generic way to specify non-contiguous sequences of
natural numbers. They consist of a series of n tokens separated by "+" or "-".
Each token can be either a number or two numbers separated by "..". E.g.:

  100
  0..100
  0..10 + 100
  0..100 - 63 - 10..20

These strings build up sequences of numbers by adding/removing individual
numbers and contiguous sequences. For example, 0 through 10 would be 0..10,
and 1, 2, 3, 15, 16, 17 could be written as 1..17 - 4..14.

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
	// Any expansion with more than BigNumber elements is assumed to be a
	// typo.
	BigNumber = 1 << 20
)

// ExpandSequenceFormat expands a sequence format string into a sorted
// sequence of integers.
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
		start, end := sequenceFormatBounds(adds[i])
		if len(m)+(end-start+1) > BigNumber {
			return nil, fmt.Errorf("the sequence '%s' would have more than "+
				"%d elements, which is almost certainly a typo", format,
				BigNumber)
		}
		for n := start; n <= end; n++ {
			if m[n] {
				return nil, fmt.Errorf("the number %d is added to the "+
					"sequence '%s' more than once", n, format)
			}
			m[n] = true
		}
	}

	for i := range subs {
		start, end := sequenceFormatBounds(subs[i])
		for n := start; n <= end; n++ {
			if !m[n] {
				return nil, fmt.Errorf("the number %d is removed from the "+
					"sequence '%s' without having been added", n, format)
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

// tokeniseSequenceFormat splits a sequence format string into numbers,
// ranges, and operators.
func tokeniseSequenceFormat(format string) ([]string, error) {
	clean := strings.ReplaceAll(format, "+", " + ")
	clean = strings.ReplaceAll(clean, "-", " - ")

	tok := strings.Fields(clean)
	if len(tok) == 0 {
		return nil, fmt.Errorf("the sequence format string is empty")
	}
	return tok, nil
}

func addsSubsSequenceFormat(tok []string) (adds, subs []string, err error) {
	if len(tok) == 0 {
		return nil, nil, fmt.Errorf("the sequence format string is empty")
	}

	// A leading "+" may be dropped.
	if tok[0] != "+" && tok[0] != "-" {
		tok = append([]string{"+"}, tok...)
	}

	adds, subs = []string{}, []string{}
	for i := 0; i < len(tok); i += 2 {
		if tok[i] != "-" && tok[i] != "+" {
			return nil, nil, fmt.Errorf("'%s' should be a '-' or '+', "+
				"but isn't", tok[i])
		}
		if i+1 >= len(tok) {
			return nil, nil, fmt.Errorf("the sequence ends in a trailing "+
				"'%s'", tok[i])
		}
		if err := isSequenceFormatToken(tok[i+1]); err != nil {
			return nil, nil, fmt.Errorf("'%s' cannot be parsed because %s",
				tok[i+1], err.Error())
		}

		if tok[i] == "+" {
			adds = append(adds, tok[i+1])
		} else {
			subs = append(subs, tok[i+1])
		}
	}
	return adds, subs, nil
}

// isSequenceFormatToken returns a nil error if tok is a valid number or
// range and an error describing the problem otherwise. The error message
// assumes it is printed after a "because".
func isSequenceFormatToken(tok string) error {
	if len(tok) == 0 {
		return fmt.Errorf("it is empty")
	}

	bounds := strings.Split(tok, "..")
	switch len(bounds) {
	case 1:
		if _, err := strconv.Atoi(bounds[0]); err != nil {
			return fmt.Errorf("'%s' is not an integer", bounds[0])
		}
		return nil
	case 2:
		start, err := strconv.Atoi(bounds[0])
		if err != nil {
			return fmt.Errorf("'%s' is not an integer", bounds[0])
		}
		end, err := strconv.Atoi(bounds[1])
		if err != nil {
			return fmt.Errorf("'%s' is not an integer", bounds[1])
		}
		if end < start {
			return fmt.Errorf("lower bound %d is larger than upper bound %d",
				start, end)
		}
		return nil
	}
	return fmt.Errorf("it has more than one '..'")
}

// sequenceFormatBounds returns the inclusive bounds of a token that has
// already passed isSequenceFormatToken.
func sequenceFormatBounds(tok string) (start, end int) {
	bounds := strings.Split(tok, "..")
	start, _ = strconv.Atoi(bounds[0])
	if len(bounds) == 1 {
		return start, start
	}
	end, _ = strconv.Atoi(bounds[1])
	return start, end
}

// variable is a single {verb,sequence} in a file list pattern.
type variable struct {
	verb   string
	values []int
}

// ExpandFileList expands a file list pattern into file names.
func ExpandFileList(pattern string) ([]string, error) {
	seps, vars, err := parseFileList(pattern)
	if err != nil {
		return nil, fmt.Errorf("the file list '%s' is invalid: %s",
			pattern, err.Error())
	}

	total := 1
	for _, v := range vars {
		total *= len(v.values)
		if total > BigNumber {
			return nil, fmt.Errorf("the file list '%s' would have more "+
				"than %d files, which is almost certainly a typo",
				pattern, BigNumber)
		}
	}

	out := make([]string, 0, total)
	idx := make([]int, len(vars))
	for n := 0; n < total; n++ {
		sb := &strings.Builder{}
		for j := range vars {
			sb.WriteString(seps[j])
			fmt.Fprintf(sb, vars[j].verb, vars[j].values[idx[j]])
		}
		sb.WriteString(seps[len(vars)])
		out = append(out, sb.String())

		// Odometer increment, last variable fastest.
		for j := len(vars) - 1; j >= 0; j-- {
			idx[j]++
			if idx[j] < len(vars[j].values) {
				break
			}
			idx[j] = 0
		}
	}
	return out, nil
}

// ExpandFileLists expands every pattern in order and concatenates the
// results.
func ExpandFileLists(patterns []string) ([]string, error) {
	out := []string{}
	for _, p := range patterns {
		files, err := ExpandFileList(p)
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}

// parseFileList splits a pattern into its n+1 fixed separators and n
// variables.
func parseFileList(pattern string) (seps []string, vars []variable, err error) {
	starts, ends, err := fileListStartsEnds(pattern)
	if err != nil {
		return nil, nil, err
	}

	prev := 0
	for i := range starts {
		seps = append(seps, pattern[prev:starts[i]])
		v, err := parseVariable(pattern[starts[i]+1 : ends[i]-1])
		if err != nil {
			return nil, nil, err
		}
		vars = append(vars, v)
		prev = ends[i]
	}
	seps = append(seps, pattern[prev:])
	return seps, vars, nil
}

// fileListStartsEnds returns the indices of the '{' and one past the '}' of
// each variable.
func fileListStartsEnds(pattern string) (starts, ends []int, err error) {
	starts, ends = []int{}, []int{}
	open := false
	for i := range pattern {
		switch pattern[i] {
		case '{':
			if open {
				return nil, nil, fmt.Errorf("it has a nested '{' at index "+
					"%d. Variables are enclosed in matching { ... } pairs",
					i)
			}
			open = true
			starts = append(starts, i)
		case '}':
			if !open {
				return nil, nil, fmt.Errorf("it has a '}' at index %d "+
					"that doesn't come after a '{'", i)
			}
			open = false
			ends = append(ends, i+1)
		}
	}
	if open {
		return nil, nil, fmt.Errorf("the '{' at index %d is never closed",
			starts[len(starts)-1])
	}
	return starts, ends, nil
}

func parseVariable(v string) (variable, error) {
	tok := strings.SplitN(v, ",", 2)
	if len(tok) != 2 {
		return variable{}, fmt.Errorf("the variable '{%s}' should contain "+
			"a formatting verb (e.g. '%%d', '%%03d'), a comma, and a "+
			"sequence (e.g. '0..511')", v)
	}

	verb := strings.TrimSpace(tok[0])
	if !isIntVerb(verb) {
		return variable{}, fmt.Errorf("'%s' in the variable '{%s}' is not "+
			"an integer formatting verb like '%%d' or '%%03d'", verb, v)
	}
	values, err := ExpandSequenceFormat(tok[1])
	if err != nil {
		return variable{}, err
	}
	return variable{verb, values}, nil
}

// isIntVerb returns true for verbs of the form %[flags][width]d.
func isIntVerb(verb string) bool {
	if len(verb) < 2 || verb[0] != '%' || verb[len(verb)-1] != 'd' {
		return false
	}
	for _, c := range verb[1 : len(verb)-1] {
		if !strings.ContainsRune("0123456789-+ ", c) {
			return false
		}
	}
	return true
}
