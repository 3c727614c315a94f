package haggis

import (
	"fmt"
	"strings"

	"github.com/dzonerzy/haggis/internal/fuzzy"
)

// DiagnosticType categorizes the non-fatal findings of a parse
type DiagnosticType string

const (
	// A short flag letter matched no field and was used as a literal name
	DiagnosticUnresolvedShort DiagnosticType = "unresolved_short"
	// A short flag letter matched several fields; the first one won
	DiagnosticAmbiguousShort DiagnosticType = "ambiguous_short"
	// A name absent from the template was dropped in strict mode
	DiagnosticUnknownField DiagnosticType = "unknown_field"
	// A flag had no value and no implicit default, so it was dropped
	DiagnosticMissingValue DiagnosticType = "missing_value"
	// A short cluster mixed boolean and non-boolean fields; no default applied
	DiagnosticMixedCluster DiagnosticType = "mixed_cluster"
)

// suggestDistance bounds the edit distance of did-you-mean suggestions
const suggestDistance = 2

// Diagnostic describes something the parser tolerated
type Diagnostic struct {
	Type       DiagnosticType
	Message    string
	Field      string // Field name involved
	Token      string // Original argument
	Position   int    // Index of Token in the argument vector
	Suggestion string // Closest template field, if any
}

// String formats the diagnostic with its suggestion
func (d Diagnostic) String() string {
	if d.Suggestion == "" {
		return d.Message
	}
	return fmt.Sprintf("%s (did you mean '%s'?)", d.Message, d.Suggestion)
}

// diagnostics accumulates findings for one parse
type diagnostics struct {
	list []Diagnostic
}

func (d *diagnostics) add(diag Diagnostic) {
	d.list = append(d.list, diag)
}

func (d *diagnostics) unresolvedShort(letter string, ins *Instruction) {
	d.add(Diagnostic{
		Type:     DiagnosticUnresolvedShort,
		Message:  fmt.Sprintf("short flag -%s matches no field, using %q", letter, letter),
		Field:    letter,
		Token:    ins.Token,
		Position: ins.Position,
	})
}

func (d *diagnostics) ambiguousShort(a Ambiguity, ins *Instruction) {
	d.add(Diagnostic{
		Type: DiagnosticAmbiguousShort,
		Message: fmt.Sprintf("short flag -%c resolves to %q, shadowing %s",
			a.Letter, a.Winner, strings.Join(a.Shadows, ", ")),
		Field:    a.Winner,
		Token:    ins.Token,
		Position: ins.Position,
	})
}

func (d *diagnostics) unknownField(name string, ins *Instruction, s *schema) {
	d.add(Diagnostic{
		Type:       DiagnosticUnknownField,
		Message:    fmt.Sprintf("unknown field %q ignored", name),
		Field:      name,
		Token:      ins.Token,
		Position:   ins.Position,
		Suggestion: fuzzy.FindBestField(name, s.names(), suggestDistance),
	})
}

func (d *diagnostics) missingValue(ins *Instruction) {
	d.add(Diagnostic{
		Type:     DiagnosticMissingValue,
		Message:  fmt.Sprintf("%s has no value and is not a boolean field, dropped", ins.Token),
		Field:    strings.Join(ins.Names, ","),
		Token:    ins.Token,
		Position: ins.Position,
	})
}

func (d *diagnostics) mixedCluster(ins *Instruction) {
	d.add(Diagnostic{
		Type:     DiagnosticMixedCluster,
		Message:  fmt.Sprintf("%s mixes boolean and non-boolean fields, no implicit true", ins.Token),
		Field:    strings.Join(ins.Names, ","),
		Token:    ins.Token,
		Position: ins.Position,
	})
}
