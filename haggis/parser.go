package haggis

import (
	"strings"

	"github.com/dzonerzy/haggis/internal/intern"
	"github.com/dzonerzy/haggis/internal/pool"
)

// DefaultInitial is the field leading positional values bind to
const DefaultInitial = "positional"

// skipArgs is the number of leading argv entries (interpreter and script
// path, or program path and a caller-chosen placeholder) ignored by Parse
const skipArgs = 2

// Config controls binding
type Config struct {
	// Strict drops names that are not template fields
	Strict bool
	// Initial names the field that positional values before the first flag
	// bind to. Empty means DefaultInitial.
	Initial string
}

// DefaultConfig returns the strict configuration with positional values
// bound to DefaultInitial
func DefaultConfig() Config {
	return Config{Strict: true, Initial: DefaultInitial}
}

// Origin records which kind of token created an instruction
type Origin uint8

const (
	OriginInitial Origin = iota // synthetic leading positional group
	OriginLong                  // --name
	OriginShort                 // -abc
)

// String returns the name of the origin
func (o Origin) String() string {
	switch o {
	case OriginInitial:
		return "initial"
	case OriginLong:
		return "long"
	case OriginShort:
		return "short"
	default:
		return "unknown"
	}
}

// Instruction is one flag occurrence (or the leading positional group) with
// the values that followed it
type Instruction struct {
	Names    []string
	Data     []Value
	Default  bool // receives an implicit true when Data is empty
	Origin   Origin
	Token    string // the flag token, empty for the initial group
	Position int    // index of Token in argv, -1 for the initial group
}

// Parser binds argument vectors to a template. It is immutable and safe for
// concurrent use.
type Parser struct {
	schema  *schema
	strict  bool
	initial string
	buffers *pool.Pool[[]Instruction]
}

// NewParser creates a parser for a snapshot of t
func NewParser(t *Template, cfg Config) *Parser {
	p := &Parser{
		schema:  buildSchema(t),
		strict:  cfg.Strict,
		initial: cfg.Initial,
		buffers: pool.NewPoolWithReset(
			func() *[]Instruction {
				buf := make([]Instruction, 0, 16)
				return &buf
			},
			func(buf *[]Instruction) {
				clear(*buf)
				*buf = (*buf)[:0]
			},
		),
	}
	if p.initial == "" {
		p.initial = DefaultInitial
	}
	return p
}

// Parse binds argv to t with cfg. See Parser.Parse.
func Parse(t *Template, cfg Config, argv []string) *Result {
	return NewParser(t, cfg).Parse(argv)
}

// WithStrict returns a copy of the parser with strict mode set
func (p *Parser) WithStrict(strict bool) *Parser {
	c := *p
	c.strict = strict
	return &c
}

// WithInitial returns a copy of the parser binding leading positional values
// to name
func (p *Parser) WithInitial(name string) *Parser {
	c := *p
	c.initial = name
	if c.initial == "" {
		c.initial = DefaultInitial
	}
	return &c
}

// Config returns the parser configuration
func (p *Parser) Config() Config {
	return Config{Strict: p.strict, Initial: p.initial}
}

// Template returns a copy of the template the parser was built from
func (p *Parser) Template() *Template {
	t := NewTemplate()
	for _, f := range p.schema.fields {
		t.Set(f.Name, f.Value)
	}
	return t
}

// Ambiguities lists leading letters shared by several template fields.
// Short flags using such a letter bind to Winner.
func (p *Parser) Ambiguities() []Ambiguity {
	out := make([]Ambiguity, len(p.schema.ambiguities))
	for i, a := range p.schema.ambiguities {
		a.Shadows = append([]string(nil), a.Shadows...)
		out[i] = a
	}
	return out
}

// Parse binds argv to the template. argv[0] and argv[1] are skipped. Parse
// never fails: anything it cannot bind is dropped and reported through
// Result.Diagnostics.
func (p *Parser) Parse(argv []string) *Result {
	buf := p.buffers.Get()
	defer p.buffers.Put(buf)

	var diags diagnostics
	*buf = p.tokenize(argv, *buf, &diags)
	*buf = p.hoistDefaults(*buf, &diags)

	return p.bind(*buf, &diags)
}

// ParseArgs binds args that carry no leading entries, such as os.Args[1:].
// Diagnostic positions index into args.
func (p *Parser) ParseArgs(args []string) *Result {
	argv := make([]string, 0, len(args)+skipArgs)
	argv = append(argv, "", "")
	argv = append(argv, args...)

	r := p.Parse(argv)
	for i := range r.diagnostics {
		if r.diagnostics[i].Position >= 0 {
			r.diagnostics[i].Position -= skipArgs
		}
	}
	return r
}

// Instructions returns the instructions Parse would bind for argv, after
// default hoisting and pruning
func (p *Parser) Instructions(argv []string) []Instruction {
	var diags diagnostics
	out := p.tokenize(argv, nil, &diags)
	return p.hoistDefaults(out, &diags)
}

// tokenize groups argv into instructions: one per flag token, each
// collecting the values up to the next flag
func (p *Parser) tokenize(argv []string, out []Instruction, d *diagnostics) []Instruction {
	out = append(out, Instruction{
		Names:    []string{p.initial},
		Origin:   OriginInitial,
		Position: -1,
	})

	for pos := skipArgs; pos < len(argv); pos++ {
		arg := argv[pos]

		switch {
		case strings.HasPrefix(arg, "--"):
			// Long flag, used verbatim
			name := arg[2:]
			out = append(out, Instruction{
				Names:    []string{name},
				Default:  p.schema.isFlag(name),
				Origin:   OriginLong,
				Token:    arg,
				Position: pos,
			})

		case strings.HasPrefix(arg, "-"):
			// Short flag cluster: -abc = -a -b -c
			out = append(out, p.parseShortCluster(arg, pos, d))

		default:
			last := &out[len(out)-1]
			last.Data = append(last.Data, Cast(arg))
		}
	}

	return out
}

// parseShortCluster resolves every letter of a short flag token
func (p *Parser) parseShortCluster(arg string, pos int, d *diagnostics) Instruction {
	ins := Instruction{
		Origin:   OriginShort,
		Token:    arg,
		Position: pos,
	}

	letters := arg[1:]
	ins.Names = make([]string, 0, len(letters))
	for _, letter := range letters {
		ins.Names = append(ins.Names, p.resolveLetter(letter, &ins, d))
	}

	// All-or-nothing: one non-boolean name suppresses the default for all
	ins.Default = len(ins.Names) > 0
	for _, name := range ins.Names {
		if !p.schema.isFlag(name) {
			ins.Default = false
			break
		}
	}

	return ins
}

// resolveLetter maps a short flag letter to the first field starting with it,
// or to the letter itself
func (p *Parser) resolveLetter(letter rune, ins *Instruction, d *diagnostics) string {
	i, ok := p.schema.short[letter]
	if !ok {
		name := intern.InternRune(letter)
		d.unresolvedShort(name, ins)
		return name
	}

	for _, a := range p.schema.ambiguities {
		if a.Letter == letter {
			d.ambiguousShort(a, ins)
			break
		}
	}

	return p.schema.fields[i].Name
}

// hoistDefaults turns implicit defaults into data and prunes instructions
// that end up carrying nothing
func (p *Parser) hoistDefaults(in []Instruction, d *diagnostics) []Instruction {
	kept := in[:0]

	for _, ins := range in {
		if ins.Default && len(ins.Data) == 0 {
			ins.Data = []Value{Bool(true)}
			ins.Default = false
		}

		if len(ins.Data) == 0 {
			p.reportDropped(&ins, d)
			continue
		}
		kept = append(kept, ins)
	}

	// Release references held by the pruned tail
	clear(in[len(kept):])
	return kept
}

// reportDropped explains why a flag instruction contributed nothing
func (p *Parser) reportDropped(ins *Instruction, d *diagnostics) {
	switch ins.Origin {
	case OriginInitial:
		// Nothing preceded the first flag
	case OriginLong:
		name := ins.Names[0]
		if _, known := p.schema.field(name); !known && p.strict {
			d.unknownField(name, ins, p.schema)
			return
		}
		d.missingValue(ins)
	case OriginShort:
		if len(ins.Names) == 0 {
			return
		}
		flags := 0
		for _, name := range ins.Names {
			if p.schema.isFlag(name) {
				flags++
			}
		}
		if flags > 0 {
			d.mixedCluster(ins)
			return
		}
		d.missingValue(ins)
	}
}
