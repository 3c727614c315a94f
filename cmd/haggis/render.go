package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/dzonerzy/haggis/haggis"
	haggisio "github.com/dzonerzy/haggis/io"
)

// renderer writes a result to the manager's output
type renderer func(m *haggisio.IOManager, res *haggis.Result) error

var renderers = map[string]renderer{
	"json": renderJSON,
	"yaml": renderYAML,
	"toml": renderTOML,
	"text": renderText,
}

func renderJSON(m *haggisio.IOManager, res *haggis.Result) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = fmt.Fprintf(m.Out(), "%s\n", data)
	return err
}

// renderYAML builds the document node by node so fields stay in order
func renderYAML(m *haggisio.IOManager, res *haggis.Result) error {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range res.Fields() {
		var val yaml.Node
		if err := val.Encode(f.Value.Interface()); err != nil {
			return fmt.Errorf("encode yaml field %s: %w", f.Name, err)
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Name},
			&val,
		)
	}

	enc := yaml.NewEncoder(m.Out())
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// renderTOML encodes one key at a time to keep field order. TOML has no
// null, so null fields and list items are left out.
func renderTOML(m *haggisio.IOManager, res *haggis.Result) error {
	enc := toml.NewEncoder(m.Out())
	for _, f := range res.Fields() {
		v := tomlValue(f.Value)
		if v == nil {
			continue
		}
		if err := enc.Encode(map[string]any{f.Name: v}); err != nil {
			return fmt.Errorf("encode toml field %s: %w", f.Name, err)
		}
	}
	return nil
}

func tomlValue(v haggis.Value) any {
	if v.Kind() != haggis.KindList {
		return v.Interface()
	}
	items, _ := v.AsList()
	out := make([]any, 0, len(items))
	for _, item := range items {
		if iv := tomlValue(item); iv != nil {
			out = append(out, iv)
		}
	}
	return out
}

// renderText prints one "name = value" line per field, colored by kind. A
// list that would overflow the output width is continued one item per line,
// aligned after the opening bracket.
func renderText(m *haggisio.IOManager, res *haggis.Result) error {
	theme := haggisio.DefaultTheme(m)

	width := 0
	for _, k := range res.Keys() {
		width = max(width, len(k))
	}
	indent := strings.Repeat(" ", width+len(" = ["))

	var sb strings.Builder
	for _, f := range res.Fields() {
		key := haggisio.NewStyle().Fg(theme.Key).Sprint(m, fmt.Sprintf("%-*s", width, f.Name))
		sb.WriteString(key)
		sb.WriteString(" = ")

		items, isList := f.Value.AsList()
		if isList && width+len(" = ")+textLen(f.Value) > m.Width() {
			parts := make([]string, len(items))
			for i, item := range items {
				parts[i] = textValue(m, theme, item)
			}
			sb.WriteString("[" + strings.Join(parts, ",\n"+indent) + "]")
		} else {
			sb.WriteString(textValue(m, theme, f.Value))
		}
		sb.WriteByte('\n')
	}

	_, err := fmt.Fprint(m.Out(), sb.String())
	return err
}

func textValue(m *haggisio.IOManager, theme haggisio.Theme, v haggis.Value) string {
	style := haggisio.NewStyle()
	switch v.Kind() {
	case haggis.KindNull:
		return style.Fg(theme.Null).Sprint(m, "null")
	case haggis.KindBool:
		style.Fg(theme.Bool)
	case haggis.KindInt, haggis.KindFloat:
		style.Fg(theme.Number)
	case haggis.KindString:
		return style.Fg(theme.String).Sprint(m, fmt.Sprintf("%q", v.String()))
	case haggis.KindList:
		items, _ := v.AsList()
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = textValue(m, theme, item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return style.Sprint(m, v.String())
}

// textLen is the printed width of textValue without color sequences
func textLen(v haggis.Value) int {
	switch v.Kind() {
	case haggis.KindNull:
		return len("null")
	case haggis.KindString:
		return utf8.RuneCountInString(fmt.Sprintf("%q", v.String()))
	case haggis.KindList:
		items, _ := v.AsList()
		n := len("[]")
		for i, item := range items {
			if i > 0 {
				n += len(", ")
			}
			n += textLen(item)
		}
		return n
	}
	return utf8.RuneCountInString(v.String())
}
