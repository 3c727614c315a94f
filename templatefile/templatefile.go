// Package templatefile reads haggis templates from JSON, YAML and TOML
// documents. The top level must be an object of scalars and arrays; key
// order is kept because it decides short flag resolution.
package templatefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/dzonerzy/haggis/haggis"
)

// Format identifies a template document syntax
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists the supported formats
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatTOML}
}

// ParseFormat maps a format name or file extension to a Format
func ParseFormat(name string) (Format, bool) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "json":
		return FormatJSON, true
	case "yaml", "yml":
		return FormatYAML, true
	case "toml":
		return FormatTOML, true
	default:
		return "", false
	}
}

// FormatOf picks the format from a file extension
func FormatOf(path string) (Format, bool) {
	return ParseFormat(filepath.Ext(path))
}

// Load reads the template stored at path
func Load(path string) (*haggis.Template, error) {
	format, ok := FormatOf(path)
	if !ok {
		return nil, haggis.NewError(haggis.ErrorTypeFormat,
			fmt.Sprintf("cannot tell template format of %q, expected .json, .yaml, .yml or .toml", path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, haggis.NewError(haggis.ErrorTypeIO, "open template").WithCause(err)
	}
	defer f.Close()

	return Decode(f, format)
}

// Decode reads a template document in the given format
func Decode(r io.Reader, format Format) (*haggis.Template, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(r)
	case FormatYAML:
		return decodeYAML(r)
	case FormatTOML:
		return decodeTOML(r)
	default:
		return nil, haggis.NewError(haggis.ErrorTypeFormat, fmt.Sprintf("unknown template format %q", format))
	}
}

func syntaxError(format Format, err error) *haggis.Error {
	return haggis.NewError(haggis.ErrorTypeFormat, "invalid "+string(format)+" template").WithCause(err)
}

func nestedError(key string) *haggis.Error {
	return haggis.NewError(haggis.ErrorTypeInvalidTemplate, "nested objects are not supported").WithField(key)
}

// JSON

func decodeJSON(r io.Reader) (*haggis.Template, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return haggis.NewTemplate(), nil
		}
		return nil, syntaxError(FormatJSON, err)
	}
	if tok != json.Delim('{') {
		return nil, haggis.NewError(haggis.ErrorTypeInvalidTemplate, "template must be an object")
	}

	t := haggis.NewTemplate()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, syntaxError(FormatJSON, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, syntaxError(FormatJSON, fmt.Errorf("unexpected %v", tok))
		}

		v, err := jsonValue(dec, key)
		if err != nil {
			return nil, err
		}
		t.Set(key, v)
	}

	// Closing brace
	if _, err := dec.Token(); err != nil {
		return nil, syntaxError(FormatJSON, err)
	}
	if tok, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = fmt.Errorf("unexpected %v after the template object", tok)
		}
		return nil, syntaxError(FormatJSON, err)
	}
	return t, nil
}

func jsonValue(dec *json.Decoder, key string) (haggis.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return haggis.Value{}, syntaxError(FormatJSON, err)
	}

	switch tok := tok.(type) {
	case nil:
		return haggis.Null(), nil
	case bool:
		return haggis.Bool(tok), nil
	case string:
		return haggis.String(tok), nil
	case json.Number:
		if i, err := tok.Int64(); err == nil {
			return haggis.Int(i), nil
		}
		f, err := tok.Float64()
		if err != nil {
			return haggis.Value{}, syntaxError(FormatJSON, err).WithField(key)
		}
		return haggis.Float(f), nil
	case json.Delim:
		if tok != '[' {
			return haggis.Value{}, nestedError(key)
		}
		var items []haggis.Value
		for dec.More() {
			item, err := jsonValue(dec, key)
			if err != nil {
				return haggis.Value{}, err
			}
			items = append(items, item)
		}
		if _, err := dec.Token(); err != nil {
			return haggis.Value{}, syntaxError(FormatJSON, err)
		}
		return haggis.List(items...), nil
	default:
		return haggis.Value{}, syntaxError(FormatJSON, fmt.Errorf("unexpected %v", tok)).WithField(key)
	}
}

// YAML

func decodeYAML(r io.Reader) (*haggis.Template, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return haggis.NewTemplate(), nil
		}
		return nil, syntaxError(FormatYAML, err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return haggis.NewTemplate(), nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, haggis.NewError(haggis.ErrorTypeInvalidTemplate, "template must be a mapping")
	}

	t := haggis.NewTemplate()
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		v, err := yamlValue(root.Content[i+1], key)
		if err != nil {
			return nil, err
		}
		t.Set(key, v)
	}
	return t, nil
}

func yamlValue(n *yaml.Node, key string) (haggis.Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return yamlValue(n.Alias, key)
	case yaml.MappingNode:
		return haggis.Value{}, nestedError(key)
	case yaml.SequenceNode:
		items := make([]haggis.Value, 0, len(n.Content))
		for _, c := range n.Content {
			item, err := yamlValue(c, key)
			if err != nil {
				return haggis.Value{}, err
			}
			items = append(items, item)
		}
		return haggis.List(items...), nil
	case yaml.ScalarNode:
		return yamlScalar(n, key)
	default:
		return haggis.Value{}, syntaxError(FormatYAML, fmt.Errorf("unexpected node at line %d", n.Line)).WithField(key)
	}
}

func yamlScalar(n *yaml.Node, key string) (haggis.Value, error) {
	var err error
	switch n.ShortTag() {
	case "!!null":
		return haggis.Null(), nil
	case "!!bool":
		var b bool
		if err = n.Decode(&b); err == nil {
			return haggis.Bool(b), nil
		}
	case "!!int":
		var i int64
		if err = n.Decode(&i); err == nil {
			return haggis.Int(i), nil
		}
		// Too large for int64
		var f float64
		if err = n.Decode(&f); err == nil {
			return haggis.Float(f), nil
		}
	case "!!float":
		var f float64
		if err = n.Decode(&f); err == nil {
			return haggis.Float(f), nil
		}
	default:
		return haggis.String(n.Value), nil
	}
	return haggis.Value{}, syntaxError(FormatYAML, err).WithField(key)
}

// TOML

func decodeTOML(r io.Reader) (*haggis.Template, error) {
	var doc map[string]any
	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, syntaxError(FormatTOML, err)
	}

	t := haggis.NewTemplate()
	for _, k := range md.Keys() {
		if len(k) != 1 {
			continue
		}
		key := k[0]
		v, err := tomlValue(doc[key], key)
		if err != nil {
			return nil, err
		}
		t.Set(key, v)
	}
	return t, nil
}

func tomlValue(raw any, key string) (haggis.Value, error) {
	switch v := raw.(type) {
	case bool:
		return haggis.Bool(v), nil
	case int64:
		return haggis.Int(v), nil
	case float64:
		return haggis.Float(v), nil
	case string:
		return haggis.String(v), nil
	case time.Time:
		return haggis.String(v.Format(time.RFC3339Nano)), nil
	case []any:
		items := make([]haggis.Value, 0, len(v))
		for _, item := range v {
			iv, err := tomlValue(item, key)
			if err != nil {
				return haggis.Value{}, err
			}
			items = append(items, iv)
		}
		return haggis.List(items...), nil
	case map[string]any, []map[string]any:
		return haggis.Value{}, nestedError(key)
	default:
		return haggis.Value{}, haggis.NewError(haggis.ErrorTypeUnsupportedType,
			fmt.Sprintf("unsupported TOML value %T", raw)).WithField(key)
	}
}
