package haggis

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type copyOptions struct {
	Count       int
	Exclude     bool
	Source      []string
	Destination string `haggis:"destination"`
	Ratio       float32
	Level       uint8 `haggis:"lvl"`
	Internal    string `haggis:"-"`
	hidden      int
}

func TestTemplateOf(t *testing.T) {
	tpl, err := TemplateOf(copyOptions{Count: 10, Source: []string{"a"}, Ratio: 0.5})
	if err != nil {
		t.Fatalf("TemplateOf failed: %v", err)
	}

	want := []Field{
		{Name: "count", Kind: FieldCounter, Value: Int(10)},
		{Name: "exclude", Kind: FieldFlag, Value: Bool(false)},
		{Name: "source", Kind: FieldList, Value: List(String("a"))},
		{Name: "destination", Kind: FieldText, Value: String("")},
		{Name: "ratio", Kind: FieldNumber, Value: Float(0.5)},
		{Name: "lvl", Kind: FieldCounter, Value: Int(0)},
	}
	if diff := cmp.Diff(want, tpl.Fields()); diff != "" {
		t.Errorf("Fields() mismatch (-want +got):\n%s", diff)
	}
}

func TestTemplateOfErrors(t *testing.T) {
	type badType struct {
		Ch chan int
	}
	type duplicate struct {
		Name  string
		Other string `haggis:"name"`
	}
	var nilPtr *copyOptions

	tests := []struct {
		name     string
		input    any
		wantType ErrorType
		field    string
	}{
		{"not a struct", 42, ErrorTypeInvalidTemplate, ""},
		{"nil pointer", nilPtr, ErrorTypeInvalidTemplate, ""},
		{"unsupported", badType{}, ErrorTypeUnsupportedType, "Ch"},
		{"duplicate", duplicate{}, ErrorTypeInvalidTemplate, "Other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TemplateOf(tt.input)
			var herr *Error
			if !errors.As(err, &herr) {
				t.Fatalf("Expected *Error, got %T (%v)", err, err)
			}
			if herr.Type != tt.wantType {
				t.Errorf("Expected %s, got %s", tt.wantType, herr.Type)
			}
			if herr.Field != tt.field {
				t.Errorf("Expected field %q, got %q", tt.field, herr.Field)
			}
		})
	}
}

func TestResultDecode(t *testing.T) {
	opts := copyOptions{Count: 10, Internal: "keep"}
	tpl, err := TemplateOf(&opts)
	if err != nil {
		t.Fatalf("TemplateOf failed: %v", err)
	}

	res := Parse(tpl, DefaultConfig(), argv(
		"-s", "index.js", "1",
		"--destination", "/tmp",
		"-e",
		"--ratio", "2",
		"--lvl", "3",
	))
	if err := res.Decode(&opts); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	want := copyOptions{
		Count:       10,
		Exclude:     true,
		Source:      []string{"index.js", "1"},
		Destination: "/tmp",
		Ratio:       2,
		Level:       3,
		Internal:    "keep",
	}
	if diff := cmp.Diff(want, opts, cmp.AllowUnexported(copyOptions{})); diff != "" {
		t.Errorf("Decode mismatch (-want +got):\n%s", diff)
	}
}

func TestResultDecodeErrors(t *testing.T) {
	tpl := NewTemplate().Counter("count", 0).Flag("exclude", false).Number("lvl", 0)

	tests := []struct {
		name  string
		tpl   *Template
		args  []string
		field string
	}{
		{"string into int", tpl, []string{"--count", "abc"}, "count"},
		{"fraction into int", tpl, []string{"--count", "1.5"}, "count"},
		{"number into bool", tpl, []string{"--exclude", "1"}, "exclude"},
		{"overflow", tpl, []string{"--lvl", "300"}, "lvl"},
		// "-1" on the command line is a short flag, so the negative comes
		// from the template default
		{"negative into uint", NewTemplate().Counter("lvl", -1), nil, "lvl"},
		{"negative float into uint", NewTemplate().Number("lvl", -1), nil, "lvl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts copyOptions
			err := Parse(tt.tpl, DefaultConfig(), argv(tt.args...)).Decode(&opts)

			var herr *Error
			if !errors.As(err, &herr) {
				t.Fatalf("Expected *Error, got %T (%v)", err, err)
			}
			if herr.Type != ErrorTypeDecode || herr.Field != tt.field {
				t.Errorf("Expected decode error on %s, got %s on %s", tt.field, herr.Type, herr.Field)
			}
		})
	}

	var opts copyOptions
	if err := referenceResult().Decode(opts); err == nil {
		t.Error("Decode into a non-pointer should fail")
	}
}

func TestResultDecodeNull(t *testing.T) {
	tpl := NewTemplate().Text("destination", "")
	res := Parse(tpl, DefaultConfig(), argv("--destination", " "))

	opts := copyOptions{Destination: "old"}
	if err := res.Decode(&opts); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if opts.Destination != "" {
		t.Errorf("Expected null to reset destination, got %q", opts.Destination)
	}
}
