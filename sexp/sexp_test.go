package sexp

import (
	"encoding/json"
	"math"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestSymbolInspect(t *testing.T) {
	tests := []struct {
		input    Symbol
		expected string
	}{
		{"foo", ":foo"},
		{"foo?", ":foo?"},
		{"save!", ":save!"},
		{"name=", ":name="},
		{"Foo", ":Foo"},
		{"@ivar", ":@ivar"},
		{"@@cvar", ":@@cvar"},
		{"$gvar", ":$gvar"},
		{"$1", ":$1"},
		{"$!", ":$!"},
		{"+", ":+"},
		{"**", ":**"},
		{"[]=", ":[]="},
		{"<=>", ":<=>"},
		{"-@", ":-@"},
		{"foo bar", `:"foo bar"`},
		{"9lives", `:"9lives"`},
		{"", `:""`},
	}

	for i, tt := range tests {
		if got := tt.input.Inspect(); got != tt.expected {
			t.Fatalf("test[%d]: expected %s, got %s", i, tt.expected, got)
		}
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{1, "1.0"},
		{1.5, "1.5"},
		{-0.25, "-0.25"},
		{100, "100.0"},
		{1e20, "1.0e+20"},
		{1.5e-7, "1.5e-07"},
		{0.0001, "0.0001"},
		{math.Inf(1), "Infinity"},
		{math.NaN(), "NaN"},
	}

	for i, tt := range tests {
		if got := FormatFloat(tt.input); got != tt.expected {
			t.Fatalf("test[%d]: expected %s, got %s", i, tt.expected, got)
		}
	}
}

func TestListString(t *testing.T) {
	call := New(0, 0, "call", New(0, 0, "lit", int64(1)), Symbol("+"), New(0, 4, "lit", 2.5))
	if got, want := call.String(), "s(:call, s(:lit, 1), :+, s(:lit, 2.5))"; got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}

	str := New(0, 0, "str", "a\"b\n#{c}")
	if got, want := str.String(), `s(:str, "a\"b\n\#{c}")`; got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}

	misc := New(0, 0, "iter", New(0, 0, "call", nil, Symbol("foo")), 0, nil, Regexp{Source: "a+", Options: "i"})
	if got, want := misc.String(), "s(:iter, s(:call, nil, :foo), 0, nil, /a+/i)"; got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}

	var empty *List
	if empty.String() != "nil" || empty.Type() != "" || empty.Children() != nil {
		t.Fatalf("nil list should print as nil and have no type or children")
	}
}

func TestTreeJSON(t *testing.T) {
	list := New(2, 4, "call", nil, Symbol("puts"), New(2, 9, "str", "hi"))

	out, err := json.Marshal(list.Tree(true))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"type":"call","line":3,"column":4,"children":[null,{"sym":"puts"},{"type":"str","line":3,"column":9,"children":["hi"]}]}`
	if string(out) != want {
		t.Fatalf("expected %s, got %s", want, out)
	}

	out, err = json.Marshal(list.Tree(false))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want = `{"type":"call","children":[null,{"sym":"puts"},{"type":"str","children":["hi"]}]}`
	if string(out) != want {
		t.Fatalf("expected %s, got %s", want, out)
	}
}

func TestTreeYAML(t *testing.T) {
	list := New(0, 0, "lit", Regexp{Source: "x", Options: "m"})

	out, err := yaml.Marshal(list.Tree(false))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded struct {
		Type     string           `yaml:"type"`
		Children []map[string]any `yaml:"children"`
	}
	if err := yaml.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Type != "lit" || len(decoded.Children) != 1 {
		t.Fatalf("unexpected document %q", out)
	}
	if decoded.Children[0]["regexp"] != "x" || decoded.Children[0]["options"] != "m" {
		t.Fatalf("unexpected regexp child %v", decoded.Children[0])
	}
}
