package parser

import (
	"errors"
	"testing"

	"github.com/alexisbouchez/rbparse/ast"
	"github.com/alexisbouchez/rbparse/diag"
)

type sexpTest struct {
	input    string
	expected string
}

func checkSexps(t *testing.T, tests []sexpTest) {
	t.Helper()
	for i, tt := range tests {
		program, err := Parse(tt.input, "test.rb")
		if err != nil {
			t.Fatalf("test[%d]: parse %q: %v", i, tt.input, err)
		}
		if got := ast.String(program); got != tt.expected {
			t.Fatalf("test[%d]: parse %q\nexpected %s\ngot      %s", i, tt.input, tt.expected, got)
		}
	}
}

func TestEmptyProgram(t *testing.T) {
	for i, input := range []string{"", "\n\n", "# comment\n", ";;"} {
		program, err := Parse(input, "test.rb")
		if err != nil {
			t.Fatalf("test[%d]: unexpected error: %v", i, err)
		}
		if len(program.Statements) != 0 {
			t.Fatalf("test[%d]: expected no statements, got %d", i, len(program.Statements))
		}
		if got := ast.String(program); got != "s(:block)" {
			t.Fatalf("test[%d]: expected s(:block), got %s", i, got)
		}
	}
}

func TestLiterals(t *testing.T) {
	checkSexps(t, []sexpTest{
		{"5", "s(:lit, 5)"},
		{"1_000", "s(:lit, 1000)"},
		{"0x2A", "s(:lit, 42)"},
		{"3.14", "s(:lit, 3.14)"},
		{"-7", "s(:lit, -7)"},
		{`"abc"`, `s(:str, "abc")`},
		{`'a' "b"`, `s(:str, "ab")`},
		{":sym", "s(:lit, :sym)"},
		{"/ab+/i", "s(:lit, /ab+/i)"},
		{"`ls`", `s(:xstr, "ls")`},
		{`"a#{b}c"`, `s(:dstr, "a", s(:evstr, s(:call, nil, :b)), s(:str, "c"))`},
		{"%w[a b]", `s(:array, s(:str, "a"), s(:str, "b"))`},
		{"%i[a b]", "s(:array, s(:lit, :a), s(:lit, :b))"},
		{"nil", "s(:nil)"},
		{"true", "s(:true)"},
		{"self", "s(:self)"},
		{"__LINE__", "s(:lit, 1)"},
		{"__FILE__", `s(:str, "test.rb")`},
		{"()", "s(:nil)"},
		{"1..2", "s(:dot2, s(:lit, 1), s(:lit, 2))"},
		{"(1...)", "s(:dot3, s(:lit, 1), nil)"},
		{"..5", "s(:dot2, nil, s(:lit, 5))"},
	})
}

func TestCollections(t *testing.T) {
	checkSexps(t, []sexpTest{
		{"[1, 2, 3]", "s(:array, s(:lit, 1), s(:lit, 2), s(:lit, 3))"},
		{"[1,\n 2,\n 3]", "s(:array, s(:lit, 1), s(:lit, 2), s(:lit, 3))"},
		{"[1, *a]", "s(:array, s(:lit, 1), s(:splat, s(:call, nil, :a)))"},
		{"[]", "s(:array)"},
		{"{}", "s(:hash)"},
		{"{ a: 1, 'b' => 2 }", `s(:hash, s(:lit, :a), s(:lit, 1), s(:str, "b"), s(:lit, 2))`},
		{"{ **opts }", "s(:hash, s(:kwsplat, s(:call, nil, :opts)))"},
	})
}

func TestOperatorPrecedence(t *testing.T) {
	checkSexps(t, []sexpTest{
		{"1 + 2 * 3", "s(:call, s(:lit, 1), :+, s(:call, s(:lit, 2), :*, s(:lit, 3)))"},
		{"(1 + 2) * 3", "s(:call, s(:call, s(:lit, 1), :+, s(:lit, 2)), :*, s(:lit, 3))"},
		{"1 - 2 - 3", "s(:call, s(:call, s(:lit, 1), :-, s(:lit, 2)), :-, s(:lit, 3))"},
		{"2 ** 3 ** 2", "s(:call, s(:lit, 2), :**, s(:call, s(:lit, 3), :**, s(:lit, 2)))"},
		{"-2 ** 2", "s(:call, s(:call, s(:lit, 2), :**, s(:lit, 2)), :-@)"},
		{"1 < 2 == true", "s(:call, s(:call, s(:lit, 1), :<, s(:lit, 2)), :==, s(:true))"},
		{"1 << 2 + 3", "s(:call, s(:lit, 1), :<<, s(:call, s(:lit, 2), :+, s(:lit, 3)))"},
		{"a && b || c", "s(:or, s(:and, s(:call, nil, :a), s(:call, nil, :b)), s(:call, nil, :c))"},
		{"a or b and c", "s(:and, s(:or, s(:call, nil, :a), s(:call, nil, :b)), s(:call, nil, :c))"},
		{"!a", "s(:call, s(:call, nil, :a), :!)"},
		{"not a", "s(:call, s(:call, nil, :a), :!)"},
		{"-a", "s(:call, s(:call, nil, :a), :-@)"},
		{"~1", "s(:call, s(:lit, 1), :~)"},
		{"a ? b : c", "s(:if, s(:call, nil, :a), s(:call, nil, :b), s(:call, nil, :c))"},
		{"a ? b : c ? d : e",
			"s(:if, s(:call, nil, :a), s(:call, nil, :b), s(:if, s(:call, nil, :c), s(:call, nil, :d), s(:call, nil, :e)))"},
		{"defined?(a)", "s(:defined, s(:call, nil, :a))"},
	})
}

func TestSignedNumbers(t *testing.T) {
	checkSexps(t, []sexpTest{
		{"a -1", "s(:call, nil, :a, s(:lit, -1))"},
		{"a - 1", "s(:call, s(:call, nil, :a), :-, s(:lit, 1))"},
		{"a-1", "s(:call, s(:call, nil, :a), :-, s(:lit, 1))"},
		{"a = 1; a -1", "s(:block, s(:lasgn, :a, s(:lit, 1)), s(:call, s(:lvar, :a), :-, s(:lit, 1)))"},
		{"1 -2", "s(:call, s(:lit, 1), :-, s(:lit, 2))"},
		{"x = 1; x -0", "s(:block, s(:lasgn, :x, s(:lit, 1)), s(:call, s(:lvar, :x), :-, s(:lit, 0)))"},
		{"x = 1; x -0.0", "s(:block, s(:lasgn, :x, s(:lit, 1)), s(:call, s(:lvar, :x), :-, s(:lit, 0.0)))"},
		{"x = 1; x +0", "s(:block, s(:lasgn, :x, s(:lit, 1)), s(:call, s(:lvar, :x), :+, s(:lit, 0)))"},
		{"x = 1; x -9223372036854775807", "s(:block, s(:lasgn, :x, s(:lit, 1)), s(:call, s(:lvar, :x), :-, s(:lit, 9223372036854775807)))"},
		{"-0 ** 2", "s(:call, s(:call, s(:lit, 0), :**, s(:lit, 2)), :-@)"},
		{"-2.0 ** 3", "s(:call, s(:call, s(:lit, 2.0), :**, s(:lit, 3)), :-@)"},
		{"x = 1; x +2 * 3", "s(:block, s(:lasgn, :x, s(:lit, 1)), s(:call, s(:lvar, :x), :+, s(:call, s(:lit, 2), :*, s(:lit, 3))))"},
	})
}

func TestIndexVersusArrayArgument(t *testing.T) {
	checkSexps(t, []sexpTest{
		{"x [0]", "s(:call, nil, :x, s(:array, s(:lit, 0)))"},
		{"x[0]", "s(:call, s(:call, nil, :x), :[], s(:lit, 0))"},
		{"x = []; x [0]", "s(:block, s(:lasgn, :x, s(:array)), s(:call, s(:lvar, :x), :[], s(:lit, 0)))"},
		{"@a [0]", "s(:call, s(:ivar, :@a), :[], s(:lit, 0))"},
		{"a.b [0]", "s(:call, s(:call, nil, :a), :b, s(:array, s(:lit, 0)))"},
	})
}

func TestLocalsVersusCalls(t *testing.T) {
	checkSexps(t, []sexpTest{
		{"foo", "s(:call, nil, :foo)"},
		{"foo = 1\nfoo", "s(:block, s(:lasgn, :foo, s(:lit, 1)), s(:lvar, :foo))"},
		{"foo()", "s(:call, nil, :foo)"},
		{"x = 1\nbar { x }", "s(:block, s(:lasgn, :x, s(:lit, 1)), s(:iter, s(:call, nil, :bar), 0, s(:lvar, :x)))"},
		{"bar { y = 1 }\ny", "s(:block, s(:iter, s(:call, nil, :bar), 0, s(:lasgn, :y, s(:lit, 1))), s(:call, nil, :y))"},
		{"x = 1\ndef m\n  x\nend", "s(:block, s(:lasgn, :x, s(:lit, 1)), s(:defn, :m, s(:args), s(:call, nil, :x)))"},
		{"def m(a)\n  a\nend\na", "s(:block, s(:defn, :m, s(:args, :a), s(:lvar, :a)), s(:call, nil, :a))"},
	})
}

func TestOperatorAfterLocal(t *testing.T) {
	checkSexps(t, []sexpTest{
		{"a = 1\na /2", "s(:block, s(:lasgn, :a, s(:lit, 1)), s(:call, s(:lvar, :a), :/, s(:lit, 2)))"},
		{"a = 10; a %(3)", "s(:block, s(:lasgn, :a, s(:lit, 10)), s(:call, s(:lvar, :a), :%, s(:lit, 3)))"},
		{"a = 1; a <<b", "s(:block, s(:lasgn, :a, s(:lit, 1)), s(:call, s(:lvar, :a), :<<, s(:call, nil, :b)))"},
		{"a = 4; a /2 / 2", "s(:block, s(:lasgn, :a, s(:lit, 4)), s(:call, s(:call, s(:lvar, :a), :/, s(:lit, 2)), :/, s(:lit, 2)))"},
		{"a /2/", "s(:call, nil, :a, s(:lit, /2/))"},
	})
}

func TestLeadingDirectives(t *testing.T) {
	checkSexps(t, []sexpTest{
		{"=begin\nx\n=end\nfoo", "s(:call, nil, :foo)"},
		{"__END__\nfoo bar", "s(:block)"},
		{"foo\n__END__\nbar", "s(:call, nil, :foo)"},
	})
}

func TestCalls(t *testing.T) {
	checkSexps(t, []sexpTest{
		{"foo.bar(1, 2)", "s(:call, s(:call, nil, :foo), :bar, s(:lit, 1), s(:lit, 2))"},
		{"foo&.bar", "s(:safe_call, s(:call, nil, :foo), :bar)"},
		{"puts 1, 2", "s(:call, nil, :puts, s(:lit, 1), s(:lit, 2))"},
		{"puts a and b", "s(:and, s(:call, nil, :puts, s(:call, nil, :a)), s(:call, nil, :b))"},
		{"puts foo 1", "s(:call, nil, :puts, s(:call, nil, :foo, s(:lit, 1)))"},
		{"foo(a: 1, **b)", "s(:call, nil, :foo, s(:hash, s(:lit, :a), s(:lit, 1), s(:kwsplat, s(:call, nil, :b))))"},
		{"foo 1, key: 2", "s(:call, nil, :foo, s(:lit, 1), s(:hash, s(:lit, :key), s(:lit, 2)))"},
		{"foo(*args, &blk)", "s(:call, nil, :foo, s(:splat, s(:call, nil, :args)), s(:block_pass, s(:call, nil, :blk)))"},
		{"foo *args", "s(:call, nil, :foo, s(:splat, s(:call, nil, :args)))"},
		{"foo * args", "s(:call, s(:call, nil, :foo), :*, s(:call, nil, :args))"},
		{"Foo::Bar", "s(:colon2, s(:const, :Foo), :Bar)"},
		{"::Foo", "s(:colon3, :Foo)"},
		{"Foo::bar(1)", "s(:call, s(:const, :Foo), :bar, s(:lit, 1))"},
		{"Integer(x)", "s(:call, nil, :Integer, s(:call, nil, :x))"},
		{"a.b.c", "s(:call, s(:call, s(:call, nil, :a), :b), :c)"},
		{"foo.(1)", "s(:call, s(:call, nil, :foo), :call, s(:lit, 1))"},
		{"yield 1", "s(:yield, s(:lit, 1))"},
		{"yield", "s(:yield)"},
		{"super", "s(:zsuper)"},
		{"super(1)", "s(:super, s(:lit, 1))"},
		{"super 1, 2", "s(:super, s(:lit, 1), s(:lit, 2))"},
	})
}

func TestBlocks(t *testing.T) {
	checkSexps(t, []sexpTest{
		{"foo(1) { |x| x }", "s(:iter, s(:call, nil, :foo, s(:lit, 1)), s(:args, :x), s(:lvar, :x))"},
		{"foo do |a| end", "s(:iter, s(:call, nil, :foo), s(:args, :a))"},
		{"foo bar do end", "s(:iter, s(:call, nil, :foo, s(:call, nil, :bar)), 0)"},
		{"foo bar { 1 }", "s(:call, nil, :foo, s(:iter, s(:call, nil, :bar), 0, s(:lit, 1)))"},
		{"x = foo do 1 end", "s(:lasgn, :x, s(:iter, s(:call, nil, :foo), 0, s(:lit, 1)))"},
		{"foo { || 1 }", "s(:iter, s(:call, nil, :foo), s(:args), s(:lit, 1))"},
		{"foo { |a, (b, c), *d, &e| }", "s(:iter, s(:call, nil, :foo), s(:args, :a, s(:masgn, :b, :c), :\"*d\", :\"&e\"))"},
		{"foo { |a = 1; b| }", "s(:iter, s(:call, nil, :foo), s(:args, s(:lasgn, :a, s(:lit, 1)), s(:shadow, :b)))"},
		{"->(x) { x * 2 }", "s(:iter, s(:lambda), s(:args, :x), s(:call, s(:lvar, :x), :*, s(:lit, 2)))"},
		{"-> { 1 }", "s(:iter, s(:lambda), 0, s(:lit, 1))"},
		{"while x do y end", "s(:while, s(:call, nil, :x), s(:call, nil, :y), true)"},
		{"foo do\n  a\nrescue\n  b\nend",
			"s(:iter, s(:call, nil, :foo), 0, s(:rescue, s(:call, nil, :a), s(:resbody, s(:array), s(:call, nil, :b))))"},
	})
}

func TestHookBlocks(t *testing.T) {
	checkSexps(t, []sexpTest{
		{"BEGIN { 1 }", "s(:iter, s(:preexe), 0, s(:lit, 1))"},
		{"END { 2 }", "s(:iter, s(:postexe), 0, s(:lit, 2))"},
		{"END { }", "s(:iter, s(:postexe), 0)"},
		{"END {\n  a\n  b\n}", "s(:iter, s(:postexe), 0, s(:block, s(:call, nil, :a), s(:call, nil, :b)))"},
	})

	for i, input := range []string{"BEGIN 1", "END do end", "BEGIN {"} {
		if _, err := Parse(input, "test.rb"); err == nil {
			t.Fatalf("test[%d]: expected a syntax error for %q", i, input)
		}
	}
}

func TestAssignments(t *testing.T) {
	checkSexps(t, []sexpTest{
		{"a = 1", "s(:lasgn, :a, s(:lit, 1))"},
		{"a = b = 1", "s(:lasgn, :a, s(:lasgn, :b, s(:lit, 1)))"},
		{"a = b if c", "s(:if, s(:call, nil, :c), s(:lasgn, :a, s(:call, nil, :b)), nil)"},
		{"x = foo bar", "s(:lasgn, :x, s(:call, nil, :foo, s(:call, nil, :bar)))"},
		{"@a = 1", "s(:iasgn, :@a, s(:lit, 1))"},
		{"$a = 1", "s(:gasgn, :$a, s(:lit, 1))"},
		{"@@a = 1", "s(:cvdecl, :@@a, s(:lit, 1))"},
		{"A = 1", "s(:cdecl, :A, s(:lit, 1))"},
		{"A::B = 1", "s(:cdecl, s(:colon2, s(:const, :A), :B), s(:lit, 1))"},
		{"a.b = 1", "s(:attrasgn, s(:call, nil, :a), :b=, s(:lit, 1))"},
		{"h[:k] = 1", "s(:attrasgn, s(:call, nil, :h), :[]=, s(:lit, :k), s(:lit, 1))"},
		{"x ||= 1", "s(:op_asgn_or, s(:lvar, :x), s(:lasgn, :x, s(:lit, 1)))"},
		{"x &&= 1", "s(:op_asgn_and, s(:lvar, :x), s(:lasgn, :x, s(:lit, 1)))"},
		{"x = 1; x += 2", "s(:block, s(:lasgn, :x, s(:lit, 1)), s(:lasgn, :x, s(:call, s(:lvar, :x), :+, s(:lit, 2))))"},
		{"a.b += 1", "s(:op_asgn2, s(:call, nil, :a), :b=, :+, s(:lit, 1))"},
		{"h[0] ||= 1", "s(:op_asgn1, s(:call, nil, :h), s(:arglist, s(:lit, 0)), :\"||\", s(:lit, 1))"},
		{"a = 1, 2", "s(:lasgn, :a, s(:array, s(:lit, 1), s(:lit, 2)))"},
		{"x = 1 rescue 2", "s(:lasgn, :x, s(:rescue, s(:lit, 1), s(:resbody, s(:array), s(:lit, 2))))"},
	})
}

func TestMultipleAssignment(t *testing.T) {
	checkSexps(t, []sexpTest{
		{"a, b = 1, 2", "s(:masgn, s(:array, s(:lasgn, :a), s(:lasgn, :b)), s(:array, s(:lit, 1), s(:lit, 2)))"},
		{"a, *b = c", "s(:masgn, s(:array, s(:lasgn, :a), s(:splat, s(:lasgn, :b))), s(:to_ary, s(:call, nil, :c)))"},
		{"a, b = *c", "s(:masgn, s(:array, s(:lasgn, :a), s(:lasgn, :b)), s(:splat, s(:call, nil, :c)))"},
		{"(a, b), c = x",
			"s(:masgn, s(:array, s(:masgn, s(:array, s(:lasgn, :a), s(:lasgn, :b))), s(:lasgn, :c)), s(:to_ary, s(:call, nil, :x)))"},
		{"a.b, c[0] = 1, 2",
			"s(:masgn, s(:array, s(:attrasgn, s(:call, nil, :a), :b=), s(:attrasgn, s(:call, nil, :c), :[]=, s(:lit, 0))), s(:array, s(:lit, 1), s(:lit, 2)))"},
		{"a, b = 1, 2\na", "s(:block, s(:masgn, s(:array, s(:lasgn, :a), s(:lasgn, :b)), s(:array, s(:lit, 1), s(:lit, 2))), s(:lvar, :a))"},
	})
}

func TestConditionals(t *testing.T) {
	checkSexps(t, []sexpTest{
		{"if a then b end", "s(:if, s(:call, nil, :a), s(:call, nil, :b), nil)"},
		{"if a\n  b\nelsif c\n  d\nelse\n  e\nend",
			"s(:if, s(:call, nil, :a), s(:call, nil, :b), s(:if, s(:call, nil, :c), s(:call, nil, :d), s(:call, nil, :e)))"},
		{"if a; end", "s(:if, s(:call, nil, :a), nil, nil)"},
		{"unless a; b; end", "s(:if, s(:call, nil, :a), nil, s(:call, nil, :b))"},
		{"b unless a", "s(:if, s(:call, nil, :a), nil, s(:call, nil, :b))"},
		{"case x\nwhen 1, 2 then :a\nelse :b\nend",
			"s(:case, s(:call, nil, :x), s(:when, s(:array, s(:lit, 1), s(:lit, 2)), s(:lit, :a)), s(:lit, :b))"},
		{"case\nwhen a\n  1\nend", "s(:case, nil, s(:when, s(:array, s(:call, nil, :a)), s(:lit, 1)), nil)"},
	})
}

func TestLoops(t *testing.T) {
	checkSexps(t, []sexpTest{
		{"while x\n  y\nend", "s(:while, s(:call, nil, :x), s(:call, nil, :y), true)"},
		{"until x; y; end", "s(:until, s(:call, nil, :x), s(:call, nil, :y), true)"},
		{"y while x", "s(:while, s(:call, nil, :x), s(:call, nil, :y), true)"},
		{"begin\n  a\nend while b", "s(:while, s(:call, nil, :b), s(:call, nil, :a), false)"},
		{"for i in 1..3 do puts i end",
			"s(:for, s(:dot2, s(:lit, 1), s(:lit, 3)), s(:lasgn, :i), s(:call, nil, :puts, s(:lvar, :i)))"},
		{"for a, b in x; end", "s(:for, s(:call, nil, :x), s(:masgn, s(:array, s(:lasgn, :a), s(:lasgn, :b))))"},
		{"while x; break; end", "s(:while, s(:call, nil, :x), s(:break), true)"},
		{"next 1", "s(:next, s(:lit, 1))"},
		{"return 1, 2", "s(:return, s(:array, s(:lit, 1), s(:lit, 2)))"},
		{"return if x", "s(:if, s(:call, nil, :x), s(:return), nil)"},
		{"redo", "s(:redo)"},
	})
}

func TestExceptionHandling(t *testing.T) {
	checkSexps(t, []sexpTest{
		{"begin\n  a\nrescue Foo => e\n  b\nensure\n  c\nend",
			"s(:ensure, s(:rescue, s(:call, nil, :a), s(:resbody, s(:array, s(:const, :Foo), s(:lasgn, :e, s(:gvar, :$!))), s(:call, nil, :b))), s(:call, nil, :c))"},
		{"begin\nrescue A, B\nend", "s(:rescue, s(:resbody, s(:array, s(:const, :A), s(:const, :B)), nil))"},
		{"begin; a; rescue; b; else; c; end",
			"s(:rescue, s(:call, nil, :a), s(:resbody, s(:array), s(:call, nil, :b)), s(:call, nil, :c))"},
		{"begin; end", "s(:nil)"},
		{"a rescue b", "s(:rescue, s(:call, nil, :a), s(:resbody, s(:array), s(:call, nil, :b)))"},
	})
}

func TestDefinitions(t *testing.T) {
	checkSexps(t, []sexpTest{
		{"def add(a, b = 1)\n  a + b\nend",
			"s(:defn, :add, s(:args, :a, s(:lasgn, :b, s(:lit, 1))), s(:call, s(:lvar, :a), :+, s(:lvar, :b)))"},
		{"def self.foo; end", "s(:defs, s(:self), :foo, s(:args), s(:nil))"},
		{"def foo(*a, k:, j: 2, **o, &b); end",
			"s(:defn, :foo, s(:args, :\"*a\", s(:kwarg, :k), s(:kwarg, :j, s(:lit, 2)), :\"**o\", :\"&b\"), s(:nil))"},
		{"def ==(other); end", "s(:defn, :==, s(:args, :other), s(:nil))"},
		{"def name=(v); end", "s(:defn, :name=, s(:args, :v), s(:nil))"},
		{"def foo a, b\nend", "s(:defn, :foo, s(:args, :a, :b), s(:nil))"},
		{"def sq(x) = x * x", "s(:defn, :sq, s(:args, :x), s(:call, s(:lvar, :x), :*, s(:lvar, :x)))"},
		{"def foo\n  a\n  b\nend", "s(:defn, :foo, s(:args), s(:call, nil, :a), s(:call, nil, :b))"},
		{"def foo\n  a\nrescue\n  b\nend",
			"s(:defn, :foo, s(:args), s(:rescue, s(:call, nil, :a), s(:resbody, s(:array), s(:call, nil, :b))))"},
		{"class Foo < Bar\n  def x; end\nend", "s(:class, :Foo, s(:const, :Bar), s(:defn, :x, s(:args), s(:nil)))"},
		{"class Foo; end", "s(:class, :Foo, nil)"},
		{"class A::B; end", "s(:class, s(:colon2, s(:const, :A), :B), nil)"},
		{"class << self\n  def x; end\nend", "s(:sclass, s(:self), s(:defn, :x, s(:args), s(:nil)))"},
		{"module A::B; end", "s(:module, s(:colon2, s(:const, :A), :B))"},
		{"module M\n  X = 1\nend", "s(:module, :M, s(:cdecl, :X, s(:lit, 1)))"},
		{"alias foo bar", "s(:alias, s(:lit, :foo), s(:lit, :bar))"},
		{"alias :foo :bar", "s(:alias, s(:lit, :foo), s(:lit, :bar))"},
		{"alias $a $b", "s(:valias, :$a, :$b)"},
		{"undef a", "s(:undef, s(:lit, :a))"},
		{"undef a, b", "s(:block, s(:undef, s(:lit, :a)), s(:undef, s(:lit, :b)))"},
	})
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		input  string
		reason diag.Reason
		line   int
		column int
	}{
		{`"abc`, diag.UnterminatedString, 1, 0},
		{")", diag.UnexpectedToken, 1, 0},
		{"foo(1 2)", diag.UnexpectedToken, 1, 6},
		{"1 +", diag.UnexpectedEnd, -1, -1},
		{"def foo", diag.UnexpectedEnd, -1, -1},
		{"if a\n  b", diag.UnexpectedEnd, -1, -1},
		{"case x\nend", diag.UnexpectedToken, 2, 0},
		{"end", diag.UnexpectedToken, 1, 0},
		{"1 = 2", diag.UnexpectedToken, 1, 2},
		{"x = 1 2", diag.UnexpectedToken, 1, 6},
	}

	for i, tt := range tests {
		_, err := Parse(tt.input, "test.rb")
		if err == nil {
			t.Fatalf("test[%d]: expected error for %q", i, tt.input)
		}
		var se *diag.SyntaxError
		if !errors.As(err, &se) {
			t.Fatalf("test[%d]: expected *diag.SyntaxError, got %T", i, err)
		}
		if se.Reason != tt.reason {
			t.Fatalf("test[%d]: %q: expected reason %s, got %s (%s)", i, tt.input, tt.reason, se.Reason, se.Message)
		}
		if tt.line >= 0 && (se.Line != tt.line || se.Column != tt.column) {
			t.Fatalf("test[%d]: %q: expected %d:%d, got %d:%d", i, tt.input, tt.line, tt.column, se.Line, se.Column)
		}
		if se.File != "test.rb" {
			t.Fatalf("test[%d]: expected file test.rb, got %q", i, se.File)
		}
	}
}

func TestSyntaxErrorMessages(t *testing.T) {
	tests := []struct {
		input    string
		file     string
		expected string
	}{
		{")", "test.rb", "test.rb#1: syntax error, unexpected ')' (expected: 'expression')"},
		{"foo(1", "", "(unknown)#1: syntax error, unexpected end-of-input (expected: ')')"},
		{"\n\nfoo bar baz)", "a.rb", "a.rb#3: syntax error, unexpected ')' (expected: 'end-of-line')"},
	}

	for i, tt := range tests {
		_, err := Parse(tt.input, tt.file)
		if err == nil {
			t.Fatalf("test[%d]: expected error", i)
		}
		if err.Error() != tt.expected {
			t.Fatalf("test[%d]: expected %q, got %q", i, tt.expected, err.Error())
		}
	}
}

func TestIncompleteInput(t *testing.T) {
	tests := []struct {
		input      string
		incomplete bool
	}{
		{"def foo", true},
		{"foo(1,", true},
		{"[1, 2", true},
		{`"abc`, true},
		{"if a", true},
		{")", false},
		{"1 2", false},
	}

	for i, tt := range tests {
		_, err := Parse(tt.input, "")
		if err == nil {
			t.Fatalf("test[%d]: expected error for %q", i, tt.input)
		}
		if got := diag.IsIncomplete(err); got != tt.incomplete {
			t.Fatalf("test[%d]: %q: expected incomplete=%t, got %t (%v)", i, tt.input, tt.incomplete, got, err)
		}
	}
}

func TestMaxDepth(t *testing.T) {
	_, err := Parse("((((1))))", "test.rb", WithMaxDepth(3))
	var se *diag.SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("expected *diag.SyntaxError, got %v", err)
	}
	if se.Reason != diag.NestingTooDeep {
		t.Fatalf("expected reason %s, got %s", diag.NestingTooDeep, se.Reason)
	}

	if _, err := Parse("((((1))))", "test.rb", WithMaxDepth(10)); err != nil {
		t.Fatalf("unexpected error with a larger bound: %v", err)
	}
	if _, err := Parse("((((1))))", "test.rb", WithMaxDepth(0)); err != nil {
		t.Fatalf("a non-positive bound must keep the default: %v", err)
	}
}

func TestTreeIsDeterministic(t *testing.T) {
	src := "class A\n  def b(c)\n    c.map { |x| x * 2 }\n  end\nend\n"
	p := New(src, "a.rb")
	first, err := p.Tree()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := p.Tree()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ast.String(first) != ast.String(second) {
		t.Fatalf("trees differ:\n%s\n%s", ast.String(first), ast.String(second))
	}
}

func TestPositions(t *testing.T) {
	program, err := Parse("x = 1\n  foo.bar(2)", "test.rb")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(program.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(program.Statements))
	}

	call, ok := program.Statements[1].(*ast.Call)
	if !ok {
		t.Fatalf("expected *ast.Call, got %T", program.Statements[1])
	}
	if call.Name != "bar" {
		t.Fatalf("expected call to bar, got %s", call.Name)
	}
	l := call.Sexp()
	if l.Line != 1 || l.Column != 2 {
		t.Fatalf("expected call at 1:2, got %d:%d", l.Line, l.Column)
	}
	if arg := call.Args[0].Sexp(); arg.Line != 1 || arg.Column != 10 {
		t.Fatalf("expected argument at 1:10, got %d:%d", arg.Line, arg.Column)
	}
}
