package machine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

// rule is a shorthand for concrete rules in tests.
func rule(state string, read rune, write rune, dir Direction, next string) Rule {
	return NewRule(RealState(state), RealSymbol(read), RealSymbol(write), dir, RealState(next))
}

// busyBeaver4 is the classical 4-state, 2-symbol busy beaver.
func busyBeaver4() []Rule {
	return []Rule{
		rule("a", '0', '1', Right, "b"),
		rule("a", '1', '1', Left, "b"),
		rule("b", '0', '1', Left, "a"),
		rule("b", '1', '0', Left, "c"),
		rule("c", '0', '1', Right, "H"),
		rule("c", '1', '1', Left, "d"),
		rule("d", '0', '1', Right, "d"),
		rule("d", '1', '0', Right, "a"),
	}
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	m := New(Config{})
	assert.Equal(t, DefaultInitialState, m.State())
	assert.Equal(t, 0, m.Steps())
	assert.Equal(t, rune(DefaultWhitespace), m.Whitespace())
	assert.Equal(t, DefaultHeadPosition, m.Tape().Head())
	assert.True(t, m.Tape().Empty())
	assert.ElementsMatch(t, DefaultEndStates(), m.EndStates())
	assert.Empty(t, m.BreakStates())
	assert.Empty(t, m.AllStates())
	assert.False(t, m.IsHalted())
}

func TestNew_Overrides(t *testing.T) {
	t.Parallel()

	m := New(Config{
		Tape:         ptr("1101"),
		HeadPosition: ptr(3),
		Rules:        busyBeaver4(),
		InitialState: ptr("a"),
		EndStates:    []string{"H"},
		Whitespace:   ptr('0'),
	})

	assert.Equal(t, "a", m.State())
	assert.Equal(t, 3, m.Tape().Head())
	assert.Equal(t, "1101", m.Tape().String())
	assert.Equal(t, '0', m.Whitespace())
	assert.Equal(t, []string{"H"}, m.EndStates())
	assert.Equal(t, []string{"H", "a", "b", "c", "d"}, m.AllStates())
	assert.Len(t, m.Rules(), 8)
}

func TestMachine_BusyBeaver(t *testing.T) {
	t.Parallel()

	m := New(Config{
		Rules:        busyBeaver4(),
		InitialState: ptr("a"),
		EndStates:    []string{"H"},
		Whitespace:   ptr('0'),
	})

	require.NoError(t, m.Run())
	assert.True(t, m.IsHalted())
	assert.Equal(t, "H", m.State())
	assert.Equal(t, 107, m.Steps())
	assert.Equal(t, map[rune]int{'1': 13}, m.Tape().SymbolCounts())

	// a halted machine ignores further steps
	require.NoError(t, m.Step())
	require.NoError(t, m.Run())
	assert.Equal(t, 107, m.Steps())
}

func TestMachine_NextRule(t *testing.T) {
	t.Parallel()

	t.Run("exact rules are deterministic", func(t *testing.T) {
		t.Parallel()
		m := New(Config{Rules: busyBeaver4(), InitialState: ptr("b"), Whitespace: ptr('0')})

		first, err := m.NextRule()
		require.NoError(t, err)
		second, err := m.NextRule()
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, rule("b", '0', '1', Left, "a"), first)
	})

	t.Run("exact match beats wildcard", func(t *testing.T) {
		t.Parallel()
		m := New(Config{
			Tape: ptr("x"),
			Rules: []Rule{
				NewRule(RealState("s"), WildcardSymbol, RealSymbol('w'), Right, RealState("s")),
				rule("s", 'x', 'e', Left, "t"),
			},
			InitialState: ptr("s"),
		})

		next, err := m.NextRule()
		require.NoError(t, err)
		assert.Equal(t, rule("s", 'x', 'e', Left, "t"), next)
	})

	t.Run("wildcard placeholders resolve against the read symbol", func(t *testing.T) {
		t.Parallel()
		m := New(Config{
			Tape: ptr("abc"),
			Rules: []Rule{
				NewRule(RealState("scan"), WildcardSymbol, WildcardSymbol, Right, WildcardState),
				rule("scan", '_', '_', Stay, "halt"),
			},
			InitialState: ptr("scan"),
		})

		for _, want := range "abc" {
			next, err := m.NextRule()
			require.NoError(t, err)
			assert.Equal(t, rule("scan", want, want, Right, "scan"), next)
			require.NoError(t, m.Step())
		}

		require.NoError(t, m.Run())
		assert.True(t, m.IsHalted())
		assert.Equal(t, "abc", m.Tape().String())
		assert.Equal(t, 4, m.Steps())
	})

	t.Run("wildcard action on exact trigger", func(t *testing.T) {
		t.Parallel()
		m := New(Config{
			Tape: ptr("1"),
			Rules: []Rule{
				NewRule(RealState("s"), RealSymbol('1'), WildcardSymbol, Left, WildcardState),
			},
			InitialState: ptr("s"),
		})

		next, err := m.NextRule()
		require.NoError(t, err)
		assert.Equal(t, rule("s", '1', '1', Left, "s"), next)
	})

	t.Run("missing rule", func(t *testing.T) {
		t.Parallel()
		m := New(Config{Rules: busyBeaver4(), InitialState: ptr("z")})

		_, err := m.NextRule()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrRuleNotFound)

		var notFound *RuleNotFoundError
		require.True(t, errors.As(err, &notFound))
		assert.Equal(t, "z", notFound.State)
		assert.Equal(t, '_', notFound.Symbol)
	})
}

func TestMachine_StepRuleNotFoundLeavesMachineUntouched(t *testing.T) {
	t.Parallel()

	m := New(Config{
		Tape:         ptr("ab"),
		Rules:        []Rule{rule("0", 'a', 'x', Right, "1")},
		InitialState: ptr("0"),
	})

	require.NoError(t, m.Step())
	err := m.Step()
	require.ErrorIs(t, err, ErrRuleNotFound)

	assert.Equal(t, "1", m.State())
	assert.Equal(t, 1, m.Steps())
	assert.Equal(t, 1, m.Tape().Head())
	assert.Equal(t, "xb", m.Tape().String())

	assert.ErrorIs(t, m.Run(), ErrRuleNotFound)
	assert.Equal(t, 1, m.Steps())
}

func TestMachine_LastDefinitionWins(t *testing.T) {
	t.Parallel()

	m := New(Config{
		Rules: []Rule{
			rule("0", '_', 'a', Right, "first"),
			rule("0", '_', 'b', Left, "second"),
		},
	})

	assert.Len(t, m.Rules(), 1)

	next, err := m.NextRule()
	require.NoError(t, err)
	assert.Equal(t, rule("0", '_', 'b', Left, "second"), next)
	assert.Equal(t, []string{"0", "first", "second"}, m.AllStates())
}

func TestMachine_BreakStates(t *testing.T) {
	t.Parallel()

	// walks right through s0 -> s1 -> s2 -> s3 -> halt
	rules := []Rule{
		rule("s0", '_', '1', Right, "s1"),
		rule("s1", '_', '1', Right, "s2"),
		rule("s2", '_', '1', Right, "s3"),
		rule("s3", '_', '1', Right, "halt"),
	}

	t.Run("run pauses after reaching a break state", func(t *testing.T) {
		t.Parallel()
		m := New(Config{Rules: rules, InitialState: ptr("s0")})
		m.AddBreakStates("s2")

		require.NoError(t, m.Run())
		assert.Equal(t, "s2", m.State())
		assert.Equal(t, 2, m.Steps())
		assert.True(t, m.IsInterrupted())
		assert.False(t, m.IsHalted())
	})

	t.Run("run at a break state still steps once", func(t *testing.T) {
		t.Parallel()
		m := New(Config{Rules: rules, InitialState: ptr("s0")})
		m.AddBreakStates("s0", "s1", "s2", "s3")
		require.True(t, m.IsInterrupted())

		require.NoError(t, m.Run())
		assert.Equal(t, 1, m.Steps())
		assert.Equal(t, "s1", m.State())

		require.NoError(t, m.Run())
		assert.Equal(t, 2, m.Steps())
	})

	t.Run("step ignores break states", func(t *testing.T) {
		t.Parallel()
		m := New(Config{Rules: rules, InitialState: ptr("s0")})
		m.AddBreakStates("s1")

		require.NoError(t, m.Step())
		require.NoError(t, m.Step())
		assert.Equal(t, "s2", m.State())
	})

	t.Run("remove and clear", func(t *testing.T) {
		t.Parallel()
		m := New(Config{Rules: rules, InitialState: ptr("s0")})
		m.AddBreakStates("s1", "s2", "s3")
		m.RemoveBreakStates("s2", "unknown")
		assert.Equal(t, []string{"s1", "s3"}, m.BreakStates())

		m.ClearBreakStates()
		assert.Empty(t, m.BreakStates())

		require.NoError(t, m.Run())
		assert.True(t, m.IsHalted())
		assert.Equal(t, 4, m.Steps())
	})
}

func TestSymbolAndStateSentinels(t *testing.T) {
	t.Parallel()

	assert.NotEqual(t, WildcardSymbol, RealSymbol('*'))
	assert.NotEqual(t, WildcardSymbol, RealSymbol(0))
	assert.NotEqual(t, WildcardState, RealState(""))
	assert.NotEqual(t, WildcardState, RealState("*"))

	table := map[Trigger]int{
		{State: RealState("a"), Symbol: RealSymbol('*')}: 1,
		{State: RealState("a"), Symbol: WildcardSymbol}:   2,
	}
	assert.Len(t, table, 2)
}

func TestParseDirection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Direction
		ok   bool
	}{
		{"l", Left, true},
		{"L", Left, true},
		{"r", Right, true},
		{"R", Right, true},
		{"*", Stay, true},
		{"left", Stay, false},
		{"", Stay, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDirection(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, []string{"l", "*", "r"}, DirectionNames())
	assert.Equal(t, -1, Left.Offset())
	assert.Equal(t, 0, Stay.Offset())
	assert.Equal(t, 1, Right.Offset())
}
