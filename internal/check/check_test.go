package check

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

// spy records how it was invoked. The type parameter of the algebra does
// not matter for combinator semantics, so these tests use int.
type spy struct {
	result      bool
	calls       int
	silentCalls int
	attrs       []string
}

func (s *spy) Evaluate(v int, silent bool) bool {
	s.calls++
	if silent {
		s.silentCalls++
	}
	return s.result
}

func (s *spy) AttributeNames() []string { return s.attrs }

func TestAndShortCircuits(t *testing.T) {
	a := &spy{result: false}
	b := &spy{result: true}

	assert.False(t, And[int](a, b).Evaluate(0, false))
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 0, b.calls, "And must not evaluate past the first failure")
}

func TestAndAllPass(t *testing.T) {
	a := &spy{result: true}
	b := &spy{result: true}

	assert.True(t, And[int](a, b).Evaluate(0, false))
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
}

func TestOrShortCircuits(t *testing.T) {
	a := &spy{result: true}
	b := &spy{result: false}

	assert.True(t, Or[int](a, b).Evaluate(0, false))
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 0, b.calls, "Or must not evaluate past the first success")
}

func TestOrAllFail(t *testing.T) {
	a := &spy{result: false}
	b := &spy{result: false}

	assert.False(t, Or[int](a, b).Evaluate(0, false))
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
}

func TestNot(t *testing.T) {
	assert.False(t, Not[int](&spy{result: true}).Evaluate(0, false))
	assert.True(t, Not[int](&spy{result: false}).Evaluate(0, false))
}

func TestNotForwardsAttributeNames(t *testing.T) {
	inner := &spy{attrs: []string{"check-tab"}}
	assert.Equal(t, []string{"check-tab"}, Not[int](inner).AttributeNames())
}

func TestAllOfNeverShortCircuits(t *testing.T) {
	children := []*spy{{result: false}, {result: true}, {result: false}}
	all := AllOf[int](children[0], children[1], children[2])

	assert.False(t, all.Evaluate(0, false))
	for i, c := range children {
		assert.Equalf(t, 1, c.calls, "child %d must be evaluated despite earlier failures", i)
	}
}

func TestAllOfEmptyPasses(t *testing.T) {
	assert.True(t, AllOf[int]().Evaluate(0, false))
}

func TestIfThenLaw(t *testing.T) {
	tests := []struct {
		name string
		cond bool
		then bool
		want bool
	}{
		{"condition false, consequence false", false, false, true},
		{"condition false, consequence true", false, true, true},
		{"condition true, consequence false", true, false, false},
		{"condition true, consequence true", true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond := &spy{result: tt.cond}
			then := &spy{result: tt.then}
			got := IfThen[int](cond, then).Evaluate(0, false)
			assert.Equal(t, tt.want, got)
			if !tt.cond {
				assert.Equal(t, 0, then.calls, "consequence must not run when the gate fails")
			}
		})
	}
}

func TestIfThenConditionAlwaysSilent(t *testing.T) {
	cond := &spy{result: true}
	then := &spy{result: false}

	IfThen[int](cond, then).Evaluate(0, false)
	assert.Equal(t, 1, cond.silentCalls, "condition must be evaluated silently")
	assert.Equal(t, 0, then.silentCalls, "consequence inherits the caller's silence flag")

	cond2 := &spy{result: false}
	IfThen[int](cond2, then).Evaluate(0, false)
	assert.Equal(t, 1, cond2.silentCalls)
}

func TestCompoundAttributeNames(t *testing.T) {
	a := &spy{attrs: []string{"check-tab"}}
	b := &spy{attrs: []string{"check-cr", "mime-type"}}

	assert.Equal(t, []string{"check-tab", "check-cr", "mime-type"}, And[int](a, b).AttributeNames())
	assert.Equal(t, []string{"check-tab", "check-cr", "mime-type"}, IfThen[int](a, b).AttributeNames())
}

func TestWriterReporter(t *testing.T) {
	var buf bytes.Buffer
	rep := NewWriterReporter(&buf, nil)
	rep.Warning("Tab(s) in a.go")
	rep.Warning("Tab(s) in b.go")
	assert.Equal(t, "Tab(s) in a.go\nTab(s) in b.go\n", buf.String())
}
