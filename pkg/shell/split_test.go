package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLogical(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Segment
	}{
		{
			"single command",
			"echo hi",
			[]Segment{{"echo hi", ConnectorNone}},
		},
		{
			"and chain",
			"make build && make test",
			[]Segment{
				{"make build", ConnectorAnd},
				{"make test", ConnectorNone},
			},
		},
		{
			"or chain",
			"grep foo file.txt || echo not found",
			[]Segment{
				{"grep foo file.txt", ConnectorOr},
				{"echo not found", ConnectorNone},
			},
		},
		{
			"background connector",
			"sleep 5 & echo done",
			[]Segment{
				{"sleep 5", ConnectorBack},
				{"echo done", ConnectorNone},
			},
		},
		{
			"mixed connectors",
			"a && b || c & d",
			[]Segment{
				{"a", ConnectorAnd},
				{"b", ConnectorOr},
				{"c", ConnectorBack},
				{"d", ConnectorNone},
			},
		},
		{
			"operators inert inside double quotes",
			`echo "a && b"`,
			[]Segment{{`echo "a && b"`, ConnectorNone}},
		},
		{
			"operators inert inside single quotes",
			`echo 'a || b'`,
			[]Segment{{`echo 'a || b'`, ConnectorNone}},
		},
		{
			"trailing connector produces no dangling segment",
			"echo hi &&",
			[]Segment{{"echo hi", ConnectorNone}},
		},
		{
			"blank segments collapse",
			"  &&  echo hi  ",
			[]Segment{{"echo hi", ConnectorNone}},
		},
		{
			"pipe is not a logical operator",
			"echo a | echo b",
			[]Segment{{"echo a | echo b", ConnectorNone}},
		},
		{
			"empty input",
			"",
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitLogical(tt.input)
			if tt.expected == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSplitPipeline(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"single stage", "echo hi", []string{"echo hi"}},
		{"two stages", "echo hi | grep h", []string{"echo hi ", " grep h"}},
		{"three stages", "a | b | c", []string{"a ", " b ", " c"}},
		{"pipe inert inside double quotes", `echo "a | b"`, []string{`echo "a | b"`}},
		{"pipe inert inside single quotes", `echo 'a | b'`, []string{`echo 'a | b'`}},
		{"escaped pipe is literal", `echo a\|b`, []string{`echo a\|b`}},
		{"trailing pipe preserves empty stage", "echo hi |", []string{"echo hi ", ""}},
		{"leading pipe preserves empty stage", "| echo hi", []string{"", " echo hi"}},
		{"empty input yields single empty stage", "", []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitPipeline(tt.input))
		})
	}
}
