package rules

import (
	"errors"
	"fmt"
	"sort"

	"github.com/logrusorgru/aurora"
)

var (
	//ErrInvalidRuleTable is returned (wrapped by TableError) when a rule table fails validation
	ErrInvalidRuleTable = errors.New("invalid rule table")
	//ErrUndefinedState is returned when a state has no rule
	ErrUndefinedState = errors.New("undefined state")
)

//State is a cell state interned to a small integer when the table is built
//the default state is always 0
type State int

//Turn is the direction the ant turns on leaving a cell
type Turn int

const (
	Left Turn = iota
	Right
)

func (t Turn) String() string {
	switch t {
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("Turn(%d)", int(t))
}

//ParseTurn parses the rule file representation of a turn
func ParseTurn(s string) (Turn, error) {
	switch s {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return 0, fmt.Errorf("unknown turn %q, expected \"left\" or \"right\"", s)
}

//Rule is the transition applied when the ant stands on a cell of some state
type Rule struct {
	Turn   Turn
	Flip   State
	Symbol string
	Color  aurora.Color
}

//Definition is a rule as written in a rule file, states are referenced by name
type Definition struct {
	Turn   string `json:"turn"`
	Flip   string `json:"flip"`
	Symbol string `json:"symbol"`
	Color  string `json:"color,omitempty"`
}

//TableError describes a rule table validation failure
type TableError struct {
	Key    string //the offending key, empty when the whole document is broken
	Reason string
}

func (e *TableError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%v: %s", ErrInvalidRuleTable, e.Reason)
	}
	return fmt.Sprintf("%v: key %q: %s", ErrInvalidRuleTable, e.Key, e.Reason)
}

func (e *TableError) Unwrap() error {
	return ErrInvalidRuleTable
}

//Table is a validated, immutable rule table
type Table struct {
	names []string
	index map[string]State
	rules []Rule
}

//New validates the definitions and builds the table
//every flip target and the default must have a rule, so a built table can never reach an undefined state
func New(defaultName string, defs map[string]Definition) (*Table, error) {
	if defaultName == "" {
		return nil, &TableError{Key: defaultKey, Reason: "default state is not set"}
	}
	if _, ok := defs[defaultName]; !ok {
		return nil, &TableError{Key: defaultKey, Reason: fmt.Sprintf("default state %q has no rule", defaultName)}
	}

	names := make([]string, 0, len(defs))
	for name := range defs {
		if name != defaultName {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	names = append([]string{defaultName}, names...)

	t := &Table{
		names: names,
		index: make(map[string]State, len(names)),
		rules: make([]Rule, len(names)),
	}
	for i, name := range names {
		t.index[name] = State(i)
	}

	for i, name := range names {
		d := defs[name]
		turn, err := ParseTurn(d.Turn)
		if err != nil {
			return nil, &TableError{Key: name, Reason: err.Error()}
		}
		flip, ok := t.index[d.Flip]
		if !ok {
			return nil, &TableError{Key: name, Reason: fmt.Sprintf("flip target %q has no rule", d.Flip)}
		}
		if d.Symbol == "" {
			return nil, &TableError{Key: name, Reason: "symbol is empty"}
		}
		color, err := ParseColor(d.Color)
		if err != nil {
			return nil, &TableError{Key: name, Reason: err.Error()}
		}
		t.rules[i] = Rule{Turn: turn, Flip: flip, Symbol: d.Symbol, Color: color}
	}
	return t, nil
}

//Lookup returns the rule for the state
func (t *Table) Lookup(s State) (Rule, error) {
	if s < 0 || int(s) >= len(t.rules) {
		return Rule{}, fmt.Errorf("%w: %d", ErrUndefinedState, int(s))
	}
	return t.rules[s], nil
}

//LookupName returns the rule for the state with the rule file name
func (t *Table) LookupName(name string) (Rule, error) {
	s, ok := t.index[name]
	if !ok {
		return Rule{}, fmt.Errorf("%w: %q", ErrUndefinedState, name)
	}
	return t.rules[s], nil
}

//State returns the interned state for the rule file name
func (t *Table) State(name string) (State, bool) {
	s, ok := t.index[name]
	return s, ok
}

//Name returns the rule file name of the state
func (t *Table) Name(s State) string {
	if s < 0 || int(s) >= len(t.names) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return t.names[s]
}

//Names returns the state names ordered by state, the default first
func (t *Table) Names() []string {
	return append([]string(nil), t.names...)
}

func (t *Table) Default() State {
	return 0
}

//Len returns the number of states
func (t *Table) Len() int {
	return len(t.rules)
}
