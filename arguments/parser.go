// Package arguments turns the tokens following a command name into typed
// values according to the command's slot list.
package arguments

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/goland-express/obey/message"
)

// TypeParser converts one raw token into a typed value. Failures should be an
// Error so the dispatcher can report them as invalid arguments; any other
// error is treated as an internal failure.
type TypeParser func(ctx context.Context, raw, key string, msg message.Message) (any, error)

// Parser holds the registered type parsers. Types are registered during
// startup; Parse is safe for concurrent use once registration is done.
type Parser struct {
	types map[string]TypeParser
}

// NewParser returns a parser with the builtin types registered.
func NewParser() *Parser {
	p := &Parser{types: make(map[string]TypeParser)}
	p.Register(TypeString, parseString)
	p.Register(TypeNumber, parseNumber)
	p.Register(TypeInteger, parseInteger)
	p.Register(TypeUser, parseUser)
	p.Register(TypeTextChannel, parseTextChannel)
	return p
}

func (p *Parser) Register(name string, fn TypeParser) {
	p.types[name] = fn
}

func (p *Parser) Has(name string) bool {
	_, ok := p.types[name]
	return ok
}

// Types lists the registered type names, sorted.
func (p *Parser) Types() []string {
	return slices.Sorted(maps.Keys(p.types))
}

// Check reports the first slot whose type is not registered.
func (p *Parser) Check(slots []Slot) error {
	for _, slot := range slots {
		if !p.Has(slot.Type) {
			return &UnknownTypeError{Key: slot.Key, Type: slot.Type}
		}
	}
	return nil
}

// Parse maps values onto slots. Values are parsed in order and the first
// failure is returned.
func (p *Parser) Parse(ctx context.Context, slots []Slot, values []string, msg message.Message) (Args, error) {
	if len(slots) == 0 {
		if len(values) == 0 {
			return Args{}, nil
		}
		return nil, &ExtraArgumentsError{MaxArgs: 0}
	}

	var required []Slot
	for _, slot := range slots {
		if !slot.Optional && !slot.CatchAll {
			required = append(required, slot)
		}
	}
	if len(values) < len(required) {
		missing := make([]string, 0, len(required)-len(values))
		for _, slot := range required[len(values):] {
			missing = append(missing, slot.Key)
		}
		return nil, &MissingArgumentsError{Keys: missing}
	}

	catchAll, hasCatchAll := CatchAllSlot(slots)
	collected := make([]any, 0)
	args := make(Args, len(slots))

	for i, raw := range values {
		var slot Slot
		switch {
		case i < len(slots):
			slot = slots[i]
		case hasCatchAll:
			slot = catchAll
		default:
			return nil, &ExtraArgumentsError{MaxArgs: len(slots)}
		}

		fn, ok := p.types[slot.Type]
		if !ok {
			return nil, &UnknownTypeError{Key: slot.Key, Type: slot.Type}
		}

		value, err := fn(ctx, raw, slot.Key, msg)
		if err != nil {
			return nil, err
		}

		if slot.CatchAll {
			collected = append(collected, value)
		} else {
			args[slot.Key] = value
		}
	}

	if hasCatchAll {
		args[catchAll.Key] = collected
	}

	return args, nil
}

// Args holds parsed values by slot key. A catch-all slot holds a []any.
type Args map[string]any

func (a Args) Has(key string) bool {
	_, ok := a[key]
	return ok
}

func (a Args) String(key string) (string, bool) {
	v, ok := a[key].(string)
	return v, ok
}

func (a Args) Int(key string) (int64, bool) {
	v, ok := a[key].(int64)
	return v, ok
}

func (a Args) List(key string) []any {
	v, _ := a[key].([]any)
	return v
}

// Strings returns a catch-all list as strings, formatting non-string values.
func (a Args) Strings(key string) []string {
	list := a.List(key)
	out := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
			continue
		}
		out = append(out, fmt.Sprint(v))
	}
	return out
}
