package arguments

import (
	"fmt"
	"strings"
)

// Slot declares one positional argument of a command.
type Slot struct {
	Key      string
	Type     string
	Optional bool
	// CatchAll collects every remaining token into a list. Only the last
	// slot may be a catch-all, and it cannot be optional.
	CatchAll bool
}

// ValidateSlots checks the ordering rules of a slot list. It runs once, when
// the owning command is built.
func ValidateSlots(slots []Slot) error {
	seen := make(map[string]struct{}, len(slots))
	optionalSeen := false

	for i, slot := range slots {
		if slot.Key == "" {
			return fmt.Errorf("slot %d: empty key", i)
		}
		if _, ok := seen[slot.Key]; ok {
			return fmt.Errorf("slot %q: duplicate key", slot.Key)
		}
		seen[slot.Key] = struct{}{}

		if slot.Type == "" {
			return fmt.Errorf("slot %q: empty type", slot.Key)
		}

		if slot.CatchAll {
			if slot.Optional {
				return fmt.Errorf("slot %q: catch-all slot cannot be optional", slot.Key)
			}
			if i != len(slots)-1 {
				return fmt.Errorf("slot %q: catch-all slot must be last", slot.Key)
			}
			continue
		}

		if slot.Optional {
			optionalSeen = true
		} else if optionalSeen {
			return fmt.Errorf("slot %q: required slot follows an optional slot", slot.Key)
		}
	}

	return nil
}

// Usage renders slots the way help output shows them: <required>, [optional],
// and a trailing ... on the catch-all.
func Usage(slots []Slot) string {
	parts := make([]string, 0, len(slots))
	for _, slot := range slots {
		name := slot.Key
		if slot.CatchAll {
			name += "..."
		}
		if slot.Optional {
			parts = append(parts, "["+name+"]")
		} else {
			parts = append(parts, "<"+name+">")
		}
	}
	return strings.Join(parts, " ")
}

// CatchAllSlot returns the trailing catch-all slot, if any.
func CatchAllSlot(slots []Slot) (Slot, bool) {
	if len(slots) == 0 || !slots[len(slots)-1].CatchAll {
		return Slot{}, false
	}
	return slots[len(slots)-1], true
}
