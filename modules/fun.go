package modules

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/goland-express/obey/arguments"
	"github.com/goland-express/obey/registry"
	"github.com/goland-express/obey/utils"
)

const (
	defaultSides = 6
	maxSides     = 1000
	maxDice      = 20
)

type FunModule struct {
	// Roll returns a value in [1, sides]. Defaults to math/rand.
	Roll func(sides int64) int64
}

func (m *FunModule) Name() string {
	return "Fun"
}

func (m *FunModule) Commands() []registry.Declaration {
	return []registry.Declaration{
		{
			Name:        "roll",
			Alias:       "dice",
			Description: "Rolls dice",
			Args: []arguments.Slot{
				{Key: "sides", Type: arguments.TypeInteger, Optional: true},
				{Key: "count", Type: arguments.TypeInteger, Optional: true},
			},
			Execute: m.executeRoll,
		},
	}
}

func (m *FunModule) executeRoll(ctx *registry.Context) error {
	sides, ok := ctx.Args().Int("sides")
	if !ok {
		sides = defaultSides
	}
	count, ok := ctx.Args().Int("count")
	if !ok {
		count = 1
	}

	if sides < 2 || sides > maxSides {
		return utils.UserErrorf("A die needs between 2 and %d sides.", maxSides)
	}
	if count < 1 || count > maxDice {
		return utils.UserErrorf("You can roll between 1 and %d dice.", maxDice)
	}

	roll := m.Roll
	if roll == nil {
		roll = func(n int64) int64 { return rand.Int64N(n) + 1 }
	}

	var (
		total   int64
		results = make([]string, 0, count)
	)
	for range count {
		v := roll(sides)
		total += v
		results = append(results, fmt.Sprint(v))
	}

	if count == 1 {
		return ctx.Reply(fmt.Sprintf("🎲 %d", total))
	}
	return ctx.Reply(fmt.Sprintf("🎲 %s = **%d**", strings.Join(results, " + "), total))
}
