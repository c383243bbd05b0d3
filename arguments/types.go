package arguments

import (
	"context"
	"regexp"
	"strconv"

	"github.com/disgoorg/snowflake/v2"

	"github.com/goland-express/obey/message"
)

const (
	TypeString      = "string"
	TypeNumber      = "number"
	TypeInteger     = "integer"
	TypeUser        = "user"
	TypeTextChannel = "text-channel"
)

const maxSafeInteger = 1<<53 - 1

var (
	numberPattern  = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)
	integerPattern = regexp.MustCompile(`^[+-]?\d+$`)
	userPattern    = regexp.MustCompile(`^(?:<@!?(\d+)>|(\d+))$`)
)

func parseString(_ context.Context, raw, _ string, _ message.Message) (any, error) {
	return raw, nil
}

func parseNumber(_ context.Context, raw, key string, _ message.Message) (any, error) {
	if !numberPattern.MatchString(raw) {
		return nil, wrongType(raw, key, TypeNumber)
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, wrongType(raw, key, TypeNumber)
	}
	return value, nil
}

func parseInteger(_ context.Context, raw, key string, _ message.Message) (any, error) {
	if !integerPattern.MatchString(raw) {
		return nil, wrongType(raw, key, TypeInteger)
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value > maxSafeInteger || value < -maxSafeInteger {
		return nil, wrongType(raw, key, TypeInteger)
	}
	return value, nil
}

// parseUser accepts a user mention or a bare ID and yields its snowflake.
// No lookup is made.
func parseUser(_ context.Context, raw, key string, _ message.Message) (any, error) {
	m := userPattern.FindStringSubmatch(raw)
	if m == nil {
		return nil, wrongType(raw, key, TypeUser)
	}
	id := m[1]
	if id == "" {
		id = m[2]
	}
	parsed, err := snowflake.Parse(id)
	if err != nil {
		return nil, wrongType(raw, key, TypeUser)
	}
	return parsed, nil
}
