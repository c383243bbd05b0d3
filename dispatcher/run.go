package dispatcher

import (
	"strings"

	"github.com/disgoorg/snowflake/v2"

	"github.com/goland-express/obey/arguments"
	"github.com/goland-express/obey/message"
	"github.com/goland-express/obey/registry"
)

type Stage int

const (
	StageIdle Stage = iota
	StagePrefixChecked
	StageTokenized
	StageResolved
	StageGuarded
	StageArgsParsed
	StageInvoked
	StageDone
)

var stageNames = [...]string{
	StageIdle:          "idle",
	StagePrefixChecked: "prefix-checked",
	StageTokenized:     "tokenized",
	StageResolved:      "resolved",
	StageGuarded:       "guarded",
	StageArgsParsed:    "args-parsed",
	StageInvoked:       "invoked",
	StageDone:          "done",
}

func (s Stage) String() string {
	if s >= 0 && int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "unknown"
}

// run is the state of one dispatch. It is never shared between messages.
type run struct {
	stage    Stage
	msg      message.Message
	guildID  *snowflake.ID
	prefix   string
	text     string
	tokens   []string
	command  *registry.Command
	consumed int
	args     arguments.Args
}

func (r *run) tokenize() {
	r.tokens = strings.Fields(r.text)
	r.stage = StageTokenized
}
