// Package prefix holds the global command prefix and per-guild overrides.
package prefix

import (
	"errors"
	"strings"
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

var ErrEmptyPrefix = errors.New("prefix must not be empty")

type Table struct {
	global string
	guilds map[snowflake.ID]string
	mu     sync.RWMutex
}

func New(global string) (*Table, error) {
	if strings.TrimSpace(global) == "" {
		return nil, ErrEmptyPrefix
	}
	return &Table{
		global: global,
		guilds: make(map[snowflake.ID]string),
	}, nil
}

func (t *Table) Global() string {
	return t.global
}

// Guild returns the override for guildID, if one is set.
func (t *Table) Guild(guildID snowflake.ID) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.guilds[guildID]
	return p, ok
}

func (t *Table) Set(guildID snowflake.ID, prefix string) error {
	if strings.TrimSpace(prefix) == "" {
		return ErrEmptyPrefix
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.guilds[guildID] = prefix
	return nil
}

func (t *Table) Reset(guildID snowflake.ID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.guilds, guildID)
}

// For returns the prefix that applies to a message from guildID, or the
// global prefix outside guilds.
func (t *Table) For(guildID *snowflake.ID) string {
	if guildID == nil {
		return t.global
	}
	if p, ok := t.Guild(*guildID); ok {
		return p
	}
	return t.global
}
