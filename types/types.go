package types

import (
	"time"
)

type BotData struct {
	StartTime time.Time
}
