package common

import (
	"io/fs"
	"strings"
)

const (
	AppName        = "ipsprint"
	DataDirName    = ".ipsprint"
	LogFileName    = "ipsprint.log"
	EnvPrefix      = "IPSPRINT_"
	DefaultAPIKind = "GameConfig"
)

// Log field keys, in the order the console formatter prints them.
const (
	SessionID     = "Session"
	UserName      = "User"
	LevelName     = "Level"
	ModeName      = "Mode"
	GeneratorName = "Generator"
	StoreDriver   = "Store"
)

const (
	// FileMode0755 represents rwxr-xr-x
	FileMode0755 fs.FileMode = 0755
	// FileMode0644 represents rw-r--r--
	FileMode0644 fs.FileMode = 0644
	// FileMode0600 represents rw-------
	FileMode0600 fs.FileMode = 0600
)

// Level is a difficulty tier. Each tier owns its own pool of question generators.
type Level string

const (
	LevelEntry        Level = "Entry"
	LevelAssociate    Level = "Associate"
	LevelProfessional Level = "Professional"
)

// Levels lists every tier in unlock order.
var Levels = []Level{LevelEntry, LevelAssociate, LevelProfessional}

// ParseLevel matches s against the known tiers, ignoring case.
func ParseLevel(s string) (Level, bool) {
	for _, l := range Levels {
		if strings.EqualFold(strings.TrimSpace(s), string(l)) {
			return l, true
		}
	}
	return "", false
}

// Next returns the tier unlocked after l, or false for the last tier.
func (l Level) Next() (Level, bool) {
	for i, cur := range Levels {
		if cur == l && i+1 < len(Levels) {
			return Levels[i+1], true
		}
	}
	return "", false
}

func (l Level) String() string {
	return string(l)
}

// Mode is the way a round is played.
type Mode string

const (
	// ModeStandard is a fixed-length round.
	ModeStandard Mode = "standard"
	// ModeMastery ends at the first wrong answer. Only offered on Entry.
	ModeMastery Mode = "mastery"
)

func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeStandard:
		return ModeStandard, true
	case ModeMastery:
		return ModeMastery, true
	}
	return "", false
}

func (m Mode) String() string {
	return string(m)
}

// RoundState tracks where a round is in its lifecycle.
type RoundState int

const (
	StateIdle     RoundState = iota // 0
	StateAsking                     // 1
	StateAnswered                   // 2
	StateFinished                   // 3
)

func (s RoundState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateAsking:
		return "Asking"
	case StateAnswered:
		return "Answered"
	case StateFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}
