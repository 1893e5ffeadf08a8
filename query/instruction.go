package query

import (
	"github.com/gnolang/surgeon/token"
)

type op int

const (
	opJump op = iota
	opForward
	opBackward
	opSeekForward
	opSeekBackward
	opRemember
	opRestore
	opRememberResult
	opRestoreResult
	opFilter
	opCrop
	opCut
	opSplice
	opInsert
	opReplace
)

var opNames = [...]string{
	opJump:           "jump",
	opForward:        "forward",
	opBackward:       "backward",
	opSeekForward:    "seek-forward",
	opSeekBackward:   "seek-backward",
	opRemember:       "remember",
	opRestore:        "restore",
	opRememberResult: "remember-result",
	opRestoreResult:  "restore-result",
	opFilter:         "filter",
	opCrop:           "crop",
	opCut:            "cut",
	opSplice:         "splice",
	opInsert:         "insert",
	opReplace:        "replace",
}

func (o op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "unknown"
}

// navigational ops loop internally until a hit or a refused step.
func (o op) navigational() bool {
	switch o {
	case opForward, opBackward, opSeekForward, opSeekBackward:
		return true
	default:
		return false
	}
}

func (o op) direction() int {
	switch o {
	case opForward, opSeekForward:
		return 1
	case opBackward, opSeekBackward:
		return -1
	default:
		return 0
	}
}

// instruction is a queued unit of work. Once queued it is never modified.
type instruction struct {
	op      op
	targets []token.Kind
	alias   string
	from    Bound
	to      Bound
	content []token.Token
	match   token.Kind
	replace string
	groups  []group
}
