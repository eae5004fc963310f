package protocol

import (
	"encoding/json"
	"fmt"
	"strings"

	"snakearena/world"
)

// Direction 客户端的移动意图
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

var directionNames = [...]string{"none", "up", "down", "left", "right"}

func (d Direction) String() string {
	if d < DirNone || d > DirRight {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// Vector 屏幕坐标系下的单位方向（up 为 -Y）
func (d Direction) Vector() world.Vector2D {
	switch d {
	case DirUp:
		return world.Vec(0, -1)
	case DirDown:
		return world.Vec(0, 1)
	case DirLeft:
		return world.Vec(-1, 0)
	case DirRight:
		return world.Vec(1, 0)
	default:
		return world.Vector2D{}
	}
}

// ParseDirection 大小写不敏感
func ParseDirection(s string) (Direction, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range directionNames {
		if n == s {
			return Direction(i), true
		}
	}
	return DirNone, false
}

// CommandMessage 入站指令，例如 {"moving":"up"}
type CommandMessage struct {
	Moving string `json:"moving"`
}

// ParseCommand 解析一行指令；格式错误或未知方向返回错误
func ParseCommand(line string) (Direction, error) {
	var msg CommandMessage
	if err := json.Unmarshal([]byte(line), &msg); err != nil {
		return DirNone, fmt.Errorf("parse command: %w", err)
	}
	if msg.Moving == "" {
		return DirNone, fmt.Errorf("parse command: missing \"moving\" in %q", line)
	}
	d, ok := ParseDirection(msg.Moving)
	if !ok {
		return DirNone, fmt.Errorf("parse command: unknown direction %q", msg.Moving)
	}
	return d, nil
}

// EncodeCommand 客户端侧编码
func EncodeCommand(d Direction) []byte {
	b, _ := json.Marshal(CommandMessage{Moving: d.String()})
	return append(b, '\n')
}
