package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"snakearena/world"
)

// ErrUnknownEntity 行内不含 wall / power / snake 任一标识字段
var ErrUnknownEntity = errors.New("unknown entity")

// Kind 实体种类
type Kind int

const (
	KindNone Kind = iota
	KindWall
	KindPower
	KindSnake
)

// Entity 解码结果，按 Kind 只有一个字段非空
type Entity struct {
	Kind  Kind
	Wall  *world.Wall
	Power *world.Power
	Snake *world.Snake
}

// AppendWall 追加一行墙的 JSON
func AppendWall(dst []byte, w *world.Wall) []byte {
	return appendLine(dst, w)
}

// AppendPower 追加一行道具的 JSON
func AppendPower(dst []byte, p *world.Power) []byte {
	return appendLine(dst, p)
}

// AppendSnake 追加一行蛇的 JSON
func AppendSnake(dst []byte, s *world.Snake) []byte {
	return appendLine(dst, s)
}

func appendLine(dst []byte, v any) []byte {
	// 实体只含数值、字符串与切片，Marshal 不会失败
	b, _ := json.Marshal(v)
	dst = append(dst, b...)
	return append(dst, '\n')
}

// EncodeHandshake 服务端握手：先 id，再世界大小，各占一行
func EncodeHandshake(id, size int) []byte {
	return []byte(strconv.Itoa(id) + "\n" + strconv.Itoa(size) + "\n")
}

// ParseHandshake 客户端侧解析握手的两行
func ParseHandshake(idLine, sizeLine string) (id, size int, err error) {
	if id, err = strconv.Atoi(strings.TrimSpace(idLine)); err != nil {
		return 0, 0, fmt.Errorf("handshake id: %w", err)
	}
	if size, err = strconv.Atoi(strings.TrimSpace(sizeLine)); err != nil {
		return 0, 0, fmt.Errorf("handshake size: %w", err)
	}
	return id, size, nil
}

// Decode 解析一行实体 JSON，按标识字段区分种类
func Decode(line string) (Entity, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(line), &probe); err != nil {
		return Entity{}, fmt.Errorf("decode entity: %w", err)
	}
	switch {
	case probe["snake"] != nil:
		var s world.Snake
		if err := json.Unmarshal([]byte(line), &s); err != nil {
			return Entity{}, fmt.Errorf("decode snake: %w", err)
		}
		return Entity{Kind: KindSnake, Snake: &s}, nil
	case probe["wall"] != nil:
		var w world.Wall
		if err := json.Unmarshal([]byte(line), &w); err != nil {
			return Entity{}, fmt.Errorf("decode wall: %w", err)
		}
		return Entity{Kind: KindWall, Wall: &w}, nil
	case probe["power"] != nil:
		var p world.Power
		if err := json.Unmarshal([]byte(line), &p); err != nil {
			return Entity{}, fmt.Errorf("decode power: %w", err)
		}
		return Entity{Kind: KindPower, Power: &p}, nil
	default:
		return Entity{}, fmt.Errorf("decode %q: %w", line, ErrUnknownEntity)
	}
}
