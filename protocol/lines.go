// Package protocol 实现文本线协议：按 '\n' 分帧的 JSON 行，以及握手与指令的编解码。
package protocol

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

const (
	// MaxLineBytes 单行上限；缓冲中积压超过该长度仍无换行视为协议滥用
	MaxLineBytes = 64 * 1024
	// MaxNameRunes 玩家名最大长度
	MaxNameRunes = 16
	// DefaultName 空名字的替代
	DefaultName = "player"
)

// SplitLines 从流式缓冲中取出所有完整行（不含 '\n' 与行尾 '\r'），
// 返回已消费的字节数；末尾不完整的片段留在缓冲中等待下一次读取。
// 空行也会原样返回：握手时空行就是空名字。
func SplitLines(data []byte) (lines []string, consumed int) {
	for {
		i := bytes.IndexByte(data[consumed:], '\n')
		if i < 0 {
			return lines, consumed
		}
		line := data[consumed : consumed+i]
		consumed += i + 1
		line = bytes.TrimSuffix(line, []byte{'\r'})
		lines = append(lines, string(line))
	}
}

// CleanName 规范化握手行中的玩家名
func CleanName(line string) string {
	name := strings.TrimSpace(line)
	if name == "" {
		return DefaultName
	}
	if utf8.RuneCountInString(name) > MaxNameRunes {
		name = string([]rune(name)[:MaxNameRunes])
	}
	return name
}
