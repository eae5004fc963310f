// Package config 负责服务端配置：settings.xml、.env / 环境变量与校验。
package config

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"snakearena/world"
)

// ErrInvalid 配置值不合法
var ErrInvalid = errors.New("invalid settings")

// Settings 服务端全部可配置项
type Settings struct {
	MSPerFrame   int
	RespawnRate  int
	UniverseSize int
	Walls        []world.Wall

	Addr           string // 游戏 TCP 监听地址
	HTTPAddr       string // admin / metrics / WebSocket，空字符串表示关闭
	LogFile        string
	Debug          bool
	WallsEveryTick bool // false 时墙只在握手后发送一次
}

// Default 默认配置
func Default() Settings {
	return Settings{
		MSPerFrame:     34,
		RespawnRate:    300,
		UniverseSize:   2000,
		Addr:           ":11000",
		HTTPAddr:       ":8080",
		LogFile:        "app.log",
		WallsEveryTick: true,
	}
}

type xmlPoint struct {
	X float64 `xml:"x"`
	Y float64 `xml:"y"`
}

type xmlWall struct {
	ID    *int     `xml:"ID"`
	Alias *int     `xml:"wall"`
	P1    xmlPoint `xml:"p1"`
	P2    xmlPoint `xml:"p2"`
}

type xmlSettings struct {
	XMLName      xml.Name  `xml:"GameSettings"`
	MSPerFrame   *int      `xml:"MSPerFrame"`
	RespawnRate  *int      `xml:"RespawnRate"`
	UniverseSize *int      `xml:"UniverseSize"`
	Walls        []xmlWall `xml:"Walls>Wall"`
}

// Load 读取 settings.xml；path 为空时返回默认配置。
// 文件中缺省的字段保留默认值；没有 ID 的墙按出现顺序编号。
func Load(path string) (Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err := s.parse(data); err != nil {
		return s, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return s, nil
}

func (s *Settings) parse(data []byte) error {
	var x xmlSettings
	if err := xml.Unmarshal(data, &x); err != nil {
		return err
	}
	if x.MSPerFrame != nil {
		s.MSPerFrame = *x.MSPerFrame
	}
	if x.RespawnRate != nil {
		s.RespawnRate = *x.RespawnRate
	}
	if x.UniverseSize != nil {
		s.UniverseSize = *x.UniverseSize
	}
	s.Walls = s.Walls[:0]
	for i, w := range x.Walls {
		id := i
		switch {
		case w.ID != nil:
			id = *w.ID
		case w.Alias != nil:
			id = *w.Alias
		}
		s.Walls = append(s.Walls, world.Wall{
			ID: id,
			P1: world.Vec(w.P1.X, w.P1.Y),
			P2: world.Vec(w.P2.X, w.P2.Y),
		})
	}
	return nil
}

// ApplyEnv 加载可选的 .env 文件后用 SNAKE_* 环境变量覆盖配置
func (s *Settings) ApplyEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	if v, ok := os.LookupEnv("SNAKE_ADDR"); ok {
		s.Addr = v
	}
	if v, ok := os.LookupEnv("SNAKE_HTTP_ADDR"); ok {
		s.HTTPAddr = v
	}
	if v, ok := os.LookupEnv("SNAKE_LOG_FILE"); ok {
		s.LogFile = v
	}

	var err error
	if s.Debug, err = envBool("SNAKE_DEBUG", s.Debug); err != nil {
		return err
	}
	if s.WallsEveryTick, err = envBool("SNAKE_WALLS_EVERY_TICK", s.WallsEveryTick); err != nil {
		return err
	}
	if s.MSPerFrame, err = envInt("SNAKE_MS_PER_FRAME", s.MSPerFrame); err != nil {
		return err
	}
	if s.RespawnRate, err = envInt("SNAKE_RESPAWN_RATE", s.RespawnRate); err != nil {
		return err
	}
	return nil
}

func envInt(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def, fmt.Errorf("%w: %s=%q", ErrInvalid, key, v)
	}
	return n, nil
}

func envBool(key string, def bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def, fmt.Errorf("%w: %s=%q", ErrInvalid, key, v)
	}
	return b, nil
}

// Validate 检查数值范围、墙的形状与 id 唯一性
func (s *Settings) Validate() error {
	if s.MSPerFrame <= 0 {
		return fmt.Errorf("%w: MSPerFrame=%d", ErrInvalid, s.MSPerFrame)
	}
	if s.RespawnRate <= 0 {
		return fmt.Errorf("%w: RespawnRate=%d", ErrInvalid, s.RespawnRate)
	}
	if s.UniverseSize <= 0 {
		return fmt.Errorf("%w: UniverseSize=%d", ErrInvalid, s.UniverseSize)
	}
	if s.Addr == "" {
		return fmt.Errorf("%w: empty listen address", ErrInvalid)
	}
	seen := make(map[int]bool, len(s.Walls))
	for _, w := range s.Walls {
		if err := w.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		if seen[w.ID] {
			return fmt.Errorf("%w: duplicate wall id %d", ErrInvalid, w.ID)
		}
		seen[w.ID] = true
	}
	return nil
}
