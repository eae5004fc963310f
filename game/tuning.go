package game

import "time"

// Tuning 模拟参数。默认值与线上客户端的绘制尺寸匹配（蛇宽 10、墙宽 50）。
type Tuning struct {
	StepLength    float64       // 每帧蛇头前进 / 蛇尾收缩的距离
	PowerRadius   float64       // 吃到道具的距离阈值
	WallMargin    float64       // 墙段包围盒外扩
	SnakeMargin   float64       // 蛇身段包围盒外扩
	GrowthTicks   int           // 每吃一个道具增加的生长帧数
	TurnTicks     int           // 转向冷却帧数（约等于走过自身宽度）
	SpawnLength   float64       // 出生时身体长度
	MaxPowers     int           // 同时存在的道具上限
	PowerInterval time.Duration // 尝试生成道具的间隔
	SpawnAttempts int           // 出生选点 / 选方向的最大重试次数
	Seed          int64         // 0 表示使用当前时间
}

// DefaultTuning 默认参数
func DefaultTuning() Tuning {
	return Tuning{
		StepLength:    6,
		PowerRadius:   20,
		WallMargin:    30,
		SnakeMargin:   10,
		GrowthTicks:   24,
		TurnTicks:     2,
		SpawnLength:   120,
		MaxPowers:     20,
		PowerInterval: time.Second,
		SpawnAttempts: 10000,
	}
}
