package world

// Power 道具；被吃掉后 Died=true，再广播一次后删除
type Power struct {
	ID   int      `json:"power"`
	Loc  Vector2D `json:"loc"`
	Died bool     `json:"died"`
}
