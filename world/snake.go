package world

// Snake 服务端权威的蛇实体；Body 从尾到头排列，最后一个点是蛇头
type Snake struct {
	ID    int        `json:"snake"`
	Name  string     `json:"name"`
	Body  []Vector2D `json:"body"`
	Dir   Vector2D   `json:"dir"`
	Score int        `json:"score"`
	Died  bool       `json:"died"` // 本帧刚死亡（只广播一次）
	Alive bool       `json:"alive"`
	DC    bool       `json:"dc"`   // 所属连接已断开
	Join  bool       `json:"join"` // 刚（重新）出生
}

// NewSnake 创建尚未放置的蛇，Body 由出生算法填充
func NewSnake(id int, name string) *Snake {
	return &Snake{ID: id, Name: name, Alive: true, Join: true}
}

// Head 蛇头
func (s *Snake) Head() Vector2D {
	return s.Body[len(s.Body)-1]
}

// SetHead 改写蛇头位置
func (s *Snake) SetHead(v Vector2D) {
	s.Body[len(s.Body)-1] = v
}

// Tail 蛇尾
func (s *Snake) Tail() Vector2D {
	return s.Body[0]
}

// Translate 整体平移所有身体点（环绕时使用，拓扑不变）
func (s *Snake) Translate(d Vector2D) {
	for i := range s.Body {
		s.Body[i] = s.Body[i].Add(d)
	}
}

// Segments 身体段数（相邻两点构成一段）
func (s *Snake) Segments() int {
	if len(s.Body) < 2 {
		return 0
	}
	return len(s.Body) - 1
}

// Length 身体总长度
func (s *Snake) Length() float64 {
	var l float64
	for i := 0; i+1 < len(s.Body); i++ {
		l += s.Body[i].Dist(s.Body[i+1])
	}
	return l
}

// Active 可作为障碍物、可接受转向
func (s *Snake) Active() bool {
	return s.Alive && !s.Died && !s.DC
}

// Clone 深拷贝
func (s *Snake) Clone() *Snake {
	c := *s
	c.Body = append([]Vector2D(nil), s.Body...)
	return &c
}
