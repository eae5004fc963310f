package game

import (
	"testing"

	"snakearena/world"
)

func newTestEngine(t *testing.T, size, respawnRate int) *Engine {
	t.Helper()
	tu := DefaultTuning()
	tu.Seed = 1
	return NewEngine(world.New(size, respawnRate), tu)
}

func putSnake(e *Engine, s *world.Snake) {
	e.World.Snakes.Update(func(items map[int]*world.Snake) { items[s.ID] = s })
}

func putPower(e *Engine, p *world.Power) {
	e.World.Powers.Update(func(items map[int]*world.Power) { items[p.ID] = p })
}

func snapshot(e *Engine, id int) *world.Snake {
	var c *world.Snake
	e.World.Snakes.View(func(items map[int]*world.Snake) {
		if s, ok := items[id]; ok {
			c = s.Clone()
		}
	})
	return c
}

func straightSnake(id int, tail, head world.Vector2D) *world.Snake {
	return &world.Snake{
		ID:    id,
		Name:  "test",
		Body:  []world.Vector2D{tail, head},
		Dir:   head.Sub(tail).Clamp(),
		Alive: true,
	}
}
