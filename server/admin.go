package server

import (
	"encoding/json"
	"net/http"
)

// HandleAdminConfig 提供运行期配置的读取与更新（热更新基本规则）
// GET /admin/config   返回当前配置
// POST /admin/config  以 JSON 载荷更新部分字段
func (s *Server) HandleAdminConfig(w http.ResponseWriter, r *http.Request) {
	type cfg struct {
		MSPerFrame     *int  `json:"msPerFrame,omitempty"`
		RespawnRate    *int  `json:"respawnRate,omitempty"`
		WallsEveryTick *bool `json:"wallsEveryTick,omitempty"`
	}

	switch r.Method {
	case http.MethodGet:
		ms := int(s.frameMS.Load())
		rate := s.World.RespawnRate()
		every := s.publisher.WallsEveryTick()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(cfg{MSPerFrame: &ms, RespawnRate: &rate, WallsEveryTick: &every})
	case http.MethodPost:
		var body cfg
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if (body.MSPerFrame != nil && *body.MSPerFrame <= 0) || (body.RespawnRate != nil && *body.RespawnRate <= 0) {
			http.Error(w, "values must be positive", http.StatusBadRequest)
			return
		}
		if body.MSPerFrame != nil {
			s.SetFramePeriod(*body.MSPerFrame)
		}
		if body.RespawnRate != nil {
			s.World.SetRespawnRate(*body.RespawnRate)
		}
		if body.WallsEveryTick != nil {
			s.publisher.SetWallsEveryTick(*body.WallsEveryTick)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
		Log.Infof("config updated: msPerFrame=%d respawnRate=%d wallsEveryTick=%v",
			s.frameMS.Load(), s.World.RespawnRate(), s.publisher.WallsEveryTick())
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleMetrics 输出运行指标与当前实体数量
// GET /metrics
func (s *Server) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	m := s.Metrics.Snapshot()
	m["queue_drops"] = s.QueueDrops()
	payload := map[string]any{
		"sessions": s.Sessions.Len(),
		"snakes":   s.World.Snakes.Len(),
		"powers":   s.World.Powers.Len(),
		"walls":    s.World.Walls.Len(),
		"metrics":  m,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
