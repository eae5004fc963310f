package netio

import "go.uber.org/zap"

var log = zap.NewNop().Sugar()

// SetLogger 注入日志；nil 恢复为静默
func SetLogger(l *zap.SugaredLogger) {
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	log = l
}
