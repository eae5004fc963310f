package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"snakearena/config"
	"snakearena/netio"
	"snakearena/server"
)

// SnakeArena 入口：加载配置，启动 TCP 游戏服务、tick 循环与 HTTP 管理接口
func main() {
	var (
		settingsPath string
		addr         string
		httpAddr     string
		logFile      string
		debug        bool
	)
	flag.StringVar(&settingsPath, "settings", "settings.xml", "game settings xml; empty uses built-in defaults")
	flag.StringVar(&addr, "addr", "", "game TCP listen address (default :11000)")
	flag.StringVar(&httpAddr, "http", "", "admin/metrics/websocket listen address (default :8080)")
	flag.StringVar(&logFile, "log", "", "log file path (default app.log)")
	flag.BoolVar(&debug, "debug", false, "enable debug logging")
	flag.Parse()

	cfg, err := config.Load(settingsPath)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		cfg, err = config.Default(), nil
	}
	if err != nil {
		panic(err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		panic(err)
	}
	// 命令行参数优先于文件与环境变量
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = addr
		case "http":
			cfg.HTTPAddr = httpAddr
		case "log":
			cfg.LogFile = logFile
		case "debug":
			cfg.Debug = debug
		}
	})
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	// 使用第三方 zap 日志库写入日志文件（带滚动）
	if err := server.InitLogger(cfg.LogFile, cfg.Debug); err != nil {
		panic(err)
	}
	defer server.SyncLogger()
	netio.SetLogger(server.Log.Named("netio"))

	srv, err := server.New(cfg)
	if err != nil {
		server.Log.Fatalf("world setup: %v", err)
	}
	if err := srv.Listen(cfg.Addr); err != nil {
		server.Log.Fatalf("listen: %v", err)
	}
	server.Log.Infow("world ready", "size", cfg.UniverseSize, "walls", len(cfg.Walls),
		"msPerFrame", cfg.MSPerFrame, "respawnRate", cfg.RespawnRate)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return srv.Run(ctx) })

	if cfg.HTTPAddr != "" {
		mux := http.NewServeMux()
		mux.HandleFunc("/ws", srv.HandleWS)
		// 管理与监控接口
		mux.HandleFunc("/admin/config", srv.HandleAdminConfig)
		mux.HandleFunc("/metrics", srv.HandleMetrics)
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok"))
		})
		hs := &http.Server{Addr: cfg.HTTPAddr, Handler: mux}

		g.Go(func() error {
			server.Log.Infof("admin http listening on %s", cfg.HTTPAddr)
			if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return hs.Shutdown(sctx)
		})
	}

	// 优雅退出（Ctrl+C）
	g.Go(func() error {
		<-ctx.Done()
		server.Log.Info("Shutting down...")
		return srv.Close()
	})

	if err := g.Wait(); err != nil {
		server.Log.Errorw("server stopped", "err", err)
	}
}
