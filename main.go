package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/hoshinonyaruko/snake-solo/api"
	"github.com/hoshinonyaruko/snake-solo/config"
	"github.com/hoshinonyaruko/snake-solo/memimg"
	"github.com/hoshinonyaruko/snake-solo/session"
	"github.com/hoshinonyaruko/snake-solo/sqlite"
)

func main() {
	// Initialize the configuration
	cfg := config.LoadConfig("./config.json")
	EnsureFoldersExist(cfg.SpriteDir, "static")

	// 载入贴图到内存
	if err := memimg.LoadSprites(cfg.SpriteDir, cfg.Blocksize); err != nil {
		log.Printf("Failed to load sprites: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	// 检测并热更新到内存 加速绘图
	go func() {
		if err := memimg.WatchSprites(ctx, cfg.SpriteDir, cfg.Blocksize); err != nil {
			log.Printf("Sprite watcher stopped: %v", err)
		}
	}()

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database %s: %v", cfg.DBPath, err)
	}
	defer store.Close()
	if cfg.SnapshotTTL > 0 {
		cutoff := time.Now().Add(-time.Duration(cfg.SnapshotTTL) * time.Hour)
		if n, err := store.PruneBefore(ctx, cutoff); err != nil {
			log.Printf("Failed to prune snapshots: %v", err)
		} else if n > 0 {
			log.Printf("Pruned %d stale snapshots", n)
		}
	}

	interval := time.Duration(0)
	if cfg.AutoTick {
		interval = cfg.TickInterval()
	}
	manager := session.NewManager(store, interval, cfg.Seed)
	defer manager.Close()

	router := api.NewRouter(manager, api.Options{
		Columns:   cfg.Columns,
		BlockSize: cfg.Blocksize,
		AutoTick:  cfg.AutoTick,
		StaticDir: "./static",
		SelfPath:  cfg.SelfPath,
	})

	// 从配置单例读取端口 监听
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Printf("Listening on %s", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to serve: %v", err)
		}
	case <-ctx.Done():
		log.Println("Terminating")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("Error shutting down server:", err)
	}
}

// EnsureFoldersExist 检查并创建必需的文件夹
func EnsureFoldersExist(folders ...string) {
	for _, folder := range folders {
		if _, err := os.Stat(folder); os.IsNotExist(err) {
			// 文件夹不存在，尝试创建它
			err := os.MkdirAll(folder, 0755) // 使用0755权限以确保读写权限
			if err != nil {
				// 如果创建失败，则记录错误并可能退出程序
				log.Fatalf("Failed to create %s directory: %s", folder, err)
			}
			log.Printf("Created %s directory", folder)
		} else {
			// 文件夹已存在
			log.Printf("%s directory already exists", folder)
		}
	}
}
