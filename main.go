package main

import (
	"context"
	"flag"
	"log"

	"skill_console/internal/app"
	"skill_console/internal/config"
	"skill_console/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	configDir := flag.String("config", "configs", "配置文件所在目录")
	watch := flag.Bool("watch", true, "配置文件变更时热更新落地路径和矩阵参数")
	flag.Parse()

	// .env 不存在时忽略，环境变量仍然生效
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}
	defer logger.Sync()

	if *watch {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		application.WatchConfig(ctx, *configDir)
	}

	application.Run()
}
