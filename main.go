package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bookkeeping/config"
	"bookkeeping/database"
	"bookkeeping/middleware"
	"bookkeeping/notify"
	"bookkeeping/router"
	"bookkeeping/service"
)

// @title 记账系统 API
// @version 1.0
// @description 收支记账服务：收入与支出记录、收入收回支出的关联与收益指标、区间汇总、Excel 导出与邮件报表
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const version = "1.0.0"

const sessionSweepInterval = 10 * time.Minute

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "外部配置文件路径（可选）")
	flag.StringVar(&configFile, "c", "", "外部配置文件路径（简写）")
	flag.StringVar(&port, "port", "", "监听端口，如: 8080 或 :8080")
	flag.StringVar(&port, "p", "", "监听端口（简写）")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.BoolVar(&showVersion, "v", false, "显示版本信息（简写）")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Printf("记账系统 v%s", version)
		return
	}

	// 加载配置（内置配置 + 可选的外部配置覆盖）
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 命令行参数覆盖端口配置
	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Printf("命令行指定端口: %s", port)
	}

	config.PrintConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 初始化存储
	stores, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("数据库初始化失败: %v", err)
	}
	defer stores.Close()

	directory := service.NewDirectory(stores.Users)
	if err := directory.EnsureDefaults(ctx); err != nil {
		log.Fatalf("初始化预置用户失败: %v", err)
	}

	// 多实例部署时通过 AMQP 广播账本变更
	var notifier service.ChangeNotifier
	var amqpClient *notify.Client
	if cfg.AMQP.Enabled {
		amqpClient, err = notify.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			log.Fatalf("连接 AMQP 失败: %v", err)
		}
		defer amqpClient.Close()
		notifier = amqpClient
	}

	repo := service.NewRepository(stores.Transactions, notifier)
	if _, err := repo.FetchAll(ctx); err != nil {
		log.Printf("警告: 首次加载账本失败，将在后台重试: %v", err)
	}

	refresher := service.NewRefresher(repo, cfg.Ledger.RefreshInterval)
	sessions := service.NewSessionManager(cfg.JWT.ExpireTime, stores.Sessions)
	limiter := middleware.NewRateLimiter(cfg.Login.MaxAttempts, cfg.Login.Window)

	go refresher.Run(ctx)
	go sessions.Run(ctx, sessionSweepInterval)
	go limiter.Run(ctx)

	if amqpClient != nil {
		go func() {
			err := amqpClient.Consume(ctx, func(msg *notify.ChangeMessage) error {
				log.Printf("收到账本变更: %s %s (来自 %s)", msg.Kind, msg.ID, msg.Origin)
				return refresher.RefreshChanged(ctx)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("账本变更监听已停止: %v", err)
			}
		}()
	}

	r := router.SetupRouter(cfg, router.Deps{
		Repo:      repo,
		Refresher: refresher,
		Directory: directory,
		Sessions:  sessions,
		Email:     service.NewEmailService(&cfg.Email),
		JWT:       middleware.NewJWT(cfg.JWT.Secret, cfg.JWT.ExpireTime),
		Limiter:   limiter,
		Version:   version,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("==========================================")
		log.Printf("  记账系统已启动")
		log.Printf("==========================================")
		log.Printf("  Swagger:  http://localhost%s/swagger/index.html", cfg.Server.Port)
		log.Printf("  API接口:  http://localhost%s/api/v1/", cfg.Server.Port)
		log.Printf("==========================================")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务器启动失败: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("正在关闭服务...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("服务关闭超时: %v", err)
	}
}
