package router

import (
	"bookkeeping/api"
	"bookkeeping/config"
	_ "bookkeeping/docs"
	"bookkeeping/middleware"
	"bookkeeping/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Deps 路由依赖的服务实例
type Deps struct {
	Repo      *service.Repository
	Refresher *service.Refresher
	Directory *service.Directory
	Sessions  *service.SessionManager
	Email     *service.EmailService
	JWT       *middleware.JWT
	Limiter   *middleware.RateLimiter
	Version   string
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, d Deps) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()
	r.Use(CORSMiddleware())

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 健康检查
	r.GET("/health", api.NewHealthHandler(d.Repo, d.Version).Health)

	authHandler := api.NewAuthHandler(d.Directory, d.Sessions, d.JWT)
	txHandler := api.NewTransactionHandler(d.Repo, d.Refresher)
	exportHandler := api.NewExportHandler(d.Repo, d.Email, cfg.Ledger.Currency)
	userHandler := api.NewUserHandler(d.Directory, d.Sessions)

	v1 := r.Group("/api/v1")
	{
		// 登录（无需认证，按客户端IP限流）
		v1.POST("/auth/login", middleware.LoginRateLimit(d.Limiter), authHandler.Login)

		// 需要 JWT 认证的路由；普通用户不能访问用户管理
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(d.JWT, d.Sessions), middleware.RolePermission())
		{
			authorized.POST("/auth/logout", authHandler.Logout)
			authorized.GET("/auth/profile", authHandler.GetProfile)
			authorized.PUT("/auth/password", authHandler.ChangePassword)

			// 收支记录
			transactions := authorized.Group("/transactions")
			{
				transactions.GET("", txHandler.List)
				transactions.POST("", txHandler.Create)
				transactions.GET("/:id", txHandler.Get)
				transactions.PUT("/:id", txHandler.Update)
				transactions.DELETE("/:id", txHandler.Delete)

				// 收支关联
				transactions.POST("/:id/link", txHandler.Link)
				transactions.DELETE("/:id/link", txHandler.Unlink)
				transactions.GET("/:id/metrics", txHandler.Metrics)

				// 支出附带的表格
				transactions.POST("/:id/excel", txHandler.AttachExcel)
				transactions.DELETE("/:id/excel", txHandler.DetachExcel)
			}

			authorized.GET("/statistics/summary", txHandler.Summary)

			// 导出
			export := authorized.Group("/export")
			{
				export.GET("/excel", exportHandler.ExportExcel)
				export.POST("/email", exportHandler.EmailReport)
				export.POST("/email/test", exportHandler.TestEmail)
			}

			// 用户管理（仅管理员）
			users := authorized.Group("/users")
			{
				users.GET("", userHandler.ListUsers)
				users.POST("", userHandler.CreateUser)
				users.PUT("/:id", userHandler.UpdateUser)
				users.DELETE("/:id", userHandler.DeleteUser)
			}
		}
	}

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
