package router

import (
	"time"

	"vereinskasse/api"
	"vereinskasse/config"
	_ "vereinskasse/docs"
	"vereinskasse/middleware"
	"vereinskasse/models"
	"vereinskasse/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// 登录/注册限流：同一 IP 每分钟最多 10 次
const (
	loginMaxAttempts = 10
	loginWindow      = time.Minute
)

// Services 路由依赖的业务服务
type Services struct {
	Auth          *service.AuthService
	Ledger        *service.CostLedger
	Club          *service.ClubLedger
	QuickEntry    *service.QuickEntryService
	Notifications *service.NotificationCenter
	Catalog       *models.CategoryCatalog
}

// NewServices 按配置组装业务服务
// 邮件未启用时快速录入不抄送通知邮件
func NewServices(cfg *config.Config, db *gorm.DB) *Services {
	catalog := models.NewCategoryCatalog(cfg.Club.NonAlcoholicPrice, cfg.Club.AlcoholicPrice)

	var mailer service.Mailer
	if email := service.NewEmailService(&cfg.Email); email.Enabled() {
		mailer = email
	}

	return &Services{
		Auth:   service.NewAuthService(db),
		Ledger: service.NewCostLedger(db, catalog),
		Club:   service.NewClubLedger(db),
		QuickEntry: service.NewQuickEntryService(db, catalog, service.NewSessionRegistry(), service.QuickEntryOptions{
			CurrencySymbol: cfg.Club.CurrencySymbol,
			TerminalEmail:  cfg.Club.TerminalEmail,
		}, mailer),
		Notifications: service.NewNotificationCenter(db, cfg.Club.NotificationLimit),
		Catalog:       catalog,
	}
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, svc *Services) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()
	r.Use(CORSMiddleware())

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authHandler := api.NewAuthHandler(cfg, svc.Auth, svc.Ledger)
	costHandler := api.NewCostHandler(svc.Ledger, svc.Catalog)
	exportHandler := api.NewExportHandler(svc.Ledger, svc.Club)
	clubHandler := api.NewClubHandler(svc.Club)
	quickHandler := api.NewQuickEntryHandler(svc.QuickEntry)
	notificationHandler := api.NewNotificationHandler(svc.Notifications)

	v1 := r.Group("/api/v1")
	{
		// 认证（无需登录）
		auth := v1.Group("/auth")
		auth.Use(middleware.LoginRateLimit(loginMaxAttempts, loginWindow))
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		v1.GET("/categories", costHandler.GetCategories)

		// 需要 JWT 认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			authorized.GET("/auth/profile", authHandler.GetProfile)

			costs := authorized.Group("/costs")
			{
				costs.GET("", costHandler.List)
				costs.POST("", costHandler.Create)
				costs.GET("/export/csv", exportHandler.ExportCSV)
				costs.DELETE("/:id", costHandler.Delete)
			}

			club := authorized.Group("/club/costs")
			{
				club.GET("", clubHandler.View)
				club.GET("/export/excel", exportHandler.ExportExcel)
			}

			quick := authorized.Group("/quick-entry")
			{
				quick.GET("/members", quickHandler.ListMembers)
				quick.GET("/state", quickHandler.State)
				quick.POST("/members/:id/select", quickHandler.Select)
				quick.PUT("/members/:id/draft", quickHandler.SetDraftField)
				quick.POST("/members/:id/costs", quickHandler.AddCost)
				quick.POST("/members/:id/drinks", quickHandler.AddDrink)
				quick.POST("/custom-form/toggle", quickHandler.ToggleCustomForm)
				quick.POST("/undo", quickHandler.Undo)
				quick.POST("/confirmation/close", quickHandler.CloseConfirmation)
			}

			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", notificationHandler.List)
				notifications.POST("/read-all", notificationHandler.MarkAllAsRead)
				notifications.POST("/:id/read", notificationHandler.MarkAsRead)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
