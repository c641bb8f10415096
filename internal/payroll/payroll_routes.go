package payroll

import (
	"peopleflow-hr/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	rdb *redis.Client,
) {
	preview := r.Group("/payroll-tax")
	preview.Use(middleware.AuthMiddleware(), middleware.ExtractUserID())
	preview.POST("/preview",
		middleware.RateLimitByUser(2, 10),
		middleware.RBACAuthorize(rbacService, "payroll", "read"),
		handler.Preview,
	)

	create := []gin.HandlerFunc{middleware.RBACAuthorize(rbacService, "payroll", "create")}
	if rdb != nil {
		create = append([]gin.HandlerFunc{middleware.Idempotency(rdb)}, create...)
	}
	create = append(create, handler.Create)

	payrolls := r.Group("/payrolls")
	payrolls.Use(middleware.AuthMiddleware(), middleware.ExtractUserID())
	{
		payrolls.GET("", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetAll)
		payrolls.GET("/:id", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetById)
		payrolls.GET("/:id/breakdown", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetBreakdown)
		payrolls.POST("", create...)
		payrolls.POST("/run",
			middleware.RateLimitByUser(0.05, 1),
			middleware.RBACAuthorize(rbacService, "payroll", "run"),
			handler.Run,
		)
		payrolls.POST("/run/async",
			middleware.RateLimitByUser(0.05, 1),
			middleware.RBACAuthorize(rbacService, "payroll", "run"),
			handler.RequestRun,
		)
		payrolls.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "payroll", "approve"), handler.Approve)
		payrolls.POST("/:id/mark-paid", middleware.RBACAuthorize(rbacService, "payroll", "pay"), handler.MarkAsPaid)
		payrolls.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "payroll", "approve"), handler.Cancel)
		payrolls.DELETE("/:id", middleware.RBACAuthorize(rbacService, "payroll", "delete"), handler.Delete)
	}
}
