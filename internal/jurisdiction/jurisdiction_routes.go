package jurisdiction

import (
	"peopleflow-hr/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	h *Handler,
	rbacService middleware.RBACService,
) {
	jurisdictions := r.Group("/jurisdictions")

	jurisdictions.Use(middleware.AuthMiddleware(), middleware.ExtractUserID())

	{
		jurisdictions.GET("", middleware.RBACAuthorize(rbacService, "jurisdiction", "read"), h.GetAll)
		jurisdictions.GET("/:code", middleware.RBACAuthorize(rbacService, "jurisdiction", "read"), h.GetByCode)
		jurisdictions.GET("/:code/rules", middleware.RBACAuthorize(rbacService, "jurisdiction", "read"), h.GetRules)
	}
}
