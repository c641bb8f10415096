package middleware

import (
	"fmt"
	"net/http"

	"peopleflow-hr/internal/domain"
	"peopleflow-hr/internal/shared/apperror"

	"github.com/gin-gonic/gin"
)

// RBACService is anything that can answer an enforce request.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

// RBACAuthorize lets the request through only when the caller's employee
// holds resource:action in the caller's company.
func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	required := domain.Permission{Resource: resource, Action: action}
	return func(c *gin.Context) {
		employeeID := c.GetString("employee_id")
		companyID := c.GetString("company_id")
		if employeeID == "" || companyID == "" {
			abortWithError(c, apperror.ErrUnauthorized)
			return
		}

		allowed, err := service.Enforce(domain.EnforceRequest{
			EmployeeID: employeeID,
			CompanyID:  companyID,
			Resource:   required.Resource,
			Action:     required.Action,
		})
		if err != nil {
			abortWithError(c, apperror.Wrap(err, apperror.CodeInternalError, "authorization check failed", http.StatusInternalServerError))
			return
		}
		if !allowed {
			abortWithError(c, fmt.Errorf("%w: requires %s", apperror.ErrForbidden, required))
			return
		}

		c.Next()
	}
}
