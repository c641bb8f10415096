package jurisdiction

import (
	"net/http"
	"time"

	jurisdictionerrors "peopleflow-hr/internal/jurisdiction/errors"
	"peopleflow-hr/internal/shared/apperror"
	"peopleflow-hr/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
	now     func() time.Time
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service, now: time.Now}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByCode(c *gin.Context) {
	resp, err := h.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetRules(c *gin.Context) {
	var req GetRulesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	asOf := h.now().UTC()
	if req.AsOf != "" {
		parsed, err := time.Parse(dateLayout, req.AsOf)
		if err != nil {
			h.writeServiceError(c, jurisdictionerrors.ErrInvalidAsOfDate)
			return
		}
		asOf = parsed
	}

	rules, err := h.service.ResolveRules(c.Request.Context(), c.Param("code"), asOf)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, RuleSetResponse{
		AsOf:    asOf.Format(dateLayout),
		RuleSet: rules,
	}, nil)
}
