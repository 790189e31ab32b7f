package handler

import (
	"net/http"
	"strings"

	"setoran/internal/apperror"
	"setoran/internal/service"
	"setoran/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateDepositRequestBody is the POST /requests payload. The camelCase keys
// are accepted for older clients.
type CreateDepositRequestBody struct {
	UserID       string                   `json:"user_id" example:"7b1c3f0e-2d4a-4c56-9f0e-1a2b3c4d5e6f"`
	UserIDCamel  string                   `json:"userId" swaggerignore:"true"`
	AdminID      string                   `json:"admin_id" example:"0f9e8d7c-6b5a-4321-8fed-cba987654321"`
	AdminIDCamel string                   `json:"adminId" swaggerignore:"true"`
	Items        []CreateRequestItemInput `json:"items"`
}

type CreateRequestItemInput struct {
	DepositItemID      string `json:"deposit_item_id"`
	DepositItemIDCamel string `json:"depositItemId" swaggerignore:"true"`
	Qty                int    `json:"qty" example:"3"`
}

type DepositRequestHandler struct {
	requestService service.DepositRequestService
}

func NewDepositRequestHandler(requestService service.DepositRequestService) *DepositRequestHandler {
	return &DepositRequestHandler{requestService: requestService}
}

func (h *DepositRequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/requests")
	{
		requests.POST("", h.CreateRequest)
		requests.GET("/my", h.ListMyRequests)
		requests.GET("/admin", h.ListAdminRequests)
		requests.PATCH("/:id/approve", h.ApproveRequest)
		requests.PATCH("/:id/reject", h.RejectRequest)
		requests.GET("/:id/history", h.GetRequestHistory)
	}
}

// CreateRequest godoc
// @Summary      Create deposit request
// @Description  Reserves quantities of the user's deposit items and asks an admin to settle them
// @Tags         requests
// @Accept       json
// @Produce      json
// @Param        payload  body      CreateDepositRequestBody  true  "Deposit request"
// @Success      201      {object}  response.Response{data=service.DepositRequestResponse}
// @Failure      400      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /requests [post]
func (h *DepositRequestHandler) CreateRequest(c *gin.Context) {
	var body CreateDepositRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		_ = c.Error(apperror.Wrap(apperror.KindValidation, err, "invalid request body"))
		return
	}

	dto, err := body.toDTO()
	if err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.requestService.Create(c.Request.Context(), dto)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(result))
}

// ListMyRequests godoc
// @Summary      List a user's deposit requests
// @Tags         requests
// @Produce      json
// @Param        user_id  query     string  true  "User ID"
// @Success      200      {object}  response.Response{data=[]service.DepositRequestResponse}
// @Failure      422      {object}  response.Response
// @Router       /requests/my [get]
func (h *DepositRequestHandler) ListMyRequests(c *gin.Context) {
	userID, err := queryUUID(c, "user_id", "userId")
	if err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.requestService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// ListAdminRequests godoc
// @Summary      List pending requests assigned to an admin
// @Tags         requests
// @Produce      json
// @Param        admin_id  query     string  true  "Admin ID"
// @Success      200       {object}  response.Response{data=[]service.DepositRequestResponse}
// @Failure      422       {object}  response.Response
// @Router       /requests/admin [get]
func (h *DepositRequestHandler) ListAdminRequests(c *gin.Context) {
	adminID, err := queryUUID(c, "admin_id", "adminId")
	if err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.requestService.ListPendingForAdmin(c.Request.Context(), adminID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// ApproveRequest godoc
// @Summary      Approve deposit request
// @Description  Marks the items deposited, credits the ledger and closes the request in one transaction
// @Tags         requests
// @Produce      json
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.Response{data=service.DepositRequestResponse}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /requests/{id}/approve [patch]
func (h *DepositRequestHandler) ApproveRequest(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.requestService.Approve(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage("Request approved successfully", result))
}

// RejectRequest godoc
// @Summary      Reject deposit request
// @Description  Closes the request and releases its reserved quantities
// @Tags         requests
// @Produce      json
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.Response{data=service.DepositRequestResponse}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /requests/{id}/reject [patch]
func (h *DepositRequestHandler) RejectRequest(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.requestService.Reject(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage("Request rejected successfully", result))
}

// GetRequestHistory godoc
// @Summary      Audit trail of a deposit request
// @Tags         requests
// @Produce      json
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.Response{data=[]service.AuditLogResponse}
// @Failure      404  {object}  response.Response
// @Router       /requests/{id}/history [get]
func (h *DepositRequestHandler) GetRequestHistory(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.requestService.History(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

func (b CreateDepositRequestBody) toDTO() (service.CreateDepositRequestDTO, error) {
	var dto service.CreateDepositRequestDTO
	var err error

	if dto.UserID, err = parseOptionalUUID("user_id", firstNonEmpty(b.UserID, b.UserIDCamel)); err != nil {
		return dto, err
	}
	if dto.AdminID, err = parseOptionalUUID("admin_id", firstNonEmpty(b.AdminID, b.AdminIDCamel)); err != nil {
		return dto, err
	}

	dto.Items = make([]service.ItemQty, 0, len(b.Items))
	for _, it := range b.Items {
		id, err := parseOptionalUUID("deposit_item_id", firstNonEmpty(it.DepositItemID, it.DepositItemIDCamel))
		if err != nil {
			return dto, err
		}
		dto.Items = append(dto.Items, service.ItemQty{DepositItemID: id, Qty: it.Qty})
	}
	return dto, nil
}

// parseOptionalUUID maps "" to uuid.Nil so the service reports the missing field
func parseOptionalUUID(field, raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.Validation("%s must be a valid UUID", field)
	}
	return id, nil
}

func queryUUID(c *gin.Context, keys ...string) (uuid.UUID, error) {
	var raw string
	for _, k := range keys {
		if v := c.Query(k); v != "" {
			raw = v
			break
		}
	}
	if raw == "" {
		return uuid.Nil, apperror.Validation("%s is required", keys[0])
	}
	return parseOptionalUUID(keys[0], raw)
}

func pathUUID(c *gin.Context, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(key))
	if err != nil {
		return uuid.Nil, apperror.Validation("invalid %s", key)
	}
	return id, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
