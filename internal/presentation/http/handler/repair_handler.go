package handler

import (
	"github.com/fixpointhq/fixpoint-api/internal/application/service"
	"github.com/fixpointhq/fixpoint-api/internal/domain/enum"
	"github.com/fixpointhq/fixpoint-api/internal/domain/repository"
	"github.com/fixpointhq/fixpoint-api/internal/presentation/http/dto/request"
	"github.com/fixpointhq/fixpoint-api/internal/presentation/http/dto/response"
	"github.com/fixpointhq/fixpoint-api/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RepairHandler handles repair-related HTTP requests
type RepairHandler struct {
	repairService *service.RepairService
}

// NewRepairHandler creates a new repair handler
func NewRepairHandler(repairService *service.RepairService) *RepairHandler {
	return &RepairHandler{repairService: repairService}
}

// Create handles repair intake
func (h *RepairHandler) Create(c *gin.Context) {
	var req request.CreateRepairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	repair, err := h.repairService.CreateRepair(c.Request.Context(), &service.CreateRepairInput{
		CustomerName:         req.CustomerName,
		CustomerPhone:        req.CustomerPhone,
		DeviceModel:          req.DeviceModel,
		IMEIOrSerial:         req.IMEIOrSerial,
		IssueDescription:     req.IssueDescription,
		EstimatedCost:        req.EstimatedCost,
		AdvancePayment:       req.AdvancePayment,
		TechnicianID:         req.TechnicianID,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Repair job created successfully", repair)
}

// List handles listing repairs
func (h *RepairHandler) List(c *gin.Context) {
	var filter request.RepairFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.RepairFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search: filter.Search,
	}

	if filter.Status != "" {
		status, ok := enum.ParseRepairStatus(filter.Status)
		if !ok {
			response.BadRequest(c, "Invalid repair status: "+filter.Status)
			return
		}
		params.Status = &status
	}

	if filter.CustomerID != "" {
		custID, err := uuid.Parse(filter.CustomerID)
		if err == nil {
			params.CustomerID = &custID
		}
	}

	if filter.TechnicianID != "" {
		techID, err := uuid.Parse(filter.TechnicianID)
		if err == nil {
			params.TechnicianID = &techID
		}
	}

	result, err := h.repairService.ListRepairs(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Repairs retrieved successfully", result)
}

// Get handles getting a single repair
func (h *RepairHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid repair ID")
		return
	}

	repair, err := h.repairService.GetRepair(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Repair retrieved successfully", repair)
}

// Update handles partial repair updates, including status changes
func (h *RepairHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid repair ID")
		return
	}

	var req request.UpdateRepairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.UpdateRepairInput{
		ID:           id,
		FinalCost:    req.FinalCost,
		TechnicianID: req.TechnicianID,
	}

	if req.Status != nil {
		status, ok := enum.ParseRepairStatus(*req.Status)
		if !ok {
			response.BadRequest(c, "Invalid repair status: "+*req.Status)
			return
		}
		input.Status = &status
	}

	repair, err := h.repairService.UpdateRepair(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Repair updated successfully", repair)
}
