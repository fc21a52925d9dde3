package handler

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"collabpay/api/response"
	"collabpay/logic/builder"
	"collabpay/logic/dashboard"
	"collabpay/service"
	"collabpay/types"

	"github.com/gin-gonic/gin"
)

type ContractHandler struct {
	contractSvc *service.ContractService
	logger      *slog.Logger
}

func NewContractHandler(contractSvc *service.ContractService, logger *slog.Logger) *ContractHandler {
	return &ContractHandler{
		contractSvc: contractSvc,
		logger:      logger,
	}
}

// Validate 分步表单校验；不带 step 时校验整张表单并返回规范化结果
func (h *ContractHandler) Validate(c *gin.Context) {
	var in types.ContractInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Fail(c, "参数错误: "+err.Error())
		return
	}

	if step := c.Query("step"); step != "" {
		if err := builder.ValidateStep(step, in); err != nil {
			var verr *types.ValidationError
			if !errors.As(err, &verr) {
				response.Fail(c, err.Error())
				return
			}
			response.Error(c, err)
			return
		}
		response.Success(c, gin.H{"step": step, "valid": true})
		return
	}

	draft, err := builder.Validate(in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, draft)
}

// Create 创建草稿合同
func (h *ContractHandler) Create(c *gin.Context) {
	var in types.ContractInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Fail(c, "参数错误: "+err.Error())
		return
	}

	contract, err := h.contractSvc.Create(c.Request.Context(), in)
	if err != nil {
		h.logger.Debug("create contract rejected", "error", err)
		response.Error(c, err)
		return
	}
	response.Success(c, dashboard.View(contract))
}

// List 当前会话的合同列表，支持 ?status=&currency= 过滤
func (h *ContractHandler) List(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}
	contracts := h.contractSvc.List(c.Request.Context(), filter)
	response.Success(c, gin.H{
		"contracts":   dashboard.Views(contracts),
		"total_count": len(contracts),
	})
}

func (h *ContractHandler) Get(c *gin.Context) {
	contract, err := h.contractSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dashboard.View(contract))
}

// Deploy 部署合同 (模拟链上延迟)
func (h *ContractHandler) Deploy(c *gin.Context) {
	contract, err := h.contractSvc.Deploy(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dashboard.View(contract))
}

// Complete 完成合同并结算所有节点
func (h *ContractHandler) Complete(c *gin.Context) {
	contract, err := h.contractSvc.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dashboard.View(contract))
}

// Release 单独支付某个节点
func (h *ContractHandler) Release(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Fail(c, "参数错误: milestone index 必须是整数")
		return
	}
	contract, err := h.contractSvc.ReleaseMilestone(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dashboard.View(contract))
}

// Dashboard 仪表盘统计
func (h *ContractHandler) Dashboard(c *gin.Context) {
	response.Success(c, h.contractSvc.Summary(c.Request.Context()))
}

// Archive 查询归档 (需要配置 archive.dsn)
func (h *ContractHandler) Archive(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}
	contracts, err := h.contractSvc.Archived(c.Request.Context(), c.Query("wallet"), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{
		"contracts":   dashboard.Views(contracts),
		"total_count": len(contracts),
	})
}

func bindFilter(c *gin.Context) (types.ListFilter, bool) {
	var filter types.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Fail(c, "参数错误: "+err.Error())
		return filter, false
	}
	filter.Currency = types.Currency(strings.ToUpper(string(filter.Currency)))
	if filter.Status != "" && !filter.Status.Valid() {
		response.Fail(c, "参数错误: 未知的 status "+string(filter.Status))
		return filter, false
	}
	if filter.Currency != "" && !filter.Currency.Valid() {
		response.Fail(c, "参数错误: 未知的 currency "+string(filter.Currency))
		return filter, false
	}
	return filter, true
}
