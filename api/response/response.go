package response

import (
	"errors"
	"net/http"

	"collabpay/service"
	"collabpay/types"

	"github.com/gin-gonic/gin"
)

// 业务错误码
const (
	CodeOK                   = 0
	CodeFail                 = -1
	CodeNotConnected         = 1001
	CodeValidationFailed     = 1002
	CodeInvalidTransition    = 1003
	CodeAlreadyInProgress    = 1004
	CodeNotFound             = 1005
	CodeConnectionInProgress = 1006
	CodeMilestoneNotFound    = 1007
	CodeMilestonePaid        = 1008
	CodeArchiveDisabled      = 1009
)

type Response struct {
	Code int         `json:"code"` // 0:成功, 其他:失败
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: CodeOK,
		Msg:  "success",
		Data: data,
	})
}

// Fail 参数错误等通用失败
func Fail(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{
		Code: CodeFail,
		Msg:  msg,
		Data: nil,
	})
}

// Error 把领域错误映射为 HTTP 状态码与业务码
func Error(c *gin.Context, err error) {
	status, code := classify(err)
	resp := Response{Code: code, Msg: err.Error()}

	var verr *types.ValidationError
	if errors.As(err, &verr) {
		resp.Msg = "validation failed"
		resp.Data = verr.Fields
	}
	var terr *types.TransitionError
	if errors.As(err, &terr) {
		resp.Data = map[string]types.Status{"from": terr.From, "to": terr.To}
	}
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		resp.Msg = "internal error"
	}
	c.JSON(status, resp)
}

func classify(err error) (int, int) {
	var verr *types.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, CodeValidationFailed
	case errors.Is(err, types.ErrNotConnected):
		return http.StatusUnauthorized, CodeNotConnected
	case errors.Is(err, types.ErrInvalidTransition):
		return http.StatusConflict, CodeInvalidTransition
	case errors.Is(err, types.ErrAlreadyInProgress):
		return http.StatusConflict, CodeAlreadyInProgress
	case errors.Is(err, types.ErrConnectionInProgress):
		return http.StatusConflict, CodeConnectionInProgress
	case errors.Is(err, types.ErrMilestonePaid):
		return http.StatusConflict, CodeMilestonePaid
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, types.ErrMilestoneNotFound):
		return http.StatusNotFound, CodeMilestoneNotFound
	case errors.Is(err, service.ErrArchiveDisabled):
		return http.StatusNotImplemented, CodeArchiveDisabled
	default:
		return http.StatusInternalServerError, CodeFail
	}
}
