package handler

import (
	"collabpay/api/response"
	"collabpay/service"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessionSvc *service.SessionService
}

func NewSessionHandler(sessionSvc *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// Connect 模拟钱包连接
func (h *SessionHandler) Connect(c *gin.Context) {
	identity, err := h.sessionSvc.Connect(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, identity)
}

// Disconnect 断开连接，会话内合同全部丢弃
func (h *SessionHandler) Disconnect(c *gin.Context) {
	h.sessionSvc.Disconnect()
	response.Success(c, gin.H{"connected": false})
}

func (h *SessionHandler) Current(c *gin.Context) {
	identity, ok := h.sessionSvc.Identity()
	if !ok {
		response.Success(c, gin.H{"connected": false})
		return
	}
	response.Success(c, gin.H{"connected": true, "identity": identity})
}
