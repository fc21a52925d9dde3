package router

import (
	"collabpay/api/handler"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, sessionH *handler.SessionHandler, contractH *handler.ContractHandler, eventH *handler.EventHandler) {
	api := r.Group("/api/v1")
	{
		session := api.Group("/session")
		{
			session.GET("", sessionH.Current)
			session.POST("/connect", sessionH.Connect)
			session.POST("/disconnect", sessionH.Disconnect)
		}
		contract := api.Group("/contract")
		{
			contract.POST("", contractH.Create)
			contract.POST("/validate", contractH.Validate)
			contract.GET("/list", contractH.List)
			contract.GET("/:id", contractH.Get)
			contract.POST("/:id/deploy", contractH.Deploy)
			contract.POST("/:id/complete", contractH.Complete)
			contract.POST("/:id/milestone/:index/release", contractH.Release)
		}
		api.GET("/dashboard", contractH.Dashboard)
		api.GET("/archive", contractH.Archive)
		api.GET("/events", eventH.Stream)
	}
}
