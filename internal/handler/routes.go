package handler

import "github.com/gin-gonic/gin"

func RegisterRoutes(r gin.IRouter, windows *WindowHandler, schedules *ScheduleHandler) {
	v1 := r.Group("/api/v1")
	{
		v1.POST("/dates/validate", windows.HandleValidateDates)
		v1.POST("/intervals/resolve", windows.HandleResolveInterval)
		v1.POST("/windows/sequence", windows.HandleGenerateSequence)
		v1.POST("/records/filter", windows.HandleFilterRecords)

		v1.POST("/entities/schedule", schedules.HandleScheduleEntities)
		v1.PUT("/entities/:id/override", schedules.HandlePutOverride)
		v1.DELETE("/entities/:id/override", schedules.HandleDeleteOverride)
		v1.DELETE("/slices/:task_id", schedules.HandleCancelSlice)
	}
}
