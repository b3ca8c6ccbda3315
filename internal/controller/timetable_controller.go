package controller

import (
	"classroom_portal/internal/service"
	"classroom_portal/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type TimetableController struct {
	Service *service.TimetableService
}

func NewTimetableController(svc *service.TimetableService) *TimetableController {
	return &TimetableController{Service: svc}
}

// @Summary 获取课表
// @Tags 课表管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.TimetableResult}
// @Router /api/admin/timetable [get]
func (c *TimetableController) GetTimetable(ctx *gin.Context) {
	res, err := c.Service.GetTimetable(ctx.Request.Context())
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary 发布课表（整体替换）
// @Tags 课表管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.SaveTimetableRequest true "课表条目"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/admin/timetable [put]
func (c *TimetableController) SaveTimetable(ctx *gin.Context) {
	var req service.SaveTimetableRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, util.ValidationMessage(err))
		return
	}
	n, err := c.Service.SaveTimetable(ctx.Request.Context(), req)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"saved": n})
}

// @Summary 通知列表
// @Tags 课表管理
// @Produce json
// @Security BearerAuth
// @Param limit query int false "数量，默认20，最大100"
// @Success 200 {object} util.Response{data=[]model.Notification}
// @Router /api/admin/notifications [get]
func (c *TimetableController) ListNotifications(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "0"))
	list, err := c.Service.ListNotifications(ctx.Request.Context(), limit)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, list)
}
