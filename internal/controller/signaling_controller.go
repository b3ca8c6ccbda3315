package controller

import (
	"classroom_portal/internal/middleware"
	"classroom_portal/internal/service"
	"classroom_portal/internal/util"

	"github.com/gin-gonic/gin"
)

type SignalingController struct {
	Service *service.SignalingService
}

func NewSignalingController(svc *service.SignalingService) *SignalingController {
	return &SignalingController{Service: svc}
}

// @Summary 视频课堂信令配置
// @Description 返回信令服务器地址与 ICE 服务器列表，学生与教师共用
// @Tags 视频课堂
// @Produce json
// @Security BearerAuth
// @Param code path string true "课堂编号"
// @Success 200 {object} util.Response{data=service.SignalingBootstrap}
// @Router /api/student/classrooms/{code}/signaling [get]
// @Router /api/teacher/classrooms/{code}/signaling [get]
func (c *SignalingController) Bootstrap(ctx *gin.Context) {
	util.Success(ctx, c.Service.Bootstrap(middleware.GetAccess(ctx)))
}
