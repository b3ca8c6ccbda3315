package controller

import (
	"classroom_portal/internal/service"
	"classroom_portal/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ClassroomController struct {
	Service *service.ClassroomService
}

func NewClassroomController(svc *service.ClassroomService) *ClassroomController {
	return &ClassroomController{Service: svc}
}

// @Summary 创建课堂
// @Tags 课堂管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateClassroomRequest true "课堂信息"
// @Success 201 {object} util.Response{data=model.Classroom}
// @Failure 400 {object} util.Response
// @Router /api/admin/classrooms [post]
func (c *ClassroomController) CreateClassroom(ctx *gin.Context) {
	var req service.CreateClassroomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, util.ValidationMessage(err))
		return
	}
	classroom, err := c.Service.CreateClassroom(ctx.Request.Context(), req)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Created(ctx, classroom)
}

// @Summary 课堂选课
// @Tags 课堂管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code path string true "课堂编号"
// @Param body body service.EnrollRequest true "学生ID列表"
// @Success 200 {object} util.Response{data=service.EnrollResult}
// @Router /api/admin/classrooms/{code}/students [post]
func (c *ClassroomController) EnrollStudents(ctx *gin.Context) {
	var req service.EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, util.ValidationMessage(err))
		return
	}
	res, err := c.Service.EnrollStudents(ctx.Request.Context(), ctx.Param("code"), req)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary 上传课堂Logo
// @Tags 课堂管理
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param code path string true "课堂编号"
// @Param file formData file true "图片，不超过2MB"
// @Success 200 {object} util.Response
// @Router /api/admin/classrooms/{code}/logo [post]
func (c *ClassroomController) UploadLogo(ctx *gin.Context) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, util.MaxLogoSize+1<<20)
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		util.BadRequest(ctx, "could not read file")
		return
	}
	defer file.Close()

	url, err := c.Service.UploadLogo(ctx.Request.Context(), ctx.Param("code"), fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"logo": url})
}
