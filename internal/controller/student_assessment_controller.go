package controller

import (
	"classroom_portal/internal/middleware"
	"classroom_portal/internal/service"
	"classroom_portal/internal/util"

	"github.com/gin-gonic/gin"
)

type StudentAssessmentController struct {
	Assessments *service.AssessmentService
	Submissions *service.SubmissionService
}

func NewStudentAssessmentController(assessments *service.AssessmentService, submissions *service.SubmissionService) *StudentAssessmentController {
	return &StudentAssessmentController{Assessments: assessments, Submissions: submissions}
}

// @Summary 学生端：课堂测评列表
// @Tags 课堂测评
// @Produce json
// @Security BearerAuth
// @Param code path string true "课堂编号 CLS-YYYYMMDD-XXXX"
// @Success 200 {object} util.Response{data=[]service.AssessmentSummary}
// @Failure 400,401,403,404 {object} util.Response
// @Router /api/student/classrooms/{code}/assessments [get]
func (c *StudentAssessmentController) ListAssessments(ctx *gin.Context) {
	list, err := c.Assessments.ListAssessments(ctx.Request.Context(), middleware.GetAccess(ctx))
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary 学生端：获取测评（不含正确答案）
// @Tags 课堂测评
// @Produce json
// @Security BearerAuth
// @Param code path string true "课堂编号"
// @Param id path int true "测评ID"
// @Success 200 {object} util.Response{data=service.AssessmentView}
// @Failure 400,401,403,404 {object} util.Response
// @Router /api/student/classrooms/{code}/assessments/{id} [get]
func (c *StudentAssessmentController) GetAssessment(ctx *gin.Context) {
	id, err := util.ParseID(ctx.Param("id"), "assessment id")
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	view, err := c.Assessments.GetAssessment(ctx.Request.Context(), middleware.GetAccess(ctx), id)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary 学生端：分节状态与服务器时间
// @Tags 课堂测评
// @Produce json
// @Security BearerAuth
// @Param code path string true "课堂编号"
// @Param id path int true "测评ID"
// @Param sectionId path int true "分节ID"
// @Success 200 {object} util.Response{data=service.SectionStatus}
// @Failure 400,401,403,404 {object} util.Response
// @Router /api/student/classrooms/{code}/assessments/{id}/sections/{sectionId}/status [get]
func (c *StudentAssessmentController) SectionStatus(ctx *gin.Context) {
	id, err := util.ParseID(ctx.Param("id"), "assessment id")
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	sectionID, err := util.ParseID(ctx.Param("sectionId"), "section id")
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	status, err := c.Assessments.SectionStatus(ctx.Request.Context(), middleware.GetAccess(ctx), id, sectionID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, status)
}

// @Summary 学生端：提交分节答案
// @Description 选择题自动评分，简答题留待教师评分
// @Tags 课堂测评
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code path string true "课堂编号"
// @Param body body service.SubmitAnswersRequest true "答案"
// @Success 200 {object} util.Response{data=service.SubmissionResult}
// @Failure 400,401,403,409,422,500 {object} util.Response
// @Router /api/student/classrooms/{code}/submissions [post]
func (c *StudentAssessmentController) Submit(ctx *gin.Context) {
	var req service.SubmitAnswersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, util.ValidationMessage(err))
		return
	}
	result, err := c.Submissions.SubmitAnswers(ctx.Request.Context(), middleware.GetAccess(ctx), req)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 学生端：我的测评结果
// @Tags 课堂测评
// @Produce json
// @Security BearerAuth
// @Param code path string true "课堂编号"
// @Param id path int true "测评ID"
// @Success 200 {object} util.Response{data=[]model.SectionSubmission}
// @Failure 400,401,403,404 {object} util.Response
// @Router /api/student/classrooms/{code}/assessments/{id}/results [get]
func (c *StudentAssessmentController) MyResults(ctx *gin.Context) {
	id, err := util.ParseID(ctx.Param("id"), "assessment id")
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	subs, err := c.Submissions.MySubmissions(ctx.Request.Context(), middleware.GetAccess(ctx), id)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, subs)
}
