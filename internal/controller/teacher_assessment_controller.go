package controller

import (
	"classroom_portal/internal/middleware"
	"classroom_portal/internal/service"
	"classroom_portal/internal/util"

	"github.com/gin-gonic/gin"
)

type TeacherAssessmentController struct {
	Assessments *service.AssessmentService
	Submissions *service.SubmissionService
}

func NewTeacherAssessmentController(assessments *service.AssessmentService, submissions *service.SubmissionService) *TeacherAssessmentController {
	return &TeacherAssessmentController{Assessments: assessments, Submissions: submissions}
}

// @Summary 教师端：课堂测评列表
// @Tags 课堂测评-教师
// @Produce json
// @Security BearerAuth
// @Param code path string true "课堂编号"
// @Success 200 {object} util.Response{data=[]service.AssessmentSummary}
// @Router /api/teacher/classrooms/{code}/assessments [get]
func (c *TeacherAssessmentController) ListAssessments(ctx *gin.Context) {
	list, err := c.Assessments.ListAssessments(ctx.Request.Context(), middleware.GetAccess(ctx))
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary 教师端：创建测评
// @Tags 课堂测评-教师
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code path string true "课堂编号"
// @Param body body service.CreateAssessmentRequest true "测评结构"
// @Success 201 {object} util.Response{data=model.Assessment}
// @Failure 400 {object} util.Response
// @Router /api/teacher/classrooms/{code}/assessments [post]
func (c *TeacherAssessmentController) CreateAssessment(ctx *gin.Context) {
	var req service.CreateAssessmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, util.ValidationMessage(err))
		return
	}
	a, err := c.Assessments.CreateAssessment(ctx.Request.Context(), middleware.GetAccess(ctx), req)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Created(ctx, a)
}

// @Summary 教师端：测评详情（含正确答案）
// @Tags 课堂测评-教师
// @Produce json
// @Security BearerAuth
// @Param code path string true "课堂编号"
// @Param id path int true "测评ID"
// @Success 200 {object} util.Response{data=model.Assessment}
// @Router /api/teacher/classrooms/{code}/assessments/{id} [get]
func (c *TeacherAssessmentController) GetAssessment(ctx *gin.Context) {
	id, err := util.ParseID(ctx.Param("id"), "assessment id")
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	a, err := c.Assessments.GetAssessmentForTeacher(ctx.Request.Context(), middleware.GetAccess(ctx), id)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, a)
}

// @Summary 教师端：调整分节时间窗口
// @Tags 课堂测评-教师
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code path string true "课堂编号"
// @Param id path int true "测评ID"
// @Param sectionId path int true "分节ID"
// @Param body body service.RescheduleRequest true "新的时间窗口"
// @Success 200 {object} util.Response{data=model.AssessmentSection}
// @Router /api/teacher/classrooms/{code}/assessments/{id}/sections/{sectionId}/window [put]
func (c *TeacherAssessmentController) RescheduleSection(ctx *gin.Context) {
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
	var req service.RescheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, util.ValidationMessage(err))
		return
	}
	sec, err := c.Assessments.RescheduleSection(ctx.Request.Context(), middleware.GetAccess(ctx), id, sectionID, req)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, sec)
}

// @Summary 教师端：分节提交列表
// @Tags 课堂测评-教师
// @Produce json
// @Security BearerAuth
// @Param code path string true "课堂编号"
// @Param id path int true "测评ID"
// @Param sectionId path int true "分节ID"
// @Success 200 {object} util.Response{data=[]model.SectionSubmission}
// @Router /api/teacher/classrooms/{code}/assessments/{id}/sections/{sectionId}/submissions [get]
func (c *TeacherAssessmentController) ListSubmissions(ctx *gin.Context) {
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
	subs, err := c.Submissions.ListSubmissions(ctx.Request.Context(), middleware.GetAccess(ctx), id, sectionID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, subs)
}

// @Summary 教师端：简答题评分
// @Tags 课堂测评-教师
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code path string true "课堂编号"
// @Param answerId path int true "答案ID"
// @Param body body service.GradeAnswerRequest true "得分"
// @Success 200 {object} util.Response{data=service.GradeAnswerResult}
// @Router /api/teacher/classrooms/{code}/answers/{answerId}/grade [patch]
func (c *TeacherAssessmentController) GradeAnswer(ctx *gin.Context) {
	answerID, err := util.ParseID(ctx.Param("answerId"), "answer id")
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	var req service.GradeAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, util.ValidationMessage(err))
		return
	}
	res, err := c.Submissions.GradeAnswer(ctx.Request.Context(), middleware.GetAccess(ctx), answerID, req)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, res)
}
