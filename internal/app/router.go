package app

import (
	"classroom_portal/docs"
	"classroom_portal/internal/config"
	"classroom_portal/internal/middleware"
	"classroom_portal/internal/model"
	"classroom_portal/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")

	// 1. 公共路由(无需登录)
	api.GET("/health", c.health.HealthCheck)
	api.GET("/metrics", monitoring.PrometheusHandler())

	// 2. 课堂路由：门禁按 编号格式 → 课堂 → 身份 → 成员 → 课表 的顺序校验
	classroomAuth := middleware.TryAuthMiddleware(cfg.JWT.Secret)
	a.registerStudentRoutes(api, c, s, classroomAuth)
	a.registerTeacherRoutes(api, c, s, classroomAuth)

	// 3. 管理员相关接口
	a.registerAdminRoutes(api, c, cfg)
}

func (a *App) registerStudentRoutes(api *gin.RouterGroup, c *controllers, s *services, auth gin.HandlerFunc) {
	student := api.Group("/student/classrooms/:code")
	student.Use(auth, middleware.ClassroomGate(s.access, model.Student))
	{
		student.GET("/assessments", c.studentAssessment.ListAssessments)
		student.GET("/assessments/:id", c.studentAssessment.GetAssessment)
		student.GET("/assessments/:id/sections/:sectionId/status", c.studentAssessment.SectionStatus)
		student.GET("/assessments/:id/results", c.studentAssessment.MyResults)
		student.POST("/submissions", c.studentAssessment.Submit)
		student.GET("/signaling", c.signaling.Bootstrap)
	}
}

func (a *App) registerTeacherRoutes(api *gin.RouterGroup, c *controllers, s *services, auth gin.HandlerFunc) {
	teacher := api.Group("/teacher/classrooms/:code")
	teacher.Use(auth, middleware.ClassroomGate(s.access, model.Teacher))
	{
		teacher.GET("/assessments", c.teacherAssessment.ListAssessments)
		teacher.POST("/assessments", c.teacherAssessment.CreateAssessment)
		teacher.GET("/assessments/:id", c.teacherAssessment.GetAssessment)
		teacher.PUT("/assessments/:id/sections/:sectionId/window", c.teacherAssessment.RescheduleSection)
		teacher.GET("/assessments/:id/sections/:sectionId/submissions", c.teacherAssessment.ListSubmissions)
		teacher.PATCH("/answers/:answerId/grade", c.teacherAssessment.GradeAnswer)
		teacher.GET("/signaling", c.signaling.Bootstrap)
	}
}

func (a *App) registerAdminRoutes(api *gin.RouterGroup, c *controllers, cfg *config.Config) {
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg.JWT.Secret), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/timetable", c.timetable.GetTimetable)
		admin.PUT("/timetable", c.timetable.SaveTimetable)
		admin.GET("/notifications", c.timetable.ListNotifications)

		admin.POST("/classrooms", c.classroom.CreateClassroom)
		admin.POST("/classrooms/:code/students", c.classroom.EnrollStudents)
		admin.POST("/classrooms/:code/logo", c.classroom.UploadLogo)
	}
}
