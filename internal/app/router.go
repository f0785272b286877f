package app

import (
	"coachly_backend/docs"
	"coachly_backend/internal/config"
	"coachly_backend/internal/middleware"
	"coachly_backend/internal/model"
	"coachly_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, repos, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 课程目录对游客开放，登录教师可看到未上架内容
		public.GET("/courses", middleware.TryAuthMiddleware(a.Config), c.course.List)
		public.GET("/courses/:id", middleware.TryAuthMiddleware(a.Config), c.course.Get)
		public.GET("/courses/:id/batches", middleware.TryAuthMiddleware(a.Config), c.batch.ListByCourse)

		// 证书验真
		public.GET("/certificates/verify/:serial", c.certificate.Verify)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/me", c.auth.Me)
	rg.PUT("/me/profile", c.user.UpdateProfile)
	rg.POST("/me/avatar", c.user.UploadAvatar)

	// 通知
	rg.GET("/notifications", c.notification.List)
	rg.GET("/notifications/unread-count", c.notification.UnreadCount)
	rg.POST("/notifications/:id/read", c.notification.MarkRead)
	rg.POST("/notifications/read-all", c.notification.MarkAllRead)

	// 批次与报名
	rg.GET("/batches/:batchId", c.batch.Get)
	rg.GET("/batches/:batchId/seats", c.batch.SeatInfo)
	rg.POST("/batches/:batchId/enroll", c.enrollment.Enroll)
	rg.GET("/enrollments/me", c.enrollment.ListMine)

	// 批次内资源
	rg.GET("/batches/:batchId/lessons", c.lesson.ListByBatch)
	rg.GET("/batches/:batchId/assignments", c.assignment.ListByBatch)
	rg.GET("/batches/:batchId/live-classes", c.liveClass.ListByBatch)
	rg.GET("/batches/:batchId/exams", c.exam.ListByBatch)
	rg.GET("/batches/:batchId/attendance/me", c.liveClass.MyAttendance)

	// 课时与资料
	rg.GET("/lessons/:id", c.lesson.Get)
	rg.GET("/lessons/:id/materials", c.lesson.ListMaterials)

	// 作业
	rg.GET("/assignments/:id", c.assignment.Get)
	rg.POST("/assignments/:id/submit", c.assignment.Submit)
	rg.GET("/assignments/:id/submissions/me", c.assignment.GetMySubmission)

	// 直播课
	rg.GET("/live-classes/:id", c.liveClass.Get)

	// 选择题考试：取题、开始、提交、成绩
	rg.GET("/exams/:examId/questions", c.exam.Questions)
	rg.POST("/exams/:examId/start", c.attempt.Start)
	rg.POST("/exams/:examId/submit", c.attempt.Submit)
	// 单数形式的旧路径保留兼容
	rg.POST("/exam/:examId/start", c.attempt.Start)
	rg.POST("/exam/:examId/submit", c.attempt.Submit)
	rg.GET("/attempts/me", c.attempt.MyResults)

	// PDF 考试
	rg.POST("/exams/:examId/submissions", c.submission.Submit)
	rg.GET("/exams/:examId/submissions/me", c.submission.GetMine)

	// 证书
	rg.GET("/certificates/me", c.certificate.ListMine)
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.GET("/batches", c.batch.ListMine)
		teacher.GET("/batches/:batchId/enrollments", c.enrollment.ListByBatch)
		teacher.POST("/enrollments/:id/approve", c.enrollment.Approve)
		teacher.POST("/enrollments/:id/reject", c.enrollment.Reject)

		// 课时
		teacher.POST("/batches/:batchId/lessons", c.lesson.Create)
		teacher.PUT("/lessons/:id", c.lesson.Update)
		teacher.POST("/lessons/:id/publish", c.lesson.Publish)
		teacher.DELETE("/lessons/:id", c.lesson.Delete)
		teacher.POST("/lessons/:id/materials", c.lesson.AddMaterial)
		teacher.POST("/lessons/:id/materials/upload", c.lesson.UploadMaterial)
		teacher.DELETE("/materials/:id", c.lesson.DeleteMaterial)

		// 作业
		teacher.POST("/batches/:batchId/assignments", c.assignment.Create)
		teacher.PUT("/assignments/:id", c.assignment.Update)
		teacher.POST("/assignments/:id/attachment", c.assignment.AttachFile)
		teacher.POST("/assignments/:id/publish", c.assignment.Publish)
		teacher.DELETE("/assignments/:id", c.assignment.Delete)
		teacher.GET("/assignments/:id/submissions", c.assignment.ListSubmissions)
		teacher.POST("/submissions/:id/grade", c.assignment.GradeSubmission)

		// 直播课
		teacher.POST("/batches/:batchId/live-classes", c.liveClass.Create)
		teacher.PUT("/live-classes/:id", c.liveClass.Update)
		teacher.DELETE("/live-classes/:id", c.liveClass.Delete)
		teacher.POST("/live-classes/:id/attendance", c.liveClass.MarkAttendance)
		teacher.GET("/live-classes/:id/attendance", c.liveClass.ListAttendance)

		// 考试
		teacher.POST("/batches/:batchId/exams", c.exam.Create)
		teacher.GET("/exams/:id", c.exam.Get)
		teacher.PUT("/exams/:id", c.exam.Update)
		teacher.POST("/exams/:id/publish", c.exam.Publish)
		teacher.DELETE("/exams/:id", c.exam.Delete)
		teacher.POST("/exams/:id/questions", c.exam.AddQuestion)
		teacher.DELETE("/questions/:id", c.exam.DeleteQuestion)
		teacher.GET("/exams/:id/results", c.attempt.Leaderboard)
		teacher.GET("/attempts", c.attempt.Leaderboard)
		teacher.GET("/exams/:id/submissions", c.submission.ListByExam)
		teacher.POST("/exam-submissions/:id/grade", c.submission.Grade)

		// 证书
		teacher.POST("/batches/:batchId/certificates", c.certificate.Issue)
		teacher.GET("/batches/:batchId/certificates", c.certificate.ListByBatch)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/users", c.user.List)
		admin.PUT("/users/:id/disabled", c.user.SetDisabled)

		// 课程管理
		admin.POST("/courses", c.course.Create)
		admin.PUT("/courses/:id", c.course.Update)
		admin.POST("/courses/:id/publish", c.course.Publish)
		admin.POST("/courses/:id/unpublish", c.course.Unpublish)
		admin.DELETE("/courses/:id", c.course.Delete)

		// 批次管理
		admin.POST("/courses/:id/batches", c.batch.Create)
		admin.PUT("/batches/:id", c.batch.Update)
		admin.POST("/batches/:id/archive", c.batch.Archive)
		admin.DELETE("/batches/:id", c.batch.Delete)
	}
}
