package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseManageRoutes sets up course management routes for teachers,
// managers and admins
func SetupCourseManageRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Course CRUD
	courseGroup.Post("/create", middleware.JWTMiddleware, validators.CreateCourse(), controllers.CreateCourse)
	courseGroup.Put("/:id", middleware.JWTMiddleware, validators.CourseID(), validators.UpdateCourse(), controllers.UpdateCourse)
	courseGroup.Delete("/:id", middleware.JWTMiddleware, validators.CourseID(), controllers.DeleteCourse)
	courseGroup.Post("/:id/publish", middleware.JWTMiddleware, validators.CourseID(), controllers.PublishCourse)

	// Content
	courseGroup.Post("/:id/chapter", middleware.JWTMiddleware, validators.CourseID(), validators.CreateChapter(), controllers.CreateChapter)
	courseGroup.Post("/:course_id/chapter/:chapter_id/lesson", middleware.JWTMiddleware, validators.CourseIDParam(), validators.ChapterIDParam(), validators.CreateLesson(), controllers.CreateLesson)

	// Assignments
	courseGroup.Post("/:id/assignment", middleware.JWTMiddleware, validators.CourseID(), validators.CreateAssignment(), controllers.CreateAssignment)

	assignmentGroup := app.Group("/assignment")
	assignmentGroup.Delete("/:id", middleware.JWTMiddleware, validators.AssignmentID(), controllers.DeleteAssignment)
	assignmentGroup.Get("/:id/submissions", middleware.JWTMiddleware, validators.AssignmentID(), controllers.ListSubmissions)

	submissionGroup := app.Group("/submission")
	submissionGroup.Put("/:submission_id/grade", middleware.JWTMiddleware, validators.SubmissionID(), validators.GradeSubmission(), controllers.GradeSubmission)

	// Assessments
	courseGroup.Post("/:id/assessment", middleware.JWTMiddleware, validators.CourseID(), validators.CreateAssessment(), controllers.CreateAssessment)

	assessmentGroup := app.Group("/assessment")
	assessmentGroup.Get("/:id/results", middleware.JWTMiddleware, validators.AssessmentID(), controllers.ListAssessmentResults)

	// Attendance
	attendanceGroup := app.Group("/attendance")
	attendanceGroup.Post("/mark", middleware.JWTMiddleware, validators.MarkAttendance(), controllers.MarkAttendance)

	// Certificate approval
	certGroup := app.Group("/admin/certificates")
	certGroup.Get("/pending", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleManager, models.RoleAdmin), controllers.ListPendingCertificates)

	certRequestGroup := app.Group("/admin/certificate")
	certRequestGroup.Post("/:request_id/approve", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleManager, models.RoleAdmin), validators.RequestID(), controllers.ApproveCertificate)
	certRequestGroup.Post("/:request_id/reject", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleManager, models.RoleAdmin), validators.RequestID(), controllers.RejectCertificate)
}
