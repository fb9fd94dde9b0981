package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the learner-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Listing and details
	courseGroup.Get("/list", middleware.JWTMiddleware, validators.CourseList(), controllers.ListCourses)
	courseGroup.Get("/:id", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseDetails)

	// Enrollment and lesson completion
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.CourseID(), controllers.EnrollInCourse)
	courseGroup.Post("/:course_id/lesson/:lesson_id/complete", middleware.JWTMiddleware, validators.CourseIDParam(), validators.LessonIDParam(), controllers.CompleteLesson)

	// Assignments and assessments
	courseGroup.Get("/:id/assignments", middleware.JWTMiddleware, validators.CourseID(), controllers.ListCourseAssignments)
	courseGroup.Get("/:id/assessments", middleware.JWTMiddleware, validators.CourseID(), controllers.ListCourseAssessments)

	assignmentGroup := app.Group("/assignment")
	assignmentGroup.Post("/:id/submit", middleware.JWTMiddleware, validators.AssignmentID(), validators.SubmitAssignment(), controllers.SubmitAssignment)

	assessmentGroup := app.Group("/assessment")
	assessmentGroup.Get("/:id", middleware.JWTMiddleware, validators.AssessmentID(), controllers.GetAssessment)
	assessmentGroup.Post("/:id/submit", middleware.JWTMiddleware, validators.AssessmentID(), validators.SubmitAssessment(), controllers.SubmitAssessment)

	// Attendance views
	attendanceGroup := app.Group("/attendance")
	attendanceGroup.Get("/", middleware.JWTMiddleware, validators.AttendanceList(), controllers.ListAttendance)
	attendanceGroup.Get("/summary", middleware.JWTMiddleware, validators.AttendanceList(), controllers.GetAttendanceSummary)

	// Certificate request
	courseGroup.Post("/:course_id/certificate/request", middleware.JWTMiddleware, validators.CourseIDParam(), controllers.RequestCertificate)

	// Per-user views
	userGroup := app.Group("/user")
	userGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetMyEnrollments)
	userGroup.Get("/points", middleware.JWTMiddleware, controllers.GetMyPoints)
	userGroup.Get("/certificates", middleware.JWTMiddleware, controllers.GetMyCertificates)
	userGroup.Get("/assessment/results", middleware.JWTMiddleware, controllers.GetMyResults)
}
