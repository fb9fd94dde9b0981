package utils

import (
	"log"
	"time"

	"lms/database"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/robfig/cron/v3"
)

// InitializeReminderScheduler sets up the daily assignment due-date reminder job
func InitializeReminderScheduler() *cron.Cron {
	log.Println("[REMINDER-SCHEDULER] Initializing assignment reminder scheduler...")

	c := cron.New()

	// Run daily at 8 AM to remind students about assignments due tomorrow
	c.AddFunc("0 8 * * *", func() {
		log.Println("[REMINDER-SCHEDULER] Running daily assignment reminder check...")
		ProcessDueAssignments()
	})

	c.Start()
	log.Println("[REMINDER-SCHEDULER] Scheduler started - runs daily at 8 AM")
	return c
}

// ProcessDueAssignments notifies enrolled students who have not submitted an
// assignment that is due within the next day. Each assignment is reminded
// about once.
func ProcessDueAssignments() {
	db := database.Database.Db
	now := time.Now()
	tomorrow := now.AddDate(0, 0, 1)

	var dueAssignments []courseModels.Assignment
	if err := db.
		Where("is_deleted = ? AND reminder_sent = ?", false, false).
		Where("due_date BETWEEN ? AND ?", now, tomorrow).
		Find(&dueAssignments).Error; err != nil {
		log.Printf("[REMINDER-SCHEDULER] Error fetching due assignments: %v", err)
		return
	}

	for _, assignment := range dueAssignments {
		var course courseModels.Course
		if err := db.Where("id = ? AND is_deleted = ?", assignment.CourseID, false).First(&course).Error; err != nil {
			continue
		}

		var enrollments []courseModels.Enrollment
		if err := db.Where("course_id = ? AND is_deleted = ?", assignment.CourseID, false).Find(&enrollments).Error; err != nil {
			continue
		}

		for _, enrollment := range enrollments {
			// Skip students who already submitted
			var submission courseModels.Submission
			if err := db.Where("assignment_id = ? AND student_id = ? AND is_deleted = ?",
				assignment.ID, enrollment.StudentID, false).First(&submission).Error; err == nil {
				continue
			}

			Notify(enrollment.StudentID, "Assignment Due Tomorrow",
				"'"+assignment.Title+"' in '"+course.Title+"' is due tomorrow.",
				"/assignments")

			var student models.User
			if err := db.Where("id = ? AND is_deleted = ?", enrollment.StudentID, false).First(&student).Error; err == nil {
				SendAssignmentReminderEmail(student.Email, student.Name, assignment.Title, course.Title)
			}
		}

		db.Model(&courseModels.Assignment{}).Where("id = ?", assignment.ID).Update("reminder_sent", true)
		log.Printf("[REMINDER-SCHEDULER] Reminders sent for assignment %d (%s)", assignment.ID, assignment.Title)
	}
}
