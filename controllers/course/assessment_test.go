package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"lms/config"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAssessment(t *testing.T, course courseModels.Course, marks []int) (courseModels.Assessment, []courseModels.Question) {
	t.Helper()
	db := database.Database.Db

	assessment := courseModels.Assessment{
		CourseID:    course.ID,
		InstituteID: course.InstituteID,
		Title:       "Checkpoint Quiz",
	}
	require.NoError(t, db.Create(&assessment).Error)

	questions := make([]courseModels.Question, 0, len(marks))
	for i, m := range marks {
		question := courseModels.Question{
			AssessmentID:  assessment.ID,
			Text:          "Question",
			Options:       `["a","b","c"]`,
			CorrectOption: i % 3,
			Marks:         m,
			OrderIndex:    i,
		}
		require.NoError(t, db.Create(&question).Error)
		questions = append(questions, question)
	}
	return assessment, questions
}

func submitAnswers(t *testing.T, app *fiber.App, assessmentID uint, token string, answers map[string]int) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(map[string]interface{}{"answers": answers}))

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/assessment/%d/submit", assessmentID), &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestAssessmentAttemptLifecycle(t *testing.T) {
	app := setupTestApp(t)
	db := database.Database.Db

	institute := models.Institute{Name: "Acme", Code: "ACME" + uuidSuffix(), Status: "ACTIVE"}
	require.NoError(t, db.Create(&institute).Error)

	student, token := seedStudent(t, institute.ID)
	course, _ := seedPublishedCourse(t, institute.ID, 1)

	status, _ := doRequest(t, app, http.MethodPost, enrollPath(course.ID), token)
	require.Equal(t, http.StatusOK, status)

	assessment, questions := seedAssessment(t, course, []int{1, 1})

	// Opening the assessment starts an attempt and hides the answer key
	status, body := doRequest(t, app, http.MethodGet, fmt.Sprintf("/assessment/%d", assessment.ID), token)
	require.Equal(t, http.StatusOK, status)
	views := body["data"].(map[string]interface{})["questions"].([]interface{})
	require.Len(t, views, 2)
	for _, v := range views {
		assert.NotContains(t, v.(map[string]interface{}), "correct_option")
	}

	var result courseModels.AssessmentResult
	require.NoError(t, db.Where("assessment_id = ? AND student_id = ?", assessment.ID, student.ID).First(&result).Error)
	assert.Equal(t, courseModels.ResultInProgress, result.Status)
	assert.Equal(t, 0, result.Score)

	// Reopening does not stack attempts
	status, _ = doRequest(t, app, http.MethodGet, fmt.Sprintf("/assessment/%d", assessment.ID), token)
	require.Equal(t, http.StatusOK, status)
	var attempts int64
	db.Model(&courseModels.AssessmentResult{}).
		Where("assessment_id = ? AND student_id = ?", assessment.ID, student.ID).Count(&attempts)
	assert.Equal(t, int64(1), attempts)

	// A fully correct submission grades the open attempt in place
	answers := map[string]int{
		fmt.Sprint(questions[0].ID): questions[0].CorrectOption,
		fmt.Sprint(questions[1].ID): questions[1].CorrectOption,
	}
	status, _ = submitAnswers(t, app, assessment.ID, token, answers)
	require.Equal(t, http.StatusOK, status)

	require.NoError(t, db.Where("assessment_id = ? AND student_id = ?", assessment.ID, student.ID).First(&result).Error)
	assert.Equal(t, courseModels.ResultPassed, result.Status)
	assert.Equal(t, 2, result.Score)
	assert.Equal(t, 2, result.TotalMarks)
	db.Model(&courseModels.AssessmentResult{}).
		Where("assessment_id = ? AND student_id = ?", assessment.ID, student.ID).Count(&attempts)
	assert.Equal(t, int64(1), attempts)

	// All wrong lands below the threshold
	wrong := map[string]int{
		fmt.Sprint(questions[0].ID): questions[0].CorrectOption + 1,
		fmt.Sprint(questions[1].ID): questions[1].CorrectOption + 1,
	}
	status, _ = submitAnswers(t, app, assessment.ID, token, wrong)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, db.Where("assessment_id = ? AND student_id = ?", assessment.ID, student.ID).First(&result).Error)
	assert.Equal(t, courseModels.ResultFailed, result.Status)
	assert.Equal(t, 0, result.Score)

	// Without a pass threshold the attempt is only marked completed
	config.AppConfig.AssessmentPassPercent = 0
	status, _ = submitAnswers(t, app, assessment.ID, token, answers)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, db.Where("assessment_id = ? AND student_id = ?", assessment.ID, student.ID).First(&result).Error)
	assert.Equal(t, courseModels.ResultCompleted, result.Status)
	assert.Equal(t, 2, result.Score)
}

func TestGetAssessmentNoAttemptWithoutEnrollment(t *testing.T) {
	app := setupTestApp(t)
	db := database.Database.Db

	institute := models.Institute{Name: "Acme", Code: "ACME" + uuidSuffix(), Status: "ACTIVE"}
	require.NoError(t, db.Create(&institute).Error)

	student, token := seedStudent(t, institute.ID)
	course, _ := seedPublishedCourse(t, institute.ID, 1)
	assessment, _ := seedAssessment(t, course, []int{1})

	status, _ := doRequest(t, app, http.MethodGet, fmt.Sprintf("/assessment/%d", assessment.ID), token)
	require.Equal(t, http.StatusOK, status)

	var attempts int64
	db.Model(&courseModels.AssessmentResult{}).
		Where("assessment_id = ? AND student_id = ?", assessment.ID, student.ID).Count(&attempts)
	assert.Equal(t, int64(0), attempts)
}
