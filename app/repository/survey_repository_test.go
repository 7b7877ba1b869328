package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kmcc-connect/kmcc-backend/app/models"
)

func seedAnswer(t *testing.T, db *gorm.DB, userID uint, q *models.SurveyQuestion, answer string) {
	t.Helper()
	require.NoError(t, db.Create(&models.UserSurveyAnswer{UserID: userID, QuestionID: q.ID, Answer: answer}).Error)
}

func TestSurveyAnswers(t *testing.T) {
	db, repos := setup(t)
	ctx := context.Background()
	user := seedUser(t, db, "amina")
	other := seedUser(t, db, "bilal")

	survey := &models.Survey{Title: "Membership 2024"}
	require.NoError(t, db.Create(survey).Error)
	hasID := &models.SurveyQuestion{SurveyID: survey.ID, Text: "Valid Norka ID Available?"}
	expiry := &models.SurveyQuestion{SurveyID: survey.ID, Text: "If Yes,Norka ID Expiry Date"}
	welfare := &models.SurveyQuestion{SurveyID: survey.ID, Text: "Are you a member of Pravasi Welfare?"}
	require.NoError(t, db.Create(hasID).Error)
	require.NoError(t, db.Create(expiry).Error)
	require.NoError(t, db.Create(welfare).Error)

	seedAnswer(t, db, user.ID, hasID, "yes")
	seedAnswer(t, db, user.ID, expiry, "2026-01-31")
	seedAnswer(t, db, user.ID, welfare, "no")
	seedAnswer(t, db, other.ID, hasID, "no")

	exists, err := repos.Survey.QuestionExists(ctx, "Valid Norka ID Available?")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repos.Survey.QuestionExists(ctx, "valid norka id available")
	require.NoError(t, err)
	assert.False(t, exists)

	answers, err := repos.Survey.AnswersMatching(ctx, user.ID, "Norka")
	require.NoError(t, err)
	require.Len(t, answers, 2)
	require.NotNil(t, answers[0].Question)
	assert.Equal(t, "Valid Norka ID Available?", answers[0].Question.Text)
	assert.Equal(t, "2026-01-31", answers[1].Answer)

	answer, err := repos.Survey.Answer(ctx, user.ID, "Are you a member of Pravasi Welfare?")
	require.NoError(t, err)
	require.NotNil(t, answer)
	assert.Equal(t, "no", *answer)

	answer, err = repos.Survey.Answer(ctx, other.ID, "Are you a member of Pravasi Welfare?")
	require.NoError(t, err)
	assert.Nil(t, answer)
}
