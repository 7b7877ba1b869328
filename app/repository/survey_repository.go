package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/kmcc-connect/kmcc-backend/app/models"
)

// surveyRepository implements the SurveyRepository interface
type surveyRepository struct {
	db *gorm.DB
}

// NewSurveyRepository creates a new survey repository instance
func NewSurveyRepository(db *gorm.DB) SurveyRepository {
	return &surveyRepository{db: db}
}

// QuestionExists reports whether any survey asks exactly text
func (r *surveyRepository) QuestionExists(ctx context.Context, text string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SurveyQuestion{}).Where("text = ?", text).Count(&count).Error
	return count > 0, err
}

// AnswersMatching returns the user's answers to questions whose text contains
// fragment, ignoring case
func (r *surveyRepository) AnswersMatching(ctx context.Context, userID uint, fragment string) ([]models.UserSurveyAnswer, error) {
	var answers []models.UserSurveyAnswer
	err := r.db.WithContext(ctx).
		Preload("Question").
		Joins("JOIN survey_questions ON survey_questions.id = user_survey_answers.question_id").
		Where("user_survey_answers.user_id = ?", userID).
		Where("LOWER(survey_questions.text) LIKE ?", "%"+strings.ToLower(fragment)+"%").
		Order("user_survey_answers.id ASC").
		Find(&answers).Error
	return answers, err
}

// Answer returns the user's answer to the question with exactly text, or nil
// when the user has not answered it
func (r *surveyRepository) Answer(ctx context.Context, userID uint, text string) (*string, error) {
	var answer models.UserSurveyAnswer
	err := r.db.WithContext(ctx).
		Joins("JOIN survey_questions ON survey_questions.id = user_survey_answers.question_id").
		Where("user_survey_answers.user_id = ? AND survey_questions.text = ?", userID, text).
		Order("user_survey_answers.id ASC").
		First(&answer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &answer.Answer, nil
}
