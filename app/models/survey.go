package models

import "time"

// Survey groups questions members answer once.
type Survey struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	Title     string           `gorm:"type:varchar(255);not null" json:"title"`
	Questions []SurveyQuestion `gorm:"foreignKey:SurveyID" json:"questions,omitempty"`
	CreatedAt time.Time        `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName specifies the table name for the Survey model
func (Survey) TableName() string {
	return "surveys"
}

type SurveyQuestion struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	SurveyID uint   `gorm:"index;not null" json:"surveyId"`
	Text     string `gorm:"type:varchar(255);not null;index" json:"text"`
}

// TableName specifies the table name for the SurveyQuestion model
func (SurveyQuestion) TableName() string {
	return "survey_questions"
}

// UserSurveyAnswer is a member's answer to one question.
type UserSurveyAnswer struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	UserID     uint            `gorm:"not null;uniqueIndex:idx_user_survey_answers_user_question,priority:1" json:"userId"`
	QuestionID uint            `gorm:"not null;uniqueIndex:idx_user_survey_answers_user_question,priority:2;index" json:"questionId"`
	Answer     string          `gorm:"type:text" json:"answer"`
	Question   *SurveyQuestion `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName specifies the table name for the UserSurveyAnswer model
func (UserSurveyAnswer) TableName() string {
	return "user_survey_answers"
}
