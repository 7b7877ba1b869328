package survey

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmcc-connect/kmcc-backend/app/models"
)

type memorySource struct {
	questions []string
	answers   map[string]string
	err       error
}

func (m memorySource) QuestionExists(ctx context.Context, text string) (bool, error) {
	for _, q := range m.questions {
		if q == text {
			return true, m.err
		}
	}
	return false, m.err
}

func (m memorySource) AnswersMatching(ctx context.Context, userID uint, fragment string) ([]models.UserSurveyAnswer, error) {
	var out []models.UserSurveyAnswer
	for _, q := range m.questions {
		a, ok := m.answers[q]
		if ok && strings.Contains(strings.ToLower(q), fragment) {
			out = append(out, models.UserSurveyAnswer{UserID: userID, Answer: a, Question: &models.SurveyQuestion{Text: q}})
		}
	}
	return out, m.err
}

func (m memorySource) Answer(ctx context.Context, userID uint, text string) (*string, error) {
	if m.err != nil {
		return nil, m.err
	}
	a, ok := m.answers[text]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

var allQuestions = []string{
	QuestionNorkaAvailable, QuestionNorkaExpiry, QuestionSaudiNational, QuestionRiyadhCentral, QuestionPravasiWelfare,
}

func TestNorka(t *testing.T) {
	ctx := context.Background()

	t.Run("no survey asks", func(t *testing.T) {
		_, ok, err := NewLookup(memorySource{}).Norka(ctx, 1)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unanswered", func(t *testing.T) {
		n, ok, err := NewLookup(memorySource{questions: allQuestions}).Norka(ctx, 1)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, Norka{HasNorkaID: NotProvided, NorkaIDExpiryDate: NotProvided}, n)
	})

	t.Run("answered", func(t *testing.T) {
		src := memorySource{questions: allQuestions, answers: map[string]string{
			QuestionNorkaAvailable: "Yes",
			QuestionNorkaExpiry:    "2026-01-31",
		}}
		n, _, err := NewLookup(src).Norka(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, Norka{HasNorkaID: "Yes", NorkaIDExpiryDate: "2026-01-31"}, n)
	})

	t.Run("anything but yes is no", func(t *testing.T) {
		src := memorySource{questions: allQuestions, answers: map[string]string{QuestionNorkaAvailable: "maybe"}}
		n, _, err := NewLookup(src).Norka(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "No", n.HasNorkaID)
	})
}

func TestSecuritySchemesAndWelfare(t *testing.T) {
	ctx := context.Background()
	src := memorySource{questions: allQuestions, answers: map[string]string{
		QuestionSaudiNational:  "yes",
		QuestionPravasiWelfare: "no",
	}}
	l := NewLookup(src)

	s, err := l.SecuritySchemes(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, s.JoinedSaudiNationalSecurity)
	assert.Equal(t, "yes", *s.JoinedSaudiNationalSecurity)
	assert.Nil(t, s.JoinedRiyadhCentralSecurity)

	p, err := l.PravasiWelfare(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, p.IsPravasiWelfareMember)
	assert.Equal(t, "no", *p.IsPravasiWelfareMember)
}

func TestLookupPropagatesErrors(t *testing.T) {
	ctx := context.Background()
	l := NewLookup(memorySource{err: errors.New("connection reset")})

	_, _, err := l.Norka(ctx, 1)
	assert.Error(t, err)
	_, err = l.SecuritySchemes(ctx, 1)
	assert.Error(t, err)
	_, err = l.PravasiWelfare(ctx, 1)
	assert.Error(t, err)
}
