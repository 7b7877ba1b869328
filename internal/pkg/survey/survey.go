// Package survey reads membership facts out of a member's survey answers.
package survey

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/kmcc-connect/kmcc-backend/app/models"
)

// Question texts as they appear in the membership survey.
const (
	QuestionNorkaAvailable = "Valid Norka ID Available?"
	QuestionNorkaExpiry    = "If Yes,Norka ID Expiry Date"
	QuestionSaudiNational  = "Joined in Saudi National Security Scheme?"
	QuestionRiyadhCentral  = "Joined in Riyadh Central Security Scheme?"
	QuestionPravasiWelfare = "Are you a member of Pravasi Welfare?"

	NotProvided = "Not provided"

	norkaFragment = "norka"
)

type Source interface {
	QuestionExists(ctx context.Context, text string) (bool, error)
	AnswersMatching(ctx context.Context, userID uint, fragment string) ([]models.UserSurveyAnswer, error)
	Answer(ctx context.Context, userID uint, text string) (*string, error)
}

type Lookup struct {
	src Source
}

func NewLookup(src Source) *Lookup {
	return &Lookup{src: src}
}

// Norka holds a member's NORKA registration answers.
type Norka struct {
	HasNorkaID        string `json:"hasNorkaId"`
	NorkaIDExpiryDate string `json:"norkaIdExpiryDate"`
}

// Norka reports the member's NORKA answers. ok is false when no survey asks
// about a NORKA ID at all.
func (l *Lookup) Norka(ctx context.Context, userID uint) (details Norka, ok bool, err error) {
	asked, err := l.src.QuestionExists(ctx, QuestionNorkaAvailable)
	if err != nil || !asked {
		return Norka{}, false, err
	}
	answers, err := l.src.AnswersMatching(ctx, userID, norkaFragment)
	if err != nil {
		return Norka{}, false, err
	}
	return norkaFromAnswers(answers), true, nil
}

func norkaFromAnswers(answers []models.UserSurveyAnswer) Norka {
	n := Norka{HasNorkaID: NotProvided, NorkaIDExpiryDate: NotProvided}
	for _, a := range answers {
		if a.Question == nil {
			continue
		}
		text := strings.ToLower(a.Question.Text)
		switch {
		case strings.Contains(text, "valid norka id available"):
			if strings.EqualFold(strings.TrimSpace(a.Answer), "yes") {
				n.HasNorkaID = "Yes"
			} else {
				n.HasNorkaID = "No"
			}
		case strings.Contains(text, "norka id expiry date"):
			if v := strings.TrimSpace(a.Answer); v != "" {
				n.NorkaIDExpiryDate = v
			}
		}
	}
	return n
}

// SecuritySchemes holds the raw answers to the two security scheme questions.
// A nil field means the member did not answer.
type SecuritySchemes struct {
	JoinedSaudiNationalSecurity *string `json:"joinedSaudiNationalSecurity"`
	JoinedRiyadhCentralSecurity *string `json:"joinedRiyadhCentralSecurity"`
}

func (l *Lookup) SecuritySchemes(ctx context.Context, userID uint) (SecuritySchemes, error) {
	var out SecuritySchemes
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.JoinedSaudiNationalSecurity, err = l.src.Answer(gctx, userID, QuestionSaudiNational)
		return err
	})
	g.Go(func() (err error) {
		out.JoinedRiyadhCentralSecurity, err = l.src.Answer(gctx, userID, QuestionRiyadhCentral)
		return err
	})
	if err := g.Wait(); err != nil {
		return SecuritySchemes{}, err
	}
	return out, nil
}

type PravasiWelfare struct {
	IsPravasiWelfareMember *string `json:"isPravasiWelfareMember"`
}

func (l *Lookup) PravasiWelfare(ctx context.Context, userID uint) (PravasiWelfare, error) {
	answer, err := l.src.Answer(ctx, userID, QuestionPravasiWelfare)
	if err != nil {
		return PravasiWelfare{}, err
	}
	return PravasiWelfare{IsPravasiWelfareMember: answer}, nil
}
