package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/cv-tailor/internal/logger"
)

// MaxRenderedSkills is how many skills make it into a synthesized CV.
const MaxRenderedSkills = 10

// PresentMarker replaces the end date of an ongoing position.
const PresentMarker = "Present"

type Profile struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Headline  string `json:"headline"`
	Summary   string `json:"summary"`
	Location  string `json:"location"`
	Industry  string `json:"industry"`
}

type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type Education struct {
	School    string `json:"school"`
	Degree    string `json:"degree"`
	Field     string `json:"field"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Grade     string `json:"grade"`
}

type Skill struct {
	Name         string `json:"name"`
	Endorsements int    `json:"endorsements"`
}

// ProfileSource is an external professional-network profile. Implementations
// must return ErrSourceUnavailable when the account cannot be read.
type ProfileSource interface {
	IsConnected() bool
	GetProfile(ctx context.Context) (*Profile, error)
	GetExperience(ctx context.Context) ([]Experience, error)
	GetEducation(ctx context.Context) ([]Education, error)
	GetSkills(ctx context.Context) ([]Skill, error)
}

// ProfileData is everything a synthesized CV is rendered from.
type ProfileData struct {
	Profile    Profile
	Experience []Experience
	Education  []Education
	Skills     []Skill
}

type SynthesizerService interface {
	Synthesize(ctx context.Context, source ProfileSource) (string, error)
}

type synthesizerService struct {
	logger *zap.Logger
}

func NewSynthesizerService(log *zap.Logger) SynthesizerService {
	return &synthesizerService{logger: logger.OrNop(log).Named("synthesizer")}
}

// Synthesize implements SynthesizerService.
func (s *synthesizerService) Synthesize(ctx context.Context, source ProfileSource) (string, error) {
	if source == nil || !source.IsConnected() {
		return "", ErrSourceUnavailable
	}

	data, err := fetchProfileData(ctx, source)
	if err != nil {
		s.logger.Warn("failed to fetch profile", zap.Error(err))
		return "", err
	}

	s.logger.Info("synthesizing cv",
		zap.Int("experience", len(data.Experience)),
		zap.Int("education", len(data.Education)),
		zap.Int("skills", len(data.Skills)),
	)

	return RenderProfileCV(data), nil
}

func fetchProfileData(ctx context.Context, source ProfileSource) (ProfileData, error) {
	var data ProfileData

	profile, err := source.GetProfile(ctx)
	if err != nil {
		return data, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return data, ErrSourceUnavailable
	}
	data.Profile = *profile

	if data.Experience, err = source.GetExperience(ctx); err != nil {
		return data, fmt.Errorf("failed to get experience: %w", err)
	}
	if data.Education, err = source.GetEducation(ctx); err != nil {
		return data, fmt.Errorf("failed to get education: %w", err)
	}
	if data.Skills, err = source.GetSkills(ctx); err != nil {
		return data, fmt.Errorf("failed to get skills: %w", err)
	}

	return data, nil
}

// RenderProfileCV lays the profile out as plain text. Entries keep the order
// they were supplied in.
func RenderProfileCV(data ProfileData) string {
	var sb strings.Builder

	p := data.Profile
	sb.WriteString(strings.TrimSpace(p.FirstName + " " + p.LastName))
	sb.WriteString("\n")
	sb.WriteString(p.Headline)
	sb.WriteString("\n\nPROFILE\n")
	sb.WriteString(p.Summary)
	sb.WriteString("\n\nEXPERIENCE\n")

	for _, exp := range data.Experience {
		fmt.Fprintf(&sb, "\n%s at %s\n%s\n%s\n%s\n",
			exp.Title, exp.Company, experiencePeriod(exp), exp.Location, exp.Description)
	}

	sb.WriteString("\nEDUCATION\n")
	for _, edu := range data.Education {
		fmt.Fprintf(&sb, "\n%s in %s\n%s\n%s\n",
			edu.Degree, edu.Field, edu.School, period(edu.StartDate, edu.EndDate))
	}

	sb.WriteString("\nSKILLS\n")
	skills := data.Skills
	if len(skills) > MaxRenderedSkills {
		skills = skills[:MaxRenderedSkills]
	}
	names := make([]string, 0, len(skills))
	for _, skill := range skills {
		names = append(names, skill.Name)
	}
	sb.WriteString(strings.Join(names, ", "))

	return strings.TrimSpace(sb.String())
}

func experiencePeriod(exp Experience) string {
	if exp.EndDate == "" && exp.Current {
		return exp.StartDate + " - " + PresentMarker
	}
	return period(exp.StartDate, exp.EndDate)
}

func period(start, end string) string {
	if end == "" {
		return start
	}
	return start + " - " + end
}
