package services

import (
	"fmt"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildAnalysisPrompt creates the CV versus job compatibility prompt
func (pb *PromptBuilder) BuildAnalysisPrompt(cvText, jobDescription string) string {
	return fmt.Sprintf(`You are an expert HR recruiter. Analyze this CV against the job description and provide detailed insights.

CV CONTENT:
%s

JOB DESCRIPTION:
%s

Please provide:
1. Match Score (0-100)
2. Key Strengths (list of 3-5 points)
3. Areas for Improvement (list of 3-5 points)
4. Specific Recommendations (list of 3-5 actionable suggestions)
5. Skills Gap Analysis (missing skills from job requirements)

Return your response in the following JSON format:
{
  "match_score": <integer 0-100>,
  "strengths": ["<strength>", ...],
  "improvements": ["<improvement>", ...],
  "recommendations": ["<recommendation>", ...],
  "skills_gap": ["<missing skill>", ...]
}

Return ONLY the JSON object.`,
		cvText, jobDescription)
}

// BuildSkillsPrompt asks for the skills found in a CV
func (pb *PromptBuilder) BuildSkillsPrompt(cvText string) string {
	return fmt.Sprintf(`Extract technical and soft skills from this CV content.

CV CONTENT:
%s

Return a list of skills as a JSON array of strings, for example ["Go", "PostgreSQL", "Mentoring"].`,
		cvText)
}

// BuildKeywordsPrompt asks for job-search keywords that suit a CV
func (pb *PromptBuilder) BuildKeywordsPrompt(cvText string) string {
	return fmt.Sprintf(`Based on this CV content, suggest relevant job keywords and titles.

CV CONTENT:
%s

Return a list of keywords as a JSON array of strings.`,
		cvText)
}

// BuildTailorPrompt asks for a version of the CV aimed at one job
func (pb *PromptBuilder) BuildTailorPrompt(cvText, jobDescription string) string {
	return fmt.Sprintf(`Create a tailored version of this CV for the specific job description.

ORIGINAL CV:
%s

JOB DESCRIPTION:
%s

Instructions:
1. Highlight relevant experience and skills
2. Reorganize content to match job requirements
3. Use keywords from the job description
4. Maintain professional tone
5. Keep the same structure but optimize content

Return ONLY the tailored CV content as plain text.`,
		cvText, jobDescription)
}
