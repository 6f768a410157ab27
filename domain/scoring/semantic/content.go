package semantic

import (
	"strings"

	"github.com/pathwise/matchengine/domain/model"
	"github.com/pathwise/matchengine/domain/skills"
)

// jobContent concatenates the job's textual fields, each lightly normalized,
// into the single blob the vectorizer consumes. No field labeling or manual
// weighting: the feature space decides what matters.
func jobContent(job model.JobProfile) string {
	parts := make([]string, 0, 6)
	for _, p := range []string{
		job.Title,
		job.Description,
		job.ShortDescription,
		strings.Join(job.RequiredSkills, " "),
		strings.Join(job.OptionalSkills, " "),
		job.Team,
	} {
		if cleaned := skills.CleanText(p); cleaned != "" {
			parts = append(parts, cleaned)
		}
	}
	return strings.Join(parts, " ")
}

// candidateContent concatenates the analogous candidate fields.
func candidateContent(c model.CandidateProfile) string {
	parts := make([]string, 0, 7)
	for _, p := range []string{
		c.CurrentTitle,
		c.Aspirations,
		strings.Join(c.TechnicalSkills, " "),
		strings.Join(c.Education, " "),
		strings.Join(c.Certifications, " "),
		strings.Join(c.PastEmployers, " "),
		strings.Join(c.Achievements, " "),
	} {
		if cleaned := skills.CleanText(p); cleaned != "" {
			parts = append(parts, cleaned)
		}
	}
	return strings.Join(parts, " ")
}
