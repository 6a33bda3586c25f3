package portfolio

import (
	"fmt"
	"strings"
)

// demoText produces canned sectioned output from the request alone. It stands
// in for the completion service in demo mode and goes through FormatResponse
// like real output does.
func demoText(req PortfolioRequest) string {
	skills := "Problem solving, collaboration and clear communication"
	if len(req.Skills) > 0 {
		skills = strings.Join(req.Skills, ", ")
	}

	var projects strings.Builder
	if len(req.Projects) == 0 {
		projects.WriteString("• Projects will be listed here once added to the profile.")
	}
	for i, p := range req.Projects {
		if i > 0 {
			projects.WriteByte('\n')
		}
		projects.WriteString("• " + p)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s is a dedicated %s with %s. %s brings focus and care to every project.\n\n",
		SectionSummary.Marker(), req.Name, req.Profession, req.Experience, req.Name)
	fmt.Fprintf(&b, "%s\n• %s\n• Version control with Git\n• Agile delivery\n\n",
		SectionSkills.Marker(), skills)
	fmt.Fprintf(&b, "%s\n%s\n\n", SectionExperience.Marker(), req.Experience)
	fmt.Fprintf(&b, "%s\n%s\n\n", SectionProjects.Marker(), projects.String())
	fmt.Fprintf(&b, "%s\n%s is committed to delivering high-quality work and keeps learning to stay current.\n",
		SectionConclusion.Marker(), req.Name)
	return b.String()
}
