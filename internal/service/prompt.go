package service

import (
	"fmt"
	"strings"

	"github.com/sakif/profile-explorer/internal/model"
)

// BuildAnalysisPrompt composes the fixed recruiter-style prompt for a
// profile. languages and topRepos are rendered comma-separated.
func BuildAnalysisPrompt(p model.Profile, languages, topRepos []string) string {
	name := p.Name
	if name == "" {
		name = "Not provided"
	}
	bio := p.Bio
	if bio == "" {
		bio = "No bio provided"
	}
	langs := strings.Join(languages, ", ")
	if langs == "" {
		langs = "Not specified"
	}

	var b strings.Builder
	b.WriteString("You are a professional technical recruiter and GitHub profile analyst.\n")
	b.WriteString("Analyze this developer's GitHub profile and describe their technical expertise,\n")
	b.WriteString("experience level, and main development focus in 2–3 professional paragraphs.\n\n")
	fmt.Fprintf(&b, "Name: %s\n", name)
	fmt.Fprintf(&b, "Username: %s\n", p.Login)
	fmt.Fprintf(&b, "Bio: %s\n", bio)
	fmt.Fprintf(&b, "Public Repos: %d\n", p.PublicRepos)
	fmt.Fprintf(&b, "Followers: %d\n", p.Followers)
	fmt.Fprintf(&b, "Following: %d\n", p.Following)
	fmt.Fprintf(&b, "Languages: %s\n", langs)
	fmt.Fprintf(&b, "Top Repositories: %s", strings.Join(topRepos, ", "))
	return b.String()
}
