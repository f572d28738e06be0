// Package model defines the data structures used throughout the application.
// Profiles and repositories are immutable snapshots of the Directory API,
// fetched fresh on every request and never cached.
package model

import "time"

// Profile is one public account on the Directory API.
// Optional text fields are empty strings when the account leaves them unset.
type Profile struct {
	Login       string    `json:"login"`
	Name        string    `json:"name,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	AvatarURL   string    `json:"avatarUrl"`
	Company     string    `json:"company,omitempty"`
	Location    string    `json:"location,omitempty"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	PublicRepos int       `json:"publicRepos"`
	CreatedAt   time.Time `json:"createdAt"`
	HTMLURL     string    `json:"htmlUrl"`
}

// DisplayName returns the profile's name, or its login when no name is set.
func (p Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Login
}

// MaxDisplayTopics is how many topic tags a repository shows.
const MaxDisplayTopics = 5

// Repository is one entry of a profile's repository listing.
// FullName ("owner/name") is the join key for repository notes.
type Repository struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	FullName    string    `json:"fullName"`
	Description string    `json:"description,omitempty"`
	Language    string    `json:"language,omitempty"`
	Topics      []string  `json:"topics"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	Fork        bool      `json:"fork"`
	UpdatedAt   time.Time `json:"updatedAt"`
	HTMLURL     string    `json:"htmlUrl"`
}

// DisplayTopics returns at most MaxDisplayTopics tags, in upstream order.
func (r Repository) DisplayTopics() []string {
	if len(r.Topics) <= MaxDisplayTopics {
		return r.Topics
	}
	return r.Topics[:MaxDisplayTopics]
}

// AggregatedMetrics is derived from a repository set and never persisted.
type AggregatedMetrics struct {
	RepoCount       int      `json:"repoCount"`
	TotalStars      int      `json:"totalStars"`
	TotalForks      int      `json:"totalForks"`
	AverageStars    int      `json:"averageStars"`
	Languages       []string `json:"languages"`
	TopRepositories []string `json:"topRepositories"`
}

// ProfileView is what a single profile lookup returns.
type ProfileView struct {
	Profile         Profile           `json:"profile"`
	Repositories    []Repository      `json:"repositories"`
	Metrics         AggregatedMetrics `json:"metrics"`
	AccountAgeYears int               `json:"accountAgeYears"`
}
