// Package directory fetches public profiles and repository listings from
// the GitHub REST API (the "Directory API").
//
// No credential is attached: every call is an anonymous request, and only
// the first page of repositories is ever read. Results beyond perPage are
// not fetched.
package directory

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v57/github"
	"golang.org/x/sync/errgroup"

	"github.com/sakif/profile-explorer/internal/apperror"
	"github.com/sakif/profile-explorer/internal/model"
)

// DefaultBaseURL is the public GitHub REST endpoint.
const DefaultBaseURL = "https://api.github.com/"

// Page sizes used by the two kinds of callers.
const (
	ListingPageSize   = 100
	NarrativePageSize = 10
)

// User-facing messages for the failures this package classifies.
const (
	msgUserNotFound = "User not found"
	msgUserFetch    = "Failed to fetch user data"
	msgReposFetch   = "Failed to fetch repositories"
)

type Client struct {
	gh     *github.Client
	logger *slog.Logger
}

// New builds a client against baseURL. An empty baseURL means the public
// API; httpClient may be nil for http.DefaultClient.
func New(baseURL string, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	gh := github.NewClient(httpClient)

	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("directory: parsing base URL %q: %w", baseURL, err)
	}
	gh.BaseURL = u

	return &Client{gh: gh, logger: logger}, nil
}

// Profile fetches one account. HTTP 404 becomes a NotFound error; any other
// failure is an Upstream error.
func (c *Client) Profile(ctx context.Context, handle string) (*model.Profile, error) {
	u, resp, err := c.gh.Users.Get(ctx, url.PathEscape(handle))
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, apperror.NotFound("User", "")
		}
		c.logger.Warn("profile fetch failed",
			slog.String("handle", handle),
			slog.String("error", err.Error()),
		)
		return nil, apperror.Upstream(msgUserFetch, err)
	}

	p := toProfile(u)
	return &p, nil
}

// Repositories fetches up to perPage repositories, most recently updated
// first. Every failure, 404 included, is an Upstream error.
func (c *Client) Repositories(ctx context.Context, handle string, perPage int) ([]model.Repository, error) {
	opts := &github.RepositoryListByUserOptions{
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	list, _, err := c.gh.Repositories.ListByUser(ctx, url.PathEscape(handle), opts)
	if err != nil {
		c.logger.Warn("repository fetch failed",
			slog.String("handle", handle),
			slog.String("error", err.Error()),
		)
		return nil, apperror.Upstream(msgReposFetch, err)
	}

	repos := make([]model.Repository, 0, len(list))
	for _, r := range list {
		repos = append(repos, toRepository(r))
	}
	return repos, nil
}

// ProfileWithRepositories issues the profile and repository requests
// concurrently and waits for both. When both fail, the profile error wins,
// so a missing account always reads as "User not found".
func (c *Client) ProfileWithRepositories(ctx context.Context, handle string, perPage int) (*model.Profile, []model.Repository, error) {
	var (
		g          errgroup.Group
		profile    *model.Profile
		profileErr error
		repos      []model.Repository
	)

	g.Go(func() error {
		profile, profileErr = c.Profile(ctx, handle)
		return nil
	})
	g.Go(func() error {
		var err error
		repos, err = c.Repositories(ctx, handle, perPage)
		return err
	})

	reposErr := g.Wait()
	if profileErr != nil {
		return nil, nil, profileErr
	}
	if reposErr != nil {
		return nil, nil, reposErr
	}
	return profile, repos, nil
}

func toProfile(u *github.User) model.Profile {
	return model.Profile{
		Login:       u.GetLogin(),
		Name:        u.GetName(),
		Bio:         u.GetBio(),
		AvatarURL:   u.GetAvatarURL(),
		Company:     u.GetCompany(),
		Location:    u.GetLocation(),
		Followers:   u.GetFollowers(),
		Following:   u.GetFollowing(),
		PublicRepos: u.GetPublicRepos(),
		CreatedAt:   u.GetCreatedAt().Time,
		HTMLURL:     u.GetHTMLURL(),
	}
}

func toRepository(r *github.Repository) model.Repository {
	topics := r.Topics
	if topics == nil {
		topics = []string{}
	}
	return model.Repository{
		ID:          r.GetID(),
		Name:        r.GetName(),
		FullName:    r.GetFullName(),
		Description: r.GetDescription(),
		Language:    r.GetLanguage(),
		Topics:      topics,
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
		Fork:        r.GetFork(),
		UpdatedAt:   r.GetUpdatedAt().Time,
		HTMLURL:     r.GetHTMLURL(),
	}
}
