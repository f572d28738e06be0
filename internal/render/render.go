// Package render formats profiles, comparisons and notes as plain text for
// the terminal client.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/sakif/profile-explorer/internal/model"
)

// DateLayout is how repository and note dates are shown.
const DateLayout = "Jan 2, 2006"

// Renderer writes to a single destination. now anchors relative times so
// tests can pin it.
type Renderer struct {
	w   io.Writer
	now func() time.Time
}

func New(w io.Writer) *Renderer {
	return &Renderer{w: w, now: time.Now}
}

// Profile prints the header block, the aggregate metrics and the
// repository list.
func (r *Renderer) Profile(v *model.ProfileView) {
	p := v.Profile
	fmt.Fprintf(r.w, "%s (@%s)\n", p.DisplayName(), p.Login)
	if p.Bio != "" {
		fmt.Fprintln(r.w, p.Bio)
	}
	var facts []string
	if p.Company != "" {
		facts = append(facts, p.Company)
	}
	if p.Location != "" {
		facts = append(facts, p.Location)
	}
	facts = append(facts, fmt.Sprintf("joined %s (%d years)", p.CreatedAt.Format(DateLayout), v.AccountAgeYears))
	fmt.Fprintln(r.w, strings.Join(facts, " · "))
	if p.HTMLURL != "" {
		fmt.Fprintln(r.w, p.HTMLURL)
	}
	fmt.Fprintln(r.w)

	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Followers\t%s\n", humanize.Comma(int64(p.Followers)))
	fmt.Fprintf(tw, "Following\t%s\n", humanize.Comma(int64(p.Following)))
	fmt.Fprintf(tw, "Public Repos\t%s\n", humanize.Comma(int64(p.PublicRepos)))
	fmt.Fprintf(tw, "Total Stars\t%s\n", humanize.Comma(int64(v.Metrics.TotalStars)))
	fmt.Fprintf(tw, "Total Forks\t%s\n", humanize.Comma(int64(v.Metrics.TotalForks)))
	fmt.Fprintf(tw, "Avg Stars/Repo\t%s\n", humanize.Comma(int64(v.Metrics.AverageStars)))
	fmt.Fprintf(tw, "Languages\t%s\n", orNone(strings.Join(v.Metrics.Languages, ", ")))
	tw.Flush()

	if len(v.Repositories) > 0 {
		fmt.Fprintln(r.w)
		r.Repositories(v.Repositories)
	}
}

// Repositories prints one line per repository plus an indented description
// and topic line when present.
func (r *Renderer) Repositories(repos []model.Repository) {
	if len(repos) == 0 {
		fmt.Fprintln(r.w, "No repositories.")
		return
	}
	for _, repo := range repos {
		lang := repo.Language
		if lang == "" {
			lang = "-"
		}
		fmt.Fprintf(r.w, "%s  ★ %s  ⑂ %s  %s  updated %s\n",
			repo.FullName,
			humanize.Comma(int64(repo.Stars)),
			humanize.Comma(int64(repo.Forks)),
			lang,
			r.updated(repo.UpdatedAt),
		)
		if repo.Description != "" {
			fmt.Fprintf(r.w, "    %s\n", repo.Description)
		}
		if topics := repo.DisplayTopics(); len(topics) > 0 {
			fmt.Fprintf(r.w, "    #%s\n", strings.Join(topics, " #"))
		}
	}
}

// Comparison prints the side-by-side metric table. The winning side of each
// row is marked with an asterisk.
func (r *Renderer) Comparison(c *model.Comparison) {
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "\t@%s\t@%s\n", c.Left.Profile.Login, c.Right.Profile.Login)
	for _, m := range c.Metrics {
		left := humanize.Comma(int64(m.Left))
		right := humanize.Comma(int64(m.Right))
		switch m.Verdict {
		case model.VerdictLeft:
			left += " *"
		case model.VerdictRight:
			right += " *"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Label, left, right)
	}
	tw.Flush()
}

func (r *Renderer) Note(n *model.Note) {
	fmt.Fprintf(r.w, "%s (%s)\n", n.Key.Identity, n.Key.Kind)
	fmt.Fprintf(r.w, "updated %s\n", r.updated(n.UpdatedAt))
	if n.Text == "" {
		fmt.Fprintln(r.w, "(empty)")
		return
	}
	fmt.Fprintln(r.w, n.Text)
}

func (r *Renderer) Notes(notes []model.Note) {
	if len(notes) == 0 {
		fmt.Fprintln(r.w, "No notes.")
		return
	}
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	for _, n := range notes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", n.Key.Kind, n.Key.Identity, r.updated(n.UpdatedAt), firstLine(n.Text))
	}
	tw.Flush()
}

func (r *Renderer) Analysis(text string) {
	fmt.Fprintln(r.w, strings.TrimSpace(text))
}

// updated renders "May 1, 2024 (3 months ago)". A zero time is "unknown".
func (r *Renderer) updated(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return fmt.Sprintf("%s (%s)", t.Format(DateLayout), humanize.RelTime(t, r.now(), "ago", "from now"))
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func firstLine(s string) string {
	line, _, cut := strings.Cut(s, "\n")
	if cut {
		return line + " …"
	}
	return line
}
