package transform

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// PostsFailedPlaceholder replaces the posts section when the activity feed
// cannot be formatted. The feed is best-effort: damage there never aborts
// the rest of the document.
const PostsFailedPlaceholder = "# POSTS\nFailed to process posts data"

// ParseError signals that the upstream payload shape did not match
// expectations while building a required section. It usually means the
// upstream schema drifted and is worth investigating.
type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing profile payload: %v", e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// RawData retains the upstream payloads verbatim for audit.
type RawData struct {
	Profile json.RawMessage `json:"profile"`
	Posts   json.RawMessage `json:"posts"`
}

// ProfileDocument is the normalized text bundle built from one profile.
// Every section is either an empty string or a block starting with a
// "# SECTION NAME" header, with no trailing blank lines.
type ProfileDocument struct {
	FullName       string  `json:"full_name"`
	Summary        string  `json:"summary"`
	Experience     string  `json:"experience"`
	Education      string  `json:"education"`
	Honors         string  `json:"honors"`
	Certifications string  `json:"certifications"`
	Projects       string  `json:"projects"`
	Publications   string  `json:"publications"`
	Volunteer      string  `json:"volunteer"`
	Skills         string  `json:"skills"`
	Languages      string  `json:"languages"`
	Posts          string  `json:"posts"`
	Raw            RawData `json:"raw"`
}

// Text joins the non-empty sections into one readable bundle, summary first.
func (d *ProfileDocument) Text() string {
	sections := []string{
		d.Summary, d.Experience, d.Education, d.Projects, d.Honors,
		d.Skills, d.Languages, d.Certifications, d.Publications,
		d.Volunteer, d.Posts,
	}
	parts := sections[:0]
	for _, s := range sections {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Transformer builds ProfileDocuments from raw upstream payloads.
type Transformer struct {
	now    func() time.Time
	logger *slog.Logger
}

// NewTransformer creates a Transformer using the wall clock. The clock is
// only consulted for the ongoing/elapsed status tags.
func NewTransformer() *Transformer {
	return &Transformer{now: time.Now, logger: slog.Default()}
}

// WithClock overrides the clock, for tests.
func (t *Transformer) WithClock(now func() time.Time) *Transformer {
	t.now = now
	return t
}

// Transform converts one raw profile payload plus its (possibly nil) raw
// posts payload into an immutable ProfileDocument. A malformed profile
// payload fails the whole transform with ParseError; a malformed posts
// payload degrades to the fixed placeholder section.
func (t *Transformer) Transform(profileRaw, postsRaw json.RawMessage) (*ProfileDocument, error) {
	var profile RawProfile
	if err := json.Unmarshal(profileRaw, &profile); err != nil {
		return nil, &ParseError{Cause: fmt.Errorf("decoding profile: %w", err)}
	}
	if profile.FirstName == "" || profile.LastName == "" {
		return nil, &ParseError{Cause: fmt.Errorf("profile is missing name fields")}
	}

	now := t.now()
	doc := &ProfileDocument{
		Raw: RawData{Profile: profileRaw, Posts: postsRaw},
	}

	doc.FullName = profile.FirstName + " "
	if profile.MiddleName != "" {
		doc.FullName += profile.MiddleName + " "
	}
	doc.FullName += profile.LastName

	doc.Summary = buildSummary(profile, doc.FullName)

	var err error
	if doc.Experience, err = formatExperience(profile.Experience, now); err != nil {
		return nil, &ParseError{Cause: err}
	}
	if doc.Education, err = formatEducation(profile.Education, now); err != nil {
		return nil, &ParseError{Cause: err}
	}
	if doc.Projects, err = formatProjects(profile.Projects, doc.FullName, now); err != nil {
		return nil, &ParseError{Cause: err}
	}
	if doc.Honors, err = formatHonors(profile.Honors); err != nil {
		return nil, &ParseError{Cause: err}
	}
	if doc.Skills, err = formatSkills(profile.Skills); err != nil {
		return nil, &ParseError{Cause: err}
	}
	if doc.Languages, err = formatLanguages(profile.Languages); err != nil {
		return nil, &ParseError{Cause: err}
	}
	if doc.Certifications, err = formatCertifications(profile.Certifications); err != nil {
		return nil, &ParseError{Cause: err}
	}
	if doc.Publications, err = formatPublications(profile.Publications, doc.FullName); err != nil {
		return nil, &ParseError{Cause: err}
	}
	if doc.Volunteer, err = formatVolunteer(profile.Volunteer, now); err != nil {
		return nil, &ParseError{Cause: err}
	}

	doc.Posts = t.buildPosts(postsRaw, profile.MemberURN)

	return doc, nil
}

// buildPosts decodes and formats the activity feed, substituting the fixed
// placeholder on any failure.
func (t *Transformer) buildPosts(postsRaw json.RawMessage, memberURN string) string {
	if len(postsRaw) == 0 {
		return ""
	}
	var posts []RawPost
	if err := json.Unmarshal(postsRaw, &posts); err != nil {
		t.logger.Warn("posts payload unreadable", "error", err)
		return PostsFailedPlaceholder
	}
	section, err := formatPosts(posts, memberURN)
	if err != nil {
		t.logger.Warn("posts formatting failed", "error", err)
		return PostsFailedPlaceholder
	}
	return section
}

// buildSummary renders the header block: identity, headline, location, and
// the free-text about section when present.
func buildSummary(profile RawProfile, fullName string) string {
	var lines []string
	lines = append(lines, "PROFILE OF: "+fullName)
	if profile.Headline != "" {
		lines = append(lines, "HEADLINE: "+profile.Headline)
	}
	location := profile.GeoCountryName
	if profile.GeoLocationName != "" {
		location = profile.GeoLocationName + ", " + profile.GeoCountryName
	}
	lines = append(lines, "LOCATION: "+location)
	if profile.Summary != "" {
		lines = append(lines, "\n# ABOUT\n\"\"\"\n"+profile.Summary+"\n\"\"\"")
	}
	return strings.Join(lines, "\n")
}
