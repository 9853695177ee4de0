package transform

import (
	"fmt"
	"strings"
	"time"
)

// Each facet formatter turns the raw slice for that facet into a text block
// starting with a "# NAME" header, or an empty string when the facet is
// absent. Entries are rendered separator-free and joined with a blank line,
// so sections never end with trailing newline artifacts.

func joinSection(header string, entries []string) string {
	return header + "\n" + strings.Join(entries, "\n\n")
}

func statusLine(w *DurationWindow, now time.Time) string {
	if IsOngoing(w, now) {
		return "[Current]"
	}
	return "[Previous]"
}

// quoted renders a labelled free-text block wrapped in a triple-quote
// delimiter, matching the bundle's text format.
func quoted(label, text string) string {
	return label + ":\n\"\"\"\n" + text + "\n\"\"\""
}

// membersLine renders multi-member attribution: the profile owner plus the
// remaining member count. An absent collection counts as one member.
func membersLine(label, fullName string, count int) string {
	if count < 1 {
		count = 1
	}
	line := label + ": " + fullName
	if count > 1 {
		line += fmt.Sprintf(" and %d other(s)", count-1)
	}
	return line
}

func formatExperience(positions []RawPosition, now time.Time) (string, error) {
	if len(positions) == 0 {
		return "", nil
	}
	entries := make([]string, 0, len(positions))
	for i, p := range positions {
		if p.Title == "" {
			return "", fmt.Errorf("experience entry %d: missing title", i)
		}
		var lines []string
		lines = append(lines, statusLine(p.TimePeriod, now))
		head := p.Title
		if p.CompanyName != "" {
			head += " at " + p.CompanyName
		}
		lines = append(lines, head)
		if p.TimePeriod != nil {
			lines = append(lines, FormatDuration(*p.TimePeriod, "DURATION: ", ""))
		}
		if p.Description != "" {
			lines = append(lines, quoted("DESCRIPTION", p.Description))
		}
		entries = append(entries, strings.Join(lines, "\n"))
	}
	return joinSection("# EXPERIENCES", entries), nil
}

func formatEducation(schools []RawEducation, now time.Time) (string, error) {
	if len(schools) == 0 {
		return "", nil
	}
	entries := make([]string, 0, len(schools))
	for i, e := range schools {
		if e.SchoolName == "" {
			return "", fmt.Errorf("education entry %d: missing schoolName", i)
		}
		var lines []string
		lines = append(lines, statusLine(e.TimePeriod, now))
		lines = append(lines, "INSTITUTION: "+e.SchoolName)
		if e.DegreeName != "" {
			lines = append(lines, "DEGREE: "+e.DegreeName)
		}
		if e.FieldOfStudy != "" {
			lines = append(lines, "FIELD OF STUDY: "+e.FieldOfStudy)
		}
		if e.TimePeriod != nil {
			lines = append(lines, FormatDuration(*e.TimePeriod, "DURATION: ", ""))
		}
		if e.Grade != "" {
			lines = append(lines, "GRADE: "+e.Grade)
		}
		if e.Activities != "" {
			lines = append(lines, quoted("ACTIVITIES AND SOCIETIES", e.Activities))
		}
		if e.Description != "" {
			lines = append(lines, quoted("DESCRIPTION", e.Description))
		}
		entries = append(entries, strings.Join(lines, "\n"))
	}
	return joinSection("# EDUCATION", entries), nil
}

func formatProjects(projects []RawProject, fullName string, now time.Time) (string, error) {
	if len(projects) == 0 {
		return "", nil
	}
	entries := make([]string, 0, len(projects))
	for i, p := range projects {
		if p.Title == "" {
			return "", fmt.Errorf("project entry %d: missing title", i)
		}
		var lines []string
		lines = append(lines, statusLine(p.TimePeriod, now))
		lines = append(lines, "NAME: "+p.Title)
		lines = append(lines, membersLine("MEMBERS", fullName, len(p.Members)))
		if p.TimePeriod != nil {
			lines = append(lines, FormatDuration(*p.TimePeriod, "DURATION: ", ""))
		}
		if p.Description != "" {
			lines = append(lines, quoted("DESCRIPTION", p.Description))
		}
		entries = append(entries, strings.Join(lines, "\n"))
	}
	return joinSection("# PROJECTS", entries), nil
}

func formatHonors(honors []RawHonor) (string, error) {
	if len(honors) == 0 {
		return "", nil
	}
	entries := make([]string, 0, len(honors))
	for i, h := range honors {
		if h.Title == "" {
			return "", fmt.Errorf("honor entry %d: missing title", i)
		}
		var lines []string
		lines = append(lines, "NAME: "+h.Title)
		if h.Issuer != "" {
			lines = append(lines, "ISSUED BY: "+h.Issuer)
		}
		if h.IssueDate != nil {
			date, _ := FormatDate(*h.IssueDate, PrecisionDay)
			lines = append(lines, "ISSUE DATE: "+date)
		}
		if h.Description != "" {
			lines = append(lines, quoted("DESCRIPTION", h.Description))
		}
		entries = append(entries, strings.Join(lines, "\n"))
	}
	return joinSection("# HONORS", entries), nil
}

func formatSkills(skills []RawSkill) (string, error) {
	if len(skills) == 0 {
		return "", nil
	}
	names := make([]string, 0, len(skills))
	for i, s := range skills {
		if s.Name == "" {
			return "", fmt.Errorf("skill entry %d: missing name", i)
		}
		names = append(names, s.Name)
	}
	return "# SKILLS\n" + strings.Join(names, ", "), nil
}

func formatLanguages(languages []RawLanguage) (string, error) {
	if len(languages) == 0 {
		return "", nil
	}
	rendered := make([]string, 0, len(languages))
	for i, l := range languages {
		if l.Name == "" {
			return "", fmt.Errorf("language entry %d: missing name", i)
		}
		entry := l.Name
		if l.Proficiency != "" {
			entry += " (" + l.Proficiency + ")"
		}
		rendered = append(rendered, entry)
	}
	return "# LANGUAGES\n" + strings.Join(rendered, ", "), nil
}

func formatCertifications(certs []RawCertification) (string, error) {
	if len(certs) == 0 {
		return "", nil
	}
	entries := make([]string, 0, len(certs))
	for i, c := range certs {
		if c.Name == "" {
			return "", fmt.Errorf("certification entry %d: missing name", i)
		}
		var lines []string
		lines = append(lines, "NAME: "+c.Name)
		if c.Authority != "" {
			lines = append(lines, "ISSUED BY: "+c.Authority)
		}
		if c.TimePeriod != nil && c.TimePeriod.Start != nil {
			date, _ := FormatDate(*c.TimePeriod.Start, PrecisionDay)
			lines = append(lines, "ISSUE DATE: "+date)
		}
		if c.Description != "" {
			lines = append(lines, quoted("DESCRIPTION", c.Description))
		}
		entries = append(entries, strings.Join(lines, "\n"))
	}
	return joinSection("# LICENSES AND CERTIFICATIONS", entries), nil
}

func formatPublications(pubs []RawPublication, fullName string) (string, error) {
	if len(pubs) == 0 {
		return "", nil
	}
	entries := make([]string, 0, len(pubs))
	for i, p := range pubs {
		if p.Name == "" {
			return "", fmt.Errorf("publication entry %d: missing name", i)
		}
		var lines []string
		lines = append(lines, "TITLE: "+p.Name)
		if len(p.Authors) > 0 {
			lines = append(lines, membersLine("AUTHORS", fullName, len(p.Authors)))
		}
		if p.Date != nil {
			date, _ := FormatDate(*p.Date, PrecisionDay)
			lines = append(lines, "PUBLICATION DATE: "+date)
		}
		if p.Description != "" {
			lines = append(lines, quoted("DESCRIPTION", p.Description))
		}
		entries = append(entries, strings.Join(lines, "\n"))
	}
	return joinSection("# PUBLICATIONS", entries), nil
}

func formatVolunteer(work []RawVolunteer, now time.Time) (string, error) {
	if len(work) == 0 {
		return "", nil
	}
	entries := make([]string, 0, len(work))
	for i, v := range work {
		if v.Role == "" || v.CompanyName == "" {
			return "", fmt.Errorf("volunteer entry %d: missing role or companyName", i)
		}
		var lines []string
		lines = append(lines, statusLine(v.TimePeriod, now))
		lines = append(lines, v.Role+" at "+v.CompanyName)
		if v.Cause != "" {
			lines = append(lines, "CAUSE: "+v.Cause)
		}
		if v.TimePeriod != nil {
			lines = append(lines, FormatDuration(*v.TimePeriod, "DURATION: ", ""))
		}
		if v.Description != "" {
			lines = append(lines, quoted("DESCRIPTION", v.Description))
		}
		entries = append(entries, strings.Join(lines, "\n"))
	}
	return joinSection("# VOLUNTEER", entries), nil
}

// formatPosts renders the activity feed. Unlike the other facets its caller
// swallows any error and substitutes a fixed placeholder, so partial feed
// damage never costs the rest of the document.
func formatPosts(posts []RawPost, memberURN string) (string, error) {
	if len(posts) == 0 {
		return "", nil
	}
	entries := make([]string, 0, len(posts))
	for i, post := range posts {
		act := ClassifyActivity(post, memberURN)

		if post.SocialDetail == nil {
			return "", fmt.Errorf("post entry %d: missing socialDetail", i)
		}
		counts := post.SocialDetail.Counts
		reactions := make([]string, 0, len(counts.Reactions))
		for _, r := range counts.Reactions {
			reactions = append(reactions, fmt.Sprintf("%d (%s)", r.Count, r.ReactionType))
		}

		var lines []string
		switch act.Kind {
		case KindOriginal:
			lines = append(lines, "[Posted]")
		case KindReshare:
			lines = append(lines, "[Reshared a post]")
			lines = append(lines, "RESHARED FROM:\n- "+attributionLine(act))
			if act.AuthorHeadline != "" {
				lines = append(lines, "- HEADLINE: "+act.AuthorHeadline)
			}
		case KindRepost:
			lines = append(lines, "[Reposted a post]")
			lines = append(lines, "REPOSTED FROM:\n- "+attributionLine(act))
			if act.AuthorHeadline != "" {
				lines = append(lines, "- HEADLINE: "+act.AuthorHeadline)
			}
		}
		lines = append(lines, "REACTIONS: "+strings.Join(reactions, ", "))
		lines = append(lines, fmt.Sprintf("COMMENTS: %d", counts.NumComments))
		lines = append(lines, fmt.Sprintf("SHARES: %d", counts.NumShares))

		if act.Kind == KindReshare && act.OriginalContent != "" {
			lines = append(lines, quoted("ORIGINAL CONTENT", act.OriginalContent))
		}
		if post.Commentary != nil && post.Commentary.Text.Text != "" {
			label := "CONTENT"
			switch act.Kind {
			case KindRepost:
				label = "ORIGINAL CONTENT"
			case KindReshare:
				label = "RESHARE COMMENTARY"
			}
			lines = append(lines, quoted(label, post.Commentary.Text.Text))
		}
		entries = append(entries, strings.Join(lines, "\n"))
	}
	return joinSection("# POSTS", entries), nil
}

// attributionLine labels the original author: COMPANY wins when a company
// attribution is present, AUTHOR otherwise (even when the name is unknown).
func attributionLine(act Activity) string {
	if act.CompanyName != "" {
		return "COMPANY: " + act.CompanyName
	}
	return "AUTHOR: " + act.AuthorName
}
