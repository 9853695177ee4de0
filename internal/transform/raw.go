package transform

// Typed mirror of the upstream profile payload. Every field the source may
// omit is a pointer or checked against its zero value; decoding never fails
// on absence, only the transformer decides what is required.

type RawProfile struct {
	FirstName       string `json:"firstName"`
	MiddleName      string `json:"middleName"`
	LastName        string `json:"lastName"`
	Headline        string `json:"headline"`
	GeoLocationName string `json:"geoLocationName"`
	GeoCountryName  string `json:"geoCountryName"`
	Summary         string `json:"summary"`
	MemberURN       string `json:"member_urn"`

	Experience     []RawPosition      `json:"experience"`
	Education      []RawEducation     `json:"education"`
	Projects       []RawProject       `json:"projects"`
	Honors         []RawHonor         `json:"honors"`
	Skills         []RawSkill         `json:"skills"`
	Languages      []RawLanguage      `json:"languages"`
	Certifications []RawCertification `json:"certifications"`
	Publications   []RawPublication   `json:"publications"`
	Volunteer      []RawVolunteer     `json:"volunteer"`
}

type RawPosition struct {
	Title       string          `json:"title"`
	CompanyName string          `json:"companyName"`
	Description string          `json:"description"`
	TimePeriod  *DurationWindow `json:"timePeriod"`
}

type RawEducation struct {
	SchoolName   string          `json:"schoolName"`
	DegreeName   string          `json:"degreeName"`
	FieldOfStudy string          `json:"fieldOfStudy"`
	Grade        string          `json:"grade"`
	Activities   string          `json:"activities"`
	Description  string          `json:"description"`
	TimePeriod   *DurationWindow `json:"timePeriod"`
}

type RawProject struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Members     []RawMember     `json:"members"`
	TimePeriod  *DurationWindow `json:"timePeriod"`
}

type RawMember struct {
	Name string `json:"name"`
}

type RawHonor struct {
	Title       string       `json:"title"`
	Issuer      string       `json:"issuer"`
	Description string       `json:"description"`
	IssueDate   *PartialDate `json:"issueDate"`
}

type RawSkill struct {
	Name string `json:"name"`
}

type RawLanguage struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

type RawCertification struct {
	Name        string          `json:"name"`
	Authority   string          `json:"authority"`
	Description string          `json:"description"`
	TimePeriod  *DurationWindow `json:"timePeriod"`
}

type RawPublication struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Authors     []RawMember  `json:"authors"`
	Date        *PartialDate `json:"date"`
}

type RawVolunteer struct {
	Role        string          `json:"role"`
	CompanyName string          `json:"companyName"`
	Cause       string          `json:"cause"`
	Description string          `json:"description"`
	TimePeriod  *DurationWindow `json:"timePeriod"`
}

// Activity feed records.

type RawPost struct {
	Actor          *RawActor        `json:"actor"`
	ResharedUpdate *RawReshare      `json:"resharedUpdate"`
	Commentary     *RawCommentary   `json:"commentary"`
	SocialDetail   *RawSocialDetail `json:"socialDetail"`
}

type RawReshare struct {
	Actor      *RawActor      `json:"actor"`
	Commentary *RawCommentary `json:"commentary"`
}

type RawActor struct {
	URN   string    `json:"urn"`
	Image *RawImage `json:"image"`
}

type RawImage struct {
	Attributes []RawImageAttribute `json:"attributes"`
}

type RawImageAttribute struct {
	MiniProfile *RawMiniProfile `json:"miniProfile"`
	MiniCompany *RawMiniCompany `json:"miniCompany"`
}

type RawMiniProfile struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Occupation string `json:"occupation"`
}

type RawMiniCompany struct {
	Name string `json:"name"`
}

type RawCommentary struct {
	Text RawText `json:"text"`
}

type RawText struct {
	Text string `json:"text"`
}

type RawSocialDetail struct {
	Counts RawActivityCounts `json:"totalSocialActivityCounts"`
}

type RawActivityCounts struct {
	NumComments int                `json:"numComments"`
	NumShares   int                `json:"numShares"`
	Reactions   []RawReactionCount `json:"reactionTypeCounts"`
}

type RawReactionCount struct {
	Count        int    `json:"count"`
	ReactionType string `json:"reactionType"`
}
