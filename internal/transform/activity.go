package transform

// ActivityKind is the three-way classification of one feed record.
type ActivityKind int

const (
	// KindOriginal is a post the profile owner authored themselves.
	KindOriginal ActivityKind = iota
	// KindRepost is another author's post shared without commentary; the
	// source presents the original content as if it were the owner's own.
	KindRepost
	// KindReshare is another author's post shared with the owner's
	// commentary; the original lives in a nested resharedUpdate payload.
	KindReshare
)

func (k ActivityKind) String() string {
	switch k {
	case KindRepost:
		return "repost"
	case KindReshare:
		return "reshare"
	default:
		return "post"
	}
}

// Activity is the classification result for one feed record. Attribution
// fields are empty when the source does not identify the original author.
type Activity struct {
	Kind            ActivityKind
	OriginalContent string // reshares only; the reshared post's text
	AuthorName      string
	AuthorHeadline  string
	CompanyName     string
}

// ClassifyActivity resolves the kind of a feed record for the profile
// identified by memberURN. It is total: every record maps to exactly one
// kind, and missing attribution data degrades to empty fields rather than
// an error. An actor mismatch wins over the reshare check: a record whose
// actor is not the owner is a repost even if it also carries a
// resharedUpdate payload.
func ClassifyActivity(post RawPost, memberURN string) Activity {
	if post.Actor != nil && post.Actor.URN != memberURN {
		act := Activity{Kind: KindRepost}
		act.attributeFrom(post.Actor)
		return act
	}
	if post.ResharedUpdate != nil {
		act := Activity{Kind: KindReshare}
		if post.ResharedUpdate.Commentary != nil {
			act.OriginalContent = post.ResharedUpdate.Commentary.Text.Text
		}
		act.attributeFrom(post.ResharedUpdate.Actor)
		return act
	}
	return Activity{Kind: KindOriginal}
}

// attributeFrom pulls author or company attribution out of the actor's first
// image attribute. Upstream payloads without one leave both fields empty.
func (a *Activity) attributeFrom(actor *RawActor) {
	if actor == nil || actor.Image == nil || len(actor.Image.Attributes) == 0 {
		return
	}
	attr := actor.Image.Attributes[0]
	switch {
	case attr.MiniProfile != nil:
		a.AuthorName = attr.MiniProfile.FirstName + " " + attr.MiniProfile.LastName
		a.AuthorHeadline = attr.MiniProfile.Occupation
	case attr.MiniCompany != nil:
		a.CompanyName = attr.MiniCompany.Name
	}
}
