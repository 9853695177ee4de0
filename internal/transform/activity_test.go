package transform

import "testing"

const ownerURN = "urn:li:member:111"

func personActor(urn, first, last, occupation string) *RawActor {
	return &RawActor{
		URN: urn,
		Image: &RawImage{Attributes: []RawImageAttribute{
			{MiniProfile: &RawMiniProfile{FirstName: first, LastName: last, Occupation: occupation}},
		}},
	}
}

func companyActor(urn, name string) *RawActor {
	return &RawActor{
		URN: urn,
		Image: &RawImage{Attributes: []RawImageAttribute{
			{MiniCompany: &RawMiniCompany{Name: name}},
		}},
	}
}

func TestClassifyOriginalPost(t *testing.T) {
	post := RawPost{Actor: &RawActor{URN: ownerURN}}
	act := ClassifyActivity(post, ownerURN)
	if act.Kind != KindOriginal {
		t.Fatalf("Kind = %v, want original", act.Kind)
	}
	if act.AuthorName != "" || act.CompanyName != "" || act.OriginalContent != "" {
		t.Errorf("original post carries attribution: %+v", act)
	}
}

func TestClassifyRepostWithPersonAttribution(t *testing.T) {
	post := RawPost{Actor: personActor("urn:li:member:999", "Ada", "Lovelace", "Analyst")}
	act := ClassifyActivity(post, ownerURN)
	if act.Kind != KindRepost {
		t.Fatalf("Kind = %v, want repost", act.Kind)
	}
	if act.AuthorName != "Ada Lovelace" {
		t.Errorf("AuthorName = %q, want %q", act.AuthorName, "Ada Lovelace")
	}
	if act.AuthorHeadline != "Analyst" {
		t.Errorf("AuthorHeadline = %q, want %q", act.AuthorHeadline, "Analyst")
	}
	if act.OriginalContent != "" {
		t.Errorf("repost OriginalContent = %q, want empty", act.OriginalContent)
	}
}

func TestClassifyRepostWithCompanyAttribution(t *testing.T) {
	post := RawPost{Actor: companyActor("urn:li:company:42", "Initech")}
	act := ClassifyActivity(post, ownerURN)
	if act.Kind != KindRepost {
		t.Fatalf("Kind = %v, want repost", act.Kind)
	}
	if act.CompanyName != "Initech" {
		t.Errorf("CompanyName = %q, want %q", act.CompanyName, "Initech")
	}
}

func TestClassifyReshareWithCompanyAttribution(t *testing.T) {
	post := RawPost{
		Actor: &RawActor{URN: ownerURN},
		ResharedUpdate: &RawReshare{
			Actor:      companyActor("urn:li:company:42", "Initech"),
			Commentary: &RawCommentary{Text: RawText{Text: "Great read"}},
		},
	}
	act := ClassifyActivity(post, ownerURN)
	if act.Kind != KindReshare {
		t.Fatalf("Kind = %v, want reshare", act.Kind)
	}
	if act.OriginalContent != "Great read" {
		t.Errorf("OriginalContent = %q, want %q", act.OriginalContent, "Great read")
	}
	if act.CompanyName != "Initech" {
		t.Errorf("CompanyName = %q, want %q", act.CompanyName, "Initech")
	}
	if got := attributionLine(act); got != "COMPANY: Initech" {
		t.Errorf("attributionLine = %q, want COMPANY label", got)
	}
}

func TestRepostPrecedesReshare(t *testing.T) {
	// Actor mismatch must short-circuit before the resharedUpdate check.
	post := RawPost{
		Actor:          personActor("urn:li:member:999", "Ada", "Lovelace", ""),
		ResharedUpdate: &RawReshare{Commentary: &RawCommentary{Text: RawText{Text: "nested"}}},
	}
	act := ClassifyActivity(post, ownerURN)
	if act.Kind != KindRepost {
		t.Fatalf("Kind = %v, want repost", act.Kind)
	}
	if act.OriginalContent != "" {
		t.Errorf("repost picked up reshare content %q", act.OriginalContent)
	}
}

func TestClassifyDegradesOnMissingAttribution(t *testing.T) {
	tests := []struct {
		name string
		post RawPost
	}{
		{"no image", RawPost{Actor: &RawActor{URN: "urn:li:member:999"}}},
		{"empty attributes", RawPost{Actor: &RawActor{URN: "urn:li:member:999", Image: &RawImage{}}}},
		{"unknown attribute", RawPost{Actor: &RawActor{URN: "urn:li:member:999", Image: &RawImage{Attributes: []RawImageAttribute{{}}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			act := ClassifyActivity(tt.post, ownerURN)
			if act.Kind != KindRepost {
				t.Fatalf("Kind = %v, want repost", act.Kind)
			}
			if act.AuthorName != "" || act.CompanyName != "" {
				t.Errorf("attribution should be empty, got %+v", act)
			}
		})
	}
}

func TestClassifyReshareWithoutCommentary(t *testing.T) {
	post := RawPost{
		Actor:          &RawActor{URN: ownerURN},
		ResharedUpdate: &RawReshare{Actor: personActor("urn:li:member:7", "Tim", "Berners-Lee", "Inventor")},
	}
	act := ClassifyActivity(post, ownerURN)
	if act.Kind != KindReshare {
		t.Fatalf("Kind = %v, want reshare", act.Kind)
	}
	if act.OriginalContent != "" {
		t.Errorf("OriginalContent = %q, want empty", act.OriginalContent)
	}
	if act.AuthorName != "Tim Berners-Lee" {
		t.Errorf("AuthorName = %q", act.AuthorName)
	}
}
