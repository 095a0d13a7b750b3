package model

import "strings"

// DomainKind defines how a domain collects feedback
type DomainKind string

const (
	DomainRating     DomainKind = "rating"     // Rate each answer independently
	DomainPreference DomainKind = "preference" // Pick a preferred answer, then rate
)

// DefaultReviewCap is the number of reviews a question needs before it stops
// being assigned.
const DefaultReviewCap = 3

// Criterion is one rating dimension shown for an answer
type Criterion struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
}

// Domain describes one annotation task type
type Domain struct {
	Name      string      `json:"name"`
	Slug      string      `json:"slug"`
	Kind      DomainKind  `json:"kind"`
	ScaleMax  int         `json:"scaleMax"`
	ReviewCap int         `json:"reviewCap"`
	Criteria  []Criterion `json:"criteria"`
}

// Domains returns the built-in domain catalog.
func Domains() []Domain {
	return []Domain{
		{
			Name:      "Knowledge Distillation",
			Slug:      "knowledge-distillation",
			Kind:      DomainRating,
			ScaleMax:  5,
			ReviewCap: DefaultReviewCap,
			Criteria: []Criterion{
				{ID: "accuracy", Label: "Accuracy"},
				{ID: "completeness", Label: "Completeness"},
				{ID: "clarity", Label: "Clarity"},
				{ID: "relevance", Label: "Relevance"},
				{ID: "overall", Label: "Overall Quality", Required: true},
			},
		},
		{
			Name:      "Response Preference",
			Slug:      "response-preference",
			Kind:      DomainPreference,
			ScaleMax:  7,
			ReviewCap: DefaultReviewCap,
			Criteria: []Criterion{
				{ID: "overall", Label: "Overall Quality", Required: true},
				{ID: "accuracy", Label: "Accuracy"},
				{ID: "helpfulness", Label: "Helpfulness"},
				{ID: "clarity", Label: "Clarity"},
				{ID: "completeness", Label: "Completeness"},
			},
		},
	}
}

// DomainBySlug looks up a domain by its slug or display name.
func DomainBySlug(s string) *Domain {
	slug := Slugify(s)
	for _, d := range Domains() {
		if d.Slug == slug {
			copied := d
			return &copied
		}
	}
	return nil
}

// Slugify converts a domain display name to its URL slug.
func Slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
