package model

import (
	"encoding/json"
	"time"
)

// RecordKind tags the submission payload shape of a review record
type RecordKind string

const (
	RecordRegular    RecordKind = "regular"    // Per-answer ratings and comments
	RecordPreference RecordKind = "preference" // Preferred answer plus per-answer ratings
)

// AnswerReview is the reviewer's verdict on one candidate answer
type AnswerReview struct {
	AnswerID    string `json:"id" bson:"answerId"`
	Label       string `json:"label,omitempty" bson:"label,omitempty"`
	Text        string `json:"text" bson:"text"`
	Ratings     Rating `json:"ratings" bson:"ratings"`
	Comment     string `json:"comment,omitempty" bson:"comment,omitempty"`
	IsPreferred bool   `json:"isPreferred,omitempty" bson:"isPreferred,omitempty"`
}

// ReviewRecord is one confirmed review of a question. Write-once: it is
// created when validation passes, appended to the session, and transmitted at
// most once. The Kind tag is fixed at construction from the domain and selects
// the submission payload shape.
type ReviewRecord struct {
	ID              string         `json:"-" bson:"_id,omitempty"`
	Kind            RecordKind     `json:"-" bson:"kind"`
	Timestamp       time.Time      `json:"timestamp" bson:"timestamp"`
	Domain          string         `json:"domain" bson:"domain"`
	UserEmail       string         `json:"userEmail,omitempty" bson:"userEmail,omitempty"`
	QuestionID      string         `json:"questionId" bson:"questionId"`
	QuestionText    string         `json:"questionText" bson:"questionText"`
	QuestionType    string         `json:"question_type,omitempty" bson:"questionType,omitempty"`
	PolymerDetails  string         `json:"polymerDetails,omitempty" bson:"polymerDetails,omitempty"`
	PreferredAnswer string         `json:"preferredAnswer,omitempty" bson:"preferredAnswer,omitempty"`
	Answers         []AnswerReview `json:"answers" bson:"answers"`
	GeneralComments string         `json:"generalComments,omitempty" bson:"generalComments,omitempty"`
}

// regularPayload is the submission shape for rating domains
type regularPayload struct {
	Timestamp      time.Time      `json:"timestamp"`
	Domain         string         `json:"domain"`
	UserEmail      string         `json:"userEmail,omitempty"`
	QuestionID     string         `json:"questionId"`
	QuestionText   string         `json:"questionText"`
	PolymerDetails string         `json:"polymerDetails,omitempty"`
	Answers        []AnswerReview `json:"answers"`
}

// preferencePayload is the submission shape for preference domains
type preferencePayload struct {
	Timestamp       time.Time      `json:"timestamp"`
	Domain          string         `json:"domain"`
	UserEmail       string         `json:"userEmail,omitempty"`
	QuestionID      string         `json:"questionId"`
	QuestionText    string         `json:"questionText"`
	QuestionType    string         `json:"question_type,omitempty"`
	PreferredAnswer string         `json:"preferredAnswer"`
	Answers         []AnswerReview `json:"answers"`
	GeneralComments string         `json:"generalComments,omitempty"`
}

// Payload serializes the record in the shape its kind requires. One
// serialization function per variant; no runtime property sniffing.
func (r *ReviewRecord) Payload() ([]byte, error) {
	switch r.Kind {
	case RecordPreference:
		return json.Marshal(preferencePayload{
			Timestamp:       r.Timestamp,
			Domain:          r.Domain,
			UserEmail:       r.UserEmail,
			QuestionID:      r.QuestionID,
			QuestionText:    r.QuestionText,
			QuestionType:    r.QuestionType,
			PreferredAnswer: r.PreferredAnswer,
			Answers:         r.Answers,
			GeneralComments: r.GeneralComments,
		})
	default:
		answers := make([]AnswerReview, len(r.Answers))
		copy(answers, r.Answers)
		for i := range answers {
			answers[i].IsPreferred = false
		}
		return json.Marshal(regularPayload{
			Timestamp:      r.Timestamp,
			Domain:         r.Domain,
			UserEmail:      r.UserEmail,
			QuestionID:     r.QuestionID,
			QuestionText:   r.QuestionText,
			PolymerDetails: r.PolymerDetails,
			Answers:        answers,
		})
	}
}

// KindForDomain maps a domain to the record variant it produces.
func KindForDomain(d *Domain) RecordKind {
	if d.Kind == DomainPreference {
		return RecordPreference
	}
	return RecordRegular
}
