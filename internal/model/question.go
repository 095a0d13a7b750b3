package model

// Question is one item in a domain's question set, loaded from the question
// store. Immutable once loaded.
type Question struct {
	ID              string                 `json:"id" bson:"_id,omitempty"`
	Domain          string                 `json:"domain,omitempty" bson:"domain,omitempty"`
	Text            string                 `json:"text" bson:"text"`
	QuestionType    string                 `json:"question_type,omitempty" bson:"questionType,omitempty"`
	PolymerDetails  string                 `json:"polymer_details,omitempty" bson:"polymerDetails,omitempty"`
	ReferenceAnswer string                 `json:"reference_answer,omitempty" bson:"referenceAnswer,omitempty"`
	Extra           map[string]interface{} `json:"experimentalProperties,omitempty" bson:"experimentalProperties,omitempty"`
	Answers         []Answer               `json:"answers" bson:"answers"`
}

// Answer is one candidate answer attached to a question. Immutable.
type Answer struct {
	ID    string `json:"id" bson:"id"`
	Label string `json:"label,omitempty" bson:"label,omitempty"`
	Text  string `json:"text" bson:"text"`
}

// AnswerByID returns the answer with the given ID, or nil.
func (q *Question) AnswerByID(id string) *Answer {
	for i := range q.Answers {
		if q.Answers[i].ID == id {
			return &q.Answers[i]
		}
	}
	return nil
}
