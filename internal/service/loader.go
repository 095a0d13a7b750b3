package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"sciannotate/internal/model"
)

// Loader fetches a domain's question set from the question store.
type Loader interface {
	Load(ctx context.Context, domain string) ([]model.Question, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, domain string) ([]model.Question, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, domain string) ([]model.Question, error) {
	return f(ctx, domain)
}

// LoadError means the question source was unreachable or malformed. It is
// fatal to the session: the caller surfaces a failed-loading state and does
// not retry.
type LoadError struct {
	Domain string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading questions for domain %q: %v", e.Domain, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// FileLoader reads question sets from static JSON files on disk, one file per
// domain named <slug>-questions.json.
type FileLoader struct {
	dir string
}

// NewFileLoader creates a loader rooted at the given directory.
func NewFileLoader(dir string) *FileLoader {
	return &FileLoader{dir: dir}
}

func (l *FileLoader) Load(ctx context.Context, domain string) ([]model.Question, error) {
	path := filepath.Join(l.dir, model.Slugify(domain)+"-questions.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Domain: domain, Err: err}
	}
	questions, err := DecodeQuestions(data)
	if err != nil {
		return nil, &LoadError{Domain: domain, Err: err}
	}
	return questions, nil
}

// HTTPLoader fetches question sets from a static HTTP resource, one resource
// per domain at <baseURL>/<slug>-questions.json.
type HTTPLoader struct {
	baseURL string
	client  *http.Client
}

// NewHTTPLoader creates a loader against the given base URL.
func NewHTTPLoader(baseURL string) *HTTPLoader {
	return &HTTPLoader{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (l *HTTPLoader) Load(ctx context.Context, domain string) ([]model.Question, error) {
	url := fmt.Sprintf("%s/%s-questions.json", l.baseURL, model.Slugify(domain))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &LoadError{Domain: domain, Err: err}
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, &LoadError{Domain: domain, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &LoadError{Domain: domain, Err: fmt.Errorf("question source returned %d", resp.StatusCode)}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &LoadError{Domain: domain, Err: err}
	}
	questions, err := DecodeQuestions(data)
	if err != nil {
		return nil, &LoadError{Domain: domain, Err: err}
	}
	return questions, nil
}

// rawQuestion tolerates both source shapes: the combined export (qid,
// question, answer1..answer3) and the structured form (id, text, answers[]).
type rawQuestion struct {
	ID              json.RawMessage        `json:"id"`
	QID             json.RawMessage        `json:"qid"`
	Text            string                 `json:"text"`
	Question        string                 `json:"question"`
	QuestionType    string                 `json:"question_type"`
	PolymerDetails  string                 `json:"polymer_details"`
	ReferenceAnswer string                 `json:"reference_answer"`
	Extra           map[string]interface{} `json:"experimentalProperties"`
	Answers         []model.Answer         `json:"answers"`
	Answer1         string                 `json:"answer1"`
	Answer2         string                 `json:"answer2"`
	Answer3         string                 `json:"answer3"`
}

// DecodeQuestions parses a question-set document: either a bare array of
// items or an object with a "questions" array.
func DecodeQuestions(data []byte) ([]model.Question, error) {
	var items []rawQuestion
	if err := json.Unmarshal(data, &items); err != nil {
		var wrapped struct {
			Questions []rawQuestion `json:"questions"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("unrecognized question set format: %w", err)
		}
		items = wrapped.Questions
	}

	questions := make([]model.Question, 0, len(items))
	for i, item := range items {
		q, err := item.toQuestion()
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (r *rawQuestion) toQuestion() (model.Question, error) {
	id := rawID(r.ID)
	if id == "" {
		id = rawID(r.QID)
	}
	if id == "" {
		return model.Question{}, fmt.Errorf("missing id/qid")
	}

	text := r.Text
	if text == "" {
		text = r.Question
	}

	answers := r.Answers
	if len(answers) == 0 {
		for i, answerText := range []string{r.Answer1, r.Answer2, r.Answer3} {
			if answerText == "" {
				continue
			}
			answers = append(answers, model.Answer{
				ID:    fmt.Sprintf("%s_answer%d", id, i+1),
				Label: fmt.Sprintf("Answer %d", i+1),
				Text:  answerText,
			})
		}
	}

	return model.Question{
		ID:              id,
		Text:            text,
		QuestionType:    r.QuestionType,
		PolymerDetails:  r.PolymerDetails,
		ReferenceAnswer: r.ReferenceAnswer,
		Extra:           r.Extra,
		Answers:         answers,
	}, nil
}

// rawID renders a JSON id that may be a string or a number.
func rawID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatInt(n, 10)
	}
	return ""
}
