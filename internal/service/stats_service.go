package service

import (
	"context"
	"math"

	"sciannotate/internal/model"
	"sciannotate/internal/repository"
)

// Stats summarizes collected annotations
type Stats struct {
	TotalResponses   int                `json:"total_responses"`
	Domains          map[string]int     `json:"domains"`
	CriteriaAverages map[string]float64 `json:"criteria_averages"`
}

// StatsService computes annotation statistics across all collected records.
type StatsService struct {
	responseRepo repository.ResponseRepo
}

// NewStatsService creates a new stats service
func NewStatsService(responseRepo repository.ResponseRepo) *StatsService {
	return &StatsService{responseRepo: responseRepo}
}

// Compute tallies per-domain response counts and per-criterion score averages
// over every rated answer. Unrated (zero) criteria are excluded from the
// averages.
func (s *StatsService) Compute(ctx context.Context) (*Stats, error) {
	records, err := s.responseRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Domains:          make(map[string]int),
		CriteriaAverages: make(map[string]float64),
	}

	sums := make(map[string]int)
	counts := make(map[string]int)

	for _, record := range records {
		stats.TotalResponses++
		domain := record.Domain
		if domain == "" {
			domain = "unknown"
		}
		stats.Domains[domain]++

		for _, a := range record.Answers {
			for criterion, score := range a.Ratings {
				if score == 0 {
					continue
				}
				sums[criterion] += score
				counts[criterion]++
			}
		}
	}

	for criterion, sum := range sums {
		avg := float64(sum) / float64(counts[criterion])
		stats.CriteriaAverages[criterion] = math.Round(avg*100) / 100
	}
	return stats, nil
}

// DomainSummary reports how many responses a single domain collected and how
// many distinct questions they cover.
func (s *StatsService) DomainSummary(ctx context.Context, domain string) (responses int, questions int, err error) {
	d := model.DomainBySlug(domain)
	if d == nil {
		return 0, 0, ErrUnknownDomain
	}
	records, err := s.responseRepo.GetByDomain(ctx, d.Name)
	if err != nil {
		return 0, 0, err
	}
	seen := make(map[string]bool)
	for _, record := range records {
		seen[record.QuestionID] = true
	}
	return len(records), len(seen), nil
}
