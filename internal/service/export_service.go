package service

import (
	"context"
	"fmt"
	"time"

	"sciannotate/internal/model"
	"sciannotate/internal/repository"
)

// ExportService dumps all collected review records for download.
type ExportService struct {
	responseRepo repository.ResponseRepo
}

// NewExportService creates a new export service
func NewExportService(responseRepo repository.ResponseRepo) *ExportService {
	return &ExportService{responseRepo: responseRepo}
}

// Export returns all review records and the date-stamped download filename.
func (s *ExportService) Export(ctx context.Context) ([]*model.ReviewRecord, string, error) {
	records, err := s.responseRepo.GetAll(ctx)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("annotation_responses_%s.json", time.Now().Format("2006-01-02"))
	return records, filename, nil
}
