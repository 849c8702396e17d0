package services

import (
	"context"

	"github.com/chartsheet/server/internal/helpers"
	"github.com/chartsheet/server/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const dateLayout = "2006-01-02"

type UploadService struct {
	uploadRepo models.UploadRepo
	uploadDir  string
}

func NewUploadService(uploadRepo models.UploadRepo, uploadDir string) *UploadService {
	return &UploadService{
		uploadRepo: uploadRepo,
		uploadDir:  uploadDir,
	}
}

type SubmitInput struct {
	Owner        primitive.ObjectID
	FileBytes    []byte
	OriginalName string
	ChartType    string
	LabelsJSON   string
	DataJSON     string
}

// Submit persists the file under a server-generated name and writes the
// upload record with its chart snapshot. Malformed labels/data JSON
// degrades to empty arrays rather than failing the request; when neither
// field is sent and the file is a workbook, the snapshot is prefilled from
// the first sheet instead.
func (us *UploadService) Submit(ctx context.Context, in SubmitInput) (*models.Upload, error) {
	labels, data := helpers.ParseChartFields(in.LabelsJSON, in.DataJSON)
	if in.LabelsJSON == "" && in.DataJSON == "" && helpers.IsSpreadsheet(in.OriginalName) {
		if extractedLabels, extractedData, err := helpers.ExtractChartData(in.FileBytes); err == nil {
			labels, data = extractedLabels, extractedData
		}
	}

	stored := helpers.StoredFilename(in.OriginalName)
	path, err := helpers.SaveFile(us.uploadDir, stored, in.FileBytes)
	if err != nil {
		return nil, err
	}

	upload := &models.Upload{
		Filename:     stored,
		OriginalName: in.OriginalName,
		Path:         path,
		User:         in.Owner,
		ChartType:    in.ChartType,
		Labels:       labels,
		Data:         data,
	}
	return us.uploadRepo.CreateUpload(ctx, upload)
}

func (us *UploadService) List(ctx context.Context, owner primitive.ObjectID) ([]*models.UploadSummary, error) {
	uploads, err := us.uploadRepo.ListUploadsByUser(ctx, owner)
	if err != nil {
		return nil, err
	}
	summaries := make([]*models.UploadSummary, 0, len(uploads))
	for _, u := range uploads {
		summaries = append(summaries, &models.UploadSummary{
			ID:       u.ID,
			Filename: u.OriginalName,
			Date:     u.Date.Format(dateLayout),
			URL:      "/api/download/" + u.ID.Hex(),
		})
	}
	return summaries, nil
}

func (us *UploadService) History(ctx context.Context, owner primitive.ObjectID) ([]*models.HistoryEntry, error) {
	uploads, err := us.uploadRepo.ListUploadsByUser(ctx, owner)
	if err != nil {
		return nil, err
	}
	history := make([]*models.HistoryEntry, 0, len(uploads))
	for _, u := range uploads {
		history = append(history, &models.HistoryEntry{
			ID:        u.ID,
			Filename:  u.OriginalName,
			Date:      u.Date.Format(dateLayout),
			ChartType: u.ChartType,
			Labels:    u.Labels,
			Data:      u.Data,
			FileID:    u.ID,
		})
	}
	return history, nil
}

// Remove deletes the record only when owner holds it; a foreign id is
// reported as not found so callers cannot probe other users' uploads. The
// stored file stays on disk.
func (us *UploadService) Remove(ctx context.Context, owner, id primitive.ObjectID) error {
	_, err := us.uploadRepo.DeleteOwnedUpload(ctx, id, owner)
	return err
}

// Download resolves an upload by id with no ownership check; download
// links are handed out as shareable URLs.
func (us *UploadService) Download(ctx context.Context, id primitive.ObjectID) (*models.Upload, error) {
	return us.uploadRepo.GetUploadByID(ctx, id)
}

func (us *UploadService) KPIs(ctx context.Context, owner primitive.ObjectID) ([]models.KPI, error) {
	total, err := us.uploadRepo.CountUploadsByUser(ctx, owner)
	if err != nil {
		return nil, err
	}

	recent := "-"
	if latest, err := us.uploadRepo.LatestUploadByUser(ctx, owner); err == nil {
		recent = latest.Date.Format(dateLayout)
	}

	return []models.KPI{
		{Label: "Total Uploads", Value: total, Icon: "📁"},
		{Label: "Recent Upload", Value: recent, Icon: "⏰"},
	}, nil
}
