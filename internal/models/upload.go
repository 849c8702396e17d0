package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultChartType = "Bar"

// Upload is the stored metadata for one submitted file plus the chart
// snapshot the client renders from without re-parsing the file.
type Upload struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Filename     string             `bson:"filename" json:"filename"`
	OriginalName string             `bson:"originalname" json:"originalname"`
	Path         string             `bson:"path" json:"path"`
	User         primitive.ObjectID `bson:"user" json:"user" validate:"required"`
	Date         time.Time          `bson:"date" json:"date"`
	ChartType    string             `bson:"chartType" json:"chartType"`
	Labels       []string           `bson:"labels" json:"labels"`
	Data         []float64          `bson:"data" json:"data"`
}

func (u *Upload) BeforeCreate() error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.ChartType == "" {
		u.ChartType = DefaultChartType
	}
	if u.Labels == nil {
		u.Labels = []string{}
	}
	if u.Data == nil {
		u.Data = []float64{}
	}
	if u.Date.IsZero() {
		u.Date = time.Now()
	}
	return nil
}

// UploadSummary is the listing projection for the dashboard table.
type UploadSummary struct {
	ID       primitive.ObjectID `json:"id"`
	Filename string             `json:"filename"`
	Date     string             `json:"date"`
	URL      string             `json:"url"`
}

// HistoryEntry extends the summary with the chart snapshot so the client
// can re-render without touching the original file.
type HistoryEntry struct {
	ID        primitive.ObjectID `json:"id"`
	Filename  string             `json:"filename"`
	Date      string             `json:"date"`
	ChartType string             `json:"chartType"`
	Labels    []string           `json:"labels"`
	Data      []float64          `json:"data"`
	FileID    primitive.ObjectID `json:"fileId"`
}

// KPI is one dashboard stat tile.
type KPI struct {
	Label string `json:"label"`
	Value any    `json:"value"`
	Icon  string `json:"icon"`
}
