package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	RasterFilename = "gas_turbine_eoh_chart.png"
	RasterMIMEType = "image/png"
	MarkupFilename = "gas_turbine_eoh_chart.html"
	MarkupMIMEType = "text/html"
)

// Artifact is one exported chart file.
type Artifact struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	MIMEType  string    `json:"mime_type"`
	CreatedAt time.Time `json:"created_at"`
	Data      []byte    `json:"-"`
}

func NewArtifact(filename, mimeType string, data []byte) *Artifact {
	return &Artifact{
		ID:        uuid.New().String(),
		Filename:  filename,
		MIMEType:  mimeType,
		CreatedAt: time.Now().UTC(),
		Data:      data,
	}
}

func NewRasterArtifact(data []byte) *Artifact {
	return NewArtifact(RasterFilename, RasterMIMEType, data)
}

func NewMarkupArtifact(markup string) *Artifact {
	return NewArtifact(MarkupFilename, MarkupMIMEType, []byte(markup))
}
