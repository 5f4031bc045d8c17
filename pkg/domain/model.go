package domain

import (
	"strings"
	"time"
)

type ModelDetails struct {
	Format            string   `json:"format,omitempty"`
	Family            string   `json:"family,omitempty"`
	Families          []string `json:"families,omitempty"`
	ParameterSize     string   `json:"parameter_size,omitempty"`
	QuantizationLevel string   `json:"quantization_level,omitempty"`
}

// Model is a locally available model as reported by the inference server.
type Model struct {
	Name       string
	Model      string
	ModifiedAt time.Time
	Size       int64
	Digest     string
	Details    ModelDetails
}

// ModelName returns the name without the tag.
func (m Model) ModelName() string {
	name, _ := SplitModelTag(m.Name)
	return name
}

// ModelVersion returns the tag, "latest" when the name carries none.
func (m Model) ModelVersion() string {
	_, tag := SplitModelTag(m.Name)
	return tag
}

// RunningModel is a model currently loaded in memory.
type RunningModel struct {
	Name      string       `json:"name"`
	Model     string       `json:"model"`
	Size      int64        `json:"size"`
	SizeVRAM  int64        `json:"size_vram"`
	Digest    string       `json:"digest"`
	ExpiresAt time.Time    `json:"expires_at"`
	Details   ModelDetails `json:"details"`
}

// LibraryModel is an entry of the public model library.
type LibraryModel struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Capabilities []string `json:"capabilities,omitempty"`
	Sizes        []string `json:"sizes,omitempty"`
	PullCount    string   `json:"pull_count"`
	TotalTags    int      `json:"total_tags"`
	LastUpdated  string   `json:"last_updated"`
}

// SplitModelTag splits "name:tag". A missing tag is reported as "latest".
func SplitModelTag(s string) (name, tag string) {
	i := strings.LastIndex(s, ":")
	if i < 0 || strings.Contains(s[i+1:], "/") {
		return s, "latest"
	}
	if s[i+1:] == "" {
		return s[:i], "latest"
	}
	return s[:i], s[i+1:]
}
