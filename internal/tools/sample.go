package tools

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/tubewise/tubewise/internal/strategy"
)

// SampleData is the canned channel payload used by dev-mode analysis.
type SampleData struct {
	Channel struct {
		ChannelID string `json:"channelId"`
		Title     string `json:"title"`
	} `json:"channel"`
	Videos []strategy.VideoInfo `json:"videos"`
}

// LoadSampleData reads a sample data file for dev-mode runs.
func LoadSampleData(path string) (*SampleData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sample data: %w", err)
	}
	var sample SampleData
	if err := json.Unmarshal(data, &sample); err != nil {
		return nil, fmt.Errorf("parsing sample data: %w", err)
	}
	log.Printf("dev mode: loaded sample data (%d videos)", len(sample.Videos))
	return &sample, nil
}
