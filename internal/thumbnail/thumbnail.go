// Package thumbnail generates YouTube thumbnail images with Gemini's
// image generation model.
package thumbnail

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash-image"

const promptTemplate = `Generate a compelling YouTube video thumbnail image for a video titled: "%s"

Video description/context: %s

Requirements for the thumbnail:
- Eye-catching, bold visual design suitable for YouTube
- 16:9 aspect ratio (standard YouTube thumbnail)
- Bold, large readable text overlay showing a short hook phrase (3-5 words max) derived from the title
- Vibrant, high-contrast colors that pop on both light and dark backgrounds
- Professional quality, modern YouTube style
- Include a dramatic or intriguing visual element related to the topic
- Style similar to popular science/education YouTube channels like Veritasium, Vsauce, or Kurzgesagt
- Do NOT include any YouTube UI elements (play button, progress bar, etc.)
`

// Image is a generated thumbnail, base64-encoded for JSON transport.
type Image struct {
	ImageBase64 string `json:"image_base64"`
	MIMEType    string `json:"mime_type"`
}

// Generator produces thumbnail images for video titles.
type Generator struct {
	client *genai.Client
	model  string
}

// New creates a Generator. Model defaults to DefaultModel when empty.
func New(ctx context.Context, apiKey, model string) (*Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key not configured")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &Generator{client: client, model: model}, nil
}

// Generate renders a 16:9 thumbnail for the given title and returns the
// first image the model produces.
func (g *Generator) Generate(ctx context.Context, title, description string) (*Image, error) {
	if description == "" {
		description = title
	}
	prompt := fmt.Sprintf(promptTemplate, title, description)
	log.Printf("generating thumbnail for: %s", title)

	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"IMAGE"},
			ImageConfig:        &genai.ImageConfig{AspectRatio: "16:9"},
		})
	if err != nil {
		return nil, fmt.Errorf("generating thumbnail: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			mime := part.InlineData.MIMEType
			if mime == "" {
				mime = "image/png"
			}
			log.Printf("thumbnail generated (%d bytes)", len(part.InlineData.Data))
			return &Image{
				ImageBase64: base64.StdEncoding.EncodeToString(part.InlineData.Data),
				MIMEType:    mime,
			}, nil
		}
	}
	return nil, fmt.Errorf("model returned no image")
}
