package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mindstash-io/mindstash/internal/domain"
)

const (
	summaryMarker = "SUMMARY:"
	tagsMarker    = "TAGS:"
)

// ErrProviderUnavailable is returned by Enhance when no text generation
// provider is configured. No network call is attempted in that case.
var ErrProviderUnavailable = errors.New("no text generation provider configured")

// TextGenerator defines the text generation capability consumed by the
// enhancement pipeline
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Enhancement holds AI-derived metadata for a knowledge item
type Enhancement struct {
	Summary string
	Tags    []string
}

// ParseEnhancement extracts a summary and tags from a loosely structured
// provider response. The expected shape is "SUMMARY: ... TAGS: a, b, c" but
// the generator is not bound to it, so the parser is tolerant: a missing
// TAGS: marker yields no tags, a missing SUMMARY: marker treats the text
// before TAGS: (or the whole text) as the summary. Empty fields signal
// "nothing found" to the caller; this function never fails.
func ParseEnhancement(raw string) Enhancement {
	summaryPart := raw
	tagPart := ""

	if i := strings.Index(raw, tagsMarker); i >= 0 {
		summaryPart = raw[:i]
		tagPart = raw[i+len(tagsMarker):]
	}
	if i := strings.Index(summaryPart, summaryMarker); i >= 0 {
		summaryPart = summaryPart[i+len(summaryMarker):]
	}

	return Enhancement{
		Summary: strings.TrimSpace(summaryPart),
		Tags:    domain.NormalizeTags(strings.Split(tagPart, ",")),
	}
}

// EnhancementService orchestrates AI content enhancement: one combined
// request, planned fallback requests for missing fields, and a final
// heuristic for tags. Provider failures in the primary path trigger one
// outer recovery pass; failures there surface to the caller.
type EnhancementService struct {
	gen TextGenerator
}

// NewEnhancementService creates an EnhancementService. A nil generator is
// allowed and makes Enhance fail fast with ErrProviderUnavailable.
func NewEnhancementService(gen TextGenerator) *EnhancementService {
	return &EnhancementService{gen: gen}
}

// Enhance derives a summary and tags for the given title and content.
func (s *EnhancementService) Enhance(ctx context.Context, title, content string) (Enhancement, error) {
	if s.gen == nil {
		return Enhancement{}, ErrProviderUnavailable
	}

	enhanced, err := s.enhanceCombined(ctx, title, content)
	if err == nil {
		return enhanced, nil
	}

	// Outer failure handler: the summary and tag requests are independent,
	// so issue them concurrently and await both.
	var (
		wg      sync.WaitGroup
		summary string
		tags    []string
		sumErr  error
		tagErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		summary, sumErr = s.generateSummary(ctx, content)
	}()
	go func() {
		defer wg.Done()
		tags, tagErr = s.suggestTags(ctx, title, content)
	}()
	wg.Wait()

	if sumErr != nil {
		return Enhancement{}, sumErr
	}
	if tagErr != nil {
		return Enhancement{}, tagErr
	}

	return Enhancement{Summary: summary, Tags: tags}, nil
}

// enhanceCombined issues the single combined request and fills any field the
// parser could not isolate with a dedicated follow-up request.
func (s *EnhancementService) enhanceCombined(ctx context.Context, title, content string) (Enhancement, error) {
	raw, err := s.gen.Generate(ctx, combinedPrompt(title, content))
	if err != nil {
		return Enhancement{}, fmt.Errorf("enhancement request failed: %w", err)
	}

	enhanced := ParseEnhancement(raw)

	if enhanced.Summary == "" {
		enhanced.Summary, err = s.generateSummary(ctx, content)
		if err != nil {
			return Enhancement{}, err
		}
	}

	if len(enhanced.Tags) == 0 {
		tags, err := s.suggestTags(ctx, title, content)
		if err != nil {
			return Enhancement{}, err
		}
		if len(tags) == 0 {
			// AI avenues exhausted, last resort is the word-frequency heuristic.
			tags = HeuristicTags(title, content, "")
		}
		enhanced.Tags = tags
	}

	return enhanced, nil
}

func (s *EnhancementService) generateSummary(ctx context.Context, content string) (string, error) {
	text, err := s.gen.Generate(ctx, summaryPrompt(content))
	if err != nil {
		return "", fmt.Errorf("summary request failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func (s *EnhancementService) suggestTags(ctx context.Context, title, content string) ([]string, error) {
	text, err := s.gen.Generate(ctx, tagsPrompt(title, content))
	if err != nil {
		return nil, fmt.Errorf("tag suggestion request failed: %w", err)
	}
	return domain.NormalizeTags(strings.Split(text, ",")), nil
}

func combinedPrompt(title, content string) string {
	return fmt.Sprintf(`Analyze the following content and provide:
1. A concise 2-sentence summary
2. Exactly 3 relevant tags (single words or short phrases, lowercase)

Title: %s
Content: %s

Format your response as:
SUMMARY: [your summary here]
TAGS: tag1, tag2, tag3`, title, content)
}

func summaryPrompt(content string) string {
	return fmt.Sprintf("Generate a concise 2-sentence summary of the following content. Be clear and informative:\n\n%s", content)
}

func tagsPrompt(title, content string) string {
	return fmt.Sprintf(`Based on the following title and content, suggest exactly 3 relevant tags (single words or short phrases, lowercase, separated by commas).

Title: %s
Content: %s

Return only the tags, separated by commas, nothing else.`, title, content)
}
