// Package gemini is the only place that talks to the generative provider.
// Every operation checks the credential first, converts provider failures
// into fixed user-facing errors and never retries.
package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/smokvina/Slavenski-Ljubavni-Pri-atelj/internal/config"
	"github.com/smokvina/Slavenski-Ljubavni-Pri-atelj/internal/model"
	"github.com/smokvina/Slavenski-Ljubavni-Pri-atelj/internal/utils"
	"github.com/smokvina/Slavenski-Ljubavni-Pri-atelj/pkg/logger"
)

// apiKeyPlaceholder is treated the same as an absent credential.
const apiKeyPlaceholder = "YOUR_API_KEY"

var (
	// ErrAPIKeyMissing is terminal until the process restarts with a key.
	ErrAPIKeyMissing = errors.New("Gemini API ključ nije konfiguriran. Molimo kontaktirajte podršku.")

	ErrAnalysisFailed = errors.New("Failed to generate synastry analysis. Please try again.")
	ErrImageFailed    = errors.New("Failed to generate image. Please try again.")
	ErrChatFailed     = errors.New("Failed to get chat response. Please try again.")
	ErrSearchFailed   = errors.New("Failed to perform search grounding. Please try again.")
	ErrQuickFailed    = errors.New("Failed to get low-latency response.")
)

// mapsUnsupportedText is the canned maps-grounding reply; the maps tool is
// not exposed by the provider API this client is built against.
const mapsUnsupportedText = "Nažalost, direktna integracija Google Maps alata putem Gemini API-ja nije podržana u ovoj konfiguraciji. Možete pokušati postaviti općenito pitanje o lokacijama u chatu."

// GroundedAnswer is a reply plus the citation URLs backing it, in the
// order the provider reported them.
type GroundedAnswer struct {
	Text string   `json:"text"`
	URLs []string `json:"urls"`
}

type Client struct {
	ai  *genai.Client // nil when the credential is missing or rejected
	cfg config.GeminiConfig

	mu    sync.Mutex
	chats map[string]*genai.Chat
}

// NewClient builds the provider client. A missing or placeholder key does
// not fail construction; it leaves the client permanently degraded so every
// operation reports ErrAPIKeyMissing instead of crashing the service.
func NewClient(ctx context.Context, cfg config.GeminiConfig) *Client {
	c := &Client{
		cfg:   cfg,
		chats: make(map[string]*genai.Chat),
	}

	if cfg.APIKey == "" || cfg.APIKey == apiKeyPlaceholder {
		logger.Warnf("Gemini API key is missing or a placeholder; provider operations are disabled")
		return c
	}

	ai, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: utils.NewHTTPClient(cfg.Timeout),
	})
	if err != nil {
		logger.Errorf("Failed to initialize Gemini client: %v", err)
		return c
	}

	c.ai = ai
	return c
}

func (c *Client) checkAPIKey() error {
	if c.ai == nil {
		return ErrAPIKeyMissing
	}
	return nil
}

// GenerateSynastryAnalysis runs the long-form analysis over both records on
// the high-capability model with the full thinking budget.
func (c *Client) GenerateSynastryAnalysis(ctx context.Context, a, b model.BirthRecord) (string, error) {
	if err := c.checkAPIKey(); err != nil {
		return "", err
	}

	budget := c.cfg.ThinkingBudget
	resp, err := c.ai.Models.GenerateContent(ctx, c.cfg.AnalysisModel,
		genai.Text(SynastryPrompt(a, b)),
		&genai.GenerateContentConfig{
			ThinkingConfig: &genai.ThinkingConfig{ThinkingBudget: &budget},
		})
	if err != nil {
		logger.Errorf("Synastry analysis call failed: %v", err)
		return "", ErrAnalysisFailed
	}

	return resp.Text(), nil
}

// GenerateImage requests exactly one 16:9 JPEG and returns it as a data URI.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if err := c.checkAPIKey(); err != nil {
		return "", err
	}

	resp, err := c.ai.Models.GenerateImages(ctx, c.cfg.ImageModel, prompt,
		&genai.GenerateImagesConfig{
			NumberOfImages: 1,
			OutputMIMEType: "image/jpeg",
			AspectRatio:    "16:9",
		})
	if err != nil {
		logger.Errorf("Image generation call failed: %v", err)
		return "", ErrImageFailed
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		logger.Errorf("Image generation returned no images")
		return "", ErrImageFailed
	}

	encoded := base64.StdEncoding.EncodeToString(resp.GeneratedImages[0].Image.ImageBytes)
	return "data:image/jpeg;base64," + encoded, nil
}

// StartChat creates the session's conversational handle at most once; a
// second call while the handle exists is a no-op.
func (c *Client) StartChat(ctx context.Context, sessionID string) error {
	if err := c.checkAPIKey(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.chatLocked(ctx, sessionID)
	return err
}

// chatLocked is the get-or-create accessor; the caller holds c.mu.
func (c *Client) chatLocked(ctx context.Context, sessionID string) (*genai.Chat, error) {
	if chat, ok := c.chats[sessionID]; ok {
		return chat, nil
	}

	chat, err := c.ai.Chats.Create(ctx, c.cfg.ChatModel,
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(c.systemInstruction(), genai.RoleUser),
		}, nil)
	if err != nil {
		logger.Errorf("Failed to create chat for session %s: %v", sessionID, err)
		return nil, ErrChatFailed
	}

	c.chats[sessionID] = chat
	return chat, nil
}

func (c *Client) systemInstruction() string {
	if c.cfg.SystemInstruction != "" {
		return c.cfg.SystemInstruction
	}
	return defaultSystemInstruction
}

// SendChatMessage sends one message on the session's chat, creating it if
// needed. The provider streams the reply; callers only ever see the fully
// concatenated text.
func (c *Client) SendChatMessage(ctx context.Context, sessionID, message string) (string, error) {
	if err := c.checkAPIKey(); err != nil {
		return "", err
	}

	c.mu.Lock()
	chat, err := c.chatLocked(ctx, sessionID)
	c.mu.Unlock()
	if err != nil {
		return "", err
	}

	var full strings.Builder
	for resp, err := range chat.SendMessageStream(ctx, genai.Part{Text: message}) {
		if err != nil {
			logger.Errorf("Chat stream failed for session %s: %v", sessionID, err)
			return "", ErrChatFailed
		}
		full.WriteString(resp.Text())
	}

	return full.String(), nil
}

// SearchGrounding answers with the live web-search tool enabled and returns
// the citation URLs found in the grounding metadata.
func (c *Client) SearchGrounding(ctx context.Context, query string) (GroundedAnswer, error) {
	if err := c.checkAPIKey(); err != nil {
		return GroundedAnswer{}, err
	}

	resp, err := c.ai.Models.GenerateContent(ctx, c.cfg.ChatModel,
		genai.Text(query),
		&genai.GenerateContentConfig{
			Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		})
	if err != nil {
		logger.Errorf("Search grounding call failed: %v", err)
		return GroundedAnswer{}, ErrSearchFailed
	}

	return GroundedAnswer{Text: resp.Text(), URLs: groundingURLs(resp)}, nil
}

// MapsGrounding is intentionally not wired to the provider: the maps tool
// cannot be combined with the API surface in use, so every query succeeds
// with a fixed explanation and no citations.
func (c *Client) MapsGrounding(ctx context.Context, query string) (GroundedAnswer, error) {
	if err := c.checkAPIKey(); err != nil {
		return GroundedAnswer{}, err
	}

	logger.Warnf("Maps grounding requested but not supported; returning canned reply")
	return GroundedAnswer{Text: mapsUnsupportedText, URLs: []string{}}, nil
}

// LowLatencyAnswer disables thinking entirely for the fastest possible reply.
func (c *Client) LowLatencyAnswer(ctx context.Context, query string) (string, error) {
	if err := c.checkAPIKey(); err != nil {
		return "", err
	}

	var budget int32
	resp, err := c.ai.Models.GenerateContent(ctx, c.cfg.ChatModel,
		genai.Text(query),
		&genai.GenerateContentConfig{
			ThinkingConfig: &genai.ThinkingConfig{ThinkingBudget: &budget},
		})
	if err != nil {
		logger.Errorf("Low-latency call failed: %v", err)
		return "", ErrQuickFailed
	}

	return resp.Text(), nil
}

// DropChat releases the provider handle of a dead session.
func (c *Client) DropChat(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.chats, sessionID)
}
