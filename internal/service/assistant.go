package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/logger"
)

const (
	AssistantFallbackReply = "Sorry, I'm having trouble connecting to the AI. Please try again later."

	// maxAssistantHistory bounds how many earlier turns are sent to the model.
	maxAssistantHistory = 20
)

const supportPrompt = `
You are a friendly and helpful customer support assistant for a rental website called HAZEL.
Your goal is to answer user questions based on the information provided below.

- The FAQ page is located at the "/faq" URL.
- Users can find contact information on the "/contact" page.
- To contact an item owner, a user must be logged in, go to the item's listing page, and click the "Chat with Owner" button.
- To contact an admin, users should use the general contact form on the "/contact" page for support inquiries.
- The Privacy Policy is available at "/privacy-policy".
- Users can view all rental items on the "/products" page.
- The "About Us" page is at "/about".

When answering, be concise and friendly. If a user asks a question you cannot answer with the information above, politely say that you can only help with questions about the HAZEL website.
`

// ChatModel produces one assistant reply for a conversation.
type ChatModel interface {
	Reply(ctx context.Context, history []AssistantTurn, prompt string) (string, error)
}

type geminiModel struct {
	model *genai.GenerativeModel
}

// NewGeminiModel builds the support model. The returned client must be closed
// on shutdown.
func NewGeminiModel(ctx context.Context, apiKey, modelName string) (ChatModel, *genai.Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SystemInstruction = genai.NewUserContent(genai.Text(supportPrompt))
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockMediumAndAbove},
	}
	return &geminiModel{model: model}, client, nil
}

func (m *geminiModel) Reply(ctx context.Context, history []AssistantTurn, prompt string) (string, error) {
	cs := m.model.StartChat()
	for _, turn := range history {
		role := "user"
		if turn.Role == "model" {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(turn.Text)}})
	}

	logger.ExternalServiceCall("Gemini", "SendMessage", "historyTurns", len(history))
	resp, err := cs.SendMessage(ctx, genai.Text(prompt))
	logger.ExternalServiceResult("Gemini", "SendMessage", err)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				out.WriteString(string(text))
			}
		}
		break
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("gemini returned no text")
	}
	return out.String(), nil
}

type assistantService struct {
	model ChatModel
}

// NewAssistantService answers support questions. A nil model makes every
// answer the fallback reply.
func NewAssistantService(model ChatModel) AssistantService {
	return &assistantService{model: model}
}

func (s *assistantService) Greeting(_ context.Context, user *domain.User) string {
	name := ""
	if user != nil {
		if n := user.FullName(); n != "" {
			name = " " + n
		}
	}
	return fmt.Sprintf("Hello%s! You are chatting with HAZEL's AI Assistant. How can I help you?", name)
}

func (s *assistantService) Ask(ctx context.Context, history []AssistantTurn, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", ErrEmptyPrompt
	}
	if s.model == nil {
		return AssistantFallbackReply, nil
	}
	if len(history) > maxAssistantHistory {
		history = history[len(history)-maxAssistantHistory:]
	}

	reply, err := s.model.Reply(ctx, history, prompt)
	if err != nil {
		logger.Error("Support assistant failed", "error", err)
		return AssistantFallbackReply, nil
	}
	return reply, nil
}
