package classifier

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = `You classify emails. Answer with exactly one word:
"recruiter" if the email is a recruiter or staffing agency reaching out
about a job opportunity, otherwise "other".`

const maxBodyChars = 4000

// OpenAI asks a chat model whether an email is recruiter outreach. It is
// optional; the caller falls back to keyword scoring when it errors.
type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(apiKey, model string) *OpenAI {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAI{client: openai.NewClient(apiKey), model: model}
}

func (o *OpenAI) PredictRecruiter(ctx context.Context, subject, body, from string) (bool, error) {
	if len(body) > maxBodyChars {
		body = body[:maxBodyChars]
	}
	user := fmt.Sprintf("From: %s\nSubject: %s\n\n%s", from, subject, body)

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: 0,
		MaxTokens:   5,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return false, fmt.Errorf("classify: %w", err)
	}
	if len(resp.Choices) == 0 {
		return false, fmt.Errorf("classify: empty response")
	}

	answer := strings.ToLower(strings.TrimSpace(resp.Choices[0].Message.Content))
	return strings.HasPrefix(answer, "recruiter"), nil
}
