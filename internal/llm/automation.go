package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/javiermolinar/flowdesk/internal/task"
)

// ErrInvalidAutomation is returned when the model's answer is not a usable rule.
var ErrInvalidAutomation = errors.New("invalid automation rule from model")

// AutomationPrompt instructs the model to describe a repetitive process as a rule.
const AutomationPrompt = `You are a task automation assistant. Analyze the user's description of a repetitive process and return a JSON object with automation rules:
{
  "frequency": "How often the task should run (e.g., 'daily', 'weekly', 'monthly', 'every 3 days', 'every Monday', 'first day of month')",
  "description": "A plain English description of what this automation does (required)",
  "email_subject": "Optional email subject if this automation sends emails",
  "email_body": "Optional email body if this automation sends emails"
}

The frequency and description fields are required. Return valid JSON only.`

// automationResponse is the JSON shape the model answers with. Any other
// field in the answer is dropped.
type automationResponse struct {
	Frequency    *string `json:"frequency"`
	Description  *string `json:"description"`
	EmailSubject *string `json:"email_subject"`
	EmailBody    *string `json:"email_body"`
}

// ParseAutomation asks the model to turn description into an automation rule.
func ParseAutomation(ctx context.Context, client Client, description string) (task.AutomationRule, error) {
	var resp automationResponse
	err := client.ChatJSON(ctx, []Message{
		{Role: RoleSystem, Content: AutomationPrompt},
		{Role: RoleUser, Content: description},
	}, &resp)
	if err != nil {
		return task.AutomationRule{}, fmt.Errorf("generating automation: %w", err)
	}
	return resp.toRule()
}

func (r automationResponse) toRule() (task.AutomationRule, error) {
	if r.Frequency == nil || strings.TrimSpace(*r.Frequency) == "" {
		return task.AutomationRule{}, fmt.Errorf("%w: missing or empty frequency", ErrInvalidAutomation)
	}
	if r.Description == nil || strings.TrimSpace(*r.Description) == "" {
		return task.AutomationRule{}, fmt.Errorf("%w: missing or empty description", ErrInvalidAutomation)
	}

	rule := task.AutomationRule{
		Frequency:   strings.TrimSpace(*r.Frequency),
		Description: strings.TrimSpace(*r.Description),
	}
	if r.EmailSubject != nil {
		rule.EmailSubject = strings.TrimSpace(*r.EmailSubject)
	}
	if r.EmailBody != nil {
		rule.EmailBody = *r.EmailBody
	}
	return rule, nil
}
