package email

import "context"

// SendWelcomeEmail greets a freshly registered user.
func (c *Client) SendWelcomeEmail(ctx context.Context, to string) error {
	data := map[string]string{
		"UserEmail": to,
	}

	return c.SendEmail(ctx, to, "Welcome to AskMate!", TemplateWelcome, data)
}
