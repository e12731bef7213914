package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nats-io/nats.go"
)

// Sink is a notification target for accepted submissions. Unconfigured
// sinks report Configured() false and are skipped with a recorded note.
type Sink interface {
	Name() string
	Configured() bool
	Deliver(ctx context.Context, sub Submission) error
}

// DiscordSink posts an embed to a Discord webhook.
type DiscordSink struct {
	webhookURL string
	httpClient *http.Client
}

// NewDiscordSink creates the webhook sink; an empty URL leaves it
// unconfigured.
func NewDiscordSink(webhookURL string) *DiscordSink {
	return &DiscordSink{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *DiscordSink) Name() string     { return "Discord webhook" }
func (s *DiscordSink) Configured() bool { return s.webhookURL != "" }

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordEmbed struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Color       int                 `json:"color"`
	Fields      []discordEmbedField `json:"fields"`
	Timestamp   string              `json:"timestamp"`
	Footer      struct {
		Text string `json:"text"`
	} `json:"footer"`
}

type discordPayload struct {
	Username string         `json:"username"`
	Embeds   []discordEmbed `json:"embeds"`
}

// Deliver implements Sink.
func (s *DiscordSink) Deliver(ctx context.Context, sub Submission) error {
	embed := discordEmbed{
		Title:       "New Contact: " + sub.Subject,
		Description: sub.Message,
		Color:       7420950,
		Fields: []discordEmbedField{
			{Name: "From", Value: sub.Name, Inline: true},
			{Name: "Email", Value: sub.Email, Inline: true},
		},
		Timestamp: now().UTC().Format(time.RFC3339),
	}
	embed.Footer.Text = "Contact Form Submission"
	payload := discordPayload{Username: "Website Contact Form", Embeds: []discordEmbed{embed}}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("discord webhook failed: %d %s", resp.StatusCode, resp.Status)
	}
	return nil
}

// NATSSink publishes accepted submissions to a NATS subject so other
// community services (bots, dashboards) can react to them.
type NATSSink struct {
	conn    *nats.Conn
	subject string
}

// NewNATSSink connects to the NATS server. An empty URL leaves the sink
// unconfigured; a connect failure is returned so the caller can decide to
// run without it.
func NewNATSSink(url, subject string) (*NATSSink, error) {
	if url == "" {
		return &NATSSink{}, nil
	}
	conn, err := nats.Connect(url, nats.Name("sitio-contact"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATSSink{conn: conn, subject: subject}, nil
}

func (s *NATSSink) Name() string     { return "NATS" }
func (s *NATSSink) Configured() bool { return s.conn != nil }

// Deliver implements Sink.
func (s *NATSSink) Deliver(ctx context.Context, sub Submission) error {
	msg := struct {
		Name       string    `json:"name"`
		Email      string    `json:"email"`
		Subject    string    `json:"subject"`
		Message    string    `json:"message"`
		ReceivedAt time.Time `json:"received_at"`
	}{sub.Name, sub.Email, sub.Subject, sub.Message, now().UTC()}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal nats payload: %w", err)
	}
	if err := s.conn.Publish(s.subject, data); err != nil {
		return fmt.Errorf("publish to %s: %w", s.subject, err)
	}
	return s.conn.FlushWithContext(ctx)
}

// Close releases the NATS connection.
func (s *NATSSink) Close() {
	if s.conn != nil {
		s.conn.Close()
	}
}
