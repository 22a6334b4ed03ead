package pubsub

import (
	"context"
	"testing"

	"github.com/angelmondragon/luxe-storefront/pkg/config"
)

func TestTopicResourceName(t *testing.T) {
	c := &Client{projectID: "luxe-prod"}

	cases := map[string]string{
		"":                             "",
		"   ":                          "",
		"storefront-analytics":         "projects/luxe-prod/topics/storefront-analytics",
		"projects/other/topics/events": "projects/other/topics/events",
		"  storefront-analytics  ":     "projects/luxe-prod/topics/storefront-analytics",
	}
	for in, want := range cases {
		if got := c.topicResourceName(in); got != want {
			t.Fatalf("topicResourceName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTopicResourceNameWithoutProject(t *testing.T) {
	c := &Client{}
	if got := c.topicResourceName("events"); got != "" {
		t.Fatalf("expected empty name without project, got %q", got)
	}
}

func TestNewClientValidatesInputs(t *testing.T) {
	ctx := context.Background()
	if _, err := NewClient(ctx, config.GCPConfig{}, "events", nil); err != errProjectIDRequired {
		t.Fatalf("expected errProjectIDRequired, got %v", err)
	}
	if _, err := NewClient(ctx, config.GCPConfig{ProjectID: "p"}, " ", nil); err != errTopicRequired {
		t.Fatalf("expected errTopicRequired, got %v", err)
	}
}

func TestNilClientIsSafe(t *testing.T) {
	var c *Client
	if c.Publisher("events") != nil {
		t.Fatal("expected nil publisher from nil client")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close on nil client returned %v", err)
	}
	if err := c.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error from nil client")
	}
}

func TestNilTopicPublisher(t *testing.T) {
	p := NewTopicPublisher(nil)
	if _, err := p.Publish(context.Background(), []byte("x"), nil); err == nil {
		t.Fatal("expected error from uninitialized publisher")
	}
	p.Stop()
}
