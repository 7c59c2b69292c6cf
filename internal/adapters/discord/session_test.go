package discord

import (
	"testing"

	"slashbind/internal/config"

	"github.com/bwmarrin/discordgo"
)

func TestNewSession(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"standard format", "MTk.test.token"},
		{"short token", "test"},
		{"empty", ""},
		{"with special chars", "test-token_123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := NewSession(&config.Config{Token: tt.token})
			if err != nil {
				t.Fatalf("Unexpected error creating session: %v", err)
			}

			if session.Token != "Bot "+tt.token {
				t.Errorf("Expected token 'Bot %s', got '%s'", tt.token, session.Token)
			}
			if session.Identify.Intents != discordgo.IntentsGuilds {
				t.Errorf("Expected intents %d, got %d", discordgo.IntentsGuilds, session.Identify.Intents)
			}
		})
	}
}
