package services

import (
	"testing"

	"invito/models"
)

func TestParseLegacyToken(t *testing.T) {
	tests := []struct {
		token       string
		wantEventID uint
		wantOK      bool
	}{
		{"evt-12-a8f3k2", 12, true},
		{"evt-1-code9", 1, true},
		{"evt-0-a8f3k2", 0, false}, // event ids start at 1
		{"evt-12-abc", 0, false},   // code too short
		{"evt-twelve-a8f3", 0, false},
		{"event-12-a8f3k2", 0, false},
		{"a8f3k2-evt-12", 0, false},
		{"", 0, false},
		{"d2719f0e-8d0b-4f7e-9c8a-0b1a2c3d4e5f", 0, false}, // current uuid format
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			eventID, ok := parseLegacyToken(tt.token)
			if ok != tt.wantOK || eventID != tt.wantEventID {
				t.Errorf("parseLegacyToken(%q) = (%d, %v), want (%d, %v)",
					tt.token, eventID, ok, tt.wantEventID, tt.wantOK)
			}
		})
	}
}

func TestPlayerName(t *testing.T) {
	access := &AccessService{}
	familyID := uint(4)
	guestID := uint(9)

	tests := []struct {
		name      string
		grant     *models.AccessGrant
		requested string
		want      string
	}{
		{
			name:      "requested name wins",
			grant:     &models.AccessGrant{Guest: &models.Guest{ID: guestID, Name: "Marta"}},
			requested: "  DJ Marta  ",
			want:      "DJ Marta",
		},
		{
			name:  "falls back to guest name",
			grant: &models.AccessGrant{Guest: &models.Guest{ID: guestID, Name: "Marta"}},
			want:  "Marta",
		},
		{
			name:  "falls back to family name",
			grant: &models.AccessGrant{Family: &models.Family{ID: familyID, Name: "The Silvas"}},
			want:  "The Silvas",
		},
		{
			name:  "falls back to grant label",
			grant: &models.AccessGrant{Label: "Guest 3"},
			want:  "Guest 3",
		},
		{
			name:  "anonymous default",
			grant: &models.AccessGrant{},
			want:  "Guest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := access.PlayerName(tt.grant, tt.requested); got != tt.want {
				t.Errorf("PlayerName() = %q, want %q", got, tt.want)
			}
		})
	}
}
