package models

import "testing"

func TestAccessGrantIdentity(t *testing.T) {
	guestID := uint(12)
	familyID := uint(5)

	tests := []struct {
		name  string
		grant AccessGrant
		want  string
	}{
		{
			name:  "individual grants share the guest identity",
			grant: AccessGrant{Token: "tok-a", PlayerType: PlayerTypeIndividual, GuestID: &guestID},
			want:  "guest:12",
		},
		{
			name:  "family grants share the family identity",
			grant: AccessGrant{Token: "tok-b", PlayerType: PlayerTypeFamily, FamilyID: &familyID},
			want:  "family:5",
		},
		{
			name:  "public grants are identified by their token",
			grant: AccessGrant{Token: "tok-c", PlayerType: PlayerTypePublic},
			want:  "tok-c",
		},
		{
			name:  "individual grant without guest falls back to token",
			grant: AccessGrant{Token: "tok-d", PlayerType: PlayerTypeIndividual},
			want:  "tok-d",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.grant.Identity(); got != tt.want {
				t.Errorf("Identity() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAccessGrantIdentityDistinctTokensSameGuest(t *testing.T) {
	guestID := uint(12)
	a := AccessGrant{Token: "tok-1", PlayerType: PlayerTypeIndividual, GuestID: &guestID}
	b := AccessGrant{Token: "tok-2", PlayerType: PlayerTypeIndividual, GuestID: &guestID}

	if a.Identity() != b.Identity() {
		t.Error("two tokens for the same guest must map to one play identity")
	}
}
