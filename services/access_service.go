package services

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"invito/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccessService struct {
	db *gorm.DB
}

func NewAccessService(db *gorm.DB) *AccessService {
	return &AccessService{db: db}
}

// ResolveToken resolves a bearer token or scanned QR code to an access grant.
// Legacy-format codes ("evt-<eventID>-<code>", printed on early invitation
// batches) are provisioned as public grants on first use through the explicit
// provisioning path below.
func (s *AccessService) ResolveToken(token string) (*models.AccessGrant, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrCredentialMissing
	}

	var grant models.AccessGrant
	err := s.db.Where("token = ?", token).
		Preload("Guest").
		Preload("Family").
		First(&grant).Error
	if err == nil {
		return &grant, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if eventID, ok := parseLegacyToken(token); ok {
		return s.ProvisionLegacyGrant(token, eventID)
	}

	return nil, ErrCredentialNotFound
}

// parseLegacyToken recognizes the old printed QR format "evt-<eventID>-<code>".
func parseLegacyToken(token string) (uint, bool) {
	parts := strings.SplitN(token, "-", 3)
	if len(parts) != 3 || parts[0] != "evt" || len(parts[2]) < 4 {
		return 0, false
	}
	id, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ProvisionLegacyGrant registers a public grant for a legacy-format code.
// Idempotent under concurrent first use: a duplicate-key error means another
// request won the race, so the existing grant is fetched and returned.
func (s *AccessService) ProvisionLegacyGrant(token string, eventID uint) (*models.AccessGrant, error) {
	var event models.Event
	if err := s.db.First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCredentialNotFound
		}
		return nil, err
	}

	grant := models.AccessGrant{
		Token:      token,
		EventID:    eventID,
		PlayerType: models.PlayerTypePublic,
	}

	if err := s.db.Create(&grant).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing models.AccessGrant
			if err := s.db.Where("token = ?", token).First(&existing).Error; err != nil {
				return nil, err
			}
			return &existing, nil
		}
		return nil, err
	}

	log.Printf("Provisioned legacy public grant for event %d", eventID)
	return &grant, nil
}

// CheckEventMatch rejects cross-event object references: a grant may only
// touch games owned by its own event.
func (s *AccessService) CheckEventMatch(grant *models.AccessGrant, game *models.Game) error {
	if grant.EventID != game.EventID {
		return ErrEventMismatch
	}
	return nil
}

// PlayerName picks the display name to record for a play: the caller's
// choice if given, else whatever the grant knows about its holder.
func (s *AccessService) PlayerName(grant *models.AccessGrant, requested string) string {
	if name := strings.TrimSpace(requested); name != "" {
		return name
	}
	switch {
	case grant.Guest != nil:
		return grant.Guest.Name
	case grant.Family != nil:
		return grant.Family.Name
	case grant.Label != "":
		return grant.Label
	default:
		return "Guest"
	}
}

// MarkPlayed updates the denormalized has-played state on a grant.
// Best-effort: failures are logged, never surfaced.
func (s *AccessService) MarkPlayed(grantID uint, score int) {
	err := s.db.Model(&models.AccessGrant{}).Where("id = ?", grantID).
		Updates(map[string]interface{}{"has_played": true, "last_score": score}).Error
	if err != nil {
		log.Printf("Failed to mark grant %d as played: %v", grantID, err)
	}
}

type GenerateAccessRequest struct {
	PlayerType string `json:"player_type" binding:"required,oneof=individual family public"`
	Count      int    `json:"count" binding:"omitempty,min=1,max=500"`
	GameOnly   bool   `json:"game_only"`
}

// GenerateGrants bulk-issues access tokens for a game's event: one per guest
// for individual grants, one per family for family grants, or Count anonymous
// public grants. GameOnly scopes the tokens to the single game.
func (s *AccessService) GenerateGrants(game *models.Game, req *GenerateAccessRequest) ([]models.AccessGrant, error) {
	var gameID *uint
	if req.GameOnly {
		gameID = &game.ID
	}

	var grants []models.AccessGrant
	switch req.PlayerType {
	case models.PlayerTypeIndividual:
		var guests []models.Guest
		if err := s.db.Where("event_id = ?", game.EventID).Find(&guests).Error; err != nil {
			return nil, err
		}
		for i := range guests {
			grants = append(grants, models.AccessGrant{
				Token:      uuid.NewString(),
				EventID:    game.EventID,
				GameID:     gameID,
				PlayerType: models.PlayerTypeIndividual,
				GuestID:    &guests[i].ID,
				Label:      guests[i].Name,
			})
		}
	case models.PlayerTypeFamily:
		var families []models.Family
		if err := s.db.Where("event_id = ?", game.EventID).Find(&families).Error; err != nil {
			return nil, err
		}
		for i := range families {
			grants = append(grants, models.AccessGrant{
				Token:      uuid.NewString(),
				EventID:    game.EventID,
				GameID:     gameID,
				PlayerType: models.PlayerTypeFamily,
				FamilyID:   &families[i].ID,
				Label:      families[i].Name,
			})
		}
	default:
		count := req.Count
		if count == 0 {
			count = 1
		}
		for i := 0; i < count; i++ {
			grants = append(grants, models.AccessGrant{
				Token:      uuid.NewString(),
				EventID:    game.EventID,
				GameID:     gameID,
				PlayerType: models.PlayerTypePublic,
				Label:      fmt.Sprintf("Guest %d", i+1),
			})
		}
	}

	if len(grants) == 0 {
		return []models.AccessGrant{}, nil
	}

	if err := s.db.Create(&grants).Error; err != nil {
		return nil, err
	}

	return grants, nil
}
