package services

import (
	"errors"

	"invito/models"

	"gorm.io/gorm"
)

type EventService struct {
	db *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

type CreateEventRequest struct {
	Title string `json:"title" binding:"required"`
	Venue string `json:"venue"`
	Date  string `json:"date"` // RFC 3339, optional
}

type CreateGuestRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	FamilyID *uint  `json:"family_id"`
}

type CreateFamilyRequest struct {
	Name string `json:"name" binding:"required"`
}

func (s *EventService) CreateEvent(userID uint, req *CreateEventRequest) (*models.Event, error) {
	event := models.Event{
		UserID: userID,
		Title:  req.Title,
		Venue:  req.Venue,
	}

	if req.Date != "" {
		date, err := parseEventDate(req.Date)
		if err != nil {
			return nil, err
		}
		event.Date = date
	}

	if err := s.db.Create(&event).Error; err != nil {
		return nil, err
	}

	return &event, nil
}

func (s *EventService) GetUserEvents(userID uint) ([]models.Event, error) {
	var events []models.Event
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&events).Error
	return events, err
}

func (s *EventService) GetEventByID(eventID uint, userID uint) (*models.Event, error) {
	var event models.Event
	err := s.db.Where("id = ? AND user_id = ?", eventID, userID).
		Preload("Games").
		Preload("Families").
		Preload("Guests").
		First(&event).Error
	if err != nil {
		return nil, errors.New("event not found")
	}
	return &event, nil
}

type UpdateEventRequest struct {
	Title string `json:"title"`
	Venue string `json:"venue"`
	Date  string `json:"date"`
}

func (s *EventService) UpdateEvent(eventID uint, userID uint, req *UpdateEventRequest) (*models.Event, error) {
	event, err := s.GetEventByID(eventID, userID)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		event.Title = req.Title
	}
	if req.Venue != "" {
		event.Venue = req.Venue
	}
	if req.Date != "" {
		date, err := parseEventDate(req.Date)
		if err != nil {
			return nil, err
		}
		event.Date = date
	}

	if err := s.db.Save(event).Error; err != nil {
		return nil, err
	}

	return event, nil
}

func (s *EventService) DeleteEvent(eventID uint, userID uint) error {
	if _, err := s.GetEventByID(eventID, userID); err != nil {
		return err
	}
	return s.db.Delete(&models.Event{}, eventID).Error
}

func (s *EventService) AddGuest(eventID uint, userID uint, req *CreateGuestRequest) (*models.Guest, error) {
	if _, err := s.GetEventByID(eventID, userID); err != nil {
		return nil, err
	}

	if req.FamilyID != nil {
		var family models.Family
		if err := s.db.Where("id = ? AND event_id = ?", *req.FamilyID, eventID).First(&family).Error; err != nil {
			return nil, errors.New("family not found in this event")
		}
	}

	guest := models.Guest{
		EventID:  eventID,
		FamilyID: req.FamilyID,
		Name:     req.Name,
		Email:    req.Email,
	}

	if err := s.db.Create(&guest).Error; err != nil {
		return nil, err
	}

	return &guest, nil
}

func (s *EventService) ListGuests(eventID uint, userID uint) ([]models.Guest, error) {
	if _, err := s.GetEventByID(eventID, userID); err != nil {
		return nil, err
	}

	var guests []models.Guest
	err := s.db.Where("event_id = ?", eventID).
		Preload("Family").
		Order("name").
		Find(&guests).Error
	return guests, err
}

func (s *EventService) AddFamily(eventID uint, userID uint, req *CreateFamilyRequest) (*models.Family, error) {
	if _, err := s.GetEventByID(eventID, userID); err != nil {
		return nil, err
	}

	family := models.Family{
		EventID: eventID,
		Name:    req.Name,
	}

	if err := s.db.Create(&family).Error; err != nil {
		return nil, err
	}

	return &family, nil
}

func (s *EventService) ListFamilies(eventID uint, userID uint) ([]models.Family, error) {
	if _, err := s.GetEventByID(eventID, userID); err != nil {
		return nil, err
	}

	var families []models.Family
	err := s.db.Where("event_id = ?", eventID).
		Preload("Guests").
		Order("name").
		Find(&families).Error
	return families, err
}
