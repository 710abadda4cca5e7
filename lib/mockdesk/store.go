// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mockdesk

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/bureau-foundation/helpdesk/lib/schema/desk"
)

var (
	errUserExists         = errors.New("User already exists")
	errInvalidCredentials = errors.New("Invalid credentials")
	errTicketNotFound     = errors.New("Ticket not found")
	errNotAuthorized      = errors.New("Not Authorized")
)

type user struct {
	id           string
	name         string
	email        string
	passwordHash []byte
}

// store is the server's in-memory state. Tickets and notes keep
// insertion order, which is the order the API returns them in.
type store struct {
	mu      sync.Mutex
	now     func() time.Time
	cost    int
	users   map[string]*user
	byEmail map[string]string
	tickets []desk.Ticket
	notes   []desk.Note
}

func newStore(now func() time.Time, cost int) *store {
	return &store{
		now:     now,
		cost:    cost,
		users:   make(map[string]*user),
		byEmail: make(map[string]string),
	}
}

func (s *store) addUser(name, email, password string) (*user, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}
	key := strings.ToLower(email)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[key]; exists {
		return nil, errUserExists
	}
	created := &user{id: uuid.NewString(), name: name, email: email, passwordHash: hash}
	s.users[created.id] = created
	s.byEmail[key] = created.id
	return created, nil
}

func (s *store) authenticate(email, password string) (*user, error) {
	s.mu.Lock()
	found, ok := s.users[s.byEmail[strings.ToLower(email)]]
	s.mu.Unlock()
	if !ok {
		return nil, errInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(found.passwordHash, []byte(password)) != nil {
		return nil, errInvalidCredentials
	}
	return found, nil
}

func (s *store) user(id string) (*user, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	found, ok := s.users[id]
	return found, ok
}

func (s *store) addTicket(userID, product, description string, status desk.Status) desk.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	ticket := desk.Ticket{
		ID:          uuid.NewString(),
		User:        userID,
		Product:     product,
		Description: description,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.tickets = append(s.tickets, ticket)
	return ticket
}

func (s *store) ticketsFor(userID string) []desk.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []desk.Ticket{}
	for _, ticket := range s.tickets {
		if ticket.User == userID {
			result = append(result, ticket)
		}
	}
	return result
}

// ownedTicketIndex finds a ticket and checks ownership. Caller holds mu.
func (s *store) ownedTicketIndex(userID, ticketID string) (int, error) {
	index := slices.IndexFunc(s.tickets, func(ticket desk.Ticket) bool { return ticket.ID == ticketID })
	if index < 0 {
		return -1, errTicketNotFound
	}
	if s.tickets[index].User != userID {
		return -1, errNotAuthorized
	}
	return index, nil
}

func (s *store) ticket(userID, ticketID string) (desk.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	index, err := s.ownedTicketIndex(userID, ticketID)
	if err != nil {
		return desk.Ticket{}, err
	}
	return s.tickets[index], nil
}

func (s *store) setStatus(userID, ticketID string, status desk.Status) (desk.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	index, err := s.ownedTicketIndex(userID, ticketID)
	if err != nil {
		return desk.Ticket{}, err
	}
	s.tickets[index].Status = status
	s.tickets[index].UpdatedAt = s.now()
	return s.tickets[index], nil
}

func (s *store) notesFor(userID, ticketID string) ([]desk.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.ownedTicketIndex(userID, ticketID); err != nil {
		return nil, err
	}
	result := []desk.Note{}
	for _, note := range s.notes {
		if note.TicketID == ticketID {
			result = append(result, note)
		}
	}
	return result, nil
}

func (s *store) addNote(userID, ticketID, text string, isStaff bool) (desk.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !isStaff {
		if _, err := s.ownedTicketIndex(userID, ticketID); err != nil {
			return desk.Note{}, err
		}
	} else if !slices.ContainsFunc(s.tickets, func(ticket desk.Ticket) bool { return ticket.ID == ticketID }) {
		return desk.Note{}, errTicketNotFound
	}
	note := desk.Note{
		ID:        uuid.NewString(),
		TicketID:  ticketID,
		User:      userID,
		Text:      text,
		IsStaff:   isStaff,
		CreatedAt: s.now(),
	}
	if isStaff {
		note.StaffID = userID
	}
	s.notes = append(s.notes, note)
	return note, nil
}
