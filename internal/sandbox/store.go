// Package sandbox holds the state of the local CloudShop stand-in the suite can run against.
package sandbox

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store errors
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrProductNotFound    = errors.New("product not found")
	ErrNameRequired       = errors.New("product name is required")
)

// Fields the product card accepts. Anything else in a submitted form is ignored.
var (
	TextFields    = []string{"name", "barcode", "article", "unit", "category", "description", "country", "supplier", "marking_type", "tax_system", "taxes", "tax_code"}
	NumericFields = []string{"purchase_price", "markup", "price", "weight", "height", "width", "depth", "min_stock"}
)

// Card is one product of the sandbox catalog
type Card struct {
	ID        string
	Values    map[string]string
	Trashed   bool
	CreatedAt time.Time
}

// Name returns the product name
func (c Card) Name() string {
	return c.Values["name"]
}

// Get returns one field value
func (c Card) Get(key string) string {
	return c.Values[key]
}

// Store is an in-memory CloudShop account: one login and one catalog
type Store struct {
	mu       sync.Mutex
	email    string
	password string
	sessions map[string]time.Time
	cards    map[string]*Card
}

// NewStore returns an empty catalog that accepts email and password
func NewStore(email, password string) *Store {
	return &Store{
		email:    email,
		password: password,
		sessions: map[string]time.Time{},
		cards:    map[string]*Card{},
	}
}

// Login checks the credentials and opens a session
func (s *Store) Login(email, password string) (string, error) {
	if !strings.EqualFold(strings.TrimSpace(email), s.email) || password != s.password {
		return "", ErrInvalidCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	token := uuid.NewString()
	s.sessions[token] = time.Now()
	return token, nil
}

// Authenticated reports whether token belongs to an open session
func (s *Store) Authenticated(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[token]
	return ok
}

// Logout closes the session
func (s *Store) Logout(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// Save creates a card, or updates the card with id when id is set.
// Numeric fields must parse as decimals; empty values clear the field.
func (s *Store) Save(id string, values map[string]string) (Card, error) {
	clean, err := normalize(values)
	if err != nil {
		return Card{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		if clean["name"] == "" {
			return Card{}, ErrNameRequired
		}
		card := &Card{ID: uuid.NewString(), Values: clean, CreatedAt: time.Now()}
		s.cards[card.ID] = card
		return copyCard(card), nil
	}

	card, ok := s.cards[id]
	if !ok || card.Trashed {
		return Card{}, ErrProductNotFound
	}
	if name, ok := clean["name"]; ok && name == "" {
		return Card{}, ErrNameRequired
	}
	for k, v := range clean {
		card.Values[k] = v
	}
	return copyCard(card), nil
}

// Get returns one live card
func (s *Store) Get(id string) (Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, ok := s.cards[id]
	if !ok || card.Trashed {
		return Card{}, ErrProductNotFound
	}
	return copyCard(card), nil
}

// List returns live cards whose name, barcode or article contains query, oldest first
func (s *Store) List(query string) []Card {
	return s.filter(false, query)
}

// Trash moves the cards with ids to the trash. Unknown ids are skipped.
func (s *Store) Trash(ids ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	moved := 0
	for _, id := range ids {
		if card, ok := s.cards[id]; ok && !card.Trashed {
			card.Trashed = true
			moved++
		}
	}
	return moved
}

// Trashed returns the cards in the trash
func (s *Store) Trashed() []Card {
	return s.filter(true, "")
}

func (s *Store) filter(trashed bool, query string) []Card {
	s.mu.Lock()
	defer s.mu.Unlock()

	query = strings.ToLower(strings.TrimSpace(query))
	var cards []Card
	for _, card := range s.cards {
		if card.Trashed != trashed {
			continue
		}
		if query != "" && !matchesQuery(card, query) {
			continue
		}
		cards = append(cards, copyCard(card))
	}
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].CreatedAt.Equal(cards[j].CreatedAt) {
			return cards[i].Name() < cards[j].Name()
		}
		return cards[i].CreatedAt.Before(cards[j].CreatedAt)
	})
	return cards
}

func matchesQuery(card *Card, query string) bool {
	for _, key := range []string{"name", "barcode", "article"} {
		if strings.Contains(strings.ToLower(card.Values[key]), query) {
			return true
		}
	}
	return false
}

func normalize(values map[string]string) (map[string]string, error) {
	clean := map[string]string{}
	for _, key := range TextFields {
		if v, ok := values[key]; ok {
			clean[key] = strings.TrimSpace(v)
		}
	}
	for _, key := range NumericFields {
		v, ok := values[key]
		if !ok {
			continue
		}
		v = strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
		if v == "" {
			clean[key] = ""
			continue
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a number", key, v)
		}
		if d.IsNegative() {
			return nil, fmt.Errorf("%s: must not be negative", key)
		}
		clean[key] = d.String()
	}
	return clean, nil
}

func copyCard(card *Card) Card {
	c := *card
	c.Values = make(map[string]string, len(card.Values))
	for k, v := range card.Values {
		c.Values[k] = v
	}
	return c
}
