package sessions

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/devrodri-com/mutter-games-dev/app/models"
)

// RequestCartStore persists the cart line items inside the cookie session for
// the lifetime of one request/response pair. It is the localStorage analog:
// a single mutable keyed store with last-write-wins semantics and no
// transactions.
type RequestCartStore struct {
	parent *CookieSessionStore
	w      http.ResponseWriter
	r      *http.Request
}

func (s *RequestCartStore) Load() ([]models.LineItem, error) {
	session := s.parent.getSession(s.r)
	if session == nil {
		return nil, nil
	}
	raw, ok := session.Values[cartSessionKey].(string)
	if !ok || raw == "" {
		return nil, nil
	}
	var items []models.LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		// A corrupt cookie resets the local cart rather than blocking.
		return nil, nil
	}
	return items, nil
}

func (s *RequestCartStore) Save(items []models.LineItem) error {
	session := s.parent.getSession(s.r)
	if session == nil {
		return fmt.Errorf("no session available")
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart items: %w", err)
	}
	session.Values[cartSessionKey] = string(raw)
	return session.Save(s.r, s.w)
}
