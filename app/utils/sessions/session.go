package sessions

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/devrodri-com/mutter-games-dev/app/models"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	sessionCookieName = "mutter-session"

	uidSessionKey      = "uid"
	viewIDSessionKey   = "viewID"
	cartSessionKey     = "cartItems"
	shippingSessionKey = "shippingInfo"
)

// SessionStore is the browser-side persistence surface: it carries the last
// identity the cart was synced under, the catalog view key, and the locally
// persisted cart lines.
type SessionStore interface {
	GetUID(r *http.Request) string
	SetUID(w http.ResponseWriter, r *http.Request, uid string) error

	GetViewID(w http.ResponseWriter, r *http.Request) string

	CartStore(w http.ResponseWriter, r *http.Request) *RequestCartStore

	GetShipping(r *http.Request) models.ShippingInfo
	SetShipping(w http.ResponseWriter, r *http.Request, info models.ShippingInfo) error

	ClearSession(w http.ResponseWriter, r *http.Request) error
}

type CookieSessionStore struct {
	store *sessions.CookieStore
}

func NewCookieSessionStore(keyPairs ...[]byte) *CookieSessionStore {
	store := sessions.NewCookieStore(keyPairs...)

	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(30 * 24 * time.Hour / time.Second),
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieSessionStore{store: store}
}

func (c *CookieSessionStore) getSession(r *http.Request) *sessions.Session {
	session, err := c.store.Get(r, sessionCookieName)
	if err != nil {
		log.Printf("Error getting session: %v", err)
	}
	return session
}

func (c *CookieSessionStore) GetUID(r *http.Request) string {
	session := c.getSession(r)
	if session == nil {
		return ""
	}
	uid, _ := session.Values[uidSessionKey].(string)
	return uid
}

func (c *CookieSessionStore) SetUID(w http.ResponseWriter, r *http.Request, uid string) error {
	session := c.getSession(r)
	if session == nil {
		return nil
	}
	session.Values[uidSessionKey] = uid
	return session.Save(r, w)
}

// GetViewID returns the catalog view key for this visitor, minting one on
// first use.
func (c *CookieSessionStore) GetViewID(w http.ResponseWriter, r *http.Request) string {
	session := c.getSession(r)
	if session == nil {
		return ""
	}
	if viewID, ok := session.Values[viewIDSessionKey].(string); ok && viewID != "" {
		return viewID
	}
	viewID := uuid.New().String()
	session.Values[viewIDSessionKey] = viewID
	if err := session.Save(r, w); err != nil {
		log.Printf("Error saving session: %v", err)
	}
	return viewID
}

func (c *CookieSessionStore) CartStore(w http.ResponseWriter, r *http.Request) *RequestCartStore {
	return &RequestCartStore{parent: c, w: w, r: r}
}

func (c *CookieSessionStore) GetShipping(r *http.Request) models.ShippingInfo {
	session := c.getSession(r)
	if session == nil {
		return models.ShippingInfo{}
	}
	raw, ok := session.Values[shippingSessionKey].(string)
	if !ok || raw == "" {
		return models.ShippingInfo{}
	}
	var info models.ShippingInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return models.ShippingInfo{}
	}
	return info
}

func (c *CookieSessionStore) SetShipping(w http.ResponseWriter, r *http.Request, info models.ShippingInfo) error {
	session := c.getSession(r)
	if session == nil {
		return nil
	}
	raw, err := json.Marshal(info)
	if err != nil {
		return err
	}
	session.Values[shippingSessionKey] = string(raw)
	return session.Save(r, w)
}

func (c *CookieSessionStore) ClearSession(w http.ResponseWriter, r *http.Request) error {
	session := c.getSession(r)
	if session == nil {
		return nil
	}
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
