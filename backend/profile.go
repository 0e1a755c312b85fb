package backend

import (
	"bytes"
	"context"
	"net/http"

	"stayvia/models"
)

// Profile returns the signed-in user. A null body means the session is
// anonymous and is reported as KindUnauthorized.
func (c *Client) Profile(ctx context.Context) (models.Profile, error) {
	const op = "profile"
	if c.creds == (Credentials{}) {
		return models.Profile{}, &Error{Op: op, Kind: KindUnauthorized}
	}
	raw, err := c.do(ctx, call{op: op, method: http.MethodGet, path: []string{"profile"}})
	if err != nil {
		return models.Profile{}, err
	}
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return models.Profile{}, &Error{Op: op, Kind: KindUnauthorized, Status: http.StatusOK}
	}
	var p models.Profile
	if err := decode(op, raw, &p); err != nil {
		return models.Profile{}, err
	}
	if p.ID == "" {
		return models.Profile{}, &Error{Op: op, Kind: KindUnauthorized, Status: http.StatusOK}
	}
	return p, nil
}

// Item fetches the listing behind a booking so its unit price can be
// checked against the one the browser sent.
func (c *Client) Item(ctx context.Context, kind models.ItemKind, id string) (models.Item, error) {
	const op = "get item"
	collection := map[models.ItemKind]string{
		models.KindPlace:      "places",
		models.KindExperience: "experiences",
		models.KindService:    "services",
	}[kind]
	raw, err := c.do(ctx, call{op: op, method: http.MethodGet, path: []string{collection, id}})
	if err != nil {
		return models.Item{}, err
	}
	var item models.Item
	if err := decode(op, raw, &item); err != nil {
		return models.Item{}, err
	}
	item.Kind = kind
	return item, nil
}
