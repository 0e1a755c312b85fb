package receipts

import (
	"context"
	"errors"
	"fmt"
)

var ErrNothingToCopy = errors.New("nothing to copy")

// Content is what gets shared.
type Content struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}

// ShareSheet is a native share facility, when the caller has one.
type ShareSheet interface {
	Available() bool
	Share(ctx context.Context, c Content) error
}

type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

type Outcome string

const (
	Shared Outcome = "shared"
	Copied Outcome = "copied"
)

// ShareContent is the share payload for a receipt.
func ShareContent(r Receipt) Content {
	return Content{Title: "Payment Receipt", Text: ShareText(r), URL: r.VerifyURL}
}

// Share uses the native share sheet when there is one and otherwise copies
// the text and link to the clipboard. A failing share sheet is reported but
// is not retried through the clipboard.
func Share(ctx context.Context, sheet ShareSheet, clip Clipboard, c Content) (Outcome, error) {
	if sheet != nil && sheet.Available() {
		if err := sheet.Share(ctx, c); err != nil {
			return Shared, fmt.Errorf("share receipt: %w", err)
		}
		return Shared, nil
	}
	text := c.Text
	if c.URL != "" {
		text += " " + c.URL
	}
	if err := clip.WriteText(ctx, text); err != nil {
		return Copied, fmt.Errorf("copy receipt: %w", err)
	}
	return Copied, nil
}

func CopyBookingID(ctx context.Context, clip Clipboard, id string) error {
	if id == "" {
		return ErrNothingToCopy
	}
	if err := clip.WriteText(ctx, id); err != nil {
		return fmt.Errorf("copy booking id: %w", err)
	}
	return nil
}
