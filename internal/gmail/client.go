// Package gmail wraps the Gmail API behind a small client interface so inbox
// sync can be tested without Google credentials.
package gmail

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"propbill.app/server/core/config"
)

// ErrCredentialExpired is returned when the stored refresh token no longer
// works and the user must re-authorize.
var ErrCredentialExpired = errors.New("gmail authorization expired")

// ErrQuotaExceeded is returned when Gmail rate-limits the sync.
var ErrQuotaExceeded = errors.New("gmail quota exceeded")

// ErrUnavailable is returned for Gmail-side outages.
var ErrUnavailable = errors.New("gmail unavailable")

// Attachment is a PDF pulled out of a message.
type Attachment struct {
	Filename string
	Data     []byte
}

// Client is the mailbox capability used by inbox sync.
type Client interface {
	// ListMessageIDs returns up to max message ids matching the query.
	ListMessageIDs(ctx context.Context, query string, max int64) ([]string, error)
	// FetchPDFAttachments downloads every PDF attachment of a message.
	FetchPDFAttachments(ctx context.Context, messageID string) ([]Attachment, error)
	// AccessToken returns the current (possibly refreshed) access token so
	// the caller can persist it.
	AccessToken() (string, error)
}

// ClientFactory builds a Client for a user's stored refresh token.
// Indirection exists so tests can inject a fake mailbox.
type ClientFactory func(ctx context.Context, refreshToken string) (Client, error)

type client struct {
	svc    *gmailapi.Service
	source oauth2.TokenSource
}

// OAuthConfig builds the oauth2 config shared by sign-in and sync.
func OAuthConfig(cfg config.GoogleConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Endpoint:     google.Endpoint,
		Scopes: []string{
			"openid", "email", "profile",
			gmailapi.GmailReadonlyScope,
		},
	}
}

// NewClientFactory returns a ClientFactory backed by the real Gmail API.
func NewClientFactory(cfg config.GoogleConfig) ClientFactory {
	oauthCfg := OAuthConfig(cfg)

	return func(ctx context.Context, refreshToken string) (Client, error) {
		source := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})

		svc, err := gmailapi.NewService(ctx, option.WithTokenSource(source))
		if err != nil {
			return nil, fmt.Errorf("creating gmail service: %w", err)
		}
		return &client{svc: svc, source: source}, nil
	}
}

func (c *client) ListMessageIDs(ctx context.Context, query string, max int64) ([]string, error) {
	resp, err := c.svc.Users.Messages.List("me").
		Q(query).
		MaxResults(max).
		Context(ctx).
		Do()
	if err != nil {
		return nil, mapAPIError(err)
	}

	ids := make([]string, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		ids = append(ids, m.Id)
	}
	return ids, nil
}

func (c *client) FetchPDFAttachments(ctx context.Context, messageID string) ([]Attachment, error) {
	msg, err := c.svc.Users.Messages.Get("me", messageID).
		Format("full").
		Context(ctx).
		Do()
	if err != nil {
		return nil, mapAPIError(err)
	}

	var attachments []Attachment
	for _, part := range CollectPDFParts(msg.Payload) {
		if part.Body == nil || part.Body.AttachmentId == "" {
			continue
		}

		att, err := c.svc.Users.Messages.Attachments.Get("me", messageID, part.Body.AttachmentId).
			Context(ctx).
			Do()
		if err != nil {
			return nil, mapAPIError(err)
		}

		data, err := base64.URLEncoding.DecodeString(att.Data)
		if err != nil {
			return nil, fmt.Errorf("decoding attachment %s: %w", part.Filename, err)
		}

		attachments = append(attachments, Attachment{
			Filename: part.Filename,
			Data:     data,
		})
	}
	return attachments, nil
}

func (c *client) AccessToken() (string, error) {
	tok, err := c.source.Token()
	if err != nil {
		return "", mapAPIError(err)
	}
	return tok.AccessToken, nil
}

// CollectPDFParts walks the MIME tree with an explicit stack. Message parts
// nest arbitrarily (multipart/mixed inside multipart/alternative and so on),
// and a stack avoids blowing the goroutine stack on a hostile message.
func CollectPDFParts(root *gmailapi.MessagePart) []*gmailapi.MessagePart {
	if root == nil {
		return nil
	}

	var pdfs []*gmailapi.MessagePart
	stack := []*gmailapi.MessagePart{root}

	for len(stack) > 0 {
		part := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if isPDFPart(part) {
			pdfs = append(pdfs, part)
		}
		stack = append(stack, part.Parts...)
	}
	return pdfs
}

func isPDFPart(part *gmailapi.MessagePart) bool {
	if part.Filename == "" {
		return false
	}
	return strings.HasSuffix(strings.ToLower(part.Filename), ".pdf") ||
		part.MimeType == "application/pdf"
}

func mapAPIError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return fmt.Errorf("%w: %v", ErrCredentialExpired, err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 401:
			return fmt.Errorf("%w: %v", ErrCredentialExpired, err)
		case apiErr.Code == 429:
			return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
		case apiErr.Code >= 500:
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	return err
}
