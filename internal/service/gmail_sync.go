package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"propbill.app/server/common/id"
	"propbill.app/server/common/logger"
	"propbill.app/server/internal/blob"
	"propbill.app/server/internal/gmail"
	"propbill.app/server/internal/model"
	"propbill.app/server/internal/store"
)

const maxSyncResults = 100

// SyncStats summarizes one inbox sync run.
type SyncStats struct {
	EmailsScanned     int `json:"emails_scanned"`
	InvoicesDetected  int `json:"invoices_detected"`
	DocumentsCreated  int `json:"documents_created"`
	DuplicatesSkipped int `json:"duplicates_skipped"`
	FailedMessages    int `json:"failed_messages"`
}

type GmailService interface {
	// Sync scans the caller's mailbox for invoice PDFs and ingests them.
	// daysBack must be in [1, 90].
	Sync(ctx context.Context, workspaceID, userID int64, daysBack int) (*SyncStats, error)
	// Status reports whether the user can sync (has a refresh token).
	Status(ctx context.Context, userID int64) (bool, error)
}

type gmailService struct {
	userStore       store.UserStore
	workspaceStore  store.WorkspaceStore
	supplierStore   store.SupplierStore
	processedEmails store.ProcessedEmailStore
	blobs           blob.Store
	clients         gmail.ClientFactory
	txRunner        TxRunner
	now             func() time.Time
}

func NewGmailService(
	userStore store.UserStore,
	workspaceStore store.WorkspaceStore,
	supplierStore store.SupplierStore,
	processedEmails store.ProcessedEmailStore,
	blobs blob.Store,
	clients gmail.ClientFactory,
	txRunner TxRunner,
) GmailService {
	return &gmailService{
		userStore:       userStore,
		workspaceStore:  workspaceStore,
		supplierStore:   supplierStore,
		processedEmails: processedEmails,
		blobs:           blobs,
		clients:         clients,
		txRunner:        txRunner,
		now:             time.Now,
	}
}

func (s *gmailService) Status(ctx context.Context, userID int64) (bool, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, ErrUserNotFound
		}
		return false, fmt.Errorf("loading user: %w", err)
	}
	return user.GmailAuthorized(), nil
}

func (s *gmailService) Sync(ctx context.Context, workspaceID, userID int64, daysBack int) (*SyncStats, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		WorkspaceID: logger.Ptr(workspaceID),
		Component:   "propbill.sync",
	})

	if daysBack < 1 || daysBack > 90 {
		return nil, fmt.Errorf("%w: days_back must be between 1 and 90", ErrInvalidInput)
	}

	if _, err := resolveOwned(ctx, s.workspaceStore, workspaceID, userID); err != nil {
		return nil, err
	}

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}
	if !user.GmailAuthorized() {
		return nil, ErrGmailNotAuthorized
	}

	client, err := s.clients(ctx, *user.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("creating gmail client: %w", err)
	}

	suppliers, err := s.supplierStore.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("listing suppliers: %w", err)
	}
	var supplierEmails []string
	for _, sup := range suppliers {
		if sup.Email != nil && *sup.Email != "" {
			supplierEmails = append(supplierEmails, *sup.Email)
		}
	}

	query := gmail.BuildQuery(s.now(), daysBack, supplierEmails)
	slog.DebugContext(ctx, "searching mailbox", "query", query, "days_back", daysBack)

	messageIDs, err := client.ListMessageIDs(ctx, query, maxSyncResults)
	if err != nil {
		return nil, err
	}

	stats := &SyncStats{EmailsScanned: len(messageIDs)}
	for _, messageID := range messageIDs {
		if err := s.processMessage(ctx, client, workspaceID, messageID, stats); err != nil {
			// Sync is best-effort per message: one broken email must not
			// abort the run.
			stats.FailedMessages++
			slog.WarnContext(ctx, "failed to process message",
				"gmail_message_id", messageID,
				"error", err)
		}
	}

	// Persist the refreshed access token so other Gmail calls can reuse it.
	if accessToken, err := client.AccessToken(); err == nil && accessToken != "" {
		user.OAuthToken = &accessToken
		if err := s.userStore.Update(ctx, user); err != nil {
			slog.WarnContext(ctx, "failed to persist refreshed access token", "error", err)
		}
	}

	slog.InfoContext(ctx, "inbox sync finished",
		"emails_scanned", stats.EmailsScanned,
		"invoices_detected", stats.InvoicesDetected,
		"documents_created", stats.DocumentsCreated,
		"duplicates_skipped", stats.DuplicatesSkipped,
		"failed_messages", stats.FailedMessages)
	return stats, nil
}

func (s *gmailService) processMessage(ctx context.Context, client gmail.Client, workspaceID int64, messageID string, stats *SyncStats) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		GmailMessageID: logger.Ptr(messageID),
	})

	seen, err := s.processedEmails.Exists(ctx, workspaceID, messageID)
	if err != nil {
		return fmt.Errorf("checking processed marker: %w", err)
	}
	if seen {
		stats.DuplicatesSkipped++
		return nil
	}

	attachments, err := client.FetchPDFAttachments(ctx, messageID)
	if err != nil {
		return fmt.Errorf("fetching attachments: %w", err)
	}
	stats.InvoicesDetected += len(attachments)

	// Blobs are written outside the transaction; rows and the dedup marker
	// commit together.
	type staged struct {
		key      string
		filename string
	}
	var stagedDocs []staged
	for _, att := range attachments {
		if int64(len(att.Data)) > MaxUploadSize {
			slog.WarnContext(ctx, "skipping oversized attachment",
				"filename", att.Filename, "size_bytes", len(att.Data))
			continue
		}
		key := blob.NewKey(workspaceID, att.Filename)
		if err := s.blobs.Put(ctx, key, att.Data, "application/pdf"); err != nil {
			return fmt.Errorf("storing attachment blob: %w", err)
		}
		stagedDocs = append(stagedDocs, staged{key: key, filename: att.Filename})
	}

	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		for _, sd := range stagedDocs {
			doc := &model.PendingDocument{
				ID:             id.New(),
				WorkspaceID:    workspaceID,
				BlobKey:        sd.key,
				Filename:       sd.filename,
				Status:         model.StatusPending,
				GmailMessageID: &messageID,
			}
			if err := stores.Documents().Create(ctx, doc); err != nil {
				return fmt.Errorf("creating document record: %w", err)
			}
		}
		return stores.ProcessedEmails().Create(ctx, &model.ProcessedEmail{
			GmailMessageID: messageID,
			WorkspaceID:    workspaceID,
		})
	})
	if err != nil {
		for _, sd := range stagedDocs {
			if delErr := s.blobs.Delete(ctx, sd.key); delErr != nil {
				slog.WarnContext(ctx, "failed to clean up staged blob",
					"blob_key", sd.key, "error", delErr)
			}
		}
		return err
	}

	stats.DocumentsCreated += len(stagedDocs)
	return nil
}
