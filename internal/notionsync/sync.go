package notionsync

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"

	"github.com/rosanasant/financas-backend/internal/finance"
	"github.com/rosanasant/financas-backend/internal/logger"
)

// SyncLedger mirrors one identity's ledger into a Notion database:
// stale pages (entries since deleted) are archived, missing entries get
// new pages, and entries already present are left alone. The entry ID
// column is the idempotency key, so re-running the sync is safe.
func SyncLedger(ctx context.Context, repo finance.TransactionRepository, notionClient NotionService, notionDBID, userID string, dryRun bool) error {
	log := logger.FromContext(ctx)

	log.Info().
		Str("user_id", userID).
		Bool("dry_run", dryRun).
		Msg("Starting ledger sync to Notion")

	entries, err := repo.ListTransactions(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list transactions: %w", err)
	}

	log.Info().Int("entry_count", len(entries)).Msg("Retrieved ledger entries")

	validIDs := make(map[string]bool, len(entries))
	for _, tx := range entries {
		validIDs[tx.ID] = true
	}

	pages, err := queryAllNotionPages(ctx, notionClient, notionDBID)
	if err != nil {
		return fmt.Errorf("failed to query Notion pages: %w", err)
	}

	log.Info().Int("notion_page_count", len(pages)).Msg("Retrieved existing Notion pages")

	existingIDs := make(map[string]bool)
	var deleted int
	for _, page := range pages {
		entryID := extractEntryID(page)
		if entryID != "" && validIDs[entryID] {
			existingIDs[entryID] = true
			continue
		}

		// Page has no entry ID or its entry no longer exists.
		if dryRun {
			log.Info().
				Str("entry_id", entryID).
				Str("page_id", string(page.ID)).
				Msg("[DRY RUN] Would archive stale Notion page")
			deleted++
			continue
		}
		if err := notionClient.DeletePage(ctx, string(page.ID)); err != nil {
			log.Warn().
				Err(err).
				Str("entry_id", entryID).
				Str("page_id", string(page.ID)).
				Msg("Failed to archive stale Notion page")
			continue
		}
		deleted++
	}

	var created, skipped int
	for _, tx := range entries {
		if existingIDs[tx.ID] {
			skipped++
			continue
		}

		if dryRun {
			log.Info().
				Str("entry_id", tx.ID).
				Msg("[DRY RUN] Would create Notion page")
			created++
			continue
		}

		props := TransactionToNotionProperties(tx)
		if _, err := notionClient.CreatePage(ctx, notionDBID, props); err != nil {
			log.Warn().
				Err(err).
				Str("entry_id", tx.ID).
				Msg("Failed to create Notion page")
			continue
		}
		created++
	}

	log.Info().
		Int("created", created).
		Int("skipped", skipped).
		Int("deleted", deleted).
		Msg("Ledger sync finished")

	return nil
}

// queryAllNotionPages pages through the full database.
func queryAllNotionPages(ctx context.Context, notionClient NotionService, databaseID string) ([]notionapi.Page, error) {
	var pages []notionapi.Page

	req := &notionapi.DatabaseQueryRequest{
		PageSize: 100,
	}
	for {
		resp, err := notionClient.QueryDatabase(ctx, databaseID, req)
		if err != nil {
			return nil, err
		}

		pages = append(pages, resp.Results...)

		if !resp.HasMore {
			break
		}
		req.StartCursor = resp.NextCursor
	}

	return pages, nil
}
