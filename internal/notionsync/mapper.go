package notionsync

import (
	"time"

	"github.com/jomei/notionapi"

	"github.com/rosanasant/financas-backend/internal/finance"
)

// entryIDProperty is the Notion column carrying the ledger entry ID. It
// is the idempotency key: a page with a matching ID is never recreated.
const entryIDProperty = "Entry ID"

// TransactionToNotionProperties converts a ledger entry to the Notion
// properties of one row in the ledger database.
func TransactionToNotionProperties(tx *finance.Transaction) notionapi.Properties {
	props := notionapi.Properties{
		entryIDProperty: notionapi.TitleProperty{
			Title: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: tx.ID,
					},
				},
			},
		},
		"Amount": notionapi.NumberProperty{
			Number: tx.Amount.InexactFloat64(),
		},
		"Type": notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: string(tx.Type),
			},
		},
		"Date": notionapi.DateProperty{
			Date: &notionapi.DateObject{
				Start: dateOf(tx),
			},
		},
	}

	if tx.Category != "" {
		props["Category"] = notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: tx.Category,
			},
		}
	}

	if tx.Description != "" {
		props["Description"] = notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: tx.Description,
					},
				},
			},
		}
	}

	return props
}

func dateOf(tx *finance.Transaction) *notionapi.Date {
	d := notionapi.Date(tx.Date.In(time.UTC))
	return &d
}

// extractEntryID pulls the ledger entry ID back out of a Notion page, or
// returns "" for pages created outside the sync.
func extractEntryID(page notionapi.Page) string {
	prop, ok := page.Properties[entryIDProperty]
	if !ok {
		return ""
	}
	title, ok := prop.(*notionapi.TitleProperty)
	if !ok || len(title.Title) == 0 {
		return ""
	}
	return title.Title[0].PlainText
}
