package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/rosanasant/financas-backend/internal/api/middleware"
	"github.com/rosanasant/financas-backend/internal/assistant"
	"github.com/rosanasant/financas-backend/internal/finance"
	"github.com/rosanasant/financas-backend/internal/infra/memory"
)

type fakeInterpreter struct {
	interp *assistant.Interpretation
	err    error
}

func (f *fakeInterpreter) Interpret(context.Context, []assistant.Message) (*assistant.Interpretation, error) {
	return f.interp, f.err
}

// authedRequest builds a request already carrying the user identity, so
// handler tests do not need the full middleware chain.
func authedRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	resolver := memory.NewStore()
	resolver.AddSession(&finance.Session{Token: "tok", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)})
	req.Header.Set("Authorization", "Bearer tok")

	rec := httptest.NewRecorder()
	var out *http.Request
	middleware.Auth(resolver, zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		out = r
	})).ServeHTTP(rec, req)
	if out == nil {
		t.Fatal("auth middleware rejected the test request")
	}
	return out
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestProcessMessageChat(t *testing.T) {
	store := memory.NewStore()
	processor := assistant.NewProcessor(store, &fakeInterpreter{
		interp: &assistant.Interpretation{Reply: "Olá!", Action: assistant.ChatAction{}},
	}, zerolog.Nop())
	h := NewChatHandler(processor, zerolog.Nop())

	req := authedRequest(t, http.MethodPost, "/api/messages",
		`{"messages": [{"role": "user", "content": "oi"}]}`)
	rec := httptest.NewRecorder()
	h.ProcessMessage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Response           string `json:"response"`
		TransactionCreated bool   `json:"transactionCreated"`
	}
	decodeBody(t, rec, &body)
	if body.Response != "Olá!" {
		t.Errorf("response = %q", body.Response)
	}
	if body.TransactionCreated {
		t.Error("transactionCreated set for a chat turn")
	}
}

func TestProcessMessageLegacyField(t *testing.T) {
	store := memory.NewStore()
	processor := assistant.NewProcessor(store, &fakeInterpreter{
		interp: &assistant.Interpretation{
			Reply: "Registrei!",
			Action: assistant.TransactionAction{
				Amount: decimal.NewFromInt(50), Type: "expense",
				Category: "Alimentação", Date: "hoje",
			},
		},
	}, zerolog.Nop())
	h := NewChatHandler(processor, zerolog.Nop())

	req := authedRequest(t, http.MethodPost, "/api/messages", `{"message": "gastei 50 no almoço"}`)
	rec := httptest.NewRecorder()
	h.ProcessMessage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	txs, _ := store.ListTransactions(context.Background(), "u1")
	if len(txs) != 1 {
		t.Errorf("got %d transactions, want 1", len(txs))
	}
}

func TestProcessMessageBadRequest(t *testing.T) {
	h := NewChatHandler(assistant.NewProcessor(memory.NewStore(), &fakeInterpreter{}, zerolog.Nop()), zerolog.Nop())

	for _, body := range []string{`not json`, `{}`, `{"messages": []}`} {
		req := authedRequest(t, http.MethodPost, "/api/messages", body)
		rec := httptest.NewRecorder()
		h.ProcessMessage(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestProcessMessageUserIDMismatch(t *testing.T) {
	h := NewChatHandler(assistant.NewProcessor(memory.NewStore(), &fakeInterpreter{
		interp: &assistant.Interpretation{Reply: "Olá!", Action: assistant.ChatAction{}},
	}, zerolog.Nop()), zerolog.Nop())

	req := authedRequest(t, http.MethodPost, "/api/messages",
		`{"userId": "someone-else", "messages": [{"role": "user", "content": "oi"}]}`)
	rec := httptest.NewRecorder()
	h.ProcessMessage(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestProcessMessageOracleFailure(t *testing.T) {
	processor := assistant.NewProcessor(memory.NewStore(), &fakeInterpreter{err: context.DeadlineExceeded}, zerolog.Nop())
	h := NewChatHandler(processor, zerolog.Nop())

	req := authedRequest(t, http.MethodPost, "/api/messages",
		`{"messages": [{"role": "user", "content": "oi"}]}`)
	rec := httptest.NewRecorder()
	h.ProcessMessage(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body struct {
		Response string `json:"response"`
		Error    string `json:"error"`
	}
	decodeBody(t, rec, &body)
	if body.Response != assistant.MsgGenericFailure {
		t.Errorf("response = %q", body.Response)
	}
	if body.Error == "" {
		t.Error("error field empty")
	}
}

func TestGetProjection(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	now := time.Now()
	today := civil.DateOf(now)
	// Two salary entries in the window make income recurring.
	for i, id := range []string{"s1", "s2"} {
		if err := store.InsertTransaction(ctx, &finance.Transaction{
			ID: id, UserID: "u1",
			Amount: decimal.NewFromInt(3000), Type: finance.TransactionIncome,
			Category: "Salário", Date: today.AddDays(-10 - i),
			CreatedAt: now,
		}); err != nil {
			t.Fatalf("InsertTransaction: %v", err)
		}
	}

	h := NewProjectionHandler(store, store, zerolog.Nop())
	h.now = func() time.Time { return now }

	req := authedRequest(t, http.MethodGet, "/api/projection", "")
	rec := httptest.NewRecorder()
	h.GetProjection(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		CurrentBalance  float64 `json:"currentBalance"`
		RecurringIncome float64 `json:"recurringIncome"`
		Projection      []struct {
			Date    string  `json:"date"`
			Balance float64 `json:"balance"`
		} `json:"projection"`
	}
	decodeBody(t, rec, &body)
	if body.CurrentBalance != 6000 {
		t.Errorf("currentBalance = %v, want 6000", body.CurrentBalance)
	}
	// Mean of the two 3000 incomes, scaled from the 60-day window to the
	// 30-day horizon: 3000 * 30/60 = 1500.
	if body.RecurringIncome != 1500 {
		t.Errorf("recurringIncome = %v, want 1500", body.RecurringIncome)
	}
	if len(body.Projection) != 30 {
		t.Fatalf("projection has %d days, want 30", len(body.Projection))
	}
	if body.Projection[0].Date != today.String() {
		t.Errorf("first day = %s, want %s", body.Projection[0].Date, today)
	}
}

func TestListAndDeleteTransactions(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	if err := store.InsertTransaction(ctx, &finance.Transaction{
		ID: "t1", UserID: "u1",
		Amount: decimal.NewFromFloat(12.5), Type: finance.TransactionExpense,
		Category: "Transporte", Date: civil.Date{Year: 2026, Month: 3, Day: 10},
	}); err != nil {
		t.Fatalf("InsertTransaction: %v", err)
	}

	h := NewTransactionsHandler(store, zerolog.Nop())

	req := authedRequest(t, http.MethodGet, "/api/transactions", "")
	rec := httptest.NewRecorder()
	h.ListTransactions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var list []struct {
		ID     string  `json:"id"`
		Amount float64 `json:"amount"`
		Date   string  `json:"date"`
	}
	decodeBody(t, rec, &list)
	if len(list) != 1 || list[0].ID != "t1" || list[0].Amount != 12.5 || list[0].Date != "2026-03-10" {
		t.Errorf("unexpected list: %+v", list)
	}

	req = authedRequest(t, http.MethodDelete, "/api/transactions/t1", "")
	rec = httptest.NewRecorder()
	h.DeleteTransaction(rec, req, "t1")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", rec.Code)
	}

	txs, _ := store.ListTransactions(ctx, "u1")
	if len(txs) != 0 {
		t.Errorf("got %d transactions after delete, want 0", len(txs))
	}
}

func TestIgnoreTip(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	h := NewTipsHandler(store, zerolog.Nop())
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return now }

	req := authedRequest(t, http.MethodPost, "/api/tips/ignore", `{"category": "Alimentação"}`)
	rec := httptest.NewRecorder()
	h.IgnoreTip(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	active, err := store.HasActiveTip(ctx, "u1", "Alimentação", now.Add(6*24*time.Hour))
	if err != nil {
		t.Fatalf("HasActiveTip: %v", err)
	}
	if !active {
		t.Error("tip not active within the seven-day window")
	}
	active, _ = store.HasActiveTip(ctx, "u1", "Alimentação", now.Add(8*24*time.Hour))
	if active {
		t.Error("tip still active after the seven-day window")
	}

	req = authedRequest(t, http.MethodPost, "/api/tips/ignore", `{}`)
	rec = httptest.NewRecorder()
	h.IgnoreTip(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing category: status = %d, want 400", rec.Code)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	store := memory.NewStore()
	h := NewProfileHandler(store, zerolog.Nop())

	// Missing profile reads as empty, not as an error.
	req := authedRequest(t, http.MethodGet, "/api/profile", "")
	rec := httptest.NewRecorder()
	h.GetProfile(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	req = authedRequest(t, http.MethodPut, "/api/profile", `{"fullName": "Rosana Santos"}`)
	rec = httptest.NewRecorder()
	h.UpdateProfile(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, want 200", rec.Code)
	}

	req = authedRequest(t, http.MethodGet, "/api/profile", "")
	rec = httptest.NewRecorder()
	h.GetProfile(rec, req)
	var body struct {
		FullName string `json:"fullName"`
	}
	decodeBody(t, rec, &body)
	if body.FullName != "Rosana Santos" {
		t.Errorf("fullName = %q", body.FullName)
	}
}

type fakeExporter struct {
	url string
	err error
}

func (f *fakeExporter) Export(context.Context, string) (string, error) {
	return f.url, f.err
}

func TestExport(t *testing.T) {
	h := NewExportHandler(&fakeExporter{url: "https://storage.example/exports/abc.json"}, zerolog.Nop())

	req := authedRequest(t, http.MethodPost, "/api/export", "")
	rec := httptest.NewRecorder()
	h.Export(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		DownloadURL string `json:"downloadUrl"`
	}
	decodeBody(t, rec, &body)
	if body.DownloadURL != "https://storage.example/exports/abc.json" {
		t.Errorf("downloadUrl = %q", body.DownloadURL)
	}
}
