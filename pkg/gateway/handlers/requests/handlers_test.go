package requests

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/UniBookChain/unibook/pkg/logging"
	"github.com/UniBookChain/unibook/pkg/requests"
	"github.com/UniBookChain/unibook/pkg/wallet"
)

type fakeService struct {
	listResult *requests.ListResult
	listErr    error
	lastOpts   requests.ListOptions

	voteReceipt *requests.WriteReceipt
	voteErr     error
	lastVoteID  uint64
	lastApprove bool

	submitReceipt *requests.SubmitReceipt
	submitErr     error
	lastName      string
	lastDesc      string
	lastFileBytes []byte
}

func (f *fakeService) List(_ context.Context, opts requests.ListOptions) (*requests.ListResult, error) {
	f.lastOpts = opts
	return f.listResult, f.listErr
}

func (f *fakeService) Vote(_ context.Context, id uint64, approve bool) (*requests.WriteReceipt, error) {
	f.lastVoteID = id
	f.lastApprove = approve
	return f.voteReceipt, f.voteErr
}

func (f *fakeService) Submit(_ context.Context, file io.Reader, name, description string) (*requests.SubmitReceipt, error) {
	f.lastName = name
	f.lastDesc = description
	if file != nil {
		f.lastFileBytes, _ = io.ReadAll(file)
	}
	return f.submitReceipt, f.submitErr
}

func testLogger(t *testing.T) *logging.ColoredLogger {
	t.Helper()
	logger, err := logging.NewColoredLogger(logging.ComponentGateway, false)
	if err != nil {
		t.Fatalf("NewColoredLogger: %v", err)
	}
	return logger
}

func newRouter(h *Handlers) http.Handler {
	r := chi.NewRouter()
	r.Get("/requests", h.ListHandler)
	r.Post("/requests", h.UploadHandler)
	r.Post("/requests/{id}/vote", h.VoteHandler)
	return r
}

func TestListHandler(t *testing.T) {
	svc := &fakeService{
		listResult: &requests.ListResult{
			Items: []requests.UploadRequest{
				{ID: 0, Name: "intro", Processed: true, Approved: true},
				{ID: 2, Name: "draft"},
			},
			Skipped: []uint64{1},
		},
	}
	router := newRouter(NewHandlers(svc, testLogger(t)))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/requests", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Items []struct {
			ID     uint64 `json:"id"`
			Status string `json:"status"`
		} `json:"items"`
		Skipped []uint64 `json:"skipped"`
		Total   int      `json:"total"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Total != 2 || len(body.Items) != 2 {
		t.Fatalf("total = %d items = %d, want 2", body.Total, len(body.Items))
	}
	if body.Items[0].Status != "approved" {
		t.Errorf("items[0].status = %q, want approved", body.Items[0].Status)
	}
	if body.Items[1].Status != "pending" {
		t.Errorf("items[1].status = %q, want pending", body.Items[1].Status)
	}
	if len(body.Skipped) != 1 || body.Skipped[0] != 1 {
		t.Errorf("skipped = %v, want [1]", body.Skipped)
	}
}

func TestListHandlerApprovedFilter(t *testing.T) {
	svc := &fakeService{listResult: &requests.ListResult{}}
	router := newRouter(NewHandlers(svc, testLogger(t)))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/requests?approved=true", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !svc.lastOpts.ApprovedOnly {
		t.Error("expected ApprovedOnly to be set from query param")
	}
}

func TestListHandlerContractError(t *testing.T) {
	svc := &fakeService{listErr: errors.New("rpc down")}
	router := newRouter(NewHandlers(svc, testLogger(t)))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/requests", nil))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestVoteHandler(t *testing.T) {
	svc := &fakeService{voteReceipt: &requests.WriteReceipt{TxHash: "0xabc", Block: 7}}
	router := newRouter(NewHandlers(svc, testLogger(t)))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/requests/3/vote", strings.NewReader(`{"approve":true}`))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s, want 200", rec.Code, rec.Body.String())
	}
	if svc.lastVoteID != 3 || !svc.lastApprove {
		t.Errorf("vote forwarded as id=%d approve=%v, want id=3 approve=true", svc.lastVoteID, svc.lastApprove)
	}
}

func TestVoteHandlerErrors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		body     string
		voteErr  error
		wantCode int
	}{
		{"invalid_id", "/requests/abc/vote", `{"approve":true}`, nil, http.StatusBadRequest},
		{"unknown_field", "/requests/1/vote", `{"approve":true,"x":1}`, nil, http.StatusBadRequest},
		{"no_wallet", "/requests/1/vote", `{"approve":true}`, wallet.ErrNoWallet, http.StatusBadRequest},
		{"already_voted", "/requests/1/vote", `{"approve":false}`, requests.ErrAlreadyVoted, http.StatusConflict},
		{"tx_failed", "/requests/1/vote", `{"approve":true}`, requests.ErrVoteFailed, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{voteErr: tt.voteErr}
			router := newRouter(NewHandlers(svc, testLogger(t)))

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body)))

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}
}

func multipartUpload(t *testing.T, file []byte, name, description string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if file != nil {
		part, err := mw.CreateFormFile("file", "paper.pdf")
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		part.Write(file)
	}
	mw.WriteField("name", name)
	mw.WriteField("description", description)
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestUploadHandler(t *testing.T) {
	svc := &fakeService{submitReceipt: &requests.SubmitReceipt{CID: "QmX", TxHash: "0xdef", Block: 12}}
	router := newRouter(NewHandlers(svc, testLogger(t)))

	body, contentType := multipartUpload(t, []byte("%PDF-1.4"), "paper", "a fine paper")
	req := httptest.NewRequest(http.MethodPost, "/requests", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body = %s, want 201", rec.Code, rec.Body.String())
	}
	if svc.lastName != "paper" || svc.lastDesc != "a fine paper" {
		t.Errorf("forwarded name=%q desc=%q", svc.lastName, svc.lastDesc)
	}
	if string(svc.lastFileBytes) != "%PDF-1.4" {
		t.Errorf("forwarded file = %q", svc.lastFileBytes)
	}

	var resp struct {
		UploadID string `json:"upload_id"`
		CID      string `json:"cid"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.CID != "QmX" {
		t.Errorf("cid = %q, want QmX", resp.CID)
	}
	if resp.UploadID == "" {
		t.Error("expected an upload_id in the response")
	}
}

func TestUploadHandlerMissingFile(t *testing.T) {
	svc := &fakeService{}
	router := newRouter(NewHandlers(svc, testLogger(t)))

	body, contentType := multipartUpload(t, nil, "paper", "desc")
	req := httptest.NewRequest(http.MethodPost, "/requests", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUploadHandlerValidationError(t *testing.T) {
	svc := &fakeService{submitErr: requests.ErrMissingName}
	router := newRouter(NewHandlers(svc, testLogger(t)))

	body, contentType := multipartUpload(t, []byte("data"), "", "desc")
	req := httptest.NewRequest(http.MethodPost, "/requests", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUploadHandlerSubmitFailure(t *testing.T) {
	svc := &fakeService{submitErr: errors.New("pin service down")}
	router := newRouter(NewHandlers(svc, testLogger(t)))

	body, contentType := multipartUpload(t, []byte("data"), "paper", "desc")
	req := httptest.NewRequest(http.MethodPost, "/requests", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}
