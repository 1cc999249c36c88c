package composer

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/blogpress-hq/blogpress-client/internal/domain"
	"github.com/blogpress-hq/blogpress-client/internal/storage"
	"github.com/blogpress-hq/blogpress-client/pkg/apiclient"
)

// fakeAPI lets tests script upload/create behavior and count calls.
type fakeAPI struct {
	uploadFn    func(ctx context.Context, token, filename string, image io.Reader) (string, error)
	createFn    func(ctx context.Context, token string, post domain.Post) error
	createCalls atomic.Int32
	uploadCalls atomic.Int32
}

func (f *fakeAPI) UploadImage(ctx context.Context, token, filename string, image io.Reader) (string, error) {
	f.uploadCalls.Add(1)
	if f.uploadFn == nil {
		return "", errors.New("unexpected upload")
	}
	return f.uploadFn(ctx, token, filename, image)
}

func (f *fakeAPI) CreatePost(ctx context.Context, token string, post domain.Post) error {
	f.createCalls.Add(1)
	if f.createFn == nil {
		return errors.New("unexpected create")
	}
	return f.createFn(ctx, token, post)
}

func (f *fakeAPI) ListPosts(context.Context) ([]domain.Post, error) {
	return nil, errors.New("unexpected list")
}

func newStoreWithToken(t *testing.T, token string) storage.Store {
	t.Helper()
	store, err := storage.NewStore("none", "")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if token != "" {
		if err := store.SetToken(token); err != nil {
			t.Fatalf("SetToken: %v", err)
		}
	}
	return store
}

func fillValid(t *testing.T, form *Form) {
	t.Helper()
	values := map[domain.Field]string{
		domain.FieldTitle:      "Hello",
		domain.FieldCategory:   "Food",
		domain.FieldImageURL:   "http://x/i.png",
		domain.FieldAuthorImg:  "http://x/a.png",
		domain.FieldAuthorName: "Jo",
		domain.FieldDetails:    "<p>Hi</p>",
	}
	for f, v := range values {
		if err := form.SetField(f, v); err != nil {
			t.Fatalf("SetField(%s): %v", f, err)
		}
	}
}

func TestSubmitRejectsEmptyFormWithoutNetworkCall(t *testing.T) {
	api := &fakeAPI{}
	form := NewForm(api, newStoreWithToken(t, "tok"), nil, nil)

	err := form.Submit(context.Background())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Fields) != len(domain.RequiredFields) {
		t.Fatalf("expected an error per required field, got %v", verr.Fields)
	}
	for _, f := range domain.RequiredFields {
		if _, ok := verr.Fields[f]; !ok {
			t.Fatalf("missing field-level error for %s", f)
		}
	}
	if api.createCalls.Load() != 0 {
		t.Fatalf("validation failure must not issue a network call")
	}
}

func TestSubmitReportsOnlyEmptyFields(t *testing.T) {
	api := &fakeAPI{}
	form := NewForm(api, newStoreWithToken(t, "tok"), nil, nil)
	fillValid(t, form)
	if err := form.SetField(domain.FieldAuthorName, ""); err != nil {
		t.Fatalf("SetField: %v", err)
	}

	err := form.Submit(context.Background())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Fields) != 1 {
		t.Fatalf("expected one field error, got %v", verr.Fields)
	}
	if _, ok := verr.Fields[domain.FieldAuthorName]; !ok {
		t.Fatalf("expected authorName error, got %v", verr.Fields)
	}
}

func TestSubmitRejectsUnknownCategory(t *testing.T) {
	api := &fakeAPI{}
	form := NewForm(api, newStoreWithToken(t, "tok"), nil, nil)
	fillValid(t, form)
	if err := form.SetField(domain.FieldCategory, "Gossip"); err != nil {
		t.Fatalf("SetField: %v", err)
	}

	err := form.Submit(context.Background())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if msg := verr.Fields[domain.FieldCategory]; !strings.Contains(msg, "Gossip") {
		t.Fatalf("expected category error, got %v", verr.Fields)
	}
	if api.createCalls.Load() != 0 {
		t.Fatalf("validation failure must not issue a network call")
	}
}

func TestSubmitWithoutCredentialAbortsBeforeNetwork(t *testing.T) {
	api := &fakeAPI{}
	form := NewForm(api, newStoreWithToken(t, ""), nil, nil)
	fillValid(t, form)

	if err := form.Submit(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if api.createCalls.Load() != 0 {
		t.Fatalf("missing credential must not issue a network call")
	}
}

func TestSubmitSuccessSendsAllFieldsAndResets(t *testing.T) {
	var sent domain.Post
	var sentToken string
	api := &fakeAPI{
		createFn: func(_ context.Context, token string, post domain.Post) error {
			sentToken = token
			sent = post
			return nil
		},
	}
	refreshed := false
	form := NewForm(api, newStoreWithToken(t, "tok-1"), func() { refreshed = true }, nil)
	fillValid(t, form)

	if err := form.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if sentToken != "tok-1" {
		t.Fatalf("credential not passed, got %q", sentToken)
	}
	want := domain.Post{
		Title: "Hello", Category: "Food", ImageURL: "http://x/i.png",
		AuthorImg: "http://x/a.png", AuthorName: "Jo", Details: "<p>Hi</p>",
	}
	if sent != want {
		t.Fatalf("API received %+v, want %+v", sent, want)
	}
	if snap := form.Snapshot(); snap != (domain.Post{}) {
		t.Fatalf("form not reset after success: %+v", snap)
	}
	if !refreshed {
		t.Fatalf("refresh callback not fired")
	}
}

func TestSubmit401ClearsCredentialAndPreservesFields(t *testing.T) {
	api := &fakeAPI{
		createFn: func(context.Context, string, domain.Post) error {
			return apiclient.ErrUnauthorized
		},
	}
	store := newStoreWithToken(t, "expired")
	form := NewForm(api, store, nil, nil)
	fillValid(t, form)

	if err := form.Submit(context.Background()); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}

	token, err := store.Token()
	if err != nil || token != "" {
		t.Fatalf("credential not cleared, got %q err=%v", token, err)
	}
	if snap := form.Snapshot(); snap.Title != "Hello" || snap.Details != "<p>Hi</p>" {
		t.Fatalf("fields were cleared on 401: %+v", snap)
	}
}

func TestSubmitGenericFailurePreservesFields(t *testing.T) {
	api := &fakeAPI{
		createFn: func(context.Context, string, domain.Post) error {
			return errors.New("connection reset")
		},
	}
	store := newStoreWithToken(t, "tok")
	form := NewForm(api, store, nil, nil)
	fillValid(t, form)

	err := form.Submit(context.Background())
	if err == nil || errors.Is(err, ErrSessionExpired) || errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected generic failure, got %v", err)
	}
	if snap := form.Snapshot(); snap.Title != "Hello" {
		t.Fatalf("fields were cleared on generic failure: %+v", snap)
	}
	if token, _ := store.Token(); token != "tok" {
		t.Fatalf("credential cleared on generic failure")
	}
}

func TestSubmitGuardRejectsSecondSubmission(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	api := &fakeAPI{
		createFn: func(context.Context, string, domain.Post) error {
			close(entered)
			<-release
			return nil
		},
	}
	form := NewForm(api, newStoreWithToken(t, "tok"), nil, nil)
	fillValid(t, form)

	firstDone := make(chan error, 1)
	go func() { firstDone <- form.Submit(context.Background()) }()
	<-entered

	if err := form.Submit(context.Background()); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("expected ErrSubmitInFlight, got %v", err)
	}

	close(release)
	if err := <-firstDone; err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	if api.createCalls.Load() != 1 {
		t.Fatalf("expected exactly one create call, got %d", api.createCalls.Load())
	}
}

func TestAttachImageWritesURLIntoField(t *testing.T) {
	api := &fakeAPI{
		uploadFn: func(_ context.Context, token, filename string, _ io.Reader) (string, error) {
			if token != "tok" {
				t.Errorf("upload token = %q", token)
			}
			return "https://cdn/" + filename, nil
		},
	}
	form := NewForm(api, newStoreWithToken(t, "tok"), nil, nil)

	res := <-form.AttachImage(context.Background(), CoverImage, "cover.png", strings.NewReader("x"))
	if res.Err != nil || res.Stale {
		t.Fatalf("unexpected result %+v", res)
	}
	if got := form.Snapshot().ImageURL; got != "https://cdn/cover.png" {
		t.Fatalf("imgUrl = %q", got)
	}
	if form.Uploading(CoverImage) {
		t.Fatalf("uploading flag stuck")
	}
}

func TestAttachImageFailureLeavesPriorValue(t *testing.T) {
	api := &fakeAPI{
		uploadFn: func(context.Context, string, string, io.Reader) (string, error) {
			return "", errors.New("server error")
		},
	}
	form := NewForm(api, newStoreWithToken(t, "tok"), nil, nil)
	if err := form.SetField(domain.FieldImageURL, "http://old/i.png"); err != nil {
		t.Fatalf("SetField: %v", err)
	}

	res := <-form.AttachImage(context.Background(), CoverImage, "new.png", strings.NewReader("x"))
	if res.Err == nil {
		t.Fatalf("expected upload error")
	}
	if got := form.Snapshot().ImageURL; got != "http://old/i.png" {
		t.Fatalf("prior value lost, imgUrl = %q", got)
	}
}

func TestAttachImageLastRequestedWins(t *testing.T) {
	release := map[string]chan string{
		"first.png":  make(chan string),
		"second.png": make(chan string),
	}
	api := &fakeAPI{
		uploadFn: func(_ context.Context, _, filename string, _ io.Reader) (string, error) {
			return <-release[filename], nil
		},
	}
	form := NewForm(api, newStoreWithToken(t, "tok"), nil, nil)

	ch1 := form.AttachImage(context.Background(), CoverImage, "first.png", strings.NewReader("a"))
	ch2 := form.AttachImage(context.Background(), CoverImage, "second.png", strings.NewReader("b"))

	// The newer request completes first.
	release["second.png"] <- "https://cdn/second.png"
	res2 := <-ch2
	if res2.Err != nil || res2.Stale {
		t.Fatalf("unexpected result for newest upload %+v", res2)
	}

	// The older response arrives later and must be discarded.
	release["first.png"] <- "https://cdn/first.png"
	res1 := <-ch1
	if !res1.Stale {
		t.Fatalf("expected stale result for superseded upload, got %+v", res1)
	}

	if got := form.Snapshot().ImageURL; got != "https://cdn/second.png" {
		t.Fatalf("last-requested upload did not win, imgUrl = %q", got)
	}
}

func TestSetFieldBlockedWhileFieldUploadPending(t *testing.T) {
	release := make(chan string)
	api := &fakeAPI{
		uploadFn: func(_ context.Context, _, _ string, _ io.Reader) (string, error) {
			return <-release, nil
		},
	}
	form := NewForm(api, newStoreWithToken(t, "tok"), nil, nil)

	ch := form.AttachImage(context.Background(), AuthorImage, "a.png", strings.NewReader("x"))
	if !form.Uploading(AuthorImage) {
		t.Fatalf("expected uploading flag while pending")
	}

	if err := form.SetField(domain.FieldAuthorImg, "http://manual"); !errors.Is(err, ErrUploadInFlight) {
		t.Fatalf("expected ErrUploadInFlight, got %v", err)
	}
	// Unrelated fields stay editable.
	if err := form.SetField(domain.FieldTitle, "still editing"); err != nil {
		t.Fatalf("unrelated SetField: %v", err)
	}

	release <- "https://cdn/a.png"
	<-ch
	if err := form.SetField(domain.FieldAuthorImg, "http://manual"); err != nil {
		t.Fatalf("SetField after upload: %v", err)
	}
}
