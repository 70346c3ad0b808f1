package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/iwvelando/zus-calculator/internal/pension"
	"github.com/iwvelando/zus-calculator/pkg/constants"
	"go.uber.org/zap"
)

// browser replays the session cookie like a real client would.
type browser struct {
	t       *testing.T
	handler http.Handler
	cookie  *http.Cookie
}

func newTestBrowser(t *testing.T) (*browser, *Store, *fakeClock) {
	t.Helper()
	store, clock := newTestStore(time.Hour)
	t.Cleanup(store.Close)
	h := NewHandler(zap.NewNop(), store, constants.DefaultMaxFormSizeBytes, "test")
	return &browser{t: t, handler: h}, store, clock
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}
	rr := httptest.NewRecorder()
	b.handler.ServeHTTP(rr, req)
	for _, c := range rr.Result().Cookies() {
		if c.Name == constants.SessionCookieName {
			b.cookie = c
		}
	}
	return rr
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := b.do(req)
	if rr.Code != http.StatusSeeOther {
		b.t.Fatalf("POST %s: expected status 303, got %d: %s", path, rr.Code, rr.Body.String())
	}
	return rr
}

func (b *browser) state() stateView {
	b.t.Helper()
	rr := b.get("/api/state")
	if rr.Code != http.StatusOK {
		b.t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var state stateView
	if err := json.Unmarshal(rr.Body.Bytes(), &state); err != nil {
		b.t.Fatalf("failed to decode state: %v", err)
	}
	return state
}

func action(name string, kv ...string) url.Values {
	form := url.Values{"action": {name}}
	for i := 0; i+1 < len(kv); i += 2 {
		form.Set(kv[i], kv[i+1])
	}
	return form
}

// toSimulator starts a session and walks it to the simulator.
func toSimulator(t *testing.T) (*browser, *fakeClock) {
	t.Helper()
	b, _, clock := newTestBrowser(t)
	b.get("/")
	b.post("/calculator", action("check", "amount", "10000"))
	b.post("/dashboard", action("next"))
	if page := b.state().Page; page != "simulator" {
		t.Fatalf("expected simulator, got %s", page)
	}
	return b, clock
}

func TestIndexStartsSession(t *testing.T) {
	b, store, _ := newTestBrowser(t)

	rr := b.get("/")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if b.cookie == nil {
		t.Fatal("expected session cookie")
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", store.Len())
	}

	body := rr.Body.String()
	if !strings.Contains(body, "Jaką emeryturę chciałbyś otrzymywać?") {
		t.Fatal("expected calculator heading")
	}
	if !strings.Contains(body, `value="3000"`) {
		t.Fatal("expected default amount in form")
	}

	// A second load reuses the session.
	b.get("/")
	if store.Len() != 1 {
		t.Fatalf("expected session reuse, got %d sessions", store.Len())
	}
}

func TestCalculatorActions(t *testing.T) {
	b, _, _ := newTestBrowser(t)
	b.get("/")

	tests := []struct {
		form     url.Values
		expected int
	}{
		{action("slider", "slider", "12345"), 12345},
		{action("slider", "slider", "100"), 500},
		{action("text", "amount", "abc"), 500},
		{action("text", "amount", "99999"), 50000},
		{action("text", "amount", "  4200zł"), 4200},
	}

	for _, tt := range tests {
		b.post("/calculator", tt.form)
		state := b.state()
		if state.Amount != tt.expected {
			t.Fatalf("%v: expected amount %d, got %d", tt.form, tt.expected, state.Amount)
		}
		if state.Page != "calculator" {
			t.Fatalf("expected to stay on calculator, got %s", state.Page)
		}
	}

	b.post("/calculator", action("check", "amount", "7000"))
	state := b.state()
	if state.Page != "dashboard" || state.Amount != 7000 {
		t.Fatalf("expected dashboard for 7000, got %s for %d", state.Page, state.Amount)
	}

	body := b.get("/").Body.String()
	if !strings.Contains(body, "Twoja docelowa emerytura: 7 000 zł") {
		t.Fatal("expected grouped amount on dashboard")
	}
}

func TestCalculatorCheckUsesChangedControl(t *testing.T) {
	tests := []struct {
		name     string
		form     url.Values
		expected int
	}{
		{"slider moved, field untouched", action("check", "amount", "3000", "slider", "12500"), 12500},
		{"field edited, slider untouched", action("check", "amount", "8000", "slider", "3000"), 8000},
		{"both changed, field wins", action("check", "amount", "8000", "slider", "12500"), 8000},
		{"nothing changed", action("check", "amount", "3000", "slider", "3000"), 3000},
		{"slider only", action("check", "slider", "100"), 500},
		{"no controls", action("check"), 3000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _, _ := newTestBrowser(t)
			b.get("/")
			b.post("/calculator", tt.form)

			state := b.state()
			if state.Page != "dashboard" || state.Amount != tt.expected {
				t.Fatalf("expected dashboard for %d, got %s for %d", tt.expected, state.Page, state.Amount)
			}
		})
	}
}

func TestDashboardActions(t *testing.T) {
	b, _, _ := newTestBrowser(t)
	b.get("/")
	b.post("/calculator", action("check"))

	state := b.state()
	if state.Dashboard == nil || state.Dashboard.ShowBreakdown {
		t.Fatalf("expected dashboard without breakdown, got %+v", state.Dashboard)
	}
	if len(state.Dashboard.Summary) != 2 {
		t.Fatalf("expected 2 summary rows, got %d", len(state.Dashboard.Summary))
	}

	b.post("/dashboard", action("toggle", "breakdown", "on"))
	b.post("/dashboard", action("category", "category", "B"))

	state = b.state()
	if !state.Dashboard.ShowBreakdown || state.Dashboard.Category != "B" {
		t.Fatalf("expected breakdown for category B, got %+v", state.Dashboard)
	}
	if len(state.Dashboard.Summary) != 3 || state.Dashboard.Summary[1].Percent != 60 {
		t.Fatalf("unexpected summary %+v", state.Dashboard.Summary)
	}
	if len(state.Dashboard.Icons) != pension.IconCount {
		t.Fatalf("expected %d icons, got %d", pension.IconCount, len(state.Dashboard.Icons))
	}

	body := b.get("/").Body.String()
	if !strings.Contains(body, "Kobiety - niska aktywność") {
		t.Fatal("expected category B legend in summary")
	}

	// Unchecking the box sends no breakdown value.
	b.post("/dashboard", action("toggle"))
	if b.state().Dashboard.ShowBreakdown {
		t.Fatal("expected breakdown hidden")
	}

	b.post("/dashboard", action("back"))
	if page := b.state().Page; page != "calculator" {
		t.Fatalf("expected calculator, got %s", page)
	}
}

func TestDashboardResetsOnRemount(t *testing.T) {
	b, _, _ := newTestBrowser(t)
	b.get("/")
	b.post("/calculator", action("check"))
	b.post("/dashboard", action("toggle", "breakdown", "on"))
	b.post("/dashboard", action("back"))
	b.post("/calculator", action("check"))

	if b.state().Dashboard.ShowBreakdown {
		t.Fatal("expected dashboard state reset after remount")
	}
}

func TestSimulatorFlow(t *testing.T) {
	b, clock := toSimulator(t)

	b.post("/simulator", action("simulate"))
	if state := b.state(); state.Simulator.ResultsVisible {
		t.Fatal("simulate with empty form must do nothing")
	}
	if clock.count() != 0 {
		t.Fatal("no reveal should be scheduled for an incomplete form")
	}

	b.post("/simulator", action("sample"))
	state := b.state()
	if state.Simulator.Form != pension.SampleForm() {
		t.Fatalf("expected sample form, got %+v", state.Simulator.Form)
	}
	if !state.Simulator.CanSimulate {
		t.Fatal("expected simulate enabled")
	}

	b.post("/simulator", action("simulate"))
	state = b.state()
	if !state.Simulator.ResultsVisible || state.Simulator.OptionsVisible {
		t.Fatalf("expected results without options, got %+v", state.Simulator)
	}
	if len(state.Simulator.Slices) != 2 || state.Simulator.Slices[0].Amount != 6000 || state.Simulator.Slices[1].Amount != 4000 {
		t.Fatalf("unexpected slices %+v", state.Simulator.Slices)
	}

	body := b.get("/").Body.String()
	if !strings.Contains(body, `http-equiv="refresh"`) {
		t.Fatal("expected refresh while options are pending")
	}

	clock.timer(t, 0).fn()

	state = b.state()
	if !state.Simulator.OptionsVisible {
		t.Fatal("expected options after reveal")
	}
	if len(state.Simulator.Offers) != 3 {
		t.Fatalf("expected 3 offers, got %v", state.Simulator.Offers)
	}
	body = b.get("/").Body.String()
	if strings.Contains(body, `http-equiv="refresh"`) {
		t.Fatal("refresh must stop once options are shown")
	}

	b.post("/simulator", url.Values{"offer": {"PPK"}})
	if notice := b.state().Notice; notice != pension.OfferPPK.Notice() {
		t.Fatalf("unexpected notice %q", notice)
	}
	if body := b.get("/").Body.String(); !strings.Contains(body, "<dialog open") {
		t.Fatal("expected notice dialog")
	}

	b.post("/simulator", action("dismiss"))
	if notice := b.state().Notice; notice != "" {
		t.Fatalf("expected notice dismissed, got %q", notice)
	}
}

func TestSimulatorSaveKeepsMissingFields(t *testing.T) {
	b, _ := toSimulator(t)

	b.post("/simulator", action("save", "age", "40", "category", "female"))
	b.post("/simulator", action("save", "salary", "5000"))

	form := b.state().Simulator.Form
	expected := pension.Form{Age: "40", Category: "female", Salary: "5000"}
	if form != expected {
		t.Fatalf("expected %+v, got %+v", expected, form)
	}

	// Simulate saves the submitted fields first.
	b.post("/simulator", action("simulate", "startYear", "2000", "endYear", "2040"))
	if !b.state().Simulator.ResultsVisible {
		t.Fatal("expected results after completing the form")
	}
}

func TestSimulatorBackCancelsReveal(t *testing.T) {
	b, clock := toSimulator(t)
	b.post("/simulator", action("sample"))
	b.post("/simulator", action("simulate"))

	b.post("/simulator", action("back"))
	if !clock.timer(t, 0).stopped {
		t.Fatal("expected reveal stopped on back")
	}

	b.post("/dashboard", action("next"))
	clock.timer(t, 0).fn()

	state := b.state()
	if state.Simulator.ResultsVisible || state.Simulator.OptionsVisible {
		t.Fatalf("expected fresh simulator, got %+v", state.Simulator)
	}
	if state.Simulator.Form != (pension.Form{}) {
		t.Fatalf("expected empty form, got %+v", state.Simulator.Form)
	}
}

func TestOfferBeforeRevealIgnored(t *testing.T) {
	b, _ := toSimulator(t)
	b.post("/simulator", action("sample"))
	b.post("/simulator", action("simulate"))
	b.post("/simulator", url.Values{"offer": {"IKE"}})

	if notice := b.state().Notice; notice != "" {
		t.Fatalf("expected no notice before reveal, got %q", notice)
	}
}

func TestActionOnWrongPageIgnored(t *testing.T) {
	b, _, _ := newTestBrowser(t)
	b.get("/")

	b.post("/simulator", action("sample"))
	b.post("/dashboard", action("next"))
	b.post("/dashboard", action("back"))

	state := b.state()
	if state.Page != "calculator" || state.Amount != constants.DefaultAmount {
		t.Fatalf("expected untouched calculator, got %s with %d", state.Page, state.Amount)
	}

	b.post("/calculator", action("check"))
	b.post("/calculator", action("slider", "slider", "9000"))
	if state := b.state(); state.Page != "dashboard" || state.Amount != constants.DefaultAmount {
		t.Fatalf("slider must not change the amount off the calculator, got %s with %d", state.Page, state.Amount)
	}
}

func TestPostWithoutSessionStartsFresh(t *testing.T) {
	b, store, _ := newTestBrowser(t)

	b.post("/calculator", action("check"))
	if b.cookie == nil {
		t.Fatal("expected session cookie")
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", store.Len())
	}
	if page := b.state().Page; page != "calculator" {
		t.Fatalf("expected calculator for a fresh session, got %s", page)
	}
}

func TestPageViewsKeepSessionAlive(t *testing.T) {
	store, clock := newTestStore(10 * time.Minute)
	t.Cleanup(store.Close)
	b := &browser{t: t, handler: NewHandler(zap.NewNop(), store, constants.DefaultMaxFormSizeBytes, "test")}

	b.get("/")
	b.post("/calculator", action("check", "amount", "4200"))

	// Only reloads from here on, like the refresh while results wait for options.
	for i := 0; i < 12; i++ {
		clock.Advance(time.Minute)
		if rr := b.get("/"); rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
	}
	if evicted := store.Sweep(); evicted != 0 {
		t.Fatalf("expected no evictions, got %d", evicted)
	}

	clock.Advance(5 * time.Minute)
	_ = b.state()
	if evicted := store.Sweep(); evicted != 0 {
		t.Fatalf("expected state requests to keep the session, got %d evictions", evicted)
	}

	if s := b.state(); s.Page != "dashboard" || s.Amount != 4200 {
		t.Fatalf("expected dashboard for 4200, got %s for %d", s.Page, s.Amount)
	}

	clock.Advance(11 * time.Minute)
	if evicted := store.Sweep(); evicted != 1 {
		t.Fatalf("expected the abandoned session to be evicted, got %d", evicted)
	}
}

func TestHandleMethodNotAllowed(t *testing.T) {
	b, _, _ := newTestBrowser(t)

	for _, path := range []string{"/calculator", "/dashboard", "/simulator"} {
		if rr := b.get(path); rr.Code != http.StatusMethodNotAllowed {
			t.Fatalf("GET %s: expected status 405, got %d", path, rr.Code)
		}
	}

	rr := b.do(httptest.NewRequest(http.MethodPost, "/api/state", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rr.Code)
	}
}

func TestHandleFormTooLarge(t *testing.T) {
	store, _ := newTestStore(time.Hour)
	t.Cleanup(store.Close)
	handler := NewHandler(zap.NewNop(), store, 16, "")

	form := url.Values{"action": {"text"}, "amount": {strings.Repeat("1", 64)}}
	req := httptest.NewRequest(http.MethodPost, "/calculator", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d", rr.Code)
	}
}

func TestHandleStateWithoutSession(t *testing.T) {
	b, _, _ := newTestBrowser(t)
	if rr := b.get("/api/state"); rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}

func TestHandleVersion(t *testing.T) {
	b, _, _ := newTestBrowser(t)
	rr := b.get("/api/version")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["version"] != "test" {
		t.Fatalf("expected version test, got %q", resp["version"])
	}
}

func TestStaticAssetsServed(t *testing.T) {
	b, _, _ := newTestBrowser(t)

	for _, path := range []string{"/static/style.css", "/static/app.js"} {
		rr := b.get(path)
		if rr.Code != http.StatusOK {
			t.Fatalf("GET %s: expected status 200, got %d", path, rr.Code)
		}
		if rr.Body.Len() == 0 {
			t.Fatalf("GET %s: expected content", path)
		}
	}

	if rr := b.get("/missing"); rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Address = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, cfg, zap.NewNop(), "test")
	}()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not stop")
	}
}
