package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hoshinonyaruko/snake-solo/session"
	"github.com/hoshinonyaruko/snake-solo/structs"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, autoTick bool) (*gin.Engine, string) {
	t.Helper()
	static := t.TempDir()
	m := session.NewManager(nil, 0, 11)
	t.Cleanup(m.Close)
	return NewRouter(m, Options{
		Columns:   20,
		BlockSize: 8,
		AutoTick:  autoTick,
		StaticDir: static,
		SelfPath:  "example.com",
	}), static
}

func do(t *testing.T, h http.Handler, method, target string, out any) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	if out != nil && w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("%s %s: decoding %q: %v", method, target, w.Body.String(), err)
		}
	}
	return w
}

func TestStartSteerTick(t *testing.T) {
	r, _ := newTestRouter(t, false)

	var frame structs.Frame
	if w := do(t, r, http.MethodPost, "/start?session=a&width=20&height=20", &frame); w.Code != http.StatusOK {
		t.Fatalf("start: %d %s", w.Code, w.Body.String())
	}
	if !slices.Equal(frame.State.Snake, []int{208, 209, 210}) || frame.State.Status != structs.StatusPlaying {
		t.Fatalf("unexpected frame %+v", frame)
	}

	if w := do(t, r, http.MethodPost, "/direction?session=a&direction=down", nil); w.Code != http.StatusOK {
		t.Fatalf("direction: %d %s", w.Code, w.Body.String())
	}
	var res structs.TickResult
	if w := do(t, r, http.MethodPost, "/tick?session=a", &res); w.Code != http.StatusOK {
		t.Fatalf("tick: %d", w.Code)
	}
	if res.NewHead != 230 {
		t.Fatalf("new head = %d, want 230", res.NewHead)
	}

	if w := do(t, r, http.MethodGet, "/update-direction?session=a&direction=a", nil); w.Code != http.StatusOK {
		t.Fatalf("update-direction: %d", w.Code)
	}
	do(t, r, http.MethodPost, "/tick?session=a", &res)
	if res.NewHead != 229 {
		t.Fatalf("new head = %d, want 229", res.NewHead)
	}

	var state structs.Frame
	do(t, r, http.MethodGet, "/state?session=a", &state)
	if state.Last == nil || state.Last.NewHead != 229 {
		t.Fatalf("state does not reflect last tick: %+v", state)
	}
}

func TestStartFromArea(t *testing.T) {
	r, _ := newTestRouter(t, false)
	var frame structs.Frame
	if w := do(t, r, http.MethodPost, "/start?session=b&area_width=400&area_height=300", &frame); w.Code != http.StatusOK {
		t.Fatalf("start: %d %s", w.Code, w.Body.String())
	}
	if frame.State.Width != 20 || frame.State.Height != 15 {
		t.Fatalf("grid %dx%d, want 20x15", frame.State.Width, frame.State.Height)
	}
}

func TestBadRequests(t *testing.T) {
	r, _ := newTestRouter(t, false)
	do(t, r, http.MethodPost, "/start?session=c", nil)

	cases := []struct {
		method, target string
		code           int
	}{
		{http.MethodPost, "/start?width=20&height=20", http.StatusBadRequest},
		{http.MethodPost, "/start?session=x&width=3&height=3", http.StatusBadRequest},
		{http.MethodPost, "/start?session=x&width=abc", http.StatusBadRequest},
		{http.MethodPost, "/start?session=x&width=1025&height=20", http.StatusBadRequest},
		{http.MethodPost, "/start?session=x&width=4000000000&height=4000000000", http.StatusBadRequest},
		{http.MethodPost, "/start?session=x&area_width=1000000&area_height=1000000000", http.StatusBadRequest},
		{http.MethodPost, "/start?session=x&area_width=400", http.StatusBadRequest},
		{http.MethodPost, "/start?session=x&area_width=10&area_height=10", http.StatusBadRequest},
		{http.MethodPost, "/direction?session=c&direction=sideways", http.StatusBadRequest},
		{http.MethodPost, "/direction?direction=up", http.StatusBadRequest},
		{http.MethodGet, "/state?session=missing", http.StatusNotFound},
		{http.MethodPost, "/tick?session=missing", http.StatusNotFound},
		{http.MethodGet, "/delete-map?session=missing", http.StatusNotFound},
		{http.MethodGet, "/delete-map", http.StatusBadRequest},
	}
	for _, c := range cases {
		if w := do(t, r, c.method, c.target, nil); w.Code != c.code {
			t.Fatalf("%s %s = %d, want %d (%s)", c.method, c.target, w.Code, c.code, w.Body.String())
		}
	}
}

func TestManualTickRefusedWithAutoTick(t *testing.T) {
	r, _ := newTestRouter(t, true)
	if w := do(t, r, http.MethodPost, "/tick?session=a", nil); w.Code != http.StatusConflict {
		t.Fatalf("tick = %d, want 409", w.Code)
	}
}

func TestPauseResume(t *testing.T) {
	r, _ := newTestRouter(t, false)
	do(t, r, http.MethodPost, "/start?session=p", nil)

	var frame structs.Frame
	do(t, r, http.MethodPost, "/pause?session=p", &frame)
	if !frame.Paused {
		t.Fatal("pause not reported")
	}
	do(t, r, http.MethodPost, "/resume?session=p", &frame)
	if frame.Paused {
		t.Fatal("resume not reported")
	}
}

func TestRenderMap(t *testing.T) {
	r, static := newTestRouter(t, false)
	if w := do(t, r, http.MethodGet, "/render-map?session=r", nil); w.Code != http.StatusNotFound {
		t.Fatalf("render before create = %d", w.Code)
	}
	do(t, r, http.MethodPost, "/session?session=r", nil)
	if w := do(t, r, http.MethodGet, "/render.png?session=r", nil); w.Code != http.StatusConflict {
		t.Fatalf("render before start = %d, want 409", w.Code)
	}
	do(t, r, http.MethodPost, "/start?session=r", nil)

	var out struct {
		ImageURL string `json:"image_url"`
	}
	if w := do(t, r, http.MethodGet, "/render-map?session=r", &out); w.Code != http.StatusOK {
		t.Fatalf("render-map: %d %s", w.Code, w.Body.String())
	}
	if out.ImageURL != "http://example.com/static/r.png" {
		t.Fatalf("image url %q", out.ImageURL)
	}
	if _, err := os.Stat(filepath.Join(static, "r.png")); err != nil {
		t.Fatalf("image not written: %v", err)
	}

	w := do(t, r, http.MethodGet, "/render.png?session=r", nil)
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("render.png: %d %q", w.Code, w.Header().Get("Content-Type"))
	}
	if !strings.HasPrefix(w.Body.String(), "\x89PNG") {
		t.Fatal("body is not a PNG")
	}
}

func TestRejectsUnsafeSessionID(t *testing.T) {
	r, static := newTestRouter(t, false)
	for _, target := range []string{
		"/session?session=..%2Fescaped",
		"/start?session=..%2Fescaped&width=20&height=20",
		"/direction?session=..%2Fescaped&direction=up",
		"/state?session=..%2Fescaped",
		"/render-map?session=..%2Fescaped",
		"/render-map?session=a%2Fb",
		"/delete-map?session=..%2Fescaped",
		"/start?session=" + strings.Repeat("x", 65),
	} {
		method := http.MethodPost
		if strings.HasPrefix(target, "/state") || strings.HasPrefix(target, "/render-map") || strings.HasPrefix(target, "/delete-map") {
			method = http.MethodGet
		}
		if w := do(t, r, method, target, nil); w.Code != http.StatusBadRequest {
			t.Fatalf("%s %s = %d, want 400 (%s)", method, target, w.Code, w.Body.String())
		}
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(static), "escaped.png")); !os.IsNotExist(err) {
		t.Fatalf("image written outside the static dir: %v", err)
	}
}

func TestCreateAndDeleteSession(t *testing.T) {
	r, _ := newTestRouter(t, false)
	var out struct {
		SessionID string `json:"session_id"`
	}
	do(t, r, http.MethodPost, "/session", &out)
	if out.SessionID == "" {
		t.Fatal("no session id generated")
	}
	if w := do(t, r, http.MethodGet, "/delete-map?session="+out.SessionID, nil); w.Code != http.StatusOK {
		t.Fatalf("delete: %d", w.Code)
	}
	if w := do(t, r, http.MethodGet, "/state?session="+out.SessionID, nil); w.Code != http.StatusNotFound {
		t.Fatalf("state after delete = %d", w.Code)
	}
}

func TestStreamFrames(t *testing.T) {
	r, _ := newTestRouter(t, false)
	srv := httptest.NewServer(r)
	defer srv.Close()
	do(t, r, http.MethodPost, "/start?session=ws", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws?session=ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	var frame structs.Frame
	if err := wsjson.Read(ctx, conn, &frame); err != nil {
		t.Fatal(err)
	}
	if frame.SessionID != "ws" || frame.State.Status != structs.StatusPlaying {
		t.Fatalf("unexpected first frame %+v", frame)
	}

	if err := wsjson.Write(ctx, conn, steerMessage{Direction: "up"}); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)
	do(t, r, http.MethodPost, "/tick?session=ws", nil)

	if err := wsjson.Read(ctx, conn, &frame); err != nil {
		t.Fatal(err)
	}
	if frame.Last == nil || frame.Last.NewHead != 190 {
		t.Fatalf("unexpected tick frame %+v", frame.Last)
	}
}
