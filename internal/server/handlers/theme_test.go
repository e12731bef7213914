package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escuadron-404/sitio/internal/session"
	"github.com/escuadron-404/sitio/internal/theme"
)

type recordingPersister struct {
	mu  sync.Mutex
	ids []theme.ID
}

func (p *recordingPersister) PersistTheme(id theme.ID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ids = append(p.ids, id)
}

func testThemeHandlers(t *testing.T) (*ThemeHandlers, *recordingPersister) {
	t.Helper()
	reg := testRegistry(t)
	persist := &recordingPersister{}
	h := NewThemeHandlers(reg, theme.NewResolver(reg), session.NewManager(reg), persist, nil)
	return h, persist
}

func TestHandleList(t *testing.T) {
	h, _ := testThemeHandlers(t)

	rec := httptest.NewRecorder()
	h.HandleList(rec, httptest.NewRequest(http.MethodGet, "/api/themes", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var infos []theme.Info
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &infos))
	require.Len(t, infos, 2)
	assert.Equal(t, theme.ID("kayron"), infos[0].ID)
	assert.Equal(t, "Clean Code", infos[1].DisplayName)
}

func TestHandleSwitch(t *testing.T) {
	t.Run("json request returns the committed theme", func(t *testing.T) {
		h, persist := testThemeHandlers(t)

		req := httptest.NewRequest(http.MethodPost, "/api/theme",
			strings.NewReader(`{"theme":"pix"}`))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(theme.PreferenceCookie("kayron"))
		rec := httptest.NewRecorder()
		h.HandleSwitch(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Theme string `json:"theme"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "pix", resp.Theme)

		res := rec.Result()
		themeCookie := cookieByName(t, res, theme.CookieName)
		require.NotNil(t, themeCookie)
		assert.Equal(t, "pix", themeCookie.Value)
		assert.NotNil(t, cookieByName(t, res, session.CookieName))
		assert.Equal(t, []theme.ID{"pix"}, persist.ids)
	})

	t.Run("form request redirects back to the referer", func(t *testing.T) {
		h, _ := testThemeHandlers(t)

		form := url.Values{"theme": {"pix"}}
		req := httptest.NewRequest(http.MethodPost, "/api/theme",
			strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Referer", "/es")
		rec := httptest.NewRecorder()
		h.HandleSwitch(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/es", rec.Header().Get("Location"))
	})

	t.Run("form request without referer redirects home", func(t *testing.T) {
		h, _ := testThemeHandlers(t)

		req := httptest.NewRequest(http.MethodPost, "/api/theme",
			strings.NewReader("theme=kayron"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		h.HandleSwitch(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
	})

	t.Run("unknown theme is a validation error", func(t *testing.T) {
		h, persist := testThemeHandlers(t)

		req := httptest.NewRequest(http.MethodPost, "/api/theme",
			strings.NewReader(`{"theme":"neon"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.HandleSwitch(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Unknown theme.")
		assert.Empty(t, persist.ids)
	})

	t.Run("malformed json body is rejected", func(t *testing.T) {
		h, _ := testThemeHandlers(t)

		req := httptest.NewRequest(http.MethodPost, "/api/theme", strings.NewReader(`{`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.HandleSwitch(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("existing session keeps its cookie", func(t *testing.T) {
		h, _ := testThemeHandlers(t)

		req := httptest.NewRequest(http.MethodPost, "/api/theme",
			strings.NewReader(`{"theme":"pix"}`))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(session.SessionCookie(session.NewID()))
		rec := httptest.NewRecorder()
		h.HandleSwitch(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, cookieByName(t, rec.Result(), session.CookieName))
	})

	t.Run("GET is rejected", func(t *testing.T) {
		h, _ := testThemeHandlers(t)

		rec := httptest.NewRecorder()
		h.HandleSwitch(rec, httptest.NewRequest(http.MethodGet, "/api/theme", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
