package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopdesk/shopdesk/internal/router"
)

func stubBrowser(t *testing.T, err error) *[]string {
	t.Helper()
	var opened []string
	orig := openBrowser
	openBrowser = func(url string) error {
		opened = append(opened, url)
		return err
	}
	t.Cleanup(func() { openBrowser = orig })
	return &opened
}

func TestRegisterOpensWebRegistration(t *testing.T) {
	opened := stubBrowser(t, nil)
	h := newHarness(t, "")
	h.send(t, navigateMsg{target: router.Register})

	if r := h.app.Route().Name; r != router.Register {
		t.Fatalf("route = %q, want %q", r, router.Register)
	}
	if !strings.Contains(h.app.View(), "http://web.test/pages/auth/Register") {
		t.Error("registration link not shown")
	}

	h.press(t, "enter")
	if len(*opened) != 1 || (*opened)[0] != "http://web.test/pages/auth/Register" {
		t.Errorf("opened = %v", *opened)
	}
	if !strings.Contains(h.app.page.status, "opened") {
		t.Errorf("status = %q", h.app.page.status)
	}
}

func TestRegisterBrowserFailure(t *testing.T) {
	stubBrowser(t, errors.New("no display"))
	m := newPageModel(router.Resolve(router.Register), "http://web.test/", "")
	m, _ = m.Update(keyMsg("o"))
	if !strings.Contains(m.status, "no display") {
		t.Errorf("status = %q", m.status)
	}
}

func TestLandingKeys(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"enter", router.Login},
		{"l", router.Login},
		{"r", router.Register},
	}
	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			h := newHarness(t, "")
			h.send(t, navigateMsg{target: "/landing"})
			h.press(t, tc.key)
			if r := h.app.Route().Name; r != tc.want {
				t.Errorf("route = %q, want %q", r, tc.want)
			}
		})
	}
}

func TestLandingOpensWeb(t *testing.T) {
	opened := stubBrowser(t, nil)
	m := newPageModel(router.Resolve(router.Landing), "http://web.test", "")
	m.Update(keyMsg("o"))
	if len(*opened) != 1 || (*opened)[0] != "http://web.test/" {
		t.Errorf("opened = %v", *opened)
	}
}

func TestNotFoundGoesHome(t *testing.T) {
	h := newHarness(t, "tok")
	h.send(t, navigateMsg{target: "/missing/page"})
	if r := h.app.Route().Name; r != router.NotFound {
		t.Fatalf("route = %q, want %q", r, router.NotFound)
	}

	h.press(t, "enter")
	if r := h.app.Route().Name; r != router.Dashboard {
		t.Errorf("route = %q, want %q", r, router.Dashboard)
	}
}

func TestStaticPagesRender(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{router.Landing, "Manage your catalogue"},
		{router.AccessDenied, "Access denied"},
		{router.Error, "Something went wrong"},
		{router.NotFound, "Page not found"},
	}
	for _, tc := range tests {
		m := newPageModel(router.Resolve(tc.name), "", "")
		if !strings.Contains(m.View(), tc.want) {
			t.Errorf("%s: view missing %q", tc.name, tc.want)
		}
	}
}
