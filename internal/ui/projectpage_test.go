package ui

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"arcai/internal/api"
	"arcai/internal/editor"
	"arcai/internal/ids"
	"arcai/internal/nav"
	"arcai/internal/project"
	"arcai/internal/session"
)

type getCall struct {
	secret string
	id     string
}

type fakeAPI struct {
	mu      sync.Mutex
	project *project.Project
	err     error
	gets    []getCall
	updates []project.Project
	saveErr error
}

func (f *fakeAPI) GetProject(_ context.Context, secret, id string) (*project.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets = append(f.gets, getCall{secret, id})
	if f.err != nil {
		return nil, f.err
	}
	if f.project == nil {
		return nil, nil
	}
	cp := *f.project
	return &cp, nil
}

func (f *fakeAPI) UpdateProject(_ context.Context, _, _ string, p project.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, p)
	return f.saveErr
}

type recordingNav struct {
	paths []string
	err   error
}

func (n *recordingNav) Push(path string) error {
	n.paths = append(n.paths, path)
	return n.err
}

func sampleProject() project.Project {
	return project.Project{
		ID:          "p1",
		Name:        "Iris",
		Description: "Flower classifier",
		Networks: []project.Network{
			{ID: "n1", Name: "Classifier", Layers: []project.Layer{
				{ID: "l1", Type: "dense", Neurons: 4, Shape: 4},
				{ID: "l2", Type: "dense", Neurons: 3, Shape: 1},
			}},
			{ID: "n2", Name: "Wide", Layers: []project.Layer{
				{ID: "l3", Type: "dense", Neurons: 2, Shape: 2},
			}},
		},
		Tables: []project.Table{{
			ID:      "t1",
			Headers: []string{"sepal", "species"},
			Values:  [][]project.Cell{{project.CellOf(5.1), project.CellOf("setosa")}},
		}},
	}
}

var authed = session.Session{
	Status: session.StatusAuthenticated,
	User:   &session.User{Name: "ada", Secret: "s3"},
}

type pageFixture struct {
	page    *ProjectPage
	api     *fakeAPI
	nav     *recordingNav
	session *session.Static
}

func newFixture(s session.Session, p *project.Project) *pageFixture {
	f := &pageFixture{
		api:     &fakeAPI{project: p},
		nav:     &recordingNav{},
		session: session.NewStaticWith(s),
	}
	f.page = NewProjectPage(PageConfig{
		ProjectID: "p1",
		Session:   f.session,
		Navigator: f.nav,
		API:       f.api,
		IDs:       &ids.Sequence{Prefix: "gen"},
	})
	return f
}

// collect runs cmd and flattens batches. Spinner ticks are dropped so the
// animation loop does not run forever.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case nil, spinner.TickMsg:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, collect(c)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}

// pump feeds every message produced by cmd back into update until nothing
// is left.
func pump(t *testing.T, update func(tea.Msg) tea.Cmd, cmd tea.Cmd) {
	t.Helper()
	queue := collect(cmd)
	for i := 0; len(queue) > 0; i++ {
		if i > 100 {
			t.Fatal("messages did not settle")
		}
		msg := queue[0]
		queue = append(queue[1:], collect(update(msg))...)
	}
}

func (f *pageFixture) send(t *testing.T, msg tea.Msg) {
	t.Helper()
	pump(t, f.update, func() tea.Msg { return msg })
}

func (f *pageFixture) update(msg tea.Msg) tea.Cmd {
	_, cmd := f.page.Update(msg)
	return cmd
}

func (f *pageFixture) init(t *testing.T) {
	t.Helper()
	pump(t, f.update, f.page.Init())
}

func (f *pageFixture) focus(t *testing.T, id string) {
	t.Helper()
	if !f.page.focus.SetFocus(id) {
		t.Fatalf("no control %q; have %v", id, f.page.focus.Order)
	}
}

func TestProjectPage_UnauthenticatedRedirectsOnce(t *testing.T) {
	p := sampleProject()
	f := newFixture(session.Session{Status: session.StatusUnauthenticated}, &p)
	f.init(t)
	f.send(t, SessionChangedMsg{})

	if want := []string{"/login?redirect=/projects"}; !reflect.DeepEqual(f.nav.paths, want) {
		t.Errorf("navigations = %v, want %v", f.nav.paths, want)
	}
	if got := f.page.Phase(); got != PhaseUnauthenticated {
		t.Errorf("Phase() = %v", got)
	}
	view := f.page.View()
	if !strings.Contains(view, "Loading") {
		t.Errorf("expected loading indicator, got %q", view)
	}
	if strings.Contains(view, "Iris") || strings.Contains(view, "Layer 1") {
		t.Errorf("unauthenticated render leaked project content: %q", view)
	}
	if len(f.api.gets) != 0 {
		t.Errorf("fetched %d times while unauthenticated", len(f.api.gets))
	}
}

func TestProjectPage_RedirectAgainAfterNewEpisode(t *testing.T) {
	f := newFixture(session.Session{Status: session.StatusUnauthenticated}, nil)
	f.init(t)

	f.session.SignIn(session.User{Name: "ada"})
	f.send(t, SessionChangedMsg{})
	f.session.SignOut()
	f.send(t, SessionChangedMsg{})

	if len(f.nav.paths) != 2 {
		t.Errorf("navigations = %v, want one per unauthenticated episode", f.nav.paths)
	}
}

func TestProjectPage_NavigationErrorIsNotFatal(t *testing.T) {
	f := newFixture(session.Session{Status: session.StatusUnauthenticated}, nil)
	f.nav.err = errors.New("router gone")
	f.init(t)

	if f.page.Phase() != PhaseUnauthenticated {
		t.Errorf("Phase() = %v", f.page.Phase())
	}
	if !strings.Contains(f.page.View(), "Loading") {
		t.Error("expected loading indicator after navigation error")
	}
}

func TestProjectPage_SessionLoading(t *testing.T) {
	p := sampleProject()
	f := newFixture(session.Session{Status: session.StatusLoading}, &p)
	f.init(t)

	if f.page.Phase() != PhaseSessionLoading {
		t.Errorf("Phase() = %v", f.page.Phase())
	}
	if !strings.Contains(f.page.View(), "Loading") {
		t.Error("expected loading indicator")
	}
	if len(f.api.gets) != 0 || len(f.nav.paths) != 0 {
		t.Errorf("gets=%v navigations=%v, want none", f.api.gets, f.nav.paths)
	}
}

func TestProjectPage_NoSecretRendersNothing(t *testing.T) {
	p := sampleProject()
	f := newFixture(session.Session{
		Status: session.StatusAuthenticated,
		User:   &session.User{Name: "ada"},
	}, &p)
	f.init(t)

	if got := f.page.View(); got != "" {
		t.Errorf("View() = %q, want empty", got)
	}
	if len(f.api.gets) != 0 {
		t.Errorf("fetched without a secret: %v", f.api.gets)
	}
}

func TestProjectPage_Hydrates(t *testing.T) {
	p := sampleProject()
	f := newFixture(authed, &p)
	f.init(t)

	if want := []getCall{{"s3", "p1"}}; !reflect.DeepEqual(f.api.gets, want) {
		t.Errorf("gets = %v, want %v", f.api.gets, want)
	}
	if f.page.Phase() != PhaseReady {
		t.Fatalf("Phase() = %v, status %q", f.page.Phase(), f.page.Status())
	}
	if got := f.page.ActiveNetwork().ID; got != "n1" {
		t.Errorf("active network = %q, want n1", got)
	}
	if !reflect.DeepEqual(f.page.Project(), p) {
		t.Error("container does not hold the fetched project")
	}

	view := f.page.View()
	for _, want := range []string{
		"Iris", "Flower classifier", "Classifier", "Wide",
		"Layer 1: Dense", "Layer 2: Dense",
		"setosa", "Classifier: Dense(4) → Dense(3)",
		"+ Create a new table", "+ Create a new network", "● active",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "Loading") {
		t.Error("ready view still shows the loading indicator")
	}
}

func TestProjectPage_ZeroNetworksUsesPlaceholder(t *testing.T) {
	p := project.Project{ID: "p1", Name: "Empty"}
	f := newFixture(authed, &p)
	f.init(t)

	if f.page.Phase() != PhaseReady {
		t.Fatalf("Phase() = %v", f.page.Phase())
	}
	if got := f.page.ActiveNetwork(); !reflect.DeepEqual(got, project.Network{}) {
		t.Errorf("active network = %+v, want empty placeholder", got)
	}
	view := f.page.View()
	if strings.Contains(view, "Layer 1") {
		t.Error("no layer editors expected")
	}
	if !strings.Contains(view, "No networks yet") {
		t.Error("expected empty-state hint")
	}
}

func TestProjectPage_FetchFailureStaysLoading(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"no result", nil},
		{"error", errors.New("connection refused")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(authed, nil)
			f.api.err = tt.err
			f.init(t)
			f.send(t, SessionChangedMsg{})

			if f.page.Phase() != PhaseLoading {
				t.Errorf("Phase() = %v, want Loading", f.page.Phase())
			}
			if len(f.api.gets) != 1 {
				t.Errorf("gets = %d, want 1 (no automatic retry)", len(f.api.gets))
			}
			if !strings.Contains(f.page.View(), "Loading") {
				t.Error("expected loading indicator")
			}
		})
	}
}

func TestProjectPage_RefreshRetriesAfterFailure(t *testing.T) {
	f := newFixture(authed, nil)
	f.api.err = api.ErrNoResult
	f.init(t)

	p := sampleProject()
	f.api.err = nil
	f.api.project = &p
	f.send(t, RefreshMsg{})

	if f.page.Phase() != PhaseReady {
		t.Errorf("Phase() = %v after refresh", f.page.Phase())
	}
	if len(f.api.gets) != 2 {
		t.Errorf("gets = %d, want 2", len(f.api.gets))
	}
}

func TestProjectPage_DiscardsStaleFetch(t *testing.T) {
	p := sampleProject()
	f := newFixture(authed, &p)
	cmd := f.page.Init()
	stale := collect(cmd)

	// Refresh supersedes the first fetch before its result arrives.
	_, refresh := f.page.Update(RefreshMsg{})
	fresh := collect(refresh)

	other := project.Project{ID: "p1", Name: "Stale"}
	for _, msg := range stale {
		if m, ok := msg.(ProjectFetchedMsg); ok {
			m.Project = &other
			f.page.Update(m)
		}
	}
	if f.page.Phase() == PhaseReady {
		t.Fatal("stale result hydrated the page")
	}
	for _, msg := range fresh {
		f.page.Update(msg)
	}
	if got := f.page.Project().Name; got != "Iris" {
		t.Errorf("project name = %q, want Iris", got)
	}
}

func TestProjectPage_SecretChangeRefetches(t *testing.T) {
	p := sampleProject()
	f := newFixture(authed, &p)
	f.init(t)

	f.session.SignIn(session.User{Name: "bob", Secret: "other"})
	f.send(t, SessionChangedMsg{})

	if want := []getCall{{"s3", "p1"}, {"other", "p1"}}; !reflect.DeepEqual(f.api.gets, want) {
		t.Errorf("gets = %v, want %v", f.api.gets, want)
	}
	if f.page.Phase() != PhaseReady {
		t.Errorf("Phase() = %v", f.page.Phase())
	}
}

func TestProjectPage_DeleteControls(t *testing.T) {
	p := sampleProject()
	f := newFixture(authed, &p)
	f.init(t)

	// Classifier has two layers, Wide only one.
	if got := strings.Count(f.page.View(), "✕ Delete"); got != 2 {
		t.Errorf("delete controls = %d, want 2", got)
	}
	for _, id := range f.page.focus.Order {
		if strings.HasPrefix(id, "net1/") && strings.HasSuffix(id, "/delete") {
			t.Errorf("single-layer network offers %s", id)
		}
	}

	f.focus(t, "net0/layer1/delete")
	f.send(t, keyMsg("enter"))

	got := f.page.Project().Networks[0].Layers
	if len(got) != 1 || got[0].ID != "l1" {
		t.Errorf("layers after delete = %+v", got)
	}
	if n := strings.Count(f.page.View(), "✕ Delete"); n != 0 {
		t.Errorf("delete controls after delete = %d, want 0", n)
	}
	if f.page.Focused() == "" {
		t.Error("focus lost after deleting the focused control")
	}
}

func TestProjectPage_NeuronEdit(t *testing.T) {
	p := sampleProject()
	f := newFixture(authed, &p)
	f.init(t)
	before := f.page.Project()

	if got := f.page.Focused(); got != "net0/layer0/neurons" {
		t.Fatalf("initial focus = %q", got)
	}
	f.send(t, keyMsg("backspace"))
	if f.page.Project().Networks[0].Layers[0].Neurons != 4 {
		t.Error("empty input must not change the layer")
	}
	f.send(t, keyMsg("x"))
	f.send(t, keyMsg("5"))

	got := f.page.Project()
	if n := got.Networks[0].Layers[0].Neurons; n != 5 {
		t.Fatalf("neurons = %d, want 5", n)
	}
	if got.Networks[0].Layers[0].Shape != 4 {
		t.Error("shape changed")
	}
	if !reflect.DeepEqual(got.Networks[0].Layers[1], before.Networks[0].Layers[1]) {
		t.Error("sibling layer changed")
	}
	if &got.Networks[1].Layers[0] != &before.Networks[1].Layers[0] {
		t.Error("untouched network is not shared")
	}
	if &got.Tables[0] != &before.Tables[0] {
		t.Error("tables are not shared")
	}
	if got := f.page.ActiveNetwork().Layers[0].Neurons; got != 5 {
		t.Errorf("active network neurons = %d, want 5", got)
	}
	if f.page.Status() != "" {
		t.Errorf("status = %q after a valid edit", f.page.Status())
	}
}

func TestProjectPage_ShapeEditAndFocusRing(t *testing.T) {
	p := sampleProject()
	f := newFixture(authed, &p)
	f.init(t)

	f.send(t, keyMsg("tab"))
	if got := f.page.Focused(); got != "net0/layer0/shape" {
		t.Fatalf("focus after tab = %q", got)
	}
	f.send(t, keyMsg("backspace"))
	f.send(t, keyMsg("8"))
	if got := f.page.Project().Networks[0].Layers[0].Shape; got != 8 {
		t.Errorf("shape = %d, want 8", got)
	}

	f.send(t, keyMsg("shift+tab"))
	f.send(t, keyMsg("shift+tab"))
	if got := f.page.Focused(); got != createNetworkID {
		t.Errorf("focus after wrapping back = %q", got)
	}
}

func TestProjectPage_InvalidTextRevertsOnBlur(t *testing.T) {
	p := sampleProject()
	f := newFixture(authed, &p)
	f.init(t)

	f.send(t, keyMsg("backspace"))
	if f.page.Status() == "" {
		t.Error("expected validation status for empty input")
	}
	f.send(t, keyMsg("tab"))
	if got := f.page.inputs["net0/layer0/neurons"].Value(); got != "4" {
		t.Errorf("input = %q after blur, want 4", got)
	}
}

func TestProjectPage_CreateNetwork(t *testing.T) {
	p := sampleProject()
	f := newFixture(authed, &p)
	f.init(t)

	f.focus(t, createNetworkID)
	f.send(t, keyMsg("enter"))

	nets := f.page.Project().Networks
	if len(nets) != 3 {
		t.Fatalf("networks = %d, want 3", len(nets))
	}
	want := project.Network{
		ID: "gen-1", Name: "New Network", Description: "New Network",
		Layers: []project.Layer{{ID: "gen-2", Type: "dense", Neurons: 1, Shape: 1}},
	}
	if !reflect.DeepEqual(nets[2], want) {
		t.Errorf("new network = %+v", nets[2])
	}
	if !reflect.DeepEqual(nets[:2], p.Networks) {
		t.Error("existing networks changed")
	}
	if !strings.Contains(f.page.View(), "New Network") {
		t.Error("new network not rendered")
	}
}

func TestProjectPage_CreateNetworkGeneratorFailure(t *testing.T) {
	p := sampleProject()
	f := newFixture(authed, &p)
	f.page.cfg.IDs = ids.Func(func(context.Context) (string, error) {
		return "", errors.New("entropy exhausted")
	})
	f.init(t)

	f.send(t, CreateNetworkMsg{})

	if got := len(f.page.Project().Networks); got != 2 {
		t.Errorf("networks = %d, want 2", got)
	}
	if !strings.Contains(f.page.Status(), "entropy exhausted") {
		t.Errorf("status = %q", f.page.Status())
	}
}

func TestProjectPage_CreateTable(t *testing.T) {
	t.Run("unavailable", func(t *testing.T) {
		p := sampleProject()
		f := newFixture(authed, &p)
		f.init(t)
		f.send(t, CreateTableMsg{})

		if got := len(f.page.Project().Tables); got != 1 {
			t.Errorf("tables = %d, want 1", got)
		}
		if !strings.Contains(f.page.Status(), "not available") {
			t.Errorf("status = %q", f.page.Status())
		}
	})

	t.Run("configured", func(t *testing.T) {
		p := sampleProject()
		f := newFixture(authed, &p)
		f.page.cfg.Tables = editor.TableCreator(func(context.Context, project.Project) (project.Table, error) {
			return project.Table{ID: "t2", Headers: []string{"x"}}, nil
		})
		f.init(t)
		f.focus(t, createTableID)
		f.send(t, keyMsg("enter"))

		tables := f.page.Project().Tables
		if len(tables) != 2 || tables[1].ID != "t2" {
			t.Errorf("tables = %+v", tables)
		}
	})
}

func TestProjectPage_Persist(t *testing.T) {
	p := sampleProject()
	f := newFixture(authed, &p)
	f.init(t)
	f.send(t, keyMsg("backspace"))
	f.send(t, keyMsg("7"))
	f.send(t, PersistMsg{})

	if len(f.api.updates) != 1 {
		t.Fatalf("updates = %d, want 1", len(f.api.updates))
	}
	if got := f.api.updates[0].Networks[0].Layers[0].Neurons; got != 7 {
		t.Errorf("saved neurons = %d, want 7", got)
	}
	if f.page.Status() != "Saved" {
		t.Errorf("status = %q", f.page.Status())
	}
}

func TestProjectPage_PersistValidatesFirst(t *testing.T) {
	p := sampleProject()
	f := newFixture(authed, &p)
	f.init(t)

	bad := f.page.Project()
	bad.Networks = append([]project.Network{}, bad.Networks...)
	bad.Networks[1] = project.Network{ID: "n2", Name: "Wide"}
	f.page.project.Set(bad)
	f.send(t, PersistMsg{})

	if len(f.api.updates) != 0 {
		t.Error("invalid project was sent")
	}
	if f.page.Status() == "" || !f.page.statusErr {
		t.Errorf("status = %q, want a validation error", f.page.Status())
	}
}

func TestProjectPage_PersistFailure(t *testing.T) {
	p := sampleProject()
	f := newFixture(authed, &p)
	f.api.saveErr = errors.New("503")
	f.init(t)
	f.send(t, PersistMsg{})

	if !strings.Contains(f.page.Status(), "Could not save") {
		t.Errorf("status = %q", f.page.Status())
	}
}

func TestProjectPage_ActivateNetwork(t *testing.T) {
	p := sampleProject()
	f := newFixture(authed, &p)
	f.init(t)

	f.focus(t, "net1/layer0/shape")
	f.send(t, ActivateNetworkMsg{})
	if got := f.page.ActiveNetwork().ID; got != "n2" {
		t.Errorf("active = %q, want n2", got)
	}
	if !strings.Contains(f.page.View(), "Wide: Dense(2)") {
		t.Error("table caption does not follow the active network")
	}

	f.focus(t, createTableID)
	f.send(t, ActivateNetworkMsg{})
	if got := f.page.ActiveNetwork().ID; got != "n2" {
		t.Errorf("active changed to %q from a page-level button", got)
	}
}

func TestProjectPage_KeysIgnoredUntilReady(t *testing.T) {
	f := newFixture(authed, nil)
	f.init(t)
	f.send(t, keyMsg("tab"))
	f.send(t, CreateNetworkMsg{})

	if f.page.project.Updated() {
		t.Error("container changed before the project loaded")
	}
}

func TestProjectPage_LoginRedirectTarget(t *testing.T) {
	if got := nav.LoginURL(nav.ProjectsPath); got != "/login?redirect=/projects" {
		t.Errorf("LoginURL = %q", got)
	}
}

func TestRenderTable_RightAlignsNumbers(t *testing.T) {
	rowWith := func(view, text string) string {
		for _, line := range strings.Split(view, "\n") {
			if strings.Contains(line, text) {
				return line
			}
		}
		return ""
	}

	numbers := project.Table{Headers: []string{"x"}, Values: [][]project.Cell{
		{project.CellOf(1.5)}, {project.CellOf(10)}, {project.CellOf(nil)},
	}}
	if got := rowWith(renderTable(numbers, project.Network{}, 80), "10"); !strings.HasPrefix(got, "  10") {
		t.Errorf("numeric row = %q, want right-aligned", got)
	}

	text := project.Table{Headers: []string{"x"}, Values: [][]project.Cell{
		{project.CellOf("1.5")}, {project.CellOf("10")},
	}}
	if got := rowWith(renderTable(text, project.Network{}, 80), "10"); !strings.HasPrefix(got, " 10") || strings.HasPrefix(got, "  10") {
		t.Errorf("text row = %q, want left-aligned", got)
	}
}
