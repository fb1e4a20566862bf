package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"arcai/internal/api"
	"arcai/internal/editor"
	"arcai/internal/ids"
	"arcai/internal/nav"
	"arcai/internal/project"
	"arcai/internal/session"
	"arcai/internal/state"
)

// Phase is the page's render state, derived from the session and the
// project containers on every render.
type Phase int

const (
	PhaseSessionLoading Phase = iota
	PhaseUnauthenticated
	PhaseNoSecret
	PhaseLoading
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseSessionLoading:
		return "SessionLoading"
	case PhaseUnauthenticated:
		return "Unauthenticated"
	case PhaseNoSecret:
		return "NoSecret"
	case PhaseLoading:
		return "Loading"
	case PhaseReady:
		return "Ready"
	default:
		return "Unknown"
	}
}

// PageConfig holds the page's collaborators.
type PageConfig struct {
	ProjectID string
	Session   session.Provider
	Navigator nav.Navigator
	API       api.ProjectAPI
	IDs       ids.Generator       // defaults to random UUIDs
	Tables    editor.TableCreator // nil: table creation unavailable
	Logger    *slog.Logger
	Context   context.Context // parent for API and generator calls
}

// ProjectPage shows one project: its networks as editable layer forms, its
// tables, and the create buttons.
type ProjectPage struct {
	cfg PageConfig
	log *slog.Logger
	ctx context.Context

	project *editor.Container
	active  *state.ObjectState[project.Network]
	unsub   []func()
	epoch   int // bumped whenever the containers are replaced

	fetched    *project.Project // last successful fetch result
	pending    *fetchKey
	seq        int
	fetchErr   error
	secret     string
	redirected bool

	controls []control
	inputs   map[string]*textinput.Model
	focus    FocusRing

	spinner  spinner.Model
	spinning bool
	width    int

	status    string
	statusErr bool
}

var _ View = (*ProjectPage)(nil)

// NewProjectPage creates the page. Nothing is fetched until Init.
func NewProjectPage(cfg PageConfig) *ProjectPage {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	if cfg.IDs == nil {
		cfg.IDs = ids.UUID{}
	}
	p := &ProjectPage{
		cfg:     cfg,
		log:     cfg.Logger.With("component", "project_page", "project", cfg.ProjectID),
		ctx:     cfg.Context,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(Styles.Status)),
		width:   80,
	}
	p.focus.OnChange = p.onFocusChange
	p.reset()
	return p
}

// reset drops all project state and starts with fresh containers. Results of
// work started before the reset are discarded by epoch or fetch key.
func (p *ProjectPage) reset() {
	p.Close()
	p.epoch++
	p.project = state.New(project.Project{})
	p.active = state.New(project.Network{})
	p.unsub = append(p.unsub, p.project.Subscribe(p.onProjectChanged))
	p.fetched = nil
	p.pending = nil
	p.fetchErr = nil
	p.controls = nil
	p.inputs = make(map[string]*textinput.Model)
	p.focus.SetOrder(nil)
}

// Close releases the page's container subscriptions.
func (p *ProjectPage) Close() {
	for _, u := range p.unsub {
		u()
	}
	p.unsub = nil
}

// Phase reports the current render state.
func (p *ProjectPage) Phase() Phase {
	s := p.cfg.Session.Current()
	switch s.Status {
	case session.StatusUnauthenticated:
		return PhaseUnauthenticated
	case session.StatusAuthenticated:
		if s.Secret() == "" {
			return PhaseNoSecret
		}
		if !p.project.Updated() || p.fetched == nil {
			return PhaseLoading
		}
		return PhaseReady
	default:
		return PhaseSessionLoading
	}
}

func (p *ProjectPage) loading() bool {
	switch p.Phase() {
	case PhaseSessionLoading, PhaseUnauthenticated, PhaseLoading:
		return true
	}
	return false
}

// Project returns the current (possibly edited) project.
func (p *ProjectPage) Project() project.Project { return p.project.Value() }

// ActiveNetwork returns the network whose layers caption the tables.
func (p *ProjectPage) ActiveNetwork() project.Network { return p.active.Value() }

// Focused returns the ID of the focused control.
func (p *ProjectPage) Focused() string { return p.focus.Current }

// Status returns the status line text.
func (p *ProjectPage) Status() string { return p.status }

// Init implements View.
func (p *ProjectPage) Init() tea.Cmd {
	return p.sync()
}

// sync reconciles the page with the session: redirects once per
// unauthenticated episode and starts the fetch when one is due.
func (p *ProjectPage) sync() tea.Cmd {
	s := p.cfg.Session.Current()
	if s.Status != session.StatusUnauthenticated {
		p.redirected = false
	}
	if secret := s.Secret(); secret != p.secret {
		p.secret = secret
		p.reset()
	}

	var cmds []tea.Cmd
	switch p.Phase() {
	case PhaseUnauthenticated:
		if !p.redirected {
			p.redirected = true
			if err := p.cfg.Navigator.Push(nav.LoginURL(nav.ProjectsPath)); err != nil {
				p.log.Warn("redirect to login failed", "error", err)
			}
		}
	case PhaseLoading:
		cmds = append(cmds, p.startFetch(false))
	}
	if p.loading() && !p.spinning {
		p.spinning = true
		cmds = append(cmds, p.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// startFetch issues one fetch for the current key. After a failure only a
// manual refresh fetches again.
func (p *ProjectPage) startFetch(manual bool) tea.Cmd {
	if p.pending != nil || (p.fetchErr != nil && !manual) {
		return nil
	}
	p.seq++
	key := fetchKey{secret: p.secret, id: p.cfg.ProjectID, seq: p.seq}
	p.pending = &key
	p.fetchErr = nil
	p.log.Debug("fetching project", "seq", key.seq)
	return fetchProjectCmd(p.ctx, p.cfg.API, key)
}

// Update implements View.
func (p *ProjectPage) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		return p, nil
	case spinner.TickMsg:
		if !p.loading() {
			p.spinning = false
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd
	case SessionChangedMsg:
		return p, p.sync()
	case ProjectFetchedMsg:
		return p, p.handleFetched(msg)
	case NetworkBuiltMsg:
		return p, p.handleNetworkBuilt(msg)
	case TableBuiltMsg:
		return p, p.handleTableBuilt(msg)
	case ProjectPersistedMsg:
		p.handlePersisted(msg)
		return p, nil
	case CreateNetworkMsg:
		return p, p.createNetwork()
	case CreateTableMsg:
		return p, p.createTable()
	case PersistMsg:
		return p, p.persist()
	case RefreshMsg:
		return p, p.refresh()
	case ActivateNetworkMsg:
		p.activateFocusedNetwork()
		return p, nil
	case tea.KeyMsg:
		if p.Phase() != PhaseReady {
			return p, nil
		}
		return p, p.handleKey(msg)
	}
	return p, nil
}

func (p *ProjectPage) handleFetched(msg ProjectFetchedMsg) tea.Cmd {
	if p.pending == nil || msg.key != *p.pending {
		p.log.Debug("discarding stale project result", "seq", msg.key.seq)
		return nil
	}
	p.pending = nil

	err := msg.Err
	if err == nil && msg.Project == nil {
		err = api.ErrNoResult
	}
	if err != nil {
		p.fetchErr = err
		p.log.Warn("project fetch failed", "error", err)
		p.setStatus("Could not load project: "+err.Error()+" (SPC r to retry)", true)
		return nil
	}

	result := *msg.Project
	p.fetched = &result
	activeID := p.active.Value().ID
	p.project.Set(result)
	if n, ok := result.Network(activeID); ok && activeID != "" {
		p.active.Set(n)
	} else if len(result.Networks) > 0 {
		p.active.Set(result.Networks[0])
	} else {
		p.active.Set(project.Network{})
	}
	p.setStatus("", false)
	p.log.Info("project loaded", "networks", len(result.Networks), "tables", len(result.Tables))

	title := "arcai"
	if result.Name != "" {
		title = result.Name + " | arcai"
	}
	return tea.SetWindowTitle(title)
}

// onProjectChanged is the project container's subscriber. It keeps the
// active network in step with edits and rebuilds the controls.
func (p *ProjectPage) onProjectChanged(proj project.Project) {
	if id := p.active.Value().ID; id != "" {
		if n, ok := proj.Network(id); ok {
			p.active.Set(n)
		}
	}
	p.rebuildControls(proj)
}

func (p *ProjectPage) createNetwork() tea.Cmd {
	if p.Phase() != PhaseReady {
		return nil
	}
	return buildNetworkCmd(p.ctx, p.cfg.IDs, p.epoch)
}

func (p *ProjectPage) handleNetworkBuilt(msg NetworkBuiltMsg) tea.Cmd {
	if msg.epoch != p.epoch {
		p.log.Debug("discarding network built for a previous project state")
		return nil
	}
	if msg.Err != nil {
		p.log.Warn("create network failed", "error", msg.Err)
		p.setStatus("Could not create network: "+msg.Err.Error(), true)
		return nil
	}
	editor.AppendNetwork(p.project, msg.Network)
	p.setStatus("Network added", false)
	return nil
}

func (p *ProjectPage) createTable() tea.Cmd {
	if p.Phase() != PhaseReady {
		return nil
	}
	return buildTableCmd(p.ctx, p.cfg.Tables, p.epoch, p.project.Value())
}

func (p *ProjectPage) handleTableBuilt(msg TableBuiltMsg) tea.Cmd {
	if msg.epoch != p.epoch {
		return nil
	}
	switch {
	case errors.Is(msg.Err, editor.ErrTableCreationUnavailable):
		p.log.Info("table creation requested but no creator is configured")
		p.setStatus("Table creation is not available yet", false)
	case msg.Err != nil:
		p.log.Warn("create table failed", "error", msg.Err)
		p.setStatus("Could not create table: "+msg.Err.Error(), true)
	default:
		editor.AppendTable(p.project, msg.Table)
		p.setStatus("Table added; save and refresh to view it", false)
	}
	return nil
}

func (p *ProjectPage) persist() tea.Cmd {
	if p.Phase() != PhaseReady {
		p.setStatus("Nothing to save yet", true)
		return nil
	}
	proj := p.project.Value()
	if err := proj.Validate(); err != nil {
		p.setStatus(err.Error(), true)
		return nil
	}
	p.setStatus("Saving…", false)
	return persistProjectCmd(p.ctx, p.cfg.API, p.epoch, p.secret, p.cfg.ProjectID, proj)
}

func (p *ProjectPage) handlePersisted(msg ProjectPersistedMsg) {
	if msg.epoch != p.epoch {
		return
	}
	if msg.Err != nil {
		p.log.Warn("save project failed", "error", msg.Err)
		p.setStatus("Could not save: "+msg.Err.Error(), true)
		return
	}
	p.log.Info("project saved")
	p.setStatus("Saved", false)
}

func (p *ProjectPage) refresh() tea.Cmd {
	switch p.Phase() {
	case PhaseLoading, PhaseReady:
	default:
		return nil
	}
	p.pending = nil // any in-flight result is now stale
	p.setStatus("Refreshing…", false)
	return p.startFetch(true)
}

func (p *ProjectPage) activateFocusedNetwork() {
	c, ok := p.focused()
	proj := p.project.Value()
	if !ok || c.network < 0 || c.network >= len(proj.Networks) {
		p.setStatus("Focus a layer to pick its network", true)
		return
	}
	n := proj.Networks[c.network]
	p.active.Set(n)
	p.setStatus("Active network: "+networkName(n), false)
}

func (p *ProjectPage) setStatus(s string, isErr bool) {
	p.status = s
	p.statusErr = isErr
}

func (p *ProjectPage) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "down":
		p.focus.Next()
		return nil
	case "shift+tab", "up":
		p.focus.Prev()
		return nil
	}

	c, ok := p.focused()
	if !ok {
		return nil
	}
	switch c.kind {
	case controlNeurons, controlShape:
		return p.updateInput(c, msg)
	}
	if msg.String() != "enter" {
		return nil
	}
	switch c.kind {
	case controlDelete:
		label := c.layer.Label()
		if err := c.layer.Delete(); err != nil {
			p.setStatus("Could not delete layer: "+err.Error(), true)
			return nil
		}
		p.setStatus("Deleted "+label, false)
	case controlCreateTable:
		return p.createTable()
	case controlCreateNetwork:
		return p.createNetwork()
	}
	return nil
}

// updateInput feeds a key to a number field and commits the value once it
// parses as a positive integer.
func (p *ProjectPage) updateInput(c control, msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyRunes {
		for _, r := range msg.Runes {
			if r < '0' || r > '9' {
				return nil
			}
		}
	}
	in := p.inputs[c.id]
	if in == nil {
		return nil
	}
	updated, cmd := in.Update(msg)
	*in = updated

	n, err := strconv.Atoi(strings.TrimSpace(in.Value()))
	if err != nil || n < 1 {
		p.setStatus(c.kind.field()+" must be a positive whole number", true)
		return cmd
	}
	if n == c.value() {
		return cmd
	}
	if c.kind == controlNeurons {
		err = c.layer.SetNeurons(n)
	} else {
		err = c.layer.SetShape(n)
	}
	if err != nil {
		p.log.Warn("layer edit failed", "control", c.id, "error", err)
		p.setStatus("Could not update layer: "+err.Error(), true)
		return cmd
	}
	if p.statusErr {
		p.setStatus("", false)
	}
	return cmd
}

func networkName(n project.Network) string {
	if n.Name != "" {
		return n.Name
	}
	if n.ID != "" {
		return n.ID
	}
	return "Untitled network"
}

func (p *ProjectPage) String() string {
	return fmt.Sprintf("ProjectPage(%s, %s)", p.cfg.ProjectID, p.Phase())
}
