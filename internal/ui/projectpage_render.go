package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"arcai/internal/editor"
	"arcai/internal/project"
	"arcai/internal/ui/textutil"
)

type controlKind int

const (
	controlNeurons controlKind = iota
	controlShape
	controlDelete
	controlCreateTable
	controlCreateNetwork
)

func (k controlKind) field() string {
	switch k {
	case controlNeurons:
		return "Neurons"
	case controlShape:
		return "Shape"
	default:
		return ""
	}
}

const (
	createTableID   = "create-table"
	createNetworkID = "create-network"

	maxColumnWidth = 24
	maxTableRows   = 10
)

// control is one focusable element. network is the owning network's index,
// -1 for page-level buttons.
type control struct {
	id      string
	kind    controlKind
	network int
	layer   editor.LayerEditor
}

// value returns the committed value behind a number field.
func (c control) value() int {
	l, _ := c.layer.Layer()
	if c.kind == controlShape {
		return l.Shape
	}
	return l.Neurons
}

func layerControlID(network, layer int) string {
	return fmt.Sprintf("net%d/layer%d", network, layer)
}

// rebuildControls lays out the focus order for proj: per layer its neurons,
// shape and (when deletable) delete control, then the two create buttons.
func (p *ProjectPage) rebuildControls(proj project.Project) {
	var controls []control
	for ni, n := range proj.Networks {
		for _, le := range editor.NewLayerEditors(p.project, ni, n) {
			base := layerControlID(ni, le.Index)
			controls = append(controls,
				control{id: base + "/neurons", kind: controlNeurons, network: ni, layer: le},
				control{id: base + "/shape", kind: controlShape, network: ni, layer: le},
			)
			if le.CanDelete() {
				controls = append(controls, control{id: base + "/delete", kind: controlDelete, network: ni, layer: le})
			}
		}
	}
	controls = append(controls,
		control{id: createTableID, kind: controlCreateTable, network: -1},
		control{id: createNetworkID, kind: controlCreateNetwork, network: -1},
	)
	p.controls = controls
	p.syncInputs()

	order := make([]string, len(controls))
	for i, c := range controls {
		order[i] = c.id
	}
	p.focus.SetOrder(order)
}

// syncInputs creates, refreshes and drops text inputs to match the controls.
// A focused input keeps its text while the user is mid-edit.
func (p *ProjectPage) syncInputs() {
	live := make(map[string]bool)
	for _, c := range p.controls {
		if c.kind != controlNeurons && c.kind != controlShape {
			continue
		}
		live[c.id] = true
		v := c.value()
		in, ok := p.inputs[c.id]
		if !ok {
			in = newNumberInput(v)
			if c.id == p.focus.Current {
				in.Focus()
			}
			p.inputs[c.id] = in
			continue
		}
		if in.Focused() {
			n, err := strconv.Atoi(strings.TrimSpace(in.Value()))
			if err != nil || n == v {
				continue
			}
		}
		in.SetValue(strconv.Itoa(v))
	}
	for id := range p.inputs {
		if !live[id] {
			delete(p.inputs, id)
		}
	}
}

func newNumberInput(v int) *textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 7
	ti.Width = 8
	_ = ti.Cursor.SetMode(cursor.CursorStatic)
	ti.SetValue(strconv.Itoa(v))
	return &ti
}

func (p *ProjectPage) onFocusChange(from, to string) {
	if in := p.inputs[from]; in != nil {
		in.Blur()
		// Abandoned invalid text reverts to the committed value.
		if c, ok := p.control(from); ok {
			in.SetValue(strconv.Itoa(c.value()))
		}
	}
	if in := p.inputs[to]; in != nil {
		in.Focus()
	}
}

func (p *ProjectPage) control(id string) (control, bool) {
	for _, c := range p.controls {
		if c.id == id {
			return c, true
		}
	}
	return control{}, false
}

func (p *ProjectPage) focused() (control, bool) {
	return p.control(p.focus.Current)
}

// View implements View.
func (p *ProjectPage) View() string {
	switch p.Phase() {
	case PhaseNoSecret:
		return ""
	case PhaseReady:
		return p.renderReady()
	default:
		return p.renderLoading()
	}
}

func (p *ProjectPage) renderLoading() string {
	out := p.spinner.View() + " " + Styles.Muted.Render("Loading…")
	if p.status != "" {
		out += "\n\n" + p.renderStatus()
	}
	return out
}

func (p *ProjectPage) renderReady() string {
	w := p.width
	if w <= 0 {
		w = 80
	}
	proj := p.project.Value()
	active := p.active.Value()

	var b strings.Builder
	b.WriteString(textutil.Center(Styles.Title.Render(p.fetched.Name), w))
	b.WriteString("\n")
	if desc := renderMarkdown(p.fetched.Description, w-4); desc != "" {
		b.WriteString(desc)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(proj.Networks) == 0 {
		b.WriteString(Styles.Empty.Render("No networks yet."))
		b.WriteString("\n\n")
	}
	for ni, n := range proj.Networks {
		b.WriteString(p.renderNetwork(ni, n, active.ID != "" && n.ID == active.ID))
		b.WriteString("\n\n")
	}

	for _, t := range p.fetched.Tables {
		b.WriteString(renderTable(t, active, w))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		p.renderButton("+ Create a new table", createTableID, false),
		"  ",
		p.renderButton("+ Create a new network", createNetworkID, false),
	))
	if p.status != "" {
		b.WriteString("\n\n")
		b.WriteString(p.renderStatus())
	}
	return b.String()
}

func (p *ProjectPage) renderStatus() string {
	if p.statusErr {
		return Styles.Error.Render(p.status)
	}
	return Styles.Status.Render(p.status)
}

func (p *ProjectPage) renderNetwork(ni int, n project.Network, isActive bool) string {
	header := Styles.Section.Render(networkName(n))
	if isActive {
		header += " " + Styles.Active.Render("● active")
	}
	lines := []string{header}
	if n.Description != "" && n.Description != n.Name {
		lines = append(lines, Styles.Muted.Render(n.Description))
	}

	var boxes []string
	for _, le := range editor.NewLayerEditors(p.project, ni, n) {
		boxes = append(boxes, p.renderLayer(ni, le))
	}
	if len(boxes) > 0 {
		lines = append(lines, lipgloss.JoinVertical(lipgloss.Left, boxes...))
	}
	return strings.Join(lines, "\n")
}

func (p *ProjectPage) renderLayer(ni int, le editor.LayerEditor) string {
	base := layerControlID(ni, le.Index)
	fields := []string{
		p.renderField("Neurons", base+"/neurons"),
		p.renderField("Shape", base+"/shape"),
	}
	if le.CanDelete() {
		fields = append(fields, p.renderButton("✕ Delete", base+"/delete", true))
	}

	box := Styles.Layer
	if strings.HasPrefix(p.focus.Current, base+"/") {
		box = Styles.LayerFocused
	}
	return box.Render(Styles.LayerLabel.Render(le.Label()) + "\n" + strings.Join(fields, "  "))
}

func (p *ProjectPage) renderField(label, id string) string {
	v := "?"
	if in := p.inputs[id]; in != nil {
		v = in.View()
	}
	return Styles.FieldLabel.Render(label+":") + " " + v
}

func (p *ProjectPage) renderButton(text, id string, danger bool) string {
	switch {
	case p.focus.Current == id:
		return Styles.ButtonFocused.Render(text)
	case danger:
		return Styles.ButtonDanger.Render(text)
	default:
		return Styles.Button.Render(text)
	}
}

// renderTable draws a read-only table captioned with the active network's
// layers. Numeric columns are right-aligned.
func renderTable(t project.Table, active project.Network, width int) string {
	cols := make([]table.Column, len(t.Headers))
	numeric := make([]bool, len(t.Headers))
	for i, h := range t.Headers {
		cols[i] = table.Column{Title: h, Width: columnWidth(t, i)}
		numeric[i] = numericColumn(t, i)
	}
	rows := make([]table.Row, len(t.Values))
	for i, r := range t.Values {
		row := make(table.Row, len(cols))
		for j := range cols {
			if j >= len(r) {
				continue
			}
			row[j] = textutil.Truncate(r[j].String(), maxColumnWidth)
			if numeric[j] {
				row[j] = textutil.PadLeft(row[j], cols[j].Width)
			}
		}
		rows[i] = row
	}

	st := table.DefaultStyles()
	st.Selected = lipgloss.NewStyle()
	tbl := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(min(len(rows), maxTableRows)+3), // header and its border
		table.WithFocused(false),
		table.WithStyles(st),
	)

	caption := "No active network"
	if active.ID != "" {
		parts := make([]string, len(active.Layers))
		for i, l := range active.Layers {
			parts[i] = fmt.Sprintf("%s(%d)", project.DisplayType(l.Type), l.Neurons)
		}
		caption = networkName(active) + ": " + textutil.JoinFit(parts, " → ", width-len(networkName(active))-2)
	}
	return tbl.View() + "\n" + Styles.Caption.Render(caption)
}

func columnWidth(t project.Table, col int) int {
	w := textutil.Width(t.Headers[col])
	for _, r := range t.Values {
		if col < len(r) {
			w = max(w, textutil.Width(r[col].String()))
		}
	}
	return min(max(w, 3), maxColumnWidth)
}

// numericColumn reports whether every non-empty cell in col is a JSON number
// and at least one is.
func numericColumn(t project.Table, col int) bool {
	seen := false
	for _, r := range t.Values {
		if col >= len(r) || r[col].String() == "" {
			continue
		}
		if _, ok := r[col].Float(); !ok {
			return false
		}
		seen = true
	}
	return seen
}
