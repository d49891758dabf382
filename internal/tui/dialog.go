package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/sitepatrol/internal/patrol"
)

type dialogFocus int

const (
	focusName dialogFocus = iota
	focusRemarks
	focusAvailable
	focusConfirmed
	focusCount
)

// dialogEvent is what a key press in the route dialog asks the app to do.
type dialogEvent struct {
	submit *patrol.Submission
	closed bool
}

// routeDialog is the keyboard front end of patrol.Editor: two inputs and
// the available/confirmed columns, with space picking a checkpoint up and
// putting it down again.
type routeDialog struct {
	ed          *patrol.Editor
	name        textinput.Model
	remarks     textinput.Model
	spin        spinner.Model
	focus       dialogFocus
	availCursor int
	confCursor  int
	lastErr     string
	lastMove    patrol.Transfer
}

func newRouteDialog() *routeDialog {
	name := textinput.New()
	name.Prompt = ""
	name.Placeholder = "route name"
	name.CharLimit = 120

	remarks := textinput.New()
	remarks.Prompt = ""
	remarks.Placeholder = "remarks (optional)"
	remarks.CharLimit = 500

	return &routeDialog{
		ed:      patrol.NewEditor(),
		name:    name,
		remarks: remarks,
		spin:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(colorBrand))),
	}
}

func (d *routeDialog) openNew(siteID string, catalog *patrol.Catalog) tea.Cmd {
	d.ed.OpenNew(siteID, catalog)
	return d.reset()
}

func (d *routeDialog) openEdit(siteID string, catalog *patrol.Catalog, rec patrol.RouteRecord) tea.Cmd {
	d.ed.OpenEdit(siteID, catalog, rec)
	return d.reset()
}

func (d *routeDialog) reset() tea.Cmd {
	d.name.SetValue(d.ed.Name())
	d.remarks.SetValue(d.ed.Remarks())
	d.availCursor, d.confCursor = 0, 0
	d.lastErr = ""
	d.lastMove = patrol.TransferNone
	return d.setFocus(focusName)
}

func (d *routeDialog) isOpen() bool { return d.ed.IsOpen() }

func (d *routeDialog) close() {
	d.ed.Close()
	d.name.Blur()
	d.remarks.Blur()
}

func (d *routeDialog) setFocus(f dialogFocus) tea.Cmd {
	d.focus = (f + focusCount) % focusCount
	d.name.Blur()
	d.remarks.Blur()
	switch d.focus {
	case focusName:
		return d.name.Focus()
	case focusRemarks:
		return d.remarks.Focus()
	}
	d.clampCursors()
	return nil
}

func (d *routeDialog) scope() string {
	switch {
	case d.ed.DragState() != patrol.Idle:
		return scopeEditorDrag
	case d.focus == focusName || d.focus == focusRemarks:
		return scopeEditorInput
	default:
		return scopeEditorList
	}
}

func (d *routeDialog) dragging() bool { return d.ed.DragState() != patrol.Idle }

func (d *routeDialog) handleKey(msg tea.KeyMsg, keys *KeyRegistry) (dialogEvent, tea.Cmd) {
	scope := d.scope()
	b := keys.Lookup(msg.String(), scope)
	if b == nil {
		if scope == scopeEditorInput {
			return dialogEvent{}, d.updateInput(msg)
		}
		return dialogEvent{}, nil
	}

	switch b.Action {
	case actionClose:
		d.close()
		return dialogEvent{closed: true}, nil
	case actionSubmit:
		return d.submit()
	case actionNextField:
		if d.dragging() {
			d.switchColumn()
			return dialogEvent{}, nil
		}
		return dialogEvent{}, d.setFocus(d.focus + 1)
	case actionPrevField:
		return dialogEvent{}, d.setFocus(d.focus - 1)
	case actionNavigate:
		d.moveCursor(isUpKey(msg.String()))
	case actionPickUp:
		d.pickUp()
	case actionDrop:
		d.drop()
	case actionCancel:
		d.ed.CancelDrag()
	case actionQuickAdd:
		d.quickAdd()
	case actionQuickDrop:
		d.quickRemove()
	case actionMoveUp:
		d.shift(-1)
	case actionMoveDown:
		d.shift(1)
	case actionClearRoute:
		d.clearRoute()
	case actionQuit:
		return dialogEvent{}, tea.Quit
	}
	return dialogEvent{}, nil
}

func (d *routeDialog) updateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch d.focus {
	case focusName:
		d.name, cmd = d.name.Update(msg)
		d.ed.SetName(d.name.Value())
	case focusRemarks:
		d.remarks, cmd = d.remarks.Update(msg)
		d.ed.SetRemarks(d.remarks.Value())
	}
	return cmd
}

func (d *routeDialog) submit() (dialogEvent, tea.Cmd) {
	sub, err := d.ed.BeginSubmit()
	if err != nil {
		d.lastErr = err.Error()
		return dialogEvent{}, nil
	}
	d.lastErr = ""
	return dialogEvent{submit: &sub}, d.spin.Tick
}

// finish applies a submit result and reports what the editor made of it.
func (d *routeDialog) finish(sub patrol.Submission, err error) patrol.Outcome {
	out := d.ed.Finish(sub, err)
	if out.Applied && !out.Closed {
		d.lastErr = out.Message
	}
	if out.Closed {
		d.name.Blur()
		d.remarks.Blur()
	}
	return out
}

func (d *routeDialog) updateSpinner(msg spinner.TickMsg) tea.Cmd {
	if d.ed.State() != patrol.EditorSubmitting {
		return nil
	}
	var cmd tea.Cmd
	d.spin, cmd = d.spin.Update(msg)
	return cmd
}

// cursor handling

func (d *routeDialog) confirmedSlots() int {
	n := d.ed.Sequence().Len()
	if d.dragging() {
		// trailing "end of route" slot
		n++
	}
	return n
}

func (d *routeDialog) clampCursors() {
	if n := len(d.ed.Available()); d.availCursor >= n {
		d.availCursor = max(n-1, 0)
	}
	if n := d.confirmedSlots(); d.confCursor >= n {
		d.confCursor = max(n-1, 0)
	}
}

func (d *routeDialog) moveCursor(up bool) {
	delta := 1
	if up {
		delta = -1
	}
	switch d.focus {
	case focusAvailable:
		d.availCursor += delta
	case focusConfirmed:
		d.confCursor += delta
	default:
		return
	}
	if d.availCursor < 0 {
		d.availCursor = 0
	}
	if d.confCursor < 0 {
		d.confCursor = 0
	}
	d.clampCursors()
	if d.dragging() {
		d.aim()
	}
}

func (d *routeDialog) switchColumn() {
	if d.focus == focusAvailable {
		d.focus = focusConfirmed
	} else {
		d.focus = focusAvailable
	}
	d.clampCursors()
	d.aim()
}

// drag and drop

func (d *routeDialog) hovered() (patrol.DragDescriptor, bool) {
	switch d.focus {
	case focusAvailable:
		avail := d.ed.Available()
		if d.availCursor < len(avail) {
			return patrol.Available(avail[d.availCursor]), true
		}
	case focusConfirmed:
		ids := d.ed.Sequence().IDs()
		if d.confCursor < len(ids) {
			return patrol.Confirmed(ids[d.confCursor]), true
		}
	}
	return patrol.DragDescriptor{}, false
}

func (d *routeDialog) pickUp() {
	src, ok := d.hovered()
	if !ok || !d.ed.StartDrag(src) {
		return
	}
	d.aim()
}

// aim points the drag at whatever the cursor is on.
func (d *routeDialog) aim() {
	switch d.focus {
	case focusAvailable:
		d.ed.DragOver(patrol.AvailableZoneEmpty)
	case focusConfirmed:
		ids := d.ed.Sequence().IDs()
		if d.confCursor < len(ids) {
			d.ed.DragOver(patrol.ConfirmedItem(ids[d.confCursor]))
		} else {
			d.ed.DragOver(patrol.ConfirmedZoneEmpty)
		}
	}
}

func (d *routeDialog) drop() {
	src, ok := d.ed.Drag().Active()
	if !ok {
		return
	}
	dst, _ := d.ed.Drag().Target()
	d.record(src.ID, d.ed.Drop(dst))
	// Follow the checkpoint to the column it landed in.
	if d.ed.Sequence().Contains(src.ID) {
		d.focus = focusConfirmed
	} else {
		d.focus = focusAvailable
	}
	d.clampCursors()
}

func (d *routeDialog) quickAdd() {
	if d.focus != focusAvailable {
		return
	}
	if src, ok := d.hovered(); ok {
		d.record(src.ID, d.ed.Transfer(src, patrol.ConfirmedZoneEmpty))
	}
}

func (d *routeDialog) quickRemove() {
	if d.focus != focusConfirmed {
		return
	}
	if src, ok := d.hovered(); ok {
		d.record(src.ID, d.ed.Transfer(src, patrol.AvailableZoneEmpty))
	}
}

func (d *routeDialog) shift(delta int) {
	if d.focus != focusConfirmed {
		return
	}
	ids := d.ed.Sequence().IDs()
	to := d.confCursor + delta
	if d.confCursor >= len(ids) || to < 0 || to >= len(ids) {
		return
	}
	d.record(ids[d.confCursor], d.ed.Transfer(patrol.Confirmed(ids[d.confCursor]), patrol.ConfirmedItem(ids[to])))
}

func (d *routeDialog) clearRoute() {
	if d.ed.Clear() {
		d.lastMove = patrol.TransferReturn
	}
	d.confCursor = 0
	d.clampCursors()
}

// record points the column cursors at the moved checkpoint.
func (d *routeDialog) record(id patrol.PointerID, t patrol.Transfer) {
	d.lastMove = t
	if !t.Changes() {
		d.clampCursors()
		return
	}
	if idx := d.ed.Sequence().Index(id); idx >= 0 {
		d.confCursor = idx
	} else {
		for i, a := range d.ed.Available() {
			if a == id {
				d.availCursor = i
				break
			}
		}
	}
	d.clampCursors()
}

// rendering

func (d *routeDialog) view(width int) string {
	title := "New route"
	if d.ed.Mode() == patrol.ModeEditing {
		title = "Edit route"
	}
	head := titleStyle.Render(title)
	if d.ed.State() == patrol.EditorSubmitting {
		head += "  " + d.spin.View() + mutedStyle.Render(" saving…")
	}

	colWidth := 28
	if width > 0 {
		colWidth = max(18, min(40, (width-16)/2))
	}

	var b strings.Builder
	b.WriteString(head + "\n\n")
	b.WriteString(d.fieldRow("Name", d.name, d.focus == focusName) + "\n")
	b.WriteString(d.fieldRow("Remarks", d.remarks, d.focus == focusRemarks) + "\n\n")

	left := d.availableColumn(colWidth)
	right := d.confirmedColumn(colWidth)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right))

	if d.lastErr != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(colorError).Render(d.lastErr))
	} else if d.dragging() {
		b.WriteString("\n" + mutedStyle.Render(d.dragHint()))
	}
	return b.String()
}

func (d *routeDialog) fieldRow(label string, in textinput.Model, focused bool) string {
	l := labelStyle.Render(fmt.Sprintf("%-8s", label))
	if focused {
		l = cursorStyle.Render(fmt.Sprintf("%-8s", label))
	}
	return l + " " + in.View()
}

func (d *routeDialog) dragHint() string {
	src, _ := d.ed.Drag().Active()
	dst, ok := d.ed.Drag().Target()
	name := d.ed.Catalog().Label(src.ID)
	if !ok {
		return "carrying " + name
	}
	switch patrol.Classify(d.ed.Sequence(), src, dst) {
	case patrol.TransferReorder:
		return fmt.Sprintf("move %s to position %d", name, d.ed.Sequence().Index(dst.ID)+1)
	case patrol.TransferMoveToTail:
		return "move " + name + " to the end"
	case patrol.TransferAppend:
		return "append " + name
	case patrol.TransferInsertAfter:
		return "insert " + name + " after " + d.ed.Catalog().Label(dst.ID)
	case patrol.TransferReturn:
		return "remove " + name + " from the route"
	default:
		return "carrying " + name
	}
}

func (d *routeDialog) availableColumn(width int) string {
	catalog := d.ed.Catalog()
	avail := d.ed.Available()
	src, dragging := d.ed.Drag().Active()
	dst, hovering := d.ed.Drag().Target()
	focused := d.focus == focusAvailable

	lines := []string{titleStyle.Render(fmt.Sprintf("Available (%d)", len(avail)))}
	for i, id := range avail {
		label := truncate(catalog.Label(id), width-4)
		line := "  " + availableStyle.Render(label)
		if dragging && src.Zone == patrol.ZoneAvailable && src.ID == id {
			line = "  " + draggedStyle.Render(label)
		}
		if focused && i == d.availCursor {
			line = cursorStyle.Render("▶ ") + line[2:]
		}
		lines = append(lines, line)
	}
	if len(avail) == 0 {
		lines = append(lines, mutedStyle.Render("  every checkpoint is on the route"))
	}
	if dragging && hovering && dst.Kind == patrol.DropAvailableZone && src.Zone == patrol.ZoneConfirmed {
		lines = append(lines, dropStyle.Render("↩ "+truncate(catalog.Label(src.ID), width-4)))
	}

	box := listBoxStyle
	if focused {
		box = focusedBoxStyle
	}
	return box.Width(width).Render(strings.Join(lines, "\n"))
}

func (d *routeDialog) confirmedColumn(width int) string {
	catalog := d.ed.Catalog()
	seq := d.ed.Sequence()
	src, dragging := d.ed.Drag().Active()
	_, hovering := d.ed.Drag().Target()
	focused := d.focus == focusConfirmed
	aiming := dragging && focused

	// While aiming, the rows stay on the committed sequence so the cursor
	// lines up with the slot it targets; the result is drawn underneath.
	shown := seq
	if dragging && hovering && !aiming {
		shown = d.ed.Preview()
	}

	lines := []string{titleStyle.Render(fmt.Sprintf("Route (%d)", seq.Len()))}
	for i, id := range shown.IDs() {
		label := truncate(fmt.Sprintf("%d. %s", i+1, catalog.Label(id)), width-4)
		var line string
		switch {
		case dragging && id == src.ID && !shown.Equal(seq):
			line = "  " + dropStyle.Render(label)
		case dragging && id == src.ID:
			line = "  " + draggedStyle.Render(label)
		default:
			line = "  " + confirmedStyle.Render(label)
		}
		if focused && i == d.confCursor {
			line = cursorStyle.Render("▶ ") + line[2:]
		}
		lines = append(lines, line)
	}
	if aiming {
		end := "  " + ghostStyle.Render("⤓ end of route")
		if d.confCursor == seq.Len() {
			end = cursorStyle.Render("▶ ") + end[2:]
		}
		lines = append(lines, end)
		if preview := d.ed.Preview(); hovering && !preview.Equal(seq) {
			lines = append(lines, "", mutedStyle.Render("after drop:"))
			for i, id := range preview.IDs() {
				label := truncate(fmt.Sprintf("%d. %s", i+1, catalog.Label(id)), width-4)
				if id == src.ID {
					lines = append(lines, "  "+dropStyle.Render(label))
				} else {
					lines = append(lines, "  "+mutedStyle.Render(label))
				}
			}
		}
	}
	if seq.Len() == 0 && !(dragging && hovering) {
		lines = append(lines, mutedStyle.Render("  pick checkpoints from the left"))
	}

	box := listBoxStyle
	if focused {
		box = focusedBoxStyle
	}
	return box.Width(width).Render(strings.Join(lines, "\n"))
}
