package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type Action string

type Binding struct {
	Action Action
	Keys   []string
	Help   string
}

// KeyRegistry maps key names to actions per scope. The first key of a
// binding is what the footer shows, so it may be a display-only name
// such as "j/k".
type KeyRegistry struct {
	bindingsByScope map[string][]*Binding
	indexByScope    map[string]map[string]*Binding
}

const (
	scopeGlobal        = "global"
	scopeSites         = "sites"
	scopeSite          = "site"
	scopeEditorInput   = "editor_input"
	scopeEditorList    = "editor_list"
	scopeEditorDrag    = "editor_drag"
	scopeConfirmDelete = "confirm_delete"
)

const (
	actionQuit       Action = "quit"
	actionNavigate   Action = "navigate"
	actionSelect     Action = "select"
	actionBack       Action = "back"
	actionRefresh    Action = "refresh"
	actionNew        Action = "new"
	actionDelete     Action = "delete"
	actionConfirm    Action = "confirm"
	actionCancel     Action = "cancel"
	actionNextField  Action = "next_field"
	actionPrevField  Action = "prev_field"
	actionSubmit     Action = "submit"
	actionClose      Action = "close"
	actionPickUp     Action = "pick_up"
	actionDrop       Action = "drop"
	actionQuickAdd   Action = "quick_add"
	actionQuickDrop  Action = "quick_remove"
	actionMoveUp     Action = "move_up"
	actionMoveDown   Action = "move_down"
	actionClearRoute Action = "clear_route"
)

func NewKeyRegistry() *KeyRegistry {
	r := &KeyRegistry{
		bindingsByScope: make(map[string][]*Binding),
		indexByScope:    make(map[string]map[string]*Binding),
	}
	reg := func(scope string, action Action, keys []string, help string) {
		r.Register(scope, Binding{Action: action, Keys: keys, Help: help})
	}

	reg(scopeGlobal, actionQuit, []string{"ctrl+c"}, "quit")

	reg(scopeSites, actionNavigate, []string{"j/k", "j", "k", "up", "down"}, "navigate")
	reg(scopeSites, actionSelect, []string{"enter"}, "open site")
	reg(scopeSites, actionRefresh, []string{"r"}, "refresh")
	reg(scopeSites, actionQuit, []string{"q", "ctrl+c"}, "quit")

	reg(scopeSite, actionNavigate, []string{"j/k", "j", "k", "up", "down"}, "navigate")
	reg(scopeSite, actionSelect, []string{"enter", "e"}, "edit route")
	reg(scopeSite, actionNew, []string{"n"}, "new route")
	reg(scopeSite, actionDelete, []string{"D"}, "delete")
	reg(scopeSite, actionRefresh, []string{"r"}, "refresh")
	reg(scopeSite, actionBack, []string{"esc", "backspace"}, "sites")
	reg(scopeSite, actionQuit, []string{"q", "ctrl+c"}, "quit")

	reg(scopeEditorInput, actionNextField, []string{"tab", "enter"}, "next")
	reg(scopeEditorInput, actionPrevField, []string{"shift+tab"}, "prev")
	reg(scopeEditorInput, actionSubmit, []string{"ctrl+s"}, "save")
	reg(scopeEditorInput, actionClose, []string{"esc"}, "close")

	reg(scopeEditorList, actionNavigate, []string{"j/k", "j", "k", "up", "down"}, "navigate")
	reg(scopeEditorList, actionPickUp, []string{"space"}, "pick up")
	reg(scopeEditorList, actionQuickAdd, []string{"a"}, "add")
	reg(scopeEditorList, actionQuickDrop, []string{"x", "delete"}, "remove")
	reg(scopeEditorList, actionMoveUp, []string{"K", "shift+up"}, "move up")
	reg(scopeEditorList, actionMoveDown, []string{"J", "shift+down"}, "move down")
	reg(scopeEditorList, actionClearRoute, []string{"C"}, "clear")
	reg(scopeEditorList, actionNextField, []string{"tab"}, "next")
	reg(scopeEditorList, actionPrevField, []string{"shift+tab"}, "prev")
	reg(scopeEditorList, actionSubmit, []string{"ctrl+s"}, "save")
	reg(scopeEditorList, actionClose, []string{"esc"}, "close")

	reg(scopeEditorDrag, actionNavigate, []string{"j/k", "j", "k", "up", "down"}, "aim")
	reg(scopeEditorDrag, actionNextField, []string{"tab", "h/l", "h", "l", "left", "right"}, "switch column")
	reg(scopeEditorDrag, actionDrop, []string{"space", "enter"}, "drop")
	reg(scopeEditorDrag, actionCancel, []string{"esc"}, "cancel drag")

	reg(scopeConfirmDelete, actionConfirm, []string{"y"}, "delete")
	reg(scopeConfirmDelete, actionCancel, []string{"n", "esc"}, "keep")

	return r
}

// Register adds b to scope. Keys already bound in the scope are skipped.
func (r *KeyRegistry) Register(scope string, b Binding) {
	if r == nil || scope == "" {
		return
	}
	keys := normalizeKeyList(b.Keys)
	if len(keys) == 0 {
		return
	}
	if _, ok := r.indexByScope[scope]; !ok {
		r.indexByScope[scope] = make(map[string]*Binding)
	}
	for _, k := range keys {
		if _, exists := r.indexByScope[scope][k]; exists {
			return
		}
	}
	copyBinding := b
	copyBinding.Keys = keys
	r.bindingsByScope[scope] = append(r.bindingsByScope[scope], &copyBinding)
	for _, k := range keys {
		r.indexByScope[scope][k] = &copyBinding
	}
}

// Lookup resolves keyName in scope, falling back to the global scope.
func (r *KeyRegistry) Lookup(keyName, scope string) *Binding {
	if r == nil || keyName == "" {
		return nil
	}
	keyName = normalizeKeyName(keyName)
	if b := r.indexByScope[scope][keyName]; b != nil {
		return b
	}
	if scope != scopeGlobal {
		return r.indexByScope[scopeGlobal][keyName]
	}
	return nil
}

func (r *KeyRegistry) HelpBindings(scope string) []key.Binding {
	if r == nil {
		return nil
	}
	items := r.bindingsByScope[scope]
	out := make([]key.Binding, 0, len(items))
	for _, b := range items {
		out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(b.Keys[0], b.Help)))
	}
	return out
}

func normalizeKeyList(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool)
	for _, k := range keys {
		n := normalizeKeyName(k)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func normalizeKeyName(k string) string {
	if k == " " {
		return "space"
	}
	trimmed := strings.TrimSpace(k)
	if trimmed == "" {
		return ""
	}
	// Single uppercase runes stay distinct from their lowercase bindings.
	if len(trimmed) == 1 && trimmed[0] >= 'A' && trimmed[0] <= 'Z' {
		return trimmed
	}
	return strings.ToLower(trimmed)
}

func isUpKey(k string) bool {
	switch k {
	case "k", "up":
		return true
	}
	return false
}
