package input

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Action represents a logical viewer action, not a physical key
type Action int

// Action constants using iota
const (
	ActionMoveUp Action = iota
	ActionMoveDown
	ActionMoveLeft
	ActionMoveRight
	ActionMoveForward
	ActionMoveBackward
	ActionLookUp
	ActionLookDown
	ActionLookLeft
	ActionLookRight
	ActionQuit
	ActionToggleProfiling
	ActionCount // Sentinel value for array sizing
)

var actionNames = [ActionCount]string{
	ActionMoveUp:          "move_up",
	ActionMoveDown:        "move_down",
	ActionMoveLeft:        "move_left",
	ActionMoveRight:       "move_right",
	ActionMoveForward:     "move_forward",
	ActionMoveBackward:    "move_backward",
	ActionLookUp:          "look_up",
	ActionLookDown:        "look_down",
	ActionLookLeft:        "look_left",
	ActionLookRight:       "look_right",
	ActionQuit:            "quit",
	ActionToggleProfiling: "toggle_profiling",
}

func (a Action) String() string {
	if a < 0 || a >= ActionCount {
		return "unknown"
	}
	return actionNames[a]
}

// DefaultBindings is the fixed key table of the viewer.
var DefaultBindings = map[glfw.Key]Action{
	glfw.KeySpace:     ActionMoveUp,
	glfw.KeyLeftShift: ActionMoveDown,
	glfw.KeyA:         ActionMoveLeft,
	glfw.KeyD:         ActionMoveRight,
	glfw.KeyW:         ActionMoveForward,
	glfw.KeyS:         ActionMoveBackward,
	glfw.KeyUp:        ActionLookUp,
	glfw.KeyDown:      ActionLookDown,
	glfw.KeyLeft:      ActionLookLeft,
	glfw.KeyRight:     ActionLookRight,
	glfw.KeyEscape:    ActionQuit,
	glfw.KeyV:         ActionToggleProfiling,
}

// InputManager tracks keyboard state and maps physical keys to logical actions
type InputManager struct {
	mu sync.RWMutex

	// Key to action mapping (one key can map to multiple actions)
	keyToActions map[glfw.Key][]Action

	// Current frame state (indexed by Action)
	currentState [ActionCount]bool

	// Just pressed/released flags (reset each frame)
	justPressed  [ActionCount]bool
	justReleased [ActionCount]bool
}

// NewInputManager creates a new InputManager with DefaultBindings
func NewInputManager() *InputManager {
	im := &InputManager{
		keyToActions: make(map[glfw.Key][]Action),
	}
	for key, action := range DefaultBindings {
		im.BindKey(key, action)
	}
	return im
}

// BindKey binds a physical key to a logical action
// Multiple keys can be bound to the same action
func (im *InputManager) BindKey(key glfw.Key, action Action) {
	im.mu.Lock()
	defer im.mu.Unlock()

	if action < 0 || action >= ActionCount {
		return
	}

	im.keyToActions[key] = append(im.keyToActions[key], action)
}

// UnbindKey removes all action bindings for a key
func (im *InputManager) UnbindKey(key glfw.Key) {
	im.mu.Lock()
	defer im.mu.Unlock()

	delete(im.keyToActions, key)
}

// HandleKeyEvent processes a key event and updates internal state. Keys
// without a binding are ignored. It reports whether the key was bound.
func (im *InputManager) HandleKeyEvent(key glfw.Key, action glfw.Action) bool {
	im.mu.Lock()
	defer im.mu.Unlock()

	actions, exists := im.keyToActions[key]
	if !exists {
		return false
	}

	isPressed := action == glfw.Press || action == glfw.Repeat
	for _, act := range actions {
		// Detect edges immediately when event arrives
		if isPressed && !im.currentState[act] {
			im.justPressed[act] = true
		}
		if !isPressed && im.currentState[act] {
			im.justReleased[act] = true
		}
		im.currentState[act] = isPressed
	}
	return true
}

// SetKeyCallback sets up the GLFW key callback for this input manager
// This should be called once during initialization
func (im *InputManager) SetKeyCallback(window *glfw.Window) {
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		im.HandleKeyEvent(key, action)
	})
}

// PostUpdate must be called at the end of each frame to reset edge detection
func (im *InputManager) PostUpdate() {
	im.mu.Lock()
	defer im.mu.Unlock()

	clear(im.justPressed[:])
	clear(im.justReleased[:])
}

// Reset releases every action, e.g. when the window loses focus.
func (im *InputManager) Reset() {
	im.mu.Lock()
	defer im.mu.Unlock()

	clear(im.currentState[:])
	clear(im.justPressed[:])
	clear(im.justReleased[:])
}

// IsActive returns true if the action is currently being held down
func (im *InputManager) IsActive(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.currentState[action]
}

// JustPressed returns true only if the action was pressed in the current frame
func (im *InputManager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.justPressed[action]
}

// JustReleased returns true only if the action was released in the current frame
func (im *InputManager) JustReleased(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.justReleased[action]
}
