// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package zipaura

// NavigationState is a snapshot of the current folder and back history.
type NavigationState struct {
	// CurrentPath is normalized folder path; root is "".
	CurrentPath string `json:"current_path" yaml:"current_path"`
	// History holds previously visited folders, oldest first.
	History []string `json:"history,omitempty" yaml:"history,omitempty"`
}

// Navigator tracks the current virtual folder and a back-navigation stack.
// It does not check folder existence; callers validate targets against entries.
// Navigator is not safe for concurrent use.
type Navigator struct {
	current string
	history []string
}

// NewNavigator returns navigator positioned at root with empty history.
func NewNavigator() *Navigator {
	return &Navigator{}
}

// Current returns current folder path.
func (n *Navigator) Current() string {
	return n.current
}

// History returns a copy of the back stack, oldest first.
func (n *Navigator) History() []string {
	out := make([]string, len(n.history))
	copy(out, n.history)
	return out
}

// Depth returns number of back steps available.
func (n *Navigator) Depth() int {
	return len(n.history)
}

// State returns a snapshot of navigation state.
func (n *Navigator) State() NavigationState {
	return NavigationState{CurrentPath: n.current, History: n.History()}
}

// Descend moves into child folder name of the current folder and returns new path.
func (n *Navigator) Descend(name string) string {
	return n.Jump(JoinPath(n.current, name))
}

// Jump moves to an arbitrary folder, remembering the current one.
// Jumping to the current folder changes nothing.
func (n *Navigator) Jump(p string) string {
	p = NormalizePath(p)
	if p == n.current {
		return n.current
	}

	n.history = append(n.history, n.current)
	n.current = p
	return n.current
}

// Up moves to the parent folder; at root it reports false.
func (n *Navigator) Up() bool {
	if n.current == "" {
		return false
	}

	n.Jump(ParentPath(n.current))
	return true
}

// Back returns to the previously visited folder.
func (n *Navigator) Back() (string, error) {
	if len(n.history) == 0 {
		return n.current, ErrHistoryEmpty
	}

	last := len(n.history) - 1
	n.current = n.history[last]
	n.history = n.history[:last]
	return n.current, nil
}

// Reset moves to root and clears history.
func (n *Navigator) Reset() {
	n.current = ""
	n.history = n.history[:0]
}

// retarget maps current folder and every history element through resolve.
// Repeated neighbours collapse and history never ends with the current folder.
func (n *Navigator) retarget(resolve func(string) string) {
	n.current = NormalizePath(resolve(n.current))

	kept := n.history[:0]
	for _, p := range n.history {
		p = NormalizePath(resolve(p))
		if len(kept) > 0 && kept[len(kept)-1] == p {
			continue
		}
		kept = append(kept, p)
	}

	for len(kept) > 0 && kept[len(kept)-1] == n.current {
		kept = kept[:len(kept)-1]
	}

	n.history = kept
}
