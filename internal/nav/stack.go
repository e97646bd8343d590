// Package nav tracks the user's position in the folder tree as a
// stack of breadcrumb frames. Frames hold copies of the level's
// children, never references that must outlive a reload; after a
// reload the position is replayed by title path.
package nav

import "github.com/clipgrid/clipgrid/internal/library"

// Frame is one level of breadcrumb history.
type Frame struct {
	Title   string
	Folders []*library.FolderNode
	Items   []string
}

// Stack is the navigation state machine. An empty stack means the
// implicit root: the tree's root folders plus the unassigned set.
type Stack struct {
	root   Frame
	frames []Frame
}

// New returns a stack positioned at the root of the given snapshot.
func New(lib *library.Library) *Stack {
	s := &Stack{}
	s.Reset(lib)
	return s
}

// Reset clears the stack and rebinds the root level to a (new)
// library snapshot.
func (s *Stack) Reset(lib *library.Library) {
	s.frames = nil
	s.root = Frame{
		Folders: lib.Folders,
		Items:   lib.Unassigned,
	}
}

// Enter pushes the given folder; it becomes the current level.
func (s *Stack) Enter(node *library.FolderNode) {
	s.frames = append(s.frames, Frame{
		Title:   node.Title,
		Folders: node.Children,
		Items:   node.Items,
	})
}

// Back pops the top frame if any; at root it is a no-op.
func (s *Stack) Back() {
	if len(s.frames) > 0 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// TruncateTo pops frames until depth levels remain. Depth 0 is root.
func (s *Stack) TruncateTo(depth int) {
	if depth < 0 {
		depth = 0
	}
	if depth < len(s.frames) {
		s.frames = s.frames[:depth]
	}
}

// Current returns the frame whose children are on screen.
func (s *Stack) Current() Frame {
	if len(s.frames) == 0 {
		return s.root
	}
	return s.frames[len(s.frames)-1]
}

// Depth returns the number of entered folders (0 at root).
func (s *Stack) Depth() int {
	return len(s.frames)
}

// Path returns the breadcrumb title path from root to the current
// level. It is the only navigation identity that survives a reload.
func (s *Stack) Path() []string {
	titles := make([]string, 0, len(s.frames))
	for _, frame := range s.frames {
		titles = append(titles, frame.Title)
	}
	return titles
}

// RestoreByPath replays Enter for each title, matching against the
// current level's folders in order. It stops at the first title with
// no match, keeping the prefix that matched.
func (s *Stack) RestoreByPath(titles []string) {
	for _, title := range titles {
		node := findChild(s.Current().Folders, title)
		if node == nil {
			return
		}
		s.Enter(node)
	}
}

func findChild(folders []*library.FolderNode, title string) *library.FolderNode {
	for _, node := range folders {
		if node.Title == title {
			return node
		}
	}
	return nil
}
