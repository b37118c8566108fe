// Package tui renders the login and dashboard screens in a terminal.
package tui

import tea "github.com/charmbracelet/bubbletea"

// Screen is one entry of the navigation stack.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View() string
	Title() string
}

// ScreenStack is the navigation stack. The top screen receives input.
type ScreenStack struct {
	items []Screen
}

func (s *ScreenStack) Push(screen Screen) {
	if screen == nil {
		return
	}
	s.items = append(s.items, screen)
}

func (s *ScreenStack) Pop() Screen {
	if len(s.items) == 0 {
		return nil
	}
	last := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return last
}

// Replace swaps the top screen for screen, terminating the old one.
func (s *ScreenStack) Replace(screen Screen) {
	if screen == nil {
		return
	}
	if len(s.items) == 0 {
		s.items = append(s.items, screen)
		return
	}
	s.items[len(s.items)-1] = screen
}

func (s ScreenStack) Top() Screen {
	if len(s.items) == 0 {
		return nil
	}
	return s.items[len(s.items)-1]
}

func (s ScreenStack) Len() int {
	return len(s.items)
}

// NavigateMsg replaces the top screen.
type NavigateMsg struct {
	Screen Screen
}

func navigate(screen Screen) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Screen: screen} }
}
