// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MKhiriev/convex-go/convex"
)

var (
	appStyle     = lipgloss.NewStyle().Padding(1, 2)
	titleStyle   = lipgloss.NewStyle().Bold(true)
	helpStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Bold(true)
	doneStyle    = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	cursorMarker = "> "
)

type todoItem struct {
	ID        string `json:"_id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Messages produced by async commands.
type (
	todosUpdated struct {
		todos []todoItem
	}
	streamEnded struct {
		err error
	}
	mutationDone struct {
		err error
	}
	copiedToClipboard struct {
		err error
	}
)

// model is the Bubble Tea model of the demo: a live todo list backed by
// a query subscription, with a text input that fires mutations.
type model struct {
	ctx    context.Context
	client *convex.Client
	sub    *convex.Subscription[[]todoItem]

	todos  []todoItem
	cursor int
	input  textinput.Model
	status string
	errMsg string
}

func newModel(ctx context.Context, client *convex.Client, sub *convex.Subscription[[]todoItem]) *model {
	input := textinput.New()
	input.Placeholder = "new todo"
	input.CharLimit = 120
	input.Width = 40
	input.Focus()

	return &model{
		ctx:    ctx,
		client: client,
		sub:    sub,
		input:  input,
	}
}

// Init implements [tea.Model]. Starts the cursor blink and the first
// wait on the subscription stream.
func (m *model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForUpdate())
}

// waitForUpdate blocks on the subscription until the next value or the
// end of the stream.
func (m *model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		todos, ok := <-m.sub.Updates()
		if !ok {
			return streamEnded{err: m.sub.Err()}
		}
		return todosUpdated{todos: todos}
	}
}

func (m *model) addTodo(text string) tea.Cmd {
	return func() tea.Msg {
		err := convex.MutationVoid(m.ctx, m.client, "todos:add", map[string]any{"text": text})
		return mutationDone{err: err}
	}
}

func (m *model) toggleTodo(id string) tea.Cmd {
	return func() tea.Msg {
		err := convex.MutationVoid(m.ctx, m.client, "todos:toggle", map[string]any{"id": id})
		return mutationDone{err: err}
	}
}

// Update implements [tea.Model].
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case todosUpdated:
		m.todos = msg.todos
		if m.cursor >= len(m.todos) {
			m.cursor = max(0, len(m.todos)-1)
		}
		return m, m.waitForUpdate()

	case streamEnded:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		} else {
			m.status = "subscription closed"
		}
		return m, nil

	case mutationDone:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		} else {
			m.errMsg = ""
		}
		return m, nil

	case copiedToClipboard:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		} else {
			m.status = "copied"
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.sub.Cancel()
		return m, tea.Quit

	case "up", "ctrl+p":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "ctrl+n":
		if m.cursor < len(m.todos)-1 {
			m.cursor++
		}
		return m, nil

	case "ctrl+t":
		if m.cursor < len(m.todos) {
			return m, m.toggleTodo(m.todos[m.cursor].ID)
		}
		return m, nil

	case "ctrl+y":
		if m.cursor < len(m.todos) {
			text := m.todos[m.cursor].Text
			return m, func() tea.Msg {
				return copiedToClipboard{err: clipboard.WriteAll(text)}
			}
		}
		return m, nil

	case "enter":
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		m.input.Reset()
		m.status = ""
		return m, m.addTodo(text)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements [tea.Model].
func (m *model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("todos"))
	b.WriteString("\n\n")

	if len(m.todos) == 0 {
		b.WriteString(helpStyle.Render("nothing yet"))
		b.WriteString("\n")
	}
	for i, todo := range m.todos {
		marker := "  "
		if i == m.cursor {
			marker = cursorMarker
		}
		line := fmt.Sprintf("%s[%s] %s", marker, checkbox(todo.Completed), todo.Text)
		if todo.Completed {
			line = doneStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(helpStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("enter: add • ctrl+t: toggle • ctrl+y: copy • esc: quit"))

	return appStyle.Render(b.String())
}

func checkbox(done bool) string {
	if done {
		return "x"
	}
	return " "
}
