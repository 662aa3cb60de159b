package config

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type field struct {
	name    string
	preview string
	input   textinput.Model
}

func (f *field) activate() tea.Cmd {
	f.input.Cursor.Style = focusedStyle
	f.input.TextStyle = focusedStyle
	f.input.PromptStyle = focusedStyle
	f.input.Placeholder = f.preview
	return f.input.Focus()
}

func (f *field) deactivate() {
	f.input.Cursor.Style = noStyle
	f.input.TextStyle = noStyle
	f.input.PromptStyle = noStyle
	f.input.Placeholder = ""
	f.input.Blur()
}

// Model edits a flattened config map one key at a time.
type Model struct {
	cursor int
	fields []field
	conf   map[string]interface{}
	err    error
}

func (m *Model) Init() tea.Cmd {
	return m.fields[0].activate()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch message := msg.(type) {
	case tea.KeyMsg:
		currentField := &m.fields[m.cursor]
		switch message.Type {
		case tea.KeyEsc, tea.KeyBreak:
			currentField.deactivate()
			m.err = ErrUserAborted
			return m, tea.Quit
		case tea.KeyEnter:
			currentField.deactivate()
			if err := m.updateConfigWithFieldInput(currentField); err != nil {
				m.err = err
				return m, tea.Quit
			}
			if m.cursor == len(m.fields)-1 {
				return m, tea.Quit
			}
			m.cursor++
			nextField := &m.fields[m.cursor]
			return m, nextField.activate()
		case tea.KeyTab:
			currentField.input.SetValue(currentField.input.Placeholder)
		}
	}
	return m, m.updateInput(msg)
}

func (m *Model) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(title) + "\n")
	for _, f := range m.fields {
		if f.input.Focused() {
			sb.WriteString(focusedStyle.Render("> "))
		}
		sb.WriteString(f.name + ": " + f.input.View() + "\n")
	}
	sb.WriteString(helpStyle.Render(helpMessage))
	return sb.String()
}

// updateConfigWithFieldInput converts the raw input back to the type already held by the
// config map, so that the map can be decoded into a Config again. Empty input keeps the
// current value of scalar fields and clears slices.
func (m *Model) updateConfigWithFieldInput(f *field) error {
	value := f.input.Value()
	current := m.conf[f.name]
	if current == nil {
		m.conf[f.name] = value
		return nil
	}
	kind := reflect.TypeOf(current).Kind()
	if value == "" && kind != reflect.Slice {
		return nil
	}
	switch kind {
	case reflect.Slice:
		if value == "" {
			m.conf[f.name] = make([]string, 0)
			return nil
		}
		m.conf[f.name] = strings.Split(value, ",")
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("error parsing boolean for field %s: %w", f.name, err)
		}
		m.conf[f.name] = b
	case reflect.Int, reflect.Int64, reflect.Float64:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("error parsing integer for field %s: %w", f.name, err)
		}
		m.conf[f.name] = i
	case reflect.String:
		if isDuration(current.(string)) {
			if _, err := time.ParseDuration(value); err != nil {
				return fmt.Errorf("error parsing duration for field %s: %w", f.name, err)
			}
		}
		m.conf[f.name] = value
	default:
		m.conf[f.name] = value
	}
	return nil
}

func (m *Model) updateInput(msg tea.Msg) tea.Cmd {
	commands := make([]tea.Cmd, len(m.fields))
	for i := range m.fields {
		m.fields[i].input, commands[i] = m.fields[i].input.Update(msg)
	}
	return tea.Batch(commands...)
}

func (m *Model) Err() error {
	return m.err
}

func (m *Model) Config() map[string]interface{} {
	return m.conf
}

func NewTeaProgram(conf map[string]interface{}, opts ...tea.ProgramOption) *tea.Program {
	keys := make([]string, 0, len(conf))
	for k := range conf {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	m := Model{
		fields: make([]field, 0, len(conf)),
		conf:   conf,
	}
	for _, key := range keys {
		m.fields = append(m.fields, field{
			name:    key,
			preview: previewValue(conf[key]),
			input:   defaultTextInput(),
		})
	}
	return tea.NewProgram(&m, opts...)
}

func previewValue(value interface{}) string {
	if value == nil {
		return ""
	}
	v := reflect.ValueOf(value)
	if v.Kind() != reflect.Slice {
		return fmt.Sprintf("%v", value)
	}
	items := make([]string, v.Len())
	for i := range items {
		items[i] = fmt.Sprintf("%v", v.Index(i).Interface())
	}
	return strings.Join(items, ",")
}

// isDuration reports whether s looks like a go duration such as 5s or 1m30s.
func isDuration(s string) bool {
	if s == "" || s[0] < '0' || s[0] > '9' {
		return false
	}
	_, err := time.ParseDuration(s)
	return err == nil
}

const (
	title       = "searchclick configuration"
	helpMessage = "\n—— TAB autocomplete —— ENTER confirm —— ESC abort ——\n"
)

var (
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#6200EE",
		Dark:  "#BB86FC",
	})
	noStyle        = lipgloss.NewStyle()
	titleStyle     = lipgloss.NewStyle().Bold(true)
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	ErrUserAborted = errors.New("user aborted")
)

func defaultTextInput() textinput.Model {
	m := textinput.New()
	m.Prompt = ""
	return m
}
