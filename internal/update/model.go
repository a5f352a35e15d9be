package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/tasklist/internal/logging"
	"github.com/sandeepkv93/tasklist/internal/store"
)

type Mode string

const (
	ModeList    Mode = "list"
	ModeAdd     Mode = "add"
	ModeEdit    Mode = "edit"
	ModeSearch  Mode = "search"
	ModePalette Mode = "palette"
	ModeDrag    Mode = "drag"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type Options struct {
	Glamour bool
	Logger  *log.Logger
}

type Model struct {
	Mode        Mode
	SelectedID  string
	Cursor      int
	HelpVisible bool
	Status      StatusBar
	Quitting    bool
	LastError   error

	store   *store.Store
	ctx     context.Context
	logger  *log.Logger
	glamour bool
	keys    keyMap

	// edit form and drag state
	editingID  string
	noteFocus  bool
	drag       store.Drag
	dragTarget int
	statusSeq  int

	titleInput   textinput.Model
	searchInput  textinput.Model
	commandInput textinput.Model
	noteArea     textarea.Model
	helpModel    help.Model
	detailView   viewport.Model
	width        int
}

type keyMap struct {
	Up, Down         key.Binding
	MoveUp, MoveDown key.Binding
	Add, Edit        key.Binding
	Toggle, Delete   key.Binding
	Search, Palette  key.Binding
	CycleFilter      key.Binding
	FilterAll        key.Binding
	FilterActive     key.Binding
	FilterCompleted  key.Binding
	ClearCompleted   key.Binding
	Pick             key.Binding
	Theme            key.Binding
	Help             key.Binding
	Quit             key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:              key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "select previous")),
		Down:            key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "select next")),
		MoveUp:          key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move item up")),
		MoveDown:        key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move item down")),
		Add:             key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add todo")),
		Edit:            key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit todo")),
		Toggle:          key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space/x", "toggle done")),
		Delete:          key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete todo")),
		Search:          key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Palette:         key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command palette")),
		CycleFilter:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "cycle filter")),
		FilterAll:       key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "show all")),
		FilterActive:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "show active")),
		FilterCompleted: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "show completed")),
		ClearCompleted:  key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear completed")),
		Pick:            key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "pick up / drop item")),
		Theme:           key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle theme")),
		Help:            key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:            key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// statusTTL is how long a non-error status stays on screen.
const statusTTL = 4 * time.Second

type SetStatusMsg struct {
	Text    string
	IsError bool
}

// ClearStatusMsg clears the status bar if no newer status replaced the one
// it was scheduled for.
type ClearStatusMsg struct {
	seq int
}

func NewModel(st *store.Store, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	m := Model{
		Mode:    ModeList,
		store:   st,
		ctx:     context.Background(),
		logger:  logger,
		glamour: opts.Glamour,
		keys:    defaultKeyMap(),
		width:   110,
	}
	m.initBubbleComponents()
	m.syncSelection()
	return m
}

func (m *Model) initBubbleComponents() {
	m.titleInput = textinput.New()
	m.titleInput.Prompt = "title> "
	m.titleInput.Placeholder = "What needs to be done?"
	m.titleInput.CharLimit = 256
	m.titleInput.Width = 48

	m.searchInput = textinput.New()
	m.searchInput.Prompt = "/"
	m.searchInput.Placeholder = "search title or note"
	m.searchInput.CharLimit = 128
	m.searchInput.Width = 48

	m.commandInput = textinput.New()
	m.commandInput.Prompt = ":"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.noteArea = textarea.New()
	m.noteArea.SetWidth(54)
	m.noteArea.SetHeight(5)
	m.noteArea.ShowLineNumbers = false
	m.noteArea.Placeholder = "Note (optional, markdown)"

	m.helpModel = help.New()
	m.detailView = viewport.New(46, 14)
}
