package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/tasklist/internal/model"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeDone   Type = "done"
	TypeRemove Type = "rm"
	TypeEdit   Type = "edit"
	TypeFilter Type = "filter"
	TypeSearch Type = "search"
	TypeClear  Type = "clear"
	TypeMove   Type = "move"
	TypeTheme  Type = "theme"
)

// NoteSeparator splits a title from its note in add and edit.
const NoteSeparator = "|"

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Title string
	Note  string
}

type RefArgs struct {
	Ref string
}

// EditArgs carries a nil Note when the command did not mention one.
type EditArgs struct {
	Ref   string
	Title string
	Note  *string
}

type FilterArgs struct {
	Filter model.Filter
}

type SearchArgs struct {
	Query string
}

// MoveArgs holds 1-based visible positions.
type MoveArgs struct {
	From int
	To   int
}

// ThemeArgs has an empty Theme for a plain toggle.
type ThemeArgs struct {
	Theme model.Theme
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Done   *RefArgs
	Remove *RefArgs
	Edit   *EditArgs
	Filter *FilterArgs
	Search *SearchArgs
	Move   *MoveArgs
	Theme  *ThemeArgs
}

var aliases = map[string]Type{
	"new":    TypeAdd,
	"toggle": TypeDone,
	"x":      TypeDone,
	"delete": TypeRemove,
	"del":    TypeRemove,
	"mv":     TypeMove,
	"f":      TypeFilter,
	"find":   TypeSearch,
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	raw = strings.TrimSpace(strings.TrimLeft(raw, "/:"))
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	head, rest, _ := strings.Cut(raw, " ")
	head = strings.ToLower(head)
	rest = strings.TrimSpace(rest)
	typ := Type(head)
	if alias, ok := aliases[head]; ok {
		typ = alias
	}

	switch typ {
	case TypeAdd:
		return parseAdd(input, rest)
	case TypeDone, TypeRemove:
		return parseRef(input, typ, rest)
	case TypeEdit:
		return parseEdit(input, rest)
	case TypeFilter:
		return parseFilter(input, rest)
	case TypeSearch:
		return Command{Type: TypeSearch, Raw: input, Search: &SearchArgs{Query: rest}}, nil
	case TypeClear:
		return Command{Type: TypeClear, Raw: input}, nil
	case TypeMove:
		return parseMove(input, rest)
	case TypeTheme:
		return parseTheme(input, rest)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func splitNote(s string) (string, string, bool) {
	title, note, ok := strings.Cut(s, NoteSeparator)
	return strings.TrimSpace(title), strings.TrimSpace(note), ok
}

func parseAdd(raw, rest string) (Command, error) {
	title, note, _ := splitNote(rest)
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Title: title, Note: note}}, nil
}

func parseRef(raw string, typ Type, rest string) (Command, error) {
	fields := strings.Fields(rest)
	if len(fields) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires exactly one item reference", typ)}
	}
	args := &RefArgs{Ref: fields[0]}
	cmd := Command{Type: typ, Raw: raw}
	if typ == TypeDone {
		cmd.Done = args
	} else {
		cmd.Remove = args
	}
	return cmd, nil
}

func parseEdit(raw, rest string) (Command, error) {
	ref, body, _ := strings.Cut(rest, " ")
	if ref == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "edit requires an item reference and a title"}
	}
	title, note, hasNote := splitNote(body)
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "edit requires a title"}
	}
	args := &EditArgs{Ref: ref, Title: title}
	if hasNote {
		args.Note = &note
	}
	return Command{Type: TypeEdit, Raw: raw, Edit: args}, nil
}

func parseFilter(raw, rest string) (Command, error) {
	f, err := model.ParseFilter(rest)
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "filter must be all, active or completed"}
	}
	return Command{Type: TypeFilter, Raw: raw, Filter: &FilterArgs{Filter: f}}, nil
}

func parseMove(raw, rest string) (Command, error) {
	fields := strings.Fields(rest)
	if len(fields) != 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "move requires from and to positions"}
	}
	from, errFrom := strconv.Atoi(fields[0])
	to, errTo := strconv.Atoi(fields[1])
	if errFrom != nil || errTo != nil || from < 1 || to < 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "move positions must be positive numbers"}
	}
	return Command{Type: TypeMove, Raw: raw, Move: &MoveArgs{From: from, To: to}}, nil
}

func parseTheme(raw, rest string) (Command, error) {
	if rest == "" {
		return Command{Type: TypeTheme, Raw: raw, Theme: &ThemeArgs{}}, nil
	}
	theme, err := model.ParseTheme(rest)
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "theme must be light or dark"}
	}
	return Command{Type: TypeTheme, Raw: raw, Theme: &ThemeArgs{Theme: theme}}, nil
}
