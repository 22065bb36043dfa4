package api

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/quicknote/quicknote/internal/apperr"
	"github.com/quicknote/quicknote/internal/noteservice"
)

// Args holds the named arguments of one invoke call, decoded lazily.
type Args map[string]json.RawMessage

// String returns the first of names present in a, which must be a JSON
// string. Front-ends send camelCase or snake_case, so callers list both.
func (a Args) String(names ...string) (string, error) {
	for _, name := range names {
		raw, ok := a[name]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("%w: argument %q must be a string", apperr.ErrInvalidArgument, name)
		}
		return s, nil
	}
	return "", fmt.Errorf("%w: missing argument %q", apperr.ErrInvalidArgument, names[0])
}

// OptionalString is String with a missing argument treated as "".
func (a Args) OptionalString(names ...string) (string, error) {
	for _, name := range names {
		if _, ok := a[name]; ok {
			return a.String(names...)
		}
	}
	return "", nil
}

// CommandFunc handles one named command and returns its JSON-encodable result.
type CommandFunc func(ctx context.Context, args Args) (any, error)

// Commands maps command names to their handlers.
type Commands map[string]CommandFunc

// Names returns the registered command names in sorted order.
func (c Commands) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs the named command.
func (c Commands) Dispatch(ctx context.Context, name string, args Args) (any, error) {
	fn, ok := c[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperr.ErrUnknownCommand, name)
	}
	return fn(ctx, args)
}

// NewCommands builds the command table for the note service.
func NewCommands(svc *noteservice.Service) Commands {
	return Commands{
		"get_settings": func(ctx context.Context, _ Args) (any, error) {
			return svc.GetSettings(ctx)
		},
		"save_settings": func(ctx context.Context, args Args) (any, error) {
			path, err := args.String("path")
			if err != nil {
				return nil, err
			}
			return nil, svc.SaveSettings(ctx, path)
		},
		"read_notes": func(ctx context.Context, args Args) (any, error) {
			path, err := args.String("filePath", "file_path")
			if err != nil {
				return nil, err
			}
			return svc.ReadNotes(ctx, path)
		},
		"search_notes": func(ctx context.Context, args Args) (any, error) {
			path, err := args.String("filePath", "file_path")
			if err != nil {
				return nil, err
			}
			query, err := args.OptionalString("query")
			if err != nil {
				return nil, err
			}
			return svc.SearchNotes(ctx, path, query)
		},
		"open_file": func(ctx context.Context, args Args) (any, error) {
			path, err := args.String("path")
			if err != nil {
				return nil, err
			}
			return nil, svc.OpenFile(ctx, path)
		},
	}
}
