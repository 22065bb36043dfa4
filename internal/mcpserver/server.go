// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes QuickNote operations as tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/quicknote/quicknote/internal/noteservice"
)

const noteFormatURI = "quicknote://note-format"

// settingsResult is the get_settings payload; a nil FilePath encodes as null.
type settingsResult struct {
	FilePath *string `json:"file_path"`
}

// Server wraps the MCP server with QuickNote tools.
type Server struct {
	mcp *server.MCPServer
	svc *noteservice.Service
}

// New creates a new MCP server with all QuickNote tools registered.
func New(svc *noteservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"QuickNote",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_settings",
		mcp.WithDescription("Return the configured note file as JSON {\"file_path\": string|null}; null means none is configured."),
	), s.getSettings)

	s.mcp.AddTool(mcp.NewTool("save_settings",
		mcp.WithDescription("Set the note file QuickNote reads from."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Absolute path to the .txt note file")),
	), s.saveSettings)

	s.mcp.AddTool(mcp.NewTool("read_notes",
		mcp.WithDescription("Parse a note file and return its notes as JSON, newest first. "+
			"Omit file_path to use the configured note file."),
		mcp.WithString("file_path", mcp.Description("Path to the note file")),
	), s.readNotes)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Return notes whose date or content contains the query (case-insensitive), newest first."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Text to look for")),
		mcp.WithString("file_path", mcp.Description("Path to the note file; defaults to the configured one")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("open_file",
		mcp.WithDescription("Open a file with the operating system's default application."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path of the file to open")),
	), s.openFile)

	s.mcp.AddTool(mcp.NewTool("get_note_format",
		mcp.WithDescription("Describe the note file format. Read this before appending notes to the file."),
	), s.getNoteFormat)

	s.mcp.AddResource(
		mcp.NewResource(noteFormatURI, "Note File Format",
			mcp.WithResourceDescription("Plain-text layout of a QuickNote note file."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readNoteFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) getSettings(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := s.svc.GetSettings(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.Marshal(settingsResult{FilePath: path})
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) saveSettings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	saved, err := s.svc.SaveEnteredPath(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("saved: %s", saved)), nil
}

func (s *Server) readNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := s.notePath(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	notes, err := s.svc.ReadNotes(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(notes, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path, err := s.notePath(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	notes, err := s.svc.SearchNotes(ctx, path, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(notes, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) openFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.OpenFile(ctx, path); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("opened: %s", path)), nil
}

func (s *Server) getNoteFormat(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(NoteFormatContract), nil
}

func (s *Server) readNoteFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      noteFormatURI,
			MIMEType: "text/markdown",
			Text:     NoteFormatContract,
		},
	}, nil
}

// notePath returns the file_path argument, falling back to saved settings.
func (s *Server) notePath(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	if p, err := req.RequireString("file_path"); err == nil && p != "" {
		return p, nil
	}
	saved, err := s.svc.GetSettings(ctx)
	if err != nil {
		return "", err
	}
	if saved == nil || *saved == "" {
		return "", fmt.Errorf("no note file configured; pass file_path or call save_settings first")
	}
	return *saved, nil
}
