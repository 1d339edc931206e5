// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes Notecraftr tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/paniterce/notecraftr/internal/editor"
	"github.com/paniterce/notecraftr/internal/notes"
)

// Server wraps the MCP server with Notecraftr tools.
type Server struct {
	mcp    *server.MCPServer
	editor *editor.Store
	notes  *notes.Store
}

// New creates a new MCP server with all Notecraftr tools registered.
func New(ed *editor.Store, no *notes.Store) *Server {
	s := &Server{editor: ed, notes: no}

	s.mcp = server.NewMCPServer(
		"Notecraftr",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_output",
		mcp.WithDescription("Derive the text output of the active template: "+
			"active sections rendered in order with their prefixes, suffixes and separators."),
	), s.getOutput)

	s.mcp.AddTool(mcp.NewTool("list_templates",
		mcp.WithDescription("List all templates with their ids, titles and which one is active."),
	), s.listTemplates)

	s.mcp.AddTool(mcp.NewTool("set_active_template",
		mcp.WithDescription("Make the template with the given id the single active template."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Template id")),
	), s.setActiveTemplate)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a new sticky note with the given text. "+
			"Date section values inside templates follow the format tokens documented "+
			"by the get_date_format_contract tool or the notecraftr://date-format resource."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Note text")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List all sticky notes with their ids and text."),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("get_date_format_contract",
		mcp.WithDescription("Returns the date format token mini-language used by date sections."),
	), s.getDateFormatContract)

	// Resource: date format contract.
	s.mcp.AddResource(
		mcp.NewResource("notecraftr://date-format", "Date Format Contract",
			mcp.WithResourceDescription("Token mini-language for date section formats."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readDateFormatResource,
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

func (s *Server) getOutput(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state := s.editor.State()
	if editor.ActiveTemplate(state) == nil {
		return mcp.NewToolResultError("no active template"), nil
	}
	return mcp.NewToolResultText(editor.Output(state)), nil
}

type templateSummary struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Active   bool   `json:"active"`
	Sections int    `json:"sections"`
}

func (s *Server) listTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state := s.editor.State()
	summaries := make([]templateSummary, 0, len(state.Templates))
	for _, t := range state.Templates {
		summaries = append(summaries, templateSummary{
			ID:       t.ID,
			Title:    t.Title,
			Active:   t.Active,
			Sections: len(t.Sections),
		})
	}
	out, _ := json.MarshalIndent(summaries, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) setActiveTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	state := s.editor.State()
	found := false
	for _, t := range state.Templates {
		if t.ID == id {
			found = true
			s.editor.Dispatch(editor.SetActiveTemplate{Template: t})
			break
		}
	}
	if !found {
		return mcp.NewToolResultError(fmt.Sprintf("template not found: %d", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("active template: %d", id)), nil
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	state := s.notes.Dispatch(notes.AddNote{})
	note := state.Notes[len(state.Notes)-1]
	note.Text = text
	s.notes.Dispatch(notes.UpdateNote{Note: note})

	return mcp.NewToolResultText(fmt.Sprintf("created note %d", note.ID)), nil
}

type noteSummary struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state := s.notes.State()
	summaries := make([]noteSummary, 0, len(state.Notes))
	for _, n := range state.Notes {
		summaries = append(summaries, noteSummary{ID: n.ID, Text: n.Text})
	}
	out, _ := json.MarshalIndent(summaries, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getDateFormatContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(DateFormatContract), nil
}

func (s *Server) readDateFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "notecraftr://date-format",
			MIMEType: "text/markdown",
			Text:     DateFormatContract,
		},
	}, nil
}
