// Package tool_memory exposes the long-term memory store to the backend as
// tools: facts are upserted, notes are appended and searched.
package tool_memory

import (
	"context"
	"fmt"
	"time"

	"github.com/marubot/maru/src/agent"
	"github.com/marubot/maru/src/memory"
)

// Tool name constants
const (
	SaveFactName    = "save_fact"
	GetFactsName    = "get_facts"
	SaveNoteName    = "save_note"
	SearchNotesName = "search_notes"
)

const saveFactPrompt = `Save a durable fact about the user as a key/value pair. Saving the same key again updates the value. Use for stable information like name, preferences, or recurring schedules.`

const getFactsPrompt = `List all facts stored about the user, most recently updated first.`

const saveNotePrompt = `Save an important note with optional tags so it can be found later. Notes are append-only.`

const searchNotesPrompt = `Search saved notes by a content substring or by a tag substring. With neither, returns the most recent notes.`

// SaveFactInput represents the parameters for save_fact
type SaveFactInput struct {
	UserID string `json:"user_id,omitempty" description:"Overrides the conversation's user; normally omitted"`
	Key    string `json:"key" required:"true" description:"Fact key, e.g. 'name' or 'timezone'"`
	Value  string `json:"value" required:"true" description:"Fact value"`
}

// SaveFactOutput represents the response from save_fact
type SaveFactOutput struct {
	Status string `json:"status" description:"Result of the save"`
}

// GetFactsInput represents the parameters for get_facts
type GetFactsInput struct {
	UserID string `json:"user_id,omitempty" description:"Overrides the conversation's user; normally omitted"`
}

// FactEntry is one stored fact.
type FactEntry struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetFactsOutput represents the response from get_facts
type GetFactsOutput struct {
	Facts []FactEntry `json:"facts"`
}

// SaveNoteInput represents the parameters for save_note
type SaveNoteInput struct {
	UserID  string   `json:"user_id,omitempty" description:"Overrides the conversation's user; normally omitted"`
	Content string   `json:"content" required:"true" description:"Note content"`
	Tags    []string `json:"tags,omitempty" description:"Optional tags for later search"`
}

// SaveNoteOutput represents the response from save_note
type SaveNoteOutput struct {
	Status string `json:"status" description:"Result of the save"`
}

// SearchNotesInput represents the parameters for search_notes
type SearchNotesInput struct {
	UserID string `json:"user_id,omitempty" description:"Overrides the conversation's user; normally omitted"`
	Query  string `json:"query,omitempty" description:"Content substring to match"`
	Tag    string `json:"tag,omitempty" description:"Tag substring to match; takes precedence over query"`
}

// NoteEntry is one stored note.
type NoteEntry struct {
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// SearchNotesOutput represents the response from search_notes
type SearchNotesOutput struct {
	Notes []NoteEntry `json:"notes"`
	Total int         `json:"total"`
}

// Tools returns all memory tools bound to ltm.
func Tools(ltm *memory.LongTermMemory) ([]agent.Tool, error) {
	saveFact, err := agent.NewGenericTool(SaveFactName, saveFactPrompt, makeSaveFactHandler(ltm))
	if err != nil {
		return nil, err
	}
	getFacts, err := agent.NewGenericTool(GetFactsName, getFactsPrompt, makeGetFactsHandler(ltm))
	if err != nil {
		return nil, err
	}
	saveNote, err := agent.NewGenericTool(SaveNoteName, saveNotePrompt, makeSaveNoteHandler(ltm))
	if err != nil {
		return nil, err
	}
	searchNotes, err := agent.NewGenericTool(SearchNotesName, searchNotesPrompt, makeSearchNotesHandler(ltm))
	if err != nil {
		return nil, err
	}
	return []agent.Tool{saveFact, getFacts, saveNote, searchNotes}, nil
}

// resolveUserID prefers an explicit input value over the id bound to the
// exchange's context.
func resolveUserID(ctx context.Context, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if userID := memory.UserIDFromContext(ctx); userID != "" {
		return userID, nil
	}
	return "", fmt.Errorf("no user bound to this exchange")
}

func makeSaveFactHandler(ltm *memory.LongTermMemory) func(ctx context.Context, input SaveFactInput) (SaveFactOutput, error) {
	return func(ctx context.Context, input SaveFactInput) (SaveFactOutput, error) {
		userID, err := resolveUserID(ctx, input.UserID)
		if err != nil {
			return SaveFactOutput{}, err
		}
		if input.Key == "" {
			return SaveFactOutput{}, fmt.Errorf("key is required")
		}
		if err := ltm.SaveFact(ctx, userID, input.Key, input.Value); err != nil {
			return SaveFactOutput{}, fmt.Errorf("failed to save fact: %w", err)
		}
		return SaveFactOutput{Status: fmt.Sprintf("saved fact %q", input.Key)}, nil
	}
}

func makeGetFactsHandler(ltm *memory.LongTermMemory) func(ctx context.Context, input GetFactsInput) (GetFactsOutput, error) {
	return func(ctx context.Context, input GetFactsInput) (GetFactsOutput, error) {
		userID, err := resolveUserID(ctx, input.UserID)
		if err != nil {
			return GetFactsOutput{}, err
		}
		facts, err := ltm.GetFacts(ctx, userID)
		if err != nil {
			return GetFactsOutput{}, fmt.Errorf("failed to list facts: %w", err)
		}
		out := GetFactsOutput{Facts: make([]FactEntry, 0, len(facts))}
		for _, f := range facts {
			out.Facts = append(out.Facts, FactEntry{Key: f.Key, Value: f.Value, UpdatedAt: f.UpdatedAt})
		}
		return out, nil
	}
}

func makeSaveNoteHandler(ltm *memory.LongTermMemory) func(ctx context.Context, input SaveNoteInput) (SaveNoteOutput, error) {
	return func(ctx context.Context, input SaveNoteInput) (SaveNoteOutput, error) {
		userID, err := resolveUserID(ctx, input.UserID)
		if err != nil {
			return SaveNoteOutput{}, err
		}
		if input.Content == "" {
			return SaveNoteOutput{}, fmt.Errorf("content is required")
		}
		if err := ltm.SaveNote(ctx, userID, input.Content, input.Tags); err != nil {
			return SaveNoteOutput{}, fmt.Errorf("failed to save note: %w", err)
		}
		return SaveNoteOutput{Status: "note saved"}, nil
	}
}

func makeSearchNotesHandler(ltm *memory.LongTermMemory) func(ctx context.Context, input SearchNotesInput) (SearchNotesOutput, error) {
	return func(ctx context.Context, input SearchNotesInput) (SearchNotesOutput, error) {
		userID, err := resolveUserID(ctx, input.UserID)
		if err != nil {
			return SearchNotesOutput{}, err
		}
		notes, err := ltm.SearchNotes(ctx, userID, input.Query, input.Tag)
		if err != nil {
			return SearchNotesOutput{}, fmt.Errorf("failed to search notes: %w", err)
		}
		out := SearchNotesOutput{Notes: make([]NoteEntry, 0, len(notes)), Total: len(notes)}
		for _, n := range notes {
			out.Notes = append(out.Notes, NoteEntry{
				Content:   n.Content,
				Tags:      []string(n.Tags),
				CreatedAt: n.CreatedAt,
			})
		}
		return out, nil
	}
}
