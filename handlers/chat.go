package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"roofops/nexus"
)

// HandleChatSessionCreate starts a new assistant conversation.
func HandleChatSessionCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req struct {
			Title string `json:"title"`
		}
		if err := e.BindBody(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "invalid request body")
		}
		if req.Title == "" {
			req.Title = "New conversation"
		}

		col, err := app.FindCollectionByNameOrId("chat_sessions")
		if err != nil {
			log.Printf("chat_session_create: %v", err)
			return jsonError(e, http.StatusInternalServerError, "chat sessions unavailable")
		}

		rec := core.NewRecord(col)
		rec.Set("title", req.Title)
		if err := app.Save(rec); err != nil {
			log.Printf("chat_session_create: save: %v", err)
			return jsonError(e, http.StatusInternalServerError, "failed to create session")
		}

		return e.JSON(http.StatusCreated, map[string]any{
			"id":    rec.Id,
			"title": rec.GetString("title"),
		})
	}
}

// HandleChatMessage forwards a user message to the assistant hub and returns
// the reply.
func HandleChatMessage(app *pocketbase.PocketBase, hub *nexus.Hub) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		sessionID := e.Request.PathValue("id")

		var req struct {
			Message string `json:"message"`
		}
		if err := e.BindBody(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "invalid request body")
		}
		if req.Message == "" {
			return jsonFieldErrors(e, []map[string]string{
				{"field": "message", "message": "message is required"},
			})
		}

		reply, err := hub.HandleMessage(e.Request.Context(), app, sessionID, req.Message)
		if err != nil {
			if errors.Is(err, nexus.ErrUnavailable) {
				return jsonError(e, http.StatusServiceUnavailable, err.Error())
			}
			log.Printf("chat_message: %v", err)
			return jsonError(e, http.StatusInternalServerError, "assistant failed to respond")
		}

		return e.JSON(http.StatusOK, map[string]any{"reply": reply})
	}
}

// HandleChatHistory returns the visible transcript for a session.
func HandleChatHistory(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		sessionID := e.Request.PathValue("id")
		if _, err := app.FindRecordById("chat_sessions", sessionID); err != nil {
			return jsonError(e, http.StatusNotFound, "session not found")
		}

		records, err := app.FindRecordsByFilter(
			"chat_messages",
			"session = {:session} && role != 'tool'",
			"created",
			500,
			0,
			map[string]any{"session": sessionID},
		)
		if err != nil {
			log.Printf("chat_history: %v", err)
			return jsonError(e, http.StatusInternalServerError, "failed to load messages")
		}

		messages := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			messages = append(messages, map[string]any{
				"role":    rec.GetString("role"),
				"content": rec.GetString("content"),
				"created": rec.GetDateTime("created").String(),
			})
		}
		return e.JSON(http.StatusOK, map[string]any{"messages": messages})
	}
}
