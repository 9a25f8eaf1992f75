package http

import (
	"errors"
	"net/http"
	"sync/atomic"

	applog "finview/internal/log"
	"finview/internal/services"
)

// handleChat answers POST /api/chat.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	body, resp := ParseChatBody(w, r, s.maxBodyBytes)
	if resp != nil {
		atomic.AddInt64(&s.appMetrics.chatRejected, 1)
		resp.Write(w)
		return
	}

	ctx := r.Context()
	req := services.ChatRequest{
		Message: body.Message,
		UserID:  s.identity.UserID(r, body.UserID),
	}

	reply, err := s.chat.Chat(ctx, req)
	switch {
	case errors.Is(err, services.ErrMessageRequired):
		atomic.AddInt64(&s.appMetrics.chatRejected, 1)
		BadRequestError(msgMessageRequired).Write(w)
	case err != nil:
		atomic.AddInt64(&s.appMetrics.chatFailures, 1)
		applog.NewStructuredLogger(applog.FromContext(ctx).WithComponent(applog.ComponentChat)).
			LogError(ctx, "Chat request failed", err, applog.OpReply,
				applog.NewFields().WithChat(req.UserID, "", false, len(req.Message)))
		ChatFailureError().Write(w)
	default:
		atomic.AddInt64(&s.appMetrics.chatReplies, 1)
		NewJSONResponse().Body(reply).Write(w)
	}
}

// handleTest answers GET /api/test so clients can check the API is up.
func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	NewJSONResponse().
		Body(map[string]string{"message": "FinView AI Chat API is running!"}).
		Write(w)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	NotFoundError().Write(w)
}
