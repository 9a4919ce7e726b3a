package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"wachat/internal/constants"
	"wachat/internal/errors"
	"wachat/internal/httputil"
	"wachat/internal/metrics"
	"wachat/internal/tracing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// handleMetrics returns current application metrics
func (s *Server) handleMetrics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(metrics.GetAllMetrics()); err != nil {
			s.logger.WithError(err).Error("Failed to encode metrics response")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	}
}

func (s *Server) handleLogin() http.HandlerFunc {
	type loginRequest struct {
		Password string `json:"password"`
	}
	type loginResponse struct {
		Token string `json:"token"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		token, err := s.auth.Login(req.Password)
		if err != nil {
			s.logger.WithField("remote_ip", httputil.GetClientIP(r)).Warn("Failed login attempt")
			metrics.IncrementCounter("login_failures_total", nil, "Failed login attempts")
			s.writeServiceError(w, r, err)
			return
		}

		metrics.IncrementCounter("login_success_total", nil, "Successful logins")
		httputil.WriteJSON(w, http.StatusOK, loginResponse{Token: token})
	}
}

func (s *Server) handleListLines() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lines, err := s.msgService.ListLines(r.Context())
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, lines)
	}
}

func (s *Server) handleListChats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lineUID := mux.Vars(r)["lineUid"]
		search := r.URL.Query().Get("search")

		chats, err := s.msgService.ListChats(r.Context(), lineUID, search)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, chats)
	}
}

func (s *Server) handleListMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID := mux.Vars(r)["chatId"]

		limit := constants.DefaultMessagePageSize
		if v := r.URL.Query().Get("limit"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil || parsed <= 0 {
				httputil.WriteError(w, http.StatusBadRequest, "invalid limit")
				return
			}
			limit = parsed
		}
		if limit > constants.MaxMessagePageSize {
			limit = constants.MaxMessagePageSize
		}

		var beforeID int64
		if v := r.URL.Query().Get("before"); v != "" {
			parsed, err := strconv.ParseInt(v, 10, 64)
			if err != nil || parsed <= 0 {
				httputil.WriteError(w, http.StatusBadRequest, "invalid before cursor")
				return
			}
			beforeID = parsed
		}

		msgs, err := s.msgService.ListMessages(r.Context(), chatID, limit, beforeID)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, msgs)
	}
}

func (s *Server) handleSend() http.HandlerFunc {
	type sendRequest struct {
		LineUID string `json:"lineUid"`
		ChatID  string `json:"chatId"`
		Text    string `json:"text"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req sendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		result, err := s.msgService.SendText(r.Context(), req.LineUID, req.ChatID, req.Text)
		if err != nil {
			metrics.IncrementCounter("messages_send_errors_total", nil, "Failed outbound sends")
			s.writeServiceError(w, r, err)
			return
		}

		metrics.IncrementCounter("messages_sent_total", nil, "Outbound messages sent")
		httputil.WriteJSON(w, http.StatusOK, result)
	}
}

func (s *Server) handleDeleteMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "invalid message id")
			return
		}

		if err := s.msgService.DeleteMessage(r.Context(), id); err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		metrics.IncrementCounter("messages_deleted_total", nil, "Messages deleted")
		httputil.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func (s *Server) handleRenameChat() http.HandlerFunc {
	type renameRequest struct {
		ChatID string `json:"chatId"`
		Label  string `json:"label"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req renameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := s.msgService.RenameChat(r.Context(), req.ChatID, req.Label); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func (s *Server) handleMarkRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID := mux.Vars(r)["chatId"]

		if err := s.msgService.MarkRead(r.Context(), chatID); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func (s *Server) handleStartChat() http.HandlerFunc {
	type startChatRequest struct {
		LineUID       string `json:"lineUid"`
		ContactNumber string `json:"contactNumber"`
		ContactName   string `json:"contactName"`
	}
	type startChatResponse struct {
		Success  bool   `json:"success"`
		ChatID   string `json:"chatId"`
		Existing bool   `json:"existing"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req startChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		chat, existing, err := s.msgService.StartChat(r.Context(), req.LineUID, req.ContactNumber, req.ContactName)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, startChatResponse{
			Success:  true,
			ChatID:   chat.ChatID,
			Existing: existing,
		})
	}
}

func (s *Server) handleListContacts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lineUID := mux.Vars(r)["lineUid"]

		contacts, err := s.msgService.ListContacts(r.Context(), lineUID)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, contacts)
	}
}

// writeServiceError maps an application error to its HTTP status and
// the client's {"error": msg} convention.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatusCode(err)

	entry := s.logger.WithFields(logrus.Fields{
		"request_id": tracing.GetRequestID(r.Context()),
		"error_code": string(errors.GetCode(err)),
		"path":       r.URL.Path,
	})
	if status >= 500 {
		tracing.RecordError(r.Context(), err)
		entry.WithError(err).Error("Request failed")
		httputil.WriteError(w, status, "internal server error")
		return
	}

	entry.WithError(err).Debug("Request rejected")
	httputil.WriteError(w, status, err.Error())
}
