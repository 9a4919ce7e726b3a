package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wachat/internal/content"
	"wachat/internal/errors"
	"wachat/internal/models"
	"wachat/internal/validation"
	"wachat/internal/waid"
	"wachat/pkg/provider"
	"wachat/pkg/provider/types"

	"github.com/sirupsen/logrus"
)

// Database is the persistence surface the message service depends on.
type Database interface {
	GetActiveLines(ctx context.Context) ([]models.Line, error)
	GetLine(ctx context.Context, uid string) (*models.Line, error)
	GetLineWithCredential(ctx context.Context, uid string) (*models.Line, error)
	ListChats(ctx context.Context, lineNumber, search string) ([]models.Chat, error)
	GetChat(ctx context.Context, chatID string) (*models.Chat, error)
	CreateChat(ctx context.Context, chat *models.Chat) error
	SetChatLabel(ctx context.Context, chatID, label string) error
	ResetUnread(ctx context.Context, chatID string) error
	UpdateChatLastMessage(ctx context.Context, chatID, snapshot string) error
	ListContacts(ctx context.Context, lineNumber string) ([]models.ContactRow, error)
	ListMessages(ctx context.Context, chatID string, limit int, beforeID int64) ([]models.Message, error)
	GetMessage(ctx context.Context, id int64) (*models.Message, error)
	InsertMessage(ctx context.Context, msg *models.Message) (int64, error)
	DeleteMessage(ctx context.Context, id int64) error
}

// ChatSummary is one chat-list entry, decorated with everything the
// client renders without opening the thread.
type ChatSummary struct {
	models.Chat
	DisplayName string `json:"displayName"`
	Preview     string `json:"preview"`
	IsGroup     bool   `json:"isGroup"`
	Timestamp   int64  `json:"timestamp,omitempty"`
}

// MessageView pairs a stored message row with its normalized content.
type MessageView struct {
	models.Message
	Content models.ParsedMessage `json:"content"`
}

// SendResult is the outcome of one outbound send. Success reflects the
// local record; a provider failure shows up as a nil provider id, not
// as a failed send.
type SendResult struct {
	Success           bool                   `json:"success"`
	ProviderMessageID *string                `json:"providerMessageId"`
	ProviderResponse  map[string]interface{} `json:"providerResponse,omitempty"`
	Message           MessageView            `json:"message"`
}

type MessageService interface {
	ListLines(ctx context.Context) ([]models.Line, error)
	ListChats(ctx context.Context, lineUID, search string) ([]ChatSummary, error)
	ListMessages(ctx context.Context, chatID string, limit int, beforeID int64) ([]MessageView, error)
	SendText(ctx context.Context, lineUID, chatID, text string) (*SendResult, error)
	DeleteMessage(ctx context.Context, id int64) error
	StartChat(ctx context.Context, lineUID, contactNumber, contactName string) (*models.Chat, bool, error)
	RenameChat(ctx context.Context, chatID, label string) error
	MarkRead(ctx context.Context, chatID string) error
	ListContacts(ctx context.Context, lineUID string) ([]models.ContactRow, error)
}

type messageService struct {
	logger     *logrus.Logger
	db         Database
	provider   provider.Client
	contacts   ContactServiceInterface
	normalizer *content.Normalizer
}

func NewMessageService(db Database, providerClient provider.Client, contacts ContactServiceInterface, normalizer *content.Normalizer, logger *logrus.Logger) MessageService {
	if logger == nil {
		logger = logrus.New()
	}
	return &messageService{
		logger:     logger,
		db:         db,
		provider:   providerClient,
		contacts:   contacts,
		normalizer: normalizer,
	}
}

func (s *messageService) ListLines(ctx context.Context) ([]models.Line, error) {
	lines, err := s.db.GetActiveLines(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseQuery, "failed to list lines")
	}
	return lines, nil
}

func (s *messageService) ListChats(ctx context.Context, lineUID, search string) ([]ChatSummary, error) {
	line, err := s.db.GetLine(ctx, lineUID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseQuery, "failed to load line")
	}
	if line == nil {
		return nil, errors.NewNotFoundError("line", "requested")
	}

	chats, err := s.db.ListChats(ctx, line.Number, search)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseQuery, "failed to list chats")
	}

	summaries := make([]ChatSummary, 0, len(chats))
	for i := range chats {
		summaries = append(summaries, s.summarize(ctx, &chats[i]))
	}
	return summaries, nil
}

func (s *messageService) summarize(ctx context.Context, chat *models.Chat) ChatSummary {
	summary := ChatSummary{
		Chat:    *chat,
		IsGroup: waid.IsGroupChat(chat.ChatID),
	}

	var enriched string
	if s.contacts != nil && !summary.IsGroup {
		enriched = s.contacts.GetEnrichedName(ctx, chat.SenderMobile)
	}
	summary.DisplayName = ResolveDisplayName(chat, enriched)

	if chat.LastMessage != nil && *chat.LastMessage != "" {
		var snapshot models.LastMessageSnapshot
		if err := json.Unmarshal([]byte(*chat.LastMessage), &snapshot); err == nil {
			summary.Preview = content.Preview(models.ParsedMessage{
				Kind:        snapshotKind(snapshot.Type),
				TextContent: snapshot.Text,
				Caption:     snapshot.Caption,
			})
			summary.Timestamp = snapshot.Timestamp
		} else {
			// Legacy rows store the raw text instead of a snapshot.
			summary.Preview = content.Preview(models.ParsedMessage{
				Kind:        models.KindText,
				TextContent: *chat.LastMessage,
			})
		}
	}

	return summary
}

func snapshotKind(t string) models.Kind {
	if t == "" {
		return models.KindText
	}
	return models.Kind(t)
}

func (s *messageService) ListMessages(ctx context.Context, chatID string, limit int, beforeID int64) ([]MessageView, error) {
	if err := validation.ValidateChatID(chatID); err != nil {
		return nil, err
	}

	msgs, err := s.db.ListMessages(ctx, chatID, limit, beforeID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseQuery, "failed to list messages")
	}

	views := make([]MessageView, 0, len(msgs))
	for i := range msgs {
		views = append(views, s.view(&msgs[i]))
	}
	return views, nil
}

func (s *messageService) view(msg *models.Message) MessageView {
	parsed := s.normalizer.Parse(msg.RawContent)
	if parsed.QuotedPreview == "" && msg.QuotedContent != nil {
		quoted := s.normalizer.Parse(*msg.QuotedContent)
		parsed.QuotedPreview = content.Preview(quoted)
	}
	return MessageView{Message: *msg, Content: parsed}
}

// SendText delivers one outbound text through the provider and records
// it locally. A provider failure does not abort the local record: the
// row is stored without a provider id and the operator sees the message
// in the thread either way.
func (s *messageService) SendText(ctx context.Context, lineUID, chatID, text string) (*SendResult, error) {
	if err := validation.ValidateChatID(chatID); err != nil {
		return nil, err
	}
	if err := validation.ValidateMessageText(text); err != nil {
		return nil, err
	}

	chat, err := s.db.GetChat(ctx, chatID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseQuery, "failed to load chat")
	}
	if chat == nil {
		return nil, errors.NewNotFoundError("chat", "requested")
	}

	if lineUID == "" {
		lineUID = chat.LineUID
	}
	line, err := s.db.GetLineWithCredential(ctx, lineUID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseQuery, "failed to load line")
	}
	if line == nil {
		return nil, errors.NewNotFoundError("line", "requested")
	}

	_, contactID := waid.Split(chatID)
	resp := s.provider.SendText(ctx, types.SendTextRequest{
		Token: line.Credential,
		From:  line.Number,
		To:    contactID,
		Text:  text,
	})

	var providerMsgID *string
	if resp.Error != "" {
		s.logger.WithFields(logrus.Fields{
			"chatId": MaskChatID(ctx, chatID),
			"error":  resp.Error,
		}).Warn("Provider send failed, recording message without provider id")
	} else if resp.MessageID != "" {
		providerMsgID = &resp.MessageID
	}

	now := time.Now()
	raw, err := json.Marshal(map[string]interface{}{
		"type": "text",
		"text": map[string]string{"body": text},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode message content: %w", err)
	}

	msg := &models.Message{
		ChatID:        chatID,
		LineUID:       lineUID,
		Type:          string(models.KindText),
		Route:         models.RouteOutgoing,
		Status:        models.MessageStatusSent,
		RawContent:    string(raw),
		ProviderMsgID: providerMsgID,
		Timestamp:     now.Unix(),
	}

	id, err := s.db.InsertMessage(ctx, msg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseQuery, "failed to store message")
	}
	msg.ID = id
	msg.CreatedAt = now

	snapshot, err := json.Marshal(models.LastMessageSnapshot{
		Text:      text,
		Type:      string(models.KindText),
		Route:     models.RouteOutgoing,
		Timestamp: now.Unix(),
	})
	if err == nil {
		if err := s.db.UpdateChatLastMessage(ctx, chatID, string(snapshot)); err != nil {
			s.logger.WithError(err).WithField("chatId", MaskChatID(ctx, chatID)).Warn("Failed to update chat preview")
		}
	}

	return &SendResult{
		Success:           true,
		ProviderMessageID: providerMsgID,
		ProviderResponse:  resp.Raw,
		Message:           s.view(msg),
	}, nil
}

// DeleteMessage removes a message locally and, for outbound messages
// the provider acknowledged, first asks the provider to retract it.
// The upstream call is best-effort: its failure is logged and the
// local delete proceeds regardless.
func (s *messageService) DeleteMessage(ctx context.Context, id int64) error {
	msg, err := s.db.GetMessage(ctx, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseQuery, "failed to load message")
	}
	if msg == nil {
		return errors.NewNotFoundError("message", "requested")
	}

	if msg.Route == models.RouteOutgoing && msg.ProviderMsgID != nil && *msg.ProviderMsgID != "" {
		s.retractUpstream(ctx, msg)
	}

	if err := s.db.DeleteMessage(ctx, id); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseQuery, "failed to delete message")
	}
	return nil
}

func (s *messageService) retractUpstream(ctx context.Context, msg *models.Message) {
	line, err := s.db.GetLineWithCredential(ctx, msg.LineUID)
	if err != nil || line == nil {
		s.logger.WithError(err).WithField("lineUid", msg.LineUID).Warn("Cannot resolve line for upstream retraction")
		return
	}

	_, contactID := waid.Split(msg.ChatID)
	chatJID := waid.UserJID(contactID)
	if waid.IsGroupContact(contactID) {
		chatJID = waid.GroupJID(contactID)
	}

	req := types.DeleteMessageRequest{
		Token:     line.Credential,
		From:      line.Number,
		ChatJID:   chatJID,
		MessageID: *msg.ProviderMsgID,
		FromMe:    true,
	}

	if err := s.provider.DeleteMessage(ctx, req); err != nil {
		s.logger.WithError(err).WithField("chatId", MaskChatID(ctx, msg.ChatID)).Warn("Provider retraction failed")
	}
}

// StartChat ensures a chat row exists for a phone number on a line.
// The second return value reports whether the chat already existed.
func (s *messageService) StartChat(ctx context.Context, lineUID, contactNumber, contactName string) (*models.Chat, bool, error) {
	if err := validation.ValidatePhoneNumber(contactNumber); err != nil {
		return nil, false, err
	}

	line, err := s.db.GetLine(ctx, lineUID)
	if err != nil {
		return nil, false, errors.Wrap(err, errors.ErrCodeDatabaseQuery, "failed to load line")
	}
	if line == nil {
		return nil, false, errors.NewNotFoundError("line", "requested")
	}

	cleaned := waid.CleanNumber(contactNumber)
	chatID := waid.ChatID(line.Number, cleaned)

	existing, err := s.db.GetChat(ctx, chatID)
	if err != nil {
		return nil, false, errors.Wrap(err, errors.ErrCodeDatabaseQuery, "failed to load chat")
	}
	if existing != nil {
		return existing, true, nil
	}

	chat := &models.Chat{
		ChatID:       chatID,
		LineUID:      lineUID,
		SenderName:   contactName,
		SenderMobile: cleaned,
		Label:        contactName,
	}
	if chat.SenderName == "" {
		chat.SenderName = cleaned
	}
	if err := s.db.CreateChat(ctx, chat); err != nil {
		return nil, false, errors.Wrap(err, errors.ErrCodeDatabaseQuery, "failed to create chat")
	}

	s.logger.WithField("chatId", MaskChatID(ctx, chatID)).Info("Started new chat")
	return chat, false, nil
}

func (s *messageService) RenameChat(ctx context.Context, chatID, label string) error {
	if err := validation.ValidateChatID(chatID); err != nil {
		return err
	}
	if err := validation.ValidateLabel(label); err != nil {
		return err
	}

	chat, err := s.db.GetChat(ctx, chatID)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseQuery, "failed to load chat")
	}
	if chat == nil {
		return errors.NewNotFoundError("chat", "requested")
	}

	if err := s.db.SetChatLabel(ctx, chatID, label); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseQuery, "failed to set chat label")
	}
	return nil
}

func (s *messageService) MarkRead(ctx context.Context, chatID string) error {
	if err := validation.ValidateChatID(chatID); err != nil {
		return err
	}
	if err := s.db.ResetUnread(ctx, chatID); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseQuery, "failed to reset unread count")
	}
	return nil
}

func (s *messageService) ListContacts(ctx context.Context, lineUID string) ([]models.ContactRow, error) {
	line, err := s.db.GetLine(ctx, lineUID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseQuery, "failed to load line")
	}
	if line == nil {
		return nil, errors.NewNotFoundError("line", "requested")
	}

	contacts, err := s.db.ListContacts(ctx, line.Number)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseQuery, "failed to list contacts")
	}

	for i := range contacts {
		row := &contacts[i]
		chat := &models.Chat{
			SenderName:   row.SenderName,
			SenderMobile: row.SenderMobile,
			Label:        row.Label,
		}
		var enriched string
		if s.contacts != nil {
			enriched = s.contacts.GetEnrichedName(ctx, row.SenderMobile)
		}
		row.DisplayName = ResolveDisplayName(chat, enriched)
	}
	return contacts, nil
}
