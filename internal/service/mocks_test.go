package service

import (
	"context"

	"wachat/internal/models"
	"wachat/pkg/provider/types"
)

// mockDB implements Database with overridable behavior per test.
type mockDB struct {
	getActiveLines        func(ctx context.Context) ([]models.Line, error)
	getLine               func(ctx context.Context, uid string) (*models.Line, error)
	getLineWithCredential func(ctx context.Context, uid string) (*models.Line, error)
	listChats             func(ctx context.Context, lineNumber, search string) ([]models.Chat, error)
	getChat               func(ctx context.Context, chatID string) (*models.Chat, error)
	createChat            func(ctx context.Context, chat *models.Chat) error
	setChatLabel          func(ctx context.Context, chatID, label string) error
	resetUnread           func(ctx context.Context, chatID string) error
	updateChatLastMessage func(ctx context.Context, chatID, snapshot string) error
	listContacts          func(ctx context.Context, lineNumber string) ([]models.ContactRow, error)
	listMessages          func(ctx context.Context, chatID string, limit int, beforeID int64) ([]models.Message, error)
	getMessage            func(ctx context.Context, id int64) (*models.Message, error)
	insertMessage         func(ctx context.Context, msg *models.Message) (int64, error)
	deleteMessage         func(ctx context.Context, id int64) error
}

func (m *mockDB) GetActiveLines(ctx context.Context) ([]models.Line, error) {
	if m.getActiveLines != nil {
		return m.getActiveLines(ctx)
	}
	return nil, nil
}

func (m *mockDB) GetLine(ctx context.Context, uid string) (*models.Line, error) {
	if m.getLine != nil {
		return m.getLine(ctx, uid)
	}
	return nil, nil
}

func (m *mockDB) GetLineWithCredential(ctx context.Context, uid string) (*models.Line, error) {
	if m.getLineWithCredential != nil {
		return m.getLineWithCredential(ctx, uid)
	}
	return nil, nil
}

func (m *mockDB) ListChats(ctx context.Context, lineNumber, search string) ([]models.Chat, error) {
	if m.listChats != nil {
		return m.listChats(ctx, lineNumber, search)
	}
	return nil, nil
}

func (m *mockDB) GetChat(ctx context.Context, chatID string) (*models.Chat, error) {
	if m.getChat != nil {
		return m.getChat(ctx, chatID)
	}
	return nil, nil
}

func (m *mockDB) CreateChat(ctx context.Context, chat *models.Chat) error {
	if m.createChat != nil {
		return m.createChat(ctx, chat)
	}
	return nil
}

func (m *mockDB) SetChatLabel(ctx context.Context, chatID, label string) error {
	if m.setChatLabel != nil {
		return m.setChatLabel(ctx, chatID, label)
	}
	return nil
}

func (m *mockDB) ResetUnread(ctx context.Context, chatID string) error {
	if m.resetUnread != nil {
		return m.resetUnread(ctx, chatID)
	}
	return nil
}

func (m *mockDB) UpdateChatLastMessage(ctx context.Context, chatID, snapshot string) error {
	if m.updateChatLastMessage != nil {
		return m.updateChatLastMessage(ctx, chatID, snapshot)
	}
	return nil
}

func (m *mockDB) ListContacts(ctx context.Context, lineNumber string) ([]models.ContactRow, error) {
	if m.listContacts != nil {
		return m.listContacts(ctx, lineNumber)
	}
	return nil, nil
}

func (m *mockDB) ListMessages(ctx context.Context, chatID string, limit int, beforeID int64) ([]models.Message, error) {
	if m.listMessages != nil {
		return m.listMessages(ctx, chatID, limit, beforeID)
	}
	return nil, nil
}

func (m *mockDB) GetMessage(ctx context.Context, id int64) (*models.Message, error) {
	if m.getMessage != nil {
		return m.getMessage(ctx, id)
	}
	return nil, nil
}

func (m *mockDB) InsertMessage(ctx context.Context, msg *models.Message) (int64, error) {
	if m.insertMessage != nil {
		return m.insertMessage(ctx, msg)
	}
	return 1, nil
}

func (m *mockDB) DeleteMessage(ctx context.Context, id int64) error {
	if m.deleteMessage != nil {
		return m.deleteMessage(ctx, id)
	}
	return nil
}

// mockProvider implements provider.Client and records calls.
type mockProvider struct {
	sendResponse *types.SendResponse
	sendRequests []types.SendTextRequest

	deleteErr      error
	deleteRequests []types.DeleteMessageRequest
	deleteCalled   chan types.DeleteMessageRequest
}

func (m *mockProvider) SendText(ctx context.Context, req types.SendTextRequest) *types.SendResponse {
	m.sendRequests = append(m.sendRequests, req)
	if m.sendResponse != nil {
		return m.sendResponse
	}
	return &types.SendResponse{MessageID: "PROVIDER-ID"}
}

func (m *mockProvider) DeleteMessage(ctx context.Context, req types.DeleteMessageRequest) error {
	m.deleteRequests = append(m.deleteRequests, req)
	if m.deleteCalled != nil {
		m.deleteCalled <- req
	}
	return m.deleteErr
}
