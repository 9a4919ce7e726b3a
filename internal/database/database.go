package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"wachat/internal/migrations"
	"wachat/internal/models"
	"wachat/internal/security"

	_ "github.com/mattn/go-sqlite3"
)

// Database owns the relational store: lines (instances + users), chats
// and the conversation log. It carries no business logic beyond basic
// filtering and pagination.
type Database struct {
	db *sql.DB
}

func New(dbPath string) (*Database, error) {
	if err := security.ValidateFilePath(dbPath); err != nil {
		return nil, fmt.Errorf("invalid database path: %w", err)
	}

	file, err := os.OpenFile(dbPath, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create database file: %w", err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("failed to close database file: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to ping database: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	schema, err := migrations.GetInitialSchema()
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to read schema: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to initialize schema: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Database{db: db}, nil
}

// NewWithDB wraps an existing connection; used by tests.
func NewWithDB(db *sql.DB) *Database {
	return &Database{db: db}
}

func (d *Database) Close() error {
	return d.db.Close()
}

// Line operations

func (d *Database) GetActiveLines(ctx context.Context) ([]models.Line, error) {
	rows, err := d.db.QueryContext(ctx, SelectActiveLinesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query active lines: %w", err)
	}
	defer rows.Close()

	var lines []models.Line
	for rows.Next() {
		var line models.Line
		var title sql.NullString
		if err := rows.Scan(&line.UID, &line.Number, &title, &line.Status, &line.Credential); err != nil {
			return nil, fmt.Errorf("failed to scan line: %w", err)
		}
		line.Title = title.String
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lines: %w", err)
	}

	return lines, nil
}

func (d *Database) GetLine(ctx context.Context, uid string) (*models.Line, error) {
	var line models.Line
	var title sql.NullString

	err := d.db.QueryRowContext(ctx, SelectLineQuery, uid).Scan(&line.UID, &line.Number, &title, &line.Status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get line: %w", err)
	}

	line.Title = title.String
	return &line, nil
}

// GetLineWithCredential resolves a line together with its provider API
// key, used by the send and delete paths.
func (d *Database) GetLineWithCredential(ctx context.Context, uid string) (*models.Line, error) {
	var line models.Line
	var title sql.NullString

	err := d.db.QueryRowContext(ctx, SelectLineWithCredentialQuery, uid).Scan(
		&line.UID, &line.Number, &title, &line.Status, &line.Credential)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get line credential: %w", err)
	}

	line.Title = title.String
	return &line, nil
}

// UpsertLine inserts or replaces a line and its credential; used by the
// migrate tool for seeding.
func (d *Database) UpsertLine(ctx context.Context, line *models.Line) error {
	if _, err := d.db.ExecContext(ctx, UpsertInstanceQuery, line.UID, line.Number, line.Title, line.Status); err != nil {
		return fmt.Errorf("failed to upsert instance: %w", err)
	}
	if _, err := d.db.ExecContext(ctx, UpsertUserQuery, line.UID, line.Credential); err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// Chat operations

func (d *Database) ListChats(ctx context.Context, lineNumber, search string) ([]models.Chat, error) {
	var rows *sql.Rows
	var err error

	prefix := lineNumber + "_%"
	if search != "" {
		pattern := "%" + search + "%"
		rows, err = d.db.QueryContext(ctx, SelectChatsWithSearchQuery, prefix, pattern, pattern, pattern)
	} else {
		rows, err = d.db.QueryContext(ctx, SelectChatsQuery, prefix)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}
	defer rows.Close()

	var chats []models.Chat
	for rows.Next() {
		chat, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		chats = append(chats, *chat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chats: %w", err)
	}

	return chats, nil
}

func (d *Database) GetChat(ctx context.Context, chatID string) (*models.Chat, error) {
	row := d.db.QueryRowContext(ctx, SelectChatQuery, chatID)

	chat, err := scanChat(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return chat, nil
}

func (d *Database) CreateChat(ctx context.Context, chat *models.Chat) error {
	_, err := d.db.ExecContext(ctx, InsertChatQuery,
		chat.ChatID, chat.LineUID, chat.SenderName, chat.SenderMobile,
		nullable(chat.Label), chat.UnreadCount)
	if err != nil {
		return fmt.Errorf("failed to create chat: %w", err)
	}
	return nil
}

// SetChatLabel stores the user-assigned override name; an empty label
// clears it.
func (d *Database) SetChatLabel(ctx context.Context, chatID, label string) error {
	if _, err := d.db.ExecContext(ctx, UpdateChatLabelQuery, nullable(label), chatID); err != nil {
		return fmt.Errorf("failed to set chat label: %w", err)
	}
	return nil
}

func (d *Database) ResetUnread(ctx context.Context, chatID string) error {
	if _, err := d.db.ExecContext(ctx, ResetUnreadQuery, chatID); err != nil {
		return fmt.Errorf("failed to reset unread count: %w", err)
	}
	return nil
}

// UpdateChatLastMessage refreshes the denormalized last-message
// snapshot and bumps the chat to the top of the list.
func (d *Database) UpdateChatLastMessage(ctx context.Context, chatID, snapshot string) error {
	if _, err := d.db.ExecContext(ctx, UpdateChatLastMessageQuery, snapshot, chatID); err != nil {
		return fmt.Errorf("failed to update last message: %w", err)
	}
	return nil
}

func (d *Database) ListContacts(ctx context.Context, lineNumber string) ([]models.ContactRow, error) {
	rows, err := d.db.QueryContext(ctx, SelectContactsQuery, lineNumber+"_%")
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	var contacts []models.ContactRow
	for rows.Next() {
		var c models.ContactRow
		var name, mobile, label sql.NullString
		if err := rows.Scan(&name, &mobile, &label, &c.ChatID); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		c.SenderName = name.String
		c.SenderMobile = mobile.String
		c.Label = label.String
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contacts: %w", err)
	}

	return contacts, nil
}

// Message operations

// ListMessages returns up to limit messages of a chat, oldest first.
// beforeID > 0 restricts the page to ids strictly below the cursor.
func (d *Database) ListMessages(ctx context.Context, chatID string, limit int, beforeID int64) ([]models.Message, error) {
	var rows *sql.Rows
	var err error

	if beforeID > 0 {
		rows, err = d.db.QueryContext(ctx, SelectMessagesBeforeQuery, chatID, beforeID, limit)
	} else {
		rows, err = d.db.QueryContext(ctx, SelectMessagesQuery, chatID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	// The query pages newest-first; flip to chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

func (d *Database) GetMessage(ctx context.Context, id int64) (*models.Message, error) {
	row := d.db.QueryRowContext(ctx, SelectMessageQuery, id)

	msg, err := scanMessage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (d *Database) InsertMessage(ctx context.Context, msg *models.Message) (int64, error) {
	result, err := d.db.ExecContext(ctx, InsertMessageQuery,
		msg.ChatID, msg.LineUID, msg.Type, msg.Route, msg.Status,
		msg.RawContent, msg.ProviderMsgID, msg.QuotedContent, msg.Reaction, msg.Timestamp)
	if err != nil {
		return 0, fmt.Errorf("failed to insert message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted message id: %w", err)
	}
	return id, nil
}

func (d *Database) DeleteMessage(ctx context.Context, id int64) error {
	if _, err := d.db.ExecContext(ctx, DeleteMessageQuery, id); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanChat(s scanner) (*models.Chat, error) {
	var chat models.Chat
	var lineUID, senderName, senderMobile, label, lastMessage sql.NullString

	err := s.Scan(&chat.ChatID, &lineUID, &senderName, &senderMobile,
		&label, &lastMessage, &chat.UnreadCount, &chat.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan chat: %w", err)
	}

	chat.LineUID = lineUID.String
	chat.SenderName = senderName.String
	chat.SenderMobile = senderMobile.String
	chat.Label = label.String
	if lastMessage.Valid {
		chat.LastMessage = &lastMessage.String
	}
	return &chat, nil
}

func scanMessage(s scanner) (*models.Message, error) {
	var msg models.Message
	var lineUID, content sql.NullString
	var providerMsgID, quoted, reaction sql.NullString
	var timestamp sql.NullInt64

	err := s.Scan(&msg.ID, &msg.ChatID, &lineUID, &msg.Type, &msg.Route, &msg.Status,
		&content, &providerMsgID, &quoted, &reaction, &timestamp, &msg.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan message: %w", err)
	}

	msg.LineUID = lineUID.String
	msg.RawContent = content.String
	if providerMsgID.Valid {
		msg.ProviderMsgID = &providerMsgID.String
	}
	if quoted.Valid {
		msg.QuotedContent = &quoted.String
	}
	if reaction.Valid {
		msg.Reaction = &reaction.String
	}
	msg.Timestamp = timestamp.Int64
	return &msg, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
