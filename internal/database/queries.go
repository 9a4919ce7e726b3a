package database

// Line queries
const (
	SelectActiveLinesQuery = `
		SELECT i.uid, i.number, i.title, i.status, u.api_key
		FROM instances i
		JOIN users u ON i.uid = u.uid
		WHERE i.number IS NOT NULL AND i.number != '' AND UPPER(i.status) = 'ACTIVE'
	`

	SelectLineQuery = `
		SELECT uid, number, title, status
		FROM instances
		WHERE uid = ?
	`

	SelectLineWithCredentialQuery = `
		SELECT i.uid, i.number, i.title, i.status, u.api_key
		FROM instances i
		JOIN users u ON i.uid = u.uid
		WHERE i.uid = ?
	`

	UpsertInstanceQuery = `
		INSERT OR REPLACE INTO instances (uid, number, title, status)
		VALUES (?, ?, ?, ?)
	`

	UpsertUserQuery = `
		INSERT OR REPLACE INTO users (uid, api_key)
		VALUES (?, ?)
	`
)

// Chat queries
const (
	selectChatColumns = `chat_id, line_uid, sender_name, sender_mobile, chat_label, last_message, unread_count, updated_at`

	SelectChatsQuery = `
		SELECT ` + selectChatColumns + `
		FROM chats
		WHERE chat_id LIKE ?
		ORDER BY updated_at DESC
	`

	SelectChatsWithSearchQuery = `
		SELECT ` + selectChatColumns + `
		FROM chats
		WHERE chat_id LIKE ? AND (sender_name LIKE ? OR sender_mobile LIKE ? OR chat_label LIKE ?)
		ORDER BY updated_at DESC
	`

	SelectChatQuery = `
		SELECT ` + selectChatColumns + `
		FROM chats
		WHERE chat_id = ?
	`

	InsertChatQuery = `
		INSERT INTO chats (chat_id, line_uid, sender_name, sender_mobile, chat_label, unread_count, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`

	UpdateChatLabelQuery = `
		UPDATE chats SET chat_label = ? WHERE chat_id = ?
	`

	ResetUnreadQuery = `
		UPDATE chats SET unread_count = 0 WHERE chat_id = ?
	`

	UpdateChatLastMessageQuery = `
		UPDATE chats SET last_message = ?, updated_at = CURRENT_TIMESTAMP WHERE chat_id = ?
	`

	SelectContactsQuery = `
		SELECT DISTINCT sender_name, sender_mobile, chat_label, chat_id
		FROM chats
		WHERE chat_id LIKE ?
		ORDER BY sender_name
	`
)

// Message queries
const (
	selectMessageColumns = `id, chat_id, line_uid, type, route, status, content, provider_msg_id, quoted_content, reaction, timestamp, created_at`

	SelectMessagesQuery = `
		SELECT ` + selectMessageColumns + `
		FROM messages
		WHERE chat_id = ?
		ORDER BY id DESC
		LIMIT ?
	`

	SelectMessagesBeforeQuery = `
		SELECT ` + selectMessageColumns + `
		FROM messages
		WHERE chat_id = ? AND id < ?
		ORDER BY id DESC
		LIMIT ?
	`

	SelectMessageQuery = `
		SELECT ` + selectMessageColumns + `
		FROM messages
		WHERE id = ?
	`

	InsertMessageQuery = `
		INSERT INTO messages (chat_id, line_uid, type, route, status, content, provider_msg_id, quoted_content, reaction, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	DeleteMessageQuery = `
		DELETE FROM messages WHERE id = ?
	`
)
