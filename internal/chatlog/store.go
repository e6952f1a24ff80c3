package chatlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	_ "modernc.org/sqlite"
)

// sessionGap is the silence that splits a chat into conversation segments
// at import time.
const sessionGap = 30 * time.Minute

const schema = `
CREATE TABLE IF NOT EXISTS chats (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	message_count INTEGER NOT NULL,
	start_ts      INTEGER NOT NULL,
	end_ts        INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS messages (
	chat_id       TEXT NOT NULL,
	id            TEXT NOT NULL,
	seq           INTEGER NOT NULL,
	session_id    INTEGER NOT NULL,
	sender_id     TEXT NOT NULL,
	sender_name   TEXT NOT NULL,
	aliases       TEXT,
	avatar_ref    TEXT,
	content       TEXT NOT NULL,
	ts            INTEGER NOT NULL,
	kind          TEXT NOT NULL,
	reply_target  TEXT,
	reply_preview TEXT,
	reply_sender  TEXT,
	PRIMARY KEY (chat_id, id)
);
CREATE INDEX IF NOT EXISTS messages_chat_seq ON messages(chat_id, seq);
CREATE INDEX IF NOT EXISTS messages_chat_session ON messages(chat_id, session_id);
CREATE TABLE IF NOT EXISTS sessions (
	chat_id          TEXT NOT NULL,
	id               INTEGER NOT NULL,
	start_ts         INTEGER NOT NULL,
	end_ts           INTEGER NOT NULL,
	message_count    INTEGER NOT NULL,
	first_message_id TEXT NOT NULL,
	PRIMARY KEY (chat_id, id)
);
`

// Store is the sqlite-backed chat archive.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) an archive for reading and writing.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// OpenReadOnly opens an existing archive read-only.
func OpenReadOnly(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ImportMessages replaces the stored messages of a chat. Messages are
// sorted by timestamp, numbered, and segmented into sessions with the
// 30-minute gap rule inside one transaction.
func (s *Store) ImportMessages(ctx context.Context, chat Chat, msgs []Message) error {
	if len(msgs) == 0 {
		return fmt.Errorf("import %s: no messages", chat.ID)
	}
	sorted := make([]Message, len(msgs))
	copy(sorted, msgs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM messages WHERE chat_id = ?",
		"DELETE FROM sessions WHERE chat_id = ?",
		"DELETE FROM chats WHERE id = ?",
	} {
		if _, err := tx.ExecContext(ctx, stmt, chat.ID); err != nil {
			return err
		}
	}

	insertMsg, err := tx.PrepareContext(ctx, `INSERT INTO messages
		(chat_id, id, seq, session_id, sender_id, sender_name, aliases, avatar_ref,
		 content, ts, kind, reply_target, reply_preview, reply_sender)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insertMsg.Close()

	type segment struct {
		id      int64
		start   time.Time
		end     time.Time
		count   int
		firstID string
	}
	var segs []segment
	cur := segment{id: 1, start: sorted[0].Timestamp, firstID: sorted[0].ID}

	for seq, m := range sorted {
		if m.ID == "" {
			return fmt.Errorf("import %s: message %d has no id", chat.ID, seq)
		}
		if seq > 0 && m.Timestamp.Sub(sorted[seq-1].Timestamp) >= sessionGap {
			segs = append(segs, cur)
			cur = segment{id: cur.id + 1, start: m.Timestamp, firstID: m.ID}
		}
		cur.end = m.Timestamp
		cur.count++

		var aliases []byte
		if len(m.Aliases) > 0 {
			aliases, err = json.Marshal(m.Aliases)
			if err != nil {
				return err
			}
		}
		var replyTarget, replyPreview, replySender sql.NullString
		if m.Reply != nil {
			replyTarget = sql.NullString{String: m.Reply.TargetID, Valid: true}
			replyPreview = sql.NullString{String: m.Reply.Preview, Valid: true}
			replySender = sql.NullString{String: m.Reply.Sender, Valid: true}
		}
		kind := m.Kind
		if kind == "" {
			kind = KindText
		}
		if _, err := insertMsg.ExecContext(ctx,
			chat.ID, m.ID, seq, cur.id, m.SenderID, m.SenderName,
			nullableString(string(aliases)), nullableString(m.AvatarRef),
			m.Content, m.Timestamp.UnixMilli(), string(kind),
			replyTarget, replyPreview, replySender,
		); err != nil {
			return fmt.Errorf("insert message %s: %w", m.ID, err)
		}
	}
	segs = append(segs, cur)

	for _, seg := range segs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO sessions
			(chat_id, id, start_ts, end_ts, message_count, first_message_id)
			VALUES (?, ?, ?, ?, ?, ?)`,
			chat.ID, seg.id, seg.start.UnixMilli(), seg.end.UnixMilli(),
			seg.count, seg.firstID,
		); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO chats
		(id, name, message_count, start_ts, end_ts) VALUES (?, ?, ?, ?, ?)`,
		chat.ID, chat.Name, len(sorted),
		sorted[0].Timestamp.UnixMilli(), sorted[len(sorted)-1].Timestamp.UnixMilli(),
	); err != nil {
		return err
	}

	return tx.Commit()
}

// Chats lists the archive's conversations, most recently active first.
func (s *Store) Chats(ctx context.Context) ([]Chat, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, message_count, start_ts, end_ts FROM chats ORDER BY end_ts DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []Chat
	for rows.Next() {
		var c Chat
		var start, end int64
		if err := rows.Scan(&c.ID, &c.Name, &c.MessageCount, &start, &end); err != nil {
			return nil, err
		}
		c.StartTs = time.UnixMilli(start).UTC()
		c.EndTs = time.UnixMilli(end).UTC()
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

const messageColumns = `id, sender_id, sender_name, aliases, avatar_ref,
	content, ts, kind, reply_target, reply_preview, reply_sender`

// Messages returns all of a chat's messages in chronological order.
func (s *Store) Messages(ctx context.Context, chatID string) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+messageColumns+" FROM messages WHERE chat_id = ? ORDER BY seq", chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

// SessionMessages returns the messages of one conversation segment.
func (s *Store) SessionMessages(ctx context.Context, chatID string, sessionID int64) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+messageColumns+" FROM messages WHERE chat_id = ? AND session_id = ? ORDER BY seq",
		chatID, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

// Sessions lists a chat's conversation segments in chronological order.
func (s *Store) Sessions(ctx context.Context, chatID string) ([]SessionInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, start_ts, end_ts, message_count,
		first_message_id FROM sessions WHERE chat_id = ? ORDER BY id`, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []SessionInfo
	for rows.Next() {
		var info SessionInfo
		var start, end int64
		if err := rows.Scan(&info.ID, &start, &end, &info.MessageCount, &info.FirstMessageID); err != nil {
			return nil, err
		}
		info.StartTs = time.UnixMilli(start).UTC()
		info.EndTs = time.UnixMilli(end).UTC()
		sessions = append(sessions, info)
	}
	return sessions, rows.Err()
}

// Members aggregates per-sender stats for a chat.
func (s *Store) Members(ctx context.Context, chatID string) ([]MemberStats, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT sender_id, sender_name,
		COUNT(*), MIN(ts), MAX(ts)
		FROM messages WHERE chat_id = ?
		GROUP BY sender_id ORDER BY COUNT(*) DESC`, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []MemberStats
	for rows.Next() {
		var m MemberStats
		var first, last int64
		if err := rows.Scan(&m.ID, &m.Name, &m.MessageCount, &first, &last); err != nil {
			return nil, err
		}
		m.FirstTs = time.UnixMilli(first).UTC()
		m.LastTs = time.UnixMilli(last).UTC()
		members = append(members, m)
	}
	return members, rows.Err()
}

// TimeRange returns the chat's overall message span, or nil for an
// unknown or empty chat.
func (s *Store) TimeRange(ctx context.Context, chatID string) (*TimeRange, error) {
	var start, end sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT MIN(ts), MAX(ts) FROM messages WHERE chat_id = ?", chatID).
		Scan(&start, &end)
	if err != nil {
		return nil, err
	}
	if !start.Valid {
		return nil, nil
	}
	return &TimeRange{
		Start: time.UnixMilli(start.Int64).UTC(),
		End:   time.UnixMilli(end.Int64).UTC(),
	}, nil
}

func scanMessages(rows *sql.Rows) ([]Message, error) {
	var msgs []Message
	for rows.Next() {
		var m Message
		var aliases, avatar sql.NullString
		var ts int64
		var kind string
		var replyTarget, replyPreview, replySender sql.NullString
		if err := rows.Scan(&m.ID, &m.SenderID, &m.SenderName, &aliases, &avatar,
			&m.Content, &ts, &kind, &replyTarget, &replyPreview, &replySender); err != nil {
			return nil, err
		}
		if aliases.Valid && aliases.String != "" {
			if err := json.Unmarshal([]byte(aliases.String), &m.Aliases); err != nil {
				return nil, fmt.Errorf("decode aliases for %s: %w", m.ID, err)
			}
		}
		m.AvatarRef = avatar.String
		m.Timestamp = time.UnixMilli(ts).UTC()
		m.Kind = Kind(kind)
		if replyTarget.Valid {
			m.Reply = &ReplyRef{
				TargetID: replyTarget.String,
				Preview:  replyPreview.String,
				Sender:   replySender.String,
			}
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func nullableString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
