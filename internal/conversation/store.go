package conversation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rmehta/loan-advisor/internal/db"
)

// Store provides CRUD operations for conversation turns.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Save inserts a new turn. If turn.ID is empty a UUID is generated; if
// CreatedAt is zero the current UTC time is used.
func (s *Store) Save(ctx context.Context, turn *Turn) error {
	if turn.ID == "" {
		turn.ID = uuid.New().String()
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now().UTC()
	}
	if turn.Params == nil {
		turn.Params = Params{}
	}
	if turn.Context == nil {
		turn.Context = map[string]string{}
	}

	params, err := json.Marshal(turn.Params)
	if err != nil {
		return fmt.Errorf("marshalling parameters: %w", err)
	}
	contextJSON, err := json.Marshal(turn.Context)
	if err != nil {
		return fmt.Errorf("marshalling context: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO turns (
			id, session_id, user_id, user_message, bot_response,
			intent, state_tag, parameters, context,
			name, description, loan_type, last_user_query, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		turn.ID,
		turn.SessionID,
		turn.UserID,
		turn.UserMessage,
		turn.BotResponse,
		turn.Intent,
		turn.StateTag,
		string(params),
		string(contextJSON),
		nullable(turn.Name),
		nullable(turn.Description),
		nullable(turn.LoanType),
		nullable(turn.LastUserQuery),
		turn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting turn: %w", err)
	}
	return nil
}

// GetByID retrieves a single turn. Returns (nil, nil) when no turn exists.
func (s *Store) GetByID(ctx context.Context, id string) (*Turn, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` FROM turns WHERE id = ?`, id)
	turn, err := scanTurn(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return turn, err
}

// LatestBySession returns the most recent turn of a session, or (nil, nil)
// when the session has no turns yet.
func (s *Store) LatestBySession(ctx context.Context, sessionID string) (*Turn, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+`
		FROM turns WHERE session_id = ?
		ORDER BY created_at DESC, id DESC LIMIT 1`, sessionID)
	turn, err := scanTurn(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return turn, err
}

// HistoryBySession returns all turns of a session in chronological order.
func (s *Store) HistoryBySession(ctx context.Context, sessionID string) ([]Turn, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+`
		FROM turns WHERE session_id = ?
		ORDER BY created_at ASC, id ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying session history: %w", err)
	}
	defer rows.Close()

	return collectTurns(rows)
}

// List returns turns across all sessions, newest first, capped at limit.
// A non-positive limit defaults to 100.
func (s *Store) List(ctx context.Context, limit int) ([]Turn, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, selectColumns+`
		FROM turns ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying turns: %w", err)
	}
	defer rows.Close()

	return collectTurns(rows)
}

// Delete removes a turn by ID. Deleting a missing turn is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM turns WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting turn: %w", err)
	}
	return nil
}

const selectColumns = `
	SELECT id, session_id, user_id, user_message, bot_response,
		   intent, state_tag, parameters, context,
		   name, description, loan_type, last_user_query, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTurn(row rowScanner) (*Turn, error) {
	var t Turn
	var params, contextJSON string
	var name, description, loanType, lastQuery sql.NullString

	err := row.Scan(
		&t.ID, &t.SessionID, &t.UserID, &t.UserMessage, &t.BotResponse,
		&t.Intent, &t.StateTag, &params, &contextJSON,
		&name, &description, &loanType, &lastQuery, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(params), &t.Params); err != nil {
		return nil, fmt.Errorf("unmarshalling parameters: %w", err)
	}
	if err := json.Unmarshal([]byte(contextJSON), &t.Context); err != nil {
		return nil, fmt.Errorf("unmarshalling context: %w", err)
	}

	t.Name = name.String
	t.Description = description.String
	t.LoanType = loanType.String
	t.LastUserQuery = lastQuery.String
	return &t, nil
}

func collectTurns(rows *sql.Rows) ([]Turn, error) {
	var turns []Turn
	for rows.Next() {
		t, err := scanTurn(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning turn: %w", err)
		}
		turns = append(turns, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating turns: %w", err)
	}
	return turns, nil
}

func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
