package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hoshinonyaruko/snake-solo/structs"
	_ "github.com/mattn/go-sqlite3"
)

const createSessionsTableSQL = `
CREATE TABLE IF NOT EXISTS Sessions (
    SessionID TEXT PRIMARY KEY,
    MapWidth INTEGER,
    MapHeight INTEGER,
    Snake TEXT,
    Food INTEGER,
    Direction TEXT,
    Score INTEGER,
    Status TEXT,
    Updated TIMESTAMP
);
`

const createSessionsIndexSQL = `
CREATE INDEX IF NOT EXISTS idx_sessions_updated ON Sessions (Updated);
`

// Store keeps one board snapshot per session. It never stores the high
// score.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and makes sure the schema
// exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := InitializeDatabase(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func executeSQL(db *sql.DB, sqlStatement string) error {
	if _, err := db.Exec(sqlStatement); err != nil {
		return fmt.Errorf("executing SQL statement %q: %w", sqlStatement, err)
	}
	return nil
}

func InitializeDatabase(db *sql.DB) error {
	if err := executeSQL(db, createSessionsTableSQL); err != nil {
		return err
	}
	return executeSQL(db, createSessionsIndexSQL)
}

// SaveSnapshot 写入或覆盖会话的快照
func (s *Store) SaveSnapshot(ctx context.Context, id string, state structs.EngineState) error {
	snakeData, err := json.Marshal(state.Snake)
	if err != nil {
		return err
	}

	// 开启事务
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO Sessions (SessionID, MapWidth, MapHeight, Snake, Food, Direction, Score, Status, Updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		id, state.Width, state.Height, string(snakeData), state.Food, string(state.Direction), state.Score, string(state.Status), time.Now().Unix())
	if err != nil {
		tx.Rollback()
		return err
	}
	// 提交事务
	return tx.Commit()
}

// LoadSnapshot 读取会话快照，不存在时found为false
func (s *Store) LoadSnapshot(ctx context.Context, id string) (structs.EngineState, bool, error) {
	var (
		state     structs.EngineState
		snakeData string
		direction string
		status    string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT MapWidth, MapHeight, Snake, Food, Direction, Score, Status FROM Sessions WHERE SessionID = ?", id).Scan(
		&state.Width, &state.Height, &snakeData, &state.Food, &direction, &state.Score, &status,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return structs.EngineState{}, false, nil
	}
	if err != nil {
		return structs.EngineState{}, false, err
	}
	if err := json.Unmarshal([]byte(snakeData), &state.Snake); err != nil {
		return structs.EngineState{}, false, fmt.Errorf("decoding snake of session %s: %w", id, err)
	}
	state.Direction = structs.Direction(direction)
	state.Status = structs.GameStatus(status)
	return state, true, nil
}

// DeleteSnapshot 删除会话快照，不存在时不报错
func (s *Store) DeleteSnapshot(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM Sessions WHERE SessionID = ?", id)
	return err
}

// PruneBefore removes snapshots not updated since t and returns how many
// were removed.
func (s *Store) PruneBefore(ctx context.Context, t time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM Sessions WHERE Updated < ?", t.Unix())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
