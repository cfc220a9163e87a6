package db

import (
	"database/sql"
	"fmt"
)

// DB represents the database connection
type DB struct {
	*sql.DB
}

// NewDB creates a new database connection
func NewDB(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Create tables if they don't exist
	if err := createTables(db); err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// createTables creates the necessary database tables
func createTables(db *sql.DB) error {
	// Create players table
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS players (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			bankroll INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	// Create transactions table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS transactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player_id TEXT NOT NULL,
			amount INTEGER NOT NULL,
			type TEXT NOT NULL,
			description TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (player_id) REFERENCES players(id)
		)
	`)
	if err != nil {
		return err
	}

	// Create hand history table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS hand_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			table_id TEXT NOT NULL,
			hand_id TEXT,
			line TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_hand_history_table
		ON hand_history (table_id, id)
	`)
	return err
}

// GetPlayerBankroll returns the current bankroll of a player
func (db *DB) GetPlayerBankroll(playerID string) (int64, error) {
	var bankroll int64
	err := db.QueryRow("SELECT bankroll FROM players WHERE id = ?", playerID).Scan(&bankroll)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("player not found")
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get player bankroll: %v", err)
	}
	return bankroll, nil
}

// UpdatePlayerBankroll adjusts a player's bankroll and records the transaction
func (db *DB) UpdatePlayerBankroll(playerID string, amount int64, transactionType, description string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Update player bankroll
	_, err = tx.Exec(`
		INSERT INTO players (id, name, bankroll)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET bankroll = bankroll + ?
	`, playerID, playerID, amount, amount)
	if err != nil {
		return err
	}

	// Record transaction
	_, err = tx.Exec(`
		INSERT INTO transactions (player_id, amount, type, description)
		VALUES (?, ?, ?, ?)
	`, playerID, amount, transactionType, description)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// AppendHandHistory stores one hand-history line for a table
func (db *DB) AppendHandHistory(tableID, handID, line string) error {
	_, err := db.Exec(`
		INSERT INTO hand_history (table_id, hand_id, line)
		VALUES (?, ?, ?)
	`, tableID, handID, line)
	return err
}

// GetHandHistory returns the most recent hand-history lines for a table,
// oldest first
func (db *DB) GetHandHistory(tableID string, limit int) ([]string, error) {
	rows, err := db.Query(`
		SELECT line FROM (
			SELECT id, line FROM hand_history
			WHERE table_id = ?
			ORDER BY id DESC
			LIMIT ?
		) ORDER BY id ASC
	`, tableID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get hand history: %v", err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
