// Package sqlite implements the storage.Store interface over a local
// SQLite database file. It backs single-node deployments and the handler
// test suite; the Postgres backend is the production default.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/costcraft/recipecost-be/internal/models"
	"github.com/costcraft/recipecost-be/internal/storage"
	sqlite3 "modernc.org/sqlite"
)

// SQLITE_CONSTRAINT_UNIQUE extended result code.
const sqliteConstraintUnique = 2067

// Compile-time interface check: Store must implement storage.Store.
var _ storage.Store = (*Store)(nil)

// Store provides SQLite-backed persistence for users, ingredients, and
// recipes.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the database at path and applies the
// schema. Use ":memory:" for an ephemeral database.
func NewStore(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

// DB exposes the underlying handle. Tests use it to plant legacy rows that
// bypass write-time validation.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS ingredients (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			cost REAL NOT NULL,
			unit TEXT NOT NULL,
			user_id INTEGER NOT NULL,
			UNIQUE (name, user_id)
		);`,
		`CREATE TABLE IF NOT EXISTS recipes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			product_name TEXT NOT NULL,
			ingredients TEXT NOT NULL DEFAULT '[]',
			fixed_costs TEXT NOT NULL DEFAULT '[]',
			total_quantity INTEGER NOT NULL DEFAULT 0,
			profit_margin REAL NOT NULL DEFAULT 0,
			user_id INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS recipes_user_id_idx ON recipes (user_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (models.User, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)`,
		username, passwordHash, now.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, fmt.Errorf("read inserted user id: %w", err)
	}
	return models.User{ID: id, Username: username, PasswordHash: passwordHash, CreatedAt: now}, nil
}

// FindUserByUsername fetches a user by username.
func (s *Store) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE username = ?`, username)
	return scanUser(row)
}

// FindUserByID fetches a user by id.
func (s *Store) FindUserByID(ctx context.Context, id int64) (models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// DeleteUser removes a user together with all owned recipes and
// ingredients in a single transaction.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete user: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM recipes WHERE user_id = ?`, id); err != nil {
		return fmt.Errorf("delete owned recipes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM ingredients WHERE user_id = ?`, id); err != nil {
		return fmt.Errorf("delete owned ingredients: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted user: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return tx.Commit()
}

// CreateIngredient inserts a new ingredient row for its owner.
func (s *Store) CreateIngredient(ctx context.Context, ing models.Ingredient) (models.Ingredient, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO ingredients (name, cost, unit, user_id) VALUES (?, ?, ?, ?)`,
		ing.Name, ing.Cost, ing.Unit, ing.UserID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Ingredient{}, storage.ErrAlreadyExists
		}
		return models.Ingredient{}, err
	}
	ing.ID, err = res.LastInsertId()
	if err != nil {
		return models.Ingredient{}, fmt.Errorf("read inserted ingredient id: %w", err)
	}
	return ing, nil
}

// ListIngredients returns the owner's ingredients ordered by name.
func (s *Store) ListIngredients(ctx context.Context, ownerID int64) ([]models.Ingredient, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, cost, unit, user_id FROM ingredients WHERE user_id = ? ORDER BY name ASC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ingredients := []models.Ingredient{}
	for rows.Next() {
		var ing models.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.Cost, &ing.Unit, &ing.UserID); err != nil {
			return nil, err
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients, rows.Err()
}

// DeleteIngredient removes an owned ingredient by id.
func (s *Store) DeleteIngredient(ctx context.Context, ownerID, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM ingredients WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CreateRecipe inserts a new recipe row for its owner.
func (s *Store) CreateRecipe(ctx context.Context, rec models.Recipe) (models.Recipe, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO recipes (product_name, ingredients, fixed_costs, total_quantity, profit_margin, user_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ProductName,
		string(models.EncodeLineItems(rec.Ingredients)),
		string(models.EncodeLineItems(rec.FixedCosts)),
		rec.TotalQuantity,
		rec.ProfitMargin,
		rec.UserID,
	)
	if err != nil {
		return models.Recipe{}, err
	}
	rec.ID, err = res.LastInsertId()
	if err != nil {
		return models.Recipe{}, fmt.Errorf("read inserted recipe id: %w", err)
	}
	return rec, nil
}

// ListRecipes returns the owner's recipes, most recent first.
func (s *Store) ListRecipes(ctx context.Context, ownerID int64) ([]models.Recipe, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, product_name, ingredients, fixed_costs, total_quantity, profit_margin, user_id
		 FROM recipes WHERE user_id = ? ORDER BY id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := []models.Recipe{}
	for rows.Next() {
		var rec models.Recipe
		var rawIngredients, rawFixedCosts string
		if err := rows.Scan(&rec.ID, &rec.ProductName, &rawIngredients, &rawFixedCosts, &rec.TotalQuantity, &rec.ProfitMargin, &rec.UserID); err != nil {
			return nil, err
		}
		// Legacy rows may hold malformed documents; they decode to nil
		// and render with zeroed totals rather than failing the read path.
		rec.Ingredients, rec.FixedCosts = models.DecodeRecipeLineItems([]byte(rawIngredients), []byte(rawFixedCosts))
		recipes = append(recipes, rec)
	}
	return recipes, rows.Err()
}

// DeleteRecipe removes an owned recipe by id.
func (s *Store) DeleteRecipe(ctx context.Context, ownerID, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM recipes WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (models.User, error) {
	var user models.User
	var createdAt string
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	parsed, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.User{}, fmt.Errorf("parse created_at: %w", err)
	}
	user.CreatedAt = parsed
	return user, nil
}

func isUniqueViolation(err error) bool {
	var serr *sqlite3.Error
	return errors.As(err, &serr) && serr.Code() == sqliteConstraintUnique
}
