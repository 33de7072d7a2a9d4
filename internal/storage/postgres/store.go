package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/costcraft/recipecost-be/internal/models"
	"github.com/costcraft/recipecost-be/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

// Store provides Postgres-backed persistence for users, ingredients, and
// recipes.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store and runs migrations.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS ingredients (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			cost DOUBLE PRECISION NOT NULL,
			unit TEXT NOT NULL,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ingredients_name_user_unique_idx ON ingredients (name, user_id);`,
		`CREATE TABLE IF NOT EXISTS recipes (
			id BIGSERIAL PRIMARY KEY,
			product_name TEXT NOT NULL,
			ingredients JSONB NOT NULL DEFAULT '[]',
			fixed_costs JSONB NOT NULL DEFAULT '[]',
			total_quantity INTEGER NOT NULL DEFAULT 0,
			profit_margin DOUBLE PRECISION NOT NULL DEFAULT 0,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS recipes_user_id_idx ON recipes (user_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (models.User, error) {
	const query = `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, username, password_hash, created_at;
		`
	row := s.pool.QueryRow(ctx, query, username, passwordHash)
	user, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return user, nil
}

// FindUserByUsername fetches a user by username.
func (s *Store) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	const query = `SELECT id, username, password_hash, created_at FROM users WHERE username = $1;`
	return scanUser(s.pool.QueryRow(ctx, query, username))
}

// FindUserByID fetches a user by id.
func (s *Store) FindUserByID(ctx context.Context, id int64) (models.User, error) {
	const query = `SELECT id, username, password_hash, created_at FROM users WHERE id = $1;`
	return scanUser(s.pool.QueryRow(ctx, query, id))
}

// DeleteUser removes a user together with all owned recipes and
// ingredients. The deletes run in one transaction so a failure cannot
// leave orphaned rows behind.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete user: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM recipes WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("delete owned recipes: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM ingredients WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("delete owned ingredients: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return tx.Commit(ctx)
}

// CreateIngredient inserts a new ingredient row for its owner.
func (s *Store) CreateIngredient(ctx context.Context, ing models.Ingredient) (models.Ingredient, error) {
	const query = `
		INSERT INTO ingredients (name, cost, unit, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id;
		`
	err := s.pool.QueryRow(ctx, query, ing.Name, ing.Cost, ing.Unit, ing.UserID).Scan(&ing.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Ingredient{}, storage.ErrAlreadyExists
		}
		return models.Ingredient{}, err
	}
	return ing, nil
}

// ListIngredients returns the owner's ingredients ordered by name.
func (s *Store) ListIngredients(ctx context.Context, ownerID int64) ([]models.Ingredient, error) {
	const query = `
		SELECT id, name, cost, unit, user_id
		FROM ingredients
		WHERE user_id = $1
		ORDER BY name ASC;
		`
	rows, err := s.pool.Query(ctx, query, ownerID)
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
	tag, err := s.pool.Exec(ctx, `DELETE FROM ingredients WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CreateRecipe inserts a new recipe row for its owner.
func (s *Store) CreateRecipe(ctx context.Context, rec models.Recipe) (models.Recipe, error) {
	const query = `
		INSERT INTO recipes (product_name, ingredients, fixed_costs, total_quantity, profit_margin, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id;
		`
	err := s.pool.QueryRow(ctx, query,
		rec.ProductName,
		models.EncodeLineItems(rec.Ingredients),
		models.EncodeLineItems(rec.FixedCosts),
		rec.TotalQuantity,
		rec.ProfitMargin,
		rec.UserID,
	).Scan(&rec.ID)
	if err != nil {
		return models.Recipe{}, err
	}
	return rec, nil
}

// ListRecipes returns the owner's recipes, most recent first.
func (s *Store) ListRecipes(ctx context.Context, ownerID int64) ([]models.Recipe, error) {
	const query = `
		SELECT id, product_name, ingredients, fixed_costs, total_quantity, profit_margin, user_id
		FROM recipes
		WHERE user_id = $1
		ORDER BY id DESC;
		`
	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := []models.Recipe{}
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, rec)
	}
	return recipes, rows.Err()
}

// DeleteRecipe removes an owned recipe by id.
func (s *Store) DeleteRecipe(ctx context.Context, ownerID, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM recipes WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func scanRecipe(rows pgx.Rows) (models.Recipe, error) {
	var rec models.Recipe
	var rawIngredients, rawFixedCosts []byte
	if err := rows.Scan(&rec.ID, &rec.ProductName, &rawIngredients, &rawFixedCosts, &rec.TotalQuantity, &rec.ProfitMargin, &rec.UserID); err != nil {
		return models.Recipe{}, err
	}
	// Legacy rows may hold malformed documents; they decode to nil and
	// render with zeroed totals rather than failing the read path.
	rec.Ingredients, rec.FixedCosts = models.DecodeRecipeLineItems(rawIngredients, rawFixedCosts)
	return rec, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
