package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on an embedded SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and ensures the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			user_id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			firstname TEXT NOT NULL DEFAULT '',
			lastname TEXT NOT NULL DEFAULT '',
			country TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			password TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS recipe_flags (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			recipe_id INTEGER NOT NULL,
			kind TEXT NOT NULL,
			added_at TEXT NOT NULL,
			UNIQUE (user_id, recipe_id, kind)
		);
		CREATE INDEX IF NOT EXISTS idx_flags_user_kind ON recipe_flags(user_id, kind);

		CREATE TABLE IF NOT EXISTS my_recipes (
			recipe_id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			image TEXT NOT NULL DEFAULT '',
			ready_in_minutes INTEGER NOT NULL DEFAULT 0,
			vegan INTEGER NOT NULL DEFAULT 0,
			vegetarian INTEGER NOT NULL DEFAULT 0,
			gluten_free INTEGER NOT NULL DEFAULT 0,
			number_of_portions INTEGER NOT NULL DEFAULT 1,
			summary TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_my_recipes_user ON my_recipes(user_id);

		CREATE TABLE IF NOT EXISTS family_recipes (
			familyrecipe_id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			family_member TEXT NOT NULL,
			occasion TEXT NOT NULL,
			image TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_family_recipes_user ON family_recipes(user_id);

		CREATE TABLE IF NOT EXISTS recipe_instructions (
			user_id INTEGER NOT NULL,
			recipe_id INTEGER NOT NULL,
			recipe_kind TEXT NOT NULL,
			step_number INTEGER NOT NULL,
			instruction TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_instructions_recipe ON recipe_instructions(user_id, recipe_id, recipe_kind);

		CREATE TABLE IF NOT EXISTS recipe_equipment (
			user_id INTEGER NOT NULL,
			recipe_id INTEGER NOT NULL,
			recipe_kind TEXT NOT NULL,
			step_number INTEGER NOT NULL,
			equipment TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_equipment_recipe ON recipe_equipment(user_id, recipe_id, recipe_kind);

		CREATE TABLE IF NOT EXISTS recipe_ingredients (
			user_id INTEGER NOT NULL,
			recipe_id INTEGER NOT NULL,
			recipe_kind TEXT NOT NULL,
			step_number INTEGER NOT NULL,
			name TEXT NOT NULL,
			amount REAL,
			unit TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_ingredients_recipe ON recipe_ingredients(user_id, recipe_id, recipe_kind);
	`

	if _, err := s.db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return err
	}

	_, err := s.db.Exec(schema)
	return err
}

// CreateUser inserts a new account row and returns its id.
func (s *SQLiteStore) CreateUser(ctx context.Context, u *User) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users (username, firstname, lastname, country, email, password) VALUES (?, ?, ?, ?, ?, ?)",
		u.Username, u.FirstName, u.LastName, u.Country, u.Email, u.PasswordHash,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UserByUsername returns the account with the given username, or nil.
func (s *SQLiteStore) UserByUsername(ctx context.Context, username string) (*User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		"SELECT user_id, username, firstname, lastname, country, email, password FROM users WHERE username = ?",
		username,
	))
}

// UserByID returns the account with the given id, or nil.
func (s *SQLiteStore) UserByID(ctx context.Context, id int64) (*User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		"SELECT user_id, username, firstname, lastname, country, email, password FROM users WHERE user_id = ?",
		id,
	))
}

func (s *SQLiteStore) scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Country, &u.Email, &u.PasswordHash)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// IsFlagged reports whether the (user, recipe, kind) flag exists.
func (s *SQLiteStore) IsFlagged(ctx context.Context, userID, recipeID int64, kind FlagKind) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM recipe_flags WHERE user_id = ? AND recipe_id = ? AND kind = ? LIMIT 1",
		userID, recipeID, kind,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// FlaggedIDs answers batched set membership with a single IN query.
func (s *SQLiteStore) FlaggedIDs(ctx context.Context, userID int64, recipeIDs []int64, kind FlagKind) (map[int64]bool, error) {
	out := make(map[int64]bool, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return out, nil
	}

	placeholders := strings.Repeat("?,", len(recipeIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]interface{}, 0, len(recipeIDs)+2)
	args = append(args, userID, string(kind))
	for _, id := range recipeIDs {
		args = append(args, id)
	}

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT recipe_id FROM recipe_flags WHERE user_id = ? AND kind = ? AND recipe_id IN (%s)", placeholders),
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}

// AddFlag inserts the (user, recipe, kind) flag.
func (s *SQLiteStore) AddFlag(ctx context.Context, userID, recipeID int64, kind FlagKind) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO recipe_flags (user_id, recipe_id, kind, added_at) VALUES (?, ?, ?, ?)",
		userID, recipeID, kind, time.Now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

// RemoveFlag deletes the (user, recipe, kind) flag if present.
func (s *SQLiteStore) RemoveFlag(ctx context.Context, userID, recipeID int64, kind FlagKind) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM recipe_flags WHERE user_id = ? AND recipe_id = ? AND kind = ?",
		userID, recipeID, kind,
	)
	return err
}

// ListFlagged returns all recipe ids the user flagged with kind.
func (s *SQLiteStore) ListFlagged(ctx context.Context, userID int64, kind FlagKind) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT recipe_id FROM recipe_flags WHERE user_id = ? AND kind = ? ORDER BY id",
		userID, kind,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanIDs(rows)
}

// LastViewed returns the most recently viewed recipe ids, newest first.
func (s *SQLiteStore) LastViewed(ctx context.Context, userID int64, limit int) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT recipe_id FROM recipe_flags WHERE user_id = ? AND kind = ? ORDER BY added_at DESC, id DESC LIMIT ?",
		userID, FlagViewed, limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanIDs(rows)
}

func scanIDs(rows *sql.Rows) ([]int64, error) {
	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CreateOwnRecipe inserts the base row and all step rows in one transaction.
func (s *SQLiteStore) CreateOwnRecipe(ctx context.Context, r *OwnRecipe, steps *StepRows) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO my_recipes
			(user_id, title, image, ready_in_minutes, vegan, vegetarian, gluten_free, number_of_portions, summary)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.UserID, r.Title, r.Image, r.ReadyInMinutes,
		boolToInt(r.Vegan), boolToInt(r.Vegetarian), boolToInt(r.GlutenFree),
		r.NumberOfPortions, r.Summary,
	)
	if err != nil {
		return 0, err
	}
	recipeID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if err := insertStepRows(ctx, tx, r.UserID, recipeID, RecipeKindUser, steps); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return recipeID, nil
}

// OwnRecipe returns the user's recipe base row, or nil if it is not theirs.
func (s *SQLiteStore) OwnRecipe(ctx context.Context, userID, recipeID int64) (*OwnRecipe, error) {
	var r OwnRecipe
	var vegan, vegetarian, glutenFree int
	err := s.db.QueryRowContext(ctx,
		`SELECT recipe_id, user_id, title, image, ready_in_minutes, vegan, vegetarian, gluten_free, number_of_portions, summary
		 FROM my_recipes WHERE user_id = ? AND recipe_id = ?`,
		userID, recipeID,
	).Scan(&r.ID, &r.UserID, &r.Title, &r.Image, &r.ReadyInMinutes, &vegan, &vegetarian, &glutenFree, &r.NumberOfPortions, &r.Summary)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.Vegan, r.Vegetarian, r.GlutenFree = vegan != 0, vegetarian != 0, glutenFree != 0
	return &r, nil
}

// ListOwnRecipes returns all of the user's authored recipes.
func (s *SQLiteStore) ListOwnRecipes(ctx context.Context, userID int64) ([]OwnRecipe, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT recipe_id, user_id, title, image, ready_in_minutes, vegan, vegetarian, gluten_free, number_of_portions, summary
		 FROM my_recipes WHERE user_id = ? ORDER BY recipe_id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []OwnRecipe{}
	for rows.Next() {
		var r OwnRecipe
		var vegan, vegetarian, glutenFree int
		if err := rows.Scan(&r.ID, &r.UserID, &r.Title, &r.Image, &r.ReadyInMinutes, &vegan, &vegetarian, &glutenFree, &r.NumberOfPortions, &r.Summary); err != nil {
			return nil, err
		}
		r.Vegan, r.Vegetarian, r.GlutenFree = vegan != 0, vegetarian != 0, glutenFree != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteOwnRecipe removes the base row and its step rows in one transaction.
func (s *SQLiteStore) DeleteOwnRecipe(ctx context.Context, userID, recipeID int64) error {
	return s.deleteRecipe(ctx, userID, recipeID, RecipeKindUser,
		"DELETE FROM my_recipes WHERE user_id = ? AND recipe_id = ?")
}

// CreateFamilyRecipe inserts the base row and all step rows in one transaction.
func (s *SQLiteStore) CreateFamilyRecipe(ctx context.Context, r *FamilyRecipe, steps *StepRows) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO family_recipes (user_id, family_member, occasion, image) VALUES (?, ?, ?, ?)",
		r.UserID, r.FamilyMember, r.Occasion, r.Image,
	)
	if err != nil {
		return 0, err
	}
	recipeID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if err := insertStepRows(ctx, tx, r.UserID, recipeID, RecipeKindFamily, steps); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return recipeID, nil
}

// FamilyRecipe returns the user's family recipe base row, or nil.
func (s *SQLiteStore) FamilyRecipe(ctx context.Context, userID, recipeID int64) (*FamilyRecipe, error) {
	var r FamilyRecipe
	err := s.db.QueryRowContext(ctx,
		"SELECT familyrecipe_id, user_id, family_member, occasion, image FROM family_recipes WHERE user_id = ? AND familyrecipe_id = ?",
		userID, recipeID,
	).Scan(&r.ID, &r.UserID, &r.FamilyMember, &r.Occasion, &r.Image)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListFamilyRecipes returns all of the user's family recipes.
func (s *SQLiteStore) ListFamilyRecipes(ctx context.Context, userID int64) ([]FamilyRecipe, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT familyrecipe_id, user_id, family_member, occasion, image FROM family_recipes WHERE user_id = ? ORDER BY familyrecipe_id",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []FamilyRecipe{}
	for rows.Next() {
		var r FamilyRecipe
		if err := rows.Scan(&r.ID, &r.UserID, &r.FamilyMember, &r.Occasion, &r.Image); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteFamilyRecipe removes the base row and its step rows in one transaction.
func (s *SQLiteStore) DeleteFamilyRecipe(ctx context.Context, userID, recipeID int64) error {
	return s.deleteRecipe(ctx, userID, recipeID, RecipeKindFamily,
		"DELETE FROM family_recipes WHERE user_id = ? AND familyrecipe_id = ?")
}

// PreparationRows loads the three step tables, each ordered by step number.
func (s *SQLiteStore) PreparationRows(ctx context.Context, userID, recipeID int64, kind RecipeKind) (*StepRows, error) {
	out := &StepRows{
		Instructions: []InstructionRow{},
		Equipment:    []EquipmentRow{},
		Ingredients:  []IngredientRow{},
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT step_number, instruction FROM recipe_instructions WHERE user_id = ? AND recipe_id = ? AND recipe_kind = ? ORDER BY step_number",
		userID, recipeID, kind,
	)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var r InstructionRow
		if err := rows.Scan(&r.StepNumber, &r.Instruction); err != nil {
			_ = rows.Close()
			return nil, err
		}
		out.Instructions = append(out.Instructions, r)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx,
		"SELECT step_number, equipment FROM recipe_equipment WHERE user_id = ? AND recipe_id = ? AND recipe_kind = ? ORDER BY step_number",
		userID, recipeID, kind,
	)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var r EquipmentRow
		if err := rows.Scan(&r.StepNumber, &r.Name); err != nil {
			_ = rows.Close()
			return nil, err
		}
		out.Equipment = append(out.Equipment, r)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx,
		"SELECT step_number, name, amount, unit, description FROM recipe_ingredients WHERE user_id = ? AND recipe_id = ? AND recipe_kind = ? ORDER BY step_number",
		userID, recipeID, kind,
	)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var r IngredientRow
		if err := rows.Scan(&r.StepNumber, &r.Name, &r.Amount, &r.Unit, &r.Description); err != nil {
			_ = rows.Close()
			return nil, err
		}
		out.Ingredients = append(out.Ingredients, r)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	return out, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) deleteRecipe(ctx context.Context, userID, recipeID int64, kind RecipeKind, baseDelete string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"recipe_ingredients", "recipe_instructions", "recipe_equipment"} {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE user_id = ? AND recipe_id = ? AND recipe_kind = ?", table),
			userID, recipeID, kind,
		); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, baseDelete, userID, recipeID); err != nil {
		return err
	}

	return tx.Commit()
}

// insertStepRows batch-writes the three step tables inside the caller's
// transaction, one multi-row statement per table.
func insertStepRows(ctx context.Context, tx *sql.Tx, userID, recipeID int64, kind RecipeKind, steps *StepRows) error {
	if steps == nil {
		return nil
	}

	if len(steps.Instructions) > 0 {
		values := make([]string, len(steps.Instructions))
		args := make([]interface{}, 0, len(steps.Instructions)*5)
		for i, r := range steps.Instructions {
			values[i] = "(?, ?, ?, ?, ?)"
			args = append(args, userID, recipeID, kind, r.StepNumber, r.Instruction)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO recipe_instructions (user_id, recipe_id, recipe_kind, step_number, instruction) VALUES "+strings.Join(values, ", "),
			args...,
		); err != nil {
			return err
		}
	}

	if len(steps.Equipment) > 0 {
		values := make([]string, len(steps.Equipment))
		args := make([]interface{}, 0, len(steps.Equipment)*5)
		for i, r := range steps.Equipment {
			values[i] = "(?, ?, ?, ?, ?)"
			args = append(args, userID, recipeID, kind, r.StepNumber, r.Name)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO recipe_equipment (user_id, recipe_id, recipe_kind, step_number, equipment) VALUES "+strings.Join(values, ", "),
			args...,
		); err != nil {
			return err
		}
	}

	if len(steps.Ingredients) > 0 {
		values := make([]string, len(steps.Ingredients))
		args := make([]interface{}, 0, len(steps.Ingredients)*8)
		for i, r := range steps.Ingredients {
			values[i] = "(?, ?, ?, ?, ?, ?, ?, ?)"
			args = append(args, userID, recipeID, kind, r.StepNumber, r.Name, r.Amount, r.Unit, r.Description)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO recipe_ingredients (user_id, recipe_id, recipe_kind, step_number, name, amount, unit, description) VALUES "+strings.Join(values, ", "),
			args...,
		); err != nil {
			return err
		}
	}

	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	return rows.Close()
}
