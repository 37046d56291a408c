package repository

import (
	"context"

	"granabox/internal/models"

	"github.com/Masterminds/squirrel"
	"go.uber.org/zap"
)

var categoryColumns = []string{"id", "name", "is_default"}

type CategoryRepository struct {
	db     Querier
	logger *zap.Logger
}

func NewCategoryRepository(db Querier, logger *zap.Logger) *CategoryRepository {
	return &CategoryRepository{
		db:     db,
		logger: logger,
	}
}

// WithTx returns a copy of the repository bound to q.
func (r *CategoryRepository) WithTx(q Querier) *CategoryRepository {
	return &CategoryRepository{db: q, logger: r.logger}
}

func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	query := squirrel.Insert("categories").
		Columns("name", "is_default").
		Values(c.Name, c.IsDefault).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	return fail(r.logger, "create category", r.db.QueryRow(ctx, sql, args...).Scan(&c.ID))
}

// CreateIfMissing inserts a category unless one with the same name exists.
// It reports whether a row was inserted.
func (r *CategoryRepository) CreateIfMissing(ctx context.Context, c *models.Category) (bool, error) {
	query := squirrel.Insert("categories").
		Columns("name", "is_default").
		Values(c.Name, c.IsDefault).
		Suffix("ON CONFLICT (name) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return false, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return false, fail(r.logger, "create category if missing", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	return r.getOne(ctx, squirrel.Select(categoryColumns...).
		From("categories").
		Where(squirrel.Eq{"id": id}))
}

// GetByIDForShare reads the category and holds a key-share lock on it until
// the surrounding transaction ends, so it cannot be deleted concurrently.
func (r *CategoryRepository) GetByIDForShare(ctx context.Context, id int64) (*models.Category, error) {
	return r.getOne(ctx, squirrel.Select(categoryColumns...).
		From("categories").
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR KEY SHARE"))
}

// GetByIDForUpdate reads the category and locks it for the rest of the transaction.
func (r *CategoryRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Category, error) {
	return r.getOne(ctx, squirrel.Select(categoryColumns...).
		From("categories").
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE"))
}

func (r *CategoryRepository) getOne(ctx context.Context, query squirrel.SelectBuilder) (*models.Category, error) {
	sql, args, err := query.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	var c models.Category
	err = r.db.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.Name, &c.IsDefault)
	if err != nil {
		return nil, fail(r.logger, "get category", err)
	}
	return &c, nil
}

// List returns all categories ordered by id.
func (r *CategoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	query := squirrel.Select(categoryColumns...).
		From("categories").
		OrderBy("id ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fail(r.logger, "list categories", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.IsDefault); err != nil {
			return nil, fail(r.logger, "list categories", err)
		}
		categories = append(categories, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fail(r.logger, "list categories", err)
	}
	return categories, nil
}

// NameTaken reports whether another category already uses name.
func (r *CategoryRepository) NameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	query := squirrel.Select("1").
		Prefix("SELECT EXISTS (").
		From("categories").
		Where(squirrel.Eq{"name": name}).
		Where(squirrel.NotEq{"id": excludeID}).
		Suffix(")").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return false, err
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fail(r.logger, "check category name", err)
	}
	return exists, nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *models.Category) error {
	query := squirrel.Update("categories").
		Set("name", c.Name).
		Set("is_default", c.IsDefault).
		Where(squirrel.Eq{"id": c.ID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fail(r.logger, "update category", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	query := squirrel.Delete("categories").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fail(r.logger, "delete category", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
