package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"bookheaven-backend/internal/domains/shelf/model"
	"bookheaven-backend/internal/querybuilder"
	"bookheaven-backend/pkg/database"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresShelfRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresShelfRepository(pool *pgxpool.Pool) ShelfRepository {
	return &postgresShelfRepository{pool: pool}
}

// =====================================================
// FETCH SHELVES WITH ITEMS
// =====================================================

func (r *postgresShelfRepository) FetchShelvesWithItems(ctx context.Context, ownerID string, names []string) ([]model.Shelf, error) {
	conditions := []string{"s.owner_id = $1"}
	args := []interface{}{ownerID}
	if len(names) > 0 {
		conditions = append(conditions, "s.name = ANY($2)")
		args = append(args, pq.Array(names))
	}

	query := fmt.Sprintf(`
		SELECT
			s.id::text, s.owner_id::text, s.name, s.is_public, s.description,
			s.like_count, s.created_at, s.updated_at,
			i.work_id::text, i.edition_id::text, i.notes, i.added_at
		FROM shelves s
		LEFT JOIN shelf_items i ON i.shelf_id = s.id
		WHERE %s
		ORDER BY s.created_at, s.name, i.added_at
	`, strings.Join(conditions, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shelves: %w", err)
	}
	defer rows.Close()

	shelves := querybuilder.NewFolder[string, model.Shelf]()
	for rows.Next() {
		var (
			s         model.Shelf
			workID    *string
			editionID *string
			notes     *string
			addedAt   *time.Time
		)
		if err := rows.Scan(
			&s.ID, &s.OwnerID, &s.Name, &s.IsPublic, &s.Description,
			&s.LikeCount, &s.CreatedAt, &s.UpdatedAt,
			&workID, &editionID, &notes, &addedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan shelf: %w", err)
		}

		shelf := shelves.Upsert(s.ID, func() model.Shelf {
			s.Items = []model.ShelfItem{}
			return s
		})
		if workID != nil {
			item := model.ShelfItem{ShelfID: s.ID, WorkID: *workID, EditionID: editionID, Notes: notes}
			if addedAt != nil {
				item.AddedAt = *addedAt
			}
			shelf.Items = append(shelf.Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shelves: %w", err)
	}

	return shelves.Values(), nil
}

// =====================================================
// UPSERT / DELETE SHELF
// =====================================================

func (r *postgresShelfRepository) UpsertShelf(ctx context.Context, shelf *model.Shelf) error {
	if shelf.ID == "" {
		shelf.ID = uuid.NewString()
	}

	query := `
		INSERT INTO shelves (id, owner_id, name, is_public, description, like_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, NOW(), NOW())
		ON CONFLICT (owner_id, name) DO UPDATE
		SET is_public = EXCLUDED.is_public,
			description = EXCLUDED.description,
			updated_at = NOW()
		RETURNING id::text, like_count, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		shelf.ID,
		shelf.OwnerID,
		shelf.Name,
		shelf.IsPublic,
		shelf.Description,
	).Scan(&shelf.ID, &shelf.LikeCount, &shelf.CreatedAt, &shelf.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert shelf: %w", err)
	}

	return nil
}

func (r *postgresShelfRepository) DeleteShelf(ctx context.Context, ownerID, shelfID string) error {
	// Owner check and delete in one statement
	query := `DELETE FROM shelves WHERE id = $1 AND owner_id = $2`

	result, err := r.pool.Exec(ctx, query, shelfID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete shelf: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrShelfNotFound
	}

	return nil
}

func (r *postgresShelfRepository) EnsureSystemShelves(ctx context.Context, ownerID string) error {
	query := `
		INSERT INTO shelves (id, owner_id, name, is_public, like_count, created_at, updated_at)
		SELECT gen_random_uuid(), $1, n.name, FALSE, 0, NOW(), NOW()
		FROM UNNEST($2::text[]) AS n(name)
		ON CONFLICT (owner_id, name) DO NOTHING
	`

	if _, err := r.pool.Exec(ctx, query, ownerID, pq.Array(model.SystemShelfNames())); err != nil {
		return fmt.Errorf("failed to create system shelves: %w", err)
	}

	return nil
}

// =====================================================
// SHELF ITEMS
// =====================================================

// insertItemSQL resolves the shelf by owner and name inside the insert
const insertItemSQL = `
	INSERT INTO shelf_items (shelf_id, work_id, edition_id, notes, added_at)
	SELECT s.id, $3, $4, $5, NOW()
	FROM shelves s
	WHERE s.owner_id = $1 AND s.name = $2
	RETURNING shelf_id::text
`

func (r *postgresShelfRepository) CreateShelfItem(
	ctx context.Context,
	ownerID string,
	key model.ItemKey,
	shelfName string,
	notes *string,
) ([]model.ShelfItem, error) {
	var shelfID string
	err := r.pool.QueryRow(ctx, insertItemSQL, ownerID, shelfName, key.WorkID, key.EditionID, notes).Scan(&shelfID)
	if err != nil {
		return nil, mapItemError(err)
	}

	return r.listItems(ctx, r.pool, shelfID)
}

func (r *postgresShelfRepository) DeleteShelfItem(ctx context.Context, ownerID, shelfID string, key model.ItemKey) (bool, error) {
	result, err := r.pool.Exec(ctx, deleteItemSQL, shelfID, ownerID, key.WorkID)
	if err != nil {
		return false, fmt.Errorf("failed to delete shelf item: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// deleteItemSQL applies the ownership predicate in the same statement as the item match
const deleteItemSQL = `
	DELETE FROM shelf_items i
	USING shelves s
	WHERE i.shelf_id = s.id
		AND s.id = $1
		AND s.owner_id = $2
		AND i.work_id = $3
`

func (r *postgresShelfRepository) MoveShelfItem(
	ctx context.Context,
	ownerID string,
	key model.ItemKey,
	fromShelfID, toShelfName string,
) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		// Step 1: remove from the current shelf, keeping its notes
		var notes *string
		err := tx.QueryRow(ctx, deleteItemSQL+` RETURNING i.notes`, fromShelfID, ownerID, key.WorkID).Scan(&notes)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.ErrShelfItemNotFound
			}
			return fmt.Errorf("failed to delete shelf item: %w", err)
		}

		// Step 2: insert on the destination shelf
		var shelfID string
		if err := tx.QueryRow(ctx, insertItemSQL, ownerID, toShelfName, key.WorkID, key.EditionID, notes).Scan(&shelfID); err != nil {
			return mapItemError(err)
		}

		return nil
	})
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *postgresShelfRepository) listItems(ctx context.Context, q querier, shelfID string) ([]model.ShelfItem, error) {
	query := `
		SELECT shelf_id::text, work_id::text, edition_id::text, notes, added_at
		FROM shelf_items
		WHERE shelf_id = $1
		ORDER BY added_at
	`

	rows, err := q.Query(ctx, query, shelfID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shelf items: %w", err)
	}
	defer rows.Close()

	items := []model.ShelfItem{}
	for rows.Next() {
		var item model.ShelfItem
		if err := rows.Scan(&item.ShelfID, &item.WorkID, &item.EditionID, &item.Notes, &item.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shelf item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// mapItemError translates insert failures into shelf errors
func mapItemError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		// the SELECT found no shelf with that name for this owner
		return model.ErrShelfNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return model.ErrShelfItemExists
	}
	return fmt.Errorf("failed to create shelf item: %w", err)
}
