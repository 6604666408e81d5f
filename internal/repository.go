package internal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/firodj/mipsdis/models"
)

var ErrRunNotFound = errors.New("run not found")

// SQLRepository stores decoded runs in sqlite.
type SQLRepository struct {
	db *bun.DB
}

// MemoryDSN names a private in-memory database.
func MemoryDSN() string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
}

func NewSQLRepository(dsn string, verbose bool) (*SQLRepository, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}
	sqldb.SetMaxOpenConns(1)

	repo := &SQLRepository{
		db: bun.NewDB(sqldb, sqlitedialect.New()),
	}

	repo.db.AddQueryHook(bundebug.NewQueryHook(
		bundebug.WithVerbose(true),
		bundebug.WithEnabled(verbose),
	))

	return repo, nil
}

func (repo *SQLRepository) Close() error {
	return repo.db.Close()
}

func (repo *SQLRepository) CreateSchema(ctx context.Context) error {
	for _, model := range []interface{}{(*models.Run)(nil), (*models.Instruction)(nil)} {
		if _, err := repo.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}

	_, err := repo.db.NewCreateIndex().
		Model((*models.Instruction)(nil)).
		Index("instructions_run_id_idx").
		IfNotExists().
		Column("run_id").
		Exec(ctx)
	return err
}

// SaveRun stores results under a new run id.
func (repo *SQLRepository) SaveRun(ctx context.Context, source string, results []*DecodeResult) (*models.Run, error) {
	run := &models.Run{
		ID:     uuid.NewString(),
		Source: source,
		Count:  len(results),
	}

	rows := make([]models.Instruction, 0, len(results))
	for _, res := range results {
		row := models.Instruction{
			RunID:    run.ID,
			Line:     res.Entry.Line,
			AddrText: addressText(res.Entry),
			Address:  res.Entry.Address,
			Encoded:  res.Entry.Encoded,
			Text:     res.Text(),
			Failed:   res.Err != nil,
		}
		if res.Instr != nil {
			row.Mnemonic = res.Instr.Mnemonic
		}
		if row.Failed {
			run.Failed++
		}
		rows = append(rows, row)
	}

	err := repo.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(run).Exec(ctx); err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		_, err := tx.NewInsert().Model(&rows).Exec(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("save run: %w", err)
	}
	return run, nil
}

func (repo *SQLRepository) ListRuns(ctx context.Context) ([]models.Run, error) {
	var runs []models.Run
	err := repo.db.NewSelect().Model(&runs).Order("created_at DESC", "id").Scan(ctx)
	return runs, err
}

func (repo *SQLRepository) LoadRun(ctx context.Context, id string) (*models.Run, []models.Instruction, error) {
	run := new(models.Run)
	err := repo.db.NewSelect().Model(run).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	} else if err != nil {
		return nil, nil, err
	}

	var rows []models.Instruction
	err = repo.db.NewSelect().Model(&rows).Where("run_id = ?", id).Order("id").Scan(ctx)
	if err != nil {
		return nil, nil, err
	}
	return run, rows, nil
}
