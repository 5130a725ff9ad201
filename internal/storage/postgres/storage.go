package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/mcoot/sleuthgame-go/internal/model"
	"github.com/mcoot/sleuthgame-go/internal/storage"
)

// Storage is a Postgres-backed implementation of the storage interface.
// Updates lock the session row for the length of a database transaction, so
// concurrent updates to one session queue behind each other.
type Storage struct {
	db *gorm.DB
}

// New opens the database and migrates the schema if configured to
func New(cfg Config) (*Storage, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	return &Storage{db: db}, nil
}

// NewWithDB creates a storage over an existing gorm DB (for testing)
func NewWithDB(db *gorm.DB) *Storage {
	return &Storage{db: db}
}

// Migrate creates or updates the session tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&sessionRow{}, &playerRow{}, &cardRow{}, &secretRow{}, &setRow{})
}

// Close closes the underlying connection pool
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) CreateSession(ctx context.Context, session *model.Session) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := toSessionRow(session)
		row.ID = 0
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		session.ID = model.SessionID(row.ID)
		return saveChildren(tx, session, nil)
	})
	if err != nil {
		return failure(err)
	}
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	var session *model.Session
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row sessionRow
		if err := tx.First(&row, int64(id)).Error; err != nil {
			return err
		}
		var err error
		session, err = load(tx, row)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrSessionNotFound
		}
		return nil, failure(err)
	}
	return session, nil
}

func (s *Storage) ListSessions(ctx context.Context) ([]*model.Session, error) {
	var sessions []*model.Session
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []sessionRow
		if err := tx.Order("id").Find(&rows).Error; err != nil {
			return err
		}
		sessions = make([]*model.Session, 0, len(rows))
		for _, row := range rows {
			session, err := load(tx, row)
			if err != nil {
				return err
			}
			sessions = append(sessions, session)
		}
		return nil
	})
	if err != nil {
		return nil, failure(err)
	}
	return sessions, nil
}

func (s *Storage) UpdateSession(ctx context.Context, id model.SessionID, fn storage.MutateFunc) (*model.Session, error) {
	var committed *model.Session
	var domainErr error

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row sessionRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&row, int64(id)).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				domainErr = model.ErrSessionNotFound
			}
			return err
		}

		session, err := load(tx, row)
		if err != nil {
			return err
		}
		before := session.Clone()

		if err := fn(session); err != nil {
			if !errors.Is(err, storage.ErrDeleteSession) {
				domainErr = err
				return err
			}
			if err := deleteRows(tx, id); err != nil {
				return err
			}
			committed = session
			return nil
		}

		sessionRow := toSessionRow(session)
		if err := tx.Save(&sessionRow).Error; err != nil {
			return err
		}
		if err := saveChildren(tx, session, before); err != nil {
			return err
		}
		committed = session
		return nil
	})
	if domainErr != nil {
		return nil, domainErr
	}
	if err != nil {
		return nil, failure(err)
	}
	return committed, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteRows(tx, id)
	})
	if err != nil {
		return failure(err)
	}
	return nil
}

// deleteRows removes a session row and every child row
func deleteRows(tx *gorm.DB, id model.SessionID) error {
	sid := int64(id)
	for _, m := range []any{&playerRow{}, &cardRow{}, &secretRow{}, &setRow{}} {
		if err := tx.Where("session_id = ?", sid).Delete(m).Error; err != nil {
			return err
		}
	}
	return tx.Delete(&sessionRow{}, sid).Error
}

func (s *Storage) FindPlayer(ctx context.Context, id model.PlayerID) (model.SessionID, error) {
	var row playerRow
	if err := s.db.WithContext(ctx).First(&row, int64(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, model.ErrPlayerNotFound
		}
		return 0, failure(err)
	}
	return model.SessionID(row.SessionID), nil
}

func load(tx *gorm.DB, row sessionRow) (*model.Session, error) {
	var (
		players []playerRow
		cards   []cardRow
		secrets []secretRow
		sets    []setRow
	)
	if err := tx.Where("session_id = ?", row.ID).Order("id").Find(&players).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("session_id = ?", row.ID).Order("card_id").Find(&cards).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("session_id = ?", row.ID).Order("secret_id").Find(&secrets).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("session_id = ?", row.ID).Order("set_id").Find(&sets).Error; err != nil {
		return nil, err
	}
	return assemble(row, players, cards, secrets, sets), nil
}

// saveChildren writes players, cards, secrets and sets. New players get
// their IDs from the database; players missing since before are deleted.
func saveChildren(tx *gorm.DB, session *model.Session, before *model.Session) error {
	kept := make(map[model.PlayerID]bool, len(session.Players))
	for i := range session.Players {
		p := &session.Players[i]
		row := toPlayerRow(session.ID, p)
		if p.ID == model.NoPlayer {
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			p.ID = model.PlayerID(row.ID)
		} else if err := tx.Save(&row).Error; err != nil {
			return err
		}
		p.SessionID = session.ID
		kept[p.ID] = true
	}
	if before != nil {
		var removed []int64
		for _, p := range before.Players {
			if !kept[p.ID] {
				removed = append(removed, int64(p.ID))
			}
		}
		if len(removed) > 0 {
			if err := tx.Delete(&playerRow{}, removed).Error; err != nil {
				return err
			}
		}
	}

	if len(session.Cards) > 0 {
		rows := make([]cardRow, 0, len(session.Cards))
		for i := range session.Cards {
			rows = append(rows, toCardRow(session.ID, &session.Cards[i]))
		}
		if err := upsert(tx, &rows); err != nil {
			return err
		}
	}
	if len(session.Secrets) > 0 {
		rows := make([]secretRow, 0, len(session.Secrets))
		for i := range session.Secrets {
			rows = append(rows, toSecretRow(session.ID, &session.Secrets[i]))
		}
		if err := upsert(tx, &rows); err != nil {
			return err
		}
	}
	if len(session.Sets) > 0 {
		rows := make([]setRow, 0, len(session.Sets))
		for i := range session.Sets {
			rows = append(rows, toSetRow(session.ID, &session.Sets[i]))
		}
		if err := upsert(tx, &rows); err != nil {
			return err
		}
	}
	return nil
}

func upsert(tx *gorm.DB, rows any) error {
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(rows).Error
}

func failure(err error) error {
	return fmt.Errorf("%w: %w", model.ErrStorageFailure, err)
}
