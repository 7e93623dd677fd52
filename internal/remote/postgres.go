package remote

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JSONMap stores a document payload in a jsonb column.
type JSONMap map[string]any

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", value)
	}
	return json.Unmarshal(raw, m)
}

// DocumentRow is the relational shape of one remote document.
type DocumentRow struct {
	Collection string    `gorm:"primaryKey;type:varchar(64)" json:"collection"`
	DocID      string    `gorm:"primaryKey;type:varchar(128);column:doc_id" json:"doc_id"`
	Data       JSONMap   `gorm:"type:jsonb;not null" json:"data"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (DocumentRow) TableName() string {
	return "documents"
}

// PostgresStore implements Store on a documents table. Transactions ride on
// database transactions with per-document FOR UPDATE locking, which serializes
// conflicting stock updates across instances.
type PostgresStore struct {
	db       *gorm.DB
	notifier notifier
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

var _ Store = (*PostgresStore)(nil)

func (s *PostgresStore) Get(ctx context.Context, collection, id string) (Document, error) {
	var row DocumentRow
	err := s.db.WithContext(ctx).
		First(&row, "collection = ? AND doc_id = ?", collection, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return Document{ID: row.DocID, Data: map[string]any(row.Data)}, nil
}

func (s *PostgresStore) Query(ctx context.Context, q Query) ([]Document, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	var rows []DocumentRow
	err := s.db.WithContext(ctx).
		Where("collection = ?", q.Collection).
		Order("doc_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	// Filters evaluate in Go so the memory store and this adapter share exact
	// query semantics (legacy payloads are too irregular for jsonb predicates).
	var docs []Document
	for _, row := range rows {
		doc := Document{ID: row.DocID, Data: map[string]any(row.Data)}
		if matches(q, doc) {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func (s *PostgresStore) Set(ctx context.Context, collection, id string, data map[string]any) error {
	row := DocumentRow{
		Collection: collection,
		DocID:      id,
		Data:       JSONMap(resolveTimestamps(cloneData(data))),
		UpdatedAt:  time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "doc_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return err
	}
	s.notifier.dispatch(s, map[string]bool{collection: true})
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return mergeFields(tx, collection, id, fields)
	})
	if err != nil {
		return err
	}
	s.notifier.dispatch(s, map[string]bool{collection: true})
	return nil
}

func mergeFields(tx *gorm.DB, collection, id string, fields map[string]any) error {
	var row DocumentRow
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&row, "collection = ? AND doc_id = ?", collection, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	for k, v := range resolveTimestamps(cloneData(fields)) {
		row.Data[k] = v
	}
	row.UpdatedAt = time.Now().UTC()
	return tx.Save(&row).Error
}

// pgTx runs Tx operations directly inside one database transaction. Gets lock
// the row FOR UPDATE; writes commit or roll back with the transaction.
type pgTx struct {
	tx      *gorm.DB
	touched map[string]bool
	err     error
}

func (t *pgTx) Get(collection, id string) (Document, error) {
	var row DocumentRow
	err := t.tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&row, "collection = ? AND doc_id = ?", collection, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return Document{ID: row.DocID, Data: map[string]any(row.Data)}, nil
}

func (t *pgTx) Set(collection, id string, data map[string]any) {
	if t.err != nil {
		return
	}
	row := DocumentRow{
		Collection: collection,
		DocID:      id,
		Data:       JSONMap(resolveTimestamps(cloneData(data))),
		UpdatedAt:  time.Now().UTC(),
	}
	t.err = t.tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "doc_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&row).Error
	t.touched[collection] = true
}

func (t *pgTx) Update(collection, id string, fields map[string]any) {
	if t.err != nil {
		return
	}
	t.err = mergeFields(t.tx, collection, id, fields)
	t.touched[collection] = true
}

func (s *PostgresStore) RunTransaction(ctx context.Context, fn func(tx Tx) error) error {
	touched := make(map[string]bool)
	err := s.db.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		ptx := &pgTx{tx: gtx, touched: touched}
		if err := fn(ptx); err != nil {
			return err
		}
		return ptx.err
	})
	if err != nil {
		return err
	}
	s.notifier.dispatch(s, touched)
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	err := s.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		Delete(&DocumentRow{}).Error
	if err != nil {
		return err
	}
	s.notifier.dispatch(s, map[string]bool{collection: true})
	return nil
}

func (s *PostgresStore) Subscribe(q Query, fn func(docs []Document)) (func(), error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	return s.notifier.subscribe(q, fn), nil
}
