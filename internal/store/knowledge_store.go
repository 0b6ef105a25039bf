package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vrsandeep/comic-go/internal/knowledge"
	"github.com/vrsandeep/comic-go/internal/models"
)

var ErrKnowledgeNotFound = errors.New("knowledge entry not found")

// GetKnowledgeBase loads every knowledge entry with its volumes, in the
// order the series were first recorded.
func (s *Store) GetKnowledgeBase() ([]models.ComicKnowledge, error) {
	rows, err := s.db.Query("SELECT id, series, publisher, start_year FROM knowledge ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query knowledge: %w", err)
	}
	defer rows.Close()

	kb := make([]models.ComicKnowledge, 0)
	index := make(map[int64]int)
	for rows.Next() {
		var id int64
		var entry models.ComicKnowledge
		if err := rows.Scan(&id, &entry.Series, &entry.Publisher, &entry.StartYear); err != nil {
			return nil, err
		}
		entry.Volumes = []models.KnowledgeVolume{}
		index[id] = len(kb)
		kb = append(kb, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	volRows, err := s.db.Query("SELECT knowledge_id, volume, year FROM knowledge_volumes ORDER BY knowledge_id, position")
	if err != nil {
		return nil, fmt.Errorf("failed to query knowledge volumes: %w", err)
	}
	defer volRows.Close()
	for volRows.Next() {
		var knowledgeID int64
		var v models.KnowledgeVolume
		if err := volRows.Scan(&knowledgeID, &v.Volume, &v.Year); err != nil {
			return nil, err
		}
		if i, ok := index[knowledgeID]; ok {
			kb[i].Volumes = append(kb[i].Volumes, v)
		}
	}
	return kb, volRows.Err()
}

// SaveKnowledge merges entries into the stored knowledge base. Series that
// already exist are folded together with the incoming data rather than
// overwritten. The whole save happens in one transaction.
func (s *Store) SaveKnowledge(entries []models.ComicKnowledge) error {
	return s.inTx(func(tx *sql.Tx) error {
		for _, incoming := range knowledge.Merge(nil, entries) {
			if err := saveKnowledgeTx(tx, incoming); err != nil {
				return err
			}
		}
		return nil
	})
}

func saveKnowledgeTx(tx *sql.Tx, incoming models.ComicKnowledge) error {
	key := knowledge.NormalizeKey(incoming.Series)
	existing, id, err := loadKnowledgeTx(tx, key)
	if err != nil {
		return err
	}

	now := time.Now()
	if existing == nil {
		res, err := tx.Exec(`INSERT INTO knowledge (series, series_key, publisher, start_year, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`, incoming.Series, key, incoming.Publisher, incoming.StartYear, now, now)
		if err != nil {
			return fmt.Errorf("failed to insert knowledge for %s: %w", incoming.Series, err)
		}
		id, _ = res.LastInsertId()
		return replaceVolumesTx(tx, id, incoming.Volumes)
	}

	merged := knowledge.Merge([]models.ComicKnowledge{*existing}, []models.ComicKnowledge{incoming})[0]
	_, err = tx.Exec("UPDATE knowledge SET publisher = ?, start_year = ?, updated_at = ? WHERE id = ?",
		merged.Publisher, merged.StartYear, now, id)
	if err != nil {
		return fmt.Errorf("failed to update knowledge for %s: %w", merged.Series, err)
	}
	return replaceVolumesTx(tx, id, merged.Volumes)
}

// DeleteKnowledge removes a series and its volumes. Matching ignores case
// and surrounding whitespace.
func (s *Store) DeleteKnowledge(series string) error {
	res, err := s.db.Exec("DELETE FROM knowledge WHERE series_key = ?", knowledge.NormalizeKey(series))
	if err != nil {
		return fmt.Errorf("failed to delete knowledge: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrKnowledgeNotFound
	}
	return nil
}

func loadKnowledgeTx(tx *sql.Tx, key string) (*models.ComicKnowledge, int64, error) {
	var id int64
	var entry models.ComicKnowledge
	err := tx.QueryRow("SELECT id, series, publisher, start_year FROM knowledge WHERE series_key = ?", key).
		Scan(&id, &entry.Series, &entry.Publisher, &entry.StartYear)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}

	rows, err := tx.Query("SELECT volume, year FROM knowledge_volumes WHERE knowledge_id = ? ORDER BY position", id)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	for rows.Next() {
		var v models.KnowledgeVolume
		if err := rows.Scan(&v.Volume, &v.Year); err != nil {
			return nil, 0, err
		}
		entry.Volumes = append(entry.Volumes, v)
	}
	return &entry, id, rows.Err()
}

func replaceVolumesTx(tx *sql.Tx, knowledgeID int64, volumes []models.KnowledgeVolume) error {
	if _, err := tx.Exec("DELETE FROM knowledge_volumes WHERE knowledge_id = ?", knowledgeID); err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT INTO knowledge_volumes (knowledge_id, position, volume, year) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, v := range volumes {
		if strings.TrimSpace(v.Volume) == "" {
			continue
		}
		if _, err := stmt.Exec(knowledgeID, i, v.Volume, v.Year); err != nil {
			return err
		}
	}
	return nil
}
