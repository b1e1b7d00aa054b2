package database

import "fmt"

// ReplaceInsights atomically replaces the stored learning insights with a
// new set. Evidence is a JSON document shared by all insights of a cycle.
func (db *DB) ReplaceInsights(insights []string, evidence string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin insight replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM learning_insights"); err != nil {
		return fmt.Errorf("clearing insights: %w", err)
	}
	ts := now()
	for _, text := range insights {
		if _, err := tx.Exec(
			"INSERT INTO learning_insights (insight_text, evidence, created_at) VALUES (?, ?, ?)",
			text, evidence, ts); err != nil {
			return fmt.Errorf("inserting insight: %w", err)
		}
	}
	return tx.Commit()
}

// ListInsights returns all stored insights in insertion order.
func (db *DB) ListInsights() ([]LearningInsight, error) {
	rows, err := db.conn.Query(
		"SELECT id, insight_text, evidence, created_at FROM learning_insights ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing insights: %w", err)
	}
	defer rows.Close()

	var insights []LearningInsight
	for rows.Next() {
		var in LearningInsight
		if err := rows.Scan(&in.ID, &in.InsightText, &in.Evidence, &in.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning insight: %w", err)
		}
		insights = append(insights, in)
	}
	return insights, rows.Err()
}
