package store

import (
	"context"
	"time"
)

type Message struct {
	ID          string    `json:"id_mensaje"`
	SenderID    string    `json:"id_emisor"`
	RecipientID string    `json:"id_receptor"`
	Body        string    `json:"contenido"`
	SentAt      time.Time `json:"fecha"`
}

func (s *Store) InsertMessage(ctx context.Context, m *Message) error {
	const q = `
	  INSERT INTO mensajes (id_mensaje, id_emisor, id_receptor, contenido, fecha)
	       VALUES ($1,$2,$3,$4,$5)`
	_, err := s.db.ExecContext(ctx, q,
		m.ID, m.SenderID, m.RecipientID, m.Body, m.SentAt)
	return err
}

// Conversation returns every message exchanged between two users, oldest first.
func (s *Store) Conversation(ctx context.Context, userA, userB string) ([]Message, error) {
	const q = `
	  SELECT id_mensaje, id_emisor, id_receptor, contenido, fecha
	    FROM mensajes
	   WHERE (id_emisor = $1 AND id_receptor = $2)
	      OR (id_emisor = $2 AND id_receptor = $1)
	   ORDER BY fecha ASC`
	rows, err := s.db.QueryContext(ctx, q, userA, userB)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]Message, 0)
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Body, &m.SentAt); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
